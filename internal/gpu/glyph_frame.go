//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/fontstash"
)

// glyphFrame holds the per-frame buffers and bind group. Buffers are kept
// between frames and regrown when a frame needs more room.
type glyphFrame struct {
	vertBuf    hal.Buffer
	idxBuf     hal.Buffer
	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup
	indexCount uint32

	// quadCap is the number of quads the vertex and index buffers hold.
	quadCap int
}

// update uploads vertices, indices and uniforms for runs and rebuilds the
// bind group against the current textures.
func (f *glyphFrame) update(p *GlyphPipeline, textures *glyphTextures, runs []*fontstash.Run, u GlyphUniforms, initialQuads int) error {
	device, queue := p.device, p.queue
	quads := countQuads(runs)

	if quads > f.quadCap {
		capacity := f.quadCap
		if capacity < initialQuads {
			capacity = initialQuads
		}
		if capacity < 1 {
			capacity = 1
		}
		for capacity < quads {
			capacity *= 2
		}
		f.destroyGeometry(device)
		if err := f.createGeometry(device, capacity); err != nil {
			return err
		}
		slogger().Debug("gpu: glyph buffers grown", "quads", capacity,
			"vertex_bytes", capacity*4*glyphVertexStride, "index_bytes", capacity*6*4)
	}

	if f.uniformBuf == nil {
		buf, err := device.CreateBuffer(&hal.BufferDescriptor{
			Label: "glyph_uniforms",
			Size:  glyphUniformSize,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create glyph uniform buffer: %w", err)
		}
		f.uniformBuf = buf
	}

	if quads > 0 {
		if err := queue.WriteBuffer(f.vertBuf, 0, buildGlyphVertexData(runs)); err != nil {
			return fmt.Errorf("upload glyph vertices: %w", err)
		}
		if err := queue.WriteBuffer(f.idxBuf, 0, buildGlyphIndexData(quads)); err != nil {
			return fmt.Errorf("upload glyph indices: %w", err)
		}
	}
	if err := queue.WriteBuffer(f.uniformBuf, 0, makeGlyphUniform(u)); err != nil {
		return fmt.Errorf("upload glyph uniforms: %w", err)
	}

	if f.bindGroup != nil {
		device.DestroyBindGroup(f.bindGroup)
		f.bindGroup = nil
	}
	bg, err := p.createBindGroup(f.uniformBuf, textures)
	if err != nil {
		return err
	}
	f.bindGroup = bg
	f.indexCount = uint32(quads * 6) //nolint:gosec // quads bounded by MaxQuads
	return nil
}

func (f *glyphFrame) createGeometry(device hal.Device, quads int) error {
	vb, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "glyph_vertices",
		Size:  uint64(quads * 4 * glyphVertexStride), //nolint:gosec // bounded by MaxQuads
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create glyph vertex buffer: %w", err)
	}
	ib, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "glyph_indices",
		Size:  uint64(quads * 6 * 4), //nolint:gosec // bounded by MaxQuads
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		device.DestroyBuffer(vb)
		return fmt.Errorf("create glyph index buffer: %w", err)
	}
	f.vertBuf, f.idxBuf = vb, ib
	f.quadCap = quads
	return nil
}

func (f *glyphFrame) destroyGeometry(device hal.Device) {
	if f.vertBuf != nil {
		device.DestroyBuffer(f.vertBuf)
		f.vertBuf = nil
	}
	if f.idxBuf != nil {
		device.DestroyBuffer(f.idxBuf)
		f.idxBuf = nil
	}
	f.quadCap = 0
}

func (f *glyphFrame) destroy(device hal.Device) {
	if f.bindGroup != nil {
		device.DestroyBindGroup(f.bindGroup)
		f.bindGroup = nil
	}
	if f.uniformBuf != nil {
		device.DestroyBuffer(f.uniformBuf)
		f.uniformBuf = nil
	}
	f.destroyGeometry(device)
	f.indexCount = 0
}
