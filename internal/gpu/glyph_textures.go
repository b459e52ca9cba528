//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/fontstash"
	"github.com/gogpu/fontstash/atlas"
)

// glyphTextures holds the GPU copies of the transform texture and the SDF
// atlas. Both are RGBA8 and recreated when the host size changes.
type glyphTextures struct {
	transformTex  hal.Texture
	transformView hal.TextureView
	transformW    int
	transformH    int

	atlasTex  hal.Texture
	atlasView hal.TextureView
	atlasSize int
	// atlasUploaded is false until the first full upload after creation.
	atlasUploaded bool
	// transformUploaded is false until the first full upload after creation.
	transformUploaded bool
}

// syncTransforms uploads the rows of tt written since the last sync. The
// texture is recreated and fully uploaded when its size changes.
func (g *glyphTextures) syncTransforms(device hal.Device, queue hal.Queue, tt *fontstash.TransformTexture) error {
	if err := tt.ValidateFilter(); err != nil {
		return err
	}
	w, h := tt.Width(), tt.Height()
	if g.transformTex == nil || g.transformW != w || g.transformH != h {
		g.destroyTransform(device)
		tex, view, err := createSampledTexture(device, "glyph_transforms", w, h)
		if err != nil {
			return err
		}
		g.transformTex, g.transformView = tex, view
		g.transformW, g.transformH = w, h
		g.transformUploaded = false
	}

	first, last, pix, ok := tt.TakeDirty()
	if !g.transformUploaded {
		first, last, ok = 0, h, true
		pix = tt.Pix(0, h)
	}
	if !ok {
		return nil
	}
	if err := writeRows(queue, g.transformTex, pix, w, first, last-first); err != nil {
		tt.MarkDirty(first, last)
		return fmt.Errorf("upload transforms: %w", err)
	}
	slogger().Debug("gpu: transform rows uploaded", "first", first, "last", last, "bytes", len(pix))
	g.transformUploaded = true
	return nil
}

// syncAtlas uploads the atlas when glyphs were added since the last sync.
func (g *glyphTextures) syncAtlas(device hal.Device, queue hal.Queue, a *atlas.Atlas) error {
	size := a.Size()
	if g.atlasTex == nil || g.atlasSize != size {
		g.destroyAtlas(device)
		tex, view, err := createSampledTexture(device, "glyph_atlas", size, size)
		if err != nil {
			return err
		}
		g.atlasTex, g.atlasView = tex, view
		g.atlasSize = size
		g.atlasUploaded = false
	}
	if g.atlasUploaded && !a.Dirty() {
		return nil
	}
	pix := alphaToRGBA(a.TakeImage())
	if err := writeRows(queue, g.atlasTex, pix, size, 0, size); err != nil {
		a.MarkDirty()
		return fmt.Errorf("upload atlas: %w", err)
	}
	slogger().Debug("gpu: atlas uploaded", "size", size, "glyphs", a.Len())
	g.atlasUploaded = true
	return nil
}

func (g *glyphTextures) destroyTransform(device hal.Device) {
	if g.transformView != nil {
		device.DestroyTextureView(g.transformView)
		g.transformView = nil
	}
	if g.transformTex != nil {
		device.DestroyTexture(g.transformTex)
		g.transformTex = nil
	}
}

func (g *glyphTextures) destroyAtlas(device hal.Device) {
	if g.atlasView != nil {
		device.DestroyTextureView(g.atlasView)
		g.atlasView = nil
	}
	if g.atlasTex != nil {
		device.DestroyTexture(g.atlasTex)
		g.atlasTex = nil
	}
}

func (g *glyphTextures) destroy(device hal.Device) {
	g.destroyAtlas(device)
	g.destroyTransform(device)
}

// createSampledTexture creates an RGBA8 texture that can be sampled and
// written from the queue, plus a full view.
func createSampledTexture(device hal.Device, label string, w, h int) (hal.Texture, hal.TextureView, error) {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label: label,
		Size: hal.Extent3D{
			Width:              uint32(w), //nolint:gosec // sizes validated by the host texture
			Height:             uint32(h), //nolint:gosec // sizes validated by the host texture
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create %s texture: %w", label, err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, nil, fmt.Errorf("create %s view: %w", label, err)
	}
	return tex, view, nil
}

// writeRows uploads rows tightly packed RGBA8 rows starting at row y.
func writeRows(queue hal.Queue, tex hal.Texture, pix []byte, width, y, rows int) error {
	if rows <= 0 {
		return nil
	}
	return queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: 0, Y: uint32(y), Z: 0}, //nolint:gosec // y < texture height
			Aspect:   gputypes.TextureAspectAll,
		},
		pix,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(width * 4), //nolint:gosec // width <= MaxTransformTextureSize
			RowsPerImage: uint32(rows),      //nolint:gosec // rows <= texture height
		},
		&hal.Extent3D{Width: uint32(width), Height: uint32(rows), DepthOrArrayLayers: 1}, //nolint:gosec // bounded sizes
	)
}
