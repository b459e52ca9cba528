//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"image"
	"math"

	"github.com/gogpu/fontstash"
)

// glyphVertexStride is the byte stride per vertex in the glyph pipeline.
// Layout per vertex:
//
//	fsid      (f32)       = 4 bytes  (location 0)
//	position  (vec2<f32>) = 8 bytes  (location 1)
//	tex_coord (vec2<f32>) = 8 bytes  (location 2)
//
// Total = 20 bytes per vertex.
const glyphVertexStride = 20

// glyphUniformSize is the byte size of the GlyphUniforms block:
//
//	proj          mat4x4<f32>  0..64
//	tresolution   vec2<f32>    64
//	resolution    vec2<f32>    72
//	color         vec4<f32>    80
//	outline_color vec4<f32>    96
//	sdf_params    vec4<f32>    112
//	mix_factor    f32          128
//
// padded to the 16-byte struct alignment.
const glyphUniformSize = 144

// GlyphUniforms holds the values uploaded to the uniform block for a frame.
type GlyphUniforms struct {
	Proj        fontstash.Mat4
	TResolution fontstash.Vec2
	Resolution  fontstash.Vec2
	SDF         fontstash.SDFUniforms
}

// makeGlyphUniform serializes u into the 144-byte uniform block.
func makeGlyphUniform(u GlyphUniforms) []byte {
	buf := make([]byte, glyphUniformSize)
	off := 0
	put := func(v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
		off += 4
	}

	for _, v := range u.Proj.Float32() {
		put(v)
	}
	put(float32(u.TResolution.X))
	put(float32(u.TResolution.Y))
	put(float32(u.Resolution.X))
	put(float32(u.Resolution.Y))
	for _, v := range u.SDF.Color.Float32() {
		put(v)
	}
	for _, v := range u.SDF.OutlineColor.Float32() {
		put(v)
	}
	for _, v := range u.SDF.Params.Float32() {
		put(v)
	}
	put(float32(u.SDF.MixFactor))
	// Remaining 12 bytes are struct padding.
	return buf
}

// countQuads returns the number of quads across runs.
func countQuads(runs []*fontstash.Run) int {
	n := 0
	for _, r := range runs {
		if r != nil {
			n += len(r.Quads())
		}
	}
	return n
}

// buildGlyphVertexData serializes the vertices of every run for GPU upload.
// Each quad produces 4 vertices x 20 bytes = 80 bytes.
func buildGlyphVertexData(runs []*fontstash.Run) []byte {
	n := countQuads(runs)
	if n == 0 {
		return nil
	}
	data := make([]byte, n*4*glyphVertexStride)
	off := 0
	for _, r := range runs {
		if r == nil {
			continue
		}
		for _, v := range r.Vertices() {
			writeGlyphVertex(data[off:], v)
			off += glyphVertexStride
		}
	}
	return data
}

// writeGlyphVertex writes a single vertex into buf.
func writeGlyphVertex(buf []byte, v fontstash.VertexInput) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(float32(v.FSID)))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(float32(v.Position.X)))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(float32(v.Position.Y)))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(float32(v.TexCoord.X)))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(float32(v.TexCoord.Y)))
}

// buildGlyphIndexData serializes quad indices into raw uint32 bytes.
func buildGlyphIndexData(numQuads int) []byte {
	indices := fontstash.QuadIndices(0, numQuads)
	data := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(data[i*4:], idx)
	}
	return data
}

// alphaToRGBA expands a single-channel distance field to RGBA8 with white
// color channels and the distance in alpha, the channel both fragment
// programs read.
func alphaToRGBA(img *image.Alpha) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	rgba := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for x, a := range row {
			off := (y*w + x) * 4
			rgba[off+0] = 255
			rgba[off+1] = 255
			rgba[off+2] = 255
			rgba[off+3] = a
		}
	}
	return rgba
}
