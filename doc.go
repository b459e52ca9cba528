// Package fontstash renders signed distance field text whose per-glyph
// placement lives in a texture rather than in vertex data.
//
// # Overview
//
// Every glyph quad carries an integer id. The vertex program turns the id
// into a pair of texels in a transform texture, reconstructs a translation,
// rotation and alpha from them, and places the quad. Moving or fading text
// therefore costs two texel writes per run instead of a vertex buffer
// rebuild.
//
// The GLSL and WGSL programs live in the shaders sub-package. This package
// holds the host side: the exact arithmetic those programs perform, the
// encoder that fills the transform texture, and a CPU renderer that runs the
// same arithmetic so output can be checked without a GPU.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/fontstash"
//	    "github.com/gogpu/fontstash/atlas"
//	    "golang.org/x/image/font/gofont/goregular"
//	    "golang.org/x/image/font/opentype"
//	)
//
//	f, _ := opentype.Parse(goregular.TTF)
//	face, _ := opentype.NewFace(f, &opentype.FaceOptions{Size: 48, DPI: 72})
//	a, _ := atlas.New(atlas.DefaultConfig())
//	_ = a.AddFace(face, []rune("Hello"))
//
//	tt, _ := fontstash.NewTransformTexture(64, 64)
//	id, _ := tt.Alloc()
//	run, _ := fontstash.NewRun(a, "Hello", id)
//	_ = tt.Set(id, fontstash.Transform{X: 100, Y: 200, Alpha: 1}, fontstash.V2(800, 600))
//
//	r := fontstash.NewSoftwareRenderer(800, 600)
//	img := r.Render(a, tt, []*fontstash.Run{run}, fontstash.DefaultSDFUniforms())
//
// # Transform Encoding
//
// Id k occupies texels (2k mod W, floor(2k/W)) and the one to its right.
// The first texel stores coarse translation, rotation in turns and alpha in
// its r, g, b, a channels. The second stores the quantization remainder of
// the translation in r and g, which gives about 16 bits for each axis:
//
//	tx = Rw*coarse.r + correction.r*(Rw/255)
//
// Rw and Rh are the render target size, not the transform texture size.
// The transform texture must be sampled with nearest filtering; see
// [TransformTexture.ValidateFilter].
//
// # Coordinate System
//
//   - Origin (0,0) at top-left when using [ScreenOrtho]
//   - X increases right
//   - Y increases down
//   - Angles in radians; the encoded value is in turns
//
// # Logging
//
// The package is silent by default. Call [SetLogger] to route diagnostics
// from this package, the atlas and the GPU pipeline to a [log/slog] logger.
package fontstash
