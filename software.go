package fontstash

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/gogpu/fontstash/atlas"
)

// SoftwareRenderer draws runs on the CPU with the same vertex and fragment
// arithmetic the shaders use. It exists for tests, previews and targets
// without a GPU.
//
// A SoftwareRenderer is not safe for concurrent use.
type SoftwareRenderer struct {
	width, height int
	opts          rendererOptions
	proj          Mat4

	rasterizer *vector.Rasterizer
	coverage   *image.Alpha
}

// NewSoftwareRenderer creates a renderer for a width x height target.
func NewSoftwareRenderer(width, height int, opts ...Option) *SoftwareRenderer {
	o := defaultRendererOptions()
	for _, opt := range opts {
		opt(&o)
	}
	r := &SoftwareRenderer{
		width:      width,
		height:     height,
		opts:       o,
		proj:       ScreenOrtho(float64(width), float64(height)),
		rasterizer: vector.NewRasterizer(0, 0),
	}
	if o.proj != nil {
		r.proj = *o.proj
	}
	return r
}

// Mode returns the fragment program in use.
func (r *SoftwareRenderer) Mode() Mode { return r.opts.mode }

// Background returns the clear color used by Render.
func (r *SoftwareRenderer) Background() RGBA { return r.opts.background }

// Projection returns u_proj.
func (r *SoftwareRenderer) Projection() Mat4 { return r.proj }

// Resolution returns the target size as the u_resolution uniform.
func (r *SoftwareRenderer) Resolution() Vec2 {
	return Vec2{X: float64(r.width), Y: float64(r.height)}
}

// Render clears a new image to the background color and draws runs on it.
func (r *SoftwareRenderer) Render(a *atlas.Atlas, tt *TransformTexture, runs []*Run, u SDFUniforms) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(r.opts.background.Color()), image.Point{}, draw.Src)
	r.Draw(dst, a, tt, runs, u)
	return dst
}

// Draw blends runs onto dst with source-alpha, one-minus-source-alpha
// blending. In ModeDefault only the rgb of u.Color is used.
func (r *SoftwareRenderer) Draw(dst *image.RGBA, a *atlas.Atlas, tt *TransformTexture, runs []*Run, u SDFUniforms) {
	vu := VertexUniforms{
		Transforms:  tt,
		TResolution: tt.Size(),
		Resolution:  r.Resolution(),
		Proj:        r.proj,
	}
	tex := atlasSampler{a: a}

	for _, run := range runs {
		for _, q := range run.Quads() {
			var out [4]VertexOutput
			for i, v := range q.Vertices {
				out[i] = EvalVertex(v, vu)
			}
			r.drawQuad(dst, out, tex, u)
		}
	}
}

// window maps a clip space position to target pixels, y down.
func (r *SoftwareRenderer) window(p Vec4) Vec2 {
	ndc := p.PerspectiveDivide()
	return Vec2{
		X: (ndc.X + 1) / 2 * float64(r.width),
		Y: (1 - ndc.Y) / 2 * float64(r.height),
	}
}

func (r *SoftwareRenderer) drawQuad(dst *image.RGBA, v [4]VertexOutput, tex Sampler, u SDFUniforms) {
	var p [4]Vec2
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range v {
		p[i] = r.window(v[i].Position)
		minX, maxX = math.Min(minX, p[i].X), math.Max(maxX, p[i].X)
		minY, maxY = math.Min(minY, p[i].Y), math.Max(maxY, p[i].Y)
	}
	bb := image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	).Intersect(dst.Bounds())
	if bb.Empty() {
		return
	}

	// The quad is the image of a rectangle under an affine map, so any
	// point is p0 + s*e1 + t*e3 and (s, t) interpolate the texture
	// coordinates.
	e1 := p[1].Sub(p[0])
	e3 := p[3].Sub(p[0])
	det := e1.Cross(e3)
	if det == 0 {
		return
	}

	w, h := bb.Dx(), bb.Dy()
	r.rasterizer.Reset(w, h)
	r.rasterizer.DrawOp = draw.Src
	ox, oy := float64(bb.Min.X), float64(bb.Min.Y)
	r.rasterizer.MoveTo(float32(p[0].X-ox), float32(p[0].Y-oy))
	for i := 1; i < 4; i++ {
		r.rasterizer.LineTo(float32(p[i].X-ox), float32(p[i].Y-oy))
	}
	r.rasterizer.ClosePath()

	if r.coverage == nil || r.coverage.Rect.Dx() < w || r.coverage.Rect.Dy() < h {
		r.coverage = image.NewAlpha(image.Rect(0, 0, max(w, r.width), max(h, r.height)))
	}
	cr := image.Rect(0, 0, w, h)
	r.rasterizer.Draw(r.coverage, cr, image.Opaque, image.Point{})

	alpha := v[0].Alpha
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cov := r.coverage.Pix[y*r.coverage.Stride+x]
			if cov == 0 {
				continue
			}
			c := Vec2{X: ox + float64(x) + 0.5, Y: oy + float64(y) + 0.5}.Sub(p[0])
			s := c.Cross(e3) / det
			t := e1.Cross(c) / det
			uv := v[0].UV.Add(v[1].UV.Sub(v[0].UV).Mul(s)).Add(v[3].UV.Sub(v[0].UV).Mul(t))

			sample := tex.Sample(uv)
			var frag RGBA
			if r.opts.mode == ModeDefault {
				frag = EvalDefaultFragment(sample, alpha, DefaultUniforms{Color: u.Color})
			} else {
				frag = EvalSDFFragment(sample, u)
			}
			blend(dst, bb.Min.X+x, bb.Min.Y+y, frag, float64(cov)/255)
		}
	}
}

// blend composites a straight-alpha color over a premultiplied pixel.
func blend(dst *image.RGBA, x, y int, c RGBA, coverage float64) {
	sa := clamp01(c.A) * coverage
	if sa <= 0 {
		return
	}
	i := dst.PixOffset(x, y)
	d := dst.Pix[i : i+4 : i+4]
	inv := 1 - sa
	d[0] = to8(clamp01(c.R)*sa + float64(d[0])/255*inv)
	d[1] = to8(clamp01(c.G)*sa + float64(d[1])/255*inv)
	d[2] = to8(clamp01(c.B)*sa + float64(d[2])/255*inv)
	d[3] = to8(sa + float64(d[3])/255*inv)
}

func to8(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

// atlasSampler reads the atlas with bilinear filtering and clamp-to-edge
// addressing. The field is returned in the alpha channel with white rgb,
// matching the texture the GPU path uploads.
type atlasSampler struct {
	a *atlas.Atlas
}

func (s atlasSampler) Sample(uv Vec2) Vec4 {
	n := float64(s.a.Size())
	x := uv.X*n - 0.5
	y := uv.Y*n - 0.5
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0
	ix, iy := int(x0), int(y0)

	a00 := float64(s.a.AlphaAt(ix, iy))
	a10 := float64(s.a.AlphaAt(ix+1, iy))
	a01 := float64(s.a.AlphaAt(ix, iy+1))
	a11 := float64(s.a.AlphaAt(ix+1, iy+1))
	top := Mix(a00, a10, fx)
	bottom := Mix(a01, a11, fx)
	return Vec4{X: 1, Y: 1, Z: 1, W: Mix(top, bottom, fy) / 255}
}
