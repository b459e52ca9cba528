package fontstash

// Smoothstep is the GLSL smoothstep: 0 at or below e0, 1 at or above e1 and
// a cubic Hermite ramp in between. When e0 == e1 it is the step x >= e1.
func Smoothstep(e0, e1, x float64) float64 {
	if e0 == e1 {
		if x >= e1 {
			return 1
		}
		return 0
	}
	t := clamp01((x - e0) / (e1 - e0))
	return t * t * (3 - 2*t)
}

// Mix is the GLSL mix: x*(1-a) + y*a.
func Mix(x, y, a float64) float64 {
	return x*(1-a) + y*a
}

// SDFParams are the four distance thresholds of u_sdfParams.
type SDFParams struct {
	MinOutline float64 // x
	MaxOutline float64 // y
	MinInside  float64 // z
	MaxInside  float64 // w
}

// DefaultSDFParams returns thresholds for a one pixel soft edge around the
// 0.5 iso line and an outline starting at 0.3.
func DefaultSDFParams() SDFParams {
	return SDFParams{
		MinOutline: 0.30,
		MaxOutline: 0.40,
		MinInside:  0.45,
		MaxInside:  0.55,
	}
}

// Float32 returns the thresholds in u_sdfParams order.
func (p SDFParams) Float32() [4]float32 {
	return [4]float32{float32(p.MinOutline), float32(p.MaxOutline), float32(p.MinInside), float32(p.MaxInside)}
}

// SDFUniforms holds the per-draw inputs of the SDF fragment program.
type SDFUniforms struct {
	Color        RGBA      // u_color
	OutlineColor RGBA      // u_outlineColor
	Params       SDFParams // u_sdfParams
	MixFactor    float64   // u_mixFactor, 0 outline only, 1 fill only
}

// DefaultSDFUniforms returns black fill with no outline.
func DefaultSDFUniforms() SDFUniforms {
	return SDFUniforms{
		Color:        Black,
		OutlineColor: Transparent,
		Params:       DefaultSDFParams(),
		MixFactor:    1,
	}
}

// EvalSDFFragment runs the SDF fragment program on an atlas sample. Only the
// alpha channel of the sample is read.
func EvalSDFFragment(tex Vec4, u SDFUniforms) RGBA {
	d := tex.W
	inside := u.Color.Scale(Smoothstep(u.Params.MinInside, u.Params.MaxInside, d))
	outline := u.OutlineColor.Scale(Smoothstep(u.Params.MinOutline, u.Params.MaxOutline, d))
	return outline.Lerp(inside, u.MixFactor)
}

// DefaultUniforms holds the per-draw inputs of the default fragment program.
// Only the rgb of Color is used.
type DefaultUniforms struct {
	Color RGBA // u_color
}

// EvalDefaultFragment runs the default fragment program: the atlas sample is
// an alpha mask tinted by Color and faded by the vertex alpha.
func EvalDefaultFragment(tex Vec4, alpha float64, u DefaultUniforms) RGBA {
	return RGBA{R: u.Color.R, G: u.Color.G, B: u.Color.B, A: tex.W * alpha}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
