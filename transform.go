package fontstash

import (
	"math"
)

const (
	// channelMax is the largest value of an 8-bit channel.
	channelMax = 255

	// fineSteps is the number of distinct translations the coarse and
	// correction texels can express together.
	fineSteps = channelMax * channelMax
)

// Texel is one RGBA8 texel of the transform texture.
type Texel struct {
	R, G, B, A uint8
}

// Vec4 returns the texel as the shader samples it: every channel divided
// by 255.
func (t Texel) Vec4() Vec4 {
	return Vec4{
		X: float64(t.R) / channelMax,
		Y: float64(t.G) / channelMax,
		Z: float64(t.B) / channelMax,
		W: float64(t.A) / channelMax,
	}
}

// Transform is the placement of one glyph run: a rotation by Theta radians
// about the run origin, then a translation by (X, Y) in render target
// pixels. Alpha is passed to the fragment stage.
type Transform struct {
	X, Y  float64
	Theta float64
	Alpha float64
}

// Apply rotates p by Theta and then translates it by (X, Y).
func (t Transform) Apply(p Vec2) Vec2 {
	st, ct := math.Sincos(t.Theta)
	return Vec2{
		X: p.X*ct - p.Y*st + t.X,
		Y: p.X*st + p.Y*ct + t.Y,
	}
}

// DecodeTransform reconstructs a transform from the sampled coarse and
// correction texels. resolution is the render target size in pixels.
//
//	tx    = Rw*coarse.x + correction.x*(Rw/255)
//	ty    = Rh*coarse.y + correction.y*(Rh/255)
//	theta = coarse.z * 2pi
//	alpha = coarse.w
func DecodeTransform(coarse, correction Vec4, resolution Vec2) Transform {
	txe := resolution.X / channelMax
	tye := resolution.Y / channelMax
	return Transform{
		X:     resolution.X*coarse.X + correction.X*txe,
		Y:     resolution.Y*coarse.Y + correction.Y*tye,
		Theta: coarse.Z * 2 * math.Pi,
		Alpha: coarse.W,
	}
}

// EncodeTransform quantizes t into the coarse and correction texels that
// DecodeTransform reverses.
//
// X and Y are clamped to [0, resolution] and quantized to 1/65025 of the
// resolution, so the decoded translation is within resolution/65025 of the
// clamped input. Theta is reduced to [0, 2pi) and stored in 8 bits. Alpha is
// clamped to [0, 1]. The b and a channels of the correction texel are zero.
func EncodeTransform(t Transform, resolution Vec2) (coarse, correction Texel) {
	qx := quantizeFine(t.X, resolution.X)
	qy := quantizeFine(t.Y, resolution.Y)

	coarse = Texel{
		R: uint8(qx / channelMax),
		G: uint8(qy / channelMax),
		B: quantize8(turns(t.Theta)),
		A: quantize8(t.Alpha),
	}
	correction = Texel{
		R: uint8(qx % channelMax),
		G: uint8(qy % channelMax),
	}
	return coarse, correction
}

func quantizeFine(v, r float64) int {
	if r <= 0 || math.IsNaN(v) {
		return 0
	}
	q := math.Round(v / r * fineSteps)
	switch {
	case q < 0:
		return 0
	case q > fineSteps:
		return fineSteps
	}
	return int(q)
}

func quantize8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return channelMax
	}
	return uint8(math.Round(v * channelMax))
}

// turns maps an angle in radians to [0, 1) turns.
func turns(theta float64) float64 {
	if math.IsNaN(theta) || math.IsInf(theta, 0) {
		return 0
	}
	f := theta / (2 * math.Pi)
	return f - math.Floor(f)
}
