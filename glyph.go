package fontstash

import "math"

// GlyphCell returns the texel cell of the coarse texel holding transform k
// in a transform texture w texels wide. The correction texel is (i+1, j).
//
//	i = (2k) mod w
//	j = floor(2k / w)
//
// w is expected to be even so the pair never straddles a row. Both divisions
// round toward negative infinity, matching GLSL mod and floor for negative k.
func GlyphCell(k, w int) (i, j int) {
	k2 := 2 * k
	i, j = k2%w, k2/w
	if i < 0 {
		i += w
		j--
	}
	return i, j
}

// TexelUV returns the normalized coordinate of the center of texel (i, j) in
// a w x h texture: ((2i+1)/(2w), (2j+1)/(2h)).
func TexelUV(i, j, w, h int) Vec2 {
	return texelUV(float64(i), float64(j), float64(w), float64(h))
}

func texelUV(i, j, w, h float64) Vec2 {
	return Vec2{
		X: (2*i + 1) / (2 * w),
		Y: (2*j + 1) / (2 * h),
	}
}

// cellOf is GlyphCell in floating point, the way the vertex program computes
// it from the float-typed resolution uniform.
func cellOf(k int, w float64) (i, j float64) {
	k2 := float64(k * 2)
	return glslMod(k2, w), math.Floor(k2 / w)
}

// TransformUVs returns the sampling coordinates of the coarse and the
// correction texel of transform k.
func TransformUVs(k, w, h int) (coarse, correction Vec2) {
	return transformUVs(k, float64(w), float64(h))
}

func transformUVs(k int, w, h float64) (coarse, correction Vec2) {
	i, j := cellOf(k, w)
	return texelUV(i, j, w, h), texelUV(i+1, j, w, h)
}

// glslMod is the GLSL mod: x - y*floor(x/y).
func glslMod(x, y float64) float64 {
	return x - y*math.Floor(x/y)
}
