package atlas

import (
	"image"
	"math"
)

// coverageThreshold splits a coverage mask into inside and outside texels.
const coverageThreshold = 128

// distanceField computes the signed distance field of mask. Texels are
// inside when their coverage is at least coverageThreshold. The distance to
// the nearest texel of opposite state is measured between texel centers,
// less half a texel so that neighbours across the edge sit symmetrically
// around it. Distances saturate at spread.
//
// The result maps the edge to edge*255, full inside distance to 255 and
// full outside distance to 0.
func distanceField(mask *image.Alpha, spread int, edge float64) *image.Alpha {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewAlpha(image.Rect(0, 0, w, h))

	inside := make([]bool, w*h)
	for y := 0; y < h; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x, a := range row {
			inside[y*w+x] = a >= coverageThreshold
		}
	}

	maxD2 := spread * spread
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			in := inside[y*w+x]
			best := maxD2 + 1

			y0, y1 := max(0, y-spread), min(h-1, y+spread)
			x0, x1 := max(0, x-spread), min(w-1, x+spread)
			for sy := y0; sy <= y1; sy++ {
				dy := sy - y
				dy2 := dy * dy
				if dy2 >= best {
					continue
				}
				for sx := x0; sx <= x1; sx++ {
					if inside[sy*w+sx] == in {
						continue
					}
					dx := sx - x
					if d2 := dx*dx + dy2; d2 < best {
						best = d2
					}
				}
			}

			d := float64(spread)
			if best <= maxD2 {
				d = math.Sqrt(float64(best)) - 0.5
			}
			out.Pix[y*out.Stride+x] = encodeDistance(d, in, float64(spread), edge)
		}
	}
	return out
}

// encodeDistance maps an unsigned distance in pixels to a field byte.
func encodeDistance(d float64, inside bool, spread, edge float64) uint8 {
	d = math.Min(d, spread)
	var v float64
	if inside {
		v = edge + (1-edge)*d/spread
	} else {
		v = edge - edge*d/spread
	}
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
