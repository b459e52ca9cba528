//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"image"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/fontstash"
)

func readF32(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestMakeGlyphUniformLayout(t *testing.T) {
	u := GlyphUniforms{
		Proj:        fontstash.ScreenOrtho(640, 480),
		TResolution: fontstash.V2(64, 32),
		Resolution:  fontstash.V2(640, 480),
		SDF: fontstash.SDFUniforms{
			Color:        fontstash.RGBA2(0.1, 0.2, 0.3, 0.4),
			OutlineColor: fontstash.RGBA2(0.5, 0.6, 0.7, 0.8),
			Params:       fontstash.DefaultSDFParams(),
			MixFactor:    0.25,
		},
	}
	buf := makeGlyphUniform(u)
	if len(buf) != glyphUniformSize {
		t.Fatalf("len = %d, want %d", len(buf), glyphUniformSize)
	}

	proj := u.Proj.Float32()
	for i := range proj {
		if got := readF32(buf, i*4); got != proj[i] {
			t.Errorf("proj[%d] = %v, want %v", i, got, proj[i])
		}
	}

	tests := []struct {
		name string
		off  int
		want float32
	}{
		{"tresolution.x", 64, 64},
		{"tresolution.y", 68, 32},
		{"resolution.x", 72, 640},
		{"resolution.y", 76, 480},
		{"color.r", 80, 0.1},
		{"color.a", 92, 0.4},
		{"outline_color.r", 96, 0.5},
		{"outline_color.a", 108, 0.8},
		{"sdf_params.min_outline", 112, 0.30},
		{"sdf_params.max_outline", 116, 0.40},
		{"sdf_params.min_inside", 120, 0.45},
		{"sdf_params.max_inside", 124, 0.55},
		{"mix_factor", 128, 0.25},
		{"padding", 132, 0},
	}
	for _, tt := range tests {
		if got := readF32(buf, tt.off); got != tt.want {
			t.Errorf("%s @%d = %v, want %v", tt.name, tt.off, got, tt.want)
		}
	}
}

func TestBuildGlyphVertexData(t *testing.T) {
	if data := buildGlyphVertexData(nil); data != nil {
		t.Errorf("nil runs produced %d bytes", len(data))
	}

	_, _, runs := newTestScene(t, "AB", "c")
	data := buildGlyphVertexData(runs)
	quads := countQuads(runs)
	if quads != 3 {
		t.Fatalf("countQuads = %d, want 3", quads)
	}
	if len(data) != quads*4*glyphVertexStride {
		t.Fatalf("len = %d, want %d", len(data), quads*4*glyphVertexStride)
	}

	var got []fontstash.VertexInput
	for off := 0; off < len(data); off += glyphVertexStride {
		got = append(got, fontstash.VertexInput{
			FSID:     float64(readF32(data, off)),
			Position: fontstash.V2(float64(readF32(data, off+4)), float64(readF32(data, off+8))),
			TexCoord: fontstash.V2(float64(readF32(data, off+12)), float64(readF32(data, off+16))),
		})
	}
	var want []fontstash.VertexInput
	for _, r := range runs {
		for _, v := range r.Vertices() {
			want = append(want, fontstash.VertexInput{
				FSID:     float64(float32(v.FSID)),
				Position: fontstash.V2(float64(float32(v.Position.X)), float64(float32(v.Position.Y))),
				TexCoord: fontstash.V2(float64(float32(v.TexCoord.X)), float64(float32(v.TexCoord.Y))),
			})
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", diff)
	}
	// The second run's vertices carry its own id.
	if got[8].FSID != float64(runs[1].ID()) {
		t.Errorf("third quad fsid = %v, want %d", got[8].FSID, runs[1].ID())
	}
}

func TestBuildGlyphIndexData(t *testing.T) {
	data := buildGlyphIndexData(2)
	var got []uint32
	for i := 0; i < len(data); i += 4 {
		got = append(got, binary.LittleEndian.Uint32(data[i:]))
	}
	want := []uint32{0, 1, 2, 2, 3, 0, 4, 5, 6, 6, 7, 4}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("indices mismatch (-want +got):\n%s", diff)
	}
}

func TestAlphaToRGBA(t *testing.T) {
	img := image.NewAlpha(image.Rect(0, 0, 2, 2))
	img.Pix = []uint8{0, 64, 128, 255}
	got := alphaToRGBA(img)
	want := []byte{
		255, 255, 255, 0, 255, 255, 255, 64,
		255, 255, 255, 128, 255, 255, 255, 255,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("alphaToRGBA mismatch (-want +got):\n%s", diff)
	}
}

func TestCopyRows(t *testing.T) {
	// Two rows of one pixel each, padded to an 8-byte stride.
	src := []byte{
		1, 2, 3, 4, 0, 0, 0, 0,
		5, 6, 7, 8, 0, 0, 0, 0,
	}
	dst := image.NewRGBA(image.Rect(0, 0, 1, 2))
	copyRows(dst, src, 8, false)
	if diff := cmp.Diff([]byte{1, 2, 3, 4, 5, 6, 7, 8}, dst.Pix); diff != "" {
		t.Errorf("rgba mismatch (-want +got):\n%s", diff)
	}
	copyRows(dst, src, 8, true)
	if diff := cmp.Diff([]byte{3, 2, 1, 4, 7, 6, 5, 8}, dst.Pix); diff != "" {
		t.Errorf("bgra mismatch (-want +got):\n%s", diff)
	}
}
