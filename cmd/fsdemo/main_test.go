package main

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/gogpu/fontstash"
	"github.com/gogpu/fontstash/shaders"
)

func inked(img *image.RGBA) image.Rectangle {
	var r image.Rectangle
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			if img.RGBAAt(x, y).A > 0 {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

func TestSceneRender(t *testing.T) {
	s := scene{text: "fontstash", size: 32, width: 320, height: 96}
	img, err := s.render(fontstash.DefaultSDFUniforms())
	if err != nil {
		t.Fatalf("render() = %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 320, 96) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	ink := inked(img)
	if ink.Empty() {
		t.Fatal("nothing drawn")
	}
	// Roughly centered horizontally.
	left, right := ink.Min.X, 320-ink.Max.X
	if d := left - right; d < -12 || d > 12 {
		t.Errorf("ink %v not centered: margins %d and %d", ink, left, right)
	}
}

func TestSceneRenderShaped(t *testing.T) {
	plain := scene{text: "AVAVAV", size: 32, width: 320, height: 96}
	shaped := plain
	shaped.shaped = true

	a, err := plain.render(fontstash.DefaultSDFUniforms())
	if err != nil {
		t.Fatal(err)
	}
	b, err := shaped.render(fontstash.DefaultSDFUniforms())
	if err != nil {
		t.Fatal(err)
	}
	ia, ib := inked(a), inked(b)
	if ib.Empty() {
		t.Fatal("shaped scene drew nothing")
	}
	if d := ia.Dx() - ib.Dx(); d < -8 || d > 8 {
		t.Errorf("plain ink %v and shaped ink %v differ too much", ia, ib)
	}
}

func TestSceneRenderRotated(t *testing.T) {
	flat := scene{text: "IIIIIIII", size: 32, width: 256, height: 256}
	tall := flat
	tall.theta = 1.5707963267948966

	a, err := flat.render(fontstash.DefaultSDFUniforms())
	if err != nil {
		t.Fatal(err)
	}
	b, err := tall.render(fontstash.DefaultSDFUniforms())
	if err != nil {
		t.Fatal(err)
	}
	ia, ib := inked(a), inked(b)
	if ia.Dx() <= ia.Dy() || ib.Dy() <= ib.Dx() {
		t.Errorf("flat ink %v, rotated ink %v", ia, ib)
	}
}

func TestDumpShaders(t *testing.T) {
	tests := []struct {
		kind string
		want []string
	}{
		{"glsl", []string{"a_fsid", "u_sdfParams"}},
		{"wgsl", []string{shaders.EntryVertex, shaders.EntrySDFFragment}},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			var buf bytes.Buffer
			if err := dumpShaders(&buf, tt.kind); err != nil {
				t.Fatalf("dumpShaders() = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output lacks %q", w)
				}
			}
		})
	}
	if err := dumpShaders(&bytes.Buffer{}, "hlsl"); err == nil {
		t.Error("unknown kind accepted")
	}
}
