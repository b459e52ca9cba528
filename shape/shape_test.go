package shape

import (
	"errors"
	"math"
	"testing"

	"github.com/go-text/typesetting/language"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/gogpu/fontstash"
	"github.com/gogpu/fontstash/atlas"
)

func newShaper(t *testing.T) *Shaper {
	t.Helper()
	s, err := New(goregular.TTF)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return s
}

func TestNewErrors(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoFontData) {
		t.Errorf("New(nil) = %v, want ErrNoFontData", err)
	}
	if _, err := New([]byte("not a font")); err == nil {
		t.Error("New accepted garbage")
	}
}

func TestShapeAdvancesMatchFace(t *testing.T) {
	s := newShaper(t)
	placed, advance := s.Shape("Hello", 32)
	if len(placed) != 5 {
		t.Fatalf("len(placed) = %d, want 5", len(placed))
	}
	for i, r := range "Hello" {
		if placed[i].Rune != r {
			t.Errorf("placed[%d].Rune = %q, want %q", i, placed[i].Rune, r)
		}
		if i > 0 && placed[i].X <= placed[i-1].X {
			t.Errorf("placed[%d] does not advance", i)
		}
		if placed[i].Y != 0 {
			t.Errorf("placed[%d].Y = %v, want baseline", i, placed[i].Y)
		}
	}

	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 32, DPI: 72, Hinting: xfont.HintingNone})
	if err != nil {
		t.Fatal(err)
	}
	want := float64(xfont.MeasureString(face, "Hello")) / 64
	if math.Abs(advance-want) > 2 {
		t.Errorf("advance = %v, want about %v", advance, want)
	}
}

func TestShapeEmpty(t *testing.T) {
	s := newShaper(t)
	if placed, advance := s.Shape("", 12); placed != nil || advance != 0 {
		t.Errorf("Shape(\"\") = %v, %v", placed, advance)
	}
}

func TestShapeNormalizes(t *testing.T) {
	s := newShaper(t)
	placed, _ := s.Shape("e\u0301", 16)
	if len(placed) != 1 || placed[0].Rune != '\u00e9' {
		t.Errorf("placed = %+v, want a single precomposed e-acute", placed)
	}
}

func TestRun(t *testing.T) {
	s := newShaper(t)
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 24, DPI: 72, Hinting: xfont.HintingNone})
	if err != nil {
		t.Fatal(err)
	}
	a, err := atlas.New(atlas.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := a.AddFace(face, []rune("AV To")); err != nil {
		t.Fatal(err)
	}

	run, err := s.Run(a, "AV To", 24, 5)
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	// The space has no quad.
	if len(run.Quads()) != 4 || run.ID() != 5 {
		t.Errorf("quads, id = %d, %d", len(run.Quads()), run.ID())
	}
	if _, err := s.Run(a, "zz", 24, 0); !errors.Is(err, fontstash.ErrEmptyRun) {
		t.Errorf("Run with unknown runes = %v, want ErrEmptyRun", err)
	}
}

func TestDetectScript(t *testing.T) {
	tests := []struct {
		text string
		want language.Script
	}{
		{"  abc", language.Latin},
		{"", language.Latin},
		{"Привет", language.Cyrillic},
	}
	for _, tt := range tests {
		if got := detectScript([]rune(tt.text)); got != tt.want {
			t.Errorf("detectScript(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
