package atlas

import (
	"bytes"
	"errors"
	"image"
	"sync"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

func newFace(t testing.TB, size float64) font.Face {
	t.Helper()
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("opentype.Parse: %v", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		t.Fatalf("opentype.NewFace: %v", err)
	}
	return face
}

// --- Config Tests ---

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"default", func(*Config) {}, ""},
		{"size too small", func(c *Config) { c.Size = 32 }, "Size"},
		{"size too large", func(c *Config) { c.Size = 16384 }, "Size"},
		{"size not power of 2", func(c *Config) { c.Size = 300 }, "Size"},
		{"negative padding", func(c *Config) { c.Padding = -1 }, "Padding"},
		{"zero spread", func(c *Config) { c.Spread = 0 }, "Spread"},
		{"huge spread", func(c *Config) { c.Spread = 65 }, "Spread"},
		{"edge zero", func(c *Config) { c.EdgeValue = 0 }, "EdgeValue"},
		{"edge one", func(c *Config) { c.EdgeValue = 1 }, "EdgeValue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)
			err := c.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestNewInvalidConfig(t *testing.T) {
	c := DefaultConfig()
	c.Size = 100
	if _, err := New(c); err == nil {
		t.Fatal("New() with invalid config succeeded")
	}
}

// --- Shelf Tests ---

func TestShelfPacker(t *testing.T) {
	p := newShelfPacker(50, 100, 2)

	x, y, ok := p.allocate(20, 20)
	if !ok || x != 0 || y != 0 {
		t.Fatalf("first = (%d,%d,%v), want (0,0,true)", x, y, ok)
	}
	x, y, ok = p.allocate(20, 20)
	if !ok || x != 22 || y != 0 {
		t.Fatalf("second = (%d,%d,%v), want (22,0,true)", x, y, ok)
	}
	x, y, ok = p.allocate(20, 20)
	if !ok || x != 0 || y != 22 {
		t.Fatalf("third = (%d,%d,%v), want (0,22,true)", x, y, ok)
	}
	if _, _, ok = p.allocate(60, 10); ok {
		t.Error("allocated a rectangle wider than the packer")
	}
	if _, _, ok = p.allocate(0, 10); ok {
		t.Error("allocated an empty rectangle")
	}
}

func TestShelfPackerFull(t *testing.T) {
	p := newShelfPacker(64, 64, 0)
	n := 0
	for {
		if _, _, ok := p.allocate(16, 16); !ok {
			break
		}
		n++
	}
	if n != 16 {
		t.Errorf("packed %d cells, want 16", n)
	}
	if u := p.utilization(); u != 1 {
		t.Errorf("utilization = %v, want 1", u)
	}
}

// --- Distance Field Tests ---

func TestDistanceFieldSquare(t *testing.T) {
	const spread = 4
	mask := image.NewAlpha(image.Rect(0, 0, 20, 20))
	for y := 8; y < 12; y++ {
		for x := 8; x < 12; x++ {
			mask.Pix[y*mask.Stride+x] = 255
		}
	}
	field := distanceField(mask, spread, 0.5)

	at := func(x, y int) uint8 { return field.Pix[y*field.Stride+x] }

	if v := at(0, 0); v != 0 {
		t.Errorf("far outside = %d, want 0", v)
	}
	// Texels on either side of the edge are half a texel away from it.
	in, out := at(8, 10), at(7, 10)
	if in <= 127 {
		t.Errorf("inside edge texel = %d, want > 127", in)
	}
	if out >= 128 {
		t.Errorf("outside edge texel = %d, want < 128", out)
	}
	if int(in)+int(out) != 255 {
		t.Errorf("edge texels %d and %d not symmetric about the edge", in, out)
	}
	// Moving away from the edge never decreases the value inside.
	if at(9, 10) < at(8, 10) {
		t.Errorf("field decreases inward: %d < %d", at(9, 10), at(8, 10))
	}
}

func TestEncodeDistance(t *testing.T) {
	tests := []struct {
		d      float64
		inside bool
		want   uint8
	}{
		{0, true, 128},
		{0, false, 128},
		{4, true, 255},
		{4, false, 0},
		{10, true, 255},
		{2, false, 64},
	}
	for _, tt := range tests {
		if got := encodeDistance(tt.d, tt.inside, 4, 0.5); got != tt.want {
			t.Errorf("encodeDistance(%v, %v) = %d, want %d", tt.d, tt.inside, got, tt.want)
		}
	}
}

// --- Atlas Tests ---

func TestAddFace(t *testing.T) {
	a, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	face := newFace(t, 32)
	if err := a.AddFace(face, []rune("Hello, World")); err != nil {
		t.Fatalf("AddFace: %v", err)
	}
	if !a.Dirty() {
		t.Error("atlas not dirty after AddFace")
	}
	// "Hello, World" has 9 distinct runes: H e l o , space W r d.
	if a.Len() != 9 {
		t.Errorf("Len() = %d, want 9", a.Len())
	}
	if a.Ascent() <= 0 || a.LineHeight() <= 0 {
		t.Errorf("metrics not recorded: ascent %v, line height %v", a.Ascent(), a.LineHeight())
	}

	var rects []image.Rectangle
	for _, r := range "HeloWrd," {
		g, ok := a.Glyph(r)
		if !ok {
			t.Fatalf("Glyph(%q) missing", r)
		}
		if g.Empty() {
			t.Fatalf("Glyph(%q) has no field", r)
		}
		if g.Advance <= 0 {
			t.Errorf("Glyph(%q).Advance = %v", r, g.Advance)
		}
		if g.U0 < 0 || g.V0 < 0 || g.U1 > 1 || g.V1 > 1 || g.U0 >= g.U1 || g.V0 >= g.V1 {
			t.Errorf("Glyph(%q) UV = (%v,%v)-(%v,%v)", r, g.U0, g.V0, g.U1, g.V1)
		}
		if !g.Rect.In(image.Rect(0, 0, a.Size(), a.Size())) {
			t.Errorf("Glyph(%q).Rect %v outside atlas", r, g.Rect)
		}
		rects = append(rects, g.Rect)
	}
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			if rects[i].Overlaps(rects[j]) {
				t.Errorf("fields %v and %v overlap", rects[i], rects[j])
			}
		}
	}

	space, ok := a.Glyph(' ')
	if !ok || !space.Empty() || space.Advance <= 0 {
		t.Errorf("space = %+v, %v; want empty field with advance", space, ok)
	}

	a.ClearDirty()
	if err := a.AddFace(face, []rune("Hello")); err != nil {
		t.Fatal(err)
	}
	if a.Dirty() {
		t.Error("re-adding known runes dirtied the atlas")
	}
}

func TestGlyphField(t *testing.T) {
	cfg := DefaultConfig()
	a, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.AddFace(newFace(t, 48), []rune("I")); err != nil {
		t.Fatal(err)
	}
	g, _ := a.Glyph('I')

	// The margin corner is outside and at least Spread from any ink.
	if v := a.AlphaAt(g.Rect.Min.X, g.Rect.Min.Y); v != 0 {
		t.Errorf("corner = %d, want 0", v)
	}
	// The middle of the stem is inside.
	c := image.Pt((g.Rect.Min.X+g.Rect.Max.X)/2, (g.Rect.Min.Y+g.Rect.Max.Y)/2)
	if v := a.AlphaAt(c.X, c.Y); v < 128 {
		t.Errorf("center = %d, want >= 128", v)
	}
	// The glyph sits above the baseline.
	if g.Offset.Y >= 0 {
		t.Errorf("Offset.Y = %d, want negative", g.Offset.Y)
	}
	img := a.Image()
	if img.Rect.Dx() != cfg.Size || img.AlphaAt(c.X, c.Y).A != a.AlphaAt(c.X, c.Y) {
		t.Error("Image() does not match the atlas")
	}
}

func TestAtlasFull(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Size = 64
	a, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	err = a.AddFace(newFace(t, 64), []rune("WMWMWM"))
	if !errors.Is(err, ErrAtlasFull) {
		t.Fatalf("AddFace = %v, want ErrAtlasFull", err)
	}
}

type missingFace struct {
	font.Face
}

func (missingFace) Glyph(fixed.Point26_6, rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	return image.Rectangle{}, nil, image.Point{}, 0, false
}

func (missingFace) Metrics() font.Metrics {
	return font.Metrics{}
}

func TestGlyphMissing(t *testing.T) {
	a, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	err = a.AddFace(missingFace{}, []rune("ab"))
	if !errors.Is(err, ErrGlyphMissing) {
		t.Fatalf("AddFace = %v, want ErrGlyphMissing", err)
	}
	if a.Len() != 0 {
		t.Errorf("Len() = %d, want 0", a.Len())
	}
	if err := a.AddFace(nil, []rune("a")); !errors.Is(err, ErrNilFace) {
		t.Errorf("AddFace(nil) = %v, want ErrNilFace", err)
	}
}

func TestKern(t *testing.T) {
	a, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := a.AddFace(newFace(t, 32), []rune("AV")); err != nil {
		t.Fatal(err)
	}
	if k := a.Kern('A', 'Z'); k != 0 {
		t.Errorf("Kern with unknown rune = %v, want 0", k)
	}
	// Go Regular has no kern table; the call must still be safe.
	_ = a.Kern('A', 'V')
}

func TestConcurrentAccess(t *testing.T) {
	a, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := a.AddFace(newFace(t, 24), []rune("abc")); err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, r := range "abc" {
				if _, ok := a.Glyph(r); !ok {
					t.Errorf("Glyph(%q) missing", r)
				}
			}
			_ = a.Image()
		}()
	}
	wg.Wait()
}

func TestTakeImage(t *testing.T) {
	a, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := a.AddFace(newFace(t, 24), []rune("ab")); err != nil {
		t.Fatal(err)
	}
	img := a.TakeImage()
	if a.Dirty() {
		t.Error("dirty after TakeImage")
	}
	if !bytes.Equal(img.Pix, a.Image().Pix) {
		t.Error("TakeImage differs from Image")
	}
	if err := a.AddFace(newFace(t, 24), []rune("c")); err != nil {
		t.Fatal(err)
	}
	if !a.Dirty() {
		t.Error("glyph added after TakeImage not dirty")
	}
	a.ClearDirty()
	a.MarkDirty()
	if !a.Dirty() {
		t.Error("MarkDirty did not flag the atlas")
	}
}
