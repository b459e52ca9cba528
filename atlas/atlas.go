package atlas

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Glyph describes one glyph in the atlas.
type Glyph struct {
	Rune rune

	// Rect is the distance field in atlas pixels, margin included. It is
	// empty for glyphs without ink, such as the space.
	Rect image.Rectangle

	// Offset is the position of Rect's top-left corner relative to the pen
	// position on the baseline, in pixels. Y grows downward.
	Offset image.Point

	// Advance is the horizontal pen advance in pixels.
	Advance float64

	// U0, V0, U1, V1 are the normalized texture coordinates of Rect.
	U0, V0, U1, V1 float64
}

// Empty reports whether the glyph has no distance field.
func (g Glyph) Empty() bool {
	return g.Rect.Empty()
}

type entry struct {
	glyph Glyph
	face  font.Face
}

// Atlas is a single-channel texture of glyph distance fields.
//
// Atlas is safe for concurrent use. The font.Face values passed to AddFace
// are used under the atlas lock and must not be used concurrently elsewhere.
type Atlas struct {
	mu sync.RWMutex

	config Config
	img    *image.Alpha
	packer *shelfPacker
	glyphs map[rune]entry

	ascent, lineHeight float64

	dirty bool
}

// New creates an empty atlas.
func New(config Config) (*Atlas, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Atlas{
		config: config,
		img:    image.NewAlpha(image.Rect(0, 0, config.Size, config.Size)),
		packer: newShelfPacker(config.Size, config.Size, config.Padding),
		glyphs: make(map[rune]entry),
	}, nil
}

// AddFace rasterizes the given runes from face and packs their distance
// fields. Runes already in the atlas are skipped.
//
// Runes the face has no glyph for are skipped and reported together in the
// returned error, which matches ErrGlyphMissing. ErrAtlasFull stops the
// call; glyphs packed before it stay in the atlas.
func (a *Atlas) AddFace(face font.Face, runes []rune) error {
	if face == nil {
		return ErrNilFace
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	m := face.Metrics()
	if asc := fixedToFloat(m.Ascent); asc > a.ascent {
		a.ascent = asc
	}
	if lh := fixedToFloat(m.Height); lh > a.lineHeight {
		a.lineHeight = lh
	}

	var missing []error
	added := 0
	for _, r := range runes {
		if _, ok := a.glyphs[r]; ok {
			continue
		}
		g, err := a.addGlyphLocked(face, r)
		if errors.Is(err, ErrGlyphMissing) {
			slogger().Warn("atlas: glyph missing", "rune", string(r))
			missing = append(missing, err)
			continue
		}
		if err != nil {
			return err
		}
		a.glyphs[r] = entry{glyph: g, face: face}
		added++
	}

	slogger().Debug("atlas: face added",
		"glyphs", added,
		"utilization", a.packer.utilization())
	return errors.Join(missing...)
}

func (a *Atlas) addGlyphLocked(face font.Face, r rune) (Glyph, error) {
	dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return Glyph{}, fmt.Errorf("%w: %q", ErrGlyphMissing, r)
	}
	g := Glyph{Rune: r, Advance: fixedToFloat(advance)}
	if dr.Empty() {
		return g, nil
	}

	s := a.config.Spread
	padded := image.NewAlpha(image.Rect(0, 0, dr.Dx()+2*s, dr.Dy()+2*s))
	draw.Draw(padded, image.Rect(s, s, s+dr.Dx(), s+dr.Dy()), mask, maskp, draw.Src)
	field := distanceField(padded, s, a.config.EdgeValue)

	fw, fh := field.Rect.Dx(), field.Rect.Dy()
	x, y, ok := a.packer.allocate(fw, fh)
	if !ok {
		return Glyph{}, fmt.Errorf("%w: %q needs %dx%d", ErrAtlasFull, r, fw, fh)
	}
	rect := image.Rect(x, y, x+fw, y+fh)
	draw.Draw(a.img, rect, field, image.Point{}, draw.Src)
	a.dirty = true

	size := float64(a.config.Size)
	g.Rect = rect
	g.Offset = dr.Min.Sub(image.Pt(s, s))
	g.U0 = float64(rect.Min.X) / size
	g.V0 = float64(rect.Min.Y) / size
	g.U1 = float64(rect.Max.X) / size
	g.V1 = float64(rect.Max.Y) / size
	return g, nil
}

// Glyph returns the glyph for r.
func (a *Atlas) Glyph(r rune) (Glyph, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	e, ok := a.glyphs[r]
	return e.glyph, ok
}

// Kern returns the kerning adjustment in pixels between r0 and r1. It is
// zero when the two runes came from different faces.
func (a *Atlas) Kern(r0, r1 rune) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	e0, ok0 := a.glyphs[r0]
	e1, ok1 := a.glyphs[r1]
	if !ok0 || !ok1 || e0.face != e1.face {
		return 0
	}
	return fixedToFloat(e0.face.Kern(r0, r1))
}

// Ascent returns the largest ascent of the added faces, in pixels.
func (a *Atlas) Ascent() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ascent
}

// LineHeight returns the largest line height of the added faces, in pixels.
func (a *Atlas) LineHeight() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lineHeight
}

// Len returns the number of glyphs in the atlas.
func (a *Atlas) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.glyphs)
}

// Image returns a copy of the atlas texture.
func (a *Atlas) Image() *image.Alpha {
	a.mu.RLock()
	defer a.mu.RUnlock()
	img := image.NewAlpha(a.img.Rect)
	copy(img.Pix, a.img.Pix)
	return img
}

// AlphaAt returns the field byte at (x, y), clamped to the atlas edges.
func (a *Atlas) AlphaAt(x, y int) uint8 {
	n := a.config.Size
	x = min(max(x, 0), n-1)
	y = min(max(y, 0), n-1)
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.img.Pix[y*a.img.Stride+x]
}

// Size returns the atlas width and height in pixels.
func (a *Atlas) Size() int {
	return a.config.Size
}

// Config returns the atlas configuration.
func (a *Atlas) Config() Config {
	return a.config
}

// Utilization returns the fraction of the atlas area holding fields.
func (a *Atlas) Utilization() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.packer.utilization()
}

// Dirty reports whether glyphs were added since the last ClearDirty.
func (a *Atlas) Dirty() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.dirty
}

// TakeImage returns a copy of the atlas texture and clears the dirty flag
// under the same lock. Glyphs added afterwards mark the atlas dirty again.
func (a *Atlas) TakeImage() *image.Alpha {
	a.mu.Lock()
	defer a.mu.Unlock()
	img := image.NewAlpha(a.img.Rect)
	copy(img.Pix, a.img.Pix)
	a.dirty = false
	return img
}

// MarkDirty flags the atlas for upload, for example after a failed one.
func (a *Atlas) MarkDirty() {
	a.mu.Lock()
	a.dirty = true
	a.mu.Unlock()
}

// ClearDirty marks the atlas as uploaded.
func (a *Atlas) ClearDirty() {
	a.mu.Lock()
	a.dirty = false
	a.mu.Unlock()
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
