// Package shape lays out runs with HarfBuzz shaping from
// go-text/typesetting, for text where kerning tables in GPOS or mark
// positioning matter. fontstash.NewRun only applies the kern table.
//
//	s, err := shape.New(goregular.TTF)
//	if err != nil {
//	    return err
//	}
//	run, err := s.Run(a, "Wavy AV", 32, id)
package shape

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/fontstash"
	"github.com/gogpu/fontstash/atlas"
)

// ErrNoFontData is returned by New for empty font data.
var ErrNoFontData = errors.New("shape: no font data")

// Shaper shapes text with one font. Shaper is safe for concurrent use.
type Shaper struct {
	font *font.Font
	lang language.Language

	// HarfbuzzShaper keeps a buffer between calls and is not safe for
	// concurrent use.
	pool sync.Pool
}

// New parses TrueType or OpenType data.
func New(ttf []byte) (*Shaper, error) {
	if len(ttf) == 0 {
		return nil, ErrNoFontData
	}
	face, err := font.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("shape: parse font: %w", err)
	}
	return &Shaper{
		font: face.Font,
		lang: language.NewLanguage("en"),
		pool: sync.Pool{New: func() any { return &shaping.HarfbuzzShaper{} }},
	}, nil
}

// SetLanguage sets the BCP 47 language passed to the shaper.
func (s *Shaper) SetLanguage(tag string) {
	s.lang = language.NewLanguage(tag)
}

// Shape returns the pen position of every glyph of text at size pixels
// and the total advance. Text is NFC-normalized first, so precomposed
// atlas glyphs are found for decomposed input. Shaping runs left to right
// on one baseline; y grows downward.
func (s *Shaper) Shape(text string, size float64) ([]fontstash.Placement, float64) {
	runes := []rune(norm.NFC.String(text))
	if len(runes) == 0 {
		return nil, 0
	}
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(s.font),
		Size:      fixed.Int26_6(size * 64),
		Script:    detectScript(runes),
		Language:  s.lang,
	}

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	s.pool.Put(hb)

	placed := make([]fontstash.Placement, 0, len(out.Glyphs))
	var pen float64
	for _, g := range out.Glyphs {
		i := g.TextIndex()
		if i < 0 || i >= len(runes) {
			continue
		}
		placed = append(placed, fontstash.Placement{
			Rune: runes[i],
			X:    pen + fixedToFloat(g.XOffset),
			Y:    -fixedToFloat(g.YOffset),
		})
		pen += fixedToFloat(g.Advance)
	}
	fontstash.Logger().Debug("shape: shaped", "runes", len(runes), "glyphs", len(out.Glyphs), "advance", pen)
	return placed, pen
}

// Run shapes text and builds a run from the glyphs in a. The atlas must
// have been filled from a face of the same font at the same size.
func (s *Shaper) Run(a *atlas.Atlas, text string, size float64, id int) (*fontstash.Run, error) {
	placed, advance := s.Shape(text, size)
	return fontstash.NewPlacedRun(a, norm.NFC.String(text), placed, advance, id)
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
