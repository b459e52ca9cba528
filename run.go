package fontstash

import (
	"github.com/gogpu/fontstash/atlas"
)

// Quad is one glyph of a run: four vertices in the run's local frame,
// ordered top-left, top-right, bottom-right, bottom-left.
type Quad struct {
	Rune     rune
	Vertices [4]VertexInput
}

// Run is a line of glyphs that share one transform id. The local frame has
// its origin at the start of the baseline, x to the right and y down.
type Run struct {
	text    string
	id      int
	quads   []Quad
	advance float64
}

// NewRun lays text out on a single baseline using the glyphs in a. Glyphs
// follow each other by pen advance plus kerning; there is no line breaking.
// Runes missing from the atlas are skipped. If none are found, NewRun
// returns ErrEmptyRun.
func NewRun(a *atlas.Atlas, text string, id int) (*Run, error) {
	r := &Run{text: text, id: id}

	var (
		pen   float64
		prev  rune
		found int
	)
	for _, c := range text {
		g, ok := a.Glyph(c)
		if !ok {
			Logger().Warn("fontstash: rune not in atlas", "rune", string(c))
			continue
		}
		if found > 0 {
			pen += a.Kern(prev, c)
		}
		found++
		prev = c

		if !g.Empty() {
			r.quads = append(r.quads, glyphQuad(g, pen, 0, float64(id)))
		}
		pen += g.Advance
	}
	if found == 0 {
		return nil, ErrEmptyRun
	}
	r.advance = pen
	return r, nil
}

// Placement positions one rune of a shaped line. X and Y are the pen
// position in the run's local frame.
type Placement struct {
	Rune rune
	X, Y float64
}

// NewPlacedRun builds a run from pen positions computed elsewhere, for
// example by the shaping package. advance is the pen position after the
// last glyph. Runes missing from the atlas are skipped; if none are found,
// NewPlacedRun returns ErrEmptyRun.
func NewPlacedRun(a *atlas.Atlas, text string, placed []Placement, advance float64, id int) (*Run, error) {
	r := &Run{text: text, id: id, advance: advance}
	found := 0
	for _, p := range placed {
		g, ok := a.Glyph(p.Rune)
		if !ok {
			Logger().Warn("fontstash: rune not in atlas", "rune", string(p.Rune))
			continue
		}
		found++
		if !g.Empty() {
			r.quads = append(r.quads, glyphQuad(g, p.X, p.Y, float64(id)))
		}
	}
	if found == 0 {
		return nil, ErrEmptyRun
	}
	return r, nil
}

func glyphQuad(g atlas.Glyph, penX, penY, id float64) Quad {
	x0 := penX + float64(g.Offset.X)
	y0 := penY + float64(g.Offset.Y)
	x1 := x0 + float64(g.Rect.Dx())
	y1 := y0 + float64(g.Rect.Dy())

	return Quad{
		Rune: g.Rune,
		Vertices: [4]VertexInput{
			{FSID: id, Position: V2(x0, y0), TexCoord: V2(g.U0, g.V0)},
			{FSID: id, Position: V2(x1, y0), TexCoord: V2(g.U1, g.V0)},
			{FSID: id, Position: V2(x1, y1), TexCoord: V2(g.U1, g.V1)},
			{FSID: id, Position: V2(x0, y1), TexCoord: V2(g.U0, g.V1)},
		},
	}
}

// Text returns the text the run was built from.
func (r *Run) Text() string { return r.text }

// ID returns the transform id shared by every vertex of the run.
func (r *Run) ID() int { return r.id }

// SetID moves the run to another transform id.
func (r *Run) SetID(id int) {
	r.id = id
	for i := range r.quads {
		for v := range r.quads[i].Vertices {
			r.quads[i].Vertices[v].FSID = float64(id)
		}
	}
}

// Advance returns the pen position after the last glyph.
func (r *Run) Advance() float64 { return r.advance }

// Quads returns the glyph quads. The slice must not be modified.
func (r *Run) Quads() []Quad { return r.quads }

// Vertices returns the quad corners, four per quad.
func (r *Run) Vertices() []VertexInput {
	out := make([]VertexInput, 0, len(r.quads)*4)
	for _, q := range r.quads {
		out = append(out, q.Vertices[:]...)
	}
	return out
}

// Indices returns two triangles per quad, 0,1,2 and 2,3,0, starting at
// vertex base.
func (r *Run) Indices(base int) []uint32 {
	return QuadIndices(base, len(r.quads))
}

// QuadIndices returns the triangle list indices of n quads whose vertices
// start at base.
func QuadIndices(base, n int) []uint32 {
	out := make([]uint32, 0, n*6)
	for i := 0; i < n; i++ {
		v := uint32(base + i*4) //nolint:gosec // quad counts are bounded by the caller's buffers
		out = append(out, v, v+1, v+2, v+2, v+3, v)
	}
	return out
}
