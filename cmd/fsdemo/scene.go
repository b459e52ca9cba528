package main

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/gogpu/fontstash"
	"github.com/gogpu/fontstash/atlas"
	"github.com/gogpu/fontstash/shape"
)

// scene is one centered line of Go Regular text.
type scene struct {
	text          string
	size          float64
	width, height int
	theta         float64

	// shaped lays the run out with HarfBuzz instead of the kern table.
	shaped bool
}

func (s scene) render(u fontstash.SDFUniforms, opts ...fontstash.Option) (*image.RGBA, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: s.size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, err
	}
	defer face.Close()

	a, err := atlas.New(atlas.DefaultConfig())
	if err != nil {
		return nil, err
	}
	if err := a.AddFace(face, []rune(s.text)); err != nil {
		return nil, err
	}

	tt, err := fontstash.NewTransformTexture(16, 16)
	if err != nil {
		return nil, err
	}
	id, err := tt.Alloc()
	if err != nil {
		return nil, err
	}
	run, err := s.layout(a, id)
	if err != nil {
		return nil, err
	}

	r := fontstash.NewSoftwareRenderer(s.width, s.height, opts...)
	// Center the run's midpoint on the image.
	half := fontstash.V2(run.Advance()/2, -a.Ascent()/3)
	rot := fontstash.Transform{Theta: s.theta}.Apply(half)
	tr := fontstash.Transform{
		X:     float64(s.width)/2 - rot.X,
		Y:     float64(s.height)/2 - rot.Y,
		Theta: s.theta,
		Alpha: 1,
	}
	if err := tt.Set(id, tr, r.Resolution()); err != nil {
		return nil, err
	}
	return r.Render(a, tt, []*fontstash.Run{run}, u), nil
}

func (s scene) layout(a *atlas.Atlas, id int) (*fontstash.Run, error) {
	if !s.shaped {
		return fontstash.NewRun(a, s.text, id)
	}
	sh, err := shape.New(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return sh.Run(a, s.text, s.size, id)
}
