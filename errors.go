package fontstash

import (
	"errors"
	"fmt"
)

var (
	// ErrIDOutOfRange is returned when a glyph id does not address a texel
	// pair inside the transform texture.
	ErrIDOutOfRange = errors.New("fontstash: glyph id out of range")

	// ErrTextureFull is returned by TransformTexture.Alloc when every id is
	// in use.
	ErrTextureFull = errors.New("fontstash: transform texture is full")

	// ErrLinearTransformFilter is returned when the transform texture is
	// configured for linear filtering. Linear filtering blends the coarse
	// and correction texels of neighbouring ids.
	ErrLinearTransformFilter = errors.New("fontstash: transform texture requires nearest filtering")

	// ErrEmptyRun is returned when none of a run's characters are in the atlas.
	ErrEmptyRun = errors.New("fontstash: run has no drawable glyphs")
)

// SizeError reports invalid texture or render target dimensions.
type SizeError struct {
	What          string
	Width, Height int
	Reason        string
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("fontstash: invalid %s size %dx%d: %s", e.What, e.Width, e.Height, e.Reason)
}
