package atlas

import "errors"

// Sentinel errors for the atlas package.
var (
	// ErrAtlasFull is returned when a glyph does not fit in the remaining
	// atlas space.
	ErrAtlasFull = errors.New("atlas: no space left for glyph")

	// ErrGlyphMissing is returned when a face has no glyph for a rune.
	ErrGlyphMissing = errors.New("atlas: face has no glyph for rune")

	// ErrNilFace is returned by AddFace when face is nil.
	ErrNilFace = errors.New("atlas: nil face")
)

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}
