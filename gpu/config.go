//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/fontstash"
)

// maxTargetSize bounds each side of the render target.
const maxTargetSize = 16384

// Config configures a Renderer.
type Config struct {
	// Width and Height are the render target size in pixels.
	// Default: 800x600
	Width, Height int

	// Mode selects the fragment program.
	// Default: ModeSDF
	Mode fontstash.Mode

	// Background is the clear color of offscreen renders.
	// Default: transparent
	Background fontstash.RGBA

	// Format is the color target format.
	// Default: RGBA8Unorm
	Format gputypes.TextureFormat

	// Projection replaces the ScreenOrtho(Width, Height) projection.
	Projection *fontstash.Mat4

	// InitialQuads is the initial buffer capacity in quads.
	// Default: 256
	InitialQuads int

	// MaxQuads is the maximum number of quads per frame.
	// Default: 65536
	MaxQuads int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Width:        800,
		Height:       600,
		Mode:         fontstash.ModeSDF,
		Background:   fontstash.Transparent,
		Format:       gputypes.TextureFormatRGBA8Unorm,
		InitialQuads: 256,
		MaxQuads:     65536,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Width == 0 && c.Height == 0 {
		c.Width, c.Height = def.Width, def.Height
	}
	if c.Format == gputypes.TextureFormatUndefined {
		c.Format = def.Format
	}
	if c.InitialQuads == 0 {
		c.InitialQuads = def.InitialQuads
	}
	if c.MaxQuads == 0 {
		c.MaxQuads = def.MaxQuads
	}
	return c
}

// ConfigError describes an invalid Config field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("gpu: invalid config.%s: %s", e.Field, e.Reason)
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Width > maxTargetSize:
		return &ConfigError{Field: "Width", Reason: fmt.Sprintf("must be in 1..%d, got %d", maxTargetSize, c.Width)}
	case c.Height <= 0 || c.Height > maxTargetSize:
		return &ConfigError{Field: "Height", Reason: fmt.Sprintf("must be in 1..%d, got %d", maxTargetSize, c.Height)}
	case c.Mode != fontstash.ModeSDF && c.Mode != fontstash.ModeDefault:
		return &ConfigError{Field: "Mode", Reason: fmt.Sprintf("unknown mode %d", c.Mode)}
	case c.Format != gputypes.TextureFormatRGBA8Unorm && c.Format != gputypes.TextureFormatBGRA8Unorm:
		return &ConfigError{Field: "Format", Reason: fmt.Sprintf("unsupported format %v", c.Format)}
	case c.InitialQuads < 0:
		return &ConfigError{Field: "InitialQuads", Reason: "must not be negative"}
	case c.MaxQuads < 0 || c.MaxQuads < c.InitialQuads:
		return &ConfigError{Field: "MaxQuads", Reason: "must be at least InitialQuads"}
	}
	return nil
}
