package fontstash

import "fmt"

// Mode selects the fragment program.
type Mode uint8

const (
	// ModeSDF evaluates the signed distance field program.
	ModeSDF Mode = iota
	// ModeDefault treats the atlas as a plain alpha mask.
	ModeDefault
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeSDF:
		return "sdf"
	case ModeDefault:
		return "default"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// ParseMode parses "sdf" or "default".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "sdf":
		return ModeSDF, nil
	case "default":
		return ModeDefault, nil
	}
	return 0, fmt.Errorf("fontstash: unknown mode %q", s)
}

// Option configures a SoftwareRenderer.
//
// Example:
//
//	r := fontstash.NewSoftwareRenderer(800, 600,
//	    fontstash.WithMode(fontstash.ModeDefault),
//	    fontstash.WithBackground(fontstash.White))
type Option func(*rendererOptions)

type rendererOptions struct {
	mode       Mode
	background RGBA
	proj       *Mat4
}

func defaultRendererOptions() rendererOptions {
	return rendererOptions{
		mode:       ModeSDF,
		background: Transparent,
	}
}

// WithMode selects the fragment program. Default: ModeSDF.
func WithMode(m Mode) Option {
	return func(o *rendererOptions) {
		o.mode = m
	}
}

// WithBackground sets the color Render clears to. Default: transparent.
func WithBackground(c RGBA) Option {
	return func(o *rendererOptions) {
		o.background = c
	}
}

// WithProjection replaces the default ScreenOrtho projection.
func WithProjection(m Mat4) Option {
	return func(o *rendererOptions) {
		o.proj = &m
	}
}
