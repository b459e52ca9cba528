package atlas

// Config holds atlas configuration.
type Config struct {
	// Size is the atlas texture size (width = height).
	// Must be a power of 2. Default: 512
	Size int

	// Padding is the gap between packed fields.
	// Default: 1
	Padding int

	// Spread is the distance in pixels, on each side of the edge, that the
	// field covers before saturating. Also the margin around each glyph.
	// Default: 6
	Spread int

	// EdgeValue is the field value on the glyph outline, in (0, 1).
	// Default: 0.5
	EdgeValue float64
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		Size:      512,
		Padding:   1,
		Spread:    6,
		EdgeValue: 0.5,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Size < 64 {
		return &ConfigError{Field: "Size", Reason: "must be at least 64"}
	}
	if c.Size > 8192 {
		return &ConfigError{Field: "Size", Reason: "must be at most 8192"}
	}
	if c.Size&(c.Size-1) != 0 {
		return &ConfigError{Field: "Size", Reason: "must be power of 2"}
	}
	if c.Padding < 0 {
		return &ConfigError{Field: "Padding", Reason: "must be non-negative"}
	}
	if c.Spread < 1 {
		return &ConfigError{Field: "Spread", Reason: "must be at least 1"}
	}
	if c.Spread > 64 {
		return &ConfigError{Field: "Spread", Reason: "must be at most 64"}
	}
	if c.EdgeValue <= 0 || c.EdgeValue >= 1 {
		return &ConfigError{Field: "EdgeValue", Reason: "must be in (0, 1)"}
	}
	return nil
}
