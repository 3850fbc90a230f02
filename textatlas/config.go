package textatlas

import "fmt"

// FullPolicy selects what Glyph does when the atlas has no room.
type FullPolicy int

const (
	// FlushAndRetry flushes the atlas once and retries the insert.
	// Requests larger than the canvas are never retried.
	FlushAndRetry FullPolicy = iota

	// SkipOnFull returns the Full error and leaves the atlas alone, so
	// the caller can skip the glyph this frame and flush between frames.
	SkipOnFull
)

func (p FullPolicy) String() string {
	switch p {
	case FlushAndRetry:
		return "FlushAndRetry"
	case SkipOnFull:
		return "SkipOnFull"
	default:
		return fmt.Sprintf("FullPolicy(%d)", int(p))
	}
}

// MaxCanvasSize bounds Config.Width and Config.Height.
const MaxCanvasSize = 16384

// Config holds Cache configuration.
type Config struct {
	// Width and Height of the coverage canvas in pixels.
	// Default: 1024x1024
	Width  int
	Height int

	// Edge is the unused border kept around every glyph.
	// Default: 1
	Edge int

	// MaskCacheSize is how many rasterized glyphs are kept so that a
	// flush does not force them to be rasterized again. 0 disables it.
	// Default: 512
	MaskCacheSize int

	// OnFull selects the reaction to a full atlas.
	// Default: FlushAndRetry
	OnFull FullPolicy
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Width:         1024,
		Height:        1024,
		Edge:          1,
		MaskCacheSize: 512,
		OnFull:        FlushAndRetry,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Width > MaxCanvasSize {
		return &ConfigError{Field: "Width", Reason: fmt.Sprintf("must be in 1..%d", MaxCanvasSize)}
	}
	if c.Height <= 0 || c.Height > MaxCanvasSize {
		return &ConfigError{Field: "Height", Reason: fmt.Sprintf("must be in 1..%d", MaxCanvasSize)}
	}
	if c.Edge < 0 {
		return &ConfigError{Field: "Edge", Reason: "must be non-negative"}
	}
	if 2*c.Edge >= min(c.Width, c.Height) {
		return &ConfigError{Field: "Edge", Reason: "leaves no room for glyphs"}
	}
	if c.MaskCacheSize < 0 {
		return &ConfigError{Field: "MaskCacheSize", Reason: "must be non-negative"}
	}
	if c.OnFull != FlushAndRetry && c.OnFull != SkipOnFull {
		return &ConfigError{Field: "OnFull", Reason: "unknown policy " + c.OnFull.String()}
	}
	return nil
}

// ConfigError reports an invalid Config field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "textatlas: invalid config." + e.Field + ": " + e.Reason
}
