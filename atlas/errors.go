package atlas

import (
	"errors"
	"fmt"
)

var (
	// ErrAtlasFull reports that no space is left for a request.
	// It is recoverable: flush and retry, or skip the glyph this frame.
	ErrAtlasFull = errors.New("atlas: no space left")

	// ErrOversized reports a request larger than the canvas itself.
	// Errors matching ErrOversized also match ErrAtlasFull.
	ErrOversized = errors.New("atlas: request exceeds canvas")

	// ErrInvalidSize is returned for non-positive dimensions or a
	// negative edge.
	ErrInvalidSize = errors.New("atlas: invalid size")
)

// FullError describes an insert that could not be placed.
// Width and Height are the padded footprint that was requested.
type FullError struct {
	Key       GlyphKey
	Width     int
	Height    int
	Oversized bool
}

func (e *FullError) Error() string {
	if e.Oversized {
		return fmt.Sprintf("atlas: %dx%d footprint for %v exceeds canvas", e.Width, e.Height, e.Key)
	}
	return fmt.Sprintf("atlas: no space for %dx%d footprint for %v", e.Width, e.Height, e.Key)
}

// Is makes FullError match ErrAtlasFull, and ErrOversized when the
// request could never fit.
func (e *FullError) Is(target error) bool {
	switch target {
	case ErrAtlasFull:
		return true
	case ErrOversized:
		return e.Oversized
	}
	return false
}
