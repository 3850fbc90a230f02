package textatlas

import "errors"

var (
	// ErrUnknownFont is returned for a font id with no registered face.
	ErrUnknownFont = errors.New("textatlas: unknown font")

	// ErrRunTooLarge is returned by AppendText when a run keeps
	// flushing the atlas while it is being built.
	ErrRunTooLarge = errors.New("textatlas: text run does not fit in the atlas")
)
