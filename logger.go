package glyphatlas

import (
	"log/slog"
	"sync/atomic"
)

// current holds the logger shared by glyphatlas and its sub-packages.
var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(silent())
}

func silent() *slog.Logger { return slog.New(slog.DiscardHandler) }

// SetLogger installs the logger used by every glyphatlas package. The
// default logger discards everything, and passing nil restores that
// default.
//
// SetLogger may be called at any time from any goroutine.
//
// Levels in use:
//   - [slog.LevelDebug]: flushes, Full results, oversized requests,
//     glyphs missing from a face, snapshot writes and replay differences
//   - [slog.LevelInfo]: automatic flush-and-retry, font replacement
//   - [slog.LevelWarn]: rasterizer failures other than a missing glyph
//
// Example:
//
//	glyphatlas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent()
	}
	current.Store(l)
}

// Logger returns the logger installed with SetLogger.
// Sub-packages log through it so a single call configures the module.
func Logger() *slog.Logger {
	return current.Load()
}
