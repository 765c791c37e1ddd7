package observability

import (
	"io"
	"log/slog"
	"os"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// NewLogger builds the service logger on stdout and installs it as the slog
// default. format is "json" or "text"; level defaults to info.
func NewLogger(level, format string) *slog.Logger {
	return sharedobs.NewLogger(level, format)
}

// NewStderrLogger builds a text logger on stderr for commands whose stdout
// carries their output.
func NewStderrLogger(level string) *slog.Logger {
	return newTextLogger(os.Stderr, level)
}

func newTextLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
