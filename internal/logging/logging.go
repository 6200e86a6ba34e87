// Package logging builds the zerolog logger shared by the CLI and services.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New writes human-readable lines to w. Diagnostics go to stderr so they
// never mix with command output.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	if w == nil {
		return zerolog.Nop()
	}

	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: time.TimeOnly,
	}

	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}
