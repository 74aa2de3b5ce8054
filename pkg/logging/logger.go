// Package logging builds the zerolog loggers used across the listener and
// the CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/justingardner/pgl/pkg/config"
)

// Options describe how to configure a logger instance.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New creates a structured logger. Format "json" emits one JSON object per
// line; "console" uses zerolog's pretty writer.
func New(opts Options) (zerolog.Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	format, err := config.NormalizeFormat(opts.Format)
	if err != nil {
		return zerolog.Nop(), err
	}
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

func parseLevel(level string) (zerolog.Level, error) {
	normalized, err := config.NormalizeLogLevel(level)
	if err != nil {
		return zerolog.NoLevel, err
	}

	parsed, err := zerolog.ParseLevel(strings.ToLower(normalized))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unhandled log level %q", level)
	}
	return parsed, nil
}
