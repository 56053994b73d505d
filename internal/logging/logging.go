// Package logging builds the zerolog logger used for diagnostics. User-facing
// notices go through the progress reporter, not here.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options describes logger construction parameters.
type Options struct {
	Level   string // trace|debug|info|warn|error; default warn
	Format  string // console|json; default console
	Verbose bool   // forces debug
	Out     io.Writer
}

// New constructs a logger writing to opts.Out.
func New(opts Options) (zerolog.Logger, error) {
	level := zerolog.WarnLevel
	if s := strings.TrimSpace(opts.Level); s != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(s))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("log level: %w", err)
		}
		level = parsed
	}
	if opts.Verbose && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	// Jobs log from their own goroutines.
	out = zerolog.SyncWriter(out)

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
