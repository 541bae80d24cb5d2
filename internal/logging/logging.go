// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the zerolog logger used across search-trends.
// Logs never share stdout with results: the default destination is stderr
// and the default level is warn, so normal runs stay silent.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/search-trends/pkg/types"
)

const (
	DefaultLevel  = "warn"
	DefaultFormat = "json"
	DefaultOutput = "stderr"
)

// New returns a logger configured by cfg. stderr is the writer used when
// cfg.Output is "stderr" or empty. The returned close function releases a
// log file if one was opened; it is never nil.
func New(cfg types.LogConfig, stderr io.Writer) (zerolog.Logger, func() error, error) {
	noop := func() error { return nil }

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), noop, err
	}

	var out io.Writer
	closeFn := noop
	switch cfg.Output {
	case "", DefaultOutput:
		out = stderr
	case "stdout":
		// Results own stdout.
		return zerolog.Nop(), noop, fmt.Errorf("log output cannot be stdout: results are written there")
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("opening log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}

	switch strings.ToLower(cfg.Format) {
	case "", DefaultFormat:
	case "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	default:
		closeFn()
		return zerolog.Nop(), noop, fmt.Errorf("unsupported log format %q: use json or console", cfg.Format)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), closeFn, nil
}

// ParseLevel maps a level name to a zerolog level. Empty means DefaultLevel.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		s = DefaultLevel
	}
	if s == "warning" {
		s = "warn"
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
