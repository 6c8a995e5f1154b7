// Package log builds the slog.Logger used as the runtime's diagnostic
// channel. Defaults are info-level, human-readable text on stdout; both are
// overridable through functional options, typically fed from config:
//
//	logger := log.New(
//		log.WithLevel(cfg.Log.Level),
//		log.WithFormat(cfg.Log.Format),
//	)
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the log output encoding.
type Format uint8

const (
	FormatText Format = iota // human-readable text
	FormatJSON               // structured JSON
)

// String returns the lower-case name of the format.
func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

type config struct {
	level  slog.Level
	format Format
	writer io.Writer
}

// Option modifies the logger configuration.
type Option func(*config)

// WithLevel sets the minimum level from a string such as "debug" or "warn".
// Invalid strings leave the level unchanged.
func WithLevel(s string) Option {
	return func(c *config) {
		if level, err := ParseLevel(s); err == nil {
			c.level = level
		}
	}
}

// WithFormat sets the output format from a string ("text" or "json").
// Invalid strings leave the format unchanged.
func WithFormat(s string) Option {
	return func(c *config) {
		if format, err := ParseFormat(s); err == nil {
			c.format = format
		}
	}
}

// WithWriter sets the output destination. A nil writer is ignored.
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.writer = w
		}
	}
}

// New creates a configured slog.Logger.
func New(opts ...Option) *slog.Logger {
	c := config{
		level:  slog.LevelInfo,
		format: FormatText,
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(&c)
	}

	o := &slog.HandlerOptions{Level: c.level}
	var handler slog.Handler
	if c.format == FormatJSON {
		handler = slog.NewJSONHandler(c.writer, o)
	} else {
		handler = slog.NewTextHandler(c.writer, o)
	}
	return slog.New(handler)
}

// ParseLevel converts a string into a slog.Level, accepting anything
// slog.Level.UnmarshalText does, ignoring case.
func ParseLevel(s string) (level slog.Level, err error) {
	if e := level.UnmarshalText([]byte(s)); e != nil {
		err = fmt.Errorf("invalid log level %q", s)
	}
	return
}

// ParseFormat converts a string into a Format, ignoring case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	default:
		return FormatText, fmt.Errorf("invalid log format %q", s)
	}
}
