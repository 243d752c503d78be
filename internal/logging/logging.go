// Package logging builds the process logger: one slog text handler writing to
// standard output and to a size-rotated log file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// TimeFormat is the layout of the time attribute on every line.
const TimeFormat = "2006-01-02 15:04:05"

// Options configures New.
type Options struct {
	// File is the active log file; rotated files sit next to it.
	File       string
	MaxSizeMB  int
	MaxBackups int
	Level      string

	// Stdout defaults to os.Stdout.
	Stdout io.Writer
}

// ParseLevel maps debug, info, warn and error (any case) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// New returns the logger and a function closing the log file.
func New(opts Options) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	file := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}

	return slog.New(NewHandler(io.MultiWriter(stdout, file), level)), file.Close, nil
}

// NewHandler returns the text handler used by New, writing to w.
func NewHandler(w io.Writer, level slog.Leveler) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				return slog.String(slog.TimeKey, a.Value.Time().Format(TimeFormat))
			}
			return a
		},
	})
}
