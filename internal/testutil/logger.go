package testutil

import (
	"bytes"
	"log/slog"
	"sync"
)

// LogBuffer collects log output of a test logger.
//
// Thread-safety: safe for concurrent use via internal mutex.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything logged so far.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// NewLogger returns a debug level text logger without timestamps, and the
// buffer it writes to.
func NewLogger() (*slog.Logger, *LogBuffer) {
	out := &LogBuffer{}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(handler), out
}
