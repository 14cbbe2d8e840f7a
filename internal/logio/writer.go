// Package logio adapts between printf-style log functions, io.Writer
// streams, and log/slog loggers.
package logio

import (
	"bytes"
	"sync"
)

// Writer implements an io.Writer around a formatted logging function, so that
// any line oriented output may be logged; e.g. into testing.T.Logf.
type Writer struct {
	Logf func(string, ...interface{})

	// Prefix is prepended to every logged line.
	Prefix string

	mu  sync.Mutex
	buf bytes.Buffer
}

// Write writes the given bytes into an internal buffer, then logs any
// completed lines through Logf, while holding a lock.
func (lw *Writer) Write(p []byte) (n int, err error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.buf.Write(p)
	lw.flushLines(false)
	return len(p), nil
}

// Sync logs any partial line remaining in the internal buffer.
func (lw *Writer) Sync() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.flushLines(true)
	return nil
}

// Close calls Sync.
func (lw *Writer) Close() error {
	return lw.Sync()
}

func (lw *Writer) flushLines(all bool) {
	for lw.buf.Len() > 0 {
		if i := bytes.IndexByte(lw.buf.Bytes(), '\n'); i >= 0 {
			lw.Logf("%s%s", lw.Prefix, lw.buf.Next(i))
			lw.buf.Next(1)
		} else if all {
			lw.Logf("%s%s", lw.Prefix, lw.buf.Next(lw.buf.Len()))
		} else {
			break
		}
	}
}
