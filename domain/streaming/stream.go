// Package streaming provides utilities for the host-facing output streams.
package streaming

import (
	"io"
	"sync/atomic"
)

// StreamMetrics is a snapshot of what has passed through a CountingWriter.
type StreamMetrics struct {
	TotalBytes int64
	WriteCount int64
	LastWrite  int // Size of the most recent write
}

// CountingWriter wraps a writer to count bytes and writes as they pass through.
type CountingWriter struct {
	writer     io.Writer
	totalBytes atomic.Int64
	writeCount atomic.Int64
	lastWrite  atomic.Int64
}

// NewCountingWriter creates a writer that tracks stream metrics.
func NewCountingWriter(w io.Writer) *CountingWriter {
	return &CountingWriter{writer: w}
}

// Write implements io.Writer. Partial writes are counted.
func (c *CountingWriter) Write(p []byte) (int, error) {
	n, err := c.writer.Write(p)
	if n > 0 {
		c.totalBytes.Add(int64(n))
		c.writeCount.Add(1)
		c.lastWrite.Store(int64(n))
	}
	return n, err
}

// Flush flushes the underlying writer if it buffers.
func (c *CountingWriter) Flush() error {
	return Flush(c.writer)
}

// Unwrap returns the wrapped writer.
func (c *CountingWriter) Unwrap() io.Writer {
	return c.writer
}

// GetMetrics returns the accumulated stream metrics.
func (c *CountingWriter) GetMetrics() StreamMetrics {
	return StreamMetrics{
		TotalBytes: c.totalBytes.Load(),
		WriteCount: c.writeCount.Load(),
		LastWrite:  int(c.lastWrite.Load()),
	}
}

// GetTotalBytes returns the total bytes written.
func (c *CountingWriter) GetTotalBytes() int64 {
	return c.totalBytes.Load()
}

type flusher interface {
	Flush() error
}

// Flush pushes buffered data in w to its destination.
// Unbuffered writers such as *os.File are left alone; Sync on a pipe fails.
func Flush(w io.Writer) error {
	if f, ok := w.(flusher); ok {
		return f.Flush()
	}
	return nil
}
