// Package eventwriter writes events, XML documents and log lines to the
// host. Output goes to stdout as a <stream> of <event> fragments; log lines
// go to stderr in the host's "<LEVEL> Modular input <name>: <message>" format.
package eventwriter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/artpar/modinput/domain/event"
	"github.com/artpar/modinput/domain/streaming"
	"github.com/artpar/modinput/ports"
	"github.com/beevik/etree"
)

const (
	streamOpen  = "<stream>"
	streamClose = "</stream>"
)

// ErrClosed is returned when writing an event after Close.
var ErrClosed = errors.New("event writer closed")

// EventWriter owns the output and error sinks for one invocation.
// Every write is flushed before the call returns; the host reads the
// stream incrementally.
type EventWriter struct {
	mu       sync.Mutex
	out      *streaming.CountingWriter
	errOut   io.Writer
	observer ports.StreamObserver

	headerWritten bool
	closed        bool
}

// Option configures an EventWriter.
type Option func(*EventWriter)

// WithObserver reports every event and log line to o.
func WithObserver(o ports.StreamObserver) Option {
	return func(w *EventWriter) {
		w.observer = o
	}
}

// New creates an event writer. out is normally os.Stdout and errOut os.Stderr.
func New(out, errOut io.Writer, opts ...Option) *EventWriter {
	w := &EventWriter{
		out:    streaming.NewCountingWriter(out),
		errOut: errOut,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteEvent writes e as an <event> fragment, opening the <stream> on the
// first call.
func (w *EventWriter) WriteEvent(e *event.Event) error {
	if e == nil {
		return &IOError{Op: "write event", Err: errors.New("nil event")}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return &IOError{Op: "write event", Err: ErrClosed}
	}

	var buf bytes.Buffer
	header := 0
	if !w.headerWritten {
		header, _ = buf.WriteString(streamOpen)
	}
	doc := etree.NewDocument()
	doc.SetRoot(e.Element())
	if _, err := doc.WriteTo(&buf); err != nil {
		return &IOError{Op: "encode event", Err: err}
	}

	n, err := w.out.Write(buf.Bytes())
	if err != nil {
		return &IOError{Op: "write event", Err: err}
	}
	w.headerWritten = true

	if err := w.out.Flush(); err != nil {
		return &IOError{Op: "flush event", Err: err}
	}

	if w.observer != nil {
		w.observer.EventWritten(e.Stanza, n-header)
	}
	return nil
}

// WriteXMLDocument writes doc to the output sink and flushes it.
// It is used for the <scheme> and <error> documents, never inside a <stream>.
func (w *EventWriter) WriteXMLDocument(doc *etree.Document) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := doc.WriteTo(w.out); err != nil {
		return &IOError{Op: "write document", Err: err}
	}
	if err := w.out.Flush(); err != nil {
		return &IOError{Op: "flush document", Err: err}
	}
	return nil
}

// Log writes one line for the host's internal log.
func (w *EventWriter) Log(sev event.Severity, name, message string) error {
	if !sev.Valid() {
		return fmt.Errorf("log: unknown severity %q", sev)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := fmt.Fprintf(w.errOut, "%s Modular input %s: %s\n", sev, name, message); err != nil {
		return &IOError{Op: "write log", Err: err}
	}
	if err := streaming.Flush(w.errOut); err != nil {
		return &IOError{Op: "flush log", Err: err}
	}

	if w.observer != nil {
		w.observer.LogWritten(string(sev))
	}
	return nil
}

// Close writes the closing </stream> tag. Only the first call writes;
// if no event was written the empty <stream></stream> pair is emitted so
// the output stays well formed.
func (w *EventWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	tail := streamClose
	if !w.headerWritten {
		tail = streamOpen + streamClose
		w.headerWritten = true
	}
	if _, err := io.WriteString(w.out, tail); err != nil {
		return &IOError{Op: "close stream", Err: err}
	}
	if err := w.out.Flush(); err != nil {
		return &IOError{Op: "flush stream", Err: err}
	}
	return nil
}

// BytesWritten returns the number of bytes written to the output sink.
func (w *EventWriter) BytesWritten() int64 {
	return w.out.GetTotalBytes()
}
