package metrics_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/artpar/modinput/adapters/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newCollector() *metrics.Collector {
	// Use a new registry to avoid conflicts with other tests
	reg := prometheus.NewRegistry()
	return metrics.NewWithRegistry(reg, reg)
}

func TestNew(t *testing.T) {
	m := metrics.New("random_numbers")

	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.EventsWritten == nil || m.EventBytes == nil || m.LogLines == nil {
		t.Error("stream metrics not initialized")
	}
	if m.HookDuration == nil || m.HookErrors == nil || m.Runs == nil {
		t.Error("lifecycle metrics not initialized")
	}

	// Two collectors must not collide: each owns its registry.
	if metrics.New("random_numbers") == nil {
		t.Fatal("second New returned nil")
	}
}

func TestStreamObserver(t *testing.T) {
	m := newCollector()

	m.EventWritten("a", 100)
	m.EventWritten("a", 50)
	m.EventWritten("b", 10)
	m.LogWritten("ERROR")

	if got := testutil.ToFloat64(m.EventsWritten.WithLabelValues("a")); got != 2 {
		t.Errorf("events{a} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.EventBytes); got != 160 {
		t.Errorf("bytes = %v, want 160", got)
	}
	if got := testutil.ToFloat64(m.LogLines.WithLabelValues("ERROR")); got != 1 {
		t.Errorf("log_lines{ERROR} = %v, want 1", got)
	}
}

func TestHookObserver(t *testing.T) {
	m := newCollector()

	m.HookFinished("stream_events", 20*time.Millisecond, nil)
	m.HookFinished("stream_events", 5*time.Millisecond, errors.New("boom"))
	m.RunFinished("stream", 1)

	if got := testutil.ToFloat64(m.HookErrors.WithLabelValues("stream_events")); got != 1 {
		t.Errorf("hook_errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Runs.WithLabelValues("stream", "1")); got != 1 {
		t.Errorf("runs{stream,1} = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.HookDuration); got != 1 {
		t.Errorf("hook_duration series = %d, want 1", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	m := metrics.New("random_numbers")
	m.EventWritten("a", 42)

	path := filepath.Join(t.TempDir(), "modinput.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, `modinput_events_written_total{input="random_numbers",stanza="a"} 1`) {
		t.Errorf("textfile missing event counter:\n%s", text)
	}
	if !strings.Contains(text, "modinput_event_bytes_written_total") {
		t.Errorf("textfile missing byte counter:\n%s", text)
	}
}

func TestWriteTextfile_BadPath(t *testing.T) {
	m := newCollector()
	if err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom")); err == nil {
		t.Error("expected error for missing directory")
	}
}
