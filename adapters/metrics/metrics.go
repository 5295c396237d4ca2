// Package metrics provides Prometheus metrics collection for modular inputs.
// A modular input is a short-lived process, so metrics are kept in a private
// registry and written out as a node-exporter textfile when the run ends.
package metrics

import (
	"fmt"
	"time"

	"github.com/artpar/modinput/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "modinput"

// Collector holds all Prometheus metrics for one invocation.
type Collector struct {
	registry *prometheus.Registry

	// Stream metrics
	EventsWritten *prometheus.CounterVec
	EventBytes    prometheus.Counter
	LogLines      *prometheus.CounterVec

	// Lifecycle metrics
	HookDuration *prometheus.HistogramVec
	HookErrors   *prometheus.CounterVec
	Runs         *prometheus.CounterVec
	LastRun      prometheus.Gauge

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
}

// New creates a collector with its own registry, labelled with the input name.
func New(input string) *Collector {
	reg := prometheus.NewRegistry()
	return NewWithRegistry(prometheus.WrapRegistererWith(prometheus.Labels{"input": input}, reg), reg)
}

// NewWithRegistry creates a collector registering into reg and gathering from g.
// Useful for testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer, g *prometheus.Registry) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		registry: g,

		EventsWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_written_total",
				Help:      "Total number of events written to the host",
			},
			[]string{"stanza"},
		),
		EventBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "event_bytes_written_total",
				Help:      "Total bytes of event XML written to stdout",
			},
		),
		LogLines: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "log_lines_total",
				Help:      "Total log lines written to stderr by severity",
			},
			[]string{"level"},
		),

		HookDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "hook_duration_seconds",
				Help:      "Lifecycle hook duration in seconds",
				Buckets:   []float64{.001, .01, .1, .5, 1, 5, 10, 30, 60, 300},
			},
			[]string{"hook"},
		),
		HookErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "hook_errors_total",
				Help:      "Total number of failed lifecycle hooks",
			},
			[]string{"hook"},
		),
		Runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total invocations by mode and exit status",
			},
			[]string{"mode", "status"},
		),
		LastRun: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp",
				Help:      "Unix timestamp of the last finished invocation",
			},
		),

		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_reload_errors_total",
				Help:      "Total number of config reload errors",
			},
		),
	}
}

// EventWritten implements ports.StreamObserver.
func (c *Collector) EventWritten(stanza string, bytes int) {
	c.EventsWritten.WithLabelValues(stanza).Inc()
	c.EventBytes.Add(float64(bytes))
}

// LogWritten implements ports.StreamObserver.
func (c *Collector) LogWritten(severity string) {
	c.LogLines.WithLabelValues(severity).Inc()
}

// HookFinished implements ports.HookObserver.
func (c *Collector) HookFinished(hook string, elapsed time.Duration, err error) {
	c.HookDuration.WithLabelValues(hook).Observe(elapsed.Seconds())
	if err != nil {
		c.HookErrors.WithLabelValues(hook).Inc()
	}
}

// RunFinished implements ports.HookObserver.
func (c *Collector) RunFinished(mode string, status int) {
	c.Runs.WithLabelValues(mode, fmt.Sprint(status)).Inc()
	c.LastRun.SetToCurrentTime()
}

// Gatherer returns the registry the collector records into.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// WriteTextfile writes all metrics in the text exposition format to path,
// atomically, for the node exporter's textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Ensure interface compliance.
var (
	_ ports.StreamObserver = (*Collector)(nil)
	_ ports.HookObserver   = (*Collector)(nil)
)
