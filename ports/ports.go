// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"net/url"
	"time"
)

// -----------------------------------------------------------------------------
// Host Ports
// -----------------------------------------------------------------------------

// Service gives hooks authenticated access to the host's REST API.
// It is built from the server URI and session key of the current invocation.
type Service interface {
	// Request sends form to path and decodes the JSON response into result.
	// result may be nil when the body is not needed.
	Request(ctx context.Context, method, path string, form url.Values, result any) error
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// CheckpointStore persists per-stanza progress between invocations.
type CheckpointStore interface {
	// Get returns the value for key in stanza; ok is false when unset.
	Get(ctx context.Context, stanza, key string) (value string, ok bool, err error)

	// Put stores value for key in stanza, replacing any previous value.
	Put(ctx context.Context, stanza, key, value string) error

	// Delete removes key from stanza. Deleting a missing key is not an error.
	Delete(ctx context.Context, stanza, key string) error

	// List returns every key/value stored for stanza.
	List(ctx context.Context, stanza string) (map[string]string, error)

	// Close releases the underlying storage.
	Close() error
}

// -----------------------------------------------------------------------------
// Observability Ports
// -----------------------------------------------------------------------------

// StreamObserver is told about everything written to the host streams.
type StreamObserver interface {
	EventWritten(stanza string, bytes int)
	LogWritten(severity string)
}

// HookObserver is told how lifecycle hooks and whole runs ended.
type HookObserver interface {
	HookFinished(hook string, elapsed time.Duration, err error)
	RunFinished(mode string, status int)
}

// -----------------------------------------------------------------------------
// Utility Ports
// -----------------------------------------------------------------------------

// Clock provides the time stamped on events.
type Clock interface {
	Now() time.Time
}

// Random provides uniformly distributed numbers.
type Random interface {
	// Float64 returns a number in [0, 1).
	Float64() (float64, error)
}

// IDGenerator creates unique identifiers, such as the per-invocation run ID.
type IDGenerator interface {
	New() string
}
