// Package memory provides an in-memory checkpoint store for runs without
// a checkpoint directory, and for tests.
package memory

import (
	"context"
	"sync"

	"github.com/artpar/modinput/ports"
)

// CheckpointStore is an in-memory implementation of ports.CheckpointStore.
// Values live only as long as the process.
type CheckpointStore struct {
	mu     sync.RWMutex
	values map[string]map[string]string // stanza -> key -> value
}

// NewCheckpointStore creates an empty store.
func NewCheckpointStore() *CheckpointStore {
	return &CheckpointStore{
		values: make(map[string]map[string]string),
	}
}

// Get returns the value for key in stanza.
func (s *CheckpointStore) Get(ctx context.Context, stanza, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[stanza][key]
	return v, ok, nil
}

// Put stores value for key in stanza.
func (s *CheckpointStore) Put(ctx context.Context, stanza, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.values[stanza]
	if !ok {
		m = make(map[string]string)
		s.values[stanza] = m
	}
	m[key] = value
	return nil
}

// Delete removes key from stanza.
func (s *CheckpointStore) Delete(ctx context.Context, stanza, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values[stanza], key)
	if len(s.values[stanza]) == 0 {
		delete(s.values, stanza)
	}
	return nil
}

// List returns a copy of every key/value stored for stanza.
func (s *CheckpointStore) List(ctx context.Context, stanza string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]string, len(s.values[stanza]))
	for k, v := range s.values[stanza] {
		result[k] = v
	}
	return result, nil
}

// Close is a no-op.
func (s *CheckpointStore) Close() error {
	return nil
}

// Ensure interface compliance.
var _ ports.CheckpointStore = (*CheckpointStore)(nil)
