package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/artpar/modinput/ports"
)

// CheckpointStore implements ports.CheckpointStore using SQLite.
type CheckpointStore struct {
	db  *DB
	now func() time.Time
}

// NewCheckpointStore creates a checkpoint store on db.
func NewCheckpointStore(db *DB) *CheckpointStore {
	return &CheckpointStore{db: db, now: time.Now}
}

// Get returns the value stored for key in stanza.
func (s *CheckpointStore) Get(ctx context.Context, stanza, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM checkpoints WHERE stanza = ? AND key = ?`,
		stanza, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get checkpoint: %w", err)
	}
	return value, true, nil
}

// Put stores value for key in stanza.
func (s *CheckpointStore) Put(ctx context.Context, stanza, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checkpoints (stanza, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(stanza, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, stanza, key, value, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put checkpoint: %w", err)
	}
	return nil
}

// Delete removes key from stanza.
func (s *CheckpointStore) Delete(ctx context.Context, stanza, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM checkpoints WHERE stanza = ? AND key = ?`,
		stanza, key,
	)
	if err != nil {
		return fmt.Errorf("delete checkpoint: %w", err)
	}
	return nil
}

// List returns every key/value stored for stanza.
func (s *CheckpointStore) List(ctx context.Context, stanza string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM checkpoints WHERE stanza = ?`,
		stanza,
	)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan checkpoint: %w", err)
		}
		result[key] = value
	}
	return result, rows.Err()
}

// Close closes the underlying database.
func (s *CheckpointStore) Close() error {
	return s.db.Close()
}

// Ensure interface compliance.
var _ ports.CheckpointStore = (*CheckpointStore)(nil)
