package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/artpar/modinput/adapters/memory"
	"github.com/artpar/modinput/adapters/splunkd"
	"github.com/artpar/modinput/adapters/sqlite"
	"github.com/artpar/modinput/config"
	"github.com/artpar/modinput/domain/definition"
	"github.com/artpar/modinput/ports"
	"github.com/rs/zerolog"
)

// ErrCheckpointsDisabled is returned by Session.Checkpoints when the
// checkpoint store is turned off in configuration.
var ErrCheckpointsDisabled = errors.New("checkpoints disabled")

// SessionConfig holds the settings a Session builds its clients from.
type SessionConfig struct {
	Checkpoint config.CheckpointConfig
	Splunkd    config.SplunkdConfig
}

// Session is the per-invocation context handed to every hook.
// The host service client and the checkpoint store are created on first use.
type Session struct {
	metadata definition.Metadata
	logger   zerolog.Logger
	cfg      SessionConfig

	serviceOnce sync.Once
	service     ports.Service

	mu          sync.Mutex
	checkpoints ports.CheckpointStore
}

// NewSession creates a session for the invocation described by md.
func NewSession(md definition.Metadata, logger zerolog.Logger, cfg SessionConfig) *Session {
	return &Session{
		metadata: md,
		logger:   logger,
		cfg:      cfg,
	}
}

// Metadata returns the host metadata of the current invocation.
func (s *Session) Metadata() definition.Metadata {
	return s.metadata
}

// Logger returns the host-format logger.
func (s *Session) Logger() *zerolog.Logger {
	return &s.logger
}

// Service returns a client for the host REST API authenticated with the
// session key, or nil when the host sent no server URI.
func (s *Session) Service() ports.Service {
	s.serviceOnce.Do(func() {
		if s.metadata.ServerURI == "" {
			return
		}
		s.service = splunkd.NewClient(splunkd.Config{
			BaseURL:            s.metadata.ServerURI,
			SessionKey:         s.metadata.SessionKey,
			Timeout:            s.cfg.Splunkd.Timeout,
			InsecureSkipVerify: !s.cfg.Splunkd.VerifyTLS,
		})
	})
	return s.service
}

// Checkpoints opens the checkpoint store inside checkpoint_dir.
// Without a checkpoint_dir, as when the script is run by hand, values are
// kept in memory for this invocation only. A failed open is retried on
// the next call.
func (s *Session) Checkpoints() (ports.CheckpointStore, error) {
	if s.cfg.Checkpoint.Disabled {
		return nil, ErrCheckpointsDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checkpoints != nil {
		return s.checkpoints, nil
	}

	if s.metadata.CheckpointDir == "" {
		s.logger.Warn().Msg("no checkpoint_dir, checkpoints will not persist")
		s.checkpoints = memory.NewCheckpointStore()
		return s.checkpoints, nil
	}

	filename := s.cfg.Checkpoint.Filename
	if filename == "" {
		filename = "checkpoints.db"
	}
	db, err := sqlite.OpenInDir(s.metadata.CheckpointDir, filename)
	if err != nil {
		return nil, fmt.Errorf("open checkpoints: %w", err)
	}
	s.checkpoints = sqlite.NewCheckpointStore(db)

	s.logger.Debug().Str("path", db.Path()).Msg("checkpoint store opened")
	return s.checkpoints, nil
}

// Close releases the checkpoint store if it was opened.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checkpoints == nil {
		return nil
	}
	err := s.checkpoints.Close()
	s.checkpoints = nil
	return err
}
