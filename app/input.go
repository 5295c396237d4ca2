// Package app runs a modular input: it answers the host's scheme
// introspection, validates proposed configurations and drives the
// streaming lifecycle hooks.
package app

import (
	"context"

	"github.com/artpar/modinput/adapters/eventwriter"
	"github.com/artpar/modinput/domain/definition"
	"github.com/artpar/modinput/domain/scheme"
)

// Input is implemented by every modular input.
type Input interface {
	// Scheme describes the input and its arguments to the host.
	Scheme() *scheme.Scheme

	// StreamEvents writes the events for one configured stanza.
	StreamEvents(ctx context.Context, s *Session, name string, params definition.Params, w *eventwriter.EventWriter) error
}

// Optional hooks. The runner skips any an Input does not implement.
type (
	// Setupper runs once before any stanza is started.
	Setupper interface {
		Setup(ctx context.Context, s *Session) error
	}

	// Starter runs before StreamEvents for each stanza.
	Starter interface {
		Start(ctx context.Context, s *Session, name string, def *definition.InputDefinition) error
	}

	// Ender runs after StreamEvents succeeds for a stanza.
	Ender interface {
		End(ctx context.Context, s *Session, name string, def *definition.InputDefinition) error
	}

	// TearDowner runs once after all stanzas, even when setup failed.
	TearDowner interface {
		TearDown(ctx context.Context, s *Session) error
	}

	// Validator checks a configuration before the host saves it.
	// Returning a *ValidationError shows its message to the user.
	Validator interface {
		ValidateInput(ctx context.Context, s *Session, def *definition.ValidationDefinition) error
	}
)

// Hook names used in errors, logs and metrics.
const (
	HookSetup        = "setup"
	HookStart        = "start"
	HookStreamEvents = "stream_events"
	HookEnd          = "end"
	HookTearDown     = "teardown"
	HookValidate     = "validate_input"
)
