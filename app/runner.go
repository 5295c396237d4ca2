package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/artpar/modinput/adapters/eventwriter"
	"github.com/artpar/modinput/domain/definition"
	"github.com/artpar/modinput/ports"
	"github.com/beevik/etree"
	"github.com/rs/zerolog"
)

// State is the runner's position in its lifecycle.
type State int32

const (
	StateIdle State = iota
	StateSchemeRequested
	StateConfiguring
	StateValidating
	StateStreaming
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSchemeRequested:
		return "scheme_requested"
	case StateConfiguring:
		return "configuring"
	case StateValidating:
		return "validating"
	case StateStreaming:
		return "streaming"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Exit statuses returned by Run.
const (
	StatusOK    = 0
	StatusError = 1
)

// RunnerDeps contains dependencies for Runner.
type RunnerDeps struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger zerolog.Logger

	// Optional observers; nil disables.
	Streams ports.StreamObserver
	Hooks   ports.HookObserver
}

// RunnerConfig contains configuration for Runner.
type RunnerConfig struct {
	Name    string // Used in host log lines
	Session SessionConfig
}

// Runner executes one invocation of a modular input.
type Runner struct {
	input  Input
	writer *eventwriter.EventWriter
	logger zerolog.Logger
	hooks  ports.HookObserver
	cfg    RunnerConfig

	state atomic.Int32
}

// NewRunner creates a runner for input.
func NewRunner(input Input, deps RunnerDeps, cfg RunnerConfig) *Runner {
	var opts []eventwriter.Option
	if deps.Streams != nil {
		opts = append(opts, eventwriter.WithObserver(deps.Streams))
	}

	return &Runner{
		input:  input,
		writer: eventwriter.New(deps.Stdout, deps.Stderr, opts...),
		logger: deps.Logger,
		hooks:  deps.Hooks,
		cfg:    cfg,
	}
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	return State(r.state.Load())
}

func (r *Runner) setState(s State) {
	r.state.Store(int32(s))
}

// Writer returns the event writer shared by all hooks.
func (r *Runner) Writer() *eventwriter.EventWriter {
	return r.writer
}

// Run dispatches on args and returns the process exit status.
func (r *Runner) Run(ctx context.Context, args []string, stdin io.Reader) int {
	mode := ModeFromArgs(args)
	start := time.Now()

	var err error
	switch mode {
	case ModeScheme:
		err = r.RunScheme()
	case ModeValidate:
		err = r.RunValidation(ctx, stdin)
	default:
		err = r.RunStream(ctx, stdin)
	}

	status := StatusOK
	if err != nil {
		status = StatusError
		r.setState(StateFailed)
	} else {
		r.setState(StateDone)
	}

	r.logger.Debug().
		Str("mode", mode.String()).
		Int("status", status).
		Dur("elapsed", time.Since(start)).
		Msg("run finished")

	if r.hooks != nil {
		r.hooks.RunFinished(mode.String(), status)
	}
	return status
}

// RunScheme writes the input's scheme to stdout.
func (r *Runner) RunScheme() error {
	r.setState(StateSchemeRequested)

	s := r.input.Scheme()
	if s == nil {
		err := errors.New("modular input returned no scheme")
		r.logger.WithLevel(zerolog.FatalLevel).Err(err).Msg("introspection failed")
		return err
	}

	if err := r.writer.WriteXMLDocument(s.ToXML()); err != nil {
		r.logger.WithLevel(zerolog.FatalLevel).Err(err).Msg("write scheme failed")
		return err
	}
	return nil
}

// RunValidation parses a validation definition from stdin and hands it to
// the input's Validator. On failure an <error><message> document is
// written to stdout for the host to display.
func (r *Runner) RunValidation(ctx context.Context, stdin io.Reader) error {
	r.setState(StateConfiguring)

	text, err := readAll(stdin)
	if err != nil {
		r.logger.WithLevel(zerolog.FatalLevel).Err(err).Msg("read validation definition failed")
		r.writeValidationError(err.Error())
		return err
	}

	def, err := definition.ParseValidation(text)
	if err != nil {
		r.logger.WithLevel(zerolog.FatalLevel).Err(err).Msg("parse validation definition failed")
		r.writeValidationError(err.Error())
		return err
	}

	r.setState(StateValidating)

	validator, ok := r.input.(Validator)
	if !ok {
		return nil
	}

	session := NewSession(def.Metadata, r.logger, r.cfg.Session)
	defer r.closeSession(session)

	err = r.call(HookValidate, def.Item, func() error {
		return validator.ValidateInput(ctx, session, def)
	})
	if err == nil {
		return nil
	}

	message := err.Error()
	var verr *ValidationError
	if errors.As(err, &verr) {
		message = verr.Message
	}
	r.logger.Error().Err(err).Str("item", def.Item).Msg("validation failed")
	r.writeValidationError(message)
	return err
}

// RunStream parses an input definition from stdin and drives the hooks:
// setup, then start, stream and end for each stanza in document order,
// then teardown. A failing stanza stops only its own remaining hooks.
func (r *Runner) RunStream(ctx context.Context, stdin io.Reader) (err error) {
	r.setState(StateConfiguring)

	defer func() {
		if cerr := r.writer.Close(); cerr != nil {
			r.logger.Error().Err(cerr).Msg("close event stream failed")
			err = errors.Join(err, cerr)
		}
	}()

	text, err := readAll(stdin)
	if err != nil {
		r.logger.WithLevel(zerolog.FatalLevel).Err(err).Msg("read input definition failed")
		return err
	}

	def, err := definition.ParseInput(text)
	if err != nil {
		r.logger.WithLevel(zerolog.FatalLevel).Err(err).Msg("parse input definition failed")
		return err
	}

	r.setState(StateStreaming)

	session := NewSession(def.Metadata, r.logger, r.cfg.Session)
	defer r.closeSession(session)

	var errs []error

	setupErr := r.setup(ctx, session)
	if setupErr != nil {
		errs = append(errs, setupErr)
	} else {
		for _, name := range def.Names() {
			if cerr := ctx.Err(); cerr != nil {
				r.logger.Error().Err(cerr).Str("stanza", name).Msg("run cancelled before stanza")
				errs = append(errs, fmt.Errorf("stanza %s: %w", name, cerr))
				continue
			}
			if serr := r.streamStanza(ctx, session, def, name); serr != nil {
				errs = append(errs, serr)
			}
		}
	}

	if terr := r.teardown(ctx, session); terr != nil {
		errs = append(errs, terr)
	}

	return errors.Join(errs...)
}

func (r *Runner) setup(ctx context.Context, session *Session) error {
	setupper, ok := r.input.(Setupper)
	if !ok {
		return nil
	}
	err := r.call(HookSetup, "", func() error {
		return setupper.Setup(ctx, session)
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("setup failed, skipping all stanzas")
	}
	return err
}

func (r *Runner) teardown(ctx context.Context, session *Session) error {
	tearDowner, ok := r.input.(TearDowner)
	if !ok {
		return nil
	}
	err := r.call(HookTearDown, "", func() error {
		return tearDowner.TearDown(ctx, session)
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("teardown failed")
	}
	return err
}

func (r *Runner) streamStanza(ctx context.Context, session *Session, def *definition.InputDefinition, name string) error {
	logger := r.logger.With().Str("stanza", name).Logger()
	params, _ := def.Input(name)

	if starter, ok := r.input.(Starter); ok {
		err := r.call(HookStart, name, func() error {
			return starter.Start(ctx, session, name, def)
		})
		if err != nil {
			logger.Error().Err(err).Msg("start failed")
			return err
		}
	}

	err := r.call(HookStreamEvents, name, func() error {
		return r.input.StreamEvents(ctx, session, name, params, r.writer)
	})
	if err != nil {
		logger.Error().Err(err).Msg("stream events failed")
		return err
	}

	if ender, ok := r.input.(Ender); ok {
		err := r.call(HookEnd, name, func() error {
			return ender.End(ctx, session, name, def)
		})
		if err != nil {
			logger.Error().Err(err).Msg("end failed")
			return err
		}
	}

	logger.Debug().Int64("bytes", r.writer.BytesWritten()).Msg("stanza finished")
	return nil
}

// call runs one hook, converting a panic into an error and reporting the
// outcome to the hook observer.
func (r *Runner) call(hook, input string, fn func() error) (err error) {
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
		if r.hooks != nil {
			r.hooks.HookFinished(hook, time.Since(start), err)
		}
		if err != nil {
			err = &HookError{Hook: hook, Input: input, Err: err}
		}
	}()

	return fn()
}

func (r *Runner) writeValidationError(message string) {
	doc := etree.NewDocument()
	doc.CreateElement("error").CreateElement("message").SetText(message)
	if err := r.writer.WriteXMLDocument(doc); err != nil {
		r.logger.Error().Err(err).Msg("write validation error failed")
	}
}

func (r *Runner) closeSession(session *Session) {
	if err := session.Close(); err != nil {
		r.logger.Warn().Err(err).Msg("close session failed")
	}
}

func readAll(stdin io.Reader) (string, error) {
	if stdin == nil {
		return "", errors.New("read stdin: no input stream")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", &eventwriter.IOError{Op: "read stdin", Err: err}
	}
	return string(data), nil
}
