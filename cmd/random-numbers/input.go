package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/artpar/modinput/adapters/eventwriter"
	"github.com/artpar/modinput/adapters/random"
	"github.com/artpar/modinput/app"
	"github.com/artpar/modinput/domain/definition"
	"github.com/artpar/modinput/domain/event"
	"github.com/artpar/modinput/domain/scheme"
	"github.com/artpar/modinput/ports"
)

// checkpointKey holds the last number emitted for a stanza.
const checkpointKey = "last_value"

// RandomNumbers emits a number drawn uniformly from [min, max).
type RandomNumbers struct {
	Clock  ports.Clock
	Random ports.Random
}

// Scheme declares the min and max arguments.
func (r *RandomNumbers) Scheme() *scheme.Scheme {
	s := scheme.New("Random Numbers")
	s.Description = "Streams events containing a random number."
	s.UseExternalValidation = true
	s.UseSingleInstance = false

	_ = s.AddArgument(scheme.Argument{
		Name:             "min",
		Description:      "Minimum random number to be produced by this input.",
		DataType:         scheme.TypeNumber,
		RequiredOnCreate: scheme.Bool(true),
	})
	_ = s.AddArgument(scheme.Argument{
		Name:             "max",
		Description:      "Maximum random number to be produced by this input.",
		DataType:         scheme.TypeNumber,
		RequiredOnCreate: scheme.Bool(true),
	})
	return s
}

// ValidateInput rejects bounds that are not numbers or where min >= max.
func (r *RandomNumbers) ValidateInput(ctx context.Context, s *app.Session, def *definition.ValidationDefinition) error {
	low, high, err := bounds(def.Params)
	if err != nil {
		return app.Reject("%v", err)
	}
	if low >= high {
		return app.Reject("min must be less than max; found min=%s, max=%s",
			def.Params.Get("min"), def.Params.Get("max"))
	}
	return nil
}

// StreamEvents writes one event and records the number as a checkpoint.
func (r *RandomNumbers) StreamEvents(ctx context.Context, s *app.Session, name string, params definition.Params, w *eventwriter.EventWriter) error {
	low, high, err := bounds(params)
	if err != nil {
		return err
	}

	n, err := random.Between(r.Random, low, high)
	if err != nil {
		return err
	}
	value := strconv.FormatFloat(n, 'f', -1, 64)

	e, err := event.New(event.Config{
		Data:   "number=" + value,
		Stanza: name,
		Time:   r.Clock.Now(),
	})
	if err != nil {
		return err
	}
	if err := w.WriteEvent(e); err != nil {
		return err
	}

	return r.checkpoint(ctx, s, name, value)
}

func (r *RandomNumbers) checkpoint(ctx context.Context, s *app.Session, name, value string) error {
	store, err := s.Checkpoints()
	if errors.Is(err, app.ErrCheckpointsDisabled) {
		return nil
	}
	if err != nil {
		return err
	}

	if prev, ok, err := store.Get(ctx, name, checkpointKey); err == nil && ok {
		s.Logger().Debug().Str("stanza", name).Str("previous", prev).Msg("replacing checkpoint")
	}
	return store.Put(ctx, name, checkpointKey, value)
}

func bounds(params definition.Params) (float64, float64, error) {
	low, err := number(params, "min")
	if err != nil {
		return 0, 0, err
	}
	high, err := number(params, "max")
	if err != nil {
		return 0, 0, err
	}
	return low, high, nil
}

func number(params definition.Params, name string) (float64, error) {
	if !params.Has(name) {
		return 0, fmt.Errorf("%s is required", name)
	}
	f, err := strconv.ParseFloat(params.Get(name), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %s", name, params.Get(name))
	}
	return f, nil
}
