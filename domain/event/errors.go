package event

import (
	"errors"
	"fmt"
)

// ErrInvalidEvent is matched by every *InvalidEventError via errors.Is.
var ErrInvalidEvent = errors.New("invalid event")

// InvalidEventError reports a missing or unusable required event field.
type InvalidEventError struct {
	Field string
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("invalid event: %s is required", e.Field)
}

// Is makes errors.Is(err, ErrInvalidEvent) true for any InvalidEventError.
func (e *InvalidEventError) Is(target error) bool {
	return target == ErrInvalidEvent
}
