package app

import (
	"errors"
	"fmt"
)

// Sentinel errors for matching with errors.Is.
var (
	ErrHook       = errors.New("hook failed")
	ErrValidation = errors.New("validation failed")
)

// HookError reports a lifecycle hook that returned an error or panicked.
// Input is empty for setup and teardown.
type HookError struct {
	Hook  string
	Input string
	Err   error
}

func (e *HookError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("%s: %v", e.Hook, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Hook, e.Input, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

func (e *HookError) Is(target error) bool {
	return target == ErrHook
}

// ValidationError is returned by a Validator to reject a configuration.
// Message is shown to the user by the host.
type ValidationError struct {
	Message string
}

// Reject returns a ValidationError with a formatted message.
func Reject(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
