package eventwriter

import (
	"errors"
	"fmt"
)

// ErrIO is matched by every *IOError via errors.Is.
var ErrIO = errors.New("i/o error")

// IOError reports a failed write to the output or error sink.
// A broken pipe is the host's only signal that it stopped reading.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrIO) true for any IOError.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}
