package definition

import (
	"errors"
	"fmt"
)

// ErrParse is matched by every *ParseError via errors.Is.
var ErrParse = errors.New("parse error")

// ParseError reports malformed XML or a missing structural element.
type ParseError struct {
	Document string // "input" or "validation"
	Reason   string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s definition: %s: %v", e.Document, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s definition: %s", e.Document, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrParse) true for any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
