package app

import "strings"

// Mode selects what an invocation does.
type Mode int

const (
	ModeStream Mode = iota
	ModeScheme
	ModeValidate
)

// Flags the host passes as the first argument.
const (
	FlagScheme   = "--scheme"
	FlagValidate = "--validate-arguments"
)

func (m Mode) String() string {
	switch m {
	case ModeScheme:
		return "scheme"
	case ModeValidate:
		return "validate"
	default:
		return "stream"
	}
}

// ModeFromArgs picks the mode from the first argument. Anything other
// than the two host flags, or no argument at all, means stream.
func ModeFromArgs(args []string) Mode {
	if len(args) == 0 {
		return ModeStream
	}
	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case FlagScheme:
		return ModeScheme
	case FlagValidate:
		return ModeValidate
	default:
		return ModeStream
	}
}
