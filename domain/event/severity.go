package event

import (
	"fmt"
	"strings"
)

// Severity is a log level the host understands for lines on stderr.
// The string values are part of the host contract.
type Severity string

const (
	SeverityDebug Severity = "DEBUG"
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
	SeverityFatal Severity = "FATAL"
)

// Valid reports whether s is one of the host severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityDebug, SeverityInfo, SeverityWarn, SeverityError, SeverityFatal:
		return true
	}
	return false
}

// ParseSeverity accepts a severity in any case; "warning" maps to WARN.
func ParseSeverity(s string) (Severity, error) {
	up := Severity(strings.ToUpper(strings.TrimSpace(s)))
	if up == "WARNING" {
		return SeverityWarn, nil
	}
	if !up.Valid() {
		return "", fmt.Errorf("unknown severity %q", s)
	}
	return up, nil
}
