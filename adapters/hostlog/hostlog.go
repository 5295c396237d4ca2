// Package hostlog builds zerolog loggers whose lines match the format the
// host expects on a modular input's stderr:
//
//	ERROR Modular input random_numbers: stanza failed error="boom" stanza=a
//
// The host copies these lines into its internal log, so runtime diagnostics
// and EventWriter.Log calls read the same.
package hostlog

import (
	"fmt"
	"io"
	"strings"

	"github.com/artpar/modinput/domain/event"
	"github.com/rs/zerolog"
)

// New creates a logger that writes host-format lines to w.
// Use WithLevel(zerolog.FatalLevel) for FATAL lines; Fatal() exits the process.
func New(w io.Writer, name string, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		PartsOrder: []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
		FormatLevel: func(i interface{}) string {
			return string(Severity(i))
		},
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return fmt.Sprintf("Modular input %s:", name)
			}
			return fmt.Sprintf("Modular input %s: %v", name, i)
		},
	}
	return zerolog.New(output).Level(level)
}

// Severity maps a zerolog level name to the host severity.
// Levels the host lacks fold into the nearest one.
func Severity(level interface{}) event.Severity {
	s, _ := level.(string)
	switch strings.ToLower(s) {
	case zerolog.LevelTraceValue, zerolog.LevelDebugValue:
		return event.SeverityDebug
	case zerolog.LevelWarnValue:
		return event.SeverityWarn
	case zerolog.LevelErrorValue:
		return event.SeverityError
	case zerolog.LevelFatalValue, zerolog.LevelPanicValue:
		return event.SeverityFatal
	default:
		return event.SeverityInfo
	}
}

// ParseLevel parses a config level such as "debug" or "warn".
// An empty string means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("parse log level: %w", err)
	}
	return level, nil
}
