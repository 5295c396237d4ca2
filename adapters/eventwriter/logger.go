package eventwriter

import "github.com/artpar/modinput/domain/event"

// Debug logs at DEBUG severity.
func (w *EventWriter) Debug(name, message string) error {
	return w.Log(event.SeverityDebug, name, message)
}

// Info logs at INFO severity.
func (w *EventWriter) Info(name, message string) error {
	return w.Log(event.SeverityInfo, name, message)
}

// Warn logs at WARN severity.
func (w *EventWriter) Warn(name, message string) error {
	return w.Log(event.SeverityWarn, name, message)
}

// Error logs at ERROR severity.
func (w *EventWriter) Error(name, message string) error {
	return w.Log(event.SeverityError, name, message)
}

// Fatal logs at FATAL severity. It does not exit the process.
func (w *EventWriter) Fatal(name, message string) error {
	return w.Log(event.SeverityFatal, name, message)
}
