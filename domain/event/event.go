// Package event provides the event value the modular input streams to the
// host, the time normalization rule the host expects, and log severities.
// All functions are pure - serialization to a sink lives in adapters/eventwriter.
package event

import (
	"github.com/beevik/etree"
)

// Config holds the fields used to build an Event.
// Time accepts a string, any Go number, a time.Time or a json.Number;
// see FormatTime for how it is normalized.
type Config struct {
	Data       string
	Stanza     string
	Time       any
	Host       string
	Index      string
	Source     string
	SourceType string
	Done       *bool // Defaults to true
	Unbroken   *bool // Defaults to true
}

// Event is one event, or one fragment of an event, bound for the host.
type Event struct {
	Data       string
	Stanza     string
	Time       float64 // Epoch seconds, millisecond precision
	Host       string
	Index      string
	Source     string
	SourceType string
	Done       bool // Marks the end of an event
	Unbroken   bool // Marks a complete, non-fragmented event
}

// New validates cfg and builds an Event.
// Data and Stanza must be non-empty. A nil Time leaves the timestamp to the
// host; any other Time must resolve via FormatTime.
func New(cfg Config) (*Event, error) {
	if cfg.Data == "" {
		return nil, &InvalidEventError{Field: "data"}
	}
	if cfg.Stanza == "" {
		return nil, &InvalidEventError{Field: "stanza"}
	}
	var t float64
	if cfg.Time != nil {
		var ok bool
		if t, ok = FormatTime(cfg.Time); !ok {
			return nil, &InvalidEventError{Field: "time"}
		}
	}

	e := &Event{
		Data:       cfg.Data,
		Stanza:     cfg.Stanza,
		Time:       t,
		Host:       cfg.Host,
		Index:      cfg.Index,
		Source:     cfg.Source,
		SourceType: cfg.SourceType,
		Done:       true,
		Unbroken:   true,
	}
	if cfg.Done != nil {
		e.Done = *cfg.Done
	}
	if cfg.Unbroken != nil {
		e.Unbroken = *cfg.Unbroken
	}
	return e, nil
}

// Element builds the <event> fragment:
//
//	<event stanza="s" unbroken="1"><time>1372187084.000</time><data>...</data><done/></event>
//
// Optional children appear only when set, in the order the host's own SDKs use.
func (e *Event) Element() *etree.Element {
	el := etree.NewElement("event")
	el.CreateAttr("stanza", e.Stanza)
	if e.Unbroken {
		el.CreateAttr("unbroken", "1")
	} else {
		el.CreateAttr("unbroken", "0")
	}

	if e.Time != 0 {
		el.CreateElement("time").SetText(TimeString(e.Time))
	}

	for _, child := range []struct{ tag, value string }{
		{"source", e.Source},
		{"sourcetype", e.SourceType},
		{"index", e.Index},
		{"host", e.Host},
		{"data", e.Data},
	} {
		if child.value != "" {
			el.CreateElement(child.tag).SetText(child.value)
		}
	}

	if e.Done {
		el.CreateElement("done")
	}
	return el
}

// String renders the event fragment.
func (e *Event) String() string {
	doc := etree.NewDocument()
	doc.SetRoot(e.Element())
	out, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return out
}
