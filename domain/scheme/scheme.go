package scheme

import (
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
)

// StreamingMode tells the host how to read the script's stdout.
type StreamingMode string

const (
	StreamingSimple StreamingMode = "simple" // Plain text lines
	StreamingXML    StreamingMode = "xml"    // <stream><event>... fragments
)

var (
	ErrEmptyName         = errors.New("argument name is required")
	ErrDuplicateArgument = errors.New("duplicate argument name")
)

// Scheme is the metadata for a modular input kind.
// It owns its arguments; their order drives the field order in the host UI.
type Scheme struct {
	Title                 string
	Description           string
	UseExternalValidation bool
	UseSingleInstance     bool
	StreamingMode         StreamingMode

	args  []Argument
	names map[string]struct{}
}

// New creates a scheme with the host defaults: external validation on,
// one process per input, XML streaming.
func New(title string) *Scheme {
	return &Scheme{
		Title:                 title,
		UseExternalValidation: true,
		UseSingleInstance:     false,
		StreamingMode:         StreamingXML,
		names:                 make(map[string]struct{}),
	}
}

// AddArgument appends arg. Names must be non-empty and unique within the scheme.
func (s *Scheme) AddArgument(arg Argument) error {
	if arg.Name == "" {
		return ErrEmptyName
	}
	if s.names == nil {
		s.names = make(map[string]struct{})
	}
	if _, exists := s.names[arg.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateArgument, arg.Name)
	}
	s.names[arg.Name] = struct{}{}
	s.args = append(s.args, arg)
	return nil
}

// Arguments returns a copy of the arguments in insertion order.
func (s *Scheme) Arguments() []Argument {
	out := make([]Argument, len(s.args))
	copy(out, s.args)
	return out
}

// Element builds the <scheme> element tree.
func (s *Scheme) Element() *etree.Element {
	root := etree.NewElement("scheme")
	root.CreateElement("title").SetText(s.Title)
	if s.Description != "" {
		root.CreateElement("description").SetText(s.Description)
	}
	root.CreateElement("use_external_validation").SetText(formatBool(s.UseExternalValidation))
	root.CreateElement("use_single_instance").SetText(formatBool(s.UseSingleInstance))

	mode := s.StreamingMode
	if mode == "" {
		mode = StreamingXML
	}
	root.CreateElement("streaming_mode").SetText(string(mode))

	args := root.CreateElement("endpoint").CreateElement("args")
	for _, arg := range s.args {
		arg.addTo(args)
	}
	return root
}

// ToXML returns the scheme as a document without an XML declaration.
func (s *Scheme) ToXML() *etree.Document {
	doc := etree.NewDocument()
	doc.SetRoot(s.Element())
	return doc
}

// String renders the scheme document.
func (s *Scheme) String() string {
	out, err := s.ToXML().WriteToString()
	if err != nil {
		// Writing to a strings.Builder cannot fail.
		return ""
	}
	return out
}

// WriteTo writes the scheme document to w.
func (s *Scheme) WriteTo(w io.Writer) (int64, error) {
	return s.ToXML().WriteTo(w)
}

// ArgumentNames reads back the <arg name> attributes of a scheme document
// in document order.
func ArgumentNames(doc string) ([]string, error) {
	d := etree.NewDocument()
	if err := d.ReadFromString(doc); err != nil {
		return nil, fmt.Errorf("parse scheme: %w", err)
	}
	root := d.Root()
	if root == nil || root.Tag != "scheme" {
		return nil, errors.New("parse scheme: missing <scheme> root")
	}

	var names []string
	for _, arg := range root.FindElements("./endpoint/args/arg") {
		names = append(names, arg.SelectAttrValue("name", ""))
	}
	return names, nil
}
