// Package scheme describes a modular input kind and renders it as the
// <scheme> document the host reads when the script is run with --scheme.
// All functions are pure - no side effects.
package scheme

import "github.com/beevik/etree"

// ArgumentType is the data type the host enforces for an argument value.
type ArgumentType string

const (
	TypeBoolean ArgumentType = "BOOLEAN"
	TypeNumber  ArgumentType = "NUMBER"
	TypeString  ArgumentType = "STRING"
)

// Argument describes one configurable field of a modular input kind.
// Name is the only required field; zero values are left out of the XML.
type Argument struct {
	Name             string
	Description      string
	Validation       string       // Host validation expression, e.g. "is_pos_int('min')"
	DataType         ArgumentType // Empty means the host default (STRING)
	RequiredOnEdit   *bool
	RequiredOnCreate *bool
}

// Bool returns a pointer to b, for the optional Required* fields.
func Bool(b bool) *bool {
	return &b
}

// addTo appends an <arg> element for a to parent (normally <args>).
func (a Argument) addTo(parent *etree.Element) *etree.Element {
	arg := parent.CreateElement("arg")
	arg.CreateAttr("name", a.Name)

	if a.Description != "" {
		arg.CreateElement("description").SetText(a.Description)
	}
	if a.Validation != "" {
		arg.CreateElement("validation").SetText(a.Validation)
	}
	if a.DataType != "" {
		arg.CreateElement("data_type").SetText(string(a.DataType))
	}
	if a.RequiredOnEdit != nil {
		arg.CreateElement("required_on_edit").SetText(formatBool(*a.RequiredOnEdit))
	}
	if a.RequiredOnCreate != nil {
		arg.CreateElement("required_on_create").SetText(formatBool(*a.RequiredOnCreate))
	}

	return arg
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
