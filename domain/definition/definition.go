// Package definition parses the XML documents the host writes to a modular
// input's stdin: an <input> document for a streaming run and an <items>
// document for external validation.
// All functions are pure - the caller reads the text, these only parse it.
package definition

// Metadata is the invocation context the host sends with every document.
type Metadata struct {
	ServerHost    string
	ServerURI     string
	CheckpointDir string
	SessionKey    string
}

// Value is a parameter value: a single string for <param> or an ordered
// list for <param_list>.
type Value struct {
	scalar string
	list   []string
	isList bool
}

// Scalar creates a single-valued parameter.
func Scalar(s string) Value {
	return Value{scalar: s}
}

// List creates a multi-valued parameter.
func List(values ...string) Value {
	out := make([]string, len(values))
	copy(out, values)
	return Value{list: out, isList: true}
}

// IsList reports whether the value came from a <param_list>.
func (v Value) IsList() bool {
	return v.isList
}

// String returns the scalar value, or the first list item.
func (v Value) String() string {
	if !v.isList {
		return v.scalar
	}
	if len(v.list) == 0 {
		return ""
	}
	return v.list[0]
}

// List returns the list values, or the scalar as a one-item list.
func (v Value) List() []string {
	if !v.isList {
		return []string{v.scalar}
	}
	out := make([]string, len(v.list))
	copy(out, v.list)
	return out
}

// Equal reports whether two values have the same shape and contents.
func (v Value) Equal(o Value) bool {
	if v.isList != o.isList {
		return false
	}
	if !v.isList {
		return v.scalar == o.scalar
	}
	if len(v.list) != len(o.list) {
		return false
	}
	for i := range v.list {
		if v.list[i] != o.list[i] {
			return false
		}
	}
	return true
}

// Params maps parameter names to values for one stanza or validation item.
type Params map[string]Value

// Has reports whether name is present.
func (p Params) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// Get returns the string form of name, or "" when absent.
func (p Params) Get(name string) string {
	return p[name].String()
}

// GetList returns the list form of name, or nil when absent.
func (p Params) GetList(name string) []string {
	v, ok := p[name]
	if !ok {
		return nil
	}
	return v.List()
}

// InputDefinition is the parsed <input> document: one Params per stanza.
// It is not modified after parsing.
type InputDefinition struct {
	Metadata Metadata
	Inputs   map[string]Params

	order []string
}

// Names returns the stanza names in document order.
func (d *InputDefinition) Names() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Input returns the parameters of the named stanza.
func (d *InputDefinition) Input(name string) (Params, bool) {
	p, ok := d.Inputs[name]
	return p, ok
}

// ValidationDefinition is the parsed <items> document: a single proposed
// configuration the host wants checked before it is saved.
type ValidationDefinition struct {
	Metadata Metadata
	Item     string
	Params   Params
}
