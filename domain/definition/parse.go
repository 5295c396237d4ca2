package definition

import (
	"io"

	"github.com/beevik/etree"
)

const (
	docInput      = "input"
	docValidation = "validation"
)

// ParseInput parses an <input> document.
//
//	<input>
//	  <server_host>tiny</server_host>
//	  <server_uri>https://127.0.0.1:8089</server_uri>
//	  <checkpoint_dir>/opt/splunk/var/lib/splunk/modinputs</checkpoint_dir>
//	  <session_key>123102983109283019283</session_key>
//	  <configuration>
//	    <stanza name="foobar://aaa">
//	      <param name="param1">value1</param>
//	      <param_list name="multiValue">
//	        <value>value1</value>
//	        <value>value2</value>
//	      </param_list>
//	    </stanza>
//	  </configuration>
//	</input>
func ParseInput(text string) (*InputDefinition, error) {
	root, err := readRoot(text, "input", docInput)
	if err != nil {
		return nil, err
	}

	conf := root.SelectElement("configuration")
	if conf == nil {
		return nil, &ParseError{Document: docInput, Reason: "missing <configuration>"}
	}

	def := &InputDefinition{
		Metadata: parseMetadata(root),
		Inputs:   make(map[string]Params),
	}

	for _, stanza := range conf.SelectElements("stanza") {
		name := stanza.SelectAttrValue("name", "")
		if name == "" {
			return nil, &ParseError{Document: docInput, Reason: "<stanza> without name"}
		}
		params, err := parseParameters(stanza, docInput)
		if err != nil {
			return nil, err
		}
		if _, dup := def.Inputs[name]; !dup {
			def.order = append(def.order, name)
		}
		def.Inputs[name] = params
	}

	return def, nil
}

// ParseValidation parses an <items> document.
//
//	<items>
//	  <server_host>myHost</server_host>
//	  <server_uri>https://127.0.0.1:8089</server_uri>
//	  <session_key>123102983109283019283</session_key>
//	  <checkpoint_dir>/opt/splunk/var/lib/splunk/modinputs</checkpoint_dir>
//	  <item name="myScheme">
//	    <param name="param1">value1</param>
//	    <param_list name="param2">
//	      <value>value2</value>
//	      <value>value3</value>
//	    </param_list>
//	  </item>
//	</items>
func ParseValidation(text string) (*ValidationDefinition, error) {
	root, err := readRoot(text, "items", docValidation)
	if err != nil {
		return nil, err
	}

	items := root.SelectElements("item")
	switch len(items) {
	case 0:
		return nil, &ParseError{Document: docValidation, Reason: "missing <item>"}
	case 1:
	default:
		return nil, &ParseError{Document: docValidation, Reason: "more than one <item>"}
	}

	item := items[0]
	name := item.SelectAttrValue("name", "")
	if name == "" {
		return nil, &ParseError{Document: docValidation, Reason: "<item> without name"}
	}

	params, err := parseParameters(item, docValidation)
	if err != nil {
		return nil, err
	}

	return &ValidationDefinition{
		Metadata: parseMetadata(root),
		Item:     name,
		Params:   params,
	}, nil
}

func readRoot(text, rootTag, document string) (*etree.Element, error) {
	doc := etree.NewDocument()
	// The text is already decoded; the host still declares encoding="utf-16".
	doc.ReadSettings.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	if err := doc.ReadFromString(text); err != nil {
		return nil, &ParseError{Document: document, Reason: "malformed XML", Err: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, &ParseError{Document: document, Reason: "empty document"}
	}
	if root.Tag != rootTag {
		return nil, &ParseError{Document: document, Reason: "unexpected root <" + root.Tag + ">, want <" + rootTag + ">"}
	}
	return root, nil
}

func parseMetadata(root *etree.Element) Metadata {
	return Metadata{
		ServerHost:    childText(root, "server_host"),
		ServerURI:     childText(root, "server_uri"),
		CheckpointDir: childText(root, "checkpoint_dir"),
		SessionKey:    childText(root, "session_key"),
	}
}

// parseParameters reads the <param> and <param_list> children of a
// <stanza> or <item>. Other children are ignored.
func parseParameters(node *etree.Element, document string) (Params, error) {
	params := make(Params)
	for _, child := range node.ChildElements() {
		switch child.Tag {
		case "param":
			name := child.SelectAttrValue("name", "")
			if name == "" {
				return nil, &ParseError{Document: document, Reason: "<param> without name"}
			}
			params[name] = Scalar(child.Text())
		case "param_list":
			name := child.SelectAttrValue("name", "")
			if name == "" {
				return nil, &ParseError{Document: document, Reason: "<param_list> without name"}
			}
			var values []string
			for _, v := range child.SelectElements("value") {
				values = append(values, v.Text())
			}
			params[name] = List(values...)
		}
	}
	return params, nil
}

func childText(node *etree.Element, tag string) string {
	if el := node.SelectElement(tag); el != nil {
		return el.Text()
	}
	return ""
}
