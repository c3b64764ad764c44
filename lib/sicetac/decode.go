package sicetac

import (
	"encoding/xml"
	"io"
	"strings"
)

// WireDocument is one documento element from the business response: upstream
// tag names lower-cased, text trimmed. Missing text is an empty string at
// this stage; the extractor decides what absence means per field.
type WireDocument map[string]string

// xmlNode is a generic element tree. The gateway's envelope schema is
// undocumented and its namespace prefixes vary between deployments, so the
// decoder walks nodes by local name instead of unmarshalling into a fixed
// struct.
type xmlNode struct {
	XMLName  xml.Name
	Text     string    `xml:",chardata"`
	Children []xmlNode `xml:",any"`
}

// matchLocal reports whether an element's local name equals want, ignoring
// any namespace prefix or URI.
func matchLocal(name xml.Name, want string) bool {
	return name.Local == want
}

// matchLocalSuffix matches elements whose local name ends in want, used for
// the operation response element whose name embeds the operation.
func matchLocalSuffix(name xml.Name, want string) bool {
	return strings.HasSuffix(name.Local, want)
}

func (n *xmlNode) child(match func(xml.Name) bool) *xmlNode {
	for i := range n.Children {
		if match(n.Children[i].XMLName) {
			return &n.Children[i]
		}
	}
	return nil
}

func (n *xmlNode) descendant(match func(xml.Name) bool) *xmlNode {
	for i := range n.Children {
		if match(n.Children[i].XMLName) {
			return &n.Children[i]
		}
		if found := n.Children[i].descendant(match); found != nil {
			return found
		}
	}
	return nil
}

// parseTree parses text into a generic element tree. The gateway labels its
// documents ISO-8859-1 even though the transport has already transcoded them
// to UTF-8, so the declared charset is ignored.
func parseTree(text string) (*xmlNode, error) {
	decoder := xml.NewDecoder(strings.NewReader(text))
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	var node xmlNode
	if err := decoder.Decode(&node); err != nil {
		return nil, err
	}
	return &node, nil
}

// returnText unwraps the SOAP envelope down to the operation return value.
// The XML parser entity-decodes the character data, so the result is the
// inner business document ready for a second parse.
func returnText(responseText string) (string, error) {
	envelope, err := parseTree(responseText)
	if err != nil {
		return "", &ProtocolError{Reason: "invalid SOAP response structure", Err: err}
	}

	body := envelope.child(func(n xml.Name) bool { return matchLocal(n, "Body") })
	if body == nil {
		return "", &ProtocolError{Reason: "invalid SOAP response structure: missing Body"}
	}

	response := body.child(func(n xml.Name) bool { return matchLocalSuffix(n, "Response") })
	if response == nil {
		return "", &ProtocolError{Reason: "invalid SOAP response structure: missing response element"}
	}

	ret := response.descendant(func(n xml.Name) bool { return matchLocal(n, "return") })
	if ret == nil || strings.TrimSpace(ret.Text) == "" {
		return "", &ProtocolError{Reason: "invalid SOAP response structure: missing return value"}
	}

	return ret.Text, nil
}

// decodeResponse turns the raw gateway response into the ordered list of
// documento field maps, surfacing the upstream's ErrorMSG sentinel as a
// business error rather than a fault.
func decodeResponse(responseText string) ([]WireDocument, error) {
	inner, err := returnText(responseText)
	if err != nil {
		return nil, err
	}

	root, err := parseTree(inner)
	if err != nil {
		return nil, &ProtocolError{Reason: "failed to parse upstream payload", Err: err}
	}

	if errNode := root.child(func(n xml.Name) bool { return matchLocal(n, "ErrorMSG") }); errNode != nil {
		if msg := strings.TrimSpace(errNode.Text); msg != "" {
			return nil, &UpstreamBusinessError{Message: msg}
		}
	}

	var documents []WireDocument
	for i := range root.Children {
		node := &root.Children[i]
		if !matchLocal(node.XMLName, "documento") {
			continue
		}
		doc := make(WireDocument, len(node.Children))
		for _, field := range node.Children {
			doc[strings.ToLower(field.XMLName.Local)] = strings.TrimSpace(field.Text)
		}
		documents = append(documents, doc)
	}

	if len(documents) == 0 {
		return nil, &NotFoundError{Reason: "Sicetac response did not include any quotes"}
	}

	return documents, nil
}
