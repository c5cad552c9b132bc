package styling

import (
	"errors"
	"fmt"
	"io"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// ParseObject decodes a style object from YAML or JSON text, keeping the
// document's key order. An empty document is an empty object.
func ParseObject(data []byte) (Object, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Object{}, fmt.Errorf("failed to decode style object: %w", err)
	}
	return objectFromDocument(&doc)
}

// DecodeObject reads a single style object from r. See ParseObject.
func DecodeObject(r io.Reader) (Object, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Object{}, nil
		}
		return Object{}, fmt.Errorf("failed to decode style object: %w", err)
	}
	return objectFromDocument(&doc)
}

// ObjectFromNode builds a style object from an already parsed YAML node.
// Useful when style objects are embedded in larger documents.
func ObjectFromNode(n *yaml.Node) (Object, error) {
	return objectFromDocument(n)
}

func objectFromDocument(doc *yaml.Node) (Object, error) {
	n := resolve(doc)
	if n == nil || n.Kind == 0 {
		// empty input leaves the node unset
		return Object{}, nil
	}
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return Object{}, nil
		}
		n = resolve(n.Content[0])
	}
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" {
		return Object{}, nil
	}
	if n.Kind != yaml.MappingNode {
		return Object{}, schemaErrorf("", "style object must be a mapping, got %s", kindName(n))
	}

	entries := make([]Entry, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, err := keyOf(n.Content[i], "")
		if err != nil {
			return Object{}, err
		}
		val := resolve(n.Content[i+1])

		if val.Kind == yaml.MappingNode {
			state, ok := ParseState(key)
			if !ok {
				if strings.HasPrefix(key, ":") {
					return Object{}, schemaErrorf(key, "unsupported state")
				}
				return Object{}, schemaErrorf(key, "nested object under a property key")
			}
			nested, err := stateEntries(state, val)
			if err != nil {
				return Object{}, err
			}
			entries = append(entries, On(state, nested...))
			continue
		}

		v, err := valueOf(val, key)
		if err != nil {
			return Object{}, err
		}
		entries = append(entries, Decl(key, v))
	}

	return NewObject(entries...)
}

func stateEntries(state State, n *yaml.Node) ([]Entry, error) {
	entries := make([]Entry, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, err := keyOf(n.Content[i], string(state))
		if err != nil {
			return nil, err
		}
		path := string(state) + "." + key
		val := resolve(n.Content[i+1])
		if val.Kind == yaml.MappingNode {
			return nil, schemaErrorf(path, "states cannot be nested")
		}
		v, err := valueOf(val, path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Decl(key, v))
	}
	return entries, nil
}

func keyOf(n *yaml.Node, parent string) (string, error) {
	n = resolve(n)
	if n.Kind != yaml.ScalarNode {
		return "", schemaErrorf(parent, "keys must be scalars, got %s", kindName(n))
	}
	return n.Value, nil
}

func valueOf(n *yaml.Node, path string) (Value, error) {
	if n.Kind != yaml.ScalarNode {
		return Value{}, schemaErrorf(path, "value must be a string or number, got %s", kindName(n))
	}
	switch n.ShortTag() {
	case "!!str":
		return String(n.Value), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, schemaErrorf(path, "bad number %q: %v", n.Value, err)
		}
		return Number(f), nil
	case "!!null":
		return Value{}, schemaErrorf(path, "missing value")
	default:
		return Value{}, schemaErrorf(path, "value must be a string or number, got %s", n.ShortTag())
	}
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar " + n.ShortTag()
	case yaml.DocumentNode:
		return "document"
	}
	return "unknown node"
}
