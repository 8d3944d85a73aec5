package convert

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Neumenon/toon/toon"
)

// FromYAML reads the first YAML document in data. Mapping key order is
// kept. Empty input is null.
func FromYAML(data []byte) (*toon.Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("convert: failed to parse YAML: %w", err)
	}
	return nodeToValue(&root, 0)
}

const maxDepth = 64

func nodeToValue(node *yaml.Node, depth int) (*toon.Value, error) {
	if node == nil || node.Kind == 0 {
		return toon.Null(), nil
	}
	if depth > maxDepth {
		return nil, fmt.Errorf("convert: YAML nesting deeper than %d at line %d", maxDepth, node.Line)
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return toon.Null(), nil
		}
		return nodeToValue(node.Content[0], depth)

	case yaml.AliasNode:
		return nodeToValue(node.Alias, depth+1)

	case yaml.MappingNode:
		obj := toon.Object()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			val, err := nodeToValue(node.Content[i+1], depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(key.Value, val)
		}
		return obj, nil

	case yaml.SequenceNode:
		arr := toon.Array()
		for _, item := range node.Content {
			v, err := nodeToValue(item, depth+1)
			if err != nil {
				return nil, err
			}
			arr.Append(v)
		}
		return arr, nil

	case yaml.ScalarNode:
		return scalarToValue(node)
	}
	return nil, fmt.Errorf("convert: unsupported YAML node kind %d at line %d", node.Kind, node.Line)
}

func scalarToValue(node *yaml.Node) (*toon.Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return toon.Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("convert: line %d: %w", node.Line, err)
		}
		return toon.Bool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return toon.Int(i), nil
		}
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("convert: line %d: %w", node.Line, err)
		}
		return toon.Float(f), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("convert: line %d: %w", node.Line, err)
		}
		return toon.Float(f), nil
	default:
		// !!str, !!timestamp, !!binary and custom tags keep their text.
		return toon.Str(node.Value), nil
	}
}

// ToYAML writes v as a YAML document with two-space indentation.
func ToYAML(v *toon.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(valueToNode(v)); err != nil {
		return nil, fmt.Errorf("convert: failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("convert: failed to marshal YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func valueToNode(v *toon.Value) *yaml.Node {
	switch v.Kind() {
	case toon.KindBool:
		b, _ := v.AsBool()
		return scalarNode("!!bool", strconv.FormatBool(b))
	case toon.KindInt:
		i, _ := v.AsInt()
		return scalarNode("!!int", strconv.FormatInt(i, 10))
	case toon.KindFloat:
		f, _ := v.AsFloat()
		return scalarNode("!!float", yamlFloat(f))
	case toon.KindString:
		s, _ := v.AsStr()
		return scalarNode("!!str", s)
	case toon.KindArray:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items() {
			node.Content = append(node.Content, valueToNode(item))
		}
		return node
	case toon.KindObject:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range v.Fields() {
			node.Content = append(node.Content, scalarNode("!!str", f.Key), valueToNode(f.Value))
		}
		return node
	}
	return scalarNode("!!null", "null")
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
