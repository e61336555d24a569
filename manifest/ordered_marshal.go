package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"go.yaml.in/yaml/v4"
)

// MarshalJSON writes the table as a JSON object with keys in document order.
// Datetime values become strings. NaN and infinite floats, which JSON cannot
// represent, are written as the strings "nan", "inf" and "-inf".
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTableJSON(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTableJSON(buf *bytes.Buffer, t *Table) error {
	if t == nil {
		buf.WriteString("null")
		return nil
	}
	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		if err := writeValueJSON(buf, t.values[k]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeValueJSON(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case *Table:
		return writeTableJSON(buf, val)
	case []*Table:
		buf.WriteByte('[')
		for i, sub := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeTableJSON(buf, sub); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValueJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return writeJSON(buf, formatFloat(val))
		}
		return writeJSON(buf, val)
	case Datetime:
		return writeJSON(buf, string(val))
	default:
		return writeJSON(buf, v)
	}
}

// writeJSON marshals a value to JSON and writes it to the buffer.
func writeJSON(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

// MarshalYAML returns a yaml.Node mapping with keys in document order.
func (t *Table) MarshalYAML() (any, error) {
	return tableToNode(t)
}

func tableToNode(t *Table) (*yaml.Node, error) {
	if t == nil {
		return scalarNode("!!null", "null"), nil
	}
	node := &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: make([]*yaml.Node, 0, 2*len(t.keys)),
	}
	for _, k := range t.keys {
		valNode, err := valueToNode(t.values[k])
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", k, err)
		}
		node.Content = append(node.Content, scalarNode("!!str", k), valNode)
	}
	return node, nil
}

// scalarNode creates a yaml.Node for a scalar value.
func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// valueToNode converts a manifest value to a yaml.Node.
func valueToNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil:
		return scalarNode("!!null", "null"), nil
	case bool:
		return scalarNode("!!bool", strconv.FormatBool(val)), nil
	case int64:
		return scalarNode("!!int", strconv.FormatInt(val, 10)), nil
	case int:
		return scalarNode("!!int", strconv.Itoa(val)), nil
	case float64:
		switch {
		case math.IsNaN(val):
			return scalarNode("!!float", ".nan"), nil
		case math.IsInf(val, 1):
			return scalarNode("!!float", ".inf"), nil
		case math.IsInf(val, -1):
			return scalarNode("!!float", "-.inf"), nil
		}
		return scalarNode("!!float", strconv.FormatFloat(val, 'g', -1, 64)), nil
	case string:
		return scalarNode("!!str", val), nil
	case Datetime:
		return scalarNode("!!str", string(val)), nil
	case *Table:
		return tableToNode(val)
	case []*Table:
		node := &yaml.Node{Kind: yaml.SequenceNode, Content: make([]*yaml.Node, 0, len(val))}
		for _, sub := range val {
			child, err := tableToNode(sub)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Content: make([]*yaml.Node, 0, len(val))}
		for _, item := range val {
			child, err := valueToNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case []string:
		return valueToNode(normalize(val))
	default:
		return nil, fmt.Errorf("cannot convert %T to yaml.Node", v)
	}
}
