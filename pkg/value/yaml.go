package value

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// maxYAMLDepth bounds alias expansion; anchors may point at their own ancestors.
const maxYAMLDepth = 256

// ParseYAML decodes every document of a (possibly multi-document) YAML stream.
func ParseYAML(data []byte) ([]Value, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var out []Value
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid YAML at document %d: %w", len(out)+1, err)
		}
		v, err := FromYAML(&node)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// FromYAML converts a decoded YAML node, keeping mapping key order.
func FromYAML(n *yaml.Node) (Value, error) {
	return fromYAML(n, 0)
}

func fromYAML(n *yaml.Node, depth int) (Value, error) {
	if depth > maxYAMLDepth {
		return Value{}, fmt.Errorf("YAML nesting exceeds %d levels (recursive alias?)", maxYAMLDepth)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return NullValue(), nil
		}
		return fromYAML(n.Content[0], depth+1)

	case yaml.AliasNode:
		return fromYAML(n.Alias, depth+1)

	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAML(c, depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return ArrayValue(items...), nil

	case yaml.MappingNode:
		members := make([]Member, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := fromYAML(n.Content[i+1], depth+1)
			if err != nil {
				return Value{}, err
			}
			members = append(members, Member{Key: n.Content[i].Value, Value: v})
		}
		return ObjectValue(members...), nil

	case yaml.ScalarNode:
		return yamlScalar(n)
	}

	return NullValue(), nil
}

func yamlScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return NullValue(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return BoolValue(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return NumberValue(strconv.FormatInt(i, 10)), nil
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return NumberValue(strconv.FormatUint(u, 10)), nil
		}
		return StringValue(n.Value), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		// .inf and .nan have no JSON spelling.
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return StringValue(n.Value), nil
		}
		return NumberValue(strconv.FormatFloat(f, 'g', -1, 64)), nil
	}
	return StringValue(n.Value), nil
}
