package bridge

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/anirudhraja/gdvariant/variant"
	"github.com/anirudhraja/gdvariant/wire"
)

// YAML tags for kinds the core schema has no name for
const (
	TagVector2 = "!vector2"
	TagVector3 = "!vector3"
	TagFloat64 = "!float64"
)

// ===== TO YAML =====

// ToYAML converts v into a YAML node. Mapping order follows dictionary insertion order.
func ToYAML(v variant.Value) (*yaml.Node, error) {
	switch t := v.(type) {
	case nil, variant.Null:
		return scalar("!!null", "null"), nil
	case variant.Bool:
		return scalar("!!bool", strconv.FormatBool(t.Value())), nil
	case variant.Integer:
		return scalar("!!int", strconv.FormatInt(t.Value(), 10)), nil
	case variant.Float:
		if t.Wide() {
			return scalar(TagFloat64, formatFloat(t.Value(), 64)), nil
		}
		return scalar("!!float", formatFloat(t.Value(), 32)), nil
	case variant.String:
		return scalar("!!str", t.Value()), nil
	case variant.Vector2:
		return vector(TagVector2, t.X, t.Y), nil
	case variant.Vector3:
		return vector(TagVector3, t.X, t.Y, t.Z), nil
	case *variant.Dictionary:
		if t == nil {
			return scalar("!!null", "null"), nil
		}
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		var err error
		t.Range(func(key, value variant.Value) bool {
			var kn, vn *yaml.Node
			if kn, err = ToYAML(key); err != nil {
				return false
			}
			if vn, err = ToYAML(value); err != nil {
				return false
			}
			node.Content = append(node.Content, kn, vn)
			return true
		})
		if err != nil {
			return nil, err
		}
		return node, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnrepresentable, v)
	}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func vector(tag string, components ...float32) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: tag, Style: yaml.FlowStyle}
	for _, c := range components {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: formatFloat(float64(c), 32)})
	}
	return node
}

func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	return strconv.FormatFloat(f, 'g', -1, bitSize)
}

// MarshalYAML renders v as a YAML document
func MarshalYAML(v variant.Value) ([]byte, error) {
	node, err := ToYAML(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("bridge: encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("bridge: encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteYAMLStream writes values to w as a multi-document YAML stream
func WriteYAMLStream(w io.Writer, values []variant.Value) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for i, v := range values {
		node, err := ToYAML(v)
		if err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		if err := enc.Encode(node); err != nil {
			return fmt.Errorf("bridge: encode YAML document %d: %w", i, err)
		}
	}
	return enc.Close()
}

// ===== FROM YAML =====

// Limits on YAML input. Aliases may refer to their own ancestors and
// nested aliases grow exponentially, so both depth and alias expansion
// are bounded.
const (
	maxYAMLDepth         = wire.DefaultMaxDepth
	maxYAMLAliasExpanded = 1 << 20
)

// FromYAML converts a YAML node into a Variant. Untagged sequences of two or
// three numbers become vectors; plain floats are 32-bit, !float64 floats 64-bit.
// Recursive aliases and excessive nesting fail with ErrUnrepresentable.
func FromYAML(node *yaml.Node) (variant.Value, error) {
	c := &yamlConverter{expanding: make(map[*yaml.Node]bool)}
	return c.convert(node, 0)
}

// yamlConverter tracks nesting and alias expansion for one document
type yamlConverter struct {
	expanding map[*yaml.Node]bool // alias targets currently being expanded
	aliased   int                 // nodes visited beneath an alias
}

func (c *yamlConverter) convert(node *yaml.Node, depth int) (variant.Value, error) {
	if node == nil || node.Kind == 0 {
		return variant.Nil, nil
	}
	if depth > maxYAMLDepth {
		return nil, fmt.Errorf("%w: YAML nesting deeper than %d", ErrUnrepresentable, maxYAMLDepth)
	}
	if len(c.expanding) > 0 {
		c.aliased++
		if c.aliased > maxYAMLAliasExpanded {
			return nil, fmt.Errorf("%w: YAML aliases expand to more than %d nodes", ErrUnrepresentable, maxYAMLAliasExpanded)
		}
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return variant.Nil, nil
		}
		return c.convert(node.Content[0], depth)
	case yaml.AliasNode:
		target := node.Alias
		if c.expanding[target] {
			return nil, fmt.Errorf("%w: line %d: alias *%s refers to itself", ErrUnrepresentable, node.Line, node.Value)
		}
		c.expanding[target] = true
		defer delete(c.expanding, target)
		return c.convert(target, depth+1)
	case yaml.ScalarNode:
		return fromScalar(node)
	case yaml.SequenceNode:
		return fromSequence(node)
	case yaml.MappingNode:
		d := variant.NewDictionaryWithCapacity(len(node.Content) / 2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, err := c.convert(node.Content[i], depth+1)
			if err != nil {
				return nil, fmt.Errorf("line %d: key: %w", node.Content[i].Line, err)
			}
			value, err := c.convert(node.Content[i+1], depth+1)
			if err != nil {
				return nil, fmt.Errorf("line %d: value of %s: %w", node.Content[i+1].Line, key, err)
			}
			d.Insert(key, value)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("%w: YAML node kind %d", ErrUnrepresentable, node.Kind)
	}
}

func fromScalar(node *yaml.Node) (variant.Value, error) {
	switch tag := node.ShortTag(); tag {
	case "!!null":
		return variant.Nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnrepresentable, err)
		}
		return variant.NewBool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnrepresentable, err)
		}
		return variant.NewInteger(i), nil
	case "!!float":
		f, err := parseFloat(node.Value)
		if err != nil {
			return nil, err
		}
		return variant.NewFloat32(float32(f)), nil
	case TagFloat64:
		f, err := parseFloat(node.Value)
		if err != nil {
			return nil, err
		}
		return variant.NewFloat64(f), nil
	case "!!str", "!!timestamp":
		return variant.NewString(node.Value), nil
	default:
		return nil, fmt.Errorf("%w: YAML tag %s", ErrUnrepresentable, tag)
	}
}

func parseFloat(s string) (float64, error) {
	switch strings.ToLower(s) {
	case ".nan":
		return math.NaN(), nil
	case ".inf", "+.inf":
		return math.Inf(1), nil
	case "-.inf":
		return math.Inf(-1), nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: float %q", ErrUnrepresentable, s)
	}
	return f, nil
}

func fromSequence(node *yaml.Node) (variant.Value, error) {
	n := len(node.Content)
	switch node.Tag {
	case TagVector2:
		if n != 2 {
			return nil, fmt.Errorf("%w: %s with %d components", ErrUnrepresentable, TagVector2, n)
		}
	case TagVector3:
		if n != 3 {
			return nil, fmt.Errorf("%w: %s with %d components", ErrUnrepresentable, TagVector3, n)
		}
	default:
		if n != 2 && n != 3 {
			return nil, fmt.Errorf("%w: sequence of %d elements", ErrUnrepresentable, n)
		}
	}

	components := make([]float32, n)
	for i, c := range node.Content {
		if c.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: vector component %d is not a scalar", ErrUnrepresentable, i)
		}
		if tag := c.ShortTag(); tag != "!!int" && tag != "!!float" && tag != TagFloat64 {
			return nil, fmt.Errorf("%w: vector component %d is %s", ErrUnrepresentable, i, tag)
		}
		f, err := parseFloat(c.Value)
		if err != nil {
			return nil, err
		}
		components[i] = float32(f)
	}
	if n == 2 {
		return variant.NewVector2(components[0], components[1]), nil
	}
	return variant.NewVector3(components[0], components[1], components[2]), nil
}

// UnmarshalYAML parses a single YAML document into a Variant
func UnmarshalYAML(data []byte) (variant.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("bridge: parse YAML: %w", err)
	}
	return FromYAML(&doc)
}

// UnmarshalYAMLStream parses every document in r
func UnmarshalYAMLStream(r io.Reader) ([]variant.Value, error) {
	dec := yaml.NewDecoder(r)
	var values []variant.Value
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return values, nil
		}
		if err != nil {
			return values, fmt.Errorf("bridge: parse YAML document %d: %w", len(values), err)
		}
		v, err := FromYAML(&doc)
		if err != nil {
			return values, fmt.Errorf("document %d: %w", len(values), err)
		}
		values = append(values, v)
	}
}
