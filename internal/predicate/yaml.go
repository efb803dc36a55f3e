package predicate

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a predicate from a policy document.
//
// A scalar is shorthand for exact. A mapping must have exactly one key:
// exact, starts_with, ends_with and contains take a string, not takes a
// predicate, and/or take a list of at least two predicates folded left.
func (p *TextPredicate) UnmarshalYAML(node *yaml.Node) error {
	decoded, err := decodeNode(node)
	if err != nil {
		return err
	}
	*p = *decoded
	return nil
}

// MarshalYAML encodes the predicate in the same shape UnmarshalYAML reads.
// And/Or chains are written as nested two-element lists.
func (p *TextPredicate) MarshalYAML() (interface{}, error) {
	switch p.kind {
	case KindExact, KindStartsWith, KindEndsWith, KindContains:
		return map[string]string{p.kind.String(): p.text}, nil
	case KindNot:
		return map[string]*TextPredicate{"not": p.left}, nil
	case KindAnd, KindOr:
		return map[string][]*TextPredicate{p.kind.String(): {p.left, p.right}}, nil
	default:
		return nil, fmt.Errorf("cannot encode predicate kind %d", p.kind)
	}
}

func decodeNode(node *yaml.Node) (*TextPredicate, error) {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}

	switch node.Kind {
	case yaml.ScalarNode:
		return Exact(node.Value), nil
	case yaml.MappingNode:
	default:
		return nil, fmt.Errorf("line %d: predicate must be a string or a mapping", node.Line)
	}

	if len(node.Content) != 2 {
		return nil, fmt.Errorf("line %d: predicate mapping must have exactly one key", node.Line)
	}
	key, value := node.Content[0], node.Content[1]

	switch key.Value {
	case "exact", "starts_with", "ends_with", "contains":
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: %s takes a string", value.Line, key.Value)
		}
		return leaf(key.Value, value.Value), nil

	case "not":
		inner, err := decodeNode(value)
		if err != nil {
			return nil, err
		}
		return Not(inner), nil

	case "and", "or":
		if value.Kind != yaml.SequenceNode || len(value.Content) < 2 {
			return nil, fmt.Errorf("line %d: %s takes a list of at least two predicates", value.Line, key.Value)
		}
		var out *TextPredicate
		for _, child := range value.Content {
			next, err := decodeNode(child)
			if err != nil {
				return nil, err
			}
			switch {
			case out == nil:
				out = next
			case key.Value == "and":
				out = And(out, next)
			default:
				out = Or(out, next)
			}
		}
		return out, nil

	default:
		return nil, fmt.Errorf("line %d: unknown predicate %q", key.Line, key.Value)
	}
}

func leaf(kind, text string) *TextPredicate {
	switch kind {
	case "starts_with":
		return StartsWith(text)
	case "ends_with":
		return EndsWith(text)
	case "contains":
		return Contains(text)
	default:
		return Exact(text)
	}
}
