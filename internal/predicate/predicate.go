// Package predicate implements the text matching language used to identify
// blocked applications and windows.
//
// A TextPredicate is a small boolean expression tree over case-insensitive
// string matching. Trees are immutable once built; combinators always create
// new nodes and never simplify, so Not(Not(p)) stays two nodes.
package predicate

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of a TextPredicate node.
type Kind int

const (
	KindExact Kind = iota
	KindStartsWith
	KindEndsWith
	KindContains
	KindNot
	KindAnd
	KindOr
)

// String returns the lower_snake name used in policy files.
func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindStartsWith:
		return "starts_with"
	case KindEndsWith:
		return "ends_with"
	case KindContains:
		return "contains"
	case KindNot:
		return "not"
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	default:
		return "unknown"
	}
}

// TextPredicate is a node in a matching expression tree.
// Leaf nodes carry a literal; composite nodes own their children.
type TextPredicate struct {
	kind  Kind
	text  string
	left  *TextPredicate
	right *TextPredicate
}

// Exact matches a candidate equal to text, ignoring case.
func Exact(text string) *TextPredicate {
	return &TextPredicate{kind: KindExact, text: text}
}

// StartsWith matches a candidate beginning with text, ignoring case.
func StartsWith(text string) *TextPredicate {
	return &TextPredicate{kind: KindStartsWith, text: text}
}

// EndsWith matches a candidate ending with text, ignoring case.
func EndsWith(text string) *TextPredicate {
	return &TextPredicate{kind: KindEndsWith, text: text}
}

// Contains matches a candidate containing text, ignoring case.
func Contains(text string) *TextPredicate {
	return &TextPredicate{kind: KindContains, text: text}
}

// Not negates p. It panics if p is nil.
func Not(p *TextPredicate) *TextPredicate {
	mustOperand("Not", p)
	return &TextPredicate{kind: KindNot, left: p}
}

// And matches when both p and q match. It panics if either is nil.
func And(p, q *TextPredicate) *TextPredicate {
	mustOperand("And", p)
	mustOperand("And", q)
	return &TextPredicate{kind: KindAnd, left: p, right: q}
}

// Or matches when p or q matches. It panics if either is nil.
func Or(p, q *TextPredicate) *TextPredicate {
	mustOperand("Or", p)
	mustOperand("Or", q)
	return &TextPredicate{kind: KindOr, left: p, right: q}
}

// mustOperand fails at construction so a bad tree never reaches Test.
func mustOperand(op string, p *TextPredicate) {
	if p == nil {
		panic("predicate: nil operand to " + op)
	}
}

// And returns p & q.
func (p *TextPredicate) And(q *TextPredicate) *TextPredicate { return And(p, q) }

// Or returns p | q.
func (p *TextPredicate) Or(q *TextPredicate) *TextPredicate { return Or(p, q) }

// Not returns !p.
func (p *TextPredicate) Not() *TextPredicate { return Not(p) }

// Kind reports the node variant.
func (p *TextPredicate) Kind() Kind { return p.kind }

// Text returns the literal of a leaf node as it was given, or "" for composites.
func (p *TextPredicate) Text() string { return p.text }

// Test evaluates the tree against candidate.
//
// The candidate is lowercased once; every leaf compares against its own
// lowercased literal, Exact included.
func (p *TextPredicate) Test(candidate string) bool {
	return p.match(strings.ToLower(candidate))
}

func (p *TextPredicate) match(folded string) bool {
	switch p.kind {
	case KindExact:
		return folded == strings.ToLower(p.text)
	case KindStartsWith:
		return strings.HasPrefix(folded, strings.ToLower(p.text))
	case KindEndsWith:
		return strings.HasSuffix(folded, strings.ToLower(p.text))
	case KindContains:
		return strings.Contains(folded, strings.ToLower(p.text))
	case KindNot:
		return !p.left.match(folded)
	case KindAnd:
		return p.left.match(folded) && p.right.match(folded)
	case KindOr:
		return p.left.match(folded) || p.right.match(folded)
	default:
		return false
	}
}

// String renders the expression, e.g. (contains("steam") & !exact("steam.exe")).
func (p *TextPredicate) String() string {
	switch p.kind {
	case KindNot:
		return "!" + p.left.String()
	case KindAnd:
		return fmt.Sprintf("(%s & %s)", p.left, p.right)
	case KindOr:
		return fmt.Sprintf("(%s | %s)", p.left, p.right)
	default:
		return fmt.Sprintf("%s(%q)", p.kind, p.text)
	}
}

// AnyOf folds ps into a left-leaning Or chain. It returns nil for no input.
func AnyOf(ps ...*TextPredicate) *TextPredicate {
	var out *TextPredicate
	for _, p := range ps {
		if out == nil {
			out = p
			continue
		}
		out = Or(out, p)
	}
	return out
}
