// Package syntax defines the node-shape contract the interpreter walks and
// adapts tree-sitter-cpp parse trees to it.
package syntax

import "fmt"

// Position is a 1-based line/column pair.
type Position struct {
	Line   int
	Column int
}

// Span covers a node's source range.
type Span struct {
	Start Position
	End   Position
}

func (s Span) String() string {
	if s.Start.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
}

// Node is a typed syntax tree node. Absent children are reported as a nil
// Node, never as a typed nil.
type Node interface {
	// Kind is the grammar type tag, e.g. "binary_expression".
	Kind() string
	// Text is the source text the node covers.
	Text() string
	IsNamed() bool
	ChildByField(name string) Node
	ChildrenByField(name string) []Node
	NamedChildren() []Node
	Children() []Node
	Parent() Node
	Span() Span
	// ID is stable for the lifetime of the tree and unique per node.
	ID() uintptr
}

// FirstNamedChild returns the first named child of n that is not a
// comment, or nil.
func FirstNamedChild(n Node) Node {
	if n == nil {
		return nil
	}
	for _, child := range n.NamedChildren() {
		if child != nil && child.Kind() != "comment" {
			return child
		}
	}
	return nil
}

// Describe formats a node kind with its location for messages.
func Describe(n Node) string {
	if n == nil {
		return "<nil>"
	}
	if loc := n.Span().String(); loc != "" {
		return fmt.Sprintf("%s at %s", n.Kind(), loc)
	}
	return n.Kind()
}
