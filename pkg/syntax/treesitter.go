package syntax

import (
	"fmt"
	"unsafe"

	sitter "github.com/tree-sitter/go-tree-sitter"
	cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
)

// Parser wraps a tree-sitter parser configured for the C++ grammar.
type Parser struct {
	parser *sitter.Parser
}

// NewParser constructs a parser with the C++ language loaded.
func NewParser() (*Parser, error) {
	lang := sitter.NewLanguage(unsafe.Pointer(cpp.Language()))
	if lang == nil {
		return nil, fmt.Errorf("syntax: cpp language not available")
	}
	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		p.Close()
		return nil, fmt.Errorf("syntax: %w", err)
	}
	return &Parser{parser: p}, nil
}

// Close releases parser resources.
func (p *Parser) Close() {
	if p == nil || p.parser == nil {
		return
	}
	p.parser.Close()
	p.parser = nil
}

// Tree owns a parsed source file. Nodes obtained from Root are valid until
// Close is called.
type Tree struct {
	tree   *sitter.Tree
	source []byte
}

// Root returns the translation_unit node.
func (t *Tree) Root() Node {
	if t == nil || t.tree == nil {
		return nil
	}
	return wrap(t.tree.RootNode(), t.source)
}

// Source returns the parsed bytes.
func (t *Tree) Source() []byte {
	if t == nil {
		return nil
	}
	return t.source
}

// Close frees the underlying tree.
func (t *Tree) Close() {
	if t == nil || t.tree == nil {
		return
	}
	t.tree.Close()
	t.tree = nil
}

// Parse parses source into a tree. A tree containing ERROR or MISSING nodes
// is rejected with a *ParseError.
func (p *Parser) Parse(source []byte) (*Tree, error) {
	if p == nil || p.parser == nil {
		return nil, fmt.Errorf("syntax: nil parser")
	}
	buf := append([]byte(nil), source...)
	tree := p.parser.Parse(buf, nil)
	if tree == nil {
		return nil, fmt.Errorf("syntax: parse produced no tree")
	}
	root := tree.RootNode()
	if root == nil || root.Kind() != "translation_unit" {
		tree.Close()
		return nil, fmt.Errorf("syntax: unexpected root node")
	}
	if root.HasError() {
		err := syntaxError(root)
		tree.Close()
		return nil, err
	}
	return &Tree{tree: tree, source: buf}, nil
}

// Parse is a convenience wrapper that builds a throwaway parser.
func Parse(source []byte) (*Tree, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.Parse(source)
}

type tsNode struct {
	node   *sitter.Node
	source []byte
}

func wrap(n *sitter.Node, source []byte) Node {
	if n == nil {
		return nil
	}
	return &tsNode{node: n, source: source}
}

func (n *tsNode) Kind() string { return n.node.Kind() }

func (n *tsNode) Text() string {
	start, end := n.node.StartByte(), n.node.EndByte()
	if end > uint(len(n.source)) || start > end {
		return ""
	}
	return string(n.source[start:end])
}

func (n *tsNode) IsNamed() bool { return n.node.IsNamed() }

func (n *tsNode) ChildByField(name string) Node {
	return wrap(n.node.ChildByFieldName(name), n.source)
}

func (n *tsNode) ChildrenByField(name string) []Node {
	var out []Node
	for i := uint(0); i < n.node.ChildCount(); i++ {
		if n.node.FieldNameForChild(uint32(i)) != name {
			continue
		}
		if child := n.node.Child(i); child != nil {
			out = append(out, wrap(child, n.source))
		}
	}
	return out
}

func (n *tsNode) NamedChildren() []Node {
	count := n.node.NamedChildCount()
	out := make([]Node, 0, count)
	for i := uint(0); i < count; i++ {
		if child := n.node.NamedChild(i); child != nil {
			out = append(out, wrap(child, n.source))
		}
	}
	return out
}

func (n *tsNode) Children() []Node {
	count := n.node.ChildCount()
	out := make([]Node, 0, count)
	for i := uint(0); i < count; i++ {
		if child := n.node.Child(i); child != nil {
			out = append(out, wrap(child, n.source))
		}
	}
	return out
}

func (n *tsNode) Parent() Node { return wrap(n.node.Parent(), n.source) }

func (n *tsNode) Span() Span {
	return spanForNode(n.node)
}

func (n *tsNode) ID() uintptr { return n.node.Id() }

func spanForNode(node *sitter.Node) Span {
	if node == nil {
		return Span{}
	}
	start := node.StartPosition()
	end := node.EndPosition()
	return Span{
		Start: Position{Line: int(start.Row) + 1, Column: int(start.Column) + 1},
		End:   Position{Line: int(end.Row) + 1, Column: int(end.Column) + 1},
	}
}
