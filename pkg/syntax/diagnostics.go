package syntax

import (
	"fmt"
	"strings"
	"unicode"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParseError includes a message plus a best-effort source location.
type ParseError struct {
	Message  string
	Location Span
}

func (e *ParseError) Error() string {
	if loc := e.Location.String(); loc != "" {
		return fmt.Sprintf("%s (%s)", e.Message, loc)
	}
	return e.Message
}

func syntaxError(root *sitter.Node) *ParseError {
	missing := findFirst(root, (*sitter.Node).IsMissing)
	errorNode := missing
	if errorNode == nil {
		errorNode = findFirst(root, (*sitter.Node).IsError)
	}
	if errorNode == nil {
		errorNode = root
	}
	message := "syntax: syntax error"
	if missing != nil {
		message = fmt.Sprintf("syntax: syntax error: expected %s", formatExpectedKind(missing.Kind()))
	}
	return &ParseError{
		Message:  message,
		Location: spanForNode(errorNode),
	}
}

func findFirst(root *sitter.Node, match func(*sitter.Node) bool) *sitter.Node {
	var best *sitter.Node
	walkNodes(root, func(node *sitter.Node) {
		if !match(node) {
			return
		}
		if best == nil || node.StartByte() < best.StartByte() {
			best = node
		}
	})
	return best
}

func walkNodes(root *sitter.Node, visit func(node *sitter.Node)) {
	if root == nil {
		return
	}
	visit(root)
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child == nil {
			continue
		}
		walkNodes(child, visit)
	}
}

func formatExpectedKind(kind string) string {
	trimmed := strings.TrimSpace(kind)
	if trimmed == "" {
		return "token"
	}
	isSymbol := true
	for _, r := range trimmed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			isSymbol = false
			break
		}
	}
	if len(trimmed) == 1 || isSymbol {
		return fmt.Sprintf("'%s'", trimmed)
	}
	return strings.ReplaceAll(trimmed, "_", " ")
}
