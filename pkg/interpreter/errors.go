package interpreter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zojize/viz-list/pkg/runtime"
	"github.com/zojize/viz-list/pkg/syntax"
)

// RuntimeError attaches the failing node to an engine error.
type RuntimeError struct {
	Err      error
	NodeKind string
	Snippet  string
	Location syntax.Span
}

func (e *RuntimeError) Error() string {
	if e.Err == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("runtime: ")
	if loc := e.Location.String(); loc != "" {
		fmt.Fprintf(&b, "%s ", loc)
	}
	b.WriteString(e.Err.Error())
	if e.Snippet != "" {
		fmt.Fprintf(&b, " (in %q)", e.Snippet)
	}
	return b.String()
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// Category classifies the wrapped error.
func (e *RuntimeError) Category() string { return runtime.Category(e.Err) }

const maxSnippet = 40

// wrapNode attaches node context to err unless it already carries one.
func wrapNode(node syntax.Node, err error) error {
	if err == nil || node == nil || errors.Is(err, errHalted) {
		return err
	}
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		return err
	}
	snippet := strings.Join(strings.Fields(node.Text()), " ")
	if runes := []rune(snippet); len(runes) > maxSnippet {
		snippet = string(runes[:maxSnippet-3]) + "..."
	}
	return &RuntimeError{
		Err:      err,
		NodeKind: node.Kind(),
		Snippet:  snippet,
		Location: node.Span(),
	}
}
