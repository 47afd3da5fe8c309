package interpreter

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/zojize/viz-list/pkg/runtime"
)

func TestWrapNodeTruncatesSnippetByRune(t *testing.T) {
	root := parseProgram(t, `int main() { "`+strings.Repeat("é", 60)+`"; return 0; }`)
	err := wrapNode(root, runtime.ErrDivisionByZero)

	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
	if !utf8.ValidString(rtErr.Snippet) {
		t.Fatalf("snippet is not valid UTF-8: %q", rtErr.Snippet)
	}
	if n := utf8.RuneCountInString(rtErr.Snippet); n != maxSnippet {
		t.Fatalf("expected %d runes, got %d (%q)", maxSnippet, n, rtErr.Snippet)
	}
	if !strings.HasSuffix(rtErr.Snippet, "é...") {
		t.Fatalf("expected the cut to land after a whole rune, got %q", rtErr.Snippet)
	}
	if rtErr.Category() != "arithmetic" {
		t.Fatalf("expected arithmetic category, got %q", rtErr.Category())
	}
}

func TestWrapNodeKeepsShortSnippet(t *testing.T) {
	root := parseProgram(t, "int main() { return 0; }")
	err := wrapNode(root, runtime.ErrDivisionByZero)
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
	if rtErr.Snippet != "int main() { return 0; }" {
		t.Fatalf("unexpected snippet %q", rtErr.Snippet)
	}
	if again := wrapNode(root, err); again != err {
		t.Fatalf("expected an already wrapped error to pass through")
	}
}
