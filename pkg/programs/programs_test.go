package programs

import (
	"errors"
	"slices"
	"testing"
)

func TestNamesSorted(t *testing.T) {
	names := Names()
	for _, want := range []string{"arrays", "insert_back", "pointers", "reverse", "scopes"} {
		if !slices.Contains(names, want) {
			t.Fatalf("expected sample %q in %v", want, names)
		}
	}
	if !slices.IsSorted(names) {
		t.Fatalf("expected sorted names, got %v", names)
	}
}

func TestGet(t *testing.T) {
	p, err := Get("reverse.cpp")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Name != "reverse" {
		t.Fatalf("expected name reverse, got %q", p.Name)
	}
	if p.Description == "" {
		t.Fatalf("expected description from leading comment")
	}
	if len(p.Source) == 0 {
		t.Fatalf("expected source bytes")
	}
}

func TestGetUnknown(t *testing.T) {
	for _, name := range []string{"", "missing", "../programs"} {
		if _, err := Get(name); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get(%q): expected ErrNotFound, got %v", name, err)
		}
	}
}

func TestAll(t *testing.T) {
	if got, want := len(All()), len(Names()); got != want {
		t.Fatalf("expected %d programs, got %d", want, got)
	}
}
