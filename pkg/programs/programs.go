// Package programs ships the sample programs runnable as "embedded:<name>".
package programs

import (
	"bufio"
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed samples/*.cpp
var samples embed.FS

// ErrNotFound reports an unknown sample name.
var ErrNotFound = errors.New("programs: sample not found")

// Program is one embedded sample.
type Program struct {
	Name        string
	Description string
	Source      []byte
}

// Names lists the embedded samples in sorted order.
func Names() []string {
	entries, err := fs.ReadDir(samples, "samples")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".cpp" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".cpp"))
	}
	sort.Strings(names)
	return names
}

// Get loads a sample by name. Names may be given with or without the .cpp
// extension.
func Get(name string) (Program, error) {
	base := strings.TrimSuffix(strings.TrimSpace(name), ".cpp")
	if base == "" || strings.ContainsAny(base, "/\\") {
		return Program{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	src, err := samples.ReadFile("samples/" + base + ".cpp")
	if err != nil {
		return Program{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return Program{Name: base, Description: describe(src), Source: src}, nil
}

// All loads every sample.
func All() []Program {
	var out []Program
	for _, name := range Names() {
		if p, err := Get(name); err == nil {
			out = append(out, p)
		}
	}
	return out
}

// describe returns the text of a leading line comment.
func describe(src []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(src))
	if !scanner.Scan() {
		return ""
	}
	line := strings.TrimSpace(scanner.Text())
	if !strings.HasPrefix(line, "//") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(line, "//"))
}
