package main

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zojize/viz-list/pkg/driver"
	"github.com/zojize/viz-list/pkg/interpreter"
)

// summary is the document printed when a run finishes.
type summary struct {
	Program string `yaml:"program"`
	Result  string `yaml:"result"`
	Steps   int    `yaml:"steps"`
}

type renderer struct {
	w      io.Writer
	format string
	enc    *yaml.Encoder
}

func newRenderer(w io.Writer, format string) *renderer {
	if format == "" {
		format = driver.OutputYAML
	}
	return &renderer{w: w, format: format}
}

// snapshot writes one state. YAML output is a stream of documents.
func (r *renderer) snapshot(snap interpreter.Snapshot) error {
	if r.format == driver.OutputYAML {
		return r.yaml(snap)
	}
	_, err := io.WriteString(r.w, formatSnapshot(snap))
	return err
}

func (r *renderer) summary(s summary) error {
	if r.format == driver.OutputYAML {
		return r.yaml(s)
	}
	_, err := fmt.Fprintf(r.w, "%s returned %s after %d steps\n", s.Program, s.Result, s.Steps)
	return err
}

func (r *renderer) yaml(v any) error {
	if r.enc == nil {
		r.enc = yaml.NewEncoder(r.w)
		r.enc.SetIndent(2)
	}
	return r.enc.Encode(v)
}

// Close ends the YAML stream, if one was started.
func (r *renderer) Close() error {
	if r.enc == nil {
		return nil
	}
	return r.enc.Close()
}

func formatSnapshot(snap interpreter.Snapshot) string {
	var b strings.Builder
	state := "finished"
	if snap.Running {
		state = "running"
	}
	fmt.Fprintf(&b, "step %d (%s)", snap.Steps, state)
	if snap.Current != nil {
		fmt.Fprintf(&b, " at %s %s: %s", snap.Current.Kind, snap.Current.Location, snap.Current.Text)
	}
	b.WriteByte('\n')

	if len(snap.Globals) > 0 {
		b.WriteString("globals:\n")
		writeBindings(&b, "  ", snap.Globals)
	}
	for _, frame := range snap.CallStack {
		if len(frame.Scopes) == 0 {
			continue
		}
		fmt.Fprintf(&b, "frame %s:\n", frame.Function)
		writeScopes(&b, frame.Scopes)
	}
	if len(snap.Scopes) > 0 {
		b.WriteString("current:\n")
		writeScopes(&b, snap.Scopes)
	}

	b.WriteString("cells:\n")
	for _, c := range snap.Cells {
		status := ""
		if !c.Alive {
			status = " (dead)"
		}
		fmt.Fprintf(&b, "  %-6s %-10s %-7s %s%s\n", c.Label, c.Type, c.Origin, c.Value, status)
	}
	if len(snap.Edges) > 0 {
		b.WriteString("edges:\n")
		for _, e := range snap.Edges {
			fmt.Fprintf(&b, "  %s -> %s\n", e.From, e.To)
		}
	}
	return b.String()
}

func writeScopes(b *strings.Builder, scopes [][]interpreter.BindingView) {
	for depth, scope := range scopes {
		fmt.Fprintf(b, "  block %d:\n", depth)
		writeBindings(b, "    ", scope)
	}
}

func writeBindings(b *strings.Builder, indent string, bindings []interpreter.BindingView) {
	for _, binding := range bindings {
		fmt.Fprintf(b, "%s%s %s %s = %s\n", indent, binding.Type, binding.Name, binding.Cell, binding.Value)
	}
}
