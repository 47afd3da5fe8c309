package driver

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/zojize/viz-list/pkg/interpreter"
	"github.com/zojize/viz-list/pkg/runtime"
	"github.com/zojize/viz-list/pkg/syntax"
)

func openSession(t *testing.T, code string, opts Options) *Session {
	t.Helper()
	s, err := Open(Source{Name: "test.cpp", Data: []byte(code)}, opts)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestSessionRun(t *testing.T) {
	s := openSession(t, "int main() { int a = 20; a += 22; return a; }", Options{})
	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n, ok := res.Value.(runtime.IntValue); !ok || n.Val != 42 {
		t.Fatalf("expected 42, got %#v", res.Value)
	}
	if res.Steps != 3 {
		t.Fatalf("expected 3 steps, got %d", res.Steps)
	}
}

func TestSessionStepLimit(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := openSession(t, "int main() { while (1) {} return 0; }", Options{MaxSteps: 10, Logger: logger})
	res, err := s.Run(context.Background())
	if !errors.Is(err, ErrStepLimit) {
		t.Fatalf("expected step limit, got %v", err)
	}
	if res.Steps != 10 {
		t.Fatalf("expected to stop at 10 steps, got %d", res.Steps)
	}
	if !strings.Contains(logs.String(), "step limit reached") {
		t.Fatalf("expected a log line, got %q", logs.String())
	}
}

func TestSessionTraceAndRestart(t *testing.T) {
	s := openSession(t, "int main() { int a = 1; a++; return a; }", Options{})
	var kinds []string
	_, err := s.Trace(context.Background(), func(snap interpreter.Snapshot) error {
		kinds = append(kinds, snap.Current.Kind)
		return nil
	})
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if strings.Join(kinds, ",") != "declaration,expression_statement,return_statement" {
		t.Fatalf("unexpected trace: %v", kinds)
	}
	if err := s.Restart(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if s.Interpreter().Steps() != 0 || !s.Interpreter().Running() {
		t.Fatalf("expected a fresh run after restart")
	}
	stop := errors.New("stop")
	if _, err := s.Trace(context.Background(), func(interpreter.Snapshot) error { return stop }); !errors.Is(err, stop) {
		t.Fatalf("expected callback error, got %v", err)
	}
}

func TestSessionCanceled(t *testing.T) {
	s := openSession(t, "int main() { return 0; }", Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestOpenReportsErrors(t *testing.T) {
	_, err := Open(Source{Name: "bad.cpp", Data: []byte("int main( { return 0; }")}, Options{})
	var perr *syntax.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected a parse error, got %v", err)
	}
	_, err = Open(Source{Name: "nomain.cpp", Data: []byte("int f() { return 0; }")}, Options{})
	if !errors.Is(err, runtime.ErrMissingEntryPoint) {
		t.Fatalf("expected missing entry point, got %v", err)
	}
}

func TestSessionRuntimeFailure(t *testing.T) {
	s := openSession(t, "int main() { int *p = nullptr; return *p; }", Options{})
	_, err := s.Run(context.Background())
	if !errors.Is(err, runtime.ErrNullDereference) {
		t.Fatalf("expected null dereference, got %v", err)
	}
}
