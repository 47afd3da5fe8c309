package interpreter

import (
	"testing"

	"github.com/zojize/viz-list/pkg/runtime"
	"github.com/zojize/viz-list/pkg/syntax"
)

const stepLimit = 10000

func parseProgram(t *testing.T, src string) syntax.Node {
	t.Helper()
	tree, err := syntax.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	t.Cleanup(tree.Close)
	return tree.Root()
}

func mustInit(t *testing.T, src string) *Interpreter {
	t.Helper()
	interp := New()
	if err := interp.Init(parseProgram(t, src)); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(interp.Reset)
	return interp
}

// runProgram steps to completion and returns the step error.
func runProgram(t *testing.T, interp *Interpreter) error {
	t.Helper()
	for n := 0; n < stepLimit; n++ {
		done, err := interp.Step()
		if done {
			return err
		}
	}
	t.Fatalf("program did not finish within %d steps", stepLimit)
	return nil
}

func mustRun(t *testing.T, src string) (*Interpreter, runtime.Value) {
	t.Helper()
	interp := mustInit(t, src)
	if err := runProgram(t, interp); err != nil {
		t.Fatalf("run: %v", err)
	}
	val, ok := interp.Result()
	if !ok {
		t.Fatalf("expected a result after completion")
	}
	return interp, val
}

func expectInt(t *testing.T, v runtime.Value, want int64) {
	t.Helper()
	n, ok := v.(runtime.IntValue)
	if !ok {
		t.Fatalf("expected int %d, got %#v", want, v)
	}
	if n.Val != want {
		t.Fatalf("expected %d, got %d", want, n.Val)
	}
}

// stepUntil steps until cond holds at a suspension point.
func stepUntil(t *testing.T, interp *Interpreter, cond func() bool) {
	t.Helper()
	for n := 0; n < stepLimit; n++ {
		done, err := interp.Step()
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		if done {
			t.Fatalf("program finished before condition held")
		}
		if cond() {
			return
		}
	}
	t.Fatalf("condition not reached within %d steps", stepLimit)
}

func lookup(t *testing.T, interp *Interpreter, name string) *runtime.Cell {
	t.Helper()
	b, ok := interp.Env().Resolve(name)
	if !ok {
		t.Fatalf("expected binding %q", name)
	}
	cell, err := interp.Store().Cell(b.Loc)
	if err != nil {
		t.Fatalf("cell for %q: %v", name, err)
	}
	return cell
}

func parseForBench(src string) (*syntax.Tree, error) {
	return syntax.Parse([]byte(src))
}
