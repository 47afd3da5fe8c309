package interpreter

import (
	"errors"
	"testing"

	"github.com/zojize/viz-list/pkg/runtime"
)

func TestBlockLocalsDieOnExit(t *testing.T) {
	src := `int main() {
  int *p = nullptr;
  {
    int x = 1;
    p = &x;
  }
  return *p;
}`
	interp := mustInit(t, src)
	err := runProgram(t, interp)
	if !errors.Is(err, runtime.ErrDeadCell) {
		t.Fatalf("expected dead cell access, got %v", err)
	}
	var dead int
	for _, c := range interp.Store().Cells() {
		if c.Origin == runtime.OriginLocal && !c.Alive() {
			dead++
		}
	}
	if dead != 1 {
		t.Fatalf("expected exactly the inner local to be dead, got %d", dead)
	}
}

func TestNameGoneAfterBlock(t *testing.T) {
	interp := mustInit(t, "int main() { { int x = 1; } return x; }")
	err := runProgram(t, interp)
	if !errors.Is(err, runtime.ErrUndeclared) {
		t.Fatalf("expected undeclared after block exit, got %v", err)
	}
}

func TestDeleteThenDereference(t *testing.T) {
	interp := mustInit(t, "int main() { int *p = new int; *p = 7; delete p; return *p; }")
	err := runProgram(t, interp)
	if !errors.Is(err, runtime.ErrMemory) || !errors.Is(err, runtime.ErrDeadCell) {
		t.Fatalf("expected use-after-free failure, got %v", err)
	}
}

func TestDoubleDelete(t *testing.T) {
	interp := mustInit(t, "int main() { int *p = new int; delete p; delete p; return 0; }")
	err := runProgram(t, interp)
	if !errors.Is(err, runtime.ErrInvalidDelete) {
		t.Fatalf("expected invalid delete, got %v", err)
	}
}

func TestDeleteNonHeap(t *testing.T) {
	interp := mustInit(t, "int main() { int x = 1; int *p = &x; delete p; return 0; }")
	err := runProgram(t, interp)
	if !errors.Is(err, runtime.ErrInvalidDelete) {
		t.Fatalf("expected invalid delete, got %v", err)
	}
}

func TestDeleteNullIsNoop(t *testing.T) {
	_, val := mustRun(t, "int main() { int *p = nullptr; delete p; return 2; }")
	expectInt(t, val, 2)
}

func TestCallUnwindsParameters(t *testing.T) {
	src := `int *leak(int v) {
  int local = v;
  return &v;
}
int main() {
  int *p = leak(3);
  return *p;
}`
	interp := mustInit(t, src)
	err := runProgram(t, interp)
	if !errors.Is(err, runtime.ErrDeadCell) {
		t.Fatalf("expected parameter cell to be dead after return, got %v", err)
	}
	for _, c := range interp.Store().Cells() {
		if (c.Origin == runtime.OriginParam || c.Origin == runtime.OriginLocal) && c.Index > 0 {
			if c.Type.String() == "int" && c.Alive() {
				t.Fatalf("expected callee cell #%d to be dead", c.Index)
			}
		}
	}
}

func TestHeapOutlivesCall(t *testing.T) {
	src := `struct Node { int data; Node *next; };
Node *make(int v) {
  Node *n = new Node;
  n->data = v;
  return n;
}
int main() {
  Node *a = make(1);
  a->next = make(2);
  return a->data + a->next->data;
}`
	_, val := mustRun(t, src)
	expectInt(t, val, 3)
}

func TestCallStackDepth(t *testing.T) {
	src := `int inner() { int z = 0; return z; }
int outer() { int y = inner(); return y; }
int main() { int x = outer(); return x; }`
	interp := mustInit(t, src)
	maxDepth := 0
	for {
		done, err := interp.Step()
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		if done {
			break
		}
		if d := interp.Env().CallDepth(); d > maxDepth {
			maxDepth = d
		}
	}
	if maxDepth != 3 {
		t.Fatalf("expected max call depth 3, got %d", maxDepth)
	}
}

func TestCallerScopesRestored(t *testing.T) {
	src := `int f(int a) { int b = a; return b; }
int main() {
  int keep = 5;
  {
    int inner = 6;
    inner = f(inner);
  }
  return keep;
}`
	interp := mustInit(t, src)
	stepUntil(t, interp, func() bool { return interp.Env().CallDepth() == 2 })
	frames := interp.Env().CallStack()
	if len(frames) != 2 || frames[1].Function != "f" {
		t.Fatalf("expected f on top of the call stack, got %+v", frames)
	}
	if got := len(frames[1].Scopes); got != 2 {
		t.Fatalf("expected the caller's two block scopes saved, got %d", got)
	}
	if _, ok := interp.Env().Resolve("keep"); ok {
		t.Fatalf("caller locals must not be visible inside the callee")
	}
	if err := runProgram(t, interp); err != nil {
		t.Fatalf("run: %v", err)
	}
	val, _ := interp.Result()
	expectInt(t, val, 5)
}

func TestAggregateAssignmentKeepsMemberAddresses(t *testing.T) {
	prelude := `struct P { int x; int y; };
struct Box { int vals[2]; P p; };
`
	cases := []struct {
		name string
		body string
		want int64
	}{
		{name: "read through member pointer", body: "P a; P b; b.x = 5; int* q = &a.x; a = b; return *q;", want: 5},
		{name: "write through member pointer", body: "P a; P b; int* q = &a.x; a = b; *q = 9; return a.x;", want: 9},
		{name: "nested member", body: "Box a; Box b; b.p.y = 3; b.vals[1] = 4; int* q = &a.p.y; int* r = &a.vals[1]; a = b; return *q * 10 + *r;", want: 34},
		{name: "assignment through pointer", body: "P* h = new P; int* q = &h->y; P b; b.y = 6; *h = b; *q = *q + 1; return h->y;", want: 7},
		{name: "source stays independent", body: "P a; P b; b.x = 1; a = b; b.x = 2; return a.x;", want: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, val := mustRun(t, prelude+"int main() { "+tc.body+" }")
			expectInt(t, val, tc.want)
		})
	}
}

func TestAggregateAssignmentKeepsSnapshotEdges(t *testing.T) {
	interp := mustInit(t, `struct P { int x; };
int main() {
  P a;
  P b;
  int* q = &a.x;
  a = b;
  return 0;
}`)
	stepUntil(t, interp, func() bool {
		cur := interp.CurrentNode()
		return cur != nil && cur.Kind() == "return_statement"
	})
	snap := interp.Snapshot()
	found := false
	for _, e := range snap.Edges {
		if e.From == "#3" {
			found = true
			if e.To != "#1.x" {
				t.Fatalf("expected q to reference #1.x, got %s", e.To)
			}
		}
	}
	if !found {
		t.Fatalf("expected an edge from q, got %+v", snap.Edges)
	}
}
