package runtime

import (
	"errors"
	"testing"
)

func TestNullCellReserved(t *testing.T) {
	s := NewStore()
	if s.Len() != 1 {
		t.Fatalf("expected only the NULL cell, got %d", s.Len())
	}
	null := s.Null()
	if !null.IsNull() || null.Alive() {
		t.Fatalf("expected a dead NULL cell")
	}
	if _, err := s.Read(0); !errors.Is(err, ErrNullDereference) {
		t.Fatalf("expected null dereference, got %v", err)
	}
	if err := s.Write(0, Int64(1)); !errors.Is(err, ErrNullDereference) {
		t.Fatalf("expected null dereference on write, got %v", err)
	}
	if err := s.Kill(0); !errors.Is(err, ErrNullDereference) {
		t.Fatalf("expected kill of NULL to fail, got %v", err)
	}
}

func TestAllocateStableAddresses(t *testing.T) {
	s := NewStore()
	first := s.Allocate(Prim(Int), Int64(1), OriginLocal)
	cell, _ := s.Cell(first)
	for n := 0; n < 100; n++ {
		s.Allocate(Prim(Int), Int64(int64(n)), OriginLocal)
	}
	again, _ := s.Cell(first)
	if cell != again || cell.Index != first {
		t.Fatalf("expected stable cell identity at %d", first)
	}
	if err := s.Write(first, Int64(9)); err != nil {
		t.Fatalf("write: %v", err)
	}
	val, err := s.Read(first)
	if err != nil || val.(IntValue).Val != 9 {
		t.Fatalf("expected 9, got %v (%v)", val, err)
	}
	if _, err := s.Cell(s.Len()); !errors.Is(err, ErrMemory) {
		t.Fatalf("expected out-of-store location to fail, got %v", err)
	}
}

func TestKillIsPermanent(t *testing.T) {
	s := NewStore()
	loc := s.Allocate(Prim(Int), Int64(1), OriginLocal)
	if err := s.Kill(loc); err != nil {
		t.Fatalf("kill: %v", err)
	}
	if err := s.Kill(loc); err != nil {
		t.Fatalf("second kill: %v", err)
	}
	if _, err := s.Read(loc); !errors.Is(err, ErrDeadCell) {
		t.Fatalf("expected dead cell, got %v", err)
	}
	if err := s.Write(loc, Int64(2)); !errors.Is(err, ErrDeadCell) {
		t.Fatalf("expected dead cell on write, got %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected dead cells to stay in the store")
	}
}

func TestMemberLivenessFollowsParent(t *testing.T) {
	s := NewStore()
	layout := NewStructLayout("P")
	if err := layout.AddField("x", Prim(Int)); err != nil {
		t.Fatalf("add field: %v", err)
	}
	val, err := ZeroValue(StructType{Name: "P"}, lookupFunc(func(name string) (*StructLayout, bool) {
		return layout, name == "P"
	}), s.Null())
	if err != nil {
		t.Fatalf("zero value: %v", err)
	}
	loc := s.Allocate(StructType{Name: "P"}, val, OriginLocal)
	field, _ := val.(*StructValue).Field("x")
	if field.Parent() == nil || field.Parent().Index != loc {
		t.Fatalf("expected member cell to be adopted by #%d", loc)
	}
	if err := field.Assign(Int64(4)); err != nil {
		t.Fatalf("assign member: %v", err)
	}
	_ = s.Kill(loc)
	if _, err := field.Load(); !errors.Is(err, ErrDeadCell) {
		t.Fatalf("expected member of dead cell to be dead, got %v", err)
	}
}

func TestAssignReusesMemberCells(t *testing.T) {
	s := NewStore()
	arrType := ArrayType{Of: Prim(Int), Size: 2}
	zero, err := ZeroValue(arrType, nil, s.Null())
	if err != nil {
		t.Fatalf("zero value: %v", err)
	}
	holder, _ := s.Cell(s.Allocate(arrType, zero, OriginLocal))
	first := zero.(*ArrayValue).Items[1]

	next := &ArrayValue{Items: []*Cell{
		NewMemberCell(Prim(Int), Int64(7)),
		NewMemberCell(Prim(Int), Int64(8)),
	}}
	if err := holder.Assign(next); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if got := holder.Peek().(*ArrayValue).Items[1]; got != first {
		t.Fatalf("expected element cell to be reused")
	}
	if v, err := first.Load(); err != nil || v != Int64(8) {
		t.Fatalf("expected element to hold 8, got %v (%v)", v, err)
	}
	if first.Parent() != holder {
		t.Fatalf("expected element to stay attached to its holder")
	}
	if err := next.Items[0].Assign(Int64(1)); err != nil {
		t.Fatalf("assign source: %v", err)
	}
	if v := holder.Peek().(*ArrayValue).Items[0].Peek(); v != Int64(7) {
		t.Fatalf("expected holder to be independent of the source, got %v", v)
	}
}

func TestFree(t *testing.T) {
	s := NewStore()
	heap, _ := s.Cell(s.Allocate(Prim(Int), Int64(1), OriginHeap))
	local, _ := s.Cell(s.Allocate(Prim(Int), Int64(1), OriginLocal))
	if err := s.Free(s.Null()); err != nil {
		t.Fatalf("freeing NULL should be a no-op, got %v", err)
	}
	if err := s.Free(local); !errors.Is(err, ErrInvalidDelete) {
		t.Fatalf("expected invalid delete for a local, got %v", err)
	}
	if err := s.Free(heap); err != nil {
		t.Fatalf("free: %v", err)
	}
	if heap.Alive() {
		t.Fatalf("expected freed cell to be dead")
	}
	if err := s.Free(heap); !errors.Is(err, ErrInvalidDelete) {
		t.Fatalf("expected double free to fail, got %v", err)
	}
	other := NewStore()
	foreign, _ := other.Cell(other.Allocate(Prim(Int), Int64(1), OriginHeap))
	if err := s.Free(foreign); !errors.Is(err, ErrInvalidDelete) {
		t.Fatalf("expected a foreign cell to be rejected, got %v", err)
	}
}

type lookupFunc func(string) (*StructLayout, bool)

func (f lookupFunc) Layout(name string) (*StructLayout, bool) { return f(name) }
