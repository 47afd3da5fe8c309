package runtime

import "fmt"

// Origin records how a cell came to exist.
type Origin string

const (
	OriginNull   Origin = "null"
	OriginGlobal Origin = "global"
	OriginLocal  Origin = "local"
	OriginParam  Origin = "param"
	OriginHeap   Origin = "heap"
	OriginMember Origin = "member"
)

// Cell is one addressable unit of memory. Top-level cells live in the Store;
// member cells are owned by the array or struct value that contains them.
type Cell struct {
	Type   Type
	Origin Origin
	// Index is the Store position, or -1 for member cells.
	Index int

	value  Value
	dead   bool
	parent *Cell
}

// NewMemberCell builds an unattached sub-cell for an aggregate value.
func NewMemberCell(t Type, v Value) *Cell {
	c := &Cell{Type: t, Origin: OriginMember, Index: -1}
	c.adopt(v)
	return c
}

// IsNull reports whether c is the reserved NULL cell.
func (c *Cell) IsNull() bool { return c != nil && c.Origin == OriginNull }

// Alive reports whether c and every cell containing it are live.
func (c *Cell) Alive() bool {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.dead {
			return false
		}
	}
	return c != nil
}

// Parent returns the containing cell of a member cell.
func (c *Cell) Parent() *Cell { return c.parent }

// Peek returns the stored value without liveness checks. It is meant for
// inspection only.
func (c *Cell) Peek() Value { return c.value }

// Load reads the value, failing for NULL and dead cells.
func (c *Cell) Load() (Value, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return c.value, nil
}

// Assign replaces the value, failing for NULL and dead cells. Aggregates are
// written member by member into the existing sub-cells, so addresses taken
// inside c before the assignment stay valid.
func (c *Cell) Assign(v Value) error {
	if err := c.check(); err != nil {
		return err
	}
	c.write(v)
	return nil
}

func (c *Cell) write(v Value) {
	switch cur := c.value.(type) {
	case *ArrayValue:
		if next, ok := v.(*ArrayValue); ok && len(next.Items) == len(cur.Items) {
			for idx, item := range next.Items {
				cur.Items[idx].write(item.value)
			}
			return
		}
	case *StructValue:
		if next, ok := v.(*StructValue); ok && next.Name == cur.Name && len(next.Fields) == len(cur.Fields) {
			for idx, f := range next.Fields {
				cur.Fields[idx].Cell.write(f.Cell.value)
			}
			return
		}
	}
	c.adopt(v)
}

func (c *Cell) check() error {
	switch {
	case c == nil || c.IsNull():
		return ErrNullDereference
	case !c.Alive():
		return ErrDeadCell
	default:
		return nil
	}
}

func (c *Cell) adopt(v Value) {
	c.value = v
	switch val := v.(type) {
	case *ArrayValue:
		for _, item := range val.Items {
			item.parent = c
		}
	case *StructValue:
		for _, f := range val.Fields {
			f.Cell.parent = c
		}
	}
}

// Store is the append-only sequence of top-level cells. Position 0 is the
// NULL cell, which is permanently dead.
type Store struct {
	cells []*Cell
}

// NewStore creates a store holding only the NULL cell.
func NewStore() *Store {
	null := &Cell{Type: Prim(Int), Origin: OriginNull, Index: 0, value: IntValue{}, dead: true}
	return &Store{cells: []*Cell{null}}
}

// Null returns the reserved NULL cell.
func (s *Store) Null() *Cell { return s.cells[0] }

// Allocate appends a live cell and returns its stable location.
func (s *Store) Allocate(t Type, v Value, origin Origin) int {
	loc := len(s.cells)
	c := &Cell{Type: t, Origin: origin, Index: loc}
	c.adopt(v)
	s.cells = append(s.cells, c)
	return loc
}

// Cell returns the cell at loc.
func (s *Store) Cell(loc int) (*Cell, error) {
	if loc < 0 || loc >= len(s.cells) {
		return nil, fmt.Errorf("%w: location %d outside store", ErrMemory, loc)
	}
	return s.cells[loc], nil
}

// Read loads the value at loc.
func (s *Store) Read(loc int) (Value, error) {
	c, err := s.Cell(loc)
	if err != nil {
		return nil, err
	}
	return c.Load()
}

// Write stores v at loc.
func (s *Store) Write(loc int, v Value) error {
	c, err := s.Cell(loc)
	if err != nil {
		return err
	}
	return c.Assign(v)
}

// Kill marks the cell at loc dead. Killing is irreversible; killing an
// already dead cell is a no-op.
func (s *Store) Kill(loc int) error {
	c, err := s.Cell(loc)
	if err != nil {
		return err
	}
	if c.IsNull() {
		return ErrNullDereference
	}
	c.dead = true
	return nil
}

// Free releases a heap cell referenced by a delete expression.
func (s *Store) Free(c *Cell) error {
	switch {
	case c == nil:
		return ErrInvalidDelete
	case c.IsNull():
		return nil
	case c.Origin != OriginHeap || c.Index < 0 || c.Index >= len(s.cells) || s.cells[c.Index] != c:
		return Detailf(ErrInvalidDelete, "cell was not allocated by new")
	case c.dead:
		return Detailf(ErrInvalidDelete, "cell #%d already deleted", c.Index)
	}
	c.dead = true
	return nil
}

// Len reports the number of cells including NULL.
func (s *Store) Len() int { return len(s.cells) }

// Cells returns the cells in allocation order.
func (s *Store) Cells() []*Cell {
	out := make([]*Cell, len(s.cells))
	copy(out, s.cells)
	return out
}
