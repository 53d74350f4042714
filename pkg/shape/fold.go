package shape

import "github.com/usestring/jsontypegen/pkg/value"

// Merger accumulates samples for the root slot. It is a left fold: the
// state after each Add is the input to the next, so a Merger must not be
// shared between goroutines without synchronization.
type Merger struct {
	shape Shape
	count int
}

// NewMerger creates an empty merger.
func NewMerger() *Merger {
	return &Merger{}
}

// Add folds one sample into the accumulated shape.
func (m *Merger) Add(v value.Value) {
	m.shape = Observe(m.shape, v)
	m.count++
}

// Count returns the number of samples folded so far.
func (m *Merger) Count() int {
	return m.count
}

// Raw returns the accumulated shape without finalization. It is nil when
// nothing has been added.
func (m *Merger) Raw() Shape {
	return m.shape
}

// Shape returns the finalized shape.
func (m *Merger) Shape() Shape {
	return Finalize(m.shape)
}

// Fold merges every sample into one finalized shape.
func Fold(samples ...value.Value) Shape {
	m := NewMerger()
	for _, s := range samples {
		m.Add(s)
	}
	return m.Shape()
}

// TupleMerger merges positional rows: position i of every row shares one
// slot, and positions are never folded into each other.
type TupleMerger struct {
	slots []Shape
	rows  int
}

// NewTupleMerger creates an empty tuple merger.
func NewTupleMerger() *TupleMerger {
	return &TupleMerger{}
}

// AddRow folds one row. Positions missing from the row, or appearing for
// the first time after earlier rows, become optional.
func (t *TupleMerger) AddRow(row []value.Value) {
	for i, v := range row {
		if i == len(t.slots) {
			var start Shape
			if t.rows > 0 {
				start = Null{}
			}
			t.slots = append(t.slots, start)
		}
		t.slots[i] = Observe(t.slots[i], v)
	}
	for i := len(row); i < len(t.slots); i++ {
		t.slots[i] = absent(t.slots[i])
	}
	t.rows++
}

// Rows returns the number of rows folded so far.
func (t *TupleMerger) Rows() int {
	return t.rows
}

// Shapes returns the finalized shape of every position.
func (t *TupleMerger) Shapes() []Shape {
	out := make([]Shape, len(t.slots))
	for i, s := range t.slots {
		out[i] = Finalize(s)
	}
	return out
}

// FoldTuple merges rows position by position.
func FoldTuple(rows ...[]value.Value) []Shape {
	t := NewTupleMerger()
	for _, r := range rows {
		t.AddRow(r)
	}
	return t.Shapes()
}
