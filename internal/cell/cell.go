// Package cell provides a mutable slot for a callback so long-lived listeners can always reach
// the latest handler without being re-registered.
package cell

// Cell holds a value that is read at use time.
type Cell[T any] struct {
	v   T
	set bool
}

// New returns a cell holding v.
func New[T any](v T) *Cell[T] {
	return &Cell[T]{v: v, set: true}
}

// Set replaces the held value.
func (c *Cell[T]) Set(v T) {
	c.v = v
	c.set = true
}

// Clear empties the cell.
func (c *Cell[T]) Clear() {
	var zero T
	c.v = zero
	c.set = false
}

// Get returns the held value and whether one is set.
func (c *Cell[T]) Get() (T, bool) {
	return c.v, c.set
}
