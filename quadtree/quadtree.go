// Package quadtree implements a dynamic spatial index over 2D points.
//
// The tree subdivides its fixed bounds into quadrants as leaves overflow
// their capacity and collapses them back as removals shrink a subtree, so
// it stays query-fast under sustained insert/delete churn without ever
// rebuilding. Stored values supply their own coordinates through the Point
// interface; rectangular and circular region queries, predicate deletes and
// a combined query-and-remove (Pop) are provided.
//
// A Tree is a single-owner container: it performs no locking of its own,
// and concurrent mutation must be fenced by the caller.
package quadtree

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Point is implemented by any value stored in a Tree. Coordinates must be
// stable while the value is stored: move a value by removing and
// re-inserting it.
type Point interface {
	X() float64
	Y() float64
}

// DefaultMaxDepth bounds subdivision when no explicit depth limit is given.
// At the limit a leaf keeps accepting points past its capacity instead of
// splitting further, so coincident points cannot subdivide forever.
const DefaultMaxDepth = 16

// ErrOutOfBounds reports an insert of a point outside the tree's bounds.
var ErrOutOfBounds = errors.New("quadtree: point outside tree bounds")

// Tree is a dynamic quadtree storing values of type T inside fixed global
// bounds. The zero value is not usable; construct with New or NewWithDepth.
type Tree[T Point] struct {
	root     node[T]
	capacity int
	maxDepth int
}

// New returns an empty tree over the given bounds. Leaves split once they
// hold more than capacity points, down to DefaultMaxDepth levels. A
// capacity below 1 is raised to 1.
func New[T Point](bounds Rect, capacity int) *Tree[T] {
	return NewWithDepth[T](bounds, capacity, DefaultMaxDepth)
}

// NewWithDepth is New with an explicit subdivision limit. A maxDepth of 0
// keeps the tree a single bucket.
func NewWithDepth[T Point](bounds Rect, capacity, maxDepth int) *Tree[T] {
	if capacity < 1 {
		capacity = 1
	}
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &Tree[T]{
		root:     node[T]{bounds: bounds},
		capacity: capacity,
		maxDepth: maxDepth,
	}
}

// Len returns the number of stored values.
func (t *Tree[T]) Len() int {
	return t.root.size
}

// IsEmpty reports whether the tree holds no values.
func (t *Tree[T]) IsEmpty() bool {
	return t.root.size == 0
}

// Bounds returns the global bounds the tree was constructed with.
func (t *Tree[T]) Bounds() Rect {
	return t.root.bounds
}

// Center returns the midpoint of the global bounds.
func (t *Tree[T]) Center() (x, y float64) {
	return t.root.bounds.Center()
}

// Capacity returns the per-leaf capacity.
func (t *Tree[T]) Capacity() int {
	return t.capacity
}

// MaxDepth returns the subdivision limit.
func (t *Tree[T]) MaxDepth() int {
	return t.maxDepth
}

// Insert stores item. It fails with ErrOutOfBounds when the item's
// coordinate falls outside the global bounds; the tree is unchanged then.
func (t *Tree[T]) Insert(item T) error {
	x, y := item.X(), item.Y()
	if !t.root.bounds.Contains(x, y) {
		return fmt.Errorf("%w: (%v, %v)", ErrOutOfBounds, x, y)
	}
	t.insert(&t.root, item, x, y)
	return nil
}

// InsertMany inserts items in order. A rejected item does not stop the
// batch; the rejects are returned alongside the count that went in, so the
// caller decides whether partial insertion is acceptable.
func (t *Tree[T]) InsertMany(items []T) (inserted int, rejected []T) {
	for _, item := range items {
		if err := t.Insert(item); err != nil {
			rejected = append(rejected, item)
			continue
		}
		inserted++
	}
	return inserted, rejected
}

// Get returns a stored value at exactly (x, y). When several values share
// the coordinate an arbitrary one is returned.
func (t *Tree[T]) Get(x, y float64) (T, bool) {
	var zero T
	n := &t.root
	if !n.bounds.Contains(x, y) {
		return zero, false
	}
	for n.children != nil {
		n = &n.children[n.bounds.quadrant(x, y)]
	}
	for _, item := range n.items {
		if item.X() == x && item.Y() == y {
			return item, true
		}
	}
	return zero, false
}

// Query returns every stored value inside s, in unspecified order.
func (t *Tree[T]) Query(s Shape) []T {
	return t.QueryFunc(s, nil)
}

// QueryFunc returns every stored value inside s that also satisfies filter.
// A nil filter accepts everything.
func (t *Tree[T]) QueryFunc(s Shape, filter func(T) bool) []T {
	var out []T
	t.query(&t.root, s, filter, &out)
	return out
}

// Delete removes every stored value inside s and returns how many were
// removed. Removing nothing is not an error.
func (t *Tree[T]) Delete(s Shape) int {
	return t.DeleteFunc(s, nil)
}

// DeleteFunc removes every stored value inside s that also satisfies
// filter. Passing the tree's own Bounds turns it into a pure predicate
// delete over every stored value.
func (t *Tree[T]) DeleteFunc(s Shape, filter func(T) bool) int {
	return t.remove(&t.root, s, filter, nil)
}

// Pop removes and returns every stored value inside s. Query-then-delete in
// one traversal: a value reported by Pop is already out of the tree, so an
// immediate Query over the same shape comes back empty.
func (t *Tree[T]) Pop(s Shape) []T {
	return t.PopFunc(s, nil)
}

// PopFunc is Pop restricted to values satisfying filter.
func (t *Tree[T]) PopFunc(s Shape, filter func(T) bool) []T {
	var out []T
	t.remove(&t.root, s, filter, &out)
	return out
}

// MarshalJSON encodes the tree as a flat JSON array of its stored values in
// unspecified order. Bounds and structure are not part of the encoding;
// rebuilding a tree takes a New call and InsertMany.
func (t *Tree[T]) MarshalJSON() ([]byte, error) {
	items := make([]T, 0, t.Len())
	items = t.collect(&t.root, items)
	return json.Marshal(items)
}
