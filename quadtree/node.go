package quadtree

// node is the recursive partition unit. A node is a leaf while children is
// nil and holds its entries in items; after a split, items is empty and the
// four children partition bounds into equal quadrants with no gap or
// overlap. size counts every entry in the subtree, which makes the
// merge-on-shrink check after a removal O(1).
//
// Nodes only ever move between two states: a leaf splits when its bucket
// overflows capacity below the depth limit, and an internal node merges
// back into a leaf when a removal leaves its whole subtree at or under
// capacity.
type node[T Point] struct {
	bounds   Rect
	depth    int
	size     int
	items    []T
	children *[4]node[T]
}

// insert walks down to the leaf owning (x, y) and appends there, splitting
// the leaf if the bucket overflows. The caller has already checked that the
// point is inside the tree bounds, so the walk cannot dead-end.
func (t *Tree[T]) insert(n *node[T], item T, x, y float64) {
	for {
		n.size++
		if n.children == nil {
			n.items = append(n.items, item)
			if len(n.items) > t.capacity && n.depth < t.maxDepth {
				t.split(n)
			}
			return
		}
		n = &n.children[n.bounds.quadrant(x, y)]
	}
}

// split turns a leaf into an internal node, redistributing its bucket into
// the four child quadrants. Under the half-open rule every bucketed point
// lands in exactly one child, so redistribution cannot fail. A child that
// inherits the whole bucket splits again in turn, until the points separate
// or the depth limit stops it.
func (t *Tree[T]) split(n *node[T]) {
	quarters := n.bounds.quarter()
	children := new([4]node[T])
	for i := range children {
		children[i] = node[T]{bounds: quarters[i], depth: n.depth + 1}
	}
	for _, item := range n.items {
		c := &children[n.bounds.quadrant(item.X(), item.Y())]
		c.items = append(c.items, item)
		c.size++
	}
	n.items = nil
	n.children = children
	for i := range children {
		c := &children[i]
		if len(c.items) > t.capacity && c.depth < t.maxDepth {
			t.split(c)
		}
	}
}

// query collects into out every value in the subtree that s contains.
// Subtrees whose bounds do not intersect s are never visited.
func (t *Tree[T]) query(n *node[T], s Shape, filter func(T) bool, out *[]T) {
	if n.size == 0 || !s.Intersects(n.bounds) {
		return
	}
	if n.children != nil {
		for i := range n.children {
			t.query(&n.children[i], s, filter, out)
		}
		return
	}
	for _, item := range n.items {
		if s.Contains(item.X(), item.Y()) && (filter == nil || filter(item)) {
			*out = append(*out, item)
		}
	}
}

// remove deletes from the subtree every value that s contains and filter
// accepts, appending the removed values to out when out is non-nil. It
// returns the number removed. After the children report back, an internal
// node whose remaining subtree fits in one bucket collapses into a leaf.
func (t *Tree[T]) remove(n *node[T], s Shape, filter func(T) bool, out *[]T) int {
	if n.size == 0 || !s.Intersects(n.bounds) {
		return 0
	}
	if n.children == nil {
		kept := n.items[:0]
		for _, item := range n.items {
			if s.Contains(item.X(), item.Y()) && (filter == nil || filter(item)) {
				if out != nil {
					*out = append(*out, item)
				}
				continue
			}
			kept = append(kept, item)
		}
		removed := len(n.items) - len(kept)
		clearTail(n.items, len(kept))
		n.items = kept
		n.size -= removed
		return removed
	}
	removed := 0
	for i := range n.children {
		removed += t.remove(&n.children[i], s, filter, out)
	}
	n.size -= removed
	if removed > 0 && n.size <= t.capacity {
		t.merge(n)
	}
	return removed
}

// merge collapses an internal node back into a single leaf, gathering every
// remaining value of the subtree into the bucket and discarding the four
// children. Only called once the subtree total is at or under capacity, so
// the resulting bucket is legal.
func (t *Tree[T]) merge(n *node[T]) {
	items := make([]T, 0, n.size)
	for i := range n.children {
		items = t.collect(&n.children[i], items)
	}
	n.children = nil
	n.items = items
}

// collect appends every value in the subtree to dst, depth first.
func (t *Tree[T]) collect(n *node[T], dst []T) []T {
	if n.children == nil {
		return append(dst, n.items...)
	}
	for i := range n.children {
		dst = t.collect(&n.children[i], dst)
	}
	return dst
}

// clearTail zeroes the slots past length so removed values are not kept
// alive by the bucket's backing array.
func clearTail[T Point](s []T, length int) {
	var zero T
	for i := length; i < len(s); i++ {
		s[i] = zero
	}
}
