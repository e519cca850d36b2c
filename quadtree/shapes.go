package quadtree

import "math"

// Shape is a query region. Contains must be a pure predicate over a single
// coordinate, and Intersects must never report false for a rect that holds a
// contained point, since queries prune whole subtrees on its answer.
type Shape interface {
	// Contains reports whether the coordinate lies inside the shape.
	Contains(x, y float64) bool
	// Intersects reports whether the shape overlaps the rect.
	Intersects(r Rect) bool
}

// Rect is an axis-aligned rectangle spanning [MinX, MaxX) x [MinY, MaxY).
// Containment is half-open: the min edges are inside, the max edges are not,
// so a point on the shared edge of two adjacent rects belongs to exactly one
// of them. A rect with zero or negative extent contains nothing.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// NewRect returns the rect spanning [minX, maxX) x [minY, maxY).
func NewRect(minX, minY, maxX, maxY float64) Rect {
	return Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// RectAround returns the square of half-size r centered on (x, y).
func RectAround(x, y, r float64) Rect {
	return Rect{MinX: x - r, MinY: y - r, MaxX: x + r, MaxY: y + r}
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Center returns the midpoint of the rect.
func (r Rect) Center() (x, y float64) {
	return (r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2
}

// Contains reports whether the point lies inside the rect under the
// half-open rule.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x < r.MaxX && y >= r.MinY && y < r.MaxY
}

// Intersects reports whether the two rects share any half-open area.
// Touching edges do not count: no point is inside both. A rect with no
// area intersects nothing.
func (r Rect) Intersects(other Rect) bool {
	return math.Max(r.MinX, other.MinX) < math.Min(r.MaxX, other.MaxX) &&
		math.Max(r.MinY, other.MinY) < math.Min(r.MaxY, other.MaxY)
}

// quadrant returns the child index for a point inside r: bit 0 set when the
// point is in the high-x half, bit 1 set when it is in the high-y half.
// Points exactly on a midline land on the high side, the half-open rule again.
func (r Rect) quadrant(x, y float64) int {
	midX, midY := r.Center()
	q := 0
	if x >= midX {
		q |= 1
	}
	if y >= midY {
		q |= 2
	}
	return q
}

// quarter returns the four equal child rects of r in quadrant index order.
// They partition r exactly: every point of r is inside exactly one child.
func (r Rect) quarter() [4]Rect {
	midX, midY := r.Center()
	return [4]Rect{
		{r.MinX, r.MinY, midX, midY},
		{midX, r.MinY, r.MaxX, midY},
		{r.MinX, midY, midX, r.MaxY},
		{midX, midY, r.MaxX, r.MaxY},
	}
}

// Circle is a disc centered on (X, Y) with radius R. Containment is tested
// on squared distance, so no square root is taken. A circle with R <= 0 is
// degenerate and contains nothing.
type Circle struct {
	X, Y, R float64
}

// NewCircle returns the circle of radius r centered on (x, y).
func NewCircle(x, y, r float64) Circle {
	return Circle{X: x, Y: y, R: r}
}

// Contains reports whether the point lies inside the circle.
func (c Circle) Contains(x, y float64) bool {
	if c.R <= 0 {
		return false
	}
	dx, dy := x-c.X, y-c.Y
	return dx*dx+dy*dy <= c.R*c.R
}

// Intersects reports whether the circle overlaps the rect. The center is
// clamped onto the rect and the closest point tested against the radius.
func (c Circle) Intersects(r Rect) bool {
	if c.R <= 0 {
		return false
	}
	closestX := math.Max(r.MinX, math.Min(c.X, r.MaxX))
	closestY := math.Max(r.MinY, math.Min(c.Y, r.MaxY))
	dx, dy := closestX-c.X, closestY-c.Y
	return dx*dx+dy*dy <= c.R*c.R
}

// At returns a degenerate Shape matching exactly the coordinate (x, y).
// It lets Query, Delete and Pop target entries at one known position
// without scanning the whole tree.
func At(x, y float64) Shape {
	return exact{x: x, y: y}
}

type exact struct {
	x, y float64
}

func (e exact) Contains(x, y float64) bool {
	return x == e.x && y == e.y
}

func (e exact) Intersects(r Rect) bool {
	return r.Contains(e.x, e.y)
}
