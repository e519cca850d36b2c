package quadtree

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(0, 0, 10, 10)
	cases := []struct {
		name string
		x, y float64
		want bool
	}{
		{"interior", 5, 5, true},
		{"min corner", 0, 0, true},
		{"min x edge", 0, 5, true},
		{"min y edge", 5, 0, true},
		{"max x edge", 10, 5, false},
		{"max y edge", 5, 10, false},
		{"max corner", 10, 10, false},
		{"just inside max", 9.999999, 9.999999, true},
		{"left of rect", -1, 5, false},
		{"below rect", 5, -1, false},
		{"far outside", 20, 20, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.want {
				t.Fatalf("Contains(%v, %v) = %v, want %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	r := NewRect(0, 0, 10, 10)
	cases := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"identical", NewRect(0, 0, 10, 10), true},
		{"overlapping", NewRect(5, 5, 15, 15), true},
		{"contained", NewRect(2, 2, 8, 8), true},
		{"containing", NewRect(-5, -5, 15, 15), true},
		{"disjoint", NewRect(20, 20, 30, 30), false},
		{"touching right edge", NewRect(10, 0, 20, 10), false},
		{"touching top edge", NewRect(0, 10, 10, 20), false},
		{"touching corner", NewRect(10, 10, 20, 20), false},
		{"left neighbour overlapping min edge", NewRect(-10, 0, 1, 10), true},
		{"zero area", NewRect(5, 5, 5, 5), false},
		{"inverted", NewRect(8, 8, 2, 2), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.other.Intersects(r); got != tc.want {
				t.Fatalf("%+v.Intersects(%+v) = %v, want %v", tc.other, r, got, tc.want)
			}
			// Intersection is symmetric.
			if got := r.Intersects(tc.other); got != tc.want {
				t.Fatalf("%+v.Intersects(%+v) = %v, want %v", r, tc.other, got, tc.want)
			}
		})
	}
}

func TestRectAround(t *testing.T) {
	r := RectAround(5, 5, 2)
	if r != NewRect(3, 3, 7, 7) {
		t.Fatalf("RectAround(5, 5, 2) = %+v", r)
	}
	if !r.Contains(5, 5) {
		t.Fatal("center not contained")
	}
}

func TestRectDimensions(t *testing.T) {
	r := NewRect(2, 3, 10, 7)
	if w := r.Width(); w != 8 {
		t.Fatalf("Width() = %v, want 8", w)
	}
	if h := r.Height(); h != 4 {
		t.Fatalf("Height() = %v, want 4", h)
	}
	cx, cy := r.Center()
	if cx != 6 || cy != 5 {
		t.Fatalf("Center() = (%v, %v), want (6, 5)", cx, cy)
	}
}

// Every point must land in exactly the quarter whose index quadrant reports,
// including points sitting exactly on the midlines.
func TestQuarterQuadrantAgreement(t *testing.T) {
	r := NewRect(0, 0, 10, 10)
	quarters := r.quarter()
	points := []struct{ x, y float64 }{
		{2, 2}, {7, 2}, {2, 7}, {7, 7},
		{5, 5}, {5, 2}, {2, 5}, {5, 7}, {7, 5},
		{0, 0}, {9.999, 9.999}, {5, 0}, {0, 5},
	}
	for _, p := range points {
		q := r.quadrant(p.x, p.y)
		hits := 0
		for i, quarter := range quarters {
			if quarter.Contains(p.x, p.y) {
				hits++
				if i != q {
					t.Fatalf("point (%v, %v): quadrant() = %d but quarter %d contains it", p.x, p.y, q, i)
				}
			}
		}
		if hits != 1 {
			t.Fatalf("point (%v, %v) contained by %d quarters, want exactly 1", p.x, p.y, hits)
		}
	}
}

func TestQuarterCoversParent(t *testing.T) {
	r := NewRect(-3, 1, 5, 9)
	quarters := r.quarter()
	if quarters[0] != NewRect(-3, 1, 1, 5) {
		t.Fatalf("quarter 0 = %+v", quarters[0])
	}
	if quarters[1] != NewRect(1, 1, 5, 5) {
		t.Fatalf("quarter 1 = %+v", quarters[1])
	}
	if quarters[2] != NewRect(-3, 5, 1, 9) {
		t.Fatalf("quarter 2 = %+v", quarters[2])
	}
	if quarters[3] != NewRect(1, 5, 5, 9) {
		t.Fatalf("quarter 3 = %+v", quarters[3])
	}
}

func TestCircleContains(t *testing.T) {
	c := NewCircle(5, 5, 3)
	cases := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 5, 5, true},
		{"interior", 6, 6, true},
		{"on perimeter", 8, 5, true},
		{"just outside", 8.001, 5, false},
		{"diagonal outside", 8, 8, false},
		{"far away", 20, 20, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.Contains(tc.x, tc.y); got != tc.want {
				t.Fatalf("Contains(%v, %v) = %v, want %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestCircleDegenerate(t *testing.T) {
	for _, r := range []float64{0, -1} {
		c := NewCircle(5, 5, r)
		if c.Contains(5, 5) {
			t.Fatalf("radius %v circle contains its own center", r)
		}
		if c.Intersects(NewRect(0, 0, 10, 10)) {
			t.Fatalf("radius %v circle intersects an enclosing rect", r)
		}
	}
}

func TestCircleIntersects(t *testing.T) {
	c := NewCircle(5, 5, 3)
	cases := []struct {
		name string
		rect Rect
		want bool
	}{
		{"enclosing", NewRect(0, 0, 10, 10), true},
		{"center inside", NewRect(4, 4, 6, 6), true},
		{"overlapping edge", NewRect(7, 4, 12, 6), true},
		{"disjoint", NewRect(20, 20, 30, 30), false},
		{"near corner but outside", NewRect(7.5, 7.5, 10, 10), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.Intersects(tc.rect); got != tc.want {
				t.Fatalf("Intersects(%+v) = %v, want %v", tc.rect, got, tc.want)
			}
		})
	}
}

func TestAt(t *testing.T) {
	s := At(5, 5)
	if !s.Contains(5, 5) {
		t.Fatal("At(5, 5) does not contain (5, 5)")
	}
	if s.Contains(5, 5.000001) {
		t.Fatal("At(5, 5) contains a nearby point")
	}
	if !s.Intersects(NewRect(0, 0, 10, 10)) {
		t.Fatal("At(5, 5) misses a rect containing it")
	}
	if s.Intersects(NewRect(5.5, 5.5, 10, 10)) {
		t.Fatal("At(5, 5) intersects a rect that excludes it")
	}
	// Half-open: a rect whose max edge passes through the point excludes it.
	if s.Intersects(NewRect(0, 0, 5, 5)) {
		t.Fatal("At(5, 5) intersects a rect whose max corner is (5, 5)")
	}
}
