package geom

import "math"

// Rect represents an axis-aligned rectangle.
// Min holds the smallest coordinates, Max the largest.
type Rect struct {
	Min, Max Point
}

// NewRect creates a rectangle from two points.
// The points are normalized so Min <= Max.
func NewRect(p1, p2 Point) Rect {
	return Rect{
		Min: Point{X: math.Min(p1.X, p2.X), Y: math.Min(p1.Y, p2.Y)},
		Max: Point{X: math.Max(p1.X, p2.X), Y: math.Max(p1.Y, p2.Y)},
	}
}

// BoundingRect returns the smallest rectangle containing all points.
// It returns the zero Rect when pts is empty.
func BoundingRect(pts ...Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r = r.Include(p)
	}
	return r
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, other.Min.X), Y: math.Min(r.Min.Y, other.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, other.Max.X), Y: math.Max(r.Max.Y, other.Max.Y)},
	}
}

// Include returns the smallest rectangle containing r and p.
func (r Rect) Include(p Point) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, p.X), Y: math.Min(r.Min.Y, p.Y)},
		Max: Point{X: math.Max(r.Max.X, p.X), Y: math.Max(r.Max.Y, p.Y)},
	}
}

// Expand returns r grown by d on every side.
func (r Rect) Expand(d float64) Rect {
	return Rect{
		Min: Point{X: r.Min.X - d, Y: r.Min.Y - d},
		Max: Point{X: r.Max.X + d, Y: r.Max.Y + d},
	}
}

// Contains returns true if the point is inside the rectangle (edges included).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Intersects returns true if the two rectangles overlap (touching counts).
func (r Rect) Intersects(other Rect) bool {
	return r.Min.X <= other.Max.X && other.Min.X <= r.Max.X &&
		r.Min.Y <= other.Max.Y && other.Min.Y <= r.Max.Y
}

// IntersectsDisc returns true if the disc of the given radius centered at c
// overlaps the rectangle.
func (r Rect) IntersectsDisc(c Point, radius float64) bool {
	dx := math.Max(math.Max(r.Min.X-c.X, 0), c.X-r.Max.X)
	dy := math.Max(math.Max(r.Min.Y-c.Y, 0), c.Y-r.Max.Y)
	return dx*dx+dy*dy <= radius*radius
}

// IntersectsSegment returns true if the segment from a to b touches the
// rectangle. It clips the segment parametrically against each slab.
func (r Rect) IntersectsSegment(a, b Point) bool {
	t0, t1 := 0.0, 1.0
	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return false
			}
			t1 = math.Min(t1, t)
		}
		return true
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	return clip(-dx, a.X-r.Min.X) && clip(dx, r.Max.X-a.X) &&
		clip(-dy, a.Y-r.Min.Y) && clip(dy, r.Max.Y-a.Y)
}

// Quadrants splits r into four equal quarters in NW, NE, SW, SE order,
// where "north" is the half with the smaller Y.
func (r Rect) Quadrants() [4]Rect {
	c := r.Center()
	return [4]Rect{
		{Min: r.Min, Max: c},
		{Min: Point{X: c.X, Y: r.Min.Y}, Max: Point{X: r.Max.X, Y: c.Y}},
		{Min: Point{X: r.Min.X, Y: c.Y}, Max: Point{X: c.X, Y: r.Max.Y}},
		{Min: c, Max: r.Max},
	}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}
