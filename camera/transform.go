package camera

import (
	"math"

	"github.com/gogpu/ggraph/geom"
)

// Dimensions is the size of the viewport in pixels.
type Dimensions struct {
	Width, Height float64
}

// smallest returns the smaller viewport side, never less than 1 so that
// a collapsed viewport still yields an invertible transform.
func (d Dimensions) smallest() float64 {
	return math.Max(1, math.Min(d.Width, d.Height))
}

func (d Dimensions) safe() Dimensions {
	return Dimensions{Width: math.Max(1, d.Width), Height: math.Max(1, d.Height)}
}

// Transform returns the matrix mapping graph coordinates to clip space for
// the given state and viewport.
//
// Scaling is normalized by the smaller viewport side so zoom is isotropic
// whatever the window shape. Logical order is reversed: the translation is
// applied to points first.
func Transform(s State, d Dimensions) geom.Matrix {
	d = d.safe()
	smallest := d.smallest()
	return geom.Chain(
		geom.Scale(2*smallest/d.Width, 2*smallest/d.Height),
		geom.Rotate(-s.Angle),
		geom.Scale(1/s.Ratio, 1/s.Ratio),
		geom.Translate(-s.X, -s.Y),
	)
}

// clipToViewport maps clip space to viewport pixels (Y flipped).
func clipToViewport(d Dimensions) geom.Matrix {
	d = d.safe()
	return geom.Chain(
		geom.Translate(d.Width/2, d.Height/2),
		geom.Scale(d.Width/2, -d.Height/2),
	)
}

// GraphToViewportMatrix returns the matrix mapping graph coordinates to
// viewport pixels.
func GraphToViewportMatrix(s State, d Dimensions) geom.Matrix {
	return clipToViewport(d).Multiply(Transform(s, d))
}

// GraphToViewport projects a graph point into viewport pixels.
func GraphToViewport(s State, d Dimensions, p geom.Point) geom.Point {
	return GraphToViewportMatrix(s, d).TransformPoint(p)
}

// ViewportToGraphMatrix returns the inverse of GraphToViewportMatrix. It
// undoes each step of the chain in turn, so it stays exact at ratios where
// the determinant of the forward matrix underflows.
func ViewportToGraphMatrix(s State, d Dimensions) geom.Matrix {
	d = d.safe()
	smallest := d.smallest()
	return geom.Chain(
		geom.Translate(s.X, s.Y),
		geom.Scale(s.Ratio, s.Ratio),
		geom.Rotate(s.Angle),
		geom.Scale(1/smallest, -1/smallest),
		geom.Translate(-d.Width/2, -d.Height/2),
	)
}

// ViewportToGraph projects a viewport pixel into graph coordinates.
func ViewportToGraph(s State, d Dimensions, p geom.Point) geom.Point {
	return ViewportToGraphMatrix(s, d).TransformPoint(p)
}

// ZoomAround returns the state with the given ratio that keeps the graph
// point under viewport point p where it is. The base state is not touched.
func ZoomAround(s State, d Dimensions, p geom.Point, ratio float64) State {
	before := ViewportToGraph(s, d, p)
	zoomed := s
	zoomed.Ratio = ratio
	after := ViewportToGraph(zoomed, d, p)
	// Translating the camera translates every projected point by the same
	// amount in graph space.
	zoomed.X += before.X - after.X
	zoomed.Y += before.Y - after.Y
	return zoomed
}

// VisibleRect returns the graph-space bounding box of the viewport.
func VisibleRect(s State, d Dimensions) geom.Rect {
	d = d.safe()
	return geom.BoundingRect(
		ViewportToGraph(s, d, geom.Pt(0, 0)),
		ViewportToGraph(s, d, geom.Pt(d.Width, 0)),
		ViewportToGraph(s, d, geom.Pt(0, d.Height)),
		ViewportToGraph(s, d, geom.Pt(d.Width, d.Height)),
	)
}

// PixelsPerUnit returns how many viewport pixels one graph unit spans.
func PixelsPerUnit(s State, d Dimensions) float64 {
	return d.safe().smallest() / s.Ratio
}
