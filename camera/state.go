package camera

// State is the affine view of the camera.
//
// X and Y are the graph coordinates shown at the viewport center. Ratio is
// the inverse of the zoom level: larger values show more of the graph.
// Angle is the rotation in radians.
type State struct {
	X     float64
	Y     float64
	Ratio float64
	Angle float64
}

// DefaultState is the state of a new camera: centered on the unit square
// the renderer frames the graph into, no zoom, no rotation.
func DefaultState() State {
	return State{X: 0.5, Y: 0.5, Ratio: 1, Angle: 0}
}

// Field selects camera state fields in a Partial.
type Field uint8

// Camera state fields.
const (
	FieldX Field = 1 << iota
	FieldY
	FieldRatio
	FieldAngle

	FieldAll = FieldX | FieldY | FieldRatio | FieldAngle
)

// Partial is a state update touching only the fields named in Set.
type Partial struct {
	X, Y, Ratio, Angle float64
	Set                Field
}

// Pan returns a Partial moving the camera center.
func Pan(x, y float64) Partial {
	return Partial{X: x, Y: y, Set: FieldX | FieldY}
}

// Zoom returns a Partial changing the ratio only.
func Zoom(ratio float64) Partial {
	return Partial{Ratio: ratio, Set: FieldRatio}
}

// PanZoom returns a Partial moving the center and changing the ratio.
func PanZoom(x, y, ratio float64) Partial {
	return Partial{X: x, Y: y, Ratio: ratio, Set: FieldX | FieldY | FieldRatio}
}

// Full returns a Partial replacing every field with s.
func Full(s State) Partial {
	return Partial{X: s.X, Y: s.Y, Ratio: s.Ratio, Angle: s.Angle, Set: FieldAll}
}

// Merge returns s with the fields of p applied.
func (p Partial) Merge(s State) State {
	if p.Set&FieldX != 0 {
		s.X = p.X
	}
	if p.Set&FieldY != 0 {
		s.Y = p.Y
	}
	if p.Set&FieldRatio != 0 {
		s.Ratio = p.Ratio
	}
	if p.Set&FieldAngle != 0 {
		s.Angle = p.Angle
	}
	return s
}

// lerp interpolates the fields named in set between from and to.
func lerp(from, to State, set Field, t float64) State {
	out := from
	if set&FieldX != 0 {
		out.X = from.X + (to.X-from.X)*t
	}
	if set&FieldY != 0 {
		out.Y = from.Y + (to.Y-from.Y)*t
	}
	if set&FieldRatio != 0 {
		out.Ratio = from.Ratio + (to.Ratio-from.Ratio)*t
	}
	if set&FieldAngle != 0 {
		out.Angle = from.Angle + (to.Angle-from.Angle)*t
	}
	return out
}
