// Package camera owns the pan/zoom/rotation state of a graph view and the
// mappings between viewport pixels and graph coordinates.
//
// A Camera is mutated by discrete commits (SetState, typically from a
// pointer captor) and by its animation driver (Tick, called once per
// frame). Animations are recomputed from wall-clock elapsed time on every
// tick, so irregular frames shorten intermediate steps but never drift.
//
// Camera is NOT safe for concurrent use; the engine runs on one goroutine.
package camera

import (
	"math"
	"time"

	"github.com/gogpu/ggraph/clock"
	"github.com/gogpu/ggraph/geom"
)

// Default ratio bounds.
const (
	DefaultMinRatio = 1.0 / 20
	DefaultMaxRatio = 20.0
)

// AnimationOptions configures Camera.Animate.
type AnimationOptions struct {
	Easing   Easing
	Duration time.Duration
}

// animation is the in-flight transition of a camera.
type animation struct {
	from       State
	to         State
	set        Field
	start      time.Time
	duration   time.Duration
	easing     Easing
	onComplete func()
}

// Camera holds the current and previous committed states, the ratio
// bounds and at most one animation.
type Camera struct {
	state    State
	previous State

	minRatio float64
	maxRatio float64

	clock clock.Clock
	anim  *animation

	listeners map[int]func(State)
	nextID    int
}

// Option configures a Camera during creation.
type Option func(*Camera)

// WithRatioBounds sets the zoom ratio bounds. Non-positive bounds fall back
// to the defaults and inverted bounds are swapped.
func WithRatioBounds(minRatio, maxRatio float64) Option {
	return func(c *Camera) {
		c.minRatio, c.maxRatio = NormalizeRatioBounds(minRatio, maxRatio)
	}
}

// WithClock sets the time source used by animations.
func WithClock(clk clock.Clock) Option {
	return func(c *Camera) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithState sets the initial state.
func WithState(s State) Option {
	return func(c *Camera) {
		c.state = s
	}
}

// New creates a camera in DefaultState.
func New(opts ...Option) *Camera {
	c := &Camera{
		state:     DefaultState(),
		minRatio:  DefaultMinRatio,
		maxRatio:  DefaultMaxRatio,
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.clock == nil {
		c.clock = clock.Real{}
	}
	c.state = c.clamp(c.state)
	c.previous = c.state
	return c
}

// NormalizeRatioBounds returns usable ratio bounds: non-positive or NaN
// values take the defaults and inverted bounds are swapped.
func NormalizeRatioBounds(minRatio, maxRatio float64) (float64, float64) {
	if !(minRatio > 0) || math.IsInf(minRatio, 0) {
		minRatio = DefaultMinRatio
	}
	if !(maxRatio > 0) || math.IsInf(maxRatio, 0) {
		maxRatio = DefaultMaxRatio
	}
	if minRatio > maxRatio {
		minRatio, maxRatio = maxRatio, minRatio
	}
	return minRatio, maxRatio
}

// State returns the current state.
func (c *Camera) State() State {
	return c.state
}

// PreviousState returns the state committed before the current one.
func (c *Camera) PreviousState() State {
	return c.previous
}

// RatioBounds returns the configured ratio bounds.
func (c *Camera) RatioBounds() (minRatio, maxRatio float64) {
	return c.minRatio, c.maxRatio
}

// ClampRatio clamps r to the camera's ratio bounds.
func (c *Camera) ClampRatio(r float64) float64 {
	if math.IsNaN(r) {
		return c.state.Ratio
	}
	return math.Min(c.maxRatio, math.Max(c.minRatio, r))
}

func (c *Camera) clamp(s State) State {
	s.Ratio = c.ClampRatio(s.Ratio)
	return s
}

// SetState merges p into the current state, clamps the ratio, records the
// prior state as previous and notifies listeners.
func (c *Camera) SetState(p Partial) {
	c.previous = c.state
	c.state = c.clamp(p.Merge(c.state))
	c.emit()
}

// OnUpdate registers fn to be called after every committed state change.
// The returned function removes the listener.
func (c *Camera) OnUpdate(fn func(State)) (remove func()) {
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() { delete(c.listeners, id) }
}

func (c *Camera) emit() {
	for _, fn := range c.listeners {
		fn(c.state)
	}
}

// Animate starts a transition from the current state to target. Any
// in-flight animation is replaced and its completion callback dropped.
// A non-positive duration commits the target immediately.
func (c *Camera) Animate(target Partial, opts AnimationOptions, onComplete func()) {
	if opts.Easing == nil {
		opts.Easing = QuadraticInOut
	}
	to := c.clamp(target.Merge(c.state))

	if opts.Duration <= 0 {
		c.anim = nil
		c.SetState(Partial{X: to.X, Y: to.Y, Ratio: to.Ratio, Angle: to.Angle, Set: target.Set})
		if onComplete != nil {
			onComplete()
		}
		return
	}

	c.anim = &animation{
		from:       c.state,
		to:         to,
		set:        target.Set,
		start:      c.clock.Now(),
		duration:   opts.Duration,
		easing:     opts.Easing,
		onComplete: onComplete,
	}
}

// IsAnimated reports whether an animation is in flight.
func (c *Camera) IsAnimated() bool {
	return c.anim != nil
}

// StopAnimation cancels the in-flight animation, leaving the camera where
// the last tick put it. The completion callback is not called.
func (c *Camera) StopAnimation() {
	c.anim = nil
}

// Tick advances the in-flight animation to the clock's current time and
// commits the interpolated state. It returns true while an animation is
// still running after the call.
func (c *Camera) Tick() bool {
	a := c.anim
	if a == nil {
		return false
	}

	elapsed := c.clock.Now().Sub(a.start)
	t := float64(elapsed) / float64(a.duration)
	if t >= 1 {
		c.anim = nil
		c.SetState(Partial{X: a.to.X, Y: a.to.Y, Ratio: a.to.Ratio, Angle: a.to.Angle, Set: a.set})
		if a.onComplete != nil {
			a.onComplete()
		}
		return c.anim != nil
	}
	if t < 0 {
		t = 0
	}

	s := lerp(a.from, a.to, a.set, a.easing(t))
	c.SetState(Partial{X: s.X, Y: s.Y, Ratio: s.Ratio, Angle: s.Angle, Set: a.set})
	return true
}

// Matrix returns the graph-to-clip transform for the current state.
func (c *Camera) Matrix(d Dimensions) geom.Matrix {
	return Transform(c.state, d)
}

// ViewportToGraph projects a viewport pixel into graph coordinates using
// the current state.
func (c *Camera) ViewportToGraph(d Dimensions, x, y float64) geom.Point {
	return ViewportToGraph(c.state, d, geom.Pt(x, y))
}

// GraphToViewport projects a graph point into viewport pixels using the
// current state.
func (c *Camera) GraphToViewport(d Dimensions, x, y float64) geom.Point {
	return GraphToViewport(c.state, d, geom.Pt(x, y))
}
