package captor

import (
	"fmt"
	"time"

	"github.com/gogpu/ggraph/camera"
	"github.com/gogpu/ggraph/clock"
	"github.com/gogpu/ggraph/geom"
)

// MouseHandler receives pointer events from a device.
type MouseHandler interface {
	HandleDown(e MouseEvent)
	HandleUp(e MouseEvent)
	HandleMove(e MouseEvent)
	HandleClick(e MouseEvent)
	HandleWheel(e MouseEvent)
	HandleLeave(e MouseEvent)
}

// MouseSource is a pointer device. A click is delivered after the up
// event that completes it.
type MouseSource interface {
	AttachMouse(h MouseHandler) error
	DetachMouse(h MouseHandler)
}

// Viewport reports the current size of the rendered area.
type Viewport interface {
	Dimensions() camera.Dimensions
}

// State is the button state of a MouseCaptor.
type State uint8

// Captor states.
const (
	Idle State = iota
	Pressed
	Dragging
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Pressed:
		return "pressed"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Config holds the interaction constants of a MouseCaptor.
type Config struct {
	// DragTimeout is how long a drag stays "moving" after the last move.
	// Releasing while moving starts an inertial pan.
	DragTimeout time.Duration

	// InertiaRatio scales the last pan step into the inertial pan.
	InertiaRatio    float64
	InertiaDuration time.Duration

	// ZoomingRatio is the ratio factor of one wheel step.
	ZoomingRatio float64
	ZoomDuration time.Duration

	// DoubleClickTimeout is the window in which a second click becomes a
	// double click. Single clicks are emitted when it expires.
	DoubleClickTimeout         time.Duration
	DoubleClickZoomingRatio    float64
	DoubleClickZoomingDuration time.Duration
}

// DefaultConfig returns the default interaction constants.
func DefaultConfig() Config {
	return Config{
		DragTimeout:                200 * time.Millisecond,
		InertiaRatio:               3,
		InertiaDuration:            200 * time.Millisecond,
		ZoomingRatio:               1.7,
		ZoomDuration:               200 * time.Millisecond,
		DoubleClickTimeout:         300 * time.Millisecond,
		DoubleClickZoomingRatio:    2.2,
		DoubleClickZoomingDuration: 200 * time.Millisecond,
	}
}

// Normalize replaces unusable values with defaults: non-positive durations
// and timeouts, zoom ratios not above 1 and negative inertia.
func (c Config) Normalize() Config {
	d := DefaultConfig()
	if c.DragTimeout <= 0 {
		c.DragTimeout = d.DragTimeout
	}
	if c.InertiaRatio < 0 {
		c.InertiaRatio = d.InertiaRatio
	}
	if c.InertiaDuration <= 0 {
		c.InertiaDuration = d.InertiaDuration
	}
	if !(c.ZoomingRatio > 1) {
		c.ZoomingRatio = d.ZoomingRatio
	}
	if c.ZoomDuration <= 0 {
		c.ZoomDuration = d.ZoomDuration
	}
	if c.DoubleClickTimeout <= 0 {
		c.DoubleClickTimeout = d.DoubleClickTimeout
	}
	if !(c.DoubleClickZoomingRatio > 1) {
		c.DoubleClickZoomingRatio = d.DoubleClickZoomingRatio
	}
	if c.DoubleClickZoomingDuration <= 0 {
		c.DoubleClickZoomingDuration = d.DoubleClickZoomingDuration
	}
	return c
}

// Option configures a MouseCaptor.
type Option func(*MouseCaptor)

// WithConfig sets the interaction constants.
func WithConfig(cfg Config) Option {
	return func(m *MouseCaptor) {
		m.cfg = cfg.Normalize()
	}
}

// WithClock sets the clock driving the captor's timers. It should be the
// clock of the camera. Timer callbacks run on whatever goroutine the clock
// fires them on, which must be the one feeding the captor events.
func WithClock(clk clock.Clock) Option {
	return func(m *MouseCaptor) {
		if clk != nil {
			m.clock = clk
			m.scheduler = nil
		}
	}
}

// MouseCaptor is the Captor of a mouse-like pointer.
type MouseCaptor struct {
	emitter

	source    MouseSource
	camera    *camera.Camera
	viewport  Viewport
	clock     clock.Clock
	scheduler *clock.Scheduler // set when the captor owns the clock
	cfg       Config

	enabled  bool
	attached bool
	state    State

	lastX, lastY float64
	downTime     time.Time
	startState   camera.State
	hasDragged   bool
	dragReset    clock.Timer
	moving       bool
	movingTimer  clock.Timer

	clicks       int
	pendingClick MouseEvent
	clickTimer   clock.Timer

	wheelLock  bool
	wheelTimer clock.Timer
}

var (
	_ Captor       = (*MouseCaptor)(nil)
	_ MouseHandler = (*MouseCaptor)(nil)
)

// NewMouseCaptor creates an enabled captor moving cam. The source may be
// nil when events are fed to the handler methods directly.
//
// Without WithClock the captor owns a clock.Scheduler and its timers fire
// only inside Advance, which the host calls once per frame.
func NewMouseCaptor(source MouseSource, cam *camera.Camera, viewport Viewport, opts ...Option) (*MouseCaptor, error) {
	if cam == nil {
		return nil, ErrNilCamera
	}
	sched := clock.NewScheduler(time.Now())
	m := &MouseCaptor{
		source:    source,
		camera:    cam,
		viewport:  viewport,
		clock:     sched,
		scheduler: sched,
		cfg:       DefaultConfig(),
		enabled:   true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Advance fires the captor timers due at now. It is a no-op when the clock
// was set with WithClock; the owner of that clock advances it.
func (m *MouseCaptor) Advance(now time.Time) {
	if m.scheduler != nil {
		m.scheduler.Advance(now)
	}
}

// Attach subscribes the captor to its source.
func (m *MouseCaptor) Attach() error {
	if m.attached {
		return nil
	}
	if m.source == nil {
		return ErrNoSource
	}
	if err := m.source.AttachMouse(m); err != nil {
		return fmt.Errorf("captor: attach mouse: %w", err)
	}
	m.attached = true
	return nil
}

// Detach unsubscribes the captor and resets its state.
func (m *MouseCaptor) Detach() {
	if m.attached {
		m.source.DetachMouse(m)
		m.attached = false
	}
	m.reset()
}

// Enabled reports whether input is processed.
func (m *MouseCaptor) Enabled() bool {
	return m.enabled
}

// SetEnabled turns input processing on or off. Disabling drops the
// pointer state and any pending click.
func (m *MouseCaptor) SetEnabled(enabled bool) {
	if m.enabled == enabled {
		return
	}
	m.enabled = enabled
	if !enabled {
		m.reset()
	}
}

// State returns the button state.
func (m *MouseCaptor) State() State {
	return m.state
}

// Config returns the interaction constants in use.
func (m *MouseCaptor) Config() Config {
	return m.cfg
}

// Moving reports whether the last drag move is recent enough for a
// release to start an inertial pan.
func (m *MouseCaptor) Moving() bool {
	return m.moving
}

// WheelLocked reports whether a wheel zoom is in flight.
func (m *MouseCaptor) WheelLocked() bool {
	return m.wheelLock
}

// DownState returns the camera state recorded at the last button press and
// the time of the press.
func (m *MouseCaptor) DownState() (camera.State, time.Time) {
	return m.startState, m.downTime
}

func (m *MouseCaptor) reset() {
	m.state = Idle
	m.moving = false
	m.hasDragged = false
	m.clicks = 0
	stop(&m.movingTimer)
	stop(&m.clickTimer)
	stop(&m.dragReset)
	m.releaseWheel()
}

func stop(t *clock.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}

func (m *MouseCaptor) dimensions() camera.Dimensions {
	if m.viewport == nil {
		return camera.Dimensions{}
	}
	return m.viewport.Dimensions()
}

// HandleDown starts a press. A running camera animation is stopped so the
// drag grabs the graph where it is.
func (m *MouseCaptor) HandleDown(e MouseEvent) {
	if !m.enabled {
		return
	}
	m.camera.StopAnimation()
	m.startState = m.camera.State()
	m.lastX, m.lastY = e.X, e.Y
	stop(&m.dragReset)
	m.hasDragged = false
	m.downTime = m.clock.Now()
	m.state = Pressed
	m.emit(EventDown, e)
}

// HandleUp ends a press, continuing a recent drag with inertia.
func (m *MouseCaptor) HandleUp(e MouseEvent) {
	if !m.enabled || m.state == Idle {
		return
	}
	m.state = Idle
	stop(&m.movingTimer)

	current := m.camera.State()
	previous := m.camera.PreviousState()
	switch {
	case m.moving:
		r := m.cfg.InertiaRatio
		m.camera.Animate(
			camera.Pan(current.X+r*(current.X-previous.X), current.Y+r*(current.Y-previous.Y)),
			camera.AnimationOptions{Easing: camera.QuadraticOut, Duration: m.cfg.InertiaDuration},
			nil,
		)
	case m.lastX != e.X || m.lastY != e.Y:
		m.camera.SetState(camera.Pan(current.X, current.Y))
	}
	m.moving = false

	// The click completing this press is delivered right after the up
	// event; it must still see the drag.
	if m.hasDragged {
		m.dragReset = m.clock.AfterFunc(0, func() {
			m.dragReset = nil
			m.hasDragged = false
		})
	}
	m.emit(EventUp, e)
}

// HandleMove pans the camera while a button is down.
func (m *MouseCaptor) HandleMove(e MouseEvent) {
	if !m.enabled {
		return
	}
	m.emit(EventMove, e)
	if m.state == Idle {
		return
	}

	m.state = Dragging
	m.moving = true
	m.hasDragged = true
	stop(&m.movingTimer)
	m.movingTimer = m.clock.AfterFunc(m.cfg.DragTimeout, func() {
		m.movingTimer = nil
		m.moving = false
	})

	d := m.dimensions()
	last := m.camera.ViewportToGraph(d, m.lastX, m.lastY)
	now := m.camera.ViewportToGraph(d, e.X, e.Y)
	s := m.camera.State()
	m.camera.SetState(camera.Pan(s.X+last.X-now.X, s.Y+last.Y-now.Y))
	m.lastX, m.lastY = e.X, e.Y
}

// HandleClick counts clicks. The first click is held back for the
// double-click window; a second one within it zooms instead. Clicks ending
// a drag are ignored.
func (m *MouseCaptor) HandleClick(e MouseEvent) {
	if !m.enabled || m.hasDragged {
		return
	}

	m.clicks++
	if m.clicks >= 2 {
		m.clicks = 0
		stop(&m.clickTimer)
		m.doubleClick(e)
		return
	}

	m.pendingClick = e
	m.clickTimer = m.clock.AfterFunc(m.cfg.DoubleClickTimeout, func() {
		m.clickTimer = nil
		m.clicks = 0
		m.emit(EventClick, m.pendingClick)
	})
}

func (m *MouseCaptor) doubleClick(e MouseEvent) {
	m.emit(EventDoubleClick, e)

	s := m.camera.State()
	ratio := m.camera.ClampRatio(s.Ratio / m.cfg.DoubleClickZoomingRatio)
	if ratio == s.Ratio {
		return
	}
	target := camera.ZoomAround(s, m.dimensions(), geom.Pt(e.X, e.Y), ratio)
	m.camera.Animate(
		camera.PanZoom(target.X, target.Y, target.Ratio),
		camera.AnimationOptions{Easing: camera.QuadraticInOut, Duration: m.cfg.DoubleClickZoomingDuration},
		nil,
	)
}

// HandleWheel zooms around the cursor. Wheel input arriving while a wheel
// zoom is in flight is dropped.
func (m *MouseCaptor) HandleWheel(e MouseEvent) {
	if !m.enabled || e.Delta == 0 {
		return
	}
	m.emit(EventWheel, e)
	if m.wheelLock {
		return
	}

	factor := m.cfg.ZoomingRatio
	if e.Delta > 0 {
		factor = 1 / factor
	}
	s := m.camera.State()
	ratio := m.camera.ClampRatio(s.Ratio * factor)
	if ratio == s.Ratio {
		return
	}

	m.wheelLock = true
	// The animation's completion is dropped when another animation replaces
	// it, so the lock also expires on its own.
	m.wheelTimer = m.clock.AfterFunc(m.cfg.ZoomDuration, m.releaseWheel)

	target := camera.ZoomAround(s, m.dimensions(), geom.Pt(e.X, e.Y), ratio)
	m.camera.Animate(
		camera.PanZoom(target.X, target.Y, target.Ratio),
		camera.AnimationOptions{Easing: camera.Linear, Duration: m.cfg.ZoomDuration},
		m.releaseWheel,
	)
}

func (m *MouseCaptor) releaseWheel() {
	m.wheelLock = false
	stop(&m.wheelTimer)
}

// HandleLeave is emitted to listeners and has no camera effect.
func (m *MouseCaptor) HandleLeave(e MouseEvent) {
	if !m.enabled {
		return
	}
	m.emit(EventLeave, e)
}
