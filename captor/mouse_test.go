package captor

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/gogpu/ggraph/camera"
	"github.com/gogpu/ggraph/clock"
	"github.com/gogpu/ggraph/geom"
)

type fixedViewport camera.Dimensions

func (v fixedViewport) Dimensions() camera.Dimensions { return camera.Dimensions(v) }

var viewport = fixedViewport{Width: 800, Height: 600}

type fixture struct {
	m      *MouseCaptor
	cam    *camera.Camera
	sched  *clock.Scheduler
	events map[EventKind][]MouseEvent
}

func newFixture(t *testing.T, camOpts ...camera.Option) *fixture {
	t.Helper()
	sched := clock.NewScheduler(time.Unix(1000, 0))
	cam := camera.New(append([]camera.Option{camera.WithClock(sched)}, camOpts...)...)
	m, err := NewMouseCaptor(nil, cam, viewport, WithClock(sched))
	if err != nil {
		t.Fatalf("NewMouseCaptor: %v", err)
	}
	f := &fixture{m: m, cam: cam, sched: sched, events: make(map[EventKind][]MouseEvent)}
	for _, kind := range []EventKind{EventClick, EventDoubleClick, EventDown, EventMove, EventUp, EventWheel, EventLeave} {
		m.On(kind, func(e MouseEvent) { f.events[kind] = append(f.events[kind], e) })
	}
	return f
}

// settle runs frames of 16ms for d, ticking the camera each frame.
func (f *fixture) settle(d time.Duration) {
	for elapsed := time.Duration(0); elapsed <= d; elapsed += 16 * time.Millisecond {
		f.sched.Step(16 * time.Millisecond)
		f.cam.Tick()
	}
}

func (f *fixture) graphAt(x, y float64) geom.Point {
	return f.cam.ViewportToGraph(camera.Dimensions(viewport), x, y)
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func nearPoint(a, b geom.Point) bool {
	return near(a.X, b.X) && near(a.Y, b.Y)
}

func TestNewMouseCaptorNilCamera(t *testing.T) {
	if _, err := NewMouseCaptor(nil, nil, viewport); !errors.Is(err, ErrNilCamera) {
		t.Errorf("NewMouseCaptor(nil camera) = %v, want ErrNilCamera", err)
	}
}

func TestDragPansUnderCursor(t *testing.T) {
	f := newFixture(t)
	grabbed := f.graphAt(400, 300)

	f.m.HandleDown(MouseEvent{X: 400, Y: 300, Button: ButtonPrimary})
	if f.m.State() != Pressed {
		t.Fatalf("State() = %v after down, want pressed", f.m.State())
	}
	f.m.HandleMove(MouseEvent{X: 500, Y: 250})
	f.m.HandleMove(MouseEvent{X: 520, Y: 260})

	if f.m.State() != Dragging {
		t.Errorf("State() = %v after move, want dragging", f.m.State())
	}
	if got := f.graphAt(520, 260); !nearPoint(got, grabbed) {
		t.Errorf("graph point under cursor = %v, want %v", got, grabbed)
	}
	if len(f.events[EventDown]) != 1 || len(f.events[EventMove]) != 2 {
		t.Errorf("events: %d down, %d move", len(f.events[EventDown]), len(f.events[EventMove]))
	}
}

func TestMoveWithoutButtonDoesNotPan(t *testing.T) {
	f := newFixture(t)
	before := f.cam.State()
	f.m.HandleMove(MouseEvent{X: 10, Y: 10})
	if f.cam.State() != before {
		t.Errorf("hover move changed camera to %+v", f.cam.State())
	}
	if len(f.events[EventMove]) != 1 {
		t.Errorf("mousemove emitted %d times, want 1", len(f.events[EventMove]))
	}
}

func TestReleaseWithInertia(t *testing.T) {
	f := newFixture(t)
	f.m.HandleDown(MouseEvent{X: 400, Y: 300})
	f.sched.Step(10 * time.Millisecond)
	f.m.HandleMove(MouseEvent{X: 410, Y: 305})
	f.sched.Step(10 * time.Millisecond)
	f.m.HandleMove(MouseEvent{X: 420, Y: 310})

	if !f.m.Moving() {
		t.Fatal("Moving() = false right after a move")
	}
	cur := f.cam.State()
	prev := f.cam.PreviousState()
	wantX := cur.X + 3*(cur.X-prev.X)
	wantY := cur.Y + 3*(cur.Y-prev.Y)

	f.m.HandleUp(MouseEvent{X: 420, Y: 310})
	if f.m.State() != Idle {
		t.Errorf("State() = %v after up, want idle", f.m.State())
	}
	if !f.cam.IsAnimated() {
		t.Fatal("release while moving did not start inertia")
	}

	f.settle(250 * time.Millisecond)
	got := f.cam.State()
	if !near(got.X, wantX) || !near(got.Y, wantY) {
		t.Errorf("inertia ended at (%v, %v), want (%v, %v)", got.X, got.Y, wantX, wantY)
	}
	if got.Ratio != cur.Ratio {
		t.Errorf("inertia changed ratio to %v", got.Ratio)
	}
}

func TestReleaseAfterSettleHasNoInertia(t *testing.T) {
	f := newFixture(t)
	f.m.HandleDown(MouseEvent{X: 400, Y: 300})
	f.m.HandleMove(MouseEvent{X: 450, Y: 300})
	f.sched.Step(250 * time.Millisecond)

	if f.m.Moving() {
		t.Fatal("Moving() still true after the drag timeout")
	}
	held := f.cam.State()
	f.m.HandleUp(MouseEvent{X: 450, Y: 300})

	if f.cam.IsAnimated() {
		t.Error("release after settle started an animation")
	}
	if f.cam.State() != held {
		t.Errorf("camera moved on release: %+v, want %+v", f.cam.State(), held)
	}
	if len(f.events[EventUp]) != 1 {
		t.Errorf("mouseup emitted %d times, want 1", len(f.events[EventUp]))
	}
}

func TestUpWithoutDownIgnored(t *testing.T) {
	f := newFixture(t)
	f.m.HandleUp(MouseEvent{X: 1, Y: 1})
	if len(f.events[EventUp]) != 0 {
		t.Error("mouseup emitted without a press")
	}
}

func TestClickIsDeferred(t *testing.T) {
	f := newFixture(t)
	f.m.HandleDown(MouseEvent{X: 100, Y: 120})
	f.m.HandleUp(MouseEvent{X: 100, Y: 120})
	f.m.HandleClick(MouseEvent{X: 100, Y: 120})

	if len(f.events[EventClick]) != 0 {
		t.Fatal("click emitted before the double-click window expired")
	}
	f.sched.Step(299 * time.Millisecond)
	if len(f.events[EventClick]) != 0 {
		t.Fatal("click emitted inside the double-click window")
	}
	f.sched.Step(time.Millisecond)
	clicks := f.events[EventClick]
	if len(clicks) != 1 || clicks[0].X != 100 || clicks[0].Y != 120 {
		t.Fatalf("clicks = %+v, want one at (100, 120)", clicks)
	}
	if f.cam.IsAnimated() {
		t.Error("single click animated the camera")
	}
}

func TestDoubleClickZoomsAroundPoint(t *testing.T) {
	f := newFixture(t)
	anchor := f.graphAt(200, 150)
	startRatio := f.cam.State().Ratio

	f.m.HandleClick(MouseEvent{X: 200, Y: 150})
	f.sched.Step(100 * time.Millisecond)
	f.m.HandleClick(MouseEvent{X: 200, Y: 150})

	if len(f.events[EventDoubleClick]) != 1 {
		t.Fatalf("doubleclick emitted %d times, want 1", len(f.events[EventDoubleClick]))
	}
	if !f.cam.IsAnimated() {
		t.Fatal("double click did not animate the camera")
	}

	f.settle(300 * time.Millisecond)
	if len(f.events[EventClick]) != 0 {
		t.Errorf("double click also emitted %d single clicks", len(f.events[EventClick]))
	}
	if got, want := f.cam.State().Ratio, startRatio/2.2; !near(got, want) {
		t.Errorf("ratio = %v, want %v", got, want)
	}
	if got := f.graphAt(200, 150); !nearPoint(got, anchor) {
		t.Errorf("clicked point moved: %v, want %v", got, anchor)
	}
}

func TestClicksOutsideWindowAreSingle(t *testing.T) {
	f := newFixture(t)
	f.m.HandleClick(MouseEvent{X: 1, Y: 1})
	f.sched.Step(400 * time.Millisecond)
	f.m.HandleClick(MouseEvent{X: 2, Y: 2})
	f.sched.Step(400 * time.Millisecond)

	if len(f.events[EventClick]) != 2 || len(f.events[EventDoubleClick]) != 0 {
		t.Errorf("got %d clicks and %d double clicks, want 2 and 0",
			len(f.events[EventClick]), len(f.events[EventDoubleClick]))
	}
}

func TestClickEndingDragIgnored(t *testing.T) {
	f := newFixture(t)
	f.m.HandleDown(MouseEvent{X: 100, Y: 100})
	f.m.HandleMove(MouseEvent{X: 140, Y: 100})
	f.m.HandleUp(MouseEvent{X: 140, Y: 100})
	f.m.HandleClick(MouseEvent{X: 140, Y: 100})
	f.settle(time.Second)

	if len(f.events[EventClick]) != 0 {
		t.Fatalf("drag emitted %d clicks", len(f.events[EventClick]))
	}

	f.m.HandleDown(MouseEvent{X: 10, Y: 10})
	f.m.HandleUp(MouseEvent{X: 10, Y: 10})
	f.m.HandleClick(MouseEvent{X: 10, Y: 10})
	f.sched.Step(300 * time.Millisecond)
	if len(f.events[EventClick]) != 1 {
		t.Errorf("click after a finished drag emitted %d clicks, want 1", len(f.events[EventClick]))
	}
}

func TestWheelZoomKeepsCursorPoint(t *testing.T) {
	f := newFixture(t)
	anchor := f.graphAt(100, 500)

	f.m.HandleWheel(MouseEvent{X: 100, Y: 500, Delta: 1})
	if !f.m.WheelLocked() {
		t.Fatal("wheel zoom did not take the lock")
	}
	f.m.HandleWheel(MouseEvent{X: 100, Y: 500, Delta: 1})

	f.settle(250 * time.Millisecond)
	if f.m.WheelLocked() {
		t.Error("wheel lock still held after the zoom")
	}
	if got, want := f.cam.State().Ratio, 1/1.7; !near(got, want) {
		t.Errorf("ratio = %v, want %v (second wheel step must be dropped)", got, want)
	}
	if got := f.graphAt(100, 500); !nearPoint(got, anchor) {
		t.Errorf("cursor point moved: %v, want %v", got, anchor)
	}
	if len(f.events[EventWheel]) != 2 {
		t.Errorf("wheel emitted %d times, want 2", len(f.events[EventWheel]))
	}

	f.m.HandleWheel(MouseEvent{X: 100, Y: 500, Delta: -1})
	f.settle(250 * time.Millisecond)
	if got := f.cam.State().Ratio; !near(got, 1) {
		t.Errorf("ratio after zooming back out = %v, want 1", got)
	}
}

func TestWheelLockExpiresWhenAnimationReplaced(t *testing.T) {
	f := newFixture(t)
	f.m.HandleWheel(MouseEvent{X: 400, Y: 300, Delta: 1})
	f.m.HandleDown(MouseEvent{X: 400, Y: 300})

	if f.cam.IsAnimated() {
		t.Error("press did not stop the zoom animation")
	}
	if !f.m.WheelLocked() {
		t.Fatal("lock released before its timeout")
	}
	f.sched.Step(200 * time.Millisecond)
	if f.m.WheelLocked() {
		t.Error("lock not released by its timeout")
	}
}

func TestWheelAtRatioBoundIsNoop(t *testing.T) {
	f := newFixture(t, camera.WithRatioBounds(1, 20))
	f.m.HandleWheel(MouseEvent{X: 400, Y: 300, Delta: 1})
	if f.cam.IsAnimated() || f.m.WheelLocked() {
		t.Error("zooming past the ratio bound started an animation")
	}
}

func TestZeroWheelDeltaIgnored(t *testing.T) {
	f := newFixture(t)
	f.m.HandleWheel(MouseEvent{X: 400, Y: 300})
	if len(f.events[EventWheel]) != 0 || f.cam.IsAnimated() {
		t.Error("zero wheel delta was handled")
	}
}

func TestDisabledIgnoresInput(t *testing.T) {
	f := newFixture(t)
	f.m.SetEnabled(false)
	if f.m.Enabled() {
		t.Fatal("Enabled() = true after SetEnabled(false)")
	}
	before := f.cam.State()

	f.m.HandleDown(MouseEvent{X: 1, Y: 1})
	f.m.HandleMove(MouseEvent{X: 50, Y: 50})
	f.m.HandleUp(MouseEvent{X: 50, Y: 50})
	f.m.HandleClick(MouseEvent{X: 50, Y: 50})
	f.m.HandleWheel(MouseEvent{X: 50, Y: 50, Delta: 1})
	f.m.HandleLeave(MouseEvent{})
	f.settle(time.Second)

	if f.cam.State() != before {
		t.Errorf("disabled captor moved camera to %+v", f.cam.State())
	}
	for kind, evs := range f.events {
		if len(evs) != 0 {
			t.Errorf("disabled captor emitted %d %s events", len(evs), kind)
		}
	}
	if f.m.State() != Idle {
		t.Errorf("State() = %v, want idle", f.m.State())
	}
}

func TestDisableDropsPendingClick(t *testing.T) {
	f := newFixture(t)
	f.m.HandleClick(MouseEvent{X: 5, Y: 5})
	f.m.SetEnabled(false)
	f.sched.Step(time.Second)
	if len(f.events[EventClick]) != 0 {
		t.Error("pending click fired after disabling")
	}
}

func TestLeaveHasNoCameraEffect(t *testing.T) {
	f := newFixture(t)
	before := f.cam.State()
	f.m.HandleLeave(MouseEvent{X: -1, Y: -1})
	if f.cam.State() != before {
		t.Error("leave changed the camera")
	}
	if len(f.events[EventLeave]) != 1 {
		t.Errorf("mouseleave emitted %d times, want 1", len(f.events[EventLeave]))
	}
}

func TestDownRecordsStartState(t *testing.T) {
	f := newFixture(t)
	f.cam.SetState(camera.Pan(0.3, 0.7))
	f.m.HandleDown(MouseEvent{X: 1, Y: 2})
	s, at := f.m.DownState()
	if s != f.cam.State() {
		t.Errorf("DownState() = %+v, want %+v", s, f.cam.State())
	}
	if !at.Equal(f.sched.Now()) {
		t.Errorf("down time = %v, want %v", at, f.sched.Now())
	}
}

func TestRemoveListener(t *testing.T) {
	f := newFixture(t)
	var n int
	remove := f.m.On(EventDown, func(MouseEvent) { n++ })
	f.m.HandleDown(MouseEvent{})
	remove()
	f.m.HandleUp(MouseEvent{})
	f.m.HandleDown(MouseEvent{})
	if n != 1 {
		t.Errorf("listener called %d times, want 1", n)
	}
}

type fakeSource struct {
	handlers []MouseHandler
	err      error
}

func (s *fakeSource) AttachMouse(h MouseHandler) error {
	if s.err != nil {
		return s.err
	}
	s.handlers = append(s.handlers, h)
	return nil
}

func (s *fakeSource) DetachMouse(h MouseHandler) {
	for i, existing := range s.handlers {
		if existing == h {
			s.handlers = append(s.handlers[:i], s.handlers[i+1:]...)
			return
		}
	}
}

func TestAttachDetach(t *testing.T) {
	cam := camera.New()
	orphan, _ := NewMouseCaptor(nil, cam, viewport)
	if err := orphan.Attach(); !errors.Is(err, ErrNoSource) {
		t.Errorf("Attach without source = %v, want ErrNoSource", err)
	}

	src := &fakeSource{}
	m, _ := NewMouseCaptor(src, cam, viewport)
	if err := m.Attach(); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := m.Attach(); err != nil {
		t.Fatalf("second Attach: %v", err)
	}
	if len(src.handlers) != 1 {
		t.Errorf("source holds %d handlers, want 1", len(src.handlers))
	}
	m.Detach()
	if len(src.handlers) != 0 {
		t.Errorf("source holds %d handlers after Detach", len(src.handlers))
	}

	boom := errors.New("boom")
	failing, _ := NewMouseCaptor(&fakeSource{err: boom}, cam, viewport)
	if err := failing.Attach(); !errors.Is(err, boom) {
		t.Errorf("Attach = %v, want wrapped source error", err)
	}
}

func TestConfigNormalize(t *testing.T) {
	got := Config{InertiaRatio: -1, ZoomingRatio: 0.5, DoubleClickZoomingRatio: 1}.Normalize()
	if got != DefaultConfig() {
		t.Errorf("Normalize() = %+v, want defaults", got)
	}

	custom := DefaultConfig()
	custom.InertiaRatio = 0
	custom.ZoomingRatio = 2
	if got := custom.Normalize(); got != custom {
		t.Errorf("Normalize() changed valid config: %+v", got)
	}

	m, _ := NewMouseCaptor(nil, camera.New(), viewport, WithConfig(Config{ZoomingRatio: 3}))
	if m.Config().ZoomingRatio != 3 || m.Config().DragTimeout != 200*time.Millisecond {
		t.Errorf("Config() = %+v", m.Config())
	}
}

func TestOwnedClockFiresOnlyOnAdvance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DragTimeout = time.Millisecond
	cfg.DoubleClickTimeout = time.Millisecond
	m, err := NewMouseCaptor(nil, camera.New(), viewport, WithConfig(cfg))
	if err != nil {
		t.Fatalf("NewMouseCaptor: %v", err)
	}
	var clicks int
	m.On(EventClick, func(MouseEvent) { clicks++ })
	base := time.Now()

	m.HandleDown(MouseEvent{X: 400, Y: 300, Button: ButtonPrimary})
	for i := range 200 {
		m.HandleMove(MouseEvent{X: 400 + float64(i), Y: 300})
		if !m.Moving() {
			t.Fatalf("Moving() = false after move %d", i)
		}
	}
	time.Sleep(5 * time.Millisecond)
	if !m.Moving() {
		t.Fatal("drag settled without Advance")
	}
	m.Advance(base.Add(time.Second))
	if m.Moving() {
		t.Error("Moving() = true after Advance past the drag timeout")
	}

	m.HandleUp(MouseEvent{X: 599, Y: 300, Button: ButtonPrimary})
	m.HandleClick(MouseEvent{X: 599, Y: 300, Button: ButtonPrimary})
	m.Advance(base.Add(2 * time.Second))
	if clicks != 0 {
		t.Fatalf("click ending a drag emitted %d times", clicks)
	}

	m.HandleClick(MouseEvent{X: 599, Y: 300, Button: ButtonPrimary})
	time.Sleep(5 * time.Millisecond)
	if clicks != 0 {
		t.Fatal("click emitted without Advance")
	}
	m.Advance(base.Add(3 * time.Second))
	if clicks != 1 {
		t.Errorf("clicks = %d after Advance, want 1", clicks)
	}
}

func TestAdvanceIgnoredWithSharedClock(t *testing.T) {
	f := newFixture(t)
	f.m.HandleClick(MouseEvent{X: 10, Y: 10, Button: ButtonPrimary})
	f.m.Advance(time.Now().Add(time.Hour))
	if n := len(f.events[EventClick]); n != 0 {
		t.Fatalf("Advance fired a timer of the shared clock: %d clicks", n)
	}
	f.sched.Step(f.m.Config().DoubleClickTimeout)
	if n := len(f.events[EventClick]); n != 1 {
		t.Errorf("clicks = %d after stepping the shared clock, want 1", n)
	}
}
