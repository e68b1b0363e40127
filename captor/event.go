package captor

import "slices"

// Button identifies a pointer button.
type Button uint8

// Pointer buttons.
const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonSecondary
	ButtonMiddle
)

// String returns the button name.
func (b Button) String() string {
	switch b {
	case ButtonPrimary:
		return "primary"
	case ButtonSecondary:
		return "secondary"
	case ButtonMiddle:
		return "middle"
	default:
		return "none"
	}
}

// MouseEvent is a pointer event in viewport pixels. Delta is the wheel
// amount; positive values scroll up (zoom in).
type MouseEvent struct {
	X, Y   float64
	Button Button
	Delta  float64
}

// EventKind names an event emitted by a captor.
type EventKind string

// Emitted event kinds.
const (
	EventClick       EventKind = "click"
	EventDoubleClick EventKind = "doubleclick"
	EventDown        EventKind = "mousedown"
	EventMove        EventKind = "mousemove"
	EventUp          EventKind = "mouseup"
	EventWheel       EventKind = "wheel"
	EventLeave       EventKind = "mouseleave"
)

type listener struct {
	id int
	fn func(MouseEvent)
}

// emitter dispatches events to listeners in registration order.
type emitter struct {
	listeners map[EventKind][]listener
	nextID    int
}

// On registers fn for events of kind. The returned function removes it.
func (e *emitter) On(kind EventKind, fn func(MouseEvent)) (remove func()) {
	if e.listeners == nil {
		e.listeners = make(map[EventKind][]listener)
	}
	e.nextID++
	id := e.nextID
	e.listeners[kind] = append(e.listeners[kind], listener{id: id, fn: fn})
	return func() {
		e.listeners[kind] = slices.DeleteFunc(e.listeners[kind], func(l listener) bool {
			return l.id == id
		})
	}
}

func (e *emitter) emit(kind EventKind, ev MouseEvent) {
	// Listeners may remove themselves while running.
	for _, l := range slices.Clone(e.listeners[kind]) {
		l.fn(ev)
	}
}
