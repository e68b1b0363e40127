package captor

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrNilCamera is returned when a captor is created without a camera.
	ErrNilCamera = errors.New("captor: nil camera")

	// ErrNoSource is returned by Attach when the captor has no device.
	ErrNoSource = errors.New("captor: no input source")
)

// Captor is an input device binding that mutates a camera.
type Captor interface {
	// Attach starts listening to the device. Attaching twice is a no-op.
	Attach() error

	// Detach stops listening and cancels pending timers.
	Detach()

	// Enabled reports whether input is processed.
	Enabled() bool

	// SetEnabled turns input processing on or off. A disabled captor
	// ignores every event.
	SetEnabled(enabled bool)
}

// Dispatcher drives a set of captors as one.
type Dispatcher struct {
	captors []Captor
}

var _ Captor = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher holding captors.
func NewDispatcher(captors ...Captor) *Dispatcher {
	d := &Dispatcher{}
	for _, c := range captors {
		d.Add(c)
	}
	return d
}

// Add registers c. Nil captors and duplicates are ignored.
func (d *Dispatcher) Add(c Captor) {
	if c == nil {
		return
	}
	for _, existing := range d.captors {
		if existing == c {
			return
		}
	}
	d.captors = append(d.captors, c)
}

// Remove detaches c and drops it from the dispatcher.
func (d *Dispatcher) Remove(c Captor) {
	for i, existing := range d.captors {
		if existing == c {
			c.Detach()
			d.captors = append(d.captors[:i], d.captors[i+1:]...)
			return
		}
	}
}

// Len returns the number of captors.
func (d *Dispatcher) Len() int {
	return len(d.captors)
}

// Attach attaches every captor in order. On failure the captors already
// attached are detached again.
func (d *Dispatcher) Attach() error {
	for i, c := range d.captors {
		if err := c.Attach(); err != nil {
			for _, done := range d.captors[:i] {
				done.Detach()
			}
			return fmt.Errorf("captor: attach %T: %w", c, err)
		}
	}
	return nil
}

// Detach detaches every captor.
func (d *Dispatcher) Detach() {
	for _, c := range d.captors {
		c.Detach()
	}
}

// Enabled reports whether any captor is enabled.
func (d *Dispatcher) Enabled() bool {
	for _, c := range d.captors {
		if c.Enabled() {
			return true
		}
	}
	return false
}

// SetEnabled enables or disables every captor.
func (d *Dispatcher) SetEnabled(enabled bool) {
	for _, c := range d.captors {
		c.SetEnabled(enabled)
	}
}
