// Package captor turns raw pointer input into camera motion.
//
// A captor listens to one input device and mutates a camera: dragging
// pans, releasing a fast drag continues with inertia, the wheel zooms
// around the cursor and a double click zooms in around the clicked point.
// Captors also re-emit the input they observe (click, doubleclick,
// mousedown, mousemove, mouseup, wheel) so the renderer can derive node
// events from it.
//
// Every captor implements [Captor]; a [Dispatcher] drives any number of
// them together. Captors are single-threaded: device events and clock
// timers must be delivered on the goroutine that renders.
package captor
