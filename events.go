package ggraph

import (
	"slices"

	"github.com/gogpu/ggraph/captor"
)

// NodeEventKind names an event emitted by a Renderer.
type NodeEventKind string

// Renderer event kinds.
const (
	EventEnterNode  NodeEventKind = "enterNode"
	EventLeaveNode  NodeEventKind = "leaveNode"
	EventClickNode  NodeEventKind = "clickNode"
	EventClickStage NodeEventKind = "clickStage"
	// EventDoubleClickNode fires before the camera zooms in.
	EventDoubleClickNode NodeEventKind = "doubleClickNode"
)

// NodeEvent is a pointer event resolved against the graph. Node is empty
// for stage events.
type NodeEvent struct {
	Kind NodeEventKind
	Node string
	X, Y float64
}

type nodeListener struct {
	id int
	fn func(NodeEvent)
}

type nodeEmitter struct {
	listeners map[NodeEventKind][]nodeListener
	nextID    int
}

func (e *nodeEmitter) on(kind NodeEventKind, fn func(NodeEvent)) func() {
	if e.listeners == nil {
		e.listeners = make(map[NodeEventKind][]nodeListener)
	}
	e.nextID++
	id := e.nextID
	e.listeners[kind] = append(e.listeners[kind], nodeListener{id: id, fn: fn})
	return func() {
		e.listeners[kind] = slices.DeleteFunc(e.listeners[kind], func(l nodeListener) bool {
			return l.id == id
		})
	}
}

func (e *nodeEmitter) emit(ev NodeEvent) {
	for _, l := range slices.Clone(e.listeners[ev.Kind]) {
		l.fn(ev)
	}
}

// OnNodeEvent registers fn for events of kind. The returned function
// removes it.
func (r *Renderer) OnNodeEvent(kind NodeEventKind, fn func(NodeEvent)) (remove func()) {
	return r.events.on(kind, fn)
}

// Hovered returns the node under the pointer, if any.
func (r *Renderer) Hovered() (string, bool) {
	return r.hovered, r.hovered != ""
}

// BindCaptor resolves the pointer events of m against the graph: hover
// tracking, node and stage clicks. A previously bound captor is unbound.
func (r *Renderer) BindCaptor(m *captor.MouseCaptor) {
	r.UnbindCaptor()
	if m == nil || r.killed {
		return
	}
	r.captor = m
	r.unbind = []func(){
		m.On(captor.EventMove, func(e captor.MouseEvent) { r.hover(e.X, e.Y) }),
		m.On(captor.EventLeave, func(e captor.MouseEvent) { r.setHovered("", e.X, e.Y) }),
		m.On(captor.EventClick, func(e captor.MouseEvent) {
			if id, ok := r.NodeAt(e.X, e.Y); ok {
				r.events.emit(NodeEvent{Kind: EventClickNode, Node: id, X: e.X, Y: e.Y})
				return
			}
			r.events.emit(NodeEvent{Kind: EventClickStage, X: e.X, Y: e.Y})
		}),
		m.On(captor.EventDoubleClick, func(e captor.MouseEvent) {
			if id, ok := r.NodeAt(e.X, e.Y); ok {
				r.events.emit(NodeEvent{Kind: EventDoubleClickNode, Node: id, X: e.X, Y: e.Y})
			}
		}),
	}
}

// UnbindCaptor stops listening to the bound captor. The captor itself
// stays attached to its source.
func (r *Renderer) UnbindCaptor() {
	for _, remove := range r.unbind {
		remove()
	}
	r.unbind = nil
	r.captor = nil
}

// Captor returns the bound captor, or nil.
func (r *Renderer) Captor() *captor.MouseCaptor {
	return r.captor
}

func (r *Renderer) hover(x, y float64) {
	id, _ := r.NodeAt(x, y)
	r.setHovered(id, x, y)
}

func (r *Renderer) setHovered(id string, x, y float64) {
	if id == r.hovered {
		return
	}
	if r.hovered != "" {
		old := r.hovered
		r.hovered = ""
		r.events.emit(NodeEvent{Kind: EventLeaveNode, Node: old, X: x, Y: y})
	}
	if id != "" {
		r.hovered = id
		r.events.emit(NodeEvent{Kind: EventEnterNode, Node: id, X: x, Y: y})
	}
}
