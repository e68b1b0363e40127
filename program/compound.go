// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package program

import "fmt"

// Compound is a fixed ordered composition of programs sharing one
// lifecycle. Every operation fans out in registration order.
type Compound[P Lifecycle] struct {
	programs []P
}

// NewCompound combines programs. The order is the draw order.
func NewCompound[P Lifecycle](programs ...P) *Compound[P] {
	return &Compound[P]{programs: programs}
}

// Programs returns the children in registration order.
func (c *Compound[P]) Programs() []P {
	return c.programs
}

// Allocate allocates every child.
func (c *Compound[P]) Allocate(capacity int) {
	for _, p := range c.programs {
		p.Allocate(capacity)
	}
}

// Capacity returns the smallest child capacity.
func (c *Compound[P]) Capacity() int {
	if len(c.programs) == 0 {
		return 0
	}
	n := c.programs[0].Capacity()
	for _, p := range c.programs[1:] {
		n = min(n, p.Capacity())
	}
	return n
}

// BufferData uploads every child, stopping at the first error.
func (c *Compound[P]) BufferData() error {
	for i, p := range c.programs {
		if err := p.BufferData(); err != nil {
			return fmt.Errorf("compound program %d: %w", i, err)
		}
	}
	return nil
}

// Render draws every child, stopping at the first error.
func (c *Compound[P]) Render(params RenderParams) error {
	for i, p := range c.programs {
		if err := p.Render(params); err != nil {
			return fmt.Errorf("compound program %d: %w", i, err)
		}
	}
	return nil
}

// Destroy destroys every child.
func (c *Compound[P]) Destroy() {
	for _, p := range c.programs {
		p.Destroy()
	}
}

// EdgeCompound is a compound of edge programs.
type EdgeCompound struct {
	*Compound[EdgeProcessor]
}

var _ EdgeProcessor = (*EdgeCompound)(nil)

// NewEdgeCompound combines edge programs.
func NewEdgeCompound(programs ...EdgeProcessor) *EdgeCompound {
	return &EdgeCompound{Compound: NewCompound(programs...)}
}

// Process writes the edge into every child.
func (c *EdgeCompound) Process(source, target NodeData, e EdgeData, offset int) {
	for _, p := range c.programs {
		p.Process(source, target, e, offset)
	}
}

// NodeCompound is a compound of node programs.
type NodeCompound struct {
	*Compound[NodeProcessor]
}

var _ NodeProcessor = (*NodeCompound)(nil)

// NewNodeCompound combines node programs.
func NewNodeCompound(programs ...NodeProcessor) *NodeCompound {
	return &NodeCompound{Compound: NewCompound(programs...)}
}

// Process writes the node into every child.
func (c *NodeCompound) Process(n NodeData, offset int) {
	for _, p := range c.programs {
		p.Process(n, offset)
	}
}

// NewDirectedEdgeProgram returns an edge body followed by its arrowhead.
// Both children share one color encoder.
func NewDirectedEdgeProgram(ctx Context, opts ...Option) (*EdgeCompound, error) {
	o := buildOptions(opts)
	shared := append(opts[:len(opts):len(opts)], WithColorEncoder(o.colors))

	body, err := NewEdgeBodyProgram(ctx, shared...)
	if err != nil {
		return nil, err
	}
	arrow, err := NewArrowProgram(ctx, shared...)
	if err != nil {
		body.Destroy()
		return nil, err
	}
	return NewEdgeCompound(body, arrow), nil
}
