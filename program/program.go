// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package program

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/ggraph/internal/color"
)

// Lifecycle is the set of operations every program, simple or compound,
// supports.
type Lifecycle interface {
	Allocate(capacity int)
	Capacity() int
	BufferData() error
	Render(params RenderParams) error
	Destroy()
}

// NodeProcessor is a program drawing one primitive per node.
type NodeProcessor interface {
	Lifecycle
	Process(node NodeData, offset int)
}

// EdgeProcessor is a program drawing one primitive per edge.
type EdgeProcessor interface {
	Lifecycle
	Process(source, target NodeData, edge EdgeData, offset int)
}

// NodeData is the display data of a node in graph coordinates. Size is in
// pixels at camera ratio 1.
type NodeData struct {
	X, Y   float64
	Size   float64
	Color  string
	Hidden bool
}

// EdgeData is the display data of an edge.
type EdgeData struct {
	Size   float64
	Color  string
	Hidden bool
}

// ColorEncoder turns CSS color strings into packed RGBA floats, remembering
// recent strings. It is safe for concurrent use.
type ColorEncoder struct {
	enc *color.Encoder
}

// NewColorEncoder creates an encoder remembering up to size strings
// (a default when size <= 0).
func NewColorEncoder(size int) *ColorEncoder {
	return &ColorEncoder{enc: color.NewEncoder(size)}
}

// Encode returns the packed color. Unparseable strings encode as opaque
// black.
func (e *ColorEncoder) Encode(s string) float32 {
	return e.enc.Encode(s)
}

// Len returns the number of remembered strings.
func (e *ColorEncoder) Len() int {
	return e.enc.Stats().Len
}

// Option configures a program.
type Option func(*options)

type options struct {
	colors   *ColorEncoder
	capacity int
}

// WithColorEncoder shares a color encoder between programs.
func WithColorEncoder(e *ColorEncoder) Option {
	return func(o *options) {
		if e != nil {
			o.colors = e
		}
	}
}

// WithCapacity allocates room for n entities up front.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = max(n, 0)
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.colors == nil {
		o.colors = NewColorEncoder(0)
	}
	return o
}

// Program is a shader pair plus a vertex buffer of fixed-size entities.
// Concrete programs embed it and add a Process method.
type Program struct {
	ctx    Context
	handle Handle
	desc   *Descriptor
	colors *ColorEncoder

	verticesPerEntity int
	floatsPerVertex   int

	array    []float32
	capacity int

	staging  []byte
	uniforms []byte
}

func newProgram(ctx Context, desc *Descriptor, verticesPerEntity int, o options) (*Program, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	h, err := ctx.CreateProgram(desc)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", desc.Label, err)
	}
	slogger().Debug("program created", "label", desc.Label, "handle", h)

	p := &Program{
		ctx:               ctx,
		handle:            h,
		desc:              desc,
		colors:            o.colors,
		verticesPerEntity: verticesPerEntity,
		floatsPerVertex:   desc.FloatsPerVertex(),
	}
	p.Allocate(o.capacity)
	return p, nil
}

// Label returns the descriptor label.
func (p *Program) Label() string { return p.desc.Label }

// Handle returns the program handle inside its context.
func (p *Program) Handle() Handle { return p.handle }

// VerticesPerEntity returns how many vertices one entity expands to.
func (p *Program) VerticesPerEntity() int { return p.verticesPerEntity }

// FloatsPerEntity returns the number of buffer lanes one entity occupies.
func (p *Program) FloatsPerEntity() int { return p.verticesPerEntity * p.floatsPerVertex }

// Allocate resizes the buffer to hold capacity entities. Previous contents
// are discarded.
func (p *Program) Allocate(capacity int) {
	capacity = max(capacity, 0)
	p.capacity = capacity
	p.array = make([]float32, capacity*p.FloatsPerEntity())
}

// Capacity returns the number of entity slots.
func (p *Program) Capacity() int { return p.capacity }

// Array exposes the vertex buffer. The slice is invalidated by Allocate
// and by writes past capacity.
func (p *Program) Array() []float32 { return p.array }

// slot returns the lanes of the entity at offset, growing the buffer when
// offset is past capacity. Existing entities are preserved by growth.
func (p *Program) slot(offset int) []float32 {
	if offset >= p.capacity {
		grown := max(p.capacity*2, offset+1)
		array := make([]float32, grown*p.FloatsPerEntity())
		copy(array, p.array)
		slogger().Debug("program buffer grown",
			"label", p.desc.Label, "from", p.capacity, "to", grown)
		p.array = array
		p.capacity = grown
	}
	n := p.FloatsPerEntity()
	return p.array[offset*n : (offset+1)*n]
}

// zero writes degenerate geometry into the slot at offset.
func (p *Program) zero(offset int) {
	clear(p.slot(offset))
}

// BufferData uploads the whole buffer to the context.
func (p *Program) BufferData() error {
	if p.ctx == nil {
		return fmt.Errorf("program %s: %w", p.desc.Label, ErrNilContext)
	}
	need := len(p.array) * 4
	if cap(p.staging) < need {
		p.staging = make([]byte, need)
	}
	p.staging = p.staging[:need]
	for i, f := range p.array {
		binary.LittleEndian.PutUint32(p.staging[i*4:], math.Float32bits(f))
	}
	if err := p.ctx.BufferData(p.handle, p.staging); err != nil {
		return fmt.Errorf("program %s: buffer data: %w", p.desc.Label, err)
	}
	return nil
}

// Render draws every slot of the buffer in one call. An empty program
// draws nothing.
func (p *Program) Render(params RenderParams) error {
	if p.ctx == nil {
		return fmt.Errorf("program %s: %w", p.desc.Label, ErrNilContext)
	}
	if p.capacity == 0 {
		return nil
	}
	p.uniforms = params.AppendUniforms(p.uniforms[:0])
	if err := p.ctx.Draw(p.handle, p.uniforms, p.capacity*p.verticesPerEntity); err != nil {
		return fmt.Errorf("program %s: render: %w", p.desc.Label, err)
	}
	return nil
}

// Destroy releases the program from its context.
func (p *Program) Destroy() {
	if p.ctx == nil {
		return
	}
	p.ctx.DestroyProgram(p.handle)
	p.ctx = nil
	p.array = nil
	p.capacity = 0
}
