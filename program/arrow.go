// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package program

import (
	"github.com/gogpu/gputypes"
)

const (
	arrowVertices = 3
	arrowFloats   = 10
)

var arrowBarycentric = [arrowVertices][3]float32{
	{1, 0, 0}, // tip
	{0, 1, 0},
	{0, 0, 1},
}

// ArrowDescriptor returns the shader pair and layout of the arrowhead
// program.
func ArrowDescriptor() *Descriptor {
	return &Descriptor{
		Label:          "arrow",
		VertexShader:   arrowVertexShader,
		FragmentShader: arrowFragmentShader,
		Attributes: []Attribute{
			{Name: "position", Format: gputypes.VertexFormatFloat32x2},
			{Name: "normal", Format: gputypes.VertexFormatFloat32x2},
			{Name: "thickness", Format: gputypes.VertexFormatFloat32},
			{Name: "radius", Format: gputypes.VertexFormatFloat32},
			{Name: "color", Format: gputypes.VertexFormatUnorm8x4},
			{Name: "barycentric", Format: gputypes.VertexFormatFloat32x3},
		},
		UniformSize: UniformSize,
	}
}

// ArrowProgram draws an arrowhead at the target end of every edge.
type ArrowProgram struct {
	*Program
}

var _ EdgeProcessor = (*ArrowProgram)(nil)

// NewArrowProgram compiles the arrowhead shaders on ctx.
func NewArrowProgram(ctx Context, opts ...Option) (*ArrowProgram, error) {
	p, err := newProgram(ctx, ArrowDescriptor(), arrowVertices, buildOptions(opts))
	if err != nil {
		return nil, err
	}
	return &ArrowProgram{Program: p}, nil
}

// Process writes the arrowhead of edge e into slot offset. A hidden edge
// or endpoint zeroes exactly this slot. Negative offsets are ignored.
func (p *ArrowProgram) Process(source, target NodeData, e EdgeData, offset int) {
	if offset < 0 {
		return
	}
	if source.Hidden || target.Hidden || e.Hidden {
		p.zero(offset)
		return
	}

	s := p.slot(offset)
	n1, n2 := normal(source.X, source.Y, target.X, target.Y)
	thickness := float32(ArrowHeadLength(e.Size))
	radius := float32(orOne(target.Size))
	color := p.colors.Encode(e.Color)
	tx, ty := float32(target.X), float32(target.Y)

	i := 0
	for _, b := range arrowBarycentric {
		s[i+0] = tx
		s[i+1] = ty
		s[i+2] = n1
		s[i+3] = n2
		s[i+4] = thickness
		s[i+5] = radius
		s[i+6] = color
		s[i+7] = b[0]
		s[i+8] = b[1]
		s[i+9] = b[2]
		i += arrowFloats
	}
}
