// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package program

import (
	"math"

	"github.com/gogpu/gputypes"
)

const (
	nodeVertices = 3
	nodeFloats   = 5
)

var nodeAngles = [nodeVertices]float32{
	0,
	2 * math.Pi / 3,
	4 * math.Pi / 3,
}

// NodeDescriptor returns the shader pair and layout of the node program.
func NodeDescriptor() *Descriptor {
	return &Descriptor{
		Label:          "node",
		VertexShader:   nodeVertexShader,
		FragmentShader: nodeFragmentShader,
		Attributes: []Attribute{
			{Name: "position", Format: gputypes.VertexFormatFloat32x2},
			{Name: "size", Format: gputypes.VertexFormatFloat32},
			{Name: "color", Format: gputypes.VertexFormatUnorm8x4},
			{Name: "angle", Format: gputypes.VertexFormatFloat32},
		},
		UniformSize: UniformSize,
	}
}

// NodeProgram draws every node as an anti-aliased disc, expanded from one
// triangle per node.
type NodeProgram struct {
	*Program
}

var _ NodeProcessor = (*NodeProgram)(nil)

// NewNodeProgram compiles the node shaders on ctx.
func NewNodeProgram(ctx Context, opts ...Option) (*NodeProgram, error) {
	p, err := newProgram(ctx, NodeDescriptor(), nodeVertices, buildOptions(opts))
	if err != nil {
		return nil, err
	}
	return &NodeProgram{Program: p}, nil
}

// Process writes node n into slot offset. Negative offsets are ignored.
func (p *NodeProgram) Process(n NodeData, offset int) {
	if offset < 0 {
		return
	}
	if n.Hidden {
		p.zero(offset)
		return
	}

	s := p.slot(offset)
	x, y := float32(n.X), float32(n.Y)
	size := float32(n.Size)
	color := p.colors.Encode(n.Color)

	i := 0
	for _, angle := range nodeAngles {
		s[i+0] = x
		s[i+1] = y
		s[i+2] = size
		s[i+3] = color
		s[i+4] = angle
		i += nodeFloats
	}
}
