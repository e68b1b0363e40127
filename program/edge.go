// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package program

import (
	"math"

	"github.com/gogpu/gputypes"
)

const (
	edgeVertices = 6
	edgeFloats   = 7
)

// ArrowHeadLength returns the length of the arrowhead drawn for an edge of
// the given size, in the same units as node sizes.
func ArrowHeadLength(edgeSize float64) float64 {
	return math.Max(orOne(edgeSize)*2.5, 5)
}

func orOne(v float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return 1
	}
	return v
}

// normal returns the unit normal of the segment (x1, y1) -> (x2, y2), or
// zero for a degenerate segment.
func normal(x1, y1, x2, y2 float64) (float32, float32) {
	dx, dy := x2-x1, y2-y1
	l := math.Hypot(dx, dy)
	if l == 0 {
		return 0, 0
	}
	return float32(-dy / l), float32(dx / l)
}

// EdgeDescriptor returns the shader pair and layout of the edge programs.
func EdgeDescriptor() *Descriptor {
	return &Descriptor{
		Label:          "edge",
		VertexShader:   edgeVertexShader,
		FragmentShader: edgeFragmentShader,
		Attributes: []Attribute{
			{Name: "position", Format: gputypes.VertexFormatFloat32x2},
			{Name: "normal", Format: gputypes.VertexFormatFloat32x2},
			{Name: "thickness", Format: gputypes.VertexFormatFloat32},
			{Name: "color", Format: gputypes.VertexFormatUnorm8x4},
			{Name: "tip", Format: gputypes.VertexFormatFloat32},
		},
		UniformSize: UniformSize,
	}
}

// EdgeProgram draws every edge as a thick line made of two triangles.
type EdgeProgram struct {
	*Program

	// body leaves room for an arrowhead at the target end.
	body bool
}

var _ EdgeProcessor = (*EdgeProgram)(nil)

// NewEdgeProgram compiles the edge shaders on ctx. The line runs from
// source center to target center.
func NewEdgeProgram(ctx Context, opts ...Option) (*EdgeProgram, error) {
	return newEdgeProgram(ctx, false, opts)
}

// NewEdgeBodyProgram is NewEdgeProgram with the target end pulled back by
// the target radius plus the arrowhead length, to pair with an
// [ArrowProgram].
func NewEdgeBodyProgram(ctx Context, opts ...Option) (*EdgeProgram, error) {
	return newEdgeProgram(ctx, true, opts)
}

func newEdgeProgram(ctx Context, body bool, opts []Option) (*EdgeProgram, error) {
	desc := EdgeDescriptor()
	if body {
		desc.Label = "edge-body"
	}
	p, err := newProgram(ctx, desc, edgeVertices, buildOptions(opts))
	if err != nil {
		return nil, err
	}
	return &EdgeProgram{Program: p, body: body}, nil
}

// Process writes edge e between source and target into slot offset.
// Negative offsets are ignored.
func (p *EdgeProgram) Process(source, target NodeData, e EdgeData, offset int) {
	if offset < 0 {
		return
	}
	if source.Hidden || target.Hidden || e.Hidden {
		p.zero(offset)
		return
	}

	s := p.slot(offset)
	n1, n2 := normal(source.X, source.Y, target.X, target.Y)
	thickness := float32(orOne(e.Size))
	color := p.colors.Encode(e.Color)

	var tip float32
	if p.body {
		tip = -float32(orOne(target.Size) + ArrowHeadLength(e.Size))
	}

	sx, sy := float32(source.X), float32(source.Y)
	tx, ty := float32(target.X), float32(target.Y)

	// Two triangles: (s+, s-, t+) and (t+, s-, t-).
	vertices := [edgeVertices]struct {
		x, y, side, tip float32
	}{
		{sx, sy, 1, 0},
		{sx, sy, -1, 0},
		{tx, ty, 1, tip},
		{tx, ty, 1, tip},
		{sx, sy, -1, 0},
		{tx, ty, -1, tip},
	}

	i := 0
	for _, v := range vertices {
		s[i+0] = v.x
		s[i+1] = v.y
		s[i+2] = n1
		s[i+3] = n2
		s[i+4] = thickness * v.side
		s[i+5] = color
		s[i+6] = v.tip
		i += edgeFloats
	}
}
