// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package program

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// Sentinel errors.
var (
	// ErrNilContext is returned when a program is created without a context.
	ErrNilContext = errors.New("program: nil rendering context")

	// ErrInvalidDescriptor is returned for descriptors missing a shader,
	// attributes or uniforms.
	ErrInvalidDescriptor = errors.New("program: invalid descriptor")

	// ErrUnknownProgram is returned by a context for a handle it did not
	// create or has already destroyed.
	ErrUnknownProgram = errors.New("program: unknown program handle")

	// ErrNoFrame is returned by Draw outside BeginFrame/EndFrame.
	ErrNoFrame = errors.New("program: draw outside of a frame")
)

// Handle identifies a program inside a Context.
type Handle uint32

// Context is the GPU rendering context programs run on. Implementations
// compile the shader pair, hold the vertex buffer and record draws into the
// current frame.
type Context interface {
	// CreateProgram compiles and links the shader pair described by desc.
	CreateProgram(desc *Descriptor) (Handle, error)

	// BufferData replaces the vertex data of a program.
	BufferData(h Handle, data []byte) error

	// Draw records a draw of vertexCount vertices with the given uniform
	// block into the current frame.
	Draw(h Handle, uniforms []byte, vertexCount int) error

	// DestroyProgram releases the program. Unknown handles are ignored.
	DestroyProgram(h Handle)

	// BeginFrame starts a frame of the given size in pixels.
	BeginFrame(width, height int) error

	// EndFrame submits the recorded draws.
	EndFrame() error
}

// Attribute is one per-vertex input of a shader pair. Attributes occupy
// consecutive 4-byte lanes in declaration order and bind to consecutive
// shader locations starting at 0.
type Attribute struct {
	Name   string
	Format gputypes.VertexFormat
}

// Descriptor describes the shader pair and vertex layout of a program.
type Descriptor struct {
	Label          string
	VertexShader   string // WGSL, entry point vs_main
	FragmentShader string // WGSL, entry point fs_main
	Attributes     []Attribute
	UniformSize    int
}

// Stride returns the size of one vertex in bytes.
func (d *Descriptor) Stride() uint64 {
	var n uint64
	for _, a := range d.Attributes {
		n += a.Format.Size()
	}
	return n
}

// FloatsPerVertex returns the number of 4-byte lanes per vertex.
func (d *Descriptor) FloatsPerVertex() int {
	return int(d.Stride() / 4)
}

// VertexLayout returns the attribute layout for a single interleaved
// vertex buffer.
func (d *Descriptor) VertexLayout() []gputypes.VertexAttribute {
	out := make([]gputypes.VertexAttribute, len(d.Attributes))
	var offset uint64
	for i, a := range d.Attributes {
		out[i] = gputypes.VertexAttribute{
			Format:         a.Format,
			Offset:         offset,
			ShaderLocation: uint32(i), //nolint:gosec // attribute count is tiny
		}
		offset += a.Format.Size()
	}
	return out
}

// Validate reports whether the descriptor can be turned into a program.
func (d *Descriptor) Validate() error {
	switch {
	case d == nil:
		return fmt.Errorf("%w: nil", ErrInvalidDescriptor)
	case d.VertexShader == "" || d.FragmentShader == "":
		return fmt.Errorf("%w: %s: missing shader source", ErrInvalidDescriptor, d.Label)
	case len(d.Attributes) == 0:
		return fmt.Errorf("%w: %s: no attributes", ErrInvalidDescriptor, d.Label)
	case d.UniformSize <= 0:
		return fmt.Errorf("%w: %s: no uniform block", ErrInvalidDescriptor, d.Label)
	}
	for _, a := range d.Attributes {
		if a.Format.Size()%4 != 0 || a.Format.Size() == 0 {
			return fmt.Errorf("%w: %s: attribute %s is not lane aligned", ErrInvalidDescriptor, d.Label, a.Name)
		}
	}
	return nil
}
