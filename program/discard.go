// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package program

import (
	"fmt"
)

// DrawCall is a draw recorded by Discard.
type DrawCall struct {
	Handle      Handle
	VertexCount int
	Uniforms    []byte
}

// DiscardStats counts the work submitted to a Discard context.
type DiscardStats struct {
	Programs      int // live programs
	Frames        int
	Uploads       int
	UploadedBytes int
	Draws         int
	Vertices      int
}

// Discard is a Context that validates calls and counts them but draws
// nothing. It backs headless runs and tests.
type Discard struct {
	next     Handle
	programs map[Handle]*discardProgram
	inFrame  bool
	stats    DiscardStats
	frame    []DrawCall
}

type discardProgram struct {
	desc *Descriptor
	size int
}

var _ Context = (*Discard)(nil)

// NewDiscard creates a null rendering context.
func NewDiscard() *Discard {
	return &Discard{programs: make(map[Handle]*discardProgram)}
}

// CreateProgram implements Context.
func (d *Discard) CreateProgram(desc *Descriptor) (Handle, error) {
	if err := desc.Validate(); err != nil {
		return 0, err
	}
	d.next++
	d.programs[d.next] = &discardProgram{desc: desc}
	d.stats.Programs++
	return d.next, nil
}

// BufferData implements Context.
func (d *Discard) BufferData(h Handle, data []byte) error {
	p, ok := d.programs[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownProgram, h)
	}
	p.size = len(data)
	d.stats.Uploads++
	d.stats.UploadedBytes += len(data)
	return nil
}

// Draw implements Context.
func (d *Discard) Draw(h Handle, uniforms []byte, vertexCount int) error {
	p, ok := d.programs[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownProgram, h)
	}
	if !d.inFrame {
		return ErrNoFrame
	}
	if len(uniforms) != p.desc.UniformSize {
		return fmt.Errorf("program: %s: uniform block is %d bytes, want %d",
			p.desc.Label, len(uniforms), p.desc.UniformSize)
	}
	if need := vertexCount * int(p.desc.Stride()); need > p.size {
		return fmt.Errorf("program: %s: draw of %d vertices exceeds %d buffered bytes",
			p.desc.Label, vertexCount, p.size)
	}
	d.stats.Draws++
	d.stats.Vertices += vertexCount
	d.frame = append(d.frame, DrawCall{
		Handle:      h,
		VertexCount: vertexCount,
		Uniforms:    append([]byte(nil), uniforms...),
	})
	return nil
}

// DestroyProgram implements Context.
func (d *Discard) DestroyProgram(h Handle) {
	if _, ok := d.programs[h]; ok {
		delete(d.programs, h)
		d.stats.Programs--
	}
}

// BeginFrame implements Context.
func (d *Discard) BeginFrame(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("program: invalid frame size %dx%d", width, height)
	}
	d.inFrame = true
	d.frame = d.frame[:0]
	return nil
}

// EndFrame implements Context.
func (d *Discard) EndFrame() error {
	if !d.inFrame {
		return ErrNoFrame
	}
	d.inFrame = false
	d.stats.Frames++
	return nil
}

// Stats returns the counters accumulated so far.
func (d *Discard) Stats() DiscardStats {
	return d.stats
}

// LastFrame returns the draws recorded in the most recent frame, in order.
func (d *Discard) LastFrame() []DrawCall {
	return append([]DrawCall(nil), d.frame...)
}

// Label returns the descriptor label of a live program.
func (d *Discard) Label(h Handle) string {
	if p, ok := d.programs[h]; ok {
		return p.desc.Label
	}
	return ""
}
