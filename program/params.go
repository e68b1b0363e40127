// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package program

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/ggraph/geom"
)

// UniformSize is the size of the uniform block shared by every built-in
// shader:
//
//	struct Uniforms {
//	    matrix: mat3x3<f32>,   // 48 bytes, columns padded to vec4
//	    resolution: vec2<f32>, // offset 48
//	    ratio: f32,            // offset 56
//	    scale: f32,            // offset 60
//	}
const UniformSize = 64

// RenderParams are the per-frame uniforms of a draw.
type RenderParams struct {
	// Matrix maps graph coordinates to clip space.
	Matrix geom.Matrix

	// Width and Height of the viewport in pixels.
	Width, Height float64

	// Ratio multiplies entity sizes; it shrinks as the camera zooms out.
	Ratio float64

	// ScalingRatio is the device pixel ratio.
	ScalingRatio float64
}

// AppendUniforms appends the std140-style uniform block to dst.
func (p RenderParams) AppendUniforms(dst []byte) []byte {
	var buf [UniformSize]byte
	cols := p.Matrix.Columns()
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			putFloat(buf[c*16+r*4:], cols[c*3+r])
		}
	}
	putFloat(buf[48:], float32(p.Width))
	putFloat(buf[52:], float32(p.Height))
	putFloat(buf[56:], float32(p.Ratio))
	putFloat(buf[60:], float32(p.ScalingRatio))
	return append(dst, buf[:]...)
}

func putFloat(b []byte, f float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(f))
}
