// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package program batches same-kind graph geometry into a single vertex
// buffer and draws it with one call per frame.
//
// A Program owns one shader pair and one vertex buffer on a rendering
// [Context]. Every frame the renderer writes visible entities into their
// slots with Process, uploads the buffer with BufferData and issues a
// single draw with Render:
//
//	nodes, err := program.NewNodeProgram(ctx)
//	if err != nil {
//		return err
//	}
//	nodes.Allocate(len(visible))
//	for i, n := range visible {
//		nodes.Process(n, i)
//	}
//	_ = nodes.BufferData()
//	_ = nodes.Render(params)
//
// Hidden entities are written as zeroed, degenerate geometry so the draw
// range stays contiguous. Writing past the allocated capacity grows the
// buffer instead of truncating.
//
// Several programs that must stay in lockstep for the same logical entity
// (an edge body and its arrowhead) are combined with [Compound].
package program
