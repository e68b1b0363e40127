// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu implements the graph programs' rendering context on the
// gogpu/wgpu hardware abstraction layer.
//
// Each program's WGSL shader pair is compiled to SPIR-V with gogpu/naga and
// turned into a triangle-list render pipeline with premultiplied alpha
// blending. Vertex data lives in one buffer per program; uniforms are
// uploaded per draw.
//
// A frame renders into the texture view set with [Context.SetTarget]:
//
//	ctx, err := wgpu.New(device, queue)
//	if err != nil {
//		return err
//	}
//	defer ctx.Destroy()
//	ctx.SetTarget(surfaceView)
//
//	r, err := ggraph.New(g, ctx)
//
// Resources used by a submitted frame are released once the queue reports
// the submission complete, so frames can be pipelined without waiting on
// the GPU.
//
// When gg-style hosts share their device through gpucontext, use
// [NewFromProvider]; the provider must expose its HAL device and queue.
//
// [OpenHeadless] owns its device and renders offscreen. Importing this
// package registers it as the "wgpu" backend of package backend.
package wgpu
