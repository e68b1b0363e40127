// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend is the registry of rendering contexts.
//
// A backend turns a viewport size into a program.Context the renderer can
// draw with. Backends register themselves from init functions and are
// selected by name at runtime, which lets tools switch between a GPU
// context and the discard context without importing either directly.
//
// The discard backend is always available:
//
//	ctx, err := backend.Open(backend.Discard, 800, 600)
//
// The wgpu backend registers when its package is imported, together with
// a HAL backend to run on:
//
//	import (
//		_ "github.com/gogpu/ggraph/backend/wgpu"
//		_ "github.com/gogpu/wgpu/hal/noop"
//	)
//
//	ctx, name, err := backend.OpenDefault(800, 600)
//
// # Available Backends
//
//   - "wgpu": gogpu/wgpu HAL device rendering into an offscreen target
//   - "discard": validates and counts draw calls without a device
package backend
