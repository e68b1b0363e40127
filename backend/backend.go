// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"

	"github.com/gogpu/ggraph/program"
)

// Backend name constants.
const (
	// WGPU is the name of the gogpu/wgpu HAL backend.
	WGPU = "wgpu"
	// Discard is the name of the device-less backend.
	Discard = "discard"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Context is a rendering context owned by the caller.
type Context interface {
	program.Context

	// Resize changes the size of the render target.
	Resize(width, height int) error

	// Destroy releases the context. It must not be used afterwards.
	Destroy()
}
