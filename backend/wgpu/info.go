// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// GPUInfo describes the adapter a Context renders with.
type GPUInfo struct {
	// Name is the adapter name (e.g., "NVIDIA GeForce RTX 3080").
	Name string
	// Type is the adapter type (discrete, integrated, software).
	Type gpucontext.AdapterType
	// Format is the color format of the render target.
	Format gputypes.TextureFormat
}

// String returns a human-readable description of the GPU.
func (g GPUInfo) String() string {
	name := g.Name
	if name == "" {
		name = "unknown adapter"
	}
	return fmt.Sprintf("%s (%s, %s)", name, g.Type, g.Format)
}

// Info returns the adapter description. Contexts created with New report
// an unknown adapter since the HAL device does not carry one.
func (c *Context) Info() GPUInfo {
	return c.info
}

func adapterInfo(info gpucontext.AdapterInfo, format gputypes.TextureFormat) GPUInfo {
	return GPUInfo{Name: info.Name, Type: info.Type, Format: format}
}
