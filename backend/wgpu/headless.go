// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrNoAdapter is returned by OpenHeadless when the selected HAL backend
// exposes no adapter.
var ErrNoAdapter = errors.New("wgpu: no adapter available")

// Headless is a Context that owns its device and renders into an offscreen
// texture. It is used by benchmarks and tools without a window.
type Headless struct {
	*Context

	instance hal.Instance
	device   hal.Device
	texture  hal.Texture
	view     hal.TextureView
	width    int
	height   int
}

// OpenHeadless opens the best registered HAL backend and creates an
// offscreen target of the given size. Backends register themselves when
// their package is imported (for example github.com/gogpu/wgpu/hal/noop).
func OpenHeadless(width, height int, opts ...Option) (*Headless, error) {
	backend, err := hal.SelectBestBackend()
	if err != nil {
		return nil, fmt.Errorf("wgpu: select backend: %w", err)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s instance: %w", backend.Variant(), err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	exposed := adapters[0]
	open, err := exposed.Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open %s: %w", exposed.Info.Name, err)
	}

	ctx, err := New(open.Device, open.Queue, opts...)
	if err != nil {
		open.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	ctx.info = GPUInfo{
		Name:   exposed.Info.Name,
		Type:   adapterType(exposed.Info.DeviceType),
		Format: ctx.opts.format,
	}

	h := &Headless{Context: ctx, instance: instance, device: open.Device}
	if err := h.Resize(width, height); err != nil {
		h.Destroy()
		return nil, err
	}
	slogger().Info("wgpu: headless context", "gpu", ctx.info.String(), "backend", backend.Variant())
	return h, nil
}

// Resize recreates the offscreen target when the size changes.
func (h *Headless) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("wgpu: invalid target size %dx%d", width, height)
	}
	if h.texture != nil && width == h.width && height == h.height {
		return nil
	}

	texture, err := h.device.CreateTexture(&hal.TextureDescriptor{
		Label: "ggraph_offscreen",
		Size: hal.Extent3D{
			Width:              uint32(width),  //nolint:gosec // checked positive above
			Height:             uint32(height), //nolint:gosec // checked positive above
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        h.Format(),
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create offscreen target: %w", err)
	}
	view, err := h.device.CreateTextureView(texture, &hal.TextureViewDescriptor{
		Label:  "ggraph_offscreen_view",
		Format: h.Format(),
	})
	if err != nil {
		h.device.DestroyTexture(texture)
		return fmt.Errorf("wgpu: create offscreen view: %w", err)
	}

	h.releaseTarget()
	h.texture, h.view = texture, view
	h.width, h.height = width, height
	h.SetTarget(view)
	return nil
}

// Size returns the offscreen target size.
func (h *Headless) Size() (width, height int) {
	return h.width, h.height
}

func (h *Headless) releaseTarget() {
	if h.view != nil {
		h.Context.release(h.view)
		h.view = nil
	}
	if h.texture != nil {
		h.Context.release(h.texture)
		h.texture = nil
	}
}

// Destroy releases the context, the target and the device.
func (h *Headless) Destroy() {
	if h.device == nil {
		return
	}
	h.releaseTarget()
	h.Context.Destroy()
	h.device.Destroy()
	h.device = nil
	h.instance.Destroy()
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}
