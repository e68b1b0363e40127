// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ggraph/program"
)

// Sentinel errors.
var (
	// ErrNoTarget is returned by BeginFrame when no target view is set.
	ErrNoTarget = errors.New("wgpu: no render target")

	// ErrNoHAL is returned by NewFromProvider when the provider does not
	// expose HAL device and queue.
	ErrNoHAL = errors.New("wgpu: provider does not expose HAL types")

	// ErrFrameInProgress is returned by BeginFrame when the previous frame
	// was not ended.
	ErrFrameInProgress = errors.New("wgpu: frame already in progress")
)

// Option configures a Context.
type Option func(*options)

type options struct {
	format gputypes.TextureFormat
	clear  gputypes.Color
}

func defaultOptions() options {
	return options{
		format: gputypes.TextureFormatBGRA8Unorm,
		clear:  gputypes.Color{R: 1, G: 1, B: 1, A: 1},
	}
}

// WithFormat sets the color format of the render target.
func WithFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		if f != gputypes.TextureFormatUndefined {
			o.format = f
		}
	}
}

// WithClearColor sets the color the target is cleared to every frame.
func WithClearColor(c gputypes.Color) Option {
	return func(o *options) {
		o.clear = c
	}
}

// Context is a program.Context rendering through a HAL device.
//
// Context is not safe for concurrent use; the renderer drives it from a
// single goroutine.
type Context struct {
	device hal.Device
	queue  hal.Queue
	opts   options
	info   GPUInfo

	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout

	programs map[program.Handle]*pipeline
	next     program.Handle

	target hal.TextureView
	frame  *frame

	// Resources of submitted frames, released once their submission
	// completes.
	retired []retiredFrame
}

var _ program.Context = (*Context)(nil)

type pipeline struct {
	label    string
	stride   uint64
	vertex   hal.ShaderModule
	fragment hal.ShaderModule
	pipeline hal.RenderPipeline

	vertexBuf  hal.Buffer
	bufferSize uint64 // allocated bytes
	dataSize   uint64 // bytes written by the last BufferData
}

type frame struct {
	encoder hal.CommandEncoder
	pass    hal.RenderPassEncoder
	width   int
	height  int
	garbage []hal.Resource
}

type retiredFrame struct {
	index   uint64
	cmd     hal.CommandBuffer
	garbage []hal.Resource
}

// New creates a context on device and queue. The caller keeps ownership of
// both.
func New(device hal.Device, queue hal.Queue, opts ...Option) (*Context, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("wgpu: device and queue are required")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Context{
		device:   device,
		queue:    queue,
		opts:     o,
		programs: make(map[program.Handle]*pipeline),
		info:     GPUInfo{Type: gpucontext.AdapterTypeUnknown, Format: o.format},
	}
	if err := c.createLayouts(); err != nil {
		c.Destroy()
		return nil, err
	}
	slogger().Debug("wgpu: context created", "format", o.format)
	return c, nil
}

// NewFromProvider creates a context on the device shared by a gpucontext
// provider (for example a gogpu window). The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
// The surface format of the provider becomes the target format unless
// overridden with WithFormat.
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Context, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}

	all := append([]Option{WithFormat(provider.SurfaceFormat())}, opts...)
	c, err := New(device, queue, all...)
	if err != nil {
		return nil, err
	}
	c.info = adapterInfo(provider.AdapterInfo(), c.opts.format)
	slogger().Info("wgpu: using provider device", "gpu", c.info.String())
	return c, nil
}

func (c *Context) createLayouts() error {
	layout, err := c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "ggraph_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create uniform layout: %w", err)
	}
	c.uniformLayout = layout

	pipeLayout, err := c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "ggraph_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{c.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	c.pipeLayout = pipeLayout
	return nil
}

// SetTarget sets the texture view the next frames render into. The caller
// keeps ownership of the view.
func (c *Context) SetTarget(view hal.TextureView) {
	c.target = view
}

// Format returns the color format pipelines are built for.
func (c *Context) Format() gputypes.TextureFormat {
	return c.opts.format
}

// CreateProgram compiles the shader pair of desc and builds its pipeline.
func (c *Context) CreateProgram(desc *program.Descriptor) (program.Handle, error) {
	if err := desc.Validate(); err != nil {
		return 0, err
	}

	p := &pipeline{label: desc.Label, stride: desc.Stride()}
	var err error
	p.vertex, err = createShaderModule(c.device, desc.Label+"_vs", desc.VertexShader)
	if err != nil {
		return 0, fmt.Errorf("wgpu: %w", err)
	}
	p.fragment, err = createShaderModule(c.device, desc.Label+"_fs", desc.FragmentShader)
	if err != nil {
		c.device.DestroyShaderModule(p.vertex)
		return 0, fmt.Errorf("wgpu: %w", err)
	}

	blend := gputypes.BlendStatePremultiplied()
	p.pipeline, err = c.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  desc.Label + "_pipeline",
		Layout: c.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.vertex,
			EntryPoint: "vs_main",
			Buffers: []gputypes.VertexBufferLayout{{
				ArrayStride: p.stride,
				StepMode:    gputypes.VertexStepModeVertex,
				Attributes:  desc.VertexLayout(),
			}},
		},
		Fragment: &hal.FragmentState{
			Module:     p.fragment,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{{
				Format:    c.opts.format,
				Blend:     &blend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		c.device.DestroyShaderModule(p.fragment)
		c.device.DestroyShaderModule(p.vertex)
		return 0, fmt.Errorf("wgpu: create %s pipeline: %w", desc.Label, err)
	}

	c.next++
	c.programs[c.next] = p
	slogger().Debug("wgpu: pipeline created", "label", desc.Label, "stride", p.stride)
	return c.next, nil
}

func (c *Context) lookup(h program.Handle) (*pipeline, error) {
	p, ok := c.programs[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", program.ErrUnknownProgram, h)
	}
	return p, nil
}

// BufferData uploads the vertex data of a program, growing its buffer when
// needed.
func (c *Context) BufferData(h program.Handle, data []byte) error {
	p, err := c.lookup(h)
	if err != nil {
		return err
	}
	size := uint64(len(data))
	p.dataSize = size
	if size == 0 {
		return nil
	}

	if p.vertexBuf == nil || size > p.bufferSize {
		grown := max(size, p.bufferSize*2)
		buf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
			Label: p.label + "_vertices",
			Size:  grown,
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			p.dataSize = 0
			return fmt.Errorf("wgpu: create %s vertex buffer: %w", p.label, err)
		}
		if p.vertexBuf != nil {
			c.release(p.vertexBuf)
		}
		slogger().Debug("wgpu: vertex buffer grown", "label", p.label, "from", p.bufferSize, "to", grown)
		p.vertexBuf = buf
		p.bufferSize = grown
	}

	if err := c.queue.WriteBuffer(p.vertexBuf, 0, data); err != nil {
		return fmt.Errorf("wgpu: write %s vertices: %w", p.label, err)
	}
	return nil
}

// BeginFrame opens a render pass on the target view and clears it.
func (c *Context) BeginFrame(width, height int) error {
	if c.frame != nil {
		return ErrFrameInProgress
	}
	if c.target == nil {
		return ErrNoTarget
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("wgpu: invalid frame size %dx%d", width, height)
	}
	c.reclaim()

	encoder, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "ggraph_frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("ggraph_frame"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "ggraph_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       c.target,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: c.opts.clear,
		}},
	})
	pass.SetViewport(0, 0, float32(width), float32(height), 0, 1)

	c.frame = &frame{encoder: encoder, pass: pass, width: width, height: height}
	return nil
}

// Draw records a draw of the program's first vertexCount vertices.
func (c *Context) Draw(h program.Handle, uniforms []byte, vertexCount int) error {
	p, err := c.lookup(h)
	if err != nil {
		return err
	}
	if c.frame == nil {
		return program.ErrNoFrame
	}
	if vertexCount <= 0 {
		return nil
	}
	if need := uint64(vertexCount) * p.stride; p.vertexBuf == nil || need > p.dataSize {
		return fmt.Errorf("wgpu: %s: draw of %d vertices exceeds %d buffered bytes",
			p.label, vertexCount, p.dataSize)
	}

	uniformBuf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: p.label + "_uniforms",
		Size:  uint64(len(uniforms)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create %s uniform buffer: %w", p.label, err)
	}
	c.frame.garbage = append(c.frame.garbage, uniformBuf)
	if err := c.queue.WriteBuffer(uniformBuf, 0, uniforms); err != nil {
		return fmt.Errorf("wgpu: write %s uniforms: %w", p.label, err)
	}

	bindGroup, err := c.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  p.label + "_bind",
		Layout: c.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: uint64(len(uniforms)),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create %s bind group: %w", p.label, err)
	}
	c.frame.garbage = append(c.frame.garbage, bindGroup)

	pass := c.frame.pass
	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.SetVertexBuffer(0, p.vertexBuf, 0)
	pass.Draw(uint32(vertexCount), 1, 0, 0) //nolint:gosec // vertex count bounded by buffer size
	return nil
}

// EndFrame ends the render pass and submits the frame.
func (c *Context) EndFrame() error {
	f := c.frame
	if f == nil {
		return program.ErrNoFrame
	}
	c.frame = nil

	f.pass.End()
	cmd, err := f.encoder.EndEncoding()
	if err != nil {
		c.destroyAll(f.garbage)
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	index, err := c.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		c.device.FreeCommandBuffer(cmd)
		c.destroyAll(f.garbage)
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	c.retired = append(c.retired, retiredFrame{index: index, cmd: cmd, garbage: f.garbage})
	return nil
}

// release schedules r for destruction after the frames that may use it.
func (c *Context) release(r hal.Resource) {
	if c.frame != nil {
		c.frame.garbage = append(c.frame.garbage, r)
		return
	}
	if n := len(c.retired); n > 0 {
		c.retired[n-1].garbage = append(c.retired[n-1].garbage, r)
		return
	}
	r.Destroy()
}

// reclaim destroys the resources of completed submissions.
func (c *Context) reclaim() {
	done := c.queue.PollCompleted()
	kept := c.retired[:0]
	for _, r := range c.retired {
		if r.index > done {
			kept = append(kept, r)
			continue
		}
		c.device.FreeCommandBuffer(r.cmd)
		c.destroyAll(r.garbage)
	}
	clear(c.retired[len(kept):])
	c.retired = kept
}

func (c *Context) destroyAll(rs []hal.Resource) {
	for _, r := range rs {
		r.Destroy()
	}
}

// Pending returns the number of submitted frames whose resources are not
// yet released.
func (c *Context) Pending() int {
	return len(c.retired)
}

// DestroyProgram releases the pipeline and vertex buffer of a program.
func (c *Context) DestroyProgram(h program.Handle) {
	p, ok := c.programs[h]
	if !ok {
		return
	}
	delete(c.programs, h)
	if p.vertexBuf != nil {
		c.release(p.vertexBuf)
	}
	c.device.DestroyRenderPipeline(p.pipeline)
	c.device.DestroyShaderModule(p.fragment)
	c.device.DestroyShaderModule(p.vertex)
}

// Destroy waits for the device to go idle and releases every resource of
// the context. The device and queue are left alive.
func (c *Context) Destroy() {
	if c.device == nil {
		return
	}
	if c.frame != nil {
		c.frame.pass.End()
		c.frame.encoder.DiscardEncoding()
		c.destroyAll(c.frame.garbage)
		c.frame = nil
	}
	if err := c.device.WaitIdle(); err != nil {
		slogger().Warn("wgpu: wait idle failed", "err", err)
	}
	for h := range c.programs {
		c.DestroyProgram(h)
	}
	for _, r := range c.retired {
		c.device.FreeCommandBuffer(r.cmd)
		c.destroyAll(r.garbage)
	}
	c.retired = nil
	if c.pipeLayout != nil {
		c.device.DestroyPipelineLayout(c.pipeLayout)
		c.pipeLayout = nil
	}
	if c.uniformLayout != nil {
		c.device.DestroyBindGroupLayout(c.uniformLayout)
		c.uniformLayout = nil
	}
	c.device = nil
}
