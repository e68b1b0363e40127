// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/ggraph/geom"
	"github.com/gogpu/ggraph/program"
)

const testVertexShader = `
struct Uniforms {
    matrix: mat3x3<f32>,
    resolution: vec2<f32>,
    ratio: f32,
    scale: f32,
}

@group(0) @binding(0) var<uniform> u: Uniforms;

@vertex
fn vs_main(@location(0) position: vec2<f32>) -> @builtin(position) vec4<f32> {
    let p = u.matrix * vec3<f32>(position, 1.0);
    return vec4<f32>(p.xy, 0.0, 1.0);
}
`

const testFragmentShader = `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

func testDescriptor() *program.Descriptor {
	return &program.Descriptor{
		Label:          "test",
		VertexShader:   testVertexShader,
		FragmentShader: testFragmentShader,
		Attributes: []program.Attribute{
			{Name: "position", Format: gputypes.VertexFormatFloat32x2},
		},
		UniformSize: program.UniformSize,
	}
}

// laggingQueue reports submissions as completed only up to done.
type laggingQueue struct {
	*noop.Queue
	done uint64
}

func (q *laggingQueue) PollCompleted() uint64 { return q.done }

func newTestContext(t *testing.T, queue hal.Queue) *Context {
	t.Helper()
	device := &noop.Device{}
	if queue == nil {
		queue = &noop.Queue{}
	}
	c, err := New(device, queue)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Destroy)

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "target",
		Size:          hal.Extent3D{Width: 64, Height: 48, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        c.Format(),
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: "target_view"})
	if err != nil {
		t.Fatalf("CreateTextureView: %v", err)
	}
	c.SetTarget(view)
	return c
}

func uniforms() []byte {
	params := program.RenderParams{
		Matrix: geom.Identity(),
		Width:  64, Height: 48,
		Ratio: 1, ScalingRatio: 1,
	}
	return params.AppendUniforms(nil)
}

func TestNewRequiresDeviceAndQueue(t *testing.T) {
	if _, err := New(nil, &noop.Queue{}); err == nil {
		t.Error("New(nil device) succeeded")
	}
	if _, err := New(&noop.Device{}, nil); err == nil {
		t.Error("New(nil queue) succeeded")
	}
}

func TestFrame(t *testing.T) {
	c := newTestContext(t, nil)

	h, err := c.CreateProgram(testDescriptor())
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	data := make([]byte, 3*8)
	if err := c.BufferData(h, data); err != nil {
		t.Fatalf("BufferData: %v", err)
	}
	if err := c.BeginFrame(64, 48); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if err := c.Draw(h, uniforms(), 3); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := c.EndFrame(); err != nil {
		t.Fatalf("EndFrame: %v", err)
	}
	if c.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", c.Pending())
	}

	// The noop queue completes every submission immediately.
	if err := c.BeginFrame(64, 48); err != nil {
		t.Fatalf("second BeginFrame: %v", err)
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() after reclaim = %d, want 0", c.Pending())
	}
	if err := c.EndFrame(); err != nil {
		t.Fatalf("second EndFrame: %v", err)
	}
}

func TestRetiredFramesWaitForCompletion(t *testing.T) {
	q := &laggingQueue{Queue: &noop.Queue{}}
	c := newTestContext(t, q)
	h, err := c.CreateProgram(testDescriptor())
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	if err := c.BufferData(h, make([]byte, 24)); err != nil {
		t.Fatalf("BufferData: %v", err)
	}

	for i := range 3 {
		if err := c.BeginFrame(64, 48); err != nil {
			t.Fatalf("BeginFrame %d: %v", i, err)
		}
		if err := c.Draw(h, uniforms(), 3); err != nil {
			t.Fatalf("Draw %d: %v", i, err)
		}
		if err := c.EndFrame(); err != nil {
			t.Fatalf("EndFrame %d: %v", i, err)
		}
	}
	if c.Pending() != 3 {
		t.Fatalf("Pending() = %d, want 3", c.Pending())
	}

	q.done = 2
	if err := c.BeginFrame(64, 48); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if c.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1 after two completions", c.Pending())
	}
	if err := c.EndFrame(); err != nil {
		t.Fatalf("EndFrame: %v", err)
	}
}

func TestBufferDataGrowth(t *testing.T) {
	c := newTestContext(t, nil)
	h, err := c.CreateProgram(testDescriptor())
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}

	if err := c.BufferData(h, make([]byte, 24)); err != nil {
		t.Fatalf("BufferData: %v", err)
	}
	first := c.programs[h].vertexBuf
	if err := c.BufferData(h, make([]byte, 16)); err != nil {
		t.Fatalf("BufferData smaller: %v", err)
	}
	if c.programs[h].vertexBuf != first {
		t.Error("shrinking upload replaced the vertex buffer")
	}
	if err := c.BufferData(h, make([]byte, 40)); err != nil {
		t.Fatalf("BufferData larger: %v", err)
	}
	p := c.programs[h]
	if p.vertexBuf == first {
		t.Error("growing upload kept the old vertex buffer")
	}
	if p.bufferSize != 48 {
		t.Errorf("bufferSize = %d, want 48", p.bufferSize)
	}
}

func TestDrawErrors(t *testing.T) {
	c := newTestContext(t, nil)
	h, err := c.CreateProgram(testDescriptor())
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	if err := c.BufferData(h, make([]byte, 24)); err != nil {
		t.Fatalf("BufferData: %v", err)
	}

	if err := c.Draw(h, uniforms(), 3); !errors.Is(err, program.ErrNoFrame) {
		t.Errorf("Draw outside frame = %v, want ErrNoFrame", err)
	}
	if err := c.EndFrame(); !errors.Is(err, program.ErrNoFrame) {
		t.Errorf("EndFrame outside frame = %v, want ErrNoFrame", err)
	}

	if err := c.BeginFrame(64, 48); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if err := c.BeginFrame(64, 48); !errors.Is(err, ErrFrameInProgress) {
		t.Errorf("nested BeginFrame = %v, want ErrFrameInProgress", err)
	}
	if err := c.Draw(h+7, uniforms(), 3); !errors.Is(err, program.ErrUnknownProgram) {
		t.Errorf("Draw unknown = %v, want ErrUnknownProgram", err)
	}
	if err := c.Draw(h, uniforms(), 4); err == nil {
		t.Error("Draw past buffered data succeeded")
	}
	if err := c.Draw(h, uniforms(), 0); err != nil {
		t.Errorf("empty Draw = %v", err)
	}
	if err := c.EndFrame(); err != nil {
		t.Fatalf("EndFrame: %v", err)
	}
}

func TestBeginFrameWithoutTarget(t *testing.T) {
	c, err := New(&noop.Device{}, &noop.Queue{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Destroy()
	if err := c.BeginFrame(10, 10); !errors.Is(err, ErrNoTarget) {
		t.Errorf("BeginFrame = %v, want ErrNoTarget", err)
	}
}

func TestInvalidShader(t *testing.T) {
	c := newTestContext(t, nil)
	desc := testDescriptor()
	desc.VertexShader = "fn vs_main( {"
	if _, err := c.CreateProgram(desc); err == nil {
		t.Fatal("CreateProgram accepted invalid WGSL")
	}
	if len(c.programs) != 0 {
		t.Errorf("failed program registered: %d programs", len(c.programs))
	}

	if _, err := c.CreateProgram(&program.Descriptor{Label: "empty"}); !errors.Is(err, program.ErrInvalidDescriptor) {
		t.Errorf("CreateProgram(empty) = %v, want ErrInvalidDescriptor", err)
	}
}

func TestGraphPrograms(t *testing.T) {
	c := newTestContext(t, nil)

	nodes, err := program.NewNodeProgram(c)
	if err != nil {
		t.Fatalf("NewNodeProgram: %v", err)
	}
	defer nodes.Destroy()
	edges, err := program.NewDirectedEdgeProgram(c)
	if err != nil {
		t.Fatalf("NewDirectedEdgeProgram: %v", err)
	}
	defer edges.Destroy()

	a := program.NodeData{X: 0.2, Y: 0.3, Size: 4, Color: "#f00"}
	b := program.NodeData{X: 0.8, Y: 0.6, Size: 6, Color: "#00f"}
	nodes.Allocate(2)
	nodes.Process(a, 0)
	nodes.Process(b, 1)
	edges.Allocate(1)
	edges.Process(a, b, program.EdgeData{Size: 1, Color: "#ccc"}, 0)

	if err := nodes.BufferData(); err != nil {
		t.Fatalf("nodes.BufferData: %v", err)
	}
	if err := edges.BufferData(); err != nil {
		t.Fatalf("edges.BufferData: %v", err)
	}

	params := program.RenderParams{Matrix: geom.Identity(), Width: 64, Height: 48, Ratio: 1, ScalingRatio: 1}
	if err := c.BeginFrame(64, 48); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if err := edges.Render(params); err != nil {
		t.Fatalf("edges.Render: %v", err)
	}
	if err := nodes.Render(params); err != nil {
		t.Fatalf("nodes.Render: %v", err)
	}
	if err := c.EndFrame(); err != nil {
		t.Fatalf("EndFrame: %v", err)
	}
}

func TestDestroyProgram(t *testing.T) {
	c := newTestContext(t, nil)
	h, err := c.CreateProgram(testDescriptor())
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	c.DestroyProgram(h)
	c.DestroyProgram(h)
	if err := c.BufferData(h, make([]byte, 8)); !errors.Is(err, program.ErrUnknownProgram) {
		t.Errorf("BufferData after destroy = %v, want ErrUnknownProgram", err)
	}

	c.Destroy()
	c.Destroy()
}

type testProvider struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat
}

func (p *testProvider) Device() gpucontext.Device             { return p.device }
func (p *testProvider) Queue() gpucontext.Queue               { return p.queue }
func (p *testProvider) Adapter() gpucontext.Adapter           { return nil }
func (p *testProvider) SurfaceFormat() gputypes.TextureFormat { return p.format }
func (p *testProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "noop", Type: gpucontext.AdapterTypeSoftware}
}

type halTestProvider struct {
	testProvider
}

func (p *halTestProvider) HalDevice() any { return p.device }
func (p *halTestProvider) HalQueue() any  { return p.queue }

func TestNewFromProvider(t *testing.T) {
	base := testProvider{device: &noop.Device{}, queue: &noop.Queue{}, format: gputypes.TextureFormatRGBA8Unorm}

	if _, err := NewFromProvider(&base); !errors.Is(err, ErrNoHAL) {
		t.Errorf("NewFromProvider without HAL = %v, want ErrNoHAL", err)
	}

	c, err := NewFromProvider(&halTestProvider{base})
	if err != nil {
		t.Fatalf("NewFromProvider: %v", err)
	}
	defer c.Destroy()
	if c.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v, want provider surface format", c.Format())
	}
	info := c.Info()
	if info.Name != "noop" || info.Type != gpucontext.AdapterTypeSoftware {
		t.Errorf("Info() = %+v", info)
	}

	headless := base
	headless.format = gputypes.TextureFormatUndefined
	c2, err := NewFromProvider(&halTestProvider{headless})
	if err != nil {
		t.Fatalf("NewFromProvider headless: %v", err)
	}
	defer c2.Destroy()
	if c2.Format() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("headless Format() = %v, want BGRA8Unorm", c2.Format())
	}
}
