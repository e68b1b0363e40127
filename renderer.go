package ggraph

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/gogpu/ggraph/camera"
	"github.com/gogpu/ggraph/captor"
	"github.com/gogpu/ggraph/clock"
	"github.com/gogpu/ggraph/geom"
	"github.com/gogpu/ggraph/internal/parallel"
	"github.com/gogpu/ggraph/program"
	"github.com/gogpu/ggraph/quadtree"
)

// Sentinel errors.
var (
	// ErrNilGraph is returned by New without a graph.
	ErrNilGraph = errors.New("ggraph: nil graph")

	// ErrNilContext is returned by New without a rendering context.
	ErrNilContext = errors.New("ggraph: nil rendering context")

	// ErrUnknownType is returned when a default node or edge type has no
	// program.
	ErrUnknownType = errors.New("ggraph: no program for type")

	// ErrKilled is returned by calls on a killed renderer.
	ErrKilled = errors.New("ggraph: renderer killed")
)

// parallelGrain is the smallest batch split across workers.
const parallelGrain = 2048

// nodeDisplay is the resolved display data of a node. X and Y are
// normalized into the unit square framed by the camera.
type nodeDisplay struct {
	index int
	data  program.NodeData
	label string
	typ   string
}

type edgeDisplay struct {
	index          int
	source, target string
	data           program.EdgeData
	typ            string
}

// Renderer draws a Graph through a rendering context and keeps the camera,
// the spatial index and the pointer interaction together.
//
// A Renderer is not safe for concurrent use: Render, Refresh, the captor
// callbacks and the clock timers must run on one goroutine.
type Renderer struct {
	graph    Graph
	ctx      program.Context
	settings Settings
	labels   LabelDrawer

	clock     clock.Clock
	scheduler *clock.Scheduler // set when the renderer owns the clock
	camera    *camera.Camera

	width, height float64
	pixelRatio    float64

	colors       *program.ColorEncoder
	pool         *parallel.Pool
	nodePrograms map[string]program.NodeProcessor
	edgePrograms map[string]program.EdgeProcessor
	nodeTypes    []string
	edgeTypes    []string

	nodes   map[string]*nodeDisplay
	nodeIDs []string
	edges   map[string]*edgeDisplay
	edgeIDs []string
	maxSize float64
	index   *quadtree.QuadTree

	// Normalization of graph coordinates into the unit square.
	centerX, centerY float64
	extent           float64

	// Reused per-frame batches.
	nodeBatch map[string][]string
	edgeBatch map[string][]string
	uniforms  program.RenderParams
	frame     Frame

	hovered string
	events  nodeEmitter
	captor  *captor.MouseCaptor
	unbind  []func()
	killed  bool
}

// New creates a renderer drawing g on ctx and reads the graph once.
//
// Programs are compiled for every registered node and edge type; any
// compile error aborts creation.
func New(g Graph, ctx program.Context, opts ...Option) (*Renderer, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if ctx == nil {
		return nil, ErrNilContext
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := o.settings.Normalize()

	r := &Renderer{
		graph:        g,
		ctx:          ctx,
		settings:     s,
		labels:       o.labels,
		clock:        o.clock,
		width:        o.width,
		height:       o.height,
		pixelRatio:   o.pixelRatio,
		colors:       program.NewColorEncoder(0),
		nodePrograms: make(map[string]program.NodeProcessor),
		edgePrograms: make(map[string]program.EdgeProcessor),
		nodeBatch:    make(map[string][]string),
		edgeBatch:    make(map[string][]string),
		index:        quadtree.New(),
	}
	if o.workers > 1 {
		r.pool = parallel.NewPool(o.workers)
	}
	if r.clock == nil {
		r.scheduler = clock.NewScheduler(time.Now())
		r.clock = r.scheduler
	}
	r.camera = camera.New(
		camera.WithRatioBounds(s.MinCameraRatio, s.MaxCameraRatio),
		camera.WithClock(r.clock),
	)

	if _, ok := o.nodePrograms[s.DefaultNodeType]; !ok {
		return nil, fmt.Errorf("%w: node type %q", ErrUnknownType, s.DefaultNodeType)
	}
	if _, ok := o.edgePrograms[s.DefaultEdgeType]; !ok {
		return nil, fmt.Errorf("%w: edge type %q", ErrUnknownType, s.DefaultEdgeType)
	}
	if err := r.createPrograms(o); err != nil {
		r.destroyPrograms()
		r.closePool()
		return nil, err
	}

	r.Refresh()
	Logger().Info("renderer created",
		"nodes", len(r.nodeIDs), "edges", len(r.edgeIDs),
		"width", r.width, "height", r.height)
	return r, nil
}

func (r *Renderer) createPrograms(o options) error {
	popts := []program.Option{program.WithColorEncoder(r.colors)}

	r.nodeTypes = sortedKeys(o.nodePrograms)
	for _, typ := range r.nodeTypes {
		p, err := o.nodePrograms[typ](r.ctx, popts...)
		if err != nil {
			return fmt.Errorf("ggraph: node program %q: %w", typ, err)
		}
		r.nodePrograms[typ] = p
	}
	r.edgeTypes = sortedKeys(o.edgePrograms)
	for _, typ := range r.edgeTypes {
		p, err := o.edgePrograms[typ](r.ctx, popts...)
		if err != nil {
			return fmt.Errorf("ggraph: edge program %q: %w", typ, err)
		}
		r.edgePrograms[typ] = p
	}
	return nil
}

func (r *Renderer) destroyPrograms() {
	for _, p := range r.nodePrograms {
		p.Destroy()
	}
	for _, p := range r.edgePrograms {
		p.Destroy()
	}
	clear(r.nodePrograms)
	clear(r.edgePrograms)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Refresh reads the graph again: display data, normalization and the
// spatial index. Call it after mutating the graph.
func (r *Renderer) Refresh() {
	if r.killed {
		return
	}
	s := r.settings

	r.nodes = make(map[string]*nodeDisplay, r.graph.Order())
	r.nodeIDs = r.nodeIDs[:0]
	var bounds geom.Rect
	first := true
	r.graph.ForEachNode(func(id string, a NodeAttributes) bool {
		d := &nodeDisplay{
			index: len(r.nodeIDs),
			label: a.Label,
			typ:   a.Type,
			data: program.NodeData{
				X:      a.X,
				Y:      a.Y,
				Size:   positiveOr(a.Size, s.DefaultNodeSize),
				Color:  a.Color,
				Hidden: a.Hidden,
			},
		}
		if d.data.Color == "" {
			d.data.Color = s.DefaultNodeColor
		}
		if _, ok := r.nodePrograms[d.typ]; !ok {
			d.typ = s.DefaultNodeType
		}
		r.nodes[id] = d
		r.nodeIDs = append(r.nodeIDs, id)

		p := geom.Pt(a.X, a.Y)
		if first {
			bounds = geom.NewRect(p, p)
			first = false
		} else {
			bounds = bounds.Include(p)
		}
		return true
	})

	r.centerX, r.centerY = bounds.Center().X, bounds.Center().Y
	r.extent = math.Max(bounds.Width(), bounds.Height())
	if !(r.extent > 0) {
		r.extent = 1
	}

	entries := make([]quadtree.Entry, 0, len(r.nodeIDs))
	r.maxSize = 0
	for _, id := range r.nodeIDs {
		d := r.nodes[id]
		d.data.X, d.data.Y = r.normalize(d.data.X, d.data.Y)
		if d.data.Hidden {
			continue
		}
		r.maxSize = math.Max(r.maxSize, d.data.Size)
		entries = append(entries, quadtree.Entry{ID: id, X: d.data.X, Y: d.data.Y})
	}
	r.index.Build(entries, geom.NewRect(geom.Pt(0, 0), geom.Pt(1, 1)))

	r.edges = make(map[string]*edgeDisplay, r.graph.Size())
	r.edgeIDs = r.edgeIDs[:0]
	dangling := 0
	r.graph.ForEachEdge(func(id string, a EdgeAttributes) bool {
		src, okS := r.nodes[a.Source]
		tgt, okT := r.nodes[a.Target]
		if !okS || !okT {
			dangling++
			return true
		}
		d := &edgeDisplay{
			index:  len(r.edgeIDs),
			source: a.Source,
			target: a.Target,
			typ:    a.Type,
			data: program.EdgeData{
				Size:   positiveOr(a.Size, s.DefaultEdgeSize),
				Color:  r.edgeColor(a, src, tgt),
				Hidden: a.Hidden,
			},
		}
		if _, ok := r.edgePrograms[d.typ]; !ok {
			d.typ = s.DefaultEdgeType
		}
		r.edges[id] = d
		r.edgeIDs = append(r.edgeIDs, id)
		return true
	})
	if dangling > 0 {
		Logger().Warn("edges with unknown endpoints skipped", "count", dangling)
	}

	if _, ok := r.nodes[r.hovered]; !ok {
		r.hovered = ""
	}
	Logger().Debug("index rebuilt",
		"entries", r.index.Len(), "depth", r.index.Depth(), "edges", len(r.edgeIDs))
}

func (r *Renderer) edgeColor(a EdgeAttributes, src, tgt *nodeDisplay) string {
	switch r.settings.EdgeColorMode {
	case EdgeColorSource:
		return src.data.Color
	case EdgeColorTarget:
		return tgt.data.Color
	}
	if a.Color != "" {
		return a.Color
	}
	return r.settings.DefaultEdgeColor
}

func (r *Renderer) normalize(x, y float64) (float64, float64) {
	return 0.5 + (x-r.centerX)/r.extent, 0.5 + (y-r.centerY)/r.extent
}

func (r *Renderer) denormalize(x, y float64) (float64, float64) {
	return r.centerX + (x-0.5)*r.extent, r.centerY + (y-0.5)*r.extent
}

// Resize sets the viewport size in pixels. Non-positive sizes are ignored.
func (r *Renderer) Resize(width, height float64) {
	if width > 0 && height > 0 {
		r.width, r.height = width, height
	}
}

// Dimensions returns the viewport size in pixels. It makes the renderer a
// captor.Viewport.
func (r *Renderer) Dimensions() camera.Dimensions {
	return camera.Dimensions{Width: r.width, Height: r.height}
}

// PixelRatio returns the number of device pixels per viewport pixel.
func (r *Renderer) PixelRatio() float64 { return r.pixelRatio }

// Camera returns the renderer camera.
func (r *Renderer) Camera() *camera.Camera { return r.camera }

// Clock returns the clock driving animations. Captors bound to the
// renderer should use it.
func (r *Renderer) Clock() clock.Clock { return r.clock }

// Settings returns the normalized settings.
func (r *Renderer) Settings() Settings { return r.settings }

// sizeRatio scales entity sizes: they grow slower than the zoom.
func sizeRatio(cameraRatio float64) float64 {
	return 1 / math.Sqrt(cameraRatio)
}

// Render draws one frame. It ticks the camera animation, culls the graph
// against the viewport, uploads the visible entities and draws edges then
// nodes, then the label overlay.
func (r *Renderer) Render() error {
	if r.killed {
		return ErrKilled
	}
	if r.scheduler != nil {
		r.scheduler.Advance(time.Now())
	}
	r.camera.Tick()

	dims := r.Dimensions()
	state := r.camera.State()
	ratio := sizeRatio(state.Ratio)
	ppu := camera.PixelsPerUnit(state, dims)
	// Graph units per node size unit.
	k := ratio / ppu

	region := camera.VisibleRect(state, dims).Expand(r.settings.CullingMargin/ppu + r.maxSize*k)
	visible := r.index.QueryRectangle(region)
	r.sortByIndex(visible)

	r.batch(visible, region)

	r.uniforms = program.RenderParams{
		Matrix:       r.camera.Matrix(dims),
		Width:        r.width * r.pixelRatio,
		Height:       r.height * r.pixelRatio,
		Ratio:        ratio,
		ScalingRatio: r.pixelRatio,
	}

	err := r.draw()
	if err != nil {
		Logger().Warn("frame failed", "err", err)
	}

	r.buildFrame(state, dims, ratio)
	r.drawLabels()
	return err
}

func (r *Renderer) sortByIndex(ids []string) {
	slices.SortFunc(ids, func(a, b string) int {
		return r.nodes[a].index - r.nodes[b].index
	})
}

// batch groups the visible nodes by type, and the edges whose segment
// crosses region. An edge is kept even when both endpoints lie outside.
func (r *Renderer) batch(visible []string, region geom.Rect) {
	for typ := range r.nodeBatch {
		r.nodeBatch[typ] = r.nodeBatch[typ][:0]
	}
	for typ := range r.edgeBatch {
		r.edgeBatch[typ] = r.edgeBatch[typ][:0]
	}

	for _, id := range visible {
		d := r.nodes[id]
		r.nodeBatch[d.typ] = append(r.nodeBatch[d.typ], id)
	}
	for _, eid := range r.edgeIDs {
		e := r.edges[eid]
		src, tgt := r.nodes[e.source].data, r.nodes[e.target].data
		if e.data.Hidden || src.Hidden || tgt.Hidden {
			continue
		}
		if !region.IntersectsSegment(geom.Pt(src.X, src.Y), geom.Pt(tgt.X, tgt.Y)) {
			continue
		}
		r.edgeBatch[e.typ] = append(r.edgeBatch[e.typ], eid)
	}
}

// draw processes the batches into their programs and submits the frame.
func (r *Renderer) draw() error {
	for _, typ := range r.edgeTypes {
		p := r.edgePrograms[typ]
		ids := r.edgeBatch[typ]
		if p.Capacity() != len(ids) {
			p.Allocate(len(ids))
		}
		r.forEach(len(ids), func(i int) {
			e := r.edges[ids[i]]
			p.Process(r.nodes[e.source].data, r.nodes[e.target].data, e.data, i)
		})
	}
	for _, typ := range r.nodeTypes {
		p := r.nodePrograms[typ]
		ids := r.nodeBatch[typ]
		if p.Capacity() != len(ids) {
			p.Allocate(len(ids))
		}
		r.forEach(len(ids), func(i int) {
			p.Process(r.nodes[ids[i]].data, i)
		})
	}

	w := int(math.Ceil(r.width * r.pixelRatio))
	h := int(math.Ceil(r.height * r.pixelRatio))
	if err := r.ctx.BeginFrame(w, h); err != nil {
		return fmt.Errorf("ggraph: begin frame: %w", err)
	}
	var errs []error
	for _, typ := range r.edgeTypes {
		errs = append(errs, r.flush(r.edgePrograms[typ]))
	}
	for _, typ := range r.nodeTypes {
		errs = append(errs, r.flush(r.nodePrograms[typ]))
	}
	if err := r.ctx.EndFrame(); err != nil {
		errs = append(errs, fmt.Errorf("ggraph: end frame: %w", err))
	}
	return errors.Join(errs...)
}

// forEach calls fn for every index below n, on the worker pool when the
// batch is large enough.
func (r *Renderer) forEach(n int, fn func(i int)) {
	if r.pool == nil || n < parallelGrain {
		for i := range n {
			fn(i)
		}
		return
	}
	r.pool.For(n, parallelGrain/2, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			fn(i)
		}
	})
}

func (r *Renderer) closePool() {
	if r.pool != nil {
		r.pool.Close()
		r.pool = nil
	}
}

func (r *Renderer) flush(p program.Lifecycle) error {
	if p.Capacity() == 0 {
		return nil
	}
	if err := p.BufferData(); err != nil {
		return err
	}
	return p.Render(r.uniforms)
}

func (r *Renderer) buildFrame(state camera.State, dims camera.Dimensions, ratio float64) {
	m := camera.GraphToViewportMatrix(state, dims)
	f := &r.frame
	f.Width, f.Height = r.width, r.height
	f.Nodes = f.Nodes[:0]
	f.Edges = f.Edges[:0]
	f.Hovered = r.hovered

	for _, typ := range r.edgeTypes {
		for _, id := range r.edgeBatch[typ] {
			e := r.edges[id]
			src, tgt := r.nodes[e.source].data, r.nodes[e.target].data
			p1 := m.TransformPoint(geom.Pt(src.X, src.Y))
			p2 := m.TransformPoint(geom.Pt(tgt.X, tgt.Y))
			f.Edges = append(f.Edges, EdgeView{
				ID:     id,
				Source: e.source,
				Target: e.target,
				X1:     p1.X, Y1: p1.Y,
				X2: p2.X, Y2: p2.Y,
				Size:       e.data.Size * ratio,
				TargetSize: tgt.Size * ratio,
				Color:      e.data.Color,
				Arrow:      typ == EdgeTypeArrow,
			})
		}
	}
	for _, typ := range r.nodeTypes {
		for _, id := range r.nodeBatch[typ] {
			d := r.nodes[id]
			p := m.TransformPoint(geom.Pt(d.data.X, d.data.Y))
			f.Nodes = append(f.Nodes, NodeView{
				ID:    id,
				Label: d.label,
				X:     p.X,
				Y:     p.Y,
				Size:  d.data.Size * ratio,
				Color: d.data.Color,
			})
		}
	}
}

func (r *Renderer) labelStyle() LabelStyle {
	return LabelStyle{
		Font:   r.settings.LabelFont,
		Size:   r.settings.LabelSize,
		Weight: r.settings.LabelWeight,
		Color:  r.settings.LabelColor,
	}
}

func (r *Renderer) drawLabels() {
	if r.labels == nil {
		return
	}
	r.labels.Clear(r.width, r.height)
	style := r.labelStyle()
	var hovered *NodeView
	for i := range r.frame.Nodes {
		n := &r.frame.Nodes[i]
		if n.ID == r.hovered {
			hovered = n
		}
		if !r.settings.RenderLabels || n.Label == "" || n.Size < r.settings.LabelRenderedSizeThreshold {
			continue
		}
		r.labels.DrawLabel(labelData(n), style)
	}
	if hovered != nil {
		r.labels.DrawHover(labelData(hovered), style)
	}
}

func labelData(n *NodeView) LabelData {
	return LabelData{ID: n.ID, Label: n.Label, X: n.X, Y: n.Y, Size: n.Size, Color: n.Color}
}

// Visible returns what the last Render drew. The slices are reused by the
// next Render.
func (r *Renderer) Visible() Frame {
	return r.frame
}

// NodeAt returns the node under viewport point (x, y), nearest first,
// using the rendered node radius plus the picking tolerance.
func (r *Renderer) NodeAt(x, y float64) (string, bool) {
	if r.killed || r.index.Len() == 0 {
		return "", false
	}
	dims := r.Dimensions()
	state := r.camera.State()
	ppu := camera.PixelsPerUnit(state, dims)
	k := sizeRatio(state.Ratio) / ppu
	tol := r.settings.PickingTolerance / ppu

	p := camera.ViewportToGraph(state, dims, geom.Pt(x, y))
	for _, id := range r.index.QueryPoint(p.X, p.Y, r.maxSize*k+tol) {
		d := r.nodes[id].data
		if geom.Pt(d.X, d.Y).Distance(p) <= d.Size*k+tol {
			return id, true
		}
	}
	return "", false
}

// ViewportToGraph converts a viewport point into graph coordinates.
func (r *Renderer) ViewportToGraph(x, y float64) geom.Point {
	p := r.camera.ViewportToGraph(r.Dimensions(), x, y)
	gx, gy := r.denormalize(p.X, p.Y)
	return geom.Pt(gx, gy)
}

// GraphToViewport converts graph coordinates into a viewport point.
func (r *Renderer) GraphToViewport(x, y float64) geom.Point {
	nx, ny := r.normalize(x, y)
	return r.camera.GraphToViewport(r.Dimensions(), nx, ny)
}

// ResetCamera returns the camera to its default state, animated with the
// configured duration and easing when animated is true.
func (r *Renderer) ResetCamera(animated bool) {
	target := camera.Full(camera.DefaultState())
	if !animated || r.settings.AnimationDuration <= 0 {
		r.camera.StopAnimation()
		r.camera.SetState(target)
		return
	}
	r.camera.Animate(target, camera.AnimationOptions{
		Easing:   r.settings.Easing(),
		Duration: r.settings.AnimationDuration,
	}, nil)
}

// Kill unbinds the captor and releases every program. The rendering
// context is left to its owner.
func (r *Renderer) Kill() {
	if r.killed {
		return
	}
	r.UnbindCaptor()
	r.camera.StopAnimation()
	r.destroyPrograms()
	r.closePool()
	r.index = quadtree.New()
	r.killed = true
	Logger().Info("renderer killed")
}
