// Package quadtree implements the spatial index used for viewport culling
// and pointer hit-testing.
//
// The tree is rebuilt wholesale whenever node positions change; there is
// no incremental removal. Queries are read-only and never fail: an empty
// or unbuilt tree simply returns no ids.
package quadtree

import (
	"math"
	"sort"

	"github.com/gogpu/ggraph/geom"
)

// Default tuning values.
const (
	DefaultCapacity = 8
	DefaultMaxDepth = 8
)

// Entry is an indexed point with a bounding radius.
type Entry struct {
	ID     string
	X, Y   float64
	Radius float64
}

func (e Entry) point() geom.Point { return geom.Pt(e.X, e.Y) }

// Quadrant indices of a node's children.
const (
	NW = iota
	NE
	SW
	SE
)

// node is a rectangular region holding either entries (leaf) or four
// children that quarter-partition it.
type node struct {
	bounds    geom.Rect
	depth     int
	entries   []Entry
	children  *[4]node
	maxRadius float64 // largest entry radius in this subtree
}

func (n *node) isLeaf() bool { return n.children == nil }

// QuadTree is a bucketed point quadtree.
type QuadTree struct {
	root     *node
	capacity int
	maxDepth int
	size     int
}

// Option configures a QuadTree.
type Option func(*QuadTree)

// WithCapacity sets how many entries a node holds before subdividing.
func WithCapacity(n int) Option {
	return func(q *QuadTree) {
		if n > 0 {
			q.capacity = n
		}
	}
}

// WithMaxDepth bounds the depth of the tree. Nodes at this depth keep
// accepting entries past capacity instead of subdividing.
func WithMaxDepth(d int) Option {
	return func(q *QuadTree) {
		if d >= 0 {
			q.maxDepth = d
		}
	}
}

// New creates an empty tree.
func New(opts ...Option) *QuadTree {
	q := &QuadTree{
		capacity: DefaultCapacity,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Build replaces the tree content with entries. The region is grown to
// cover every entry so that each entry lies inside its containing node.
func (q *QuadTree) Build(entries []Entry, region geom.Rect) {
	q.root = nil
	q.size = 0
	if len(entries) == 0 {
		return
	}

	bounds := region
	for _, e := range entries {
		if math.IsNaN(e.X) || math.IsNaN(e.Y) {
			continue
		}
		bounds = bounds.Include(e.point())
	}
	// A degenerate region cannot be subdivided meaningfully.
	if bounds.Width() == 0 || bounds.Height() == 0 {
		bounds = bounds.Expand(0.5)
	}

	q.root = &node{bounds: bounds}
	for _, e := range entries {
		if math.IsNaN(e.X) || math.IsNaN(e.Y) {
			continue
		}
		q.insert(q.root, e)
		q.size++
	}
}

// Len returns the number of indexed entries.
func (q *QuadTree) Len() int {
	return q.size
}

// Bounds returns the region covered by the root node.
func (q *QuadTree) Bounds() geom.Rect {
	if q.root == nil {
		return geom.Rect{}
	}
	return q.root.bounds
}

// Depth returns the depth of the deepest node (0 for a single leaf).
func (q *QuadTree) Depth() int {
	if q.root == nil {
		return 0
	}
	return depthOf(q.root)
}

func depthOf(n *node) int {
	if n.isLeaf() {
		return n.depth
	}
	d := n.depth
	for i := range n.children {
		d = max(d, depthOf(&n.children[i]))
	}
	return d
}

func (q *QuadTree) insert(n *node, e Entry) {
	for {
		n.maxRadius = math.Max(n.maxRadius, e.Radius)
		if !n.isLeaf() {
			n = &n.children[quadrantOf(n.bounds, e.point())]
			continue
		}
		n.entries = append(n.entries, e)
		if len(n.entries) > q.capacity && n.depth < q.maxDepth {
			q.split(n)
		}
		return
	}
}

// split turns a leaf into an inner node and redistributes its entries.
func (q *QuadTree) split(n *node) {
	quads := n.bounds.Quadrants()
	n.children = &[4]node{}
	for i := range quads {
		n.children[i] = node{bounds: quads[i], depth: n.depth + 1}
	}
	entries := n.entries
	n.entries = nil
	for _, e := range entries {
		// maxRadius of n already accounts for e.
		q.insert(&n.children[quadrantOf(n.bounds, e.point())], e)
	}
}

// quadrantOf returns the child index for p. Points on a split line go to
// the east and south quadrants.
func quadrantOf(r geom.Rect, p geom.Point) int {
	c := r.Center()
	east := p.X >= c.X
	south := p.Y >= c.Y
	switch {
	case !east && !south:
		return NW
	case east && !south:
		return NE
	case !east && south:
		return SW
	default:
		return SE
	}
}

// QueryRectangle returns the ids of the entries whose point lies inside
// region (edges included).
func (q *QuadTree) QueryRectangle(region geom.Rect) []string {
	if q.root == nil {
		return nil
	}
	var out []string
	var visit func(n *node)
	visit = func(n *node) {
		if !n.bounds.Intersects(region) {
			return
		}
		if n.isLeaf() {
			for _, e := range n.entries {
				if region.Contains(e.point()) {
					out = append(out, e.ID)
				}
			}
			return
		}
		for i := range n.children {
			visit(&n.children[i])
		}
	}
	visit(q.root)
	return out
}

// QueryPoint returns the ids of the entries whose disc overlaps the disc of
// the given radius centered at (x, y), nearest first. Ties on distance are
// broken by id.
func (q *QuadTree) QueryPoint(x, y, radius float64) []string {
	if q.root == nil {
		return nil
	}
	p := geom.Pt(x, y)
	radius = math.Max(0, radius)

	type hit struct {
		id   string
		dist float64
	}
	var hits []hit
	var visit func(n *node)
	visit = func(n *node) {
		// Entries may stick out of their node by up to maxRadius.
		if !n.bounds.Expand(n.maxRadius).IntersectsDisc(p, radius) {
			return
		}
		if n.isLeaf() {
			for _, e := range n.entries {
				d := e.point().Distance(p)
				if d <= e.Radius+radius {
					hits = append(hits, hit{id: e.ID, dist: d})
				}
			}
			return
		}
		for i := range n.children {
			visit(&n.children[i])
		}
	}
	visit(q.root)

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].id < hits[j].id
	})
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.id
	}
	return out
}
