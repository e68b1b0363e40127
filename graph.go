package ggraph

// NodeAttributes are the display attributes of a node. Zero Size, empty
// Color and empty Type fall back to the renderer settings.
type NodeAttributes struct {
	X, Y   float64
	Size   float64
	Color  string
	Label  string
	Hidden bool
	Type   string
}

// EdgeAttributes are the display attributes of an edge.
type EdgeAttributes struct {
	Source, Target string
	Size           float64
	Color          string
	Hidden         bool
	Type           string
}

// Graph is the data source of a Renderer. Enumeration order must be stable
// between calls that are not separated by a mutation.
type Graph interface {
	// ForEachNode calls fn for every node until fn returns false.
	ForEachNode(fn func(id string, attrs NodeAttributes) bool)
	// ForEachEdge calls fn for every edge until fn returns false.
	ForEachEdge(fn func(id string, attrs EdgeAttributes) bool)

	Node(id string) (NodeAttributes, bool)
	Edge(id string) (EdgeAttributes, bool)

	// Order is the number of nodes, Size the number of edges.
	Order() int
	Size() int
}

// LabelData is a node as drawn on screen: viewport pixels and rendered
// radius.
type LabelData struct {
	ID    string
	Label string
	X, Y  float64
	Size  float64
	Color string
}

// LabelStyle is the text style of labels and hover boxes.
type LabelStyle struct {
	Font   string
	Size   float64
	Weight string
	Color  string
}

// LabelDrawer draws the 2D overlay above the GPU layer.
type LabelDrawer interface {
	// Clear starts a new overlay frame of the given viewport size.
	Clear(width, height float64)
	DrawLabel(node LabelData, style LabelStyle)
	// DrawHover highlights the hovered node. It is called after every
	// label so the highlight stays on top.
	DrawHover(node LabelData, style LabelStyle)
}

// NodeView is a node drawn in the last frame, in viewport pixels.
type NodeView struct {
	ID    string
	Label string
	X, Y  float64
	// Size is the rendered radius in pixels.
	Size  float64
	Color string
}

// EdgeView is an edge drawn in the last frame, in viewport pixels.
type EdgeView struct {
	ID             string
	Source, Target string
	X1, Y1, X2, Y2 float64
	// Size is the rendered thickness in pixels.
	Size float64
	// TargetSize is the rendered radius of the target node.
	TargetSize float64
	Color      string
	Arrow      bool
}

// Frame is what the last Render call drew, edges first.
type Frame struct {
	Width, Height float64
	Nodes         []NodeView
	Edges         []EdgeView
	// Hovered is the id of the hovered node, if any.
	Hovered string
}
