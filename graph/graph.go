package graph

import (
	"errors"
	"fmt"

	"github.com/gogpu/ggraph"
)

// Sentinel errors.
var (
	ErrDuplicateNode = errors.New("graph: duplicate node")
	ErrDuplicateEdge = errors.New("graph: duplicate edge")
	ErrNodeNotFound  = errors.New("graph: node not found")
	ErrEdgeNotFound  = errors.New("graph: edge not found")
)

// Graph is a mutable directed multigraph keyed by string ids.
type Graph struct {
	nodes     map[string]int
	nodeIDs   []string
	nodeAttrs []ggraph.NodeAttributes

	edges     map[string]int
	edgeIDs   []string
	edgeAttrs []ggraph.EdgeAttributes
}

var _ ggraph.Graph = (*Graph)(nil)

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]int),
		edges: make(map[string]int),
	}
}

// AddNode adds a node.
func (g *Graph) AddNode(id string, attrs ggraph.NodeAttributes) error {
	if _, ok := g.nodes[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, id)
	}
	g.nodes[id] = len(g.nodeIDs)
	g.nodeIDs = append(g.nodeIDs, id)
	g.nodeAttrs = append(g.nodeAttrs, attrs)
	return nil
}

// AddEdge adds an edge between two existing nodes.
func (g *Graph) AddEdge(id string, attrs ggraph.EdgeAttributes) error {
	if _, ok := g.edges[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateEdge, id)
	}
	for _, n := range []string{attrs.Source, attrs.Target} {
		if _, ok := g.nodes[n]; !ok {
			return fmt.Errorf("edge %q: %w: %q", id, ErrNodeNotFound, n)
		}
	}
	g.edges[id] = len(g.edgeIDs)
	g.edgeIDs = append(g.edgeIDs, id)
	g.edgeAttrs = append(g.edgeAttrs, attrs)
	return nil
}

// UpdateNode replaces the attributes of a node through fn.
func (g *Graph) UpdateNode(id string, fn func(*ggraph.NodeAttributes)) error {
	i, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	fn(&g.nodeAttrs[i])
	return nil
}

// UpdateEdge replaces the attributes of an edge through fn. Endpoints
// cannot be changed.
func (g *Graph) UpdateEdge(id string, fn func(*ggraph.EdgeAttributes)) error {
	i, ok := g.edges[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrEdgeNotFound, id)
	}
	a := g.edgeAttrs[i]
	fn(&g.edgeAttrs[i])
	g.edgeAttrs[i].Source, g.edgeAttrs[i].Target = a.Source, a.Target
	return nil
}

// DropNode removes a node and every edge touching it.
func (g *Graph) DropNode(id string) error {
	i, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	for j := len(g.edgeIDs) - 1; j >= 0; j-- {
		if a := g.edgeAttrs[j]; a.Source == id || a.Target == id {
			g.dropEdgeAt(j)
		}
	}
	g.nodeIDs = append(g.nodeIDs[:i], g.nodeIDs[i+1:]...)
	g.nodeAttrs = append(g.nodeAttrs[:i], g.nodeAttrs[i+1:]...)
	delete(g.nodes, id)
	for k := i; k < len(g.nodeIDs); k++ {
		g.nodes[g.nodeIDs[k]] = k
	}
	return nil
}

// DropEdge removes an edge.
func (g *Graph) DropEdge(id string) error {
	i, ok := g.edges[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrEdgeNotFound, id)
	}
	g.dropEdgeAt(i)
	return nil
}

func (g *Graph) dropEdgeAt(i int) {
	delete(g.edges, g.edgeIDs[i])
	g.edgeIDs = append(g.edgeIDs[:i], g.edgeIDs[i+1:]...)
	g.edgeAttrs = append(g.edgeAttrs[:i], g.edgeAttrs[i+1:]...)
	for k := i; k < len(g.edgeIDs); k++ {
		g.edges[g.edgeIDs[k]] = k
	}
}

// ForEachNode implements ggraph.Graph.
func (g *Graph) ForEachNode(fn func(id string, attrs ggraph.NodeAttributes) bool) {
	for i, id := range g.nodeIDs {
		if !fn(id, g.nodeAttrs[i]) {
			return
		}
	}
}

// ForEachEdge implements ggraph.Graph.
func (g *Graph) ForEachEdge(fn func(id string, attrs ggraph.EdgeAttributes) bool) {
	for i, id := range g.edgeIDs {
		if !fn(id, g.edgeAttrs[i]) {
			return
		}
	}
}

// Node implements ggraph.Graph.
func (g *Graph) Node(id string) (ggraph.NodeAttributes, bool) {
	i, ok := g.nodes[id]
	if !ok {
		return ggraph.NodeAttributes{}, false
	}
	return g.nodeAttrs[i], true
}

// Edge implements ggraph.Graph.
func (g *Graph) Edge(id string) (ggraph.EdgeAttributes, bool) {
	i, ok := g.edges[id]
	if !ok {
		return ggraph.EdgeAttributes{}, false
	}
	return g.edgeAttrs[i], true
}

// Order implements ggraph.Graph.
func (g *Graph) Order() int { return len(g.nodeIDs) }

// Size implements ggraph.Graph.
func (g *Graph) Size() int { return len(g.edgeIDs) }

// Neighbors returns the ids of the nodes sharing an edge with id, in edge
// order, without duplicates.
func (g *Graph) Neighbors(id string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range g.edgeAttrs {
		var other string
		switch id {
		case a.Source:
			other = a.Target
		case a.Target:
			other = a.Source
		default:
			continue
		}
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		out = append(out, other)
	}
	return out
}
