package graph

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/ggraph"
)

func newPath(t *testing.T, ids ...string) *Graph {
	t.Helper()
	g := New()
	for i, id := range ids {
		if err := g.AddNode(id, ggraph.NodeAttributes{X: float64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	for i := 1; i < len(ids); i++ {
		err := g.AddEdge(ids[i-1]+ids[i], ggraph.EdgeAttributes{Source: ids[i-1], Target: ids[i]})
		if err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func nodeIDs(g *Graph) []string {
	var out []string
	g.ForEachNode(func(id string, _ ggraph.NodeAttributes) bool {
		out = append(out, id)
		return true
	})
	return out
}

func edgeIDs(g *Graph) []string {
	var out []string
	g.ForEachEdge(func(id string, _ ggraph.EdgeAttributes) bool {
		out = append(out, id)
		return true
	})
	return out
}

func TestAddErrors(t *testing.T) {
	g := newPath(t, "a", "b")
	if err := g.AddNode("a", ggraph.NodeAttributes{}); !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("AddNode duplicate = %v", err)
	}
	if err := g.AddEdge("ab", ggraph.EdgeAttributes{Source: "a", Target: "b"}); !errors.Is(err, ErrDuplicateEdge) {
		t.Errorf("AddEdge duplicate = %v", err)
	}
	if err := g.AddEdge("ax", ggraph.EdgeAttributes{Source: "a", Target: "x"}); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("AddEdge unknown target = %v", err)
	}
}

func TestEnumerationOrder(t *testing.T) {
	g := newPath(t, "c", "a", "b")
	if got := nodeIDs(g); !slices.Equal(got, []string{"c", "a", "b"}) {
		t.Errorf("nodes = %v", got)
	}
	if got := edgeIDs(g); !slices.Equal(got, []string{"ca", "ab"}) {
		t.Errorf("edges = %v", got)
	}
	if g.Order() != 3 || g.Size() != 2 {
		t.Errorf("Order, Size = %d, %d", g.Order(), g.Size())
	}

	n := 0
	g.ForEachNode(func(string, ggraph.NodeAttributes) bool {
		n++
		return false
	})
	if n != 1 {
		t.Errorf("ForEachNode did not stop, %d calls", n)
	}
}

func TestDropNode(t *testing.T) {
	g := newPath(t, "a", "b", "c", "d")
	if err := g.DropNode("b"); err != nil {
		t.Fatal(err)
	}
	if got := nodeIDs(g); !slices.Equal(got, []string{"a", "c", "d"}) {
		t.Errorf("nodes = %v", got)
	}
	if got := edgeIDs(g); !slices.Equal(got, []string{"cd"}) {
		t.Errorf("edges = %v", got)
	}
	if a, ok := g.Node("d"); !ok || a.X != 3 {
		t.Errorf("Node(d) = %+v, %v", a, ok)
	}
	if _, ok := g.Edge("ab"); ok {
		t.Error("edge ab survived")
	}
	if err := g.DropNode("b"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("second DropNode = %v", err)
	}
}

func TestDropEdge(t *testing.T) {
	g := newPath(t, "a", "b", "c")
	if err := g.DropEdge("ab"); err != nil {
		t.Fatal(err)
	}
	if a, ok := g.Edge("bc"); !ok || a.Source != "b" {
		t.Errorf("Edge(bc) = %+v, %v", a, ok)
	}
	if err := g.DropEdge("ab"); !errors.Is(err, ErrEdgeNotFound) {
		t.Errorf("second DropEdge = %v", err)
	}
}

func TestUpdate(t *testing.T) {
	g := newPath(t, "a", "b")
	if err := g.UpdateNode("a", func(a *ggraph.NodeAttributes) { a.Color = "#f00" }); err != nil {
		t.Fatal(err)
	}
	if a, _ := g.Node("a"); a.Color != "#f00" {
		t.Errorf("color = %q", a.Color)
	}
	err := g.UpdateEdge("ab", func(a *ggraph.EdgeAttributes) {
		a.Size = 4
		a.Source = "b"
	})
	if err != nil {
		t.Fatal(err)
	}
	if a, _ := g.Edge("ab"); a.Size != 4 || a.Source != "a" {
		t.Errorf("edge = %+v, want size 4 and unchanged source", a)
	}
	if err := g.UpdateNode("x", func(*ggraph.NodeAttributes) {}); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("UpdateNode unknown = %v", err)
	}
}

func TestNeighbors(t *testing.T) {
	g := newPath(t, "a", "b", "c")
	if err := g.AddEdge("ba", ggraph.EdgeAttributes{Source: "b", Target: "a"}); err != nil {
		t.Fatal(err)
	}
	if got := g.Neighbors("b"); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("Neighbors(b) = %v", got)
	}
}

func TestRandom(t *testing.T) {
	tests := []struct {
		name string
		opts RandomOptions
	}{
		{"uniform", RandomOptions{}},
		{"clustered", RandomOptions{Clusters: 3, Labels: true, EdgeType: "arrow"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Random(200, 500, 42, tt.opts)
			if g.Order() != 200 || g.Size() != 500 {
				t.Fatalf("Order, Size = %d, %d", g.Order(), g.Size())
			}
			g.ForEachEdge(func(id string, a ggraph.EdgeAttributes) bool {
				if a.Source == a.Target {
					t.Errorf("edge %s loops", id)
				}
				if a.Type != tt.opts.EdgeType {
					t.Errorf("edge %s type %q", id, a.Type)
				}
				return true
			})
			g.ForEachNode(func(id string, a ggraph.NodeAttributes) bool {
				if a.Size < 2 || a.Size > 10 {
					t.Errorf("node %s size %v", id, a.Size)
				}
				if (a.Label != "") != tt.opts.Labels {
					t.Errorf("node %s label %q", id, a.Label)
				}
				return true
			})

			again := Random(200, 500, 42, tt.opts)
			a, _ := g.Node("n17")
			b, _ := again.Node("n17")
			if a != b {
				t.Errorf("same seed differs: %+v vs %+v", a, b)
			}
		})
	}
}

func TestRandomDegenerate(t *testing.T) {
	if g := Random(0, 10, 1, RandomOptions{}); g.Order() != 0 || g.Size() != 0 {
		t.Errorf("empty graph has %d nodes %d edges", g.Order(), g.Size())
	}
	if g := Random(1, 10, 1, RandomOptions{}); g.Order() != 1 || g.Size() != 0 {
		t.Errorf("single node graph has %d nodes %d edges", g.Order(), g.Size())
	}
}
