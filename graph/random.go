package graph

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/gogpu/ggraph"
)

// Palette is the node color cycle of generated graphs.
var Palette = []string{
	"#617db4", "#668f3c", "#c6583e", "#b956af", "#e5a13a", "#3db5a3",
}

// RandomOptions tune Random.
type RandomOptions struct {
	// Clusters groups nodes around this many centers. Zero scatters them
	// uniformly.
	Clusters int
	// Labels sets "Node <i>" labels.
	Labels bool
	// EdgeType is copied to every edge.
	EdgeType string
}

// Random returns a graph of n nodes and m edges laid out in [0, 1000)²,
// reproducible for a given seed. Node sizes are 2 to 10, colors come from
// Palette. Edges never loop.
func Random(n, m int, seed uint64, opts RandomOptions) *Graph {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	g := New()
	if n <= 0 {
		return g
	}

	type center struct{ x, y float64 }
	centers := make([]center, max(opts.Clusters, 0))
	for i := range centers {
		centers[i] = center{rng.Float64() * 1000, rng.Float64() * 1000}
	}

	for i := range n {
		a := ggraph.NodeAttributes{
			Size:  2 + rng.Float64()*8,
			Color: Palette[i%len(Palette)],
		}
		if len(centers) > 0 {
			c := centers[i%len(centers)]
			// Box-Muller around the cluster center.
			r := 80 * math.Sqrt(-2*math.Log(1-rng.Float64()))
			theta := 2 * math.Pi * rng.Float64()
			a.X, a.Y = c.x+r*math.Cos(theta), c.y+r*math.Sin(theta)
			a.Color = Palette[(i%len(centers))%len(Palette)]
		} else {
			a.X, a.Y = rng.Float64()*1000, rng.Float64()*1000
		}
		if opts.Labels {
			a.Label = fmt.Sprintf("Node %d", i)
		}
		// Ids are unique by construction.
		_ = g.AddNode(fmt.Sprintf("n%d", i), a)
	}

	if n < 2 {
		return g
	}
	for i := range m {
		s := rng.IntN(n)
		t := rng.IntN(n - 1)
		if t >= s {
			t++
		}
		_ = g.AddEdge(fmt.Sprintf("e%d", i), ggraph.EdgeAttributes{
			Source: g.nodeIDs[s],
			Target: g.nodeIDs[t],
			Size:   1,
			Type:   opts.EdgeType,
		})
	}
	return g
}
