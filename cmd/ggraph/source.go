package main

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/ggraph"
	"github.com/gogpu/ggraph/graph"
)

// graphFlags describe the seeded random graph to render.
type graphFlags struct {
	nodes    int
	edges    int
	seed     uint64
	clusters int
	labels   bool
	arrows   bool
}

func (f *graphFlags) bind(cmd *cobra.Command, nodes, edges int) {
	fs := cmd.Flags()
	fs.IntVar(&f.nodes, "nodes", nodes, "node count")
	fs.IntVar(&f.edges, "edges", edges, "edge count")
	fs.Uint64Var(&f.seed, "seed", 1, "random seed")
	fs.IntVar(&f.clusters, "clusters", 5, "node clusters (0 for uniform)")
	fs.BoolVar(&f.labels, "labels", true, "label nodes")
	fs.BoolVar(&f.arrows, "arrows", false, "draw edges as arrows")
}

func (f *graphFlags) graph() *graph.Graph {
	opts := graph.RandomOptions{Clusters: f.clusters, Labels: f.labels}
	if f.arrows {
		opts.EdgeType = ggraph.EdgeTypeArrow
	}
	return graph.Random(f.nodes, f.edges, f.seed, opts)
}
