// Package graph is an in-memory implementation of the ggraph.Graph data
// source, plus a seeded random graph generator used by the CLI and tests.
//
// Nodes and edges enumerate in insertion order.
package graph
