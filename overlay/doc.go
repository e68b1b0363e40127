// Package overlay draws the 2D layer of a graph view on image.RGBA: node
// labels, the hover highlight and, for surfaces without GPU readback, the
// whole frame (edges, arrowheads and node discs).
//
// Shapes are rasterized with golang.org/x/image/vector and text with the
// bundled Go fonts.
package overlay
