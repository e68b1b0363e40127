// Package geom provides the small amount of 2D geometry shared by the
// camera, the spatial index and the GPU programs: an affine transformation
// matrix, points and axis-aligned rectangles.
//
// # Coordinate System
//
// Viewport coordinates follow screen conventions (origin top-left, Y down).
// Graph coordinates are independent of zoom and pan. Clip space is the
// GPU's normalized [-1, 1] square with Y up. The camera package owns the
// mappings between the three.
package geom
