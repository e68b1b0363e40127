// Package filter provides the Gaussian blur and drop shadow used by the
// overlay to lift hover boxes off the graph.
//
// Filters work on image.Alpha masks and composite into image.RGBA
// destinations, in straight (non-premultiplied) source-over.
package filter
