package overlay

import (
	"image"
	"image/draw"
	"math"

	"github.com/gogpu/ggraph"
	"github.com/gogpu/ggraph/program"
)

// DrawFrame paints a rendered frame onto dst: background, edges with their
// arrowheads, then node discs.
func DrawFrame(dst *image.RGBA, f ggraph.Frame, background string) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(parse(background)), image.Point{}, draw.Src)
	p := newPen(dst)

	for _, e := range f.Edges {
		c := parse(e.Color)
		width := math.Max(e.Size, 1)
		if !e.Arrow {
			p.segment(e.X1, e.Y1, e.X2, e.Y2, width, c)
			continue
		}
		dx, dy := e.X2-e.X1, e.Y2-e.Y1
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		ux, uy := dx/l, dy/l
		head := program.ArrowHeadLength(width)
		// Tip on the target disc border, base one head length behind.
		tx, ty := e.X2-ux*e.TargetSize, e.Y2-uy*e.TargetSize
		bx, by := tx-ux*head, ty-uy*head
		p.segment(e.X1, e.Y1, bx, by, width, c)
		half := head * 0.66 / 2
		p.triangle(tx, ty, bx-uy*half, by+ux*half, bx+uy*half, by-ux*half, c)
	}
	for _, n := range f.Nodes {
		p.disc(n.X, n.Y, n.Size, parse(n.Color))
	}
}

// Compose renders f into a new image and draws the label layer over it.
// A nil layer draws the graph alone.
func Compose(f ggraph.Frame, background string, labels *Layer) *image.RGBA {
	w := max(int(math.Ceil(f.Width)), 1)
	h := max(int(math.Ceil(f.Height)), 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	DrawFrame(dst, f, background)
	if labels != nil {
		draw.Draw(dst, dst.Bounds(), labels.Image(), image.Point{}, draw.Over)
	}
	return dst
}
