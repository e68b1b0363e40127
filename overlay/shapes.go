package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic control points approximating a quarter circle.
const kappa = 0.5522847498

// pen fills paths into a destination image, reusing one rasterizer.
type pen struct {
	z   *vector.Rasterizer
	dst draw.Image
}

func newPen(dst draw.Image) *pen {
	b := dst.Bounds()
	return &pen{z: vector.NewRasterizer(b.Dx(), b.Dy()), dst: dst}
}

// begin resets the rasterizer. Coordinates are in dst space.
func (p *pen) begin() *vector.Rasterizer {
	b := p.dst.Bounds()
	p.z.Reset(b.Dx(), b.Dy())
	return p.z
}

func (p *pen) fill(c color.Color) {
	b := p.dst.Bounds()
	p.z.Draw(p.dst, b, image.NewUniform(c), image.Point{})
}

func (p *pen) pt(x, y float64) (float32, float32) {
	b := p.dst.Bounds()
	return float32(x - float64(b.Min.X)), float32(y - float64(b.Min.Y))
}

func (p *pen) moveTo(x, y float64) { p.z.MoveTo(p.pt(x, y)) }
func (p *pen) lineTo(x, y float64) { p.z.LineTo(p.pt(x, y)) }

func (p *pen) quadTo(bx, by, cx, cy float64) {
	x1, y1 := p.pt(bx, by)
	x2, y2 := p.pt(cx, cy)
	p.z.QuadTo(x1, y1, x2, y2)
}

func (p *pen) cubeTo(bx, by, cx, cy, dx, dy float64) {
	x1, y1 := p.pt(bx, by)
	x2, y2 := p.pt(cx, cy)
	x3, y3 := p.pt(dx, dy)
	p.z.CubeTo(x1, y1, x2, y2, x3, y3)
}

// disc fills a circle.
func (p *pen) disc(cx, cy, r float64, c color.Color) {
	if !(r > 0) {
		return
	}
	k := r * kappa
	p.begin()
	p.moveTo(cx+r, cy)
	p.cubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	p.cubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	p.cubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	p.cubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	p.z.ClosePath()
	p.fill(c)
}

// segment fills a line of the given width between two points.
func (p *pen) segment(x1, y1, x2, y2, width float64, c color.Color) {
	dx, dy := x2-x1, y2-y1
	l := math.Hypot(dx, dy)
	if l == 0 || !(width > 0) {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	p.begin()
	p.moveTo(x1+nx, y1+ny)
	p.lineTo(x2+nx, y2+ny)
	p.lineTo(x2-nx, y2-ny)
	p.lineTo(x1-nx, y1-ny)
	p.z.ClosePath()
	p.fill(c)
}

// triangle fills a triangle.
func (p *pen) triangle(x1, y1, x2, y2, x3, y3 float64, c color.Color) {
	p.begin()
	p.moveTo(x1, y1)
	p.lineTo(x2, y2)
	p.lineTo(x3, y3)
	p.z.ClosePath()
	p.fill(c)
}

// tab traces a box whose left corners are rounded with radius e.
func (p *pen) tab(x, y, w, h, e float64) {
	p.begin()
	p.moveTo(x, y+e)
	p.quadTo(x, y, x+e, y)
	p.lineTo(x+w, y)
	p.lineTo(x+w, y+h)
	p.lineTo(x+e, y+h)
	p.quadTo(x, y+h, x, y+h-e)
	p.z.ClosePath()
}
