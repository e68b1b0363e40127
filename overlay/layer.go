package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/ggraph"
	icolor "github.com/gogpu/ggraph/internal/color"
	"github.com/gogpu/ggraph/internal/filter"
)

// Layer is a transparent label layer. It implements ggraph.LabelDrawer.
type Layer struct {
	img    *image.RGBA
	faces  *Faces
	shadow filter.DropShadow
	mask   *image.Alpha
	err    error
}

var _ ggraph.LabelDrawer = (*Layer)(nil)

// Option configures a Layer.
type Option func(*Layer)

// WithFaces shares a face resolver between layers.
func WithFaces(f *Faces) Option {
	return func(l *Layer) {
		if f != nil {
			l.faces = f
		}
	}
}

// WithShadow replaces the hover box shadow.
func WithShadow(s filter.DropShadow) Option {
	return func(l *Layer) {
		l.shadow = s
	}
}

// NewLayer creates an empty layer of the given size in pixels.
func NewLayer(width, height int, opts ...Option) *Layer {
	l := &Layer{
		img:   image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1))),
		faces: NewFaces(),
		// A canvas shadowBlur of 8 is a Gaussian of sigma 4.
		shadow: filter.DropShadow{Blur: 4, Color: color.NRGBA{A: 255}},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Image returns the layer pixels. The image is replaced when Clear
// changes the size.
func (l *Layer) Image() *image.RGBA { return l.img }

// Err returns the last font error, if any. Labels that failed to resolve
// a face are skipped.
func (l *Layer) Err() error { return l.err }

// Clear implements ggraph.LabelDrawer.
func (l *Layer) Clear(width, height float64) {
	w, h := max(int(math.Ceil(width)), 1), max(int(math.Ceil(height)), 1)
	if l.img.Rect.Dx() != w || l.img.Rect.Dy() != h {
		l.img = image.NewRGBA(image.Rect(0, 0, w, h))
		return
	}
	clear(l.img.Pix)
}

// DrawLabel implements ggraph.LabelDrawer. The text starts 3 pixels right
// of the node disc, vertically centered on the node.
func (l *Layer) DrawLabel(n ggraph.LabelData, s ggraph.LabelStyle) {
	l.label(l.img, n, s, s.Color)
}

func (l *Layer) label(dst draw.Image, n ggraph.LabelData, s ggraph.LabelStyle, c string) {
	if n.Label == "" {
		return
	}
	face, err := l.faces.Face(s.Font, s.Weight, s.Size)
	if err != nil {
		l.err = err
		return
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(parse(c)),
		Face: face,
		Dot:  fixed.P(int(math.Round(n.X+n.Size+3)), int(math.Round(n.Y+s.Size/3))),
	}
	d.DrawString(n.Label)
}

// DrawHover implements ggraph.LabelDrawer: a white tab with a soft shadow
// behind the node and its label, the label in black.
func (l *Layer) DrawHover(n ggraph.LabelData, s ggraph.LabelStyle) {
	textWidth := 0.0
	if n.Label != "" {
		face, err := l.faces.Face(s.Font, s.Weight, s.Size)
		if err != nil {
			l.err = err
		} else {
			textWidth = float64(font.MeasureString(face, n.Label)) / 64
		}
	}

	x := math.Round(n.X - s.Size/2 - 2)
	y := math.Round(n.Y - s.Size/2 - 2)
	w := math.Round(textWidth + s.Size/2 + n.Size + 9)
	h := math.Round(s.Size + 4)
	e := math.Round(s.Size/2 + 2)

	if l.mask == nil || l.mask.Rect != l.img.Rect {
		l.mask = image.NewAlpha(l.img.Rect)
	} else {
		clear(l.mask.Pix)
	}
	mp := newPen(l.mask)
	mp.tab(x, y, w, h, e)
	mp.fill(color.Opaque)
	l.shadow.Draw(l.img, l.mask)

	p := newPen(l.img)
	p.tab(x, y, w, h, e)
	p.fill(color.White)
	p.disc(n.X, n.Y, n.Size, parse(n.Color))
	l.label(l.img, n, s, "#000")
}

// parse resolves a CSS color, falling back to opaque black.
func parse(s string) color.NRGBA {
	c, err := icolor.Parse(s)
	if err != nil {
		return icolor.Black.NRGBA()
	}
	return c.NRGBA()
}
