package filter

import (
	"image"
	"image/color"
)

// DropShadow draws a blurred, offset, colorized copy of a mask.
type DropShadow struct {
	OffsetX, OffsetY int
	// Blur is the Gaussian sigma in pixels.
	Blur  float64
	Color color.NRGBA
}

// Bounds returns the destination area touched when shadowing a mask with
// the given bounds.
func (f DropShadow) Bounds(mask image.Rectangle) image.Rectangle {
	e := KernelExtent(f.Blur)
	return mask.Add(image.Pt(f.OffsetX, f.OffsetY)).Inset(-e)
}

// Draw composites the shadow of mask onto dst. The mask is in dst
// coordinates; it is typically the shape about to be drawn on top.
func (f DropShadow) Draw(dst *image.RGBA, mask *image.Alpha) {
	if dst == nil || mask == nil || f.Color.A == 0 {
		return
	}
	area := f.Bounds(mask.Rect).Intersect(dst.Rect)
	if area.Empty() {
		return
	}
	w, h := area.Dx(), area.Dy()

	alpha := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := image.Pt(area.Min.X+x-f.OffsetX, area.Min.Y+y-f.OffsetY)
			if p.In(mask.Rect) {
				alpha[y*w+x] = float32(mask.AlphaAt(p.X, p.Y).A) / 255
			}
		}
	}
	if f.Blur > 0 {
		blur(alpha, w, h, CachedGaussianKernel(f.Blur))
	}
	composite(dst, area, alpha, f.Color)
}

// blur applies a separable convolution in place, extending edges.
func blur(buf []float32, w, h int, kernel []float32) {
	half := len(kernel) / 2
	tmp := make([]float32, len(buf))

	for y := 0; y < h; y++ {
		row := buf[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			var sum float32
			for k, kv := range kernel {
				sum += row[clampInt(x+k-half, 0, w-1)] * kv
			}
			tmp[y*w+x] = sum
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float32
			for k, kv := range kernel {
				sum += tmp[clampInt(y+k-half, 0, h-1)*w+x] * kv
			}
			buf[y*w+x] = sum
		}
	}
}

// composite blends c, scaled by the per-pixel coverage, over dst.
func composite(dst *image.RGBA, area image.Rectangle, alpha []float32, c color.NRGBA) {
	w := area.Dx()
	base := float32(c.A) / 255
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			a := alpha[(y-area.Min.Y)*w+x-area.Min.X] * base
			if a <= 0 {
				continue
			}
			i := dst.PixOffset(x, y)
			px := dst.Pix[i : i+4 : i+4]
			inv := 1 - a
			px[0] = clampUint8(float32(c.R)*a + float32(px[0])*inv)
			px[1] = clampUint8(float32(c.G)*a + float32(px[1])*inv)
			px[2] = clampUint8(float32(c.B)*a + float32(px[2])*inv)
			px[3] = clampUint8(255*a + float32(px[3])*inv)
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampUint8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
