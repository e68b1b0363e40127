package filter

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestGaussianKernel(t *testing.T) {
	tests := []struct {
		radius float64
		size   int
	}{
		{0, 1},
		{-1, 1},
		{1, 7},
		{2.5, 17},
	}
	for _, tt := range tests {
		k := GaussianKernel(tt.radius)
		if len(k) != tt.size {
			t.Errorf("GaussianKernel(%v) has %d taps, want %d", tt.radius, len(k), tt.size)
			continue
		}
		var sum float64
		for i, v := range k {
			sum += float64(v)
			if mirror := k[len(k)-1-i]; v != mirror {
				t.Errorf("radius %v: tap %d = %v, mirror %v", tt.radius, i, v, mirror)
			}
		}
		if math.Abs(sum-1) > 1e-5 {
			t.Errorf("radius %v: sum = %v", tt.radius, sum)
		}
		if len(k) > 1 && k[len(k)/2] <= k[0] {
			t.Errorf("radius %v: center not the peak", tt.radius)
		}
	}
}

func TestCachedGaussianKernel(t *testing.T) {
	a := CachedGaussianKernel(4)
	b := CachedGaussianKernel(4.001)
	if &a[0] != &b[0] {
		t.Error("radii within 0.01 px should share a kernel")
	}
	if KernelExtent(4) != 12 || KernelExtent(0) != 0 {
		t.Errorf("KernelExtent = %d, %d", KernelExtent(4), KernelExtent(0))
	}
}

func square(r image.Rectangle) *image.Alpha {
	m := image.NewAlpha(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.SetAlpha(x, y, color.Alpha{A: 255})
		}
	}
	return m
}

func TestDropShadowSharp(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	f := DropShadow{OffsetX: 2, OffsetY: 3, Color: color.NRGBA{A: 255}}
	f.Draw(dst, square(image.Rect(5, 5, 10, 10)))

	if got := dst.RGBAAt(7, 8).A; got != 255 {
		t.Errorf("inside shifted mask alpha = %d, want 255", got)
	}
	if got := dst.RGBAAt(5, 5).A; got != 0 {
		t.Errorf("outside shifted mask alpha = %d, want 0", got)
	}
	if got := dst.RGBAAt(11, 12).A; got != 255 {
		t.Errorf("shifted corner alpha = %d, want 255", got)
	}
}

func TestDropShadowBlur(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for i := range dst.Pix {
		dst.Pix[i] = 255
	}
	f := DropShadow{Blur: 2, Color: color.NRGBA{A: 128}}
	f.Draw(dst, square(image.Rect(10, 10, 30, 30)))

	center := dst.RGBAAt(20, 20).R
	edge := dst.RGBAAt(10, 20).R
	outside := dst.RGBAAt(7, 20).R
	far := dst.RGBAAt(1, 1).R
	if !(center < edge && edge < outside && outside < far) {
		t.Errorf("shadow not decreasing outward: center %d edge %d outside %d far %d",
			center, edge, outside, far)
	}
	if far != 255 {
		t.Errorf("pixel beyond the blur extent changed: %d", far)
	}
	if got := f.Bounds(image.Rect(10, 10, 30, 30)); got != image.Rect(4, 4, 36, 36) {
		t.Errorf("Bounds = %v", got)
	}
}

func TestDropShadowNoop(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	DropShadow{Color: color.NRGBA{}}.Draw(dst, square(dst.Rect))
	DropShadow{Color: color.NRGBA{A: 255}}.Draw(dst, nil)
	DropShadow{OffsetX: 100, Color: color.NRGBA{A: 255}}.Draw(dst, square(dst.Rect))
	for _, v := range dst.Pix {
		if v != 0 {
			t.Fatal("no-op shadow drew")
		}
	}
}
