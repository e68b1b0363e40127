package filter

import (
	"math"

	"github.com/gogpu/ggraph/internal/cache"
)

// GaussianKernel generates a 1D Gaussian kernel using radius as sigma.
// The kernel is normalized so all values sum to 1.0.
//
// The kernel size is 2 * ceil(radius * 3) + 1, which covers 99.7% of the
// distribution. For radius <= 0 it returns the identity kernel [1.0].
func GaussianKernel(radius float64) []float32 {
	if !(radius > 0) {
		return []float32{1.0}
	}

	half := int(math.Ceil(radius * 3))
	kernel := make([]float32, half*2+1)

	// exp(-x²/(2σ²)); the constant factor is dropped by normalization.
	twoSigmaSq := 2 * radius * radius
	sum := 0.0
	for i := range kernel {
		x := float64(i - half)
		v := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(v)
		sum += v
	}
	inv := float32(1 / sum)
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}

// Radii are quantized to 0.01 pixel.
var kernels = cache.New[int, []float32](64)

// CachedGaussianKernel returns a shared kernel for radius. The slice must
// not be modified.
func CachedGaussianKernel(radius float64) []float32 {
	key := int(math.Round(radius * 100))
	return kernels.GetOrCreate(key, func() []float32 {
		return GaussianKernel(float64(key) / 100)
	})
}

// KernelExtent returns how far a kernel of the given radius spreads, in
// pixels on each side.
func KernelExtent(radius float64) int {
	if !(radius > 0) {
		return 0
	}
	return int(math.Ceil(radius * 3))
}
