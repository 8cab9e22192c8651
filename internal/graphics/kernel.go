package graphics

import "github.com/chewxy/math32"

// GaussianKernel returns the center and one side of a normalized 1-D gaussian kernel of
// the given radius: radius+1 weights with w[0] + 2*sum(w[1:]) == 1. Sigma <= 0 gives a box.
func GaussianKernel(radius int, sigma float32) []float32 {
	if radius < 0 {
		radius = 0
	}
	w := make([]float32, radius+1)
	var sum float32
	for i := range w {
		if sigma > 0 {
			x := float32(i)
			w[i] = math32.Exp(-(x * x) / (2 * sigma * sigma))
		} else {
			w[i] = 1
		}
		if i == 0 {
			sum += w[i]
		} else {
			sum += 2 * w[i]
		}
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

// ScaledSize scales a viewport size by k, truncating and never returning less than 1 px
func ScaledSize(width, height int, k float32) (int, int) {
	w, h := int(float32(width)*k), int(float32(height)*k)
	return max(w, 1), max(h, 1)
}
