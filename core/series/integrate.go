package series

import "math"

// Integrate computes the running integral of y over x by the composite
// trapezoidal rule, anchored at zero. With absolute set, the magnitude of
// y is integrated instead, which turns a signed current into the total
// charge passed rather than the net charge.
func Integrate(x, y []float64, absolute bool) []float64 {
	n := len(y)
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	sum := 0.0
	prevX, prevY := x[0], y[0]
	if absolute {
		prevY = math.Abs(prevY)
	}
	for i := 1; i < n; i++ {
		yi := y[i]
		if absolute {
			yi = math.Abs(yi)
		}
		sum += (x[i] - prevX) * (yi + prevY) / 2
		out[i] = sum
		prevX, prevY = x[i], yi
	}
	return out
}
