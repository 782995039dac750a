package utils

// Clamp returns the input bounded to [lower, upper]. Clamping is idempotent.
func Clamp(lower, upper, input float64) float64 {
	if input < lower {
		return lower
	}
	if input > upper {
		return upper
	}
	return input
}

// Square is faster than math.Pow(x, 2).
func Square(n float64) float64 {
	return n * n
}
