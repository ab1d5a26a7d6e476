package sipm

import "math"

// expNeg returns exp(-x), used throughout the noise generators for
// survival probabilities and recharge curves.
func expNeg(x float64) float64 {
	return math.Exp(-x)
}
