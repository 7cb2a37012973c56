package calibration

import (
	"math"
)

// CombinedUncertainty is the root-sum-square of the sensitivity-weighted
// contributions, in mg.
func CombinedUncertainty(components []UncertaintyComponent) float64 {
	sum := 0.0
	for _, c := range components {
		sum += c.Variance()
	}
	return math.Sqrt(sum)
}

// EffectiveDoF applies the Welch-Satterthwaite formula. When every component
// is zero the denominator vanishes and the result is +Inf.
func EffectiveDoF(combined float64, components []UncertaintyComponent) float64 {
	denominator := 0.0
	for _, c := range components {
		denominator += c.WelchSatterthwaiteTerm()
	}
	if denominator == 0 {
		return math.Inf(1)
	}
	uc2 := combined * combined
	return uc2 * uc2 / denominator
}
