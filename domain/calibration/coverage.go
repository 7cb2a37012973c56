package calibration

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// normalQuantile95 is the two-sided 95% quantile of the normal distribution.
const normalQuantile95 = 1.95996

// coefficients of the expansion in 1/v, lowest order first
var coveragePolynomial = [...]float64{
	normalQuantile95,
	2.37356,
	2.818745,
	2.546662,
	1.761829,
	0.245458,
	1.000764,
}

// CoverageFactor approximates the two-sided 95% Student's t quantile for v
// effective degrees of freedom. Infinite v gives the normal limit; v == 0
// falls back to the supplied factor.
func CoverageFactor(veff, fallback float64) (float64, CoverageBasis) {
	switch {
	case math.IsInf(veff, 1):
		return normalQuantile95, CoverageNormalLimit
	case veff == 0:
		return fallback, CoverageFallback
	}

	inv := 1 / veff
	k := 0.0
	for i := len(coveragePolynomial) - 1; i >= 0; i-- {
		k = k*inv + coveragePolynomial[i]
	}
	return k, CoveragePolynomial
}

// ExactCoverageFactor is the 97.5% quantile of Student's t with v degrees of
// freedom. Reported next to the approximation so the two can be compared.
func ExactCoverageFactor(veff float64) float64 {
	if math.IsInf(veff, 1) {
		return distuv.UnitNormal.Quantile(0.975)
	}
	if veff <= 0 || math.IsNaN(veff) {
		return math.NaN()
	}
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: veff}
	return t.Quantile(0.975)
}
