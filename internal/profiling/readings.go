package profiling

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// ReadingsProfile summarizes a difference series for repeatability review.
// It is diagnostic only and never feeds the uncertainty budget.
type ReadingsProfile struct {
	N        int
	Min      float64
	Max      float64
	Median   float64
	Q25      float64
	Q75      float64
	Range    float64
	Skewness float64
	Outliers []int // indices outside the 1.5·IQR fences
}

// HasOutliers reports whether any reading fell outside the IQR fences
func (p ReadingsProfile) HasOutliers() bool {
	return len(p.Outliers) > 0
}

// ProfileReadings computes summary statistics for a series
func ProfileReadings(data []float64) (ReadingsProfile, error) {
	profile := ReadingsProfile{N: len(data)}
	if len(data) == 0 {
		return profile, fmt.Errorf("cannot profile an empty series")
	}

	var err error
	if profile.Min, err = stats.Min(data); err != nil {
		return profile, err
	}
	if profile.Max, err = stats.Max(data); err != nil {
		return profile, err
	}
	if profile.Median, err = stats.Median(data); err != nil {
		return profile, err
	}
	profile.Range = profile.Max - profile.Min

	// Quartiles need a handful of points to mean anything
	if len(data) < 4 {
		profile.Q25, profile.Q75 = profile.Min, profile.Max
		return profile, nil
	}

	if profile.Q25, err = stats.Percentile(data, 25); err != nil {
		return profile, err
	}
	if profile.Q75, err = stats.Percentile(data, 75); err != nil {
		return profile, err
	}
	profile.Outliers = detectOutliers(data, profile.Q25, profile.Q75)

	mean, err := stats.Mean(data)
	if err != nil {
		return profile, err
	}
	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return profile, err
	}
	profile.Skewness = calculateSkewness(data, mean, stdDev)

	return profile, nil
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 || math.IsNaN(stdDev) {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	skewness := sumCubedDeviations / n
	return skewness * math.Sqrt(n*(n-1)) / (n - 2)
}

// detectOutliers returns the indices of points outside the IQR fences
func detectOutliers(data []float64, q25, q75 float64) []int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	var outliers []int
	for i, x := range data {
		if x < lowerBound || x > upperBound {
			outliers = append(outliers, i)
		}
	}
	return outliers
}
