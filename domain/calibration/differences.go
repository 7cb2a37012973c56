package calibration

import (
	"math"

	"github.com/montanaflynn/stats"
)

// ComputeDifferences builds the test-minus-standard series and its mean.
// Inputs must already be validated.
func ComputeDifferences(in CalibrationInput) (DifferenceSeries, error) {
	unit, _ := ParseReadingUnit(string(in.Unit))

	values := make([]float64, len(in.TestReadings))
	for i := range in.TestReadings {
		values[i] = in.TestReadings[i] - in.StandardReadings[i]
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return DifferenceSeries{}, err
	}

	return DifferenceSeries{Values: values, Mean: mean, Unit: unit}, nil
}

// sampleStdDevMg returns the sample standard deviation of the series in mg.
// A single pair carries no dispersion information, so it is defined as zero.
func (d DifferenceSeries) sampleStdDevMg() (float64, error) {
	if d.Len() <= 1 {
		return 0, nil
	}
	sd, err := stats.StandardDeviationSample(d.Values)
	if err != nil {
		return 0, err
	}
	return sd * d.Unit.toMilligrams(), nil
}

// MeanGrams returns the mean difference converted to grams.
func (d DifferenceSeries) MeanGrams() float64 {
	return d.Mean * d.Unit.toGrams()
}

// ConventionalMassG is the reference conventional mass plus the mean
// difference, in grams.
func ConventionalMassG(in CalibrationInput, d DifferenceSeries) float64 {
	return in.ReferenceMassG + d.MeanGrams()
}

// CorrectionMg is conventional minus nominal mass, in milligrams.
func CorrectionMg(in CalibrationInput, conventionalG float64) float64 {
	nominalG := in.NominalMassKg * 1000.0
	return (conventionalG - nominalG) * 1000.0
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
