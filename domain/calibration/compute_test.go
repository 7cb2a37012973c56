package calibration

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masscal/domain/core"
)

// baselineInput is a 1 kg stainless piece compared against a 1 kg reference.
func baselineInput() CalibrationInput {
	return CalibrationInput{
		ReferenceMassG:         1000.0,
		ReferenceUncertaintyMg: 0.05,
		ReferenceCoverage:      2,
		NominalMassKg:          1.0,
		TestDensityKgM:         7950,
		ResolutionMg:           0.1,
		CapacityG:              1100,
		MPEMg:                  5,
		Unit:                   UnitMilligram,
		StandardReadings:       []float64{0, 0, 0},
		TestReadings:           []float64{0, 0, 0},
	}
}

func TestComputeZeroReadingsScenario(t *testing.T) {
	result, err := Compute(baselineInput())
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.CorrectionMg)
	assert.Equal(t, 1000.0, result.ConventionalMassG)
	assert.Equal(t, 1000.0, result.NominalMassG)

	rep, ok := result.Component(ComponentRepeatability)
	require.True(t, ok)
	assert.Equal(t, 0.0, rep.Value)

	u1 := 0.025
	u3 := 0.05 / math.Sqrt(3)
	u4 := 120000 / math.Sqrt(3) * (1/7950.0 - 1/8000.0)
	u5 := 0.4
	expected := math.Sqrt(u1*u1 + u3*u3 + u4*u4 + u5*u5)
	assert.InDelta(t, expected, result.CombinedUncertaintyMg, 1e-12)

	assert.InDelta(t, 63.35, result.EffectiveDoF, 0.05)
	assert.Equal(t, CoveragePolynomial, result.CoverageBasis)
	assert.InDelta(t, 1.998, result.CoverageFactor, 0.001)
	assert.InDelta(t, result.CoverageFactor, result.ReferenceCoverage, 0.001)

	assert.InDelta(t, result.CombinedUncertaintyMg*result.CoverageFactor, result.ExpandedUncertaintyMg, 1e-12)
	assert.InDelta(t, result.ExpandedUncertaintyMg/1000, result.ExpandedUncertaintyG, 1e-15)
	assert.GreaterOrEqual(t, result.ExpandedUncertaintyMg, result.CombinedUncertaintyMg)

	assert.Equal(t, VerdictPass, result.Verdict)
	assert.True(t, result.Passed())
}

func TestComputeRejectsMismatchedReadings(t *testing.T) {
	in := baselineInput()
	in.TestReadings = []float64{0, 0}

	result, err := Compute(in)
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrReadingsMismatch))
	assert.True(t, core.IsValidationError(err))
}

func TestComputeRejectsEmptyReadings(t *testing.T) {
	in := baselineInput()
	in.StandardReadings = []float64{}
	in.TestReadings = []float64{}

	result, err := Compute(in)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, core.ErrEmptyReadings))
}

func TestComputeSinglePair(t *testing.T) {
	in := baselineInput()
	in.StandardReadings = []float64{12.3}
	in.TestReadings = []float64{14.3}

	result, err := Compute(in)
	require.NoError(t, err)

	rep, _ := result.Component(ComponentRepeatability)
	assert.Equal(t, 0.0, rep.Value)
	assert.Equal(t, 1.0, rep.DoF)
	assert.InDelta(t, 2.0, result.CorrectionMg, 1e-6)
}

func TestComputeFailsOutsideMPE(t *testing.T) {
	in := baselineInput()
	in.TestReadings = []float64{10, 10.2, 9.9}

	result, err := Compute(in)
	require.NoError(t, err)
	assert.InDelta(t, 10.0333, result.CorrectionMg, 1e-3)
	assert.Equal(t, VerdictFail, result.Verdict)
	assert.False(t, result.Passed())
}

func TestComputeDegenerateBudget(t *testing.T) {
	// every component is zero: reference density, perfect scale, no MPE
	in := baselineInput()
	in.ReferenceUncertaintyMg = 0
	in.TestDensityKgM = 8000
	in.ResolutionMg = 0
	in.MPEMg = 0

	result, err := Compute(in)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.CombinedUncertaintyMg)
	assert.True(t, math.IsInf(result.EffectiveDoF, 1))
	assert.Equal(t, 1.95996, result.CoverageFactor)
	assert.Equal(t, CoverageNormalLimit, result.CoverageBasis)
	assert.Equal(t, 0.0, result.ExpandedUncertaintyMg)
	// |0| + 0 <= 0 is inclusive
	assert.Equal(t, VerdictPass, result.Verdict)
}

func TestComputeNonFiniteInputs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CalibrationInput)
	}{
		{"zero density", func(in *CalibrationInput) { in.TestDensityKgM = 0 }},
		{"zero certificate coverage", func(in *CalibrationInput) { in.ReferenceCoverage = 0 }},
		{"NaN reading", func(in *CalibrationInput) { in.TestReadings = []float64{0, math.NaN(), 0} }},
		{"infinite reference mass", func(in *CalibrationInput) { in.ReferenceMassG = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baselineInput()
			tt.mutate(&in)

			result, err := Compute(in)
			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, core.IsComputationError(err))
			assert.False(t, core.IsValidationError(err))
			assert.Equal(t, "calibration computation failed", err.Error())
		})
	}
}

func TestComputeSwapNegatesDifferences(t *testing.T) {
	in := baselineInput()
	in.StandardReadings = []float64{0.1, 0.3, 0.2, 0.4}
	in.TestReadings = []float64{1.2, 1.1, 1.5, 1.3}

	forward, err := Compute(in)
	require.NoError(t, err)

	in.StandardReadings, in.TestReadings = in.TestReadings, in.StandardReadings
	swapped, err := Compute(in)
	require.NoError(t, err)

	for i := range forward.Differences.Values {
		assert.InDelta(t, -forward.Differences.Values[i], swapped.Differences.Values[i], 1e-12)
	}
	assert.InDelta(t, -forward.Differences.Mean, swapped.Differences.Mean, 1e-12)
	assert.InDelta(t, -forward.CorrectionMg, swapped.CorrectionMg, 1e-9)
	assert.InDelta(t, math.Abs(forward.CorrectionMg), math.Abs(swapped.CorrectionMg), 1e-9)
	assert.InDelta(t, forward.CombinedUncertaintyMg, swapped.CombinedUncertaintyMg, 1e-12)
}

func TestComputeUnitInvariance(t *testing.T) {
	inMg := baselineInput()
	inMg.StandardReadings = []float64{0.1, 0.3, 0.2}
	inMg.TestReadings = []float64{1.2, 1.6, 1.1}

	inG := baselineInput()
	inG.Unit = UnitGram
	inG.StandardReadings = []float64{0.0001, 0.0003, 0.0002}
	inG.TestReadings = []float64{0.0012, 0.0016, 0.0011}

	mg, err := Compute(inMg)
	require.NoError(t, err)
	g, err := Compute(inG)
	require.NoError(t, err)

	assert.InDelta(t, mg.ConventionalMassG, g.ConventionalMassG, 1e-9)
	assert.InDelta(t, mg.CorrectionMg, g.CorrectionMg, 1e-6)
	assert.InDelta(t, mg.CombinedUncertaintyMg, g.CombinedUncertaintyMg, 1e-9)
	assert.InDelta(t, mg.Differences.Mean/1000, g.Differences.Mean, 1e-12)
	assert.Equal(t, mg.Verdict, g.Verdict)
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	in := baselineInput()
	in.StandardReadings = []float64{1, 2, 3}
	in.TestReadings = []float64{2, 3, 5}
	standard := append([]float64(nil), in.StandardReadings...)
	test := append([]float64(nil), in.TestReadings...)

	_, err := Compute(in)
	require.NoError(t, err)
	assert.Equal(t, standard, in.StandardReadings)
	assert.Equal(t, test, in.TestReadings)
}

func TestComputeProperties(t *testing.T) {
	readings := [][2][]float64{
		{{0}, {0.5}},
		{{1, 2}, {1.5, 2.7}},
		{{10, 10, 10, 10}, {11, 9, 12, 8}},
		{{100.1, 100.4, 99.8, 100.0, 100.2}, {101.0, 101.3, 100.9, 101.1, 101.2}},
	}

	for _, pair := range readings {
		in := baselineInput()
		in.StandardReadings = pair[0]
		in.TestReadings = pair[1]

		result, err := Compute(in)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.CombinedUncertaintyMg, 0.0)
		assert.GreaterOrEqual(t, result.CoverageFactor, 1.0)
		assert.GreaterOrEqual(t, result.ExpandedUncertaintyMg, result.CombinedUncertaintyMg)
		assert.Len(t, result.Components, 5)
	}
}

func TestComputeConcurrentCalls(t *testing.T) {
	in := baselineInput()
	in.StandardReadings = []float64{0.1, 0.2, 0.3}
	in.TestReadings = []float64{0.4, 0.4, 0.5}

	want, err := Compute(in)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*CalibrationResult, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Compute(in)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		require.NotNil(t, got)
		assert.Equal(t, want.ExpandedUncertaintyMg, got.ExpandedUncertaintyMg)
		assert.Equal(t, want.Verdict, got.Verdict)
	}
}
