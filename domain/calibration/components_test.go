package calibration

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDifferences(t *testing.T) {
	in := CalibrationInput{
		StandardReadings: []float64{10.0, 10.1, 10.0},
		TestReadings:     []float64{10.2, 10.4, 10.3},
	}

	d, err := ComputeDifferences(in)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.2, 0.3, 0.3}, d.Values, 1e-12)
	assert.InDelta(t, 0.8/3, d.Mean, 1e-12)
	assert.Equal(t, UnitMilligram, d.Unit)
	assert.InDelta(t, 0.8/3/1000, d.MeanGrams(), 1e-15)

	// inputs untouched
	assert.Equal(t, []float64{10.0, 10.1, 10.0}, in.StandardReadings)
}

func TestConventionalMassAndCorrection(t *testing.T) {
	in := CalibrationInput{ReferenceMassG: 1000.0, NominalMassKg: 1.0}
	d := DifferenceSeries{Values: []float64{2, 4}, Mean: 3, Unit: UnitMilligram}

	conventional := ConventionalMassG(in, d)
	assert.InDelta(t, 1000.003, conventional, 1e-12)
	assert.InDelta(t, 3.0, CorrectionMg(in, conventional), 1e-9)

	d.Unit = UnitGram
	conventional = ConventionalMassG(in, d)
	assert.InDelta(t, 1003.0, conventional, 1e-12)
	assert.InDelta(t, 3000.0, CorrectionMg(in, conventional), 1e-9)
}

func TestRepeatabilityComponent(t *testing.T) {
	t.Run("milligram readings", func(t *testing.T) {
		d := DifferenceSeries{Values: []float64{1, 2, 3}, Mean: 2, Unit: UnitMilligram}
		c, err := RepeatabilityComponent(d)
		require.NoError(t, err)
		assert.Equal(t, ComponentRepeatability, c.Name)
		assert.InDelta(t, 1/math.Sqrt(3), c.Value, 1e-12)
		assert.Equal(t, 1.0, c.Sensitivity)
		assert.Equal(t, 2.0, c.DoF)
	})

	t.Run("gram readings are reported in mg", func(t *testing.T) {
		d := DifferenceSeries{Values: []float64{0.001, 0.002, 0.003}, Mean: 0.002, Unit: UnitGram}
		c, err := RepeatabilityComponent(d)
		require.NoError(t, err)
		assert.InDelta(t, 1/math.Sqrt(3), c.Value, 1e-9)
	})

	t.Run("single pair has zero dispersion", func(t *testing.T) {
		d := DifferenceSeries{Values: []float64{5}, Mean: 5, Unit: UnitMilligram}
		c, err := RepeatabilityComponent(d)
		require.NoError(t, err)
		assert.Equal(t, 0.0, c.Value)
		assert.Equal(t, 1.0, c.DoF)
	})

	t.Run("constant differences", func(t *testing.T) {
		d := DifferenceSeries{Values: []float64{0, 0, 0}, Mean: 0, Unit: UnitMilligram}
		c, err := RepeatabilityComponent(d)
		require.NoError(t, err)
		assert.Equal(t, 0.0, c.Value)
		assert.Equal(t, 2.0, c.DoF)
	})
}

func TestFixedComponents(t *testing.T) {
	in := CalibrationInput{
		ReferenceUncertaintyMg: 0.05,
		ReferenceCoverage:      2,
		NominalMassKg:          1,
		TestDensityKgM:         7950,
		ResolutionMg:           0.1,
		MPEMg:                  5,
	}

	std := StandardComponent(in)
	assert.InDelta(t, 0.025, std.Value, 1e-15)
	assert.Equal(t, 60.0, std.DoF)

	res := ResolutionComponent(in)
	assert.InDelta(t, 0.05/math.Sqrt(3), res.Value, 1e-15)
	assert.Equal(t, 1e10, res.DoF)

	buoy := BuoyancyComponent(in)
	assert.InDelta(t, 120000/math.Sqrt(3), buoy.Value, 1e-9)
	assert.InDelta(t, 1/7950.0-1/8000.0, buoy.Sensitivity, 1e-18)
	assert.Equal(t, 100.0, buoy.DoF)
	assert.InDelta(t, 0.054467, buoy.Contribution(), 1e-6)

	inst := InstabilityComponent(in)
	assert.InDelta(t, 0.4, inst.Value, 1e-15)
	assert.Equal(t, 60.0, inst.DoF)

	// a test piece at the reference density has no buoyancy contribution
	in.TestDensityKgM = 8000
	assert.Equal(t, 0.0, BuoyancyComponent(in).Contribution())
}

func TestBuildComponentsOrder(t *testing.T) {
	in := baselineInput()
	d, err := ComputeDifferences(in)
	require.NoError(t, err)

	components, err := BuildComponents(in, d)
	require.NoError(t, err)
	require.Len(t, components, 5)

	want := []ComponentName{
		ComponentStandard,
		ComponentRepeatability,
		ComponentResolution,
		ComponentBuoyancy,
		ComponentInstability,
	}
	for i, c := range components {
		assert.Equal(t, want[i], c.Name)
	}
}
