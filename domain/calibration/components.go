package calibration

import (
	"math"
)

// Degrees of freedom and magnitudes used by the lab for the fixed sources.
const (
	certificateDoF = 60.0
	resolutionDoF  = 1e10
	buoyancyDoF    = 100.0

	// air-density magnitude for the buoyancy source, rectangular distribution
	buoyancyMagnitude = 120000.0

	// conventional density of the reference material, kg/m3
	referenceDensity = 8000.0

	// instability allowance as a fraction of the MPE
	instabilityFraction = 0.08
)

// StandardComponent derives u1 from the reference certificate.
func StandardComponent(in CalibrationInput) UncertaintyComponent {
	return UncertaintyComponent{
		Name:        ComponentStandard,
		Value:       in.ReferenceUncertaintyMg / in.ReferenceCoverage,
		Sensitivity: 1,
		DoF:         certificateDoF,
	}
}

// RepeatabilityComponent derives u2 as the standard deviation of the mean of
// the difference series.
func RepeatabilityComponent(d DifferenceSeries) (UncertaintyComponent, error) {
	sd, err := d.sampleStdDevMg()
	if err != nil {
		return UncertaintyComponent{}, err
	}
	n := d.Len()
	dof := float64(n - 1)
	if n <= 1 {
		dof = 1
	}
	return UncertaintyComponent{
		Name:        ComponentRepeatability,
		Value:       sd / math.Sqrt(float64(n)),
		Sensitivity: 1,
		DoF:         dof,
	}, nil
}

// ResolutionComponent derives u3 from the scale's digital resolution.
func ResolutionComponent(in CalibrationInput) UncertaintyComponent {
	return UncertaintyComponent{
		Name:        ComponentResolution,
		Value:       (in.ResolutionMg / 2) / math.Sqrt(3),
		Sensitivity: 1,
		DoF:         resolutionDoF,
	}
}

// BuoyancyComponent derives u4; the sensitivity scales with the density
// difference between test piece and reference material.
func BuoyancyComponent(in CalibrationInput) UncertaintyComponent {
	return UncertaintyComponent{
		Name:        ComponentBuoyancy,
		Value:       buoyancyMagnitude / math.Sqrt(3),
		Sensitivity: (1/in.TestDensityKgM - 1/referenceDensity) * in.NominalMassKg,
		DoF:         buoyancyDoF,
	}
}

// InstabilityComponent derives u5 from the MPE.
func InstabilityComponent(in CalibrationInput) UncertaintyComponent {
	return UncertaintyComponent{
		Name:        ComponentInstability,
		Value:       instabilityFraction * in.MPEMg,
		Sensitivity: 1,
		DoF:         certificateDoF,
	}
}

// BuildComponents returns the five budget rows in table order.
func BuildComponents(in CalibrationInput, d DifferenceSeries) ([]UncertaintyComponent, error) {
	rep, err := RepeatabilityComponent(d)
	if err != nil {
		return nil, err
	}
	return []UncertaintyComponent{
		StandardComponent(in),
		rep,
		ResolutionComponent(in),
		BuoyancyComponent(in),
		InstabilityComponent(in),
	}, nil
}
