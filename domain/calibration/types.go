// Package calibration computes the uncertainty budget for calibrating a test
// mass piece against a reference standard by the substitution method.
package calibration

import (
	"fmt"
	"strings"
)

// ReadingUnit is the unit the paired balance readings were recorded in.
type ReadingUnit string

const (
	UnitMilligram ReadingUnit = "mg"
	UnitGram      ReadingUnit = "g"
)

// ParseReadingUnit accepts "mg" or "g" in any case. An empty string means mg.
func ParseReadingUnit(s string) (ReadingUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mg":
		return UnitMilligram, nil
	case "g":
		return UnitGram, nil
	}
	return "", fmt.Errorf("unknown reading unit %q (want mg or g)", s)
}

// toMilligrams is the factor taking a value in this unit to mg.
func (u ReadingUnit) toMilligrams() float64 {
	if u == UnitGram {
		return 1000.0
	}
	return 1.0
}

// toGrams is the factor taking a value in this unit to g.
func (u ReadingUnit) toGrams() float64 {
	if u == UnitGram {
		return 1.0
	}
	return 1.0 / 1000.0
}

// CalibrationInput is one submission from the lab: reference and scale data
// plus the repeated paired readings.
type CalibrationInput struct {
	ReferenceMassG         float64 `json:"reference_mass_g" yaml:"reference_mass_g"`                   // Conventional mass of the standard
	ReferenceUncertaintyMg float64 `json:"reference_uncertainty_mg" yaml:"reference_uncertainty_mg"`   // Expanded uncertainty from the certificate
	ReferenceCoverage      float64 `json:"reference_coverage_factor" yaml:"reference_coverage_factor"` // k stated on the certificate

	NominalMassKg  float64 `json:"nominal_mass_kg" yaml:"nominal_mass_kg"`
	TestDensityKgM float64 `json:"test_density_kg_m3" yaml:"test_density_kg_m3"`

	ResolutionMg float64 `json:"resolution_mg" yaml:"resolution_mg"`
	CapacityG    float64 `json:"capacity_g" yaml:"capacity_g"` // Informational; not used by the budget
	MPEMg        float64 `json:"mpe_mg" yaml:"mpe_mg"`

	Unit             ReadingUnit `json:"reading_unit" yaml:"reading_unit"`
	StandardReadings []float64   `json:"standard_readings" yaml:"standard_readings"`
	TestReadings     []float64   `json:"test_readings" yaml:"test_readings"`
}

// DifferenceSeries holds test[i] - standard[i] in the reading unit.
type DifferenceSeries struct {
	Values []float64   `json:"values"`
	Mean   float64     `json:"mean"`
	Unit   ReadingUnit `json:"unit"`
}

// Len returns the number of paired readings.
func (d DifferenceSeries) Len() int { return len(d.Values) }

// ComponentName identifies one of the five budget sources.
type ComponentName string

const (
	ComponentStandard      ComponentName = "standard"
	ComponentRepeatability ComponentName = "repeatability"
	ComponentResolution    ComponentName = "resolution"
	ComponentBuoyancy      ComponentName = "buoyancy"
	ComponentInstability   ComponentName = "instability"
)

// UncertaintyComponent is one row of the budget table.
type UncertaintyComponent struct {
	Name        ComponentName `json:"name"`
	Value       float64       `json:"value_mg"`           // Standard uncertainty u_i
	Sensitivity float64       `json:"sensitivity"`        // c_i
	DoF         float64       `json:"degrees_of_freedom"` // v_i
}

// Contribution returns u_i * c_i in mg.
func (c UncertaintyComponent) Contribution() float64 {
	return c.Value * c.Sensitivity
}

// Variance returns (u_i * c_i)^2.
func (c UncertaintyComponent) Variance() float64 {
	x := c.Contribution()
	return x * x
}

// WelchSatterthwaiteTerm returns (u_i * c_i)^4 / v_i.
func (c UncertaintyComponent) WelchSatterthwaiteTerm() float64 {
	v := c.Variance()
	return v * v / c.DoF
}

// Verdict is the outcome of the MPE check.
type Verdict string

const (
	VerdictPass Verdict = "PASS"
	VerdictFail Verdict = "FAIL"
)

// CoverageBasis records which branch produced the coverage factor.
type CoverageBasis string

const (
	CoveragePolynomial  CoverageBasis = "polynomial"
	CoverageNormalLimit CoverageBasis = "normal_limit"
	CoverageFallback    CoverageBasis = "input_fallback"
)

// CalibrationResult is produced once per input and never modified afterwards.
// EffectiveDoF may be +Inf when every component is zero.
type CalibrationResult struct {
	NominalMassG      float64          `json:"nominal_mass_g"`
	ConventionalMassG float64          `json:"conventional_mass_g"`
	CorrectionMg      float64          `json:"correction_mg"`
	Differences       DifferenceSeries `json:"differences"`

	Components            []UncertaintyComponent `json:"components"`
	CombinedUncertaintyMg float64                `json:"combined_uncertainty_mg"`
	EffectiveDoF          float64                `json:"effective_dof"`
	CoverageFactor        float64                `json:"coverage_factor"`
	CoverageBasis         CoverageBasis          `json:"coverage_basis"`
	ReferenceCoverage     float64                `json:"reference_t_quantile"` // Exact Student's t 97.5% quantile at EffectiveDoF

	ExpandedUncertaintyMg float64 `json:"expanded_uncertainty_mg"`
	ExpandedUncertaintyG  float64 `json:"expanded_uncertainty_g"`

	MPEMg   float64 `json:"mpe_mg"`
	Verdict Verdict `json:"verdict"`
}

// Component returns the named budget row.
func (r *CalibrationResult) Component(name ComponentName) (UncertaintyComponent, bool) {
	for _, c := range r.Components {
		if c.Name == name {
			return c, true
		}
	}
	return UncertaintyComponent{}, false
}

// Passed reports whether the test piece is within its MPE.
func (r *CalibrationResult) Passed() bool {
	return r.Verdict == VerdictPass
}

// InputDefaults fill optional fields of a submission before it is computed.
type InputDefaults struct {
	Unit           ReadingUnit
	CoverageFactor float64
	DensityKgM3    float64
}

// DefaultInputDefaults mirrors the values the lab form pre-filled.
func DefaultInputDefaults() InputDefaults {
	return InputDefaults{
		Unit:           UnitMilligram,
		CoverageFactor: 2.0,
		DensityKgM3:    7950.0,
	}
}
