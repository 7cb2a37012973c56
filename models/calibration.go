package models

import (
	"math"
	"time"

	"masscal/domain/calibration"
)

// CalibrationRequest is the wire/file form of a calibration submission.
// Pointer fields are optional and filled from configured defaults.
type CalibrationRequest struct {
	ReferenceMassG         float64  `json:"reference_mass_g" yaml:"reference_mass_g"`
	ReferenceUncertaintyMg float64  `json:"reference_uncertainty_mg" yaml:"reference_uncertainty_mg"`
	ReferenceCoverage      *float64 `json:"reference_coverage_factor,omitempty" yaml:"reference_coverage_factor,omitempty"`

	NominalMassKg  float64  `json:"nominal_mass_kg" yaml:"nominal_mass_kg"`
	TestDensityKgM *float64 `json:"test_density_kg_m3,omitempty" yaml:"test_density_kg_m3,omitempty"`

	ResolutionMg float64 `json:"resolution_mg" yaml:"resolution_mg"`
	CapacityG    float64 `json:"capacity_g" yaml:"capacity_g"`
	MPEMg        float64 `json:"mpe_mg" yaml:"mpe_mg"`

	ReadingUnit      string    `json:"reading_unit,omitempty" yaml:"reading_unit,omitempty"`
	StandardReadings []float64 `json:"standard_readings" yaml:"standard_readings"`
	TestReadings     []float64 `json:"test_readings" yaml:"test_readings"`
}

// ToInput converts the request into a domain input, applying defaults for
// omitted optional fields. An unparseable unit is passed through so the
// validator reports it.
func (r CalibrationRequest) ToInput(defaults calibration.InputDefaults) calibration.CalibrationInput {
	in := calibration.CalibrationInput{
		ReferenceMassG:         r.ReferenceMassG,
		ReferenceUncertaintyMg: r.ReferenceUncertaintyMg,
		ReferenceCoverage:      defaults.CoverageFactor,
		NominalMassKg:          r.NominalMassKg,
		TestDensityKgM:         defaults.DensityKgM3,
		ResolutionMg:           r.ResolutionMg,
		CapacityG:              r.CapacityG,
		MPEMg:                  r.MPEMg,
		Unit:                   defaults.Unit,
		StandardReadings:       append([]float64(nil), r.StandardReadings...),
		TestReadings:           append([]float64(nil), r.TestReadings...),
	}
	if r.ReferenceCoverage != nil {
		in.ReferenceCoverage = *r.ReferenceCoverage
	}
	if r.TestDensityKgM != nil {
		in.TestDensityKgM = *r.TestDensityKgM
	}
	if r.ReadingUnit != "" {
		if unit, err := calibration.ParseReadingUnit(r.ReadingUnit); err == nil {
			in.Unit = unit
		} else {
			in.Unit = calibration.ReadingUnit(r.ReadingUnit)
		}
	}
	return in
}

// ComponentResponse is one row of the budget table.
type ComponentResponse struct {
	Name         string  `json:"name"`
	ValueMg      float64 `json:"value_mg"`
	Sensitivity  float64 `json:"sensitivity"`
	Contribution float64 `json:"contribution_mg"`
	DoF          float64 `json:"degrees_of_freedom"`
}

// CalibrationResponse is the wire form of a computed calibration.
// JSON cannot carry infinities, so an unbounded effective dof is sent as
// null with EffectiveDoFInfinite set.
type CalibrationResponse struct {
	ID        string    `json:"id"`
	InputHash string    `json:"input_hash"`
	CreatedAt time.Time `json:"created_at"`

	ReadingUnit       string    `json:"reading_unit"`
	NominalMassG      float64   `json:"nominal_mass_g"`
	ConventionalMassG float64   `json:"conventional_mass_g"`
	CorrectionMg      float64   `json:"correction_mg"`
	MeanDifference    float64   `json:"mean_difference"`
	Differences       []float64 `json:"differences"`

	Components            []ComponentResponse `json:"components"`
	CombinedUncertaintyMg float64             `json:"combined_uncertainty_mg"`
	EffectiveDoF          *float64            `json:"effective_dof"`
	EffectiveDoFInfinite  bool                `json:"effective_dof_infinite"`
	CoverageFactor        float64             `json:"coverage_factor"`
	CoverageBasis         string              `json:"coverage_basis"`
	ReferenceTQuantile    *float64            `json:"reference_t_quantile,omitempty"`

	ExpandedUncertaintyMg float64 `json:"expanded_uncertainty_mg"`
	ExpandedUncertaintyG  float64 `json:"expanded_uncertainty_g"`
	MPEMg                 float64 `json:"mpe_mg"`
	Verdict               string  `json:"verdict"`
}

// NewCalibrationResponse flattens a domain result for transport.
func NewCalibrationResponse(id, inputHash string, createdAt time.Time, r *calibration.CalibrationResult) CalibrationResponse {
	resp := CalibrationResponse{
		ID:                    id,
		InputHash:             inputHash,
		CreatedAt:             createdAt,
		ReadingUnit:           string(r.Differences.Unit),
		NominalMassG:          r.NominalMassG,
		ConventionalMassG:     r.ConventionalMassG,
		CorrectionMg:          r.CorrectionMg,
		MeanDifference:        r.Differences.Mean,
		Differences:           append([]float64(nil), r.Differences.Values...),
		CombinedUncertaintyMg: r.CombinedUncertaintyMg,
		CoverageFactor:        r.CoverageFactor,
		CoverageBasis:         string(r.CoverageBasis),
		ExpandedUncertaintyMg: r.ExpandedUncertaintyMg,
		ExpandedUncertaintyG:  r.ExpandedUncertaintyG,
		MPEMg:                 r.MPEMg,
		Verdict:               string(r.Verdict),
	}

	for _, c := range r.Components {
		resp.Components = append(resp.Components, ComponentResponse{
			Name:         string(c.Name),
			ValueMg:      c.Value,
			Sensitivity:  c.Sensitivity,
			Contribution: c.Contribution(),
			DoF:          c.DoF,
		})
	}

	if math.IsInf(r.EffectiveDoF, 1) {
		resp.EffectiveDoFInfinite = true
	} else {
		veff := r.EffectiveDoF
		resp.EffectiveDoF = &veff
	}
	if !math.IsNaN(r.ReferenceCoverage) && !math.IsInf(r.ReferenceCoverage, 0) {
		q := r.ReferenceCoverage
		resp.ReferenceTQuantile = &q
	}
	return resp
}

// ErrorResponse is returned for failed calculations.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

// BatchCalibrationRequest groups several submissions.
type BatchCalibrationRequest struct {
	Items []CalibrationRequest `json:"items"`
}

// BatchItemResponse holds either a result or an error for one batch item.
type BatchItemResponse struct {
	Index  int                  `json:"index"`
	Result *CalibrationResponse `json:"result,omitempty"`
	Error  *ErrorResponse       `json:"error,omitempty"`
}

// BatchCalibrationResponse preserves request order.
type BatchCalibrationResponse struct {
	Items  []BatchItemResponse `json:"items"`
	Passed int                 `json:"passed"`
	Failed int                 `json:"failed"`
	Errors int                 `json:"errors"`
}
