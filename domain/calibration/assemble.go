package calibration

import (
	"math"

	"masscal/domain/core"
)

// budget carries the intermediate quantities the assembler needs.
type budget struct {
	differences  DifferenceSeries
	components   []UncertaintyComponent
	combined     float64
	effectiveDoF float64
	coverage     float64
	basis        CoverageBasis
}

// assemble derives the expanded uncertainty and verdict and builds the result.
// It fails with a computation error if any reported quantity is non-finite;
// only EffectiveDoF may legitimately be +Inf.
func assemble(in CalibrationInput, b budget) (*CalibrationResult, error) {
	conventional := ConventionalMassG(in, b.differences)
	correction := CorrectionMg(in, conventional)
	expanded := b.combined * b.coverage

	verdict := VerdictFail
	if math.Abs(correction)+expanded <= in.MPEMg {
		verdict = VerdictPass
	}

	reference := ExactCoverageFactor(b.effectiveDoF)
	if b.basis == CoverageFallback {
		reference = b.coverage
	}

	checks := []struct {
		name  string
		value float64
	}{
		{"conventional mass", conventional},
		{"correction", correction},
		{"combined uncertainty", b.combined},
		{"coverage factor", b.coverage},
		{"expanded uncertainty", expanded},
	}
	for _, c := range checks {
		if !isFinite(c.value) {
			return nil, core.NewNonFiniteError(c.name, c.value)
		}
	}
	if math.IsNaN(b.effectiveDoF) || math.IsInf(b.effectiveDoF, -1) {
		return nil, core.NewNonFiniteError("effective degrees of freedom", b.effectiveDoF)
	}

	components := make([]UncertaintyComponent, len(b.components))
	copy(components, b.components)

	return &CalibrationResult{
		NominalMassG:          in.NominalMassKg * 1000.0,
		ConventionalMassG:     conventional,
		CorrectionMg:          correction,
		Differences:           b.differences,
		Components:            components,
		CombinedUncertaintyMg: b.combined,
		EffectiveDoF:          b.effectiveDoF,
		CoverageFactor:        b.coverage,
		CoverageBasis:         b.basis,
		ReferenceCoverage:     reference,
		ExpandedUncertaintyMg: expanded,
		ExpandedUncertaintyG:  expanded / 1000.0,
		MPEMg:                 in.MPEMg,
		Verdict:               verdict,
	}, nil
}
