package calibration

import (
	"fmt"

	"masscal/domain/core"
)

// Compute runs the full budget for one input. It returns a validation error
// before doing any arithmetic if the reading sequences are unusable, and a
// single opaque computation error for anything that goes wrong afterwards.
func Compute(in CalibrationInput) (result *CalibrationResult, err error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = core.NewComputationError(fmt.Sprintf("panic: %v", r), nil)
		}
	}()

	differences, err := ComputeDifferences(in)
	if err != nil {
		return nil, core.NewComputationError("difference series", err)
	}

	components, err := BuildComponents(in, differences)
	if err != nil {
		return nil, core.NewComputationError("uncertainty components", err)
	}

	combined := CombinedUncertainty(components)
	veff := EffectiveDoF(combined, components)
	k, basis := CoverageFactor(veff, in.ReferenceCoverage)

	return assemble(in, budget{
		differences:  differences,
		components:   components,
		combined:     combined,
		effectiveDoF: veff,
		coverage:     k,
		basis:        basis,
	})
}
