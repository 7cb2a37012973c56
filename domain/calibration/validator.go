package calibration

import (
	"fmt"

	"masscal/domain/core"
)

// Validate checks the structural preconditions of an input. Numeric fields are
// not range-checked; garbage values propagate and are caught as computation
// errors if they produce non-finite results.
func Validate(in CalibrationInput) error {
	if _, err := ParseReadingUnit(string(in.Unit)); err != nil {
		return core.NewValidationError("reading_unit", err.Error(), core.ErrUnknownReadingUnit)
	}

	ns, nt := len(in.StandardReadings), len(in.TestReadings)
	if ns == 0 || nt == 0 {
		return core.NewValidationError("readings",
			fmt.Sprintf("standard and test readings must not be empty (got %d standard, %d test)", ns, nt),
			core.ErrEmptyReadings)
	}
	if ns != nt {
		return core.NewValidationError("readings",
			fmt.Sprintf("standard and test reading counts must match (got %d standard, %d test)", ns, nt),
			core.ErrReadingsMismatch)
	}
	return nil
}
