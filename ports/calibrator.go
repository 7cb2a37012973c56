package ports

import (
	"context"

	"masscal/domain/calibration"
	"masscal/domain/core"
)

// CalibrationRecord is a computed result stamped with its identity.
type CalibrationRecord struct {
	ID        core.CalibrationID
	InputHash core.InputHash
	CreatedAt core.Timestamp
	Input     calibration.CalibrationInput
	Result    *calibration.CalibrationResult
}

// BatchOutcome is one item of a batch: a record or the error that stopped it.
type BatchOutcome struct {
	Index  int
	Record *CalibrationRecord
	Err    error
}

// CalibratorPort computes calibration budgets
type CalibratorPort interface {
	Calibrate(ctx context.Context, input calibration.CalibrationInput) (*CalibrationRecord, error)
	CalibrateBatch(ctx context.Context, inputs []calibration.CalibrationInput) ([]BatchOutcome, error)
}
