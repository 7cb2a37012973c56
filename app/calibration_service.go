package app

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"masscal/domain/calibration"
	"masscal/domain/core"
	"masscal/internal"
	"masscal/ports"
)

// ComputeFunc computes one calibration budget.
type ComputeFunc func(calibration.CalibrationInput) (*calibration.CalibrationResult, error)

// CalibrationService stamps, logs and fans out calibration computations
type CalibrationService struct {
	compute     ComputeFunc
	logger      *internal.Logger
	concurrency int
	now         func() time.Time
}

// NewCalibrationService creates a calibration service. concurrency bounds
// CalibrateBatch; values below 1 mean one at a time.
func NewCalibrationService(logger *internal.Logger, concurrency int) *CalibrationService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &CalibrationService{
		compute:     calibration.Compute,
		logger:      logger,
		concurrency: concurrency,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var _ ports.CalibratorPort = (*CalibrationService)(nil)

// Calibrate computes one budget. Domain errors are returned unchanged so
// callers can report validation messages verbatim.
func (s *CalibrationService) Calibrate(ctx context.Context, input calibration.CalibrationInput) (*ports.CalibrationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	id := core.NewCalibrationID()
	hash := fingerprint(input)
	log := s.logger.WithFields(map[string]interface{}{
		"calibration_id": id.String(),
		"input_hash":     core.Hash(hash).Short(),
		"readings":       len(input.TestReadings),
	})

	if input.CapacityG > 0 && input.NominalMassKg*1000.0 > input.CapacityG {
		log.Warn("nominal load %.3f g exceeds scale capacity %.3f g", input.NominalMassKg*1000.0, input.CapacityG)
	}

	result, err := s.compute(input)
	if err != nil {
		var cerr *core.ComputationError
		switch {
		case core.IsValidationError(err):
			log.Warn("calibration rejected: %v", err)
		case errors.As(err, &cerr):
			log.Error("calibration computation failed: %s", cerr.Detail)
		default:
			log.Error("calibration failed: %v", err)
		}
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"verdict":    string(result.Verdict),
		"runtime_ms": time.Since(startTime).Milliseconds(),
	}).Info("calibration computed: correction %.4f mg, U %.4f mg (k=%.4f)",
		result.CorrectionMg, result.ExpandedUncertaintyMg, result.CoverageFactor)

	return &ports.CalibrationRecord{
		ID:        id,
		InputHash: hash,
		CreatedAt: core.NewTimestamp(s.now()),
		Input:     input,
		Result:    result,
	}, nil
}

// CalibrateBatch computes every input with bounded concurrency. A failing
// item does not stop the others; only context cancellation does, in which
// case the remaining items carry the context error.
func (s *CalibrationService) CalibrateBatch(ctx context.Context, inputs []calibration.CalibrationInput) ([]ports.BatchOutcome, error) {
	outcomes := make([]ports.BatchOutcome, len(inputs))
	for i := range outcomes {
		outcomes[i].Index = i
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i].Err = err
				return err
			}
			record, err := s.Calibrate(gctx, inputs[i])
			outcomes[i].Record = record
			outcomes[i].Err = err
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for i := range outcomes {
			if outcomes[i].Record == nil && outcomes[i].Err == nil {
				outcomes[i].Err = err
			}
		}
		return outcomes, err
	}

	s.logger.Info("batch of %d calibrations computed", len(inputs))
	return outcomes, nil
}

func fingerprint(in calibration.CalibrationInput) core.InputHash {
	return core.ComputeInputHash(string(in.Unit), []float64{
		in.ReferenceMassG,
		in.ReferenceUncertaintyMg,
		in.ReferenceCoverage,
		in.NominalMassKg,
		in.TestDensityKgM,
		in.ResolutionMg,
		in.CapacityG,
		in.MPEMg,
	}, in.StandardReadings, in.TestReadings)
}
