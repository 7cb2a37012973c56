package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"masscal/adapters/inputfile"
	"masscal/domain/calibration"
	"masscal/internal/config"
	"masscal/internal/errors"
	"masscal/models"
)

func newBatchCmd() *cobra.Command {
	var asJSON bool
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch [input-files...]",
		Short: "Compute budgets for several mass pieces",
		Long: `Compute budgets for several input files concurrently.

A file that fails to load or compute is reported and does not stop the others.
The command exits non-zero if any piece errored or failed its MPE check.

Example: masscal batch weights/*.yaml --concurrency 8`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadEnvironment(func(cfg *config.Config) {
				if concurrency > 0 {
					cfg.Batch.Concurrency = concurrency
				}
			})
			if err != nil {
				return err
			}

			items := make([]models.BatchItemResponse, len(args))
			loadErrs := make([]error, len(args))
			inputs := make([]calibration.CalibrationInput, 0, len(args))
			positions := make([]int, 0, len(args))
			for i, path := range args {
				items[i].Index = i
				input, err := inputfile.Load(path, c.Config.Calibration)
				if err != nil {
					loadErrs[i] = err
					continue
				}
				inputs = append(inputs, input)
				positions = append(positions, i)
			}

			outcomes, err := c.Calibrator.CalibrateBatch(cmd.Context(), inputs)
			if err != nil {
				return errors.Wrap(err, "batch interrupted")
			}

			summary := models.BatchCalibrationResponse{}
			for i, err := range loadErrs {
				if err != nil {
					items[i].Error = &models.ErrorResponse{Code: errors.GetCode(err), Message: err.Error()}
				}
			}
			for j, outcome := range outcomes {
				i := positions[j]
				if outcome.Err != nil {
					items[i].Error = &models.ErrorResponse{Code: errors.GetCode(outcome.Err), Message: outcome.Err.Error()}
					continue
				}
				resp := models.NewCalibrationResponse(outcome.Record.ID.String(), outcome.Record.InputHash.String(),
					outcome.Record.CreatedAt.Time(), outcome.Record.Result)
				items[i].Result = &resp
			}
			for _, item := range items {
				switch {
				case item.Error != nil:
					summary.Errors++
				case item.Result.Verdict == string(calibration.VerdictPass):
					summary.Passed++
				default:
					summary.Failed++
				}
			}
			summary.Items = items

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, summary); err != nil {
					return err
				}
			} else {
				printBatch(out, args, summary)
			}

			if summary.Errors > 0 || summary.Failed > 0 {
				return fmt.Errorf("%d passed, %d failed, %d errored", summary.Passed, summary.Failed, summary.Errors)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Concurrent computations (default BATCH_CONCURRENCY)")

	return cmd
}
