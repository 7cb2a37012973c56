package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"masscal/adapters/inputfile"
	"masscal/domain/calibration"
	"masscal/internal/container"
	"masscal/models"
)

func newComputeCmd() *cobra.Command {
	var readingsPath string
	var sheet string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "compute [input-file]",
		Short: "Compute the uncertainty budget for one mass piece",
		Long: `Compute the uncertainty budget for one mass piece from a YAML or JSON input file.

Readings may be given inline or taken from a .csv or .xlsx file with
"standard" and "test" columns, which replaces any inline readings.

Example: masscal compute piece-1kg.yaml --readings run-1kg.xlsx`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadEnvironment()
			if err != nil {
				return err
			}

			input, err := loadInput(cmd.Context(), c, args[0], readingsPath, sheet)
			if err != nil {
				return err
			}

			record, err := c.Calibrator.Calibrate(cmd.Context(), input)
			if err != nil {
				return err
			}

			resp := models.NewCalibrationResponse(record.ID.String(), record.InputHash.String(), record.CreatedAt.Time(), record.Result)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			printBudget(cmd.OutOrStdout(), args[0], record.Result)
			return nil
		},
	}

	cmd.Flags().StringVar(&readingsPath, "readings", "", "Readings file (.csv or .xlsx) replacing inline readings")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet to read from an .xlsx readings file (default READINGS_SHEET)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

// loadInput reads an input file and, when given, its readings file
func loadInput(ctx context.Context, c *container.Container, path, readingsPath, sheet string) (calibration.CalibrationInput, error) {
	input, err := inputfile.Load(path, c.Config.Calibration)
	if err != nil {
		return calibration.CalibrationInput{}, err
	}
	if readingsPath == "" {
		return input, nil
	}

	readings, err := c.ReadingsSource(readingsPath, sheet).LoadReadings(ctx)
	if err != nil {
		return calibration.CalibrationInput{}, err
	}
	input.StandardReadings = readings.Standard
	input.TestReadings = readings.Test
	return input, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
