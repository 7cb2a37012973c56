package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"masscal/internal/config"
	"masscal/internal/container"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "masscal",
		Short:         "Mass calibration uncertainty budgets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newComputeCmd(),
		newBatchCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadEnvironment reads configuration, applies flag overrides and wires
// the application. Logs go to stderr so stdout stays parseable.
func loadEnvironment(overrides ...func(*config.Config)) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	for _, override := range overrides {
		override(cfg)
	}
	return container.New(cfg, os.Stderr)
}
