package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"masscal/internal/config"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:           "serve",
		Short:         "Serve the calibration HTTP API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadEnvironment(func(cfg *config.Config) {
				if port != "" {
					cfg.Server.Port = port
				}
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return c.Server.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (default PORT)")

	return cmd
}
