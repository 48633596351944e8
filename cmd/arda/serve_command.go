package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"arda/internal/daemonrun"
)

func newServeCommand(load configLoader) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the overlay daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{LogLevel: logLevel})
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	return cmd
}
