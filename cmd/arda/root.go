package main

import (
	"github.com/spf13/cobra"

	"arda/internal/config"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "arda",
		Short:         "Personalized video overlay daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	loadConfig := func() (*config.Config, string, bool, error) {
		return config.Load(configFlag)
	}

	rootCmd.AddCommand(newServeCommand(loadConfig))
	rootCmd.AddCommand(newConfigCommand(loadConfig))
	rootCmd.AddCommand(newUsersCommand(loadConfig))

	return rootCmd
}

// configLoader defers config resolution until a command actually runs, so
// flag parsing has finished by then.
type configLoader func() (*config.Config, string, bool, error)
