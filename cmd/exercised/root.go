package main

import (
	"github.com/spf13/cobra"

	"exercisecatalog/pkg/config"
	"exercisecatalog/pkg/log"
)

func newRootCmd() *cobra.Command {
	var (
		cfg        config.Config
		configPath string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:           "exercised",
		Short:         "Catalog of uploaded exercise files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = *loaded

			if err := log.SetLevel(cfg.LogLevel); err != nil {
				return err
			}
			if debug {
				log.SetDebugMode()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "exercises.yaml", "path to the yaml config file")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newServeCmd(&cfg),
		newDriftCmd(&cfg),
		newPruneCmd(&cfg),
		newRemoteCmd(&cfg),
	)

	return cmd
}
