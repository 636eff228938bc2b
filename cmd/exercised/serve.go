package main

import (
	"github.com/spf13/cobra"

	"exercisecatalog/pkg/config"
	"exercisecatalog/pkg/server"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the exercise catalog HTTP server",
		RunE: func(_ *cobra.Command, _ []string) error {
			maxUpload, err := cfg.MaxUploadBytes()
			if err != nil {
				return err
			}

			svc, closeStores, err := openService(cfg)
			if err != nil {
				return err
			}
			defer closeStores()

			return server.NewExerciseServer(svc, maxUpload, version).Start(cfg.Addr)
		},
	}
}
