package main

import (
	"fmt"

	"github.com/spf13/cobra"

	teamupdates "github.com/Amit-Sucher/team-updates"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := teamupdates.ConfigFromEnv()
			if err != nil {
				return err
			}
			if cfg.SessionSecret == "" {
				return fmt.Errorf("SESSION_SECRET environment variable is required")
			}
			app := teamupdates.New(cfg)
			defer app.Close()
			return app.Start()
		},
	}
}
