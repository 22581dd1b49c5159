package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team-updates",
		Short: "Team-updates is a small publishing site for team update posts",
	}
	cmd.Version = version

	cmd.AddCommand(
		newServeCmd(),
		newAuthorCmd(),
	)
	return cmd
}
