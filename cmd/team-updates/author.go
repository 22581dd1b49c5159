package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	teamupdates "github.com/Amit-Sucher/team-updates"
)

func newAuthorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "author",
		Short: "Manage authors who can sign in and publish updates",
	}
	cmd.AddCommand(newAuthorAddCmd())
	cmd.AddCommand(newAuthorListCmd())
	return cmd
}

func withStore(fn func(*teamupdates.Store) error) error {
	cfg, err := teamupdates.ConfigFromEnv()
	if err != nil {
		return err
	}
	store, err := teamupdates.NewStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newAuthorAddCmd() *cobra.Command {
	var name string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "add <email>",
		Short: "Create one author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !passwordStdin {
				return fmt.Errorf("--password-stdin is required")
			}
			passwordBytes, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			password := strings.TrimSpace(string(passwordBytes))

			author, err := teamupdates.NewAuthor(args[0], name, password)
			if err != nil {
				return err
			}
			return withStore(func(store *teamupdates.Store) error {
				if err := store.CreateAuthor(cmd.Context(), author); err != nil {
					return err
				}
				fmt.Printf("created author %s <%s> (%s)\n", author.Name, author.Email, author.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name shown on published updates")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newAuthorListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List provisioned authors",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *teamupdates.Store) error {
				authors, err := store.ListAuthors(cmd.Context())
				if err != nil {
					return err
				}
				for _, a := range authors {
					fmt.Printf("%s\t%s\t%s\n", a.ID, a.Email, a.Name)
				}
				return nil
			})
		},
	}
}
