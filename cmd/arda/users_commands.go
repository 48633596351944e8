package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"arda/internal/users"
)

func newUsersCommand(load configLoader) *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage registered users",
	}

	usersCmd.AddCommand(newUsersListCommand(load))
	usersCmd.AddCommand(newUsersAddCommand(load))

	return usersCmd
}

func newUsersListCommand(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered users",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			store, err := users.Open(cfg)
			if err != nil {
				return fmt.Errorf("open user store: %w", err)
			}
			defer store.Close()

			listed, err := store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list users: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(listed) == 0 {
				fmt.Fprintln(out, "No users registered.")
				return nil
			}

			headers := []string{"ID", "Name", "Mood", "Genre", "Created"}
			rows := make([][]string, 0, len(listed))
			for _, user := range listed {
				rows = append(rows, []string{
					user.ID,
					user.Name,
					user.Mood,
					user.Genre,
					user.CreatedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(out, renderTable(headers, rows, nil))
			return nil
		},
	}
}

func newUsersAddCommand(load configLoader) *cobra.Command {
	var mood string
	var genre string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			store, err := users.Open(cfg)
			if err != nil {
				return fmt.Errorf("open user store: %w", err)
			}
			defer store.Close()

			user, err := store.Create(cmd.Context(), args[0], mood, genre)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", user.Name, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&mood, "mood", "", "Mood to store with the user")
	cmd.Flags().StringVar(&genre, "genre", "", "Genre to store with the user")
	return cmd
}
