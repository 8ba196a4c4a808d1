package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quangtb/nextimg/internal/config"
	"github.com/quangtb/nextimg/internal/history"
)

func newHistoryCommand() *cobra.Command {
	var limit int
	var dbPath string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversion batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := dbPath
			if path == "" {
				path = config.DefaultHistoryPath()
			}

			store, err := history.Open(path)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No batches recorded yet.")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderHistoryTable(entries))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of batches to show")
	cmd.Flags().StringVar(&dbPath, "db", "", "History database path (defaults to the user cache directory)")

	return cmd
}
