package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/phish-sieve/internal/cli"
	"github.com/Veraticus/phish-sieve/internal/config"
	"github.com/Veraticus/phish-sieve/internal/storage"
)

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print detection and feedback counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			dbPath := config.ExpandPath(viper.GetString("database.path"))
			store, err := storage.NewSQLiteStorage(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(ctx); err != nil {
				return err
			}

			detections, err := store.CountDetections(ctx)
			if err != nil {
				return err
			}
			feedback, err := store.CountFeedback(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, cli.FormatTitle("Database Summary"))
			fmt.Fprintf(out, "Total detections: %d\n", detections)
			fmt.Fprintf(out, "False positives: %d\n", feedback)
			return nil
		},
	}
}
