package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/blocekhq/blocek/internal/common"
)

func loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <receipts.csv>",
		Short: "Import a receipts CSV export into the database",
		Long: `Replaces the stored receipt lines with the contents of the given CSV
export. Rows with unparseable numeric fields are kept with those fields
null; they simply drop out of numeric aggregates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			count, err := store.ImportCSV(ctx, args[0], true)
			if err != nil {
				return err
			}
			if count == 0 {
				return fmt.Errorf("%w from %s", common.ErrNoRecords, args[0])
			}

			slog.Info("Receipts imported", "rows", count, "source", args[0])
			return nil
		},
	}
}
