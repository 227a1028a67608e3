package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blocekhq/blocek/internal/aggregate"
)

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <year|week|month|YYYY-MM-DD>",
		Short: "Print a period spending aggregate as JSON",
		Long: `Prints whole-unit spending totals for the requested period grouping:
per calendar year, per weekday, per month of year, or for one exact date.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			opts, err := pipelineOptions()
			if err != nil {
				return err
			}

			snap, err := buildSnapshot(ctx, store, opts)
			if err != nil {
				return err
			}

			var payload any
			switch args[0] {
			case "year":
				payload = snap.ByYear
			case "week":
				payload = snap.ByWeekday
			case "month":
				payload = snap.ByMonth
			default:
				if _, err := time.Parse(aggregate.DateKey, args[0]); err != nil {
					return fmt.Errorf("invalid period %q: want year, week, month, or YYYY-MM-DD", args[0])
				}
				payload = map[string]any{
					"date":  args[0],
					"total": snap.TotalByDate(args[0]),
				}
			}

			out, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode report: %w", err)
			}

			fmt.Println(string(out))
			return nil
		},
	}
}
