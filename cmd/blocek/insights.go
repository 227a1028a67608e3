package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func insightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Print the derived insights payload as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			out, err := json.MarshalIndent(snap.Insights, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode insights: %w", err)
			}

			fmt.Println(string(out))
			return nil
		},
	}
}
