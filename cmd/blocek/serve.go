package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blocekhq/blocek/internal/insights"
	"github.com/blocekhq/blocek/internal/server"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Build the insights snapshot and serve the HTTP API",
		Long: `Reads the full record set once, runs the derivation pipeline, and serves
the cached snapshot. The snapshot is immutable; POST /api/admin/rebuild
publishes a fresh one atomically.`,
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

			holder := insights.NewHolder(snap)
			addr := viper.GetString("server.addr")
			origins := viper.GetStringSlice("server.allowed_origins")

			slog.Info("Serving insights",
				"addr", addr,
				"build_id", snap.BuildID,
				"records", snap.Records)

			srv := server.New(holder, store, opts, origins)
			return server.Serve(ctx, addr, srv.Handler())
		},
	}
}
