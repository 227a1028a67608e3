package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/blocekhq/blocek/internal/cluster"
	"github.com/blocekhq/blocek/internal/common"
	"github.com/blocekhq/blocek/internal/insights"
	"github.com/blocekhq/blocek/internal/storage"
)

// openStorage opens the configured receipts database and brings its schema
// up to date.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		return nil, fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError(
			fmt.Sprintf("could not open receipts database at %s", dbPath), err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// pipelineOptions builds insight options from config.
func pipelineOptions() (insights.Options, error) {
	strategy := viper.GetString("cluster.strategy")

	var clusterer cluster.Clusterer
	switch strategy {
	case "substring":
		clusterer = cluster.Substring{}
	case "levenshtein":
		clusterer = cluster.Levenshtein{MaxDistance: viper.GetInt("cluster.max_distance")}
	default:
		return insights.Options{}, fmt.Errorf("%w: cluster strategy %q", common.ErrInvalidConfig, strategy)
	}

	return insights.Options{Clusterer: clusterer}, nil
}

// buildSnapshot loads all records and runs the pipeline once with the
// given options.
func buildSnapshot(ctx context.Context, store *storage.SQLiteStorage, opts insights.Options) (*insights.Snapshot, error) {
	lines, err := store.ListReceiptLines(ctx)
	if err != nil {
		return nil, err
	}

	return insights.Build(lines, opts), nil
}
