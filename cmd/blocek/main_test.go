package main

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blocekhq/blocek/internal/cluster"
	"github.com/blocekhq/blocek/internal/common"
)

func setConfig(t *testing.T, values map[string]any) {
	t.Helper()

	viper.Reset()
	for k, v := range values {
		viper.Set(k, v)
	}
	t.Cleanup(viper.Reset)
}

func TestSetupLogging(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr error
	}{
		{name: "defaults", level: "info", format: "console"},
		{name: "debug json", level: "debug", format: "json"},
		{name: "bad level", level: "loud", format: "console", wantErr: common.ErrInvalidConfig},
		{name: "bad format", level: "info", format: "xml", wantErr: common.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setConfig(t, map[string]any{
				"logging.level":  tt.level,
				"logging.format": tt.format,
			})

			err := setupLogging()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPipelineOptions(t *testing.T) {
	t.Run("substring", func(t *testing.T) {
		setConfig(t, map[string]any{"cluster.strategy": "substring"})

		opts, err := pipelineOptions()
		require.NoError(t, err)
		assert.IsType(t, cluster.Substring{}, opts.Clusterer)
	})

	t.Run("levenshtein", func(t *testing.T) {
		setConfig(t, map[string]any{
			"cluster.strategy":     "levenshtein",
			"cluster.max_distance": 2,
		})

		opts, err := pipelineOptions()
		require.NoError(t, err)
		lev, ok := opts.Clusterer.(cluster.Levenshtein)
		require.True(t, ok)
		assert.Equal(t, 2, lev.MaxDistance)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		setConfig(t, map[string]any{"cluster.strategy": "phonetic"})

		_, err := pipelineOptions()
		require.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func TestOpenStorage_MissingPath(t *testing.T) {
	setConfig(t, map[string]any{"database.path": ""})

	_, err := openStorage(context.Background())
	require.ErrorIs(t, err, common.ErrMissingConfig)
}
