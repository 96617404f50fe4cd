package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxifleet/config"
	"taxifleet/pkg/logger"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		stg, err := New(ctx, config.Config{DBDriver: config.DriverMemory}, logger.NewNop())
		require.NoError(t, err)
		defer stg.Close()
		n, err := stg.Manufacturer().Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := config.Config{DBDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "fleet.db")}
		stg, err := New(ctx, cfg, logger.NewNop())
		require.NoError(t, err)
		defer stg.Close()
		n, err := stg.Car().Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := New(ctx, config.Config{DBDriver: "oracle"}, logger.NewNop())
		assert.Error(t, err)
	})
}
