package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxifleet/config"
	"taxifleet/pkg/logger"
	"taxifleet/storage/sqlite"
)

// run executes the CLI against a sqlite file in a temp dir.
func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DB_DRIVER", config.DriverSQLite)
	t.Setenv("SQLITE_PATH", dbPath)
	t.Setenv("LOGGER_LEVEL", "error")

	var out bytes.Buffer
	cmd, a := newRootCmd()
	defer a.close()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCreateDriver(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fleet.db")

	out, err := run(t, dbPath, "createdriver", "--username", "admin", "--password", "adminpass1", "--license", "ADM00001")
	require.NoError(t, err)
	assert.Contains(t, out, `created driver "admin"`)

	out, err = run(t, dbPath, "createdriver", "--username", "admin", "--password", "adminpass1", "--license", "bad")
	require.Error(t, err)
	assert.Contains(t, out, "username: A user with that username already exists.")
	assert.Contains(t, out, "license_number: License number must consist")

	stg, err := sqlite.New(context.Background(), dbPath, logger.NewNop())
	require.NoError(t, err)
	defer stg.Close()
	d, err := stg.Driver().GetByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "ADM00001", d.LicenseNumber)
}

func TestSeedIsIdempotentAndResetWipes(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fleet.db")

	out, err := run(t, dbPath, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 9 cars")

	out, err = run(t, dbPath, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 0 cars")

	_, err = run(t, dbPath, "resetdb")
	require.Error(t, err)

	_, err = run(t, dbPath, "resetdb", "--yes")
	require.NoError(t, err)

	stg, err := sqlite.New(context.Background(), dbPath, logger.NewNop())
	require.NoError(t, err)
	defer stg.Close()
	count, err := stg.Manufacturer().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMigrate(t *testing.T) {
	out, err := run(t, filepath.Join(t.TempDir(), "fleet.db"), "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrated sqlite store")
}
