package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/foxowl/internal/database"
)

func TestRunReturnsConfigErrors(t *testing.T) {
	t.Setenv("BOARD_SIZE", "9")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "app.db"))

	err := run(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid configuration")
	assert.ErrorContains(t, err, "BOARD_SIZE")
}

func TestRunMigratesAndStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	t.Setenv("DB_PATH", path)
	t.Setenv("PORT", "0")
	t.Setenv("LOG_LEVEL", "error")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, run(ctx))

	// run has closed its handle; the schema must be on disk.
	db, err := database.Open(path)
	require.NoError(t, err)
	defer db.Close()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	assert.Zero(t, n)

	var applied int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&applied))
	assert.Positive(t, applied)
}
