package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWithMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")

	database, err := OpenWithMigrations(path, nil)
	require.NoError(t, err)
	defer database.Close()

	// Both tables exist
	for _, table := range []string{"schema_migrations", "artworks"} {
		var name string
		err := database.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}

	// All migrations recorded
	var count int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestMigrateIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")

	database, err := OpenWithMigrations(path, nil)
	require.NoError(t, err)

	// Running migrations again is a no-op
	require.NoError(t, Migrate(database, nil))

	var count int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 2, count)
	database.Close()

	// Reopening also re-runs cleanly
	database, err = OpenWithMigrations(path, nil)
	require.NoError(t, err)
	database.Close()
}
