package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func userVersion(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var v int
	require.NoError(t, conn.QueryRow(`PRAGMA user_version`).Scan(&v))
	return v
}

func TestMigrate_Idempotent(t *testing.T) {
	conn := openTestDB(t)

	require.NoError(t, Migrate(conn))
	require.NoError(t, Migrate(conn))
	assert.Equal(t, SchemaVersion(), userVersion(t, conn))
}

func TestMigrate_CreatesPreferencesTable(t *testing.T) {
	conn := openTestDB(t)

	var name string
	err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='preferences'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "preferences", name)
}

func TestOpenDB_FileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "trygginn.db")

	conn, err := OpenDB(path)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO preferences (key, value, updated_at) VALUES ('theme', 'dark', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	conn, err = OpenDB(path)
	require.NoError(t, err)
	defer conn.Close()

	var v string
	require.NoError(t, conn.QueryRow(`SELECT value FROM preferences WHERE key='theme'`).Scan(&v))
	assert.Equal(t, "dark", v)
	assert.Equal(t, SchemaVersion(), userVersion(t, conn))
}

func TestOpenDB_EveryConnectionHasBusyTimeout(t *testing.T) {
	conn, err := OpenDB(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	ctx := context.Background()

	// Holding each connection forces the pool to open a new one.
	var held []*sql.Conn
	for i := 0; i < 3; i++ {
		c, err := conn.Conn(ctx)
		require.NoError(t, err)
		held = append(held, c)

		var timeout int
		require.NoError(t, c.QueryRowContext(ctx, `PRAGMA busy_timeout`).Scan(&timeout))
		assert.Equal(t, 2000, timeout, "connection %d", i)

		var mode string
		require.NoError(t, c.QueryRowContext(ctx, `PRAGMA journal_mode`).Scan(&mode))
		assert.Equal(t, "wal", mode, "connection %d", i)
	}
	for _, c := range held {
		c.Close()
	}
}
