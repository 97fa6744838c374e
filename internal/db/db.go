package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// connPragmas are applied by the driver to every new pooled connection.
var connPragmas = []string{"busy_timeout(2000)", "journal_mode(WAL)"}

// dsn carries the pragmas in the connection string; a PRAGMA run through
// Exec would reach only one connection of the pool.
func dsn(path string) string {
	q := url.Values{}
	for _, p := range connPragmas {
		q.Add("_pragma", p)
	}
	if path == MemoryPath {
		return path + "?" + q.Encode()
	}
	return "file:" + path + "?" + q.Encode()
}

// OpenDB opens the local preference database at path, creating the parent
// directory when needed. Every connection gets WAL mode and a busy timeout
// so two trygginn processes can share the file. Migrations run last.
func OpenDB(path string) (*sql.DB, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == MemoryPath {
		// every pooled connection would otherwise get its own empty database
		conn.SetMaxOpenConns(1)
	}

	if err := Migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return conn, nil
}
