// ABOUTME: Opens the crmbridge SQLite store and applies connection tuning
// ABOUTME: WAL journal, busy timeout and a single connection shared by the CLI and MCP server
package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// BusyTimeoutMillis is how long a write waits on another process's lock
// before failing with SQLITE_BUSY.
const BusyTimeoutMillis = 5000

// dsn builds the go-sqlite3 connection string for path.
func dsn(path string) string {
	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_busy_timeout", fmt.Sprint(BusyTimeoutMillis))
	params.Set("_synchronous", "NORMAL")
	return path + "?" + params.Encode()
}

// OpenDatabase opens the store at path, creating its directory and schema
// when missing. Callers own the returned handle.
func OpenDatabase(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// one writer; refreshed tokens must be visible to the next read
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if err := InitSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
