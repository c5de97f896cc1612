package database

import (
	"database/sql"
	"fmt"
	"hicm-service/internal/app/config"
	"log"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const createKeyValueTable = `CREATE TABLE IF NOT EXISTS kv_cache (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	expires_at INTEGER,
	updated_at INTEGER NOT NULL
)`

func NewSQLite(driverConfig *config.DriverConfig) *sql.DB {
	db, err := OpenSQLite(driverConfig.SQLite.Path)
	if err != nil {
		log.Fatalf("Could not open SQLite: %v", err)
	}

	log.Println("Successfully opened sqlite")
	return db
}

// OpenSQLite opens the cache database and makes sure the kv table exists.
// ":memory:" is accepted for tests.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", filepath.ToSlash(path))
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// A private :memory: database only lives on its own connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(createKeyValueTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv_cache: %w", err)
	}
	return db, nil
}
