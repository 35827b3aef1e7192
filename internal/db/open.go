package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

func wrapOpen(err error) error {
	return fmt.Errorf("open db: %w", err)
}

func isRemote(path string) bool {
	for _, scheme := range []string{"libsql://", "http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(path, scheme) {
			return true
		}
	}
	return false
}

// Open opens a local sqlite file (or ":memory:") or a remote libsql url and
// applies Schema to it.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, wrapOpen(fmt.Errorf("a path was not specified"))
	}

	if isRemote(path) {
		db, err := sql.Open("libsql", path)
		if err != nil {
			return nil, wrapOpen(err)
		}
		return migrate(db)
	}

	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0777)
		if err != nil {
			return nil, wrapOpen(err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapOpen(err)
	}
	// a single connection serializes every write, and keeps ":memory:"
	// pointing at the same database.
	db.SetMaxOpenConns(1)
	if path != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, wrapOpen(err)
		}
	}

	return migrate(db)
}

func migrate(db *sql.DB) (*sql.DB, error) {
	_, err := db.Exec(Schema)
	if err != nil {
		db.Close()
		return nil, wrapOpen(fmt.Errorf("apply schema: %w", err))
	}
	return db, nil
}
