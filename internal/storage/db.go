// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrDatabaseError wraps low-level database failures.
var ErrDatabaseError = errors.New("database error")

// Schema creates the battle and rating tables.
const Schema = `
CREATE TABLE IF NOT EXISTS battles (
    id                     TEXT PRIMARY KEY,
    created_at             INTEGER NOT NULL,
    prompt                 TEXT NOT NULL,
    left_model_name        TEXT NOT NULL,
    left_provider_id       TEXT NOT NULL,
    right_model_name       TEXT NOT NULL,
    right_provider_id      TEXT NOT NULL,
    left_response          TEXT NOT NULL DEFAULT '',
    right_response         TEXT NOT NULL DEFAULT '',
    left_thinking_content  TEXT NOT NULL DEFAULT '',
    right_thinking_content TEXT NOT NULL DEFAULT '',
    left_duration_ms       INTEGER NOT NULL DEFAULT 0,
    right_duration_ms      INTEGER NOT NULL DEFAULT 0,
    winner                 TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_battles_created_at ON battles(created_at DESC);

CREATE TABLE IF NOT EXISTS ratings (
    model_name     TEXT PRIMARY KEY,
    elo_rating     REAL NOT NULL,
    wins           INTEGER NOT NULL DEFAULT 0,
    losses         INTEGER NOT NULL DEFAULT 0,
    ties           INTEGER NOT NULL DEFAULT 0,
    total_battles  INTEGER NOT NULL DEFAULT 0,
    last_battle_at INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_ratings_elo ON ratings(elo_rating DESC);
`

// Store is the SQLite-backed persistence layer.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the database location under the user's home
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".arena", "arena.db"), nil
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	dbDir := filepath.Dir(path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=-16000", // 16MB cache
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
		"PRAGMA wal_autocheckpoint=1000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
