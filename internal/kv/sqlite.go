package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/siswa/internal/shared"
)

// SQLite stores keys in the migrated kv table of a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (and migrates) the database described by cfg.
func NewSQLite(ctx context.Context, cfg shared.DatabaseConfig) (*SQLite, error) {
	db, err := shared.OpenMigrated(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// NewSQLiteFromDB wraps an already migrated database handle.
func NewSQLiteFromDB(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) Driver() Driver { return DriverSQLite }

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}

	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}

	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }
