package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/desertthunder/siswa/internal/shared"
)

const (
	postgresDriver = "pgx"
	defaultTable   = "siswa_kv"
)

var (
	sqlOpen   = sql.Open
	openMu    sync.Mutex
	tableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// Postgres stores keys in a single table reached through pgx's database/sql driver.
type Postgres struct {
	db    *sql.DB
	table string
}

// NewPostgres connects to cfg.DSN and ensures the kv table exists.
func NewPostgres(ctx context.Context, cfg shared.PostgresConfig) (*Postgres, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("%w: postgres.dsn is required", shared.ErrInvalidConfig)
	}
	table := cfg.Table
	if table == "" {
		table = defaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%w: invalid postgres table name %q", shared.ErrInvalidConfig, table)
	}

	openMu.Lock()
	db, err := sqlOpen(postgresDriver, cfg.DSN)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	p := &Postgres{db: db, table: table}
	if err := p.ensureTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) ensureTable(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key TEXT PRIMARY KEY,
		value BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, p.table)
	if _, err := p.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure kv table: %w", err)
	}
	return nil
}

func (p *Postgres) Driver() Driver { return DriverPostgres }

// DB exposes the underlying handle for integration tests.
func (p *Postgres) DB() *sql.DB { return p.db }

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}

	var value []byte
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, p.table)
	err := p.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %s: %w", key, err)
	}
	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, p.table)
	if _, err := p.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Close() error { return p.db.Close() }
