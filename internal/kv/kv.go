package kv

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/siswa/internal/shared"
)

// Driver identifies a concrete backend.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverFile     Driver = "file"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverS3       Driver = "s3"
)

// Store is a byte-oriented key-value store.
type Store interface {
	// Get returns the value under key; ok is false when the key was never set.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set replaces the value under key.
	Set(ctx context.Context, key string, value []byte) error
	// Driver reports the backend kind.
	Driver() Driver
	// Close releases connections held by the backend.
	Close() error
}

// Open builds the [Store] selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *shared.Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch Driver(cfg.Storage.Driver) {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		return NewFile(cfg.Storage.Dir)
	case DriverSQLite:
		return NewSQLite(ctx, cfg.Database)
	case DriverPostgres:
		return NewPostgres(ctx, cfg.Postgres)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownDriver, cfg.Storage.Driver)
	}
}

// validateKey rejects keys that cannot be mapped safely onto every backend.
func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty key", shared.ErrInvalidArgument)
	}
	if strings.Contains(key, "..") || strings.HasPrefix(key, "/") || strings.ContainsAny(key, "\\\x00") {
		return fmt.Errorf("%w: invalid key %q", shared.ErrInvalidArgument, key)
	}
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
