package kv

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/desertthunder/siswa/internal/shared"
)

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("SIWA_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SIWA_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	p, err := NewPostgres(ctx, shared.PostgresConfig{DSN: dsn, Table: "siswa_kv_test"})
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer p.Close()
	t.Cleanup(func() { _, _ = p.DB().ExecContext(ctx, `DROP TABLE IF EXISTS siswa_kv_test`) })

	_, _ = p.DB().ExecContext(ctx, `DELETE FROM siswa_kv_test`)
	exerciseStore(t, p)
}

func TestNewPostgresConfigErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := NewPostgres(ctx, shared.PostgresConfig{}); !errors.Is(err, shared.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for empty dsn, got %v", err)
	}

	_, err := NewPostgres(ctx, shared.PostgresConfig{DSN: "postgres://localhost/x", Table: "kv; DROP TABLE x"})
	if !errors.Is(err, shared.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for bad table name, got %v", err)
	}
}
