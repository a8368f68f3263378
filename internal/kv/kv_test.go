package kv

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/desertthunder/siswa/internal/shared"
)

// exerciseStore runs the behaviour every driver must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		v, ok, err := s.Get(ctx, "mam1_students")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok || v != nil {
			t.Errorf("expected missing key, got ok=%v value=%q", ok, v)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		want := []byte(`[{"id":"STD1"}]`)
		if err := s.Set(ctx, "mam1_students", want); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		got, ok, err := s.Get(ctx, "mam1_students")
		if err != nil || !ok {
			t.Fatalf("expected key present, got ok=%v err=%v", ok, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := s.Set(ctx, "mam1_theme", []byte("light")); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		if err := s.Set(ctx, "mam1_theme", []byte("dark")); err != nil {
			t.Fatalf("overwrite failed: %v", err)
		}
		got, _, err := s.Get(ctx, "mam1_theme")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if string(got) != "dark" {
			t.Errorf("expected dark, got %q", got)
		}
	})

	t.Run("empty value", func(t *testing.T) {
		if err := s.Set(ctx, "empty", nil); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		got, ok, err := s.Get(ctx, "empty")
		if err != nil || !ok {
			t.Fatalf("expected key present, got ok=%v err=%v", ok, err)
		}
		if len(got) != 0 {
			t.Errorf("expected empty value, got %q", got)
		}
	})

	t.Run("invalid keys", func(t *testing.T) {
		for _, key := range []string{"", "  ", "../escape", "/abs", "a\\b"} {
			if err := s.Set(ctx, key, []byte("x")); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("Set(%q): expected ErrInvalidArgument, got %v", key, err)
			}
			if _, _, err := s.Get(ctx, key); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("Get(%q): expected ErrInvalidArgument, got %v", key, err)
			}
		}
	})
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	if m.Driver() != DriverMemory {
		t.Errorf("expected memory driver, got %s", m.Driver())
	}
	exerciseStore(t, m)

	t.Run("values are copied", func(t *testing.T) {
		ctx := context.Background()
		in := []byte("abc")
		if err := m.Set(ctx, "copy", in); err != nil {
			t.Fatal(err)
		}
		in[0] = 'z'
		out, _, _ := m.Get(ctx, "copy")
		if string(out) != "abc" {
			t.Errorf("expected stored value to be isolated from caller, got %q", out)
		}
		out[1] = 'z'
		again, _, _ := m.Get(ctx, "copy")
		if string(again) != "abc" {
			t.Errorf("expected returned value to be a copy, got %q", again)
		}
	})
}

func TestFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}
	if f.Root() != dir {
		t.Errorf("expected root %s, got %s", dir, f.Root())
	}
	exerciseStore(t, f)

	t.Run("survives reopen", func(t *testing.T) {
		ctx := context.Background()
		if err := f.Set(ctx, "nested/key", []byte("v1")); err != nil {
			t.Fatal(err)
		}
		reopened, err := NewFile(dir)
		if err != nil {
			t.Fatal(err)
		}
		got, ok, err := reopened.Get(ctx, "nested/key")
		if err != nil || !ok || string(got) != "v1" {
			t.Errorf("expected v1 after reopen, got %q ok=%v err=%v", got, ok, err)
		}
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		matches, err := filepath.Glob(filepath.Join(dir, ".tmp-*"))
		if err != nil {
			t.Fatal(err)
		}
		if len(matches) != 0 {
			t.Errorf("expected no temp files, got %v", matches)
		}
	})
}

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite(ctx, shared.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	defer s.Close()

	if s.Driver() != DriverSQLite {
		t.Errorf("expected sqlite driver, got %s", s.Driver())
	}
	exerciseStore(t, s)

	t.Run("persists to disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "siswa.db")
		first, err := NewSQLite(ctx, shared.DatabaseConfig{Path: path})
		if err != nil {
			t.Fatal(err)
		}
		if err := first.Set(ctx, "mam1_theme", []byte("dark")); err != nil {
			t.Fatal(err)
		}
		first.Close()

		second, err := NewSQLite(ctx, shared.DatabaseConfig{Path: path})
		if err != nil {
			t.Fatal(err)
		}
		defer second.Close()
		got, ok, err := second.Get(ctx, "mam1_theme")
		if err != nil || !ok || string(got) != "dark" {
			t.Errorf("expected dark after reopen, got %q ok=%v err=%v", got, ok, err)
		}
	})

	t.Run("closed database errors", func(t *testing.T) {
		closed, err := NewSQLite(ctx, shared.DatabaseConfig{Path: ":memory:"})
		if err != nil {
			t.Fatal(err)
		}
		closed.Close()
		if err := closed.Set(ctx, "k", []byte("v")); err == nil {
			t.Error("expected error writing to closed database")
		}
		if _, _, err := closed.Get(ctx, "k"); err == nil {
			t.Error("expected error reading from closed database")
		}
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		cfg := shared.DefaultConfig()
		cfg.Storage.Driver = "memory"
		s, err := Open(ctx, cfg)
		if err != nil {
			t.Fatal(err)
		}
		if s.Driver() != DriverMemory {
			t.Errorf("expected memory, got %s", s.Driver())
		}
	})

	t.Run("file", func(t *testing.T) {
		cfg := shared.DefaultConfig()
		cfg.Storage.Driver = "file"
		cfg.Storage.Dir = t.TempDir()
		s, err := Open(ctx, cfg)
		if err != nil {
			t.Fatal(err)
		}
		if s.Driver() != DriverFile {
			t.Errorf("expected file, got %s", s.Driver())
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := shared.DefaultConfig()
		cfg.Database.Path = filepath.Join(t.TempDir(), "siswa.db")
		s, err := Open(ctx, cfg)
		if err != nil {
			t.Fatal(err)
		}
		defer s.Close()
		if s.Driver() != DriverSQLite {
			t.Errorf("expected sqlite, got %s", s.Driver())
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := shared.DefaultConfig()
		cfg.Storage.Driver = "redis"
		if _, err := Open(ctx, cfg); !errors.Is(err, shared.ErrUnknownDriver) {
			t.Errorf("expected ErrUnknownDriver, got %v", err)
		}
	})

	t.Run("postgres without dsn", func(t *testing.T) {
		cfg := shared.DefaultConfig()
		cfg.Storage.Driver = "postgres"
		if _, err := Open(ctx, cfg); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
