// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/siswa/internal/kv"
	"github.com/desertthunder/siswa/internal/models"
)

// ErrInjected is returned by doubles configured to fail.
var ErrInjected = errors.New("injected failure")

// FailingKV wraps a [kv.Memory] and fails Get or Set on demand.
type FailingKV struct {
	*kv.Memory

	mu      sync.Mutex
	failGet bool
	failSet bool
}

func NewFailingKV() *FailingKV {
	return &FailingKV{Memory: kv.NewMemory()}
}

// FailSets makes every subsequent Set return [ErrInjected] while on is true.
func (f *FailingKV) FailSets(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSet = on
}

// FailGets makes every subsequent Get return [ErrInjected] while on is true.
func (f *FailingKV) FailGets(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGet = on
}

func (f *FailingKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return nil, false, ErrInjected
	}
	return f.Memory.Get(ctx, key)
}

func (f *FailingKV) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	fail := f.failSet
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.Memory.Set(ctx, key, value)
}

// Birthdate builds a [models.Date] or fails the test.
func Birthdate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("invalid date %q: %v", s, err)
	}
	return d
}

// Fields returns a complete, valid set of student fields named name.
func Fields(name string, class models.Class, track string) models.Fields {
	return models.Fields{
		Name:       name,
		Birthplace: "Lamongan",
		Birthdate:  models.Date{Year: 2008, Month: time.March, Day: 12},
		Age:        "16 tahun 2 bulan 2 hari",
		Class:      class,
		Track:      track,
		Address:    "Jl. Raya Paciran No. 1",
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
