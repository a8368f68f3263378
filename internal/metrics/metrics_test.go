package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/desertthunder/siswa/internal/kv"
	"github.com/desertthunder/siswa/internal/shared"
	th "github.com/desertthunder/siswa/internal/testing"
)

func TestCommandCompleted(t *testing.T) {
	m := New(false)

	m.CommandCompleted("create", nil, time.Millisecond)
	m.CommandCompleted("create", nil, time.Millisecond)
	m.CommandCompleted("create", fmt.Errorf("%w: nama", shared.ErrValidation), time.Millisecond)
	m.CommandCompleted("delete", fmt.Errorf("%w: x", shared.ErrConfirmationRequired), 0)

	tests := []struct {
		op, result string
		want       float64
	}{
		{"create", "ok", 2},
		{"create", "invalid", 1},
		{"delete", "cancelled", 1},
		{"delete", "ok", 0},
	}
	for _, tt := range tests {
		t.Run(tt.op+"/"+tt.result, func(t *testing.T) {
			got := testutil.ToFloat64(m.commands.WithLabelValues(tt.op, tt.result))
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if n := testutil.CollectAndCount(m.commandDuration); n != 2 {
		t.Errorf("expected 2 duration series, got %d", n)
	}
}

func TestResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{shared.ErrValidation, "invalid"},
		{fmt.Errorf("%w: STD1", shared.ErrNotFound), "not_found"},
		{fmt.Errorf("%w: disk", shared.ErrPersistence), "persistence_error"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := result(tt.err); got != tt.want {
			t.Errorf("result(%v): expected %s, got %s", tt.err, tt.want, got)
		}
	}
}

func TestStudentsChanged(t *testing.T) {
	m := New(false)
	m.StudentsChanged(3)
	m.StudentsChanged(2)
	if got := testutil.ToFloat64(m.students); got != 2 {
		t.Errorf("expected 2, got %v", got)
	}
}

func TestInstrument(t *testing.T) {
	ctx := context.Background()
	m := New(false)
	backend := th.NewFailingKV()
	store := m.Instrument(backend)

	if store.Driver() != kv.DriverMemory {
		t.Errorf("expected driver passthrough, got %s", store.Driver())
	}
	if err := store.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	if v, ok, err := store.Get(ctx, "k"); err != nil || !ok || string(v) != "v" {
		t.Fatalf("unexpected get %q %v %v", v, ok, err)
	}
	backend.FailSets(true)
	if err := store.Set(ctx, "k", []byte("w")); !errors.Is(err, th.ErrInjected) {
		t.Fatalf("expected injected error, got %v", err)
	}

	if got := testutil.ToFloat64(m.kvOps.WithLabelValues("memory", "set", "ok")); got != 1 {
		t.Errorf("expected 1 ok set, got %v", got)
	}
	if got := testutil.ToFloat64(m.kvOps.WithLabelValues("memory", "set", "error")); got != 1 {
		t.Errorf("expected 1 failed set, got %v", got)
	}
	if got := testutil.ToFloat64(m.kvOps.WithLabelValues("memory", "get", "ok")); got != 1 {
		t.Errorf("expected 1 get, got %v", got)
	}
}

func TestHandler(t *testing.T) {
	m := New(true)
	m.StudentsChanged(4)

	h := m.InstrumentHandler(m.Handler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"siswa_students 4", "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in exposition", want)
		}
	}

	expected := `
# HELP siswa_students Records in the collection.
# TYPE siswa_students gauge
siswa_students 4
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "siswa_students"); err != nil {
		t.Error(err)
	}
}
