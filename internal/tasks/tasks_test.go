package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/siswa/internal/formatter"
	"github.com/desertthunder/siswa/internal/kv"
	"github.com/desertthunder/siswa/internal/models"
	th "github.com/desertthunder/siswa/internal/testing"
)

var printed = time.Date(2024, time.May, 14, 10, 0, 0, 0, time.UTC)

func students(names ...string) []models.Student {
	out := make([]models.Student, len(names))
	for i, n := range names {
		id := "STD0000000000000000000000000" + string(rune('a'+i))
		out[i] = models.NewStudent(id, th.Fields(n, models.ClassX, "IPA"), printed)
	}
	return out
}

// selectiveSink fails writes for keys containing a marker.
type selectiveSink struct {
	*kv.Memory
	mu     sync.Mutex
	failOn string
	keys   []string
}

func (s *selectiveSink) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.keys = append(s.keys, key)
	s.mu.Unlock()
	if s.failOn != "" && strings.Contains(key, s.failOn) {
		return errors.New("disk full")
	}
	return s.Memory.Set(ctx, key, value)
}

func TestParseSlipFormat(t *testing.T) {
	for in, want := range map[string]SlipFormat{"": SlipPDF, "pdf": SlipPDF, "text": SlipText, "txt": SlipText} {
		got, err := ParseSlipFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseSlipFormat(%q) = %s, %v; want %s", in, got, err, want)
		}
	}
	if _, err := ParseSlipFormat("docx"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	sink := kv.NewMemory()
	engine := NewSlipEngine(sink, formatter.SlipOptions{Now: printed}, nil)
	st := students("Siti Aminah")[0]

	t.Run("pdf", func(t *testing.T) {
		key, err := engine.Export(ctx, st, SlipPDF)
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if key != "Bukti_Pendaftaran_Siti_Aminah.pdf" {
			t.Errorf("unexpected key %q", key)
		}
		data, ok, _ := sink.Get(ctx, key)
		if !ok || !bytes.HasPrefix(data, []byte("%PDF-")) {
			t.Error("expected PDF written to sink")
		}
	})

	t.Run("text", func(t *testing.T) {
		key, err := engine.Export(ctx, st, SlipText)
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if key != "Bukti_Pendaftaran_Siti_Aminah.txt" {
			t.Errorf("unexpected key %q", key)
		}
		data, _, _ := sink.Get(ctx, key)
		if !strings.Contains(string(data), formatter.RegistrationNumber(st.ID)) {
			t.Errorf("expected registration number in text slip:\n%s", data)
		}
	})

	t.Run("sink failure", func(t *testing.T) {
		failing := th.NewFailingKV()
		failing.FailSets(true)
		_, err := NewSlipEngine(failing, formatter.SlipOptions{}, nil).Export(ctx, st, SlipText)
		if !errors.Is(err, th.ErrInjected) {
			t.Errorf("expected injected error, got %v", err)
		}
	})
}

func TestBulkExport(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		students    []models.Student
		format      SlipFormat
		failOn      string
		wantSuccess int
		wantFailed  int
	}{
		{name: "empty collection", students: nil, format: SlipPDF},
		{name: "single pdf", students: students("Ani"), format: SlipPDF, wantSuccess: 1},
		{name: "many text", students: students("Ani", "Budi", "Citra", "Dewi", "Eko"), format: SlipText, wantSuccess: 5},
		{name: "partial failure", students: students("Ani", "Budi", "Citra"), format: SlipText, failOn: "Budi", wantSuccess: 2, wantFailed: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &selectiveSink{Memory: kv.NewMemory(), failOn: tt.failOn}
			engine := NewSlipEngine(sink, formatter.SlipOptions{Now: printed}, nil)
			prog := make(chan ProgressUpdate, 64)

			result, err := engine.BulkExport(ctx, prog, tt.students, BulkExportOpts{Format: tt.format, NumWorkers: 3, RateLimit: 1000})
			if err != nil {
				t.Fatalf("bulk export failed: %v", err)
			}
			if result.Total != len(tt.students) || result.Successful != tt.wantSuccess || result.Failed != tt.wantFailed {
				t.Errorf("expected total=%d ok=%d failed=%d, got %+v", len(tt.students), tt.wantSuccess, tt.wantFailed, result)
			}

			for i, res := range result.Results {
				if res.StudentID != tt.students[i].ID {
					t.Errorf("result %d out of order: %s", i, res.StudentID)
				}
				if res.Success == (res.Error != nil) {
					t.Errorf("result %d inconsistent: success=%v err=%v", i, res.Success, res.Error)
				}
			}

			raw, ok, _ := sink.Get(ctx, ManifestKey)
			if !ok {
				t.Fatal("expected manifest written")
			}
			var manifest BulkExportResult
			if err := json.Unmarshal(raw, &manifest); err != nil {
				t.Fatalf("manifest is not JSON: %v", err)
			}
			if manifest.Total != result.Total || manifest.Failed != tt.wantFailed {
				t.Errorf("manifest mismatch: %+v", manifest)
			}
			if tt.wantFailed > 0 && !strings.Contains(string(raw), "disk full") {
				t.Error("expected failure reason in manifest")
			}

			close(prog)
			var phases []Phase
			for u := range prog {
				phases = append(phases, u.Phase)
			}
			if len(phases) == 0 || phases[len(phases)-1] != WriteManifest {
				t.Errorf("expected progress to end with manifest, got %v", phases)
			}
		})
	}
}

func TestBulkExportDuplicateNames(t *testing.T) {
	ctx := context.Background()
	sink := kv.NewMemory()
	engine := NewSlipEngine(sink, formatter.SlipOptions{Now: printed}, nil)
	list := students("Ani", "Ani", "Budi")

	result, err := engine.BulkExport(ctx, nil, list, BulkExportOpts{Format: SlipText, RateLimit: 1000})
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{}
	for _, res := range result.Results {
		if seen[res.Key] {
			t.Errorf("duplicate key %s", res.Key)
		}
		seen[res.Key] = true
	}
	if result.Results[2].Key != "Bukti_Pendaftaran_Budi.txt" {
		t.Errorf("expected unique name to keep plain key, got %s", result.Results[2].Key)
	}
	if !strings.HasPrefix(result.Results[0].Key, "Bukti_Pendaftaran_Ani_REG-") {
		t.Errorf("expected registration suffix, got %s", result.Results[0].Key)
	}
	if sink.Keys() != 4 {
		t.Errorf("expected 3 slips and a manifest, got %d keys", sink.Keys())
	}
}

func TestBulkExportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := kv.NewMemory()
	engine := NewSlipEngine(sink, formatter.SlipOptions{Now: printed}, nil)
	result, err := engine.BulkExport(ctx, nil, students("Ani", "Budi"), BulkExportOpts{Format: SlipText})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.Successful != 0 {
		t.Errorf("expected nothing exported, got %d", result.Successful)
	}
	if _, ok, _ := sink.Get(context.Background(), ManifestKey); ok {
		t.Error("expected no manifest for cancelled export")
	}
}

func TestPhaseString(t *testing.T) {
	for p, want := range map[Phase]string{QueueSlips: "queue_slips", RenderSlip: "render_slip", WriteManifest: "write_manifest", Phase(99): ""} {
		if p.String() != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, p.String(), want)
		}
	}
}
