package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/siswa/internal/kv"
	"github.com/desertthunder/siswa/internal/models"
	"github.com/desertthunder/siswa/internal/shared"
	tu "github.com/desertthunder/siswa/internal/testing"
)

func TestStudentRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Load empty", func(t *testing.T) {
		repo := NewStudentRepository(kv.NewMemory())
		students, err := repo.Load(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if students == nil || len(students) != 0 {
			t.Errorf("expected empty non-nil collection, got %#v", students)
		}
	})

	t.Run("Save and Load preserve order and fields", func(t *testing.T) {
		repo := NewStudentRepository(kv.NewMemory())
		registered := time.Date(2024, time.January, 2, 8, 30, 0, 0, time.UTC)
		want := []models.Student{
			models.NewStudent("STDb", tu.Fields("Budi", models.ClassXI, "IPA"), registered),
			models.NewStudent("STDa", tu.Fields("Ani", models.ClassX, "IPS"), registered.Add(time.Hour)),
		}

		if err := repo.Save(ctx, want); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		got, err := repo.Load(ctx)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d students, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i].ID != want[i].ID || got[i].Name != want[i].Name {
				t.Errorf("index %d: expected %s/%s, got %s/%s", i, want[i].ID, want[i].Name, got[i].ID, got[i].Name)
			}
			if !got[i].RegisteredAt.Equal(want[i].RegisteredAt) {
				t.Errorf("index %d: registeredAt changed: %v != %v", i, got[i].RegisteredAt, want[i].RegisteredAt)
			}
			if got[i].Birthdate != want[i].Birthdate {
				t.Errorf("index %d: birthdate changed: %v != %v", i, got[i].Birthdate, want[i].Birthdate)
			}
			if got[i].Age != want[i].Age {
				t.Errorf("index %d: cached age changed: %q != %q", i, got[i].Age, want[i].Age)
			}
		}
	})

	t.Run("Save nil writes an empty array", func(t *testing.T) {
		store := kv.NewMemory()
		repo := NewStudentRepository(store)
		if err := repo.Save(ctx, nil); err != nil {
			t.Fatal(err)
		}
		raw, _, _ := store.Get(ctx, StudentsKey)
		if string(raw) != "[]" {
			t.Errorf("expected [], got %s", raw)
		}
	})

	t.Run("Load decodes the stored layout", func(t *testing.T) {
		store := kv.NewMemory()
		raw := `[{"id":"STD1","name":"Siti","birthplace":"Tuban","birthdate":"15/05/2010","age":"13 tahun 11 bulan 29 hari","class":"X","track":"IPA","address":"Paciran","registeredAt":"2024-05-14T10:00:00Z"}]`
		if err := store.Set(ctx, StudentsKey, []byte(raw)); err != nil {
			t.Fatal(err)
		}
		got, err := NewStudentRepository(store).Load(ctx)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(got) != 1 || got[0].Birthdate.String() != "15/05/2010" || got[0].Class != models.ClassX {
			t.Errorf("unexpected decode: %#v", got)
		}
	})

	t.Run("Load malformed", func(t *testing.T) {
		store := kv.NewMemory()
		_ = store.Set(ctx, StudentsKey, []byte("{not json"))
		if _, err := NewStudentRepository(store).Load(ctx); !errors.Is(err, shared.ErrPersistence) {
			t.Errorf("expected ErrPersistence, got %v", err)
		}
	})

	t.Run("storage failures", func(t *testing.T) {
		store := tu.NewFailingKV()
		repo := NewStudentRepository(store)

		store.FailSets(true)
		if err := repo.Save(ctx, []models.Student{}); !errors.Is(err, shared.ErrPersistence) {
			t.Errorf("expected ErrPersistence on save, got %v", err)
		}
		store.FailGets(true)
		if _, err := repo.Load(ctx); !errors.Is(err, shared.ErrPersistence) {
			t.Errorf("expected ErrPersistence on load, got %v", err)
		}
	})
}

func TestThemeRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to light", func(t *testing.T) {
		theme, err := NewThemeRepository(kv.NewMemory()).Load(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if theme != ThemeLight {
			t.Errorf("expected light, got %s", theme)
		}
	})

	t.Run("Toggle round trip", func(t *testing.T) {
		store := kv.NewMemory()
		repo := NewThemeRepository(store)

		next, err := repo.Toggle(ctx)
		if err != nil || next != ThemeDark {
			t.Fatalf("expected dark, got %s (%v)", next, err)
		}
		raw, _, _ := store.Get(ctx, ThemeKey)
		if string(raw) != "dark" {
			t.Errorf("expected stored dark, got %q", raw)
		}

		next, err = repo.Toggle(ctx)
		if err != nil || next != ThemeLight {
			t.Errorf("expected light, got %s (%v)", next, err)
		}
	})

	t.Run("unknown stored value falls back to light", func(t *testing.T) {
		store := kv.NewMemory()
		_ = store.Set(ctx, ThemeKey, []byte("solarized"))
		theme, err := NewThemeRepository(store).Load(ctx)
		if err != nil || theme != ThemeLight {
			t.Errorf("expected light, got %s (%v)", theme, err)
		}
	})

	t.Run("Toggle keeps the old value on failure", func(t *testing.T) {
		store := tu.NewFailingKV()
		repo := NewThemeRepository(store)
		store.FailSets(true)
		theme, err := repo.Toggle(ctx)
		if !errors.Is(err, shared.ErrPersistence) {
			t.Errorf("expected ErrPersistence, got %v", err)
		}
		if theme != ThemeLight {
			t.Errorf("expected light to be reported, got %s", theme)
		}
	})
}

func TestParseTheme(t *testing.T) {
	tests := map[string]Theme{"dark": ThemeDark, " DARK ": ThemeDark, "light": ThemeLight, "": ThemeLight, "x": ThemeLight}
	for in, want := range tests {
		if got := ParseTheme(in); got != want {
			t.Errorf("ParseTheme(%q) = %s, want %s", in, got, want)
		}
	}
}
