package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestAgeAt(t *testing.T) {
	tc := []struct {
		name  string
		birth Date
		today Date
		want  string
	}{
		{
			name:  "one day short of a birthday borrows across the month boundary",
			birth: Date{2010, time.May, 15},
			today: Date{2024, time.May, 14},
			want:  "13 tahun 11 bulan 29 hari",
		},
		{
			name:  "exact birthday",
			birth: Date{2010, time.May, 15},
			today: Date{2024, time.May, 15},
			want:  "14 tahun 0 bulan 0 hari",
		},
		{
			name:  "borrows february length in a leap year",
			birth: Date{2008, time.January, 31},
			today: Date{2024, time.March, 1},
			want:  "16 tahun 0 bulan 30 hari",
		},
		{
			name:  "borrows february length in a common year",
			birth: Date{2008, time.January, 31},
			today: Date{2023, time.March, 1},
			want:  "15 tahun 0 bulan 29 hari",
		},
		{
			name:  "month borrow only",
			birth: Date{2009, time.November, 2},
			today: Date{2024, time.February, 10},
			want:  "14 tahun 3 bulan 8 hari",
		},
		{
			name:  "born today",
			birth: Date{2024, time.May, 14},
			today: Date{2024, time.May, 14},
			want:  "0 tahun 0 bulan 0 hari",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := AgeAt(tt.birth, tt.today).String()
			if got != tt.want {
				t.Errorf("AgeAt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDate(t *testing.T) {
	t.Run("ParseDate", func(t *testing.T) {
		d, err := ParseDate("15/05/2010")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if d != (Date{2010, time.May, 15}) {
			t.Errorf("expected 2010-05-15, got %+v", d)
		}
	})

	t.Run("ParseDate rejects other layouts", func(t *testing.T) {
		for _, s := range []string{"2010-05-15", "31/02/2010", "", "15/5/10"} {
			if _, err := ParseDate(s); err == nil {
				t.Errorf("expected error for %q", s)
			}
		}
	})

	t.Run("String pads day and month", func(t *testing.T) {
		if got := (Date{2009, time.March, 4}).String(); got != "04/03/2009" {
			t.Errorf("expected 04/03/2009, got %s", got)
		}
		if got := (Date{}).String(); got != "" {
			t.Errorf("expected empty string for zero date, got %s", got)
		}
	})

	t.Run("After", func(t *testing.T) {
		if !(Date{2024, time.May, 15}).After(Date{2024, time.May, 14}) {
			t.Error("expected later date to be after")
		}
		if (Date{2024, time.May, 14}).After(Date{2024, time.May, 14}) {
			t.Error("expected same date not to be after")
		}
	})
}

func TestClass(t *testing.T) {
	for _, s := range []string{"x", " XI ", "xii"} {
		if _, ok := ParseClass(s); !ok {
			t.Errorf("expected %q to parse", s)
		}
	}
	if _, ok := ParseClass("XIII"); ok {
		t.Error("expected XIII to be rejected")
	}
	if Class("").Valid() {
		t.Error("expected empty class to be invalid")
	}
}

func TestStudentJSON(t *testing.T) {
	registered := time.Date(2024, 7, 1, 8, 30, 0, 0, time.UTC)
	s := NewStudent("STD0123456789abcdef", Fields{
		Name:       "Ahmad Fauzi",
		Birthplace: "Lamongan",
		Birthdate:  Date{2008, time.August, 17},
		Age:        "15 tahun 10 bulan 14 hari",
		Class:      ClassX,
		Track:      "IPA",
		Address:    "Jl. Raya Paciran No. 1",
	}, registered)

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	out := string(data)
	for _, want := range []string{
		`"id":"STD0123456789abcdef"`,
		`"name":"Ahmad Fauzi"`,
		`"birthplace":"Lamongan"`,
		`"birthdate":"17/08/2008"`,
		`"age":"15 tahun 10 bulan 14 hari"`,
		`"class":"X"`,
		`"track":"IPA"`,
		`"address":"Jl. Raya Paciran No. 1"`,
		`"registeredAt":"2024-07-01T08:30:00Z"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}

	var decoded Student
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if decoded.Birthdate != s.Birthdate || !decoded.RegisteredAt.Equal(registered) {
		t.Errorf("expected decoded record to match, got %+v", decoded)
	}

	t.Run("WithFields keeps identity", func(t *testing.T) {
		updated := s.WithFields(Fields{Name: "Ahmad F.", Class: ClassXI})
		if updated.ID != s.ID || !updated.RegisteredAt.Equal(s.RegisteredAt) {
			t.Error("expected id and registeredAt to be kept")
		}
		if updated.Name != "Ahmad F." {
			t.Errorf("expected new name, got %s", updated.Name)
		}
	})

	t.Run("rejects malformed birthdate", func(t *testing.T) {
		var bad Student
		if err := json.Unmarshal([]byte(`{"id":"a","birthdate":"2008-08-17"}`), &bad); err == nil {
			t.Error("expected error for ISO birthdate")
		}
	})
}
