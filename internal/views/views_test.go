package views

import (
	"context"
	"testing"

	"github.com/desertthunder/siswa/internal/kv"
	"github.com/desertthunder/siswa/internal/models"
	"github.com/desertthunder/siswa/internal/repositories"
	"github.com/desertthunder/siswa/internal/store"
	tu "github.com/desertthunder/siswa/internal/testing"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), repositories.NewStudentRepository(kv.NewMemory()))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func assertSums(t *testing.T, d Dashboard) {
	t.Helper()
	classSum, trackSum := 0, 0
	for _, c := range d.Classes {
		classSum += c.Count
	}
	for _, c := range d.Tracks {
		trackSum += c.Count
	}
	if classSum != d.Total {
		t.Errorf("class counts sum to %d, total is %d", classSum, d.Total)
	}
	if trackSum != d.Total {
		t.Errorf("track counts sum to %d, total is %d", trackSum, d.Total)
	}
}

func TestDashboardScenario(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	empty := NewDashboard(s.All())
	if !empty.Empty || empty.Message != MsgNoData || empty.Total != 0 {
		t.Errorf("expected empty dashboard, got %+v", empty)
	}
	if len(empty.Classes) != 3 {
		t.Errorf("expected all three classes listed, got %+v", empty.Classes)
	}

	a, _ := s.Create(ctx, tu.Fields("A", models.ClassX, "IPA"))
	_, _ = s.Create(ctx, tu.Fields("B", models.ClassXI, "IPS"))

	d := NewDashboard(s.All())
	if d.Total != 2 || d.ClassCount(models.ClassX) != 1 || d.ClassCount(models.ClassXI) != 1 || d.ClassCount(models.ClassXII) != 0 {
		t.Errorf("unexpected class counts: %+v", d)
	}
	if len(d.Tracks) != 2 || d.TrackCount("IPA") != 1 || d.TrackCount("IPS") != 1 {
		t.Errorf("unexpected track groups: %+v", d.Tracks)
	}
	if d.Empty {
		t.Error("expected non-empty dashboard")
	}
	assertSums(t, d)

	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	d = NewDashboard(s.All())
	if d.Total != 1 || d.ClassCount(models.ClassX) != 0 {
		t.Errorf("expected total=1 X=0, got %+v", d)
	}
	if len(d.Tracks) != 1 || d.Tracks[0] != (Count{Label: "IPS", Count: 1}) {
		t.Errorf("expected {IPS:1}, got %+v", d.Tracks)
	}
	assertSums(t, d)
}

func TestDashboardTrackOrder(t *testing.T) {
	students := []models.Student{
		{ID: "1", Fields: tu.Fields("A", models.ClassX, "Keagamaan")},
		{ID: "2", Fields: tu.Fields("B", models.ClassXII, "IPA")},
		{ID: "3", Fields: tu.Fields("C", models.ClassXII, "Keagamaan")},
		{ID: "4", Fields: tu.Fields("D", models.ClassXI, "IPS")},
	}
	d := NewDashboard(students)
	want := []Count{{"Keagamaan", 2}, {"IPA", 1}, {"IPS", 1}}
	if len(d.Tracks) != len(want) {
		t.Fatalf("expected %d tracks, got %+v", len(want), d.Tracks)
	}
	for i := range want {
		if d.Tracks[i] != want[i] {
			t.Errorf("track %d: expected %+v, got %+v", i, want[i], d.Tracks[i])
		}
	}
	if d.TrackCount("Bahasa") != 0 {
		t.Error("expected 0 for absent track")
	}
	assertSums(t, d)
}

func TestTable(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		tbl := NewTable(nil)
		if !tbl.Empty || tbl.Message != MsgNoData || len(tbl.Rows) != 0 {
			t.Errorf("expected empty table, got %+v", tbl)
		}
	})

	t.Run("rows numbered from one in order", func(t *testing.T) {
		students := []models.Student{
			{ID: "STDz", Fields: tu.Fields("Zaki", models.ClassX, "IPA")},
			{ID: "STDa", Fields: tu.Fields("Ani", models.ClassXI, "IPS")},
		}
		tbl := NewTable(students)
		if tbl.Empty {
			t.Fatal("expected non-empty table")
		}
		for i, row := range tbl.Rows {
			if row.No != i+1 || row.ID != students[i].ID {
				t.Errorf("row %d: expected No=%d ID=%s, got %+v", i, i+1, students[i].ID, row)
			}
		}
		if got := tbl.Rows[0].BirthInfo(); got != "Lamongan, 12/03/2008" {
			t.Errorf("expected birth info, got %q", got)
		}
	})
}

func TestSearchStates(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	_, _ = s.Create(ctx, tu.Fields("Ani", models.ClassX, "IPA"))
	b, _ := s.Create(ctx, tu.Fields("Budi", models.ClassXI, "IPS"))

	prompt := NewSearch(s, "")
	noResults := NewSearch(s, "xyz_no_match")
	matches := NewSearch(s, "budi")

	if prompt.State != SearchPrompt || prompt.Message != MsgSearch || len(prompt.Rows) != 0 {
		t.Errorf("expected prompt state, got %+v", prompt)
	}
	if noResults.State != SearchNoResults || noResults.Message != MsgNoResults {
		t.Errorf("expected no-results state, got %+v", noResults)
	}
	if matches.State != SearchMatches || len(matches.Rows) != 1 || matches.Rows[0].ID != b.ID || matches.Rows[0].No != 1 {
		t.Errorf("expected one match numbered 1, got %+v", matches)
	}
	if prompt.State == noResults.State || noResults.State == matches.State {
		t.Error("expected three distinct states")
	}

	t.Run("whitespace query is a prompt", func(t *testing.T) {
		if got := NewSearch(s, "   "); got.State != SearchPrompt {
			t.Errorf("expected prompt, got %s", got.State)
		}
	})

	t.Run("query is trimmed", func(t *testing.T) {
		got := NewSearch(s, "  ips ")
		if got.State != SearchMatches || got.Query != "ips" {
			t.Errorf("expected trimmed match, got %+v", got)
		}
	})

	t.Run("empty collection", func(t *testing.T) {
		if got := NewSearch(newStore(t), "ani"); got.State != SearchNoResults {
			t.Errorf("expected no results, got %s", got.State)
		}
	})
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	_, _ = s.Create(ctx, tu.Fields("Ani", models.ClassX, "IPA"))

	snap := Build(s, "ani")
	if snap.Dashboard.Total != 1 || len(snap.Table.Rows) != 1 || snap.Search.State != SearchMatches {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}
