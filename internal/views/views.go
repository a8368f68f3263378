// Package views builds the read models shown after every command.
//
// Each renderer is a pure function of an immutable student snapshot:
//   - [NewDashboard] : totals per class and per track
//   - [NewTable] : every record with a 1-based row number
//   - [NewSearch] : prompt, no-results, or matching rows for a query
//
// [Build] bundles all three into a [Snapshot]. Renderers never mutate the store.
package views

import (
	"strings"

	"github.com/desertthunder/siswa/internal/models"
)

// Empty-state messages.
const (
	MsgNoData    = "Belum ada data siswa"
	MsgSearch    = "Gunakan kolom pencarian di atas"
	MsgNoResults = "Tidak ada hasil yang ditemukan"
)

// Source is read access to the current collection.
type Source interface {
	All() []models.Student
	Search(query string) []models.Student
}

// Snapshot is every view rendered from one state of the collection.
type Snapshot struct {
	Dashboard Dashboard `json:"dashboard"`
	Table     Table     `json:"table"`
	Search    Search    `json:"search"`
}

// Build renders all views from src, using query for the search view.
func Build(src Source, query string) Snapshot {
	all := src.All()
	return Snapshot{
		Dashboard: NewDashboard(all),
		Table:     NewTable(all),
		Search:    NewSearch(src, query),
	}
}

// Row is one table line. No is the 1-based position, not the id.
type Row struct {
	No         int    `json:"no"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	Birthplace string `json:"birthplace"`
	Birthdate  string `json:"birthdate"`
	Age        string `json:"age"`
	Class      string `json:"class"`
	Track      string `json:"track"`
	Address    string `json:"address"`
}

// BirthInfo is the "place, DD/MM/YYYY" column.
func (r Row) BirthInfo() string {
	return r.Birthplace + ", " + r.Birthdate
}

func rowsOf(students []models.Student) []Row {
	rows := make([]Row, 0, len(students))
	for i, st := range students {
		rows = append(rows, Row{
			No:         i + 1,
			ID:         st.ID,
			Name:       st.Name,
			Birthplace: st.Birthplace,
			Birthdate:  st.Birthdate.String(),
			Age:        st.Age,
			Class:      string(st.Class),
			Track:      st.Track,
			Address:    st.Address,
		})
	}
	return rows
}

// Table lists every record in collection order.
type Table struct {
	Rows    []Row  `json:"rows"`
	Empty   bool   `json:"empty"`
	Message string `json:"message,omitempty"`
}

// NewTable renders students as a [Table].
func NewTable(students []models.Student) Table {
	t := Table{Rows: rowsOf(students)}
	if len(t.Rows) == 0 {
		t.Empty, t.Message = true, MsgNoData
	}
	return t
}

// SearchState distinguishes the three search outcomes.
type SearchState string

const (
	SearchPrompt    SearchState = "prompt"
	SearchNoResults SearchState = "no_results"
	SearchMatches   SearchState = "matches"
)

// Search is the search page for one query.
type Search struct {
	Query   string      `json:"query"`
	State   SearchState `json:"state"`
	Rows    []Row       `json:"rows"`
	Message string      `json:"message,omitempty"`
}

// NewSearch runs query against src. A blank query shows the prompt rather than every record.
func NewSearch(src interface{ Search(string) []models.Student }, query string) Search {
	q := strings.TrimSpace(query)
	if q == "" {
		return Search{State: SearchPrompt, Rows: []Row{}, Message: MsgSearch}
	}

	rows := rowsOf(src.Search(q))
	if len(rows) == 0 {
		return Search{Query: q, State: SearchNoResults, Rows: rows, Message: MsgNoResults}
	}
	return Search{Query: q, State: SearchMatches, Rows: rows}
}
