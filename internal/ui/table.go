package ui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"

	"github.com/desertthunder/siswa/internal/views"
)

func studentColumns() []table.Column {
	return []table.Column{
		{Title: "No", Width: 4},
		{Title: "Nama", Width: 22},
		{Title: "TTL", Width: 26},
		{Title: "Usia", Width: 24},
		{Title: "Kelas", Width: 6},
		{Title: "Jurusan", Width: 10},
		{Title: "Alamat", Width: 24},
	}
}

func newStudentTable(height int) table.Model {
	return table.New(
		table.WithColumns(studentColumns()),
		table.WithFocused(true),
		table.WithHeight(height),
	)
}

// tableRows converts view rows into table rows. The record id is kept out of the visible
// columns; callers resolve it by cursor position.
func tableRows(rows []views.Row) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row{strconv.Itoa(r.No), r.Name, r.BirthInfo(), r.Age, r.Class, r.Track, r.Address}
	}
	return out
}

// selectedID returns the id of the row under the cursor of t, or "" when rows is empty.
func selectedID(t table.Model, rows []views.Row) string {
	i := t.Cursor()
	if i < 0 || i >= len(rows) {
		return ""
	}
	return rows[i].ID
}
