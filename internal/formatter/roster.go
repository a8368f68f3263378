package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/siswa/internal/models"
	"github.com/desertthunder/siswa/internal/views"
)

// Format names a roster export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}

// ParseFormat accepts csv, markdown/md or text/txt.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt", "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown format %q (want csv, markdown or text)", s)
}

// Roster renders students in format f.
func Roster(students []models.Student, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return RosterCSV(students)
	case FormatMarkdown:
		return RosterMarkdown(students), nil
	default:
		return RosterText(students), nil
	}
}

// RosterCSV converts students to CSV with one row per student in collection order.
func RosterCSV(students []models.Student) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"No", "ID", "Nomor Pendaftaran", "Nama", "Tempat Lahir", "Tanggal Lahir", "Umur", "Kelas", "Jurusan", "Alamat", "Terdaftar"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, st := range students {
		record := []string{
			strconv.Itoa(i + 1),
			st.ID,
			RegistrationNumber(st.ID),
			st.Name,
			st.Birthplace,
			st.Birthdate.String(),
			st.Age,
			string(st.Class),
			st.Track,
			st.Address,
			st.RegisteredAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// RosterMarkdown renders the dashboard counts followed by the student table.
func RosterMarkdown(students []models.Student) []byte {
	var buf bytes.Buffer
	dash := views.NewDashboard(students)

	buf.WriteString("# Data Siswa\n\n")
	buf.WriteString(fmt.Sprintf("**Total**: %d\n", dash.Total))
	for _, c := range dash.Classes {
		buf.WriteString(fmt.Sprintf("**Kelas %s**: %d\n", c.Label, c.Count))
	}
	buf.WriteString("\n")

	if dash.Empty {
		buf.WriteString(dash.Message + "\n")
		return buf.Bytes()
	}

	buf.WriteString("## Jurusan\n\n")
	for _, tc := range dash.Tracks {
		buf.WriteString(fmt.Sprintf("- %s: %d siswa\n", tc.Label, tc.Count))
	}

	buf.WriteString("\n## Siswa\n\n")
	buf.WriteString("| No | Nama | Tempat, Tanggal Lahir | Umur | Kelas | Jurusan | Alamat |\n")
	buf.WriteString("|---|---|---|---|---|---|---|\n")
	for _, row := range views.NewTable(students).Rows {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s |\n",
			row.No, mdEscape(row.Name), mdEscape(row.BirthInfo()), row.Age, row.Class, mdEscape(row.Track), mdEscape(row.Address)))
	}

	return buf.Bytes()
}

// RosterText converts students to a numbered plain text list.
func RosterText(students []models.Student) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Data Siswa: %d\n\n", len(students)))
	if len(students) == 0 {
		buf.WriteString(views.MsgNoData + "\n")
		return buf.Bytes()
	}
	for _, row := range views.NewTable(students).Rows {
		buf.WriteString(fmt.Sprintf("%d. %s (%s %s) - %s\n", row.No, row.Name, row.Class, row.Track, row.BirthInfo()))
	}

	return buf.Bytes()
}

func mdEscape(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		if r == '|' {
			buf.WriteByte('\\')
		}
		buf.WriteRune(r)
	}
	return buf.String()
}
