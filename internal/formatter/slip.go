package formatter

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/desertthunder/siswa/internal/models"
)

const (
	DefaultSchool   = "MAM 1 PACIRAN"
	DefaultSubtitle = "Madrasah Aliyah Matholi'ul Anwar 1 Paciran"
	DefaultFee      = 500000

	SlipTitle = "Bukti Pendaftaran Siswa"
)

var whitespace = regexp.MustCompile(`\s+`)

// Field is one labelled line of the slip.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Slip is the registration proof ("Bukti Pendaftaran") for one student.
type Slip struct {
	School    string   `json:"school"`
	Title     string   `json:"title"`
	Subtitle  string   `json:"subtitle"`
	Number    string   `json:"number"`
	Date      string   `json:"date"`
	Fields    []Field  `json:"fields"`
	Fee       string   `json:"fee"`
	Footer    []string `json:"footer"`
	PrintedAt string   `json:"printedAt"`
	Filename  string   `json:"filename"`
}

// SlipOptions carries the school details and print time.
//
// Zero values fall back to the MAM 1 Paciran defaults, time.Now and time.Local.
type SlipOptions struct {
	School   string
	Subtitle string
	Fee      int64
	Now      time.Time
	Location *time.Location
}

func (o SlipOptions) withDefaults() SlipOptions {
	if o.School == "" {
		o.School = DefaultSchool
	}
	if o.Subtitle == "" {
		o.Subtitle = DefaultSubtitle
	}
	if o.Fee <= 0 {
		o.Fee = DefaultFee
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// RegistrationNumber derives "REG-" plus the upper-cased last 8 characters of id.
func RegistrationNumber(id string) string {
	tail := id
	if r := []rune(id); len(r) > 8 {
		tail = string(r[len(r)-8:])
	}
	return "REG-" + strings.ToUpper(tail)
}

// Rupiah formats amount with Indonesian digit grouping, e.g. "Rp 500.000".
func Rupiah(amount int64) string {
	p := message.NewPrinter(language.Indonesian)
	return p.Sprintf("Rp %d", amount)
}

// SlipFilename is "Bukti_Pendaftaran_<name>.pdf" with whitespace runs replaced by underscores.
func SlipFilename(name string) string {
	return "Bukti_Pendaftaran_" + whitespace.ReplaceAllString(strings.TrimSpace(name), "_") + ".pdf"
}

// NewSlip lays out the slip for st.
func NewSlip(st models.Student, opts SlipOptions) Slip {
	opts = opts.withDefaults()
	school := strings.ToUpper(opts.School)
	return Slip{
		School:   school,
		Title:    SlipTitle,
		Subtitle: opts.Subtitle,
		Number:   RegistrationNumber(st.ID),
		Date:     LongDate(st.RegisteredAt.In(opts.Location)),
		Fields: []Field{
			{Label: "Nama Lengkap", Value: st.Name},
			{Label: "Tempat Lahir", Value: st.Birthplace},
			{Label: "Tanggal Lahir", Value: st.Birthdate.String()},
			{Label: "Umur", Value: st.Age},
			{Label: "Kelas", Value: string(st.Class)},
			{Label: "Jurusan", Value: st.Track},
			{Label: "Alamat", Value: st.Address},
		},
		Fee: Rupiah(opts.Fee),
		Footer: []string{
			"Dokumen ini adalah bukti pendaftaran resmi " + titleSchool(school),
			"Simpan dokumen ini sebagai bukti pendaftaran yang sah",
		},
		PrintedAt: "Dicetak pada: " + PrintedAt(opts.Now.In(opts.Location)),
		Filename:  SlipFilename(st.Name),
	}
}

// titleSchool turns "MAM 1 PACIRAN" into "MAM 1 Paciran": acronyms and numbers stay, words are capitalised.
func titleSchool(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) <= 3 || strings.ContainsAny(w, "0123456789") {
			continue
		}
		words[i] = w[:1] + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// SlipText renders slip as plain text.
func SlipText(slip Slip) []byte {
	var buf bytes.Buffer
	rule := strings.Repeat("=", 56)

	buf.WriteString(rule + "\n")
	buf.WriteString(center(slip.School, 56) + "\n")
	buf.WriteString(center(slip.Title, 56) + "\n")
	buf.WriteString(center(slip.Subtitle, 56) + "\n")
	buf.WriteString(rule + "\n\n")

	buf.WriteString(fmt.Sprintf("%-22s%s\n", "Nomor Pendaftaran:", slip.Number))
	buf.WriteString(fmt.Sprintf("%-22s%s\n\n", "Tanggal Pendaftaran:", slip.Date))

	buf.WriteString("DATA SISWA\n")
	buf.WriteString(strings.Repeat("-", 56) + "\n")
	for _, f := range slip.Fields {
		buf.WriteString(fmt.Sprintf("%-22s%s\n", f.Label+":", f.Value))
	}
	buf.WriteString(strings.Repeat("-", 56) + "\n")
	buf.WriteString(fmt.Sprintf("%-22s%s\n\n", "Biaya Pendaftaran:", slip.Fee))

	for _, line := range slip.Footer {
		buf.WriteString(line + "\n")
	}
	buf.WriteString(slip.PrintedAt + "\n")
	return buf.Bytes()
}

func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return strings.Repeat(" ", (width-n)/2) + s
}
