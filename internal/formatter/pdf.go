package formatter

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// Brand colours of the slip, RGB.
var (
	green     = [3]int{45, 122, 79}
	paleGreen = [3]int{240, 248, 242}
	grey      = [3]int{100, 100, 100}
)

const pageCenter = 105.0

// SlipPDF renders slip as a one-page A4 PDF.
func SlipPDF(slip Slip) ([]byte, error) {
	return slipPDF(slip, true)
}

func slipPDF(slip Slip, compress bool) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(slip.Title+" "+slip.Number, true)
	pdf.SetCreator(slip.School, true)
	pdf.AddPage()

	// Core fonts are cp1252; names with accents are translated rather than mangled.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	centered := func(y float64, s string) {
		s = tr(s)
		pdf.Text(pageCenter-pdf.GetStringWidth(s)/2, y, s)
	}

	pdf.SetFillColor(green[0], green[1], green[2])
	pdf.Rect(0, 0, 210, 40, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 22)
	centered(15, slip.School)
	pdf.SetFont("Helvetica", "", 14)
	centered(25, slip.Title)
	pdf.SetFont("Helvetica", "", 10)
	centered(33, slip.Subtitle)

	pdf.SetTextColor(green[0], green[1], green[2])
	pdf.SetDrawColor(green[0], green[1], green[2])
	pdf.SetFillColor(paleGreen[0], paleGreen[1], paleGreen[2])
	pdf.RoundedRect(15, 50, 180, 25, 3, "1234", "FD")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(20, 60, "Nomor Pendaftaran:")
	pdf.Text(20, 68, "Tanggal Pendaftaran:")
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(70, 60, tr(slip.Number))
	pdf.Text(70, 68, tr(slip.Date))

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(15, 90, "DATA SISWA")
	pdf.SetLineWidth(0.5)
	pdf.Line(15, 92, 195, 92)

	y := 105.0
	for _, f := range slip.Fields {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Text(20, y, tr(f.Label+":"))
		pdf.SetFont("Helvetica", "", 11)
		pdf.Text(70, y, tr(f.Value))
		y += 10
	}

	y += 10
	pdf.Line(15, y, 195, y)
	y += 10

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(20, y, "Biaya Pendaftaran:")
	pdf.SetTextColor(green[0], green[1], green[2])
	pdf.Text(70, y, tr(slip.Fee))

	pdf.SetTextColor(grey[0], grey[1], grey[2])
	pdf.SetFont("Helvetica", "I", 9)
	footerY := 270.0
	for _, line := range slip.Footer {
		centered(footerY, line)
		footerY += 5
	}
	pdf.SetFont("Helvetica", "I", 8)
	centered(285, slip.PrintedAt)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render slip %s: %w", slip.Number, err)
	}
	return buf.Bytes(), nil
}
