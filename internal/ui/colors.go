package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/siswa/internal/repositories"
)

var (
	lightPalette = NewPalette("#2D7A4F", "#2D7A4F", "#C62828", "#E65100", "#626262", "#FFFFFF")
	darkPalette  = NewPalette("#6FCF97", "#6FCF97", "#FF6B6B", "#FFB74D", "#9E9E9E", "#1E1E1E")
)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	tab    lipgloss.Style
	active lipgloss.Style
	card   lipgloss.Style
}

func NewPalette(t, s, e, w, h, bg string) *Palette {
	return &Palette{
		title:  NewBold(t).MarginBottom(1),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
		tab:    NewStyle(h).Padding(0, 1),
		active: NewBold(bg).Background(lipgloss.Color(t)).Padding(0, 1),
		card:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(t)).Padding(0, 2),
	}
}

// paletteFor picks the stylesheet of theme.
func paletteFor(theme repositories.Theme) *Palette {
	if theme == repositories.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
