package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/siswa/internal/app"
	"github.com/desertthunder/siswa/internal/form"
	"github.com/desertthunder/siswa/internal/formatter"
	"github.com/desertthunder/siswa/internal/models"
	"github.com/desertthunder/siswa/internal/repositories"
	"github.com/desertthunder/siswa/internal/shared"
	"github.com/desertthunder/siswa/internal/tasks"
	"github.com/desertthunder/siswa/internal/views"
)

// Header is the application banner.
const Header = "Pendaftaran Siswa MAM 1 Paciran"

const msgInvalidBirthdate = "Tanggal lahir tidak valid"

// Form field order.
const (
	fieldName = iota
	fieldBirthplace
	fieldBirthdate
	fieldClass
	fieldTrack
	fieldAddress
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Nama Lengkap", "Tempat Lahir", "Tanggal Lahir", "Kelas", "Jurusan", "Alamat",
}

type confirmState int

const (
	confirmNone confirmState = iota
	confirmDelete
	confirmClear
	confirmClearAgain
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	session  *app.Session
	clock    shared.Clock
	now      time.Time
	width    int
	height   int
	inputs   []textinput.Model
	focus    int
	ageErr   string
	table    table.Model
	results  table.Model
	query    textinput.Model
	snapshot views.Snapshot
	confirm  confirmState
	target   string
	toastSeq int
	pending  bool
	help     help.Model
	keys     keyMap
}

// NewModel creates a TUI model driving session.
func NewModel(ctx context.Context, session *app.Session, clock shared.Clock) *Model {
	if clock == nil {
		clock = shared.SystemClock
	}

	m := &Model{
		ctx:     ctx,
		session: session,
		clock:   clock,
		now:     clock(),
		inputs:  newInputs(),
		table:   newStudentTable(10),
		results: newStudentTable(10),
		query:   textinput.New(),
		help:    help.New(),
		keys:    newKeyMap(),
	}
	m.query.Placeholder = "Cari nama, kelas, atau jurusan..."
	m.query.Prompt = "Cari: "
	m.results.Blur()

	m.refresh(session.Snapshot())
	session.Subscribe(m.onEvent)
	return m
}

func newInputs() []textinput.Model {
	placeholders := [fieldCount]string{"Nama siswa", "Kota kelahiran", "DD/MM/YYYY", "X, XI atau XII", "IPA, IPS, ...", "Alamat lengkap"}
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Prompt = fmt.Sprintf("%-14s ", fieldLabels[i]+":")
		in.Placeholder = placeholders[i]
		in.CharLimit = 120
		inputs[i] = in
	}
	inputs[fieldBirthdate].CharLimit = 10
	inputs[fieldClass].CharLimit = 3
	return inputs
}

// onEvent keeps the tables in step with the session after every command.
func (m *Model) onEvent(ev app.Event) {
	m.refresh(ev.Snapshot)
	if ev.Op != "search" && !ev.Notification.IsZero() {
		m.pending = true
	}
}

func (m *Model) refresh(snap views.Snapshot) {
	m.snapshot = snap
	m.table.SetRows(tableRows(snap.Table.Rows))
	m.table.SetCursor(m.table.Cursor())
	m.results.SetRows(tableRows(snap.Search.Rows))
	m.results.SetCursor(m.results.Cursor())
}

// flushToast schedules the dismissal of a notification raised during this update.
func (m *Model) flushToast() tea.Cmd {
	if !m.pending {
		return nil
	}
	m.pending = false
	m.toastSeq++
	return dismissAfter(m.toastSeq)
}

// Init starts the clock and the cursor blink.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tick(), textinput.Blink)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := max(msg.Height-14, 5)
		m.table.SetHeight(h)
		m.results.SetHeight(h - 2)
		return m, nil

	case Msg:
		switch msg.kind {
		case MsgTick:
			m.now = m.clock()
			return m, tick()
		case MsgDismiss:
			if seq, ok := msg.data.(int); ok && seq == m.toastSeq {
				m.session.DismissNotification()
			}
			return m, nil
		}

	case tea.KeyMsg:
		model, cmd := m.handleKeys(msg)
		return model, tea.Batch(cmd, m.flushToast())
	}

	return m.updateFocused(msg)
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.confirm != confirmNone {
		return m.handleConfirmKeys(msg)
	}

	for i, b := range m.keys.pages() {
		if key.Matches(msg, b) {
			return m, m.navigate(app.Pages[i])
		}
	}

	switch m.session.Page() {
	case app.PageForm:
		return m.handleFormKeys(msg)
	case app.PageTable:
		return m.handleTableKeys(msg)
	case app.PageSearch:
		return m.handleSearchKeys(msg)
	case app.PageSettings:
		return m.handleSettingsKeys(msg)
	}

	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) navigate(p app.Page) tea.Cmd {
	prev := m.session.Page()
	if prev == app.PageForm && p != app.PageForm {
		if err := m.session.Form().Fill(m.formInput()); err != nil {
			m.ageErr = msgInvalidBirthdate
		}
	}
	m.session.Navigate(p)

	m.query.Blur()
	switch {
	case p == app.PageForm && prev != app.PageForm:
		m.loadInputs()
		return m.focusField(fieldName)
	case p == app.PageSearch:
		return m.query.Focus()
	}
	return nil
}

// loadInputs copies the form controller's surface into the text inputs.
func (m *Model) loadInputs() {
	in := m.session.Form().Input()
	values := [fieldCount]string{in.Name, in.Birthplace, in.Birthdate, in.Class, in.Track, in.Address}
	for i := range m.inputs {
		m.inputs[i].SetValue(values[i])
	}
	m.ageErr = ""
	if strings.TrimSpace(in.Birthdate) != "" && m.session.Form().Age() == "" {
		m.ageErr = msgInvalidBirthdate
	}
}

func (m *Model) formInput() form.Input {
	return form.Input{
		Name:       m.inputs[fieldName].Value(),
		Birthplace: m.inputs[fieldBirthplace].Value(),
		Birthdate:  m.inputs[fieldBirthdate].Value(),
		Class:      m.inputs[fieldClass].Value(),
		Track:      m.inputs[fieldTrack].Value(),
		Address:    m.inputs[fieldAddress].Value(),
	}
}

func (m *Model) focusField(i int) tea.Cmd {
	m.focus = (i + fieldCount) % fieldCount
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	return m.inputs[m.focus].Focus()
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submit):
		return m.submit()
	case msg.String() == "enter":
		if m.focus == fieldAddress {
			return m.submit()
		}
		return m, m.focusField(m.focus + 1)
	case key.Matches(msg, m.keys.next):
		return m, m.focusField(m.focus + 1)
	case key.Matches(msg, m.keys.prev):
		return m, m.focusField(m.focus - 1)
	case key.Matches(msg, m.keys.reset):
		m.session.ResetForm()
		m.loadInputs()
		return m, m.focusField(fieldName)
	}

	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if m.focus == fieldBirthdate && m.inputs[fieldBirthdate].Value() != before {
		m.previewAge()
	}
	return m, cmd
}

// previewAge recomputes the age as soon as a complete birthdate has been typed.
func (m *Model) previewAge() {
	m.ageErr = ""
	value := m.inputs[fieldBirthdate].Value()
	if err := m.session.Form().SetBirthdate(value); err != nil && len(value) == 10 {
		m.ageErr = msgInvalidBirthdate
	}
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	if _, err := m.session.Save(m.ctx, m.formInput()); err != nil {
		return m, nil
	}
	m.loadInputs()
	m.focus = fieldName
	return m, nil
}

func (m *Model) handleTableKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := selectedID(m.table, m.snapshot.Table.Rows)

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.edit):
		if id == "" {
			return m, nil
		}
		if err := m.session.BeginEdit(id); err != nil {
			return m, nil
		}
		m.loadInputs()
		return m, m.focusField(fieldName)
	case key.Matches(msg, m.keys.remove):
		if id != "" {
			m.confirm, m.target = confirmDelete, id
		}
		return m, nil
	case key.Matches(msg, m.keys.export):
		if id != "" {
			_, _ = m.session.ExportSlip(m.ctx, id, tasks.SlipPDF)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "down":
		m.results.Focus()
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		m.results.Blur()
		return m, cmd
	}

	before := m.query.Value()
	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	if q := m.query.Value(); q != before {
		m.session.Search(q)
	}
	return m, cmd
}

func (m *Model) handleSettingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.theme):
		_, _ = m.session.ToggleTheme(m.ctx)
	case key.Matches(msg, m.keys.clear):
		m.confirm = confirmClear
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	yes := key.Matches(msg, m.keys.yes)
	if !yes && !key.Matches(msg, m.keys.no) {
		return m, nil
	}

	switch m.confirm {
	case confirmDelete:
		m.confirm = confirmNone
		_ = m.session.Delete(m.ctx, m.target, yes)
		m.target = ""
	case confirmClear:
		if yes {
			m.confirm = confirmClearAgain
			return m, nil
		}
		m.confirm = confirmNone
		_ = m.session.Clear(m.ctx, false, false)
	case confirmClearAgain:
		m.confirm = confirmNone
		_ = m.session.Clear(m.ctx, true, yes)
	}
	return m, nil
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.session.Page() {
	case app.PageForm:
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	case app.PageSearch:
		m.query, cmd = m.query.Update(msg)
	}
	return m, cmd
}

// View renders the UI based on the current page.
func (m *Model) View() string {
	p := paletteFor(m.session.Theme())

	var b strings.Builder
	b.WriteString(p.title.Render(Header))
	b.WriteString("\n")
	b.WriteString(p.help.Render(formatter.ClockText(m.now)))
	b.WriteString("\n\n")
	b.WriteString(m.renderNav(p))
	b.WriteString("\n\n")

	if n := m.session.Notification(); !n.IsZero() {
		b.WriteString(renderToast(p, n))
		b.WriteString("\n\n")
	}

	switch m.session.Page() {
	case app.PageDashboard:
		b.WriteString(m.renderDashboard(p))
	case app.PageForm:
		b.WriteString(m.renderForm(p))
	case app.PageTable:
		b.WriteString(m.renderTable(p))
	case app.PageSearch:
		b.WriteString(m.renderSearch(p))
	case app.PageSettings:
		b.WriteString(m.renderSettings(p))
	}

	b.WriteString("\n\n")
	if m.confirm != confirmNone {
		b.WriteString(m.renderConfirm(p))
	} else {
		b.WriteString(m.help.ShortHelpView(m.pageHelp()))
	}
	return b.String()
}

func (m *Model) renderNav(p *Palette) string {
	tabs := make([]string, len(app.Pages))
	for i, page := range app.Pages {
		label := fmt.Sprintf("F%d %s", i+1, page.Title())
		if page == m.session.Page() {
			tabs[i] = p.active.Render(label)
		} else {
			tabs[i] = p.tab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func renderToast(p *Palette, n app.Notification) string {
	if n.Kind == app.KindError {
		text := "✗ " + n.Message
		if n.Detail != "" {
			text += " (" + n.Detail + ")"
		}
		return p.err.Render(text)
	}
	return p.ok.Render("✓ " + n.Message)
}

func (m *Model) renderDashboard(p *Palette) string {
	d := m.snapshot.Dashboard
	cards := []string{p.card.Render(fmt.Sprintf("Total Siswa\n%d", d.Total))}
	for _, c := range d.Classes {
		cards = append(cards, p.card.Render(fmt.Sprintf("Kelas %s\n%d", c.Label, c.Count)))
	}
	out := lipgloss.JoinHorizontal(lipgloss.Top, cards...)

	out += "\n\n" + p.title.Render("Statistik per Jurusan")
	if d.Empty {
		return out + "\n" + p.help.Render(d.Message)
	}
	for _, t := range d.Tracks {
		out += fmt.Sprintf("\n  %-12s %s", t.Label, p.ok.Render(fmt.Sprintf("%d siswa", t.Count)))
	}
	return out
}

func (m *Model) renderForm(p *Palette) string {
	f := m.session.Form()
	lines := []string{p.title.Render(f.Title())}
	for i := range m.inputs {
		lines = append(lines, m.inputs[i].View())
		if i == fieldBirthdate {
			age := f.Age()
			switch {
			case m.ageErr != "":
				lines = append(lines, p.err.Render(fmt.Sprintf("%-14s %s", "Usia:", m.ageErr)))
			case age != "":
				lines = append(lines, fmt.Sprintf("%-14s %s", "Usia:", age))
			default:
				lines = append(lines, p.help.Render(fmt.Sprintf("%-14s %s", "Usia:", "-")))
			}
		}
	}
	if f.Mode() == form.ModeEdit {
		lines = append(lines, "", p.warn.Render("Mode edit: "+f.EditingID()))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderTable(p *Palette) string {
	t := m.snapshot.Table
	if t.Empty {
		return p.help.Render(t.Message)
	}
	return m.table.View()
}

func (m *Model) renderSearch(p *Palette) string {
	s := m.snapshot.Search
	out := m.query.View() + "\n\n"
	if s.State != views.SearchMatches {
		return out + p.help.Render(s.Message)
	}
	return out + fmt.Sprintf("%d hasil\n", len(s.Rows)) + m.results.View()
}

func (m *Model) renderSettings(p *Palette) string {
	theme := "Terang"
	if m.session.Theme() == repositories.ThemeDark {
		theme = "Gelap"
	}
	return strings.Join([]string{
		p.title.Render("Pengaturan"),
		fmt.Sprintf("Tema: %s", theme),
		fmt.Sprintf("Jumlah data: %d", m.snapshot.Dashboard.Total),
	}, "\n")
}

func (m *Model) renderConfirm(p *Palette) string {
	var prompt string
	switch m.confirm {
	case confirmDelete:
		prompt = app.PromptDelete
		if st, ok := m.session.Student(m.target); ok {
			prompt += "\n" + studentLine(st)
		}
	case confirmClear:
		prompt = app.PromptClear
	case confirmClearAgain:
		prompt = app.PromptClearAgain
	}
	return p.warn.Render(prompt) + "\n" + m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
}

func studentLine(st models.Student) string {
	return fmt.Sprintf("%s (%s %s)", st.Name, st.Class, st.Track)
}

func (m *Model) pageHelp() []key.Binding {
	k := m.keys
	switch m.session.Page() {
	case app.PageForm:
		return []key.Binding{k.next, k.prev, k.submit, k.reset}
	case app.PageTable:
		return []key.Binding{k.edit, k.remove, k.export, k.quit}
	case app.PageSearch:
		return k.pages()
	case app.PageSettings:
		return []key.Binding{k.theme, k.clear, k.quit}
	default:
		return append(k.pages(), k.quit)
	}
}
