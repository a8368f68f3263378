// Package app dispatches user actions as named commands.
//
// A [Session] owns one record store, one form controller and the current UI state (page, search
// query, theme). Each exported command runs to completion, then the views are rebuilt, a
// [Notification] is recorded and subscribers are told. Nothing is rendered before a command
// finishes.
//
// Sessions are not safe for concurrent use; transports that accept parallel requests must
// serialise calls.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/siswa/internal/form"
	"github.com/desertthunder/siswa/internal/models"
	"github.com/desertthunder/siswa/internal/repositories"
	"github.com/desertthunder/siswa/internal/shared"
	"github.com/desertthunder/siswa/internal/store"
	"github.com/desertthunder/siswa/internal/tasks"
	"github.com/desertthunder/siswa/internal/views"
)

// Page is a top-level screen.
type Page string

const (
	PageDashboard Page = "dashboard"
	PageForm      Page = "tambah-siswa"
	PageTable     Page = "data-siswa"
	PageSearch    Page = "cari-siswa"
	PageSettings  Page = "pengaturan"
)

// Pages lists every [Page] in navigation order.
var Pages = []Page{PageDashboard, PageForm, PageTable, PageSearch, PageSettings}

// Title is the navigation label of p.
func (p Page) Title() string {
	switch p {
	case PageDashboard:
		return "Dashboard"
	case PageForm:
		return "Tambah Siswa"
	case PageTable:
		return "Data Siswa"
	case PageSearch:
		return "Cari Siswa"
	case PageSettings:
		return "Pengaturan"
	default:
		return string(p)
	}
}

// Event is sent to subscribers after every command.
type Event struct {
	Op           string
	Err          error
	Notification Notification
	Snapshot     views.Snapshot
}

// Subscriber is called synchronously after each command.
type Subscriber func(Event)

// Observer receives command outcomes, e.g. for metrics.
type Observer interface {
	CommandCompleted(op string, err error, elapsed time.Duration)
	StudentsChanged(total int)
}

// Session is the command dispatcher.
type Session struct {
	store        *store.Store
	form         *form.Form
	themes       *repositories.ThemeRepository
	slips        *tasks.SlipEngine
	logger       *log.Logger
	observer     Observer
	clock        shared.Clock
	subscribers  []Subscriber
	page         Page
	query        string
	theme        repositories.Theme
	snapshot     views.Snapshot
	notification Notification
}

// Options configures [New].
type Options struct {
	Store    *store.Store
	Themes   *repositories.ThemeRepository
	Slips    *tasks.SlipEngine
	Logger   *log.Logger
	Observer Observer
	Clock    shared.Clock
}

// New builds a session on the dashboard page with the saved theme applied.
func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("%w: store is required", shared.ErrInvalidArgument)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Clock == nil {
		opts.Clock = shared.SystemClock
	}

	s := &Session{
		store:    opts.Store,
		form:     form.New(opts.Store, opts.Clock),
		themes:   opts.Themes,
		slips:    opts.Slips,
		logger:   opts.Logger,
		observer: opts.Observer,
		clock:    opts.Clock,
		page:     PageDashboard,
		theme:    repositories.ThemeLight,
	}

	if s.themes != nil {
		theme, err := s.themes.Load(ctx)
		if err != nil {
			return nil, err
		}
		s.theme = theme
	}

	s.render()
	if s.observer != nil {
		s.observer.StudentsChanged(s.store.Len())
	}
	return s, nil
}

// Subscribe registers fn for every subsequent [Event].
func (s *Session) Subscribe(fn Subscriber) {
	s.subscribers = append(s.subscribers, fn)
}

func (s *Session) render() {
	s.snapshot = views.Build(s.store, s.query)
}

// finish closes a command: re-render, notify, log and publish.
func (s *Session) finish(op string, started time.Time, err error, ok Notification, mutated bool) error {
	s.render()
	if err != nil {
		s.notification = Failure(err)
		s.logger.Warn("command failed", "op", op, "error", err)
	} else {
		if !ok.IsZero() {
			s.notification = ok
		}
		s.logger.Info("command", "op", op, "students", s.store.Len())
	}

	if s.observer != nil {
		s.observer.CommandCompleted(op, err, time.Since(started))
		if mutated && err == nil {
			s.observer.StudentsChanged(s.store.Len())
		}
	}

	ev := Event{Op: op, Err: err, Notification: s.notification, Snapshot: s.snapshot}
	for _, fn := range s.subscribers {
		fn(ev)
	}
	return err
}

// Snapshot returns the views as of the last completed command.
func (s *Session) Snapshot() views.Snapshot { return s.snapshot }

// Notification returns the message produced by the last command.
func (s *Session) Notification() Notification { return s.notification }

// DismissNotification clears the pending notification.
func (s *Session) DismissNotification() { s.notification = Notification{} }

// Page returns the current page.
func (s *Session) Page() Page { return s.page }

// Query returns the current search query.
func (s *Session) Query() string { return s.query }

// Theme returns the active theme.
func (s *Session) Theme() repositories.Theme { return s.theme }

// Form exposes the form controller for field input. Submitting goes through [Session.Submit].
func (s *Session) Form() *form.Form { return s.form }

// Student looks up one record.
func (s *Session) Student(id string) (models.Student, bool) { return s.store.FindByID(id) }

// Students returns every record in insertion order.
func (s *Session) Students() []models.Student { return s.store.All() }

// Navigate switches page. Opening the form while an edit is pending discards the edit.
func (s *Session) Navigate(p Page) {
	if p == PageForm && s.page != PageForm && s.form.Mode() == form.ModeEdit {
		s.form.Reset()
	}
	s.page = p
}

// Submit creates or updates a record from the form. On success the table page is shown.
func (s *Session) Submit(ctx context.Context) (models.Student, error) {
	started := time.Now()
	st, mode, err := s.form.Submit(ctx)

	op, msg := "create", MsgCreated
	if mode == form.ModeEdit {
		op, msg = "update", MsgUpdated
	}
	if err == nil {
		s.page = PageTable
	}
	return st, s.finish(op, started, err, success(msg), true)
}

// Save replaces the form input with in and submits it, keeping the current mode. A rejected
// birthdate fails the command the same way a missing field does.
func (s *Session) Save(ctx context.Context, in form.Input) (models.Student, error) {
	if err := s.form.Fill(in); err != nil {
		op := "create"
		if s.form.Mode() == form.ModeEdit {
			op = "update"
		}
		return models.Student{}, s.finish(op, time.Now(), err, Notification{}, false)
	}
	return s.Submit(ctx)
}

// Create is a one-shot add: it fills a blank form with in and submits it.
func (s *Session) Create(ctx context.Context, in form.Input) (models.Student, error) {
	s.form.Reset()
	st, err := s.Save(ctx, in)
	if err != nil {
		s.form.Reset()
	}
	return st, err
}

// Update is a one-shot edit: it loads id, applies edit to the loaded input and submits.
func (s *Session) Update(ctx context.Context, id string, edit func(*form.Input)) (models.Student, error) {
	started := time.Now()
	if _, err := s.form.BeginEdit(id); err != nil {
		return models.Student{}, s.finish("update", started, err, Notification{}, false)
	}
	in := s.form.Input()
	if edit != nil {
		edit(&in)
	}
	st, err := s.Save(ctx, in)
	if err != nil {
		s.form.Reset()
	}
	return st, err
}

// BeginEdit loads record id into the form and shows the form page.
func (s *Session) BeginEdit(id string) error {
	started := time.Now()
	_, err := s.form.BeginEdit(id)
	if err == nil {
		s.page = PageForm
	}
	return s.finish("edit", started, err, success(MsgEditMode), false)
}

// ResetForm blanks the form and leaves edit mode.
func (s *Session) ResetForm() {
	s.form.Reset()
}

// Delete removes record id. confirmed must reflect the user's answer to [PromptDelete].
func (s *Session) Delete(ctx context.Context, id string, confirmed bool) error {
	started := time.Now()
	if !confirmed {
		return s.finish("delete", started, fmt.Errorf("%w: delete %s", shared.ErrConfirmationRequired, id), Notification{}, false)
	}
	err := s.store.Delete(ctx, id)
	if err == nil && s.form.EditingID() == id {
		s.form.Reset()
	}
	return s.finish("delete", started, err, success(MsgDeleted), true)
}

// Clear removes every record. Both [PromptClear] and [PromptClearAgain] must have been confirmed.
func (s *Session) Clear(ctx context.Context, first, second bool) error {
	started := time.Now()
	if !first || !second {
		return s.finish("clear", started, fmt.Errorf("%w: clear requires two confirmations", shared.ErrConfirmationRequired), Notification{}, false)
	}
	err := s.store.Clear(ctx)
	if err == nil {
		s.form.Reset()
	}
	return s.finish("clear", started, err, success(MsgCleared), true)
}

// Search sets the query for the search view.
func (s *Session) Search(query string) views.Search {
	started := time.Now()
	s.query = query
	_ = s.finish("search", started, nil, Notification{}, false)
	return s.snapshot.Search
}

// ToggleTheme flips and persists the theme.
func (s *Session) ToggleTheme(ctx context.Context) (repositories.Theme, error) {
	started := time.Now()
	if s.themes == nil {
		s.theme = s.theme.Toggled()
		return s.theme, s.finish("theme", started, nil, themeNotice(s.theme), false)
	}

	theme, err := s.themes.Toggle(ctx)
	if err == nil {
		s.theme = theme
	}
	return s.theme, s.finish("theme", started, err, themeNotice(s.theme), false)
}

func themeNotice(t repositories.Theme) Notification {
	if t == repositories.ThemeDark {
		return success(MsgThemeDark)
	}
	return success(MsgThemeLite)
}

// ExportSlip writes the registration slip of record id and returns the key written.
func (s *Session) ExportSlip(ctx context.Context, id string, format tasks.SlipFormat) (string, error) {
	started := time.Now()
	if s.slips == nil {
		return "", s.finish("export", started, fmt.Errorf("%w: slip export is not configured", shared.ErrInvalidArgument), Notification{}, false)
	}
	st, ok := s.store.FindByID(id)
	if !ok {
		return "", s.finish("export", started, fmt.Errorf("%w: %s", shared.ErrNotFound, id), Notification{}, false)
	}
	key, err := s.slips.Export(ctx, st, format)
	return key, s.finish("export", started, err, success(MsgExported), false)
}

// RenderSlip renders the slip of record id without writing it anywhere.
func (s *Session) RenderSlip(id string, format tasks.SlipFormat) (string, []byte, error) {
	if s.slips == nil {
		return "", nil, fmt.Errorf("%w: slip export is not configured", shared.ErrInvalidArgument)
	}
	st, ok := s.store.FindByID(id)
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", shared.ErrNotFound, id)
	}
	slip, data, err := s.slips.Render(st, format)
	return slip.Filename, data, err
}
