package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/siswa/internal/app"
	"github.com/desertthunder/siswa/internal/form"
	"github.com/desertthunder/siswa/internal/shared"
	"github.com/desertthunder/siswa/internal/tasks"
)

// API serves one [app.Session] as JSON.
type API struct {
	mu      sync.Mutex
	session *app.Session
	logger  *log.Logger
}

// NewAPI wraps session.
func NewAPI(session *app.Session, logger *log.Logger) *API {
	return &API{session: session, logger: logger}
}

// Patch is a partial student edit; nil fields keep the stored value.
type Patch struct {
	Name       *string `json:"name"`
	Birthplace *string `json:"birthplace"`
	Birthdate  *string `json:"birthdate"`
	Class      *string `json:"class"`
	Track      *string `json:"track"`
	Address    *string `json:"address"`
}

func (p Patch) apply(in *form.Input) {
	for dst, src := range map[*string]*string{
		&in.Name:       p.Name,
		&in.Birthplace: p.Birthplace,
		&in.Birthdate:  p.Birthdate,
		&in.Class:      p.Class,
		&in.Track:      p.Track,
		&in.Address:    p.Address,
	} {
		if src != nil {
			*dst = *src
		}
	}
}

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type mutationBody struct {
	Student      any              `json:"student,omitempty"`
	Notification app.Notification `json:"notification"`
}

// Register mounts every API route on r.
func (a *API) Register(r Router) {
	r.Handle(http.MethodGet, "/api/students", http.HandlerFunc(a.listStudents))
	r.Handle(http.MethodPost, "/api/students", http.HandlerFunc(a.createStudent))
	r.Handle(http.MethodDelete, "/api/students", http.HandlerFunc(a.clearStudents))
	r.Handle(http.MethodGet, "/api/students/{id}", http.HandlerFunc(a.getStudent))
	r.Handle(http.MethodPut, "/api/students/{id}", http.HandlerFunc(a.updateStudent))
	r.Handle(http.MethodDelete, "/api/students/{id}", http.HandlerFunc(a.deleteStudent))
	r.Handle(http.MethodGet, "/api/students/{id}/slip", http.HandlerFunc(a.slip))
	r.Handle(http.MethodGet, "/api/dashboard", http.HandlerFunc(a.dashboard))
	r.Handle(http.MethodGet, "/api/search", http.HandlerFunc(a.search))
	r.Handle(http.MethodGet, "/api/theme", http.HandlerFunc(a.theme))
	r.Handle(http.MethodPost, "/api/theme/toggle", http.HandlerFunc(a.toggleTheme))
}

func (a *API) listStudents(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	writeJSON(w, http.StatusOK, a.session.Snapshot().Table)
}

func (a *API) getStudent(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := r.PathValue("id")
	st, ok := a.session.Student(id)
	if !ok {
		a.writeError(w, fmt.Errorf("%w: %s", shared.ErrNotFound, id))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (a *API) createStudent(w http.ResponseWriter, r *http.Request) {
	var in form.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		a.writeError(w, fmt.Errorf("%w: malformed body: %v", shared.ErrValidation, err))
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	st, err := a.session.Create(r.Context(), in)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mutationBody{Student: st, Notification: a.session.Notification()})
}

func (a *API) updateStudent(w http.ResponseWriter, r *http.Request) {
	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		a.writeError(w, fmt.Errorf("%w: malformed body: %v", shared.ErrValidation, err))
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	st, err := a.session.Update(r.Context(), r.PathValue("id"), patch.apply)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationBody{Student: st, Notification: a.session.Notification()})
}

func (a *API) deleteStudent(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	confirmed := r.URL.Query().Get("confirm") == "yes"
	if err := a.session.Delete(r.Context(), r.PathValue("id"), confirmed); err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationBody{Notification: a.session.Notification()})
}

func (a *API) clearStudents(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	q := r.URL.Query()
	if err := a.session.Clear(r.Context(), q.Get("confirm") == "yes", q.Get("confirm_again") == "yes"); err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationBody{Notification: a.session.Notification()})
}

func (a *API) dashboard(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	writeJSON(w, http.StatusOK, a.session.Snapshot().Dashboard)
}

func (a *API) search(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	writeJSON(w, http.StatusOK, a.session.Search(r.URL.Query().Get("q")))
}

func (a *API) slip(w http.ResponseWriter, r *http.Request) {
	format, err := tasks.ParseSlipFormat(r.URL.Query().Get("format"))
	if err != nil {
		a.writeError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	name, data, err := a.session.RenderSlip(r.PathValue("id"), format)
	if err != nil {
		a.writeError(w, err)
		return
	}

	contentType := "application/pdf"
	if format == tasks.SlipText {
		contentType = "text/plain; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (a *API) theme(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"theme": string(a.session.Theme())})
}

func (a *API) toggleTheme(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	theme, err := a.session.ToggleTheme(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": string(theme)})
}

// StatusFor maps an error kind onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrConfirmationRequired):
		return http.StatusPreconditionFailed
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed", "error", err)
	}

	n := app.Failure(err)
	writeJSON(w, status, errorBody{Error: n.Message, Detail: n.Detail})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Health answers liveness probes with the storage driver in use.
type Health struct {
	Driver string
}

// Routes implements [Handler].
func (h Health) Routes() []string { return []string{"GET /healthz"} }

func (h Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "driver": h.Driver})
}

// HandlerOpts configures [NewHandler].
type HandlerOpts struct {
	API     *API
	Health  Health
	Metrics http.Handler
	Logger  *log.Logger
	Wrap    Middleware
}

// NewHandler assembles the router: API routes, health check and metrics, behind recovery and
// request logging.
func NewHandler(opts HandlerOpts) *BasicRouter {
	r := NewBasicRouter()
	if opts.Logger != nil {
		r.Use(Recover(opts.Logger), Logging(opts.Logger))
	}
	if opts.Wrap != nil {
		r.Use(opts.Wrap)
	}

	if opts.API != nil {
		opts.API.Register(r)
	}
	r.Handler(opts.Health)
	if opts.Metrics != nil {
		r.Handle(http.MethodGet, "/metrics", opts.Metrics)
	}
	return r
}
