// Package store owns the in-memory student collection and keeps it in step with persistence.
//
// Every mutation builds the next collection, saves it through the [Repository], and only then swaps
// it in. A failed save returns [shared.ErrPersistence] and leaves memory equal to what was last
// persisted.
//
// A [Store] is not safe for concurrent use. Callers serialise access (see internal/app).
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/text/cases"

	"github.com/desertthunder/siswa/internal/models"
	"github.com/desertthunder/siswa/internal/shared"
)

// Repository is the snapshot persistence port the store writes through.
type Repository interface {
	Load(ctx context.Context) ([]models.Student, error)
	Save(ctx context.Context, students []models.Student) error
}

// Store is the single owner of the student collection.
type Store struct {
	repo     Repository
	students []models.Student
	issued   map[string]struct{}
	clock    shared.Clock
	newID    func() string
	logger   *log.Logger
}

// Option configures a [Store].
type Option func(*Store)

// WithClock sets the time source used for RegisteredAt.
func WithClock(c shared.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator replaces [shared.GenerateID].
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithLogger sets the logger used for mutation traces.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Open loads the persisted collection from repo and returns a ready [Store].
func Open(ctx context.Context, repo Repository, opts ...Option) (*Store, error) {
	students, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	s := &Store{
		repo:     repo,
		students: students,
		issued:   make(map[string]struct{}, len(students)),
		clock:    shared.SystemClock,
		newID:    shared.GenerateID,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, st := range students {
		s.issued[st.ID] = struct{}{}
	}
	return s, nil
}

// commit persists next and swaps it in on success.
func (s *Store) commit(ctx context.Context, op string, next []models.Student) error {
	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.Error("save failed", "op", op, "error", err)
		if errors.Is(err, shared.ErrPersistence) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%w: %s: %v", shared.ErrPersistence, op, err)
	}
	s.students = next
	s.logger.Debug("saved", "op", op, "count", len(next))
	return nil
}

// nextID returns an id that no record held by this store has ever used.
func (s *Store) nextID() (string, error) {
	for range 8 {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, taken := s.issued[id]; !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: could not generate a unique id", shared.ErrDuplicateID)
}

// Create appends a new record built from f and persists the collection.
func (s *Store) Create(ctx context.Context, f models.Fields) (models.Student, error) {
	id, err := s.nextID()
	if err != nil {
		return models.Student{}, err
	}

	student := models.NewStudent(id, f, s.clock())
	next := append(slices.Clone(s.students), student)
	if err := s.commit(ctx, "create", next); err != nil {
		return models.Student{}, err
	}
	s.issued[id] = struct{}{}
	return student, nil
}

// Update replaces every field of record id except ID and RegisteredAt.
func (s *Store) Update(ctx context.Context, id string, f models.Fields) (models.Student, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return models.Student{}, fmt.Errorf("%w: %s", shared.ErrNotFound, id)
	}

	updated := s.students[idx].WithFields(f)
	next := slices.Clone(s.students)
	next[idx] = updated
	if err := s.commit(ctx, "update", next); err != nil {
		return models.Student{}, err
	}
	return updated, nil
}

// Delete removes record id if present and persists. Deleting an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	next := slices.DeleteFunc(slices.Clone(s.students), func(st models.Student) bool {
		return st.ID == id
	})
	return s.commit(ctx, "delete", next)
}

// Clear removes every record and persists the empty collection.
func (s *Store) Clear(ctx context.Context) error {
	return s.commit(ctx, "clear", []models.Student{})
}

// FindByID returns the record with id.
func (s *Store) FindByID(id string) (models.Student, bool) {
	if idx := s.indexOf(id); idx >= 0 {
		return s.students[idx], true
	}
	return models.Student{}, false
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.students, func(st models.Student) bool { return st.ID == id })
}

// Filter returns the records matching pred in collection order.
func (s *Store) Filter(pred func(models.Student) bool) []models.Student {
	out := []models.Student{}
	for _, st := range s.students {
		if pred(st) {
			out = append(out, st)
		}
	}
	return out
}

// Search returns records whose name, class or track contains query, ignoring case.
func (s *Store) Search(query string) []models.Student {
	return s.Filter(Matcher(query))
}

// Matcher builds the predicate used by [Store.Search].
func Matcher(query string) func(models.Student) bool {
	fold := cases.Fold()
	needle := fold.String(query)
	return func(st models.Student) bool {
		for _, field := range []string{st.Name, string(st.Class), st.Track} {
			if strings.Contains(fold.String(field), needle) {
				return true
			}
		}
		return false
	}
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []models.Student {
	return slices.Clone(s.students)
}

// Len reports the number of records.
func (s *Store) Len() int { return len(s.students) }
