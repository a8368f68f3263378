package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/siswa/internal/kv"
	"github.com/desertthunder/siswa/internal/models"
	"github.com/desertthunder/siswa/internal/shared"
)

// StudentsKey is the storage key holding the serialized student collection.
const StudentsKey = "mam1_students"

// StudentRepository loads and saves the whole student collection as one snapshot.
type StudentRepository struct {
	store kv.Store
}

// NewStudentRepository creates a new [StudentRepository] over store.
func NewStudentRepository(store kv.Store) *StudentRepository {
	return &StudentRepository{store: store}
}

// Load returns the persisted collection in insertion order.
//
// A key that was never written yields an empty collection.
func (r *StudentRepository) Load(ctx context.Context) ([]models.Student, error) {
	data, ok, err := r.store.Get(ctx, StudentsKey)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load students: %v", shared.ErrPersistence, err)
	}
	if !ok || len(data) == 0 {
		return []models.Student{}, nil
	}

	var students []models.Student
	if err := json.Unmarshal(data, &students); err != nil {
		return nil, fmt.Errorf("%w: failed to decode students: %v", shared.ErrPersistence, err)
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, nil
}

// Save replaces the persisted collection with students.
func (r *StudentRepository) Save(ctx context.Context, students []models.Student) error {
	if students == nil {
		students = []models.Student{}
	}

	data, err := json.Marshal(students)
	if err != nil {
		return fmt.Errorf("%w: failed to encode students: %v", shared.ErrPersistence, err)
	}

	if err := r.store.Set(ctx, StudentsKey, data); err != nil {
		return fmt.Errorf("%w: failed to save students: %v", shared.ErrPersistence, err)
	}
	return nil
}
