// Package form implements the add/edit form controller.
//
// A [Form] holds the raw input surface and the id of the record being edited. With no edit target
// it creates records; with one it updates that record. Age is recomputed whenever the birthdate
// changes and stored on the record as entered.
package form

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/siswa/internal/models"
	"github.com/desertthunder/siswa/internal/shared"
)

const (
	TitleCreate = "Tambah Siswa Baru"
	TitleEdit   = "Edit Data Siswa"
)

// Records is the subset of the record store the form submits through.
type Records interface {
	FindByID(id string) (models.Student, bool)
	Create(ctx context.Context, f models.Fields) (models.Student, error)
	Update(ctx context.Context, id string, f models.Fields) (models.Student, error)
}

// Input is the raw text of every form field.
type Input struct {
	Name       string `json:"name"`
	Birthplace string `json:"birthplace"`
	Birthdate  string `json:"birthdate"`
	Class      string `json:"class"`
	Track      string `json:"track"`
	Address    string `json:"address"`
}

// Mode tells whether a submit creates or updates.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Form is the form controller. It is not safe for concurrent use.
type Form struct {
	records   Records
	clock     shared.Clock
	editingID string
	input     Input
	birthdate models.Date
	age       string
}

// New returns an empty form in create mode.
func New(records Records, clock shared.Clock) *Form {
	if clock == nil {
		clock = shared.SystemClock
	}
	return &Form{records: records, clock: clock}
}

// Mode reports the current mode.
func (f *Form) Mode() Mode {
	if f.editingID != "" {
		return ModeEdit
	}
	return ModeCreate
}

// EditingID is the id of the edit target, or "" in create mode.
func (f *Form) EditingID() string { return f.editingID }

// Title is the heading shown above the form.
func (f *Form) Title() string {
	if f.Mode() == ModeEdit {
		return TitleEdit
	}
	return TitleCreate
}

// Input returns the current input surface.
func (f *Form) Input() Input { return f.input }

// Age is the computed age display, "" until a birthdate is set.
func (f *Form) Age() string { return f.age }

func (f *Form) SetName(s string) { f.input.Name = s }
func (f *Form) SetBirthplace(s string) { f.input.Birthplace = s }
func (f *Form) SetClass(s string) { f.input.Class = s }
func (f *Form) SetTrack(s string) { f.input.Track = s }
func (f *Form) SetAddress(s string) { f.input.Address = s }

// SetBirthdate parses s as DD/MM/YYYY and recomputes the age.
//
// An empty s clears the birthdate and age. A malformed or future date is rejected with
// [shared.ErrValidation]; the raw text is kept so the user can correct it, but the age is cleared.
func (f *Form) SetBirthdate(s string) error {
	f.input.Birthdate = s
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		f.birthdate, f.age = models.Date{}, ""
		return nil
	}

	d, err := models.ParseDate(trimmed)
	if err != nil {
		f.birthdate, f.age = models.Date{}, ""
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	today := models.DateOf(f.clock())
	if d.After(today) {
		f.birthdate, f.age = models.Date{}, ""
		return fmt.Errorf("%w: birthdate %s is in the future", shared.ErrValidation, d)
	}

	f.birthdate = d
	f.age = models.AgeAt(d, today).String()
	return nil
}

// Fill replaces the whole input surface with in.
//
// The age is only recomputed when the birthdate text differs from the current one, so filling an
// edit target with its own values keeps the stored age.
func (f *Form) Fill(in Input) error {
	prev := f.input.Birthdate
	f.input = in
	if in.Birthdate == prev && !f.birthdate.IsZero() {
		return nil
	}
	return f.SetBirthdate(in.Birthdate)
}

// BeginEdit loads record id into the input surface and enters edit mode.
//
// The stored age is shown as-is rather than recomputed.
func (f *Form) BeginEdit(id string) (models.Student, error) {
	st, ok := f.records.FindByID(id)
	if !ok {
		return models.Student{}, fmt.Errorf("%w: %s", shared.ErrNotFound, id)
	}

	f.editingID = st.ID
	f.input = Input{
		Name:       st.Name,
		Birthplace: st.Birthplace,
		Birthdate:  st.Birthdate.String(),
		Class:      string(st.Class),
		Track:      st.Track,
		Address:    st.Address,
	}
	f.birthdate = st.Birthdate
	f.age = st.Age
	return st, nil
}

// Reset blanks the input surface and returns to create mode.
func (f *Form) Reset() {
	f.editingID = ""
	f.input = Input{}
	f.birthdate = models.Date{}
	f.age = ""
}

// Validate checks the input surface and returns the fields it would submit.
func (f *Form) Validate() (models.Fields, error) {
	fields := models.Fields{
		Name:       strings.TrimSpace(f.input.Name),
		Birthplace: strings.TrimSpace(f.input.Birthplace),
		Birthdate:  f.birthdate,
		Age:        f.age,
		Track:      strings.TrimSpace(f.input.Track),
		Address:    strings.TrimSpace(f.input.Address),
	}

	var missing []string
	if fields.Name == "" {
		missing = append(missing, "nama")
	}
	if fields.Birthplace == "" {
		missing = append(missing, "tempat lahir")
	}
	if fields.Birthdate.IsZero() {
		missing = append(missing, "tanggal lahir")
	}
	class, ok := models.ParseClass(f.input.Class)
	if !ok {
		missing = append(missing, "kelas")
	}
	fields.Class = class
	if fields.Track == "" {
		missing = append(missing, "jurusan")
	}
	if fields.Address == "" {
		missing = append(missing, "alamat")
	}

	if len(missing) > 0 {
		return models.Fields{}, fmt.Errorf("%w: %s", shared.ErrValidation, strings.Join(missing, ", "))
	}
	return fields, nil
}

// Submit validates the input and creates or updates a record.
//
// Validation failures never reach the store. In edit mode a vanished target yields
// [shared.ErrNotFound] and nothing is created. On success the form is reset; on any failure the
// input surface and edit target are kept.
func (f *Form) Submit(ctx context.Context) (models.Student, Mode, error) {
	mode := f.Mode()
	fields, err := f.Validate()
	if err != nil {
		return models.Student{}, mode, err
	}

	var st models.Student
	switch mode {
	case ModeEdit:
		if _, ok := f.records.FindByID(f.editingID); !ok {
			return models.Student{}, mode, fmt.Errorf("%w: %s", shared.ErrNotFound, f.editingID)
		}
		st, err = f.records.Update(ctx, f.editingID, fields)
	default:
		st, err = f.records.Create(ctx, fields)
	}
	if err != nil {
		return models.Student{}, mode, err
	}

	f.Reset()
	return st, mode, nil
}
