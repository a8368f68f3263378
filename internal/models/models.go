// package models defines the data model for the student registration manager
package models

import (
	"strings"
	"time"
)

// Class is the grade a student registers into.
type Class string

const (
	ClassX   Class = "X"
	ClassXI  Class = "XI"
	ClassXII Class = "XII"
)

// Classes lists every [Class] in display order.
var Classes = []Class{ClassX, ClassXI, ClassXII}

// Valid reports whether c is one of [Classes].
func (c Class) Valid() bool {
	for _, known := range Classes {
		if c == known {
			return true
		}
	}
	return false
}

// ParseClass accepts a class name in any case ("xi" → XI).
func ParseClass(s string) (Class, bool) {
	c := Class(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Fields are the user-editable attributes of a [Student].
type Fields struct {
	Name       string `json:"name"`
	Birthplace string `json:"birthplace"`
	Birthdate  Date   `json:"birthdate"`
	Age        string `json:"age"`
	Class      Class  `json:"class"`
	Track      string `json:"track"`
	Address    string `json:"address"`
}

// Student is a registered student record.
//
// Age is a display cache computed when the birthdate was entered; it is not refreshed on load.
type Student struct {
	ID string `json:"id"`
	Fields
	RegisteredAt time.Time `json:"registeredAt"`
}

// NewStudent builds a record from fields with the given identity.
func NewStudent(id string, f Fields, registeredAt time.Time) Student {
	return Student{ID: id, Fields: f, RegisteredAt: registeredAt}
}

// WithFields returns a copy of s carrying f, keeping ID and RegisteredAt.
func (s Student) WithFields(f Fields) Student {
	s.Fields = f
	return s
}
