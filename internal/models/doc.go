// Package models defines the student registration record and its value types.
//
// A [Student] is the only entity. Its JSON form is the persisted layout of the
// student snapshot: a flat object with the field names id, name, birthplace,
// birthdate, age, class, track, address and registeredAt.
//
// Value types:
//   - [Date] : a calendar date with no time component, encoded as "DD/MM/YYYY"
//   - [Class] : the grade enumeration X, XI, XII
//   - [Age] : a calendar-accurate year/month/day difference rendered as "Y tahun M bulan D hari"
//
// [Fields] carries everything a caller may set; id and registeredAt are owned by the store.
package models
