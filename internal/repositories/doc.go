// Package repositories persists domain values through the [kv.Store] port.
//
// Each repository owns exactly one key and always writes the full value under it:
//   - [StudentRepository] : the student collection as a JSON array under "mam1_students"
//   - [ThemeRepository] : the UI theme name ("light" or "dark") under "mam1_theme"
//
// Failures are wrapped with [shared.ErrPersistence] so callers can tell storage problems from
// validation or lookup errors.
package repositories
