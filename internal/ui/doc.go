// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI mirrors the five pages of the registration app:
//  1. Dashboard : totals per class and per track
//  2. Tambah Siswa : the create/edit form with a live age preview
//  3. Data Siswa : the record table with edit, delete and slip export
//  4. Cari Siswa : incremental search
//  5. Pengaturan : theme toggle and clearing all data
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Every user action is dispatched to an [app.Session] command inside Update; the session's event feed refreshes
// the tables and schedules the toast dismissal. A one second tick drives the clock header.
//
// Keyboard navigation uses F1-F5 for pages with contextual help displayed via charmbracelet/bubbles/help.
package ui
