// Package kv implements the key-value port the student snapshot and theme are persisted through.
//
// The port is deliberately minimal: [Store.Get] returns the bytes under a key (or reports absence),
// [Store.Set] replaces them. Callers write whole snapshots, so no backend needs partial updates.
//
// Drivers:
//   - [Memory] : map-backed, for tests and the "memory" driver
//   - [File] : one file per key under a root directory, written via temp file + rename
//   - [SQLite] : a kv table in a migrated SQLite database (mattn/go-sqlite3)
//   - [Postgres] : a kv table reached through pgx's database/sql driver
//   - [S3] : one object per key in an S3 / MinIO bucket
//
// [Open] selects a driver from [shared.Config].
package kv
