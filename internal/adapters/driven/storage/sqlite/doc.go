// Package sqlite provides the SQLite-backed import journal.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, so the binary cross-compiles for the ARM tablet it runs on. Every handled
// connection is appended to the imports table and read back by `printdrop history`.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.printdrop/data/imports.db
package sqlite
