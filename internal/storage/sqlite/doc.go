// Package sqlite persists creature event telemetry in a SQLite database
// (modernc.org/sqlite, no cgo). Schema changes ship as embedded migrations.
package sqlite
