// Package migrations contains embedded SQL migrations for the SQLite store.
package migrations

import "embed"

//go:embed telemetry/*.sql
var TelemetryFS embed.FS
