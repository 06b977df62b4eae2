// Package storage defines the persistence interfaces for creature event
// operational records.
//
// Dispatch failures (call stack overflows, script runtime errors) are appended
// as telemetry events so operators can audit misbehaving scripts after the
// fact. Implementations live in subpackages (sqlite).
package storage
