package storage

import (
	"context"
	"time"
)

// TelemetryEvent captures an operational observation emitted while admitting
// or dispatching creature events.
type TelemetryEvent struct {
	Timestamp      time.Time
	EventName      string
	Severity       string
	InvocationID   string
	Category       string
	HookName       string
	ScriptPath     string
	Code           string
	Message        string
	Attributes     map[string]any
	AttributesJSON []byte
}

// TelemetryStore persists operational telemetry records for audits and incident analysis.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, evt TelemetryEvent) error
}

// TelemetryReader lists persisted telemetry, newest first.
type TelemetryReader interface {
	ListTelemetryEvents(ctx context.Context, limit int) ([]TelemetryEvent, error)
}
