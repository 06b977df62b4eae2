// Package telemetry records operational events about creature event
// admission and dispatch.
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/creatureevents/internal/storage"
)

// Severity describes the telemetry severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Event names emitted by the dispatch layer.
const (
	EventDispatchFailed     = "creatureevent.dispatch_failed"
	EventRegistrationFailed = "creatureevent.registration_failed"
	EventReloaded           = "creatureevent.reloaded"
)

// Emitter records operational telemetry events.
type Emitter struct {
	store storage.TelemetryStore
	clock func() time.Time
	newID func() string
}

// NewEmitter creates a new telemetry emitter.
func NewEmitter(store storage.TelemetryStore) *Emitter {
	return &Emitter{store: store, clock: time.Now, newID: uuid.NewString}
}

// Emit records a telemetry event, filling the timestamp and invocation id
// when absent. It is a no-op when the emitter or its store is nil.
func (e *Emitter) Emit(ctx context.Context, evt storage.TelemetryEvent) error {
	if e == nil || e.store == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		if e.clock == nil {
			evt.Timestamp = time.Now().UTC()
		} else {
			evt.Timestamp = e.clock().UTC()
		}
	}
	if evt.InvocationID == "" {
		if e.newID == nil {
			evt.InvocationID = uuid.NewString()
		} else {
			evt.InvocationID = e.newID()
		}
	}
	return e.store.AppendTelemetryEvent(ctx, evt)
}
