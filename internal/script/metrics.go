package script

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "github.com/louisbranch/creatureevents/internal/platform/errors"
)

// MeterName is the instrumentation scope of the bridge metrics.
const MeterName = "github.com/louisbranch/creatureevents/internal/script"

// Recorder records bridge metrics.
// Use NewOTelRecorder for OpenTelemetry or NoopRecorder when disabled.
type Recorder interface {
	// RecordInvocation counts one hook invocation, failed when err is non-nil.
	RecordInvocation(ctx context.Context, hook string, err error)
	// RecordError counts one reported error by code.
	RecordError(ctx context.Context, code apperrors.Code)
}

// NoopRecorder discards every measurement.
type NoopRecorder struct{}

func (NoopRecorder) RecordInvocation(context.Context, string, error) {}
func (NoopRecorder) RecordError(context.Context, apperrors.Code)     {}

type otelRecorder struct {
	invocations metric.Int64Counter
	errors      metric.Int64Counter
}

// NewOTelRecorder creates counters on meter.
func NewOTelRecorder(meter metric.Meter) (Recorder, error) {
	invocations, err := meter.Int64Counter("creatureevents.script.invocations",
		metric.WithDescription("Number of creature event hook invocations"),
	)
	if err != nil {
		return nil, err
	}
	errs, err := meter.Int64Counter("creatureevents.script.errors",
		metric.WithDescription("Number of reported creature event errors by code"),
	)
	if err != nil {
		return nil, err
	}
	return &otelRecorder{invocations: invocations, errors: errs}, nil
}

func (r *otelRecorder) RecordInvocation(ctx context.Context, hook string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.invocations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("hook", hook),
		attribute.String("outcome", outcome),
	))
}

func (r *otelRecorder) RecordError(ctx context.Context, code apperrors.Code) {
	r.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("code", string(code))))
}
