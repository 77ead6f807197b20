package admin

import (
	"context"
	"time"
)

// ActivityEvent captures audit-friendly information about an account action.
type ActivityEvent struct {
	Action     string
	Subject    string
	Detail     string
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent)
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent)

func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) {
	if f == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	f(ctx, event)
}

type noopActivity struct{}

func (noopActivity) Record(context.Context, ActivityEvent) {}

// LogActivity writes events through the package logger, one line per event.
func LogActivity(logger Logger) ActivitySink {
	return ActivitySinkFunc(func(_ context.Context, event ActivityEvent) {
		logger.Info("activity %s subject=%s detail=%s", event.Action, event.Subject, event.Detail)
	})
}
