package services

import (
	"context"
	"time"

	"daytrack/internal/core"
	applog "daytrack/internal/log"
	"daytrack/internal/metrics"
)

// Publisher sends day.changed events to the rollup worker.
type Publisher interface {
	PublishDayChanged(ctx context.Context, date core.Date, reason string) error
}

// Invalidator drops cached views affected by a change.
type Invalidator interface {
	InvalidateDay(date core.Date)
	InvalidateAll()
}

// ChangeObserver is told about every successful mutation.
type ChangeObserver interface {
	DayChanged(ctx context.Context, date core.Date, reason string)
	CategoriesChanged(ctx context.Context)
}

// Events fans mutations out to cache invalidation and the message broker.
// Publishing is best effort: failures are logged, never returned.
type Events struct {
	publisher   Publisher
	invalidator Invalidator
	logger      *applog.Logger
}

// NewEvents accepts nil for either collaborator.
func NewEvents(publisher Publisher, invalidator Invalidator, logger *applog.Logger) *Events {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Events{
		publisher:   publisher,
		invalidator: invalidator,
		logger:      logger.WithComponent(applog.ComponentAMQP),
	}
}

func (e *Events) DayChanged(ctx context.Context, date core.Date, reason string) {
	if e.invalidator != nil {
		e.invalidator.InvalidateDay(date)
	}
	if e.publisher == nil {
		return
	}
	// The request may finish before the broker answers.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	err := e.publisher.PublishDayChanged(pubCtx, date, reason)
	metrics.RecordPublish(err)
	if err != nil {
		e.logger.ErrorContext(ctx, "Failed to publish day changed event",
			applog.NewFields().WithDate(date.String()).WithOperation(applog.OpPublish).
				WithError(err, applog.ErrorTypeNetwork).ToSlice()...)
	}
}

func (e *Events) CategoriesChanged(context.Context) {
	if e.invalidator != nil {
		e.invalidator.InvalidateAll()
	}
}

type noopObserver struct{}

func (noopObserver) DayChanged(context.Context, core.Date, string) {}
func (noopObserver) CategoriesChanged(context.Context)             {}

// Today returns the current calendar day. It is read once per request and
// handed to the pure core.
type Today func() core.Date

// SystemToday reads the wall clock in loc.
func SystemToday(loc *time.Location) Today {
	if loc == nil {
		loc = time.Local
	}
	return func() core.Date {
		return core.DateOf(time.Now().In(loc))
	}
}

// FixedToday always returns d; used in tests and reports.
func FixedToday(d core.Date) Today {
	return func() core.Date { return d }
}
