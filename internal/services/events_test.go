package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"daytrack/internal/core"
)

type fakePublisher struct {
	dates []string
	err   error
}

func (p *fakePublisher) PublishDayChanged(ctx context.Context, date core.Date, _ string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	p.dates = append(p.dates, date.String())
	return p.err
}

type fakeInvalidator struct {
	days []string
	all  int
}

func (i *fakeInvalidator) InvalidateDay(date core.Date) { i.days = append(i.days, date.String()) }
func (i *fakeInvalidator) InvalidateAll()               { i.all++ }

func TestEventsDayChanged(t *testing.T) {
	pub := &fakePublisher{}
	inv := &fakeInvalidator{}
	ev := NewEvents(pub, inv, quiet())

	// A cancelled request still publishes.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ev.DayChanged(ctx, day("2024-03-04"), ReasonActivityCreated)

	assert.Equal(t, []string{"2024-03-04"}, pub.dates)
	assert.Equal(t, []string{"2024-03-04"}, inv.days)
}

func TestEventsPublishFailureIsSwallowed(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	inv := &fakeInvalidator{}
	ev := NewEvents(pub, inv, quiet())

	ev.DayChanged(context.Background(), day("2024-03-04"), ReasonRatingSet)
	ev.CategoriesChanged(context.Background())

	assert.Len(t, inv.days, 1)
	assert.Equal(t, 1, inv.all)
}

func TestEventsWithoutCollaborators(t *testing.T) {
	ev := NewEvents(nil, nil, quiet())
	ev.DayChanged(context.Background(), day("2024-03-04"), ReasonActivityDeleted)
	ev.CategoriesChanged(context.Background())
}
