package services

import (
	"context"
	"sync"

	"daytrack/internal/core"
	applog "daytrack/internal/log"
	"daytrack/internal/store/memory"
)

type dayEvent struct {
	date   string
	reason string
}

type recordingObserver struct {
	mu         sync.Mutex
	days       []dayEvent
	categories int
}

func (o *recordingObserver) DayChanged(_ context.Context, date core.Date, reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.days = append(o.days, dayEvent{date: date.String(), reason: reason})
}

func (o *recordingObserver) CategoriesChanged(context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.categories++
}

func newStore() *memory.Store {
	return memory.New(core.DefaultCategories())
}

func quiet() *applog.Logger {
	return applog.NewDiscard()
}

func day(s string) core.Date {
	d, err := core.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func input(date, start, end, cat string) ActivityInput {
	return ActivityInput{
		Date:       day(date),
		Start:      core.MustClock(start),
		End:        core.MustClock(end),
		CategoryID: cat,
		Title:      cat + " block",
	}
}
