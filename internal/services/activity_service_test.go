package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daytrack/internal/core"
	"daytrack/internal/store/memory"
)

func TestActivityServiceCreate(t *testing.T) {
	ctx := context.Background()
	obs := &recordingObserver{}
	svc := NewActivityService(newStore(), newStore(), obs, quiet())

	a, err := svc.Create(ctx, input("2024-03-04", "09:00", "10:30", "work"))
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, 90, a.Duration())
	assert.Equal(t, []dayEvent{{"2024-03-04", ReasonActivityCreated}}, obs.days)
}

func TestActivityServiceRejectsOverlap(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	svc := NewActivityService(st, st, nil, quiet())

	first, err := svc.Create(ctx, input("2024-03-04", "09:00", "10:00", "work"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, input("2024-03-04", "09:30", "11:00", "learning"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrOverlap))

	var overlap *core.OverlapError
	require.True(t, errors.As(err, &overlap))
	require.Len(t, overlap.Conflicts, 1)
	assert.Equal(t, first.ID, overlap.Conflicts[0].ID)

	// Touching intervals and other days are fine.
	_, err = svc.Create(ctx, input("2024-03-04", "10:00", "11:00", "learning"))
	assert.NoError(t, err)
	_, err = svc.Create(ctx, input("2024-03-05", "09:30", "11:00", "learning"))
	assert.NoError(t, err)
}

func TestActivityServiceRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	svc := NewActivityService(st, st, nil, quiet())

	_, err := svc.Create(ctx, input("2024-03-04", "09:00", "10:00", "gardening"))
	assert.True(t, IsValidation(err))
	assert.True(t, errors.Is(err, ErrUnknownCategory))

	in := input("2024-03-04", "09:00", "10:00", "work")
	in.Date = core.Date{}
	_, err = svc.Create(ctx, in)
	assert.True(t, IsValidation(err))
	assert.True(t, errors.Is(err, core.ErrInvalidDate))
}

func TestActivityServiceUpdate(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	obs := &recordingObserver{}
	svc := NewActivityService(st, st, obs, quiet())

	a, err := svc.Create(ctx, input("2024-03-04", "09:00", "10:00", "work"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, input("2024-03-04", "12:00", "13:00", "social"))
	require.NoError(t, err)

	// Stretching over its own old interval does not conflict with itself.
	end := core.MustClock("11:00")
	updated, err := svc.Update(ctx, a.ID, ActivityPatch{End: &end})
	require.NoError(t, err)
	assert.Equal(t, 120, updated.Duration())

	end = core.MustClock("12:30")
	_, err = svc.Update(ctx, a.ID, ActivityPatch{End: &end})
	assert.True(t, errors.Is(err, core.ErrOverlap))

	obs.days = nil
	moved := day("2024-03-06")
	_, err = svc.Update(ctx, a.ID, ActivityPatch{Date: &moved})
	require.NoError(t, err)
	assert.ElementsMatch(t, []dayEvent{
		{"2024-03-06", ReasonActivityUpdated},
		{"2024-03-04", ReasonActivityUpdated},
	}, obs.days)
}

func TestActivityServiceDeleteAndList(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	svc := NewActivityService(st, st, nil, quiet())

	a, err := svc.Create(ctx, input("2024-03-04", "09:00", "10:00", "work"))
	require.NoError(t, err)

	got, err := svc.ListByDate(ctx, day("2024-03-04"))
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.True(t, IsNotFound(svc.Delete(ctx, a.ID)))

	_, err = svc.ListByRange(ctx, day("2024-03-05"), day("2024-03-04"))
	assert.True(t, IsValidation(err))
}

// slowDayStore widens the gap between reading a day and writing to it.
type slowDayStore struct {
	*memory.Store
}

func (s slowDayStore) ListActivities(ctx context.Context, start, end core.Date) ([]core.Activity, error) {
	acts, err := s.Store.ListActivities(ctx, start, end)
	time.Sleep(2 * time.Millisecond)
	return acts, err
}

func TestActivityServiceConcurrentWritesKeepDayFree(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	svc := NewActivityService(slowDayStore{st}, st, nil, quiet())

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, input("2026-01-15", "09:00", "10:00", "work"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	created, rejected := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, core.ErrOverlap):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, writers-1, rejected)

	stored, err := st.ListActivities(ctx, day("2026-01-15"), day("2026-01-15"))
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestActivityServiceConcurrentUpdatesKeepDayFree(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	svc := NewActivityService(slowDayStore{st}, st, nil, quiet())

	a, err := svc.Create(ctx, input("2026-01-15", "07:00", "08:00", "work"))
	require.NoError(t, err)
	b, err := svc.Create(ctx, input("2026-01-15", "12:00", "13:00", "learning"))
	require.NoError(t, err)

	start, end := core.MustClock("09:00"), core.MustClock("10:00")
	var wg sync.WaitGroup
	for _, id := range []string{a.ID, b.ID} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, _ = svc.Update(ctx, id, ActivityPatch{Start: &start, End: &end})
		}(id)
	}
	wg.Wait()

	stored, err := st.ListActivities(ctx, day("2026-01-15"), day("2026-01-15"))
	require.NoError(t, err)
	moved := 0
	for _, act := range stored {
		if act.Start == start {
			moved++
		}
	}
	assert.Equal(t, 1, moved)
}
