package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daytrack/internal/core"
	"daytrack/internal/store/memory"
)

func seed(t *testing.T, st *memory.Store, id, date, start, end, cat string) {
	t.Helper()
	require.NoError(t, st.CreateActivity(context.Background(), core.Activity{
		ID:         id,
		Date:       day(date),
		Start:      core.MustClock(start),
		End:        core.MustClock(end),
		CategoryID: cat,
	}))
}

func newAnalytics(st *memory.Store, size int) *AnalyticsService {
	return NewAnalyticsService(st, st, st, CacheOptions{Size: size, TTL: time.Minute}, quiet())
}

func TestAnalyticsOverview(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	seed(t, st, "a1", "2024-03-04", "09:00", "10:00", "work")
	seed(t, st, "a2", "2024-03-05", "07:00", "07:30", "exercise")
	seed(t, st, "a3", "2024-03-20", "07:00", "08:00", "exercise")
	require.NoError(t, st.UpsertRating(ctx, core.DailyRating{Date: day("2024-03-04"), Rating: core.Great}))

	svc := newAnalytics(st, 0)
	ov, err := svc.Overview(ctx, core.DateRange{Start: day("2024-03-04"), End: day("2024-03-10")})
	require.NoError(t, err)

	assert.Equal(t, 90, ov.TotalMinutes)
	assert.Equal(t, 45, ov.AvgMinutesPerDay)
	assert.Equal(t, "Work", ov.TopCategoryName)
	assert.Equal(t, 1, ov.RatedDays)
	assert.Equal(t, 1, ov.Ratings.Get(core.Great))

	_, err = svc.Overview(ctx, core.DateRange{Start: day("2024-03-10"), End: day("2024-03-04")})
	assert.True(t, IsValidation(err))
}

func TestAnalyticsCacheInvalidation(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	seed(t, st, "a1", "2024-03-04", "09:00", "10:00", "work")
	svc := newAnalytics(st, 16)
	r := core.DateRange{Start: day("2024-03-01"), End: day("2024-03-31")}

	ov, err := svc.Overview(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, 60, ov.TotalMinutes)

	seed(t, st, "a2", "2024-03-06", "09:00", "10:00", "work")
	ov, err = svc.Overview(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, 60, ov.TotalMinutes, "served from cache")

	svc.InvalidateDay(day("2024-03-06"))
	ov, err = svc.Overview(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, 120, ov.TotalMinutes)
}

func TestAnalyticsCalendarInvalidatesNeighbourMonths(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	svc := newAnalytics(st, 16)
	today := day("2024-03-15")

	// The March grid starts on Sunday 2024-02-25.
	mv, err := svc.Calendar(ctx, day("2024-03-01"), today)
	require.NoError(t, err)
	assert.Equal(t, "March 2024", mv.Title)
	require.Len(t, mv.Days, core.GridDays)
	assert.Equal(t, 0, mv.Days[2].Minutes)

	seed(t, st, "a1", "2024-02-27", "09:00", "10:00", "work")
	require.NoError(t, st.UpsertRating(ctx, core.DailyRating{Date: day("2024-02-27"), Rating: core.OK}))
	svc.InvalidateDay(day("2024-02-27"))

	mv, err = svc.Calendar(ctx, day("2024-03-20"), today)
	require.NoError(t, err)
	cell := mv.Days[2]
	assert.Equal(t, "2024-02-27", cell.Date.String())
	assert.False(t, cell.InMonth)
	assert.Equal(t, 60, cell.Minutes)
	assert.Equal(t, 1, cell.ActivityCount)
	assert.Equal(t, core.OK, cell.Rating)
}

func TestAnalyticsWeekly(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	seed(t, st, "a1", "2024-03-04", "09:00", "10:00", "work")
	seed(t, st, "a2", "2024-02-26", "09:00", "11:00", "learning")
	svc := newAnalytics(st, 16)
	today := day("2024-03-06")

	wt, err := svc.Weekly(ctx, today, "")
	require.NoError(t, err)
	require.Len(t, wt.Weeks, 4)
	require.Len(t, wt.Chart, 4)
	assert.Equal(t, "This Week", wt.Selected.Label)
	assert.Equal(t, 60, wt.Summary.TotalMinutes)
	assert.Equal(t, 9, wt.Summary.AvgMinutesPerDay)
	assert.Equal(t, 1, wt.Summary.DaysWithActivities)

	wt, err = svc.Weekly(ctx, today, "Last Week")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-25", wt.Selected.Start.String())
	assert.Equal(t, 120, wt.Summary.TotalMinutes)
	assert.Equal(t, "Learning", wt.Summary.TopCategoryName)
}

func TestAnalyticsWeekSummary(t *testing.T) {
	st := newStore()
	seed(t, st, "a1", "2024-03-04", "22:00", "01:00", "sleep")
	svc := newAnalytics(st, 0)

	snap, err := svc.WeekSummary(context.Background(), day("2024-03-06"))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-03", snap.WeekStart.String())
	assert.Equal(t, "2024-03-09", snap.WeekEnd.String())
	assert.Equal(t, 180, snap.TotalMinutes)
	assert.Equal(t, "Sleep", snap.TopCategoryName)
}
