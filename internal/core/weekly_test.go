package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastFourWeeks(t *testing.T) {
	weeks := LastFourWeeks(NewDate(2026, 1, 15))
	require.Len(t, weeks, 4)

	wantStarts := []string{"2026-01-11", "2026-01-04", "2025-12-28", "2025-12-21"}
	for i, w := range weeks {
		assert.Equal(t, WeekLabels[i], w.Label)
		assert.Equal(t, i, w.Number)
		assert.Equal(t, wantStarts[i], w.Start.String())
		assert.Equal(t, time.Sunday, w.Start.Weekday())
		assert.Equal(t, time.Saturday, w.End.Weekday())
		if i > 0 {
			assert.Equal(t, weeks[i-1].Start.AddDays(-1), w.End, "weeks must be contiguous")
		}
	}
}

func TestGroupByWeekAndChart(t *testing.T) {
	today := NewDate(2026, 1, 15)
	weeks := LastFourWeeks(today)
	acts := []Activity{
		on(NewDate(2026, 1, 12), "1", "work", "09:00", "12:00"),
		on(NewDate(2026, 1, 5), "2", "exercise", "07:00", "08:00"),
		on(NewDate(2026, 1, 5), "3", "zzz-orphan", "20:00", "21:00"),
		on(NewDate(2025, 12, 22), "4", "work", "09:00", "10:00"),
		on(NewDate(2025, 11, 1), "5", "work", "09:00", "10:00"),
	}
	weekly := GroupByWeek(acts, weeks)
	require.Len(t, weekly, 4)
	assert.Equal(t, 180, weekly["This Week"].Totals.Get("work"))
	assert.Equal(t, 60, weekly["Last Week"].Totals.Get("exercise"))
	assert.Empty(t, weekly["2 Weeks Ago"].Totals)
	assert.Equal(t, 60, weekly["3 Weeks Ago"].Totals.Get("work"))

	rows := ChartMatrix(weekly, DefaultCategories())
	require.Len(t, rows, 4)
	assert.Equal(t, "3 Weeks Ago", rows[0].Week)
	assert.Equal(t, "This Week", rows[3].Week)
	for _, r := range rows {
		assert.Equal(t, []string{"work", "exercise", "zzz-orphan"}, ids(r.Values))
	}
	assert.Equal(t, 0, rows[1].Values.Get("work"))

	b, err := json.Marshal(rows[3])
	require.NoError(t, err)
	var flat map[string]any
	require.NoError(t, json.Unmarshal(b, &flat))
	assert.Equal(t, "This Week", flat["week"])
	assert.Equal(t, float64(0), flat["weekNumber"])
	assert.Equal(t, float64(180), flat["work"])
	assert.Equal(t, float64(0), flat["exercise"])
}

func TestWeeklySummaryFor(t *testing.T) {
	start := NewDate(2026, 1, 11)
	byDate := GroupByDate([]Activity{
		on(NewDate(2026, 1, 12), "1", "work", "09:00", "12:00"),
		on(NewDate(2026, 1, 13), "2", "work", "09:00", "10:00"),
		on(NewDate(2026, 1, 13), "3", "exercise", "18:00", "18:30"),
	})
	s := WeeklySummaryFor(byDate, start, start.AddDays(6), DefaultCategories())
	assert.Equal(t, 270, s.TotalMinutes)
	assert.Equal(t, 39, s.AvgMinutesPerDay)
	assert.Equal(t, "Work", s.TopCategoryName)
	assert.Equal(t, 2, s.DaysWithActivities)

	empty := WeeklySummaryFor(byDate, start.AddDays(-7), start.AddDays(-1), DefaultCategories())
	assert.Equal(t, WeekSummary{TopCategoryName: "None"}, empty)
}

func TestWeeklyIdempotent(t *testing.T) {
	today := NewDate(2026, 1, 15)
	acts := []Activity{on(NewDate(2026, 1, 12), "1", "work", "09:00", "12:00")}
	a := BuildWeeklyTrends(today, acts, DefaultCategories(), "This Week")
	b := BuildWeeklyTrends(today, acts, DefaultCategories(), "This Week")
	assert.Equal(t, a, b)
	assert.Equal(t, "This Week", BuildWeeklyTrends(today, acts, nil, "bogus").Selected.Label)
}
