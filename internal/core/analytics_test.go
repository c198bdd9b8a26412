package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func on(day Date, id, category, start, end string) Activity {
	return Activity{
		ID:         id,
		Date:       day,
		Start:      MustClock(start),
		End:        MustClock(end),
		CategoryID: category,
	}
}

func TestCategoryTotalsInRange(t *testing.T) {
	d1, d2, d3 := NewDate(2026, 1, 10), NewDate(2026, 1, 11), NewDate(2026, 1, 20)
	byDate := GroupByDate([]Activity{
		on(d1, "1", "work", "09:00", "11:00"),
		on(d1, "2", "exercise", "18:00", "19:00"),
		on(d2, "3", "sleep", "23:00", "07:00"),
		on(d2, "4", "work", "09:00", "10:00"),
		on(d3, "5", "work", "09:00", "17:00"),
	})

	totals := CategoryTotalsInRange(byDate, d1, d2)
	assert.Equal(t, 180, totals.Get("work"))
	assert.Equal(t, 60, totals.Get("exercise"))
	assert.Equal(t, 480, totals.Get("sleep"))
	assert.Equal(t, 720, totals.Total())

	top, ok := totals.Top()
	require.True(t, ok)
	assert.Equal(t, "sleep", top.CategoryID)

	assert.Equal(t, []string{"work", "exercise", "sleep"}, ids(totals))
}

func TestCategoryTotalsEmpty(t *testing.T) {
	totals := CategoryTotalsInRange(map[string][]Activity{}, NewDate(2026, 1, 1), NewDate(2026, 1, 31))
	assert.Empty(t, totals)
	_, ok := totals.Top()
	assert.False(t, ok)
	assert.Equal(t, "None", TopCategoryName(totals, DefaultCategories()))
}

func TestTopTieKeepsFirstEncountered(t *testing.T) {
	d := NewDate(2026, 1, 10)
	byDate := GroupByDate([]Activity{
		on(d, "1", "learning", "09:00", "10:00"),
		on(d, "2", "work", "10:00", "11:00"),
	})
	top, _ := CategoryTotalsInRange(byDate, d, d).Top()
	assert.Equal(t, "learning", top.CategoryID)
}

func TestRatingCountsInRange(t *testing.T) {
	ratings := map[string]Rating{
		"2026-01-10": Great,
		"2026-01-11": Great,
		"2026-01-12": Tough,
		"2026-01-13": "meh",
		"2026-02-01": OK,
	}
	c := RatingCountsInRange(ratings, NewDate(2026, 1, 1), NewDate(2026, 1, 31))
	assert.Equal(t, RatingCounts{Great: 2, Tough: 1}, c)
	assert.Equal(t, 3, c.Total())
	assert.Equal(t, 2, c.Get(Great))
}

func TestAverageMinutesPerDay(t *testing.T) {
	d1, d2 := NewDate(2026, 1, 10), NewDate(2026, 1, 12)
	byDate := GroupByDate([]Activity{
		on(d1, "1", "work", "09:00", "11:00"),
		on(d2, "2", "work", "09:00", "10:00"),
	})
	assert.Equal(t, 90, AverageMinutesPerDay(byDate, NewDate(2026, 1, 1), NewDate(2026, 1, 31)))
	assert.Equal(t, 0, AverageMinutesPerDay(byDate, NewDate(2026, 2, 1), NewDate(2026, 2, 28)))

	byDate["2026-01-11"] = nil
	assert.Equal(t, 90, AverageMinutesPerDay(byDate, NewDate(2026, 1, 1), NewDate(2026, 1, 31)))
}

func TestDateRangePresets(t *testing.T) {
	today := NewDate(2026, 1, 15)
	presets := DateRangePresets(today)
	require.Len(t, presets, 3)
	for i, days := range []int{7, 30, 90} {
		assert.Equal(t, today, presets[i].End)
		assert.Equal(t, days, presets[i].Days())
		assert.True(t, presets[i].Contains(presets[i].Start))
	}
	assert.Equal(t, "2026-01-09", presets[0].Start.String())
	assert.Equal(t, "Last 30 days", presets[1].Label)
}

func TestCategoryBreakdown(t *testing.T) {
	totals := CategoryTotals{
		{CategoryID: "work", Minutes: 60},
		{CategoryID: "gone", Minutes: 120},
		{CategoryID: "sleep", Minutes: 0},
	}
	rows := CategoryBreakdown(totals, DefaultCategories())
	require.Len(t, rows, 2)
	assert.Equal(t, "Unknown", rows[0].Name)
	assert.Equal(t, UnknownCategoryColor, rows[0].Color)
	assert.Equal(t, 66.7, rows[0].Percentage)
	assert.Equal(t, "Work", rows[1].Name)
	assert.Equal(t, 33.3, rows[1].Percentage)
	assert.Equal(t, "1h", rows[1].Duration)

	assert.Equal(t, "Unknown", TopCategoryName(totals, DefaultCategories()))
	assert.Nil(t, CategoryBreakdown(nil, DefaultCategories()))
}

func ids(t CategoryTotals) []string {
	out := make([]string, len(t))
	for i, cm := range t {
		out[i] = cm.CategoryID
	}
	return out
}

func TestAggregationsAreRepeatable(t *testing.T) {
	d1, d2 := NewDate(2026, 1, 10), NewDate(2026, 1, 11)
	byDate := GroupByDate([]Activity{
		on(d1, "1", "work", "09:00", "11:00"),
		on(d1, "2", "exercise", "18:00", "19:00"),
		on(d2, "3", "sleep", "23:00", "07:00"),
		on(d2, "4", "work", "09:00", "10:00"),
	})
	ratings := map[string]Rating{"2026-01-10": Great, "2026-01-11": Tough}
	start, end := NewDate(2026, 1, 1), NewDate(2026, 1, 31)

	firstTotals := CategoryTotalsInRange(byDate, start, end)
	assert.Equal(t, firstTotals, CategoryTotalsInRange(byDate, start, end))

	firstCounts := RatingCountsInRange(ratings, start, end)
	assert.Equal(t, firstCounts, RatingCountsInRange(ratings, start, end))

	firstAvg := AverageMinutesPerDay(byDate, start, end)
	assert.Equal(t, firstAvg, AverageMinutesPerDay(byDate, start, end))

	// Callers mutating a result must not affect later calls.
	firstTotals[0].Minutes = 0
	assert.Equal(t, 180, CategoryTotalsInRange(byDate, start, end).Get("work"))
}
