package core

import (
	"encoding/json"
	"sort"
)

// WeekLabels are indexed by week number, 0 being the current week.
var WeekLabels = [4]string{"This Week", "Last Week", "2 Weeks Ago", "3 Weeks Ago"}

type (
	// Week is a Sunday..Saturday window.
	Week struct {
		Label  string `json:"label"`
		Start  Date   `json:"startDate"`
		End    Date   `json:"endDate"`
		Number int    `json:"weekNumber"`
	}

	WeekBucket struct {
		Week
		Totals CategoryTotals `json:"categoryTotals"`
	}

	// ChartRow is one week of the stacked trend chart.
	ChartRow struct {
		Week       string
		WeekNumber int
		Values     CategoryTotals
	}

	WeekSummary struct {
		TotalMinutes       int    `json:"totalMinutes"`
		AvgMinutesPerDay   int    `json:"avgMinutesPerDay"`
		TopCategoryName    string `json:"topCategoryName"`
		DaysWithActivities int    `json:"daysWithActivities"`
	}
)

// Range converts the week into an inclusive DateRange.
func (w Week) Range() DateRange {
	return DateRange{Label: w.Label, Start: w.Start, End: w.End}
}

// LastFourWeeks returns the current week and the three before it, newest first.
func LastFourWeeks(today Date) []Week {
	weeks := make([]Week, len(WeekLabels))
	for n, label := range WeekLabels {
		start := StartOfWeek(today.AddDays(-7 * n))
		weeks[n] = Week{
			Label:  label,
			Start:  start,
			End:    start.AddDays(6),
			Number: n,
		}
	}
	return weeks
}

// GroupByDate buckets a flat activity list by ISO day, keeping input order
// within each day.
func GroupByDate(activities []Activity) map[string][]Activity {
	byDate := make(map[string][]Activity)
	for _, a := range activities {
		key := a.Date.String()
		byDate[key] = append(byDate[key], a)
	}
	return byDate
}

// GroupByWeek computes per-category totals for each week, keyed by label.
func GroupByWeek(activities []Activity, weeks []Week) map[string]WeekBucket {
	byDate := GroupByDate(activities)
	out := make(map[string]WeekBucket, len(weeks))
	for _, w := range weeks {
		out[w.Label] = WeekBucket{
			Week:   w,
			Totals: CategoryTotalsInRange(byDate, w.Start, w.End),
		}
	}
	return out
}

// ChartMatrix lays the weekly buckets out as chart rows, oldest week first.
// Columns are every category observed in any week; known categories come in
// the order given, unknown ids after them sorted. Missing cells are zero.
func ChartMatrix(weekly map[string]WeekBucket, categories []Category) []ChartRow {
	buckets := make([]WeekBucket, 0, len(weekly))
	observed := make(map[string]bool)
	for _, b := range weekly {
		buckets = append(buckets, b)
		for _, cm := range b.Totals {
			observed[cm.CategoryID] = true
		}
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Number > buckets[j].Number
	})

	columns := make([]string, 0, len(observed))
	for _, c := range categories {
		if observed[c.ID] {
			columns = append(columns, c.ID)
			delete(observed, c.ID)
		}
	}
	var orphans []string
	for id := range observed {
		orphans = append(orphans, id)
	}
	sort.Strings(orphans)
	columns = append(columns, orphans...)

	rows := make([]ChartRow, len(buckets))
	for i, b := range buckets {
		values := make(CategoryTotals, len(columns))
		for j, id := range columns {
			values[j] = CategoryMinutes{CategoryID: id, Minutes: b.Totals.Get(id)}
		}
		rows[i] = ChartRow{Week: b.Label, WeekNumber: b.Number, Values: values}
	}
	return rows
}

// Fixed keys of a flattened chart row; category ids may not use them.
const (
	chartKeyWeek       = "week"
	chartKeyWeekNumber = "weekNumber"
)

// MarshalJSON flattens the row into {"week":..,"weekNumber":..,"<id>":minutes}.
func (r ChartRow) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Values)+2)
	for _, cm := range r.Values {
		m[cm.CategoryID] = cm.Minutes
	}
	m[chartKeyWeek] = r.Week
	m[chartKeyWeekNumber] = r.WeekNumber
	return json.Marshal(m)
}

// WeeklySummaryFor summarizes one week. The average uses a fixed divisor of
// seven days, unlike AverageMinutesPerDay which divides by active days.
func WeeklySummaryFor(byDate map[string][]Activity, start, end Date, categories []Category) WeekSummary {
	totals := CategoryTotalsInRange(byDate, start, end)
	total := totals.Total()

	days := 0
	for _, day := range sortedDays(byDate, start, end) {
		if len(byDate[day]) > 0 {
			days++
		}
	}

	return WeekSummary{
		TotalMinutes:       total,
		AvgMinutesPerDay:   roundHalfUp(float64(total) / 7),
		TopCategoryName:    TopCategoryName(totals, categories),
		DaysWithActivities: days,
	}
}

// WeekByLabel finds a week in the list, falling back to the current week.
func WeekByLabel(weeks []Week, label string) Week {
	for _, w := range weeks {
		if w.Label == label {
			return w
		}
	}
	return weeks[0]
}
