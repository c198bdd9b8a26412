package core

import (
	"math"
	"sort"
)

// Rating display constants shared by the analytics and calendar views.
var (
	RatingColors = map[Rating]string{
		Great: "#10b981",
		OK:    "#f59e0b",
		Tough: "#ef4444",
	}
	RatingLabels = map[Rating]string{
		Great: "Great",
		OK:    "OK",
		Tough: "Tough",
	}
)

type (
	// DateRange is an inclusive span of calendar days.
	DateRange struct {
		Label string `json:"label"`
		Start Date   `json:"startDate"`
		End   Date   `json:"endDate"`
	}

	CategoryMinutes struct {
		CategoryID string `json:"categoryId"`
		Minutes    int    `json:"minutes"`
	}

	// CategoryTotals maps category ids to minutes, keeping the order in
	// which each category was first encountered.
	CategoryTotals []CategoryMinutes

	RatingCounts struct {
		Great int `json:"great"`
		OK    int `json:"ok"`
		Tough int `json:"tough"`
	}

	// BreakdownRow is one slice of the category breakdown chart.
	BreakdownRow struct {
		CategoryID string  `json:"categoryId"`
		Name       string  `json:"name"`
		Color      string  `json:"color"`
		Minutes    int     `json:"minutes"`
		Duration   string  `json:"duration"`
		Percentage float64 `json:"percentage"`
	}
)

// Contains reports whether d falls inside the range, inclusive.
func (r DateRange) Contains(d Date) bool {
	return inRange(d.String(), r.Start.String(), r.End.String())
}

// Days is the number of calendar days the range spans.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start.Time).Hours()/24) + 1
}

// inRange compares ISO strings; the fixed-width layout makes lexicographic
// order equal to chronological order.
func inRange(day, start, end string) bool {
	return day >= start && day <= end
}

// sortedDays returns the keys of byDate inside [start, end] in ascending order.
func sortedDays[V any](byDate map[string]V, start, end Date) []string {
	s, e := start.String(), end.String()
	days := make([]string, 0, len(byDate))
	for day := range byDate {
		if inRange(day, s, e) {
			days = append(days, day)
		}
	}
	sort.Strings(days)
	return days
}

// Get returns the minutes recorded for id, zero when absent.
func (t CategoryTotals) Get(id string) int {
	for _, cm := range t {
		if cm.CategoryID == id {
			return cm.Minutes
		}
	}
	return 0
}

// Total sums all categories.
func (t CategoryTotals) Total() int {
	total := 0
	for _, cm := range t {
		total += cm.Minutes
	}
	return total
}

// Map is the unordered view, handy for lookups and JSON maps.
func (t CategoryTotals) Map() map[string]int {
	m := make(map[string]int, len(t))
	for _, cm := range t {
		m[cm.CategoryID] = cm.Minutes
	}
	return m
}

// Sorted returns a copy ordered by minutes descending. Ties keep
// first-encountered order.
func (t CategoryTotals) Sorted() CategoryTotals {
	out := make(CategoryTotals, len(t))
	copy(out, t)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Minutes > out[j].Minutes
	})
	return out
}

// Top returns the most logged category.
func (t CategoryTotals) Top() (CategoryMinutes, bool) {
	if len(t) == 0 {
		return CategoryMinutes{}, false
	}
	return t.Sorted()[0], true
}

func (t *CategoryTotals) add(id string, minutes int) {
	for i := range *t {
		if (*t)[i].CategoryID == id {
			(*t)[i].Minutes += minutes
			return
		}
	}
	*t = append(*t, CategoryMinutes{CategoryID: id, Minutes: minutes})
}

// CategoryTotalsInRange sums activity durations per category for every day in
// [start, end]. Categories without activity are absent.
func CategoryTotalsInRange(byDate map[string][]Activity, start, end Date) CategoryTotals {
	totals := CategoryTotals{}
	for _, day := range sortedDays(byDate, start, end) {
		for _, a := range byDate[day] {
			totals.add(a.CategoryID, a.Duration())
		}
	}
	return totals
}

// RatingCountsInRange counts ratings per value. Unrecognized values are skipped.
func RatingCountsInRange(ratings map[string]Rating, start, end Date) RatingCounts {
	var counts RatingCounts
	s, e := start.String(), end.String()
	for day, r := range ratings {
		if !inRange(day, s, e) {
			continue
		}
		switch r {
		case Great:
			counts.Great++
		case OK:
			counts.OK++
		case Tough:
			counts.Tough++
		}
	}
	return counts
}

// Total is the number of rated days.
func (c RatingCounts) Total() int {
	return c.Great + c.OK + c.Tough
}

// Get returns the count for a single rating value.
func (c RatingCounts) Get(r Rating) int {
	switch r {
	case Great:
		return c.Great
	case OK:
		return c.OK
	case Tough:
		return c.Tough
	}
	return 0
}

// AverageMinutesPerDay divides the logged minutes in range by the number of
// days that have at least one activity, not by the calendar span.
func AverageMinutesPerDay(byDate map[string][]Activity, start, end Date) int {
	total, active := 0, 0
	for _, day := range sortedDays(byDate, start, end) {
		acts := byDate[day]
		if len(acts) == 0 {
			continue
		}
		active++
		for _, a := range acts {
			total += a.Duration()
		}
	}
	if active == 0 {
		return 0
	}
	return roundHalfUp(float64(total) / float64(active))
}

// DateRangePresets returns the last 7, 30 and 90 days, each ending today.
func DateRangePresets(today Date) []DateRange {
	return []DateRange{
		{Label: "Last 7 days", Start: today.AddDays(-6), End: today},
		{Label: "Last 30 days", Start: today.AddDays(-29), End: today},
		{Label: "Last 90 days", Start: today.AddDays(-89), End: today},
	}
}

// CategoryBreakdown resolves names and colors and computes each category's
// share of the total, largest first. Zero-minute rows are dropped.
func CategoryBreakdown(totals CategoryTotals, categories []Category) []BreakdownRow {
	total := totals.Total()
	if total == 0 {
		return nil
	}
	rows := make([]BreakdownRow, 0, len(totals))
	for _, cm := range totals.Sorted() {
		if cm.Minutes <= 0 {
			continue
		}
		cat, _ := LookupCategory(categories, cm.CategoryID)
		rows = append(rows, BreakdownRow{
			CategoryID: cm.CategoryID,
			Name:       cat.Name,
			Color:      cat.Color,
			Minutes:    cm.Minutes,
			Duration:   FormatDuration(cm.Minutes),
			Percentage: math.Round(float64(cm.Minutes)*1000/float64(total)) / 10,
		})
	}
	return rows
}

// TopCategoryName names the most logged category, "None" when nothing was
// logged and "Unknown" when its category no longer exists.
func TopCategoryName(totals CategoryTotals, categories []Category) string {
	top, ok := totals.Top()
	if !ok {
		return "None"
	}
	cat, _ := LookupCategory(categories, top.CategoryID)
	return cat.Name
}
