package core

// DayTotal is the per-day figure shown in each calendar cell.
type DayTotal struct {
	CalendarDay
	Minutes       int    `json:"minutes"`
	ActivityCount int    `json:"activityCount"`
	Rating        Rating `json:"rating,omitempty"`
}

// MonthView is the month calendar with its navigation targets.
type MonthView struct {
	Title    string     `json:"title"`
	Weekdays []string   `json:"weekdays"`
	Previous Date       `json:"previousMonth"`
	Next     Date       `json:"nextMonth"`
	Days     []DayTotal `json:"days"`
}

// Overview is the analytics page for one date range.
type Overview struct {
	Range            DateRange      `json:"range"`
	Totals           CategoryTotals `json:"categoryTotals"`
	Breakdown        []BreakdownRow `json:"breakdown"`
	Ratings          RatingCounts   `json:"ratingCounts"`
	TotalMinutes     int            `json:"totalMinutes"`
	AvgMinutesPerDay int            `json:"avgMinutesPerDay"`
	RatedDays        int            `json:"ratedDays"`
	TopCategoryName  string         `json:"topCategoryName"`
}

// WeeklyTrends is the weekly tab: the four windows, the chart and the
// summary of the selected week.
type WeeklyTrends struct {
	Weeks    []Week      `json:"weeks"`
	Chart    []ChartRow  `json:"chart"`
	Selected Week        `json:"selectedWeek"`
	Summary  WeekSummary `json:"summary"`
}

// WeekSnapshot is a persisted WeekSummary for a given week start.
type WeekSnapshot struct {
	WeekStart Date `json:"weekStart"`
	WeekEnd   Date `json:"weekEnd"`
	WeekSummary
}

// BuildMonthView decorates the grid with day totals and ratings.
func BuildMonthView(ref, today Date, byDate map[string][]Activity, ratings map[string]Rating) MonthView {
	grid := MonthGrid(ref, today)
	days := make([]DayTotal, len(grid))
	for i, cell := range grid {
		key := cell.Date.String()
		acts := byDate[key]
		minutes := 0
		for _, a := range acts {
			minutes += a.Duration()
		}
		days[i] = DayTotal{
			CalendarDay:   cell,
			Minutes:       minutes,
			ActivityCount: len(acts),
			Rating:        ratings[key],
		}
	}
	return MonthView{
		Title:    MonthTitle(ref),
		Weekdays: WeekdayNames(),
		Previous: PreviousMonth(ref),
		Next:     NextMonth(ref),
		Days:     days,
	}
}

// BuildOverview computes the overview for r from resolved snapshots.
func BuildOverview(r DateRange, byDate map[string][]Activity, ratings map[string]Rating, categories []Category) Overview {
	totals := CategoryTotalsInRange(byDate, r.Start, r.End)
	counts := RatingCountsInRange(ratings, r.Start, r.End)
	return Overview{
		Range:            r,
		Totals:           totals,
		Breakdown:        CategoryBreakdown(totals, categories),
		Ratings:          counts,
		TotalMinutes:     totals.Total(),
		AvgMinutesPerDay: AverageMinutesPerDay(byDate, r.Start, r.End),
		RatedDays:        counts.Total(),
		TopCategoryName:  TopCategoryName(totals, categories),
	}
}

// BuildWeeklyTrends computes the weekly tab for the week labelled selected.
func BuildWeeklyTrends(today Date, activities []Activity, categories []Category, selected string) WeeklyTrends {
	weeks := LastFourWeeks(today)
	weekly := GroupByWeek(activities, weeks)
	sel := WeekByLabel(weeks, selected)
	return WeeklyTrends{
		Weeks:    weeks,
		Chart:    ChartMatrix(weekly, categories),
		Selected: sel,
		Summary:  WeeklySummaryFor(GroupByDate(activities), sel.Start, sel.End, categories),
	}
}

// RatingsByDate flattens stored ratings into the date-keyed shape.
func RatingsByDate(ratings []DailyRating) map[string]Rating {
	out := make(map[string]Rating, len(ratings))
	for _, r := range ratings {
		out[r.Date.String()] = r.Rating
	}
	return out
}
