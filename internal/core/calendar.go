package core

import (
	"fmt"
	"strings"
	"time"
)

// GridDays is the fixed size of a month view: six rows of seven days.
const GridDays = 42

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Date    Date `json:"date"`
	InMonth bool `json:"inMonth"`
	IsToday bool `json:"isToday"`
}

// MonthGrid returns the 42 days shown for the month containing ref,
// starting on the Sunday on or before the 1st.
func MonthGrid(ref, today Date) []CalendarDay {
	first := FirstOfMonth(ref)
	start := first.AddDays(-int(first.Weekday()))

	days := make([]CalendarDay, GridDays)
	for i := range days {
		d := start.AddDays(i)
		days[i] = CalendarDay{
			Date:    d,
			InMonth: d.Month() == first.Month() && d.Year() == first.Year(),
			IsToday: d.Equal(today.Time),
		}
	}
	return days
}

// FirstOfMonth drops the day-of-month; only month identity matters for grids.
func FirstOfMonth(d Date) Date {
	return NewDate(d.Year(), int(d.Month()), 1)
}

// ParseMonth parses "YYYY-MM" into the first day of that month.
func ParseMonth(s string) (Date, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: month %q (expected YYYY-MM)", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// PreviousMonth returns the first day of the month before d.
func PreviousMonth(d Date) Date {
	return Date{Time: FirstOfMonth(d).AddDate(0, -1, 0)}
}

// NextMonth returns the first day of the month after d.
func NextMonth(d Date) Date {
	return Date{Time: FirstOfMonth(d).AddDate(0, 1, 0)}
}

// WeekdayNames is the header row of the grid.
func WeekdayNames() []string {
	return []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
}

// MonthTitle formats the grid header, e.g. "January 2026".
func MonthTitle(d Date) string {
	return d.Format("January 2006")
}

// StartOfWeek returns the Sunday on or before d.
func StartOfWeek(d Date) Date {
	return d.AddDays(-int(d.Weekday()))
}

// EndOfWeek returns the Saturday on or after d.
func EndOfWeek(d Date) Date {
	return d.AddDays(int(time.Saturday - d.Weekday()))
}
