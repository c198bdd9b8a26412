package core

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MinutesPerDay bounds every Clock value.
const MinutesPerDay = 24 * 60

// GridSlotMinutes is the timeline granularity: 96 rows of 15 minutes.
const GridSlotMinutes = 15

var ErrInvalidTime = errors.New("invalid time")

// Clock is a time of day in minutes since midnight, [0, 1439].
// It marshals to and from "HH:MM".
type Clock int

// ParseClock converts a strict 24-hour "HH:MM" string.
func ParseClock(s string) (Clock, error) {
	m, err := TimeToMinutes(s)
	if err != nil {
		return 0, err
	}
	return Clock(m), nil
}

// MustClock is ParseClock for literals known to be valid.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// TimeToMinutes parses "HH:MM" into minutes since midnight. Anything other
// than two digits, a colon and two digits in range is rejected.
func TimeToMinutes(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q (expected HH:MM)", ErrInvalidTime, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q (hour out of range)", ErrInvalidTime, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q (minute out of range)", ErrInvalidTime, s)
	}
	return h*60 + m, nil
}

// MinutesToTime formats minutes since midnight as "HH:MM".
// It panics when m is outside [0, 1439].
func MinutesToTime(m int) string {
	if m < 0 || m >= MinutesPerDay {
		panic(fmt.Sprintf("core: minutes %d out of range [0,%d]", m, MinutesPerDay-1))
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func (c Clock) Validate() error {
	if c < 0 || c >= MinutesPerDay {
		return fmt.Errorf("%w: %d minutes", ErrInvalidTime, int(c))
	}
	return nil
}

func (c Clock) Minutes() int {
	return int(c)
}

func (c Clock) String() string {
	return MinutesToTime(int(c))
}

func (c Clock) MarshalText() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// CalculateDuration returns the minutes from start to end. An end before the
// start means the interval wraps past midnight.
func CalculateDuration(start, end Clock) int {
	if end >= start {
		return int(end - start)
	}
	return (MinutesPerDay - int(start)) + int(end)
}

// FormatDuration renders minutes as "45m", "2h" or "1h 30m".
func FormatDuration(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60
	switch {
	case hours == 0:
		return strconv.Itoa(mins) + "m"
	case mins == 0:
		return strconv.Itoa(hours) + "h"
	default:
		return strconv.Itoa(hours) + "h " + strconv.Itoa(mins) + "m"
	}
}

// SnapToInterval rounds minutes to the nearest multiple of interval, halves
// rounding up. A non-positive interval falls back to GridSlotMinutes.
func SnapToInterval(minutes, interval int) int {
	if interval <= 0 {
		interval = GridSlotMinutes
	}
	return int(math.Floor(float64(minutes)/float64(interval)+0.5)) * interval
}

// HourLabels returns "00:00" through "23:00" for the timeline axis.
func HourLabels() []string {
	labels := make([]string, 24)
	for h := range labels {
		labels[h] = MinutesToTime(h * 60)
	}
	return labels
}

// TimeToGridRow is the 1-based timeline row a time of day starts on.
func TimeToGridRow(c Clock) int {
	return int(c)/GridSlotMinutes + 1
}

// DurationToGridSpan is the number of timeline rows an interval covers.
func DurationToGridSpan(start, end Clock) int {
	d := CalculateDuration(start, end)
	return (d + GridSlotMinutes - 1) / GridSlotMinutes
}

// roundHalfUp matches the rounding used for every displayed average.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
