package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ISODate is the layout used for every calendar day crossing the core boundary.
const ISODate = "2006-01-02"

const (
	Great Rating = "great"
	OK    Rating = "ok"
	Tough Rating = "tough"
)

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// UnknownCategoryName and UnknownCategoryColor render activities whose
// category was deleted.
const (
	UnknownCategoryName  = "Unknown"
	UnknownCategoryColor = "#6b7280"
)

type (
	Rating string

	Theme string

	// Date is a calendar day at UTC midnight.
	Date struct {
		time.Time
	}

	Activity struct {
		ID          string `json:"id"`
		Date        Date   `json:"date"`
		Start       Clock  `json:"startTime"`
		End         Clock  `json:"endTime"`
		CategoryID  string `json:"categoryId"`
		Title       string `json:"title"`
		Description string `json:"description,omitempty"`
	}

	Category struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Color     string `json:"color"`
		IsDefault bool   `json:"isDefault,omitempty"`
	}

	DailyRating struct {
		Date   Date   `json:"date"`
		Rating Rating `json:"rating"`
	}

	Settings struct {
		Theme          Theme `json:"theme"`
		LastViewedDate Date  `json:"lastViewedDate"`
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidRating   = errors.New("invalid rating")
	ErrInvalidTheme    = errors.New("invalid theme")
	ErrEmptyName       = errors.New("empty category name")
	ErrInvalidColor    = errors.New("invalid color")
	ErrEmptyCategory   = errors.New("empty category id")
	ErrReservedID      = errors.New("reserved category id")
	ErrTitleTooLong    = errors.New("title too long (max 200 characters)")
	ErrNameTooLong     = errors.New("category name too long (max 50 characters)")
	ErrDescriptionSize = errors.New("description too long (max 2000 characters)")
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Ratings lists the accepted rating values in display order.
func Ratings() []Rating {
	return []Rating{Great, OK, Tough}
}

func (r Rating) Valid() bool {
	switch r {
	case Great, OK, Tough:
		return true
	}
	return false
}

// ParseRating validates a raw rating value coming from a client or store.
func ParseRating(s string) (Rating, error) {
	r := Rating(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q (must be great, ok or tough)", ErrInvalidRating, s)
	}
	return r, nil
}

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a strict YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(ISODate, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// String returns the ISO form used as map key throughout the core.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(ISODate)
}

// AddDays shifts the date by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// MarshalJSON overrides the promoted time.Time encoding so a Date travels
// as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, b)
	}
	return d.UnmarshalText([]byte(s))
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (a Activity) Validate() error {
	if err := a.Date.Validate(); err != nil {
		return err
	}
	if err := a.Start.Validate(); err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	if err := a.End.Validate(); err != nil {
		return fmt.Errorf("end time: %w", err)
	}
	if strings.TrimSpace(a.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if len(a.Title) > 200 {
		return ErrTitleTooLong
	}
	if len(a.Description) > 2000 {
		return ErrDescriptionSize
	}
	return nil
}

// Duration is the activity length in minutes, wrapping past midnight.
func (a Activity) Duration() int {
	return CalculateDuration(a.Start, a.End)
}

// SpansMidnight reports whether the activity ends on the following day.
func (a Activity) SpansMidnight() bool {
	return a.End < a.Start
}

func (c Category) Validate() error {
	if c.ID == chartKeyWeek || c.ID == chartKeyWeekNumber {
		return fmt.Errorf("%w: %q", ErrReservedID, c.ID)
	}
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > 50 {
		return ErrNameTooLong
	}
	if !hexColor.MatchString(c.Color) {
		return fmt.Errorf("%w: %q (expected #rrggbb)", ErrInvalidColor, c.Color)
	}
	return nil
}

func (r DailyRating) Validate() error {
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if !r.Rating.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRating, r.Rating)
	}
	return nil
}

// DefaultSettings mirrors what a fresh user sees before saving anything.
func DefaultSettings(today Date) Settings {
	return Settings{Theme: ThemeLight, LastViewedDate: today}
}

func (s Settings) Validate() error {
	if !s.Theme.Valid() {
		return fmt.Errorf("%w: %q (must be light or dark)", ErrInvalidTheme, s.Theme)
	}
	return s.LastViewedDate.Validate()
}

// DefaultCategories seeds a new store.
func DefaultCategories() []Category {
	return []Category{
		{ID: "work", Name: "Work", Color: "#3b82f6", IsDefault: true},
		{ID: "exercise", Name: "Exercise", Color: "#10b981", IsDefault: true},
		{ID: "sleep", Name: "Sleep", Color: "#8b5cf6", IsDefault: true},
		{ID: "social", Name: "Social", Color: "#f59e0b", IsDefault: true},
		{ID: "learning", Name: "Learning", Color: "#ec4899", IsDefault: true},
		{ID: "chores", Name: "Chores", Color: "#6366f1", IsDefault: true},
	}
}

// LookupCategory finds a category by id, falling back to the Unknown
// placeholder for orphaned references.
func LookupCategory(categories []Category, id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{ID: id, Name: UnknownCategoryName, Color: UnknownCategoryColor}, false
}
