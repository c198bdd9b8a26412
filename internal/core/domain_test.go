package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false},
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2026-01-15" {
		t.Fatalf("got %s", d)
	}
	for _, bad := range []string{"", "2026-1-15", "15/01/2026", "2026-02-30"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestActivityValidate(t *testing.T) {
	good := Activity{
		Date:       NewDate(2026, 1, 15),
		Start:      MustClock("09:00"),
		End:        MustClock("10:30"),
		CategoryID: "work",
		Title:      "standup",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	noCategory := good
	noCategory.CategoryID = " "
	badClock := good
	badClock.End = Clock(MinutesPerDay)
	noDate := good
	noDate.Date = Date{}
	longTitle := good
	longTitle.Title = string(make([]byte, 201))

	for i, a := range []Activity{noCategory, badClock, noDate, longTitle} {
		if err := a.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestActivityJSON(t *testing.T) {
	raw := `{"id":"a1","date":"2026-01-15","startTime":"23:00","endTime":"01:00","categoryId":"sleep","title":""}`
	var a Activity
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !a.SpansMidnight() {
		t.Fatalf("expected midnight span")
	}
	if a.Duration() != 120 {
		t.Fatalf("expected 120 minutes, got %d", a.Duration())
	}
	out, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"date":"2026-01-15"`) || !strings.Contains(string(out), `"startTime":"23:00"`) {
		t.Fatalf("unexpected encoding: %s", out)
	}

	bad := `{"id":"a1","date":"2026-01-15","startTime":"9:00","endTime":"10:00","categoryId":"work"}`
	if err := json.Unmarshal([]byte(bad), &a); err == nil {
		t.Fatalf("expected error for malformed time")
	}
}

func TestCategoryValidate(t *testing.T) {
	cases := []struct {
		name string
		c    Category
		ok   bool
	}{
		{"valid", Category{Name: "Work", Color: "#3b82f6"}, true},
		{"uppercase hex", Category{Name: "Work", Color: "#3B82F6"}, true},
		{"empty name", Category{Name: "  ", Color: "#3b82f6"}, false},
		{"short hex", Category{Name: "Work", Color: "#fff"}, false},
		{"no hash", Category{Name: "Work", Color: "3b82f6"}, false},
		{"chart week key", Category{ID: "week", Name: "Week", Color: "#3b82f6"}, false},
		{"chart week number key", Category{ID: "weekNumber", Name: "Week", Color: "#3b82f6"}, false},
		{"week-like id", Category{ID: "weekly", Name: "Weekly", Color: "#3b82f6"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.c.Validate()
			if tc.ok != (err == nil) {
				t.Fatalf("ok=%v, err=%v", tc.ok, err)
			}
		})
	}
}

func TestCategoryValidateReservedID(t *testing.T) {
	err := Category{ID: "week", Name: "Week", Color: "#3b82f6"}.Validate()
	if !errors.Is(err, ErrReservedID) {
		t.Fatalf("got %v, want ErrReservedID", err)
	}
}

func TestParseRating(t *testing.T) {
	for _, s := range []string{"great", "OK", " tough "} {
		if _, err := ParseRating(s); err != nil {
			t.Fatalf("%q: %v", s, err)
		}
	}
	if _, err := ParseRating("meh"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLookupCategoryOrphan(t *testing.T) {
	c, ok := LookupCategory(DefaultCategories(), "gone")
	if ok {
		t.Fatalf("expected miss")
	}
	if c.Name != UnknownCategoryName || c.Color != UnknownCategoryColor {
		t.Fatalf("got %+v", c)
	}
}

func TestSettingsValidate(t *testing.T) {
	s := DefaultSettings(NewDate(2026, 1, 15))
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	s.Theme = "sepia"
	if err := s.Validate(); err == nil {
		t.Fatalf("expected theme error")
	}
}
