package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"daytrack/internal/core"
	"daytrack/internal/store"
)

func TestNewFromFilesSeedsAndDedupe(t *testing.T) {
	dir := t.TempDir()
	s := NewFromFiles(dir)
	cats, _ := s.ListCategories(context.Background())
	if len(cats) != len(core.DefaultCategories()) {
		t.Fatalf("expected defaults when file missing, got %v", cats)
	}

	content := "# name,color\nDeep Work,#112233\nReading,#abcdef\nDeep Work,#000000\nbroken,red\nWeek,#445566\n\n"
	if err := os.WriteFile(filepath.Join(dir, "seed_categories.txt"), []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	s = NewFromFiles(dir)
	cats, _ = s.ListCategories(context.Background())
	if len(cats) != 2 {
		t.Fatalf("unexpected cats: %v", cats)
	}
	if cats[0].ID != "deep-work" || cats[0].Color != "#112233" || cats[1].ID != "reading" {
		t.Fatalf("unexpected cats: %v", cats)
	}
}

func TestActivitiesListedInOrder(t *testing.T) {
	ctx := context.Background()
	s := New(core.DefaultCategories())
	day := core.NewDate(2026, 1, 15)
	for _, a := range []core.Activity{
		{ID: "c", Date: day, Start: core.MustClock("14:00"), End: core.MustClock("15:00"), CategoryID: "work"},
		{ID: "a", Date: day, Start: core.MustClock("09:00"), End: core.MustClock("10:00"), CategoryID: "work"},
		{ID: "b", Date: day.AddDays(-1), Start: core.MustClock("20:00"), End: core.MustClock("21:00"), CategoryID: "social"},
		{ID: "z", Date: day.AddDays(10), Start: core.MustClock("20:00"), End: core.MustClock("21:00"), CategoryID: "social"},
	} {
		if err := s.CreateActivity(ctx, a); err != nil {
			t.Fatalf("create %s: %v", a.ID, err)
		}
	}

	got, err := s.ListActivities(ctx, day.AddDays(-1), day)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %d activities", len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: got %s want %s", i, got[i].ID, id)
		}
	}

	if err := s.DeleteActivity(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRatingUpsert(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	day := core.NewDate(2026, 1, 15)
	_ = s.UpsertRating(ctx, core.DailyRating{Date: day, Rating: core.Tough})
	_ = s.UpsertRating(ctx, core.DailyRating{Date: day, Rating: core.Great})

	rs, _ := s.ListRatings(ctx, day, day)
	if len(rs) != 1 || rs[0].Rating != core.Great {
		t.Fatalf("expected single upserted rating, got %v", rs)
	}
	if err := s.DeleteRating(ctx, day); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetRating(ctx, day); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCategoryKeepsActivities(t *testing.T) {
	ctx := context.Background()
	s := New(core.DefaultCategories())
	day := core.NewDate(2026, 1, 15)
	_ = s.CreateActivity(ctx, core.Activity{ID: "a", Date: day, Start: 0, End: 60, CategoryID: "work"})
	if err := s.DeleteCategory(ctx, "work"); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	a, err := s.GetActivity(ctx, "a")
	if err != nil || a.CategoryID != "work" {
		t.Fatalf("activity should survive with orphaned id: %v %v", a, err)
	}
}

func TestSettingsAndSnapshots(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	if _, err := s.GetSettings(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before save, got %v", err)
	}
	want := core.Settings{Theme: core.ThemeDark, LastViewedDate: core.NewDate(2026, 1, 1)}
	_ = s.SaveSettings(ctx, want)
	if got, _ := s.GetSettings(ctx); got != want {
		t.Fatalf("got %+v", got)
	}

	for _, start := range []core.Date{core.NewDate(2026, 1, 4), core.NewDate(2026, 1, 11), core.NewDate(2025, 12, 28)} {
		_ = s.UpsertSnapshot(ctx, core.WeekSnapshot{WeekStart: start, WeekEnd: start.AddDays(6)})
	}
	snaps, _ := s.ListSnapshots(ctx, 2)
	if len(snaps) != 2 || snaps[0].WeekStart.String() != "2026-01-11" {
		t.Fatalf("unexpected snapshots: %v", snaps)
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Work":            "work",
		"  Deep   Work  ": "deep-work",
		"R&D / Research":  "r-d-research",
		"Café":            "caf",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}
