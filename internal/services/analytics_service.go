package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"daytrack/internal/cache"
	"daytrack/internal/core"
	applog "daytrack/internal/log"
	"daytrack/internal/metrics"
	"daytrack/internal/store"
)

// CacheOptions sizes the analytics view caches. A zero Size disables caching.
type CacheOptions struct {
	Size int
	TTL  time.Duration
}

// AnalyticsService resolves store snapshots and runs the core aggregations
// on them. Computed views are cached until a change invalidates them.
type AnalyticsService struct {
	activities store.ActivityStore
	ratings    store.RatingStore
	categories store.CategoryStore
	logger     *applog.Logger

	overviews cache.Cache[core.Overview]
	weekly    cache.Cache[core.WeeklyTrends]
	calendars cache.Cache[core.MonthView]
}

func NewAnalyticsService(activities store.ActivityStore, ratings store.RatingStore, categories store.CategoryStore, opts CacheOptions, logger *applog.Logger) *AnalyticsService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	s := &AnalyticsService{
		activities: activities,
		ratings:    ratings,
		categories: categories,
		logger:     logger.WithComponent(applog.ComponentAnalytics),
	}
	if opts.Size > 0 {
		s.overviews = cache.New[core.Overview](opts.Size, opts.TTL)
		s.weekly = cache.New[core.WeeklyTrends](opts.Size, opts.TTL)
		s.calendars = cache.New[core.MonthView](opts.Size, opts.TTL)
	} else {
		s.overviews = cache.Noop[core.Overview]{}
		s.weekly = cache.Noop[core.WeeklyTrends]{}
		s.calendars = cache.Noop[core.MonthView]{}
	}
	return s
}

// snapshot is everything the core needs for one date window.
type snapshot struct {
	byDate     map[string][]core.Activity
	flat       []core.Activity
	ratings    map[string]core.Rating
	categories []core.Category
}

func (s *AnalyticsService) load(ctx context.Context, start, end core.Date, withRatings bool) (snapshot, error) {
	var (
		snap    snapshot
		ratings []core.DailyRating
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		acts, err := s.activities.ListActivities(gctx, start, end)
		if err != nil {
			return fmt.Errorf("load activities: %w", err)
		}
		snap.flat = acts
		return nil
	})
	if withRatings {
		g.Go(func() error {
			rs, err := s.ratings.ListRatings(gctx, start, end)
			if err != nil {
				return fmt.Errorf("load ratings: %w", err)
			}
			ratings = rs
			return nil
		})
	}
	g.Go(func() error {
		cats, err := s.categories.ListCategories(gctx)
		if err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		snap.categories = cats
		return nil
	})
	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	snap.byDate = core.GroupByDate(snap.flat)
	snap.ratings = core.RatingsByDate(ratings)
	return snap, nil
}

// Overview computes the analytics overview for r.
func (s *AnalyticsService) Overview(ctx context.Context, r core.DateRange) (core.Overview, error) {
	if r.End.Before(r.Start.Time) {
		return core.Overview{}, invalid("end", fmt.Errorf("%w: end %s before start %s", core.ErrInvalidDate, r.End, r.Start))
	}
	key := "overview:" + r.Start.String() + ":" + r.End.String()
	if v, ok := s.overviews.Get(key); ok {
		metrics.RecordCacheLookup("overview", true)
		return v, nil
	}
	metrics.RecordCacheLookup("overview", false)

	snap, err := s.load(ctx, r.Start, r.End, true)
	if err != nil {
		return core.Overview{}, err
	}
	v := core.BuildOverview(r, snap.byDate, snap.ratings, snap.categories)
	s.overviews.Set(key, v)
	return v, nil
}

// Weekly computes the four-week trend view, summarizing the week labelled
// selected (the current week when the label is unknown).
func (s *AnalyticsService) Weekly(ctx context.Context, today core.Date, selected string) (core.WeeklyTrends, error) {
	key := "weekly:" + today.String() + ":" + selected
	if v, ok := s.weekly.Get(key); ok {
		metrics.RecordCacheLookup("weekly", true)
		return v, nil
	}
	metrics.RecordCacheLookup("weekly", false)

	weeks := core.LastFourWeeks(today)
	snap, err := s.load(ctx, weeks[len(weeks)-1].Start, weeks[0].End, false)
	if err != nil {
		return core.WeeklyTrends{}, err
	}
	v := core.BuildWeeklyTrends(today, snap.flat, snap.categories, selected)
	s.weekly.Set(key, v)
	return v, nil
}

// Calendar builds the month grid for the month containing ref.
func (s *AnalyticsService) Calendar(ctx context.Context, ref, today core.Date) (core.MonthView, error) {
	first := core.FirstOfMonth(ref)
	key := calendarPrefix(first) + today.String()
	if v, ok := s.calendars.Get(key); ok {
		metrics.RecordCacheLookup("calendar", true)
		return v, nil
	}
	metrics.RecordCacheLookup("calendar", false)

	grid := core.MonthGrid(first, today)
	snap, err := s.load(ctx, grid[0].Date, grid[len(grid)-1].Date, true)
	if err != nil {
		return core.MonthView{}, err
	}
	v := core.BuildMonthView(first, today, snap.byDate, snap.ratings)
	s.calendars.Set(key, v)
	return v, nil
}

// WeekSummary summarizes the Sunday..Saturday week containing date.
func (s *AnalyticsService) WeekSummary(ctx context.Context, date core.Date) (core.WeekSnapshot, error) {
	start, end := core.StartOfWeek(date), core.EndOfWeek(date)
	snap, err := s.load(ctx, start, end, false)
	if err != nil {
		return core.WeekSnapshot{}, err
	}
	return core.WeekSnapshot{
		WeekStart:   start,
		WeekEnd:     end,
		WeekSummary: core.WeeklySummaryFor(snap.byDate, start, end, snap.categories),
	}, nil
}

func calendarPrefix(month core.Date) string {
	return "calendar:" + month.Format("2006-01") + ":"
}

// InvalidateDay drops every cached view that can include date. A grid shows
// days of the neighbouring months too, so those are dropped as well.
func (s *AnalyticsService) InvalidateDay(date core.Date) {
	s.overviews.Clear()
	s.weekly.Clear()
	for _, m := range []core.Date{core.PreviousMonth(date), core.FirstOfMonth(date), core.NextMonth(date)} {
		s.calendars.DeletePrefix(calendarPrefix(m))
	}
	s.logger.Debug("Analytics cache invalidated", applog.FieldDate, date.String())
}

func (s *AnalyticsService) InvalidateAll() {
	s.overviews.Clear()
	s.weekly.Clear()
	s.calendars.Clear()
}
