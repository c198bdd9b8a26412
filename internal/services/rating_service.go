package services

import (
	"context"
	"fmt"

	"daytrack/internal/core"
	applog "daytrack/internal/log"
	"daytrack/internal/store"
)

type RatingService struct {
	ratings  store.RatingStore
	observer ChangeObserver
	logger   *applog.Logger
}

func NewRatingService(ratings store.RatingStore, observer ChangeObserver, logger *applog.Logger) *RatingService {
	if observer == nil {
		observer = noopObserver{}
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &RatingService{ratings: ratings, observer: observer, logger: logger.WithComponent(applog.ComponentRating)}
}

// Set records the rating for date, replacing any previous one.
func (s *RatingService) Set(ctx context.Context, date core.Date, raw string) (core.DailyRating, error) {
	rating, err := core.ParseRating(raw)
	if err != nil {
		return core.DailyRating{}, invalid("rating", err)
	}
	dr := core.DailyRating{Date: date, Rating: rating}
	if err := dr.Validate(); err != nil {
		return core.DailyRating{}, invalid("date", err)
	}
	if err := s.ratings.UpsertRating(ctx, dr); err != nil {
		return core.DailyRating{}, fmt.Errorf("save rating: %w", err)
	}
	s.logger.InfoContext(ctx, "Day rated",
		applog.NewFields().WithRating(date.String(), string(rating)).WithOperation(applog.OpUpdate).ToSlice()...)
	s.observer.DayChanged(ctx, date, ReasonRatingSet)
	return dr, nil
}

func (s *RatingService) Get(ctx context.Context, date core.Date) (core.DailyRating, error) {
	return s.ratings.GetRating(ctx, date)
}

func (s *RatingService) Delete(ctx context.Context, date core.Date) error {
	if err := s.ratings.DeleteRating(ctx, date); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Day rating cleared",
		applog.NewFields().WithDate(date.String()).WithOperation(applog.OpDelete).ToSlice()...)
	s.observer.DayChanged(ctx, date, ReasonRatingDeleted)
	return nil
}

func (s *RatingService) ListByRange(ctx context.Context, start, end core.Date) ([]core.DailyRating, error) {
	if end.Before(start.Time) {
		return nil, invalid("end", fmt.Errorf("%w: end %s before start %s", core.ErrInvalidDate, end, start))
	}
	return s.ratings.ListRatings(ctx, start, end)
}
