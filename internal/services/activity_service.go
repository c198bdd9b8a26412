package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"daytrack/internal/core"
	applog "daytrack/internal/log"
	"daytrack/internal/metrics"
	"daytrack/internal/store"
)

// Event reasons, shared with the broker message.
const (
	ReasonActivityCreated = "activity.created"
	ReasonActivityUpdated = "activity.updated"
	ReasonActivityDeleted = "activity.deleted"
	ReasonRatingSet       = "rating.set"
	ReasonRatingDeleted   = "rating.deleted"
)

// ActivityInput is a new activity as submitted by a client.
type ActivityInput struct {
	Date        core.Date
	Start       core.Clock
	End         core.Clock
	CategoryID  string
	Title       string
	Description string
}

// ActivityPatch updates only the non-nil fields.
type ActivityPatch struct {
	Date        *core.Date
	Start       *core.Clock
	End         *core.Clock
	CategoryID  *string
	Title       *string
	Description *string
}

func (p ActivityPatch) apply(a core.Activity) core.Activity {
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.Start != nil {
		a.Start = *p.Start
	}
	if p.End != nil {
		a.End = *p.End
	}
	if p.CategoryID != nil {
		a.CategoryID = *p.CategoryID
	}
	if p.Title != nil {
		a.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		a.Description = strings.TrimSpace(*p.Description)
	}
	return a
}

// ActivityService validates activity writes, enforces the no-overlap rule
// within a day and notifies observers.
type ActivityService struct {
	activities store.ActivityStore
	categories store.CategoryStore
	observer   ChangeObserver
	logger     *applog.Logger
	newID      func() string

	// writeMu spans the overlap check and the write it guards.
	writeMu sync.Mutex
}

// NewActivityService builds the service. categories may be nil to skip the
// category existence check; observer may be nil.
func NewActivityService(activities store.ActivityStore, categories store.CategoryStore, observer ChangeObserver, logger *applog.Logger) *ActivityService {
	if observer == nil {
		observer = noopObserver{}
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ActivityService{
		activities: activities,
		categories: categories,
		observer:   observer,
		logger:     logger.WithComponent(applog.ComponentActivity),
		newID:      uuid.NewString,
	}
}

func (s *ActivityService) Create(ctx context.Context, in ActivityInput) (core.Activity, error) {
	a := core.Activity{
		ID:          s.newID(),
		Date:        in.Date,
		Start:       in.Start,
		End:         in.End,
		CategoryID:  strings.TrimSpace(in.CategoryID),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
	}
	if err := s.create(ctx, a); err != nil {
		return core.Activity{}, err
	}

	metrics.RecordActivityMutation(applog.OpCreate)
	metrics.RecordLoggedMinutes(a.CategoryID, a.Duration())
	s.logger.InfoContext(ctx, "Activity created", s.fields(a, applog.OpCreate)...)
	s.observer.DayChanged(ctx, a.Date, ReasonActivityCreated)
	return a, nil
}

func (s *ActivityService) create(ctx context.Context, a core.Activity) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.check(ctx, a); err != nil {
		return err
	}
	if err := s.activities.CreateActivity(ctx, a); err != nil {
		return fmt.Errorf("save activity: %w", err)
	}
	return nil
}

func (s *ActivityService) Update(ctx context.Context, id string, patch ActivityPatch) (core.Activity, error) {
	current, updated, err := s.update(ctx, id, patch)
	if err != nil {
		return core.Activity{}, err
	}

	metrics.RecordActivityMutation(applog.OpUpdate)
	s.logger.InfoContext(ctx, "Activity updated", s.fields(updated, applog.OpUpdate)...)
	s.observer.DayChanged(ctx, updated.Date, ReasonActivityUpdated)
	if !updated.Date.Equal(current.Date.Time) {
		s.observer.DayChanged(ctx, current.Date, ReasonActivityUpdated)
	}
	return updated, nil
}

func (s *ActivityService) update(ctx context.Context, id string, patch ActivityPatch) (current, updated core.Activity, err error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current, err = s.activities.GetActivity(ctx, id)
	if err != nil {
		return current, updated, err
	}
	updated = patch.apply(current)
	if err = s.check(ctx, updated); err != nil {
		return current, updated, err
	}
	if err = s.activities.UpdateActivity(ctx, updated); err != nil {
		return current, updated, fmt.Errorf("update activity: %w", err)
	}
	return current, updated, nil
}

func (s *ActivityService) Delete(ctx context.Context, id string) error {
	current, err := s.activities.GetActivity(ctx, id)
	if err != nil {
		return err
	}
	if err := s.activities.DeleteActivity(ctx, id); err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	metrics.RecordActivityMutation(applog.OpDelete)
	s.logger.InfoContext(ctx, "Activity deleted", s.fields(current, applog.OpDelete)...)
	s.observer.DayChanged(ctx, current.Date, ReasonActivityDeleted)
	return nil
}

func (s *ActivityService) Get(ctx context.Context, id string) (core.Activity, error) {
	return s.activities.GetActivity(ctx, id)
}

func (s *ActivityService) ListByDate(ctx context.Context, date core.Date) ([]core.Activity, error) {
	return s.ListByRange(ctx, date, date)
}

func (s *ActivityService) ListByRange(ctx context.Context, start, end core.Date) ([]core.Activity, error) {
	if end.Before(start.Time) {
		return nil, invalid("end", fmt.Errorf("%w: end %s before start %s", core.ErrInvalidDate, end, start))
	}
	return s.activities.ListActivities(ctx, start, end)
}

// check validates a and rejects it when it overlaps another activity of
// the same day. Callers hold writeMu.
func (s *ActivityService) check(ctx context.Context, a core.Activity) error {
	if err := a.Validate(); err != nil {
		return invalid("activity", err)
	}
	if s.categories != nil {
		cats, err := s.categories.ListCategories(ctx)
		if err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		if _, ok := core.LookupCategory(cats, a.CategoryID); !ok {
			return invalid("categoryId", fmt.Errorf("%w: %q", ErrUnknownCategory, a.CategoryID))
		}
	}

	sameDay, err := s.activities.ListActivities(ctx, a.Date, a.Date)
	if err != nil {
		return fmt.Errorf("load day activities: %w", err)
	}
	if conflicts := core.Conflicts(a.Start, a.End, sameDay, a.ID); len(conflicts) > 0 {
		metrics.RecordOverlapRejected()
		s.logger.WarnContext(ctx, "Activity overlaps existing activity",
			append(s.fields(a, applog.OpValidate), "conflicts", len(conflicts))...)
		return &core.OverlapError{Start: a.Start, End: a.End, Conflicts: conflicts}
	}
	return nil
}

func (s *ActivityService) fields(a core.Activity, op string) []any {
	return applog.NewFields().
		WithActivity(a.ID, a.Date.String(), a.CategoryID, a.Start.String(), a.End.String(), a.Duration()).
		WithOperation(op).
		ToSlice()
}

// IsNotFound reports whether err means the addressed record is missing.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
