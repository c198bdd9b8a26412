package store

import (
	"context"
	"errors"

	"daytrack/internal/core"
)

// ErrNotFound is returned when a record addressed by id or date does not exist.
var ErrNotFound = errors.New("not found")

// Ports for persistence adapters.
type (
	ActivityStore interface {
		CreateActivity(ctx context.Context, a core.Activity) error
		UpdateActivity(ctx context.Context, a core.Activity) error
		DeleteActivity(ctx context.Context, id string) error
		GetActivity(ctx context.Context, id string) (core.Activity, error)
		// ListActivities returns activities whose start date is in
		// [start, end], ordered by date then start time.
		ListActivities(ctx context.Context, start, end core.Date) ([]core.Activity, error)
	}

	CategoryStore interface {
		// ListCategories returns categories in creation order.
		ListCategories(ctx context.Context) ([]core.Category, error)
		CreateCategory(ctx context.Context, c core.Category) error
		UpdateCategory(ctx context.Context, c core.Category) error
		// DeleteCategory removes the category only; activities keep the id.
		DeleteCategory(ctx context.Context, id string) error
	}

	RatingStore interface {
		// UpsertRating keeps at most one rating per date.
		UpsertRating(ctx context.Context, r core.DailyRating) error
		GetRating(ctx context.Context, date core.Date) (core.DailyRating, error)
		DeleteRating(ctx context.Context, date core.Date) error
		ListRatings(ctx context.Context, start, end core.Date) ([]core.DailyRating, error)
	}

	SettingsStore interface {
		// GetSettings returns ErrNotFound until settings are first saved.
		GetSettings(ctx context.Context) (core.Settings, error)
		SaveSettings(ctx context.Context, s core.Settings) error
	}

	SnapshotStore interface {
		UpsertSnapshot(ctx context.Context, s core.WeekSnapshot) error
		// ListSnapshots returns the most recent snapshots, newest first.
		ListSnapshots(ctx context.Context, limit int) ([]core.WeekSnapshot, error)
	}

	Pinger interface {
		Ping(ctx context.Context) error
	}

	// Store is everything a backend must provide.
	Store interface {
		ActivityStore
		CategoryStore
		RatingStore
		SettingsStore
		SnapshotStore
		Pinger
	}
)
