package services

import (
	"context"
	"errors"
	"fmt"

	"daytrack/internal/core"
	"daytrack/internal/store"
)

type SettingsService struct {
	settings store.SettingsStore
}

func NewSettingsService(settings store.SettingsStore) *SettingsService {
	return &SettingsService{settings: settings}
}

// Get returns the saved settings, or the defaults for today when none exist.
func (s *SettingsService) Get(ctx context.Context, today core.Date) (core.Settings, error) {
	st, err := s.settings.GetSettings(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return core.DefaultSettings(today), nil
	}
	if err != nil {
		return core.Settings{}, err
	}
	return st, nil
}

// Save merges the non-zero fields of patch into the current settings.
func (s *SettingsService) Save(ctx context.Context, today core.Date, theme core.Theme, lastViewed core.Date) (core.Settings, error) {
	st, err := s.Get(ctx, today)
	if err != nil {
		return core.Settings{}, err
	}
	if theme != "" {
		st.Theme = theme
	}
	if !lastViewed.IsZero() {
		st.LastViewedDate = lastViewed
	}
	if err := st.Validate(); err != nil {
		return core.Settings{}, invalid("settings", err)
	}
	if err := s.settings.SaveSettings(ctx, st); err != nil {
		return core.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return st, nil
}
