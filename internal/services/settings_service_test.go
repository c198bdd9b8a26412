package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daytrack/internal/core"
)

func TestSettingsServiceDefaultsAndSave(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(newStore())
	today := day("2024-03-04")

	st, err := svc.Get(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, core.DefaultSettings(today), st)

	st, err = svc.Save(ctx, today, core.ThemeDark, core.Date{})
	require.NoError(t, err)
	assert.Equal(t, core.ThemeDark, st.Theme)
	assert.Equal(t, today, st.LastViewedDate)

	st, err = svc.Save(ctx, day("2024-03-05"), "", day("2024-02-01"))
	require.NoError(t, err)
	assert.Equal(t, core.ThemeDark, st.Theme)
	assert.Equal(t, day("2024-02-01"), st.LastViewedDate)

	_, err = svc.Save(ctx, today, core.Theme("neon"), core.Date{})
	assert.True(t, IsValidation(err))
}
