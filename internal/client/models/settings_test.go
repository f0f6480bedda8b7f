package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, 7, s.RecentDays)
	assert.Len(t, s.Keywords, 5)
	assert.True(t, s.EmailIntegration && s.CalendarIntegration && s.NotificationEnabled && s.AutoSave)
}

func TestSettings_Keywords(t *testing.T) {
	s := Settings{}
	require.NoError(t, s.AddKeyword("standup"))
	require.NoError(t, s.AddKeyword(" retro "))
	require.ErrorIs(t, s.AddKeyword("standup"), ErrDuplicateKeyword)
	require.ErrorIs(t, s.AddKeyword("  "), ErrEmptyKeyword)
	assert.Equal(t, []string{"standup", "retro"}, s.Keywords)

	assert.True(t, s.RemoveKeyword("standup"))
	assert.False(t, s.RemoveKeyword("standup"))
	assert.Equal(t, []string{"retro"}, s.Keywords)
}

func TestSettings_SetRecentDays(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.SetRecentDays(14))
	assert.Equal(t, 14, s.RecentDays)
	require.ErrorIs(t, s.SetRecentDays(0), ErrInvalidDays)
	require.ErrorIs(t, s.SetRecentDays(366), ErrInvalidDays)
	assert.Equal(t, 14, s.RecentDays)
}

func TestSettings_Flip(t *testing.T) {
	s := DefaultSettings()
	v, err := s.Flip("Email")
	require.NoError(t, err)
	assert.False(t, v)
	assert.False(t, s.EmailIntegration)

	v, err = s.Flip(ToggleAutoSave)
	require.NoError(t, err)
	assert.False(t, v)

	_, err = s.Flip("darkmode")
	require.ErrorIs(t, err, ErrUnknownToggle)
}
