package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrUnknownToggle    = errors.New("unknown setting")
	ErrInvalidDays      = errors.New("recent days must be between 1 and 365")
	ErrEmptyKeyword     = errors.New("keyword must not be empty")
	ErrDuplicateKeyword = errors.New("keyword already present")
)

// Toggle names accepted by Settings.Flip.
const (
	ToggleEmailIntegration    = "email"
	ToggleCalendarIntegration = "calendar"
	ToggleNotifications       = "notification"
	ToggleAutoSave            = "autosave"
)

// Settings is the user-scoped configuration of the dashboard.
type Settings struct {
	Keywords            []string `json:"keywords"`
	EmailIntegration    bool     `json:"emailIntegration"`
	CalendarIntegration bool     `json:"calendarIntegration"`
	NotificationEnabled bool     `json:"notificationEnabled"`
	AutoSave            bool     `json:"autoSave"`
	RecentDays          int      `json:"recentDays" validate:"min=1,max=365"`
}

// DefaultSettings returns the settings a new user starts with.
func DefaultSettings() Settings {
	return Settings{
		Keywords:            []string{"会議", "ミーティング", "打ち合わせ", "予定", "イベント"},
		EmailIntegration:    true,
		CalendarIntegration: true,
		NotificationEnabled: true,
		AutoSave:            true,
		RecentDays:          7,
	}
}

// AddKeyword appends w, preserving order.
func (s *Settings) AddKeyword(w string) error {
	w = strings.TrimSpace(w)
	if w == "" {
		return ErrEmptyKeyword
	}
	if slices.Contains(s.Keywords, w) {
		return ErrDuplicateKeyword
	}
	s.Keywords = append(s.Keywords, w)
	return nil
}

// RemoveKeyword deletes w and reports whether it was present.
func (s *Settings) RemoveKeyword(w string) bool {
	i := slices.Index(s.Keywords, strings.TrimSpace(w))
	if i < 0 {
		return false
	}
	s.Keywords = slices.Delete(s.Keywords, i, i+1)
	return true
}

// SetRecentDays updates the upcoming window size.
func (s *Settings) SetRecentDays(n int) error {
	if n < 1 || n > 365 {
		return ErrInvalidDays
	}
	s.RecentDays = n
	return nil
}

// Flip inverts the named integration toggle and returns its new value.
func (s *Settings) Flip(name string) (bool, error) {
	var p *bool
	switch strings.ToLower(name) {
	case ToggleEmailIntegration:
		p = &s.EmailIntegration
	case ToggleCalendarIntegration:
		p = &s.CalendarIntegration
	case ToggleNotifications:
		p = &s.NotificationEnabled
	case ToggleAutoSave:
		p = &s.AutoSave
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownToggle, name)
	}
	*p = !*p
	return *p, nil
}
