package calendar

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dmitrijs2005/mailcal/internal/client/models"
)

// DateIn returns the civil date of t as seen from loc.
func DateIn(t time.Time, loc *time.Location) civil.Date {
	return civil.DateOf(t.In(loc))
}

// Window is the closed interval [From, To].
type Window struct {
	From time.Time
	To   time.Time
}

// NewWindow spans recentDays whole days starting at now.
func NewWindow(now time.Time, recentDays int) Window {
	return Window{From: now, To: now.Add(time.Duration(recentDays) * 24 * time.Hour)}
}

// Contains reports whether t lies within the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// UpcomingEvents keeps events starting inside the window, ordered by start.
func UpcomingEvents(events []models.CalendarEvent, now time.Time, recentDays int) []models.CalendarEvent {
	w := NewWindow(now, recentDays)
	out := make([]models.CalendarEvent, 0, len(events))
	for _, ev := range events {
		if w.Contains(ev.Start.Time) {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start.Time) })
	return out
}

// UpcomingTodos keeps todos due inside the window plus every todo without a
// due date. Dated todos come first, ordered by due date.
func UpcomingTodos(todos []models.Todo, now time.Time, recentDays int) []models.Todo {
	w := NewWindow(now, recentDays)
	out := make([]models.Todo, 0, len(todos))
	for _, t := range todos {
		if t.DueDate == nil || t.DueDate.IsZero() || w.Contains(t.DueDate.Time) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].DueDate, out[j].DueDate
		switch {
		case a == nil || a.IsZero():
			return false
		case b == nil || b.IsZero():
			return true
		}
		return a.Before(b.Time)
	})
	return out
}

// EventsOn keeps events whose start falls on day in loc.
func EventsOn(events []models.CalendarEvent, day civil.Date, loc *time.Location) []models.CalendarEvent {
	out := make([]models.CalendarEvent, 0)
	for _, ev := range events {
		if DateIn(ev.Start.Time, loc) == day {
			out = append(out, ev)
		}
	}
	return out
}

// TodosOn keeps todos due on day in loc. Undated todos never match.
func TodosOn(todos []models.Todo, day civil.Date, loc *time.Location) []models.Todo {
	out := make([]models.Todo, 0)
	for _, t := range todos {
		if t.DueDate != nil && !t.DueDate.IsZero() && DateIn(t.DueDate.Time, loc) == day {
			out = append(out, t)
		}
	}
	return out
}
