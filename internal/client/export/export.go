// Package export writes confirmed events and todos as an iCalendar file.
package export

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/dmitrijs2005/mailcal/internal/client/models"
	"github.com/dmitrijs2005/mailcal/internal/filex"
)

const (
	productID = "-//mailcal//mailcal//EN"
	calName   = "mailcal"
	utcLayout = "20060102T150405Z"
)

// Build returns a calendar holding one VEVENT per event and one VTODO per
// todo. stamp is used for DTSTAMP.
func Build(events []models.CalendarEvent, todos []models.Todo, stamp time.Time) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(calName)

	for _, e := range events {
		ev := cal.AddEvent(uid(e.ID, "event"))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(e.Start.Time)
		ev.SetEndAt(e.End.Time)
		ev.SetSummary(e.Title)
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
		if e.Completed {
			ev.SetStatus(ics.ObjectStatusCompleted)
		} else {
			ev.SetStatus(ics.ObjectStatusConfirmed)
		}
	}

	for _, t := range todos {
		td := cal.AddTodo(uid(t.ID, "todo"))
		td.SetDtStampTime(stamp)
		td.SetSummary(t.Title)
		if t.Memo != "" {
			td.SetDescription(t.Memo)
		}
		if t.DueDate != nil && !t.DueDate.IsZero() {
			td.SetProperty(ics.ComponentPropertyDue, t.DueDate.UTC().Format(utcLayout))
		}
		if t.Completed {
			td.SetStatus(ics.ObjectStatusCompleted)
		} else {
			td.SetStatus(ics.ObjectStatusNeedsAction)
		}
	}
	return cal
}

// Write serializes the calendar built from events and todos to w.
func Write(w io.Writer, events []models.CalendarEvent, todos []models.Todo, stamp time.Time) error {
	if err := Build(events, todos, stamp).SerializeTo(w); err != nil {
		return fmt.Errorf("serialize calendar: %w", err)
	}
	return nil
}

// WriteFile writes the calendar to path, replacing any existing file only
// once the whole calendar has been written.
func WriteFile(path string, events []models.CalendarEvent, todos []models.Todo, stamp time.Time) error {
	return filex.WriteAtomic(path, func(w io.Writer) error {
		return Write(w, events, todos, stamp)
	})
}

func uid(id models.ID, kind string) string {
	return fmt.Sprintf("%s-%s@%s", kind, id, calName)
}
