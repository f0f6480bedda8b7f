package calendar

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/dmitrijs2005/mailcal/internal/client/models"
)

// Day is one cell of a month grid.
type Day struct {
	Date     civil.Date
	InMonth  bool
	Today    bool
	Selected bool
	Events   []models.CalendarEvent
	Todos    []models.Todo
}

// Month is a Sunday-first grid covering a whole calendar month.
type Month struct {
	Year  int
	Month time.Month
	Days  []Day
}

// Weeks splits the grid into rows of seven days.
func (m Month) Weeks() [][]Day {
	weeks := make([][]Day, 0, len(m.Days)/7)
	for i := 0; i+7 <= len(m.Days); i += 7 {
		weeks = append(weeks, m.Days[i:i+7])
	}
	return weeks
}

// First and Last return the first and last cells' dates.
func (m Month) First() civil.Date { return m.Days[0].Date }
func (m Month) Last() civil.Date  { return m.Days[len(m.Days)-1].Date }

func weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

// MonthBounds returns the Sunday on or before the 1st and the Saturday on or
// after the last day of the month.
func MonthBounds(year int, month time.Month) (civil.Date, civil.Date) {
	first := civil.Date{Year: year, Month: month, Day: 1}
	last := civil.DateOf(time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC))
	return first.AddDays(-int(weekday(first))), last.AddDays(int(time.Saturday - weekday(last)))
}

// BuildMonth lays out year/month and attaches each event and todo to the
// cell of its civil date in loc.
func BuildMonth(year int, month time.Month, today, selected civil.Date,
	events []models.CalendarEvent, todos []models.Todo, loc *time.Location) Month {

	byDayEvents := make(map[civil.Date][]models.CalendarEvent)
	for _, ev := range events {
		d := DateIn(ev.Start.Time, loc)
		byDayEvents[d] = append(byDayEvents[d], ev)
	}
	byDayTodos := make(map[civil.Date][]models.Todo)
	for _, t := range todos {
		if t.DueDate == nil || t.DueDate.IsZero() {
			continue
		}
		d := DateIn(t.DueDate.Time, loc)
		byDayTodos[d] = append(byDayTodos[d], t)
	}

	start, end := MonthBounds(year, month)
	m := Month{Year: year, Month: month}
	for d := start; !d.After(end); d = d.AddDays(1) {
		m.Days = append(m.Days, Day{
			Date:     d,
			InMonth:  d.Month == month && d.Year == year,
			Today:    d == today,
			Selected: d == selected,
			Events:   byDayEvents[d],
			Todos:    byDayTodos[d],
		})
	}
	return m
}
