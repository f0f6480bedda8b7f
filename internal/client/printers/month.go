package printers

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/fatih/color"

	"github.com/dmitrijs2005/mailcal/internal/calendar"
	"github.com/dmitrijs2005/mailcal/internal/client/models"
)

const cellWidth = len("31* ")

var (
	outside  = color.New(color.Faint)
	today    = color.New(color.Bold, color.FgHiGreen)
	selected = color.New(color.ReverseVideo)
	busy     = color.New(color.Bold)
)

// Month prints a Sunday-first grid. Days carrying events or todos are marked
// with '*'.
func (p *Printer) Month(m calendar.Month) {
	width := cellWidth*7 - 1
	head := fmt.Sprintf("%s %d", m.Month, m.Year)
	pad := (width - len(head)) / 2
	_, _ = title.Fprintf(p.Out, "%s%s\n", strings.Repeat(" ", pad), head)
	_, _ = faint.Fprintln(p.Out, "Su  Mo  Tu  We  Th  Fr  Sa")

	for _, week := range m.Weeks() {
		cells := make([]string, len(week))
		for i, d := range week {
			cells[i] = cell(d)
		}
		_, _ = fmt.Fprintln(p.Out, strings.Join(cells, " "))
	}
	_, _ = fmt.Fprintln(p.Out)
}

func cell(d calendar.Day) string {
	mark := " "
	if len(d.Events) > 0 || len(d.Todos) > 0 {
		mark = "*"
	}
	text := fmt.Sprintf("%2d%s", d.Date.Day, mark)

	switch {
	case d.Selected:
		return selected.Sprint(text)
	case d.Today:
		return today.Sprint(text)
	case !d.InMonth:
		return outside.Sprint(text)
	case mark == "*":
		return busy.Sprint(text)
	}
	return text
}

// Day prints the agenda for one date.
func (p *Printer) Day(day civil.Date, events []models.CalendarEvent, todos []models.Todo) {
	_, _ = title.Fprintln(p.Out, day.In(p.Loc).Format("Monday, January 2 2006"))
	if len(events) == 0 && len(todos) == 0 {
		p.empty()
		return
	}
	for _, e := range events {
		_, _ = fmt.Fprintf(p.Out, "%s %s-%s  %s  %s\n", check(e.Completed),
			e.Start.In(p.Loc).Format("15:04"), e.End.In(p.Loc).Format("15:04"), e.Title, ids.Sprint(e.ID))
	}
	for _, t := range todos {
		_, _ = fmt.Fprintf(p.Out, "%s todo         %s  %s\n", check(t.Completed), t.Title, ids.Sprint(t.ID))
	}
	_, _ = fmt.Fprintln(p.Out)
}
