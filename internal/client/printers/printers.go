// Package printers renders dashboard data for a terminal.
package printers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/dmitrijs2005/mailcal/internal/client/identity"
	"github.com/dmitrijs2005/mailcal/internal/client/models"
)

const (
	timeLayout = "2006-01-02 15:04"
	maxCol     = 48
)

var (
	bold  = color.New(color.Bold)
	title = color.New(color.Bold, color.Underline)
	faint = color.New(color.Faint)
	none  = color.New(color.Faint, color.Italic)
	warn  = color.New(color.FgRed)
	okay  = color.New(color.FgGreen)
	ids   = color.New(color.FgHiYellow, color.Faint)
)

// Printer writes tables and headings to Out, formatting times in Loc.
type Printer struct {
	Out io.Writer
	Loc *time.Location
}

func New(out io.Writer, loc *time.Location) *Printer {
	if loc == nil {
		loc = time.Local
	}
	return &Printer{Out: out, Loc: loc}
}

// Title prints an underlined heading followed by the item count.
func (p *Printer) Title(text string, count int) {
	_, _ = title.Fprint(p.Out, text)
	noun := "items"
	if count == 1 {
		noun = "item"
	}
	_, _ = faint.Fprintf(p.Out, " - %d %s\n", count, noun)
}

// Error prints msg in red.
func (p *Printer) Error(msg string) {
	_, _ = warn.Fprintln(p.Out, msg)
}

// OK prints msg in green.
func (p *Printer) OK(msg string) {
	_, _ = okay.Fprintln(p.Out, msg)
}

// Loading reports a resource that has no data yet.
func (p *Printer) Loading(name string) {
	_, _ = none.Fprintf(p.Out, " loading %s...\n", name)
}

func (p *Printer) empty() {
	_, _ = none.Fprint(p.Out, " none\n\n")
}

func (p *Printer) table(header ...any) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = maxCol
	tbl.Wrap = true
	cols := make([]any, len(header))
	for i, h := range header {
		cols[i] = bold.Sprint(h)
	}
	tbl.AddRow(cols...)
	return tbl
}

func (p *Printer) flush(tbl *uitable.Table) {
	_, _ = fmt.Fprintln(p.Out, tbl)
	_, _ = fmt.Fprintln(p.Out)
}

func (p *Printer) when(ts models.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.In(p.Loc).Format(timeLayout)
}

func (p *Printer) due(ts *models.Timestamp) string {
	if ts == nil {
		return "-"
	}
	return p.when(*ts)
}

func check(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func (p *Printer) Events(events []models.CalendarEvent) {
	p.Title("Events", len(events))
	if len(events) == 0 {
		p.empty()
		return
	}
	tbl := p.table("", "ID", "Start", "End", "Title", "Description")
	for _, e := range events {
		tbl.AddRow(check(e.Completed), ids.Sprint(e.ID), p.when(e.Start), p.when(e.End), e.Title, e.Description)
	}
	p.flush(tbl)
}

func (p *Printer) Todos(todos []models.Todo) {
	p.Title("Todos", len(todos))
	if len(todos) == 0 {
		p.empty()
		return
	}
	tbl := p.table("", "ID", "Due", "Title", "Memo")
	for _, t := range todos {
		tbl.AddRow(check(t.Completed), ids.Sprint(t.ID), p.due(t.DueDate), t.Title, t.Memo)
	}
	p.flush(tbl)
}

func (p *Printer) EventCandidates(cands []models.EventCandidate) {
	p.Title("Event candidates", len(cands))
	if len(cands) == 0 {
		p.empty()
		return
	}
	tbl := p.table("ID", "Start", "End", "Title", "Status")
	for _, c := range cands {
		tbl.AddRow(ids.Sprint(c.ID), p.when(c.Start), p.when(c.End), c.Title, status(c.Candidate))
	}
	p.flush(tbl)
}

func (p *Printer) TodoCandidates(cands []models.TodoCandidate) {
	p.Title("Todo candidates", len(cands))
	if len(cands) == 0 {
		p.empty()
		return
	}
	tbl := p.table("ID", "Due", "Title", "Status")
	for _, c := range cands {
		tbl.AddRow(ids.Sprint(c.ID), p.due(c.DueDate), c.Title, status(c.Candidate))
	}
	p.flush(tbl)
}

func status(c models.Candidate) string {
	if c.Pending() {
		return string(models.StatusPending)
	}
	return string(c.Status)
}

func (p *Printer) Emails(emails []models.Email) {
	p.Title("Inbox", len(emails))
	if len(emails) == 0 {
		p.empty()
		return
	}
	tbl := p.table("ID", "Date", "From", "Subject")
	for _, e := range emails {
		tbl.AddRow(ids.Sprint(e.ID), p.when(e.Date), e.Sender, e.Subject)
	}
	p.flush(tbl)
}

func (p *Printer) History(entries []models.AnalysisHistoryEntry) {
	p.Title("Analysis history", len(entries))
	if len(entries) == 0 {
		p.empty()
		return
	}
	tbl := p.table("ID", "When", "Status", "Analyzed", "Events", "Todos")
	for _, h := range entries {
		tbl.AddRow(ids.Sprint(h.ID), p.when(h.Timestamp), h.Status,
			fmt.Sprintf("%d/%d", h.TotalAnalyzed, h.TotalEmails), h.EventsSaved, h.TodosSaved)
	}
	p.flush(tbl)
}

// Summary prints the outcome of an analysis run.
func (p *Printer) Summary(sum *models.AnalyzeSummary) {
	if sum.Message != "" {
		p.OK(sum.Message)
	}
	_, _ = fmt.Fprintf(p.Out, "analyzed %d of %d emails, %d saved\n", sum.TotalAnalyzed, sum.TotalEmails, sum.TotalSaved)

	results := append([]models.AnalysisResult(nil), sum.Results...)
	if sum.Analysis != nil {
		results = append(results, models.AnalysisResult{EmailID: sum.EmailID, Analysis: *sum.Analysis})
	}
	for _, r := range results {
		for _, e := range r.Analysis.Events {
			_, _ = fmt.Fprintf(p.Out, "  event  %s  %s\n", p.when(e.Start), e.Title)
		}
		for _, t := range r.Analysis.Tasks {
			_, _ = fmt.Fprintf(p.Out, "  task   %s  %s\n", p.due(t.DueDate), t.Title)
		}
	}
	for _, e := range sum.Errors {
		p.Error("  " + e)
	}
}

func (p *Printer) Settings(s models.Settings) {
	_, _ = title.Fprintln(p.Out, "Settings")
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("keywords"), strings.Join(s.Keywords, ", "))
	tbl.AddRow(bold.Sprint("email"), onOff(s.EmailIntegration))
	tbl.AddRow(bold.Sprint("calendar"), onOff(s.CalendarIntegration))
	tbl.AddRow(bold.Sprint("notification"), onOff(s.NotificationEnabled))
	tbl.AddRow(bold.Sprint("autosave"), onOff(s.AutoSave))
	tbl.AddRow(bold.Sprint("recent days"), s.RecentDays)
	tbl.RightAlign(0)
	p.flush(tbl)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Account prints the identity held locally and, when known, the backend's
// view of the user.
func (p *Printer) Account(claims *identity.Claims, user *models.User) {
	_, _ = title.Fprintln(p.Out, "Account")
	tbl := uitable.New()
	tbl.Separator = "  "
	if claims == nil {
		tbl.AddRow(bold.Sprint("token"), "none")
	} else {
		tbl.AddRow(bold.Sprint("subject"), claims.Subject)
		tbl.AddRow(bold.Sprint("email"), claims.Email)
		if !claims.ExpiresAt.IsZero() {
			tbl.AddRow(bold.Sprint("expires"), claims.ExpiresAt.In(p.Loc).Format(timeLayout))
		}
	}
	if user != nil {
		tbl.AddRow(bold.Sprint("uid"), user.UID)
		tbl.AddRow(bold.Sprint("name"), user.Name)
	}
	tbl.RightAlign(0)
	p.flush(tbl)
}
