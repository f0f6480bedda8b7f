package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Health(ctx context.Context, args []string) error
	Me(ctx context.Context, args []string) error
	Account(ctx context.Context, args []string) error
	Token(ctx context.Context, args []string) error
	SignOut(ctx context.Context, args []string) error

	Dashboard(ctx context.Context, args []string) error
	Month(ctx context.Context, args []string) error
	Day(ctx context.Context, args []string) error
	Select(ctx context.Context, args []string) error
	Events(ctx context.Context, args []string) error
	Todos(ctx context.Context, args []string) error
	Upcoming(ctx context.Context, args []string) error

	Inbox(ctx context.Context, args []string) error
	Analyze(ctx context.Context, args []string) error
	AnalyzeRecent(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	HistoryDelete(ctx context.Context, args []string) error

	Candidates(ctx context.Context, args []string) error
	ApproveEvent(ctx context.Context, args []string) error
	RejectEvent(ctx context.Context, args []string) error
	ApproveTodo(ctx context.Context, args []string) error
	RejectTodo(ctx context.Context, args []string) error

	AddEvent(ctx context.Context, args []string) error
	AddTodo(ctx context.Context, args []string) error
	ToggleEvent(ctx context.Context, args []string) error
	ToggleTodo(ctx context.Context, args []string) error
	MemoEvent(ctx context.Context, args []string) error
	MemoTodo(ctx context.Context, args []string) error
	TimeEvent(ctx context.Context, args []string) error
	DueTodo(ctx context.Context, args []string) error

	Settings(ctx context.Context, args []string) error
	KeywordAdd(ctx context.Context, args []string) error
	KeywordRemove(ctx context.Context, args []string) error
	RecentDays(ctx context.Context, args []string) error
	ToggleSetting(ctx context.Context, args []string) error

	Polling(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Refresh(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  dashboard                 overview of upcoming items, candidates and inbox
  month [YYYY-MM]           month grid (default: the month being viewed)
  day [YYYY-MM-DD]          agenda for a day (default: the selected day)
  select YYYY-MM-DD         select a day and show its month
  events | todos | upcoming confirmed items, all or within the recent window
  inbox [N]                 recent emails, optionally changing how many
  analyze ID                analyze one email
  analyze-recent [N]        analyze the N most recent emails
  history                   analysis history
  history-delete ID         hide a history entry
  candidates                pending event and todo candidates
  approve-event ID | reject-event ID | approve-todo ID | reject-todo ID
  add-event | add-todo      create an event or todo
  toggle-event ID | toggle-todo ID
  memo-event ID | memo-todo ID | time-event ID | due-todo ID
  settings                  show settings
  keyword-add W | keyword-remove W | recent-days N | toggle-setting NAME
  health | me | account     backend and identity status
  token | signout           set or forget the identity token
  polling start|stop|status control the backend mailbox poller
  export PATH               write events and todos to an .ics file
  refresh                   reload everything
  exit | quit               leave the program`

type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

// runREPL starts a simple read–eval–print loop for the mailcal CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a' with the remaining tokens as arguments.
// Unknown commands are reported back to the user. The loop exits on EOF,
// when ctx is done, or when the user types "exit" or "quit".
//
// Errors returned by command handlers are printed and the loop continues;
// handlers log their own failures.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	commands := map[string]func(context.Context, []string) error{
		"health":         a.Health,
		"me":             a.Me,
		"account":        a.Account,
		"token":          a.Token,
		"signout":        a.SignOut,
		"dashboard":      a.Dashboard,
		"month":          a.Month,
		"day":            a.Day,
		"select":         a.Select,
		"events":         a.Events,
		"todos":          a.Todos,
		"upcoming":       a.Upcoming,
		"inbox":          a.Inbox,
		"analyze":        a.Analyze,
		"analyze-recent": a.AnalyzeRecent,
		"history":        a.History,
		"history-delete": a.HistoryDelete,
		"candidates":     a.Candidates,
		"approve-event":  a.ApproveEvent,
		"reject-event":   a.RejectEvent,
		"approve-todo":   a.ApproveTodo,
		"reject-todo":    a.RejectTodo,
		"add-event":      a.AddEvent,
		"add-todo":       a.AddTodo,
		"toggle-event":   a.ToggleEvent,
		"toggle-todo":    a.ToggleTodo,
		"memo-event":     a.MemoEvent,
		"memo-todo":      a.MemoTodo,
		"time-event":     a.TimeEvent,
		"due-todo":       a.DueTodo,
		"settings":       a.Settings,
		"keyword-add":    a.KeywordAdd,
		"keyword-remove": a.KeywordRemove,
		"recent-days":    a.RecentDays,
		"toggle-setting": a.ToggleSetting,
		"polling":        a.Polling,
		"export":         a.Export,
		"refresh":        a.Refresh,
	}

	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("mailcal %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		run, ok := commands[cmd]
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if err := run(ctx, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}
