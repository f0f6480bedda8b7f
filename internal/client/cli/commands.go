package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/mailcal/internal/client/export"
	"github.com/dmitrijs2005/mailcal/internal/client/models"
)

func (a *App) Analyze(ctx context.Context, args []string) error {
	id, err := oneArg(args, "analyze ID")
	if err != nil {
		return err
	}
	sum, err := a.emailService.Analyze(ctx, models.ID(id))
	if err != nil {
		return err
	}
	a.printer.Summary(sum)
	return nil
}

func (a *App) AnalyzeRecent(ctx context.Context, args []string) error {
	n := a.config.EmailLimit
	switch len(args) {
	case 0:
	case 1:
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return usageError("analyze-recent [N], N >= 1")
		}
		n = v
	default:
		return usageError("analyze-recent [N]")
	}

	sum, err := a.emailService.AnalyzeRecent(ctx, n)
	if err != nil {
		return err
	}
	a.printer.Summary(sum)
	return nil
}

func (a *App) HistoryDelete(_ context.Context, args []string) error {
	id, err := oneArg(args, "history-delete ID")
	if err != nil {
		return err
	}
	a.emailService.DeleteHistory(models.ID(id))
	a.printer.OK("removed " + id + " from history")
	return nil
}

func (a *App) decide(args []string, usage, done string, fn func(models.ID) error) error {
	id, err := oneArg(args, usage)
	if err != nil {
		return err
	}
	if err := fn(models.ID(id)); err != nil {
		return err
	}
	a.printer.OK(done + " " + id)
	return nil
}

func (a *App) ApproveEvent(ctx context.Context, args []string) error {
	return a.decide(args, "approve-event ID", "approved", func(id models.ID) error {
		return a.candidates.ApproveEvent(ctx, id)
	})
}

func (a *App) RejectEvent(ctx context.Context, args []string) error {
	return a.decide(args, "reject-event ID", "rejected", func(id models.ID) error {
		return a.candidates.RejectEvent(ctx, id)
	})
}

func (a *App) ApproveTodo(ctx context.Context, args []string) error {
	return a.decide(args, "approve-todo ID", "approved", func(id models.ID) error {
		return a.candidates.ApproveTodo(ctx, id)
	})
}

func (a *App) RejectTodo(ctx context.Context, args []string) error {
	return a.decide(args, "reject-todo ID", "rejected", func(id models.ID) error {
		return a.candidates.RejectTodo(ctx, id)
	})
}

func (a *App) ToggleEvent(ctx context.Context, args []string) error {
	return a.decide(args, "toggle-event ID", "toggled", func(id models.ID) error {
		return a.eventService.Toggle(ctx, id)
	})
}

func (a *App) ToggleTodo(ctx context.Context, args []string) error {
	return a.decide(args, "toggle-todo ID", "toggled", func(id models.ID) error {
		return a.todoService.Toggle(ctx, id)
	})
}

func (a *App) prompt(text string) (string, error) {
	return GetSimpleText(a.reader, text, a.out)
}

// promptTime asks for a wall-clock time; an empty answer returns nil.
func (a *App) promptTime(text string) (*time.Time, error) {
	s, err := a.prompt(text)
	if err != nil || s == "" {
		return nil, err
	}
	t, err := parseDateTime(s, a.loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (a *App) AddEvent(ctx context.Context, _ []string) error {
	title, err := a.prompt("Title")
	if err != nil {
		return err
	}
	start, err := a.promptTime("Start (YYYY-MM-DD HH:MM)")
	if err != nil {
		return err
	}
	if start == nil {
		return usageError("a start time is required")
	}
	end, err := a.promptTime("End (YYYY-MM-DD HH:MM, empty for one hour)")
	if err != nil {
		return err
	}
	if end == nil {
		e := start.Add(time.Hour)
		end = &e
	}
	desc, err := a.prompt("Description (optional)")
	if err != nil {
		return err
	}

	ev, err := a.eventService.Create(ctx, title, *start, *end, desc)
	if err != nil {
		return err
	}
	a.printer.OK("created event " + ev.ID.String())
	return nil
}

func (a *App) AddTodo(ctx context.Context, _ []string) error {
	title, err := a.prompt("Title")
	if err != nil {
		return err
	}
	due, err := a.promptTime("Due (YYYY-MM-DD [HH:MM], empty for none)")
	if err != nil {
		return err
	}

	t, err := a.todoService.Create(ctx, title, due)
	if err != nil {
		return err
	}
	a.printer.OK("created todo " + t.ID.String())
	return nil
}

func (a *App) MemoEvent(ctx context.Context, args []string) error {
	id, err := oneArg(args, "memo-event ID")
	if err != nil {
		return err
	}
	text, err := GetMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	if err := a.eventService.SaveDescription(ctx, models.ID(id), text); err != nil {
		return err
	}
	a.printer.OK("saved")
	return nil
}

func (a *App) MemoTodo(ctx context.Context, args []string) error {
	id, err := oneArg(args, "memo-todo ID")
	if err != nil {
		return err
	}
	text, err := GetMultiline(a.reader, "Memo", a.out)
	if err != nil {
		return err
	}
	if err := a.todoService.SaveMemo(ctx, models.ID(id), text); err != nil {
		return err
	}
	a.printer.OK("saved")
	return nil
}

func (a *App) TimeEvent(ctx context.Context, args []string) error {
	id, err := oneArg(args, "time-event ID")
	if err != nil {
		return err
	}
	start, err := a.promptTime("Start (YYYY-MM-DD HH:MM)")
	if err != nil {
		return err
	}
	end, err := a.promptTime("End (YYYY-MM-DD HH:MM)")
	if err != nil {
		return err
	}
	if start == nil || end == nil {
		return usageError("time-event ID, then a start and an end")
	}
	if err := a.eventService.SaveTimes(ctx, models.ID(id), *start, *end); err != nil {
		return err
	}
	a.printer.OK("saved")
	return nil
}

func (a *App) DueTodo(ctx context.Context, args []string) error {
	id, err := oneArg(args, "due-todo ID")
	if err != nil {
		return err
	}
	due, err := a.promptTime("Due (YYYY-MM-DD [HH:MM], empty to clear)")
	if err != nil {
		return err
	}
	if err := a.todoService.SaveDueDate(ctx, models.ID(id), due); err != nil {
		return err
	}
	a.printer.OK("saved")
	return nil
}

func (a *App) editSettings(ctx context.Context, edit func(*models.Settings) error) error {
	_, svc := a.userSettings()
	s, err := svc.Update(ctx, edit)
	if err != nil {
		return err
	}
	a.printer.Settings(s)
	return nil
}

func (a *App) KeywordAdd(ctx context.Context, args []string) error {
	w := strings.Join(args, " ")
	if w == "" {
		return usageError("keyword-add WORD")
	}
	return a.editSettings(ctx, func(s *models.Settings) error { return s.AddKeyword(w) })
}

func (a *App) KeywordRemove(ctx context.Context, args []string) error {
	w := strings.Join(args, " ")
	if w == "" {
		return usageError("keyword-remove WORD")
	}
	return a.editSettings(ctx, func(s *models.Settings) error {
		if !s.RemoveKeyword(w) {
			return fmt.Errorf("keyword %q not found", w)
		}
		return nil
	})
}

func (a *App) RecentDays(ctx context.Context, args []string) error {
	arg, err := oneArg(args, "recent-days N")
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return usageError("recent-days N")
	}
	return a.editSettings(ctx, func(s *models.Settings) error { return s.SetRecentDays(n) })
}

func (a *App) ToggleSetting(ctx context.Context, args []string) error {
	name, err := oneArg(args, "toggle-setting email|calendar|notification|autosave")
	if err != nil {
		return err
	}
	return a.editSettings(ctx, func(s *models.Settings) error {
		_, err := s.Flip(name)
		return err
	})
}

func (a *App) Token(ctx context.Context, _ []string) error {
	token, err := GetSecret("ID token", a.out)
	if err != nil {
		return err
	}
	if token == "" {
		return usageError("token, then paste a non-empty ID token")
	}
	if err := a.account.SetToken(ctx, token); err != nil {
		return err
	}
	a.bindUser(a.account.UserID())
	a.printer.OK("signed in as " + a.account.UserID())
	return a.refreshAll(ctx)
}

func (a *App) SignOut(ctx context.Context, _ []string) error {
	if err := a.account.SignOut(ctx); err != nil {
		return err
	}
	a.bindUser(a.account.UserID())
	a.printer.OK("signed out")
	return nil
}

func (a *App) Polling(ctx context.Context, args []string) error {
	arg, err := oneArg(args, "polling start|stop|status")
	if err != nil {
		return err
	}

	var st *models.PollingStatus
	switch arg {
	case "start":
		st, err = a.emailService.StartPolling(ctx)
	case "stop":
		st, err = a.emailService.StopPolling(ctx)
	case "status":
		st, err = a.emailService.PollingStatus(ctx)
	default:
		return usageError("polling start|stop|status")
	}
	if err != nil {
		return err
	}

	msg := "poller " + st.Status
	if st.Message != "" {
		msg += ": " + st.Message
	}
	a.printer.OK(msg)
	return nil
}

func (a *App) Export(ctx context.Context, args []string) error {
	path, err := oneArg(args, "export PATH")
	if err != nil {
		return err
	}
	events, err := loaded(ctx, a, a.events)
	if err != nil {
		return err
	}
	todos, err := loaded(ctx, a, a.todos)
	if err != nil {
		return err
	}
	if err := export.WriteFile(path, events, todos, a.now()); err != nil {
		return err
	}
	a.printer.OK(fmt.Sprintf("exported %d events and %d todos to %s", len(events), len(todos), path))
	return nil
}

func (a *App) Refresh(ctx context.Context, _ []string) error {
	a.ping(ctx)
	if err := a.refreshAll(ctx); err != nil {
		return err
	}
	a.printer.OK("refreshed")
	return nil
}
