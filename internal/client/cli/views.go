package cli

import (
	"context"
	"fmt"
	"strconv"

	"cloud.google.com/go/civil"

	"github.com/dmitrijs2005/mailcal/internal/calendar"
	"github.com/dmitrijs2005/mailcal/internal/client/identity"
	"github.com/dmitrijs2005/mailcal/internal/client/models"
	"github.com/dmitrijs2005/mailcal/internal/client/resource"
)

func oneArg(args []string, usage string) (string, error) {
	if len(args) != 1 {
		return "", usageError(usage)
	}
	return args[0], nil
}

func (a *App) Health(ctx context.Context, _ []string) error {
	if err := a.health.Refetch(ctx); err != nil {
		return err
	}
	st := a.health.State()
	if st.Data == nil {
		return fmt.Errorf("%s: %w", a.health.Name(), resource.ErrNotLoaded)
	}
	a.printer.OK(fmt.Sprintf("backend %s", st.Data.Status))
	return nil
}

func (a *App) claims() *identity.Claims {
	if c, ok := a.account.Claims(); ok {
		return c
	}
	return nil
}

func (a *App) Me(ctx context.Context, _ []string) error {
	user, err := a.account.Me(ctx)
	if err != nil {
		return err
	}
	a.printer.Account(a.claims(), user)
	return nil
}

func (a *App) Account(_ context.Context, _ []string) error {
	claims := a.claims()
	a.printer.Account(claims, nil)
	if claims == nil && a.tokens.DevMode() {
		fmt.Fprintln(a.out, "dev mode: requests are sent without a token")
	}
	if p := a.config.Identity.ProjectID; p != "" {
		fmt.Fprintf(a.out, "identity project: %s\n", p)
	}
	return nil
}

func (a *App) settingsValue(ctx context.Context) (models.Settings, error) {
	res, _ := a.userSettings()
	return loaded(ctx, a, res)
}

func (a *App) Dashboard(ctx context.Context, _ []string) error {
	s, err := a.settingsValue(ctx)
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

	now := a.now()
	fmt.Fprintf(a.out, "mailcal %s  today %s\n\n", a.getStatus(), a.today())
	fmt.Fprintf(a.out, "Next %d days\n", s.RecentDays)
	a.printer.Events(calendar.UpcomingEvents(events, now, s.RecentDays))
	a.printer.Todos(calendar.UpcomingTodos(todos, now, s.RecentDays))

	ec, err := loaded(ctx, a, a.eventCandidates)
	if err != nil {
		return err
	}
	tc, err := loaded(ctx, a, a.todoCandidates)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d event and %d todo candidates pending\n\n",
		len(models.PendingEvents(ec)), len(models.PendingTodos(tc)))

	emails, err := loaded(ctx, a, a.emails.Resource)
	if err != nil {
		return err
	}
	a.printer.Emails(emails)
	return nil
}

func (a *App) Month(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return usageError("month [YYYY-MM]")
	}
	if len(args) == 1 {
		m, err := parseMonth(args[0])
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.viewing = m
		a.mu.Unlock()
	}

	events, err := loaded(ctx, a, a.events)
	if err != nil {
		return err
	}
	todos, err := loaded(ctx, a, a.todos)
	if err != nil {
		return err
	}

	a.mu.Lock()
	viewing, selected := a.viewing, a.selected
	a.mu.Unlock()

	a.printer.Month(calendar.BuildMonth(viewing.Year, viewing.Month, a.today(), selected, events, todos, a.loc))
	return nil
}

func (a *App) Day(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return usageError("day [YYYY-MM-DD]")
	}
	a.mu.Lock()
	day := a.selected
	a.mu.Unlock()
	if len(args) == 1 {
		d, err := parseDate(args[0])
		if err != nil {
			return err
		}
		day = d
		a.selectDay(d)
	}

	events, err := loaded(ctx, a, a.events)
	if err != nil {
		return err
	}
	todos, err := loaded(ctx, a, a.todos)
	if err != nil {
		return err
	}
	a.printer.Day(day, calendar.EventsOn(events, day, a.loc), calendar.TodosOn(todos, day, a.loc))
	return nil
}

func (a *App) selectDay(d civil.Date) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selected = d
	a.viewing = civil.Date{Year: d.Year, Month: d.Month, Day: 1}
}

func (a *App) Select(ctx context.Context, args []string) error {
	arg, err := oneArg(args, "select YYYY-MM-DD")
	if err != nil {
		return err
	}
	d, err := parseDate(arg)
	if err != nil {
		return err
	}
	a.selectDay(d)
	return a.Month(ctx, nil)
}

func (a *App) Events(ctx context.Context, _ []string) error {
	events, err := loaded(ctx, a, a.events)
	if err != nil {
		return err
	}
	a.printer.Events(events)
	return nil
}

func (a *App) Todos(ctx context.Context, _ []string) error {
	todos, err := loaded(ctx, a, a.todos)
	if err != nil {
		return err
	}
	a.printer.Todos(todos)
	return nil
}

func (a *App) Upcoming(ctx context.Context, _ []string) error {
	s, err := a.settingsValue(ctx)
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
	now := a.now()
	a.printer.Events(calendar.UpcomingEvents(events, now, s.RecentDays))
	a.printer.Todos(calendar.UpcomingTodos(todos, now, s.RecentDays))
	return nil
}

func (a *App) Inbox(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return usageError("inbox [N]")
	}
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return usageError("inbox [N], N >= 1")
		}
		if err := a.emails.SetLimit(ctx, n); err != nil {
			return err
		}
	}

	emails, err := loaded(ctx, a, a.emails.Resource)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "latest %d from the mailbox\n", a.emails.Limit())
	a.printer.Emails(emails)
	return nil
}

func (a *App) History(ctx context.Context, _ []string) error {
	entries, err := loaded(ctx, a, a.history.Resource)
	if err != nil {
		return err
	}
	a.printer.History(entries)
	return nil
}

func (a *App) Candidates(ctx context.Context, _ []string) error {
	ec, err := loaded(ctx, a, a.eventCandidates)
	if err != nil {
		return err
	}
	tc, err := loaded(ctx, a, a.todoCandidates)
	if err != nil {
		return err
	}
	a.printer.EventCandidates(models.PendingEvents(ec))
	a.printer.TodoCandidates(models.PendingTodos(tc))
	return nil
}

func (a *App) Settings(ctx context.Context, _ []string) error {
	s, err := a.settingsValue(ctx)
	if err != nil {
		return err
	}
	a.printer.Settings(s)
	return nil
}
