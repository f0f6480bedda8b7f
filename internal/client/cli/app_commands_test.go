package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/mailcal/internal/client/models"
	"github.com/dmitrijs2005/mailcal/internal/client/services"
	"github.com/dmitrijs2005/mailcal/internal/common"
	"github.com/dmitrijs2005/mailcal/internal/logging"
)

func TestDashboard(t *testing.T) {
	a, out, _ := newTestApp(t, "")
	require.NoError(t, a.Dashboard(context.Background(), nil))

	got := out.String()
	assert.Contains(t, got, "today 2024-01-01")
	assert.Contains(t, got, "Next 7 days")
	assert.Contains(t, got, "Team standup")
	assert.Contains(t, got, "Design review")
	assert.NotContains(t, got, "Year-end party", "past events are outside the window")
	assert.Contains(t, got, "Send planning slides")
	assert.Contains(t, got, "Renew passport", "undated todos are always listed")
	assert.NotContains(t, got, "File expense report")
	assert.Contains(t, got, "2 event and 1 todo candidates pending")
	assert.Contains(t, got, "Invoice #4821")
}

func TestMonthAndSelect(t *testing.T) {
	a, out, _ := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, a.Month(ctx, []string{"2024-01"}))
	got := out.String()
	assert.Contains(t, got, "January 2024")
	assert.Contains(t, got, "31   1   2*  3   4*  5   6")

	out.Reset()
	require.NoError(t, a.Select(ctx, []string{"2024-02-10"}))
	assert.Contains(t, out.String(), "February 2024")
	assert.Equal(t, civil.Date{Year: 2024, Month: time.February, Day: 10}, a.selected)

	require.Error(t, a.Month(ctx, []string{"2024-13"}))
	require.Error(t, a.Select(ctx, nil))
}

func TestDay(t *testing.T) {
	a, out, _ := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, a.Day(ctx, []string{"2024-01-02"}))
	got := out.String()
	assert.Contains(t, got, "Tuesday, January 2 2024")
	assert.Contains(t, got, "Team standup")
	assert.Contains(t, got, "Send planning slides")
	assert.NotContains(t, got, "Design review")

	out.Reset()
	require.NoError(t, a.Day(ctx, nil))
	assert.Contains(t, out.String(), "Tuesday, January 2 2024", "day without args uses the selection")
}

func TestUpcomingUsesRecentDays(t *testing.T) {
	a, out, _ := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, a.RecentDays(ctx, []string{"1"}))
	out.Reset()
	require.NoError(t, a.Upcoming(ctx, nil))

	got := out.String()
	assert.Contains(t, got, "Team standup")
	assert.NotContains(t, got, "Design review")
}

func TestCandidatesApproveReject(t *testing.T) {
	a, out, _ := newTestApp(t, "")
	ctx := context.Background()
	lines := capturePrintln(t)

	a.reader = reader(
		"approve-event cand-evt-1",
		"reject-todo cand-todo-1",
		"approve-event nope",
		"candidates",
		"exit",
	)
	runREPL(ctx, a, a.getStatus, a.reader)

	got := out.String()
	assert.Contains(t, got, "approved cand-evt-1")
	assert.Contains(t, got, "rejected cand-todo-1")
	assert.Contains(t, got, "Event candidates - 1 item")
	assert.Contains(t, got, "cand-evt-2")
	assert.Contains(t, got, "Todo candidates - 0 items")
	assert.Contains(t, *lines, "Error: api error: Not Found: event candidate nope not found")

	events := *a.events.State().Data
	assert.Len(t, events, 4)
	assert.Equal(t, "Quarterly planning meeting", events[3].Title)
}

func TestToggleAndEdits(t *testing.T) {
	input := strings.Join([]string{
		"2024-01-03 09:00", "2024-01-03 08:00", // time-event: end before start
		"2024-01-05",               // due-todo
		"line one", "line two", "", // memo-todo
		"", // due-todo clearing
	}, "\n") + "\n"
	a, _, _ := newTestApp(t, input)
	ctx := context.Background()

	require.NoError(t, a.ToggleEvent(ctx, []string{"evt-1"}))
	require.True(t, find(t, *a.events.State().Data, "evt-1").Completed)

	err := a.TimeEvent(ctx, []string{"evt-1"})
	require.ErrorIs(t, err, common.ErrInvalidRange)

	require.NoError(t, a.DueTodo(ctx, []string{"todo-2"}))
	todo := findTodo(t, *a.todos.State().Data, "todo-2")
	require.NotNil(t, todo.DueDate)
	assert.True(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC).Equal(todo.DueDate.Time))

	require.NoError(t, a.MemoTodo(ctx, []string{"todo-1"}))
	assert.Equal(t, "line one\nline two", findTodo(t, *a.todos.State().Data, "todo-1").Memo)

	require.NoError(t, a.DueTodo(ctx, []string{"todo-2"}))
	assert.Nil(t, findTodo(t, *a.todos.State().Data, "todo-2").DueDate)

	require.ErrorIs(t, a.ToggleTodo(ctx, []string{"todo-404"}), common.ErrNotFound)
	require.Error(t, a.ToggleTodo(ctx, nil))
}

func TestAddEventAndTodo(t *testing.T) {
	input := strings.Join([]string{
		"Lunch", "2024-01-03 12:00", "", "",
		"Buy milk", "",
		"  ", "2024-01-03 12:00", "", "",
	}, "\n") + "\n"
	a, out, _ := newTestApp(t, input)
	ctx := context.Background()

	require.NoError(t, a.AddEvent(ctx, nil))
	var lunch models.CalendarEvent
	for _, e := range *a.events.State().Data {
		if e.Title == "Lunch" {
			lunch = e
		}
	}
	require.NotEmpty(t, lunch.ID)
	assert.Equal(t, time.Hour, lunch.End.Sub(lunch.Start.Time))
	assert.Contains(t, out.String(), "created event "+lunch.ID.String())

	require.NoError(t, a.AddTodo(ctx, nil))
	assert.Contains(t, out.String(), "created todo ")

	require.ErrorIs(t, a.AddEvent(ctx, nil), services.ErrEmptyTitle)
}

func TestInboxAnalyzeHistory(t *testing.T) {
	a, out, _ := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, a.Inbox(ctx, []string{"2"}))
	assert.Equal(t, 2, a.emails.Limit())
	assert.Contains(t, out.String(), "latest 2 from the mailbox")
	assert.Len(t, *a.emails.State().Data, 2)
	require.Error(t, a.Inbox(ctx, []string{"0"}))

	out.Reset()
	require.NoError(t, a.Analyze(ctx, []string{"mail-1"}))
	assert.Contains(t, out.String(), "analysis completed")

	require.ErrorIs(t, a.Analyze(ctx, []string{"mail-404"}), services.ErrAnalysisFailed)

	require.NoError(t, a.AnalyzeRecent(ctx, []string{"2"}))
	assert.Contains(t, out.String(), "analyzed 2 emails")

	require.NoError(t, a.HistoryDelete(ctx, []string{"hist-1"}))
	out.Reset()
	require.NoError(t, a.History(ctx, nil))
	assert.Contains(t, out.String(), "Analysis history - 2 items")
	assert.NotContains(t, out.String(), "hist-1")
}

func TestSettingsCommands(t *testing.T) {
	a, out, _ := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, a.KeywordAdd(ctx, []string{"team", "sync"}))
	assert.Contains(t, out.String(), "team sync")

	require.ErrorIs(t, a.KeywordAdd(ctx, []string{"team", "sync"}), models.ErrDuplicateKeyword)
	require.NoError(t, a.KeywordRemove(ctx, []string{"team", "sync"}))
	require.Error(t, a.KeywordRemove(ctx, []string{"absent"}))

	require.ErrorIs(t, a.RecentDays(ctx, []string{"0"}), models.ErrInvalidDays)

	out.Reset()
	require.NoError(t, a.ToggleSetting(ctx, []string{"autosave"}))
	assert.Regexp(t, `autosave\s+off`, out.String())
	require.ErrorIs(t, a.ToggleSetting(ctx, []string{"bogus"}), models.ErrUnknownToggle)

	stored, err := a.repos.Settings.Get(ctx, common.AnonymousUser)
	require.NoError(t, err)
	assert.False(t, stored.AutoSave)
}

func TestTokenAndSignOut(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-7",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	old := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(tok), nil }
	t.Cleanup(func() { readPassword = old })

	a, out, _ := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, a.Token(ctx, nil))
	assert.Contains(t, out.String(), "signed in as user-7")
	assert.Contains(t, a.getStatus(), "user-7")

	stored, ok, err := a.repos.Metadata.Get(ctx, "id_token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tok, stored)

	require.NoError(t, a.SignOut(ctx, nil))
	assert.NotContains(t, a.getStatus(), "user-7")
}

func TestPolling(t *testing.T) {
	a, out, _ := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, a.Polling(ctx, []string{"start"}))
	require.NoError(t, a.Polling(ctx, []string{"status"}))
	require.NoError(t, a.Polling(ctx, []string{"stop"}))
	require.Error(t, a.Polling(ctx, []string{"restart"}))

	got := out.String()
	assert.Contains(t, got, "poller running: Polling started")
	assert.Contains(t, got, "poller stopped: Polling stopped")
}

func TestExport(t *testing.T) {
	a, out, _ := newTestApp(t, "")
	path := filepath.Join(t.TempDir(), "out", "mailcal.ics")

	require.NoError(t, a.Export(context.Background(), []string{path}))
	assert.Contains(t, out.String(), "exported 3 events and 3 todos")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(b), "BEGIN:VEVENT"))
	assert.Equal(t, 3, strings.Count(string(b), "BEGIN:VTODO"))
}

func TestHealthMeAccountRefresh(t *testing.T) {
	a, out, _ := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, a.Health(ctx, nil))
	assert.Equal(t, ModeOnline, a.Mode())
	assert.Contains(t, out.String(), "backend healthy")

	require.NoError(t, a.Me(ctx, nil))
	assert.Contains(t, out.String(), "mock-user")

	out.Reset()
	require.NoError(t, a.Account(ctx, nil))
	assert.Regexp(t, `token\s+none`, out.String())
	assert.Contains(t, out.String(), "dev mode: requests are sent without a token")

	require.NoError(t, a.Refresh(ctx, nil))
	assert.Contains(t, out.String(), "refreshed")
}

func TestCommandsOffline(t *testing.T) {
	a, _ := buildApp(t, offlineTransport(), "", logging.Discard())
	ctx := context.Background()

	err := a.Health(ctx, nil)
	require.ErrorIs(t, err, common.ErrUnavailable)
	assert.Equal(t, ModeOffline, a.Mode())

	require.ErrorIs(t, a.Events(ctx, nil), common.ErrUnavailable)
	require.NoError(t, a.Settings(ctx, nil), "settings are local")
}

func find(t *testing.T, events []models.CalendarEvent, id models.ID) models.CalendarEvent {
	t.Helper()
	for _, e := range events {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("event %s not found", id)
	return models.CalendarEvent{}
}

func findTodo(t *testing.T, todos []models.Todo, id models.ID) models.Todo {
	t.Helper()
	for _, e := range todos {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("todo %s not found", id)
	return models.Todo{}
}
