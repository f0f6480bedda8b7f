package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/mailcal/internal/client/client"
	"github.com/dmitrijs2005/mailcal/internal/client/models"
	"github.com/dmitrijs2005/mailcal/internal/client/resource"
	"github.com/dmitrijs2005/mailcal/internal/common"
	"github.com/dmitrijs2005/mailcal/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	client          *client.HTTPClient
	mock            *client.MockTransport
	events          *resource.Resource[[]models.CalendarEvent]
	todos           *resource.Resource[[]models.Todo]
	eventCandidates *resource.Resource[[]models.EventCandidate]
	todoCandidates  *resource.Resource[[]models.TodoCandidate]
	history         *resource.History
	changes         int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mt := client.NewMockTransport(time.Time{})
	hc, err := client.NewHTTPClient("http://backend.invalid", client.WithTransport(mt))
	require.NoError(t, err)

	f := &fixture{
		client:          hc,
		mock:            mt,
		events:          resource.NewEvents(hc),
		todos:           resource.NewTodos(hc),
		eventCandidates: resource.NewEventCandidates(hc),
		todoCandidates:  resource.NewTodoCandidates(hc),
		history:         resource.NewHistory(hc, 20),
	}
	ctx := context.Background()
	require.NoError(t, f.events.Fetch(ctx))
	require.NoError(t, f.todos.Fetch(ctx))
	require.NoError(t, f.eventCandidates.Fetch(ctx))
	require.NoError(t, f.todoCandidates.Fetch(ctx))
	require.NoError(t, f.history.Fetch(ctx))
	return f
}

func (f *fixture) onChange() { f.changes++ }

func findEvent(t *testing.T, r *resource.Resource[[]models.CalendarEvent], id models.ID) models.CalendarEvent {
	t.Helper()
	for _, e := range *r.State().Data {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("event %s not found", id)
	return models.CalendarEvent{}
}

func findTodo(t *testing.T, r *resource.Resource[[]models.Todo], id models.ID) models.Todo {
	t.Helper()
	for _, e := range *r.State().Data {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("todo %s not found", id)
	return models.Todo{}
}

// failingClient fails every mutation.
type failingClient struct {
	client.Client
	err error
}

func (f failingClient) ToggleEvent(context.Context, models.ID) error { return f.err }
func (f failingClient) UpdateTodo(context.Context, models.ID, models.Todo) error {
	return f.err
}
func (f failingClient) ApproveEvent(context.Context, models.ID) error { return f.err }

func TestEventService_ToggleRefetches(t *testing.T) {
	f := newFixture(t)
	svc := NewEventService(f.client, f.events, logging.Discard(), f.onChange)

	require.False(t, findEvent(t, f.events, "evt-1").Completed)
	require.NoError(t, svc.Toggle(context.Background(), "evt-1"))
	assert.True(t, findEvent(t, f.events, "evt-1").Completed)
	assert.Equal(t, 1, f.changes)
}

func TestEventService_SaveDescriptionAndTimes(t *testing.T) {
	f := newFixture(t)
	svc := NewEventService(f.client, f.events, logging.Discard(), nil)
	ctx := context.Background()

	require.NoError(t, svc.SaveDescription(ctx, "evt-2", "bring mockups"))
	ev := findEvent(t, f.events, "evt-2")
	assert.Equal(t, "bring mockups", ev.Description)
	assert.Equal(t, "Design review", ev.Title, "whole-object update keeps other fields")

	start := time.Date(2024, 1, 5, 1, 0, 0, 0, time.UTC)
	require.NoError(t, svc.SaveTimes(ctx, "evt-2", start, start.Add(30*time.Minute)))
	ev = findEvent(t, f.events, "evt-2")
	assert.True(t, start.Equal(ev.Start.Time))

	err := svc.SaveTimes(ctx, "evt-2", start, start)
	require.ErrorIs(t, err, common.ErrInvalidRange)

	err = svc.SaveDescription(ctx, "nope", "x")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestEventService_Create(t *testing.T) {
	f := newFixture(t)
	svc := NewEventService(f.client, f.events, logging.Discard(), nil)
	ctx := context.Background()
	start := time.Date(2024, 1, 9, 3, 0, 0, 0, time.UTC)

	before := len(*f.events.State().Data)
	ev, err := svc.Create(ctx, " Lunch ", start, start.Add(time.Hour), "")
	require.NoError(t, err)
	assert.Equal(t, "Lunch", ev.Title)
	assert.NotEmpty(t, ev.ID)
	assert.Len(t, *f.events.State().Data, before+1)

	_, err = svc.Create(ctx, "  ", start, start.Add(time.Hour), "")
	require.ErrorIs(t, err, ErrEmptyTitle)
	_, err = svc.Create(ctx, "x", start, start.Add(-time.Hour), "")
	require.ErrorIs(t, err, common.ErrInvalidRange)
}

func TestEventService_FailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	boom := &client.APIError{Status: 500, Message: "api error: Internal Server Error"}
	svc := NewEventService(failingClient{err: boom}, f.events, logging.Discard(), f.onChange)

	before := f.events.State()
	err := svc.Toggle(context.Background(), "evt-1")
	require.ErrorIs(t, err, boom)

	after := f.events.State()
	assert.Equal(t, before, after)
	assert.Zero(t, f.changes)
}

func TestTodoService(t *testing.T) {
	f := newFixture(t)
	svc := NewTodoService(f.client, f.todos, logging.Discard(), f.onChange)
	ctx := context.Background()

	require.NoError(t, svc.Toggle(ctx, "todo-2"))
	assert.True(t, findTodo(t, f.todos, "todo-2").Completed)

	require.NoError(t, svc.SaveMemo(ctx, "todo-2", "check expiry"))
	assert.Equal(t, "check expiry", findTodo(t, f.todos, "todo-2").Memo)

	due := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.SaveDueDate(ctx, "todo-2", &due))
	got := findTodo(t, f.todos, "todo-2")
	require.NotNil(t, got.DueDate)
	assert.True(t, due.Equal(got.DueDate.Time))

	require.NoError(t, svc.SaveDueDate(ctx, "todo-2", nil))
	assert.Nil(t, findTodo(t, f.todos, "todo-2").DueDate)

	created, err := svc.Create(ctx, "Call plumber", nil)
	require.NoError(t, err)
	assert.Equal(t, "Call plumber", findTodo(t, f.todos, created.ID).Title)

	assert.Equal(t, 5, f.changes)

	require.ErrorIs(t, svc.SaveMemo(ctx, "missing", "x"), common.ErrNotFound)
}

func TestTodoService_FailureLogged(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("boom")
	svc := NewTodoService(failingClient{err: boom}, f.todos, logging.Discard(), f.onChange)

	before := f.todos.State()
	require.ErrorIs(t, svc.SaveMemo(context.Background(), "todo-1", "x"), boom)
	assert.Equal(t, before, f.todos.State())
	assert.Zero(t, f.changes)
}

func TestCandidateService_ApproveAndReject(t *testing.T) {
	f := newFixture(t)
	svc := NewCandidateService(f.client, CandidateResources{
		EventCandidates: f.eventCandidates,
		TodoCandidates:  f.todoCandidates,
		Events:          f.events,
		Todos:           f.todos,
	}, logging.Discard(), f.onChange)
	ctx := context.Background()

	eventsBefore := len(*f.events.State().Data)
	require.NoError(t, svc.ApproveEvent(ctx, "cand-evt-1"))
	for _, c := range models.PendingEvents(*f.eventCandidates.State().Data) {
		assert.NotEqual(t, models.ID("cand-evt-1"), c.ID)
	}
	assert.Len(t, *f.events.State().Data, eventsBefore+1)

	require.NoError(t, svc.RejectEvent(ctx, "cand-evt-2"))
	assert.Empty(t, models.PendingEvents(*f.eventCandidates.State().Data))

	todosBefore := len(*f.todos.State().Data)
	require.NoError(t, svc.ApproveTodo(ctx, "cand-todo-1"))
	assert.Empty(t, models.PendingTodos(*f.todoCandidates.State().Data))
	assert.Len(t, *f.todos.State().Data, todosBefore+1)

	require.ErrorIs(t, svc.RejectTodo(ctx, "cand-todo-404"), common.ErrNotFound)
	assert.Equal(t, 3, f.changes)
}

func TestCandidateService_Failure(t *testing.T) {
	f := newFixture(t)
	boom := &client.APIError{Message: "network error: refused"}
	svc := NewCandidateService(failingClient{err: boom}, CandidateResources{
		EventCandidates: f.eventCandidates,
		TodoCandidates:  f.todoCandidates,
		Events:          f.events,
		Todos:           f.todos,
	}, logging.Discard(), f.onChange)

	before := f.eventCandidates.State()
	require.ErrorIs(t, svc.ApproveEvent(context.Background(), "cand-evt-1"), common.ErrUnavailable)
	assert.Equal(t, before, f.eventCandidates.State())
}

func TestEmailService(t *testing.T) {
	f := newFixture(t)
	svc := NewEmailService(f.client, f.history, f.eventCandidates, f.todoCandidates, logging.Discard(), f.onChange)
	ctx := context.Background()

	sum, err := svc.Analyze(ctx, "mail-1")
	require.NoError(t, err)
	assert.True(t, sum.Success)
	assert.Len(t, *f.history.State().Data, 2)

	_, err = svc.Analyze(ctx, "mail-404")
	require.ErrorIs(t, err, ErrAnalysisFailed)

	sum, err = svc.AnalyzeRecent(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalAnalyzed)
	require.Len(t, *f.history.State().Data, 3)

	svc.DeleteHistory("hist-1")
	assert.Len(t, *f.history.State().Data, 2)
	require.NoError(t, f.history.Refetch(ctx))
	assert.Len(t, *f.history.State().Data, 2)

	st, err := svc.StartPolling(ctx)
	require.NoError(t, err)
	assert.Equal(t, "running", st.Status)
	st, err = svc.PollingStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "running", st.Status)
	st, err = svc.StopPolling(ctx)
	require.NoError(t, err)
	assert.Equal(t, "stopped", st.Status)
}

func TestEditsLoadUnfetchedResources(t *testing.T) {
	mt := client.NewMockTransport(time.Time{})
	hc, err := client.NewHTTPClient("http://backend.invalid", client.WithTransport(mt))
	require.NoError(t, err)
	events := resource.NewEvents(hc)
	todos := resource.NewTodos(hc)
	ctx := context.Background()

	require.NoError(t, NewEventService(hc, events, logging.Discard(), nil).SaveDescription(ctx, "evt-3", "moved"))
	assert.Equal(t, "moved", findEvent(t, events, "evt-3").Description)

	require.NoError(t, NewTodoService(hc, todos, logging.Discard(), nil).SaveMemo(ctx, "todo-3", "filed"))
	assert.Equal(t, "filed", findTodo(t, todos, "todo-3").Memo)
}

// summaryClient answers AnalyzeRecent with a fixed summary.
type summaryClient struct {
	client.Client
	sum models.AnalyzeSummary
}

func (s summaryClient) AnalyzeRecent(context.Context, int) (*models.AnalyzeSummary, error) {
	sum := s.sum
	return &sum, nil
}

func TestEmailService_AnalyzeRecentFailureReason(t *testing.T) {
	tests := []struct {
		name string
		sum  models.AnalyzeSummary
		want string
	}{
		{
			name: "error field",
			sum:  models.AnalyzeSummary{Error: "mailbox locked", Message: "ignored"},
			want: "analysis failed: mailbox locked",
		},
		{
			name: "message only",
			sum:  models.AnalyzeSummary{Message: "Gmail API error", Errors: []string{"quota"}},
			want: "analysis failed: Gmail API error",
		},
		{
			name: "errors list",
			sum:  models.AnalyzeSummary{Errors: []string{"mail-1: timeout", "mail-2: timeout"}},
			want: "analysis failed: mail-1: timeout; mail-2: timeout",
		},
		{
			name: "nothing",
			want: "analysis failed: no reason given",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			svc := NewEmailService(summaryClient{sum: tt.sum}, f.history, f.eventCandidates, f.todoCandidates, logging.Discard(), f.onChange)

			_, err := svc.AnalyzeRecent(context.Background(), 5)
			require.ErrorIs(t, err, ErrAnalysisFailed)
			assert.EqualError(t, err, tt.want)
			assert.Equal(t, 0, f.changes)
		})
	}
}
