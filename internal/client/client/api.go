package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/mailcal/internal/client/models"
)

// Response envelopes. Each list endpoint wraps its payload in a named key.
type (
	emailsResponse struct {
		Emails []models.Email `json:"emails" validate:"dive"`
	}
	eventsResponse struct {
		Events []models.CalendarEvent `json:"events" validate:"dive"`
	}
	todosResponse struct {
		Todos []models.Todo `json:"todos" validate:"dive"`
	}
	eventCandidatesResponse struct {
		Candidates []models.EventCandidate `json:"candidates" validate:"dive"`
	}
	todoCandidatesResponse struct {
		Candidates []models.TodoCandidate `json:"candidates" validate:"dive"`
	}
	historyResponse struct {
		History []models.AnalysisHistoryEntry `json:"history" validate:"dive"`
	}
	eventResponse struct {
		Event models.CalendarEvent `json:"event"`
	}
	todoResponse struct {
		Todo models.Todo `json:"todo"`
	}
)

type (
	analyzeRequest struct {
		EmailID models.ID `json:"email_id"`
	}
	analyzeRecentRequest struct {
		Limit int `json:"limit"`
	}
	eventDecision struct {
		EventID models.ID `json:"event_id"`
	}
	todoDecision struct {
		TodoID models.ID `json:"todo_id"`
	}
)

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": []string{strconv.Itoa(limit)}}
}

func (c *HTTPClient) Health(ctx context.Context) (*models.Health, error) {
	var out models.Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RecentEmails(ctx context.Context, limit int) ([]models.Email, error) {
	var out emailsResponse
	if err := c.do(ctx, http.MethodGet, "/api/email/recent", limitQuery(limit), nil, &out); err != nil {
		return nil, err
	}
	return out.Emails, nil
}

func (c *HTTPClient) AnalyzeEmail(ctx context.Context, emailID models.ID) (*models.AnalyzeSummary, error) {
	var out models.AnalyzeSummary
	if err := c.do(ctx, http.MethodPost, "/api/email/analyze", nil, analyzeRequest{EmailID: emailID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) AnalyzeRecent(ctx context.Context, limit int) (*models.AnalyzeSummary, error) {
	var out models.AnalyzeSummary
	if err := c.do(ctx, http.MethodPost, "/api/email/analyze-recent", nil, analyzeRecentRequest{Limit: limit}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) AnalysisHistory(ctx context.Context, limit int) ([]models.AnalysisHistoryEntry, error) {
	var out historyResponse
	if err := c.do(ctx, http.MethodGet, "/api/email/analysis-history", limitQuery(limit), nil, &out); err != nil {
		return nil, err
	}
	return out.History, nil
}

func (c *HTTPClient) Events(ctx context.Context) ([]models.CalendarEvent, error) {
	var out eventsResponse
	if err := c.do(ctx, http.MethodGet, "/api/calendar/events", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

func (c *HTTPClient) CreateEvent(ctx context.Context, ev models.CalendarEvent) (*models.CalendarEvent, error) {
	var out eventResponse
	if err := c.do(ctx, http.MethodPost, "/api/calendar/events", nil, ev, &out); err != nil {
		return nil, err
	}
	return &out.Event, nil
}

func (c *HTTPClient) UpdateEvent(ctx context.Context, id models.ID, ev models.CalendarEvent) error {
	return c.do(ctx, http.MethodPut, "/api/calendar/events/"+id.String(), nil, ev, nil)
}

func (c *HTTPClient) ToggleEvent(ctx context.Context, id models.ID) error {
	return c.do(ctx, http.MethodPost, "/api/calendar/events/"+id.String()+"/toggle", nil, nil, nil)
}

func (c *HTTPClient) EventCandidates(ctx context.Context) ([]models.EventCandidate, error) {
	var out eventCandidatesResponse
	if err := c.do(ctx, http.MethodGet, "/api/candidates/events", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Candidates, nil
}

func (c *HTTPClient) ApproveEvent(ctx context.Context, id models.ID) error {
	return c.do(ctx, http.MethodPost, "/api/email/approve-event", nil, eventDecision{EventID: id}, nil)
}

func (c *HTTPClient) RejectEvent(ctx context.Context, id models.ID) error {
	return c.do(ctx, http.MethodPost, "/api/email/reject-event", nil, eventDecision{EventID: id}, nil)
}

func (c *HTTPClient) Todos(ctx context.Context) ([]models.Todo, error) {
	var out todosResponse
	if err := c.do(ctx, http.MethodGet, "/api/todos/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Todos, nil
}

func (c *HTTPClient) CreateTodo(ctx context.Context, t models.Todo) (*models.Todo, error) {
	var out todoResponse
	if err := c.do(ctx, http.MethodPost, "/api/todos/", nil, t, &out); err != nil {
		return nil, err
	}
	return &out.Todo, nil
}

func (c *HTTPClient) UpdateTodo(ctx context.Context, id models.ID, t models.Todo) error {
	return c.do(ctx, http.MethodPut, "/api/todos/"+id.String(), nil, t, nil)
}

func (c *HTTPClient) ToggleTodo(ctx context.Context, id models.ID) error {
	return c.do(ctx, http.MethodPost, "/api/todos/"+id.String()+"/toggle", nil, nil, nil)
}

func (c *HTTPClient) TodoCandidates(ctx context.Context) ([]models.TodoCandidate, error) {
	var out todoCandidatesResponse
	if err := c.do(ctx, http.MethodGet, "/api/candidates/todos", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Candidates, nil
}

func (c *HTTPClient) ApproveTodo(ctx context.Context, id models.ID) error {
	return c.do(ctx, http.MethodPost, "/api/email/approve-todo", nil, todoDecision{TodoID: id}, nil)
}

func (c *HTTPClient) RejectTodo(ctx context.Context, id models.ID) error {
	return c.do(ctx, http.MethodPost, "/api/email/reject-todo", nil, todoDecision{TodoID: id}, nil)
}

func (c *HTTPClient) PollingStart(ctx context.Context) (*models.PollingStatus, error) {
	return c.polling(ctx, http.MethodPost, "/api/polling/start")
}

func (c *HTTPClient) PollingStop(ctx context.Context) (*models.PollingStatus, error) {
	return c.polling(ctx, http.MethodPost, "/api/polling/stop")
}

func (c *HTTPClient) PollingStatus(ctx context.Context) (*models.PollingStatus, error) {
	return c.polling(ctx, http.MethodGet, "/api/polling/status")
}

func (c *HTTPClient) polling(ctx context.Context, method, path string) (*models.PollingStatus, error) {
	var out models.PollingStatus
	if err := c.do(ctx, method, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
