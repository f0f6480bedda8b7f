package client

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/mailcal/internal/client/models"
	"github.com/google/uuid"
)

//go:embed mockdata/seed.json
var mockSeed []byte

// seedEpoch is the day the canned data is written around.
var seedEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type mockState struct {
	User            models.User                   `json:"user"`
	Emails          []models.Email                `json:"emails"`
	Events          []models.CalendarEvent        `json:"events"`
	Todos           []models.Todo                 `json:"todos"`
	EventCandidates []models.EventCandidate       `json:"event_candidates"`
	TodoCandidates  []models.TodoCandidate        `json:"todo_candidates"`
	History         []models.AnalysisHistoryEntry `json:"history"`
	Polling         models.PollingStatus          `json:"polling"`
}

// MockTransport is an http.RoundTripper that serves the backend's REST
// surface from memory. Mutations (approve, reject, toggle, update, create)
// change its state, so a refetch after a mutation observes the result.
// It is safe for concurrent use.
type MockTransport struct {
	mu    sync.Mutex
	state mockState
	calls int
	newID func() string
}

// NewMockTransport returns a transport seeded with canned data. When today is
// non-zero every seeded timestamp is shifted so the data centers on today's
// date; a zero today keeps the seed as written (January 2024).
func NewMockTransport(today time.Time) *MockTransport {
	m := &MockTransport{newID: uuid.NewString}
	if err := json.Unmarshal(mockSeed, &m.state); err != nil {
		panic(fmt.Sprintf("mock seed: %v", err))
	}
	if !today.IsZero() {
		y, mo, d := today.UTC().Date()
		m.state.shift(time.Date(y, mo, d, 0, 0, 0, 0, time.UTC).Sub(seedEpoch))
	}
	return m
}

// Calls returns the number of requests served so far.
func (m *MockTransport) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}

	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, err
		}
		body = b
	}

	m.mu.Lock()
	m.calls++
	status, payload := m.route(req.Method, req.URL.Path, req.URL.Query().Get("limit"), body)
	b, err := json.Marshal(payload)
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &http.Response{
		StatusCode:    status,
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header{"Content-Type": []string{"application/json"}},
		Body:          io.NopCloser(bytes.NewReader(b)),
		ContentLength: int64(len(b)),
		Request:       req,
	}, nil
}

type detail struct {
	Detail string `json:"detail"`
}

type message struct {
	Message string `json:"message"`
}

func notFound(what string, id models.ID) (int, any) {
	return http.StatusNotFound, detail{Detail: fmt.Sprintf("%s %s not found", what, id)}
}

func alreadyDecided(what string, id models.ID, status models.CandidateStatus) (int, any) {
	return http.StatusConflict, detail{Detail: fmt.Sprintf("%s %s already %s", what, id, status)}
}

func badRequest(err error) (int, any) {
	return http.StatusBadRequest, detail{Detail: err.Error()}
}

// route dispatches one request. The caller holds m.mu.
func (m *MockTransport) route(method, path, limitParam string, body []byte) (int, any) {
	limit, _ := strconv.Atoi(limitParam)
	s := &m.state

	switch {
	case method == http.MethodGet && path == "/health":
		return http.StatusOK, models.Health{Status: "healthy"}
	case method == http.MethodGet && path == "/api/auth/me":
		return http.StatusOK, s.User

	case method == http.MethodGet && path == "/api/email/recent":
		return http.StatusOK, emailsResponse{Emails: head(s.Emails, limit)}
	case method == http.MethodPost && path == "/api/email/analyze":
		var in analyzeRequest
		if err := json.Unmarshal(body, &in); err != nil {
			return badRequest(err)
		}
		return m.analyze(in.EmailID)
	case method == http.MethodPost && path == "/api/email/analyze-recent":
		var in analyzeRecentRequest
		if err := json.Unmarshal(body, &in); err != nil {
			return badRequest(err)
		}
		return m.analyzeRecent(in.Limit)
	case method == http.MethodGet && path == "/api/email/analysis-history":
		return http.StatusOK, historyResponse{History: tail(s.History, limit)}

	case method == http.MethodGet && path == "/api/calendar/events":
		return http.StatusOK, eventsResponse{Events: s.Events}
	case method == http.MethodPost && path == "/api/calendar/events":
		var ev models.CalendarEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return badRequest(err)
		}
		if ev.ID == "" {
			ev.ID = models.ID(m.newID())
		}
		s.Events = append(s.Events, ev)
		return http.StatusOK, struct {
			message
			Event models.CalendarEvent `json:"event"`
		}{message{"Event created"}, ev}
	case strings.HasPrefix(path, "/api/calendar/events/"):
		return m.eventAction(method, strings.TrimPrefix(path, "/api/calendar/events/"), body)
	case method == http.MethodGet && path == "/api/candidates/events":
		return http.StatusOK, eventCandidatesResponse{Candidates: s.EventCandidates}
	case method == http.MethodPost && (path == "/api/email/approve-event" || path == "/api/email/reject-event"):
		var in eventDecision
		if err := json.Unmarshal(body, &in); err != nil {
			return badRequest(err)
		}
		return m.decideEvent(in.EventID, path == "/api/email/approve-event")

	case method == http.MethodGet && path == "/api/todos/":
		return http.StatusOK, todosResponse{Todos: s.Todos}
	case method == http.MethodPost && path == "/api/todos/":
		var t models.Todo
		if err := json.Unmarshal(body, &t); err != nil {
			return badRequest(err)
		}
		if t.ID == "" {
			t.ID = models.ID(m.newID())
		}
		s.Todos = append(s.Todos, t)
		return http.StatusOK, struct {
			message
			Todo models.Todo `json:"todo"`
		}{message{"Todo created"}, t}
	case strings.HasPrefix(path, "/api/todos/"):
		return m.todoAction(method, strings.TrimPrefix(path, "/api/todos/"), body)
	case method == http.MethodGet && path == "/api/candidates/todos":
		return http.StatusOK, todoCandidatesResponse{Candidates: s.TodoCandidates}
	case method == http.MethodPost && (path == "/api/email/approve-todo" || path == "/api/email/reject-todo"):
		var in todoDecision
		if err := json.Unmarshal(body, &in); err != nil {
			return badRequest(err)
		}
		return m.decideTodo(in.TodoID, path == "/api/email/approve-todo")

	case method == http.MethodPost && path == "/api/polling/start":
		s.Polling = models.PollingStatus{Status: "running", Message: "Polling started"}
		return http.StatusOK, s.Polling
	case method == http.MethodPost && path == "/api/polling/stop":
		s.Polling = models.PollingStatus{Status: "stopped", Message: "Polling stopped"}
		return http.StatusOK, s.Polling
	case method == http.MethodGet && path == "/api/polling/status":
		return http.StatusOK, s.Polling
	}

	return http.StatusNotFound, detail{Detail: "Not Found"}
}

func (m *MockTransport) eventAction(method, rest string, body []byte) (int, any) {
	id, action, _ := strings.Cut(rest, "/")
	i := indexOf(m.state.Events, func(e models.CalendarEvent) bool { return e.ID == models.ID(id) })
	if i < 0 {
		return notFound("event", models.ID(id))
	}
	ev := &m.state.Events[i]

	switch {
	case method == http.MethodPut && action == "":
		var upd models.CalendarEvent
		if err := json.Unmarshal(body, &upd); err != nil {
			return badRequest(err)
		}
		upd.ID = ev.ID
		*ev = upd
		return http.StatusOK, message{"Event updated"}
	case method == http.MethodPost && action == "toggle":
		ev.Completed = !ev.Completed
		return http.StatusOK, message{"Event toggled"}
	}
	return http.StatusMethodNotAllowed, detail{Detail: "Method Not Allowed"}
}

func (m *MockTransport) todoAction(method, rest string, body []byte) (int, any) {
	id, action, _ := strings.Cut(rest, "/")
	i := indexOf(m.state.Todos, func(t models.Todo) bool { return t.ID == models.ID(id) })
	if i < 0 {
		return notFound("todo", models.ID(id))
	}
	t := &m.state.Todos[i]

	switch {
	case method == http.MethodPut && action == "":
		var upd models.Todo
		if err := json.Unmarshal(body, &upd); err != nil {
			return badRequest(err)
		}
		upd.ID = t.ID
		*t = upd
		return http.StatusOK, message{"Todo updated"}
	case method == http.MethodPost && action == "toggle":
		t.Completed = !t.Completed
		return http.StatusOK, message{"Todo toggled"}
	}
	return http.StatusMethodNotAllowed, detail{Detail: "Method Not Allowed"}
}

func (m *MockTransport) decideEvent(id models.ID, approve bool) (int, any) {
	s := &m.state
	i := indexOf(s.EventCandidates, func(c models.EventCandidate) bool { return c.ID == id })
	if i < 0 {
		return notFound("event candidate", id)
	}
	c := &s.EventCandidates[i]
	if !c.Pending() {
		return alreadyDecided("event candidate", id, c.Status)
	}
	if !approve {
		c.Status = models.StatusRejected
		return http.StatusOK, message{"Event rejected"}
	}

	c.Status = models.StatusApproved
	ev := c.CalendarEvent
	ev.ID = models.ID(m.newID())
	s.Events = append(s.Events, ev)
	return http.StatusOK, struct {
		message
		EventID models.ID `json:"event_id"`
	}{message{"Event approved"}, ev.ID}
}

func (m *MockTransport) decideTodo(id models.ID, approve bool) (int, any) {
	s := &m.state
	i := indexOf(s.TodoCandidates, func(c models.TodoCandidate) bool { return c.ID == id })
	if i < 0 {
		return notFound("todo candidate", id)
	}
	c := &s.TodoCandidates[i]
	if !c.Pending() {
		return alreadyDecided("todo candidate", id, c.Status)
	}
	if !approve {
		c.Status = models.StatusRejected
		return http.StatusOK, message{"Todo rejected"}
	}

	c.Status = models.StatusApproved
	t := c.Todo
	t.ID = models.ID(m.newID())
	s.Todos = append(s.Todos, t)
	return http.StatusOK, struct {
		message
		TodoID models.ID `json:"todo_id"`
	}{message{"Todo approved"}, t.ID}
}

func (m *MockTransport) analyze(id models.ID) (int, any) {
	s := &m.state
	i := indexOf(s.Emails, func(e models.Email) bool { return e.ID == id })
	if i < 0 {
		return http.StatusOK, models.AnalyzeSummary{Error: fmt.Sprintf("email %s not found", id)}
	}

	result := m.resultFor(s.Emails[i])
	s.History = append(s.History, models.AnalysisHistoryEntry{
		ID:              models.ID(m.newID()),
		Timestamp:       models.NewTimestamp(time.Now()),
		TotalEmails:     1,
		TotalAnalyzed:   1,
		Status:          "completed",
		AnalysisResults: []models.AnalysisResult{result},
	})
	return http.StatusOK, models.AnalyzeSummary{
		Success:       true,
		EmailID:       id,
		Analysis:      &result.Analysis,
		TotalEmails:   1,
		TotalAnalyzed: 1,
		Message:       "analysis completed",
	}
}

func (m *MockTransport) analyzeRecent(limit int) (int, any) {
	s := &m.state
	emails := head(s.Emails, limit)

	results := make([]models.AnalysisResult, 0, len(emails))
	for _, e := range emails {
		results = append(results, m.resultFor(e))
	}
	s.History = append(s.History, models.AnalysisHistoryEntry{
		ID:              models.ID(m.newID()),
		Timestamp:       models.NewTimestamp(time.Now()),
		TotalEmails:     len(emails),
		TotalAnalyzed:   len(emails),
		Status:          "completed",
		AnalysisResults: results,
	})
	return http.StatusOK, models.AnalyzeSummary{
		Success:       true,
		TotalEmails:   len(emails),
		TotalAnalyzed: len(emails),
		Results:       results,
		Message:       fmt.Sprintf("analyzed %d emails", len(emails)),
	}
}

// resultFor fabricates an analysis that proposes a one-hour event the day
// after the email arrived.
func (m *MockTransport) resultFor(e models.Email) models.AnalysisResult {
	start := e.Date.Add(24 * time.Hour).Truncate(time.Hour)
	return models.AnalysisResult{
		EmailID: e.ID,
		Subject: e.Subject,
		Sender:  e.Sender,
		Analysis: models.Analysis{
			Events: []models.ExtractedEvent{{
				Title: e.Subject,
				Start: models.NewTimestamp(start),
				End:   models.NewTimestamp(start.Add(time.Hour)),
			}},
			Tasks: []models.ExtractedTask{},
		},
	}
}

func (s *mockState) shift(d time.Duration) {
	mv := func(ts *models.Timestamp) {
		if ts != nil && !ts.IsZero() {
			*ts = models.NewTimestamp(ts.Add(d))
		}
	}
	for i := range s.Emails {
		mv(&s.Emails[i].Date)
	}
	for i := range s.Events {
		mv(&s.Events[i].Start)
		mv(&s.Events[i].End)
	}
	for i := range s.Todos {
		mv(s.Todos[i].DueDate)
	}
	for i := range s.EventCandidates {
		c := &s.EventCandidates[i]
		mv(&c.Start)
		mv(&c.End)
		mv(&c.CreatedAt)
	}
	for i := range s.TodoCandidates {
		c := &s.TodoCandidates[i]
		mv(c.DueDate)
		mv(&c.CreatedAt)
	}
	for i := range s.History {
		h := &s.History[i]
		mv(&h.Timestamp)
		for j := range h.AnalysisResults {
			a := &h.AnalysisResults[j].Analysis
			for k := range a.Events {
				mv(&a.Events[k].Start)
				mv(&a.Events[k].End)
			}
			for k := range a.Tasks {
				mv(a.Tasks[k].DueDate)
			}
		}
	}
}

func indexOf[T any](s []T, match func(T) bool) int {
	for i := range s {
		if match(s[i]) {
			return i
		}
	}
	return -1
}

func head[T any](s []T, n int) []T {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[:n]
}

func tail[T any](s []T, n int) []T {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}
