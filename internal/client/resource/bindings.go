package resource

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/mailcal/internal/client/client"
	"github.com/dmitrijs2005/mailcal/internal/client/models"
	"github.com/dmitrijs2005/mailcal/internal/client/repositories/settings"
	"github.com/dmitrijs2005/mailcal/internal/common"
)

func NewEvents(c client.Client, opts ...Option) *Resource[[]models.CalendarEvent] {
	return New("events", c.Events, opts...)
}

func NewTodos(c client.Client, opts ...Option) *Resource[[]models.Todo] {
	return New("todos", c.Todos, opts...)
}

func NewEventCandidates(c client.Client, opts ...Option) *Resource[[]models.EventCandidate] {
	return New("event_candidates", c.EventCandidates, opts...)
}

func NewTodoCandidates(c client.Client, opts ...Option) *Resource[[]models.TodoCandidate] {
	return New("todo_candidates", c.TodoCandidates, opts...)
}

func NewHealth(c client.Client, opts ...Option) *Resource[models.Health] {
	return New("health", func(ctx context.Context) (models.Health, error) {
		h, err := c.Health(ctx)
		if err != nil {
			return models.Health{}, err
		}
		return *h, nil
	}, opts...)
}

// Emails is the recent-emails resource. Its limit is a dependency: changing
// it triggers a refetch.
type Emails struct {
	*Resource[[]models.Email]
	limit atomic.Int64
}

func NewEmails(c client.Client, limit int, opts ...Option) *Emails {
	e := &Emails{}
	e.limit.Store(int64(limit))
	e.Resource = New("emails", func(ctx context.Context) ([]models.Email, error) {
		return c.RecentEmails(ctx, int(e.limit.Load()))
	}, opts...)
	e.deps = []any{limit}
	return e
}

func (e *Emails) Limit() int { return int(e.limit.Load()) }

// SetLimit changes the limit, refetching when it differs.
func (e *Emails) SetLimit(ctx context.Context, limit int) error {
	e.limit.Store(int64(limit))
	_, err := e.SetDeps(ctx, limit)
	return err
}

// History is the analysis-history resource. Entries removed with Hide stay
// hidden for the lifetime of the value; the backend is never told.
type History struct {
	*Resource[[]models.AnalysisHistoryEntry]
	mu     sync.RWMutex
	hidden map[models.ID]bool
}

func NewHistory(c client.Client, limit int, opts ...Option) *History {
	h := &History{hidden: make(map[models.ID]bool)}
	h.Resource = New("history", func(ctx context.Context) ([]models.AnalysisHistoryEntry, error) {
		entries, err := c.AnalysisHistory(ctx, limit)
		if err != nil {
			return nil, err
		}
		return h.visible(entries), nil
	}, opts...)
	return h
}

// Hide removes the entry from local state and from every later fetch.
func (h *History) Hide(id models.ID) {
	h.mu.Lock()
	h.hidden[id] = true
	h.mu.Unlock()

	h.Update(h.visible)
}

func (h *History) visible(entries []models.AnalysisHistoryEntry) []models.AnalysisHistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.DeleteFunc(slices.Clone(entries), func(e models.AnalysisHistoryEntry) bool {
		return h.hidden[e.ID]
	})
}

// NewSettings loads userID's settings from the local store, falling back to
// defaults for a user with nothing saved yet.
func NewSettings(repo settings.Repository, userID string, opts ...Option) *Resource[models.Settings] {
	return New("settings", func(ctx context.Context) (models.Settings, error) {
		s, err := repo.Get(ctx, userID)
		if errors.Is(err, common.ErrNotFound) {
			return models.DefaultSettings(), nil
		}
		if err != nil {
			return models.Settings{}, err
		}
		return *s, nil
	}, opts...)
}
