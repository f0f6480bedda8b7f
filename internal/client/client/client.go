package client

import (
	"context"

	"github.com/dmitrijs2005/mailcal/internal/client/models"
)

type Client interface {
	Close() error

	Health(ctx context.Context) (*models.Health, error)
	Me(ctx context.Context) (*models.User, error)

	RecentEmails(ctx context.Context, limit int) ([]models.Email, error)
	AnalyzeEmail(ctx context.Context, emailID models.ID) (*models.AnalyzeSummary, error)
	AnalyzeRecent(ctx context.Context, limit int) (*models.AnalyzeSummary, error)
	AnalysisHistory(ctx context.Context, limit int) ([]models.AnalysisHistoryEntry, error)

	Events(ctx context.Context) ([]models.CalendarEvent, error)
	CreateEvent(ctx context.Context, ev models.CalendarEvent) (*models.CalendarEvent, error)
	UpdateEvent(ctx context.Context, id models.ID, ev models.CalendarEvent) error
	ToggleEvent(ctx context.Context, id models.ID) error
	EventCandidates(ctx context.Context) ([]models.EventCandidate, error)
	ApproveEvent(ctx context.Context, id models.ID) error
	RejectEvent(ctx context.Context, id models.ID) error

	Todos(ctx context.Context) ([]models.Todo, error)
	CreateTodo(ctx context.Context, t models.Todo) (*models.Todo, error)
	UpdateTodo(ctx context.Context, id models.ID, t models.Todo) error
	ToggleTodo(ctx context.Context, id models.ID) error
	TodoCandidates(ctx context.Context) ([]models.TodoCandidate, error)
	ApproveTodo(ctx context.Context, id models.ID) error
	RejectTodo(ctx context.Context, id models.ID) error

	PollingStart(ctx context.Context) (*models.PollingStatus, error)
	PollingStop(ctx context.Context) (*models.PollingStatus, error)
	PollingStatus(ctx context.Context) (*models.PollingStatus, error)
}
