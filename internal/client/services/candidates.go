package services

import (
	"context"

	"github.com/dmitrijs2005/mailcal/internal/client/client"
	"github.com/dmitrijs2005/mailcal/internal/client/models"
	"github.com/dmitrijs2005/mailcal/internal/client/resource"
	"github.com/dmitrijs2005/mailcal/internal/logging"
)

// CandidateService requests status transitions for extracted candidates.
// The client never decides a status itself: it asks, then refetches.
type CandidateService interface {
	ApproveEvent(ctx context.Context, id models.ID) error
	RejectEvent(ctx context.Context, id models.ID) error
	ApproveTodo(ctx context.Context, id models.ID) error
	RejectTodo(ctx context.Context, id models.ID) error
}

type candidateService struct {
	client          client.Client
	eventCandidates *resource.Resource[[]models.EventCandidate]
	todoCandidates  *resource.Resource[[]models.TodoCandidate]
	events          *resource.Resource[[]models.CalendarEvent]
	todos           *resource.Resource[[]models.Todo]
	log             logging.Logger
	onChange        ChangeFunc
}

// CandidateResources groups what the candidate service refreshes.
type CandidateResources struct {
	EventCandidates *resource.Resource[[]models.EventCandidate]
	TodoCandidates  *resource.Resource[[]models.TodoCandidate]
	Events          *resource.Resource[[]models.CalendarEvent]
	Todos           *resource.Resource[[]models.Todo]
}

func NewCandidateService(c client.Client, res CandidateResources, log logging.Logger, onChange ChangeFunc) CandidateService {
	return &candidateService{
		client:          c,
		eventCandidates: res.EventCandidates,
		todoCandidates:  res.TodoCandidates,
		events:          res.Events,
		todos:           res.Todos,
		log:             log.With("service", "candidates"),
		onChange:        onChange,
	}
}

// Approving also refreshes the confirmed collection, where the approved
// candidate is expected to appear.
func (s *candidateService) ApproveEvent(ctx context.Context, id models.ID) error {
	return roundTrip(ctx, s.log, "approve_event", func(ctx context.Context) error {
		return s.client.ApproveEvent(ctx, id)
	}, s.onChange, s.eventCandidates, s.events)
}

func (s *candidateService) RejectEvent(ctx context.Context, id models.ID) error {
	return roundTrip(ctx, s.log, "reject_event", func(ctx context.Context) error {
		return s.client.RejectEvent(ctx, id)
	}, s.onChange, s.eventCandidates)
}

func (s *candidateService) ApproveTodo(ctx context.Context, id models.ID) error {
	return roundTrip(ctx, s.log, "approve_todo", func(ctx context.Context) error {
		return s.client.ApproveTodo(ctx, id)
	}, s.onChange, s.todoCandidates, s.todos)
}

func (s *candidateService) RejectTodo(ctx context.Context, id models.ID) error {
	return roundTrip(ctx, s.log, "reject_todo", func(ctx context.Context) error {
		return s.client.RejectTodo(ctx, id)
	}, s.onChange, s.todoCandidates)
}
