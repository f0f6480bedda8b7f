package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/mailcal/internal/client/client"
	"github.com/dmitrijs2005/mailcal/internal/client/models"
	"github.com/dmitrijs2005/mailcal/internal/client/resource"
	"github.com/dmitrijs2005/mailcal/internal/common"
	"github.com/dmitrijs2005/mailcal/internal/logging"
	"github.com/google/uuid"
)

var ErrEmptyTitle = errors.New("title must not be empty")

// EventService edits confirmed calendar events.
type EventService interface {
	Create(ctx context.Context, title string, start, end time.Time, description string) (*models.CalendarEvent, error)
	Toggle(ctx context.Context, id models.ID) error
	SaveDescription(ctx context.Context, id models.ID, description string) error
	SaveTimes(ctx context.Context, id models.ID, start, end time.Time) error
}

type eventService struct {
	client   client.Client
	events   *resource.Resource[[]models.CalendarEvent]
	log      logging.Logger
	onChange ChangeFunc
}

func NewEventService(c client.Client, events *resource.Resource[[]models.CalendarEvent], log logging.Logger, onChange ChangeFunc) EventService {
	return &eventService{client: c, events: events, log: log.With("service", "events"), onChange: onChange}
}

func (s *eventService) Create(ctx context.Context, title string, start, end time.Time, description string) (*models.CalendarEvent, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if !start.Before(end) {
		return nil, common.ErrInvalidRange
	}

	ev := models.CalendarEvent{
		ID:          models.ID(uuid.NewString()),
		Title:       title,
		Start:       models.NewTimestamp(start),
		End:         models.NewTimestamp(end),
		Description: description,
	}
	var created *models.CalendarEvent
	err := roundTrip(ctx, s.log, "create_event", func(ctx context.Context) error {
		var err error
		created, err = s.client.CreateEvent(ctx, ev)
		return err
	}, s.onChange, s.events)
	return created, err
}

func (s *eventService) Toggle(ctx context.Context, id models.ID) error {
	return roundTrip(ctx, s.log, "toggle_event", func(ctx context.Context) error {
		return s.client.ToggleEvent(ctx, id)
	}, s.onChange, s.events)
}

func (s *eventService) SaveDescription(ctx context.Context, id models.ID, description string) error {
	return s.update(ctx, "save_event_description", id, func(ev *models.CalendarEvent) error {
		ev.Description = description
		return nil
	})
}

// SaveTimes rejects ranges where start is not before end.
func (s *eventService) SaveTimes(ctx context.Context, id models.ID, start, end time.Time) error {
	if !start.Before(end) {
		return common.ErrInvalidRange
	}
	return s.update(ctx, "save_event_times", id, func(ev *models.CalendarEvent) error {
		ev.Start = models.NewTimestamp(start)
		ev.End = models.NewTimestamp(end)
		return nil
	})
}

// update sends a whole-object update built from the cached copy of id.
func (s *eventService) update(ctx context.Context, op string, id models.ID, edit func(*models.CalendarEvent) error) error {
	ev, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := edit(&ev); err != nil {
		return err
	}
	return roundTrip(ctx, s.log, op, func(ctx context.Context) error {
		return s.client.UpdateEvent(ctx, id, ev)
	}, s.onChange, s.events)
}

// find looks id up in the cached events, loading them first if needed.
func (s *eventService) find(ctx context.Context, id models.ID) (models.CalendarEvent, error) {
	st := s.events.State()
	if st.Data == nil {
		if err := s.events.Fetch(ctx); err != nil {
			return models.CalendarEvent{}, err
		}
		st = s.events.State()
	}
	if st.Data != nil {
		if i := slices.IndexFunc(*st.Data, func(e models.CalendarEvent) bool { return e.ID == id }); i >= 0 {
			return (*st.Data)[i], nil
		}
	}
	return models.CalendarEvent{}, fmt.Errorf("event %s: %w", id, common.ErrNotFound)
}
