package services

import (
	"context"
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

// TodoService edits confirmed todos.
type TodoService interface {
	Create(ctx context.Context, title string, due *time.Time) (*models.Todo, error)
	Toggle(ctx context.Context, id models.ID) error
	SaveMemo(ctx context.Context, id models.ID, memo string) error
	// SaveDueDate sets or, with a nil due, clears the due date.
	SaveDueDate(ctx context.Context, id models.ID, due *time.Time) error
}

type todoService struct {
	client   client.Client
	todos    *resource.Resource[[]models.Todo]
	log      logging.Logger
	onChange ChangeFunc
}

func NewTodoService(c client.Client, todos *resource.Resource[[]models.Todo], log logging.Logger, onChange ChangeFunc) TodoService {
	return &todoService{client: c, todos: todos, log: log.With("service", "todos"), onChange: onChange}
}

func (s *todoService) Create(ctx context.Context, title string, due *time.Time) (*models.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	t := models.Todo{ID: models.ID(uuid.NewString()), Title: title}
	if due != nil {
		t.DueDate = models.NewTimestamp(*due).Ptr()
	}
	var created *models.Todo
	err := roundTrip(ctx, s.log, "create_todo", func(ctx context.Context) error {
		var err error
		created, err = s.client.CreateTodo(ctx, t)
		return err
	}, s.onChange, s.todos)
	return created, err
}

func (s *todoService) Toggle(ctx context.Context, id models.ID) error {
	return roundTrip(ctx, s.log, "toggle_todo", func(ctx context.Context) error {
		return s.client.ToggleTodo(ctx, id)
	}, s.onChange, s.todos)
}

func (s *todoService) SaveMemo(ctx context.Context, id models.ID, memo string) error {
	return s.update(ctx, "save_todo_memo", id, func(t *models.Todo) {
		t.Memo = memo
	})
}

func (s *todoService) SaveDueDate(ctx context.Context, id models.ID, due *time.Time) error {
	return s.update(ctx, "save_todo_due_date", id, func(t *models.Todo) {
		if due == nil {
			t.DueDate = nil
			return
		}
		t.DueDate = models.NewTimestamp(*due).Ptr()
	})
}

func (s *todoService) update(ctx context.Context, op string, id models.ID, edit func(*models.Todo)) error {
	st := s.todos.State()
	if st.Data == nil {
		if err := s.todos.Fetch(ctx); err != nil {
			return err
		}
		st = s.todos.State()
	}
	if st.Data == nil {
		return fmt.Errorf("todo %s: %w", id, common.ErrNotFound)
	}
	i := slices.IndexFunc(*st.Data, func(t models.Todo) bool { return t.ID == id })
	if i < 0 {
		return fmt.Errorf("todo %s: %w", id, common.ErrNotFound)
	}

	t := (*st.Data)[i]
	if t.DueDate != nil {
		t.DueDate = t.DueDate.Ptr()
	}
	edit(&t)
	return roundTrip(ctx, s.log, op, func(ctx context.Context) error {
		return s.client.UpdateTodo(ctx, id, t)
	}, s.onChange, s.todos)
}
