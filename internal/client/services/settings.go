package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mailcal/internal/client/models"
	"github.com/dmitrijs2005/mailcal/internal/client/repositories/settings"
	"github.com/dmitrijs2005/mailcal/internal/client/resource"
	"github.com/dmitrijs2005/mailcal/internal/logging"
	"github.com/go-playground/validator/v10"
)

// SettingsService reads and edits the signed-in user's settings.
type SettingsService interface {
	Load(ctx context.Context) (models.Settings, error)
	Save(ctx context.Context, s models.Settings) error
	// Update applies edit to the current settings and saves the result.
	Update(ctx context.Context, edit func(*models.Settings) error) (models.Settings, error)
}

type settingsService struct {
	repo     settings.Repository
	userID   string
	res      *resource.Resource[models.Settings]
	validate *validator.Validate
	log      logging.Logger
	onChange ChangeFunc
}

func NewSettingsService(repo settings.Repository, userID string, res *resource.Resource[models.Settings], log logging.Logger, onChange ChangeFunc) SettingsService {
	return &settingsService{
		repo:     repo,
		userID:   userID,
		res:      res,
		validate: validator.New(),
		log:      log.With("service", "settings"),
		onChange: onChange,
	}
}

// Load returns the cached settings, fetching them first if needed.
func (s *settingsService) Load(ctx context.Context) (models.Settings, error) {
	if st := s.res.State(); st.Data != nil {
		return *st.Data, nil
	}
	if err := s.res.Fetch(ctx); err != nil {
		return models.Settings{}, err
	}
	st := s.res.State()
	if st.Data == nil {
		return models.Settings{}, fmt.Errorf("settings for %s: %w", s.userID, resource.ErrNotLoaded)
	}
	return *st.Data, nil
}

func (s *settingsService) Save(ctx context.Context, in models.Settings) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return roundTrip(ctx, s.log, "save_settings", func(ctx context.Context) error {
		return s.repo.Save(ctx, s.userID, in)
	}, s.onChange, s.res)
}

func (s *settingsService) Update(ctx context.Context, edit func(*models.Settings) error) (models.Settings, error) {
	cur, err := s.Load(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	cur.Keywords = append([]string(nil), cur.Keywords...)
	if err := edit(&cur); err != nil {
		return models.Settings{}, err
	}
	if err := s.Save(ctx, cur); err != nil {
		return models.Settings{}, err
	}
	return cur, nil
}
