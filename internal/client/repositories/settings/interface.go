package settings

import (
	"context"

	"github.com/dmitrijs2005/mailcal/internal/client/models"
)

// Repository loads and stores Settings per user.
type Repository interface {
	// Get returns the stored settings or common.ErrNotFound.
	Get(ctx context.Context, userID string) (*models.Settings, error)

	// Save replaces the stored settings for userID.
	Save(ctx context.Context, userID string, s models.Settings) error
}
