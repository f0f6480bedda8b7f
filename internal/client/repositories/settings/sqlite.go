package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mailcal/internal/client/models"
	"github.com/dmitrijs2005/mailcal/internal/common"
	"github.com/dmitrijs2005/mailcal/internal/dbx"
)

// SQLiteRepository implements Repository. It needs the *sql.DB itself rather
// than a dbx.DBTX because Save opens its own transaction.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Get(ctx context.Context, userID string) (*models.Settings, error) {
	var s models.Settings
	err := r.db.QueryRowContext(ctx, `
		SELECT email_integration, calendar_integration, notification_enabled, auto_save, recent_days
		FROM settings WHERE user_id = ?`, userID).
		Scan(&s.EmailIntegration, &s.CalendarIntegration, &s.NotificationEnabled, &s.AutoSave, &s.RecentDays)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select settings: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT keyword FROM settings_keywords WHERE user_id = ? ORDER BY position`, userID)
	if err != nil {
		return nil, fmt.Errorf("select keywords: %w", err)
	}
	defer rows.Close()

	s.Keywords = []string{}
	for rows.Next() {
		var kw string
		if err := rows.Scan(&kw); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		s.Keywords = append(s.Keywords, kw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keywords: %w", err)
	}
	return &s, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, userID string, s models.Settings) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO settings (user_id, email_integration, calendar_integration,
				notification_enabled, auto_save, recent_days, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(user_id) DO UPDATE SET
				email_integration = excluded.email_integration,
				calendar_integration = excluded.calendar_integration,
				notification_enabled = excluded.notification_enabled,
				auto_save = excluded.auto_save,
				recent_days = excluded.recent_days,
				updated_at = excluded.updated_at`,
			userID, s.EmailIntegration, s.CalendarIntegration, s.NotificationEnabled,
			s.AutoSave, s.RecentDays, r.now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("upsert settings: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM settings_keywords WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("clear keywords: %w", err)
		}
		for i, kw := range s.Keywords {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO settings_keywords (user_id, position, keyword) VALUES (?, ?, ?)`,
				userID, i, kw); err != nil {
				return fmt.Errorf("insert keyword %q: %w", kw, err)
			}
		}
		return nil
	})
}
