package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/dmitrijs2005/mailcal/internal/client/migrations"
	"github.com/dmitrijs2005/mailcal/internal/client/models"
	"github.com/dmitrijs2005/mailcal/internal/client/repositories/settings"
	"github.com/dmitrijs2005/mailcal/internal/client/resource"
	"github.com/dmitrijs2005/mailcal/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

func TestSettingsService_LoadDefaultsSaveUpdate(t *testing.T) {
	repo := settings.NewSQLiteRepository(setupDB(t))
	res := resource.NewSettings(repo, "u1")
	changes := 0
	svc := NewSettingsService(repo, "u1", res, logging.Discard(), func() { changes++ })
	ctx := context.Background()

	s, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), s)

	s, err = svc.Update(ctx, func(s *models.Settings) error {
		return s.AddKeyword("standup")
	})
	require.NoError(t, err)
	assert.Contains(t, s.Keywords, "standup")
	assert.Equal(t, 1, changes)

	stored, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, s, *stored)
	assert.Equal(t, s, *res.State().Data)

	_, err = svc.Update(ctx, func(s *models.Settings) error { return s.SetRecentDays(0) })
	require.ErrorIs(t, err, models.ErrInvalidDays)

	bad := models.DefaultSettings()
	bad.RecentDays = 0
	require.Error(t, svc.Save(ctx, bad))
	assert.Equal(t, 1, changes)
}

func TestSettingsService_UpdateDoesNotAliasCachedKeywords(t *testing.T) {
	repo := settings.NewSQLiteRepository(setupDB(t))
	res := resource.NewSettings(repo, "u1")
	svc := NewSettingsService(repo, "u1", res, logging.Discard(), nil)
	ctx := context.Background()

	before, err := svc.Load(ctx)
	require.NoError(t, err)
	kw := append([]string(nil), before.Keywords...)

	_, err = svc.Update(ctx, func(s *models.Settings) error {
		s.Keywords[0] = "changed"
		return models.ErrEmptyKeyword
	})
	require.Error(t, err)
	assert.Equal(t, kw, res.State().Data.Keywords)
}

func TestSettingsService_LoadSupersededFetch(t *testing.T) {
	firstStarted := make(chan struct{})
	secondStarted := make(chan struct{})
	releaseSecond := make(chan struct{})

	var mu sync.Mutex
	calls := 0
	res := resource.New("settings", func(ctx context.Context) (models.Settings, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()

		switch n {
		case 1:
			close(firstStarted)
			<-secondStarted
		case 2:
			close(secondStarted)
			<-releaseSecond
		}
		return models.DefaultSettings(), nil
	})
	repo := settings.NewSQLiteRepository(setupDB(t))
	svc := NewSettingsService(repo, "u1", res, logging.Discard(), nil)
	ctx := context.Background()

	type result struct {
		s   models.Settings
		err error
	}
	done := make(chan result, 1)
	go func() {
		s, err := svc.Load(ctx)
		done <- result{s, err}
	}()
	<-firstStarted

	refetched := make(chan error, 1)
	go func() { refetched <- res.Refetch(ctx) }()

	got := <-done
	require.ErrorIs(t, got.err, resource.ErrNotLoaded)

	close(releaseSecond)
	require.NoError(t, <-refetched)

	s, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), s)
}
