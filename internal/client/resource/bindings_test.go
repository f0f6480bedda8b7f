package resource

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/mailcal/internal/client/client"
	"github.com/dmitrijs2005/mailcal/internal/client/models"
	"github.com/dmitrijs2005/mailcal/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	client.Client
	limits  []int
	history []models.AnalysisHistoryEntry
}

func (f *fakeClient) RecentEmails(_ context.Context, limit int) ([]models.Email, error) {
	f.limits = append(f.limits, limit)
	out := make([]models.Email, limit)
	for i := range out {
		out[i].ID = models.ID(string(rune('a' + i)))
	}
	return out, nil
}

func (f *fakeClient) AnalysisHistory(context.Context, int) ([]models.AnalysisHistoryEntry, error) {
	return f.history, nil
}

func (f *fakeClient) Health(context.Context) (*models.Health, error) {
	return &models.Health{Status: "healthy"}, nil
}

type fakeSettingsRepo struct {
	stored map[string]models.Settings
}

func (f *fakeSettingsRepo) Get(_ context.Context, uid string) (*models.Settings, error) {
	s, ok := f.stored[uid]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &s, nil
}

func (f *fakeSettingsRepo) Save(_ context.Context, uid string, s models.Settings) error {
	f.stored[uid] = s
	return nil
}

func TestEmails_LimitIsDependency(t *testing.T) {
	fc := &fakeClient{}
	e := NewEmails(fc, 3)
	ctx := context.Background()

	require.NoError(t, e.Fetch(ctx))
	assert.Len(t, *e.State().Data, 3)

	require.NoError(t, e.SetLimit(ctx, 3))
	assert.Equal(t, []int{3}, fc.limits, "same limit does not refetch")

	require.NoError(t, e.SetLimit(ctx, 5))
	assert.Equal(t, []int{3, 5}, fc.limits)
	assert.Len(t, *e.State().Data, 5)
	assert.Equal(t, 5, e.Limit())
}

func TestHistory_HideSurvivesRefetch(t *testing.T) {
	fc := &fakeClient{history: []models.AnalysisHistoryEntry{{ID: "h1"}, {ID: "h2"}}}
	h := NewHistory(fc, 20)
	ctx := context.Background()

	require.NoError(t, h.Fetch(ctx))
	h.Hide("h1")
	require.Len(t, *h.State().Data, 1)
	assert.Equal(t, models.ID("h2"), (*h.State().Data)[0].ID)

	require.NoError(t, h.Refetch(ctx))
	require.Len(t, *h.State().Data, 1)
	assert.Len(t, fc.history, 2, "backend data untouched")
}

func TestHealth(t *testing.T) {
	r := NewHealth(&fakeClient{})
	require.NoError(t, r.Fetch(context.Background()))
	assert.Equal(t, "healthy", r.State().Data.Status)
}

func TestSettings_DefaultsThenStored(t *testing.T) {
	repo := &fakeSettingsRepo{stored: map[string]models.Settings{}}
	r := NewSettings(repo, "u1")
	ctx := context.Background()

	require.NoError(t, r.Fetch(ctx))
	assert.Equal(t, models.DefaultSettings(), *r.State().Data)

	custom := models.DefaultSettings()
	custom.RecentDays = 30
	require.NoError(t, repo.Save(ctx, "u1", custom))
	require.NoError(t, r.Refetch(ctx))
	assert.Equal(t, 30, r.State().Data.RecentDays)
}

func TestEvents_WithMockTransport(t *testing.T) {
	hc, err := client.NewHTTPClient("http://backend.invalid", client.WithTransport(client.NewMockTransport(time.Time{})))
	require.NoError(t, err)

	events := NewEvents(hc)
	todos := NewTodos(hc)
	ec := NewEventCandidates(hc)
	tc := NewTodoCandidates(hc)
	ctx := context.Background()

	require.NoError(t, events.Fetch(ctx))
	require.NoError(t, todos.Fetch(ctx))
	require.NoError(t, ec.Fetch(ctx))
	require.NoError(t, tc.Fetch(ctx))

	assert.NotEmpty(t, *events.State().Data)
	assert.NotEmpty(t, *todos.State().Data)
	assert.NotEmpty(t, *ec.State().Data)
	assert.NotEmpty(t, *tc.State().Data)
}
