// Package settings persists user-scoped dashboard settings in the local
// SQLite cache.
//
// # Data Model
//
// One row per user in settings holds the integration toggles and the
// recent-days window; the keyword list lives in settings_keywords keyed by
// (user_id, position) so its order survives a round trip. Save rewrites both
// tables inside a single transaction, so readers never observe a settings row
// with a partially written keyword list.
//
// Typical Usage
//
//	repo := settings.NewSQLiteRepository(db)
//	s, err := repo.Get(ctx, uid)
//	if errors.Is(err, common.ErrNotFound) {
//	    s = ptr(models.DefaultSettings())
//	}
//	_ = repo.Save(ctx, uid, *s)
package settings
