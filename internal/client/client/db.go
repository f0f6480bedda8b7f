package client

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/mailcal/internal/client/migrations"
	"github.com/dmitrijs2005/mailcal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/mailcal/internal/client/repositories/settings"
	"github.com/dmitrijs2005/mailcal/internal/dbx"
)

// Repositories bundles the local cache stores and the database behind them.
type Repositories struct {
	DB       *sql.DB
	Metadata metadata.Repository
	Settings settings.Repository
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}

// RunMigrations applies the embedded schema to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrations.Up(ctx, db)
}

// InitDatabase opens the cache at path, migrates it and wires the repositories.
func InitDatabase(ctx context.Context, path string) (*Repositories, error) {
	db, err := dbx.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		DB:       db,
		Metadata: metadata.NewSQLiteRepository(db),
		Settings: settings.NewSQLiteRepository(db),
	}, nil
}
