package main

import (
	"context"
	"fmt"

	"github.com/fieldpaper-dev/fieldpaper/internal/config"
	"github.com/fieldpaper-dev/fieldpaper/internal/service"
	"github.com/fieldpaper-dev/fieldpaper/internal/storage"
)

// initStorage opens the configured database and brings the schema up to date.
func initStorage(ctx context.Context) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}
