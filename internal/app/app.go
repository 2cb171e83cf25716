// Package app assembles the engine from configuration: it opens the
// configured store and wires it with the codec and category registry
// into a core.Service. Both the HTTP server and mdctl start here.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/LabMaster/internal/codec"
	"github.com/JonMunkholm/LabMaster/internal/config"
	"github.com/JonMunkholm/LabMaster/internal/core"
	"github.com/JonMunkholm/LabMaster/internal/core/categories"
	"github.com/JonMunkholm/LabMaster/internal/persistence/memory"
	"github.com/JonMunkholm/LabMaster/internal/persistence/postgres"
	"github.com/JonMunkholm/LabMaster/internal/persistence/remote"
	"github.com/JonMunkholm/LabMaster/internal/persistence/sqlite"
)

// App owns the store and the service built on it.
type App struct {
	Service *core.Service
	Store   core.Store
	Config  *config.Config

	close func() error
}

// Open builds the store named by cfg.Persistence.Driver and the service
// around it. Callers must Close the App.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, closeFn, err := openStore(ctx, cfg.Persistence)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Persistence.Driver, err)
	}
	logger.Info("store opened", "driver", cfg.Persistence.Driver)

	svc := core.NewService(categories.NewRegistry(), store, codec.Auto{Default: codec.FormatXLSX}, core.ServiceConfig{
		MaxConcurrentImports:    cfg.Import.MaxConcurrent,
		MaxImportWait:           cfg.Import.MaxWaitTime,
		MaxConcurrentCategories: cfg.Import.MaxConcurrentCategories,
		ImportTimeout:           cfg.Import.Timeout,
		Locale:                  cfg.Query.Tag(),
		MaxPageSize:             cfg.Query.MaxPageSize,
		Logger:                  logger,
	})

	return &App{Service: svc, Store: store, Config: cfg, close: closeFn}, nil
}

func openStore(ctx context.Context, cfg config.PersistenceConfig) (core.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), noop, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
			URL:      cfg.DatabaseURL,
			MaxConns: int32(cfg.MaxConns),
			MinConns: int32(cfg.MinConns),
		})
		if err != nil {
			return nil, nil, err
		}
		s, err := postgres.New(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return s, s.Close, nil

	case config.DriverRemote:
		s, err := remote.New(remote.Config{
			BaseURL: cfg.RemoteURL,
			Token:   cfg.RemoteToken,
			Timeout: cfg.RemoteTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// Close releases the store.
func (a *App) Close() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}
