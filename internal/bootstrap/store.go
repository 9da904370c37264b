package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fractionaljobs/landing/config"
	"github.com/fractionaljobs/landing/internal/core"
	"github.com/fractionaljobs/landing/internal/data"
)

// ListingBackend is a listing store that can also report its health.
type ListingBackend interface {
	core.ListingRepository
	Ping(ctx context.Context) error
}

// StoreHandle owns the opened listing store and whatever must be closed with it.
type StoreHandle struct {
	Listings ListingBackend
	Driver   config.StoreDriver
	close    func() error
}

// Close releases the underlying database handle.
func (h *StoreHandle) Close() error {
	if h == nil || h.close == nil {
		return nil
	}
	return h.close()
}

// StoreOptions groups dependencies for OpenStore.
type StoreOptions struct {
	Config *config.AppConfig
	Logger *slog.Logger
	// SkipMigrations overrides DB_RUN_MIGRATIONS_ON_START.
	SkipMigrations bool
}

// OpenStore opens the listing store selected by STORE_DRIVER.
func OpenStore(ctx context.Context, opts StoreOptions) (*StoreHandle, error) {
	if opts.Config == nil {
		return nil, errors.New("store config is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch opts.Config.Store.Driver {
	case config.StoreDriverSQLite:
		repo, err := data.OpenSQLiteListingRepo(ctx, data.SQLiteListingRepoConfig{
			Path:   opts.Config.Store.SQLitePath,
			Logger: logger,
		})
		if err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "sqlite listing store opened", "path", opts.Config.Store.SQLitePath)
		return &StoreHandle{Listings: repo, Driver: config.StoreDriverSQLite, close: repo.Close}, nil

	case config.StoreDriverPostgres, "":
		db, err := ConnectDB(ctx, DatabaseConfig{DBConfig: opts.Config.Postgres, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		if err := migrateIfEnabled(ctx, db, opts, logger); err != nil {
			if cerr := db.Close(); cerr != nil {
				err = errors.Join(err, fmt.Errorf("close database: %w", cerr))
			}
			return nil, err
		}
		return &StoreHandle{Listings: data.NewListingRepo(db), Driver: config.StoreDriverPostgres, close: db.Close}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Config.Store.Driver)
	}
}

func migrateIfEnabled(ctx context.Context, db *sql.DB, opts StoreOptions, logger *slog.Logger) error {
	if opts.SkipMigrations || !opts.Config.Postgres.RunMigrationsOnStart {
		logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
		return nil
	}
	return RunMigrations(ctx, db, logger)
}
