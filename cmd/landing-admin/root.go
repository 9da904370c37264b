package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/fractionaljobs/landing/config"
	"github.com/fractionaljobs/landing/internal/bootstrap"
	"github.com/fractionaljobs/landing/internal/content"
	"github.com/fractionaljobs/landing/internal/data"
	"github.com/fractionaljobs/landing/internal/domain/model"
)

const defaultCommandTimeout = 5 * time.Minute

// app carries state shared by every subcommand.
type app struct {
	logger  *slog.Logger
	cfg     config.AppConfig
	timeout time.Duration
	debug   bool
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	a := &app{logger: logger}

	root := &cobra.Command{
		Use:           "landing-admin",
		Short:         "Operator tooling for the fractional jobs landing service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}
			a.cfg = cfg
			level := cfg.LogLevel
			if a.debug {
				level = "debug"
			}
			bootstrap.SetLogLevel(level)
			return nil
		},
	}
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", defaultCommandTimeout, "overall command timeout")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newMigrateCmd(a),
		newSeedCmd(a),
		newStatsCmd(a),
		newRecentCmd(a),
		newPagesCmd(a),
	)
	return root
}

// withStore runs fn against the configured store and closes it afterwards.
func (a *app) withStore(cmd *cobra.Command, skipMigrations bool, fn func(context.Context, bootstrap.ListingBackend) error) (err error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
	defer cancel()

	handle, err := bootstrap.OpenStore(ctx, bootstrap.StoreOptions{
		Config:         &a.cfg,
		Logger:         a.logger,
		SkipMigrations: skipMigrations,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := handle.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close store: %w", cerr))
		}
	}()
	return fn(ctx, handle.Listings)
}

// invalidateCache clears cached stats and pages so freshly seeded listings
// show up before the revalidate window ends. Skipped when Redis is disabled.
func (a *app) invalidateCache(ctx context.Context, out io.Writer) error {
	client, err := bootstrap.ConnectRedis(ctx, bootstrap.DatabaseConfig{
		RedisConfig: a.cfg.Redis,
		Logger:      a.logger,
	})
	if err != nil {
		a.logger.WarnContext(ctx, "skipping cache invalidation", "error", err)
		return nil
	}
	if client == nil {
		return nil
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			a.logger.WarnContext(ctx, "close redis", "error", cerr)
		}
	}()

	catalog, err := content.Default()
	if err != nil {
		return err
	}
	cache := data.NewRedisCacheRepo(data.RedisCacheRepoOptions{Client: client})
	n, err := bootstrap.InvalidateCatalogCache(ctx, cache, catalog, a.logger)
	if err != nil {
		a.logger.WarnContext(ctx, "cache invalidation incomplete", "error", err)
	}
	return writef(out, "invalidated cache for %d pages\n", n)
}

// filterFlags registers --category and --location on cmd.
func filterFlags(cmd *cobra.Command) (category, location *string) {
	category = cmd.Flags().String("category", "", "exact role category, e.g. Finance")
	location = cmd.Flags().String("location", "", "case-insensitive location substring")
	return category, location
}

func buildFilter(category, location string) (model.ListingFilter, error) {
	f := model.ListingFilter{Location: location}
	if category != "" {
		c, err := model.ParseRoleCategory(category)
		if err != nil {
			return model.ListingFilter{}, err
		}
		f.Category = &c
	}
	return f.Normalize(), nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
