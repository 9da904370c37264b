package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fractionaljobs/landing/config"
	"github.com/fractionaljobs/landing/internal/content"
	"github.com/fractionaljobs/landing/internal/core"
	"github.com/fractionaljobs/landing/internal/data"
	"github.com/fractionaljobs/landing/internal/observability/notify"
	"github.com/fractionaljobs/landing/internal/observability/notify/slack"
	"github.com/fractionaljobs/landing/internal/observability/statsd"
	"github.com/fractionaljobs/landing/internal/observability/tracing"
	"github.com/fractionaljobs/landing/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Stats         *service.StatsAggregator
	Recent        *service.RecentListingsFetcher
	Featured      *service.FeaturedCompaniesFetcher
	Reporter      *service.Reporter
	Catalog       *content.Catalog
	Store         ListingBackend
	PageCache     core.CacheRepository // nil when Redis is disabled
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink     *statsd.Client
	MetricsConfig   config.ObservabilityMetricsConfig
	TracingShutdown tracing.ShutdownFunc
	Notifier        notify.Sink // nil unless Slack is configured
}

// Close flushes metrics and traces.
func (o ObservabilityContainer) Close(ctx context.Context) error {
	var errs []error
	if o.TracingShutdown != nil {
		if err := o.TracingShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracing: %w", err))
		}
	}
	if err := o.MetricsSink.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close statsd: %w", err))
	}
	return errors.Join(errs...)
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	Store       ListingBackend
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// buildObservability configures the statsd sink, the tracer provider and the
// fallback notifier. Failures are logged; the service runs without that signal.
func buildObservability(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) ObservabilityContainer {
	obs := cfg.Observability
	out := ObservabilityContainer{
		MetricsConfig: obs.Metrics,
		Notifier:      buildNotifier(ctx, logger, obs.Notifications, cfg.HTTP.BaseURL),
	}

	if obs.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: obs.Metrics.StatsdAddress,
			Prefix:  obs.Metrics.Prefix,
			Logger:  logger,
		})
		if err != nil {
			logger.ErrorContext(ctx, "failed to initialise statsd client", "error", err)
		} else {
			out.MetricsSink = client
		}
	}

	shutdown, err := tracing.Init(ctx, tracing.Config{
		Enabled:     obs.Tracing.Enabled,
		Endpoint:    obs.Tracing.Endpoint,
		Insecure:    obs.Tracing.Insecure,
		ServiceName: obs.Tracing.ServiceName,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to initialise tracing", "error", err)
	} else {
		out.TracingShutdown = shutdown
	}
	return out
}

//nolint:ireturn // callers only need the notify.Sink port.
func buildNotifier(ctx context.Context, logger *slog.Logger, cfg config.ObservabilityNotificationsConfig, baseURL string) notify.Sink {
	if !cfg.SlackEnabled {
		return nil
	}
	client, err := slack.NewClient(slack.Config{
		WebhookURL:    cfg.SlackWebhookURL,
		Channel:       cfg.SlackChannel,
		Timeout:       cfg.SlackTimeout,
		RetryLimit:    cfg.SlackRetries,
		PageURLPrefix: baseURL,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to initialise slack notifier", "error", err)
		return nil
	}
	return client
}

// metricsSink returns a Sink only when a client exists, so services see a nil
// interface instead of a typed nil.
func (o ObservabilityContainer) metricsSink() statsd.Sink {
	if o.MetricsSink == nil {
		return nil
	}
	return o.MetricsSink
}

// reportScopes turns catalog pages into reporter scopes, one per distinct filter.
func reportScopes(catalog *content.Catalog) []service.ReportScope {
	pages := catalog.Pages()
	seen := make(map[string]bool, len(pages))
	scopes := make([]service.ReportScope, 0, len(pages))
	for _, p := range pages {
		key := p.Filter.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		scopes = append(scopes, service.ReportScope{Name: p.Slug, Filter: p.Filter})
	}
	return scopes
}

// InvalidateCatalogCache drops the cached stats summary and rendered page for
// every catalog page, plus the index. A nil cache is a no-op.
func InvalidateCatalogCache(
	ctx context.Context,
	cache core.CacheRepository,
	catalog *content.Catalog,
	logger *slog.Logger,
) (int, error) {
	if cache == nil || catalog == nil {
		return 0, nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	stats := core.NewStatsCacheService(core.StatsCacheServiceOptions{Cache: cache, Logger: logger})

	var errs []error
	for _, scope := range reportScopes(catalog) {
		if err := stats.Invalidate(ctx, scope.Filter); err != nil {
			errs = append(errs, fmt.Errorf("invalidate stats %s: %w", scope.Name, err))
		}
	}
	paths := []string{"/"}
	for _, p := range catalog.Pages() {
		paths = append(paths, "/"+p.Slug)
	}
	for _, path := range paths {
		if _, err := cache.Delete(ctx, core.PageCacheKey(path)); err != nil {
			errs = append(errs, fmt.Errorf("invalidate page %s: %w", path, err))
		}
	}
	logger.InfoContext(ctx, "catalog cache invalidated", "pages", len(paths), "errors", len(errs))
	return len(paths), errors.Join(errs...)
}

// NewServices wires the domain services over an opened store.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil || deps.Store == nil {
		return ServiceContainer{}, errors.New("service deps require config and store")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	catalog, err := content.Default()
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("load page catalog: %w", err)
	}

	obs := buildObservability(ctx, logger, cfg)
	sink := obs.metricsSink()

	var cacheRepo core.CacheRepository
	if deps.RedisClient != nil {
		cacheRepo = data.NewRedisCacheRepo(data.RedisCacheRepoOptions{Client: deps.RedisClient})
	}
	statsCache := core.NewStatsCacheService(core.StatsCacheServiceOptions{
		Cache:  cacheRepo,
		Config: core.StatsCacheConfig{TTL: cfg.PageCache.TTL},
		Logger: logger,
	})

	stats := service.NewStatsAggregator(service.StatsAggregatorOptions{
		Store:  deps.Store,
		Logger: logger,
		Config: service.StatsAggregatorConfig{
			QueryTimeout: cfg.Stats.QueryTimeout,
			Cache:        statsCache,
			Metrics:      sink,
		},
	})
	fetcherOpts := service.ListingFetcherOptions{Store: deps.Store, Logger: logger, Metrics: sink}

	reporter := service.NewReporter(service.ReporterOptions{
		Stats:   stats,
		Metrics: sink,
		Config: service.ReporterConfig{
			Schedule:   cfg.Reporter.Schedule,
			RunOnStart: cfg.Reporter.RunOnStart,
			Scopes:     reportScopes(catalog),
		},
		Logger:   logger,
		Notifier: obs.Notifier,
	})

	container := ServiceContainer{
		Stats:         stats,
		Recent:        service.NewRecentListingsFetcher(fetcherOpts),
		Featured:      service.NewFeaturedCompaniesFetcher(fetcherOpts),
		Reporter:      reporter,
		Catalog:       catalog,
		Store:         deps.Store,
		Observability: obs,
	}
	if cfg.PageCache.Enabled {
		container.PageCache = cacheRepo
	}
	return container, nil
}

// ServiceOrchestrationConfig contains dependencies for running services.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
const shutdownWaitTimeout = 15 * time.Second

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Reporter   *service.Reporter
}

func startHTTPServerIfEnabled(deps *serviceStartupDeps) (*http.Server, error) {
	if !deps.enabledServices[config.ServiceModeHTTP] {
		return nil, nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:   deps.cfg.Config,
		Services: deps.cfg.Services,
		Logger:   deps.logger,
		ErrCh:    deps.errCh,
	})
}

func startReporterIfEnabled(deps *serviceStartupDeps) (*service.Reporter, error) {
	if !deps.enabledServices[config.ServiceModeReporter] || deps.cfg.Services.Reporter == nil {
		return nil, nil
	}
	if err := deps.cfg.Services.Reporter.Start(deps.ctx); err != nil {
		return nil, fmt.Errorf("start reporter: %w", err)
	}
	return deps.cfg.Services.Reporter, nil
}

// startServices starts all enabled services.
func startServices(deps *serviceStartupDeps) (ServiceStartupResult, error) {
	server, err := startHTTPServerIfEnabled(deps)
	if err != nil {
		return ServiceStartupResult{}, err
	}
	reporter, err := startReporterIfEnabled(deps)
	if err != nil {
		return ServiceStartupResult{HTTPServer: server}, err
	}
	return ServiceStartupResult{HTTPServer: server, Reporter: reporter}, nil
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	result, err := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})
	sd := shutdownConfig{
		ctx:           serviceCtx,
		cancel:        cancel,
		errCh:         errCh,
		httpServer:    result.HTTPServer,
		reporter:      result.Reporter,
		observability: cfg.Services.Observability,
		logger:        logger,
	}
	if err != nil {
		cancel()
		return errors.Join(err, gracefulStop(sd))
	}

	return waitForShutdown(sd)
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	count := 0
	for _, mode := range config.ValidServiceModes() {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	return errorChannelCapacity(enabled) + 1
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx           context.Context
	cancel        context.CancelFunc
	errCh         <-chan error
	httpServer    *http.Server
	reporter      *service.Reporter
	observability ObservabilityContainer
	logger        *slog.Logger
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel()
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel()
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop stops the HTTP server, then the reporter, then flushes telemetry.
// cfg.ctx is already cancelled here, so shutdown gets a fresh deadline.
func gracefulStop(cfg shutdownConfig) error {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(cfg.ctx), shutdownWaitTimeout)
	defer cancel()

	var errs []error
	if cfg.httpServer != nil {
		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: shutdownCtx,
			Server:  cfg.httpServer,
			Logger:  cfg.logger,
		}); err != nil {
			errs = append(errs, err)
		}
	}

	if cfg.reporter != nil {
		stopped := make(chan struct{})
		go func() {
			cfg.reporter.Stop()
			close(stopped)
		}()
		waitForService(stopped, "stats reporter", cfg.logger)
	}

	if err := cfg.observability.Close(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
