package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fractionaljobs/landing/config"
	httpx "github.com/fractionaljobs/landing/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
	// ErrCh receives ListenAndServe failures (optional).
	ErrCh chan<- error
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil {
		return nil, errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler, err := buildHTTPHandler(httpHandlerConfig{
		Logger:    logger,
		Services:  routerServices(cfg.Services, appCfg, logger),
		HTTP:      appCfg.HTTP,
		PageCache: pageCacheConfig(cfg.Services, appCfg, logger),
	})
	if err != nil {
		return nil, fmt.Errorf("build http handler: %w", err)
	}

	return startServer(logger, handler, appCfg.HTTP.Addr, cfg.ErrCh), nil
}

func routerServices(svcs ServiceContainer, cfg *config.AppConfig, logger *slog.Logger) httpx.RouterServices {
	out := httpx.RouterServices{
		Catalog: svcs.Catalog,
		Limits:  httpx.Limits{Recent: cfg.Stats.RecentLimit, Featured: cfg.Stats.FeaturedLimit},
		Logger:  logger,
	}
	// Leave interfaces nil rather than typed-nil so NewRouter can reject them.
	if svcs.Stats != nil {
		out.Stats = svcs.Stats
	}
	if svcs.Recent != nil {
		out.Recent = svcs.Recent
	}
	if svcs.Featured != nil {
		out.Featured = svcs.Featured
	}
	if svcs.Store != nil {
		out.Store = svcs.Store
	}
	return out
}

func pageCacheConfig(svcs ServiceContainer, cfg *config.AppConfig, logger *slog.Logger) httpx.PageCacheConfig {
	if !cfg.PageCache.Enabled {
		return httpx.PageCacheConfig{}
	}
	return httpx.PageCacheConfig{Cache: svcs.PageCache, TTL: cfg.PageCache.TTL, Logger: logger}
}

type httpHandlerConfig struct {
	Logger    *slog.Logger
	Services  httpx.RouterServices
	HTTP      config.HTTPConfig
	PageCache httpx.PageCacheConfig
}

func buildHTTPHandler(cfg httpHandlerConfig) (http.Handler, error) {
	router, err := httpx.NewRouter(cfg.Services)
	if err != nil {
		return nil, err
	}

	// Order: Recover -> Logging -> Compression -> PageCache -> Router.
	// The page cache stores uncompressed bodies; logging sees compressed sizes.
	h := httpx.PageCache(cfg.PageCache)(router)
	if cfg.HTTP.CompressionEnabled {
		cfg.Logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{Level: cfg.HTTP.CompressionLevel, Logger: cfg.Logger})(h)
	}
	h = httpx.Logging(cfg.Logger)(h)
	h = httpx.Recover(cfg.Logger)(h)

	return h, nil
}

func startServer(logger *slog.Logger, handler http.Handler, addr string, errCh chan<- error) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			if errCh != nil {
				select {
				case errCh <- fmt.Errorf("http server: %w", err):
				default:
				}
			}
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}
	return nil
}
