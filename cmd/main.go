package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/okian/footstats/internal/adapters/footballdata"
	"github.com/okian/footstats/internal/adapters/http/api"
	"github.com/okian/footstats/internal/adapters/http/swagger"
	"github.com/okian/footstats/internal/adapters/repository"
	service "github.com/okian/footstats/internal/app"
	"github.com/okian/footstats/internal/config"
	"github.com/okian/footstats/internal/gateway"
	"github.com/okian/footstats/pkg/logger"
	"github.com/okian/footstats/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 60 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (.env -> defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWithOptions(logger.Options{Format: cfg.LogFormat, Source: true}); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "footstats exited", logger.Error(err))
		os.Exit(1)
	}
}

// run serves the API until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}

// application is the wired process: the started service and the HTTP
// handler that serves it.
type application struct {
	svc     *service.Service
	handler http.Handler
}

func newApplication(ctx context.Context, cfg *config.Config, log logger.Logger) (*application, error) {
	cache, err := repository.NewFileCache(cfg.CacheDir,
		repository.WithLogger(log.Named("cache")))
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	favorites, err := repository.NewFavoritesFile(cfg.FavoritesFile,
		repository.WithLogger(log.Named("favorites")))
	if err != nil {
		return nil, fmt.Errorf("open favorites: %w", err)
	}

	client := footballdata.NewClient(
		footballdata.WithBaseURL(cfg.APIBaseURL),
		footballdata.WithToken(cfg.APIToken),
		footballdata.WithTimeout(cfg.APITimeout),
		footballdata.WithRateLimit(cfg.RateLimitPerMinute),
		footballdata.WithLogger(log.Named("upstream")),
	)
	if !client.HasToken() {
		log.Warn(ctx, "no API token configured; data pages will answer 503 until one is set")
	}

	gw := gateway.New(client, cache,
		gateway.WithTTLPolicy(gateway.TTLPolicy{
			Standings:  cfg.TTLStandings,
			Teams:      cfg.TTLTeams,
			TeamDetail: cfg.TTLTeamDetail,
			Matches:    cfg.TTLMatches,
			Scorers:    cfg.TTLScorers,
		}),
		gateway.WithLogger(log.Named("gateway")),
	)

	svc := service.New(
		service.WithGateway(gw),
		service.WithFavoritesStore(favorites),
		service.WithLogger(log),
		service.WithMatchWindow(cfg.MatchWindowDays, cfg.MatchWindowSize),
		service.WithScorerLimit(cfg.ScorerLimit),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("start service: %w", err)
	}

	router := mux.NewRouter()
	swagger.Register(ctx, router)
	apiServer := api.NewServer(svc, svc,
		api.WithAllowedOrigins(cfg.Origins()...),
		api.WithLogger(log.Named("http")),
	)
	apiServer.Register(ctx, router)

	return &application{svc: svc, handler: apiServer.Handler(router)}, nil
}

// startSystemMetricsUpdater refreshes the runtime gauges until ctx ends.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
