package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/jumpboard/internal/adapters/backend"
	"github.com/okian/jumpboard/internal/adapters/http/api"
	"github.com/okian/jumpboard/internal/adapters/http/swagger"
	app "github.com/okian/jumpboard/internal/app"
	"github.com/okian/jumpboard/internal/config"
	"github.com/okian/jumpboard/internal/domain/comparison"
	"github.com/okian/jumpboard/pkg/logger"
	"github.com/okian/jumpboard/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	mux, err := newMux(ctx, cfg, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build HTTP routes", logger.Error(err))
		return
	}

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("backend", cfg.BackendURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newMux wires the backend client, the compare service and every route.
func newMux(ctx context.Context, cfg *config.Config, log logger.Logger) (*http.ServeMux, error) {
	tokens := backend.NewMemoryTokenStore(cfg.BackendToken)
	tokens.OnClear(func() {
		log.Warn(context.Background(), "backend token cleared; requests continue unauthenticated until a new token is configured")
	})

	client, err := backend.New(cfg.BackendURL,
		backend.WithTimeout(time.Duration(cfg.BackendTimeoutMS)*time.Millisecond),
		backend.WithTokenStore(tokens),
		backend.WithLogger(log.Named("backend")),
	)
	if err != nil {
		return nil, err
	}

	svc := app.New(client,
		app.WithLogger(log.Named("compare")),
		app.WithMaxAthletes(cfg.MaxAthletes),
		app.WithDefaultMetric(comparison.Metric(cfg.DefaultMetric)),
		app.WithDirectory(client),
		app.WithSelectorPageSize(cfg.SelectorPageSize),
		app.WithNotifier(app.NotifierFunc(func(ctx context.Context, n app.Notification) {
			log.Warn(ctx, "user notification",
				logger.String("level", n.Level),
				logger.String("message", n.Message),
				logger.String("request_id", api.RequestID(ctx)))
		})),
	)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc).Register(ctx, mux)
	return mux, nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
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

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
