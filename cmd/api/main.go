package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"drilling-engine/internal/config"
	"drilling-engine/internal/observability"
	"drilling-engine/internal/server"
)

func main() {

	ctx := context.Background()

	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	opts, err := parseFlags(os.Args[1:], os.Getenv)
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	// Config
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		panic(err)
	}
	opts.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	// Logger
	if err := observability.InitLogger(cfg.Log.Level); err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Log export
	logShutdown, err := observability.InitLogging(ctx, cfg.Log.ExportLevel)
	if err != nil {
		panic(err)
	}
	defer logShutdown(ctx)

	// Tracing
	traceShutdown, err := observability.InitTracing(ctx, cfg.Tracing.SampleRatio)
	if err != nil {
		panic(err)
	}
	defer traceShutdown(ctx)

	// Metrics
	metricShutdown, err := initMetrics(ctx)
	if err != nil {
		panic(err)
	}
	defer metricShutdown(ctx)

	// Router
	router, err := server.NewRouter(cfg)
	if err != nil {
		panic(err)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.Server.Addr),
			zap.Int("precision", cfg.Formula.Precision),
			zap.Float64("vs_azimuth_deg", cfg.Trajectory.VerticalSectionAzimuthDeg),
			zap.Int("kick_window", cfg.Kick.WindowSize),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	waitForShutdown(srv, cfg.Server.ShutdownTimeout)
}

func waitForShutdown(srv *http.Server, timeout time.Duration) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Error("shutdown failed", zap.Error(err))
	}
}
