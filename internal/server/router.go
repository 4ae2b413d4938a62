package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"drilling-engine/internal/calculator"
	"drilling-engine/internal/config"
	"drilling-engine/internal/formula"
	"drilling-engine/internal/handlers"
	"drilling-engine/internal/monitor"
	"drilling-engine/internal/observability"
	"drilling-engine/internal/trajectory"
	"drilling-engine/internal/wellbore"
)

// NewRouter builds the HTTP handler for cfg with every domain mounted.
func NewRouter(cfg config.Config) (http.Handler, error) {

	monitorHandler, err := monitor.NewHandler(monitor.Config{
		RigState:   cfg.RigState,
		Kick:       cfg.Kick.Thresholds,
		WindowSize: cfg.Kick.WindowSize,
		Fields:     cfg.Fields,
	})
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	calculator.RegisterRoutes(r, calculator.NewHandler(formula.New(cfg.Formula)))
	wellbore.RegisterRoutes(r, wellbore.NewHandler(trajectory.NewRegistry(cfg.Trajectory)))
	monitor.RegisterRoutes(r, monitorHandler)

	return r, nil
}
