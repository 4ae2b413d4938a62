// Package monitor serves the rig state classifier and the kick scorer over
// HTTP. Kick baselines are kept per well in memory.
package monitor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"drilling-engine/internal/calcerr"
	"drilling-engine/internal/handlers"
	"drilling-engine/internal/kick"
	"drilling-engine/internal/observability"
	"drilling-engine/internal/params"
	"drilling-engine/internal/rigstate"
)

var tracer = otel.Tracer("monitor")

// Config carries everything the monitor endpoints need from the service
// configuration.
type Config struct {
	RigState   rigstate.Thresholds
	Kick       kick.Thresholds
	WindowSize int
	Fields     params.FieldKeys
}

// Handler serves the monitoring endpoints.
type Handler struct {
	cfg Config

	mu      sync.Mutex
	windows map[string]*kick.Window
}

// NewHandler validates cfg and returns a Handler.
func NewHandler(cfg Config) (*Handler, error) {
	if err := cfg.RigState.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Kick.Validate(); err != nil {
		return nil, err
	}
	if cfg.WindowSize < 1 {
		return nil, calcerr.InvalidInputf("window_size", "must be >= 1, got %d", cfg.WindowSize)
	}
	if cfg.WindowSize < cfg.Kick.MinBaselineSamples {
		return nil, calcerr.InvalidInputf("window_size", "must be >= min_baseline_samples (%d), got %d", cfg.Kick.MinBaselineSamples, cfg.WindowSize)
	}
	return &Handler{cfg: cfg, windows: make(map[string]*kick.Window)}, nil
}

// window returns the baseline window for wellID, creating it on first use.
func (h *Handler) window(wellID string, create bool) (*kick.Window, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if w, ok := h.windows[wellID]; ok {
		return w, nil
	}
	if !create {
		return nil, fmt.Errorf("kick baseline for well %q %w", wellID, calcerr.ErrNotFound)
	}
	w, err := kick.NewWindow(h.cfg.WindowSize)
	if err != nil {
		return nil, err
	}
	h.windows[wellID] = w
	return w, nil
}

// decodeSnapshot reads a flat telemetry object and maps it onto a Snapshot
// with the configured field keys.
func (h *Handler) decodeSnapshot(r *http.Request) (params.Snapshot, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return params.Snapshot{}, calcerr.InvalidInput("body", err.Error())
	}
	return params.FromMap(raw, h.cfg.Fields)
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

// Classify handles POST /rigstate/classify
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "rigstate.classify",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	snapshot, err := h.decodeSnapshot(r)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "rig_state", "invalid telemetry", err, w)
		return
	}

	start := time.Now()
	res := rigstate.Classify(snapshot, h.cfg.RigState)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	attrs := metric.WithAttributes(attribute.String("calculation", "rig_state"))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	rigStateCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("state", string(res.State))))

	span.AddEvent("rigstate.resolved", trace.WithAttributes(
		attribute.String("rule", res.Rule),
		attribute.Bool("on_bottom", res.Conditions.OnBottom),
		attribute.Bool("rotating", res.Conditions.Rotating),
		attribute.Bool("circulating", res.Conditions.Circulating),
		attribute.Bool("in_slips", res.Conditions.InSlips),
	))
	span.SetAttributes(attribute.String("rigstate.state", string(res.State)))
	span.SetStatus(codes.Ok, "")

	logger.Info("rig state classified",
		zap.String("state", string(res.State)),
		zap.String("rule", res.Rule),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, ClassifyResponse{
		Result:   res,
		Readings: snapshot.ToMap(h.cfg.Fields),
	})
}

// Score handles POST /kick/{wellID}/score. The snapshot is scored against
// the well's current baseline and then added to it.
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	wellID := chi.URLParam(r, "wellID")
	ctx = observability.ContextWithWellID(ctx, wellID)

	ctx, span := tracer.Start(ctx, "kick.score",
		trace.WithAttributes(
			attribute.String("well.id", wellID),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	snapshot, err := h.decodeSnapshot(r)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "kick", "invalid telemetry", err, w)
		return
	}

	win, err := h.window(wellID, true)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "kick", "baseline unavailable", err, w)
		return
	}

	start := time.Now()
	baseline := win.Observe(snapshot)
	assessment := kick.Score(snapshot, &baseline, h.cfg.Kick)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	attrs := metric.WithAttributes(attribute.String("calculation", "kick"))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	severityCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("severity", string(assessment.Severity)),
		attribute.String("routing", string(assessment.Routing)),
	))
	kickScoreGauge.Record(ctx, int64(assessment.Score), metric.WithAttributes(attribute.String("well.id", wellID)))

	for _, sig := range assessment.Signals {
		span.AddEvent("kick.indicator", trace.WithAttributes(
			attribute.String("indicator", string(sig.Indicator)),
			attribute.Float64("magnitude", sig.Magnitude),
			attribute.Float64("threshold", sig.Threshold),
			attribute.Int("points", sig.Points),
		))
	}
	span.SetAttributes(
		attribute.Int("kick.score", assessment.Score),
		attribute.String("kick.severity", string(assessment.Severity)),
	)
	span.SetStatus(codes.Ok, "")

	fields := []zap.Field{
		zap.String("well_id", wellID),
		zap.Int("score", assessment.Score),
		zap.Int("indicator_count", assessment.IndicatorCount),
		zap.String("severity", string(assessment.Severity)),
		zap.String("routing", string(assessment.Routing)),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	}
	if assessment.Routing == kick.KickAlert {
		logger.Warn("kick alert", fields...)
	} else {
		logger.Info("kick assessment completed", fields...)
	}

	handlers.WriteJSON(w, http.StatusOK, ScoreResponse{
		WellID:     wellID,
		Assessment: assessment,
		Baseline:   baseline,
	})
}

// GetBaseline handles GET /kick/{wellID}/baseline
func (h *Handler) GetBaseline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	wellID := chi.URLParam(r, "wellID")
	span := trace.SpanFromContext(ctx)

	win, err := h.window(wellID, false)
	if err != nil {
		observability.RecordError(ctx, span, observability.LoggerWithTrace(ctx), errorCounter, "kick_baseline", "baseline unavailable", err, w)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, BaselineResponse{WellID: wellID, Baseline: win.Baseline()})
}

// ResetBaseline handles DELETE /kick/{wellID}/baseline
func (h *Handler) ResetBaseline(w http.ResponseWriter, r *http.Request) {
	wellID := chi.URLParam(r, "wellID")
	ctx := observability.ContextWithWellID(r.Context(), wellID)

	h.mu.Lock()
	delete(h.windows, wellID)
	h.mu.Unlock()

	observability.LoggerWithTrace(ctx).Info("kick baseline reset", observability.RequestFields(ctx)...)
	w.WriteHeader(http.StatusNoContent)
}
