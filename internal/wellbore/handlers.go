// Package wellbore serves the trajectory calculator over HTTP. Each well id
// owns one station chain in a trajectory.Registry.
package wellbore

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"drilling-engine/internal/calcerr"
	"drilling-engine/internal/handlers"
	"drilling-engine/internal/observability"
	"drilling-engine/internal/trajectory"
)

var tracer = otel.Tracer("wellbore")

// Handler serves the trajectory endpoints.
type Handler struct {
	registry *trajectory.Registry
}

// NewHandler returns a Handler backed by registry.
func NewHandler(registry *trajectory.Registry) *Handler {
	return &Handler{registry: registry}
}

// chainOp does the work of one endpoint for wellID. It returns the response
// body and the stations it rewrote, if any.
type chainOp func(ctx context.Context, wellID string) (body any, rewritten []trajectory.Station, err error)

// handleChainOp wraps a chainOp with the span, metrics, logging and response
// handling shared by every trajectory endpoint. Each rewritten station gets
// its own child span.
func (h *Handler) handleChainOp(w http.ResponseWriter, r *http.Request, opName string, status int, op chainOp) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	wellID := chi.URLParam(r, "wellID")
	ctx = observability.ContextWithWellID(ctx, wellID)

	ctx, span := tracer.Start(ctx, fmt.Sprintf("trajectory.%s", opName),
		trace.WithAttributes(
			attribute.String("trajectory.operation", opName),
			attribute.String("well.id", wellID),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	start := time.Now()
	body, rewritten, err := op(ctx, wellID)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, fmt.Sprintf("trajectory %s failed", opName), err, w)
		return
	}

	for i, st := range rewritten {
		_, stationSpan := tracer.Start(ctx, fmt.Sprintf("trajectory.%s.station.%d", opName, i),
			trace.WithAttributes(
				attribute.String("station.id", st.ID.String()),
				attribute.Float64("station.md", st.MeasuredDepth),
				attribute.Float64("station.tvd", st.TVD),
				attribute.Float64("station.dls", st.DLSDegPer100ft),
			),
		)
		stationSpan.SetStatus(codes.Ok, "")
		stationSpan.End()
	}

	attrs := metric.WithAttributes(attribute.String("calculation", "trajectory."+opName))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	if len(rewritten) > 0 {
		stationsRecomputed.Add(ctx, int64(len(rewritten)), metric.WithAttributes(attribute.String("operation", opName)))
	}

	span.AddEvent("trajectory.complete", trace.WithAttributes(
		attribute.Int("stations_rewritten", len(rewritten)),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("trajectory operation completed",
		zap.String("operation", opName),
		zap.String("well_id", wellID),
		zap.Int("stations_rewritten", len(rewritten)),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, status, body)
}

// ListWells handles GET /trajectory
func (h *Handler) ListWells(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, WellsResponse{Wells: h.registry.IDs()})
}

// DeleteWell handles DELETE /trajectory/{wellID}
func (h *Handler) DeleteWell(w http.ResponseWriter, r *http.Request) {
	h.handleChainOp(w, r, "delete", http.StatusOK, func(_ context.Context, wellID string) (any, []trajectory.Station, error) {
		if err := h.registry.View(wellID, func(*trajectory.Chain) error { return nil }); err != nil {
			return nil, nil, err
		}
		h.registry.Delete(wellID)
		return WellsResponse{Wells: h.registry.IDs()}, nil, nil
	})
}

// ListStations handles GET /trajectory/{wellID}/stations
func (h *Handler) ListStations(w http.ResponseWriter, r *http.Request) {
	h.handleChainOp(w, r, "list", http.StatusOK, func(_ context.Context, wellID string) (any, []trajectory.Station, error) {
		var resp StationsResponse
		err := h.registry.View(wellID, func(c *trajectory.Chain) error {
			resp = newStationsResponse(wellID, c.Stations(), c.Len())
			return nil
		})
		return resp, nil, err
	})
}

// AddStations handles POST /trajectory/{wellID}/stations. A rejected request
// leaves the chain unchanged.
func (h *Handler) AddStations(w http.ResponseWriter, r *http.Request) {
	h.handleChainOp(w, r, "add", http.StatusCreated, func(_ context.Context, wellID string) (any, []trajectory.Station, error) {
		var req AddStationsRequest
		if err := handlers.DecodeJSON(r, &req); err != nil {
			return nil, nil, err
		}
		if len(req.Surveys) == 0 {
			return nil, nil, calcerr.InvalidInput("surveys", "must not be empty")
		}

		var (
			out   []trajectory.Station
			total int
		)
		err := h.registry.Do(wellID, func(c *trajectory.Chain) error {
			added, err := c.AddAll(req.Surveys)
			if err != nil {
				return err
			}
			out = added
			total = c.Len()
			return nil
		})
		if err != nil {
			return nil, nil, err
		}
		return newStationsResponse(wellID, out, total), out, nil
	})
}

// UpdateStation handles PUT /trajectory/{wellID}/stations: it corrects the
// raw survey at an existing measured depth and recomputes from there.
func (h *Handler) UpdateStation(w http.ResponseWriter, r *http.Request) {
	h.handleChainOp(w, r, "update", http.StatusOK, func(_ context.Context, wellID string) (any, []trajectory.Station, error) {
		var req trajectory.Survey
		if err := handlers.DecodeJSON(r, &req); err != nil {
			return nil, nil, err
		}

		var (
			out   []trajectory.Station
			total int
		)
		err := h.registry.View(wellID, func(c *trajectory.Chain) error {
			var err error
			out, err = c.UpdateSurvey(req)
			total = c.Len()
			return err
		})
		if err != nil {
			return nil, nil, err
		}
		return newStationsResponse(wellID, out, total), out, nil
	})
}

// Recalculate handles POST /trajectory/{wellID}/recalculate. With a
// fromDepth query parameter only stations deeper than that depth are
// recomputed; without it the whole chain is.
func (h *Handler) Recalculate(w http.ResponseWriter, r *http.Request) {
	h.handleChainOp(w, r, "recalculate", http.StatusOK, func(_ context.Context, wellID string) (any, []trajectory.Station, error) {
		raw := r.URL.Query().Get("fromDepth")
		var (
			fromDepth float64
			partial   = raw != ""
		)
		if partial {
			d, err := queryFloat("fromDepth", raw)
			if err != nil {
				return nil, nil, err
			}
			fromDepth = d
		}

		var (
			out   []trajectory.Station
			total int
		)
		err := h.registry.View(wellID, func(c *trajectory.Chain) error {
			var err error
			if partial {
				out, err = c.RecalculateFrom(fromDepth)
			} else {
				out, err = c.RecalculateAll()
			}
			total = c.Len()
			return err
		})
		if err != nil {
			return nil, nil, err
		}
		return newStationsResponse(wellID, out, total), out, nil
	})
}

// SetVerticalSection handles PUT /trajectory/{wellID}/vertical-section.
func (h *Handler) SetVerticalSection(w http.ResponseWriter, r *http.Request) {
	h.handleChainOp(w, r, "vertical_section", http.StatusOK, func(_ context.Context, wellID string) (any, []trajectory.Station, error) {
		var req VerticalSectionRequest
		if err := handlers.DecodeJSON(r, &req); err != nil {
			return nil, nil, err
		}

		var (
			out   []trajectory.Station
			total int
		)
		err := h.registry.View(wellID, func(c *trajectory.Chain) error {
			var err error
			out, err = c.SetVerticalSectionAzimuth(req.AzimuthDeg)
			total = c.Len()
			return err
		})
		if err != nil {
			return nil, nil, err
		}
		return newStationsResponse(wellID, out, total), out, nil
	})
}

// Interpolate handles GET /trajectory/{wellID}/interpolate?md=
func (h *Handler) Interpolate(w http.ResponseWriter, r *http.Request) {
	h.handleChainOp(w, r, "interpolate", http.StatusOK, func(_ context.Context, wellID string) (any, []trajectory.Station, error) {
		md, err := queryFloat("md", r.URL.Query().Get("md"))
		if err != nil {
			return nil, nil, err
		}

		var resp InterpolateResponse
		err = h.registry.View(wellID, func(c *trajectory.Chain) error {
			st, err := c.Interpolate(md)
			if err != nil {
				return err
			}
			resp = InterpolateResponse{WellID: wellID, Station: NewStationView(st)}
			return nil
		})
		return resp, nil, err
	})
}

func queryFloat(name, raw string) (float64, error) {
	if raw == "" {
		return 0, calcerr.InvalidInput(name, "query parameter is required")
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, calcerr.InvalidInputf(name, "must be a finite number, got %q", raw)
	}
	return v, nil
}
