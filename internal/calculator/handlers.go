package calculator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"drilling-engine/internal/calcerr"
	"drilling-engine/internal/formula"
	"drilling-engine/internal/handlers"
	"drilling-engine/internal/observability"
	"drilling-engine/internal/strictjson"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// MaxBatchItems caps the number of calculations in one batch request.
const MaxBatchItems = 500

// Handler serves the formula library over HTTP.
type Handler struct {
	calc formula.Calculator
}

// NewHandler returns a Handler evaluating with calc.
func NewHandler(calc formula.Calculator) *Handler {
	return &Handler{calc: calc}
}

// ---------------------------------------------------------------------------
// Single formulas
// ---------------------------------------------------------------------------

// MSE handles POST /calculator/mse
func (h *Handler) MSE(w http.ResponseWriter, r *http.Request) {
	handleCalculation(w, r, formula.KindMSE, h.calc.MSE)
}

// ECD handles POST /calculator/ecd
func (h *Handler) ECD(w http.ResponseWriter, r *http.Request) {
	handleCalculation(w, r, formula.KindECD, h.calc.ECD)
}

// DLS handles POST /calculator/dls
func (h *Handler) DLS(w http.ResponseWriter, r *http.Request) {
	handleCalculation(w, r, formula.KindDLS, h.calc.DLS)
}

// SwabSurge handles POST /calculator/swab-surge
func (h *Handler) SwabSurge(w http.ResponseWriter, r *http.Request) {
	handleCalculation(w, r, formula.KindSwabSurge, h.calc.SwabSurge)
}

// KickTolerance handles POST /calculator/kick-tolerance
func (h *Handler) KickTolerance(w http.ResponseWriter, r *http.Request) {
	handleCalculation(w, r, formula.KindKickTolerance, h.calc.KickTolerance)
}

// TorqueDrag handles POST /calculator/torque-drag
func (h *Handler) TorqueDrag(w http.ResponseWriter, r *http.Request) {
	handleCalculation(w, r, formula.KindTorqueDrag, h.calc.TorqueDrag)
}

// BitHydraulics handles POST /calculator/bit-hydraulics
func (h *Handler) BitHydraulics(w http.ResponseWriter, r *http.Request) {
	handleCalculation(w, r, formula.KindBitHydraulics, h.calc.BitHydraulics)
}

// handleCalculation is the shared implementation for every single-formula
// endpoint: child span, decode, compute, metrics, trace-correlated log and
// the JSON response.
func handleCalculation[Req, Res any](w http.ResponseWriter, r *http.Request, kind formula.Kind, compute func(Req) (Res, error)) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	opName := string(kind)

	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.calculation", opName),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req Req
	if err := handlers.DecodeJSON(r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, w)
		return
	}

	start := time.Now()
	res, err := compute(req)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, fmt.Sprintf("%s calculation rejected", opName), err, w)
		return
	}

	class, _ := formula.ClassificationOf(res)

	attrs := metric.WithAttributes(
		attribute.String("calculation", opName),
		attribute.String("classification", string(class)),
	)
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)

	span.AddEvent("calculation.complete", trace.WithAttributes(
		attribute.String("classification", string(class)),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.String("calculator.classification", string(class)))
	span.SetStatus(codes.Ok, "")

	logger.Info("drilling calculation completed",
		zap.String("calculation", opName),
		zap.String("classification", string(class)),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, CalcResponse[Req, Res]{
		Calculation: kind,
		Input:       req,
		Result:      res,
	})
}

// ---------------------------------------------------------------------------
// Batch
// ---------------------------------------------------------------------------

type decodeFunc func(json.RawMessage) (any, error)

var decoders = map[formula.Kind]decodeFunc{
	formula.KindMSE:           decodeAs[formula.MSERequest],
	formula.KindECD:           decodeAs[formula.ECDRequest],
	formula.KindDLS:           decodeAs[formula.DLSRequest],
	formula.KindSwabSurge:     decodeAs[formula.SwabSurgeRequest],
	formula.KindKickTolerance: decodeAs[formula.KickToleranceRequest],
	formula.KindTorqueDrag:    decodeAs[formula.TorqueDragRequest],
	formula.KindBitHydraulics: decodeAs[formula.BitHydraulicsRequest],
}

func decodeAs[T any](raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, calcerr.InvalidInput("input", "missing")
	}
	var v T
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return nil, strictjson.FieldError(err, "input")
	}
	return v, nil
}

func decodeItem(item BatchItem) (any, error) {
	decode, ok := decoders[item.Type]
	if !ok {
		return nil, calcerr.InvalidInputf("type", "unsupported calculation %q", item.Type)
	}
	return decode(item.Input)
}

// Batch handles POST /calculator/batch. Items are evaluated independently: a
// bad item carries its own error and never fails the request.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.batch",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req BatchRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "batch", "invalid request body", err, w)
		return
	}

	switch {
	case len(req.Items) == 0:
		observability.RecordError(ctx, span, logger, errorCounter, "batch", "no items provided", calcerr.InvalidInput("items", "must not be empty"), w)
		return
	case len(req.Items) > MaxBatchItems:
		observability.RecordError(ctx, span, logger, errorCounter, "batch", "too many items",
			calcerr.InvalidInputf("items", "at most %d items per batch, got %d", MaxBatchItems, len(req.Items)), w)
		return
	}

	span.SetAttributes(attribute.Int("batch.items_count", len(req.Items)))
	batchHistogram.Record(ctx, int64(len(req.Items)))

	// Decode first; only well-formed items reach the calculator.
	results := make([]BatchResult, len(req.Items))
	decoded := make([]any, 0, len(req.Items))
	positions := make([]int, 0, len(req.Items))
	for i, item := range req.Items {
		results[i] = BatchResult{Index: i, Type: item.Type}
		v, err := decodeItem(item)
		if err != nil {
			setItemError(&results[i], err)
			continue
		}
		decoded = append(decoded, v)
		positions = append(positions, i)
	}

	start := time.Now()
	outcomes := h.calc.Batch(decoded)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	for j, out := range outcomes {
		i := positions[j]
		if out.Err != nil {
			setItemError(&results[i], out.Err)
			continue
		}
		results[i].Result = out.Result
		results[i].Classification, _ = formula.ClassificationOf(out.Result)
	}

	resp := BatchResponse{Results: results}
	for i, res := range results {
		_, itemSpan := tracer.Start(ctx, fmt.Sprintf("calculator.batch.item.%d.%s", i, res.Type),
			trace.WithAttributes(
				attribute.Int("batch.item.index", i),
				attribute.String("batch.item.type", string(res.Type)),
			),
		)

		if res.Error != "" {
			resp.Failed++
			itemSpan.RecordError(errors.New(res.Error))
			itemSpan.SetStatus(codes.Error, res.Error)
			itemSpan.End()

			errorCounter.Add(ctx, 1, metric.WithAttributes(
				attribute.String("operation", string(res.Type)),
				attribute.String("error.kind", "batch_item"),
			))
			logger.Warn("batch item rejected",
				zap.Int("item", i),
				zap.String("calculation", string(res.Type)),
				zap.String("error", res.Error),
				zap.String("request_id", requestID),
			)
			continue
		}

		resp.Succeeded++
		opsCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("calculation", string(res.Type)),
			attribute.String("classification", string(res.Classification)),
		))
		itemSpan.SetAttributes(attribute.String("batch.item.classification", string(res.Classification)))
		itemSpan.SetStatus(codes.Ok, "")
		itemSpan.End()
	}

	opsHistogram.Record(ctx, elapsed, metric.WithAttributes(attribute.String("calculation", "batch")))

	span.AddEvent("batch.complete", trace.WithAttributes(
		attribute.Int("succeeded", resp.Succeeded),
		attribute.Int("failed", resp.Failed),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("batch calculation completed",
		zap.Int("items", len(req.Items)),
		zap.Int("succeeded", resp.Succeeded),
		zap.Int("failed", resp.Failed),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, resp)
}

func setItemError(res *BatchResult, err error) {
	res.Error = err.Error()
	var invalid *calcerr.InvalidInputError
	if errors.As(err, &invalid) {
		res.Field = invalid.Field
	}
}
