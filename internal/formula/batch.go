package formula

import (
	"fmt"

	"drilling-engine/internal/calcerr"
)

// Kind names a calculation in a batch.
type Kind string

const (
	KindMSE           Kind = "mse"
	KindECD           Kind = "ecd"
	KindDLS           Kind = "dls"
	KindSwabSurge     Kind = "swab_surge"
	KindKickTolerance Kind = "kick_tolerance"
	KindTorqueDrag    Kind = "torque_drag"
	KindBitHydraulics Kind = "bit_hydraulics"
)

// Kinds lists every calculation a batch accepts.
func Kinds() []Kind {
	return []Kind{KindMSE, KindECD, KindDLS, KindSwabSurge, KindKickTolerance, KindTorqueDrag, KindBitHydraulics}
}

// KindOf reports the Kind of a typed request value.
func KindOf(req any) (Kind, bool) {
	switch req.(type) {
	case MSERequest:
		return KindMSE, true
	case ECDRequest:
		return KindECD, true
	case DLSRequest:
		return KindDLS, true
	case SwabSurgeRequest:
		return KindSwabSurge, true
	case KickToleranceRequest:
		return KindKickTolerance, true
	case TorqueDragRequest:
		return KindTorqueDrag, true
	case BitHydraulicsRequest:
		return KindBitHydraulics, true
	default:
		return "", false
	}
}

// ClassificationOf returns the Classification carried by a result value.
func ClassificationOf(res any) (Classification, bool) {
	switch r := res.(type) {
	case MSEResult:
		return r.Classification, true
	case ECDResult:
		return r.Classification, true
	case DLSResult:
		return r.Classification, true
	case SwabSurgeResult:
		return r.Classification, true
	case KickToleranceResult:
		return r.Classification, true
	case TorqueDragResult:
		return r.Classification, true
	case BitHydraulicsResult:
		return r.Classification, true
	default:
		return "", false
	}
}

// Outcome is the result of one batch item. Exactly one of Result and Err is
// set.
type Outcome struct {
	Index  int
	Kind   Kind
	Result any
	Err    error
}

// Evaluate dispatches a single typed request.
func (c Calculator) Evaluate(req any) (any, error) {
	switch r := req.(type) {
	case MSERequest:
		return c.MSE(r)
	case ECDRequest:
		return c.ECD(r)
	case DLSRequest:
		return c.DLS(r)
	case SwabSurgeRequest:
		return c.SwabSurge(r)
	case KickToleranceRequest:
		return c.KickTolerance(r)
	case TorqueDragRequest:
		return c.TorqueDrag(r)
	case BitHydraulicsRequest:
		return c.BitHydraulics(r)
	default:
		return nil, calcerr.InvalidInput("request", fmt.Sprintf("unsupported request type %T", req))
	}
}

// Batch evaluates every request independently and returns one Outcome per
// request in input order. A failing item never stops the rest.
func (c Calculator) Batch(reqs []any) []Outcome {
	out := make([]Outcome, len(reqs))
	for i, req := range reqs {
		kind, _ := KindOf(req)
		res, err := c.Evaluate(req)
		out[i] = Outcome{Index: i, Kind: kind}
		if err != nil {
			out[i].Err = err
			continue
		}
		out[i].Result = res
	}
	return out
}
