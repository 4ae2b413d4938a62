package calculator

import (
	"encoding/json"

	"drilling-engine/internal/formula"
)

// CalcResponse is the JSON response for the single-formula endpoints.
type CalcResponse[Req, Res any] struct {
	Calculation formula.Kind `json:"calculation"`
	Input       Req          `json:"input"`
	Result      Res          `json:"result"`
}

// BatchItem is one calculation in a batch body. Input is decoded according
// to Type.
type BatchItem struct {
	Type  formula.Kind    `json:"type"`
	Input json.RawMessage `json:"input"`
}

// BatchRequest is the JSON body for POST /calculator/batch.
type BatchRequest struct {
	Items []BatchItem `json:"items"`
}

// BatchResult records one evaluated item. Exactly one of Result and Error is
// set.
type BatchResult struct {
	Index          int                    `json:"index"`
	Type           formula.Kind           `json:"type"`
	Classification formula.Classification `json:"classification,omitempty"`
	Result         any                    `json:"result,omitempty"`
	Error          string                 `json:"error,omitempty"`
	Field          string                 `json:"field,omitempty"`
}

// BatchResponse is the JSON response for POST /calculator/batch.
type BatchResponse struct {
	Results   []BatchResult `json:"results"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}
