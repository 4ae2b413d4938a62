package monitor

import (
	"drilling-engine/internal/kick"
	"drilling-engine/internal/rigstate"
)

// ClassifyResponse is the JSON response for POST /rigstate/classify.
type ClassifyResponse struct {
	rigstate.Result
	Readings map[string]float64 `json:"readings"`
}

// ScoreResponse is the JSON response for POST /kick/{wellID}/score. Baseline
// is the window the snapshot was scored against, before the snapshot was
// added to it.
type ScoreResponse struct {
	WellID     string          `json:"well_id"`
	Assessment kick.Assessment `json:"assessment"`
	Baseline   kick.Baseline   `json:"baseline"`
}

// BaselineResponse is the JSON response for GET /kick/{wellID}/baseline.
type BaselineResponse struct {
	WellID   string        `json:"well_id"`
	Baseline kick.Baseline `json:"baseline"`
}
