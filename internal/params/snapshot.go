// Package params models the drilling parameter snapshot consumed by the
// rig state classifier and the kick scorer.
package params

import (
	"fmt"
	"math"

	"github.com/spf13/cast"

	"drilling-engine/internal/calcerr"
)

// Field is the logical name of a drilling reading.
type Field string

const (
	BitDepth          Field = "bit_depth"
	HoleDepth         Field = "hole_depth"
	BlockPosition     Field = "block_position"
	HookLoad          Field = "hook_load"
	WOB               Field = "wob"
	RPM               Field = "rpm"
	StandpipePressure Field = "standpipe_pressure"
	FlowIn            Field = "flow_in"
	FlowOut           Field = "flow_out"
	Torque            Field = "torque"
	ROP               Field = "rop"
	PitVolume         Field = "pit_volume"
	PitGain           Field = "pit_gain"
	MudWeightIn       Field = "mud_weight_in"
	MudWeightOut      Field = "mud_weight_out"
	GasUnits          Field = "gas_units"
)

// Snapshot is a point-in-time set of readings. A nil field means the reading
// was not available.
type Snapshot struct {
	BitDepthFt           *float64 `json:"bit_depth_ft,omitempty"`
	HoleDepthFt          *float64 `json:"hole_depth_ft,omitempty"`
	BlockPositionFt      *float64 `json:"block_position_ft,omitempty"`
	HookLoadKlb          *float64 `json:"hook_load_klb,omitempty"`
	WOBKlb               *float64 `json:"wob_klb,omitempty"`
	RPM                  *float64 `json:"rpm,omitempty"`
	StandpipePressurePsi *float64 `json:"standpipe_pressure_psi,omitempty"`
	FlowInGPM            *float64 `json:"flow_in_gpm,omitempty"`
	FlowOutGPM           *float64 `json:"flow_out_gpm,omitempty"`
	TorqueKftLb          *float64 `json:"torque_kft_lb,omitempty"`
	ROPFtHr              *float64 `json:"rop_ft_hr,omitempty"`
	PitVolumeBbl         *float64 `json:"pit_volume_bbl,omitempty"`
	PitGainBbl           *float64 `json:"pit_gain_bbl,omitempty"`
	MudWeightInPpg       *float64 `json:"mud_weight_in_ppg,omitempty"`
	MudWeightOutPpg      *float64 `json:"mud_weight_out_ppg,omitempty"`
	GasUnits             *float64 `json:"gas_units,omitempty"`
}

// Float returns a pointer to v, for building snapshots in code.
func Float(v float64) *float64 { return &v }

// slot returns the address of the snapshot field backing f.
func (s *Snapshot) slot(f Field) **float64 {
	switch f {
	case BitDepth:
		return &s.BitDepthFt
	case HoleDepth:
		return &s.HoleDepthFt
	case BlockPosition:
		return &s.BlockPositionFt
	case HookLoad:
		return &s.HookLoadKlb
	case WOB:
		return &s.WOBKlb
	case RPM:
		return &s.RPM
	case StandpipePressure:
		return &s.StandpipePressurePsi
	case FlowIn:
		return &s.FlowInGPM
	case FlowOut:
		return &s.FlowOutGPM
	case Torque:
		return &s.TorqueKftLb
	case ROP:
		return &s.ROPFtHr
	case PitVolume:
		return &s.PitVolumeBbl
	case PitGain:
		return &s.PitGainBbl
	case MudWeightIn:
		return &s.MudWeightInPpg
	case MudWeightOut:
		return &s.MudWeightOutPpg
	case GasUnits:
		return &s.GasUnits
	default:
		return nil
	}
}

// Fields lists every logical reading.
func Fields() []Field {
	return []Field{
		BitDepth, HoleDepth, BlockPosition, HookLoad, WOB, RPM, StandpipePressure, FlowIn,
		FlowOut, Torque, ROP, PitVolume, PitGain, MudWeightIn, MudWeightOut, GasUnits,
	}
}

// Get returns the reading for f and whether it is available.
func (s Snapshot) Get(f Field) (float64, bool) {
	p := s.slot(f)
	if p == nil || *p == nil {
		return 0, false
	}
	return **p, true
}

// Set stores v as the reading for f.
func (s *Snapshot) Set(f Field, v float64) error {
	p := s.slot(f)
	if p == nil {
		return calcerr.InvalidInputf(string(f), "unknown field")
	}
	*p = Float(v)
	return nil
}

// Both returns a and b when both readings are available.
func Both(a, b *float64) (float64, float64, bool) {
	if a == nil || b == nil {
		return 0, 0, false
	}
	return *a, *b, true
}

// FieldKeys maps logical readings to the telemetry keys a caller uses.
// Fields without an entry are looked up under their logical name.
type FieldKeys map[Field]string

// Key returns the telemetry key for f.
func (k FieldKeys) Key(f Field) string {
	if key, ok := k[f]; ok && key != "" {
		return key
	}
	return string(f)
}

// FromMap builds a Snapshot from a key/value telemetry map. Missing keys and
// nil values leave the reading unavailable; anything present must be numeric
// or a numeric string.
func FromMap(m map[string]any, keys FieldKeys) (Snapshot, error) {
	var s Snapshot
	for _, f := range Fields() {
		key := keys.Key(f)
		raw, ok := m[key]
		if !ok || raw == nil {
			continue
		}
		v, err := toFloat(raw)
		if err != nil {
			return Snapshot{}, calcerr.InvalidInputf(key, "%v", err)
		}
		*s.slot(f) = Float(v)
	}
	return s, nil
}

// ToMap flattens the available readings under the caller's keys.
func (s Snapshot) ToMap(keys FieldKeys) map[string]float64 {
	out := make(map[string]float64)
	for _, f := range Fields() {
		if v, ok := s.Get(f); ok {
			out[keys.Key(f)] = v
		}
	}
	return out
}

func toFloat(raw any) (float64, error) {
	if _, ok := raw.(bool); ok {
		return 0, fmt.Errorf("expected a number, got bool")
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, fmt.Errorf("not numeric: %v", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("must be finite, got %v", raw)
	}
	return v, nil
}
