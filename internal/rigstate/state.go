// Package rigstate classifies a drilling parameter snapshot into the rig's
// current activity.
package rigstate

import (
	"math"

	"drilling-engine/internal/calcerr"
)

// State is a rig activity.
type State string

const (
	DrillingRotating State = "DRILLING_ROTATING"
	DrillingSliding  State = "DRILLING_SLIDING"
	Circulating      State = "CIRCULATING"
	Reaming          State = "REAMING"
	BackReaming      State = "BACK_REAMING"
	TrippingIn       State = "TRIPPING_IN"
	TrippingOut      State = "TRIPPING_OUT"
	Connection       State = "CONNECTION"
	InSlips          State = "IN_SLIPS"
	Static           State = "STATIC"
)

// States lists every state the classifier can return.
func States() []State {
	return []State{
		DrillingRotating, DrillingSliding, Circulating, Reaming, BackReaming,
		TrippingIn, TrippingOut, Connection, InSlips, Static,
	}
}

// Thresholds configures the derived conditions. Each is independent.
type Thresholds struct {
	// OnBottomFt is the largest hole-minus-bit depth still treated as on bottom.
	OnBottomFt float64 `yaml:"on_bottom_ft" json:"on_bottom_ft"`
	// RotatingRPM is the minimum rotary speed for rotating.
	RotatingRPM float64 `yaml:"rotating_rpm" json:"rotating_rpm"`
	// CirculatingGPM is the minimum flow in for circulating.
	CirculatingGPM float64 `yaml:"circulating_gpm" json:"circulating_gpm"`
	// CirculatingFallbackPsi is the standpipe pressure that must be exceeded
	// for circulating when flow in is unavailable.
	CirculatingFallbackPsi float64 `yaml:"circulating_fallback_psi" json:"circulating_fallback_psi"`
	// WOBKlb is the minimum weight on bit.
	WOBKlb float64 `yaml:"wob_klb" json:"wob_klb"`
	// MovingFtHr is the pipe speed above which the string is moving.
	MovingFtHr float64 `yaml:"moving_ft_hr" json:"moving_ft_hr"`
	// InSlipsBlockFt is the block height at or below which the pipe is in slips.
	InSlipsBlockFt float64 `yaml:"in_slips_block_ft" json:"in_slips_block_ft"`
}

// DefaultThresholds returns a fresh set of typical land-rig thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OnBottomFt:             5,
		RotatingRPM:            5,
		CirculatingGPM:         50,
		CirculatingFallbackPsi: 100,
		WOBKlb:                 1,
		MovingFtHr:             1,
		InSlipsBlockFt:         5,
	}
}

// Validate rejects negative or non-finite thresholds.
func (t Thresholds) Validate() error {
	for name, v := range map[string]float64{
		"on_bottom_ft":             t.OnBottomFt,
		"rotating_rpm":             t.RotatingRPM,
		"circulating_gpm":          t.CirculatingGPM,
		"circulating_fallback_psi": t.CirculatingFallbackPsi,
		"wob_klb":                  t.WOBKlb,
		"moving_ft_hr":             t.MovingFtHr,
		"in_slips_block_ft":        t.InSlipsBlockFt,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return calcerr.InvalidInputf(name, "must be a finite value >= 0, got %g", v)
		}
	}
	return nil
}
