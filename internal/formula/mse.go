package formula

import (
	"math"

	"github.com/shopspring/decimal"

	"drilling-engine/internal/strictjson"
)

// MSERequest holds the inputs to Teale's mechanical specific energy equation.
type MSERequest struct {
	TorqueFtLb    float64 `json:"torque_ft_lb"`
	RPM           float64 `json:"rpm"`
	BitDiameterIn float64 `json:"bit_diameter_in"`
	ROPFtHr       float64 `json:"rop_ft_hr"`
	WOBLb         float64 `json:"wob_lb"`

	// RockStrengthPsi is the optional unconfined compressive strength used
	// to report drilling efficiency.
	RockStrengthPsi *float64 `json:"rock_strength_psi,omitempty"`
}

// UnmarshalJSON rejects bodies that omit a required field.
func (r *MSERequest) UnmarshalJSON(data []byte) error {
	type plain MSERequest
	return strictjson.Unmarshal(data, (*plain)(r))
}

// Validate checks every input is strictly positive.
func (r MSERequest) Validate() error {
	err := firstError(
		requirePositive("torque_ft_lb", r.TorqueFtLb),
		requirePositive("rpm", r.RPM),
		requirePositive("bit_diameter_in", r.BitDiameterIn),
		requirePositive("rop_ft_hr", r.ROPFtHr),
		requirePositive("wob_lb", r.WOBLb),
	)
	if err != nil {
		return err
	}
	if r.RockStrengthPsi != nil {
		return requirePositive("rock_strength_psi", *r.RockStrengthPsi)
	}
	return nil
}

// MSEResult is the mechanical specific energy split into its rotary and
// thrust terms.
type MSEResult struct {
	MSEPsi         decimal.Decimal  `json:"mse_psi"`
	RotaryTermPsi  decimal.Decimal  `json:"rotary_term_psi"`
	ThrustTermPsi  decimal.Decimal  `json:"thrust_term_psi"`
	EfficiencyPct  *decimal.Decimal `json:"efficiency_pct,omitempty"`
	Classification Classification   `json:"classification"`
}

// mseTerms returns the rotary (480·T·N/(D²·ROP)) and thrust (4·WOB/(π·D²))
// terms of Teale's equation.
func mseTerms(torque, rpm, diameter, rop, wob float64) (rotary, thrust float64) {
	d2 := diameter * diameter
	rotary = 480 * torque * rpm / (d2 * rop)
	thrust = 4 * wob / (math.Pi * d2)
	return rotary, thrust
}

// MSE computes mechanical specific energy in psi.
func (c Calculator) MSE(req MSERequest) (MSEResult, error) {
	if err := req.Validate(); err != nil {
		return MSEResult{}, err
	}

	rotary, thrust := mseTerms(req.TorqueFtLb, req.RPM, req.BitDiameterIn, req.ROPFtHr, req.WOBLb)
	mse := rotary + thrust

	res := MSEResult{
		MSEPsi:         c.round(mse),
		RotaryTermPsi:  c.round(rotary),
		ThrustTermPsi:  c.round(thrust),
		Classification: Success,
	}
	if req.RockStrengthPsi != nil {
		res.EfficiencyPct = c.roundPtr(*req.RockStrengthPsi / mse * 100)
	}
	if c.cfg.MSEHighPsi > 0 && mse > c.cfg.MSEHighPsi {
		res.Classification = HighMSE
	}
	return res, nil
}
