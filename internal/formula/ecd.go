package formula

import (
	"github.com/shopspring/decimal"

	"drilling-engine/internal/strictjson"
)

// PressureGradientFactor converts ppg·ft to psi.
const PressureGradientFactor = 0.052

// ECDRequest holds the inputs to the equivalent circulating density formula.
type ECDRequest struct {
	MudWeightPpg           float64 `json:"mud_weight_ppg"`
	AnnularPressureLossPsi float64 `json:"annular_pressure_loss_psi"`
	TVDFt                  float64 `json:"tvd_ft"`
}

// UnmarshalJSON rejects bodies that omit a required field.
func (r *ECDRequest) UnmarshalJSON(data []byte) error {
	type plain ECDRequest
	return strictjson.Unmarshal(data, (*plain)(r))
}

// Validate requires a positive mud weight and TVD and a non-negative
// annular pressure loss.
func (r ECDRequest) Validate() error {
	return firstError(
		requirePositive("mud_weight_ppg", r.MudWeightPpg),
		requireNonNegative("annular_pressure_loss_psi", r.AnnularPressureLossPsi),
		requirePositive("tvd_ft", r.TVDFt),
	)
}

// ECDResult carries the ECD with the hydrostatic and bottomhole pressures it
// implies.
type ECDResult struct {
	ECDPpg                decimal.Decimal `json:"ecd_ppg"`
	HydrostaticPsi        decimal.Decimal `json:"hydrostatic_psi"`
	BottomholePressurePsi decimal.Decimal `json:"bottomhole_pressure_psi"`
	Classification        Classification  `json:"classification"`
}

func ecd(mw, apl, tvd float64) float64 {
	return mw + apl/(PressureGradientFactor*tvd)
}

// ECD computes equivalent circulating density in ppg and classifies it
// against the configured high and low bounds.
func (c Calculator) ECD(req ECDRequest) (ECDResult, error) {
	if err := req.Validate(); err != nil {
		return ECDResult{}, err
	}

	v := ecd(req.MudWeightPpg, req.AnnularPressureLossPsi, req.TVDFt)

	return ECDResult{
		ECDPpg:                c.round(v),
		HydrostaticPsi:        c.round(PressureGradientFactor * req.MudWeightPpg * req.TVDFt),
		BottomholePressurePsi: c.round(PressureGradientFactor * v * req.TVDFt),
		Classification:        c.classifyECD(v),
	}, nil
}

func (c Calculator) classifyECD(v float64) Classification {
	switch {
	case c.cfg.ECDHighPpg > 0 && v > c.cfg.ECDHighPpg:
		return HighECD
	case c.cfg.ECDLowPpg > 0 && v < c.cfg.ECDLowPpg:
		return LowECD
	default:
		return Normal
	}
}
