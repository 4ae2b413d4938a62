package formula

import (
	"github.com/shopspring/decimal"

	"drilling-engine/internal/calcerr"
	"drilling-engine/internal/strictjson"
)

// clingingConstant is the fraction of pipe velocity dragged along by the mud
// film on the pipe wall.
const clingingConstant = 0.45

// SwabSurgeRequest describes a pipe trip through a mud column. PipeIDIn of
// zero means closed-end pipe (float or plugged bit).
type SwabSurgeRequest struct {
	MudWeightPpg       float64 `json:"mud_weight_ppg"`
	PlasticViscosityCp float64 `json:"plastic_viscosity_cp"`
	YieldPoint         float64 `json:"yield_point_lb_100ft2"`
	HoleDiameterIn     float64 `json:"hole_diameter_in"`
	PipeODIn           float64 `json:"pipe_od_in"`
	PipeIDIn           float64 `json:"pipe_id_in"`
	TripSpeedFtMin     float64 `json:"trip_speed_ft_min"`
	PipeLengthFt       float64 `json:"pipe_length_ft"`
	TVDFt              float64 `json:"tvd_ft"`

	PorePressurePpg     *float64 `json:"pore_pressure_ppg,omitempty"`
	FractureGradientPpg *float64 `json:"fracture_gradient_ppg,omitempty"`
}

// UnmarshalJSON rejects bodies that omit a required field.
func (r *SwabSurgeRequest) UnmarshalJSON(data []byte) error {
	type plain SwabSurgeRequest
	return strictjson.Unmarshal(data, (*plain)(r))
}

// Validate checks positivity and the pipe/hole geometry.
func (r SwabSurgeRequest) Validate() error {
	err := firstError(
		requirePositive("mud_weight_ppg", r.MudWeightPpg),
		requireNonNegative("plastic_viscosity_cp", r.PlasticViscosityCp),
		requireNonNegative("yield_point_lb_100ft2", r.YieldPoint),
		requirePositive("hole_diameter_in", r.HoleDiameterIn),
		requirePositive("pipe_od_in", r.PipeODIn),
		requireNonNegative("pipe_id_in", r.PipeIDIn),
		requirePositive("trip_speed_ft_min", r.TripSpeedFtMin),
		requirePositive("pipe_length_ft", r.PipeLengthFt),
		requirePositive("tvd_ft", r.TVDFt),
	)
	if err != nil {
		return err
	}
	if r.PipeODIn >= r.HoleDiameterIn {
		return calcerr.InvalidInputf("pipe_od_in", "must be smaller than hole_diameter_in (%g), got %g", r.HoleDiameterIn, r.PipeODIn)
	}
	if r.PipeIDIn >= r.PipeODIn {
		return calcerr.InvalidInputf("pipe_id_in", "must be smaller than pipe_od_in (%g), got %g", r.PipeODIn, r.PipeIDIn)
	}
	if r.PorePressurePpg != nil {
		if err := requirePositive("pore_pressure_ppg", *r.PorePressurePpg); err != nil {
			return err
		}
	}
	if r.FractureGradientPpg != nil {
		if err := requirePositive("fracture_gradient_ppg", *r.FractureGradientPpg); err != nil {
			return err
		}
	}
	return nil
}

// SwabSurgeResult holds the trip pressure and the equivalent mud weights it
// produces while running in (surge) and pulling out (swab).
type SwabSurgeResult struct {
	AnnularVelocityFtMin decimal.Decimal `json:"annular_velocity_ft_min"`
	PressureChangePsi    decimal.Decimal `json:"pressure_change_psi"`
	SurgeEMWPpg          decimal.Decimal `json:"surge_emw_ppg"`
	SwabEMWPpg           decimal.Decimal `json:"swab_emw_ppg"`
	Classification       Classification  `json:"classification"`
}

// effectiveAnnularVelocity applies the clinging constant to the trip speed
// for closed (id == 0) or open-ended pipe.
func effectiveAnnularVelocity(speed, hole, od, id float64) float64 {
	dh2, od2, id2 := hole*hole, od*od, id*id
	if id == 0 {
		return speed * (clingingConstant + od2/(dh2-od2))
	}
	return speed * (clingingConstant + (od2-id2)/(dh2-od2+id2))
}

// binghamAnnularLoss is the Bingham plastic laminar annular pressure loss
// in psi over length feet.
func binghamAnnularLoss(pv, yp, velocity, length, hole, od float64) float64 {
	gap := hole - od
	return pv*velocity*length/(60000*gap*gap) + yp*length/(200*gap)
}

// SwabSurge estimates swab and surge pressures for a trip.
func (c Calculator) SwabSurge(req SwabSurgeRequest) (SwabSurgeResult, error) {
	if err := req.Validate(); err != nil {
		return SwabSurgeResult{}, err
	}

	va := effectiveAnnularVelocity(req.TripSpeedFtMin, req.HoleDiameterIn, req.PipeODIn, req.PipeIDIn)
	dp := binghamAnnularLoss(req.PlasticViscosityCp, req.YieldPoint, va, req.PipeLengthFt, req.HoleDiameterIn, req.PipeODIn)
	delta := dp / (PressureGradientFactor * req.TVDFt)
	surge := req.MudWeightPpg + delta
	swab := req.MudWeightPpg - delta

	cls := Success
	switch {
	case req.FractureGradientPpg != nil && surge >= *req.FractureGradientPpg:
		cls = SurgeRisk
	case req.PorePressurePpg != nil && swab <= *req.PorePressurePpg:
		cls = SwabRisk
	}

	return SwabSurgeResult{
		AnnularVelocityFtMin: c.round(va),
		PressureChangePsi:    c.round(dp),
		SurgeEMWPpg:          c.round(surge),
		SwabEMWPpg:           c.round(swab),
		Classification:       cls,
	}, nil
}
