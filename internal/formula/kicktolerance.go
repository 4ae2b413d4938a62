package formula

import (
	"math"

	"github.com/shopspring/decimal"

	"drilling-engine/internal/calcerr"
	"drilling-engine/internal/strictjson"
)

// KickToleranceRequest describes the open hole below the last casing shoe.
type KickToleranceRequest struct {
	ShoeTVDFt            float64 `json:"shoe_tvd_ft"`
	HoleTVDFt            float64 `json:"hole_tvd_ft"`
	FractureGradientPpg  float64 `json:"fracture_gradient_ppg"`
	MudWeightPpg         float64 `json:"mud_weight_ppg"`
	PorePressurePpg      float64 `json:"pore_pressure_ppg"`
	InfluxGradientPsiFt  float64 `json:"influx_gradient_psi_ft"`
	AnnularCapacityBblFt float64 `json:"annular_capacity_bbl_ft"`

	// InfluxVolumeBbl is the optional design kick size.
	InfluxVolumeBbl *float64 `json:"influx_volume_bbl,omitempty"`
}

// UnmarshalJSON rejects bodies that omit a required field.
func (r *KickToleranceRequest) UnmarshalJSON(data []byte) error {
	type plain KickToleranceRequest
	return strictjson.Unmarshal(data, (*plain)(r))
}

// Validate checks positivity and the ordering between shoe and hole depth,
// mud weight and fracture gradient, and mud and influx gradients.
func (r KickToleranceRequest) Validate() error {
	err := firstError(
		requirePositive("shoe_tvd_ft", r.ShoeTVDFt),
		requirePositive("hole_tvd_ft", r.HoleTVDFt),
		requirePositive("fracture_gradient_ppg", r.FractureGradientPpg),
		requirePositive("mud_weight_ppg", r.MudWeightPpg),
		requirePositive("pore_pressure_ppg", r.PorePressurePpg),
		requireNonNegative("influx_gradient_psi_ft", r.InfluxGradientPsiFt),
		requirePositive("annular_capacity_bbl_ft", r.AnnularCapacityBblFt),
	)
	if err != nil {
		return err
	}
	switch {
	case r.HoleTVDFt < r.ShoeTVDFt:
		return calcerr.InvalidInputf("hole_tvd_ft", "must be >= shoe_tvd_ft (%g), got %g", r.ShoeTVDFt, r.HoleTVDFt)
	case r.FractureGradientPpg <= r.MudWeightPpg:
		return calcerr.InvalidInputf("fracture_gradient_ppg", "must exceed mud_weight_ppg (%g), got %g", r.MudWeightPpg, r.FractureGradientPpg)
	case r.PorePressurePpg < r.MudWeightPpg:
		return calcerr.InvalidInputf("pore_pressure_ppg", "must be >= mud_weight_ppg (%g), got %g", r.MudWeightPpg, r.PorePressurePpg)
	case r.InfluxGradientPsiFt >= PressureGradientFactor*r.MudWeightPpg:
		return calcerr.InvalidInputf("influx_gradient_psi_ft", "must be lighter than the mud gradient (%g), got %g",
			PressureGradientFactor*r.MudWeightPpg, r.InfluxGradientPsiFt)
	}
	if r.InfluxVolumeBbl != nil {
		return requireNonNegative("influx_volume_bbl", *r.InfluxVolumeBbl)
	}
	return nil
}

// KickToleranceResult is the largest influx the shoe can tolerate.
type KickToleranceResult struct {
	MAASPPsi          decimal.Decimal `json:"maasp_psi"`
	KickIntensityPpg  decimal.Decimal `json:"kick_intensity_ppg"`
	MaxInfluxHeightFt decimal.Decimal `json:"max_influx_height_ft"`
	KickToleranceBbl  decimal.Decimal `json:"kick_tolerance_bbl"`
	KickTolerancePpg  decimal.Decimal `json:"kick_tolerance_ppg"`
	Classification    Classification  `json:"classification"`
}

// KickTolerance computes MAASP and the maximum tolerable influx volume for
// the given kick intensity.
func (c Calculator) KickTolerance(req KickToleranceRequest) (KickToleranceResult, error) {
	if err := req.Validate(); err != nil {
		return KickToleranceResult{}, err
	}

	margin := req.FractureGradientPpg - req.MudWeightPpg
	maasp := margin * PressureGradientFactor * req.ShoeTVDFt
	intensity := req.PorePressurePpg - req.MudWeightPpg
	mudGradient := PressureGradientFactor * req.MudWeightPpg

	height := (maasp - intensity*PressureGradientFactor*req.HoleTVDFt) / (mudGradient - req.InfluxGradientPsiFt)
	height = math.Max(height, 0)
	volume := height * req.AnnularCapacityBblFt

	influx := 0.0
	if req.InfluxVolumeBbl != nil {
		influx = *req.InfluxVolumeBbl
	}
	influxHeight := influx / req.AnnularCapacityBblFt
	ktPpg := (req.ShoeTVDFt/req.HoleTVDFt)*margin -
		(influxHeight/req.HoleTVDFt)*(req.MudWeightPpg-req.InfluxGradientPsiFt/PressureGradientFactor)

	cls := Adequate
	if volume <= 0 || volume <= influx {
		cls = Insufficient
	}

	return KickToleranceResult{
		MAASPPsi:          c.round(maasp),
		KickIntensityPpg:  c.round(intensity),
		MaxInfluxHeightFt: c.round(height),
		KickToleranceBbl:  c.round(volume),
		KickTolerancePpg:  c.round(ktPpg),
		Classification:    cls,
	}, nil
}
