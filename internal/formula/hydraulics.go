package formula

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"drilling-engine/internal/calcerr"
	"drilling-engine/internal/strictjson"
)

// BitHydraulicsRequest describes flow through the bit nozzles.
type BitHydraulicsRequest struct {
	FlowRateGPM          float64   `json:"flow_rate_gpm"`
	MudWeightPpg         float64   `json:"mud_weight_ppg"`
	NozzleSizes32nds     []float64 `json:"nozzle_sizes_32nds"`
	BitDiameterIn        float64   `json:"bit_diameter_in"`
	StandpipePressurePsi float64   `json:"standpipe_pressure_psi"`
}

// UnmarshalJSON rejects bodies that omit a required field.
func (r *BitHydraulicsRequest) UnmarshalJSON(data []byte) error {
	type plain BitHydraulicsRequest
	return strictjson.Unmarshal(data, (*plain)(r))
}

// Validate requires at least one positive nozzle and positive flow, mud
// weight, bit size and standpipe pressure.
func (r BitHydraulicsRequest) Validate() error {
	err := firstError(
		requirePositive("flow_rate_gpm", r.FlowRateGPM),
		requirePositive("mud_weight_ppg", r.MudWeightPpg),
		requirePositive("bit_diameter_in", r.BitDiameterIn),
		requirePositive("standpipe_pressure_psi", r.StandpipePressurePsi),
	)
	if err != nil {
		return err
	}
	if len(r.NozzleSizes32nds) == 0 {
		return calcerr.InvalidInput("nozzle_sizes_32nds", "at least one nozzle is required")
	}
	for i, n := range r.NozzleSizes32nds {
		if err := requirePositive(fmt.Sprintf("nozzle_sizes_32nds[%d]", i), n); err != nil {
			return err
		}
	}
	return nil
}

// BitHydraulicsResult reports nozzle flow area, bit pressure drop and the
// power delivered at the bit.
type BitHydraulicsResult struct {
	TotalFlowAreaIn2   decimal.Decimal `json:"total_flow_area_in2"`
	BitPressureDropPsi decimal.Decimal `json:"bit_pressure_drop_psi"`
	JetVelocityFtS     decimal.Decimal `json:"jet_velocity_ft_s"`
	HydraulicHP        decimal.Decimal `json:"hydraulic_hp"`
	HSI                decimal.Decimal `json:"hsi"`
	ImpactForceLb      decimal.Decimal `json:"impact_force_lb"`
	PercentAtBit       decimal.Decimal `json:"percent_pressure_at_bit"`
	Classification     Classification  `json:"classification"`
}

func totalFlowArea(nozzles []float64) float64 {
	var tfa float64
	for _, n := range nozzles {
		d := n / 32
		tfa += math.Pi / 4 * d * d
	}
	return tfa
}

// BitHydraulics computes bit pressure drop, jet velocity, hydraulic
// horsepower, HSI and jet impact force.
func (c Calculator) BitHydraulics(req BitHydraulicsRequest) (BitHydraulicsResult, error) {
	if err := req.Validate(); err != nil {
		return BitHydraulicsResult{}, err
	}

	q, mw := req.FlowRateGPM, req.MudWeightPpg
	tfa := totalFlowArea(req.NozzleSizes32nds)
	pb := mw * q * q / (10858 * tfa * tfa)
	vn := 0.3208 * q / tfa
	hhp := pb * q / 1714
	hsi := hhp / (math.Pi / 4 * req.BitDiameterIn * req.BitDiameterIn)

	cls := Success
	if c.cfg.MinHSI > 0 && hsi < c.cfg.MinHSI {
		cls = LowHSI
	}

	return BitHydraulicsResult{
		TotalFlowAreaIn2:   c.round(tfa),
		BitPressureDropPsi: c.round(pb),
		JetVelocityFtS:     c.round(vn),
		HydraulicHP:        c.round(hhp),
		HSI:                c.round(hsi),
		ImpactForceLb:      c.round(mw * vn * q / 1932),
		PercentAtBit:       c.round(pb / req.StandpipePressurePsi * 100),
		Classification:     cls,
	}, nil
}
