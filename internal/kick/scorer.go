package kick

import (
	"math"

	"drilling-engine/internal/calcerr"
	"drilling-engine/internal/params"
)

// Indicator names a kick signal.
type Indicator string

const (
	PitGain          Indicator = "PIT_GAIN"
	FlowDifferential Indicator = "FLOW_DIFFERENTIAL"
	MudWeightDrop    Indicator = "MUD_WEIGHT_DROP"
	GasIncrease      Indicator = "GAS_INCREASE"
	SPPDrop          Indicator = "SPP_DROP"
)

// Thresholds sets the magnitude each indicator must exceed to score.
// MinBaselineSamples is the history a baseline needs before the gas and
// pressure indicators are evaluated.
type Thresholds struct {
	PitGainBbl         float64 `yaml:"pit_gain_bbl" json:"pit_gain_bbl"`
	FlowDiffGPM        float64 `yaml:"flow_diff_gpm" json:"flow_diff_gpm"`
	MudWeightDropPpg   float64 `yaml:"mud_weight_drop_ppg" json:"mud_weight_drop_ppg"`
	GasIncreaseUnits   float64 `yaml:"gas_increase_units" json:"gas_increase_units"`
	SPPDropPsi         float64 `yaml:"spp_drop_psi" json:"spp_drop_psi"`
	MinBaselineSamples int     `yaml:"min_baseline_samples" json:"min_baseline_samples"`
}

// DefaultThresholds returns a fresh set of thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PitGainBbl:         5,
		FlowDiffGPM:        25,
		MudWeightDropPpg:   0.3,
		GasIncreaseUnits:   50,
		SPPDropPsi:         100,
		MinBaselineSamples: 10,
	}
}

// Validate requires every threshold to be positive.
func (t Thresholds) Validate() error {
	for name, v := range map[string]float64{
		"pit_gain_bbl":        t.PitGainBbl,
		"flow_diff_gpm":       t.FlowDiffGPM,
		"mud_weight_drop_ppg": t.MudWeightDropPpg,
		"gas_increase_units":  t.GasIncreaseUnits,
		"spp_drop_psi":        t.SPPDropPsi,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return calcerr.InvalidInputf(name, "must be > 0, got %g", v)
		}
	}
	if t.MinBaselineSamples < 1 {
		return calcerr.InvalidInputf("min_baseline_samples", "must be >= 1, got %d", t.MinBaselineSamples)
	}
	return nil
}

// Signal is one evaluated indicator.
type Signal struct {
	Indicator Indicator `json:"indicator"`
	Magnitude float64   `json:"magnitude"`
	Threshold float64   `json:"threshold"`
	Points    int       `json:"points"`
}

// Assessment is the outcome of scoring one snapshot.
type Assessment struct {
	Score          int         `json:"score"`
	IndicatorCount int         `json:"indicator_count"`
	Severity       Severity    `json:"severity"`
	Routing        Routing     `json:"routing"`
	Indicators     []Indicator `json:"indicators"`
	Signals        []Signal    `json:"signals"`
}

// points scores a magnitude against its threshold.
func points(magnitude, threshold float64) int {
	switch {
	case magnitude > 2*threshold:
		return 3
	case magnitude > threshold:
		return 2
	default:
		return 0
	}
}

type measure func(s params.Snapshot, b *Baseline, t Thresholds) (magnitude float64, ok bool)

type indicatorSpec struct {
	indicator Indicator
	threshold func(Thresholds) float64
	measure   measure
}

var indicators = []indicatorSpec{
	{
		indicator: PitGain,
		threshold: func(t Thresholds) float64 { return t.PitGainBbl },
		measure: func(s params.Snapshot, b *Baseline, t Thresholds) (float64, bool) {
			if b != nil && b.PitSamples >= t.MinBaselineSamples && s.PitVolumeBbl != nil {
				return *s.PitVolumeBbl - b.PitVolumeMean, true
			}
			if s.PitGainBbl != nil {
				return *s.PitGainBbl, true
			}
			return 0, false
		},
	},
	{
		indicator: FlowDifferential,
		threshold: func(t Thresholds) float64 { return t.FlowDiffGPM },
		measure: func(s params.Snapshot, _ *Baseline, _ Thresholds) (float64, bool) {
			out, in, ok := params.Both(s.FlowOutGPM, s.FlowInGPM)
			return out - in, ok
		},
	},
	{
		indicator: MudWeightDrop,
		threshold: func(t Thresholds) float64 { return t.MudWeightDropPpg },
		measure: func(s params.Snapshot, _ *Baseline, _ Thresholds) (float64, bool) {
			in, out, ok := params.Both(s.MudWeightInPpg, s.MudWeightOutPpg)
			return in - out, ok
		},
	},
	{
		indicator: GasIncrease,
		threshold: func(t Thresholds) float64 { return t.GasIncreaseUnits },
		measure: func(s params.Snapshot, b *Baseline, t Thresholds) (float64, bool) {
			if b == nil || b.GasSamples < t.MinBaselineSamples || s.GasUnits == nil {
				return 0, false
			}
			return *s.GasUnits - b.GasMean, true
		},
	},
	{
		indicator: SPPDrop,
		threshold: func(t Thresholds) float64 { return t.SPPDropPsi },
		measure: func(s params.Snapshot, b *Baseline, t Thresholds) (float64, bool) {
			if b == nil || b.SPPSamples < t.MinBaselineSamples || s.StandpipePressurePsi == nil {
				return 0, false
			}
			return b.SPPMean - *s.StandpipePressurePsi, true
		},
	},
}

// Score evaluates every indicator that has the readings it needs. b may be
// nil, in which case the history based indicators are skipped and pit gain
// falls back to the snapshot's own pit gain reading.
func Score(s params.Snapshot, b *Baseline, t Thresholds) Assessment {
	a := Assessment{Indicators: []Indicator{}, Signals: []Signal{}}

	for _, ind := range indicators {
		magnitude, ok := ind.measure(s, b, t)
		if !ok {
			continue
		}
		threshold := ind.threshold(t)
		p := points(magnitude, threshold)
		a.Signals = append(a.Signals, Signal{
			Indicator: ind.indicator,
			Magnitude: magnitude,
			Threshold: threshold,
			Points:    p,
		})
		if p > 0 {
			a.Score += p
			a.IndicatorCount++
			a.Indicators = append(a.Indicators, ind.indicator)
		}
	}

	a.Severity = SeverityFor(a.Score, a.IndicatorCount)
	a.Routing = RoutingFor(a.Severity)
	return a
}
