package formula

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"drilling-engine/internal/calcerr"
	"drilling-engine/internal/strictjson"
)

// steelDensityPpg is the density of steel used for the buoyancy factor.
const steelDensityPpg = 65.5

// Operation selects the torque and drag sub-formula.
type Operation string

const (
	Rotating    Operation = "ROTATING"
	TrippingIn  Operation = "TRIPPING_IN"
	TrippingOut Operation = "TRIPPING_OUT"
	Sliding     Operation = "SLIDING"
)

// ParseOperation returns the Operation named by s.
func ParseOperation(s string) (Operation, error) {
	op := Operation(s)
	if _, ok := hookLoadFormulas[op]; !ok {
		return "", calcerr.InvalidInputf("operation", "unknown operation %q", s)
	}
	return op, nil
}

// UnmarshalText rejects unknown operation names.
func (o *Operation) UnmarshalText(text []byte) error {
	op, err := ParseOperation(string(text))
	if err != nil {
		return err
	}
	*o = op
	return nil
}

type loadInputs struct {
	axial, drag, wob, normal, radiusFt, friction float64
}

type loadFormula struct {
	hookLoad func(in loadInputs) float64
	torque   func(in loadInputs) float64
}

func noTorque(loadInputs) float64 { return 0 }

var hookLoadFormulas = map[Operation]loadFormula{
	Rotating: {
		hookLoad: func(in loadInputs) float64 { return in.axial - in.wob },
		torque:   func(in loadInputs) float64 { return in.friction * in.normal * in.radiusFt },
	},
	TrippingIn: {
		hookLoad: func(in loadInputs) float64 { return in.axial - in.drag },
		torque:   noTorque,
	},
	TrippingOut: {
		hookLoad: func(in loadInputs) float64 { return in.axial + in.drag },
		torque:   noTorque,
	},
	Sliding: {
		hookLoad: func(in loadInputs) float64 { return in.axial - in.drag - in.wob },
		torque:   noTorque,
	},
}

// TorqueDragRequest describes a single straight section of drill string
// under the soft-string model.
type TorqueDragRequest struct {
	Operation      Operation `json:"operation"`
	MudWeightPpg   float64   `json:"mud_weight_ppg"`
	PipeWeightLbFt float64   `json:"pipe_weight_lb_ft"`
	LengthFt       float64   `json:"length_ft"`
	InclinationDeg float64   `json:"inclination_deg"`
	FrictionFactor float64   `json:"friction_factor"`
	PipeODIn       float64   `json:"pipe_od_in"`
	WOBLb          float64   `json:"wob_lb"`
}

// UnmarshalJSON rejects bodies that omit a required field.
func (r *TorqueDragRequest) UnmarshalJSON(data []byte) error {
	type plain TorqueDragRequest
	return strictjson.Unmarshal(data, (*plain)(r))
}

// Validate checks the operation tag and every physical input.
func (r TorqueDragRequest) Validate() error {
	if _, ok := hookLoadFormulas[r.Operation]; !ok {
		return calcerr.InvalidInputf("operation", "unknown operation %q", string(r.Operation))
	}
	err := firstError(
		requirePositive("mud_weight_ppg", r.MudWeightPpg),
		requirePositive("pipe_weight_lb_ft", r.PipeWeightLbFt),
		requirePositive("length_ft", r.LengthFt),
		requireRange("inclination_deg", r.InclinationDeg, 0, 180),
		requireNonNegative("friction_factor", r.FrictionFactor),
		requirePositive("pipe_od_in", r.PipeODIn),
		requireNonNegative("wob_lb", r.WOBLb),
	)
	if err != nil {
		return err
	}
	if r.MudWeightPpg >= steelDensityPpg {
		return calcerr.InvalidInput("mud_weight_ppg", fmt.Sprintf("must be lighter than steel (%g)", steelDensityPpg))
	}
	return nil
}

// TorqueDragResult reports surface hook load and torque for the operation.
type TorqueDragResult struct {
	Operation      Operation       `json:"operation"`
	BuoyancyFactor decimal.Decimal `json:"buoyancy_factor"`
	BuoyedWeightLb decimal.Decimal `json:"buoyed_weight_lb"`
	NormalForceLb  decimal.Decimal `json:"normal_force_lb"`
	DragForceLb    decimal.Decimal `json:"drag_force_lb"`
	HookLoadLb     decimal.Decimal `json:"hook_load_lb"`
	TorqueFtLb     decimal.Decimal `json:"torque_ft_lb"`
	Classification Classification  `json:"classification"`
}

// TorqueDrag computes hook load and torque with the soft-string model.
func (c Calculator) TorqueDrag(req TorqueDragRequest) (TorqueDragResult, error) {
	if err := req.Validate(); err != nil {
		return TorqueDragResult{}, err
	}

	bf := 1 - req.MudWeightPpg/steelDensityPpg
	weight := req.PipeWeightLbFt * req.LengthFt * bf
	inc := degToRad(req.InclinationDeg)
	normal := weight * math.Abs(math.Sin(inc))

	in := loadInputs{
		axial:    weight * math.Cos(inc),
		drag:     req.FrictionFactor * normal,
		wob:      req.WOBLb,
		normal:   normal,
		radiusFt: req.PipeODIn / 24,
		friction: req.FrictionFactor,
	}
	f := hookLoadFormulas[req.Operation]
	hook := f.hookLoad(in)

	cls := Success
	if hook < 0 {
		cls = NegativeHookLoad
	}

	return TorqueDragResult{
		Operation:      req.Operation,
		BuoyancyFactor: c.round(bf),
		BuoyedWeightLb: c.round(weight),
		NormalForceLb:  c.round(normal),
		DragForceLb:    c.round(in.drag),
		HookLoadLb:     c.round(hook),
		TorqueFtLb:     c.round(f.torque(in)),
		Classification: cls,
	}, nil
}
