package rigstate

import (
	"drilling-engine/internal/params"
)

// Conditions are the booleans the rule table is evaluated against.
type Conditions struct {
	DepthAvailable bool `json:"depth_available"`
	OnBottom       bool `json:"on_bottom"`
	Rotating       bool `json:"rotating"`
	Circulating    bool `json:"circulating"`
	HasWOB         bool `json:"has_wob"`
	MovingDown     bool `json:"moving_down"`
	MovingUp       bool `json:"moving_up"`
	InSlips        bool `json:"in_slips"`
}

// Derive computes the conditions for s. An unavailable reading leaves the
// conditions that depend on it false.
func Derive(s params.Snapshot, t Thresholds) Conditions {
	var c Conditions

	if hole, bit, ok := params.Both(s.HoleDepthFt, s.BitDepthFt); ok {
		c.DepthAvailable = true
		c.OnBottom = hole-bit <= t.OnBottomFt
	}
	if s.RPM != nil {
		c.Rotating = *s.RPM >= t.RotatingRPM
	}
	switch {
	case s.FlowInGPM != nil:
		c.Circulating = *s.FlowInGPM >= t.CirculatingGPM
	case s.StandpipePressurePsi != nil:
		c.Circulating = *s.StandpipePressurePsi > t.CirculatingFallbackPsi
	}
	if s.WOBKlb != nil {
		c.HasWOB = *s.WOBKlb >= t.WOBKlb
	}
	if s.ROPFtHr != nil {
		c.MovingDown = *s.ROPFtHr > t.MovingFtHr
		c.MovingUp = *s.ROPFtHr < -t.MovingFtHr
	}
	if s.BlockPositionFt != nil {
		c.InSlips = *s.BlockPositionFt <= t.InSlipsBlockFt
	}
	return c
}

// Rule is one row of the decision table.
type Rule struct {
	Name  string
	When  func(Conditions) bool
	State State
}

// Rules returns the decision table in evaluation order. The first rule whose
// predicate holds decides the state; the last rule always holds.
func Rules() []Rule {
	return []Rule{
		{"no-depth", func(c Conditions) bool { return !c.DepthAvailable }, Static},
		{"drilling-rotating", func(c Conditions) bool { return c.OnBottom && c.Rotating && c.HasWOB }, DrillingRotating},
		{"drilling-sliding", func(c Conditions) bool { return c.OnBottom && c.HasWOB && c.Circulating && !c.Rotating }, DrillingSliding},
		{"on-bottom-circulating", func(c Conditions) bool { return c.OnBottom && c.Circulating && !c.HasWOB }, Circulating},
		{"reaming", func(c Conditions) bool { return c.MovingDown && c.Rotating }, Reaming},
		{"tripping-in", func(c Conditions) bool { return c.MovingDown }, TrippingIn},
		{"back-reaming", func(c Conditions) bool { return c.MovingUp && c.Rotating }, BackReaming},
		{"tripping-out", func(c Conditions) bool { return c.MovingUp }, TrippingOut},
		{"connection", func(c Conditions) bool { return c.InSlips && c.Circulating }, Connection},
		{"in-slips", func(c Conditions) bool { return c.InSlips }, InSlips},
		{"off-bottom-circulating", func(c Conditions) bool { return c.Circulating }, Circulating},
		{"static", func(Conditions) bool { return true }, Static},
	}
}

// Resolve walks the rule table against c and returns the winning state and
// rule name.
func Resolve(c Conditions) (State, string) {
	for _, r := range Rules() {
		if r.When(c) {
			return r.State, r.Name
		}
	}
	return Static, "static"
}

// Result is a classification with the conditions and rule that produced it.
type Result struct {
	State      State      `json:"state"`
	Rule       string     `json:"rule"`
	Conditions Conditions `json:"conditions"`
}

// Classify derives conditions from s and resolves them to a state.
func Classify(s params.Snapshot, t Thresholds) Result {
	c := Derive(s, t)
	state, rule := Resolve(c)
	return Result{State: state, Rule: rule, Conditions: c}
}
