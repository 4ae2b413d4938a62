// Package formula holds the closed-form drilling engineering calculations.
//
// Every calculation is a method on Calculator. A Calculator carries only its
// Config, so a single value can be shared by any number of goroutines. Each
// method validates its request, computes in float64, then rounds the outputs
// to Config.Precision decimal places and returns them as decimal values.
package formula

import (
	"math"

	"github.com/shopspring/decimal"

	"drilling-engine/internal/calcerr"
)

// Classification is the routing outcome attached to a result.
type Classification string

const (
	Success          Classification = "Success"
	HighMSE          Classification = "HighMSE"
	Normal           Classification = "Normal"
	HighECD          Classification = "HighECD"
	LowECD           Classification = "LowECD"
	HighDLS          Classification = "HighDLS"
	SurgeRisk        Classification = "SurgeRisk"
	SwabRisk         Classification = "SwabRisk"
	Adequate         Classification = "Adequate"
	Insufficient     Classification = "Insufficient"
	NegativeHookLoad Classification = "NegativeHookLoad"
	LowHSI           Classification = "LowHSI"
)

// DefaultPrecision is the number of decimal places results are rounded to.
const DefaultPrecision = 2

// Config holds rounding precision and the thresholds used for routing.
// A zero threshold disables the matching classification check.
type Config struct {
	Precision          int     `yaml:"precision"`
	MSEHighPsi         float64 `yaml:"mse_high_psi"`
	DLSHighDegPer100ft float64 `yaml:"dls_high_deg_per_100ft"`
	ECDHighPpg         float64 `yaml:"ecd_high_ppg"`
	ECDLowPpg          float64 `yaml:"ecd_low_ppg"`
	MinHSI             float64 `yaml:"min_hsi"`
}

// DefaultConfig returns precision 2 with every routing threshold disabled.
func DefaultConfig() Config {
	return Config{Precision: DefaultPrecision}
}

// Calculator evaluates formula requests under a fixed Config.
type Calculator struct {
	cfg Config
}

// New returns a Calculator for cfg. A negative precision falls back to
// DefaultPrecision.
func New(cfg Config) Calculator {
	if cfg.Precision < 0 {
		cfg.Precision = DefaultPrecision
	}
	return Calculator{cfg: cfg}
}

// Config returns the calculator's configuration.
func (c Calculator) Config() Config {
	return c.cfg
}

func (c Calculator) round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(int32(c.cfg.Precision))
}

func (c Calculator) roundPtr(v float64) *decimal.Decimal {
	d := c.round(v)
	return &d
}

func checkFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return calcerr.InvalidInput(field, "must be a finite number")
	}
	return nil
}

func requirePositive(field string, v float64) error {
	if err := checkFinite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return calcerr.InvalidInputf(field, "must be > 0, got %g", v)
	}
	return nil
}

func requireNonNegative(field string, v float64) error {
	if err := checkFinite(field, v); err != nil {
		return err
	}
	if v < 0 {
		return calcerr.InvalidInputf(field, "must be >= 0, got %g", v)
	}
	return nil
}

func requireRange(field string, v, lo, hi float64) error {
	if err := checkFinite(field, v); err != nil {
		return err
	}
	if v < lo || v > hi {
		return calcerr.InvalidInputf(field, "must be within [%g, %g], got %g", lo, hi, v)
	}
	return nil
}

// firstError returns the first non-nil error.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
