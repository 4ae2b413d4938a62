package formula

import (
	"math"

	"github.com/shopspring/decimal"

	"drilling-engine/internal/calcerr"
	"drilling-engine/internal/strictjson"
)

// Severity is the dogleg severity band.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityModerate Severity = "MODERATE"
	SeverityHigh     Severity = "HIGH"
	SeveritySevere   Severity = "SEVERE"
)

// Upper bounds (exclusive, deg/100ft) of the LOW, MODERATE and HIGH bands.
const (
	dlsLowMax      = 3.0
	dlsModerateMax = 6.0
	dlsHighMax     = 10.0
)

// ClassifyDLS maps a dogleg severity in deg/100ft to its band.
func ClassifyDLS(dls float64) Severity {
	switch {
	case dls < dlsLowMax:
		return SeverityLow
	case dls < dlsModerateMax:
		return SeverityModerate
	case dls < dlsHighMax:
		return SeverityHigh
	default:
		return SeveritySevere
	}
}

// DoglegAngle returns the dogleg angle in radians between two survey
// directions given in degrees:
//
//	cosθ = cosI1·cosI2 + sinI1·sinI2·cos(Az2−Az1)
//
// evaluated as cos(I2−I1) − sinI1·sinI2·(1−cos(Az2−Az1)), which is the same
// identity but yields exactly 1 for identical directions. The cosine is
// clamped to [-1, 1] before acos.
func DoglegAngle(inc1, az1, inc2, az2 float64) float64 {
	i1, i2 := degToRad(inc1), degToRad(inc2)
	dAz := degToRad(az2 - az1)

	cosTheta := math.Cos(i2-i1) - math.Sin(i1)*math.Sin(i2)*(1-math.Cos(dAz))
	cosTheta = math.Max(-1, math.Min(1, cosTheta))
	return math.Acos(cosTheta)
}

// DoglegSeverity converts a dogleg angle in radians over courseLength feet
// to deg/100ft. courseLength must be positive.
func DoglegSeverity(thetaRad, courseLength float64) float64 {
	return radToDeg(thetaRad) * 100 / courseLength
}

// ValidateSurvey checks a raw survey triple. prefix is prepended to the
// field names in the returned error.
func ValidateSurvey(prefix string, md, inc, az float64) error {
	return firstError(
		requireNonNegative(prefix+"measured_depth", md),
		requireRange(prefix+"inclination_deg", inc, 0, 180),
		requireAzimuth(prefix+"azimuth_deg", az),
	)
}

func requireAzimuth(field string, az float64) error {
	if err := checkFinite(field, az); err != nil {
		return err
	}
	if az < 0 || az >= 360 {
		return calcerr.InvalidInputf(field, "must be within [0, 360), got %g", az)
	}
	return nil
}

// DLSRequest describes two survey stations.
type DLSRequest struct {
	MD1  float64 `json:"md1"`
	Inc1 float64 `json:"inc1"`
	Az1  float64 `json:"az1"`
	MD2  float64 `json:"md2"`
	Inc2 float64 `json:"inc2"`
	Az2  float64 `json:"az2"`
}

// UnmarshalJSON rejects bodies that omit a required field.
func (r *DLSRequest) UnmarshalJSON(data []byte) error {
	type plain DLSRequest
	return strictjson.Unmarshal(data, (*plain)(r))
}

// Validate checks both surveys and that the second lies deeper than the first.
func (r DLSRequest) Validate() error {
	err := firstError(
		ValidateSurvey("station1.", r.MD1, r.Inc1, r.Az1),
		ValidateSurvey("station2.", r.MD2, r.Inc2, r.Az2),
	)
	if err != nil {
		return err
	}
	if r.MD2 <= r.MD1 {
		return requirePositive("course_length", r.MD2-r.MD1)
	}
	return nil
}

// DLSResult is the curvature between two stations.
type DLSResult struct {
	CourseLengthFt decimal.Decimal `json:"course_length_ft"`
	DoglegDeg      decimal.Decimal `json:"dogleg_deg"`
	DLSDegPer100ft decimal.Decimal `json:"dls_deg_per_100ft"`
	BuildRate      decimal.Decimal `json:"build_rate_deg_per_100ft"`
	TurnRate       decimal.Decimal `json:"turn_rate_deg_per_100ft"`
	Severity       Severity        `json:"severity"`
	Classification Classification  `json:"classification"`
}

// wrapAzimuthDelta folds an azimuth difference into (-180, 180].
func wrapAzimuthDelta(d float64) float64 {
	d = math.Mod(d, 360)
	switch {
	case d > 180:
		d -= 360
	case d <= -180:
		d += 360
	}
	return d
}

// DLS computes dogleg severity between two stations along with build and
// turn rates.
func (c Calculator) DLS(req DLSRequest) (DLSResult, error) {
	if err := req.Validate(); err != nil {
		return DLSResult{}, err
	}

	cl := req.MD2 - req.MD1
	theta := DoglegAngle(req.Inc1, req.Az1, req.Inc2, req.Az2)
	dls := DoglegSeverity(theta, cl)

	res := DLSResult{
		CourseLengthFt: c.round(cl),
		DoglegDeg:      c.round(radToDeg(theta)),
		DLSDegPer100ft: c.round(dls),
		BuildRate:      c.round((req.Inc2 - req.Inc1) * 100 / cl),
		TurnRate:       c.round(wrapAzimuthDelta(req.Az2-req.Az1) * 100 / cl),
		Severity:       ClassifyDLS(dls),
		Classification: Success,
	}
	if c.cfg.DLSHighDegPer100ft > 0 && dls > c.cfg.DLSHighDegPer100ft {
		res.Classification = HighDLS
	}
	return res, nil
}
