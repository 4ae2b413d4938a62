// Package trajectory integrates directional surveys into wellbore
// coordinates with the minimum curvature method.
//
// Each station's derived position depends only on its own survey and the
// station immediately above it, so a chain is always computed as a forward
// fold from its tie-in. A Chain is not safe for concurrent use; Registry
// serializes writers per chain.
package trajectory

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"drilling-engine/internal/calcerr"
	"drilling-engine/internal/formula"
	"drilling-engine/internal/strictjson"
)

// straightTolerance is the dogleg angle in radians below which a course is
// treated as a straight tangent section (RF = 1).
const straightTolerance = 1e-4

// reversalTolerance is how close to pi radians a dogleg may come before the
// course is treated as a full reversal, where the arc plane is undefined.
const reversalTolerance = 1e-6

// Survey is a raw survey reading.
type Survey struct {
	MeasuredDepth  float64 `json:"measured_depth"`
	InclinationDeg float64 `json:"inclination_deg"`
	AzimuthDeg     float64 `json:"azimuth_deg"`
	Definitive     bool    `json:"definitive,omitempty"`
}

// UnmarshalJSON rejects bodies that omit a required field.
func (s *Survey) UnmarshalJSON(data []byte) error {
	type plain Survey
	return strictjson.Unmarshal(data, (*plain)(s))
}

// Validate checks depth and angle ranges.
func (s Survey) Validate() error {
	return formula.ValidateSurvey("", s.MeasuredDepth, s.InclinationDeg, s.AzimuthDeg)
}

// Station is a survey with its computed position.
type Station struct {
	ID                  uuid.UUID `json:"id"`
	MeasuredDepth       float64   `json:"measured_depth"`
	InclinationDeg      float64   `json:"inclination_deg"`
	AzimuthDeg          float64   `json:"azimuth_deg"`
	TVD                 float64   `json:"tvd"`
	Northing            float64   `json:"northing"`
	Easting             float64   `json:"easting"`
	DLSDegPer100ft      float64   `json:"dls_deg_per_100ft"`
	VerticalSection     float64   `json:"vertical_section"`
	ClosureDistance     float64   `json:"closure_distance"`
	ClosureDirectionDeg float64   `json:"closure_direction_deg"`
	IsDefinitive        bool      `json:"is_definitive"`
}

// Survey returns the raw reading the station was computed from.
func (s Station) Survey() Survey {
	return Survey{
		MeasuredDepth:  s.MeasuredDepth,
		InclinationDeg: s.InclinationDeg,
		AzimuthDeg:     s.AzimuthDeg,
		Definitive:     s.IsDefinitive,
	}
}

// RatioFactor is the minimum curvature correction for a dogleg of theta
// radians. A dogleg within reversalTolerance of pi fails with
// DegenerateGeometry because tan(theta/2) diverges there.
func RatioFactor(theta float64) (float64, error) {
	if theta < straightTolerance {
		return 1, nil
	}
	if err := checkReversal(theta); err != nil {
		return 0, err
	}
	return 2 / theta * math.Tan(theta/2), nil
}

func checkReversal(theta float64) error {
	if math.Pi-theta < reversalTolerance {
		return calcerr.DegenerateGeometry("dogleg of %g rad reverses the wellbore", theta)
	}
	return nil
}

// ComputeStation derives cur's position from prev. A nil prev makes cur the
// tie-in, projected vertically from surface. The returned station has no ID;
// callers assign one when the station joins a chain.
func ComputeStation(prev *Station, cur Survey, vsAzimuthDeg float64) (Station, error) {
	if err := cur.Validate(); err != nil {
		return Station{}, err
	}

	st := Station{
		MeasuredDepth:  cur.MeasuredDepth,
		InclinationDeg: cur.InclinationDeg,
		AzimuthDeg:     cur.AzimuthDeg,
		IsDefinitive:   cur.Definitive,
	}

	if prev == nil {
		st.TVD = cur.MeasuredDepth * math.Cos(degToRad(cur.InclinationDeg))
		return st, nil
	}

	cl := cur.MeasuredDepth - prev.MeasuredDepth
	switch {
	case cl < 0:
		return Station{}, calcerr.InvalidStationOrder(cur.MeasuredDepth, prev.MeasuredDepth)
	case cl == 0:
		return Station{}, calcerr.InvalidInputf("course_length", "zero-length course at md %g", cur.MeasuredDepth)
	}

	i1, a1 := degToRad(prev.InclinationDeg), degToRad(prev.AzimuthDeg)
	i2, a2 := degToRad(cur.InclinationDeg), degToRad(cur.AzimuthDeg)

	theta := formula.DoglegAngle(prev.InclinationDeg, prev.AzimuthDeg, cur.InclinationDeg, cur.AzimuthDeg)
	rf, err := RatioFactor(theta)
	if err != nil {
		return Station{}, fmt.Errorf("md %g: %w", cur.MeasuredDepth, err)
	}
	k := cl / 2 * rf

	st.TVD = prev.TVD + k*(math.Cos(i1)+math.Cos(i2))
	st.Northing = prev.Northing + k*(math.Sin(i1)*math.Cos(a1)+math.Sin(i2)*math.Cos(a2))
	st.Easting = prev.Easting + k*(math.Sin(i1)*math.Sin(a1)+math.Sin(i2)*math.Sin(a2))
	st.DLSDegPer100ft = formula.DoglegSeverity(theta, cl)

	vs := degToRad(vsAzimuthDeg)
	st.VerticalSection = st.Northing*math.Cos(vs) + st.Easting*math.Sin(vs)
	st.ClosureDistance = math.Hypot(st.Northing, st.Easting)
	st.ClosureDirectionDeg = closureDirection(st.Northing, st.Easting)

	for _, v := range []float64{st.TVD, st.Northing, st.Easting, st.DLSDegPer100ft} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Station{}, calcerr.DegenerateGeometry("non-finite position at md %g", cur.MeasuredDepth)
		}
	}
	return st, nil
}

// closureDirection is atan2(E, N) in degrees normalized to [0, 360).
func closureDirection(n, e float64) float64 {
	if n == 0 && e == 0 {
		return 0
	}
	d := radToDeg(math.Atan2(e, n))
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d -= 360
	}
	return d
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }

func radToDeg(rad float64) float64 { return rad * 180 / math.Pi }
