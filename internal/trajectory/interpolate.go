package trajectory

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"drilling-engine/internal/calcerr"
	"drilling-engine/internal/formula"
)

// tangent returns the unit wellbore direction as (north, east, down).
func tangent(incDeg, azDeg float64) r3.Vec {
	inc, az := degToRad(incDeg), degToRad(azDeg)
	return r3.Vec{
		X: math.Sin(inc) * math.Cos(az),
		Y: math.Sin(inc) * math.Sin(az),
		Z: math.Cos(inc),
	}
}

// direction converts a unit tangent back to inclination and azimuth.
func direction(t r3.Vec) (incDeg, azDeg float64) {
	incDeg = radToDeg(math.Acos(math.Max(-1, math.Min(1, t.Z))))
	if math.Hypot(t.X, t.Y) < 1e-12 {
		return incDeg, 0
	}
	azDeg = radToDeg(math.Atan2(t.Y, t.X))
	if azDeg < 0 {
		azDeg += 360
	}
	if azDeg >= 360 {
		azDeg -= 360
	}
	return incDeg, azDeg
}

// slerp walks fraction f of the arc between unit vectors t1 and t2, which
// are theta radians apart. Opposed vectors have no unique arc.
func slerp(t1, t2 r3.Vec, theta, f float64) (r3.Vec, error) {
	if theta < straightTolerance {
		return r3.Unit(r3.Add(r3.Scale(1-f, t1), r3.Scale(f, t2))), nil
	}
	if err := checkReversal(theta); err != nil {
		return r3.Vec{}, err
	}
	s := math.Sin(theta)
	return r3.Add(
		r3.Scale(math.Sin((1-f)*theta)/s, t1),
		r3.Scale(math.Sin(f*theta)/s, t2),
	), nil
}

// Interpolate returns a projected, non-definitive station at md on the
// circular arc between the two surveys that bracket it. A md that matches
// a station returns that station.
func (c *Chain) Interpolate(md float64) (Station, error) {
	n := len(c.stations)
	if n == 0 {
		return Station{}, calcerr.InvalidInput("measured_depth", "chain has no stations")
	}
	if math.IsNaN(md) || md < c.stations[0].MeasuredDepth || md > c.stations[n-1].MeasuredDepth {
		return Station{}, calcerr.InvalidInputf("measured_depth", "must be within [%g, %g], got %g",
			c.stations[0].MeasuredDepth, c.stations[n-1].MeasuredDepth, md)
	}
	if i := c.indexOf(md); i >= 0 {
		return c.stations[i], nil
	}

	// stations[hi] is the first station below md; hi >= 1 after the checks above.
	hi := sort.Search(n, func(i int) bool { return c.stations[i].MeasuredDepth > md })
	upper, lower := c.stations[hi-1], c.stations[hi]

	theta := formula.DoglegAngle(upper.InclinationDeg, upper.AzimuthDeg, lower.InclinationDeg, lower.AzimuthDeg)
	f := (md - upper.MeasuredDepth) / (lower.MeasuredDepth - upper.MeasuredDepth)
	t, err := slerp(
		tangent(upper.InclinationDeg, upper.AzimuthDeg),
		tangent(lower.InclinationDeg, lower.AzimuthDeg),
		theta, f,
	)
	if err != nil {
		return Station{}, err
	}
	inc, az := direction(t)

	return ComputeStation(&upper, Survey{MeasuredDepth: md, InclinationDeg: inc, AzimuthDeg: az}, c.cfg.VerticalSectionAzimuthDeg)
}
