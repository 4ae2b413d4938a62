package trajectory

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"drilling-engine/internal/calcerr"
)

func TestInterpolateOnArc(t *testing.T) {
	c, err := NewChainFromSurveys("well-1", Config{}, buildSurveys())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mid, err := c.Interpolate(1500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mid.IsDefinitive {
		t.Fatal("expected interpolated station to be non-definitive")
	}
	// planar build at constant azimuth: the arc midpoint is halfway in angle
	assertClose(t, "inclination", mid.InclinationDeg, 15, 1e-9)
	assertClose(t, "azimuth", mid.AzimuthDeg, 90, 1e-9)
	assertClose(t, "dls", mid.DLSDegPer100ft, 1, 1e-9)

	// continuing from the interpolated point must land on the next survey
	next, err := ComputeStation(&mid, Survey{MeasuredDepth: 2000, InclinationDeg: 20, AzimuthDeg: 90}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := c.Stations()[2]
	assertClose(t, "tvd", next.TVD, want.TVD, 1e-6)
	assertClose(t, "easting", next.Easting, want.Easting, 1e-6)
}

func TestInterpolateExactStation(t *testing.T) {
	c, err := NewChainFromSurveys("well-1", Config{}, buildSurveys())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st, err := c.Interpolate(2000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.ID != c.Stations()[2].ID {
		t.Fatal("expected the stored station to be returned")
	}
}

func TestInterpolateOutOfRange(t *testing.T) {
	c, err := NewChainFromSurveys("well-1", Config{}, buildSurveys()[1:])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, md := range []float64{500, 3500} {
		if _, err := c.Interpolate(md); !errors.Is(err, calcerr.ErrInvalidInput) {
			t.Fatalf("md %g: expected invalid input, got %v", md, err)
		}
	}

	empty := NewChain("empty", Config{})
	if _, err := empty.Interpolate(10); !errors.Is(err, calcerr.ErrInvalidInput) {
		t.Fatalf("expected invalid input on empty chain, got %v", err)
	}
}

func TestInterpolateStraightSection(t *testing.T) {
	c, err := NewChainFromSurveys("well-1", Config{}, []Survey{
		{MeasuredDepth: 1000, InclinationDeg: 30, AzimuthDeg: 45},
		{MeasuredDepth: 2000, InclinationDeg: 30, AzimuthDeg: 45},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st, err := c.Interpolate(1250)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, "inclination", st.InclinationDeg, 30, 1e-9)
	assertClose(t, "azimuth", st.AzimuthDeg, 45, 1e-9)
	if st.DLSDegPer100ft > 1e-6 {
		t.Fatalf("expected zero dls, got %g", st.DLSDegPer100ft)
	}
}

func TestSlerpRejectsOpposedTangents(t *testing.T) {
	down, up := tangent(0, 0), tangent(180, 0)
	if _, err := slerp(down, up, math.Pi, 0.5); !errors.Is(err, calcerr.ErrDegenerateGeometry) {
		t.Fatalf("expected degenerate geometry, got %v", err)
	}

	mid, err := slerp(down, tangent(90, 0), math.Pi/2, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inc, az := direction(mid)
	assertClose(t, "inclination", inc, 45, 1e-9)
	assertClose(t, "azimuth", az, 0, 1e-9)
	assertClose(t, "length", r3.Norm(mid), 1, 1e-12)
}
