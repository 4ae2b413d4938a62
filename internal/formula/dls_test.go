package formula

import (
	"math"
	"testing"
)

func TestDLSBuildAndTurn(t *testing.T) {
	res, err := New(DefaultConfig()).DLS(DLSRequest{MD1: 0, Inc1: 0, Az1: 0, MD2: 1000, Inc2: 10, Az2: 90})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertDecimal(t, "course", res.CourseLengthFt, "1000")
	assertDecimal(t, "dogleg", res.DoglegDeg, "10")
	assertDecimal(t, "dls", res.DLSDegPer100ft, "1")
	assertDecimal(t, "build", res.BuildRate, "1")
	assertDecimal(t, "turn", res.TurnRate, "9")
	if res.Severity != SeverityLow {
		t.Fatalf("expected %s, got %s", SeverityLow, res.Severity)
	}
}

func TestDLSTurnRateWrapsAcrossNorth(t *testing.T) {
	res, err := New(DefaultConfig()).DLS(DLSRequest{MD1: 1000, Inc1: 45, Az1: 355, MD2: 1100, Inc2: 45, Az2: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "turn", res.TurnRate, "10")
}

func TestDLSHighClassification(t *testing.T) {
	calc := New(Config{Precision: 2, DLSHighDegPer100ft: 5})
	res, err := calc.DLS(DLSRequest{MD1: 1000, Inc1: 10, Az1: 0, MD2: 1100, Inc2: 22, Az2: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Classification != HighDLS {
		t.Fatalf("expected %s, got %s", HighDLS, res.Classification)
	}
	if res.Severity != SeveritySevere {
		t.Fatalf("expected %s, got %s", SeveritySevere, res.Severity)
	}
}

func TestDLSRejectsZeroCourseLength(t *testing.T) {
	_, err := New(DefaultConfig()).DLS(DLSRequest{MD1: 1000, Inc1: 10, Az1: 0, MD2: 1000, Inc2: 12, Az2: 0})
	assertInvalidField(t, err, "course_length")
}

func TestDLSRejectsOutOfRangeAngles(t *testing.T) {
	calc := New(DefaultConfig())

	_, err := calc.DLS(DLSRequest{MD1: 0, Inc1: 181, MD2: 100})
	assertInvalidField(t, err, "station1.inclination_deg")

	_, err = calc.DLS(DLSRequest{MD1: 0, MD2: 100, Az2: 360})
	assertInvalidField(t, err, "station2.azimuth_deg")
}

func TestDoglegAngleStraightHoldIsZero(t *testing.T) {
	for _, inc := range []float64{0, 0.001, 12.5, 45, 89.999, 90, 135} {
		for _, az := range []float64{0, 33.3, 180, 359.9} {
			theta := DoglegAngle(inc, az, inc, az)
			if math.IsNaN(theta) {
				t.Fatalf("inc %g az %g: dogleg is NaN", inc, az)
			}
			if theta != 0 {
				t.Fatalf("inc %g az %g: expected zero dogleg, got %g", inc, az, theta)
			}
		}
	}
}

func TestClassifyDLSBands(t *testing.T) {
	tests := []struct {
		dls  float64
		want Severity
	}{
		{0, SeverityLow},
		{2.99, SeverityLow},
		{3, SeverityModerate},
		{5.99, SeverityModerate},
		{6, SeverityHigh},
		{9.99, SeverityHigh},
		{10, SeveritySevere},
		{25, SeveritySevere},
	}
	for _, tc := range tests {
		if got := ClassifyDLS(tc.dls); got != tc.want {
			t.Fatalf("dls %g: expected %s, got %s", tc.dls, tc.want, got)
		}
	}
}

func TestWrapAzimuthDelta(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{10, 10},
		{-350, 10},
		{350, -10},
		{180, 180},
		{-180, 180},
		{720, 0},
	}
	for _, tc := range tests {
		if got := wrapAzimuthDelta(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("delta %g: expected %g, got %g", tc.in, tc.want, got)
		}
	}
}
