package wellbore

import (
	"math"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"drilling-engine/internal/observability"
	"drilling-engine/internal/testutil"
	"drilling-engine/internal/trajectory"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	observability.Logger = zap.NewNop()
	if err := InitMetrics(); err != nil {
		t.Fatalf("initializing wellbore metrics: %v", err)
	}
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(trajectory.NewRegistry(trajectory.Config{VerticalSectionAzimuthDeg: 90})))
	return r
}

const referenceSurveys = `{"surveys":[
	{"measured_depth":0,"inclination_deg":0,"azimuth_deg":0,"definitive":true},
	{"measured_depth":1000,"inclination_deg":10,"azimuth_deg":90,"definitive":true}
]}`

func near(got decimal.Decimal, want, tol float64) bool {
	return math.Abs(got.InexactFloat64()-want) <= tol
}

func TestAddAndListStations(t *testing.T) {
	router := newTestRouter(t)

	w := testutil.Send(t, router, http.MethodPost, "/trajectory/w1/stations", referenceSurveys)
	testutil.RequireStatus(t, w, http.StatusCreated)

	var added StationsResponse
	testutil.DecodeJSONBody(t, w.Body, &added)
	if added.Total != 2 || len(added.Stations) != 2 {
		t.Fatalf("expected 2 stations, got %+v", added)
	}
	st := added.Stations[1]
	if !near(st.TVD, 994.93, 0.01) || !near(st.Easting, 87.1, 0.1) || !near(st.VerticalSection, st.Easting.InexactFloat64(), 1e-9) {
		t.Fatalf("unexpected reference station %+v", st)
	}

	w = testutil.Send(t, router, http.MethodGet, "/trajectory/w1/stations", "")
	testutil.RequireStatus(t, w, http.StatusOK)

	var listed StationsResponse
	testutil.DecodeJSONBody(t, w.Body, &listed)
	if listed.WellID != "w1" || len(listed.Stations) != 2 || listed.Stations[1].ID != st.ID {
		t.Fatalf("unexpected listing %+v", listed)
	}

	w = testutil.Send(t, router, http.MethodGet, "/trajectory", "")
	var wells WellsResponse
	testutil.DecodeJSONBody(t, w.Body, &wells)
	if len(wells.Wells) != 1 || wells.Wells[0] != "w1" {
		t.Fatalf("expected wells [w1], got %v", wells.Wells)
	}
}

func TestAddStationsRejectsOutOfOrderAtomically(t *testing.T) {
	router := newTestRouter(t)

	w := testutil.Send(t, router, http.MethodPost, "/trajectory/w1/stations", referenceSurveys)
	testutil.RequireStatus(t, w, http.StatusCreated)

	body := `{"surveys":[
		{"measured_depth":1100,"inclination_deg":12,"azimuth_deg":90},
		{"measured_depth":1050,"inclination_deg":12,"azimuth_deg":90}
	]}`
	w = testutil.Send(t, router, http.MethodPost, "/trajectory/w1/stations", body)
	testutil.RequireStatus(t, w, http.StatusConflict)

	w = testutil.Send(t, router, http.MethodPost, "/trajectory/w1/stations", `{"surveys":[{"measured_depth":900,"inclination_deg":1,"azimuth_deg":0}]}`)
	testutil.RequireStatus(t, w, http.StatusConflict)

	w = testutil.Send(t, router, http.MethodPost, "/trajectory/w1/stations", `{"surveys":[{"measured_depth":1200,"inclination_deg":1,"azimuth_deg":360}]}`)
	testutil.RequireStatus(t, w, http.StatusBadRequest)

	w = testutil.Send(t, router, http.MethodGet, "/trajectory/w1/stations", "")
	var listed StationsResponse
	testutil.DecodeJSONBody(t, w.Body, &listed)
	if listed.Total != 2 {
		t.Fatalf("expected chain to keep 2 stations, got %d", listed.Total)
	}
}

func TestUnknownWellIsNotFound(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/trajectory/nope/stations", ""},
		{http.MethodPut, "/trajectory/nope/stations", `{"measured_depth":100,"inclination_deg":1,"azimuth_deg":0}`},
		{http.MethodPost, "/trajectory/nope/recalculate", ""},
		{http.MethodGet, "/trajectory/nope/interpolate?md=10", ""},
		{http.MethodDelete, "/trajectory/nope", ""},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := testutil.Send(t, router, tc.method, tc.path, tc.body)
			testutil.RequireStatus(t, w, http.StatusNotFound)
		})
	}
}

func TestUpdateStationRecomputesBelow(t *testing.T) {
	router := newTestRouter(t)

	body := `{"surveys":[
		{"measured_depth":0,"inclination_deg":0,"azimuth_deg":0},
		{"measured_depth":1000,"inclination_deg":10,"azimuth_deg":90},
		{"measured_depth":2000,"inclination_deg":20,"azimuth_deg":90},
		{"measured_depth":3000,"inclination_deg":30,"azimuth_deg":90}
	]}`
	w := testutil.Send(t, router, http.MethodPost, "/trajectory/w1/stations", body)
	testutil.RequireStatus(t, w, http.StatusCreated)

	w = testutil.Send(t, router, http.MethodPut, "/trajectory/w1/stations", `{"measured_depth":2000,"inclination_deg":25,"azimuth_deg":90}`)
	testutil.RequireStatus(t, w, http.StatusOK)

	var resp StationsResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if len(resp.Stations) != 2 || !resp.Stations[0].MeasuredDepth.Equal(decimal.NewFromInt(2000)) || !resp.Stations[0].InclinationDeg.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected stations at 2000 and 3000 rewritten, got %+v", resp.Stations)
	}

	w = testutil.Send(t, router, http.MethodPut, "/trajectory/w1/stations", `{"measured_depth":2500,"inclination_deg":25,"azimuth_deg":90}`)
	testutil.RequireStatus(t, w, http.StatusBadRequest)
}

func TestRecalculate(t *testing.T) {
	router := newTestRouter(t)

	body := `{"surveys":[
		{"measured_depth":0,"inclination_deg":0,"azimuth_deg":0},
		{"measured_depth":1000,"inclination_deg":10,"azimuth_deg":90},
		{"measured_depth":2000,"inclination_deg":20,"azimuth_deg":90}
	]}`
	testutil.Send(t, router, http.MethodPost, "/trajectory/w1/stations", body)

	tests := []struct {
		name string
		path string
		code int
		want int
	}{
		{"all", "/trajectory/w1/recalculate", http.StatusOK, 3},
		{"from depth", "/trajectory/w1/recalculate?fromDepth=1000", http.StatusOK, 1},
		{"bad depth", "/trajectory/w1/recalculate?fromDepth=deep", http.StatusBadRequest, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := testutil.Send(t, router, http.MethodPost, tc.path, "")
			testutil.RequireStatus(t, w, tc.code)
			if tc.code != http.StatusOK {
				return
			}
			var resp StationsResponse
			testutil.DecodeJSONBody(t, w.Body, &resp)
			if len(resp.Stations) != tc.want {
				t.Fatalf("expected %d stations recomputed, got %d", tc.want, len(resp.Stations))
			}
		})
	}
}

func TestSetVerticalSection(t *testing.T) {
	router := newTestRouter(t)
	testutil.Send(t, router, http.MethodPost, "/trajectory/w1/stations", referenceSurveys)

	w := testutil.Send(t, router, http.MethodPut, "/trajectory/w1/vertical-section", `{"azimuth_deg":0}`)
	testutil.RequireStatus(t, w, http.StatusOK)

	var resp StationsResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if len(resp.Stations) != 2 || !near(resp.Stations[1].VerticalSection, 0, 1e-9) {
		t.Fatalf("expected zero section on a north reference for an east well, got %+v", resp.Stations)
	}

	w = testutil.Send(t, router, http.MethodPut, "/trajectory/w1/vertical-section", `{"azimuth_deg":361}`)
	testutil.RequireStatus(t, w, http.StatusBadRequest)
}

func TestInterpolate(t *testing.T) {
	router := newTestRouter(t)
	testutil.Send(t, router, http.MethodPost, "/trajectory/w1/stations", referenceSurveys)

	w := testutil.Send(t, router, http.MethodGet, "/trajectory/w1/interpolate?md=500", "")
	testutil.RequireStatus(t, w, http.StatusOK)

	var resp InterpolateResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if !resp.Station.MeasuredDepth.Equal(decimal.NewFromInt(500)) || resp.Station.IsDefinitive {
		t.Fatalf("expected non-definitive station at 500, got %+v", resp.Station)
	}
	if !near(resp.Station.InclinationDeg, 5, 1e-6) {
		t.Fatalf("expected inclination 5, got %s", resp.Station.InclinationDeg)
	}

	for _, path := range []string{
		"/trajectory/w1/interpolate",
		"/trajectory/w1/interpolate?md=1500",
		"/trajectory/w1/interpolate?md=NaN",
	} {
		w := testutil.Send(t, router, http.MethodGet, path, "")
		testutil.RequireStatus(t, w, http.StatusBadRequest)
	}
}

func TestDeleteWell(t *testing.T) {
	router := newTestRouter(t)
	testutil.Send(t, router, http.MethodPost, "/trajectory/w1/stations", referenceSurveys)

	w := testutil.Send(t, router, http.MethodDelete, "/trajectory/w1", "")
	testutil.RequireStatus(t, w, http.StatusOK)

	w = testutil.Send(t, router, http.MethodGet, "/trajectory/w1/stations", "")
	testutil.RequireStatus(t, w, http.StatusNotFound)
}

func TestAddStationsRequiresSurveyFields(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"no inclination", `{"surveys":[{"measured_depth":0,"azimuth_deg":0}]}`, "inclination_deg"},
		{"no azimuth", `{"surveys":[{"measured_depth":0,"inclination_deg":0}]}`, "azimuth_deg"},
		{"null depth", `{"surveys":[{"measured_depth":null,"inclination_deg":0,"azimuth_deg":0}]}`, "measured_depth"},
		{"no surveys", `{}`, "surveys"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := testutil.Send(t, router, http.MethodPost, "/trajectory/w1/stations", tc.body)
			testutil.RequireErrorField(t, w, http.StatusBadRequest, tc.field)
		})
	}
}

func TestRejectedFirstWriteCreatesNoWell(t *testing.T) {
	router := newTestRouter(t)

	bodies := []string{
		`{"surveys":[{"measured_depth":0,"inclination_deg":0,"azimuth_deg":360}]}`,
		`{"surveys":[{"measured_depth":100,"inclination_deg":0,"azimuth_deg":0},{"measured_depth":50,"inclination_deg":0,"azimuth_deg":0}]}`,
	}
	for _, body := range bodies {
		w := testutil.Send(t, router, http.MethodPost, "/trajectory/w9/stations", body)
		if w.Code < http.StatusBadRequest {
			t.Fatalf("expected rejection for %s, got %d", body, w.Code)
		}
	}

	w := testutil.Send(t, router, http.MethodGet, "/trajectory", "")
	var wells WellsResponse
	testutil.DecodeJSONBody(t, w.Body, &wells)
	if len(wells.Wells) != 0 {
		t.Fatalf("expected no wells after rejected writes, got %v", wells.Wells)
	}
	testutil.RequireStatus(t, testutil.Send(t, router, http.MethodGet, "/trajectory/w9/stations", ""), http.StatusNotFound)
}

func TestVerticalSectionRequiresAzimuth(t *testing.T) {
	router := newTestRouter(t)
	testutil.Send(t, router, http.MethodPost, "/trajectory/w1/stations", referenceSurveys)

	w := testutil.Send(t, router, http.MethodPut, "/trajectory/w1/vertical-section", `{}`)
	testutil.RequireErrorField(t, w, http.StatusBadRequest, "azimuth_deg")
}

func TestStationValuesAreDecimalStrings(t *testing.T) {
	router := newTestRouter(t)

	w := testutil.Send(t, router, http.MethodPost, "/trajectory/w1/stations", referenceSurveys)
	testutil.RequireStatus(t, w, http.StatusCreated)

	var raw struct {
		Stations []map[string]any `json:"stations"`
	}
	testutil.DecodeJSONBody(t, w.Body, &raw)

	for _, key := range []string{"measured_depth", "tvd", "northing", "easting", "dls_deg_per_100ft", "vertical_section"} {
		if _, ok := raw.Stations[1][key].(string); !ok {
			t.Fatalf("expected %s as a decimal string, got %#v", key, raw.Stations[1][key])
		}
	}
}

func TestAddStationsRejectsReversal(t *testing.T) {
	router := newTestRouter(t)

	body := `{"surveys":[
		{"measured_depth":1000,"inclination_deg":90,"azimuth_deg":0},
		{"measured_depth":1100,"inclination_deg":90,"azimuth_deg":180}
	]}`
	w := testutil.Send(t, router, http.MethodPost, "/trajectory/w1/stations", body)
	testutil.RequireStatus(t, w, http.StatusUnprocessableEntity)

	w = testutil.Send(t, router, http.MethodGet, "/trajectory", "")
	var wells WellsResponse
	testutil.DecodeJSONBody(t, w.Body, &wells)
	if len(wells.Wells) != 0 {
		t.Fatalf("expected no wells after a rejected reversal, got %v", wells.Wells)
	}
}
