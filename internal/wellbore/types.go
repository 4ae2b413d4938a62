package wellbore

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"drilling-engine/internal/strictjson"
	"drilling-engine/internal/trajectory"
)

// AddStationsRequest is the JSON body for POST /trajectory/{wellID}/stations.
// Surveys are appended in order after the chain's last station.
type AddStationsRequest struct {
	Surveys []trajectory.Survey `json:"surveys"`
}

// UnmarshalJSON rejects bodies that omit a required field.
func (r *AddStationsRequest) UnmarshalJSON(data []byte) error {
	type plain AddStationsRequest
	return strictjson.Unmarshal(data, (*plain)(r))
}

// StationView is the wire form of a station. Values are decimals carrying
// the full precision of the computed float64, not a rounded copy.
type StationView struct {
	ID                  uuid.UUID       `json:"id"`
	MeasuredDepth       decimal.Decimal `json:"measured_depth"`
	InclinationDeg      decimal.Decimal `json:"inclination_deg"`
	AzimuthDeg          decimal.Decimal `json:"azimuth_deg"`
	TVD                 decimal.Decimal `json:"tvd"`
	Northing            decimal.Decimal `json:"northing"`
	Easting             decimal.Decimal `json:"easting"`
	DLSDegPer100ft      decimal.Decimal `json:"dls_deg_per_100ft"`
	VerticalSection     decimal.Decimal `json:"vertical_section"`
	ClosureDistance     decimal.Decimal `json:"closure_distance"`
	ClosureDirectionDeg decimal.Decimal `json:"closure_direction_deg"`
	IsDefinitive        bool            `json:"is_definitive"`
}

// NewStationView converts st for output.
func NewStationView(st trajectory.Station) StationView {
	return StationView{
		ID:                  st.ID,
		MeasuredDepth:       decimal.NewFromFloat(st.MeasuredDepth),
		InclinationDeg:      decimal.NewFromFloat(st.InclinationDeg),
		AzimuthDeg:          decimal.NewFromFloat(st.AzimuthDeg),
		TVD:                 decimal.NewFromFloat(st.TVD),
		Northing:            decimal.NewFromFloat(st.Northing),
		Easting:             decimal.NewFromFloat(st.Easting),
		DLSDegPer100ft:      decimal.NewFromFloat(st.DLSDegPer100ft),
		VerticalSection:     decimal.NewFromFloat(st.VerticalSection),
		ClosureDistance:     decimal.NewFromFloat(st.ClosureDistance),
		ClosureDirectionDeg: decimal.NewFromFloat(st.ClosureDirectionDeg),
		IsDefinitive:        st.IsDefinitive,
	}
}

// StationsResponse lists stations of one well. For writes it holds only the
// stations that were added or rewritten.
type StationsResponse struct {
	WellID   string        `json:"well_id"`
	Stations []StationView `json:"stations"`
	Total    int           `json:"total"`
}

func newStationsResponse(wellID string, stations []trajectory.Station, total int) StationsResponse {
	views := make([]StationView, len(stations))
	for i, st := range stations {
		views[i] = NewStationView(st)
	}
	return StationsResponse{WellID: wellID, Stations: views, Total: total}
}

// VerticalSectionRequest is the JSON body for
// PUT /trajectory/{wellID}/vertical-section.
type VerticalSectionRequest struct {
	AzimuthDeg float64 `json:"azimuth_deg"`
}

// UnmarshalJSON rejects bodies that omit a required field.
func (r *VerticalSectionRequest) UnmarshalJSON(data []byte) error {
	type plain VerticalSectionRequest
	return strictjson.Unmarshal(data, (*plain)(r))
}

// InterpolateResponse is the JSON response for
// GET /trajectory/{wellID}/interpolate.
type InterpolateResponse struct {
	WellID  string      `json:"well_id"`
	Station StationView `json:"station"`
}

// WellsResponse is the JSON response for GET /trajectory.
type WellsResponse struct {
	Wells []string `json:"wells"`
}
