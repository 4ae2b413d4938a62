package trajectory

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"drilling-engine/internal/calcerr"
)

// Config holds per-chain settings.
type Config struct {
	// VerticalSectionAzimuthDeg is the reference direction vertical section
	// is projected onto.
	VerticalSectionAzimuthDeg float64 `yaml:"vertical_section_azimuth_deg"`
}

// Validate checks the vertical section azimuth.
func (c Config) Validate() error {
	if math.IsNaN(c.VerticalSectionAzimuthDeg) || c.VerticalSectionAzimuthDeg < 0 || c.VerticalSectionAzimuthDeg >= 360 {
		return calcerr.InvalidInputf("vertical_section_azimuth_deg", "must be within [0, 360), got %g", c.VerticalSectionAzimuthDeg)
	}
	return nil
}

// Chain is the ordered station list of one well or run.
type Chain struct {
	id       string
	cfg      Config
	stations []Station
}

// NewChain returns an empty chain.
func NewChain(id string, cfg Config) *Chain {
	return &Chain{id: id, cfg: cfg}
}

// NewChainFromSurveys builds and computes a chain in one pass. Surveys must
// already be sorted by strictly increasing measured depth.
func NewChainFromSurveys(id string, cfg Config, surveys []Survey) (*Chain, error) {
	c := NewChain(id, cfg)
	for _, s := range surveys {
		if _, err := c.Add(s); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ID returns the chain identifier.
func (c *Chain) ID() string { return c.id }

// Config returns the chain settings.
func (c *Chain) Config() Config { return c.cfg }

// Len returns the number of stations.
func (c *Chain) Len() int { return len(c.stations) }

// Stations returns a copy of the stations in measured depth order.
func (c *Chain) Stations() []Station {
	out := make([]Station, len(c.stations))
	copy(out, c.stations)
	return out
}

// Last returns the deepest station.
func (c *Chain) Last() (Station, bool) {
	if len(c.stations) == 0 {
		return Station{}, false
	}
	return c.stations[len(c.stations)-1], true
}

// Add appends a survey below the current deepest station and computes it.
func (c *Chain) Add(s Survey) (Station, error) {
	var prev *Station
	if n := len(c.stations); n > 0 {
		prev = &c.stations[n-1]
		if s.MeasuredDepth <= prev.MeasuredDepth {
			return Station{}, calcerr.InvalidStationOrder(s.MeasuredDepth, prev.MeasuredDepth)
		}
	}

	st, err := ComputeStation(prev, s, c.cfg.VerticalSectionAzimuthDeg)
	if err != nil {
		return Station{}, err
	}
	st.ID = uuid.New()
	c.stations = append(c.stations, st)
	return st, nil
}

// AddAll appends surveys in order. If any survey fails the chain is left as
// it was and no station is added.
func (c *Chain) AddAll(surveys []Survey) ([]Station, error) {
	n := len(c.stations)
	for i, s := range surveys {
		if _, err := c.Add(s); err != nil {
			clear(c.stations[n:])
			c.stations = c.stations[:n]
			return nil, fmt.Errorf("survey %d: %w", i, err)
		}
	}
	out := make([]Station, len(surveys))
	copy(out, c.stations[n:])
	return out, nil
}

// RecalculateAll recomputes every station from the tie-in down and returns
// the rewritten stations.
func (c *Chain) RecalculateAll() ([]Station, error) {
	return c.recalculate(0)
}

// RecalculateFrom keeps the last station at or above depth as the
// predecessor and recomputes every station below it. It returns the
// rewritten stations. A depth above the tie-in recomputes the whole chain.
func (c *Chain) RecalculateFrom(depth float64) ([]Station, error) {
	if math.IsNaN(depth) {
		return nil, calcerr.InvalidInput("depth", "must be a number")
	}
	// index of the first station strictly below depth
	start := sort.Search(len(c.stations), func(i int) bool {
		return c.stations[i].MeasuredDepth > depth
	})
	return c.recalculate(start)
}

// recalculate rewrites stations[start:] into a scratch copy and only swaps it
// in once every station has computed.
func (c *Chain) recalculate(start int) ([]Station, error) {
	next := c.Stations()
	for i := start; i < len(next); i++ {
		var prev *Station
		if i > 0 {
			prev = &next[i-1]
		}
		st, err := ComputeStation(prev, next[i].Survey(), c.cfg.VerticalSectionAzimuthDeg)
		if err != nil {
			return nil, err
		}
		st.ID = next[i].ID
		next[i] = st
	}
	c.stations = next

	out := make([]Station, len(next)-start)
	copy(out, next[start:])
	return out, nil
}

// UpdateSurvey replaces the raw reading of the station at s.MeasuredDepth
// and recomputes that station and everything below it.
func (c *Chain) UpdateSurvey(s Survey) ([]Station, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	idx := c.indexOf(s.MeasuredDepth)
	if idx < 0 {
		return nil, calcerr.InvalidInputf("measured_depth", "no station at md %g", s.MeasuredDepth)
	}

	old := c.stations[idx]
	c.stations[idx].InclinationDeg = s.InclinationDeg
	c.stations[idx].AzimuthDeg = s.AzimuthDeg
	c.stations[idx].IsDefinitive = s.Definitive

	out, err := c.recalculate(idx)
	if err != nil {
		c.stations[idx] = old
		return nil, err
	}
	return out, nil
}

// SetVerticalSectionAzimuth changes the reference azimuth and recomputes the
// whole chain.
func (c *Chain) SetVerticalSectionAzimuth(deg float64) ([]Station, error) {
	cfg := Config{VerticalSectionAzimuthDeg: deg}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	old := c.cfg
	c.cfg = cfg
	out, err := c.RecalculateAll()
	if err != nil {
		c.cfg = old
		return nil, err
	}
	return out, nil
}

func (c *Chain) indexOf(md float64) int {
	i := sort.Search(len(c.stations), func(i int) bool {
		return c.stations[i].MeasuredDepth >= md
	})
	if i < len(c.stations) && c.stations[i].MeasuredDepth == md {
		return i
	}
	return -1
}
