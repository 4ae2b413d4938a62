package kick

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/stat"

	"drilling-engine/internal/params"
)

// Baseline summarises recent readings for the indicators that compare a
// sample against history.
type Baseline struct {
	GasMean       float64 `json:"gas_mean"`
	GasStdDev     float64 `json:"gas_std_dev"`
	GasSamples    int     `json:"gas_samples"`
	SPPMean       float64 `json:"spp_mean"`
	SPPStdDev     float64 `json:"spp_std_dev"`
	SPPSamples    int     `json:"spp_samples"`
	PitVolumeMean float64 `json:"pit_volume_mean"`
	PitSamples    int     `json:"pit_samples"`
}

// ring is a fixed capacity FIFO of float64 samples.
type ring struct {
	buf  []float64
	next int
	full bool
}

func newRing(capacity int) *ring {
	return &ring{buf: make([]float64, capacity)}
}

func (r *ring) push(v float64) {
	r.buf[r.next] = v
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
}

func (r *ring) values() []float64 {
	if r.full {
		out := make([]float64, len(r.buf))
		copy(out, r.buf)
		return out
	}
	out := make([]float64, r.next)
	copy(out, r.buf[:r.next])
	return out
}

func meanStdDev(xs []float64) (mean, std float64) {
	switch len(xs) {
	case 0:
		return 0, 0
	case 1:
		return xs[0], 0
	}
	return stat.MeanStdDev(xs, nil)
}

// Window keeps the last N gas, standpipe pressure and pit volume readings of
// one well. It is safe for concurrent use.
type Window struct {
	mu  sync.Mutex
	gas *ring
	spp *ring
	pit *ring
}

// NewWindow returns a window holding up to size readings per series.
func NewWindow(size int) (*Window, error) {
	if size < 1 {
		return nil, fmt.Errorf("kick window size must be >= 1, got %d", size)
	}
	return &Window{gas: newRing(size), spp: newRing(size), pit: newRing(size)}, nil
}

// Add records the available readings from s.
func (w *Window) Add(s params.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.push(s)
}

// Baseline returns the current summary.
func (w *Window) Baseline() Baseline {
	w.mu.Lock()
	gas, spp, pit := w.gas.values(), w.spp.values(), w.pit.values()
	w.mu.Unlock()
	return summarize(gas, spp, pit)
}

// Observe returns the summary of the readings held before s and then records
// s. Concurrent callers each see a baseline that excludes their own sample
// and includes every sample observed before it.
func (w *Window) Observe(s params.Snapshot) Baseline {
	w.mu.Lock()
	gas, spp, pit := w.gas.values(), w.spp.values(), w.pit.values()
	w.push(s)
	w.mu.Unlock()
	return summarize(gas, spp, pit)
}

// push appends the available readings; the caller holds w.mu.
func (w *Window) push(s params.Snapshot) {
	if s.GasUnits != nil {
		w.gas.push(*s.GasUnits)
	}
	if s.StandpipePressurePsi != nil {
		w.spp.push(*s.StandpipePressurePsi)
	}
	if s.PitVolumeBbl != nil {
		w.pit.push(*s.PitVolumeBbl)
	}
}

func summarize(gas, spp, pit []float64) Baseline {
	var b Baseline
	b.GasMean, b.GasStdDev = meanStdDev(gas)
	b.GasSamples = len(gas)
	b.SPPMean, b.SPPStdDev = meanStdDev(spp)
	b.SPPSamples = len(spp)
	b.PitVolumeMean, _ = meanStdDev(pit)
	b.PitSamples = len(pit)
	return b
}
