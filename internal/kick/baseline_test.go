package kick

import (
	"math"
	"sync"
	"testing"

	"drilling-engine/internal/params"
)

func TestNewWindowRejectsEmpty(t *testing.T) {
	if _, err := NewWindow(0); err == nil {
		t.Fatal("expected error for zero size")
	}
}

func TestWindowRollsOff(t *testing.T) {
	w, err := NewWindow(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, gas := range []float64{100, 10, 20, 30} {
		w.Add(params.Snapshot{GasUnits: f(gas)})
	}
	w.Add(params.Snapshot{StandpipePressurePsi: f(2000)})

	b := w.Baseline()
	if b.GasSamples != 3 {
		t.Fatalf("expected 3 gas samples, got %d", b.GasSamples)
	}
	if b.GasMean != 20 {
		t.Fatalf("expected gas mean 20, got %g", b.GasMean)
	}
	if math.Abs(b.GasStdDev-10) > 1e-9 {
		t.Fatalf("expected gas std dev 10, got %g", b.GasStdDev)
	}
	if b.SPPSamples != 1 || b.SPPMean != 2000 || b.SPPStdDev != 0 {
		t.Fatalf("unexpected spp baseline %+v", b)
	}
	if b.PitSamples != 0 || b.PitVolumeMean != 0 {
		t.Fatalf("expected empty pit baseline, got %+v", b)
	}
}

func TestWindowConcurrentAdds(t *testing.T) {
	w, err := NewWindow(1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				w.Add(params.Snapshot{GasUnits: f(5)})
				_ = w.Baseline()
			}
		}()
	}
	wg.Wait()

	if b := w.Baseline(); b.GasSamples != 500 || b.GasMean != 5 {
		t.Fatalf("expected 500 samples of 5, got %+v", b)
	}
}

func TestWindowObserveExcludesOwnSample(t *testing.T) {
	w, err := NewWindow(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b := w.Observe(params.Snapshot{GasUnits: f(10)}); b.GasSamples != 0 {
		t.Fatalf("expected empty baseline before the first sample, got %+v", b)
	}
	b := w.Observe(params.Snapshot{GasUnits: f(30)})
	if b.GasSamples != 1 || b.GasMean != 10 {
		t.Fatalf("expected baseline of the first sample only, got %+v", b)
	}
	if b := w.Baseline(); b.GasSamples != 2 || b.GasMean != 20 {
		t.Fatalf("expected both samples recorded, got %+v", b)
	}
}

func TestWindowObserveIsAtomic(t *testing.T) {
	const goroutines, perGoroutine = 10, 50

	w, err := NewWindow(goroutines * perGoroutine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var (
		mu   sync.Mutex
		seen = make(map[int]int)
		wg   sync.WaitGroup
	)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				b := w.Observe(params.Snapshot{GasUnits: f(5)})
				mu.Lock()
				seen[b.GasSamples]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	for n := 0; n < goroutines*perGoroutine; n++ {
		if seen[n] != 1 {
			t.Fatalf("expected exactly one caller to see %d prior samples, got %d", n, seen[n])
		}
	}
}
