package trajectory

import (
	"fmt"
	"sort"
	"sync"

	"drilling-engine/internal/calcerr"
)

// ErrChainNotFound is returned by View for an unknown chain id. It matches
// calcerr.ErrNotFound.
var ErrChainNotFound = fmt.Errorf("chain %w", calcerr.ErrNotFound)

type entry struct {
	mu    sync.Mutex
	chain *Chain
	// removed is set, under mu, once the entry has left the registry.
	removed bool
}

// Registry holds one chain per well or run id. Operations on the same id are
// serialized; different ids proceed in parallel.
type Registry struct {
	cfg Config

	mu     sync.Mutex
	chains map[string]*entry
}

// NewRegistry returns an empty registry whose new chains use cfg.
func NewRegistry(cfg Config) *Registry {
	return &Registry{cfg: cfg, chains: make(map[string]*entry)}
}

func (r *Registry) lookup(id string, create bool) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.chains[id]
	if !ok && create {
		e = &entry{chain: NewChain(id, r.cfg)}
		r.chains[id] = e
	}
	return e
}

// Do runs fn with exclusive access to the chain for id, creating an empty
// chain when none exists. A chain that is still empty after fn fails is
// dropped again, so a rejected first write leaves no well behind.
func (r *Registry) Do(id string, fn func(*Chain) error) error {
	if id == "" {
		return calcerr.InvalidInput("well_id", "must not be empty")
	}

	for {
		e := r.lookup(id, true)

		e.mu.Lock()
		if e.removed {
			e.mu.Unlock()
			continue
		}

		err := fn(e.chain)
		if err != nil && e.chain.Len() == 0 {
			r.remove(id, e)
		}
		e.mu.Unlock()
		return err
	}
}

// View runs fn with exclusive access to an existing chain.
func (r *Registry) View(id string, fn func(*Chain) error) error {
	e := r.lookup(id, false)
	if e == nil {
		return fmt.Errorf("%w: %q", ErrChainNotFound, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return fmt.Errorf("%w: %q", ErrChainNotFound, id)
	}
	return fn(e.chain)
}

// Delete drops the chain for id.
func (r *Registry) Delete(id string) {
	e := r.lookup(id, false)
	if e == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	r.remove(id, e)
}

// remove unlinks e from the registry. The caller holds e.mu.
func (r *Registry) remove(id string, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.chains[id] == e {
		delete(r.chains, id)
	}
	e.removed = true
}

// IDs returns the known chain ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.chains))
	for id := range r.chains {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
