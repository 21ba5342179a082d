package mcmc

import (
	"fmt"
	"sync"

	"github.com/katalvlaran/mtc/internal/telemetry"
)

type registration struct {
	id int
	fn Listener
}

// MemoryResults stores every sample in memory. Samples are written with Set
// or SetChain and become readable after MakeAvailable.
//
// MemoryResults is safe for concurrent use; chains may be filled from
// separate goroutines.
type MemoryResults struct {
	params  []Parameter
	chains  int
	samples int

	mu        sync.RWMutex
	data      [][]float64 // index p*chains + c
	available bool
	listeners []registration
	nextID    int
}

// NewMemoryResults allocates an unavailable provider for the given shape.
func NewMemoryResults(params []Parameter, chains, samples int) (*MemoryResults, error) {
	if len(params) == 0 || chains <= 0 || samples <= 0 {
		return nil, fmt.Errorf("%w: %d parameters, %d chains, %d samples", ErrInvalidShape, len(params), chains, samples)
	}
	r := &MemoryResults{
		params:  append([]Parameter(nil), params...),
		chains:  chains,
		samples: samples,
	}
	r.alloc()
	return r, nil
}

func (r *MemoryResults) alloc() {
	r.data = make([][]float64, len(r.params)*r.chains)
	for i := range r.data {
		r.data[i] = make([]float64, r.samples)
	}
}

// Parameters returns a copy of the parameter list.
func (r *MemoryResults) Parameters() []Parameter { return append([]Parameter(nil), r.params...) }

// FindParameter returns the index of p, or -1.
func (r *MemoryResults) FindParameter(p Parameter) int { return FindParameter(r.params, p) }

// NumberOfChains returns the chain count.
func (r *MemoryResults) NumberOfChains() int { return r.chains }

// NumberOfSamples returns the per-chain sample count once available, else 0.
func (r *MemoryResults) NumberOfSamples() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.available {
		return 0
	}
	return r.samples
}

// Capacity is the per-chain sample count regardless of availability.
func (r *MemoryResults) Capacity() int { return r.samples }

// Available reports whether samples may be read.
func (r *MemoryResults) Available() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.available
}

func (r *MemoryResults) check(p, c int) error {
	if p < 0 || p >= len(r.params) || c < 0 || c >= r.chains {
		return fmt.Errorf("%w: parameter %d, chain %d", ErrOutOfRange, p, c)
	}
	return nil
}

// Sample returns sample i of chain c of parameter p.
func (r *MemoryResults) Sample(p, c, i int) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.available {
		return 0, ErrUnavailable
	}
	if err := r.check(p, c); err != nil {
		return 0, err
	}
	if i < 0 || i >= r.samples {
		return 0, fmt.Errorf("%w: sample %d of %d", ErrOutOfRange, i, r.samples)
	}
	return r.data[p*r.chains+c][i], nil
}

// Samples returns a copy of chain c of parameter p.
func (r *MemoryResults) Samples(p, c int) ([]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.available {
		return nil, ErrUnavailable
	}
	if err := r.check(p, c); err != nil {
		return nil, err
	}
	return append([]float64(nil), r.data[p*r.chains+c]...), nil
}

// SampleRange returns a copy of samples [start, end) of one chain.
func (r *MemoryResults) SampleRange(p, c, start, end int) ([]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.available {
		return nil, ErrUnavailable
	}
	if err := r.check(p, c); err != nil {
		return nil, err
	}
	if start < 0 || end > r.samples || start > end {
		return nil, fmt.Errorf("%w: range [%d, %d) of %d samples", ErrOutOfRange, start, end, r.samples)
	}
	return append([]float64(nil), r.data[p*r.chains+c][start:end]...), nil
}

// Set writes one sample. Writes are allowed in either state.
func (r *MemoryResults) Set(p, c, i int, v float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(p, c); err != nil {
		return err
	}
	if i < 0 || i >= r.samples {
		return fmt.Errorf("%w: sample %d of %d", ErrOutOfRange, i, r.samples)
	}
	r.data[p*r.chains+c][i] = v
	return nil
}

// SetChain copies a full chain of samples for parameter p.
func (r *MemoryResults) SetChain(p, c int, values []float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(p, c); err != nil {
		return err
	}
	if len(values) != r.samples {
		return fmt.Errorf("%w: chain of %d samples, want %d", ErrOutOfRange, len(values), r.samples)
	}
	copy(r.data[p*r.chains+c], values)
	return nil
}

// MakeAvailable publishes the samples and notifies every listener
// synchronously, in registration order. Later calls are no-ops until Clear.
func (r *MemoryResults) MakeAvailable() {
	r.mu.Lock()
	if r.available {
		r.mu.Unlock()
		return
	}
	r.available = true
	ls := append([]registration(nil), r.listeners...)
	r.mu.Unlock()

	telemetry.ResultsPublished.Inc()
	for _, l := range ls {
		l.fn(r)
	}
}

// Clear drops all samples and returns the provider to the unavailable
// state. Listeners stay registered and fire again on the next
// MakeAvailable.
func (r *MemoryResults) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.available = false
	r.alloc()
}

// AddListener registers fn for the next readiness event.
func (r *MemoryResults) AddListener(fn Listener) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.listeners = append(r.listeners, registration{id: r.nextID, fn: fn})
	return r.nextID
}

// RemoveListener unregisters the listener with the given handle.
func (r *MemoryResults) RemoveListener(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.listeners {
		if l.id == id {
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}
