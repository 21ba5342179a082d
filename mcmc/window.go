package mcmc

import "fmt"

// Window exposes samples [start, end) of another provider. It holds no
// samples of its own; readiness, listeners and reads go to the nested
// provider.
type Window struct {
	nested     Results
	start, end int
}

var _ Results = (*Window)(nil)

// NewWindow returns a window over samples [start, end) of nested. If nested
// is already available the range is checked against its sample count;
// otherwise the check happens on read.
func NewWindow(nested Results, start, end int) (*Window, error) {
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: window [%d, %d)", ErrOutOfRange, start, end)
	}
	w := &Window{nested: nested, start: start, end: end}
	if nested.Available() {
		if err := w.bounds(); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// LastHalf returns the window over the second half of every chain of an
// available provider.
func LastHalf(r Results) (*Window, error) {
	if !r.Available() {
		return nil, ErrUnavailable
	}
	n := r.NumberOfSamples()
	if n < 2 {
		return nil, fmt.Errorf("%w: %d samples cannot be halved", ErrOutOfRange, n)
	}
	return NewWindow(r, n-n/2, n)
}

func (w *Window) bounds() error {
	if n := w.nested.NumberOfSamples(); w.end > n {
		return fmt.Errorf("%w: window [%d, %d) over %d samples", ErrOutOfRange, w.start, w.end, n)
	}
	return nil
}

// Start returns the first nested sample index of the window.
func (w *Window) Start() int { return w.start }

// End returns the nested sample index one past the window.
func (w *Window) End() int { return w.end }

// Parameters returns the nested parameters.
func (w *Window) Parameters() []Parameter { return w.nested.Parameters() }

// FindParameter returns the nested parameter index of p.
func (w *Window) FindParameter(p Parameter) int { return w.nested.FindParameter(p) }

// NumberOfChains returns the nested chain count.
func (w *Window) NumberOfChains() int { return w.nested.NumberOfChains() }

// Available reports the readiness of the nested provider.
func (w *Window) Available() bool { return w.nested.Available() }

// NumberOfSamples returns end-start once the nested provider is available.
func (w *Window) NumberOfSamples() int {
	if !w.nested.Available() {
		return 0
	}
	return w.end - w.start
}

// Sample returns window sample i, which is nested sample start+i.
func (w *Window) Sample(p, c, i int) (float64, error) {
	if !w.nested.Available() {
		return 0, ErrUnavailable
	}
	if err := w.bounds(); err != nil {
		return 0, err
	}
	if i < 0 || i >= w.end-w.start {
		return 0, fmt.Errorf("%w: sample %d of window [%d, %d)", ErrOutOfRange, i, w.start, w.end)
	}
	return w.nested.Sample(p, c, w.start+i)
}

// ranger is implemented by providers that copy a sub-range of a chain
// without materializing the whole chain.
type ranger interface {
	SampleRange(p, c, start, end int) ([]float64, error)
}

// Samples returns a copy of the windowed part of one chain.
func (w *Window) Samples(p, c int) ([]float64, error) {
	return w.SampleRange(p, c, 0, w.end-w.start)
}

// SampleRange returns a copy of samples [start, end) of one chain, indexed
// relative to the window.
func (w *Window) SampleRange(p, c, start, end int) ([]float64, error) {
	if !w.nested.Available() {
		return nil, ErrUnavailable
	}
	if err := w.bounds(); err != nil {
		return nil, err
	}
	if start < 0 || end > w.end-w.start || start > end {
		return nil, fmt.Errorf("%w: range [%d, %d) of window [%d, %d)", ErrOutOfRange, start, end, w.start, w.end)
	}
	if rg, ok := w.nested.(ranger); ok {
		return rg.SampleRange(p, c, w.start+start, w.start+end)
	}
	out := make([]float64, 0, end-start)
	for i := w.start + start; i < w.start+end; i++ {
		v, err := w.nested.Sample(p, c, i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// AddListener registers fn on the nested provider; fn receives the window.
func (w *Window) AddListener(fn Listener) int {
	return w.nested.AddListener(func(Results) { fn(w) })
}

// RemoveListener unregisters a handle returned by AddListener.
func (w *Window) RemoveListener(id int) { w.nested.RemoveListener(id) }
