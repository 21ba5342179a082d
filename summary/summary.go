package summary

import (
	"fmt"
	"sync"

	"github.com/katalvlaran/mtc/mcmc"
	"github.com/katalvlaran/mtc/mtcerr"
)

// ErrMissingParameter is returned when a summarized parameter is not part of
// the results.
var ErrMissingParameter = fmt.Errorf("%w: summary: parameter missing from results", mtcerr.ErrStructural)

// Summary is the common surface of all summaries.
type Summary interface {
	// Defined reports whether the summary has been computed.
	Defined() bool
	// Err returns the error of the last computation, if any.
	Err() error
	// Close detaches the summary from its results.
	Close()
}

// listener is embedded by every summary. It owns the registration on the
// results and the defined/error state.
type listener struct {
	results mcmc.Results
	id      int

	mu      sync.RWMutex
	defined bool
	err     error
}

func (l *listener) attach(r mcmc.Results, calc func()) {
	l.results = r
	l.id = r.AddListener(func(mcmc.Results) { calc() })
	if r.Available() {
		calc()
	}
}

func (l *listener) settle(err error) {
	l.defined = err == nil
	l.err = err
}

// Defined reports whether the summary holds a value.
func (l *listener) Defined() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.defined
}

// Err returns the error of the last computation.
func (l *listener) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// Close removes the readiness listener.
func (l *listener) Close() { l.results.RemoveListener(l.id) }

// Pooled returns the second half of every chain of parameter p,
// concatenated in chain order.
func Pooled(r mcmc.Results, p mcmc.Parameter) ([]float64, error) {
	idx := r.FindParameter(p)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingParameter, p.Name())
	}
	half, err := mcmc.LastHalf(r)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, half.NumberOfChains()*half.NumberOfSamples())
	for c := 0; c < half.NumberOfChains(); c++ {
		xs, err := half.Samples(idx, c)
		if err != nil {
			return nil, err
		}
		out = append(out, xs...)
	}
	return out, nil
}

var (
	_ Summary = (*Normal)(nil)
	_ Summary = (*Quantile)(nil)
	_ Summary = (*Convergence)(nil)
	_ Summary = (*RankProbability)(nil)
	_ Summary = (*NodeSplitPValue)(nil)
)
