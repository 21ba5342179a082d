package summary

import (
	"github.com/katalvlaran/mtc/convergence"
	"github.com/katalvlaran/mtc/mcmc"
)

// Convergence holds the Gelman-Rubin diagnostic of one parameter.
type Convergence struct {
	listener
	param mcmc.Parameter
	opts  []convergence.Option
	diag  convergence.Diagnostic
}

// NewConvergence attaches a convergence summary of p to r.
func NewConvergence(r mcmc.Results, p mcmc.Parameter, opts ...convergence.Option) *Convergence {
	s := &Convergence{param: p, opts: opts}
	s.attach(r, s.calculate)
	return s
}

func (s *Convergence) calculate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := convergence.GelmanRubin(s.results, s.param, s.opts...)
	if err == nil {
		s.diag = d
	}
	s.settle(err)
}

// Parameter returns the summarized parameter.
func (s *Convergence) Parameter() mcmc.Parameter { return s.param }

// ScaleReduction returns the PSRF.
func (s *Convergence) ScaleReduction() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.diag.PSRF
}

// Diagnostic returns the full diagnostic.
func (s *Convergence) Diagnostic() convergence.Diagnostic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.diag
}
