package summary

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/mtc/mcmc"
	"github.com/katalvlaran/mtc/mtcerr"
)

// ErrTooFewSamples is returned by Normal for results with fewer than four
// samples per chain.
var ErrTooFewSamples = fmt.Errorf("%w: summary: at least four samples required", mtcerr.ErrNumeric)

// Normal summarizes a parameter by its posterior mean and standard
// deviation.
type Normal struct {
	listener
	param  mcmc.Parameter
	mean   float64
	stdDev float64
}

// NewNormal attaches a normal summary of p to r.
func NewNormal(r mcmc.Results, p mcmc.Parameter) *Normal {
	s := &Normal{param: p}
	s.attach(r, s.calculate)
	return s
}

func (s *Normal) calculate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.results.NumberOfSamples(); n < 4 {
		s.settle(fmt.Errorf("%w: got %d", ErrTooFewSamples, n))
		return
	}
	xs, err := Pooled(s.results, s.param)
	if err != nil {
		s.settle(err)
		return
	}
	s.mean, s.stdDev = stat.MeanStdDev(xs, nil)
	s.settle(nil)
}

// Parameter returns the summarized parameter.
func (s *Normal) Parameter() mcmc.Parameter { return s.param }

// Mean returns the posterior mean.
func (s *Normal) Mean() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mean
}

// StdDev returns the posterior standard deviation.
func (s *Normal) StdDev() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stdDev
}
