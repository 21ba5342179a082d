package summary

import (
	"slices"

	"github.com/montanaflynn/stats"

	"github.com/katalvlaran/mtc/mcmc"
)

// DefaultProbabilities give the median and the 95% interval.
var DefaultProbabilities = []float64{0.025, 0.5, 0.975}

// Quantile summarizes a parameter by posterior quantiles.
type Quantile struct {
	listener
	param         mcmc.Parameter
	probabilities []float64
	quantiles     []float64
}

// NewQuantile attaches a quantile summary of p to r. Without probabilities
// DefaultProbabilities are used.
func NewQuantile(r mcmc.Results, p mcmc.Parameter, probabilities ...float64) *Quantile {
	if len(probabilities) == 0 {
		probabilities = DefaultProbabilities
	}
	s := &Quantile{param: p, probabilities: slices.Clone(probabilities)}
	s.attach(r, s.calculate)
	return s
}

func (s *Quantile) calculate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	xs, err := Pooled(s.results, s.param)
	if err != nil {
		s.settle(err)
		return
	}
	qs := make([]float64, len(s.probabilities))
	for i, p := range s.probabilities {
		if qs[i], err = stats.Percentile(xs, p*100); err != nil {
			s.settle(err)
			return
		}
	}
	s.quantiles = qs
	s.settle(nil)
}

// Parameter returns the summarized parameter.
func (s *Quantile) Parameter() mcmc.Parameter { return s.param }

// Probabilities returns the requested probabilities.
func (s *Quantile) Probabilities() []float64 { return slices.Clone(s.probabilities) }

// IndexOf returns the index of probability p, or -1.
func (s *Quantile) IndexOf(p float64) int { return slices.Index(s.probabilities, p) }

// Size is the number of computed quantiles; 0 until defined.
func (s *Quantile) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.quantiles)
}

// Quantile returns the quantile stored at index i.
func (s *Quantile) Quantile(i int) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.quantiles) {
		return 0
	}
	return s.quantiles[i]
}

// Median returns the 0.5 quantile if it was requested.
func (s *Quantile) Median() (float64, bool) {
	i := s.IndexOf(0.5)
	if i < 0 || !s.Defined() {
		return 0, false
	}
	return s.Quantile(i), true
}
