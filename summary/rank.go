package summary

import (
	"fmt"
	"slices"
	"sort"

	"github.com/katalvlaran/mtc/mcmc"
	"github.com/katalvlaran/mtc/model"
	"github.com/katalvlaran/mtc/mtcerr"
	"github.com/katalvlaran/mtc/parameterization"
)

// ErrTooFewTreatments is returned by NewRankProbability for fewer than two
// treatments.
var ErrTooFewTreatments = fmt.Errorf("%w: summary: at least two treatments required", mtcerr.ErrConfiguration)

// RankProbability estimates, for each treatment, the probability of taking
// each rank. Rank 1 is the treatment with the largest effect relative to
// the first treatment.
//
// The effect of treatment t relative to the first treatment b is the sum of
// the basic parameters on the spanning-tree path from b to t, evaluated per
// pooled sample. Ties are ranked by treatment order.
type RankProbability struct {
	listener
	pmtz       *parameterization.Parameterization
	treatments []string
	prob       [][]float64 // [treatment][ascending rank]
}

// NewRankProbability attaches a rank probability summary for treatments,
// given as ids, to r. Samples for the basic parameters of p are looked up
// by name.
func NewRankProbability(r mcmc.Results, p *parameterization.Parameterization, treatments []string) (*RankProbability, error) {
	if len(treatments) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewTreatments, len(treatments))
	}
	for _, id := range treatments {
		if _, ok := p.Network().Treatment(id); !ok {
			return nil, fmt.Errorf("%w: %q", model.ErrUnknownTreatment, id)
		}
	}
	s := &RankProbability{pmtz: p, treatments: slices.Clone(treatments)}
	s.attach(r, s.calculate)
	return s, nil
}

// Treatments returns the ranked treatment ids.
func (s *RankProbability) Treatments() []string { return slices.Clone(s.treatments) }

// Value returns the probability that treatment t has the given rank, with
// rank 1 the best. It is 0 until the summary is defined.
func (s *RankProbability) Value(t string, rank int) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ti := slices.Index(s.treatments, t)
	n := len(s.treatments)
	if !s.defined || ti < 0 || rank < 1 || rank > n {
		return 0
	}
	return s.prob[ti][n-rank]
}

// Matrix returns the probabilities indexed [treatment][rank-1].
func (s *RankProbability) Matrix() [][]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.treatments)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		if s.defined {
			for r := 1; r <= n; r++ {
				out[i][r-1] = s.prob[i][n-r]
			}
		}
	}
	return out
}

func (s *RankProbability) calculate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	effects, err := s.effects()
	if err != nil {
		s.settle(err)
		return
	}

	n := len(s.treatments)
	samples := len(effects[0])
	counts := make([][]int, n)
	for i := range counts {
		counts[i] = make([]int, n)
	}
	order := make([]int, n)
	for k := 0; k < samples; k++ {
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return effects[order[a]][k] < effects[order[b]][k]
		})
		for r, ti := range order {
			counts[ti][r]++
		}
	}

	s.prob = make([][]float64, n)
	for i := range counts {
		s.prob[i] = make([]float64, n)
		for r, c := range counts[i] {
			s.prob[i][r] = float64(c) / float64(samples)
		}
	}
	s.settle(nil)
}

// effects returns, per treatment, the pooled samples of its effect relative
// to the first treatment. The first row is all zeros.
func (s *RankProbability) effects() ([][]float64, error) {
	base := s.treatments[0]
	pooled := make(map[string][]float64)
	out := make([][]float64, len(s.treatments))
	for i, t := range s.treatments[1:] {
		expr, err := s.pmtz.Parameterize(base, t)
		if err != nil {
			return nil, err
		}
		var row []float64
		for _, term := range expr.Terms() {
			bp, ok := term.(*parameterization.BasicParameter)
			if !ok {
				continue
			}
			xs, ok := pooled[bp.Name()]
			if !ok {
				if xs, err = Pooled(s.results, bp); err != nil {
					return nil, err
				}
				pooled[bp.Name()] = xs
			}
			if row == nil {
				row = make([]float64, len(xs))
			}
			for k, v := range xs {
				row[k] += float64(expr[term]) * v
			}
		}
		out[i+1] = row
	}

	samples := 0
	for _, row := range out {
		samples = max(samples, len(row))
	}
	if samples == 0 {
		return nil, fmt.Errorf("%w: no samples to rank", ErrTooFewSamples)
	}
	for i, row := range out {
		if row == nil {
			out[i] = make([]float64, samples)
		}
	}
	return out, nil
}
