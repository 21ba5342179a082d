package summary

import (
	"fmt"

	"github.com/katalvlaran/mtc/mcmc"
	"github.com/katalvlaran/mtc/mtcerr"
	"github.com/katalvlaran/mtc/parameterization"
)

// ErrNotNodeSplit is returned by NewNodeSplitPValue for a parameterization
// without a split comparison.
var ErrNotNodeSplit = fmt.Errorf("%w: summary: parameterization has no split comparison", mtcerr.ErrConfiguration)

// NodeSplitPValue compares the direct and indirect estimates of a split
// comparison. Over the pooled second halves, prop is the fraction of
// samples where the direct effect exceeds the indirect one and the p-value
// is 2·min(prop, 1−prop).
//
// The indirect effect is read from the results when they hold it under its
// own name; otherwise it is evaluated from the basic parameters on the tree
// path of the split comparison.
type NodeSplitPValue struct {
	listener
	pmtz   *parameterization.Parameterization
	prop   float64
	pvalue float64
}

// NewNodeSplitPValue attaches a p-value summary of the split comparison of
// p to r.
func NewNodeSplitPValue(r mcmc.Results, p *parameterization.Parameterization) (*NodeSplitPValue, error) {
	if p.DirectParameter() == nil {
		return nil, fmt.Errorf("%w: %s model", ErrNotNodeSplit, p.Model())
	}
	s := &NodeSplitPValue{pmtz: p}
	s.attach(r, s.calculate)
	return s, nil
}

// PValue returns the two-sided p-value, 0 until defined.
func (s *NodeSplitPValue) PValue() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pvalue
}

// Proportion returns the fraction of samples with direct > indirect.
func (s *NodeSplitPValue) Proportion() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prop
}

func (s *NodeSplitPValue) calculate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	dir, err := Pooled(s.results, s.pmtz.DirectParameter())
	if err != nil {
		s.settle(err)
		return
	}
	ind, err := s.indirect(len(dir))
	if err != nil {
		s.settle(err)
		return
	}
	if len(dir) == 0 {
		s.settle(fmt.Errorf("%w: no pooled samples", ErrTooFewSamples))
		return
	}

	larger := 0
	for i, d := range dir {
		if d > ind[i] {
			larger++
		}
	}
	s.prop = float64(larger) / float64(len(dir))
	s.pvalue = 2 * min(s.prop, 1-s.prop)
	s.settle(nil)
}

func (s *NodeSplitPValue) indirect(n int) ([]float64, error) {
	if param := s.pmtz.IndirectParameter(); s.results.FindParameter(param) >= 0 {
		return Pooled(s.results, param)
	}
	expr, err := s.pmtz.ParameterizeIndirect()
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for _, term := range expr.Terms() {
		xs, err := Pooled(s.results, term)
		if err != nil {
			return nil, err
		}
		for k := range out {
			out[k] += float64(expr[term]) * xs[k]
		}
	}
	return out, nil
}
