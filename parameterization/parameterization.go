package parameterization

import (
	"fmt"

	"github.com/katalvlaran/mtc/comparison"
	"github.com/katalvlaran/mtc/cycles"
	"github.com/katalvlaran/mtc/model"
	"github.com/katalvlaran/mtc/spanningtree"
)

// Parameterization is an immutable set of model parameters for a network.
type Parameterization struct {
	model     Model
	network   *model.Network
	graph     *comparison.Graph
	tree      *spanningtree.Tree
	classes   *cycles.Classes
	baselines map[string]*model.Treatment

	basic         []*BasicParameter
	inconsistency []*InconsistencyParameter
	byPair        map[comparison.Pair]*BasicParameter
	byClass       map[*cycles.Class]*InconsistencyParameter
	split         *SplitParameter
}

// Comparison is a relative effect of Subject over Base written in terms of
// the model parameters.
type Comparison struct {
	Base, Subject *model.Treatment
	Expression    Expression
}

// Model reports which model was built.
func (p *Parameterization) Model() Model { return p.model }

// Network returns the parameterized network.
func (p *Parameterization) Network() *model.Network { return p.network }

// Graph returns the comparison graph of the network.
func (p *Parameterization) Graph() *comparison.Graph { return p.graph }

// Tree returns the spanning tree of basic comparisons.
func (p *Parameterization) Tree() *spanningtree.Tree { return p.tree }

// Classes returns the cycle classes of Tree. They are computed for every
// model; only inconsistency models turn them into parameters.
func (p *Parameterization) Classes() *cycles.Classes { return p.classes }

// InconsistencyDegree is the number of inconsistency parameters.
func (p *Parameterization) InconsistencyDegree() int { return len(p.inconsistency) }

// BasicParameters returns one parameter per tree edge, in tree selection
// order.
func (p *Parameterization) BasicParameters() []*BasicParameter {
	return append([]*BasicParameter(nil), p.basic...)
}

// InconsistencyParameters returns one parameter per inconsistent class,
// ordered by representative cycle. It is empty for consistency models.
func (p *Parameterization) InconsistencyParameters() []*InconsistencyParameter {
	return append([]*InconsistencyParameter(nil), p.inconsistency...)
}

// Parameters returns basic parameters, then the direct split parameter
// or the inconsistency parameters.
func (p *Parameterization) Parameters() []NetworkParameter {
	out := make([]NetworkParameter, 0, len(p.basic)+len(p.inconsistency)+1)
	for _, b := range p.basic {
		out = append(out, b)
	}
	if p.split != nil {
		out = append(out, p.split)
	}
	for _, w := range p.inconsistency {
		out = append(out, w)
	}
	return out
}

// StudyBaseline returns the baseline arm of a study.
func (p *Parameterization) StudyBaseline(studyID string) (*model.Treatment, bool) {
	b, ok := p.baselines[studyID]
	return b, ok
}

// Baselines returns study id → baseline treatment id.
func (p *Parameterization) Baselines() map[string]string {
	out := make(map[string]string, len(p.baselines))
	for s, t := range p.baselines {
		out[s] = t.ID
	}
	return out
}

// Parameterize expresses the relative effect of b over a. Tree steps
// contribute ±1 per basic parameter; if a–b closes an inconsistent cycle in
// an inconsistency model, the class parameter is added with the sign of
// the direction a→b around the class representative. In a node-split model
// the split comparison is its direct parameter alone.
func (p *Parameterization) Parameterize(a, b string) (Expression, error) {
	if _, err := p.graph.Treatment(a); err != nil {
		return nil, err
	}
	if _, err := p.graph.Treatment(b); err != nil {
		return nil, err
	}
	if p.split != nil && p.split.Pair() == comparison.NewPair(a, b) {
		if a == p.split.Base.ID {
			return Expression{p.split: 1}, nil
		}
		return Expression{p.split: -1}, nil
	}

	expr, err := p.treeExpression(a, b)
	if err != nil {
		return nil, err
	}
	if w, sign := p.inconsistencyTerm(a, b); w != nil {
		expr.add(w, sign)
	}

	return expr, nil
}

// treeExpression sums the basic parameters along the tree path a→b.
func (p *Parameterization) treeExpression(a, b string) (Expression, error) {
	path, err := p.tree.Path(a, b)
	if err != nil {
		return nil, fmt.Errorf("%w: %s to %s: %v", ErrNoTreePath, a, b, err)
	}

	expr := Expression{}
	for i := 1; i < len(path); i++ {
		u, v := path[i-1], path[i]
		bp, ok := p.byPair[comparison.NewPair(u, v)]
		if !ok {
			return nil, fmt.Errorf("%w: %s-%s is not a tree edge", ErrNoTreePath, u, v)
		}
		if bp.Base.ID == u {
			expr.add(bp, 1)
		} else {
			expr.add(bp, -1)
		}
	}

	return expr, nil
}

func (p *Parameterization) inconsistencyTerm(a, b string) (*InconsistencyParameter, int) {
	if p.model != Inconsistency || p.tree.Contains(a, b) {
		return nil, 0
	}
	c, ok := p.classes.ClassOf(a, b)
	if !ok {
		return nil, 0
	}
	w, ok := p.byClass[c]
	if !ok {
		return nil, 0
	}
	cycle, orientation, _ := p.classes.Cycle(a, b)
	if cycles.Contains(cycle, a, b) {
		return w, orientation
	}
	return w, -orientation
}

// ParameterizeStudy expresses every arm of a study relative to its
// baseline, in arm order. In a node-split model, a multi-arm study holding
// both split treatments under another baseline compares the split subject
// to the split base instead, as the last comparison.
func (p *Parameterization) ParameterizeStudy(studyID string) ([]Comparison, error) {
	s, ok := p.network.Study(studyID)
	if !ok {
		return nil, fmt.Errorf("parameterization: unknown study %q", studyID)
	}
	base, ok := p.baselines[studyID]
	if !ok {
		return nil, nil
	}
	splitArm := p.split != nil && containsPair(s, p.split.Pair()) && !p.split.Pair().Has(base.ID)
	var out []Comparison
	for _, t := range s.Treatments() {
		if t == base || (splitArm && t == p.split.Subject) {
			continue
		}
		expr, err := p.Parameterize(base.ID, t.ID)
		if err != nil {
			return nil, fmt.Errorf("study %q: %w", studyID, err)
		}
		out = append(out, Comparison{Base: base, Subject: t, Expression: expr})
	}
	if splitArm {
		out = append(out, Comparison{Base: p.split.Base, Subject: p.split.Subject, Expression: Expression{p.split: 1}})
	}

	return out, nil
}

// Functional expresses every treatment pair that has no basic parameter,
// ordered by pair.
func (p *Parameterization) Functional() ([]Comparison, error) {
	ts := p.graph.Treatments()
	var out []Comparison
	for i := range ts {
		for j := i + 1; j < len(ts); j++ {
			if p.tree.Contains(ts[i].ID, ts[j].ID) {
				continue
			}
			expr, err := p.Parameterize(ts[i].ID, ts[j].ID)
			if err != nil {
				return nil, err
			}
			out = append(out, Comparison{Base: ts[i], Subject: ts[j], Expression: expr})
		}
	}

	return out, nil
}
