package parameterization

import (
	"fmt"
	"slices"
	"sort"

	"github.com/katalvlaran/mtc/bfs"
	"github.com/katalvlaran/mtc/comparison"
	"github.com/katalvlaran/mtc/model"
	"github.com/katalvlaran/mtc/spanningtree"
)

// SplitParameter is one side of a split comparison: the direct estimate
// from studies of Base and Subject, or the indirect estimate through the
// rest of the network. Base always has the smaller id.
type SplitParameter struct {
	Base, Subject *model.Treatment
	Direct        bool
}

// Name is "d.<base>.<subject>.dir" or "d.<base>.<subject>.ind".
func (p *SplitParameter) Name() string {
	suffix := ".ind"
	if p.Direct {
		suffix = ".dir"
	}
	return "d." + p.Base.ID + "." + p.Subject.ID + suffix
}

func (p *SplitParameter) String() string { return p.Name() }

// Pair returns the split comparison.
func (p *SplitParameter) Pair() comparison.Pair { return comparison.NewPair(p.Base.ID, p.Subject.ID) }

// SplittableNodes returns the comparisons of n that can be split, sorted by
// pair. A comparison is splittable when its treatments stay connected after
// every study containing both of them loses those two arms.
func SplittableNodes(n *model.Network) ([]*BasicParameter, error) {
	g, err := comparison.Build(n)
	if err != nil {
		return nil, err
	}
	var out []*BasicParameter
	for _, f := range g.Folded() {
		ok, err := Splittable(g, f.Pair())
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, NewBasicParameter(f.A, f.B))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pair().Less(out[j].Pair()) })

	return out, nil
}

// Splittable reports whether split.A still reaches split.B once the split
// arms are removed from the studies that contain both. Such studies keep
// their remaining arms; every other study is kept whole.
func Splittable(g *comparison.Graph, split comparison.Pair) (bool, error) {
	if _, err := g.Treatment(split.A); err != nil {
		return false, err
	}
	if _, err := g.Treatment(split.B); err != nil {
		return false, err
	}
	res, err := bfs.BFS(g.Core(), split.A, bfs.WithFilterNeighbor(func(u, v string) bool {
		if split.Has(u) || split.Has(v) {
			return slices.ContainsFunc(g.Studies(u, v), func(s *model.Study) bool { return !containsPair(s, split) })
		}
		return true
	}))
	if err != nil {
		return false, err
	}

	return res.Reached(split.B), nil
}

func containsPair(s *model.Study, p comparison.Pair) bool {
	a, b := false, false
	for _, t := range s.Treatments() {
		a = a || t.ID == p.A
		b = b || t.ID == p.B
	}
	return a && b
}

// resolveSplit checks the split comparison of a node-split model.
func resolveSplit(g *comparison.Graph, o Options) (*SplitParameter, error) {
	if o.Model != NodeSplit {
		if o.Split != (comparison.Pair{}) {
			return nil, fmt.Errorf("%w: split %s given for a %s model", ErrInvalidSplit, o.Split, o.Model)
		}
		return nil, nil
	}
	if o.Split == (comparison.Pair{}) {
		return nil, fmt.Errorf("%w: node-split model needs a split comparison", ErrInvalidSplit)
	}
	f, ok := g.FindEdge(o.Split.A, o.Split.B)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a comparison", ErrInvalidSplit, o.Split)
	}
	ok, err := Splittable(g, o.Split)
	if err != nil {
		return nil, fmt.Errorf("parameterization: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s has no indirect evidence", ErrInvalidSplit, o.Split)
	}

	return &SplitParameter{Base: f.A, Subject: f.B, Direct: true}, nil
}

// nodeSplitBaselines picks the arm of highest tree degree like
// consistencyBaselines, but multi-arm studies containing both split
// treatments take their baseline from the other arms.
func nodeSplitBaselines(
	studies []*model.Study,
	tree *spanningtree.Tree,
	fixed map[string]*model.Treatment,
	split comparison.Pair,
) map[string]*model.Treatment {
	out := make(map[string]*model.Treatment, len(studies))
	for _, s := range studies {
		if b, ok := fixed[s.ID]; ok {
			out[s.ID] = b
			continue
		}
		arms := s.Treatments()
		taboo := len(arms) > 2 && containsPair(s, split)
		var best *model.Treatment
		for _, t := range arms {
			if taboo && split.Has(t.ID) {
				continue
			}
			if best == nil || tree.Degree(t.ID) > tree.Degree(best.ID) {
				best = t
			}
		}
		if best != nil {
			out[s.ID] = best
		}
	}

	return out
}

// Split returns the split comparison of a node-split model.
func (p *Parameterization) Split() (comparison.Pair, bool) {
	if p.split == nil {
		return comparison.Pair{}, false
	}
	return p.split.Pair(), true
}

// DirectParameter returns the sampled direct effect of the split
// comparison, or nil for other models.
func (p *Parameterization) DirectParameter() *SplitParameter { return p.split }

// IndirectParameter returns the derived indirect effect of the split
// comparison, or nil for other models. It is not sampled; its value is
// ParameterizeIndirect evaluated on the basic parameters.
func (p *Parameterization) IndirectParameter() *SplitParameter {
	if p.split == nil {
		return nil
	}
	return &SplitParameter{Base: p.split.Base, Subject: p.split.Subject}
}

// ParameterizeIndirect expresses the split comparison through the spanning
// tree, which never contains it.
func (p *Parameterization) ParameterizeIndirect() (Expression, error) {
	if p.split == nil {
		return nil, fmt.Errorf("%w: %s model has no split comparison", ErrInvalidSplit, p.model)
	}
	return p.treeExpression(p.split.Base.ID, p.split.Subject.ID)
}
