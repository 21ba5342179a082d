package parameterization

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/katalvlaran/mtc/comparison"
	"github.com/katalvlaran/mtc/cycles"
	"github.com/katalvlaran/mtc/model"
	"github.com/katalvlaran/mtc/spanningtree"
)

// Build parameterizes n.
func Build(n *model.Network, opts ...Option) (*Parameterization, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	start := time.Now()
	ctx, span := tracer.Start(o.Ctx, "parameterization.Build")
	defer span.End()
	o.Ctx = ctx

	p, err := build(n, o)
	degree := 0
	if p != nil {
		degree = p.InconsistencyDegree()
	}
	recordBuild(ctx, o.Model, time.Since(start), degree, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("model", o.Model.String()),
		attribute.Int("treatments", len(n.Treatments)),
		attribute.Int("basic", len(p.basic)),
		attribute.Int("inconsistency", len(p.inconsistency)),
	)
	if p.split != nil {
		span.SetAttributes(attribute.String("split", p.split.Pair().String()))
	}
	o.Logger.DebugContext(ctx, "parameterization built",
		slog.String("model", o.Model.String()),
		slog.Int("basic_parameters", len(p.basic)),
		slog.Int("cycle_classes", len(p.classes.All())),
		slog.Int("inconsistency_degree", degree),
	)

	return p, nil
}

func build(n *model.Network, o Options) (*Parameterization, error) {
	g, err := comparison.Build(n)
	if err != nil {
		return nil, err
	}
	fixed, err := resolveBaselines(n, o.Baselines)
	if err != nil {
		return nil, err
	}
	split, err := resolveSplit(g, o)
	if err != nil {
		return nil, err
	}
	studies := n.SortedStudies()

	var (
		tree      *spanningtree.Tree
		classes   *cycles.Classes
		baselines map[string]*model.Treatment
	)
	if o.Tree != nil {
		tree, classes, baselines, err = fixedTree(g, studies, fixed, o)
	} else {
		tree, classes, baselines, err = searchTree(g, studies, fixed, o)
	}
	if err != nil {
		return nil, err
	}

	p := newParameterization(o.Model, n, g, tree, classes, baselines)
	p.split = split
	if err := p.checkDegrees(); err != nil {
		return nil, err
	}

	return p, nil
}

// searchTree selects the spanning tree. NodeSplit models search the graph
// without the split comparison. Inconsistency models only accept trees
// that admit a baseline assignment; the search remembers the last one
// found.
func searchTree(
	g *comparison.Graph,
	studies []*model.Study,
	fixed map[string]*model.Treatment,
	o Options,
) (*spanningtree.Tree, *cycles.Classes, map[string]*model.Treatment, error) {
	treeOpts := []spanningtree.Option{
		spanningtree.WithContext(o.Ctx),
		spanningtree.WithStrategy(o.TreeStrategy),
		spanningtree.WithMaxExpansions(o.MaxExpansions),
		spanningtree.WithLogger(o.Logger),
	}
	var (
		classes   *cycles.Classes
		baselines map[string]*model.Treatment
	)
	if o.Model == Inconsistency {
		treeOpts = append(treeOpts, spanningtree.WithAccept(func(t *spanningtree.Tree) bool {
			cs, err := cycles.Compute(g, t, cycles.WithContext(o.Ctx), cycles.WithLogger(o.Logger))
			if err != nil {
				return false
			}
			b, err := inconsistencyBaselines(o.Ctx, studies, cs, fixed, o.MaxExpansions)
			if err != nil {
				return false
			}
			classes, baselines = cs, b
			return true
		}))
	}

	searched := g
	if o.Model == NodeSplit {
		searched = g.Without(o.Split)
	}
	tree, err := spanningtree.Select(searched, treeOpts...)
	switch {
	case errors.Is(err, spanningtree.ErrNoAcceptableTree):
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrNoBaselineAssignment, err)
	case err != nil:
		return nil, nil, nil, fmt.Errorf("parameterization: %w", err)
	}
	if classes != nil {
		return tree, classes, baselines, nil
	}

	classes, err = cycles.Compute(g, tree, cycles.WithContext(o.Ctx), cycles.WithLogger(o.Logger))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parameterization: %w", err)
	}
	if o.Model == NodeSplit {
		return tree, classes, nodeSplitBaselines(studies, tree, fixed, o.Split), nil
	}

	return tree, classes, consistencyBaselines(studies, tree, fixed), nil
}

// fixedTree checks a caller-supplied tree against g and assigns baselines
// for it.
func fixedTree(
	g *comparison.Graph,
	studies []*model.Study,
	fixed map[string]*model.Treatment,
	o Options,
) (*spanningtree.Tree, *cycles.Classes, map[string]*model.Treatment, error) {
	tree := o.Tree
	if o.Model == NodeSplit && tree.Contains(o.Split.A, o.Split.B) {
		return nil, nil, nil, fmt.Errorf("%w: tree contains the split comparison %s", ErrInvalidTree, o.Split)
	}
	classes, err := cycles.Compute(g, tree, cycles.WithContext(o.Ctx), cycles.WithLogger(o.Logger))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrInvalidTree, err)
	}

	switch o.Model {
	case Inconsistency:
		b, err := inconsistencyBaselines(o.Ctx, studies, classes, fixed, o.MaxExpansions)
		if err != nil {
			return nil, nil, nil, err
		}
		return tree, classes, b, nil
	case NodeSplit:
		return tree, classes, nodeSplitBaselines(studies, tree, fixed, o.Split), nil
	}

	return tree, classes, consistencyBaselines(studies, tree, fixed), nil
}

func newParameterization(
	m Model,
	n *model.Network,
	g *comparison.Graph,
	tree *spanningtree.Tree,
	classes *cycles.Classes,
	baselines map[string]*model.Treatment,
) *Parameterization {
	p := &Parameterization{
		model:     m,
		network:   n,
		graph:     g,
		tree:      tree,
		classes:   classes,
		baselines: baselines,
		byPair:    make(map[comparison.Pair]*BasicParameter),
		byClass:   make(map[*cycles.Class]*InconsistencyParameter),
	}
	for _, e := range tree.Edges() {
		bp := NewBasicParameter(e.Parent, e.Child)
		p.basic = append(p.basic, bp)
		p.byPair[bp.Pair()] = bp
	}
	if m == Inconsistency {
		for _, c := range classes.Inconsistent() {
			ip := &InconsistencyParameter{Cycle: c.Representative()}
			p.inconsistency = append(p.inconsistency, ip)
			p.byClass[c] = ip
		}
	}

	return p
}

// checkDegrees asserts the parameter counts against the network's degrees
// of freedom: one basic parameter per treatment but the first, and one
// inconsistency parameter per inconsistent class.
func (p *Parameterization) checkDegrees() error {
	if want := len(p.graph.Treatments()) - 1; len(p.basic) != want {
		return fmt.Errorf("%w: %d basic parameters for %d treatments", ErrDegreesOfFreedom, len(p.basic), want+1)
	}
	if p.model == Inconsistency && len(p.inconsistency) != p.classes.Degree() {
		return fmt.Errorf("%w: %d inconsistency parameters for degree %d", ErrDegreesOfFreedom, len(p.inconsistency), p.classes.Degree())
	}

	return nil
}
