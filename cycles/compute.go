package cycles

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/katalvlaran/mtc/comparison"
	"github.com/katalvlaran/mtc/internal/telemetry"
	"github.com/katalvlaran/mtc/mtcerr"
	"github.com/katalvlaran/mtc/spanningtree"
)

// ErrTreeMismatch indicates a tree that does not span the comparison graph.
var ErrTreeMismatch = fmt.Errorf("%w: cycles: tree does not span the comparison graph", mtcerr.ErrStructural)

var tracer = telemetry.Tracer("cycles")

// Option configures Compute.
type Option func(*Options)

// Options holds Compute parameters.
type Options struct {
	Ctx    context.Context
	Logger *slog.Logger
}

// WithContext sets the tracing context.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// Compute classifies the fundamental cycles of tree in g.
func Compute(g *comparison.Graph, tree *spanningtree.Tree, opts ...Option) (*Classes, error) {
	o := Options{Ctx: context.Background(), Logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	ctx, span := tracer.Start(o.Ctx, "cycles.Compute")
	defer span.End()

	cs, err := compute(g, tree)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("classes", len(cs.classes)),
		attribute.Int("degree", cs.Degree()),
	)
	o.Logger.DebugContext(ctx, "cycle classes computed",
		slog.Int("classes", len(cs.classes)),
		slog.Int("inconsistency_degree", cs.Degree()),
		slog.Int("non_tree_edges", cs.nonTree),
	)

	return cs, nil
}

func compute(g *comparison.Graph, tree *spanningtree.Tree) (*Classes, error) {
	if len(tree.Treatments()) != len(g.Treatments()) {
		return nil, fmt.Errorf("%w: %d of %d treatments spanned", ErrTreeMismatch, len(tree.Treatments()), len(g.Treatments()))
	}
	for _, e := range tree.Edges() {
		if _, ok := g.FindEdge(e.Parent.ID, e.Child.ID); !ok {
			return nil, fmt.Errorf("%w: tree edge %s is not a comparison", ErrTreeMismatch, e.Pair())
		}
	}

	perPair := make(map[comparison.Pair][]comparison.Edge)
	for _, e := range g.Edges() {
		perPair[e.Pair()] = append(perPair[e.Pair()], e)
	}

	cs := &Classes{
		byPair:  make(map[comparison.Pair]int),
		members: make(map[comparison.Pair]Member),
	}
	byKey := make(map[string]*Class)
	for _, f := range g.Folded() {
		if tree.Contains(f.A.ID, f.B.ID) {
			continue
		}
		path, err := tree.Path(f.A.ID, f.B.ID)
		if err != nil {
			return nil, fmt.Errorf("cycles: %s: %w", f.Pair(), err)
		}
		closed := append(path, f.A.ID)
		partition, err := partitionOf(g, closed)
		if err != nil {
			return nil, fmt.Errorf("cycles: %s: %w", f.Pair(), err)
		}
		reduced := partition.Reduce()

		c, ok := byKey[reduced.Key()]
		if !ok {
			c = &Class{partition: reduced}
			byKey[reduced.Key()] = c
		}
		std := Standardize(closed)
		if !slices.ContainsFunc(c.cycles, func(cy []string) bool { return slices.Equal(cy, std) }) {
			c.cycles = append(c.cycles, std)
		}
		c.pairs = append(c.pairs, f.Pair())
		basic := basicTerms(tree, std)
		for _, e := range perPair[f.Pair()] {
			c.members = append(c.members, Member{Edge: e, Cycle: std, Basic: basic, Orientation: 1})
			cs.nonTree++
		}
	}

	for _, c := range byKey {
		slices.SortFunc(c.cycles, CompareCycles)
		if c.Inconsistent() {
			orient(c)
		}
		cs.classes = append(cs.classes, c)
	}
	sort.Slice(cs.classes, func(i, j int) bool {
		return CompareCycles(cs.classes[i].cycles[0], cs.classes[j].cycles[0]) < 0
	})
	for i, c := range cs.classes {
		for _, p := range c.pairs {
			cs.byPair[p] = i
		}
		for _, m := range c.members {
			cs.members[m.Edge.Pair()] = m
		}
	}

	return cs, nil
}

// partitionOf turns a closed treatment walk into parts backed by the
// folded-edge study sets.
func partitionOf(g *comparison.Graph, closed []string) (Partition, error) {
	parts := make([]Part, 0, len(closed)-1)
	for i := 1; i < len(closed); i++ {
		f, ok := g.FindEdge(closed[i-1], closed[i])
		if !ok {
			return Partition{}, fmt.Errorf("%w: no comparison %s-%s", ErrTreeMismatch, closed[i-1], closed[i])
		}
		parts = append(parts, NewPart(closed[i-1], closed[i], f.StudyIDs()...))
	}

	return NewPartition(parts...)
}

func basicTerms(tree *spanningtree.Tree, cycle []string) []Term {
	var terms []Term
	for i := 1; i < len(cycle); i++ {
		u, v := cycle[i-1], cycle[i]
		if !tree.Contains(u, v) {
			continue
		}
		sign := 1
		if v < u {
			sign = -1
		}
		terms = append(terms, Term{Pair: comparison.NewPair(u, v), Sign: sign})
	}

	return terms
}

// orient sets each member's Orientation by projecting its cycle and the
// representative onto the treatments of the reduced partition.
func orient(c *Class) {
	keep := make(map[string]bool)
	for _, p := range c.partition.parts {
		keep[p.A], keep[p.B] = true, true
	}
	ref := project(c.cycles[0], keep)
	for i := range c.members {
		if !sameDirection(ref, project(c.members[i].Cycle, keep)) {
			c.members[i].Orientation = -1
		}
	}
}

func project(cycle []string, keep map[string]bool) []string {
	var out []string
	for _, v := range cycle[:len(cycle)-1] {
		if keep[v] {
			out = append(out, v)
		}
	}
	return out
}

// sameDirection reports whether b is a rotation of a.
func sameDirection(a, b []string) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	i := slices.Index(b, a[0])
	if i < 0 {
		return false
	}
	rot := append(slices.Clone(b[i:]), b[:i]...)

	return slices.Equal(rot, a)
}
