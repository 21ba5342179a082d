package spanningtree

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/mtc/bfs"
	"github.com/katalvlaran/mtc/comparison"
	"github.com/katalvlaran/mtc/internal/telemetry"
	"github.com/katalvlaran/mtc/model"
	"github.com/katalvlaran/mtc/search"
)

var tracer = telemetry.Tracer("spanningtree")

// State is a partial spanning tree.
type State struct {
	edges   []Edge
	spanned map[string]bool
}

// Edges returns the edges chosen so far, in selection order.
func (s *State) Edges() []Edge { return s.edges }

// Spanned reports whether id is already in the partial tree.
func (s *State) Spanned(id string) bool { return s.spanned[id] }

// Key identifies the edge set regardless of the order it was built in.
func (s *State) Key() string {
	keys := make([]string, len(s.edges))
	for i, e := range s.edges {
		keys[i] = e.Pair().String()
	}
	sort.Strings(keys)

	return strings.Join(keys, ",")
}

func (s *State) extend(e Edge) *State {
	next := &State{
		edges:   make([]Edge, len(s.edges), len(s.edges)+1),
		spanned: make(map[string]bool, len(s.spanned)+1),
	}
	copy(next.edges, s.edges)
	for k := range s.spanned {
		next.spanned[k] = true
	}
	next.edges = append(next.edges, e)
	next.spanned[e.Child.ID] = true

	return next
}

// treeProblem adapts tree selection to search.Problem.
type treeProblem struct {
	graph  *comparison.Graph
	root   *model.Treatment
	folded []comparison.FoldedEdge
	n      int
	accept func(*Tree) bool

	// accepted is the tree that passed accept, kept to avoid rebuilding it.
	accepted *Tree
}

func (p *treeProblem) Initial() *State {
	return &State{spanned: map[string]bool{p.root.ID: true}}
}

// Successors yields one state per folded edge crossing the cut between
// spanned and unspanned treatments, best supported first.
func (p *treeProblem) Successors(s *State) []*State {
	var cands []Edge
	for _, f := range p.folded {
		a, b := s.spanned[f.A.ID], s.spanned[f.B.ID]
		switch {
		case a && !b:
			cands = append(cands, Edge{Parent: f.A, Child: f.B, Studies: f.Studies})
		case b && !a:
			cands = append(cands, Edge{Parent: f.B, Child: f.A, Studies: f.Studies})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if len(cands[i].Studies) != len(cands[j].Studies) {
			return len(cands[i].Studies) > len(cands[j].Studies)
		}
		return cands[i].Pair().Less(cands[j].Pair())
	})

	out := make([]*State, len(cands))
	for i, e := range cands {
		out[i] = s.extend(e)
	}

	return out
}

func (p *treeProblem) IsGoal(s *State) bool {
	if len(s.spanned) != p.n {
		return false
	}
	if p.accept == nil {
		return true
	}
	t, err := NewTree(p.graph, p.root, s.edges)
	if err != nil {
		return false
	}
	if !p.accept(t) {
		return false
	}
	p.accepted = t

	return true
}

// Select chooses the spanning tree of g.
func Select(g *comparison.Graph, opts ...Option) (*Tree, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	treatments := g.Treatments()
	ctx, span := tracer.Start(o.Ctx, "spanningtree.Select", trace.WithAttributes(
		attribute.Int("treatments", len(treatments)),
		attribute.Int("comparisons", len(g.Folded())),
	))
	defer span.End()

	o.Ctx = ctx
	tree, err := selectTree(g, treatments, o, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.Logger.DebugContext(ctx, "spanning tree selection failed", slog.String("error", err.Error()))
		return nil, err
	}
	span.SetAttributes(attribute.Int("tree.edges", tree.Size()))
	o.Logger.DebugContext(ctx, "spanning tree selected",
		slog.String("root", tree.Root().ID),
		slog.Int("edges", tree.Size()),
	)

	return tree, nil
}

func selectTree(g *comparison.Graph, treatments []*model.Treatment, o Options, span trace.Span) (*Tree, error) {
	if len(treatments) == 0 {
		return nil, ErrEmptyNetwork
	}
	root := treatments[0]
	if o.Root != "" {
		r, err := g.Treatment(o.Root)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRoot, o.Root)
		}
		root = r
	}

	unreached, err := bfs.Unreached(g.Core(), root.ID, bfs.WithContext(o.Ctx))
	if err != nil {
		return nil, fmt.Errorf("spanningtree: connectivity: %w", err)
	}
	if len(unreached) > 0 {
		return nil, fmt.Errorf("%w: unreachable from %q: %s", ErrDisconnected, root.ID, strings.Join(unreached, ", "))
	}

	p := &treeProblem{
		graph:  g,
		root:   root,
		folded: g.Folded(),
		n:      len(treatments),
		accept: o.Accept,
	}
	var stats search.Stats
	goal, err := search.Search[*State](p, o.Strategy,
		search.WithContext(o.Ctx),
		search.WithDedup(),
		search.WithMaxExpansions(o.MaxExpansions),
		search.WithStats(&stats),
	)
	telemetry.SearchExpansions.WithLabelValues("spanning_tree").Add(float64(stats.Expanded))
	span.SetAttributes(attribute.Int("search.expanded", stats.Expanded))
	switch {
	case errors.Is(err, search.ErrNoSolution):
		return nil, ErrNoAcceptableTree
	case err != nil:
		return nil, fmt.Errorf("spanningtree: %w", err)
	}
	if p.accepted != nil {
		return p.accepted, nil
	}

	return NewTree(g, root, goal.edges)
}
