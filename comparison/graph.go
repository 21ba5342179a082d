package comparison

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/mtc/core"
	"github.com/katalvlaran/mtc/model"
)

// Graph is the comparison multigraph of a Network. It is read-only after
// Build.
type Graph struct {
	network    *model.Network
	g          *core.Graph
	treatments map[string]*model.Treatment
	studies    map[string]*model.Study
	edges      []Edge
	folded     []FoldedEdge
	index      map[Pair]int
}

// Build derives the comparison graph of n. The network is validated first,
// so a study arm naming a non-member treatment fails with
// model.ErrUnknownTreatment.
func Build(n *model.Network) (*Graph, error) {
	if err := n.Validate(); err != nil {
		return nil, fmt.Errorf("comparison: %w", err)
	}

	cg := &Graph{
		network:    n,
		g:          core.NewGraph(core.WithMultiEdges()),
		treatments: make(map[string]*model.Treatment, len(n.Treatments)),
		studies:    make(map[string]*model.Study, len(n.Studies)),
		index:      make(map[Pair]int),
	}
	for _, t := range n.SortedTreatments() {
		cg.treatments[t.ID] = t
		if err := cg.g.AddVertex(t.ID); err != nil {
			return nil, fmt.Errorf("comparison: treatment %q: %w", t.ID, err)
		}
	}

	for _, s := range n.SortedStudies() {
		cg.studies[s.ID] = s
		arms := s.Treatments()
		for i := 0; i < len(arms); i++ {
			for j := i + 1; j < len(arms); j++ {
				eid, err := cg.g.AddEdge(arms[i].ID, arms[j].ID, core.WithEdgeLabel(s.ID))
				if err != nil {
					return nil, fmt.Errorf("comparison: study %q: %w", s.ID, err)
				}
				cg.edges = append(cg.edges, Edge{ID: eid, A: arms[i], B: arms[j], Study: s})
				cg.fold(arms[i], arms[j], s)
			}
		}
	}

	sort.SliceStable(cg.folded, func(i, j int) bool { return cg.folded[i].Pair().Less(cg.folded[j].Pair()) })
	for i := range cg.folded {
		sortStudies(cg.folded[i].Studies)
		cg.index[cg.folded[i].Pair()] = i
	}

	return cg, nil
}

func (cg *Graph) fold(a, b *model.Treatment, s *model.Study) {
	p := Pair{A: a.ID, B: b.ID}
	if i, ok := cg.index[p]; ok {
		cg.folded[i].Studies = append(cg.folded[i].Studies, s)
		return
	}
	cg.index[p] = len(cg.folded)
	cg.folded = append(cg.folded, FoldedEdge{A: a, B: b, Studies: []*model.Study{s}})
}

// Network returns the network the graph was built from.
func (cg *Graph) Network() *model.Network { return cg.network }

// Core exposes the underlying multigraph (read-only by convention).
func (cg *Graph) Core() *core.Graph { return cg.g }

// Treatments returns all vertices sorted by id.
func (cg *Graph) Treatments() []*model.Treatment {
	ids := cg.g.Vertices()
	out := make([]*model.Treatment, len(ids))
	for i, id := range ids {
		out[i] = cg.treatments[id]
	}

	return out
}

// Treatment returns the vertex with the given id.
func (cg *Graph) Treatment(id string) (*model.Treatment, error) {
	t, ok := cg.treatments[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTreatment, id)
	}
	return t, nil
}

// Study returns the study with the given id.
func (cg *Graph) Study(id string) (*model.Study, bool) {
	s, ok := cg.studies[id]
	return s, ok
}

// Edges returns every (study, pair) edge, ordered by study id and then by
// pair.
func (cg *Graph) Edges() []Edge {
	return append([]Edge(nil), cg.edges...)
}

// EdgeCount is the number of (study, pair) edges.
func (cg *Graph) EdgeCount() int { return len(cg.edges) }

// Folded returns one FoldedEdge per observed pair, sorted by pair.
func (cg *Graph) Folded() []FoldedEdge {
	return append([]FoldedEdge(nil), cg.folded...)
}

// FindEdge returns the folded edge between u and v in either order.
func (cg *Graph) FindEdge(u, v string) (FoldedEdge, bool) {
	i, ok := cg.index[NewPair(u, v)]
	if !ok {
		return FoldedEdge{}, false
	}
	return cg.folded[i], true
}

// Studies returns the studies comparing u and v, sorted by id.
func (cg *Graph) Studies(u, v string) []*model.Study {
	f, ok := cg.FindEdge(u, v)
	if !ok {
		return nil
	}
	return append([]*model.Study(nil), f.Studies...)
}

// NeighborIDs returns the treatments compared directly with id.
func (cg *Graph) NeighborIDs(id string) ([]string, error) {
	if _, ok := cg.treatments[id]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTreatment, id)
	}
	return cg.g.NeighborIDs(id)
}

// Without returns a copy of cg with every study's comparison of the pair
// removed. Treatments and studies are kept, so the copy may be
// disconnected.
func (cg *Graph) Without(p Pair) *Graph {
	out := &Graph{
		network:    cg.network,
		g:          cg.g.Clone(),
		treatments: cg.treatments,
		studies:    cg.studies,
		index:      make(map[Pair]int, len(cg.index)),
	}
	out.g.FilterEdges(func(e *core.Edge) bool { return NewPair(e.From, e.To) != p })
	for _, e := range cg.edges {
		if e.Pair() != p {
			out.edges = append(out.edges, e)
		}
	}
	for _, f := range cg.folded {
		if f.Pair() != p {
			out.index[f.Pair()] = len(out.folded)
			out.folded = append(out.folded, f)
		}
	}

	return out
}
