package spanningtree

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/mtc/bfs"
	"github.com/katalvlaran/mtc/comparison"
	"github.com/katalvlaran/mtc/model"
)

// Edge is a tree edge oriented away from the root.
type Edge struct {
	Parent, Child *model.Treatment
	// Studies backing the comparison, sorted by id.
	Studies []*model.Study
}

// Pair returns the canonical pair of e.
func (e Edge) Pair() comparison.Pair { return comparison.NewPair(e.Parent.ID, e.Child.ID) }

// Tree is a spanning tree of a comparison graph. It is immutable.
type Tree struct {
	graph      *comparison.Graph
	root       *model.Treatment
	edges      []Edge
	treatments []*model.Treatment
	byPair     map[comparison.Pair]int
	parent     map[string]string
	degree     map[string]int
}

// NewTree assembles a Tree of g from edges given in root-outward order;
// every edge must be a comparison of g and its parent must already be
// spanned. It is used by Select and by callers supplying a fixed tree.
func NewTree(g *comparison.Graph, root *model.Treatment, edges []Edge) (*Tree, error) {
	if _, err := g.Treatment(root.ID); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRoot, root.ID)
	}
	t := &Tree{
		graph:      g,
		root:       root,
		edges:      append([]Edge(nil), edges...),
		treatments: []*model.Treatment{root},
		byPair:     make(map[comparison.Pair]int, len(edges)),
		parent:     make(map[string]string, len(edges)),
		degree:     make(map[string]int, len(edges)+1),
	}
	spanned := map[string]bool{root.ID: true}
	for i, e := range edges {
		if !spanned[e.Parent.ID] {
			return nil, fmt.Errorf("%w: edge %s has unspanned parent %q", ErrDisconnected, e.Pair(), e.Parent.ID)
		}
		if spanned[e.Child.ID] {
			return nil, fmt.Errorf("%w: edge %s closes a cycle", ErrNotATree, e.Pair())
		}
		if _, ok := g.FindEdge(e.Parent.ID, e.Child.ID); !ok {
			return nil, fmt.Errorf("%w: edge %s is not a comparison", ErrNotATree, e.Pair())
		}
		spanned[e.Child.ID] = true
		t.byPair[e.Pair()] = i
		t.parent[e.Child.ID] = e.Parent.ID
		t.degree[e.Parent.ID]++
		t.degree[e.Child.ID]++
		t.treatments = append(t.treatments, e.Child)
	}
	model.SortTreatments(t.treatments)

	return t, nil
}

// Graph returns the comparison graph the tree was built on.
func (t *Tree) Graph() *comparison.Graph { return t.graph }

// Root returns the root treatment.
func (t *Tree) Root() *model.Treatment { return t.root }

// Edges returns the tree edges in selection order.
func (t *Tree) Edges() []Edge { return append([]Edge(nil), t.edges...) }

// Size is the number of edges (treatments − 1).
func (t *Tree) Size() int { return len(t.edges) }

// Treatments returns the spanned treatments sorted by id.
func (t *Tree) Treatments() []*model.Treatment {
	return append([]*model.Treatment(nil), t.treatments...)
}

// Contains reports whether u–v is a tree edge, in either orientation.
func (t *Tree) Contains(u, v string) bool {
	_, ok := t.byPair[comparison.NewPair(u, v)]
	return ok
}

// Edge returns the tree edge between u and v.
func (t *Tree) Edge(u, v string) (Edge, bool) {
	i, ok := t.byPair[comparison.NewPair(u, v)]
	if !ok {
		return Edge{}, false
	}
	return t.edges[i], true
}

// Parent returns the parent of id; the root has none.
func (t *Tree) Parent(id string) (string, bool) {
	p, ok := t.parent[id]
	return p, ok
}

// Degree returns the number of tree edges at id.
func (t *Tree) Degree(id string) int { return t.degree[id] }

// Path returns the unique tree path from u to v, both included. The walk
// runs on the comparison graph restricted to tree edges.
func (t *Tree) Path(u, v string) ([]string, error) {
	res, err := bfs.BFS(t.graph.Core(), u, bfs.WithFilterNeighbor(t.Contains))
	if err != nil {
		return nil, fmt.Errorf("spanningtree: path from %q: %w", u, err)
	}
	path, err := res.PathTo(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDisconnected, err)
	}

	return path, nil
}

// Pairs returns the canonical pairs of all tree edges, sorted.
func (t *Tree) Pairs() []comparison.Pair {
	out := make([]comparison.Pair, 0, len(t.edges))
	for _, e := range t.edges {
		out = append(out, e.Pair())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })

	return out
}
