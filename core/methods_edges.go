package core

import (
	"sort"
	"strconv"
	"sync/atomic"
)

// edgeIDPrefix keeps edge IDs human-readable: "e1", "e2", ...
const edgeIDPrefix = 'e'

// AddEdge creates a new edge between from and to and returns its ID.
// Missing endpoints are created.
//
// Errors: ErrEmptyVertexID, ErrLoopNotAllowed, ErrMultiEdgeNotAllowed.
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(from, to string, opts ...EdgeOption) (string, error) {
	if from == "" || to == "" {
		return "", ErrEmptyVertexID
	}
	if from == to {
		return "", ErrLoopNotAllowed
	}
	if err := g.AddVertex(from); err != nil {
		return "", err
	}
	if err := g.AddVertex(to); err != nil {
		return "", err
	}

	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	if !g.allowMulti && len(g.adjacency[from][to]) > 0 {
		return "", ErrMultiEdgeNotAllowed
	}

	eid := g.newEdgeID()
	e := &Edge{ID: eid, From: from, To: to}
	for _, opt := range opts {
		opt(e)
	}

	g.edges[eid] = e
	g.link(from, to, eid)
	g.link(to, from, eid)

	return eid, nil
}

// RemoveEdge deletes one edge and its mirror.
func (g *Graph) RemoveEdge(eid string) error {
	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()
	e, ok := g.edges[eid]
	if !ok {
		return ErrEdgeNotFound
	}
	delete(g.edges, eid)
	g.unlink(e.From, e.To, eid)
	g.unlink(e.To, e.From, eid)

	return nil
}

// HasEdge reports whether at least one edge joins from and to.
func (g *Graph) HasEdge(from, to string) bool {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return len(g.adjacency[from][to]) > 0
}

// EdgesBetween returns every edge joining from and to, in either
// direction, in creation order. It never returns an error for unknown vertices;
// the result is simply empty.
func (g *Graph) EdgesBetween(from, to string) []*Edge {
	g.muEdgeAdj.RLock()
	bucket := g.adjacency[from][to]
	out := make([]*Edge, 0, len(bucket))
	for eid := range bucket {
		out = append(out, g.edges[eid])
	}
	g.muEdgeAdj.RUnlock()
	sortEdges(out)

	return out
}

// Edges returns all edges in creation order.
// Complexity: O(E log E).
func (g *Graph) Edges() []*Edge {
	g.muEdgeAdj.RLock()
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	g.muEdgeAdj.RUnlock()
	sortEdges(out)

	return out
}

// EdgeCount returns the number of edges (mirrors are not counted twice).
func (g *Graph) EdgeCount() int {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return len(g.edges)
}

// newEdgeID must be called with muEdgeAdj held.
func (g *Graph) newEdgeID() string {
	n := atomic.AddUint64(&g.nextEdgeID, 1)
	buf := make([]byte, 0, 8)
	buf = append(buf, edgeIDPrefix)
	buf = strconv.AppendUint(buf, n, 10)

	return string(buf)
}

func (g *Graph) link(from, to, eid string) {
	inner, ok := g.adjacency[from]
	if !ok {
		inner = make(map[string]map[string]struct{})
		g.adjacency[from] = inner
	}
	bucket, ok := inner[to]
	if !ok {
		bucket = make(map[string]struct{})
		inner[to] = bucket
	}
	bucket[eid] = struct{}{}
}

func (g *Graph) unlink(from, to, eid string) {
	bucket := g.adjacency[from][to]
	delete(bucket, eid)
	if len(bucket) == 0 {
		delete(g.adjacency[from], to)
	}
	if len(g.adjacency[from]) == 0 {
		delete(g.adjacency, from)
	}
}

// sortEdges orders edges by creation: shorter IDs first, then lexicographic,
// which is numeric order for "e<n>".
func sortEdges(es []*Edge) {
	sort.Slice(es, func(i, j int) bool {
		if len(es[i].ID) != len(es[j].ID) {
			return len(es[i].ID) < len(es[j].ID)
		}
		return es[i].ID < es[j].ID
	})
}
