package core

// Clone returns a deep copy of vertices, edges and adjacency. Edge IDs are
// preserved and new edges continue the numbering of g.
// Complexity: O(V+E).
func (g *Graph) Clone() *Graph {
	c := NewGraph()
	c.allowMulti = g.allowMulti

	g.muVert.RLock()
	for id := range g.vertices {
		c.vertices[id] = struct{}{}
	}
	g.muVert.RUnlock()

	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	c.nextEdgeID = g.nextEdgeID
	for eid, e := range g.edges {
		cp := *e
		c.edges[eid] = &cp
		c.link(e.From, e.To, eid)
		c.link(e.To, e.From, eid)
	}

	return c
}

// FilterEdges removes every edge for which keep returns false. Vertices
// are kept even when they lose all their edges.
func (g *Graph) FilterEdges(keep func(*Edge) bool) {
	for _, e := range g.Edges() {
		if !keep(e) {
			_ = g.RemoveEdge(e.ID)
		}
	}
}
