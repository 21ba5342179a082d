package core

import "sort"

// NeighborIDs returns the unique IDs adjacent to id, sorted ascending.
func (g *Graph) NeighborIDs(id string) ([]string, error) {
	if !g.HasVertex(id) {
		return nil, ErrVertexNotFound
	}
	g.muEdgeAdj.RLock()
	ids := make([]string, 0, len(g.adjacency[id]))
	for to, bucket := range g.adjacency[id] {
		if len(bucket) > 0 {
			ids = append(ids, to)
		}
	}
	g.muEdgeAdj.RUnlock()
	sort.Strings(ids)

	return ids, nil
}
