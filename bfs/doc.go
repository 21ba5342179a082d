// Package bfs provides breadth-first traversal over a core.Graph, returning
// hop distances, parent links and visit order.
//
// The comparison-graph packages use it for three things: proving that every
// treatment is reachable before a spanning tree is searched for
// (Unreached), reconstructing unique paths inside a tree (PathTo with a
// neighbor filter restricted to tree edges), and deciding whether a
// comparison keeps indirect evidence once some study arms are removed.
//
// Determinism
//
//	core.Graph.NeighborIDs returns sorted IDs and BFS enqueues neighbors in
//	that order, so the visit sequence and the parent links are reproducible.
//
// Complexity: O(V + E) time, O(V) memory.
package bfs
