// Package core provides a thread-safe, string-keyed, undirected multigraph
// that the comparison and tree packages build on.
//
// The Graph G = (V,E) supports:
//
//   - Parallel edges / multigraphs (WithMultiEdges)
//   - Per-edge labels (WithEdgeLabel), e.g. the study an edge was observed in
//   - Edge removal and filtering on copies (Clone, FilterEdges)
//
// Self-loops are always rejected: a treatment is never compared with itself.
//
// Storage is a nested map adjacency[from][to][edgeID], mirrored for both
// endpoints, so edge insertion and lookup are constant time. Two
// sync.RWMutex values guard vertices (muVert) and edges+adjacency
// (muEdgeAdj) separately.
//
// Determinism:
//
//	Vertices()      sorted by ID
//	Edges()         sorted by creation order ("e1" < "e2" < … < "e10")
//	EdgesBetween    sorted by creation order
//	NeighborIDs(id) unique, sorted
//
// Errors:
//
//	ErrEmptyVertexID       – zero-length vertex ID
//	ErrVertexNotFound      – missing vertex
//	ErrEdgeNotFound        – missing edge
//	ErrLoopNotAllowed      – self-loop
//	ErrMultiEdgeNotAllowed – parallel edge when multi-edges disabled
package core
