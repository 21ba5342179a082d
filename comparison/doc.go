// Package comparison folds a Network into its comparison graph: an
// undirected multigraph whose vertices are treatments and whose edges are
// (study, treatment pair) occurrences.
//
// A study with k ≥ 2 arms contributes exactly the k·(k−1)/2 pairs it
// observes; single-arm studies contribute nothing. Two studies on the same
// pair give two parallel edges, each labeled with its study. The folded
// view (Folded, FindEdge) collapses parallel edges into one FoldedEdge per
// pair carrying the supporting studies, which is the unit the spanning tree
// and cycle computations work on.
//
// Build is pure and idempotent for a fixed Network.
package comparison
