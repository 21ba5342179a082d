// Package spanningtree selects the spanning tree of basic comparisons for a
// comparison graph.
//
// Selection is a search over partial trees. A state holds the tree edges
// chosen so far and the set of spanned treatments. The initial state is the
// root (by default the treatment with the smallest id) with no edges. Each
// folded edge joining a spanned treatment to an unspanned one yields one
// successor. The goal is reached once every treatment is spanned and, if
// configured, an extra acceptance predicate holds.
//
// Successors are ordered by
//
//  1. number of supporting studies, descending;
//  2. canonical vertex-id pair, ascending.
//
// With the default depth-first strategy the first goal found is therefore
// the greedy tree that always takes the best supported comparison; the
// search only backtracks when the acceptance predicate rejects a tree.
//
// Failure modes are distinct:
//
//	ErrEmptyNetwork      – no treatments at all
//	ErrDisconnected      – some treatment unreachable from the root
//	ErrNoAcceptableTree  – connected, but every tree was rejected
//	ErrNotATree          – NewTree edges close a cycle or are not comparisons
//
// A Tree keeps its comparison graph and walks it with bfs restricted to tree
// edges, so Path needs no second graph.
//
// A single treatment is valid and yields a tree with zero edges.
package spanningtree
