// Package parameterization assembles the parameters of a consistency,
// inconsistency or node-split model for an evidence network.
//
// Build runs the whole pipeline:
//
//	network → comparison graph → spanning tree → cycle classes → baselines → parameters
//
// Each spanning-tree edge becomes a BasicParameter "d.X.Y", oriented so
// that X < Y by treatment id. In the inconsistency model every inconsistent
// cycle class adds an InconsistencyParameter "w.A.B.C" named after the
// class's representative cycle.
//
// Any comparison between two treatments can then be written as a signed
// sum of parameters (Parameterize): the basic parameters along the tree path,
// plus the class's inconsistency parameter when the comparison itself closes
// an inconsistent cycle.
//
// The inconsistency model also needs a baseline arm per study such that the
// study-level comparisons it implies identify every inconsistency
// parameter. Build searches for such an assignment and, if the first
// spanning tree admits none, backtracks to another tree.
//
// A node-split model separates the evidence on one comparison X–Y. The
// spanning tree is chosen without the X–Y comparison, so the tree path from
// X to Y is the indirect estimate "d.X.Y.ind". The direct estimate is a
// SplitParameter "d.X.Y.dir" that expresses X–Y on its own. SplittableNodes
// lists the comparisons that keep indirect evidence once the X and Y arms are
// removed from every study holding both.
//
// WithTree replaces the tree search with a caller-supplied tree.
package parameterization
