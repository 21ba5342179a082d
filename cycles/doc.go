// Package cycles groups the fundamental cycles of a spanning tree into
// equivalence classes and decides which classes need an inconsistency
// parameter.
//
// Every comparison that is not a tree edge closes exactly one cycle: the
// tree path between its endpoints plus the comparison itself. Each step of
// such a cycle is backed by the set of studies comparing its two endpoints.
// A cycle is written as a Partition of Parts, one Part per step.
//
// Consecutive parts backed by the very same study set carry no independent
// information, so Partition.Reduce merges them:
//
//	A-B{2}  B-C{1}  C-D{1}  D-A{4}   ->   A-B{2}  B-D{1}  D-A{4}
//	B-C{1}  C-D{1}  D-B{1}           ->   B-B{1}           (a point)
//
// Two cycles belong to the same class when their reduced partitions are
// equal. A class whose reduced partition still has three or more parts can
// be inconsistent and receives one inconsistency parameter; points and
// doubled edges are consistent by construction.
//
// Cycles are reported in standard form (see Standardize): start at the
// least treatment, then walk toward its smaller neighbour, and repeat the
// start at the end.
package cycles
