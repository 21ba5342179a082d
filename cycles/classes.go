package cycles

import (
	"slices"

	"github.com/katalvlaran/mtc/comparison"
)

// Term is one signed basic comparison along a cycle. Sign is +1 when the
// cycle walks the pair from A to B and -1 otherwise.
type Term struct {
	Pair comparison.Pair
	Sign int
}

// Member is one per-study comparison that is not a tree edge, together with
// the fundamental cycle it closes.
type Member struct {
	Edge comparison.Edge
	// Cycle is the standardized fundamental cycle of the member's pair.
	Cycle []string
	// Basic lists the tree edges of Cycle in walking order.
	Basic []Term
	// Orientation is +1 when Cycle runs the same way round as the class
	// representative and -1 when it runs the other way.
	Orientation int
}

// Class is one equivalence class of fundamental cycles.
type Class struct {
	partition Partition
	cycles    [][]string
	members   []Member
	pairs     []comparison.Pair
}

// Partition returns the reduced partition shared by every cycle of c.
func (c *Class) Partition() Partition { return c.partition }

// Inconsistent reports whether c needs an inconsistency parameter.
func (c *Class) Inconsistent() bool { return c.partition.Inconsistent() }

// Cycles returns the distinct standardized cycles of c, ordered by
// CompareCycles.
func (c *Class) Cycles() [][]string {
	out := make([][]string, len(c.cycles))
	for i, cy := range c.cycles {
		out[i] = slices.Clone(cy)
	}
	return out
}

// Representative is the first of Cycles: the shortest cycle, ties broken by
// treatment ids.
func (c *Class) Representative() []string { return slices.Clone(c.cycles[0]) }

// Members returns the per-study non-tree edges of c, by pair then study.
func (c *Class) Members() []Member { return append([]Member(nil), c.members...) }

// Pairs returns the non-tree pairs whose cycles fall in c, sorted.
func (c *Class) Pairs() []comparison.Pair { return append([]comparison.Pair(nil), c.pairs...) }

// Size is the number of members.
func (c *Class) Size() int { return len(c.members) }

// Classes is the result of Compute.
type Classes struct {
	classes []*Class
	byPair  map[comparison.Pair]int
	members map[comparison.Pair]Member
	nonTree int
}

// All returns every class, ordered by representative cycle.
func (cs *Classes) All() []*Class { return append([]*Class(nil), cs.classes...) }

// Inconsistent returns the classes that need an inconsistency parameter, in
// the order of All.
func (cs *Classes) Inconsistent() []*Class {
	var out []*Class
	for _, c := range cs.classes {
		if c.Inconsistent() {
			out = append(out, c)
		}
	}
	return out
}

// Degree is the inconsistency degree: the number of inconsistent classes.
func (cs *Classes) Degree() int { return len(cs.Inconsistent()) }

// NonTreeEdges counts per-study comparison edges whose pair is not a tree
// edge.
func (cs *Classes) NonTreeEdges() int { return cs.nonTree }

// Redundancy counts the non-tree edges that add no degree of freedom: all
// members of a consistent class, and all but one member of an inconsistent
// class.
func (cs *Classes) Redundancy() int {
	r := 0
	for _, c := range cs.classes {
		if c.Inconsistent() {
			r += c.Size() - 1
		} else {
			r += c.Size()
		}
	}
	return r
}

// ClassOf returns the class of the fundamental cycle closed by u–v.
func (cs *Classes) ClassOf(u, v string) (*Class, bool) {
	i, ok := cs.byPair[comparison.NewPair(u, v)]
	if !ok {
		return nil, false
	}
	return cs.classes[i], true
}

// Cycle returns the standardized fundamental cycle closed by u–v and its
// orientation relative to the class representative.
func (cs *Classes) Cycle(u, v string) ([]string, int, bool) {
	m, ok := cs.members[comparison.NewPair(u, v)]
	if !ok {
		return nil, 0, false
	}
	return slices.Clone(m.Cycle), m.Orientation, true
}
