package comparison

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/mtc/model"
	"github.com/katalvlaran/mtc/mtcerr"
)

// ErrUnknownTreatment is returned by queries naming a treatment that is not
// a vertex of the graph.
var ErrUnknownTreatment = fmt.Errorf("%w: comparison: unknown treatment", mtcerr.ErrStructural)

// Pair is an unordered treatment pair in canonical order (A < B by id).
type Pair struct {
	A, B string
}

// NewPair returns the canonical Pair of u and v.
func NewPair(u, v string) Pair {
	if v < u {
		u, v = v, u
	}
	return Pair{A: u, B: v}
}

// Less orders pairs lexicographically by (A, B).
func (p Pair) Less(o Pair) bool {
	if p.A != o.A {
		return p.A < o.A
	}
	return p.B < o.B
}

// Has reports whether id is an endpoint of p.
func (p Pair) Has(id string) bool { return p.A == id || p.B == id }

// Other returns the endpoint of p that is not id.
func (p Pair) Other(id string) string {
	if p.A == id {
		return p.B
	}
	return p.A
}

func (p Pair) String() string { return p.A + "-" + p.B }

// Edge is one (study, pair) occurrence in the multigraph.
type Edge struct {
	// ID is the underlying core edge id.
	ID string
	// A and B are the endpoints in canonical order.
	A, B *model.Treatment
	// Study is the study the comparison was observed in.
	Study *model.Study
}

// Pair returns the canonical pair of e.
func (e Edge) Pair() Pair { return Pair{A: e.A.ID, B: e.B.ID} }

// FoldedEdge is every occurrence of one pair, collapsed.
type FoldedEdge struct {
	A, B *model.Treatment
	// Studies supporting the comparison, sorted by id.
	Studies []*model.Study
}

// Pair returns the canonical pair of f.
func (f FoldedEdge) Pair() Pair { return Pair{A: f.A.ID, B: f.B.ID} }

// Support is the number of studies backing the comparison.
func (f FoldedEdge) Support() int { return len(f.Studies) }

// StudyIDs returns the sorted ids of the supporting studies.
func (f FoldedEdge) StudyIDs() []string {
	ids := make([]string, len(f.Studies))
	for i, s := range f.Studies {
		ids[i] = s.ID
	}
	return ids
}

func sortStudies(ss []*model.Study) {
	sort.Slice(ss, func(i, j int) bool { return ss[i].ID < ss[j].ID })
}
