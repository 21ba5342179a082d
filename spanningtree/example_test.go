package spanningtree_test

import (
	"fmt"

	"github.com/katalvlaran/mtc/comparison"
	"github.com/katalvlaran/mtc/internal/fixture"
	"github.com/katalvlaran/mtc/spanningtree"
)

// ExampleSelect picks the best supported comparisons first.
func ExampleSelect() {
	g, _ := comparison.Build(fixture.WeightedTriangle())
	tr, err := spanningtree.Select(g)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, e := range tr.Edges() {
		fmt.Printf("%s -> %s (%d studies)\n", e.Parent.ID, e.Child.ID, len(e.Studies))
	}
	// Output:
	// A -> C (3 studies)
	// C -> B (2 studies)
}
