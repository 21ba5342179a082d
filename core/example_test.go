package core_test

import (
	"fmt"

	"github.com/katalvlaran/mtc/core"
)

// ExampleGraph_EdgesBetween folds two studies on the same pair into
// parallel labeled edges.
func ExampleGraph_EdgesBetween() {
	g := core.NewGraph(core.WithMultiEdges())
	_, _ = g.AddEdge("A", "B", core.WithEdgeLabel("study-1"))
	_, _ = g.AddEdge("B", "A", core.WithEdgeLabel("study-2"))

	for _, e := range g.EdgesBetween("A", "B") {
		fmt.Println(e.ID, e.Label)
	}
	// Output:
	// e1 study-1
	// e2 study-2
}
