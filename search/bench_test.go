package search_test

import (
	"errors"
	"testing"

	"github.com/katalvlaran/mtc/search"
)

// deepTree is a binary tree of labels up to depth with no goal, so every
// search explores it completely.
type deepTree struct{ depth int }

func (d deepTree) Initial() label { return "" }

func (d deepTree) Successors(s label) []label {
	if len(s) >= d.depth {
		return nil
	}
	return []label{s + "0", s + "1"}
}

func (deepTree) IsGoal(label) bool { return false }

// BenchmarkSearch measures full exploration of 2^15-1 states per strategy.
func BenchmarkSearch(b *testing.B) {
	p := deepTree{depth: 14}
	for _, bc := range []struct {
		name     string
		strategy search.Strategy[label]
		opts     []search.Option
	}{
		{"depth-first", search.DepthFirst[label](), nil},
		{"breadth-first", search.BreadthFirst[label](), nil},
		{"breadth-first/dedup", search.BreadthFirst[label](), []search.Option{search.WithDedup()}},
	} {
		b.Run(bc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := search.Search[label](p, bc.strategy, bc.opts...); !errors.Is(err, search.ErrNoSolution) {
					b.Fatalf("unexpected result: %v", err)
				}
			}
		})
	}
}
