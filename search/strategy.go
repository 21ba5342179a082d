package search

import "sort"

// BreadthFirst appends successors to the back of the queue.
func BreadthFirst[S any]() Strategy[S] {
	return func(queue, next []S) []S {
		return append(queue, next...)
	}
}

// DepthFirst puts successors in front of the queue, keeping their order, so
// the first successor is expanded next.
func DepthFirst[S any]() Strategy[S] {
	return func(queue, next []S) []S {
		out := make([]S, 0, len(next)+len(queue))
		out = append(out, next...)
		return append(out, queue...)
	}
}

// BestFirst keeps the queue ordered by less. The sort is stable, so states
// that compare equal keep their generation order.
func BestFirst[S any](less func(a, b S) bool) Strategy[S] {
	return func(queue, next []S) []S {
		queue = append(queue, next...)
		sort.SliceStable(queue, func(i, j int) bool { return less(queue[i], queue[j]) })
		return queue
	}
}
