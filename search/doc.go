// Package search implements a generic state-space search whose only policy
// is the queue-insertion strategy.
//
// The loop pops the front of a working queue, tests it against the goal,
// and otherwise hands its successors to the Strategy, which returns the new
// queue:
//
//	BreadthFirst  – successors appended to the back
//	DepthFirst    – successors pushed on the front, in their given order
//	BestFirst     – queue kept stably sorted by a caller-supplied order
//
// Problems must generate successors in a stable order; the search adds no
// randomness of its own, so identical problems yield identical answers.
//
// Options: WithContext (cancellation), WithDedup (skip states whose Key
// was already queued; the state type must implement Keyer),
// WithMaxExpansions (abort with ErrExpansionLimit), WithStats.
package search
