package search

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoSolution is returned when the queue empties without a goal.
	ErrNoSolution = errors.New("search: no solution")

	// ErrExpansionLimit is returned when WithMaxExpansions is exceeded.
	ErrExpansionLimit = errors.New("search: expansion limit reached")

	// ErrOptionViolation is returned for a nil problem, nil strategy or an
	// invalid option value.
	ErrOptionViolation = errors.New("search: invalid option supplied")
)

// Problem is a search problem over states of type S.
type Problem[S any] interface {
	// Initial returns the start state.
	Initial() S
	// Successors returns the states reachable in one step, in a stable order.
	Successors(state S) []S
	// IsGoal reports whether state solves the problem.
	IsGoal(state S) bool
}

// Keyer is implemented by states that can be deduplicated with WithDedup.
type Keyer interface {
	Key() string
}

// Strategy inserts newly generated states into the working queue and
// returns the resulting queue. It may reuse the backing array of queue.
type Strategy[S any] func(queue, next []S) []S

// Stats counts the work done by one search.
type Stats struct {
	// Expanded is the number of states popped and expanded.
	Expanded int
	// Generated is the number of successor states produced.
	Generated int
	// Skipped is the number of duplicate states dropped by WithDedup.
	Skipped int
}

// Option configures Search.
type Option func(*Options)

// Options holds search parameters.
type Options struct {
	Ctx           context.Context
	Dedup         bool
	MaxExpansions int
	Stats         *Stats

	err error
}

// DefaultOptions returns a background context, no deduplication and no
// expansion limit.
func DefaultOptions() Options {
	return Options{Ctx: context.Background()}
}

// WithContext sets a context checked once per expansion.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithDedup drops states whose Key was seen before. The state type must
// implement Keyer; otherwise Search fails with ErrOptionViolation.
func WithDedup() Option {
	return func(o *Options) { o.Dedup = true }
}

// WithMaxExpansions bounds the number of expansions; n == 0 means no bound.
func WithMaxExpansions(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxExpansions cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxExpansions = n
	}
}

// WithStats records counters into s.
func WithStats(s *Stats) Option {
	return func(o *Options) { o.Stats = s }
}
