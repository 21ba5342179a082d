package search

import "fmt"

// Search runs the generic search loop and returns the first goal state.
func Search[S any](p Problem[S], strategy Strategy[S], opts ...Option) (S, error) {
	var zero S
	if p == nil || strategy == nil {
		return zero, fmt.Errorf("%w: nil problem or strategy", ErrOptionViolation)
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return zero, o.err
	}
	stats := o.Stats
	if stats == nil {
		stats = &Stats{}
	}

	var seen map[string]struct{}
	initial := p.Initial()
	if o.Dedup {
		k, ok := any(initial).(Keyer)
		if !ok {
			return zero, fmt.Errorf("%w: WithDedup needs states implementing Keyer", ErrOptionViolation)
		}
		seen = map[string]struct{}{k.Key(): {}}
	}

	queue := []S{initial}
	for len(queue) > 0 {
		select {
		case <-o.Ctx.Done():
			return zero, o.Ctx.Err()
		default:
		}

		state := queue[0]
		queue = queue[1:]
		if p.IsGoal(state) {
			return state, nil
		}
		if o.MaxExpansions > 0 && stats.Expanded >= o.MaxExpansions {
			return zero, fmt.Errorf("%w (%d)", ErrExpansionLimit, o.MaxExpansions)
		}

		stats.Expanded++
		next := p.Successors(state)
		stats.Generated += len(next)
		if seen != nil {
			next = dedup(next, seen, stats)
		}
		queue = strategy(queue, next)
	}

	return zero, ErrNoSolution
}

func dedup[S any](next []S, seen map[string]struct{}, stats *Stats) []S {
	kept := next[:0]
	for _, s := range next {
		k := any(s).(Keyer).Key()
		if _, dup := seen[k]; dup {
			stats.Skipped++
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, s)
	}

	return kept
}
