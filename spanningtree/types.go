package spanningtree

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/mtc/mtcerr"
	"github.com/katalvlaran/mtc/search"
)

var (
	// ErrEmptyNetwork indicates a comparison graph without treatments.
	ErrEmptyNetwork = fmt.Errorf("%w: spanningtree: empty network", mtcerr.ErrStructural)

	// ErrDisconnected indicates that no spanning tree exists.
	ErrDisconnected = fmt.Errorf("%w: spanningtree: comparison graph is disconnected", mtcerr.ErrStructural)

	// ErrNoAcceptableTree indicates that the acceptance predicate rejected
	// every spanning tree.
	ErrNoAcceptableTree = fmt.Errorf("%w: spanningtree: no acceptable spanning tree", mtcerr.ErrStructural)

	// ErrNotATree indicates edges that close a cycle or are not
	// comparisons of the graph.
	ErrNotATree = fmt.Errorf("%w: spanningtree: edges do not form a tree of the graph", mtcerr.ErrStructural)

	// ErrUnknownRoot indicates a WithRoot id that is not a treatment.
	ErrUnknownRoot = fmt.Errorf("%w: spanningtree: unknown root", mtcerr.ErrConfiguration)
)

// Option configures Select.
type Option func(*Options)

// Options holds selection parameters.
type Options struct {
	Ctx           context.Context
	Root          string
	Accept        func(*Tree) bool
	Strategy      search.Strategy[*State]
	MaxExpansions int
	Logger        *slog.Logger
}

// DefaultOptions returns depth-first selection rooted at the smallest id,
// accepting every spanning tree.
func DefaultOptions() Options {
	return Options{
		Ctx:      context.Background(),
		Strategy: search.DepthFirst[*State](),
		Logger:   slog.Default(),
	}
}

// WithContext sets the context for cancellation and tracing.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithRoot overrides the root treatment.
func WithRoot(id string) Option {
	return func(o *Options) { o.Root = id }
}

// WithAccept adds an acceptance predicate evaluated on complete trees.
func WithAccept(fn func(*Tree) bool) Option {
	return func(o *Options) { o.Accept = fn }
}

// WithStrategy replaces the queue strategy.
func WithStrategy(s search.Strategy[*State]) Option {
	return func(o *Options) {
		if s != nil {
			o.Strategy = s
		}
	}
}

// WithMaxExpansions bounds the search; 0 means unbounded.
func WithMaxExpansions(n int) Option {
	return func(o *Options) { o.MaxExpansions = n }
}

// WithLogger sets the logger for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
