package parameterization

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/katalvlaran/mtc/comparison"
	"github.com/katalvlaran/mtc/search"
	"github.com/katalvlaran/mtc/spanningtree"
)

// Model selects the kind of network model to parameterize.
type Model int

const (
	// Consistency assumes direct and indirect evidence agree; it has basic
	// parameters only.
	Consistency Model = iota
	// Inconsistency adds one parameter per inconsistent cycle class.
	Inconsistency
	// NodeSplit separates the direct evidence on one comparison from the
	// indirect evidence through the rest of the network.
	NodeSplit
)

func (m Model) String() string {
	switch m {
	case Consistency:
		return "consistency"
	case Inconsistency:
		return "inconsistency"
	case NodeSplit:
		return "node-split"
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// ParseModel maps "consistency", "inconsistency" or "node-split" to a Model.
func ParseModel(s string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "consistency":
		return Consistency, nil
	case "inconsistency":
		return Inconsistency, nil
	case "node-split", "nodesplit":
		return NodeSplit, nil
	}
	return Consistency, fmt.Errorf("%w: %q", ErrUnknownModel, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Model) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Model) UnmarshalText(b []byte) error {
	v, err := ParseModel(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Option configures Build.
type Option func(*Options)

// Options holds Build parameters.
type Options struct {
	Ctx   context.Context
	Model Model
	// Baselines maps study id to baseline treatment id. Studies left out
	// get a baseline chosen by Build.
	Baselines map[string]string
	// TreeStrategy orders the spanning-tree search.
	TreeStrategy search.Strategy[*spanningtree.State]
	// MaxExpansions bounds each internal search; 0 means unbounded.
	MaxExpansions int
	// Split is the comparison a NodeSplit model separates.
	Split comparison.Pair
	// Tree replaces the spanning-tree search when set.
	Tree   *spanningtree.Tree
	Logger *slog.Logger
}

// DefaultOptions returns a consistency model with depth-first searches.
func DefaultOptions() Options {
	return Options{
		Ctx:          context.Background(),
		Model:        Consistency,
		TreeStrategy: search.DepthFirst[*spanningtree.State](),
		Logger:       slog.Default(),
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

// WithModel selects the model.
func WithModel(m Model) Option {
	return func(o *Options) { o.Model = m }
}

// WithBaselines fixes study baselines (study id → treatment id).
func WithBaselines(b map[string]string) Option {
	return func(o *Options) {
		o.Baselines = make(map[string]string, len(b))
		for k, v := range b {
			o.Baselines[k] = v
		}
	}
}

// WithStrategy replaces the spanning-tree search strategy.
func WithStrategy(s search.Strategy[*spanningtree.State]) Option {
	return func(o *Options) {
		if s != nil {
			o.TreeStrategy = s
		}
	}
}

// WithSplit sets the comparison of a NodeSplit model.
func WithSplit(a, b string) Option {
	return func(o *Options) { o.Split = comparison.NewPair(a, b) }
}

// WithTree fixes the spanning tree instead of searching for one. The tree
// must span the network's comparison graph; for NodeSplit models it must
// not contain the split comparison.
func WithTree(t *spanningtree.Tree) Option {
	return func(o *Options) { o.Tree = t }
}

// WithMaxExpansions bounds the tree and baseline searches.
func WithMaxExpansions(n int) Option {
	return func(o *Options) { o.MaxExpansions = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
