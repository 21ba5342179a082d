package convergence

import (
	"context"
	"log/slog"
)

// Option configures a diagnostic run.
type Option func(*Options)

// Options holds diagnostic settings.
type Options struct {
	Ctx    context.Context
	Logger *slog.Logger
	// Samples restricts the diagnostic to the first Samples samples of each
	// chain before halving. Zero uses every sample.
	Samples int
}

// DefaultOptions uses every sample and the default logger.
func DefaultOptions() Options {
	return Options{Ctx: context.Background(), Logger: slog.Default()}
}

// WithContext sets the context used for tracing.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithSamples restricts the diagnostic to the first n samples.
func WithSamples(n int) Option {
	return func(o *Options) { o.Samples = n }
}
