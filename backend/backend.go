package backend

import (
	"fmt"
	"slices"
	"strings"

	"github.com/katalvlaran/mtc/model"
	"github.com/katalvlaran/mtc/mtcerr"
	"github.com/katalvlaran/mtc/parameterization"
)

var (
	// ErrUnknownBackend is returned by Lookup and ParseBackend.
	ErrUnknownBackend = fmt.Errorf("%w: backend: unknown backend", mtcerr.ErrConfiguration)

	// ErrInvalidSettings is returned for settings a backend cannot run with.
	ErrInvalidSettings = fmt.Errorf("%w: backend: invalid settings", mtcerr.ErrConfiguration)

	// ErrTraceMismatch is returned by the replay backend when the trace does
	// not hold a sample column for every model parameter.
	ErrTraceMismatch = fmt.Errorf("%w: backend: trace does not match model", mtcerr.ErrConfiguration)

	// ErrAlreadyRun is returned by a second Model.Run.
	ErrAlreadyRun = fmt.Errorf("%w: backend: model already run", mtcerr.ErrConfiguration)
)

// Backend names a sampler implementation.
type Backend int

const (
	// Synthetic draws independent normal samples.
	Synthetic Backend = iota
	// Replay reads samples from a CSV trace.
	Replay
)

var names = map[Backend]string{
	Synthetic: "synthetic",
	Replay:    "replay",
}

func (b Backend) String() string {
	if s, ok := names[b]; ok {
		return s
	}
	return fmt.Sprintf("Backend(%d)", int(b))
}

// ParseBackend maps a backend name to a Backend.
func ParseBackend(s string) (Backend, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for b, name := range names {
		if name == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, s)
}

// MarshalText implements encoding.TextMarshaler.
func (b Backend) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Backend) UnmarshalText(text []byte) error {
	v, err := ParseBackend(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Names returns the registered backend names, sorted.
func Names() []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Factory builds models for one backend.
type Factory interface {
	Backend() Backend
	Consistency(n *model.Network, s Settings) (*Model, error)
	Inconsistency(n *model.Network, s Settings) (*Model, error)
	// NodeSplit builds a model that splits the given comparison, usually
	// one returned by parameterization.SplittableNodes.
	NodeSplit(n *model.Network, split *parameterization.BasicParameter, s Settings) (*Model, error)
}

var factories = map[Backend]Factory{
	Synthetic: syntheticFactory{},
	Replay:    replayFactory{},
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, error) {
	b, err := ParseBackend(name)
	if err != nil {
		return nil, err
	}
	return For(b)
}

// For returns the factory of b.
func For(b Backend) (Factory, error) {
	f, ok := factories[b]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, b)
	}
	return f, nil
}
