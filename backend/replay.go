package backend

import (
	"context"
	"fmt"
	"os"

	"github.com/katalvlaran/mtc/mcmc"
	"github.com/katalvlaran/mtc/model"
	"github.com/katalvlaran/mtc/parameterization"
)

type replayFactory struct{}

func (replayFactory) Backend() Backend { return Replay }

func (f replayFactory) Consistency(n *model.Network, s Settings) (*Model, error) {
	return f.model(n, s, parameterization.Consistency)
}

func (f replayFactory) Inconsistency(n *model.Network, s Settings) (*Model, error) {
	return f.model(n, s, parameterization.Inconsistency)
}

func (f replayFactory) NodeSplit(n *model.Network, split *parameterization.BasicParameter, s Settings) (*Model, error) {
	return f.model(n, s, parameterization.NodeSplit, splitOption(split))
}

// model reads the trace eagerly so that listeners can be attached to the
// results before Run publishes them.
func (replayFactory) model(n *model.Network, s Settings, kind parameterization.Model, extra ...parameterization.Option) (*Model, error) {
	if err := s.validate(Replay); err != nil {
		return nil, err
	}
	p, err := parameterize(n, s, kind, extra...)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(s.Trace)
	if err != nil {
		return nil, fmt.Errorf("backend: open trace: %w", err)
	}
	defer f.Close()
	results, err := mcmc.ReadCSV(f, nil, s.Chains, 0)
	if err != nil {
		return nil, fmt.Errorf("backend: %s: %w", s.Trace, err)
	}

	m := newModel(Replay, p, s, results, runReplay)
	for _, param := range m.Parameters() {
		if results.FindParameter(param) < 0 {
			return nil, fmt.Errorf("%w: no samples for %s", ErrTraceMismatch, param.Name())
		}
	}
	m.settings.SimulationIterations = results.Capacity()
	return m, nil
}

func runReplay(ctx context.Context, _ *Model) error {
	return ctx.Err()
}
