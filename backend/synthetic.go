package backend

import (
	"context"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/mtc/mcmc"
	"github.com/katalvlaran/mtc/model"
	"github.com/katalvlaran/mtc/parameterization"
)

type syntheticFactory struct{}

func (syntheticFactory) Backend() Backend { return Synthetic }

func (f syntheticFactory) Consistency(n *model.Network, s Settings) (*Model, error) {
	return f.model(n, s, parameterization.Consistency)
}

func (f syntheticFactory) Inconsistency(n *model.Network, s Settings) (*Model, error) {
	return f.model(n, s, parameterization.Inconsistency)
}

func (f syntheticFactory) NodeSplit(n *model.Network, split *parameterization.BasicParameter, s Settings) (*Model, error) {
	return f.model(n, s, parameterization.NodeSplit, splitOption(split))
}

func (syntheticFactory) model(n *model.Network, s Settings, kind parameterization.Model, extra ...parameterization.Option) (*Model, error) {
	if err := s.validate(Synthetic); err != nil {
		return nil, err
	}
	p, err := parameterize(n, s, kind, extra...)
	if err != nil {
		return nil, err
	}
	m := newModel(Synthetic, p, s, nil, runSynthetic)
	if m.results, err = mcmc.NewMemoryResults(m.Parameters(), s.Chains, s.SimulationIterations); err != nil {
		return nil, err
	}
	return m, nil
}

// runSynthetic draws every chain in its own goroutine. Chain c uses a PCG
// source seeded with (Seed, c), so runs are reproducible regardless of
// scheduling. Tuning draws are generated and discarded.
func runSynthetic(ctx context.Context, m *Model) error {
	s := m.settings
	params := m.results.Parameters()
	g, ctx := errgroup.WithContext(ctx)
	for c := 0; c < s.Chains; c++ {
		g.Go(func() error {
			src := rand.NewPCG(s.Seed, uint64(c))
			for p, param := range params {
				dist := distuv.Normal{Mu: s.Means[param.Name()], Sigma: 1, Src: src}
				for i := 0; i < s.TuningIterations; i++ {
					dist.Rand()
				}
				chain := make([]float64, s.SimulationIterations)
				for i := range chain {
					if i%4096 == 0 {
						if err := ctx.Err(); err != nil {
							return err
						}
					}
					chain[i] = dist.Rand()
				}
				if err := m.results.SetChain(p, c, chain); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func parameterize(n *model.Network, s Settings, kind parameterization.Model, extra ...parameterization.Option) (*parameterization.Parameterization, error) {
	opts := append([]parameterization.Option{
		parameterization.WithModel(kind),
		parameterization.WithLogger(s.logger()),
	}, s.Build...)
	return parameterization.Build(n, append(opts, extra...)...)
}

func splitOption(split *parameterization.BasicParameter) parameterization.Option {
	if split == nil {
		return parameterization.WithSplit("", "")
	}
	return parameterization.WithSplit(split.Base.ID, split.Subject.ID)
}
