package main

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/mtc/backend"
	"github.com/katalvlaran/mtc/convergence"
	"github.com/katalvlaran/mtc/model"
	"github.com/katalvlaran/mtc/parameterization"
	"github.com/katalvlaran/mtc/summary"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		backendName string
		trace       string
		modelName   string
		strategy    string
		baselines   map[string]string
		split       string
		samples     int
	)

	cmd := &cobra.Command{
		Use:   "run <network.yaml>",
		Short: "Run a sampler backend and summarize its output",
		Long: `Build a model through the backend lookup table, run it, and print posterior
summaries (mean, standard deviation, quantiles), the PSRF of every parameter,
rank probabilities of all treatments for consistency models and the
direct-versus-indirect p-value for node-split models.

Backends:
  synthetic  independent normal draws, for exercising the pipeline
  replay     samples read from --trace

Example: mtc run network.yaml --backend replay --trace trace.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := readNetwork(args[0])
			if err != nil {
				return err
			}
			if backendName == "" {
				backendName = a.cfg.Sampler.Backend
			}
			f, err := backend.Lookup(backendName)
			if err != nil {
				return err
			}
			kind, err := a.model(modelName)
			if err != nil {
				return err
			}
			build, err := a.buildOptions(strategy, baselines)
			if err != nil {
				return err
			}

			s := backend.Settings{
				Chains:               a.cfg.Sampler.Chains,
				TuningIterations:     a.cfg.Sampler.TuningIterations,
				SimulationIterations: a.cfg.Sampler.SimulationIterations,
				Seed:                 a.cfg.Sampler.Seed,
				Trace:                trace,
				Build:                build,
				Logger:               a.log,
			}
			if samples > 0 {
				s.SimulationIterations = samples
			}
			var m *backend.Model
			switch kind {
			case parameterization.Inconsistency:
				m, err = f.Inconsistency(n, s)
			case parameterization.NodeSplit:
				bp, serr := splitComparison(n, split)
				if serr != nil {
					return serr
				}
				m, err = f.NodeSplit(n, bp, s)
			default:
				m, err = f.Consistency(n, s)
			}
			if err != nil {
				return err
			}

			sums, err := attachSummaries(m, n, a.log)
			if err != nil {
				return err
			}
			defer sums.close()
			if err := m.Run(cmd.Context()); err != nil {
				return err
			}
			return sums.write(cmd.OutOrStdout(), m, a.cfg.Convergence.PSRFThreshold)
		},
	}

	cmd.Flags().StringVar(&backendName, "backend", "", "sampler backend, synthetic or replay (default from configuration)")
	cmd.Flags().StringVar(&trace, "trace", "", "CSV trace for the replay backend")
	cmd.Flags().StringVar(&modelName, "model", "", "consistency, inconsistency or node-split (default from configuration)")
	cmd.Flags().StringVar(&split, "split", "", "comparison split by a node-split model, as base:subject")
	cmd.Flags().StringVar(&strategy, "strategy", "", "spanning-tree search order, dfs or bfs")
	cmd.Flags().StringToStringVar(&baselines, "baseline", nil, "fixed study baseline as study=treatment, repeatable")
	cmd.Flags().IntVar(&samples, "samples", 0, "simulation iterations per chain (synthetic backend)")

	return cmd
}

type runSummaries struct {
	normal   []*summary.Normal
	quantile []*summary.Quantile
	psrf     []*summary.Convergence
	ranks    *summary.RankProbability
	split    *summary.NodeSplitPValue
}

// attachSummaries registers every summary on the model results before the
// run, so they are computed by the readiness event.
func attachSummaries(m *backend.Model, n *model.Network, log *slog.Logger) (*runSummaries, error) {
	s := &runSummaries{}
	r := m.Results()
	for _, p := range m.Parameters() {
		s.normal = append(s.normal, summary.NewNormal(r, p))
		s.quantile = append(s.quantile, summary.NewQuantile(r, p))
		s.psrf = append(s.psrf, summary.NewConvergence(r, p, convergence.WithLogger(log)))
	}
	if m.Parameterization().Model() == parameterization.NodeSplit {
		split, err := summary.NewNodeSplitPValue(r, m.Parameterization())
		if err != nil {
			s.close()
			return nil, err
		}
		s.split = split
		return s, nil
	}
	if m.Parameterization().Model() != parameterization.Consistency {
		return s, nil
	}
	var ids []string
	for _, t := range n.SortedTreatments() {
		ids = append(ids, t.ID)
	}
	if len(ids) < 2 {
		return s, nil
	}
	ranks, err := summary.NewRankProbability(r, m.Parameterization(), ids)
	if err != nil {
		s.close()
		return nil, err
	}
	s.ranks = ranks
	return s, nil
}

func (s *runSummaries) close() {
	for _, x := range s.normal {
		x.Close()
	}
	for _, x := range s.quantile {
		x.Close()
	}
	for _, x := range s.psrf {
		x.Close()
	}
	if s.ranks != nil {
		s.ranks.Close()
	}
	if s.split != nil {
		s.split.Close()
	}
}

func (s *runSummaries) write(w io.Writer, m *backend.Model, threshold float64) error {
	fmt.Fprintf(w, "run %s (%s, %s model)\n\n", m.ID(), m.Backend(), m.Parameterization().Model())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PARAMETER\tMEAN\tSD\t2.5%\t50%\t97.5%\tPSRF\t")
	for i, ns := range s.normal {
		q, c := s.quantile[i], s.psrf[i]
		flag := ""
		if c.Defined() && !c.Diagnostic().Converged(threshold) {
			flag = "*"
		}
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f%s\n",
			ns.Parameter().Name(), ns.Mean(), ns.StdDev(),
			q.Quantile(0), q.Quantile(1), q.Quantile(2),
			c.ScaleReduction(), flag)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if s.split != nil && s.split.Defined() {
		p := m.Parameterization()
		fmt.Fprintf(w, "\nnode split %s: P(%s > %s) = %.4f, p-value = %.4f\n",
			p.DirectParameter().Pair(), p.DirectParameter().Name(), p.IndirectParameter().Name(),
			s.split.Proportion(), s.split.PValue())
	}

	if s.ranks == nil || !s.ranks.Defined() {
		return nil
	}
	fmt.Fprintln(w)
	ts := s.ranks.Treatments()
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "TREATMENT")
	for r := range ts {
		fmt.Fprintf(tw, "\tRANK %d", r+1)
	}
	fmt.Fprintln(tw, "\t")
	for _, t := range ts {
		fmt.Fprint(tw, t)
		for r := range ts {
			fmt.Fprintf(tw, "\t%.3f", s.ranks.Value(t, r+1))
		}
		fmt.Fprintln(tw, "\t")
	}
	return tw.Flush()
}
