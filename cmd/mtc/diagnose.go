package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/mtc/convergence"
	"github.com/katalvlaran/mtc/mcmc"
)

func newDiagnoseCmd(a *app) *cobra.Command {
	var (
		chains int
		window string
		asJSON bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "diagnose <samples.csv>",
		Short: "Compute Gelman-Rubin diagnostics for a CSV trace",
		Long: `Read a CSV trace (header row, id column, rows chain-major) and print the
potential scale reduction factor with W, B, V and d for every parameter.
Parameters above the configured PSRF threshold are flagged.

Example: mtc diagnose trace.csv --chains 4 --window 0:20000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("chains") {
				chains = a.cfg.Sampler.Chains
			}
			r, err := readTrace(args[0], chains)
			if err != nil {
				return err
			}
			var results mcmc.Results = r
			if window != "" {
				start, end, err := parseWindow(window)
				if err != nil {
					return err
				}
				if results, err = mcmc.NewWindow(r, start, end); err != nil {
					return err
				}
			}

			ds, err := convergence.DiagnoseAll(results,
				convergence.WithContext(cmd.Context()),
				convergence.WithLogger(a.log),
			)
			if err != nil {
				return err
			}
			threshold := a.cfg.Convergence.PSRFThreshold
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(ds); err != nil {
					return err
				}
			} else if err := writeDiagnostics(cmd.OutOrStdout(), ds, threshold); err != nil {
				return err
			}
			if strict && convergence.MaxPSRF(ds) > threshold {
				return fmt.Errorf("not converged: max PSRF %.4f above %.4f", convergence.MaxPSRF(ds), threshold)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&chains, "chains", 0, "number of chains in the trace (default from configuration)")
	cmd.Flags().StringVar(&window, "window", "", "restrict to samples start:end before halving")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any PSRF exceeds the threshold")

	return cmd
}

func readTrace(path string, chains int) (*mcmc.MemoryResults, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := mcmc.ReadCSV(f, nil, chains, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.MakeAvailable()
	return r, nil
}

func parseWindow(s string) (int, int, error) {
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("window %q: want start:end", s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, fmt.Errorf("window start: %w", err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, fmt.Errorf("window end: %w", err)
	}
	return start, end, nil
}

func writeDiagnostics(w io.Writer, ds []convergence.Diagnostic, threshold float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PARAMETER\tPSRF\tW\tB\tV\tD\t")
	for _, d := range ds {
		flag := ""
		switch {
		case d.Stuck():
			flag = "stuck"
		case d.Degenerate:
			flag = "constant"
		case !d.Converged(threshold):
			flag = "*"
		}
		fmt.Fprintf(tw, "%s\t%.4f\t%.4g\t%.4g\t%.4g\t%.4g\t%s\n", d.Parameter, d.PSRF, d.W, d.B, d.V, d.D, flag)
	}
	return tw.Flush()
}
