package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/mtc/parameterization"
)

func newParameterizeCmd(a *app) *cobra.Command {
	var (
		modelName string
		strategy  string
		baselines map[string]string
		split     string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "parameterize <network.yaml>",
		Short: "Print the parameterization of a network",
		Long: `Build the consistency or inconsistency parameterization of a network and
print its spanning tree, basic and inconsistency parameters, study baselines,
cycle classes and the expression of every comparison.

A node-split model separates the direct and indirect evidence on the
comparison given with --split; "mtc splittable" lists the candidates.

Example: mtc parameterize network.yaml --model inconsistency --baseline 1=C
         mtc parameterize network.yaml --model node-split --split A:B`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := readNetwork(args[0])
			if err != nil {
				return err
			}
			m, err := a.model(modelName)
			if err != nil {
				return err
			}
			opts, err := a.buildOptions(strategy, baselines)
			if err != nil {
				return err
			}
			opts = append(opts,
				parameterization.WithModel(m),
				parameterization.WithContext(cmd.Context()),
			)
			if m == parameterization.NodeSplit || split != "" {
				bp, err := splitComparison(n, split)
				if err != nil {
					return err
				}
				opts = append(opts, parameterization.WithSplit(bp.Base.ID, bp.Subject.ID))
			}
			p, err := parameterization.Build(n, opts...)
			if err != nil {
				return err
			}
			d, err := p.Describe()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(d); err != nil {
				return fmt.Errorf("encoding description: %w", err)
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringVar(&modelName, "model", "", "consistency, inconsistency or node-split (default from configuration)")
	cmd.Flags().StringVar(&split, "split", "", "comparison split by a node-split model, as base:subject")
	cmd.Flags().StringVar(&strategy, "strategy", "", "spanning-tree search order, dfs or bfs (default from configuration)")
	cmd.Flags().StringToStringVar(&baselines, "baseline", nil, "fixed study baseline as study=treatment, repeatable")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of YAML")

	return cmd
}
