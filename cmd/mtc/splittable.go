package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/mtc/parameterization"
)

func newSplittableCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "splittable <network.yaml>",
		Short: "List the comparisons a node-split model can split",
		Long: `List, one per line as base:subject, the comparisons whose treatments remain
connected once both arms are removed from every study that contains them.
Each line can be passed to --split.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := readNetwork(args[0])
			if err != nil {
				return err
			}
			splits, err := parameterization.SplittableNodes(n)
			if err != nil {
				return err
			}
			ids := make([]string, len(splits))
			for i, bp := range splits {
				ids[i] = bp.Base.ID + ":" + bp.Subject.ID
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(ids)
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON array")

	return cmd
}
