package main

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/mtc/model"
	"github.com/katalvlaran/mtc/parameterization"
)

var schemas = map[string]func() *jsonschema.Schema{
	"network":          model.DocumentSchema,
	"parameterization": parameterization.DescriptionSchema,
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema [network|parameterization]",
		Short:     "Print JSON Schemas of the input and output documents",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"network", "parameterization"},
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if len(args) == 1 {
				fn, ok := schemas[args[0]]
				if !ok {
					return fmt.Errorf("unknown schema %q", args[0])
				}
				return enc.Encode(fn())
			}
			all := make(map[string]*jsonschema.Schema, len(schemas))
			for name, fn := range schemas {
				all[name] = fn()
			}
			return enc.Encode(all)
		},
	}
}
