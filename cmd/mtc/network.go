package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/katalvlaran/mtc/model"
	"github.com/katalvlaran/mtc/parameterization"
	"github.com/katalvlaran/mtc/search"
	"github.com/katalvlaran/mtc/spanningtree"
)

// readNetwork decodes a YAML or JSON network document.
func readNetwork(path string) (*model.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := model.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	n, err := doc.Network()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

func treeStrategy(name string) (search.Strategy[*spanningtree.State], error) {
	switch name {
	case "", "dfs":
		return search.DepthFirst[*spanningtree.State](), nil
	case "bfs":
		return search.BreadthFirst[*spanningtree.State](), nil
	}
	return nil, fmt.Errorf("unknown tree strategy %q (want dfs or bfs)", name)
}

// buildOptions maps the configuration and flags onto parameterization
// options. The model is chosen by the caller.
func (a *app) buildOptions(strategy string, baselines map[string]string) ([]parameterization.Option, error) {
	if strategy == "" {
		strategy = a.cfg.Parameterization.Strategy
	}
	s, err := treeStrategy(strategy)
	if err != nil {
		return nil, err
	}
	opts := []parameterization.Option{
		parameterization.WithStrategy(s),
		parameterization.WithMaxExpansions(a.cfg.Parameterization.MaxExpansions),
		parameterization.WithLogger(a.log),
	}
	if len(baselines) > 0 {
		opts = append(opts, parameterization.WithBaselines(baselines))
	}
	return opts, nil
}

// splitComparison parses a --split value of the form "A:B" into the
// treatments of n.
func splitComparison(n *model.Network, flag string) (*parameterization.BasicParameter, error) {
	if flag == "" {
		return nil, fmt.Errorf("%w: node-split model needs --split", parameterization.ErrInvalidSplit)
	}
	ids := strings.Split(flag, ":")
	if len(ids) != 2 {
		return nil, fmt.Errorf("%w: --split %q, want base:subject", parameterization.ErrInvalidSplit, flag)
	}
	var ts [2]*model.Treatment
	for i, id := range ids {
		t, ok := n.Treatment(strings.TrimSpace(id))
		if !ok {
			return nil, fmt.Errorf("%w: --split names unknown treatment %q", parameterization.ErrInvalidSplit, id)
		}
		ts[i] = t
	}
	return parameterization.NewBasicParameter(ts[0], ts[1]), nil
}

func (a *app) model(flag string) (parameterization.Model, error) {
	if flag == "" {
		flag = a.cfg.Parameterization.Model
	}
	return parameterization.ParseModel(flag)
}
