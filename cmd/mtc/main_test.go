package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mtc/convergence"
	"github.com/katalvlaran/mtc/parameterization"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("MTC_LOG_LEVEL", "")
	t.Setenv("MTC_BACKEND", "")
	t.Setenv("MTC_CHAINS", "")

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env"), "--log-level", "error"}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestParameterize_JSON(t *testing.T) {
	out, _, err := execute(t, "parameterize", "testdata/triangle.yaml", "--model", "inconsistency", "--json")
	require.NoError(t, err)

	var d parameterization.Description
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, parameterization.Inconsistency, d.Model)
	assert.Equal(t, []string{"d.A.B", "d.A.C"}, d.Basic)
	assert.Equal(t, []string{"w.A.B.C"}, d.Inconsistency)
	require.Len(t, d.Classes, 1)
	assert.True(t, d.Classes[0].Inconsistent)
}

func TestParameterize_YAML(t *testing.T) {
	out, _, err := execute(t, "parameterize", "testdata/triangle.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "model: consistency")
	assert.Contains(t, out, "- d.A.B")
	assert.NotContains(t, out, "w.A.B.C")
}

func TestParameterize_Errors(t *testing.T) {
	_, _, err := execute(t, "parameterize", "testdata/missing.yaml")
	assert.Error(t, err)

	_, _, err = execute(t, "parameterize", "testdata/triangle.yaml", "--model", "fixed")
	assert.ErrorIs(t, err, parameterization.ErrUnknownModel)

	_, _, err = execute(t, "parameterize", "testdata/triangle.yaml", "--baseline", "s1=C")
	assert.ErrorIs(t, err, parameterization.ErrInvalidBaseline)
}

func TestDiagnose(t *testing.T) {
	out, _, err := execute(t, "diagnose", "testdata/trace.csv", "--chains", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "PARAMETER")
	assert.Contains(t, out, "1.2852")

	out, _, err = execute(t, "diagnose", "testdata/trace.csv", "--chains", "2", "--json")
	require.NoError(t, err)
	var ds []convergence.Diagnostic
	require.NoError(t, json.Unmarshal([]byte(out), &ds))
	require.Len(t, ds, 2)
	assert.Equal(t, "d.A.B", ds[0].Parameter)
	assert.InDelta(t, 1.2851858956500064, ds[0].PSRF, 1e-12)

	_, _, err = execute(t, "diagnose", "testdata/trace.csv", "--chains", "2", "--strict")
	assert.Error(t, err)

	_, _, err = execute(t, "diagnose", "testdata/trace.csv", "--chains", "2", "--window", "0:2")
	assert.ErrorIs(t, err, convergence.ErrTooFewSamples)

	_, _, err = execute(t, "diagnose", "testdata/trace.csv", "--chains", "2", "--window", "oops")
	assert.Error(t, err)
}

func TestDiagnose_StuckChains(t *testing.T) {
	out, _, err := execute(t, "diagnose", "testdata/stuck.csv", "--chains", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "stuck")
	assert.Contains(t, out, "+Inf")

	out, _, err = execute(t, "diagnose", "testdata/stuck.csv", "--chains", "2", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"psrf": null`)

	_, _, err = execute(t, "diagnose", "testdata/stuck.csv", "--chains", "2", "--strict")
	assert.ErrorContains(t, err, "not converged")
}

func TestRun_Synthetic(t *testing.T) {
	out, _, err := execute(t, "run", "testdata/triangle.yaml", "--backend", "synthetic", "--samples", "400")
	require.NoError(t, err)
	assert.Contains(t, out, "synthetic, consistency model")
	assert.Contains(t, out, "d.A.C")
	assert.Contains(t, out, "RANK 3")

	_, _, err = execute(t, "run", "testdata/triangle.yaml", "--backend", "jags")
	assert.Error(t, err)
}

func TestNodeSplitCommands(t *testing.T) {
	out, _, err := execute(t, "splittable", "testdata/triangle.yaml")
	require.NoError(t, err)
	assert.Equal(t, "A:B\nA:C\nB:C\n", out)

	out, _, err = execute(t, "parameterize", "testdata/triangle.yaml", "--model", "node-split", "--split", "B:A", "--json")
	require.NoError(t, err)
	var d parameterization.Description
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, parameterization.NodeSplit, d.Model)
	require.NotNil(t, d.Split)
	assert.Equal(t, "d.A.B.dir", d.Split.Direct)
	assert.Equal(t, "+d.A.C -d.B.C", d.Split.IndirectExpression)

	out, _, err = execute(t, "run", "testdata/triangle.yaml", "--model", "node-split", "--split", "A:B", "--samples", "400")
	require.NoError(t, err)
	assert.Contains(t, out, "node-split model")
	assert.Contains(t, out, "node split A-B")
	assert.NotContains(t, out, "RANK 1")

	_, _, err = execute(t, "parameterize", "testdata/triangle.yaml", "--model", "node-split")
	assert.ErrorIs(t, err, parameterization.ErrInvalidSplit)
	_, _, err = execute(t, "run", "testdata/triangle.yaml", "--model", "node-split", "--split", "A:Z")
	assert.ErrorIs(t, err, parameterization.ErrInvalidSplit)
}

func TestSchema(t *testing.T) {
	out, _, err := execute(t, "schema", "network")
	require.NoError(t, err)
	var s map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Contains(t, s, "properties")

	out, _, err = execute(t, "schema")
	require.NoError(t, err)
	var all map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &all))
	assert.Contains(t, all, "network")
	assert.Contains(t, all, "parameterization")

	_, _, err = execute(t, "schema", "other")
	assert.Error(t, err)
}

func TestMetricsFlag(t *testing.T) {
	_, stderr, err := execute(t, "--metrics", "parameterize", "testdata/triangle.yaml")
	require.NoError(t, err)
	assert.Contains(t, stderr, "mtc_parameterizations_total")
}
