package summary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mtc/internal/fixture"
	"github.com/katalvlaran/mtc/internal/telemetry"
	"github.com/katalvlaran/mtc/mcmc"
	"github.com/katalvlaran/mtc/parameterization"
	"github.com/katalvlaran/mtc/summary"
)

// splitTriangle splits A-B in the triangle; the indirect effect is
// d.A.C - d.B.C.
func splitTriangle(t *testing.T) *parameterization.Parameterization {
	t.Helper()
	p, err := parameterization.Build(fixture.Triangle(),
		parameterization.WithModel(parameterization.NodeSplit),
		parameterization.WithSplit("A", "B"),
		parameterization.WithLogger(telemetry.Discard()),
	)
	require.NoError(t, err)
	return p
}

// chains returns unavailable two-chain results; data is keyed by parameter
// name and indexed by chain.
func chains(t *testing.T, names []string, data map[string][2][]float64) *mcmc.MemoryResults {
	t.Helper()
	ps := make([]mcmc.Parameter, len(names))
	for i, n := range names {
		ps[i] = mcmc.NamedParameter(n)
	}
	r, err := mcmc.NewMemoryResults(ps, 2, 4)
	require.NoError(t, err)
	for i, n := range names {
		for c, xs := range data[n] {
			require.NoError(t, r.SetChain(i, c, xs))
		}
	}
	return r
}

func TestNodeSplitPValue_DerivedIndirect(t *testing.T) {
	// Indirect is 1 - 0 = 1 throughout; direct exceeds it once in four.
	r := chains(t, []string{"d.A.C", "d.B.C", "d.A.B.dir"}, map[string][2][]float64{
		"d.A.C":     {{9, 9, 1, 1}, {9, 9, 1, 1}},
		"d.B.C":     {{9, 9, 0, 0}, {9, 9, 0, 0}},
		"d.A.B.dir": {{9, 9, 2, 0}, {9, 9, 0, 0}},
	})
	s, err := summary.NewNodeSplitPValue(r, splitTriangle(t))
	require.NoError(t, err)
	assert.False(t, s.Defined())

	r.MakeAvailable()
	require.True(t, s.Defined(), "err: %v", s.Err())
	assert.InDelta(t, 0.25, s.Proportion(), 1e-12)
	assert.InDelta(t, 0.5, s.PValue(), 1e-12)
}

func TestNodeSplitPValue_SampledIndirect(t *testing.T) {
	r := chains(t, []string{"d.A.B.dir", "d.A.B.ind"}, map[string][2][]float64{
		"d.A.B.dir": {{0, 0, 2, 2}, {0, 0, 2, 2}},
		"d.A.B.ind": {{5, 5, 0, 0}, {5, 5, 0, 0}},
	})
	r.MakeAvailable()

	s, err := summary.NewNodeSplitPValue(r, splitTriangle(t))
	require.NoError(t, err)
	require.True(t, s.Defined(), "err: %v", s.Err())
	assert.InDelta(t, 1.0, s.Proportion(), 1e-12)
	assert.Zero(t, s.PValue())
}

func TestNodeSplitPValue_Errors(t *testing.T) {
	r := chains(t, []string{"d.A.B.dir"}, map[string][2][]float64{
		"d.A.B.dir": {{0, 0, 0, 0}, {0, 0, 0, 0}},
	})
	_, err := summary.NewNodeSplitPValue(r, triangle(t))
	assert.ErrorIs(t, err, summary.ErrNotNodeSplit)

	s, err := summary.NewNodeSplitPValue(r, splitTriangle(t))
	require.NoError(t, err)
	r.MakeAvailable()
	assert.False(t, s.Defined())
	assert.ErrorIs(t, s.Err(), summary.ErrMissingParameter)
}
