package convergence_test

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mtc/convergence"
	"github.com/katalvlaran/mtc/internal/telemetry"
	"github.com/katalvlaran/mtc/mcmc"
	"github.com/katalvlaran/mtc/mtcerr"
)

var x = mcmc.NamedParameter("x")

// chains builds available results for one parameter from per-chain samples.
func chains(t *testing.T, data ...[]float64) *mcmc.MemoryResults {
	t.Helper()
	r, err := mcmc.NewMemoryResults([]mcmc.Parameter{x}, len(data), len(data[0]))
	require.NoError(t, err)
	for c, d := range data {
		require.NoError(t, r.SetChain(0, c, d))
	}
	r.MakeAvailable()
	return r
}

func normals(rng *rand.Rand, n int, mean, sd float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + sd*rng.NormFloat64()
	}
	return out
}

func quiet() convergence.Option { return convergence.WithLogger(telemetry.Discard()) }

func TestGelmanRubin_HandComputed(t *testing.T) {
	// Second halves: {1, 3} and {2, 6}.
	r := chains(t, []float64{100, -100, 1, 3}, []float64{7, 7, 2, 6})

	d, err := convergence.GelmanRubin(r, x, quiet())
	require.NoError(t, err)
	assert.Equal(t, "x", d.Parameter)
	assert.Equal(t, 2, d.Chains)
	assert.Equal(t, 2, d.Samples)
	assert.InDelta(t, 5.0, d.W, 1e-12)
	assert.InDelta(t, 4.0, d.B, 1e-12)
	assert.InDelta(t, 5.5, d.V, 1e-12)
	assert.InDelta(t, 2.9876543209876543, d.D, 1e-12)
	assert.InDelta(t, 1.2851858956500064, d.PSRF, 1e-12)
	assert.False(t, d.Degenerate)
}

func TestGelmanRubin_ConstantChains(t *testing.T) {
	r := chains(t, []float64{2, 2, 2, 2}, []float64{2, 2, 2, 2}, []float64{2, 2, 2, 2})

	d, err := convergence.GelmanRubin(r, x, quiet())
	require.NoError(t, err)
	assert.Equal(t, 1.0, d.PSRF)
	assert.Zero(t, d.B)
	assert.Zero(t, d.W)
	assert.True(t, d.Degenerate)

	assert.False(t, d.Stuck())
	assert.True(t, d.Converged(1.1))
}

func TestGelmanRubin_StuckChains(t *testing.T) {
	r := chains(t, []float64{0, 0, 0, 0}, []float64{5, 5, 5, 5})

	d, err := convergence.GelmanRubin(r, x, quiet())
	require.NoError(t, err)
	assert.Zero(t, d.W)
	assert.InDelta(t, 25.0, d.B, 1e-12)
	assert.True(t, d.Degenerate)
	assert.True(t, d.Stuck())
	assert.True(t, math.IsInf(d.PSRF, 1))
	assert.False(t, d.Converged(1.1))
	assert.True(t, math.IsInf(convergence.MaxPSRF([]convergence.Diagnostic{d}), 1))

	// Only the second half counts: these chains are constant there.
	split := chains(t, []float64{0, 0, 1, 1}, []float64{0, 0, 5, 5})
	d, err = convergence.GelmanRubin(split, x, quiet())
	require.NoError(t, err)
	assert.True(t, d.Stuck())
	assert.False(t, d.Converged(1.1))
}

func TestDiagnostic_JSON(t *testing.T) {
	stuck := convergence.Diagnostic{Parameter: "x", B: 25, PSRF: math.Inf(1), Chains: 2, Samples: 2, Degenerate: true}
	b, err := json.Marshal(stuck)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"psrf":null`)

	var back convergence.Diagnostic
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, "x", back.Parameter)
	assert.True(t, back.Stuck())
	assert.True(t, math.IsInf(back.PSRF, 1))

	ok := convergence.Diagnostic{Parameter: "y", W: 5, B: 4, PSRF: 1.25}
	b, err = json.Marshal(ok)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"psrf":1.25`)
	back = convergence.Diagnostic{}
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, ok, back)
}

func TestGelmanRubin_Invariance(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	base := [][]float64{
		normals(rng, 400, 0, 1),
		normals(rng, 400, 0.3, 1.2),
		normals(rng, 400, -0.2, 0.8),
	}
	transform := func(f func(float64) float64) *mcmc.MemoryResults {
		out := make([][]float64, len(base))
		for c, xs := range base {
			out[c] = make([]float64, len(xs))
			for i, v := range xs {
				out[c][i] = f(v)
			}
		}
		return chains(t, out...)
	}

	want, err := convergence.Diagnose(transform(func(v float64) float64 { return v }), x, quiet())
	require.NoError(t, err)
	shifted, err := convergence.Diagnose(transform(func(v float64) float64 { return v + 1000 }), x, quiet())
	require.NoError(t, err)
	scaled, err := convergence.Diagnose(transform(func(v float64) float64 { return 3 * v }), x, quiet())
	require.NoError(t, err)

	assert.InDelta(t, want, shifted, 1e-6)
	assert.InDelta(t, want, scaled, 1e-9)
}

func TestGelmanRubin_MixedAndSeparated(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	mixed := chains(t, normals(rng, 2000, 0, 1), normals(rng, 2000, 0, 1), normals(rng, 2000, 0, 1))
	psrf, err := convergence.Diagnose(mixed, x, quiet())
	require.NoError(t, err)
	assert.Less(t, psrf, 1.1)
	assert.Greater(t, psrf, 0.9)

	apart := chains(t, normals(rng, 2000, 0, 1), normals(rng, 2000, 10, 1))
	psrf, err = convergence.Diagnose(apart, x, quiet())
	require.NoError(t, err)
	assert.Greater(t, psrf, 2.0)
}

func TestGelmanRubin_WithSamples(t *testing.T) {
	r := chains(t,
		[]float64{100, -100, 1, 3, 50, 60},
		[]float64{7, 7, 2, 6, -50, 0},
	)
	psrf, err := convergence.Diagnose(r, x, quiet(), convergence.WithSamples(4))
	require.NoError(t, err)
	assert.InDelta(t, 1.2851858956500064, psrf, 1e-12)

	_, err = convergence.Diagnose(r, x, quiet(), convergence.WithSamples(8))
	assert.ErrorIs(t, err, mcmc.ErrOutOfRange)
}

func TestGelmanRubin_Errors(t *testing.T) {
	single := chains(t, []float64{1, 2, 3, 4})
	_, err := convergence.GelmanRubin(single, x, quiet())
	assert.ErrorIs(t, err, convergence.ErrSingleChain)
	assert.ErrorIs(t, err, mtcerr.ErrNumeric)

	odd := chains(t, []float64{1, 2, 3, 4, 5}, []float64{1, 2, 3, 4, 5})
	_, err = convergence.GelmanRubin(odd, x, quiet())
	assert.ErrorIs(t, err, convergence.ErrOddSampleCount)

	short := chains(t, []float64{1, 2}, []float64{3, 4})
	_, err = convergence.GelmanRubin(short, x, quiet())
	assert.ErrorIs(t, err, convergence.ErrTooFewSamples)

	_, err = convergence.GelmanRubin(short, mcmc.NamedParameter("y"), quiet())
	assert.ErrorIs(t, err, convergence.ErrUnknownParameter)

	pending, err := mcmc.NewMemoryResults([]mcmc.Parameter{x}, 2, 4)
	require.NoError(t, err)
	_, err = convergence.GelmanRubin(pending, x, quiet())
	assert.ErrorIs(t, err, mcmc.ErrUnavailable)
	assert.ErrorIs(t, err, mtcerr.ErrAvailability)
}

func TestDiagnoseAll(t *testing.T) {
	ps := []mcmc.Parameter{mcmc.NamedParameter("d.A.B"), mcmc.NamedParameter("d.A.C")}
	r, err := mcmc.NewMemoryResults(ps, 2, 4)
	require.NoError(t, err)
	require.NoError(t, r.SetChain(0, 0, []float64{100, -100, 1, 3}))
	require.NoError(t, r.SetChain(0, 1, []float64{7, 7, 2, 6}))
	require.NoError(t, r.SetChain(1, 0, []float64{0, 0, 1, 2}))
	require.NoError(t, r.SetChain(1, 1, []float64{0, 0, 1, 2}))
	r.MakeAvailable()

	ds, err := convergence.DiagnoseAll(r, quiet())
	require.NoError(t, err)
	require.Len(t, ds, 2)
	assert.Equal(t, "d.A.B", ds[0].Parameter)
	assert.Equal(t, "d.A.C", ds[1].Parameter)
	assert.InDelta(t, 1.2851858956500064, convergence.MaxPSRF(ds), 1e-12)
	assert.True(t, ds[0].Converged(1.3))
	assert.False(t, ds[0].Converged(1.2))
	assert.False(t, math.IsNaN(ds[1].PSRF))
}
