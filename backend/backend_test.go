package backend_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mtc/backend"
	"github.com/katalvlaran/mtc/convergence"
	"github.com/katalvlaran/mtc/internal/fixture"
	"github.com/katalvlaran/mtc/internal/telemetry"
	"github.com/katalvlaran/mtc/mcmc"
	"github.com/katalvlaran/mtc/mtcerr"
	"github.com/katalvlaran/mtc/parameterization"
	"github.com/katalvlaran/mtc/summary"
)

func settings() backend.Settings {
	s := backend.DefaultSettings()
	s.Chains = 3
	s.TuningIterations = 10
	s.SimulationIterations = 2000
	s.Seed = 42
	s.Logger = telemetry.Discard()
	return s
}

func TestLookup(t *testing.T) {
	f, err := backend.Lookup("Synthetic")
	require.NoError(t, err)
	assert.Equal(t, backend.Synthetic, f.Backend())

	f, err = backend.Lookup("replay")
	require.NoError(t, err)
	assert.Equal(t, backend.Replay, f.Backend())

	_, err = backend.Lookup("jags")
	assert.ErrorIs(t, err, backend.ErrUnknownBackend)
	assert.ErrorIs(t, err, mtcerr.ErrConfiguration)
	_, err = backend.For(backend.Backend(9))
	assert.ErrorIs(t, err, backend.ErrUnknownBackend)

	assert.Equal(t, []string{"replay", "synthetic"}, backend.Names())

	var b backend.Backend
	require.NoError(t, b.UnmarshalText([]byte("replay")))
	assert.Equal(t, backend.Replay, b)
	text, err := b.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "replay", string(text))
}

func TestSynthetic_Run(t *testing.T) {
	f, err := backend.For(backend.Synthetic)
	require.NoError(t, err)
	s := settings()
	s.Means = map[string]float64{"d.A.B": 1}

	m, err := f.Consistency(fixture.Triangle(), s)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, m.ID())
	assert.Equal(t, []string{"d.A.B", "d.A.C"}, mcmc.ParameterNames(m.Parameters()))
	assert.False(t, m.Results().Available())

	calls := 0
	m.Results().AddListener(func(mcmc.Results) { calls++ })
	ab := summary.NewNormal(m.Results(), m.Parameters()[0])
	ac := summary.NewNormal(m.Results(), m.Parameters()[1])

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, 1, calls)
	assert.True(t, m.Results().Available())
	assert.Equal(t, 2000, m.Results().NumberOfSamples())
	assert.InDelta(t, 1, ab.Mean(), 0.1)
	assert.InDelta(t, 0, ac.Mean(), 0.1)
	assert.InDelta(t, 1, ab.StdDev(), 0.1)

	ds, err := convergence.DiagnoseAll(m.Results(), convergence.WithLogger(telemetry.Discard()))
	require.NoError(t, err)
	assert.Less(t, convergence.MaxPSRF(ds), 1.1)

	assert.ErrorIs(t, m.Run(context.Background()), backend.ErrAlreadyRun)
}

func TestSynthetic_Deterministic(t *testing.T) {
	f, err := backend.Lookup("synthetic")
	require.NoError(t, err)
	s := settings()
	s.SimulationIterations = 50

	run := func() []float64 {
		m, err := f.Inconsistency(fixture.Triangle(), s)
		require.NoError(t, err)
		require.NoError(t, m.Run(context.Background()))
		xs, err := m.Results().Samples(2, 1)
		require.NoError(t, err)
		return xs
	}
	first := run()
	assert.Equal(t, first, run())

	m, err := f.Inconsistency(fixture.Triangle(), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"d.A.B", "d.A.C", "w.A.B.C"}, mcmc.ParameterNames(m.Parameters()))
}

func TestSynthetic_Cancelled(t *testing.T) {
	f, err := backend.Lookup("synthetic")
	require.NoError(t, err)
	m, err := f.Consistency(fixture.Triangle(), settings())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = m.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, m.Results().Available())
}

func TestSynthetic_InvalidSettings(t *testing.T) {
	f, err := backend.Lookup("synthetic")
	require.NoError(t, err)
	s := settings()
	s.Chains = 0
	_, err = f.Consistency(fixture.Triangle(), s)
	assert.ErrorIs(t, err, backend.ErrInvalidSettings)

	_, err = f.Consistency(fixture.Disconnected(), settings())
	assert.ErrorIs(t, err, mtcerr.ErrStructural)
}

func TestNodeSplit(t *testing.T) {
	splits, err := parameterization.SplittableNodes(fixture.Triangle())
	require.NoError(t, err)
	require.NotEmpty(t, splits)
	assert.Equal(t, "d.A.B", splits[0].Name())

	synth, err := backend.Lookup("synthetic")
	require.NoError(t, err)
	s := settings()
	s.Means = map[string]float64{"d.A.B.dir": 2}
	m, err := synth.NodeSplit(fixture.Triangle(), splits[0], s)
	require.NoError(t, err)
	assert.Equal(t, parameterization.NodeSplit, m.Parameterization().Model())
	assert.Equal(t, []string{"d.A.C", "d.B.C", "d.A.B.dir"}, mcmc.ParameterNames(m.Parameters()))

	pv, err := summary.NewNodeSplitPValue(m.Results(), m.Parameterization())
	require.NoError(t, err)
	require.NoError(t, m.Run(context.Background()))
	require.True(t, pv.Defined(), "err: %v", pv.Err())
	// direct - indirect ~ N(2, 3), so P(direct > indirect) is about 0.88.
	assert.InDelta(t, 0.25, pv.PValue(), 0.05)

	replay, err := backend.Lookup("replay")
	require.NoError(t, err)
	rs := settings()
	rs.Trace = writeTrace(t, m.Results())
	rm, err := replay.NodeSplit(fixture.Triangle(), splits[0], rs)
	require.NoError(t, err)
	require.NoError(t, rm.Run(context.Background()))
	assert.Equal(t, 2000, rm.Results().NumberOfSamples())

	_, err = synth.NodeSplit(fixture.Triangle(), nil, s)
	assert.ErrorIs(t, err, parameterization.ErrInvalidSplit)

	rs.Trace = writeTrace(t, mustRun(t, synth, s))
	_, err = replay.NodeSplit(fixture.Triangle(), splits[0], rs)
	assert.ErrorIs(t, err, backend.ErrTraceMismatch)
}

// mustRun runs a consistency model of the triangle and returns its results.
func mustRun(t *testing.T, f backend.Factory, s backend.Settings) mcmc.Results {
	t.Helper()
	m, err := f.Consistency(fixture.Triangle(), s)
	require.NoError(t, err)
	require.NoError(t, m.Run(context.Background()))
	return m.Results()
}

func writeTrace(t *testing.T, r mcmc.Results) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.csv")
	out, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, mcmc.WriteCSV(out, r))
	require.NoError(t, out.Close())
	return path
}

func TestReplay_Run(t *testing.T) {
	synth, err := backend.Lookup("synthetic")
	require.NoError(t, err)
	s := settings()
	s.SimulationIterations = 100
	src, err := synth.Consistency(fixture.Triangle(), s)
	require.NoError(t, err)
	require.NoError(t, src.Run(context.Background()))

	replay, err := backend.Lookup("replay")
	require.NoError(t, err)
	rs := settings()
	rs.Trace = writeTrace(t, src.Results())
	m, err := replay.Consistency(fixture.Triangle(), rs)
	require.NoError(t, err)
	assert.Equal(t, 100, m.Settings().SimulationIterations)
	assert.False(t, m.Results().Available())

	require.NoError(t, m.Run(context.Background()))
	for p := range m.Parameters() {
		for c := 0; c < 3; c++ {
			want, err := src.Results().Samples(p, c)
			require.NoError(t, err)
			got, err := m.Results().Samples(p, c)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	}
}

func TestReplay_Errors(t *testing.T) {
	replay, err := backend.Lookup("replay")
	require.NoError(t, err)

	_, err = replay.Consistency(fixture.Triangle(), settings())
	assert.ErrorIs(t, err, backend.ErrInvalidSettings)

	s := settings()
	s.Trace = filepath.Join(t.TempDir(), "missing.csv")
	_, err = replay.Consistency(fixture.Triangle(), s)
	assert.ErrorIs(t, err, os.ErrNotExist)

	partial, err := mcmc.NewMemoryResults([]mcmc.Parameter{mcmc.NamedParameter("d.A.B")}, 3, 4)
	require.NoError(t, err)
	partial.MakeAvailable()
	s.Trace = writeTrace(t, partial)
	_, err = replay.Consistency(fixture.Triangle(), s)
	assert.ErrorIs(t, err, backend.ErrTraceMismatch)
}
