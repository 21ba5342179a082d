package mcmc_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mtc/mcmc"
	"github.com/katalvlaran/mtc/mtcerr"
)

func params(names ...string) []mcmc.Parameter {
	ps := make([]mcmc.Parameter, len(names))
	for i, n := range names {
		ps[i] = mcmc.NamedParameter(n)
	}
	return ps
}

func value(p, c, i int) float64 {
	return math.Sin(float64(i)*0.37+float64(c)) * float64(p+1)
}

// filled returns an unavailable provider where every sample is value(p, c, i).
func filled(t *testing.T, ps []mcmc.Parameter, chains, samples int) *mcmc.MemoryResults {
	t.Helper()
	r, err := mcmc.NewMemoryResults(ps, chains, samples)
	require.NoError(t, err)
	for p := range ps {
		for c := 0; c < chains; c++ {
			chain := make([]float64, samples)
			for i := range chain {
				chain[i] = value(p, c, i)
			}
			require.NoError(t, r.SetChain(p, c, chain))
		}
	}
	return r
}

func TestMemoryResults_ReadsBeforeAvailable(t *testing.T) {
	r := filled(t, params("x"), 2, 4)

	assert.False(t, r.Available())
	assert.Equal(t, 0, r.NumberOfSamples())
	assert.Equal(t, 4, r.Capacity())
	_, err := r.Sample(0, 0, 0)
	assert.ErrorIs(t, err, mcmc.ErrUnavailable)
	assert.ErrorIs(t, err, mtcerr.ErrAvailability)
	_, err = r.Samples(0, 1)
	assert.ErrorIs(t, err, mcmc.ErrUnavailable)

	r.MakeAvailable()
	assert.Equal(t, 4, r.NumberOfSamples())
	v, err := r.Sample(0, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, value(0, 1, 3), v)
}

func TestMemoryResults_ListenersFireOnce(t *testing.T) {
	r := filled(t, params("x"), 2, 4)

	var order []string
	r.AddListener(func(got mcmc.Results) {
		assert.True(t, got.Available(), "listener must observe the available state")
		order = append(order, "first")
	})
	second := r.AddListener(func(mcmc.Results) { order = append(order, "second") })
	removed := r.AddListener(func(mcmc.Results) { order = append(order, "removed") })
	r.RemoveListener(removed)

	r.MakeAvailable()
	r.MakeAvailable()
	assert.Equal(t, []string{"first", "second"}, order)

	r.RemoveListener(second)
	r.Clear()
	assert.False(t, r.Available())
	r.MakeAvailable()
	assert.Equal(t, []string{"first", "second", "first"}, order)

	v, err := r.Sample(0, 0, 1)
	require.NoError(t, err)
	assert.Zero(t, v, "Clear drops samples")
}

func TestMemoryResults_Errors(t *testing.T) {
	_, err := mcmc.NewMemoryResults(nil, 1, 1)
	assert.ErrorIs(t, err, mcmc.ErrInvalidShape)
	assert.ErrorIs(t, err, mtcerr.ErrConfiguration)
	_, err = mcmc.NewMemoryResults(params("x"), 0, 1)
	assert.ErrorIs(t, err, mcmc.ErrInvalidShape)

	r := filled(t, params("x", "y"), 2, 3)
	assert.ErrorIs(t, r.Set(2, 0, 0, 1), mcmc.ErrOutOfRange)
	assert.ErrorIs(t, r.Set(0, 2, 0, 1), mcmc.ErrOutOfRange)
	assert.ErrorIs(t, r.Set(0, 0, 3, 1), mcmc.ErrOutOfRange)
	assert.ErrorIs(t, r.SetChain(0, 0, []float64{1}), mcmc.ErrOutOfRange)

	r.MakeAvailable()
	_, err = r.Sample(0, 0, -1)
	assert.ErrorIs(t, err, mcmc.ErrOutOfRange)
	_, err = r.Samples(1, 5)
	assert.ErrorIs(t, err, mcmc.ErrOutOfRange)
}

func TestMemoryResults_FindParameter(t *testing.T) {
	r := filled(t, params("d.A.B", "d.A.C"), 1, 1)
	assert.Equal(t, 1, r.FindParameter(mcmc.NamedParameter("d.A.C")))
	assert.Equal(t, -1, r.FindParameter(mcmc.NamedParameter("w.A.B.C")))
	assert.Equal(t, []string{"d.A.B", "d.A.C"}, mcmc.ParameterNames(r.Parameters()))
}

func TestMemoryResults_SamplesAreCopies(t *testing.T) {
	r := filled(t, params("x"), 1, 3)
	r.MakeAvailable()

	s, err := r.Samples(0, 0)
	require.NoError(t, err)
	s[0] = 42
	v, err := r.Sample(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, value(0, 0, 0), v)
}

func TestWindow_ProjectsRange(t *testing.T) {
	r := filled(t, params("x", "y"), 3, 10000)
	w, err := mcmc.NewWindow(r, 100, 150)
	require.NoError(t, err)

	assert.False(t, w.Available())
	assert.Equal(t, 0, w.NumberOfSamples())
	_, err = w.Sample(0, 0, 0)
	assert.ErrorIs(t, err, mcmc.ErrUnavailable)

	r.MakeAvailable()
	require.True(t, w.Available())
	require.Equal(t, 50, w.NumberOfSamples())
	assert.Equal(t, 3, w.NumberOfChains())
	for p := 0; p < 2; p++ {
		for c := 0; c < 3; c++ {
			s, err := w.Samples(p, c)
			require.NoError(t, err)
			require.Len(t, s, 50)
			for i := 0; i < 50; i++ {
				want := value(p, c, 100+i)
				got, err := w.Sample(p, c, i)
				require.NoError(t, err)
				assert.Equal(t, math.Float64bits(want), math.Float64bits(got))
				assert.Equal(t, math.Float64bits(want), math.Float64bits(s[i]))
			}
		}
	}
	_, err = w.Sample(0, 0, 50)
	assert.ErrorIs(t, err, mcmc.ErrOutOfRange)
}

// opaque hides every method beyond the Results interface.
type opaque struct{ mcmc.Results }

func TestWindow_SampleRange(t *testing.T) {
	r := filled(t, params("x"), 2, 1000)
	r.MakeAvailable()

	outer, err := mcmc.NewWindow(r, 100, 900)
	require.NoError(t, err)
	inner, err := mcmc.NewWindow(outer, 10, 20)
	require.NoError(t, err)
	viaOpaque, err := mcmc.NewWindow(opaque{r}, 110, 120)
	require.NoError(t, err)

	direct, err := r.SampleRange(0, 1, 110, 120)
	require.NoError(t, err)
	nested, err := inner.Samples(0, 1)
	require.NoError(t, err)
	fallback, err := viaOpaque.Samples(0, 1)
	require.NoError(t, err)

	require.Len(t, direct, 10)
	assert.Equal(t, 10, cap(nested))
	for i := range direct {
		assert.Equal(t, value(0, 1, 110+i), direct[i])
	}
	assert.Equal(t, direct, nested)
	assert.Equal(t, direct, fallback)

	part, err := outer.SampleRange(0, 0, 5, 8)
	require.NoError(t, err)
	assert.Equal(t, []float64{value(0, 0, 105), value(0, 0, 106), value(0, 0, 107)}, part)
	_, err = outer.SampleRange(0, 0, 5, 801)
	assert.ErrorIs(t, err, mcmc.ErrOutOfRange)
	_, err = r.SampleRange(0, 0, 900, 1001)
	assert.ErrorIs(t, err, mcmc.ErrOutOfRange)
}

func TestWindow_ForwardsReadiness(t *testing.T) {
	r := filled(t, params("x"), 2, 10)
	w, err := mcmc.NewWindow(r, 2, 6)
	require.NoError(t, err)

	var seen mcmc.Results
	calls := 0
	w.AddListener(func(got mcmc.Results) {
		seen = got
		calls++
	})
	r.MakeAvailable()
	assert.Equal(t, 1, calls)
	assert.Same(t, w, seen)
}

func TestWindow_Bounds(t *testing.T) {
	r := filled(t, params("x"), 2, 10)
	_, err := mcmc.NewWindow(r, 5, 5)
	assert.ErrorIs(t, err, mcmc.ErrOutOfRange)
	_, err = mcmc.NewWindow(r, -1, 5)
	assert.ErrorIs(t, err, mcmc.ErrOutOfRange)

	late, err := mcmc.NewWindow(r, 5, 20)
	require.NoError(t, err, "unavailable nested results are checked on read")
	r.MakeAvailable()
	_, err = late.Samples(0, 0)
	assert.ErrorIs(t, err, mcmc.ErrOutOfRange)
	_, err = mcmc.NewWindow(r, 5, 20)
	assert.ErrorIs(t, err, mcmc.ErrOutOfRange)
}

func TestLastHalf(t *testing.T) {
	r := filled(t, params("x"), 2, 10)
	_, err := mcmc.LastHalf(r)
	assert.ErrorIs(t, err, mcmc.ErrUnavailable)

	r.MakeAvailable()
	w, err := mcmc.LastHalf(r)
	require.NoError(t, err)
	assert.Equal(t, 5, w.Start())
	assert.Equal(t, 10, w.End())
}

func TestCSV_RoundTrip(t *testing.T) {
	r := filled(t, params("d.A.B", "d.A.C"), 2, 5)
	r.MakeAvailable()

	var buf bytes.Buffer
	require.NoError(t, mcmc.WriteCSV(&buf, r))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "id,d.A.B,d.A.C", lines[0])
	assert.True(t, strings.HasPrefix(lines[6], "6,"), "chain 1 starts at row 6")

	back, err := mcmc.ReadCSV(&buf, nil, 2, 0)
	require.NoError(t, err)
	assert.False(t, back.Available())
	back.MakeAvailable()
	assert.Equal(t, 5, back.NumberOfSamples())
	assert.Equal(t, []string{"d.A.B", "d.A.C"}, mcmc.ParameterNames(back.Parameters()))
	for p := 0; p < 2; p++ {
		for c := 0; c < 2; c++ {
			want, _ := r.Samples(p, c)
			got, err := back.Samples(p, c)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	}
}

func TestReadCSV_Malformed(t *testing.T) {
	for name, tc := range map[string]struct {
		in      string
		params  []mcmc.Parameter
		chains  int
		samples int
	}{
		"empty":          {in: "", chains: 1},
		"no columns":     {in: "id\n1\n", chains: 1},
		"bad number":     {in: "id,x\n1,abc\n", chains: 1},
		"uneven chains":  {in: "id,x\n1,1\n2,2\n3,3\n", chains: 2},
		"wrong rows":     {in: "id,x\n1,1\n2,2\n", chains: 1, samples: 3},
		"param mismatch": {in: "id,x\n1,1\n", params: params("x", "y"), chains: 1},
		"ragged":         {in: "id,x\n1,1,5\n", chains: 1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := mcmc.ReadCSV(strings.NewReader(tc.in), tc.params, tc.chains, tc.samples)
			require.Error(t, err)
			assert.True(t, errors.Is(err, mcmc.ErrMalformedTrace), "got %v", err)
		})
	}
}

func TestReadCSV_DeclaredShape(t *testing.T) {
	in := "\"\",\"d.A.B\"\n\"1\",0.5\n\"2\",1.5\n\"3\",2.5\n\"4\",3.5\n"
	r, err := mcmc.ReadCSV(strings.NewReader(in), params("d.A.B"), 2, 2)
	require.NoError(t, err)
	r.MakeAvailable()

	s, err := r.Samples(0, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5, 3.5}, s)
}
