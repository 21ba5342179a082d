package convergence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/mtc/internal/telemetry"
	"github.com/katalvlaran/mtc/mcmc"
)

var tracer = telemetry.Tracer("convergence")

// Diagnostic holds the Gelman-Rubin quantities for one parameter.
type Diagnostic struct {
	Parameter string  `json:"parameter" yaml:"parameter"`
	W         float64 `json:"w" yaml:"w"`
	B         float64 `json:"b" yaml:"b"`
	V         float64 `json:"v" yaml:"v"`
	D         float64 `json:"d" yaml:"d"`
	PSRF      float64 `json:"psrf" yaml:"psrf"`
	// Chains and Samples describe the data used: Samples is the retained
	// half of each chain.
	Chains  int `json:"chains" yaml:"chains"`
	Samples int `json:"samples" yaml:"samples"`
	// Degenerate is set when W is zero and D is then 0. Identical constant
	// chains (B = 0) get PSRF 1; chains stuck at different constants get
	// PSRF +Inf. D is also 0 when the variance of V̂ vanishes, and no
	// correction is applied.
	Degenerate bool `json:"degenerate,omitempty" yaml:"degenerate,omitempty"`
}

// Converged reports whether PSRF does not exceed threshold.
func (d Diagnostic) Converged(threshold float64) bool { return d.PSRF <= threshold }

// Stuck reports whether every chain is constant but the chains disagree.
func (d Diagnostic) Stuck() bool { return d.Degenerate && d.B > 0 }

// MarshalJSON encodes an infinite PSRF as null.
func (d Diagnostic) MarshalJSON() ([]byte, error) {
	type plain Diagnostic
	out := struct {
		plain
		PSRF *float64 `json:"psrf"`
	}{plain: plain(d)}
	if !math.IsInf(d.PSRF, 0) {
		out.PSRF = &d.PSRF
	}
	return json.Marshal(out)
}

// UnmarshalJSON reverses MarshalJSON: a null PSRF decodes as +Inf.
func (d *Diagnostic) UnmarshalJSON(b []byte) error {
	type plain Diagnostic
	var in struct {
		plain
		PSRF *float64 `json:"psrf"`
	}
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*d = Diagnostic(in.plain)
	d.PSRF = math.Inf(1)
	if in.PSRF != nil {
		d.PSRF = *in.PSRF
	}
	return nil
}

// GelmanRubin computes the diagnostic for parameter p on the second half of
// every chain of results.
func GelmanRubin(results mcmc.Results, p mcmc.Parameter, opts ...Option) (Diagnostic, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ctx, span := tracer.Start(o.Ctx, "convergence.GelmanRubin", trace.WithAttributes(
		attribute.String("parameter", p.Name()),
		attribute.Int("chains", results.NumberOfChains()),
		attribute.Int("samples", results.NumberOfSamples()),
	))
	defer span.End()

	diag, err := gelmanRubin(results, p, o)
	switch {
	case err != nil:
		telemetry.DiagnosticsComputed.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Diagnostic{}, err
	case diag.Degenerate:
		telemetry.DiagnosticsComputed.WithLabelValues("degenerate").Inc()
		o.Logger.WarnContext(ctx, "zero within-chain variance",
			slog.String("parameter", p.Name()),
			slog.String("error", ErrDegenerateVariance.Error()),
		)
	default:
		telemetry.DiagnosticsComputed.WithLabelValues("ok").Inc()
	}
	if !math.IsInf(diag.PSRF, 0) {
		telemetry.ScaleReduction.Observe(diag.PSRF)
	}
	span.SetAttributes(attribute.Float64("psrf", diag.PSRF))
	o.Logger.DebugContext(ctx, "gelman-rubin diagnostic",
		slog.String("parameter", p.Name()),
		slog.Float64("psrf", diag.PSRF),
		slog.Float64("w", diag.W),
		slog.Float64("b", diag.B),
	)

	return diag, nil
}

// Diagnose returns only the PSRF of parameter p.
func Diagnose(results mcmc.Results, p mcmc.Parameter, opts ...Option) (float64, error) {
	d, err := GelmanRubin(results, p, opts...)
	if err != nil {
		return 0, err
	}
	return d.PSRF, nil
}

// DiagnoseAll computes the diagnostic for every parameter of results, in
// parameter order.
func DiagnoseAll(results mcmc.Results, opts ...Option) ([]Diagnostic, error) {
	ps := results.Parameters()
	out := make([]Diagnostic, 0, len(ps))
	for _, p := range ps {
		d, err := GelmanRubin(results, p, opts...)
		if err != nil {
			return nil, fmt.Errorf("convergence: %s: %w", p.Name(), err)
		}
		out = append(out, d)
	}
	return out, nil
}

// MaxPSRF returns the largest PSRF of ds, or 0 for none.
func MaxPSRF(ds []Diagnostic) float64 {
	var hi float64
	for _, d := range ds {
		hi = math.Max(hi, d.PSRF)
	}
	return hi
}

func gelmanRubin(results mcmc.Results, p mcmc.Parameter, o Options) (Diagnostic, error) {
	if !results.Available() {
		return Diagnostic{}, mcmc.ErrUnavailable
	}
	idx := results.FindParameter(p)
	if idx < 0 {
		return Diagnostic{}, fmt.Errorf("%w: %q", ErrUnknownParameter, p.Name())
	}
	if o.Samples > 0 {
		w, err := mcmc.NewWindow(results, 0, o.Samples)
		if err != nil {
			return Diagnostic{}, err
		}
		results = w
	}

	m, total := results.NumberOfChains(), results.NumberOfSamples()
	switch {
	case m < 2:
		return Diagnostic{}, fmt.Errorf("%w: got %d", ErrSingleChain, m)
	case total < 4:
		return Diagnostic{}, fmt.Errorf("%w: got %d", ErrTooFewSamples, total)
	case total%2 != 0:
		return Diagnostic{}, fmt.Errorf("%w: got %d", ErrOddSampleCount, total)
	}
	half, err := mcmc.NewWindow(results, total/2, total)
	if err != nil {
		return Diagnostic{}, err
	}

	means := make([]float64, m)
	vars := make([]float64, m)
	for c := 0; c < m; c++ {
		xs, err := half.Samples(idx, c)
		if err != nil {
			return Diagnostic{}, err
		}
		means[c], vars[c] = stat.MeanVariance(xs, nil)
	}
	return compute(p.Name(), means, vars, total/2), nil
}

// compute evaluates the statistic from per-chain means and variances over
// n retained samples each.
func compute(name string, means, vars []float64, n int) Diagnostic {
	m := float64(len(means))
	nf := float64(n)
	grand := stat.Mean(means, nil)

	var ss float64
	for _, x := range means {
		ss += (x - grand) * (x - grand)
	}
	d := Diagnostic{
		Parameter: name,
		Chains:    len(means),
		Samples:   n,
		W:         stat.Mean(vars, nil),
		B:         nf * ss / (m - 1),
	}
	sigma2 := d.W*(nf-1)/nf + d.B/nf
	d.V = sigma2 + d.B/(m*nf)

	if d.W == 0 {
		d.Degenerate = true
		d.PSRF = 1
		if d.B > 0 {
			d.PSRF = math.Inf(1)
		}
		return d
	}

	squared := make([]float64, len(means))
	for i, x := range means {
		squared[i] = x * x
	}
	varW := stat.Variance(vars, nil) / m
	varB := 2 * d.B * d.B / (m - 1)
	covWB := (nf / m) * (stat.Covariance(vars, squared, nil) - 2*grand*stat.Covariance(vars, means, nil))
	varV := ((nf-1)*(nf-1)*varW + (1+1/m)*(1+1/m)*varB + 2*(nf-1)*(1+1/m)*covWB) / (nf * nf)

	factor := 1.0
	if varV > 0 {
		d.D = 2 * d.V * d.V / varV
		factor = (d.D + 3) / (d.D + 1)
	}
	d.PSRF = math.Sqrt(factor * d.V / d.W)
	return d
}
