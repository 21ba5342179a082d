package telemetry

import (
	"fmt"
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchExpansions counts states expanded by the generic search, by problem.
	SearchExpansions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mtc_search_expansions_total",
		Help: "States expanded by the generic search, by problem",
	}, []string{"problem"})

	// ParameterizationsBuilt counts parameterization builds by model and result.
	ParameterizationsBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mtc_parameterizations_total",
		Help: "Parameterization builds by model and result",
	}, []string{"model", "result"})

	// InconsistencyDegree records the number of inconsistency parameters per build.
	InconsistencyDegree = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mtc_inconsistency_degree",
		Help:    "Inconsistency parameters per inconsistency parameterization",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
	})

	// DiagnosticsComputed counts Gelman-Rubin evaluations by result.
	DiagnosticsComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mtc_convergence_diagnostics_total",
		Help: "Gelman-Rubin diagnostics by result (ok, degenerate, error)",
	}, []string{"result"})

	// ScaleReduction records PSRF values.
	ScaleReduction = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mtc_psrf",
		Help:    "Potential scale reduction factors computed",
		Buckets: []float64{1, 1.01, 1.02, 1.05, 1.1, 1.2, 1.5, 2, 5},
	})

	// ResultsPublished counts results providers that became available.
	ResultsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mtc_results_published_total",
		Help: "MCMC results providers that transitioned to available",
	})
)

// WriteMetrics prints every gathered mtc_* family from the default
// registry as "name{labels} value" lines, sorted.
func WriteMetrics(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return fmt.Errorf("telemetry: gather: %w", err)
	}
	var lines []string
	for _, mf := range families {
		name := mf.GetName()
		if len(name) < 4 || name[:4] != "mtc_" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := ""
			for i, lp := range m.GetLabel() {
				if i > 0 {
					labels += ","
				}
				labels += fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue())
			}
			if labels != "" {
				labels = "{" + labels + "}"
			}
			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s%s %g", name, labels, m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				lines = append(lines, fmt.Sprintf("%s_count%s %d", name, labels, h.GetSampleCount()))
				lines = append(lines, fmt.Sprintf("%s_sum%s %g", name, labels, h.GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}

	return nil
}
