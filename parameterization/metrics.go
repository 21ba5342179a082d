package parameterization

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/katalvlaran/mtc/internal/telemetry"
)

var (
	tracer = telemetry.Tracer("parameterization")
	meter  = otel.Meter("mtc.parameterization")
)

var (
	buildLatency metric.Float64Histogram
	buildTotal   metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error
		buildLatency, err = meter.Float64Histogram(
			"parameterization_build_duration_seconds",
			metric.WithDescription("Duration of parameterization builds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}
		buildTotal, err = meter.Int64Counter(
			"parameterization_build_total",
			metric.WithDescription("Parameterization builds by model and outcome"),
		)
		if err != nil {
			metricsErr = err
		}
	})
	return metricsErr
}

func recordBuild(ctx context.Context, m Model, d time.Duration, degree int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	telemetry.ParameterizationsBuilt.WithLabelValues(m.String(), result).Inc()
	if err == nil && m == Inconsistency {
		telemetry.InconsistencyDegree.Observe(float64(degree))
	}

	if initMetrics() != nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("model", m.String()),
		attribute.Bool("success", err == nil),
	)
	buildLatency.Record(ctx, d.Seconds(), attrs)
	buildTotal.Add(ctx, 1, attrs)
}
