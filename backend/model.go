package backend

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/mtc/internal/telemetry"
	"github.com/katalvlaran/mtc/mcmc"
	"github.com/katalvlaran/mtc/parameterization"
)

var tracer = telemetry.Tracer("backend")

// runner fills m.results; Run publishes them afterwards.
type runner func(ctx context.Context, m *Model) error

// Model is a parameterized network bound to a backend and its settings.
type Model struct {
	id       uuid.UUID
	backend  Backend
	pmtz     *parameterization.Parameterization
	settings Settings
	results  *mcmc.MemoryResults
	run      runner

	mu  sync.Mutex
	ran bool
}

func newModel(b Backend, p *parameterization.Parameterization, s Settings, r *mcmc.MemoryResults, run runner) *Model {
	return &Model{
		id:       uuid.New(),
		backend:  b,
		pmtz:     p,
		settings: s,
		results:  r,
		run:      run,
	}
}

// ID is the run identifier.
func (m *Model) ID() uuid.UUID { return m.id }

// Backend returns the backend that built m.
func (m *Model) Backend() Backend { return m.backend }

// Parameterization returns the model parameterization.
func (m *Model) Parameterization() *parameterization.Parameterization { return m.pmtz }

// Settings returns the run settings.
func (m *Model) Settings() Settings { return m.settings }

// Results returns the results provider. It becomes available when Run
// succeeds; listeners may be attached before that.
func (m *Model) Results() mcmc.Results { return m.results }

// Parameters returns the sampled parameters, basic first.
func (m *Model) Parameters() []mcmc.Parameter {
	ps := m.pmtz.Parameters()
	out := make([]mcmc.Parameter, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}

// Run produces the samples and publishes them. It may be called once.
func (m *Model) Run(ctx context.Context) error {
	m.mu.Lock()
	if m.ran {
		m.mu.Unlock()
		return ErrAlreadyRun
	}
	m.ran = true
	m.mu.Unlock()

	log := m.settings.logger().With(
		slog.String("run_id", m.id.String()),
		slog.String("backend", m.backend.String()),
	)
	ctx, span := tracer.Start(ctx, "backend.Run", trace.WithAttributes(
		attribute.String("run_id", m.id.String()),
		attribute.String("backend", m.backend.String()),
		attribute.String("model", m.pmtz.Model().String()),
		attribute.Int("parameters", len(m.results.Parameters())),
		attribute.Int("chains", m.results.NumberOfChains()),
	))
	defer span.End()

	start := time.Now()
	log.InfoContext(ctx, "run started",
		slog.Int("chains", m.results.NumberOfChains()),
		slog.Int("samples", m.results.Capacity()),
	)
	if err := m.run(ctx, m); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorContext(ctx, "run failed", slog.String("error", err.Error()))
		return fmt.Errorf("backend: run %s: %w", m.id, err)
	}
	m.results.MakeAvailable()
	log.InfoContext(ctx, "run finished", slog.Duration("elapsed", time.Since(start)))
	return nil
}
