package saga

import (
	"context"
	"log/slog"
	"time"

	"github.com/draftea/order-system/shared/models"
	"github.com/draftea/order-system/shared/telemetry"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Orchestrator drives one saga execution for one order: steps run in sequence,
// each successful step is appended to the completed-steps ledger, and on the
// first failure the ledger is compensated in strict reverse order before the
// order is marked failed. An Orchestrator is single-use.
type Orchestrator struct {
	sagaID   models.ID
	steps    []Step
	recorder TransitionRecorder
	logger   *slog.Logger
	metrics  *Metrics

	state  State
	ledger []Step
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithMetrics sets the saga metrics collector.
func WithMetrics(m *Metrics) OrchestratorOption {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// NewOrchestrator creates an orchestrator bound to one order.
func NewOrchestrator(sagaID models.ID, steps []Step, recorder TransitionRecorder, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		sagaID:   sagaID,
		steps:    steps,
		recorder: recorder,
		logger:   slog.Default(),
		state:    StateNotStarted,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// State returns the current execution state.
func (o *Orchestrator) State() State {
	return o.state
}

// Ledger returns the names of the steps completed so far, in execution order.
func (o *Orchestrator) Ledger() []string {
	names := make([]string, 0, len(o.ledger))
	for _, step := range o.ledger {
		names = append(names, step.Name)
	}
	return names
}

// Execute runs the saga to one of its terminal states. It returns an error
// only on misuse (re-executing a finished saga); participant failures are
// reported through the Result envelope, never as an error.
func (o *Orchestrator) Execute(ctx context.Context) (*Result, error) {
	if o.state != StateNotStarted {
		return nil, errors.Errorf("saga %s already executed (state %s)", o.sagaID, o.state)
	}
	o.state = StateRunning

	ctx, span := telemetry.StartSpan(ctx, "saga.execute",
		trace.WithAttributes(attribute.String("saga.id", o.sagaID.String())),
	)
	defer span.End()

	start := time.Now()

	for _, step := range o.steps {
		o.logger.Info("executing saga step", "saga_id", o.sagaID, "step", step.Name)

		outcome := step.Invoke(ctx)
		if !outcome.Success {
			o.logger.Error("saga step failed, compensating",
				"saga_id", o.sagaID,
				"step", step.Name,
				"error", outcome.Error,
			)
			return o.abort(ctx, step.Name, outcome, start), nil
		}

		o.ledger = append(o.ledger, step)

		if err := o.recorder.StepCompleted(ctx, step.Name); err != nil {
			// The participant committed but the status write did not, so the
			// step is already in the ledger and gets compensated with the rest.
			o.logger.Error("recording saga step failed, compensating",
				"saga_id", o.sagaID,
				"step", step.Name,
				"error", err,
			)
			return o.abort(ctx, step.Name, StepOutcome{Error: err.Error()}, start), nil
		}

		o.logger.Info("saga step completed", "saga_id", o.sagaID, "step", step.Name)
	}

	o.state = StateSucceeded
	o.metrics.observeExecution(resultSucceeded, time.Since(start))
	o.logger.Info("saga completed", "saga_id", o.sagaID)

	return &Result{Success: true}, nil
}

// abort compensates the ledger, marks the order failed and builds the failure
// envelope for the step that triggered it.
func (o *Orchestrator) abort(ctx context.Context, failedStep string, outcome StepOutcome, start time.Time) *Result {
	o.compensate(ctx)

	if err := o.recorder.SagaFailed(ctx); err != nil {
		// Nothing left to undo at this point; the failure is surfaced to the
		// caller through the envelope regardless.
		o.logger.Error("marking saga as failed errored", "saga_id", o.sagaID, "error", err)
	}
	o.state = StateFailed
	o.metrics.observeExecution(resultFailed, time.Since(start))

	return &Result{Success: false, FailedStep: failedStep, Error: &outcome}
}

// compensate traverses the completed-steps ledger in strict reverse order.
// Compensation is best-effort: a failed compensating call is logged and never
// retried, and never blocks the next compensation in the sequence.
func (o *Orchestrator) compensate(ctx context.Context) {
	o.state = StateCompensating

	for i := len(o.ledger) - 1; i >= 0; i-- {
		step := o.ledger[i]
		if step.Compensate == nil {
			continue
		}

		o.logger.Info("compensating saga step", "saga_id", o.sagaID, "step", step.Name)
		o.metrics.observeCompensation(step.Name)

		if outcome := step.Compensate(ctx); !outcome.Success {
			o.logger.Error("saga step compensation failed",
				"saga_id", o.sagaID,
				"step", step.Name,
				"error", outcome.Error,
			)
		}
	}
}
