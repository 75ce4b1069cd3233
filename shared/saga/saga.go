package saga

import (
	"context"
	"encoding/json"
)

// State represents the current state of one saga execution.
type State string

const (
	StateNotStarted   State = "not_started"
	StateRunning      State = "running"
	StateCompensating State = "compensating"
	StateSucceeded    State = "succeeded"
	StateFailed       State = "failed"
)

// StepOutcome is the normalized result of one participant call. Transport
// failures and explicit business declines both surface as Success == false so
// the orchestrator's branching stays uniform.
type StepOutcome struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Succeed builds a successful outcome carrying the participant response body.
func Succeed(data json.RawMessage) StepOutcome {
	return StepOutcome{Success: true, Data: data}
}

// Fail builds a failed outcome. The participant response body (if any) is kept
// for caller diagnostics alongside the error detail.
func Fail(data json.RawMessage, errDetail string) StepOutcome {
	return StepOutcome{Success: false, Data: data, Error: errDetail}
}

// Step is one forward action in the saga sequence. Compensate is nil for steps
// that cannot be undone (the last step in this system).
type Step struct {
	Name       string
	Invoke     func(ctx context.Context) StepOutcome
	Compensate func(ctx context.Context) StepOutcome
}

// Result is the execution envelope returned to the caller. On failure,
// FailedStep names the first forward step that did not succeed and Error is
// that step's raw outcome.
type Result struct {
	Success    bool         `json:"success"`
	FailedStep string       `json:"failed_step,omitempty"`
	Error      *StepOutcome `json:"error,omitempty"`
}

// TransitionRecorder is how the orchestrator moves the order record through
// its status lifecycle. The orchestrator is the only writer of the record it
// owns.
type TransitionRecorder interface {
	// StepCompleted is called after each successful forward step.
	StepCompleted(ctx context.Context, stepName string) error
	// SagaFailed is called once after all applicable compensations were
	// attempted.
	SagaFailed(ctx context.Context) error
}
