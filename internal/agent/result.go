package agent

import "time"

// State is the per-request lifecycle position.
type State string

const (
	StateReceived  State = "RECEIVED"
	StateValidated State = "VALIDATED"
	StatePlanned   State = "PLANNED"
	StateExecuting State = "EXECUTING"
	StateCompleted State = "COMPLETED"
	StateRefused   State = "REFUSED"
	StateFailed    State = "FAILED"
)

// Status is the aggregate outcome of a request.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusPartial Status = "PARTIAL"
	StatusFailed  Status = "FAILED"
	StatusRefused Status = "REFUSED"
)

// StepStatus is the outcome of a single plan step.
type StepStatus string

const (
	StepSuccess StepStatus = "SUCCESS"
	StepFailed  StepStatus = "FAILED"
	StepSkipped StepStatus = "SKIPPED"
)

// StepResult records one executed (or skipped) plan step. Every planned step
// appears in the result, no step is silently dropped.
type StepResult struct {
	Action string         `json:"action"`
	Input  map[string]any `json:"input,omitempty"`
	Output any            `json:"output,omitempty"`
	Error  string         `json:"error,omitempty"`
	Status StepStatus     `json:"status"`
}

// Result is the structured response returned to the caller.
type Result struct {
	RequestID string       `json:"request_id"`
	Request   string       `json:"request"`
	Status    Status       `json:"status"`
	State     State        `json:"state"`
	Steps     []StepResult `json:"steps"`
	Summary   string       `json:"summary"`
	DryRun    bool         `json:"dry_run"`
	Timestamp time.Time    `json:"timestamp"`
}
