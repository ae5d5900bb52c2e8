// Package agent orchestrates request processing: safety validation, intent
// interpretation, plan execution against the action registry, and audit
// logging of every decision.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/workflow-agent/internal/actions"
	"github.com/clinicops/workflow-agent/internal/audit"
	"github.com/clinicops/workflow-agent/internal/interpret"
	"github.com/clinicops/workflow-agent/internal/observability/metrics"
	"github.com/clinicops/workflow-agent/internal/safety"
	"github.com/clinicops/workflow-agent/internal/store"
	"github.com/clinicops/workflow-agent/pkg/logging"
)

// Agent is the request orchestrator. It holds no per-request state beyond
// the working plan; entities live in the store.
type Agent struct {
	registry *actions.Registry
	recorder *audit.Recorder
	logger   *logging.Logger
	metrics  *metrics.AgentMetrics
	dryRun   bool
	now      func() time.Time
}

// Option configures the agent.
type Option func(*Agent)

// WithDryRun forces dry-run mode for every request the agent processes.
func WithDryRun(dryRun bool) Option {
	return func(a *Agent) { a.dryRun = dryRun }
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.AgentMetrics) Option {
	return func(a *Agent) { a.metrics = m }
}

// WithClock overrides the timestamp source. Tests only.
func WithClock(now func() time.Time) Option {
	return func(a *Agent) { a.now = now }
}

// New creates the agent.
func New(registry *actions.Registry, recorder *audit.Recorder, logger *logging.Logger, opts ...Option) *Agent {
	if logger == nil {
		logger = logging.Default()
	}
	a := &Agent{
		registry: registry,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// execState carries step outputs forward for causally dependent steps.
type execState struct {
	patientID   string
	patientName string
	slots       []store.Slot
}

// ProcessRequest runs one request end to end. dryRun simulates mutating
// actions for this request; the agent-level dry-run option applies to all
// requests regardless.
func (a *Agent) ProcessRequest(ctx context.Context, request string, dryRun bool) *Result {
	started := a.now()
	dryRun = dryRun || a.dryRun

	res := &Result{
		RequestID: uuid.NewString(),
		Request:   request,
		State:     StateReceived,
		DryRun:    dryRun,
		Timestamp: started.UTC(),
	}

	a.logger.Info("request received", "request_id", res.RequestID, "dry_run", dryRun)
	a.audit(res.RequestID, "request_received", summarizeInput(request), audit.OutcomeSuccess, "")

	// Safety gate: refusals short-circuit before any planning.
	verdict := safety.Scan(request)
	if !verdict.Safe() {
		res.State = StateRefused
		res.Status = StatusRefused
		res.Summary = verdict.Message
		a.audit(res.RequestID, "safety_check", summarizeInput(request), audit.OutcomeRefused, strings.Join(verdict.Reasons, ","))
		a.logger.Warn("request refused", "request_id", res.RequestID, "reasons", verdict.Reasons)
		a.metrics.ObserveRefusal()
		a.finish(res, started)
		return res
	}
	res.State = StateValidated
	a.audit(res.RequestID, "safety_check", summarizeInput(request), audit.OutcomeSuccess, "")

	plan := interpret.Interpret(request, a.now())
	res.State = StatePlanned
	a.audit(res.RequestID, "plan_created", summarizeInput(request), audit.OutcomeSuccess, planDetail(plan))
	a.logger.Info("plan created", "request_id", res.RequestID, "steps", len(plan.Steps))

	res.State = StateExecuting
	state := &execState{}
	internalErr := a.executeSteps(ctx, res, plan, state, dryRun)

	if internalErr != nil {
		res.State = StateFailed
		res.Status = StatusFailed
		res.Summary = fmt.Sprintf("internal error: %v", internalErr)
		a.audit(res.RequestID, "request_failed", summarizeInput(request), audit.OutcomeFailure, internalErr.Error())
		a.logger.Error("request failed", "request_id", res.RequestID, "error", internalErr)
		a.finish(res, started)
		return res
	}

	res.State = StateCompleted
	res.Status = aggregateStatus(res.Steps)
	res.Summary = buildSummary(res.Steps, dryRun)
	a.audit(res.RequestID, "request_completed", summarizeInput(request), completionOutcome(res.Status), string(res.Status))
	a.logger.Info("request completed", "request_id", res.RequestID, "status", res.Status)
	a.finish(res, started)
	return res
}

// executeSteps runs plan steps strictly in order. A step failure aborts only
// the steps causally dependent on its output; independent steps still run.
// The returned error is non-nil only for unexpected internal failures.
func (a *Agent) executeSteps(ctx context.Context, res *Result, plan interpret.Plan, state *execState, dryRun bool) error {
	for _, planned := range plan.Steps {
		var sr StepResult

		switch {
		case planned.Unresolvable:
			sr = StepResult{
				Action: planned.Action,
				Status: StepFailed,
				Error:  "parameter extraction failed: " + planned.Note,
			}
		default:
			var err error
			sr, err = a.runStep(ctx, planned.Action, plan, state, dryRun)
			if err != nil {
				return err
			}
		}

		res.Steps = append(res.Steps, sr)
		a.metrics.ObserveStep(sr.Action, string(sr.Status))
		a.audit(res.RequestID, sr.Action, inputSummary(sr.Input), stepOutcome(sr.Status), sr.Error)
	}
	return nil
}

func (a *Agent) runStep(ctx context.Context, action string, plan interpret.Plan, state *execState, dryRun bool) (StepResult, error) {
	switch action {
	case actions.ActionSearchPatient:
		params := actions.SearchPatientParams{Name: plan.PatientName}
		sr := StepResult{Action: action, Input: map[string]any{"name": params.Name}}

		out, err := a.registry.SearchPatient(ctx, params)
		if err != nil {
			return failStep(sr, err)
		}
		state.patientID = out.Patient.ID
		state.patientName = out.Patient.DisplayName()
		sr.Output = out
		sr.Status = StepSuccess
		return sr, nil

	case actions.ActionCheckInsurance:
		sr := StepResult{Action: action}
		if state.patientID == "" {
			sr.Status = StepSkipped
			sr.Error = "skipped: patient could not be resolved"
			return sr, nil
		}
		params := actions.CheckInsuranceParams{PatientID: state.patientID}
		sr.Input = map[string]any{"patient_id": params.PatientID}

		out, err := a.registry.CheckInsurance(ctx, params)
		if err != nil {
			return failStep(sr, err)
		}
		sr.Output = out
		sr.Status = StepSuccess
		return sr, nil

	case actions.ActionFindSlots:
		params := actions.FindSlotsParams{
			Specialty: string(plan.Specialty),
			StartDate: plan.Window.Start.Format("2006-01-02"),
			DaysAhead: plan.Window.DaysAhead,
		}
		sr := StepResult{Action: action, Input: map[string]any{
			"specialty":  params.Specialty,
			"start_date": params.StartDate,
			"days_ahead": params.DaysAhead,
		}}

		out, err := a.registry.FindSlots(ctx, params)
		if err != nil {
			return failStep(sr, err)
		}
		state.slots = out.Slots
		sr.Output = out
		sr.Status = StepSuccess
		return sr, nil

	case actions.ActionBookAppointment:
		sr := StepResult{Action: action}
		if state.patientID == "" {
			sr.Status = StepSkipped
			sr.Error = "skipped: patient could not be resolved"
			return sr, nil
		}
		if len(state.slots) == 0 {
			sr.Status = StepSkipped
			sr.Error = "skipped: no available slot to book"
			return sr, nil
		}

		// First available slot in the window, per the deterministic
		// slot ordering of the store.
		slot := state.slots[0]
		params := actions.BookAppointmentParams{
			PatientID: state.patientID,
			SlotID:    slot.ID,
			Specialty: string(plan.Specialty),
			Reason:    plan.Reason,
		}
		sr.Input = map[string]any{
			"patient_id": params.PatientID,
			"slot_id":    params.SlotID,
			"specialty":  params.Specialty,
			"reason":     params.Reason,
			"dry_run":    dryRun,
		}

		out, err := a.registry.BookAppointment(ctx, params, dryRun)
		if err != nil {
			return failStep(sr, err)
		}
		sr.Output = out
		sr.Status = StepSuccess
		return sr, nil

	default:
		return StepResult{}, fmt.Errorf("agent: unknown plan action %q", action)
	}
}

// failStep classifies an action error. Validation, not-found, and conflict
// errors are expected step-level failures; anything else is internal and
// propagated to the caller.
func failStep(sr StepResult, err error) (StepResult, error) {
	var verr *actions.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrSlotConflict):
		sr.Status = StepFailed
		sr.Error = err.Error()
		return sr, nil
	default:
		return sr, err
	}
}

func (a *Agent) finish(res *Result, started time.Time) {
	a.metrics.ObserveRequest(string(res.Status), res.DryRun, a.now().Sub(started).Seconds())
}

func (a *Agent) audit(requestID, action, input string, outcome audit.Outcome, detail string) {
	a.recorder.Append(audit.Entry{
		RequestID: requestID,
		Action:    action,
		Input:     input,
		Outcome:   outcome,
		Detail:    detail,
	})
}

// aggregateStatus folds step statuses into the request status.
func aggregateStatus(steps []StepResult) Status {
	var success, failed int
	for _, s := range steps {
		switch s.Status {
		case StepSuccess:
			success++
		case StepFailed, StepSkipped:
			failed++
		}
	}
	switch {
	case failed == 0:
		return StatusSuccess
	case success == 0:
		return StatusFailed
	default:
		return StatusPartial
	}
}

func completionOutcome(s Status) audit.Outcome {
	if s == StatusSuccess {
		return audit.OutcomeSuccess
	}
	if s == StatusRefused {
		return audit.OutcomeRefused
	}
	return audit.OutcomeFailure
}

func stepOutcome(s StepStatus) audit.Outcome {
	switch s {
	case StepSuccess:
		return audit.OutcomeSuccess
	case StepSkipped:
		return audit.OutcomeSkipped
	default:
		return audit.OutcomeFailure
	}
}

func planDetail(p interpret.Plan) string {
	names := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		name := s.Action
		if s.Unresolvable {
			name += "(unresolvable)"
		}
		names = append(names, name)
	}
	return strings.Join(names, " -> ")
}

func inputSummary(input map[string]any) string {
	if len(input) == 0 {
		return ""
	}
	// Stable order for the audit trail.
	keys := []string{"name", "patient_id", "slot_id", "specialty", "start_date", "days_ahead", "reason", "dry_run"}
	var parts []string
	for _, k := range keys {
		if v, ok := input[k]; ok {
			parts = append(parts, fmt.Sprintf("%s=%v", k, v))
		}
	}
	return strings.Join(parts, " ")
}

// summarizeInput truncates long request text for the audit trail.
func summarizeInput(request string) string {
	const max = 200
	request = strings.TrimSpace(request)
	if len(request) > max {
		return request[:max] + "..."
	}
	return request
}
