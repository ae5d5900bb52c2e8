package agent

import (
	"fmt"
	"strings"

	"github.com/clinicops/workflow-agent/internal/actions"
)

// buildSummary renders a human-readable one-liner from the step results.
func buildSummary(steps []StepResult, dryRun bool) string {
	var parts []string

	for _, s := range steps {
		switch s.Status {
		case StepSuccess:
			if p := successSummary(s, dryRun); p != "" {
				parts = append(parts, p)
			}
		case StepFailed:
			parts = append(parts, fmt.Sprintf("%s failed: %s", s.Action, s.Error))
		case StepSkipped:
			parts = append(parts, fmt.Sprintf("%s %s", s.Action, s.Error))
		}
	}

	if len(parts) == 0 {
		return "No actions completed"
	}
	return strings.Join(parts, " | ")
}

func successSummary(s StepResult, dryRun bool) string {
	switch s.Action {
	case actions.ActionSearchPatient:
		out, ok := s.Output.(actions.SearchPatientResult)
		if !ok {
			return ""
		}
		return fmt.Sprintf("Found patient: %s (ID: %s)", out.Patient.DisplayName(), out.Patient.ID)

	case actions.ActionCheckInsurance:
		out, ok := s.Output.(actions.CheckInsuranceResult)
		if !ok {
			return ""
		}
		e := out.Eligibility
		return fmt.Sprintf("Insurance status: %s - %s (Policy: %s)", e.Status, e.Provider, e.PolicyNumber)

	case actions.ActionFindSlots:
		out, ok := s.Output.(actions.FindSlotsResult)
		if !ok {
			return ""
		}
		return fmt.Sprintf("Found %d available %s appointment slots", out.Count, out.Specialty)

	case actions.ActionBookAppointment:
		out, ok := s.Output.(actions.BookAppointmentResult)
		if !ok {
			return ""
		}
		appt := out.Appointment
		line := fmt.Sprintf("Appointment booked: %s on %s at %s with %s", appt.ID, appt.Date, appt.Time, appt.Doctor)
		if dryRun {
			line += " [dry run, not persisted]"
		}
		return line
	}
	return ""
}
