// Package actions implements the four workflow operations the agent can
// perform: patient search, insurance eligibility check, slot discovery, and
// appointment booking. Each action validates its parameters against its
// published schema before touching the store.
package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicops/workflow-agent/internal/store"
	"github.com/clinicops/workflow-agent/pkg/logging"
)

// Action names, as they appear in plans, results, and the audit trail.
const (
	ActionSearchPatient   = "search_patient"
	ActionCheckInsurance  = "check_insurance_eligibility"
	ActionFindSlots       = "find_available_slots"
	ActionBookAppointment = "book_appointment"
)

// ValidationError reports a malformed or missing required parameter.
type ValidationError struct {
	Action string
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("actions: %s: parameter %q %s", e.Action, e.Param, e.Reason)
}

// Registry binds the action functions to a store. The agent is the only
// caller; the HTTP layer never invokes actions directly.
type Registry struct {
	store  *store.Store
	logger *logging.Logger
}

// NewRegistry creates the action registry.
func NewRegistry(st *store.Store, logger *logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Default()
	}
	return &Registry{store: st, logger: logger}
}

// SearchPatientParams are the inputs for search_patient.
type SearchPatientParams struct {
	Name string `json:"name"`
}

// Validate checks required parameters.
func (p SearchPatientParams) Validate() error {
	if p.Name == "" {
		return &ValidationError{Action: ActionSearchPatient, Param: "name", Reason: "is required"}
	}
	return nil
}

// SearchPatientResult carries the matched patient as a FHIR-style resource.
type SearchPatientResult struct {
	Patient PatientResource `json:"patient"`
}

// SearchPatient resolves a free-text name to a patient record.
func (r *Registry) SearchPatient(ctx context.Context, p SearchPatientParams) (SearchPatientResult, error) {
	if err := p.Validate(); err != nil {
		return SearchPatientResult{}, err
	}
	r.logger.Info("action invoked", "action", ActionSearchPatient, "name", p.Name)

	patient, err := r.store.PatientByName(p.Name)
	if err != nil {
		return SearchPatientResult{}, err
	}
	return SearchPatientResult{Patient: toPatientResource(patient)}, nil
}

// CheckInsuranceParams are the inputs for check_insurance_eligibility.
type CheckInsuranceParams struct {
	PatientID string `json:"patient_id"`
}

// Validate checks required parameters.
func (p CheckInsuranceParams) Validate() error {
	if p.PatientID == "" {
		return &ValidationError{Action: ActionCheckInsurance, Param: "patient_id", Reason: "is required"}
	}
	return nil
}

// Eligibility is the flattened coverage summary returned to callers.
type Eligibility struct {
	PatientID    string                `json:"patient_id"`
	Status       store.InsuranceStatus `json:"status"`
	Provider     string                `json:"provider"`
	PolicyNumber string                `json:"policy_number"`
	CoverageType string                `json:"coverage_type"`
	CopayAmount  int                   `json:"copay_amount"`
	ValidUntil   string                `json:"valid_until"`
	IsEligible   bool                  `json:"is_eligible"`
}

// CheckInsuranceResult wraps the eligibility summary.
type CheckInsuranceResult struct {
	Eligibility Eligibility `json:"eligibility"`
}

// CheckInsurance reports coverage for a resolved patient ID.
func (r *Registry) CheckInsurance(ctx context.Context, p CheckInsuranceParams) (CheckInsuranceResult, error) {
	if err := p.Validate(); err != nil {
		return CheckInsuranceResult{}, err
	}
	r.logger.Info("action invoked", "action", ActionCheckInsurance, "patient_id", p.PatientID)

	rec, err := r.store.Insurance(p.PatientID)
	if err != nil {
		return CheckInsuranceResult{}, err
	}
	return CheckInsuranceResult{Eligibility: Eligibility{
		PatientID:    rec.PatientID,
		Status:       rec.Status,
		Provider:     rec.Provider,
		PolicyNumber: rec.PolicyNumber,
		CoverageType: rec.CoverageType,
		CopayAmount:  rec.CopayAmount,
		ValidUntil:   rec.ValidUntil,
		IsEligible:   rec.Status == store.InsuranceActive,
	}}, nil
}

// FindSlotsParams are the inputs for find_available_slots.
type FindSlotsParams struct {
	Specialty string `json:"specialty"`
	// StartDate is YYYY-MM-DD; empty means today.
	StartDate string `json:"start_date,omitempty"`
	// DaysAhead defaults to 7 when zero.
	DaysAhead int `json:"days_ahead,omitempty"`
}

// Validate checks required parameters and formats.
func (p FindSlotsParams) Validate() error {
	if p.Specialty == "" {
		return &ValidationError{Action: ActionFindSlots, Param: "specialty", Reason: "is required"}
	}
	if _, ok := store.ParseSpecialty(p.Specialty); !ok {
		return &ValidationError{Action: ActionFindSlots, Param: "specialty", Reason: fmt.Sprintf("%q is not a known specialty", p.Specialty)}
	}
	if p.StartDate != "" {
		if _, err := time.Parse("2006-01-02", p.StartDate); err != nil {
			return &ValidationError{Action: ActionFindSlots, Param: "start_date", Reason: "must be YYYY-MM-DD"}
		}
	}
	if p.DaysAhead < 0 {
		return &ValidationError{Action: ActionFindSlots, Param: "days_ahead", Reason: "must not be negative"}
	}
	return nil
}

// SearchPeriod is the resolved date window of a slot search.
type SearchPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FindSlotsResult lists available slots in the window.
type FindSlotsResult struct {
	Specialty    store.Specialty `json:"specialty"`
	SearchPeriod SearchPeriod    `json:"search_period"`
	Slots        []store.Slot    `json:"available_slots"`
	Count        int             `json:"count"`
}

// FindSlots lists AVAILABLE slots for a specialty inside the date window.
func (r *Registry) FindSlots(ctx context.Context, p FindSlotsParams) (FindSlotsResult, error) {
	if err := p.Validate(); err != nil {
		return FindSlotsResult{}, err
	}

	specialty, _ := store.ParseSpecialty(p.Specialty)

	start := time.Now()
	if p.StartDate != "" {
		start, _ = time.Parse("2006-01-02", p.StartDate)
	}
	daysAhead := p.DaysAhead
	if daysAhead == 0 {
		daysAhead = 7
	}

	r.logger.Info("action invoked",
		"action", ActionFindSlots,
		"specialty", specialty,
		"start_date", start.Format("2006-01-02"),
		"days_ahead", daysAhead,
	)

	slots := r.store.FindSlots(specialty, start, daysAhead)
	return FindSlotsResult{
		Specialty: specialty,
		SearchPeriod: SearchPeriod{
			Start: start.Format("2006-01-02"),
			End:   start.AddDate(0, 0, daysAhead).Format("2006-01-02"),
		},
		Slots: slots,
		Count: len(slots),
	}, nil
}

// BookAppointmentParams are the inputs for book_appointment.
type BookAppointmentParams struct {
	PatientID string `json:"patient_id"`
	SlotID    string `json:"slot_id"`
	Specialty string `json:"specialty"`
	Reason    string `json:"reason,omitempty"`
}

// Validate checks required parameters.
func (p BookAppointmentParams) Validate() error {
	if p.PatientID == "" {
		return &ValidationError{Action: ActionBookAppointment, Param: "patient_id", Reason: "is required"}
	}
	if p.SlotID == "" {
		return &ValidationError{Action: ActionBookAppointment, Param: "slot_id", Reason: "is required"}
	}
	if p.Specialty == "" {
		return &ValidationError{Action: ActionBookAppointment, Param: "specialty", Reason: "is required"}
	}
	if _, ok := store.ParseSpecialty(p.Specialty); !ok {
		return &ValidationError{Action: ActionBookAppointment, Param: "specialty", Reason: fmt.Sprintf("%q is not a known specialty", p.Specialty)}
	}
	return nil
}

// BookAppointmentResult carries the confirmed (or simulated) appointment.
type BookAppointmentResult struct {
	Appointment store.Appointment `json:"appointment"`
	DryRun      bool              `json:"dry_run,omitempty"`
}

// BookAppointment books a slot for a patient. In dry-run mode the booking is
// fully validated against the store but nothing is mutated; the returned
// appointment is synthetic and marked unconfirmed.
func (r *Registry) BookAppointment(ctx context.Context, p BookAppointmentParams, dryRun bool) (BookAppointmentResult, error) {
	if err := p.Validate(); err != nil {
		return BookAppointmentResult{}, err
	}

	specialty, _ := store.ParseSpecialty(p.Specialty)
	r.logger.Info("action invoked",
		"action", ActionBookAppointment,
		"patient_id", p.PatientID,
		"slot_id", p.SlotID,
		"specialty", specialty,
		"dry_run", dryRun,
	)

	sl, err := r.store.SlotByID(p.SlotID)
	if err != nil {
		return BookAppointmentResult{}, err
	}
	if sl.Specialty != specialty {
		return BookAppointmentResult{}, &ValidationError{
			Action: ActionBookAppointment,
			Param:  "slot_id",
			Reason: fmt.Sprintf("slot %s belongs to %s, not %s", p.SlotID, sl.Specialty, specialty),
		}
	}

	if dryRun {
		patient, err := r.store.PatientByID(p.PatientID)
		if err != nil {
			return BookAppointmentResult{}, err
		}
		if sl.Status != store.SlotAvailable {
			return BookAppointmentResult{}, fmt.Errorf("actions: slot %s: %w", p.SlotID, store.ErrSlotConflict)
		}
		reason := p.Reason
		if reason == "" {
			reason = "Follow-up appointment"
		}
		return BookAppointmentResult{
			DryRun: true,
			Appointment: store.Appointment{
				ID:              "APT-DRYRUN",
				PatientID:       patient.ID,
				PatientName:     patient.Name,
				SlotID:          sl.ID,
				Specialty:       sl.Specialty,
				Date:            sl.Date,
				Time:            sl.Time,
				Doctor:          sl.Doctor,
				DurationMinutes: sl.DurationMinutes,
				Reason:          reason,
				Status:          "Unconfirmed (dry run)",
				CreatedAt:       time.Now().UTC(),
			},
		}, nil
	}

	appt, err := r.store.BookSlot(p.SlotID, p.PatientID, p.Reason)
	if err != nil {
		return BookAppointmentResult{}, err
	}
	return BookAppointmentResult{Appointment: appt}, nil
}
