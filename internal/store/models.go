// Package store holds the in-memory clinical data set: patients, insurance
// records, appointment slots, and booked appointments. It is seeded once at
// process start and mutated only through the action layer.
package store

import (
	"strings"
	"time"
)

// Specialty identifies a clinical department with bookable slots.
type Specialty string

const (
	Cardiology      Specialty = "Cardiology"
	Neurology       Specialty = "Neurology"
	GeneralMedicine Specialty = "General Medicine"
	Orthopedics     Specialty = "Orthopedics"
	Dermatology     Specialty = "Dermatology"
	Pediatrics      Specialty = "Pediatrics"
)

// Specialties returns all known specialties in stable order.
func Specialties() []Specialty {
	return []Specialty{Cardiology, Neurology, GeneralMedicine, Orthopedics, Dermatology, Pediatrics}
}

// ParseSpecialty matches a free-text specialty name case-insensitively.
func ParseSpecialty(s string) (Specialty, bool) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, sp := range Specialties() {
		if strings.ToLower(string(sp)) == needle {
			return sp, true
		}
	}
	return "", false
}

// SlotStatus tracks whether a slot can still be booked.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "AVAILABLE"
	SlotBooked    SlotStatus = "BOOKED"
)

// InsuranceStatus is the eligibility state of a policy.
type InsuranceStatus string

const (
	InsuranceActive   InsuranceStatus = "ACTIVE"
	InsuranceInactive InsuranceStatus = "INACTIVE"
	InsurancePending  InsuranceStatus = "PENDING"
)

// Patient is an immutable demographic record created at seed time.
type Patient struct {
	ID                  string `json:"patient_id"`
	Name                string `json:"name"`
	GivenName           string `json:"given_name"`
	FamilyName          string `json:"family_name"`
	BirthDate           string `json:"date_of_birth"`
	Phone               string `json:"phone"`
	Email               string `json:"email"`
	Address             string `json:"address"`
	MedicalRecordNumber string `json:"medical_record_number"`
}

// InsuranceRecord is the one-to-one policy record for a patient.
type InsuranceRecord struct {
	PatientID    string          `json:"patient_id"`
	Provider     string          `json:"insurance_provider"`
	PolicyNumber string          `json:"policy_number"`
	CoverageType string          `json:"coverage_type"`
	Status       InsuranceStatus `json:"eligibility_status"`
	CopayAmount  int             `json:"copay"`
	ValidUntil   string          `json:"valid_until"`
}

// Slot is a bookable appointment time unit. A slot transitions
// AVAILABLE -> BOOKED exactly once and is never reused or deleted.
type Slot struct {
	ID              string     `json:"slot_id"`
	Specialty       Specialty  `json:"specialty"`
	Date            string     `json:"date"` // YYYY-MM-DD
	Time            string     `json:"time"` // HH:MM
	Doctor          string     `json:"doctor"`
	DurationMinutes int        `json:"duration_minutes"`
	Status          SlotStatus `json:"status"`
}

// Appointment references a booked slot. The referenced slot is always BOOKED
// and no slot ID appears in more than one appointment.
type Appointment struct {
	ID              string    `json:"appointment_id"`
	PatientID       string    `json:"patient_id"`
	PatientName     string    `json:"patient_name"`
	SlotID          string    `json:"slot_id"`
	Specialty       Specialty `json:"specialty"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Doctor          string    `json:"doctor"`
	DurationMinutes int       `json:"duration_minutes"`
	Reason          string    `json:"reason"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}
