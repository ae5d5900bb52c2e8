package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrNotFound indicates a patient, insurance record, or slot lookup miss.
var ErrNotFound = errors.New("store: not found")

// ErrSlotConflict indicates an attempt to book a slot that is no longer
// AVAILABLE.
var ErrSlotConflict = errors.New("store: slot already booked")

// Store owns the patient, insurance, slot, and appointment collections.
// Request processing is single-pass, but the HTTP surface can overlap
// callers, so mutating paths are serialized with a mutex to preserve the
// at-most-one-booking-per-slot invariant.
type Store struct {
	mu sync.RWMutex

	patients   map[string]Patient
	patientIDs []string // stable ID ordering for deterministic name matches

	insurance map[string]InsuranceRecord

	slots   map[string]Slot
	slotIDs []string

	appointments   map[string]Appointment
	appointmentSeq int

	now func() time.Time
}

// New returns an empty store. Most callers want NewSeeded.
func New() *Store {
	return &Store{
		patients:       make(map[string]Patient),
		insurance:      make(map[string]InsuranceRecord),
		slots:          make(map[string]Slot),
		appointments:   make(map[string]Appointment),
		appointmentSeq: 1,
		now:            time.Now,
	}
}

// SetClock overrides the timestamp source. Tests only.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// PatientByName does a case-insensitive substring match over the full name.
// When multiple patients match, the first by stable ID ordering wins.
func (s *Store) PatientByName(name string) (Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Patient{}, fmt.Errorf("store: patient %q: %w", name, ErrNotFound)
	}
	for _, id := range s.patientIDs {
		p := s.patients[id]
		if strings.Contains(strings.ToLower(p.Name), needle) {
			return p, nil
		}
	}
	return Patient{}, fmt.Errorf("store: patient %q: %w", name, ErrNotFound)
}

// PatientByID looks up a patient by its stable identifier.
func (s *Store) PatientByID(id string) (Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.patients[id]
	if !ok {
		return Patient{}, fmt.Errorf("store: patient %s: %w", id, ErrNotFound)
	}
	return p, nil
}

// Insurance returns the policy record keyed by patient ID.
func (s *Store) Insurance(patientID string) (InsuranceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.insurance[patientID]
	if !ok {
		return InsuranceRecord{}, fmt.Errorf("store: insurance for %s: %w", patientID, ErrNotFound)
	}
	return rec, nil
}

// FindSlots returns AVAILABLE slots for a specialty with a date inside
// [start, start+daysAhead], ordered by date ascending then slot ID ascending.
func (s *Store) FindSlots(specialty Specialty, start time.Time, daysAhead int) []Slot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	startDate := start.Format("2006-01-02")
	endDate := start.AddDate(0, 0, daysAhead).Format("2006-01-02")

	var out []Slot
	for _, id := range s.slotIDs {
		sl := s.slots[id]
		if sl.Specialty != specialty || sl.Status != SlotAvailable {
			continue
		}
		if sl.Date < startDate || sl.Date > endDate {
			continue
		}
		out = append(out, sl)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SlotByID returns any slot regardless of status.
func (s *Store) SlotByID(id string) (Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sl, ok := s.slots[id]
	if !ok {
		return Slot{}, fmt.Errorf("store: slot %s: %w", id, ErrNotFound)
	}
	return sl, nil
}

// BookSlot flips an AVAILABLE slot to BOOKED and creates the appointment in
// one critical section, so no partial state is observable. Fails with
// ErrNotFound for an unknown slot or patient and ErrSlotConflict when the
// slot is already booked.
func (s *Store) BookSlot(slotID, patientID, reason string) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[slotID]
	if !ok {
		return Appointment{}, fmt.Errorf("store: slot %s: %w", slotID, ErrNotFound)
	}
	p, ok := s.patients[patientID]
	if !ok {
		return Appointment{}, fmt.Errorf("store: patient %s: %w", patientID, ErrNotFound)
	}
	if sl.Status != SlotAvailable {
		return Appointment{}, fmt.Errorf("store: slot %s: %w", slotID, ErrSlotConflict)
	}

	sl.Status = SlotBooked
	s.slots[slotID] = sl

	if reason == "" {
		reason = "Follow-up appointment"
	}

	appt := Appointment{
		ID:              fmt.Sprintf("APT-%04d", s.appointmentSeq),
		PatientID:       p.ID,
		PatientName:     p.Name,
		SlotID:          sl.ID,
		Specialty:       sl.Specialty,
		Date:            sl.Date,
		Time:            sl.Time,
		Doctor:          sl.Doctor,
		DurationMinutes: sl.DurationMinutes,
		Reason:          reason,
		Status:          "Confirmed",
		CreatedAt:       s.now().UTC(),
	}
	s.appointmentSeq++
	s.appointments[appt.ID] = appt

	return appt, nil
}

// AppointmentByID returns a booked appointment.
func (s *Store) AppointmentByID(id string) (Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.appointments[id]
	if !ok {
		return Appointment{}, fmt.Errorf("store: appointment %s: %w", id, ErrNotFound)
	}
	return a, nil
}

// Patients returns all patients ordered by ID.
func (s *Store) Patients() []Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Patient, 0, len(s.patientIDs))
	for _, id := range s.patientIDs {
		out = append(out, s.patients[id])
	}
	return out
}

// Slots returns all slots ordered by ID, booked ones included.
func (s *Store) Slots() []Slot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Slot, 0, len(s.slotIDs))
	for _, id := range s.slotIDs {
		out = append(out, s.slots[id])
	}
	return out
}

// Appointments returns all booked appointments ordered by ID.
func (s *Store) Appointments() []Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Appointment, 0, len(s.appointments))
	for _, a := range s.appointments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Reset returns every slot to AVAILABLE and drops all appointments,
// restoring the seeded state. Used only by tests.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sl := range s.slots {
		sl.Status = SlotAvailable
		s.slots[id] = sl
	}
	s.appointments = make(map[string]Appointment)
	s.appointmentSeq = 1
}

func (s *Store) addPatient(p Patient) {
	s.patients[p.ID] = p
	s.patientIDs = append(s.patientIDs, p.ID)
}

func (s *Store) addSlot(sl Slot) {
	s.slots[sl.ID] = sl
	s.slotIDs = append(s.slotIDs, sl.ID)
}
