package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seedStart = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) // a Monday

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewSeeded(SeedConfig{Seed: 42, HorizonDays: 28, Start: seedStart})
}

func TestSeedDeterminism(t *testing.T) {
	a := NewSeeded(SeedConfig{Seed: 42, HorizonDays: 28, Start: seedStart})
	b := NewSeeded(SeedConfig{Seed: 42, HorizonDays: 28, Start: seedStart})

	require.Equal(t, a.Patients(), b.Patients())
	require.Equal(t, a.Slots(), b.Slots())

	for _, p := range a.Patients() {
		insA, errA := a.Insurance(p.ID)
		insB, errB := b.Insurance(p.ID)
		require.NoError(t, errA)
		require.NoError(t, errB)
		assert.Equal(t, insA, insB)
	}
}

func TestSeedShape(t *testing.T) {
	s := newTestStore(t)

	patients := s.Patients()
	require.Len(t, patients, 35)
	assert.Equal(t, "PAT001", patients[0].ID)
	assert.Equal(t, "Ravi Kumar", patients[0].Name)
	assert.Equal(t, "MRN-001", patients[0].MedicalRecordNumber)

	// Demo patients always carry active policies.
	for _, id := range []string{"PAT001", "PAT002", "PAT003"} {
		ins, err := s.Insurance(id)
		require.NoError(t, err)
		assert.Equal(t, InsuranceActive, ins.Status)
		assert.Equal(t, copayByCoverage[ins.CoverageType], ins.CopayAmount)
	}

	// No weekend slots.
	for _, sl := range s.Slots() {
		d, err := time.Parse("2006-01-02", sl.Date)
		require.NoError(t, err)
		assert.NotEqual(t, time.Saturday, d.Weekday(), "slot %s on Saturday", sl.ID)
		assert.NotEqual(t, time.Sunday, d.Weekday(), "slot %s on Sunday", sl.ID)
		assert.Equal(t, SlotAvailable, sl.Status)
	}
}

func TestPatientByName(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name    string
		query   string
		wantID  string
		wantErr bool
	}{
		{"exact match", "Ravi Kumar", "PAT001", false},
		{"case-insensitive", "ravi kumar", "PAT001", false},
		{"partial match", "Priya", "PAT002", false},
		{"substring across given+family", "a Sharma", "PAT002", false},
		{"ambiguous match resolves by ID order", "Patel", "PAT003", false},
		{"unknown patient", "Unknown Person", "", true},
		{"empty query", "  ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := s.PatientByName(tt.query)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, p.ID)
		})
	}
}

func TestPatientLookupsAreIdempotent(t *testing.T) {
	s := newTestStore(t)

	first, err := s.PatientByName("Ravi Kumar")
	require.NoError(t, err)
	second, err := s.PatientByName("Ravi Kumar")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	insFirst, err := s.Insurance(first.ID)
	require.NoError(t, err)
	insSecond, err := s.Insurance(first.ID)
	require.NoError(t, err)
	assert.Equal(t, insFirst, insSecond)
}

func TestFindSlots(t *testing.T) {
	s := newTestStore(t)

	slots := s.FindSlots(Cardiology, seedStart, 7)
	require.NotEmpty(t, slots)

	endDate := seedStart.AddDate(0, 0, 7).Format("2006-01-02")
	startDate := seedStart.Format("2006-01-02")
	for _, sl := range slots {
		assert.Equal(t, Cardiology, sl.Specialty)
		assert.Equal(t, SlotAvailable, sl.Status)
		assert.GreaterOrEqual(t, sl.Date, startDate)
		assert.LessOrEqual(t, sl.Date, endDate)
	}

	// Ordered by date ascending, ties broken by slot ID.
	for i := 1; i < len(slots); i++ {
		prev, cur := slots[i-1], slots[i]
		if prev.Date == cur.Date {
			assert.Less(t, prev.ID, cur.ID)
		} else {
			assert.Less(t, prev.Date, cur.Date)
		}
	}
}

func TestFindSlotsExcludesBooked(t *testing.T) {
	s := newTestStore(t)

	slots := s.FindSlots(Neurology, seedStart, 28)
	require.NotEmpty(t, slots)
	target := slots[0]

	_, err := s.BookSlot(target.ID, "PAT001", "follow-up")
	require.NoError(t, err)

	for _, sl := range s.FindSlots(Neurology, seedStart, 28) {
		assert.NotEqual(t, target.ID, sl.ID)
	}
}

func TestBookSlot(t *testing.T) {
	s := newTestStore(t)
	s.SetClock(func() time.Time { return seedStart })

	slots := s.FindSlots(Cardiology, seedStart, 28)
	require.NotEmpty(t, slots)
	target := slots[0]

	appt, err := s.BookSlot(target.ID, "PAT001", "chest pain follow-up")
	require.NoError(t, err)
	assert.Equal(t, "APT-0001", appt.ID)
	assert.Equal(t, "PAT001", appt.PatientID)
	assert.Equal(t, "Ravi Kumar", appt.PatientName)
	assert.Equal(t, target.ID, appt.SlotID)
	assert.Equal(t, target.Date, appt.Date)
	assert.Equal(t, "Confirmed", appt.Status)
	assert.Equal(t, seedStart, appt.CreatedAt)

	booked, err := s.SlotByID(target.ID)
	require.NoError(t, err)
	assert.Equal(t, SlotBooked, booked.Status)

	t.Run("conflict on rebooking", func(t *testing.T) {
		_, err := s.BookSlot(target.ID, "PAT002", "")
		require.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("unknown slot", func(t *testing.T) {
		_, err := s.BookSlot("SLOT-9999", "PAT001", "")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown patient", func(t *testing.T) {
		other := s.FindSlots(Cardiology, seedStart, 28)[0]
		_, err := s.BookSlot(other.ID, "PAT999", "")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBookingExclusivity(t *testing.T) {
	s := newTestStore(t)

	// Book every cardiology slot in the window, then verify no slot is
	// referenced by more than one appointment.
	for {
		slots := s.FindSlots(Cardiology, seedStart, 28)
		if len(slots) == 0 {
			break
		}
		_, err := s.BookSlot(slots[0].ID, "PAT001", "")
		require.NoError(t, err)
	}

	seen := make(map[string]string)
	for _, appt := range s.Appointments() {
		if prior, ok := seen[appt.SlotID]; ok {
			t.Fatalf("slot %s referenced by %s and %s", appt.SlotID, prior, appt.ID)
		}
		seen[appt.SlotID] = appt.ID

		sl, err := s.SlotByID(appt.SlotID)
		require.NoError(t, err)
		assert.Equal(t, SlotBooked, sl.Status)
	}
}

func TestDefaultBookingReason(t *testing.T) {
	s := newTestStore(t)

	slots := s.FindSlots(Pediatrics, seedStart, 28)
	require.NotEmpty(t, slots)

	appt, err := s.BookSlot(slots[0].ID, "PAT004", "")
	require.NoError(t, err)
	assert.Equal(t, "Follow-up appointment", appt.Reason)
}

func TestReset(t *testing.T) {
	s := newTestStore(t)

	slots := s.FindSlots(Dermatology, seedStart, 28)
	require.NotEmpty(t, slots)
	before := len(slots)

	_, err := s.BookSlot(slots[0].ID, "PAT001", "")
	require.NoError(t, err)
	require.Len(t, s.Appointments(), 1)

	s.Reset()

	assert.Empty(t, s.Appointments())
	assert.Len(t, s.FindSlots(Dermatology, seedStart, 28), before)

	// Appointment IDs restart after reset.
	appt, err := s.BookSlot(slots[0].ID, "PAT001", "")
	require.NoError(t, err)
	assert.Equal(t, "APT-0001", appt.ID)
}

func TestParseSpecialty(t *testing.T) {
	tests := []struct {
		in     string
		want   Specialty
		wantOK bool
	}{
		{"cardiology", Cardiology, true},
		{"CARDIOLOGY", Cardiology, true},
		{" general medicine ", GeneralMedicine, true},
		{"Pediatrics", Pediatrics, true},
		{"dentistry", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSpecialty(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
