package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// SeedConfig controls fixture generation. A fixed Seed yields an identical
// store on every run, which the demo scenarios and tests rely on.
type SeedConfig struct {
	Seed        uint64
	HorizonDays int       // how far ahead slot generation runs
	Start       time.Time // base date for slot generation
}

// DefaultSeedConfig matches the demo data set.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{Seed: 42, HorizonDays: 28, Start: time.Now()}
}

// Well-known demo patients. The leading entries are stable so demo requests
// like "Find patient Ravi Kumar" resolve to PAT001 on every seed.
var seedPatients = []struct {
	name string
	dob  string
}{
	{"Ravi Kumar", "1985-03-15"},
	{"Priya Sharma", "1990-07-22"},
	{"Amit Patel", "1978-11-08"},
	{"Sunita Reddy", "1988-05-12"},
	{"Rajesh Verma", "1982-09-25"},
	{"Anjali Mehta", "1992-02-18"},
	{"Vikram Singh", "1987-08-30"},
	{"Kavita Nair", "1991-12-05"},
	{"Deepak Joshi", "1984-04-22"},
	{"Meera Desai", "1989-06-14"},
	{"Arjun Iyer", "1986-10-03"},
	{"Sneha Gupta", "1993-01-28"},
	{"Rohan Kapoor", "1983-07-19"},
	{"Neha Malhotra", "1990-11-07"},
	{"Siddharth Rao", "1985-09-15"},
	{"Divya Chawla", "1992-03-21"},
	{"Karan Sharma", "1988-12-09"},
	{"Pooja Agarwal", "1991-05-26"},
	{"Rahul Nair", "1987-02-13"},
	{"Anita Krishnan", "1989-08-04"},
	{"Varun Menon", "1986-04-17"},
	{"Shreya Pillai", "1993-10-29"},
	{"Aryan Bhatt", "1984-01-11"},
	{"Isha Patel", "1990-06-23"},
	{"Aditya Khanna", "1988-11-16"},
	{"Riya Sen", "1992-07-08"},
	{"Nikhil Das", "1987-03-02"},
	{"Sanya Kohli", "1991-09-20"},
	{"Kunal Shah", "1985-12-31"},
	{"Tanya Oberoi", "1989-05-14"},
	{"Rohit Yadav", "1986-08-27"},
	{"Aisha Khan", "1993-02-09"},
	{"Manish Tiwari", "1988-10-18"},
	{"Kritika Bansal", "1990-04-05"},
	{"Vivek Pandey", "1987-01-24"},
}

var seedCities = []struct {
	city  string
	state string
}{
	{"Bangalore", "Karnataka"},
	{"Mumbai", "Maharashtra"},
	{"Delhi", "NCR"},
	{"Chennai", "Tamil Nadu"},
	{"Hyderabad", "Telangana"},
	{"Pune", "Maharashtra"},
	{"Kolkata", "West Bengal"},
	{"Ahmedabad", "Gujarat"},
}

var insuranceProviders = []string{
	"MediCare Insurance",
	"Health Shield",
	"WellCare Plus",
	"Prime Health Insurance",
	"Global Medical Coverage",
	"SecureHealth",
	"LifeCare Insurance",
}

var copayByCoverage = map[string]int{
	"Premium":       300,
	"Comprehensive": 500,
	"Standard":      750,
	"Basic":         1000,
}

type specialtySeed struct {
	specialty Specialty
	doctors   []string
	duration  int
	slotCount int
}

var specialtySeeds = []specialtySeed{
	{Cardiology, []string{"Dr. Anil Reddy", "Dr. Meera Singh", "Dr. Karthik Nair"}, 30, 25},
	{Neurology, []string{"Dr. Rajesh Kumar", "Dr. Priya Sharma", "Dr. Sanjay Verma"}, 45, 20},
	{GeneralMedicine, []string{"Dr. Sunita Devi", "Dr. Ramesh Iyer", "Dr. Lakshmi Menon"}, 20, 30},
	{Orthopedics, []string{"Dr. Vikram Patel", "Dr. Anjali Desai"}, 30, 18},
	{Dermatology, []string{"Dr. Sneha Reddy", "Dr. Arjun Mehta"}, 25, 15},
	{Pediatrics, []string{"Dr. Kavita Nair", "Dr. Rohit Joshi"}, 30, 20},
}

// NewSeeded builds a store populated with the demo data set.
func NewSeeded(cfg SeedConfig) *Store {
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = 28
	}
	if cfg.Start.IsZero() {
		cfg.Start = time.Now()
	}

	faker := gofakeit.New(cfg.Seed)
	s := New()

	for i, sp := range seedPatients {
		id := fmt.Sprintf("PAT%03d", i+1)
		loc := seedCities[i%len(seedCities)]
		s.addPatient(Patient{
			ID:                  id,
			Name:                sp.name,
			GivenName:           givenName(sp.name),
			FamilyName:          familyName(sp.name),
			BirthDate:           sp.dob,
			Phone:               fmt.Sprintf("+91-%d", 9876543210+i),
			Email:               strings.ToLower(strings.ReplaceAll(sp.name, " ", ".")) + "@example.com",
			Address:             fmt.Sprintf("%d Medical Street, %s, %s", 100+i, loc.city, loc.state),
			MedicalRecordNumber: fmt.Sprintf("MRN-%03d", i+1),
		})

		coverage := faker.RandomString([]string{"Premium", "Comprehensive", "Standard", "Basic"})
		status := InsuranceActive
		// A handful of later patients carry non-active policies so the
		// eligibility path has failures to exercise. The well-known demo
		// patients stay ACTIVE.
		if i >= 3 {
			switch faker.Number(1, 12) {
			case 1:
				status = InsuranceInactive
			case 2:
				status = InsurancePending
			}
		}

		s.insurance[id] = InsuranceRecord{
			PatientID:    id,
			Provider:     faker.RandomString(insuranceProviders),
			PolicyNumber: fmt.Sprintf("POL-%06d", faker.Number(100000, 999999)),
			CoverageType: coverage,
			Status:       status,
			CopayAmount:  copayByCoverage[coverage],
			ValidUntil:   cfg.Start.AddDate(0, 0, faker.Number(365, 1095)).Format("2006-01-02"),
		}
	}

	seedSlots(s, faker, cfg)
	return s
}

// seedSlots generates weekday slots per specialty over the horizon, one or
// two per doctor per day, capped at the specialty's slot count.
func seedSlots(s *Store, faker *gofakeit.Faker, cfg SeedConfig) {
	seq := 1
	for _, spec := range specialtySeeds {
		count := 0
	days:
		for offset := 1; offset <= cfg.HorizonDays; offset++ {
			day := cfg.Start.AddDate(0, 0, offset)
			if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
			for _, doctor := range spec.doctors {
				perDoctor := faker.Number(1, 2)
				for n := 0; n < perDoctor; n++ {
					var hour int
					if n == 0 {
						hour = faker.RandomInt([]int{9, 10, 11})
					} else {
						hour = faker.RandomInt([]int{14, 15, 16})
					}
					minute := faker.RandomInt([]int{0, 30})

					s.addSlot(Slot{
						ID:              fmt.Sprintf("SLOT-%04d", seq),
						Specialty:       spec.specialty,
						Date:            day.Format("2006-01-02"),
						Time:            fmt.Sprintf("%02d:%02d", hour, minute),
						Doctor:          doctor,
						DurationMinutes: spec.duration,
						Status:          SlotAvailable,
					})
					seq++
					count++
					if count >= spec.slotCount {
						break days
					}
				}
			}
		}
	}
}

func givenName(full string) string {
	parts := strings.Fields(full)
	if len(parts) < 2 {
		return full
	}
	return strings.Join(parts[:len(parts)-1], " ")
}

func familyName(full string) string {
	parts := strings.Fields(full)
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-1]
}
