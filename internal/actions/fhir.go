package actions

import "github.com/clinicops/workflow-agent/internal/store"

// PatientResource is the FHIR-style representation returned by
// search_patient. Only the subset of fields the workflow needs is present;
// this is not a full FHIR R4 Patient.
type PatientResource struct {
	ResourceType string       `json:"resourceType"`
	ID           string       `json:"id"`
	Identifier   []Identifier `json:"identifier"`
	Name         []HumanName  `json:"name"`
	Telecom      []Contact    `json:"telecom"`
	BirthDate    string       `json:"birthDate"`
	Address      []Address    `json:"address"`
}

// Identifier is a namespaced external identifier (medical record number).
type Identifier struct {
	System string `json:"system"`
	Value  string `json:"value"`
}

// HumanName splits a name into given and family parts.
type HumanName struct {
	Family string   `json:"family"`
	Given  []string `json:"given"`
}

// Contact is a phone or email contact point.
type Contact struct {
	System string `json:"system"`
	Value  string `json:"value"`
}

// Address carries a single-line address text.
type Address struct {
	Text string `json:"text"`
}

const identifierSystem = "http://hospital.example.org/patients"

func toPatientResource(p store.Patient) PatientResource {
	given := []string{p.GivenName}
	if p.GivenName == "" {
		given = []string{p.Name}
	}
	return PatientResource{
		ResourceType: "Patient",
		ID:           p.ID,
		Identifier: []Identifier{
			{System: identifierSystem, Value: p.MedicalRecordNumber},
		},
		Name: []HumanName{
			{Family: p.FamilyName, Given: given},
		},
		Telecom: []Contact{
			{System: "phone", Value: p.Phone},
			{System: "email", Value: p.Email},
		},
		BirthDate: p.BirthDate,
		Address:   []Address{{Text: p.Address}},
	}
}

// DisplayName reassembles the given+family parts for summaries.
func (r PatientResource) DisplayName() string {
	if len(r.Name) == 0 {
		return ""
	}
	n := r.Name[0]
	name := ""
	for _, g := range n.Given {
		if name != "" {
			name += " "
		}
		name += g
	}
	if n.Family != "" {
		if name != "" {
			name += " "
		}
		name += n.Family
	}
	return name
}
