package actions

// Parameter describes one schema parameter in declaration order.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Schema is the JSON-schema-like descriptor each action publishes. The
// interpreter validates extracted parameters against it and the API exposes
// it read-only.
type Schema struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
}

var schemas = []Schema{
	{
		Name:        ActionSearchPatient,
		Description: "Search for a patient by full or partial name. Returns patient information in FHIR format including ID, name, contact details, and date of birth.",
		Parameters: []Parameter{
			{Name: "name", Type: "string", Description: "Patient's full name or partial name (e.g. 'Ravi Kumar' or 'Ravi')", Required: true},
		},
	},
	{
		Name:        ActionCheckInsurance,
		Description: "Check insurance eligibility and coverage details for a patient. Returns eligibility status, provider, policy number, coverage type, and copay amount.",
		Parameters: []Parameter{
			{Name: "patient_id", Type: "string", Description: "Patient identifier (e.g. 'PAT001')", Required: true},
		},
	},
	{
		Name:        ActionFindSlots,
		Description: "Find available appointment slots for a medical specialty within a date range. Returns slots with date, time, doctor name, and duration.",
		Parameters: []Parameter{
			{Name: "specialty", Type: "string", Description: "Medical specialty (e.g. 'Cardiology', 'Neurology', 'General Medicine')", Required: true},
			{Name: "start_date", Type: "string", Description: "Start date in YYYY-MM-DD format (defaults to today)", Required: false},
			{Name: "days_ahead", Type: "integer", Description: "Number of days ahead to search (defaults to 7)", Required: false},
		},
	},
	{
		Name:        ActionBookAppointment,
		Description: "Book an appointment for a patient in a specific slot. Validates patient and slot availability before booking. Returns confirmed appointment details.",
		Parameters: []Parameter{
			{Name: "patient_id", Type: "string", Description: "Patient identifier (e.g. 'PAT001')", Required: true},
			{Name: "slot_id", Type: "string", Description: "Slot identifier to book (e.g. 'SLOT-0001')", Required: true},
			{Name: "specialty", Type: "string", Description: "Medical specialty (e.g. 'Cardiology')", Required: true},
			{Name: "reason", Type: "string", Description: "Reason for the appointment", Required: false},
		},
	},
}

// Schemas returns the descriptors for all four actions in stable order. The
// backing array is copied so callers cannot mutate the published schemas.
func Schemas() []Schema {
	out := make([]Schema, len(schemas))
	copy(out, schemas)
	return out
}

// SchemaFor returns the descriptor for a single action.
func SchemaFor(action string) (Schema, bool) {
	for _, s := range schemas {
		if s.Name == action {
			return s, true
		}
	}
	return Schema{}, false
}
