// Package interpret turns a free-text scheduling request into an ordered
// action plan. Extraction is a fixed list of deterministic (pattern,
// extractor) rules; there is no probabilistic inference, so the same text
// always yields the same plan for a given clock.
package interpret

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/clinicops/workflow-agent/internal/actions"
	"github.com/clinicops/workflow-agent/internal/store"
)

// Window is a resolved slot-search date range.
type Window struct {
	Start     time.Time
	DaysAhead int
	// Phrase is the text that produced the window ("next week"), or
	// "default" when no date phrase was found.
	Phrase string
}

// Step is one planned action invocation. Parameters that depend on earlier
// step outputs (patient ID, slot ID) are resolved by the orchestrator at
// execution time.
type Step struct {
	Action string
	// Unresolvable marks a step whose required parameter could not be
	// extracted from the request. The orchestrator reports it as a
	// parameter-extraction failure without aborting independent steps.
	Unresolvable bool
	Note         string
}

// Plan is the typed partial-plan produced from one request.
type Plan struct {
	Raw          string
	PatientName  string
	Specialty    store.Specialty
	HasSpecialty bool
	Window       Window
	Reason       string
	Steps        []Step
}

// Has reports whether the plan contains the given action.
func (p Plan) Has(action string) bool {
	for _, s := range p.Steps {
		if s.Action == action {
			return true
		}
	}
	return false
}

// defaultDaysAhead is the search window when no date phrase is present.
const defaultDaysAhead = 7

// rule is one extraction pass over the request text. Rules run in order and
// each fills its slice of the plan.
type rule struct {
	name  string
	apply func(raw, lower string, now time.Time, p *Plan)
}

var rules = []rule{
	{"patient_name", extractPatientName},
	{"specialty", extractSpecialty},
	{"date_window", extractDateWindow},
	{"reason", extractReason},
}

// Interpret extracts intent signals from the request and produces the
// ordered action plan. now anchors relative date phrases.
func Interpret(request string, now time.Time) Plan {
	p := Plan{Raw: request}
	lower := strings.ToLower(request)

	for _, r := range rules {
		r.apply(request, lower, now, &p)
	}

	p.Steps = buildSteps(lower, &p)
	return p
}

// namePattern captures a capitalized name after "patient", "for", or "with".
var namePattern = regexp.MustCompile(`(?:patient|for|with)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`)

func extractPatientName(raw, lower string, _ time.Time, p *Plan) {
	for _, m := range namePattern.FindAllStringSubmatch(raw, -1) {
		candidate := m[1]
		// "for General Medicine" is a specialty, not a person.
		if _, isSpecialty := store.ParseSpecialty(candidate); isSpecialty {
			continue
		}
		p.PatientName = candidate
		return
	}
}

func extractSpecialty(_, lower string, _ time.Time, p *Plan) {
	for _, sp := range store.Specialties() {
		if strings.Contains(lower, strings.ToLower(string(sp))) {
			p.Specialty = sp
			p.HasSpecialty = true
			return
		}
	}
}

var inDaysPattern = regexp.MustCompile(`in\s+(\d+)\s+days?`)
var withinDaysPattern = regexp.MustCompile(`(?:within|over)\s+(?:the\s+)?next\s+(\d+)\s+days?`)

func extractDateWindow(_, lower string, now time.Time, p *Plan) {
	switch {
	case withinDaysPattern.MatchString(lower):
		m := withinDaysPattern.FindStringSubmatch(lower)
		n, _ := strconv.Atoi(m[1])
		p.Window = Window{Start: now, DaysAhead: n, Phrase: m[0]}
	case inDaysPattern.MatchString(lower):
		m := inDaysPattern.FindStringSubmatch(lower)
		n, _ := strconv.Atoi(m[1])
		p.Window = Window{Start: now.AddDate(0, 0, n), DaysAhead: defaultDaysAhead, Phrase: m[0]}
	case strings.Contains(lower, "tomorrow"):
		p.Window = Window{Start: now.AddDate(0, 0, 1), DaysAhead: 1, Phrase: "tomorrow"}
	case strings.Contains(lower, "next week"):
		p.Window = Window{Start: now.AddDate(0, 0, 7), DaysAhead: 7, Phrase: "next week"}
	case strings.Contains(lower, "this week"):
		p.Window = Window{Start: now, DaysAhead: 7, Phrase: "this week"}
	case strings.Contains(lower, "next month"):
		p.Window = Window{Start: now.AddDate(0, 0, 28), DaysAhead: 7, Phrase: "next month"}
	case strings.Contains(lower, "today"):
		p.Window = Window{Start: now, DaysAhead: 1, Phrase: "today"}
	default:
		p.Window = Window{Start: now, DaysAhead: defaultDaysAhead, Phrase: "default"}
	}
}

func extractReason(_, lower string, _ time.Time, p *Plan) {
	if strings.Contains(lower, "follow-up") || strings.Contains(lower, "followup") {
		p.Reason = "Follow-up appointment"
	}
}

var bookingKeywords = []string{"book", "schedule"}
var searchKeywords = []string{"find", "search", "available", "show", "list", "look", "get"}
var insuranceKeywords = []string{"insurance", "eligibility", "coverage"}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// buildSteps infers the requested capabilities and orders them so that
// search_patient precedes anything needing a patient ID and
// find_available_slots precedes book_appointment.
func buildSteps(lower string, p *Plan) []Step {
	hasBookingVerb := containsAny(lower, bookingKeywords)
	hasSearchVerb := containsAny(lower, searchKeywords)
	// "Find cardiology appointments" is a search, not a booking.
	wantsBooking := hasBookingVerb && !hasSearchVerb
	wantsInsurance := containsAny(lower, insuranceKeywords)
	wantsSlots := p.HasSpecialty || wantsBooking
	wantsPatient := p.PatientName != "" || wantsInsurance || wantsBooking

	var steps []Step

	if wantsPatient {
		step := Step{Action: actions.ActionSearchPatient}
		if p.PatientName == "" {
			step.Unresolvable = true
			step.Note = "no patient name found in request"
		}
		steps = append(steps, step)
	}

	if wantsInsurance {
		steps = append(steps, Step{Action: actions.ActionCheckInsurance})
	}

	if wantsSlots {
		step := Step{Action: actions.ActionFindSlots}
		if !p.HasSpecialty {
			step.Unresolvable = true
			step.Note = "no specialty found in request"
		}
		steps = append(steps, step)
	}

	if wantsBooking {
		steps = append(steps, Step{Action: actions.ActionBookAppointment})
	}

	if len(steps) == 0 {
		// Nothing actionable was recognized; surface that as an
		// unresolvable search so the caller gets an explicit step result
		// instead of an empty plan.
		steps = append(steps, Step{
			Action:       actions.ActionSearchPatient,
			Unresolvable: true,
			Note:         fmt.Sprintf("no supported action recognized in %q", p.Raw),
		})
	}

	return steps
}
