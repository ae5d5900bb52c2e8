// Package safety classifies inbound requests before any interpretation or
// action runs. Classification is pure pattern matching: the same text always
// yields the same verdict.
package safety

import (
	"regexp"
	"strings"
)

// Decision is the outcome of a safety scan.
type Decision string

const (
	// DecisionSafe passes the request on to the interpreter.
	DecisionSafe Decision = "SAFE"
	// DecisionRefused short-circuits the request before planning.
	DecisionRefused Decision = "REFUSED"
)

// Verdict contains the classification plus the detection signals that fired.
type Verdict struct {
	Decision Decision
	// Reasons lists the pattern labels that matched, for the audit trail.
	Reasons []string
	// Message is the fixed justification returned to the caller on refusal.
	Message string
}

// Safe reports whether the request may proceed.
func (v Verdict) Safe() bool { return v.Decision == DecisionSafe }

// guardPattern is a compiled regex with a reason label.
type guardPattern struct {
	re     *regexp.Regexp
	reason string
}

const medicalAdviceMessage = "I cannot provide medical advice, diagnosis, or treatment recommendations. " +
	"I can only help with workflow tasks like scheduling appointments and checking eligibility."

const unsupportedActionMessage = "I cannot perform that action. Supported actions are searching patients, " +
	"checking insurance eligibility, finding appointment slots, and booking appointments."

// Medical-advice signals: diagnosis, treatment, dosing, symptom interpretation.
// Checked first; they refuse regardless of any scheduling language present.
var medicalAdvicePatterns = []guardPattern{
	{regexp.MustCompile(`(?i)\bdiagnos(e|is|ed|ing)\b`), "medical_advice:diagnosis"},
	{regexp.MustCompile(`(?i)\b(treatment|treat)\s+(for|of|plan|option)`), "medical_advice:treatment"},
	{regexp.MustCompile(`(?i)\bprescri(be|ption|bed|bing)\b`), "medical_advice:prescription"},
	{regexp.MustCompile(`(?i)\b(medication|medicine|drug|dosage|dose)s?\b.*\b(should|take|give|recommend|for)\b`), "medical_advice:medication"},
	{regexp.MustCompile(`(?i)\b(should|can)\s+(i|he|she|they|the\s+patient)\s+take\b`), "medical_advice:dosing_question"},
	{regexp.MustCompile(`(?i)what\s+(disease|illness|condition)\b`), "medical_advice:symptom_interpretation"},
	{regexp.MustCompile(`(?i)\b(is|are)\s+(this|these|my|his|her|their)\s+symptoms?\b`), "medical_advice:symptom_interpretation"},
	{regexp.MustCompile(`(?i)\bsymptoms?\s+(mean|of|indicat)`), "medical_advice:symptom_interpretation"},
}

// Out-of-scope action signals: anything beyond the four supported
// capabilities (cancellation, billing changes, data mutation or deletion).
var unsupportedActionPatterns = []guardPattern{
	{regexp.MustCompile(`(?i)\bcancel(ing|led)?\b`), "unsupported_action:cancel"},
	{regexp.MustCompile(`(?i)\bresched(ule|uling)\b`), "unsupported_action:reschedule"},
	{regexp.MustCompile(`(?i)\bdelete\b|\bremove\b|\berase\b|\bpurge\b|\bwipe\b`), "unsupported_action:delete"},
	{regexp.MustCompile(`(?i)\b(modify|update|change|edit)\s+(the\s+)?(patient|record|insurance|policy|appointment)`), "unsupported_action:modify"},
	{regexp.MustCompile(`(?i)\b(billing|bill|invoice|refund|charge|payment)s?\b`), "unsupported_action:billing"},
	{regexp.MustCompile(`(?i)\b(discharge|admit|transfer)\s+(the\s+)?patient\b`), "unsupported_action:admission"},
}

// Scan classifies a raw request. Policy order: medical-advice patterns first,
// then unsupported actions, otherwise safe.
func Scan(request string) Verdict {
	if strings.TrimSpace(request) == "" {
		return Verdict{
			Decision: DecisionRefused,
			Reasons:  []string{"unsupported_action:empty_request"},
			Message:  unsupportedActionMessage,
		}
	}

	if reasons := match(medicalAdvicePatterns, request); len(reasons) > 0 {
		return Verdict{Decision: DecisionRefused, Reasons: reasons, Message: medicalAdviceMessage}
	}

	if reasons := match(unsupportedActionPatterns, request); len(reasons) > 0 {
		return Verdict{Decision: DecisionRefused, Reasons: reasons, Message: unsupportedActionMessage}
	}

	return Verdict{Decision: DecisionSafe}
}

func match(patterns []guardPattern, text string) []string {
	var reasons []string
	for _, p := range patterns {
		if p.re.MatchString(text) {
			reasons = append(reasons, p.reason)
		}
	}
	return reasons
}
