// README: Trip request fields, partial/completed records, and dialogue outcomes.
package dialogue

import (
	"wayfare/internal/types"
)

// Field is one named, independently validated component of a trip request.
type Field string

const (
	FieldSource      Field = "source"
	FieldDestination Field = "destination"
	FieldBudget      Field = "budget"
	FieldMembers     Field = "members"
)

// FieldOrder is the fixed priority in which missing fields are asked.
// Sessions always follow this order regardless of how the extractor
// reported the gaps, so a conversation has a predictable shape.
var FieldOrder = []Field{FieldSource, FieldDestination, FieldBudget, FieldMembers}

// KnownField reports whether f is one of the four recognized fields.
func KnownField(f Field) bool {
	for _, k := range FieldOrder {
		if k == f {
			return true
		}
	}
	return false
}

// PartialRequest is the running trip record. A nil pointer means the field
// is still unknown; a non-nil value has always passed validation already.
type PartialRequest struct {
	Source      *string `json:"source,omitempty"`
	Destination *string `json:"destination,omitempty"`
	Budget      *int    `json:"budget,omitempty"`
	Members     *int    `json:"members,omitempty"`
}

// Has reports whether the given field is present.
func (p *PartialRequest) Has(f Field) bool {
	switch f {
	case FieldSource:
		return p.Source != nil
	case FieldDestination:
		return p.Destination != nil
	case FieldBudget:
		return p.Budget != nil
	case FieldMembers:
		return p.Members != nil
	}
	return false
}

// Empty reports whether no field is present at all.
func (p *PartialRequest) Empty() bool {
	for _, f := range FieldOrder {
		if p.Has(f) {
			return false
		}
	}
	return true
}

// set merges a validated value under the given field. Values must come out
// of Validate for the same field; anything else is a caller bug.
func (p *PartialRequest) set(f Field, v any) {
	switch f {
	case FieldSource:
		s := v.(string)
		p.Source = &s
	case FieldDestination:
		s := v.(string)
		p.Destination = &s
	case FieldBudget:
		n := v.(int)
		p.Budget = &n
	case FieldMembers:
		n := v.(int)
		p.Members = &n
	}
}

// clear removes the field from the record.
func (p *PartialRequest) clear(f Field) {
	switch f {
	case FieldSource:
		p.Source = nil
	case FieldDestination:
		p.Destination = nil
	case FieldBudget:
		p.Budget = nil
	case FieldMembers:
		p.Members = nil
	}
}

// Missing returns the unanswered fields in priority order.
func (p *PartialRequest) Missing() []Field {
	var out []Field
	for _, f := range FieldOrder {
		if !p.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// CompletedRequest is a trip record with all four fields present and valid.
// It is immutable once built and consumed exactly once by the trip factory.
type CompletedRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Budget      int    `json:"budget"`
	Members     int    `json:"members"`
}

// Completed promotes the partial record once every field is present.
func (p *PartialRequest) Completed() (CompletedRequest, bool) {
	if len(p.Missing()) > 0 {
		return CompletedRequest{}, false
	}
	return CompletedRequest{
		Source:      *p.Source,
		Destination: *p.Destination,
		Budget:      *p.Budget,
		Members:     *p.Members,
	}, true
}

// OutcomeKind tags the controller's response to one user message.
type OutcomeKind string

const (
	// OutcomeSlotFilling means a session is open and a question is pending.
	OutcomeSlotFilling OutcomeKind = "slot_filling"
	// OutcomeTripReady means a completed request was handed to the trip factory.
	OutcomeTripReady OutcomeKind = "trip_ready"
	// OutcomeClarification means nothing usable was recognized; show a generic help prompt.
	OutcomeClarification OutcomeKind = "clarification"
)

// Outcome is the full contract the presentation layer sees. Only the fields
// relevant to the Kind are populated.
type Outcome struct {
	Kind OutcomeKind

	// Prompt is the next question, the re-prompt after a rejection, or the
	// generic clarification text.
	Prompt string

	// Field, Answered, and Total describe slot-filling progress ("step N of M").
	Field    Field
	Answered int
	Total    int

	// Rejection carries the validation reason when the last answer was refused.
	Rejection string

	// Request and TripID are set on OutcomeTripReady.
	Request *CompletedRequest
	TripID  types.ID

	// Abandoned carries the partial record preserved when a session was
	// skipped, so a client may offer to reuse it.
	Abandoned *PartialRequest
}

// questions maps each field to the prompt shown when it is asked.
var questions = map[Field]string{
	FieldSource:      "Where will you be starting your journey from?",
	FieldDestination: "Where would you like to go?",
	FieldBudget:      "What is your budget for this trip?",
	FieldMembers:     "How many people are travelling?",
}

// QuestionFor returns the user-facing question for a field.
func QuestionFor(f Field) string {
	return questions[f]
}

// ClarificationPrompt is shown when extraction recognizes nothing usable.
const ClarificationPrompt = "I can help you plan a trip. Try something like \"plan a trip from Chennai to Dubai for 4 people with a budget of 50000\"."
