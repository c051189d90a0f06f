// README: Rule-based field extractor (keyword/regex table).
package extract

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"wayfare/internal/modules/dialogue"
)

// RulesExtractor recognizes trip requests with a fixed keyword and regex
// table. It is deterministic, free, and the default when no model key is
// configured.
type RulesExtractor struct{}

func NewRulesExtractor() *RulesExtractor { return &RulesExtractor{} }

// intentWords mark an utterance as a travel request even when no concrete
// field can be pulled out of it.
var intentWords = []string{
	"trip", "travel", "vacation", "holiday", "tour", "visit", "getaway", "itinerary",
}

// fillerWords are verbs and articles that a loose "to <X>" match tends to
// swallow; a candidate starting with one of these is not a place capture.
var fillerWords = map[string]struct{}{
	"go": {}, "plan": {}, "travel": {}, "visit": {}, "book": {}, "take": {},
	"have": {}, "get": {}, "make": {}, "my": {}, "a": {}, "an": {}, "the": {},
}

// cutWords terminate a multi-word place capture.
var cutWords = map[string]struct{}{
	"to": {}, "from": {}, "with": {}, "for": {}, "on": {}, "in": {}, "by": {},
	"under": {}, "within": {}, "and": {}, "budget": {}, "people": {}, "members": {},
	"next": {}, "this": {},
}

var (
	sourceKey = regexp.MustCompile(`(?i)\bfrom\b`)
	destKey   = regexp.MustCompile(`(?i)\b(?:to|visit|visiting)\b`)
	budgetRe  = regexp.MustCompile(`(?i)\b(?:budget|price|cost|spend(?:ing)?|rs\.?|inr|usd)\s*(?:of|is|:)?\s*[₹$]?\s*(\d[\d,]*k?)`)
	symbolRe  = regexp.MustCompile(`[₹$]\s*(\d[\d,]*k?)`)
	membersRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:people|persons?|members?|travell?ers?|adults?|pax|of us)\b`)
	partyRe   = regexp.MustCompile(`(?i)\b(?:party|group|family)\s+of\s+(\d{1,2})\b`)
)

// Extract scans the utterance with the keyword table. Every candidate runs
// through the shared field validator before it is claimed; anything the
// validator refuses is simply reported missing instead.
func (e *RulesExtractor) Extract(_ context.Context, text string) (dialogue.Extraction, error) {
	var partial dialogue.PartialRequest

	claimField(&partial, dialogue.FieldSource, placeCandidate(sourceKey, text))
	claimField(&partial, dialogue.FieldDestination, placeCandidate(destKey, text))
	if m := budgetRe.FindStringSubmatch(text); m != nil {
		claimField(&partial, dialogue.FieldBudget, m[1])
	} else if m := symbolRe.FindStringSubmatch(text); m != nil {
		claimField(&partial, dialogue.FieldBudget, m[1])
	}
	if m := membersRe.FindStringSubmatch(text); m != nil {
		claimField(&partial, dialogue.FieldMembers, m[1])
	} else if m := partyRe.FindStringSubmatch(text); m != nil {
		claimField(&partial, dialogue.FieldMembers, m[1])
	}

	if partial.Empty() && !hasIntent(text) {
		// Nothing recognized at all: not a travel request.
		return dialogue.Extraction{}, nil
	}

	return dialogue.Extraction{Partial: partial, Missing: partial.Missing()}, nil
}

func hasIntent(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range intentWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// placeCandidate scans every occurrence of the keyword and returns the
// first plausible place after one. Leading filler verbs and connectives
// are skipped ("want to go to Dubai" yields "Dubai"), the capture ends at
// the next connective ("Dubai from Chennai" yields "Dubai"), and captures
// made only of trip words ("a trip to ...") are passed over.
func placeCandidate(key *regexp.Regexp, text string) string {
	for _, loc := range key.FindAllStringIndex(text, -1) {
		words := strings.Fields(letterSpan(text[loc[1]:]))
		for len(words) > 0 && isNoise(words[0]) {
			words = words[1:]
		}
		var kept []string
		for _, w := range words {
			if _, cut := cutWords[strings.ToLower(w)]; cut {
				break
			}
			kept = append(kept, w)
		}
		if len(kept) > 0 && !allIntent(kept) {
			return strings.Join(kept, " ")
		}
	}
	return ""
}

// letterSpan returns the leading run of letters and spaces, so a capture
// stops at digits, currency symbols, and punctuation.
func letterSpan(s string) string {
	for i, r := range s {
		if r != ' ' && !unicode.IsLetter(r) {
			return s[:i]
		}
	}
	return s
}

func isNoise(w string) bool {
	lower := strings.ToLower(w)
	if _, ok := fillerWords[lower]; ok {
		return true
	}
	_, ok := cutWords[lower]
	return ok
}

func allIntent(words []string) bool {
	for _, w := range words {
		lower := strings.ToLower(w)
		found := false
		for _, iw := range intentWords {
			if lower == iw {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
