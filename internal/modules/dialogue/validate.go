// README: Per-field validation and normalization rules.
package dialogue

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// Budget bounds in currency minor-unit-free integers.
	minBudget = 1000
	maxBudget = 1_000_000
	// Party size bounds.
	minMembers = 1
	maxMembers = 20
)

// stopWords are grammatical artifacts of a parsed sentence, not place names.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "to": {}, "from": {}, "in": {}, "at": {}, "on": {},
}

// Validation is the tagged result of validating one answer: either
// Accepted with a normalized Value, or Rejected with a Reason. Never both.
type Validation struct {
	Accepted bool
	Value    any
	Reason   string
}

func accepted(v any) Validation { return Validation{Accepted: true, Value: v} }

func rejected(why string) Validation { return Validation{Reason: why} }

// Validate applies the field's rule to a raw answer. It is pure and
// stateless, safe to call concurrently, and is used identically on
// extractor output and on every slot-filling answer.
func Validate(field Field, raw string) Validation {
	switch field {
	case FieldBudget:
		n, ok := parseDigits(raw)
		if !ok {
			return rejected("budget is not a number")
		}
		if n < minBudget || n > maxBudget {
			return rejected("budget must be between 1000 and 1000000")
		}
		return accepted(n)
	case FieldMembers:
		n, ok := parseDigits(raw)
		if !ok {
			return rejected("party size is not a number")
		}
		if n < minMembers || n > maxMembers {
			return rejected("party size must be between 1 and 20")
		}
		return accepted(n)
	case FieldSource, FieldDestination:
		place := strings.TrimSpace(raw)
		if utf8.RuneCountInString(place) < 2 {
			return rejected("place name is too short")
		}
		if _, stop := stopWords[strings.ToLower(place)]; stop {
			return rejected("that does not look like a place name")
		}
		return accepted(place)
	}
	return rejected("unknown field")
}

// parseDigits strips every non-digit character and parses the remainder.
// "₹50,000" becomes 50000; "75k" becomes 75 (the suffix is NOT expanded,
// the range check handles the rest); "abc" fails.
func parseDigits(raw string) (int, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return n, true
}
