// README: Shared helpers for extractor implementations.
package extract

import "wayfare/internal/modules/dialogue"

// claimField merges a raw candidate into the partial record, but only when
// the shared validator accepts it. Anything refused stays missing and gets
// asked during slot-filling instead.
func claimField(p *dialogue.PartialRequest, f dialogue.Field, raw string) {
	if raw == "" || p.Has(f) {
		return
	}
	v := dialogue.Validate(f, raw)
	if !v.Accepted {
		return
	}
	switch f {
	case dialogue.FieldSource:
		s := v.Value.(string)
		p.Source = &s
	case dialogue.FieldDestination:
		s := v.Value.(string)
		p.Destination = &s
	case dialogue.FieldBudget:
		n := v.Value.(int)
		p.Budget = &n
	case dialogue.FieldMembers:
		n := v.Value.(int)
		p.Members = &n
	}
}
