// README: Scripted demo of the dialogue controller using the rules extractor.
package main

import (
	"context"
	"fmt"
	"log"

	"wayfare/internal/extract"
	"wayfare/internal/modules/dialogue"
	"wayfare/internal/types"
)

// printTripCreator fakes the trip factory so the demo runs with no database.
type printTripCreator struct {
	next int
}

func (p *printTripCreator) CreateFromRequest(_ context.Context, owner types.ID, req dialogue.CompletedRequest) (types.ID, error) {
	p.next++
	id := types.ID(fmt.Sprintf("demo-trip-%d", p.next))
	fmt.Printf("  [trip factory] created %s for %s: %s -> %s, budget %d, members %d\n",
		id, owner, req.Source, req.Destination, req.Budget, req.Members)
	return id, nil
}

func main() {
	svc := dialogue.NewService(extract.NewRulesExtractor(), dialogue.NewMemorySessionStore(), &printTripCreator{})

	ctx := context.Background()
	owner := types.ID("demo-user")
	conv := types.ID("demo-conversation")

	script := []string{
		"hello",
		"plan a trip to Dubai",
		"Chennai",
		"abc",
		"₹50,000",
		"4",
		"book a vacation from Mumbai to Goa for 2 people, budget 30000",
	}

	for _, msg := range script {
		fmt.Printf("User: %s\n", msg)
		out, err := svc.HandleMessage(ctx, owner, conv, msg)
		if err != nil {
			log.Fatalf("dialogue error: %v", err)
		}
		switch out.Kind {
		case dialogue.OutcomeClarification:
			fmt.Printf("Bot: %s\n\n", out.Prompt)
		case dialogue.OutcomeSlotFilling:
			if out.Rejection != "" {
				fmt.Printf("Bot: %s (step %d of %d)\n", out.Rejection, out.Answered+1, out.Total)
			}
			fmt.Printf("Bot: %s (step %d of %d)\n\n", out.Prompt, out.Answered+1, out.Total)
		case dialogue.OutcomeTripReady:
			fmt.Printf("Bot: your trip is booked! (trip id %s)\n\n", out.TripID)
		}
	}
}
