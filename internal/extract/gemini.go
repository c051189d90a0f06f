// README: Gemini-backed field extractor with forced JSON output.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"wayfare/internal/modules/dialogue"
)

// GeminiExtractor implements the extractor boundary with Google's Gemini
// models. It only fills the extraction shape; validation of every claimed
// field still happens in the dialogue controller.
type GeminiExtractor struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiExtractor initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiExtractor(ctx context.Context, apiKey string) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Gemini 2.0 Flash for low latency and cost efficiency.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"

	// Extraction wants precision over creativity.
	model.SetTemperature(0.1)

	return &GeminiExtractor{client: client, model: model}, nil
}

// Close cleans up the Gemini client resources.
func (e *GeminiExtractor) Close() {
	e.client.Close()
}

// geminiResult is the schema the prompt asks the model to emit. Numbers
// come back as strings on purpose: the shared validator owns all parsing.
type geminiResult struct {
	TripIntent  bool    `json:"trip_intent"`
	Source      *string `json:"source"`
	Destination *string `json:"destination"`
	Budget      *string `json:"budget"`
	Members     *string `json:"members"`
}

const geminiPrompt = `Role: You are the field extractor for a travel-planning assistant.
Given one user message, pull out whatever trip fields it states. Do not guess
values that are not in the message; use null for anything absent.

Fields:
- "source": the city or place the user departs from.
- "destination": the city or place the user wants to travel to.
- "budget": the stated budget, verbatim as written (e.g. "50,000", "₹50000").
- "members": the stated party size, verbatim as written (e.g. "4").

Also decide:
- "trip_intent": true when the message is about planning or booking a trip,
  even if it states no concrete field; false for greetings or unrelated chat.

Output JSON Schema:
{
  "trip_intent": boolean,
  "source": "string or null",
  "destination": "string or null",
  "budget": "string or null",
  "members": "string or null"
}

User Message: %s`

// Extract asks the model for the four fields of one utterance.
func (e *GeminiExtractor) Extract(ctx context.Context, text string) (dialogue.Extraction, error) {
	resp, err := e.model.GenerateContent(ctx, genai.Text(fmt.Sprintf(geminiPrompt, text)))
	if err != nil {
		return dialogue.Extraction{}, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return dialogue.Extraction{}, fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	return parseGeminiResponse(responseText.String())
}

// parseGeminiResponse maps the model's JSON back onto the extraction
// shape. Every claimed field runs through the shared validator; anything
// the model got wrong is reported missing instead.
func parseGeminiResponse(raw string) (dialogue.Extraction, error) {
	// JSON mode should already be clean, but strip markdown fences anyway.
	cleanJSON := cleanJSONString(raw)

	var result geminiResult
	if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
		return dialogue.Extraction{}, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}

	var partial dialogue.PartialRequest
	claim := func(f dialogue.Field, raw *string) {
		if raw == nil {
			return
		}
		claimField(&partial, f, strings.TrimSpace(*raw))
	}
	claim(dialogue.FieldSource, result.Source)
	claim(dialogue.FieldDestination, result.Destination)
	claim(dialogue.FieldBudget, result.Budget)
	claim(dialogue.FieldMembers, result.Members)

	if partial.Empty() && !result.TripIntent {
		return dialogue.Extraction{}, nil
	}
	return dialogue.Extraction{Partial: partial, Missing: partial.Missing()}, nil
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
