// README: Dialogue controller: extraction, slot-filling, and trip hand-off.
package dialogue

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"

	"wayfare/internal/types"
)

// ErrNoActiveSession means abandon was requested for a conversation with
// no open session.
var ErrNoActiveSession = errors.New("no active session for conversation")

// Extraction is the field extractor's best effort over one utterance.
// Missing signals trip intent: an extractor that recognized a travel
// request but no concrete fields returns all four fields as missing.
type Extraction struct {
	Partial PartialRequest
	Missing []Field
}

// Extractor turns free text into a partial trip record. Implementations
// may be rule-based or model-backed; the controller only depends on this
// shape and re-validates everything an extractor claims.
type Extractor interface {
	Extract(ctx context.Context, text string) (Extraction, error)
}

// TripCreator turns a completed request into a persisted trip.
type TripCreator interface {
	CreateFromRequest(ctx context.Context, owner types.ID, req CompletedRequest) (types.ID, error)
}

// Quota meters extraction calls when a paid model backs the extractor.
type Quota interface {
	Use(ctx context.Context, uid string) error
}

// Service orchestrates one logical conversation per (owner, conversation)
// pair. It holds no per-conversation state itself; sessions live in the
// store, so concurrent conversations never share anything mutable.
type Service struct {
	extractor Extractor
	sessions  SessionStore
	trips     TripCreator
	quota     Quota
}

func NewService(extractor Extractor, sessions SessionStore, trips TripCreator) *Service {
	return &Service{extractor: extractor, sessions: sessions, trips: trips}
}

// WithQuota meters extraction; use it when the extractor costs money per call.
func (s *Service) WithQuota(q Quota) *Service {
	s.quota = q
	return s
}

// HandleMessage routes one user message. With no session open it runs
// extraction; with a session open the message is the next answer (or
// "skip", which abandons). Messages to the same conversation must be
// processed one at a time, in order.
func (s *Service) HandleMessage(ctx context.Context, owner, conv types.ID, text string) (Outcome, error) {
	text = strings.TrimSpace(text)

	snap, open, err := s.sessions.Load(ctx, owner, conv)
	if err != nil {
		return Outcome{}, err
	}
	if open {
		if strings.EqualFold(text, "skip") {
			// Abandonment is a clean reset: the next message starts over.
			if err := s.sessions.Delete(ctx, owner, conv); err != nil {
				return Outcome{}, err
			}
			out := Outcome{
				Kind:   OutcomeClarification,
				Prompt: "No problem, I've set that trip aside. Tell me about a new trip whenever you're ready.",
			}
			if !snap.Partial.Empty() {
				partial := snap.Partial
				out.Abandoned = &partial
			}
			return out, nil
		}
		return s.continueSession(ctx, owner, conv, snap, text)
	}

	return s.startConversation(ctx, owner, conv, text)
}

// Abandon discards the open session and returns the partial record
// accumulated so far for the caller to optionally reuse.
func (s *Service) Abandon(ctx context.Context, owner, conv types.ID) (PartialRequest, error) {
	snap, open, err := s.sessions.Load(ctx, owner, conv)
	if err != nil {
		return PartialRequest{}, err
	}
	if !open {
		return PartialRequest{}, ErrNoActiveSession
	}
	sess, err := RestoreSession(snap)
	if err != nil {
		return PartialRequest{}, err
	}
	if err := sess.Abandon(); err != nil {
		return PartialRequest{}, err
	}
	if err := s.sessions.Delete(ctx, owner, conv); err != nil {
		return PartialRequest{}, err
	}
	return sess.Partial(), nil
}

func (s *Service) startConversation(ctx context.Context, owner, conv types.ID, text string) (Outcome, error) {
	if s.quota != nil {
		if err := s.quota.Use(ctx, string(owner)); err != nil {
			return Outcome{}, err
		}
	}

	res, err := s.extractor.Extract(ctx, text)
	if err != nil {
		// An extractor crash must not crash the conversation.
		log.Printf("extractor error (conversation %s): %v", conv, err)
		return Outcome{Kind: OutcomeClarification, Prompt: ClarificationPrompt}, nil
	}

	usable := !res.Partial.Empty() || len(res.Missing) > 0
	if !usable {
		return Outcome{Kind: OutcomeClarification, Prompt: ClarificationPrompt}, nil
	}

	// The extractor's output goes through the same validator as every
	// slot-filling answer; anything it got wrong becomes missing again.
	partial := res.Partial
	for _, f := range FieldOrder {
		if !partial.Has(f) {
			continue
		}
		if v := Validate(f, fieldString(&partial, f)); !v.Accepted {
			partial.clear(f)
		}
	}

	if req, done := partial.Completed(); done {
		// One-shot complete utterance: no session is ever created.
		return s.finishTrip(ctx, owner, req)
	}

	sess, err := StartSession(partial, partial.Missing())
	if err != nil {
		return Outcome{}, err
	}
	if err := s.sessions.Save(ctx, owner, conv, sess.Snapshot()); err != nil {
		return Outcome{}, err
	}
	answered, total := sess.Progress()
	return Outcome{
		Kind:     OutcomeSlotFilling,
		Prompt:   QuestionFor(sess.Current()),
		Field:    sess.Current(),
		Answered: answered,
		Total:    total,
	}, nil
}

func (s *Service) continueSession(ctx context.Context, owner, conv types.ID, snap Snapshot, text string) (Outcome, error) {
	sess, err := RestoreSession(snap)
	if err != nil {
		// A terminal snapshot should never have been stored; recover by
		// treating the conversation as fresh.
		log.Printf("dropping unusable session (conversation %s): %v", conv, err)
		if err := s.sessions.Delete(ctx, owner, conv); err != nil {
			return Outcome{}, err
		}
		return s.startConversation(ctx, owner, conv, text)
	}

	v, err := sess.SubmitAnswer(text)
	if err != nil {
		return Outcome{}, err
	}

	if !v.Accepted {
		// Queue and cursor are untouched; surface the reason and re-ask.
		answered, total := sess.Progress()
		return Outcome{
			Kind:      OutcomeSlotFilling,
			Prompt:    QuestionFor(sess.Current()),
			Field:     sess.Current(),
			Answered:  answered,
			Total:     total,
			Rejection: v.Reason,
		}, nil
	}

	if req, done := sess.Completed(); done {
		if err := s.sessions.Delete(ctx, owner, conv); err != nil {
			return Outcome{}, err
		}
		return s.finishTrip(ctx, owner, req)
	}

	if err := s.sessions.Save(ctx, owner, conv, sess.Snapshot()); err != nil {
		return Outcome{}, err
	}
	answered, total := sess.Progress()
	return Outcome{
		Kind:     OutcomeSlotFilling,
		Prompt:   QuestionFor(sess.Current()),
		Field:    sess.Current(),
		Answered: answered,
		Total:    total,
	}, nil
}

func (s *Service) finishTrip(ctx context.Context, owner types.ID, req CompletedRequest) (Outcome, error) {
	tripID, err := s.trips.CreateFromRequest(ctx, owner, req)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Kind:    OutcomeTripReady,
		Request: &req,
		TripID:  tripID,
	}, nil
}

// fieldString renders a present field back to text so extractor output can
// run through the same Validate rules as typed answers.
func fieldString(p *PartialRequest, f Field) string {
	switch f {
	case FieldSource:
		return *p.Source
	case FieldDestination:
		return *p.Destination
	case FieldBudget:
		return strconv.Itoa(*p.Budget)
	case FieldMembers:
		return strconv.Itoa(*p.Members)
	}
	return ""
}
