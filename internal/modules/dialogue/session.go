// README: Slot-filling session state machine.
package dialogue

import "errors"

type SessionState string

const (
	// SessionActive has a current field awaiting an answer.
	SessionActive SessionState = "active"
	// SessionComplete and SessionAbandoned are terminal.
	SessionComplete  SessionState = "complete"
	SessionAbandoned SessionState = "abandoned"
)

var (
	// ErrNoMissingFields means a session was started with nothing to fill.
	ErrNoMissingFields = errors.New("session has no missing fields to fill")
	// ErrInvalidSessionState means SubmitAnswer/Abandon was called on a
	// terminal session — a defect in the caller, not a user condition.
	ErrInvalidSessionState = errors.New("session is no longer active")
)

// Session drives one-field-at-a-time question/answer/validate/merge cycles
// over a partial trip record. Exactly one actor mutates a session, one
// answer at a time; it is not safe for concurrent use and never needs to be.
type Session struct {
	state   SessionState
	partial PartialRequest
	queue   []Field
	total   int
}

// StartSession opens a session over the given partial record. The missing
// list is reordered into FieldOrder and deduplicated; unknown names and
// fields already present in the record are dropped. Starting with nothing
// left to ask is a caller error.
func StartSession(partial PartialRequest, missing []Field) (*Session, error) {
	want := map[Field]struct{}{}
	for _, f := range missing {
		if KnownField(f) && !partial.Has(f) {
			want[f] = struct{}{}
		}
	}
	var queue []Field
	for _, f := range FieldOrder {
		if _, ok := want[f]; ok {
			queue = append(queue, f)
		}
	}
	if len(queue) == 0 {
		return nil, ErrNoMissingFields
	}
	return &Session{
		state:   SessionActive,
		partial: partial,
		queue:   queue,
		total:   len(queue),
	}, nil
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState { return s.state }

// Current returns the field awaiting an answer, or "" when not active.
func (s *Session) Current() Field {
	if s.state != SessionActive {
		return ""
	}
	return s.queue[0]
}

// Progress reports (answered, totalToAsk) for "step N of M" style UIs.
func (s *Session) Progress() (answered, total int) {
	return s.total - len(s.queue), s.total
}

// Partial returns a copy of the record accumulated so far.
func (s *Session) Partial() PartialRequest { return s.partial }

// Completed exposes the finished record once the queue has drained.
func (s *Session) Completed() (CompletedRequest, bool) {
	if s.state != SessionComplete {
		return CompletedRequest{}, false
	}
	return s.partial.Completed()
}

// SubmitAnswer validates raw against the current field. A rejection leaves
// the session untouched (same field, same queue) so the caller can
// re-prompt; an acceptance merges the normalized value and advances, and
// the session completes when the last field is answered.
func (s *Session) SubmitAnswer(raw string) (Validation, error) {
	if s.state != SessionActive {
		return Validation{}, ErrInvalidSessionState
	}
	field := s.queue[0]
	v := Validate(field, raw)
	if !v.Accepted {
		return v, nil
	}
	s.partial.set(field, v.Value)
	s.queue = s.queue[1:]
	if len(s.queue) == 0 {
		s.state = SessionComplete
	}
	return v, nil
}

// Abandon terminates the session, preserving the accumulated partial
// record for the caller to reuse.
func (s *Session) Abandon() error {
	if s.state != SessionActive {
		return ErrInvalidSessionState
	}
	s.state = SessionAbandoned
	return nil
}

// Snapshot captures the session for persistence between messages.
type Snapshot struct {
	State   SessionState   `json:"state"`
	Partial PartialRequest `json:"partial"`
	Queue   []Field        `json:"queue"`
	Total   int            `json:"total"`
}

// Snapshot serializes the live session.
func (s *Session) Snapshot() Snapshot {
	queue := make([]Field, len(s.queue))
	copy(queue, s.queue)
	return Snapshot{State: s.state, Partial: s.partial, Queue: queue, Total: s.total}
}

// RestoreSession rebuilds a session from a snapshot. Only active snapshots
// can be restored; terminal sessions are never persisted.
func RestoreSession(snap Snapshot) (*Session, error) {
	if snap.State != SessionActive || len(snap.Queue) == 0 {
		return nil, ErrInvalidSessionState
	}
	return &Session{
		state:   snap.State,
		partial: snap.Partial,
		queue:   snap.Queue,
		total:   snap.Total,
	}, nil
}
