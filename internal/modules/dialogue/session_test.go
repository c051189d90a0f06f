// README: Session state machine tests (ordering, retries, terminal states).
package dialogue

import (
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

// TestStartSessionOrdersQueue verifies fields are always asked in the
// fixed priority order regardless of how the extractor reported them.
func TestStartSessionOrdersQueue(t *testing.T) {
	cases := []struct {
		name    string
		missing []Field
		want    []Field
	}{
		{"already ordered", []Field{FieldSource, FieldBudget}, []Field{FieldSource, FieldBudget}},
		{"reversed", []Field{FieldMembers, FieldBudget, FieldDestination, FieldSource}, FieldOrder},
		{"duplicates collapse", []Field{FieldBudget, FieldBudget, FieldSource}, []Field{FieldSource, FieldBudget}},
		{"unknown names dropped", []Field{Field("hotel"), FieldMembers}, []Field{FieldMembers}},
	}
	for _, tc := range cases {
		s, err := StartSession(PartialRequest{}, tc.missing)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		var got []Field
		for s.State() == SessionActive {
			got = append(got, s.Current())
			if _, err := s.SubmitAnswer(validAnswer(s.Current())); err != nil {
				t.Fatalf("%s: submit: %v", tc.name, err)
			}
		}
		if len(got) != len(tc.want) {
			t.Fatalf("%s: asked %v, want %v", tc.name, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: asked %v, want %v", tc.name, got, tc.want)
				break
			}
		}
	}
}

func validAnswer(f Field) string {
	switch f {
	case FieldBudget:
		return "50000"
	case FieldMembers:
		return "4"
	default:
		return "Chennai"
	}
}

// TestStartSessionNothingToFill asserts starting with an empty queue is a
// caller error.
func TestStartSessionNothingToFill(t *testing.T) {
	if _, err := StartSession(PartialRequest{}, nil); !errors.Is(err, ErrNoMissingFields) {
		t.Errorf("expected ErrNoMissingFields, got %v", err)
	}
	// Missing fields already present in the partial are dropped too.
	partial := PartialRequest{Source: strPtr("Chennai")}
	if _, err := StartSession(partial, []Field{FieldSource}); !errors.Is(err, ErrNoMissingFields) {
		t.Errorf("expected ErrNoMissingFields for already-present field, got %v", err)
	}
}

// TestRejectedAnswerIsIdempotent verifies a rejection never mutates the
// record, queue, or cursor, however often it is repeated.
func TestRejectedAnswerIsIdempotent(t *testing.T) {
	s, err := StartSession(PartialRequest{Destination: strPtr("Dubai")}, []Field{FieldSource, FieldBudget, FieldMembers})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SubmitAnswer("Chennai"); err != nil {
		t.Fatal(err)
	}
	if s.Current() != FieldBudget {
		t.Fatalf("current = %s, want budget", s.Current())
	}

	for i := 0; i < 3; i++ {
		v, err := s.SubmitAnswer("abc")
		if err != nil {
			t.Fatal(err)
		}
		if v.Accepted {
			t.Fatal("expected rejection")
		}
		if s.Current() != FieldBudget {
			t.Errorf("current advanced to %s after rejection", s.Current())
		}
		if answered, total := s.Progress(); answered != 1 || total != 3 {
			t.Errorf("progress = (%d, %d), want (1, 3)", answered, total)
		}
		if p := s.Partial(); p.Budget != nil {
			t.Errorf("rejected value leaked into partial: %d", *p.Budget)
		}
	}
}

// TestSessionCompletion walks a full session and asserts Complete is
// terminal.
func TestSessionCompletion(t *testing.T) {
	s, err := StartSession(PartialRequest{Destination: strPtr("Dubai")}, []Field{FieldSource, FieldBudget, FieldMembers})
	if err != nil {
		t.Fatal(err)
	}
	for _, answer := range []string{"Chennai", "50000", "4"} {
		v, err := s.SubmitAnswer(answer)
		if err != nil {
			t.Fatalf("submit %q: %v", answer, err)
		}
		if !v.Accepted {
			t.Fatalf("submit %q rejected: %s", answer, v.Reason)
		}
	}
	if s.State() != SessionComplete {
		t.Fatalf("state = %s, want complete", s.State())
	}

	req, ok := s.Completed()
	if !ok {
		t.Fatal("Completed() not available after completion")
	}
	want := CompletedRequest{Source: "Chennai", Destination: "Dubai", Budget: 50000, Members: 4}
	if req != want {
		t.Errorf("completed = %+v, want %+v", req, want)
	}

	if _, err := s.SubmitAnswer("anything"); !errors.Is(err, ErrInvalidSessionState) {
		t.Errorf("SubmitAnswer on complete session: err = %v, want ErrInvalidSessionState", err)
	}
	if err := s.Abandon(); !errors.Is(err, ErrInvalidSessionState) {
		t.Errorf("Abandon on complete session: err = %v, want ErrInvalidSessionState", err)
	}
}

// TestSessionAbandon verifies abandonment preserves the partial record and
// is terminal.
func TestSessionAbandon(t *testing.T) {
	s, err := StartSession(PartialRequest{}, []Field{FieldSource, FieldDestination})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SubmitAnswer("Chennai"); err != nil {
		t.Fatal(err)
	}
	if err := s.Abandon(); err != nil {
		t.Fatal(err)
	}
	if s.State() != SessionAbandoned {
		t.Fatalf("state = %s, want abandoned", s.State())
	}
	if p := s.Partial(); p.Source == nil || *p.Source != "Chennai" {
		t.Error("abandon lost the accumulated partial record")
	}
	if _, err := s.SubmitAnswer("Dubai"); !errors.Is(err, ErrInvalidSessionState) {
		t.Errorf("SubmitAnswer on abandoned session: err = %v, want ErrInvalidSessionState", err)
	}
}

// TestSnapshotRoundTrip checks a mid-flight session survives persistence.
func TestSnapshotRoundTrip(t *testing.T) {
	s, err := StartSession(PartialRequest{Members: intPtr(2)}, []Field{FieldSource, FieldDestination, FieldBudget})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SubmitAnswer("Chennai"); err != nil {
		t.Fatal(err)
	}

	restored, err := RestoreSession(s.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	if restored.Current() != FieldDestination {
		t.Fatalf("restored current = %s, want destination", restored.Current())
	}
	if answered, total := restored.Progress(); answered != 1 || total != 3 {
		t.Errorf("restored progress = (%d, %d), want (1, 3)", answered, total)
	}
	if p := restored.Partial(); p.Members == nil || *p.Members != 2 || p.Source == nil {
		t.Errorf("restored partial lost data: %+v", p)
	}
}

// TestRestoreRejectsTerminalSnapshots guards against persisting finished
// sessions.
func TestRestoreRejectsTerminalSnapshots(t *testing.T) {
	if _, err := RestoreSession(Snapshot{State: SessionComplete}); !errors.Is(err, ErrInvalidSessionState) {
		t.Errorf("restore complete snapshot: err = %v, want ErrInvalidSessionState", err)
	}
	if _, err := RestoreSession(Snapshot{State: SessionActive}); !errors.Is(err, ErrInvalidSessionState) {
		t.Errorf("restore active snapshot with empty queue: err = %v, want ErrInvalidSessionState", err)
	}
}
