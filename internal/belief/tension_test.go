package belief

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/psyche-works/psyche/internal/domain"
)

func TestTracker_FindOrCreate_DedupUnorderedPair(t *testing.T) {
	tr := NewTracker()

	first, err := tr.FindOrCreate("Authenticity", "Growth", "being genuine can block change")
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	if first.EncounterCount != 1 || first.Resolved {
		t.Fatalf("unexpected new record: %+v", first)
	}

	// Reversed order and different description hit the same record.
	second, err := tr.FindOrCreate("Growth", "Authenticity", "a different framing")
	if err != nil {
		t.Fatalf("FindOrCreate reversed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("reversed pair created a second record")
	}
	if second.EncounterCount != 2 {
		t.Fatalf("expected encounter count 2, got %d", second.EncounterCount)
	}
	if second.Description != first.Description {
		t.Fatal("recurrence must keep the original description")
	}
	if tr.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", tr.Len())
	}
}

func TestTracker_FindOrCreate_Validation(t *testing.T) {
	tr := NewTracker()

	if _, err := tr.FindOrCreate("", "Growth", "d"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := tr.FindOrCreate("Growth", "growth", "d"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for self-pair, got %v", err)
	}
}

func TestTracker_ResolveLifecycle(t *testing.T) {
	tr := NewTracker()
	rec, _ := tr.FindOrCreate("Honesty", "Care", "truth can wound")

	if _, err := tr.Resolve(uuid.New(), "r"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := tr.Resolve(rec.ID, " "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for blank reasoning, got %v", err)
	}

	resolved, err := tr.Resolve(rec.ID, "honesty delivered with care")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !resolved.Resolved || resolved.ResolutionReasoning != "honesty delivered with care" || resolved.ResolvedAt == nil {
		t.Fatalf("unexpected resolved record: %+v", resolved)
	}

	// Second resolve is reported, and the first reasoning survives.
	if _, err := tr.Resolve(rec.ID, "a different story"); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
	got := tr.Resolved()
	if len(got) != 1 || got[0].ResolutionReasoning != "honesty delivered with care" {
		t.Fatalf("original resolution reasoning was lost: %+v", got)
	}
}

func TestTracker_UnresolvedResolvedViews(t *testing.T) {
	tr := NewTracker()
	a, _ := tr.FindOrCreate("A", "B", "first")
	time.Sleep(2 * time.Millisecond)
	_, _ = tr.FindOrCreate("C", "D", "second")

	unresolved := tr.Unresolved()
	if len(unresolved) != 2 {
		t.Fatalf("expected 2 unresolved, got %d", len(unresolved))
	}
	// Most recently encountered first.
	if unresolved[0].Stance1 != "C" {
		t.Fatalf("expected most recent first, got %+v", unresolved[0])
	}

	_, _ = tr.Resolve(a.ID, "settled")
	if len(tr.Unresolved()) != 1 || len(tr.Resolved()) != 1 {
		t.Fatal("resolved record still listed as unresolved")
	}
}

func TestTracker_IncidentRate(t *testing.T) {
	tr := NewTracker()
	if got := tr.IncidentRate(7); got != 0 {
		t.Fatalf("empty tracker: expected 0, got %v", got)
	}

	old := domain.TensionRecord{
		ID:              uuid.New(),
		Stance1:         "A",
		Stance2:         "B",
		EncounterCount:  1,
		LastEncountered: time.Now().Add(-30 * 24 * time.Hour),
	}
	tr = NewTrackerFrom([]domain.TensionRecord{old})
	_, _ = tr.FindOrCreate("C", "D", "fresh")

	if got := tr.IncidentRate(7); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}

func TestNewTrackerFrom_SkipsDuplicatePairs(t *testing.T) {
	now := time.Now()
	records := []domain.TensionRecord{
		{ID: uuid.New(), Stance1: "A", Stance2: "B", EncounterCount: 3, LastEncountered: now},
		{ID: uuid.New(), Stance1: "b", Stance2: "a", EncounterCount: 1, LastEncountered: now},
	}
	tr := NewTrackerFrom(records)
	if tr.Len() != 1 {
		t.Fatalf("expected duplicate pair rows collapsed, got %d", tr.Len())
	}
}
