package belief

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/psyche-works/psyche/internal/domain"
)

// Tracker owns the set of tension records. Pairs are unordered:
// (A,B) and (B,A) address the same record, and recurrence bumps the
// encounter count instead of duplicating.
type Tracker struct {
	mu      sync.RWMutex
	records map[string]*domain.TensionRecord
	order   []string
}

// NewTracker creates an empty tension tracker.
func NewTracker() *Tracker {
	return &Tracker{records: make(map[string]*domain.TensionRecord)}
}

// NewTrackerFrom hydrates a tracker from persisted records.
func NewTrackerFrom(records []domain.TensionRecord) *Tracker {
	t := NewTracker()
	for _, r := range records {
		cp := r
		key := pairKey(cp.Stance1, cp.Stance2)
		if _, ok := t.records[key]; ok {
			continue
		}
		t.records[key] = &cp
		t.order = append(t.order, key)
	}
	return t
}

func pairKey(s1, s2 string) string {
	a := strings.ToLower(strings.TrimSpace(s1))
	b := strings.ToLower(strings.TrimSpace(s2))
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// FindOrCreate records a conflict between two stances. A first detection
// creates an unresolved record with encounterCount 1; a recurrence of the
// same unordered pair increments the count and refreshes lastEncountered,
// keeping the original description.
func (t *Tracker) FindOrCreate(stance1, stance2, description string) (domain.TensionRecord, error) {
	if strings.TrimSpace(stance1) == "" || strings.TrimSpace(stance2) == "" {
		return domain.TensionRecord{}, fmt.Errorf("%w: both stances are required", ErrValidation)
	}
	if strings.EqualFold(strings.TrimSpace(stance1), strings.TrimSpace(stance2)) {
		return domain.TensionRecord{}, fmt.Errorf("%w: a stance cannot conflict with itself", ErrValidation)
	}

	key := pairKey(stance1, stance2)
	now := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.records[key]; ok {
		existing.EncounterCount++
		existing.LastEncountered = now
		return *existing, nil
	}

	record := &domain.TensionRecord{
		ID:               uuid.New(),
		Stance1:          strings.TrimSpace(stance1),
		Stance2:          strings.TrimSpace(stance2),
		Description:      description,
		EncounterCount:   1,
		FirstEncountered: now,
		LastEncountered:  now,
	}
	t.records[key] = record
	t.order = append(t.order, key)
	return *record, nil
}

// Resolve marks a tension resolved, recording the reasoning. A second
// resolve attempt fails with ErrAlreadyResolved and leaves the first
// resolution untouched.
func (t *Tracker) Resolve(id uuid.UUID, reasoning string) (domain.TensionRecord, error) {
	if strings.TrimSpace(reasoning) == "" {
		return domain.TensionRecord{}, fmt.Errorf("%w: resolution reasoning is required", ErrValidation)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, key := range t.order {
		record := t.records[key]
		if record.ID != id {
			continue
		}
		if record.Resolved {
			return domain.TensionRecord{}, fmt.Errorf("%w: tension %s", ErrAlreadyResolved, id)
		}
		now := time.Now()
		record.Resolved = true
		record.ResolutionReasoning = reasoning
		record.ResolvedAt = &now
		return *record, nil
	}
	return domain.TensionRecord{}, fmt.Errorf("%w: tension %s", ErrNotFound, id)
}

// Unresolved returns open tensions, most recently encountered first.
func (t *Tracker) Unresolved() []domain.TensionRecord {
	return t.list(func(r *domain.TensionRecord) bool { return !r.Resolved })
}

// Resolved returns settled tensions, most recently encountered first.
func (t *Tracker) Resolved() []domain.TensionRecord {
	return t.list(func(r *domain.TensionRecord) bool { return r.Resolved })
}

func (t *Tracker) list(keep func(*domain.TensionRecord) bool) []domain.TensionRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []domain.TensionRecord
	for _, key := range t.order {
		if keep(t.records[key]) {
			out = append(out, *t.records[key])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastEncountered.After(out[j].LastEncountered)
	})
	return out
}

// IncidentRate is the fraction of all records encountered within the
// trailing window. An empty tracker has rate 0.
func (t *Tracker) IncidentRate(windowDays int) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.records) == 0 {
		return 0
	}

	cutoff := time.Now().Add(-time.Duration(windowDays) * 24 * time.Hour)
	recent := 0
	for _, r := range t.records {
		if r.LastEncountered.After(cutoff) {
			recent++
		}
	}
	return float64(recent) / float64(len(t.records))
}

// Len returns the total record count, resolved or not.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}
