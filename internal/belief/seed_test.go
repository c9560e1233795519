package belief

import (
	"testing"

	"github.com/psyche-works/psyche/internal/domain"
)

func TestSeed_InstallsCoreSetOnce(t *testing.T) {
	s := NewStore()
	if err := Seed(s); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if s.Len() != len(coreSeed) {
		t.Fatalf("seeded %d beliefs, want %d", s.Len(), len(coreSeed))
	}

	for _, n := range s.Snapshot() {
		if !n.IsCore {
			t.Errorf("seed belief %q is not core", n.Stance)
		}
		if n.Weight < domain.MinWeight || n.Weight > domain.MaxWeight {
			t.Errorf("seed belief %q has weight %d out of range", n.Stance, n.Weight)
		}
	}

	domains := make(map[domain.BeliefDomain]bool)
	for _, n := range s.Snapshot() {
		domains[n.Domain] = true
	}
	if len(domains) != 5 {
		t.Errorf("seed covers %d domains, want 5", len(domains))
	}
}

func TestSeed_NoOpOnHydratedStore(t *testing.T) {
	s := NewStore()
	if _, err := s.CreateCore("Existing", domain.DomainSelf, "already here", 5); err != nil {
		t.Fatalf("CreateCore failed: %v", err)
	}

	if err := Seed(s); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("store has %d beliefs after seeding a non-empty store, want 1", s.Len())
	}
}
