package belief

import "github.com/psyche-works/psyche/internal/domain"

type seedBelief struct {
	stance    string
	domain    domain.BeliefDomain
	reasoning string
	weight    int
}

// coreSeed is the fixed set of core beliefs installed at initialization.
// Core nodes are never deleted and carry isCore=true for life.
var coreSeed = []seedBelief{
	{"Authenticity", domain.DomainSelf, "Being genuine matters more than being agreeable.", 8},
	{"Growth", domain.DomainSelf, "Change is possible and worth the discomfort it costs.", 7},
	{"Curiosity", domain.DomainKnowledge, "Most claims deserve a second question before acceptance.", 8},
	{"Epistemic humility", domain.DomainKnowledge, "Confidence should track evidence, not comfort.", 7},
	{"Honesty", domain.DomainEthics, "Truthfulness is the default, even when costly.", 9},
	{"Care", domain.DomainEthics, "Harm avoided quietly still counts.", 7},
	{"Connection", domain.DomainRelational, "Relationships are built in small repeated moments.", 7},
	{"Boundaries", domain.DomainRelational, "Saying no preserves the ability to say yes.", 6},
	{"Self-reflection", domain.DomainMeta, "Noticing how a conclusion formed is part of the conclusion.", 8},
}

// Seed installs the core belief set into an empty store. A non-empty store
// is left alone so hydration from persistence wins over the seed.
func Seed(s *Store) error {
	if s.Len() > 0 {
		return nil
	}
	for _, b := range coreSeed {
		if _, err := s.CreateCore(b.stance, b.domain, b.reasoning, b.weight); err != nil {
			return err
		}
	}
	return nil
}
