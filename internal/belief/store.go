package belief

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/psyche-works/psyche/internal/domain"
)

// Store is the sole authority over the belief set. All mutation goes through
// it, every weight or reasoning change appends exactly one revision, and the
// [1,10] weight bound holds unconditionally because writes saturate.
//
// Mutations run under the store mutex. Reads hand out deep copies, so callers
// can compute over a snapshot while mutations proceed.
type Store struct {
	mu       sync.RWMutex
	nodes    map[uuid.UUID]*domain.BeliefNode
	order    []uuid.UUID
	onChange []func(domain.BeliefNode)
}

// NewStore creates an empty belief store.
func NewStore() *Store {
	return &Store{nodes: make(map[uuid.UUID]*domain.BeliefNode)}
}

// NewStoreFrom creates a store hydrated from persisted nodes.
// Weights are clamped on the way in so a corrupted row cannot
// violate the bound invariant.
func NewStoreFrom(nodes []domain.BeliefNode) *Store {
	s := NewStore()
	for _, n := range nodes {
		cp := n.Clone()
		cp.Weight = domain.ClampWeight(cp.Weight)
		s.nodes[cp.ID] = &cp
		s.order = append(s.order, cp.ID)
	}
	return s
}

// OnChange registers a callback fired with a copy of each node touched by a
// successful mutation. Callbacks run while the store lock is held so that
// deliveries arrive in mutation order: a persistence callback that upserts
// whole rows would otherwise race two mutations of the same node and let the
// stale copy win. Callbacks must not call back into the store.
func (s *Store) OnChange(fn func(domain.BeliefNode)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// notify delivers node copies to the registered callbacks. Callers hold mu.
func (s *Store) notify(nodes ...domain.BeliefNode) {
	for _, fn := range s.onChange {
		for _, n := range nodes {
			fn(n)
		}
	}
}

// CreateCore adds a core belief. Unlike the clamping mutation paths, creation
// rejects an out-of-range weight outright: seed data is operator input, not
// untrusted generator output.
func (s *Store) CreateCore(stance string, dom domain.BeliefDomain, reasoning string, weight int) (domain.BeliefNode, error) {
	stance = strings.TrimSpace(stance)
	if stance == "" {
		return domain.BeliefNode{}, fmt.Errorf("%w: stance is required", ErrValidation)
	}
	if !domain.ValidBeliefDomain(string(dom)) {
		return domain.BeliefNode{}, fmt.Errorf("%w: unknown domain %q", ErrValidation, dom)
	}
	if weight < domain.MinWeight || weight > domain.MaxWeight {
		return domain.BeliefNode{}, fmt.Errorf("%w: weight %d outside [%d,%d]", ErrValidation, weight, domain.MinWeight, domain.MaxWeight)
	}

	now := time.Now()
	node := &domain.BeliefNode{
		ID:          uuid.New(),
		Stance:      stance,
		Domain:      dom,
		Weight:      weight,
		Reasoning:   reasoning,
		IsCore:      true,
		LastUpdated: now,
		CreatedAt:   now,
	}

	s.mu.Lock()
	s.nodes[node.ID] = node
	s.order = append(s.order, node.ID)
	out := node.Clone()
	s.notify(out)
	s.mu.Unlock()

	return out, nil
}

// AddLearned appends a learned belief. Idempotent: a node whose id already
// exists is left untouched and returned as-is.
func (s *Store) AddLearned(n domain.BeliefNode) (domain.BeliefNode, error) {
	n.Stance = strings.TrimSpace(n.Stance)
	if n.Stance == "" {
		return domain.BeliefNode{}, fmt.Errorf("%w: stance is required", ErrValidation)
	}
	if !domain.ValidBeliefDomain(string(n.Domain)) {
		return domain.BeliefNode{}, fmt.Errorf("%w: unknown domain %q", ErrValidation, n.Domain)
	}

	s.mu.Lock()
	if n.ID != uuid.Nil {
		if existing, ok := s.nodes[n.ID]; ok {
			out := existing.Clone()
			s.mu.Unlock()
			return out, nil
		}
	} else {
		n.ID = uuid.New()
	}

	now := time.Now()
	node := n.Clone()
	node.IsCore = false
	node.Weight = domain.ClampWeight(node.Weight)
	node.LastUpdated = now
	if node.CreatedAt.IsZero() {
		node.CreatedAt = now
	}
	s.nodes[node.ID] = &node
	s.order = append(s.order, node.ID)
	out := node.Clone()
	s.notify(out)
	s.mu.Unlock()

	return out, nil
}

// Challenge records doubt against a belief without moving its weight.
// The challenge still appends a revision so the audit trail shows it.
func (s *Store) Challenge(id uuid.UUID, reason string) (domain.BeliefNode, error) {
	return s.mutate(id, reason, func(n *domain.BeliefNode) domain.RevisionType {
		return domain.RevisionChallenge
	})
}

// Strengthen raises weight by one step (saturating at 10) and replaces the
// node's reasoning with the given justification.
func (s *Store) Strengthen(id uuid.UUID, reasoning string) (domain.BeliefNode, error) {
	return s.mutate(id, reasoning, func(n *domain.BeliefNode) domain.RevisionType {
		n.Weight = domain.ClampWeight(n.Weight + 1)
		n.Reasoning = reasoning
		return domain.RevisionStrengthen
	})
}

// Weaken lowers weight by one step, saturating at 1.
func (s *Store) Weaken(id uuid.UUID, reason string) (domain.BeliefNode, error) {
	return s.mutate(id, reason, func(n *domain.BeliefNode) domain.RevisionType {
		n.Weight = domain.ClampWeight(n.Weight - 1)
		return domain.RevisionWeaken
	})
}

// Revise replaces the node's reasoning without touching its weight.
func (s *Store) Revise(id uuid.UUID, newReasoning string) (domain.BeliefNode, error) {
	return s.mutate(id, newReasoning, func(n *domain.BeliefNode) domain.RevisionType {
		n.Reasoning = newReasoning
		return domain.RevisionRevise
	})
}

// SetWeight clamps newWeight into [1,10] and applies it, inferring the
// revision type from the direction of change. Out-of-range input never
// errors; that is what keeps the bound invariant unconditional.
func (s *Store) SetWeight(id uuid.UUID, newWeight int, reason string) (domain.BeliefNode, error) {
	return s.mutate(id, reason, func(n *domain.BeliefNode) domain.RevisionType {
		target := domain.ClampWeight(newWeight)
		switch {
		case target > n.Weight:
			n.Weight = target
			return domain.RevisionStrengthen
		case target < n.Weight:
			n.Weight = target
			return domain.RevisionWeaken
		default:
			return domain.RevisionRevise
		}
	})
}

// mutate runs one audited mutation: validate, apply, append exactly one
// revision, stamp lastUpdated. A failed call leaves the node untouched.
func (s *Store) mutate(id uuid.UUID, reason string, apply func(*domain.BeliefNode) domain.RevisionType) (domain.BeliefNode, error) {
	if strings.TrimSpace(reason) == "" {
		return domain.BeliefNode{}, fmt.Errorf("%w: reason is required", ErrValidation)
	}

	s.mu.Lock()
	node, ok := s.nodes[id]
	if !ok {
		s.mu.Unlock()
		return domain.BeliefNode{}, fmt.Errorf("%w: belief %s", ErrNotFound, id)
	}

	prev := node.Weight
	revType := apply(node)
	now := time.Now()
	node.RevisionHistory = append(node.RevisionHistory, domain.BeliefRevision{
		ID:             uuid.New(),
		Type:           revType,
		Reason:         reason,
		PreviousWeight: prev,
		NewWeight:      node.Weight,
		Timestamp:      now,
	})
	node.LastUpdated = now
	out := node.Clone()
	s.notify(out)
	s.mu.Unlock()

	return out, nil
}

// Connect adds a symmetric edge between two beliefs. Connecting an already
// connected pair is a no-op; connecting a node to itself is rejected.
func (s *Store) Connect(idA, idB uuid.UUID) error {
	if idA == idB {
		return fmt.Errorf("%w: cannot connect a belief to itself", ErrValidation)
	}

	s.mu.Lock()
	a, ok := s.nodes[idA]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: belief %s", ErrNotFound, idA)
	}
	b, ok := s.nodes[idB]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: belief %s", ErrNotFound, idB)
	}

	if a.Connected(idB) {
		s.mu.Unlock()
		return nil
	}

	a.ConnectionIDs = append(a.ConnectionIDs, idB)
	b.ConnectionIDs = append(b.ConnectionIDs, idA)
	s.notify(a.Clone(), b.Clone())
	s.mu.Unlock()

	return nil
}

// Disconnect removes the symmetric edge if present; removing a missing edge
// is a no-op.
func (s *Store) Disconnect(idA, idB uuid.UUID) error {
	s.mu.Lock()
	a, ok := s.nodes[idA]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: belief %s", ErrNotFound, idA)
	}
	b, ok := s.nodes[idB]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: belief %s", ErrNotFound, idB)
	}

	if !a.Connected(idB) {
		s.mu.Unlock()
		return nil
	}

	a.ConnectionIDs = removeID(a.ConnectionIDs, idB)
	b.ConnectionIDs = removeID(b.ConnectionIDs, idA)
	s.notify(a.Clone(), b.Clone())
	s.mu.Unlock()

	return nil
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, c := range ids {
		if c != id {
			out = append(out, c)
		}
	}
	return out
}

// GetByID returns a copy of the node.
func (s *Store) GetByID(id uuid.UUID) (domain.BeliefNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.nodes[id]
	if !ok {
		return domain.BeliefNode{}, fmt.Errorf("%w: belief %s", ErrNotFound, id)
	}
	return node.Clone(), nil
}

// GetByStance resolves a stance label case-insensitively.
func (s *Store) GetByStance(stance string) (domain.BeliefNode, error) {
	want := strings.ToLower(strings.TrimSpace(stance))

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if strings.ToLower(s.nodes[id].Stance) == want {
			return s.nodes[id].Clone(), nil
		}
	}
	return domain.BeliefNode{}, fmt.Errorf("%w: stance %q", ErrNotFound, stance)
}

// ListByDomain returns copies of all nodes in the given domain, in insertion order.
func (s *Store) ListByDomain(dom domain.BeliefDomain) []domain.BeliefNode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.BeliefNode
	for _, id := range s.order {
		if s.nodes[id].Domain == dom {
			out = append(out, s.nodes[id].Clone())
		}
	}
	return out
}

// CoreBeliefs returns copies of the seed nodes.
func (s *Store) CoreBeliefs() []domain.BeliefNode {
	return s.filter(func(n *domain.BeliefNode) bool { return n.IsCore })
}

// LearnedBeliefs returns copies of nodes added after initialization.
func (s *Store) LearnedBeliefs() []domain.BeliefNode {
	return s.filter(func(n *domain.BeliefNode) bool { return !n.IsCore })
}

func (s *Store) filter(keep func(*domain.BeliefNode) bool) []domain.BeliefNode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.BeliefNode
	for _, id := range s.order {
		if keep(s.nodes[id]) {
			out = append(out, s.nodes[id].Clone())
		}
	}
	return out
}

// Snapshot returns a deep copy of every node in insertion order. Analyzer
// functions operate on snapshots, never on live store state.
func (s *Store) Snapshot() []domain.BeliefNode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.BeliefNode, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id].Clone())
	}
	return out
}

// Len returns the number of nodes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}
