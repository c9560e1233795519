package belief

import (
	"strings"

	"go.uber.org/zap"

	"github.com/psyche-works/psyche/internal/domain"
)

// Applier translates a batch of externally-sourced update proposals into
// safe store mutations. Proposals come from an LLM, so unknown stances are
// expected: they are skipped and reported, never errors, and one bad item
// cannot abort the batch.
type Applier struct {
	store  *Store
	logger *zap.Logger
}

// NewApplier creates an applier over the given store.
func NewApplier(store *Store, logger *zap.Logger) *Applier {
	return &Applier{store: store, logger: logger}
}

// Apply runs the batch strictly in input order with no rollback. Each
// accepted update goes through SetWeight, so it produces exactly one
// revision and can never violate the weight bound. The result carries the
// applied nodes, the skipped stance names, and the post-batch coherence
// score so callers can observe the batch-level effect.
func (a *Applier) Apply(updates []domain.BeliefUpdate) domain.ApplyResult {
	result := domain.ApplyResult{
		Applied: []domain.BeliefNode{},
		Skipped: []string{},
	}

	for _, u := range updates {
		node, err := a.store.GetByStance(u.Stance)
		if err != nil {
			result.Skipped = append(result.Skipped, u.Stance)
			a.logger.Debug("skipping update for unknown stance", zap.String("stance", u.Stance))
			continue
		}

		if strings.TrimSpace(u.Reason) == "" {
			result.Skipped = append(result.Skipped, u.Stance)
			a.logger.Debug("skipping update without reason", zap.String("stance", u.Stance))
			continue
		}

		target := a.targetWeight(node, u)
		updated, err := a.store.SetWeight(node.ID, target, u.Reason)
		if err != nil {
			// Unreachable unless the node vanished mid-batch; keep
			// per-item isolation either way.
			result.Skipped = append(result.Skipped, u.Stance)
			a.logger.Warn("update failed", zap.String("stance", u.Stance), zap.Error(err))
			continue
		}
		result.Applied = append(result.Applied, updated)
	}

	result.CoherenceScore = CoherenceScore(a.store.Snapshot())
	return result
}

// targetWeight picks the explicit target when supplied, otherwise derives a
// one-step delta from the revision type. Challenge and revise stay put.
func (a *Applier) targetWeight(node domain.BeliefNode, u domain.BeliefUpdate) int {
	if u.TargetWeight != nil {
		return *u.TargetWeight
	}
	switch u.RevisionType {
	case domain.RevisionStrengthen:
		return node.Weight + 1
	case domain.RevisionWeaken:
		return node.Weight - 1
	default:
		return node.Weight
	}
}
