package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/psyche-works/psyche/internal/belief"
	"github.com/psyche-works/psyche/internal/domain"
)

const tensionWindowDays = 30

// ReviewService assembles the periodic self-review: which voices dominate
// the debates, how fast beliefs are being revised, and how coherent the
// network currently is.
type ReviewService struct {
	engine  *belief.Store
	tracker *belief.Tracker
	debates domain.DebateRepository
	memory  *MemoryService
	logger  *zap.Logger
}

func NewReviewService(engine *belief.Store, tracker *belief.Tracker, debates domain.DebateRepository, memory *MemoryService, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		engine:  engine,
		tracker: tracker,
		debates: debates,
		memory:  memory,
		logger:  logger,
	}
}

// Report is one self-review snapshot.
type Report struct {
	BeliefCount     int                    `json:"belief_count"`
	CoherenceScore  float64                `json:"coherence_score"`
	DomainBalance   float64                `json:"domain_balance"`
	AverageWeight   float64                `json:"average_weight"`
	TotalRevisions  int                    `json:"total_revisions"`
	Health          []string               `json:"health"`
	Volatile        []domain.BeliefNode    `json:"volatile"`
	Stable          []domain.BeliefNode    `json:"stable"`
	Oscillating     []domain.BeliefNode    `json:"oscillating"`
	RoleDominance   map[domain.Role]float64 `json:"role_dominance"`
	RevisionRate    float64                `json:"revision_rate"`
	TensionRate     float64                `json:"tension_rate"`
	OpenTensions    int                    `json:"open_tensions"`
}

// SelfReview gathers the report from the engine, the tracker, the debate
// archive and the insight log.
func (s *ReviewService) SelfReview(ctx context.Context) (*Report, error) {
	snapshot := s.engine.Snapshot()

	report := &Report{
		BeliefCount:    len(snapshot),
		CoherenceScore: belief.CoherenceScore(snapshot),
		DomainBalance:  belief.DomainBalance(snapshot),
		AverageWeight:  belief.AverageWeight(snapshot),
		TotalRevisions: belief.TotalRevisions(snapshot),
		Health:         belief.HealthCheck(snapshot),
		Volatile:       belief.VolatileBeliefs(snapshot, belief.DefaultRankSize),
		Stable:         belief.StableBeliefs(snapshot, belief.DefaultRankSize),
		Oscillating:    belief.OscillatingBeliefs(snapshot),
		TensionRate:    s.tracker.IncidentRate(tensionWindowDays),
		OpenTensions:   len(s.tracker.Unresolved()),
	}

	dominance, err := s.roleDominance(ctx)
	if err != nil {
		return nil, err
	}
	report.RoleDominance = dominance

	rate, err := s.memory.RevisionRate(ctx)
	if err != nil {
		return nil, err
	}
	report.RevisionRate = rate

	s.logger.Info("self-review generated",
		zap.Float64("coherence", report.CoherenceScore),
		zap.Float64("revision_rate", report.RevisionRate),
		zap.Int("open_tensions", report.OpenTensions))

	return report, nil
}

// roleDominance turns the stored win counts into per-role ratios. Every role
// appears in the map even at zero wins, so consumers see all four voices.
func (s *ReviewService) roleDominance(ctx context.Context) (map[domain.Role]float64, error) {
	counts, err := s.debates.CountByWinnerRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("count debates by winner: %w", err)
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	dominance := make(map[domain.Role]float64, len(domain.Roles))
	for _, role := range domain.Roles {
		if total == 0 {
			dominance[role] = 0
			continue
		}
		dominance[role] = float64(counts[role]) / float64(total)
	}
	return dominance, nil
}
