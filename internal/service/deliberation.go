package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/psyche-works/psyche/internal/belief"
	"github.com/psyche-works/psyche/internal/domain"
)

// DeliberationService runs one conversational turn end to end: render the
// belief context, let the congress deliberate, apply the proposed updates to
// the engine, track tensions, and persist the transcript and any insight.
type DeliberationService struct {
	engine   *belief.Store
	applier  *belief.Applier
	tracker  *belief.Tracker
	tensions domain.TensionRepository
	debates  domain.DebateRepository
	memory   *MemoryService
	llm      domain.LLMClient
	logger   *zap.Logger
}

func NewDeliberationService(
	engine *belief.Store,
	tracker *belief.Tracker,
	tensions domain.TensionRepository,
	debates domain.DebateRepository,
	memory *MemoryService,
	llm domain.LLMClient,
	logger *zap.Logger,
) *DeliberationService {
	return &DeliberationService{
		engine:   engine,
		applier:  belief.NewApplier(engine, logger),
		tracker:  tracker,
		tensions: tensions,
		debates:  debates,
		memory:   memory,
		llm:      llm,
		logger:   logger,
	}
}

// TurnResult is everything one deliberated turn produced.
type TurnResult struct {
	DebateID       uuid.UUID                `json:"debate_id"`
	Statements     []domain.RoleStatement   `json:"statements"`
	Synthesis      string                   `json:"synthesis"`
	WinnerRole     domain.Role              `json:"winner_role,omitempty"`
	Applied        []domain.BeliefNode      `json:"applied"`
	Skipped        []string                 `json:"skipped"`
	CoherenceScore float64                  `json:"coherence_score"`
	Tensions       []domain.TensionRecord   `json:"tensions,omitempty"`
	Insight        string                   `json:"insight,omitempty"`
}

// HandleTurn deliberates a user message. The engine mutations are the
// authoritative outcome; persistence of transcript, tensions and memories is
// best-effort and logged, so a storage hiccup never loses the turn.
func (s *DeliberationService) HandleTurn(ctx context.Context, userMessage string) (*TurnResult, error) {
	if strings.TrimSpace(userMessage) == "" {
		return nil, fmt.Errorf("%w: message is required", belief.ErrValidation)
	}

	beliefContext := renderBeliefContext(s.engine.Snapshot(), s.tracker.Unresolved())

	deliberation, err := s.llm.Deliberate(ctx, userMessage, beliefContext)
	if err != nil {
		return nil, fmt.Errorf("deliberate: %w", err)
	}

	applied := s.applier.Apply(deliberation.Updates)

	result := &TurnResult{
		Statements:     deliberation.Statements,
		Synthesis:      deliberation.Synthesis,
		WinnerRole:     deliberation.WinnerRole,
		Applied:        applied.Applied,
		Skipped:        applied.Skipped,
		CoherenceScore: applied.CoherenceScore,
		Insight:        deliberation.Insight,
	}

	for _, proposal := range deliberation.Tensions {
		record, err := s.tracker.FindOrCreate(proposal.Belief1, proposal.Belief2, proposal.Description)
		if err != nil {
			s.logger.Warn("rejected tension proposal",
				zap.String("belief1", proposal.Belief1),
				zap.String("belief2", proposal.Belief2),
				zap.Error(err))
			continue
		}
		result.Tensions = append(result.Tensions, record)
		if err := s.tensions.Save(ctx, record); err != nil {
			s.logger.Error("persist tension failed", zap.String("id", record.ID.String()), zap.Error(err))
		}
	}

	record := &domain.DebateRecord{
		UserMessage: userMessage,
		Statements:  deliberation.Statements,
		Synthesis:   deliberation.Synthesis,
		WinnerRole:  deliberation.WinnerRole,
	}
	if err := s.debates.Create(ctx, record); err != nil {
		s.logger.Error("persist debate failed", zap.Error(err))
	}
	result.DebateID = record.ID

	s.recordTurnMemories(ctx, deliberation, applied, result.Tensions)

	s.logger.Info("turn deliberated",
		zap.String("debate_id", record.ID.String()),
		zap.String("winner_role", string(deliberation.WinnerRole)),
		zap.Int("applied", len(applied.Applied)),
		zap.Int("skipped", len(applied.Skipped)),
		zap.Float64("coherence", applied.CoherenceScore))

	return result, nil
}

// recordTurnMemories appends the turn's byproducts to the insight log.
func (s *DeliberationService) recordTurnMemories(ctx context.Context, d *domain.Deliberation, applied domain.ApplyResult, tensions []domain.TensionRecord) {
	if strings.TrimSpace(d.Insight) != "" {
		if _, err := s.memory.Record(ctx, domain.CategoryInsight, d.Insight, nil); err != nil {
			s.logger.Error("record insight failed", zap.Error(err))
		}
	}

	if len(applied.Applied) > 0 {
		stances := make([]string, 0, len(applied.Applied))
		parts := make([]string, 0, len(applied.Applied))
		for _, node := range applied.Applied {
			stances = append(stances, node.Stance)
			parts = append(parts, fmt.Sprintf("%s now at weight %d", node.Stance, node.Weight))
		}
		content := "Belief shift: " + strings.Join(parts, "; ")
		if _, err := s.memory.Record(ctx, domain.CategoryBeliefShift, content, stances); err != nil {
			s.logger.Error("record belief shift failed", zap.Error(err))
		}
	}

	for _, t := range tensions {
		if t.EncounterCount != 1 {
			continue
		}
		content := fmt.Sprintf("Tension between %q and %q: %s", t.Stance1, t.Stance2, t.Description)
		if _, err := s.memory.Record(ctx, domain.CategoryTension, content, []string{t.Stance1, t.Stance2}); err != nil {
			s.logger.Error("record tension memory failed", zap.Error(err))
		}
	}
}

// renderBeliefContext formats the snapshot and open tensions for the prompt.
func renderBeliefContext(nodes []domain.BeliefNode, unresolved []domain.TensionRecord) string {
	var sb strings.Builder
	for _, n := range nodes {
		kind := "learned"
		if n.IsCore {
			kind = "core"
		}
		fmt.Fprintf(&sb, "- %q (%s, weight %d, %s): %s\n", n.Stance, n.Domain, n.Weight, kind, n.Reasoning)
	}
	if len(nodes) == 0 {
		sb.WriteString("(no beliefs yet)\n")
	}

	if len(unresolved) > 0 {
		sb.WriteString("\nOpen tensions:\n")
		for _, t := range unresolved {
			fmt.Fprintf(&sb, "- %q vs %q: %s (seen %d times)\n", t.Stance1, t.Stance2, t.Description, t.EncounterCount)
		}
	}
	return sb.String()
}
