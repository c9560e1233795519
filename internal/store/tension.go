package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/psyche-works/psyche/internal/domain"
)

// TensionStore persists tension records as whole-row upserts keyed by id.
type TensionStore struct {
	db *pgxpool.Pool
}

func NewTensionStore(db *pgxpool.Pool) *TensionStore {
	return &TensionStore{db: db}
}

func (s *TensionStore) Save(ctx context.Context, t domain.TensionRecord) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO tensions (id, stance1, stance2, description, encounter_count, resolved, resolution_reasoning, resolved_at, first_encountered, last_encountered)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
		   encounter_count = EXCLUDED.encounter_count,
		   resolved = EXCLUDED.resolved,
		   resolution_reasoning = EXCLUDED.resolution_reasoning,
		   resolved_at = EXCLUDED.resolved_at,
		   last_encountered = EXCLUDED.last_encountered`,
		t.ID, t.Stance1, t.Stance2, t.Description, t.EncounterCount, t.Resolved, t.ResolutionReasoning, t.ResolvedAt, t.FirstEncountered, t.LastEncountered,
	)
	return err
}

func (s *TensionStore) LoadAll(ctx context.Context) ([]domain.TensionRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, stance1, stance2, description, encounter_count, resolved, COALESCE(resolution_reasoning, ''), resolved_at, first_encountered, last_encountered
		 FROM tensions ORDER BY first_encountered ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.TensionRecord
	for rows.Next() {
		var t domain.TensionRecord
		if err := rows.Scan(&t.ID, &t.Stance1, &t.Stance2, &t.Description, &t.EncounterCount, &t.Resolved, &t.ResolutionReasoning, &t.ResolvedAt, &t.FirstEncountered, &t.LastEncountered); err != nil {
			return nil, err
		}
		records = append(records, t)
	}
	return records, rows.Err()
}
