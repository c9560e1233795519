package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/psyche-works/psyche/internal/domain"
)

// BeliefStore is the durable shadow of the in-memory belief engine.
// Rows are whole-node upserts keyed by id; the engine, not the database,
// enforces belief semantics.
type BeliefStore struct {
	db *pgxpool.Pool
}

func NewBeliefStore(db *pgxpool.Pool) *BeliefStore {
	return &BeliefStore{db: db}
}

func (s *BeliefStore) Save(ctx context.Context, n domain.BeliefNode) error {
	history, err := json.Marshal(n.RevisionHistory)
	if err != nil {
		return fmt.Errorf("marshal revision history: %w", err)
	}
	connections, err := json.Marshal(n.ConnectionIDs)
	if err != nil {
		return fmt.Errorf("marshal connections: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO beliefs (id, stance, domain, weight, reasoning, is_core, revision_history, connection_ids, last_updated, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
		   stance = EXCLUDED.stance,
		   domain = EXCLUDED.domain,
		   weight = EXCLUDED.weight,
		   reasoning = EXCLUDED.reasoning,
		   revision_history = EXCLUDED.revision_history,
		   connection_ids = EXCLUDED.connection_ids,
		   last_updated = EXCLUDED.last_updated`,
		n.ID, n.Stance, string(n.Domain), n.Weight, n.Reasoning, n.IsCore, history, connections, n.LastUpdated, n.CreatedAt,
	)
	return err
}

func (s *BeliefStore) LoadAll(ctx context.Context) ([]domain.BeliefNode, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, stance, domain, weight, reasoning, is_core, revision_history, connection_ids, last_updated, created_at
		 FROM beliefs ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []domain.BeliefNode
	for rows.Next() {
		var n domain.BeliefNode
		var dom string
		var history, connections []byte
		if err := rows.Scan(&n.ID, &n.Stance, &dom, &n.Weight, &n.Reasoning, &n.IsCore, &history, &connections, &n.LastUpdated, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Domain = domain.BeliefDomain(dom)
		if err := json.Unmarshal(history, &n.RevisionHistory); err != nil {
			return nil, fmt.Errorf("unmarshal revision history for %s: %w", n.ID, err)
		}
		if err := json.Unmarshal(connections, &n.ConnectionIDs); err != nil {
			return nil, fmt.Errorf("unmarshal connections for %s: %w", n.ID, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// GetByID is used by diagnostics; the engine serves normal reads.
func (s *BeliefStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.BeliefNode, error) {
	n := &domain.BeliefNode{}
	var dom string
	var history, connections []byte
	err := s.db.QueryRow(ctx,
		`SELECT id, stance, domain, weight, reasoning, is_core, revision_history, connection_ids, last_updated, created_at
		 FROM beliefs WHERE id = $1`,
		id,
	).Scan(&n.ID, &n.Stance, &dom, &n.Weight, &n.Reasoning, &n.IsCore, &history, &connections, &n.LastUpdated, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	n.Domain = domain.BeliefDomain(dom)
	if err := json.Unmarshal(history, &n.RevisionHistory); err != nil {
		return nil, fmt.Errorf("unmarshal revision history for %s: %w", n.ID, err)
	}
	if err := json.Unmarshal(connections, &n.ConnectionIDs); err != nil {
		return nil, fmt.Errorf("unmarshal connections for %s: %w", n.ID, err)
	}
	return n, nil
}
