package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/psyche-works/psyche/internal/domain"
)

// MemoryStore persists the insight log with an optional embedding column
// for vector recall.
type MemoryStore struct {
	db *pgxpool.Pool
}

func NewMemoryStore(db *pgxpool.Pool) *MemoryStore {
	return &MemoryStore{db: db}
}

func (s *MemoryStore) Create(ctx context.Context, m *domain.MemoryEntry) error {
	var embedding *pgvector.Vector
	if len(m.Embedding) > 0 {
		v := pgvector.NewVector(m.Embedding)
		embedding = &v
	}

	stances, err := json.Marshal(m.RelatedStances)
	if err != nil {
		return fmt.Errorf("marshal related stances: %w", err)
	}

	return s.db.QueryRow(ctx,
		`INSERT INTO memories (category, content, related_stances, embedding)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		string(m.Category), m.Content, stances, embedding,
	).Scan(&m.ID, &m.CreatedAt)
}

func (s *MemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.MemoryEntry, error) {
	m := &domain.MemoryEntry{}
	var category string
	var stances []byte
	err := s.db.QueryRow(ctx,
		`SELECT id, category, content, related_stances, created_at FROM memories WHERE id = $1`,
		id,
	).Scan(&m.ID, &category, &m.Content, &stances, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	m.Category = domain.MemoryCategory(category)
	if err := json.Unmarshal(stances, &m.RelatedStances); err != nil {
		return nil, fmt.Errorf("unmarshal related stances: %w", err)
	}
	return m, nil
}

func (s *MemoryStore) ListRecent(ctx context.Context, limit int) ([]domain.MemoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(ctx,
		`SELECT id, category, content, related_stances, created_at
		 FROM memories ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMemories(rows)
}

// Recall runs cosine-similarity search over the embedding column.
func (s *MemoryStore) Recall(ctx context.Context, embedding []float32, opts domain.RecallOpts) ([]domain.MemoryWithScore, error) {
	if opts.TopK <= 0 {
		opts.TopK = 10
	}

	vec := pgvector.NewVector(embedding)

	query := `SELECT id, category, content, related_stances, created_at, 1 - (embedding <=> $1) AS score
		 FROM memories WHERE embedding IS NOT NULL`
	args := []any{vec}

	if opts.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", len(args)+1)
		args = append(args, string(*opts.Category))
	}

	query += fmt.Sprintf(" ORDER BY embedding <=> $1 LIMIT $%d", len(args)+1)
	args = append(args, opts.TopK)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.MemoryWithScore
	for rows.Next() {
		var m domain.MemoryWithScore
		var category string
		var stances []byte
		if err := rows.Scan(&m.ID, &category, &m.Content, &stances, &m.CreatedAt, &m.Score); err != nil {
			return nil, err
		}
		m.Category = domain.MemoryCategory(category)
		if err := json.Unmarshal(stances, &m.RelatedStances); err != nil {
			return nil, fmt.Errorf("unmarshal related stances: %w", err)
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

func (s *MemoryStore) CountByCategory(ctx context.Context) (map[domain.MemoryCategory]int, error) {
	rows, err := s.db.Query(ctx, `SELECT category, COUNT(*) FROM memories GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.MemoryCategory]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		counts[domain.MemoryCategory(category)] = count
	}
	return counts, rows.Err()
}

func scanMemories(rows pgx.Rows) ([]domain.MemoryEntry, error) {
	var entries []domain.MemoryEntry
	for rows.Next() {
		var m domain.MemoryEntry
		var category string
		var stances []byte
		if err := rows.Scan(&m.ID, &category, &m.Content, &stances, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Category = domain.MemoryCategory(category)
		if err := json.Unmarshal(stances, &m.RelatedStances); err != nil {
			return nil, fmt.Errorf("unmarshal related stances: %w", err)
		}
		entries = append(entries, m)
	}
	return entries, rows.Err()
}
