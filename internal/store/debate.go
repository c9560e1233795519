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

// DebateStore persists congress transcripts.
type DebateStore struct {
	db *pgxpool.Pool
}

func NewDebateStore(db *pgxpool.Pool) *DebateStore {
	return &DebateStore{db: db}
}

func (s *DebateStore) Create(ctx context.Context, d *domain.DebateRecord) error {
	statements, err := json.Marshal(d.Statements)
	if err != nil {
		return fmt.Errorf("marshal statements: %w", err)
	}

	return s.db.QueryRow(ctx,
		`INSERT INTO debates (user_message, statements, synthesis, winner_role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		d.UserMessage, statements, d.Synthesis, string(d.WinnerRole),
	).Scan(&d.ID, &d.CreatedAt)
}

func (s *DebateStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.DebateRecord, error) {
	d := &domain.DebateRecord{}
	var statements []byte
	var winner string
	err := s.db.QueryRow(ctx,
		`SELECT id, user_message, statements, synthesis, winner_role, created_at FROM debates WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.UserMessage, &statements, &d.Synthesis, &winner, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	d.WinnerRole = domain.Role(winner)
	if err := json.Unmarshal(statements, &d.Statements); err != nil {
		return nil, fmt.Errorf("unmarshal statements: %w", err)
	}
	return d, nil
}

func (s *DebateStore) ListRecent(ctx context.Context, limit int) ([]domain.DebateRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(ctx,
		`SELECT id, user_message, statements, synthesis, winner_role, created_at
		 FROM debates ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debates []domain.DebateRecord
	for rows.Next() {
		var d domain.DebateRecord
		var statements []byte
		var winner string
		if err := rows.Scan(&d.ID, &d.UserMessage, &statements, &d.Synthesis, &winner, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.WinnerRole = domain.Role(winner)
		if err := json.Unmarshal(statements, &d.Statements); err != nil {
			return nil, fmt.Errorf("unmarshal statements: %w", err)
		}
		debates = append(debates, d)
	}
	return debates, rows.Err()
}

func (s *DebateStore) CountByWinnerRole(ctx context.Context) (map[domain.Role]int, error) {
	rows, err := s.db.Query(ctx,
		`SELECT winner_role, COUNT(*) FROM debates WHERE winner_role <> '' GROUP BY winner_role`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Role]int)
	for rows.Next() {
		var role string
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, err
		}
		counts[domain.Role(role)] = count
	}
	return counts, rows.Err()
}
