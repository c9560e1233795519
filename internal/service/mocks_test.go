package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/psyche-works/psyche/internal/domain"
	"github.com/psyche-works/psyche/internal/store"
)

// In-memory repository mocks with call recording.

type mockMemoryRepo struct {
	entries   []domain.MemoryEntry
	createErr error
	recallErr error
	countErr  error

	recallCalls []domain.RecallOpts
}

func (m *mockMemoryRepo) Create(_ context.Context, e *domain.MemoryEntry) error {
	if m.createErr != nil {
		return m.createErr
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	m.entries = append(m.entries, *e)
	return nil
}

func (m *mockMemoryRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.MemoryEntry, error) {
	for i := range m.entries {
		if m.entries[i].ID == id {
			cp := m.entries[i]
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockMemoryRepo) ListRecent(_ context.Context, limit int) ([]domain.MemoryEntry, error) {
	out := make([]domain.MemoryEntry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

func (m *mockMemoryRepo) Recall(_ context.Context, _ []float32, opts domain.RecallOpts) ([]domain.MemoryWithScore, error) {
	m.recallCalls = append(m.recallCalls, opts)
	if m.recallErr != nil {
		return nil, m.recallErr
	}
	var out []domain.MemoryWithScore
	for _, e := range m.entries {
		if opts.Category != nil && e.Category != *opts.Category {
			continue
		}
		out = append(out, domain.MemoryWithScore{MemoryEntry: e, Score: 0.9})
		if len(out) == opts.TopK {
			break
		}
	}
	return out, nil
}

func (m *mockMemoryRepo) CountByCategory(_ context.Context) (map[domain.MemoryCategory]int, error) {
	if m.countErr != nil {
		return nil, m.countErr
	}
	counts := make(map[domain.MemoryCategory]int)
	for _, e := range m.entries {
		counts[e.Category]++
	}
	return counts, nil
}

type mockTensionRepo struct {
	saved   []domain.TensionRecord
	saveErr error
}

func (m *mockTensionRepo) Save(_ context.Context, t domain.TensionRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, t)
	return nil
}

func (m *mockTensionRepo) LoadAll(_ context.Context) ([]domain.TensionRecord, error) {
	return m.saved, nil
}

type mockDebateRepo struct {
	debates   []domain.DebateRecord
	createErr error
}

func (m *mockDebateRepo) Create(_ context.Context, d *domain.DebateRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	m.debates = append(m.debates, *d)
	return nil
}

func (m *mockDebateRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.DebateRecord, error) {
	for i := range m.debates {
		if m.debates[i].ID == id {
			cp := m.debates[i]
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockDebateRepo) ListRecent(_ context.Context, limit int) ([]domain.DebateRecord, error) {
	out := make([]domain.DebateRecord, 0, limit)
	for i := len(m.debates) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.debates[i])
	}
	return out, nil
}

func (m *mockDebateRepo) CountByWinnerRole(_ context.Context) (map[domain.Role]int, error) {
	counts := make(map[domain.Role]int)
	for _, d := range m.debates {
		if d.WinnerRole != "" {
			counts[d.WinnerRole]++
		}
	}
	return counts, nil
}
