package bank

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/brightmark/brightmark-core/internal/question"
)

type memoryStore struct {
	mu  sync.RWMutex
	raw map[string]map[string]any
}

// NewInMemoryStore is the store used by tests and by authoring previews.
func NewInMemoryStore() Store {
	return &memoryStore{raw: map[string]map[string]any{}}
}

func (m *memoryStore) Put(_ context.Context, raw map[string]any) (question.Question, error) {
	if raw == nil {
		raw = map[string]any{}
	}
	q := question.Normalize(raw)
	if q.ID == "" {
		q.ID = uuid.NewString()
		raw["id"] = q.ID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw[q.ID] = raw
	return q, nil
}

func (m *memoryStore) Get(_ context.Context, id string) (question.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.raw[id]
	if !ok {
		return question.Question{}, ErrNotFound
	}
	return question.Normalize(raw), nil
}

func (m *memoryStore) List(_ context.Context, subject string, limit, offset int) ([]question.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []question.Question
	for _, raw := range m.raw {
		q := question.Normalize(raw)
		if subject != "" && q.Subject != subject {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.raw[id]; !ok {
		return ErrNotFound
	}
	delete(m.raw, id)
	return nil
}
