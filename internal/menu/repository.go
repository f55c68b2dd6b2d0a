package menu

import (
	"context"
	"sync"
	"time"
)

type Repository interface {
	List(ctx context.Context, f Filter) ([]MenuItem, error)
	GetByID(ctx context.Context, id string) (MenuItem, error)
	Create(ctx context.Context, m MenuItem) (MenuItem, error)
	Update(ctx context.Context, id string, m MenuItem) (MenuItem, error)
	Delete(ctx context.Context, id string) error
	// SetAvailability flips the availability flag of every listed id and
	// returns how many items were touched. Unknown ids are skipped.
	SetAvailability(ctx context.Context, ids []string, available bool, at time.Time) (int, error)
	CountByCategory(ctx context.Context) (map[string]int, error)
}

// InMemoryRepository is a simple in-memory implementation useful for tests and
// for running without a database.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[string]MenuItem
}

var _ Repository = (*InMemoryRepository)(nil)

func NewInMemoryRepository(seed []MenuItem) *InMemoryRepository {
	r := &InMemoryRepository{items: make(map[string]MenuItem, len(seed))}
	for _, m := range seed {
		r.items[m.ID] = m
	}
	return r
}

func (r *InMemoryRepository) List(_ context.Context, f Filter) ([]MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]MenuItem, 0, len(r.items))
	for _, m := range r.items {
		if f.Match(m) {
			out = append(out, m)
		}
	}
	sortItems(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.items[id]
	if !ok {
		return MenuItem{}, ErrNotFound
	}
	return m, nil
}

func (r *InMemoryRepository) Create(_ context.Context, m MenuItem) (MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[m.ID]; exists {
		return MenuItem{}, ErrDuplicateID
	}
	r.items[m.ID] = m
	return m, nil
}

func (r *InMemoryRepository) Update(_ context.Context, id string, m MenuItem) (MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return MenuItem{}, ErrNotFound
	}
	m.ID = id
	r.items[id] = m
	return m, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *InMemoryRepository) SetAvailability(_ context.Context, ids []string, available bool, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	touched := 0
	for _, id := range ids {
		m, ok := r.items[id]
		if !ok {
			continue
		}
		v := available
		m.IsAvailable = &v
		m.UpdatedAt = at
		r.items[id] = m
		touched++
	}
	return touched, nil
}

func (r *InMemoryRepository) CountByCategory(_ context.Context) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int)
	for _, m := range r.items {
		counts[m.Category]++
	}
	return counts, nil
}
