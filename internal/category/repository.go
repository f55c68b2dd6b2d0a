package category

import (
	"context"
	"strings"
	"sync"
)

// Repository provides access to category rows.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id string) (Category, error)
	Create(ctx context.Context, c Category) (Category, error)
	Update(ctx context.Context, id string, c Category) (Category, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository keeps categories in a map; names are unique ignoring case.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[string]Category
}

var _ Repository = (*InMemoryRepository)(nil)

func NewInMemoryRepository(seed []Category) *InMemoryRepository {
	r := &InMemoryRepository{items: make(map[string]Category, len(seed))}
	for _, c := range seed {
		r.items[c.ID] = c.clone()
	}
	return r
}

func (r *InMemoryRepository) List(_ context.Context) ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Category, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c.clone())
	}
	sortByName(out)
	return out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return Category{}, ErrNotFound
	}
	return c.clone(), nil
}

// nameTaken must be called with the lock held.
func (r *InMemoryRepository) nameTaken(name, exceptID string) bool {
	for id, c := range r.items {
		if id != exceptID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (r *InMemoryRepository) Create(_ context.Context, c Category) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[c.ID]; exists {
		return Category{}, ErrDuplicateID
	}
	if r.nameTaken(c.Name, "") {
		return Category{}, ErrDuplicateName
	}
	r.items[c.ID] = c.clone()
	return c, nil
}

func (r *InMemoryRepository) Update(_ context.Context, id string, c Category) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return Category{}, ErrNotFound
	}
	if r.nameTaken(c.Name, id) {
		return Category{}, ErrDuplicateName
	}
	c.ID = id
	r.items[id] = c.clone()
	return c, nil
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
