package category

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const listCacheKey = "categories:list"

// ItemCounter reports how many menu items are filed under each category name.
type ItemCounter interface {
	CountByCategory(ctx context.Context) (map[string]int, error)
}

// Service provides business logic for categories. When a counter is set,
// Count is derived from the menu instead of the stored value.
type Service struct {
	repo    Repository
	counter ItemCounter
	cache   *cache.Cache
}

func NewService(r Repository, counter ItemCounter, ttl time.Duration) *Service {
	return &Service{repo: r, counter: counter, cache: cache.New(ttl, 2*ttl)}
}

// List returns every category with its item count. Results are cached until
// the TTL expires or a category write happens.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	if v, ok := s.cache.Get(listCacheKey); ok {
		return cloneAll(v.([]Category)), nil
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.applyCounts(ctx, items); err != nil {
		return nil, err
	}

	s.cache.SetDefault(listCacheKey, cloneAll(items))
	return items, nil
}

// cloneAll copies the slice and every IsActive pointer, so callers never
// share memory with the cache.
func cloneAll(items []Category) []Category {
	out := make([]Category, len(items))
	for i, c := range items {
		out[i] = c.clone()
	}
	return out
}

func (s *Service) GetByID(ctx context.Context, id string) (Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Category{}, err
	}
	one := []Category{c}
	if err := s.applyCounts(ctx, one); err != nil {
		return Category{}, err
	}
	return one[0], nil
}

func (s *Service) Create(ctx context.Context, c Category) (Category, error) {
	c.Name = normalizeName(c.Name)
	if c.Name == "" {
		return Category{}, ErrNameRequired
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return Category{}, err
	}
	s.Invalidate()
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, c Category) (Category, error) {
	c.Name = normalizeName(c.Name)
	if c.Name == "" {
		return Category{}, ErrNameRequired
	}
	updated, err := s.repo.Update(ctx, id, c)
	if err != nil {
		return Category{}, err
	}
	s.Invalidate()
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

// Invalidate drops the cached list.
func (s *Service) Invalidate() {
	s.cache.Delete(listCacheKey)
}

func (s *Service) applyCounts(ctx context.Context, items []Category) error {
	if s.counter == nil {
		return nil
	}
	counts, err := s.counter.CountByCategory(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string]int, len(counts))
	for name, n := range counts {
		byName[strings.ToLower(name)] += n
	}
	for i := range items {
		items[i].Count = byName[strings.ToLower(items[i].Name)]
	}
	return nil
}
