package menu

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo     Repository
	now      func() time.Time
	onChange []func()
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// OnChange registers a hook run after every successful write.
func (s *Service) OnChange(fn func()) {
	s.onChange = append(s.onChange, fn)
}

func (s *Service) changed() {
	for _, fn := range s.onChange {
		fn()
	}
}

func (s *Service) List(ctx context.Context, f Filter) ([]MenuItem, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) GetByID(ctx context.Context, id string) (MenuItem, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates the item, assigns a UUID when no id is given and stamps
// both timestamps.
func (s *Service) Create(ctx context.Context, m MenuItem) (MenuItem, error) {
	if err := Validate(m); err != nil {
		return MenuItem{}, err
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := s.now()
	m.CreatedAt = now
	m.UpdatedAt = now
	created, err := s.repo.Create(ctx, m)
	if err != nil {
		return MenuItem{}, err
	}
	s.changed()
	return created, nil
}

// Update replaces the stored item, keeping its creation time.
func (s *Service) Update(ctx context.Context, id string, m MenuItem) (MenuItem, error) {
	if err := Validate(m); err != nil {
		return MenuItem{}, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return MenuItem{}, err
	}
	m.ID = id
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = s.now()
	updated, err := s.repo.Update(ctx, id, m)
	if err != nil {
		return MenuItem{}, err
	}
	s.changed()
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.changed()
	return nil
}

func (s *Service) SetAvailability(ctx context.Context, ids []string, available bool) (int, error) {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return 0, nil
	}
	n, err := s.repo.SetAvailability(ctx, unique, available, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.changed()
	}
	return n, nil
}

// BestSellers lists available items flagged as best sellers.
func (s *Service) BestSellers(ctx context.Context, limit int) ([]MenuItem, error) {
	yes := true
	return s.repo.List(ctx, Filter{Available: &yes, BestSeller: &yes, Limit: limit})
}

func (s *Service) CountByCategory(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByCategory(ctx)
}
