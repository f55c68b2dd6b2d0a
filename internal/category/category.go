package category

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("category not found")
	ErrDuplicateName = errors.New("category name already exists")
	ErrDuplicateID   = errors.New("category id already exists")
	ErrNameRequired  = errors.New("name is required")
)

// Category groups menu items under a display name. Count is the number of
// menu items filed under Name; IsActive is optional and omitted when unset.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// Active treats a missing flag as active.
func (c Category) Active() bool {
	return c.IsActive == nil || *c.IsActive
}

func normalizeName(name string) string {
	return strings.TrimSpace(name)
}

func (c Category) clone() Category {
	if c.IsActive != nil {
		v := *c.IsActive
		c.IsActive = &v
	}
	return c
}

// FromNames builds active categories with fresh ids, used to seed a store.
func FromNames(names []string) []Category {
	out := make([]Category, 0, len(names))
	for _, name := range names {
		active := true
		out = append(out, Category{ID: uuid.NewString(), Name: name, IsActive: &active})
	}
	return out
}

// sortByName orders case-insensitively, then by id, matching the Postgres
// listing.
func sortByName(items []Category) {
	sort.Slice(items, func(i, j int) bool {
		a, b := strings.ToLower(items[i].Name), strings.ToLower(items[j].Name)
		if a != b {
			return a < b
		}
		return items[i].ID < items[j].ID
	})
}
