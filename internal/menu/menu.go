package menu

import (
	"errors"
	"math"
	"sort"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("menu item not found")
	ErrDuplicateID = errors.New("menu item id already exists")
)

// MenuItem is one orderable entry of the menu. Optional presentation flags are
// pointers so an absent flag survives a JSON round trip as absent.
type MenuItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Category     string    `json:"category"`
	Image        *string   `json:"image,omitempty"`
	IsVegetarian *bool     `json:"isVegetarian,omitempty"`
	IsSpicy      *bool     `json:"isSpicy,omitempty"`
	IsBestSeller *bool     `json:"isBestSeller,omitempty"`
	IsAvailable  *bool     `json:"isAvailable,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Available treats a missing availability flag as available.
func (m MenuItem) Available() bool {
	return m.IsAvailable == nil || *m.IsAvailable
}

func flag(b *bool) bool { return b != nil && *b }

// Filter narrows List results. Nil fields do not filter.
type Filter struct {
	Category   string
	Available  *bool
	Vegetarian *bool
	Spicy      *bool
	BestSeller *bool
	Limit      int
}

// Match reports whether the item passes every set criterion.
func (f Filter) Match(m MenuItem) bool {
	if f.Category != "" && !strings.EqualFold(m.Category, f.Category) {
		return false
	}
	if f.Available != nil && m.Available() != *f.Available {
		return false
	}
	if f.Vegetarian != nil && flag(m.IsVegetarian) != *f.Vegetarian {
		return false
	}
	if f.Spicy != nil && flag(m.IsSpicy) != *f.Spicy {
		return false
	}
	if f.BestSeller != nil && flag(m.IsBestSeller) != *f.BestSeller {
		return false
	}
	return true
}

// sortItems orders by category then name ignoring case, then by id. The
// Postgres listing uses the same order through LOWER(...) COLLATE "C".
func sortItems(items []MenuItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if ca, cb := strings.ToLower(a.Category), strings.ToLower(b.Category); ca != cb {
			return ca < cb
		}
		if na, nb := strings.ToLower(a.Name), strings.ToLower(b.Name); na != nb {
			return na < nb
		}
		return a.ID < b.ID
	})
}

// ValidationError maps JSON field names to messages.
type ValidationError map[string]string

func (v ValidationError) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return "invalid menu item: " + strings.Join(parts, "; ")
}

// Validate returns every problem with the payload at once, or nil.
func Validate(m MenuItem) error {
	errs := ValidationError{}
	if strings.TrimSpace(m.Name) == "" {
		errs["name"] = "name is required"
	}
	if strings.TrimSpace(m.Description) == "" {
		errs["description"] = "description is required"
	}
	if strings.TrimSpace(m.Category) == "" {
		errs["category"] = "category is required"
	}
	if math.IsNaN(m.Price) || math.IsInf(m.Price, 0) || m.Price < 0 {
		errs["price"] = "price must be a number >= 0"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
