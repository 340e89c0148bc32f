package category

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FallbackName is the always-present category assigned when nothing better fits.
const FallbackName = "Uncategorized"

// ErrNoFallback is returned when a registry read lacks the fallback entry.
var ErrNoFallback = errors.New("category registry has no " + FallbackName + " entry")

// ID identifies a category.
type ID int64

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Category is a registry entry.
type Category struct {
	ID   ID
	Name string
}

// Set is an immutable index over a registry read.
type Set struct {
	byID     map[ID]string
	byName   map[string]ID
	fallback ID
}

// NewSet indexes categories. Names are matched case-insensitively; on a name
// clash the lowest id wins so resolution does not depend on input order.
func NewSet(categories []Category) (*Set, error) {
	sorted := make([]Category, len(categories))
	copy(sorted, categories)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	s := &Set{
		byID:   make(map[ID]string, len(sorted)),
		byName: make(map[string]ID, len(sorted)),
	}

	for _, c := range sorted {
		s.byID[c.ID] = c.Name

		key := nameKey(c.Name)
		if _, ok := s.byName[key]; !ok {
			s.byName[key] = c.ID
		}
	}

	fallback, ok := s.byName[nameKey(FallbackName)]
	if !ok {
		return nil, ErrNoFallback
	}

	s.fallback = fallback

	return s, nil
}

// Fallback returns the id of the Uncategorized category.
func (s *Set) Fallback() ID {
	return s.fallback
}

// Name resolves id, falling back to FallbackName for unknown ids.
func (s *Set) Name(id ID) string {
	if name, ok := s.byID[id]; ok {
		return name
	}

	return FallbackName
}

// Has reports whether id is present.
func (s *Set) Has(id ID) bool {
	_, ok := s.byID[id]
	return ok
}

// Resolve maps a classifier label onto a category id. The label may be a
// numeric id or a category name.
func (s *Set) Resolve(label string) (ID, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0, false
	}

	if n, err := strconv.ParseInt(label, 10, 64); err == nil {
		if s.Has(ID(n)) {
			return ID(n), true
		}
	}

	id, ok := s.byName[nameKey(label)]

	return id, ok
}

// All returns the categories ordered by id.
func (s *Set) All() []Category {
	out := make([]Category, 0, len(s.byID))
	for id, name := range s.byID {
		out = append(out, Category{ID: id, Name: name})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

func (s *Set) String() string {
	return fmt.Sprintf("category.Set(%d entries, fallback=%d)", len(s.byID), s.fallback)
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
