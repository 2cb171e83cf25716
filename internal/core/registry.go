package core

import (
	"fmt"
	"sort"
	"strings"
)

// Registry holds the category schemas known to the engine.
// Build one at startup with NewRegistry and treat it as read-only afterwards.
type Registry struct {
	schemas map[string]*Schema
}

// NewRegistry creates a registry from the given schemas.
// Fails on a duplicate category id or a duplicate field key within a schema.
func NewRegistry(schemas ...Schema) (*Registry, error) {
	r := &Registry{schemas: make(map[string]*Schema, len(schemas))}
	for _, s := range schemas {
		if err := r.register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
// Intended for static catalogs built at init time.
func MustRegistry(schemas ...Schema) *Registry {
	r, err := NewRegistry(schemas...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) register(s Schema) error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("schema has empty category id")
	}
	if _, exists := r.schemas[s.ID]; exists {
		return fmt.Errorf("category already registered: %s", s.ID)
	}

	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Key == "" {
			return fmt.Errorf("category %s: field with empty key", s.ID)
		}
		if seen[f.Key] {
			return fmt.Errorf("category %s: duplicate field key %q", s.ID, f.Key)
		}
		if f.Type == FieldEnum && len(f.EnumValues) == 0 && f.Coerce == nil {
			return fmt.Errorf("category %s: enum field %q has no values", s.ID, f.Key)
		}
		seen[f.Key] = true
	}

	// Copy the field slice so callers can't mutate a registered schema.
	s.Fields = append([]Field(nil), s.Fields...)
	r.schemas[s.ID] = &s
	return nil
}

// Schema returns the schema for a category.
// Unknown ids yield a *SchemaError wrapping ErrUnknownCategory.
func (r *Registry) Schema(categoryID string) (*Schema, error) {
	s, ok := r.schemas[categoryID]
	if !ok {
		return nil, &SchemaError{CategoryID: categoryID, Err: ErrUnknownCategory}
	}
	return s, nil
}

// Has reports whether a category is registered.
func (r *Registry) Has(categoryID string) bool {
	_, ok := r.schemas[categoryID]
	return ok
}

// All returns all registered schemas.
// Sorted by group then by id for consistent ordering.
func (r *Registry) All() []*Schema {
	result := make([]*Schema, 0, len(r.schemas))
	for _, s := range r.schemas {
		result = append(result, s)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Group != result[j].Group {
			return result[i].Group < result[j].Group
		}
		return result[i].ID < result[j].ID
	})

	return result
}

// ByGroup returns the schemas of one group sorted by id.
func (r *Registry) ByGroup(group string) []*Schema {
	var result []*Schema
	for _, s := range r.schemas {
		if s.Group == group {
			result = append(result, s)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Groups returns all unique group names sorted alphabetically.
func (r *Registry) Groups() []string {
	seen := make(map[string]bool)
	for _, s := range r.schemas {
		seen[s.Group] = true
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}

	sort.Strings(groups)
	return groups
}

// Len returns the number of registered categories.
func (r *Registry) Len() int {
	return len(r.schemas)
}
