// Package memory is a process-local core.Store.
// Records are kept per category in insertion order.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/JonMunkholm/LabMaster/internal/core"
	"github.com/JonMunkholm/LabMaster/internal/persistence"
)

// Store is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	categories map[string][]core.Record
	now        func() time.Time

	// FailCreate, when set, is consulted before every Create; a non-nil
	// result fails that create. Tests use it to simulate backend errors.
	FailCreate func(category string, rec core.Record) error
}

// New returns an empty store.
func New() *Store {
	return &Store{
		categories: make(map[string][]core.Record),
		now:        time.Now,
	}
}

// List implements core.Store. The returned records are copies.
func (s *Store) List(ctx context.Context, category string) ([]core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, persistence.Wrap("list", category, "", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.categories[category]
	out := make([]core.Record, len(records))
	for i, rec := range records {
		out[i] = rec.Clone()
	}
	return out, nil
}

// Create implements core.Store.
func (s *Store) Create(ctx context.Context, category string, rec core.Record) (core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, persistence.Wrap("create", category, "", err)
	}
	if s.FailCreate != nil {
		if err := s.FailCreate(category, rec); err != nil {
			return nil, persistence.Wrap("create", category, "", err)
		}
	}

	stored := persistence.StampNew(rec, s.now())

	s.mu.Lock()
	s.categories[category] = append(s.categories[category], stored)
	s.mu.Unlock()

	return stored.Clone(), nil
}

// Update implements core.Store.
func (s *Store) Update(ctx context.Context, category, id string, rec core.Record) (core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, persistence.Wrap("update", category, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.categories[category]
	for i, existing := range records {
		if existing.ID() == id {
			records[i] = persistence.StampUpdate(existing, rec, s.now())
			return records[i].Clone(), nil
		}
	}
	return nil, persistence.Wrap("update", category, id, persistence.ErrNotFound)
}

// Delete implements core.Store.
func (s *Store) Delete(ctx context.Context, category, id string) error {
	if err := ctx.Err(); err != nil {
		return persistence.Wrap("delete", category, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.categories[category]
	for i, existing := range records {
		if existing.ID() == id {
			s.categories[category] = append(records[:i:i], records[i+1:]...)
			return nil
		}
	}
	return persistence.Wrap("delete", category, id, persistence.ErrNotFound)
}

// Len returns the number of records in a category.
func (s *Store) Len(category string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.categories[category])
}
