// Package persistence holds what every core.Store implementation shares:
// the PersistenceError type and system-field stamping.
//
// Implementations:
//
//   - memory: process-local, for tests and demos
//   - sqlite: single-file database via modernc.org/sqlite
//   - postgres: JSONB table via pgx
//   - remote: the LIS master-data HTTP service
package persistence

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/LabMaster/internal/core"
)

// ErrNotFound is returned when a record id does not exist in its category.
var ErrNotFound = core.ErrRecordNotFound

// ErrUnavailable marks backend failures that are worth retrying later.
var ErrUnavailable = errors.New("service unavailable")

// Error is a PersistenceError: a store operation that failed.
type Error struct {
	Op       string // "list", "create", "update", "delete"
	Category string
	ID       string // Empty for list and create
	Err      error
}

func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("persistence: %s %s/%s: %v", e.Op, e.Category, e.ID, e.Err)
	}
	return fmt.Sprintf("persistence: %s %s: %v", e.Op, e.Category, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap returns nil for a nil err, otherwise an *Error.
func Wrap(op, category, id string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Category: category, ID: id, Err: err}
}

// StampNew returns a copy of rec ready for insertion: a fresh id,
// is_active defaulting to true, and both timestamps set to now.
func StampNew(rec core.Record, now time.Time) core.Record {
	out := rec.Clone()
	out[core.FieldID] = uuid.NewString()
	if _, ok := out[core.FieldIsActive].(bool); !ok {
		out[core.FieldIsActive] = true
	}
	now = now.UTC()
	out[core.FieldCreatedAt] = now
	out[core.FieldUpdatedAt] = now
	return out
}

// StampUpdate returns rec as it should be stored over existing: the
// existing id, created_at and (when rec omits it) is_active are kept,
// updated_at becomes now.
func StampUpdate(existing, rec core.Record, now time.Time) core.Record {
	out := rec.Clone()
	out[core.FieldID] = existing[core.FieldID]
	out[core.FieldCreatedAt] = existing[core.FieldCreatedAt]
	if _, ok := out[core.FieldIsActive].(bool); !ok {
		out[core.FieldIsActive] = existing[core.FieldIsActive]
	}
	out[core.FieldUpdatedAt] = now.UTC()
	return out
}

// SplitSystem separates category fields from system fields, for stores
// that keep the system fields in their own columns.
func SplitSystem(rec core.Record) (fields core.Record, active bool) {
	fields = make(core.Record, len(rec))
	active = true
	for k, v := range rec {
		switch k {
		case core.FieldID, core.FieldCreatedAt, core.FieldUpdatedAt:
		case core.FieldIsActive:
			if b, ok := v.(bool); ok {
				active = b
			}
		default:
			fields[k] = v
		}
	}
	return fields, active
}
