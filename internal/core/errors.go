package core

import (
	"errors"
	"fmt"
)

// ErrUnknownCategory is returned when a category id has no registered schema.
var ErrUnknownCategory = errors.New("unknown category")

// SchemaError reports a problem resolving a category schema.
type SchemaError struct {
	CategoryID string
	Err        error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("category %q: %v", e.CategoryID, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Reserved ValidationError.Field values for errors not tied to a column.
const (
	ErrorFieldFile   = "file"   // The file could not be decoded
	ErrorFieldSystem = "system" // Persistence rejected the row
)

// Validation messages.
const (
	MsgRequired      = "required"
	MsgInvalidNumber = "invalid number format"
	MsgInvalidDate   = "invalid date format (use YYYY-MM-DD or similar)"
	MsgInvalidBool   = "must be yes/no, true/false, or 1/0"
)

// ErrNoCategories is returned by a batch import with no category files.
var ErrNoCategories = errors.New("no categories to import")

// ErrRecordNotFound is returned when a record id does not exist in its category.
// Stores wrap it in their own error types.
var ErrRecordNotFound = errors.New("record not found")
