// Package core provides the master-data import, export and query engine.
// This package has no UI dependencies and can be used by any frontend.
package core

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// FieldType represents the expected data type for a spreadsheet column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldNumber
	FieldBoolean
	FieldDate
	FieldEnum
)

// String returns the lowercase name used in schema listings.
func (t FieldType) String() string {
	switch t {
	case FieldText:
		return "text"
	case FieldNumber:
		return "number"
	case FieldBoolean:
		return "boolean"
	case FieldDate:
		return "date"
	case FieldEnum:
		return "enum"
	default:
		return "value"
	}
}

// MarshalText lets FieldType appear as its name in JSON schema listings.
func (t FieldType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// CoerceFunc converts a cleaned, non-empty cell into a typed value.
type CoerceFunc func(raw string) (any, error)

// Field defines validation rules for a single category column.
type Field struct {
	Key        string              `json:"key"`   // Record key, e.g. "short_name"
	Label      string              `json:"label"` // Spreadsheet header, e.g. "Short Name"
	Type       FieldType           `json:"type"`
	Required   bool                `json:"required"`
	EnumValues []string            `json:"enumValues,omitempty"`
	Normalizer func(string) string `json:"-"` // Optional transformation applied before coercion
	Coerce     CoerceFunc          `json:"-"` // Overrides the default coercer for Type
}

// header returns the column header used in templates and exports.
func (f Field) header() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Key
}

// coerce runs the normalizer and the field's coercer on a non-empty cell.
func (f Field) coerce(raw string) (any, error) {
	if f.Normalizer != nil {
		raw = f.Normalizer(raw)
	}
	if f.Coerce != nil {
		return f.Coerce(raw)
	}

	switch f.Type {
	case FieldNumber:
		return CoerceNumber(raw)
	case FieldBoolean:
		return CoerceBoolean(raw)
	case FieldDate:
		return CoerceDate(raw)
	case FieldEnum:
		return CoerceEnum(raw, f.EnumValues)
	default:
		return CoerceText(raw)
	}
}

// Schema is the declarative field list for one master-data category.
type Schema struct {
	ID     string  `json:"id"`    // Category identifier: "paymentMethods"
	Group  string  `json:"group"` // Console section: "Billing"
	Label  string  `json:"label"` // Display name: "Payment Methods"
	Fields []Field `json:"fields"`
}

// Field returns the field with the given key.
func (s *Schema) Field(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// RequiredKeys returns the keys of all required fields in declared order.
func (s *Schema) RequiredKeys() []string {
	var keys []string
	for _, f := range s.Fields {
		if f.Required {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// System fields present on every persisted record.
const (
	FieldID        = "id"
	FieldIsActive  = "is_active"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// SystemFields lists the system columns in export order.
var SystemFields = []string{FieldID, FieldIsActive, FieldCreatedAt, FieldUpdatedAt}

// Record is a persisted master-data row: the category's fields plus system fields.
type Record map[string]any

// ID returns the record's server-assigned identifier, or "" before creation.
func (r Record) ID() string {
	switch v := r[FieldID].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// RawRow is one spreadsheet row as decoded, before validation.
// Values are aligned with Headers; short rows simply have fewer values.
type RawRow struct {
	Number  int      // 1-based data row number (header excluded)
	Headers []string // Header row shared by every row of the file
	Values  []string
}

// Cell returns the value at column i, or "" when the row is short.
func (r RawRow) Cell(i int) string {
	if i < 0 || i >= len(r.Values) {
		return ""
	}
	return r.Values[i]
}

// IsBlank reports whether every cell in the row is empty.
func (r RawRow) IsBlank() bool {
	for _, v := range r.Values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Store is the persistence collaborator that owns master records.
// Implementations live under internal/persistence.
type Store interface {
	List(ctx context.Context, categoryID string) ([]Record, error)
	Create(ctx context.Context, categoryID string, rec Record) (Record, error)
	Update(ctx context.Context, categoryID, id string, rec Record) (Record, error)
	Delete(ctx context.Context, categoryID, id string) error
}

// Codec converts between spreadsheet bytes and rows.
// Decode treats the first row as the header.
type Codec interface {
	Decode(data []byte) ([]RawRow, error)
	Encode(header []string, rows []RawRow) ([]byte, error)
}

// ImportPhase indicates the current stage of import processing.
type ImportPhase string

const (
	PhaseDecoding   ImportPhase = "decoding"
	PhaseImporting  ImportPhase = "importing"
	PhaseComplete   ImportPhase = "complete"
	PhaseCancelled  ImportPhase = "cancelled"
	PhaseFileFailed ImportPhase = "file_failed"
)

// ImportProgress reports the state of a running import.
type ImportProgress struct {
	CategoryID string      `json:"categoryId"`
	Phase      ImportPhase `json:"phase"`
	TotalRows  int         `json:"totalRows"`
	CurrentRow int         `json:"currentRow"`
	Succeeded  int         `json:"succeeded"`
	Failed     int         `json:"failed"`
}

// Percent returns the progress as a percentage (0-100).
func (p ImportProgress) Percent() int {
	if p.TotalRows > 0 {
		return (p.CurrentRow * 100) / p.TotalRows
	}
	return 0
}

// ProgressCallback is called as an import advances.
type ProgressCallback func(ImportProgress)

// ImportReport is the structured outcome of one category import.
// SuccessCount + ErrorCount always equals TotalRows.
type ImportReport struct {
	CategoryID   string            `json:"categoryId"`
	TotalRows    int               `json:"totalRows"`
	SuccessCount int               `json:"successCount"`
	ErrorCount   int               `json:"errorCount"`
	Errors       []ValidationError `json:"errors"`

	// MissingColumns lists required fields with no matching header.
	// Every row then fails on those fields.
	MissingColumns []string `json:"missingColumns,omitempty"`

	DryRun    bool          `json:"dryRun,omitempty"`
	Cancelled bool          `json:"cancelled,omitempty"`
	Duration  time.Duration `json:"durationNs"`
}
