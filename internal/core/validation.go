package core

// validation.go turns raw spreadsheet rows into typed records.
//
// Each schema field is located by header (key or label, case-insensitive),
// checked for presence when required, then coerced by its type. Every
// problem in a row is collected so the user can fix a row in one pass.

import (
	"fmt"
)

// ValidationError describes one problem with one row.
// RowNumber 0 is used for file-level errors.
type ValidationError struct {
	RowNumber int    `json:"rowNumber"`
	Field     string `json:"field"`
	Message   string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.RowNumber > 0 {
		return fmt.Sprintf("row %d: %s: %s", e.RowNumber, e.Field, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// RowValidator validates rows of one file against a schema.
// The header index is computed once per file.
type RowValidator struct {
	schema    *Schema
	headerIdx HeaderIndex
}

// NewRowValidator creates a validator for the given schema and header row.
func NewRowValidator(schema *Schema, headers []string) *RowValidator {
	return &RowValidator{
		schema:    schema,
		headerIdx: MakeHeaderIndex(headers),
	}
}

// ValidateRow validates a row and returns either a record or every error found.
// The record is nil whenever errors is non-empty.
func (v *RowValidator) ValidateRow(row RawRow) (Record, []ValidationError) {
	rec := make(Record, len(v.schema.Fields))
	var errs []ValidationError

	for _, f := range v.schema.Fields {
		raw := ""
		if pos, ok := v.headerIdx.Lookup(f); ok {
			raw = CleanCell(row.Cell(pos))
		}

		if raw == "" {
			if f.Required {
				errs = append(errs, ValidationError{
					RowNumber: row.Number,
					Field:     f.Key,
					Message:   MsgRequired,
				})
			}
			continue
		}

		val, err := f.coerce(raw)
		if err != nil {
			errs = append(errs, ValidationError{
				RowNumber: row.Number,
				Field:     f.Key,
				Message:   err.Error(),
			})
			continue
		}
		rec[f.Key] = val
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return rec, nil
}

// ValidateRow is a convenience wrapper for validating a single row
// without building a RowValidator first.
func ValidateRow(schema *Schema, row RawRow) (Record, []ValidationError) {
	return NewRowValidator(schema, row.Headers).ValidateRow(row)
}

// MissingColumns lists required fields with no matching header.
// Used by preview to flag files built from the wrong template.
func (v *RowValidator) MissingColumns() []string {
	var missing []string
	for _, f := range v.schema.Fields {
		if !f.Required {
			continue
		}
		if _, ok := v.headerIdx.Lookup(f); !ok {
			missing = append(missing, f.Key)
		}
	}
	return missing
}
