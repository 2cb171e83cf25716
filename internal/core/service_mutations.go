package core

import (
	"context"
	"fmt"
	"strings"
)

// ValidationErrors is returned by record mutations whose input fails validation.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Field + ": " + ve.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap exposes each field error to errors.Is/As.
func (e ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, ve := range e {
		errs[i] = ve
	}
	return errs
}

// RecordInput is a form submission: cell text keyed by field key or label.
// The optional "is_active" entry toggles the system flag.
type RecordInput map[string]string

// validateInput runs the row validator over a form submission.
func validateInput(schema *Schema, input RecordInput) (Record, error) {
	headers := make([]string, 0, len(input))
	values := make([]string, 0, len(input))
	for k, v := range input {
		headers = append(headers, k)
		values = append(values, v)
	}

	rec, errs := ValidateRow(schema, RawRow{Headers: headers, Values: values})
	if len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	if raw, ok := input[FieldIsActive]; ok && strings.TrimSpace(raw) != "" {
		active, ok := ParseBool(raw)
		if !ok {
			return nil, ValidationErrors{{Field: FieldIsActive, Message: MsgInvalidBool}}
		}
		rec[FieldIsActive] = active
	}
	return rec, nil
}

// CreateRecord validates input and creates a record. The store assigns the id.
func (s *Service) CreateRecord(ctx context.Context, categoryID string, input RecordInput) (Record, error) {
	schema, err := s.registry.Schema(categoryID)
	if err != nil {
		return nil, err
	}

	rec, err := validateInput(schema, input)
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, categoryID, rec)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", categoryID, err)
	}

	s.logger.Info("record created", "category", categoryID, "id", created.ID())
	return schema.Hydrate(created), nil
}

// UpdateRecord validates input as a full replacement of the record's fields.
func (s *Service) UpdateRecord(ctx context.Context, categoryID, id string, input RecordInput) (Record, error) {
	schema, err := s.registry.Schema(categoryID)
	if err != nil {
		return nil, err
	}

	rec, err := validateInput(schema, input)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, categoryID, id, rec)
	if err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", categoryID, id, err)
	}

	s.logger.Info("record updated", "category", categoryID, "id", id)
	return schema.Hydrate(updated), nil
}

// SetActive flips a record's is_active flag, keeping its other fields.
func (s *Service) SetActive(ctx context.Context, categoryID, id string, active bool) (Record, error) {
	records, err := s.Records(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if rec.ID() != id {
			continue
		}
		patched := rec.Clone()
		patched[FieldIsActive] = active
		updated, err := s.store.Update(ctx, categoryID, id, patched)
		if err != nil {
			return nil, fmt.Errorf("update %s/%s: %w", categoryID, id, err)
		}
		schema, _ := s.registry.Schema(categoryID)
		return schema.Hydrate(updated), nil
	}
	return nil, fmt.Errorf("update %s/%s: %w", categoryID, id, ErrRecordNotFound)
}

// DeleteRecord removes a record.
func (s *Service) DeleteRecord(ctx context.Context, categoryID, id string) error {
	if _, err := s.registry.Schema(categoryID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, categoryID, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", categoryID, id, err)
	}
	s.logger.Info("record deleted", "category", categoryID, "id", id)
	return nil
}
