package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ExportPipeline writes a category's records to a spreadsheet.
// Columns are the schema fields in declared order followed by SystemFields.
type ExportPipeline struct {
	Registry *Registry
	Store    Store
	Codec    Codec
	Logger   *slog.Logger
}

// NewExportPipeline creates an export pipeline with the default logger.
func NewExportPipeline(reg *Registry, store Store, codec Codec) *ExportPipeline {
	return &ExportPipeline{
		Registry: reg,
		Store:    store,
		Codec:    codec,
		Logger:   slog.Default(),
	}
}

// WithCodec returns a copy of the pipeline that encodes with c.
func (p *ExportPipeline) WithCodec(c Codec) *ExportPipeline {
	cp := *p
	cp.Codec = c
	return &cp
}

// Run lists every record of the category and encodes them.
func (p *ExportPipeline) Run(ctx context.Context, categoryID string) ([]byte, error) {
	if _, err := p.Registry.Schema(categoryID); err != nil {
		return nil, err
	}

	records, err := p.Store.List(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", categoryID, err)
	}
	return p.RunRecords(categoryID, records)
}

// RunRecords encodes an already fetched (and possibly filtered) record set.
func (p *ExportPipeline) RunRecords(categoryID string, records []Record) ([]byte, error) {
	schema, err := p.Registry.Schema(categoryID)
	if err != nil {
		return nil, err
	}

	header := ExportHeader(schema)
	rows := make([]RawRow, len(records))
	for i, rec := range records {
		rows[i] = RawRow{
			Number:  i + 1,
			Headers: header,
			Values:  ExportValues(schema, rec),
		}
	}

	data, err := p.Codec.Encode(header, rows)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", categoryID, err)
	}

	if p.Logger != nil {
		p.Logger.Debug("export encoded", "category", categoryID, "rows", len(rows), "bytes", len(data))
	}
	return data, nil
}

// ExportHeader returns field labels followed by the system column names.
func ExportHeader(schema *Schema) []string {
	header := make([]string, 0, len(schema.Fields)+len(SystemFields))
	for _, f := range schema.Fields {
		header = append(header, f.header())
	}
	return append(header, SystemFields...)
}

// ExportValues renders a record in ExportHeader order.
func ExportValues(schema *Schema, rec Record) []string {
	values := make([]string, 0, len(schema.Fields)+len(SystemFields))
	for _, f := range schema.Fields {
		values = append(values, formatFieldValue(f, rec[f.Key]))
	}
	for _, key := range SystemFields {
		values = append(values, formatSystemValue(key, rec[key]))
	}
	return values
}

func formatFieldValue(f Field, v any) string {
	if f.Type == FieldDate {
		switch val := v.(type) {
		case time.Time:
			if val.IsZero() {
				return ""
			}
			return val.Format("2006-01-02")
		case string:
			if t, ok := ParseDate(val); ok {
				return t.Format("2006-01-02")
			}
		}
	}
	return FormatCell(v)
}

func formatSystemValue(key string, v any) string {
	if key == FieldCreatedAt || key == FieldUpdatedAt {
		if t, ok := v.(time.Time); ok {
			if t.IsZero() {
				return ""
			}
			return t.UTC().Format(time.RFC3339)
		}
	}
	return FormatCell(v)
}

// FormatCell renders a record value as spreadsheet text.
// Dates without a time part use 2006-01-02; other times use RFC 3339.
func FormatCell(v any) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case decimal.Decimal:
		return val.String()
	case *decimal.Decimal:
		if val == nil {
			return ""
		}
		return val.String()
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	case time.Time:
		if val.IsZero() {
			return ""
		}
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
