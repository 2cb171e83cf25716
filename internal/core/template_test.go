package core

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// sampleCell returns a valid cell for f.
func sampleCell(f Field) string {
	switch f.Type {
	case FieldNumber:
		return "42"
	case FieldDate:
		return "2024-01-31"
	case FieldBoolean:
		return "yes"
	case FieldEnum:
		return f.EnumValues[0]
	default:
		return "sample"
	}
}

func TestTemplateHeader(t *testing.T) {
	schema := testPricesSchema()
	got := TemplateHeader(&schema)
	want := []string{"Test Code *", "Price *", "Effective From", "Taxable", "Tier"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("TemplateHeader() = %v, want %v", got, want)
	}
}

func TestTemplateGenerator_RoundTrip(t *testing.T) {
	reg := testRegistry()
	gen := NewTemplateGenerator(reg, lineCodec{})

	for _, schema := range reg.All() {
		t.Run(schema.ID, func(t *testing.T) {
			tmpl, err := gen.Run(schema.ID)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			rows, err := lineCodec{}.Decode(tmpl)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if len(rows) != 0 {
				t.Fatalf("template has %d data rows, want 0", len(rows))
			}

			// Fill only the required fields.
			cells := make([]string, len(schema.Fields))
			for i, f := range schema.Fields {
				if f.Required {
					cells[i] = sampleCell(f)
				}
			}
			filled := string(tmpl) + strings.Join(cells, ",") + "\n"

			report, err := NewImportPipeline(reg, newFakeStore(), lineCodec{}).
				Run(context.Background(), schema.ID, []byte(filled))
			if err != nil {
				t.Fatalf("import error = %v", err)
			}
			if report.SuccessCount != 1 || report.ErrorCount != 0 {
				t.Errorf("report = %+v, want 1 success", report)
			}
		})
	}
}

func TestTemplateGenerator_UnknownCategory(t *testing.T) {
	_, err := NewTemplateGenerator(testRegistry(), lineCodec{}).Run("missing")
	if !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("err = %v, want ErrUnknownCategory", err)
	}
}
