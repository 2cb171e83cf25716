package categories

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/LabMaster/internal/codec"
	"github.com/JonMunkholm/LabMaster/internal/core"
	"github.com/JonMunkholm/LabMaster/internal/persistence/memory"
)

var wantCategories = []string{
	"tests", "testMethods", "testPanels", "specimens", "containers", "departments",
	"sections", "units", "referenceRanges", "testPrices", "priceLists", "paymentMethods",
	"doctors", "branches", "collectionCenters", "insuranceProviders", "discounts", "taxes",
	"analyzers", "reagents", "rejectionReasons", "antibiotics", "organisms", "salutations",
	"interpretations", "turnaroundTimes", "currencies",
}

func TestNewRegistry_HasEveryCategory(t *testing.T) {
	reg := NewRegistry()
	assert.Equal(t, len(wantCategories), reg.Len())
	for _, id := range wantCategories {
		assert.True(t, reg.Has(id), "missing category %s", id)
	}
}

func TestCatalog_EverySchemaHasRequiredField(t *testing.T) {
	for _, s := range NewRegistry().All() {
		assert.NotEmpty(t, s.RequiredKeys(), "%s has no required field", s.ID)
		assert.NotEmpty(t, s.Label, "%s has no label", s.ID)
		for _, f := range s.Fields {
			assert.NotContains(t, core.SystemFields, f.Key, "%s redeclares system field", s.ID)
		}
	}
}

func TestPaymentMethods_RequiresName(t *testing.T) {
	schema, err := NewRegistry().Schema("paymentMethods")
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, schema.RequiredKeys())
}

// sampleCell returns a cell every field type accepts.
func sampleCell(f core.Field) string {
	switch f.Type {
	case core.FieldNumber:
		return "12"
	case core.FieldDate:
		return "2024-06-30"
	case core.FieldBoolean:
		return "no"
	case core.FieldEnum:
		return f.EnumValues[len(f.EnumValues)-1]
	default:
		return "Sample " + f.Key
	}
}

func TestTemplateRoundTrip_AllCategories(t *testing.T) {
	reg := NewRegistry()

	for _, format := range []codec.Format{codec.FormatXLSX, codec.FormatCSV} {
		c := codec.New(format)
		gen := core.NewTemplateGenerator(reg, c)

		for _, schema := range reg.All() {
			t.Run(string(format)+"/"+schema.ID, func(t *testing.T) {
				tmpl, err := gen.Run(schema.ID)
				require.NoError(t, err)

				rows, err := c.Decode(tmpl)
				require.NoError(t, err)
				assert.Empty(t, rows, "template must have no data rows")

				values := make([]string, len(schema.Fields))
				for i, f := range schema.Fields {
					if f.Required {
						values[i] = sampleCell(f)
					}
				}
				filled, err := c.Encode(core.TemplateHeader(schema), []core.RawRow{{Values: values}})
				require.NoError(t, err)

				store := memory.New()
				report, err := core.NewImportPipeline(reg, store, c).Run(context.Background(), schema.ID, filled)
				require.NoError(t, err)
				assert.Equal(t, 1, report.SuccessCount, "errors: %v", report.Errors)
				assert.Equal(t, 0, report.ErrorCount)
				assert.Equal(t, 1, store.Len(schema.ID))
			})
		}
	}
}

func TestNormalizeCurrency(t *testing.T) {
	tests := map[string]string{
		"Indian Rupee": "INR",
		" euro ":       "EUR",
		"₹":            "INR",
		"usd":          "USD",
		"xyz":          "XYZ",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeCurrency(in), in)
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "CBC-PANEL", NormalizeCode("  cbc   panel "))
	assert.Equal(t, "GLU", NormalizeCode("glu"))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+919876543210", NormalizePhone(" +91 (98765) 43-210 "))
	assert.Equal(t, "0445551234", NormalizePhone("044-555 1234"))
}

func TestCoercePercent(t *testing.T) {
	v, err := CoercePercent("18%")
	require.NoError(t, err)
	assert.True(t, v.(decimal.Decimal).Equal(decimal.NewFromInt(18)))

	_, err = CoercePercent("120")
	assert.EqualError(t, err, "must be between 0 and 100")

	_, err = CoercePercent("-1")
	assert.Error(t, err)

	_, err = CoercePercent("lots")
	assert.EqualError(t, err, core.MsgInvalidNumber)
}

func TestDoctors_NormalizesContactFields(t *testing.T) {
	schema, err := NewRegistry().Schema("doctors")
	require.NoError(t, err)

	rec, errs := core.ValidateRow(schema, core.RawRow{
		Headers: []string{"Name", "Email", "Phone", "Commission %"},
		Values:  []string{"Dr. Rao", " Rao@Clinic.IN ", "98765 43210", "12.5"},
	})
	require.Empty(t, errs)
	assert.Equal(t, "rao@clinic.in", rec["email"])
	assert.Equal(t, "9876543210", rec["phone"])
}
