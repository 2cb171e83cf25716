package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestRowValidator_ValidRow(t *testing.T) {
	schema := testPricesSchema()
	headers := []string{"Test Code *", "Price *", "Effective From", "Taxable", "Tier"}
	v := NewRowValidator(&schema, headers)

	rec, errs := v.ValidateRow(RawRow{
		Number:  1,
		Headers: headers,
		Values:  []string{"GLU", "₹1,200.50", "2024-04-01", "yes", "premium"},
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if rec["test_code"] != "GLU" {
		t.Errorf("test_code = %v", rec["test_code"])
	}
	if d, ok := rec["price"].(decimal.Decimal); !ok || !d.Equal(decimal.RequireFromString("1200.5")) {
		t.Errorf("price = %v (%T)", rec["price"], rec["price"])
	}
	if d, ok := rec["effective_from"].(time.Time); !ok || d.Format("2006-01-02") != "2024-04-01" {
		t.Errorf("effective_from = %v", rec["effective_from"])
	}
	if rec["taxable"] != true {
		t.Errorf("taxable = %v", rec["taxable"])
	}
	if rec["tier"] != "Premium" {
		t.Errorf("tier = %v, want canonical Premium", rec["tier"])
	}
}

func TestRowValidator_CollectsEveryError(t *testing.T) {
	schema := testPricesSchema()
	headers := []string{"test_code", "price", "effective_from", "taxable", "tier"}
	v := NewRowValidator(&schema, headers)

	rec, errs := v.ValidateRow(RawRow{
		Number:  7,
		Headers: headers,
		Values:  []string{"", "abc", "someday", "maybe", "Gold"},
	})
	if rec != nil {
		t.Errorf("record should be nil when errors are returned, got %v", rec)
	}

	want := map[string]string{
		"test_code":      MsgRequired,
		"price":          MsgInvalidNumber,
		"effective_from": MsgInvalidDate,
		"taxable":        MsgInvalidBool,
		"tier":           "value must be one of: Standard, Premium",
	}
	if len(errs) != len(want) {
		t.Fatalf("got %d errors, want %d: %v", len(errs), len(want), errs)
	}
	for _, e := range errs {
		if e.RowNumber != 7 {
			t.Errorf("error %v has row %d, want 7", e, e.RowNumber)
		}
		if want[e.Field] != e.Message {
			t.Errorf("field %s: message %q, want %q", e.Field, e.Message, want[e.Field])
		}
	}
}

func TestRowValidator_MissingRequiredFieldGivesOneError(t *testing.T) {
	schema := paymentMethodsSchema()

	tests := []struct {
		name   string
		row    RawRow
		wantOK bool
	}{
		{name: "empty cell", row: RawRow{Number: 2, Headers: []string{"Name"}, Values: []string{""}}},
		{name: "whitespace cell", row: RawRow{Number: 2, Headers: []string{"Name"}, Values: []string{"   "}}},
		{name: "short row", row: RawRow{Number: 2, Headers: []string{"Code", "Name"}, Values: []string{"X"}}},
		{name: "column absent", row: RawRow{Number: 2, Headers: []string{"Code"}, Values: []string{"X"}}},
		{name: "present", row: RawRow{Number: 2, Headers: []string{"Name"}, Values: []string{"Cash"}}, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, errs := ValidateRow(&schema, tt.row)
			if tt.wantOK {
				if len(errs) != 0 || rec == nil {
					t.Fatalf("expected success, got %v", errs)
				}
				return
			}
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want exactly 1: %v", len(errs), errs)
			}
			if errs[0].Field != "name" || errs[0].Message != MsgRequired || errs[0].RowNumber != 2 {
				t.Errorf("error = %+v", errs[0])
			}
		})
	}
}

func TestRowValidator_OptionalEmptyFieldOmitted(t *testing.T) {
	schema := paymentMethodsSchema()
	rec, errs := ValidateRow(&schema, RawRow{Headers: []string{"Name", "Code"}, Values: []string{"Cash", ""}})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if _, ok := rec["code"]; ok {
		t.Errorf("empty optional field should be absent, got %v", rec["code"])
	}
}

func TestRowValidator_IgnoresUnknownColumns(t *testing.T) {
	schema := paymentMethodsSchema()
	rec, errs := ValidateRow(&schema, RawRow{
		Headers: []string{"Name", "extra"},
		Values:  []string{"UPI", "ignored"},
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if _, ok := rec["extra"]; ok {
		t.Error("unknown column leaked into record")
	}
}

func TestRowValidator_Normalizer(t *testing.T) {
	schema := Schema{ID: "currencies", Fields: []Field{
		{Key: "code", Type: FieldText, Required: true, Normalizer: func(s string) string { return "ISO-" + s }},
	}}
	rec, errs := ValidateRow(&schema, RawRow{Headers: []string{"code"}, Values: []string{"INR"}})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if rec["code"] != "ISO-INR" {
		t.Errorf("code = %v", rec["code"])
	}
}

func TestRowValidator_MissingColumns(t *testing.T) {
	schema := testPricesSchema()
	v := NewRowValidator(&schema, []string{"Price", "Tier"})
	got := v.MissingColumns()
	if len(got) != 1 || got[0] != "test_code" {
		t.Errorf("MissingColumns() = %v, want [test_code]", got)
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		err  ValidationError
		want string
	}{
		{ValidationError{RowNumber: 3, Field: "name", Message: "required"}, "row 3: name: required"},
		{ValidationError{Field: "file", Message: "bad zip"}, "file: bad zip"},
		{ValidationError{Message: "oops"}, "oops"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
