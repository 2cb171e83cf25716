package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FilterOperator names a column filter comparison.
type FilterOperator string

const (
	OpContains   FilterOperator = "contains"
	OpEquals     FilterOperator = "eq"
	OpStartsWith FilterOperator = "starts"
	OpEndsWith   FilterOperator = "ends"
	OpGreater    FilterOperator = "gt"
	OpGreaterEq  FilterOperator = "gte"
	OpLess       FilterOperator = "lt"
	OpLessEq     FilterOperator = "lte"
	OpIn         FilterOperator = "in"
)

// ErrInvalidFilter is returned for malformed or type-incompatible filters.
var ErrInvalidFilter = errors.New("invalid filter")

// ColumnFilter restricts query results to records whose field matches.
type ColumnFilter struct {
	Field    string         `json:"field"`
	Operator FilterOperator `json:"operator"`
	Value    string         `json:"value"`
	Type     FieldType      `json:"type"`
}

// ParseFilter builds a filter for f from "op:value" text.
func ParseFilter(f Field, expr string) (ColumnFilter, error) {
	op, value, ok := strings.Cut(expr, ":")
	if !ok || strings.TrimSpace(value) == "" {
		return ColumnFilter{}, fmt.Errorf("%w: %s: expected op:value", ErrInvalidFilter, f.Key)
	}

	filter := ColumnFilter{
		Field:    f.Key,
		Operator: FilterOperator(strings.ToLower(strings.TrimSpace(op))),
		Value:    strings.TrimSpace(value),
		Type:     f.Type,
	}
	if !IsValidOperator(filter.Operator, f.Type) {
		return ColumnFilter{}, fmt.Errorf("%w: %s: operator %q not supported for %s fields",
			ErrInvalidFilter, f.Key, op, f.Type)
	}

	switch f.Type {
	case FieldNumber:
		if _, ok := ParseDecimal(filter.Value); !ok {
			return ColumnFilter{}, fmt.Errorf("%w: %s: %s", ErrInvalidFilter, f.Key, MsgInvalidNumber)
		}
	case FieldDate:
		if _, ok := ParseDate(filter.Value); !ok {
			return ColumnFilter{}, fmt.Errorf("%w: %s: %s", ErrInvalidFilter, f.Key, MsgInvalidDate)
		}
	case FieldBoolean:
		if _, ok := ParseBool(filter.Value); !ok {
			return ColumnFilter{}, fmt.Errorf("%w: %s: %s", ErrInvalidFilter, f.Key, MsgInvalidBool)
		}
	}
	return filter, nil
}

// IsValidOperator reports whether op can be applied to fields of type ft.
func IsValidOperator(op FilterOperator, ft FieldType) bool {
	switch ft {
	case FieldText:
		switch op {
		case OpContains, OpEquals, OpStartsWith, OpEndsWith:
			return true
		}
	case FieldNumber:
		switch op {
		case OpEquals, OpGreaterEq, OpLessEq, OpGreater, OpLess:
			return true
		}
	case FieldDate:
		switch op {
		case OpEquals, OpGreaterEq, OpLessEq:
			return true
		}
	case FieldBoolean:
		return op == OpEquals
	case FieldEnum:
		switch op {
		case OpEquals, OpIn:
			return true
		}
	}
	return false
}

// Match reports whether rec satisfies the filter. Missing values never match.
func (f ColumnFilter) Match(rec Record) bool {
	v, ok := rec[f.Field]
	if !ok || v == nil {
		return false
	}

	switch f.Type {
	case FieldNumber:
		got, ok := toDecimal(v)
		want, ok2 := ParseDecimal(f.Value)
		if !ok || !ok2 {
			return false
		}
		return compareOp(f.Operator, got.Cmp(want))

	case FieldDate:
		got, ok := toTime(v)
		want, ok2 := ParseDate(f.Value)
		if !ok || !ok2 {
			return false
		}
		return compareOp(f.Operator, truncateDay(got).Compare(truncateDay(want)))

	case FieldBoolean:
		got, ok := v.(bool)
		if !ok {
			got, ok = ParseBool(FormatCell(v))
		}
		want, ok2 := ParseBool(f.Value)
		return ok && ok2 && got == want

	default:
		got := strings.ToLower(FormatCell(v))
		want := strings.ToLower(f.Value)
		switch f.Operator {
		case OpContains:
			return strings.Contains(got, want)
		case OpEquals:
			return got == want
		case OpStartsWith:
			return strings.HasPrefix(got, want)
		case OpEndsWith:
			return strings.HasSuffix(got, want)
		case OpIn:
			for _, opt := range strings.Split(want, ",") {
				if strings.TrimSpace(opt) == got {
					return true
				}
			}
		}
		return false
	}
}

func compareOp(op FilterOperator, cmp int) bool {
	switch op {
	case OpEquals:
		return cmp == 0
	case OpGreater:
		return cmp > 0
	case OpGreaterEq:
		return cmp >= 0
	case OpLess:
		return cmp < 0
	case OpLessEq:
		return cmp <= 0
	default:
		return false
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// toTime extracts a time from a typed or serialized value.
func toTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, !val.IsZero()
	case string:
		return ParseDate(val)
	default:
		return time.Time{}, false
	}
}

// toDecimal extracts a number from any numeric representation a store may return.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case decimal.Decimal:
		return val, true
	case *decimal.Decimal:
		if val == nil {
			return decimal.Decimal{}, false
		}
		return *val, true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int32:
		return decimal.NewFromInt32(val), true
	case int64:
		return decimal.NewFromInt(val), true
	case float32:
		return decimal.NewFromFloat32(val), true
	case float64:
		return decimal.NewFromFloat(val), true
	case fmt.Stringer:
		return ParseDecimal(val.String())
	case string:
		return ParseDecimal(val)
	default:
		return decimal.Decimal{}, false
	}
}
