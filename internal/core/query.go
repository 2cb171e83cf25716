package core

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultPageSize is used when a query does not set a positive page size.
const DefaultPageSize = 25

// SortDirection orders query results.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection maps user input to a direction, defaulting to ascending.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// QueryState is the caller-owned listing state: search, sort, page, filters.
type QueryState struct {
	Search        string         `json:"search"`
	SortField     string         `json:"sortField"`
	SortDirection SortDirection  `json:"sortDirection"`
	Page          int            `json:"page"`     // 1-based
	PageSize      int            `json:"pageSize"` // <= 0 means DefaultPageSize
	Filters       []ColumnFilter `json:"filters,omitempty"`
	Aggregate     []string       `json:"aggregate,omitempty"` // Numeric fields to aggregate
}

// ColumnAggregation holds summary values for one numeric field over the
// filtered result set. Values are zero when Count is zero.
type ColumnAggregation struct {
	Field string          `json:"field"`
	Sum   decimal.Decimal `json:"sum"`
	Avg   decimal.Decimal `json:"avg"`
	Min   decimal.Decimal `json:"min"`
	Max   decimal.Decimal `json:"max"`
	Count int             `json:"count"`
}

// QueryResult is one page of a listing.
type QueryResult struct {
	Items        []Record                      `json:"items"`
	TotalMatched int                           `json:"totalMatched"` // Before pagination
	Page         int                           `json:"page"`
	PageSize     int                           `json:"pageSize"`
	TotalPages   int                           `json:"totalPages"`
	Aggregations map[string]*ColumnAggregation `json:"aggregations,omitempty"`
}

// QueryEngine searches, filters, sorts and paginates an in-memory record set.
// It performs no I/O and never mutates its inputs.
type QueryEngine struct {
	Locale      language.Tag
	MaxPageSize int // 0 means unlimited
}

// NewQueryEngine creates an engine that collates strings for locale.
func NewQueryEngine(locale language.Tag) *QueryEngine {
	return &QueryEngine{Locale: locale}
}

// Query applies state to records in the order search, filters, sort, paginate.
func (e *QueryEngine) Query(records []Record, state QueryState) QueryResult {
	matched := make([]Record, 0, len(records))
	needle := strings.ToLower(strings.TrimSpace(state.Search))
	for _, rec := range records {
		if needle != "" && !matchesSearch(rec, needle) {
			continue
		}
		if !matchesFilters(rec, state.Filters) {
			continue
		}
		matched = append(matched, rec)
	}

	if state.SortField != "" {
		// collate.Collator is not safe for concurrent use; build one per call.
		coll := collate.New(e.Locale)
		desc := state.SortDirection == SortDesc
		slices.SortStableFunc(matched, func(a, b Record) int {
			c := compareValues(coll, a[state.SortField], b[state.SortField])
			if desc {
				return -c
			}
			return c
		})
	}

	pageSize := state.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if e.MaxPageSize > 0 && pageSize > e.MaxPageSize {
		pageSize = e.MaxPageSize
	}
	page := max(state.Page, 1)

	total := len(matched)
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	result := QueryResult{
		Items:        []Record{},
		TotalMatched: total,
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   totalPages,
	}

	// Compare pages before multiplying; huge page numbers would overflow.
	if page <= totalPages {
		start := (page - 1) * pageSize
		end := start + min(pageSize, total-start)
		result.Items = append(result.Items, matched[start:end]...)
	}

	if len(state.Aggregate) > 0 {
		result.Aggregations = aggregate(matched, state.Aggregate)
	}
	return result
}

// matchesSearch reports whether any scalar value contains needle (already lowercased).
func matchesSearch(rec Record, needle string) bool {
	for _, v := range rec {
		if !isScalar(v) {
			continue
		}
		if strings.Contains(strings.ToLower(FormatCell(v)), needle) {
			return true
		}
	}
	return false
}

func matchesFilters(rec Record, filters []ColumnFilter) bool {
	for _, f := range filters {
		if !f.Match(rec) {
			return false
		}
	}
	return true
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, map[string]any, []any, Record, []Record:
		return false
	default:
		return true
	}
}

// value kinds in ascending sort precedence when kinds differ.
const (
	kindEmpty = iota
	kindBool
	kindNumber
	kindTime
	kindString
)

func kindOf(v any) int {
	switch val := v.(type) {
	case nil:
		return kindEmpty
	case string:
		if val == "" {
			return kindEmpty
		}
		return kindString
	case bool:
		return kindBool
	case time.Time:
		return kindTime
	case *decimal.Decimal:
		if val == nil {
			return kindEmpty
		}
		return kindNumber
	case decimal.Decimal, json.Number, int, int32, int64, float32, float64:
		return kindNumber
	}
	return kindString
}

// compareValues orders two field values. Missing values sort as "" (lowest).
func compareValues(coll *collate.Collator, a, b any) int {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		// Mixed kinds group by kind so the order stays transitive.
		return ka - kb
	}

	switch ka {
	case kindEmpty:
		return 0
	case kindBool:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	case kindNumber:
		da, _ := toDecimal(a)
		db, _ := toDecimal(b)
		return da.Cmp(db)
	case kindTime:
		return a.(time.Time).Compare(b.(time.Time))
	default:
		return coll.CompareString(FormatCell(a), FormatCell(b))
	}
}

func aggregate(records []Record, fields []string) map[string]*ColumnAggregation {
	result := make(map[string]*ColumnAggregation, len(fields))
	for _, field := range fields {
		agg := &ColumnAggregation{Field: field}
		for _, rec := range records {
			v, ok := rec[field]
			if !ok || v == nil {
				continue
			}
			if _, isStr := v.(string); isStr && v == "" {
				continue
			}
			d, ok := toDecimal(v)
			if !ok {
				continue
			}
			if agg.Count == 0 || d.LessThan(agg.Min) {
				agg.Min = d
			}
			if agg.Count == 0 || d.GreaterThan(agg.Max) {
				agg.Max = d
			}
			agg.Sum = agg.Sum.Add(d)
			agg.Count++
		}
		if agg.Count > 0 {
			agg.Avg = agg.Sum.Div(decimal.NewFromInt(int64(agg.Count)))
		}
		result[field] = agg
	}
	return result
}
