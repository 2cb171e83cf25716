package core

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID()
	}
	return out
}

func TestQuery_ZetaAlpha(t *testing.T) {
	records := []Record{
		{"id": "A", "name": "Zeta"},
		{"id": "B", "name": "Alpha"},
	}
	res := NewQueryEngine(language.English).Query(records, QueryState{SortField: "name", SortDirection: SortAsc})

	if got := ids(res.Items); !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Errorf("items = %v, want [B A]", got)
	}
}

func TestQuery_SortStability(t *testing.T) {
	records := []Record{
		{"id": "1", "group": "x"},
		{"id": "2", "group": "y"},
		{"id": "3", "group": "x"},
		{"id": "4", "group": "y"},
		{"id": "5", "group": "x"},
	}
	engine := NewQueryEngine(language.English)

	asc := engine.Query(records, QueryState{SortField: "group", SortDirection: SortAsc})
	if got := ids(asc.Items); !reflect.DeepEqual(got, []string{"1", "3", "5", "2", "4"}) {
		t.Errorf("asc = %v", got)
	}

	desc := engine.Query(records, QueryState{SortField: "group", SortDirection: SortDesc})
	if got := ids(desc.Items); !reflect.DeepEqual(got, []string{"2", "4", "1", "3", "5"}) {
		t.Errorf("desc = %v", got)
	}
}

func TestQuery_SortByType(t *testing.T) {
	engine := NewQueryEngine(language.English)

	t.Run("numbers numerically", func(t *testing.T) {
		records := []Record{
			{"id": "a", "price": decimal.NewFromInt(100)},
			{"id": "b", "price": decimal.NewFromInt(9)},
			{"id": "c", "price": decimal.RequireFromString("9.5")},
		}
		res := engine.Query(records, QueryState{SortField: "price"})
		if got := ids(res.Items); !reflect.DeepEqual(got, []string{"b", "c", "a"}) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("dates chronologically", func(t *testing.T) {
		records := []Record{
			{"id": "a", "d": time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)},
			{"id": "b", "d": time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		}
		res := engine.Query(records, QueryState{SortField: "d", SortDirection: SortDesc})
		if got := ids(res.Items); !reflect.DeepEqual(got, []string{"a", "b"}) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("missing values first ascending", func(t *testing.T) {
		records := []Record{
			{"id": "a", "name": "beta"},
			{"id": "b"},
			{"id": "c", "name": ""},
			{"id": "d", "name": "Alpha"},
		}
		res := engine.Query(records, QueryState{SortField: "name"})
		if got := ids(res.Items); !reflect.DeepEqual(got, []string{"b", "c", "d", "a"}) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("numeric looking text stays text", func(t *testing.T) {
		codes := []string{"9", "10", "1a", "2"}
		want := []string{"10", "1a", "2", "9"}
		for _, order := range [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}} {
			records := make([]Record, len(order))
			for i, j := range order {
				records[i] = Record{"id": codes[j], "code": codes[j]}
			}
			res := engine.Query(records, QueryState{SortField: "code"})
			if got := ids(res.Items); !reflect.DeepEqual(got, want) {
				t.Errorf("order %v: got %v, want %v", order, got, want)
			}
		}
	})

	t.Run("mixed kinds group by kind", func(t *testing.T) {
		records := []Record{
			{"id": "text", "v": "1a"},
			{"id": "ten", "v": decimal.NewFromInt(10)},
			{"id": "nine", "v": json.Number("9")},
			{"id": "none"},
		}
		res := engine.Query(records, QueryState{SortField: "v"})
		if got := ids(res.Items); !reflect.DeepEqual(got, []string{"none", "nine", "ten", "text"}) {
			t.Errorf("got %v", got)
		}
		res = engine.Query(records, QueryState{SortField: "v", SortDirection: SortDesc})
		if got := ids(res.Items); !reflect.DeepEqual(got, []string{"text", "ten", "nine", "none"}) {
			t.Errorf("desc: got %v", got)
		}
	})

	t.Run("locale collation ignores case", func(t *testing.T) {
		records := []Record{
			{"id": "a", "name": "banana"},
			{"id": "b", "name": "Apple"},
			{"id": "c", "name": "cherry"},
		}
		res := engine.Query(records, QueryState{SortField: "name"})
		if got := ids(res.Items); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
			t.Errorf("got %v", got)
		}
	})
}

func TestQuery_Search(t *testing.T) {
	records := []Record{
		{"id": "1", "name": "Glucose Fasting", "code": "GLU"},
		{"id": "2", "name": "HbA1c", "code": "HBA"},
		{"id": "3", "name": "Lipid Profile", "price": decimal.NewFromInt(1200)},
	}
	engine := NewQueryEngine(language.English)

	tests := []struct {
		search string
		want   []string
	}{
		{search: "glu", want: []string{"1"}},
		{search: "  HBA ", want: []string{"2"}},
		{search: "1200", want: []string{"3"}},
		{search: "zzz", want: []string{}},
		{search: "", want: []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			res := engine.Query(records, QueryState{Search: tt.search})
			if got := ids(res.Items); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.search, got, tt.want)
			}
			if res.TotalMatched != len(tt.want) {
				t.Errorf("TotalMatched = %d, want %d", res.TotalMatched, len(tt.want))
			}
		})
	}
}

func makeRecords(n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{"id": fmt.Sprintf("r%02d", i), "n": decimal.NewFromInt(int64(n - i))}
	}
	return out
}

func TestQuery_PaginationCompleteness(t *testing.T) {
	records := makeRecords(23)
	engine := NewQueryEngine(language.English)
	state := QueryState{SortField: "n", PageSize: 5}

	first := engine.Query(records, state)
	if first.TotalPages != 5 || first.TotalMatched != 23 {
		t.Fatalf("TotalPages = %d, TotalMatched = %d", first.TotalPages, first.TotalMatched)
	}

	seen := make(map[string]int)
	var all []string
	for page := 1; page <= first.TotalPages; page++ {
		state.Page = page
		res := engine.Query(records, state)
		for _, r := range res.Items {
			seen[r.ID()]++
			all = append(all, r.ID())
		}
	}

	if len(all) != 23 {
		t.Errorf("pages returned %d records, want 23", len(all))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("record %s appeared %d times", id, n)
		}
	}

	whole := engine.Query(records, QueryState{SortField: "n", PageSize: 100})
	if !reflect.DeepEqual(ids(whole.Items), all) {
		t.Error("concatenated pages differ from the unpaginated order")
	}
}

func TestQuery_PageBounds(t *testing.T) {
	engine := NewQueryEngine(language.English)
	records := makeRecords(3)

	t.Run("out of range page is empty", func(t *testing.T) {
		res := engine.Query(records, QueryState{Page: 9, PageSize: 2})
		if len(res.Items) != 0 || res.Items == nil {
			t.Errorf("items = %v, want empty non-nil", res.Items)
		}
		if res.TotalMatched != 3 || res.TotalPages != 2 {
			t.Errorf("TotalMatched = %d, TotalPages = %d", res.TotalMatched, res.TotalPages)
		}
	})

	t.Run("page number far past the end", func(t *testing.T) {
		for _, page := range []int{math.MaxInt/25 + 2, math.MaxInt} {
			res := engine.Query(records, QueryState{Page: page, PageSize: 25})
			if len(res.Items) != 0 || res.TotalPages != 1 {
				t.Errorf("page %d: items = %d, TotalPages = %d", page, len(res.Items), res.TotalPages)
			}
		}
	})

	t.Run("unbounded page size", func(t *testing.T) {
		res := engine.Query(records, QueryState{Page: 1, PageSize: math.MaxInt})
		if len(res.Items) != 3 || res.TotalPages != 1 {
			t.Errorf("items = %d, TotalPages = %d", len(res.Items), res.TotalPages)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		res := engine.Query(records, QueryState{Page: -1})
		if res.Page != 1 || res.PageSize != DefaultPageSize || len(res.Items) != 3 {
			t.Errorf("result = %+v", res)
		}
	})

	t.Run("max page size", func(t *testing.T) {
		capped := &QueryEngine{Locale: language.English, MaxPageSize: 2}
		res := capped.Query(records, QueryState{PageSize: 50})
		if res.PageSize != 2 || len(res.Items) != 2 {
			t.Errorf("PageSize = %d, items = %d", res.PageSize, len(res.Items))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		res := engine.Query(nil, QueryState{})
		if res.TotalPages != 0 || len(res.Items) != 0 {
			t.Errorf("result = %+v", res)
		}
	})
}

func TestQuery_Idempotent(t *testing.T) {
	records := []Record{
		{"id": "1", "name": "b"},
		{"id": "2", "name": "a"},
		{"id": "3", "name": "b"},
	}
	before := fmt.Sprint(records)
	engine := NewQueryEngine(language.English)
	state := QueryState{Search: "", SortField: "name", SortDirection: SortDesc, Page: 1, PageSize: 2}

	first := engine.Query(records, state)
	second := engine.Query(records, state)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated queries differ: %+v vs %+v", first, second)
	}
	if fmt.Sprint(records) != before {
		t.Error("input records were reordered or mutated")
	}
}

func TestQuery_FiltersAndAggregations(t *testing.T) {
	records := []Record{
		{"id": "1", "tier": "Standard", "price": decimal.NewFromInt(100)},
		{"id": "2", "tier": "Premium", "price": decimal.NewFromInt(300)},
		{"id": "3", "tier": "Premium", "price": decimal.NewFromInt(500)},
		{"id": "4", "tier": "Premium"},
	}
	state := QueryState{
		Filters: []ColumnFilter{
			{Field: "tier", Operator: OpEquals, Value: "premium", Type: FieldEnum},
		},
		Aggregate: []string{"price"},
	}

	res := NewQueryEngine(language.English).Query(records, state)
	if got := ids(res.Items); !reflect.DeepEqual(got, []string{"2", "3", "4"}) {
		t.Fatalf("items = %v", got)
	}

	agg := res.Aggregations["price"]
	if agg == nil {
		t.Fatal("missing price aggregation")
	}
	if agg.Count != 2 ||
		!agg.Sum.Equal(decimal.NewFromInt(800)) ||
		!agg.Avg.Equal(decimal.NewFromInt(400)) ||
		!agg.Min.Equal(decimal.NewFromInt(300)) ||
		!agg.Max.Equal(decimal.NewFromInt(500)) {
		t.Errorf("aggregation = %+v", agg)
	}
}

func TestParseSortDirection(t *testing.T) {
	for in, want := range map[string]SortDirection{"desc": SortDesc, " DESC ": SortDesc, "asc": SortAsc, "": SortAsc, "sideways": SortAsc} {
		if got := ParseSortDirection(in); got != want {
			t.Errorf("ParseSortDirection(%q) = %s, want %s", in, got, want)
		}
	}
}
