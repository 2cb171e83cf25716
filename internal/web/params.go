package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/LabMaster/internal/codec"
	"github.com/JonMunkholm/LabMaster/internal/core"
)

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// parseQueryState reads a listing request:
//
//	?search=glu&sort=name&dir=desc&page=2&pageSize=50
//	&filter[price]=gte:10&filter[tier]=in:Standard,Premium&agg=price
//
// Filters on unknown fields or with operators the field type does not
// support are rejected with core.ErrInvalidFilter.
func (s *Server) parseQueryState(r *http.Request, schema *core.Schema) (core.QueryState, error) {
	q := r.URL.Query()
	state := core.QueryState{
		Search:        q.Get("search"),
		SortField:     strings.TrimSpace(q.Get("sort")),
		SortDirection: core.ParseSortDirection(q.Get("dir")),
		Page:          parseIntParam(r, "page", 1),
		PageSize:      parseIntParam(r, "pageSize", s.cfg.Query.DefaultPageSize),
	}

	for key, values := range q {
		if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") {
			continue
		}
		name := key[len("filter[") : len(key)-1]
		field, ok := schema.Field(name)
		if !ok {
			return core.QueryState{}, fmt.Errorf("%w: unknown field %q", core.ErrInvalidFilter, name)
		}
		for _, expr := range values {
			filter, err := core.ParseFilter(field, expr)
			if err != nil {
				return core.QueryState{}, err
			}
			state.Filters = append(state.Filters, filter)
		}
	}

	if agg := q.Get("agg"); agg != "" {
		for _, name := range strings.Split(agg, ",") {
			if name = strings.TrimSpace(name); name != "" {
				state.Aggregate = append(state.Aggregate, name)
			}
		}
	}
	return state, nil
}

// parseFormat reads ?format=, defaulting to xlsx.
func parseFormat(r *http.Request) (codec.Format, error) {
	return codec.ParseFormat(r.URL.Query().Get("format"))
}

// attachment sets download headers for a generated spreadsheet.
func attachment(w http.ResponseWriter, name string, format codec.Format) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s%s"`, name, format.Extension()))
}
