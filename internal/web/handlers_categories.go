package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/LabMaster/internal/codec"
	"github.com/JonMunkholm/LabMaster/internal/core"
)

// CategoryGroup is one console section in the category listing.
type CategoryGroup struct {
	Name       string         `json:"name"`
	Categories []*core.Schema `json:"categories"`
}

// handleListCategories returns every schema, grouped and sorted.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	reg := s.service.Registry()
	groups := make([]CategoryGroup, 0, len(reg.Groups()))
	for _, name := range reg.Groups() {
		groups = append(groups, CategoryGroup{Name: name, Categories: reg.ByGroup(name)})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"groups": groups,
		"total":  reg.Len(),
	})
}

// handleGetCategory returns one schema.
func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	schema, err := s.service.Schema(chi.URLParam(r, "category"))
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, schema)
}

// handleTemplate downloads an empty import template.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "category")
	format, err := parseFormat(r)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	data, err := s.service.Template(categoryID, codec.New(format))
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	attachment(w, categoryID+"_template", format)
	_, _ = w.Write(data)
}

// handleExport downloads a category's records. Search, sort and filter
// parameters narrow the export the same way they narrow a listing.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "category")
	schema, err := s.service.Schema(categoryID)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	format, err := parseFormat(r)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	state, err := s.parseQueryState(r, schema)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	data, err := s.service.Export(r.Context(), categoryID, &state, codec.New(format))
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	attachment(w, categoryID+"_"+time.Now().Format("20060102_150405"), format)
	_, _ = w.Write(data)
}
