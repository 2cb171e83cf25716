package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/LabMaster/internal/core"
)

// handleQueryRecords lists a category with search, sort, filters and paging.
func (s *Server) handleQueryRecords(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "category")
	schema, err := s.service.Schema(categoryID)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	state, err := s.parseQueryState(r, schema)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	result, err := s.service.Query(r.Context(), categoryID, state)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// decodeInput reads a JSON object of field -> value. Non-string values
// are rendered as text so the same validator as spreadsheet cells applies.
func decodeInput(r *http.Request) (core.RecordInput, error) {
	var raw map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadBody, err)
	}

	input := make(core.RecordInput, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			input[k] = ""
		case string:
			input[k] = val
		case json.Number:
			input[k] = val.String()
		case bool:
			input[k] = fmt.Sprint(val)
		default:
			return nil, fmt.Errorf("%w: field %q must be a scalar", errBadBody, k)
		}
	}
	return input, nil
}

// handleCreateRecord validates and creates one record.
func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	input, err := decodeInput(r)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	rec, err := s.service.CreateRecord(r.Context(), chi.URLParam(r, "category"), input)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// handleUpdateRecord replaces a record's fields.
func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	input, err := decodeInput(r)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	rec, err := s.service.UpdateRecord(r.Context(), chi.URLParam(r, "category"), chi.URLParam(r, "id"), input)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleSetActive toggles is_active: {"active": false}.
func (s *Server) handleSetActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Active *bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Active == nil {
		respondError(w, r, fmt.Errorf("%w: expected {\"active\": true|false}", errBadBody), 0)
		return
	}

	rec, err := s.service.SetActive(r.Context(), chi.URLParam(r, "category"), chi.URLParam(r, "id"), *req.Active)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleDeleteRecord removes a record.
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteRecord(r.Context(), chi.URLParam(r, "category"), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err, 0)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
