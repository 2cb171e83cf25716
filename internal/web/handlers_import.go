package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/LabMaster/internal/core"
	"github.com/JonMunkholm/LabMaster/internal/logging"
)

// readUpload returns the bytes of the multipart "file" field, bounded by
// IMPORT_MAX_FILE_SIZE.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	file, _, err := r.FormFile("file")
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, err
		}
		return nil, errNoFile
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errEmptyFile
	}
	return data, nil
}

// handleImport imports one file into one category.
//
// With "Accept: text/event-stream" the response is a progress stream:
// "progress" events carry core.ImportProgress and a final "complete"
// event carries the report.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "category")
	if _, err := s.service.Schema(categoryID); err != nil {
		respondError(w, r, err, 0)
		return
	}

	data, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
		s.streamImport(w, r, categoryID, data)
		return
	}

	report, err := s.service.Import(r.Context(), categoryID, data)
	if err != nil && report == nil {
		respondError(w, r, err, 0)
		return
	}
	s.logReport(r, report)
	writeJSON(w, http.StatusOK, report)
}

// streamImport runs the import while writing progress as server-sent events.
func (s *Server) streamImport(w http.ResponseWriter, r *http.Request, categoryID string, data []byte) {
	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	send := func(event string, id int, v any) {
		payload, err := json.Marshal(v)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", id, event, payload)
		_ = rc.Flush()
	}

	// The percentage doubles as the event id so clients can drop repeats.
	lastPercent := -1
	report, err := s.service.ImportWithProgress(r.Context(), categoryID, data, func(p core.ImportProgress) {
		pct := p.Percent()
		if pct == lastPercent && p.Phase == core.PhaseImporting {
			return
		}
		lastPercent = pct
		send("progress", pct, p)
	})

	if report == nil {
		logging.FromContext(r.Context()).Warn("streamed import failed", "category", categoryID, "error", err)
		msg := core.MapError(err)
		send("error", 100, ErrorResponse{Error: msg.Message, Message: msg.Message, Action: msg.Action, Code: msg.Code})
		return
	}
	s.logReport(r, report)
	send("complete", 100, report)
}

// handlePreview validates a file without saving anything.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "category")
	if _, err := s.service.Schema(categoryID); err != nil {
		respondError(w, r, err, 0)
		return
	}

	data, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	report, err := s.service.Preview(r.Context(), categoryID, data)
	if err != nil && report == nil {
		respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleImportBatch imports several categories in one request. Each
// multipart file part names its category, either by the part name or,
// when the part is called "files", by the file name without extension.
func (s *Server) handleImportBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)

	mr, err := r.MultipartReader()
	if err != nil {
		respondError(w, r, fmt.Errorf("%w: %v", errBadBody, err), 0)
		return
	}

	files := make(map[string][]byte)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			respondError(w, r, err, 0)
			return
		}
		if part.FileName() == "" {
			part.Close()
			continue
		}

		categoryID := part.FormName()
		if categoryID == "files" || categoryID == "" {
			categoryID = strings.TrimSuffix(filepath.Base(part.FileName()), filepath.Ext(part.FileName()))
		}
		if _, dup := files[categoryID]; dup {
			part.Close()
			respondError(w, r, fmt.Errorf("%w: more than one file for category %q", errBadBody, categoryID), 0)
			return
		}
		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			respondError(w, r, err, 0)
			return
		}
		files[categoryID] = data
	}

	batch, err := s.service.ImportBatch(r.Context(), files)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	logging.FromContext(r.Context()).Info("batch import finished",
		"categories", len(batch.Reports),
		"failures", len(batch.Failures),
		"rows", batch.TotalRows,
		"errors", batch.ErrorCount,
	)
	writeJSON(w, http.StatusOK, batch)
}

// handleImportStatus reports the import limiter state.
func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ImportStatus())
}

func (s *Server) logReport(r *http.Request, report *core.ImportReport) {
	logging.WithFields(r.Context(), "category", report.CategoryID).Info("import finished",
		"rows", report.TotalRows,
		"succeeded", report.SuccessCount,
		"errors", report.ErrorCount,
		"cancelled", report.Cancelled,
	)
}
