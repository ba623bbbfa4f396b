package web

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"medeval/internal/core"
	"medeval/internal/logging"
	"medeval/internal/sheet"
)

// handleHealth reports liveness for load balancers and the frontend.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Backend is healthy and running!",
	})
}

// handleUpload accepts an xlsx file and replaces the question set with its
// contents. The whole file must validate before anything is stored.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	if r.ContentLength > maxSize {
		writeError(w, r, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, r, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		writeError(w, r, http.StatusBadRequest, "only .xlsx files are supported")
		return
	}

	data, err := readLimited(file, maxSize)
	if errors.Is(err, errTooLarge) {
		writeError(w, r, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to read file")
		return
	}

	ingestID := uuid.NewString()
	logger := logging.WithFields(r.Context(),
		"ingest_id", ingestID,
		"filename", header.Filename,
	)
	logger.Info("upload started", "bytes", len(data))

	table, err := sheet.Parse(data)
	if err != nil {
		logger.Warn("upload unreadable", "error", err)
		writeError(w, r, http.StatusBadRequest, "could not read spreadsheet: "+err.Error())
		return
	}

	count, err := s.loader.Load(r.Context(), table)
	if err != nil {
		var verr *core.ValidationError
		if errors.As(err, &verr) {
			logger.Warn("upload failed validation", "reason", verr.Error())
			writeValidationError(w, r, verr)
			return
		}
		logger.Error("upload failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to store questions")
		return
	}

	logger.Info("upload completed", "questions", count)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "file processed successfully",
		"summary": map[string]int{"total_questions_processed": count},
	})
}

// handleListQuestions returns one page of question summaries.
func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", core.DefaultPageSize)
	filter := core.ParseFilter(r.URL.Query().Get("filter"))

	result, err := s.querier.List(r.Context(), filter, page, perPage)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to list questions")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleQuestionDetail returns the full record for one question.
func (s *Server) handleQuestionDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "question not found")
		return
	}

	detail, err := s.querier.Detail(r.Context(), id)
	if errors.Is(err, core.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "question not found")
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to load question")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// updateRequest decodes a PUT body. RawMessage distinguishes a field that is
// absent (leave unchanged) from one set to null (clear).
type updateRequest struct {
	Score       json.RawMessage `json:"score"`
	CategoryIDs json.RawMessage `json:"category_ids"`
}

// handleUpdateQuestion applies a score and/or category edit to one question.
func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "question not found")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var change core.AnnotationChange
	if req.Score != nil {
		change.SetScore = true
		if err := json.Unmarshal(req.Score, &change.Score); err != nil {
			writeError(w, r, http.StatusBadRequest, "score must be 0, 1, or null")
			return
		}
	}
	if req.CategoryIDs != nil {
		if string(req.CategoryIDs) == "null" {
			writeError(w, r, http.StatusBadRequest, "category_ids must be a list")
			return
		}
		change.SetCategories = true
		if err := json.Unmarshal(req.CategoryIDs, &change.CategoryIDs); err != nil {
			writeError(w, r, http.StatusBadRequest, "category_ids must be a list of integers")
			return
		}
	}

	result, err := s.annotator.Update(r.Context(), id, change)
	switch {
	case errors.Is(err, core.ErrInvalidScore):
		writeError(w, r, http.StatusBadRequest, "score must be 0, 1, or null")
		return
	case errors.Is(err, core.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "question not found")
		return
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, "failed to update question")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  fmt.Sprintf("question %d updated", id),
		"question": result,
	})
}

// handleListCategories returns the full category list.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to list categories")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// handleExport streams the filtered question set as a CSV or xlsx download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	filter := core.ParseFilter(r.URL.Query().Get("filter"))
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "excel" {
		writeError(w, r, http.StatusBadRequest, "format must be csv or excel")
		return
	}

	data, err := s.exporter.Build(r.Context(), filter)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to build export")
		return
	}

	switch format {
	case "excel":
		body, err := sheet.WriteWorkbook(data)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "failed to render workbook")
			return
		}
		name := core.Filename(filter, "xlsx", time.Now())
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		w.Write(body)

	default:
		name := core.Filename(filter, "csv", time.Now())
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		cw := csv.NewWriter(w)
		cw.Write(data.Columns)
		for _, row := range data.Rows {
			cw.Write(row)
		}
		cw.Flush()
	}
}

// queryInt reads an integer query parameter with a fallback.
func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// errTooLarge reports a multipart part larger than the configured limit.
var errTooLarge = errors.New("file exceeds size limit")

// readLimited reads at most limit bytes from r, failing if more remain.
// MaxBytesReader covers the request body, but multipart parts buffered to
// disk bypass it, so the part is checked again here.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errTooLarge
	}
	return data, nil
}
