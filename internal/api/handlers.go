package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sciviz/figlint/pkg/audit"
	"github.com/sciviz/figlint/pkg/buildinfo"
	"github.com/sciviz/figlint/pkg/errors"
	"github.com/sciviz/figlint/pkg/export"
	"github.com/sciviz/figlint/pkg/pipeline"
	"github.com/sciviz/figlint/pkg/scene"
	"github.com/sciviz/figlint/pkg/standards"
	"github.com/sciviz/figlint/pkg/store"
)

// =============================================================================
// Request / Response Types
// =============================================================================

// auditRequest is the body of POST /v1/audit and POST /v1/fix.
type auditRequest struct {
	// Scene is a scene dump in the export package's JSON format.
	Scene json.RawMessage `json:"scene"`

	// Options configures the pipeline run.
	Options pipeline.Options `json:"options"`
}

// auditResponse is the body of a successful POST /v1/audit.
type auditResponse struct {
	Report     audit.Report       `json:"report"`
	FigureHash string             `json:"figure_hash"`
	Stats      pipeline.Stats     `json:"stats"`
	CacheInfo  pipeline.CacheInfo `json:"cache_info"`
}

// fixResponse is the body of a successful POST /v1/fix. Fixed is a
// scene dump of the repaired figure, re-importable by bridges.
type fixResponse struct {
	auditResponse
	Fixed   json.RawMessage `json:"fixed,omitempty"`
	Applied []audit.Issue   `json:"applied"`
}

// errorResponse is the body of any failed request.
type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	fig, opts, ok := s.decodeAuditRequest(w, r)
	if !ok {
		return
	}

	result, err := s.runner.Execute(r.Context(), fig, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.archive(r, result.Report)

	writeJSON(w, http.StatusOK, auditResponse{
		Report:     result.Report,
		FigureHash: result.FigureHash,
		Stats:      result.Stats,
		CacheInfo:  result.CacheInfo,
	})
}

func (s *Server) handleFix(w http.ResponseWriter, r *http.Request) {
	fig, opts, ok := s.decodeAuditRequest(w, r)
	if !ok {
		return
	}
	opts.ApplyFixes = true

	result, err := s.runner.Execute(r.Context(), fig, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.archive(r, result.Report)

	resp := fixResponse{
		auditResponse: auditResponse{
			Report:     result.Report,
			FigureHash: result.FigureHash,
			Stats:      result.Stats,
			CacheInfo:  result.CacheInfo,
		},
		Applied: result.Applied,
	}

	if result.Fixed != nil {
		var buf bytes.Buffer
		if err := export.WriteScene(result.Fixed, &buf); err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Fixed = buf.Bytes()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStandards(w http.ResponseWriter, r *http.Request) {
	var out []standards.Standard
	for _, name := range standards.List() {
		if std, err := standards.Lookup(name); err == nil {
			out = append(out, std)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	opts := store.ListOpts{Journal: r.URL.Query().Get("journal")}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := parsePositiveInt(limit)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Limit = n
	}

	reports, err := s.store.ListReports(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if reports == nil {
		reports = []audit.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteReport(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

// decodeAuditRequest parses the request body and imports the scene.
// On failure it writes the error response and returns ok=false.
func (s *Server) decodeAuditRequest(w http.ResponseWriter, r *http.Request) (*scene.Figure, pipeline.Options, bool) {
	var req auditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return nil, pipeline.Options{}, false
	}
	if len(req.Scene) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "request has no scene"))
		return nil, pipeline.Options{}, false
	}

	fig, err := export.ReadScene(bytes.NewReader(req.Scene))
	if err != nil {
		s.writeError(w, r, err)
		return nil, pipeline.Options{}, false
	}

	req.Options.Logger = s.logger
	return fig, req.Options, true
}

// archive stores the report, logging failures without failing the
// request; the audit result is still useful when the archive is down.
func (s *Server) archive(r *http.Request, report audit.Report) {
	if err := s.store.SaveReport(r.Context(), report); err != nil {
		s.logger.Warn("archive report", "id", report.ID, "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: errors.UserMessage(err),
	})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidScene,
		errors.ErrCodeInvalidStandard, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidThreshold:
		return http.StatusBadRequest
	case errors.ErrCodeUnknownJournal, errors.ErrCodeNotFound, errors.ErrCodeReportNotFound:
		return http.StatusNotFound
	case errors.ErrCodeNotAutoFixable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", s)
	}
	return n, nil
}
