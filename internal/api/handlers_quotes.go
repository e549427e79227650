package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/document"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/generator"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/pipeline"
)

var contentTypes = map[string]string{
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".html": "text/html; charset=utf-8",
	".htm":  "text/html; charset=utf-8",
	".md":   "text/markdown; charset=utf-8",
	".txt":  "text/plain; charset=utf-8",
}

// handleGenerate renders one quote and streams the document back. With
// ?format=json the generation report is returned instead.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxRequestBytes)

	var req generator.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	// Output always lands in the configured directory.
	req.OutputPath = ""

	rep, err := s.gen.Generate(req)
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	if r.URL.Query().Get("format") == "json" {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rep)
		return
	}

	f, err := os.Open(rep.OutputPath)
	if err != nil {
		jsonError(w, "failed to open generated quote", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	ext := filepath.Ext(rep.OutputPath)
	name := "quote"
	if qn := generator.DisplayQuoteNumber(req.QuoteNumber); qn != "" {
		name = "quote_" + sanitizeFilename(qn)
	}
	w.Header().Set("Content-Type", contentTypeFor(ext))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s%s"`, name, ext))
	w.Header().Set("X-Generation-ID", rep.ID)
	if len(rep.Missing) > 0 {
		w.Header().Set("X-Missing-Variables", strings.Join(rep.Missing, ","))
	}
	if info, err := f.Stat(); err == nil {
		http.ServeContent(w, r, name+ext, info.ModTime(), f)
		return
	}
	jsonError(w, "failed to stat generated quote", http.StatusInternalServerError)
}

type batchRequest struct {
	Requests []generator.Request `json:"requests"`
}

func (s *Server) handleBatchGenerate(w http.ResponseWriter, r *http.Request) {
	if s.orchestrator == nil {
		jsonError(w, "batch generation unavailable", http.StatusServiceUnavailable)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxRequestBytes*int64(max(s.cfg.MaxBatchSize, 1)))

	var body batchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(body.Requests) == 0 {
		jsonError(w, "requests must not be empty", http.StatusBadRequest)
		return
	}
	if len(body.Requests) > s.cfg.MaxBatchSize {
		jsonError(w, fmt.Sprintf("batch exceeds max size (%d requests)", s.cfg.MaxBatchSize), http.StatusBadRequest)
		return
	}
	for i := range body.Requests {
		body.Requests[i].OutputPath = ""
	}

	job := pipeline.NewJob(body.Requests)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"requests": len(body.Requests),
		"poll_url": fmt.Sprintf("/api/quotes/batch/%s", job.ID),
	})
}

func (s *Server) handleBatchStatus(w http.ResponseWriter, r *http.Request) {
	if s.orchestrator == nil {
		jsonError(w, "batch generation unavailable", http.StatusServiceUnavailable)
		return
	}
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	for i := range snap.Results {
		if rep := snap.Results[i].Report; rep != nil {
			cp := *rep
			cp.OutputPath = "/api/files/" + filepath.Base(rep.OutputPath)
			snap.Results[i].Report = &cp
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

// handleDownload serves a generated quote from the output directory.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := sanitizeFilename(chi.URLParam(r, "name"))
	if !document.IsSupportedExtension(name) {
		jsonError(w, "file not found", http.StatusNotFound)
		return
	}
	f, err := os.Open(filepath.Join(s.cfg.OutputDir, name))
	if err != nil {
		jsonError(w, "file not found", http.StatusNotFound)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		jsonError(w, "file not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentTypeFor(filepath.Ext(name)))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, generator.ErrItemDataInvalid):
		return http.StatusBadRequest
	case errors.Is(err, generator.ErrTemplateNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func contentTypeFor(ext string) string {
	if ct, ok := contentTypes[strings.ToLower(ext)]; ok {
		return ct
	}
	return "application/octet-stream"
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
