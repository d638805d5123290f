package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/html2vimdoc/internal/parser"
	"github.com/dgallion1/html2vimdoc/internal/pipeline"
	"github.com/dgallion1/html2vimdoc/internal/vimdoc"
	"github.com/go-chi/chi/v5"
)

// handleConvert converts a single uploaded document synchronously and
// returns the generated help file as plain text.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	data, filename, opts, ok := s.readConvertForm(w, r)
	if !ok {
		return
	}

	p, err := parser.ForFile(filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if pdf, isPDF := p.(*parser.PDFParser); isPDF {
		pdf.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}

	htmlSrc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		jsonError(w, fmt.Sprintf("parse: %s", err), http.StatusUnprocessableEntity)
		return
	}

	opts.Logger = s.log
	text, err := vimdoc.Convert(htmlSrc, opts)
	if err != nil {
		jsonError(w, fmt.Sprintf("convert: %s", err), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, text)
}

// handleBatchConvert queues multiple uploaded documents onto the worker
// pool and returns the job IDs to poll.
func (s *Server) handleBatchConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	type queued struct {
		JobID    string `json:"job_id"`
		Filename string `json:"filename"`
		PollURL  string `json:"poll_url"`
	}
	var out []queued

	for _, header := range files {
		filename := sanitizeFilename(header.Filename)
		if !parser.IsSupportedExtension(filename) {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
			return
		}
		data, err := readUpload(header, s.cfg.MaxUploadBytes)
		if err != nil {
			jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}

		opts := s.optionsFromForm(r.FormValue, helpFilename(filename, ""))
		now := time.Now()
		job := &pipeline.Job{
			ID:        pipeline.NewJobID(),
			Status:    pipeline.StatusQueued,
			Phase:     "queued",
			Filename:  filename,
			Title:     opts.Title,
			CreatedAt: now,
			UpdatedAt: now,
		}
		job.SetInput(data, opts)

		if err := s.orchestrator.Submit(job); err != nil {
			jsonError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		out = append(out, queued{
			JobID:    job.ID,
			Filename: filename,
			PollURL:  fmt.Sprintf("/api/convert/%s/status", job.ID),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{"jobs": out})
}

func (s *Server) handleConvertStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// readConvertForm parses the single-file convert form: the uploaded file
// plus optional conversion option fields.
func (s *Server) readConvertForm(w http.ResponseWriter, r *http.Request) ([]byte, string, vimdoc.Options, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, "", vimdoc.Options{}, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return nil, "", vimdoc.Options{}, false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return nil, "", vimdoc.Options{}, false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return nil, "", vimdoc.Options{}, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return nil, "", vimdoc.Options{}, false
	}

	opts := s.optionsFromForm(r.FormValue, helpFilename(filename, r.FormValue("helpfile")))
	return data, filename, opts, true
}

// optionsFromForm merges per-request option fields over the configured
// defaults.
func (s *Server) optionsFromForm(formValue func(string) string, helpfile string) vimdoc.Options {
	opts := vimdoc.Options{
		Title:              formValue("title"),
		Filename:           helpfile,
		BaseURL:            formValue("base_url"),
		ContentSelector:    s.cfg.ContentSelector,
		ExternalDocPrefix:  s.cfg.ExternalDocPrefix,
		IgnoredLinkTargets: s.cfg.IgnoredLinkTargets,
		Modeline:           s.cfg.Modeline,
	}
	if v := formValue("selector"); v != "" {
		opts.ContentSelector = v
	}
	if v := formValue("ignore"); v != "" {
		opts.SelectorsToIgnore = splitList(v)
	}
	if v := formValue("modeline"); v != "" {
		opts.Modeline = v
	}
	if v := formValue("doc_prefix"); v != "" {
		opts.ExternalDocPrefix = v
	}
	if v := formValue("ignore_targets"); v != "" {
		opts.IgnoredLinkTargets = splitList(v)
	}
	return opts
}

// helpFilename picks the embedded help file name: the explicit form value
// when given, otherwise the upload's base name with a .txt extension.
func helpFilename(uploadName, explicit string) string {
	if explicit != "" {
		return explicit
	}
	base := strings.TrimSuffix(uploadName, filepath.Ext(uploadName))
	if base == "" {
		return ""
	}
	return base + ".txt"
}

func readUpload(header *multipart.FileHeader, limit int64) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("file exceeds max size (%d bytes)", limit)
	}
	return data, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	return name
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
