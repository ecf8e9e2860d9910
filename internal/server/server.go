// Package server exposes the generation pipeline over a thin HTTP JSON
// boundary: template and recap uploads, generation requests, and retrieval
// of generated documents and change reports.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/fairlead/cpgen/internal/charter"
	"github.com/fairlead/cpgen/internal/extract"
	"github.com/fairlead/cpgen/internal/generate"
	"github.com/fairlead/cpgen/internal/store"
)

const (
	maxUploadMemory   = 10 << 20
	shutdownGrace     = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Server is the HTTP boundary around the store and generator.
type Server struct {
	addr      string
	store     *store.Store
	generator *generate.Generator
	log       zerolog.Logger
	http      *http.Server
}

// New builds the HTTP server with its routes registered.
func New(addr string, st *store.Store, gen *generate.Generator, log zerolog.Logger) *Server {
	s := &Server{addr: addr, store: st, generator: gen, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/templates", s.handleUpload(store.BucketTemplates))
	mux.HandleFunc("POST /api/recaps", s.handleUpload(store.BucketRecaps))
	mux.HandleFunc("GET /api/templates", s.handleList(store.BucketTemplates))
	mux.HandleFunc("GET /api/recaps", s.handleList(store.BucketRecaps))
	mux.HandleFunc("GET /api/documents", s.handleList(store.BucketDocuments))
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("GET /api/documents/{id}", s.handleDocument)
	mux.HandleFunc("GET /api/reports/{id}", s.handleReport)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("http server listening")
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type uploadResponse struct {
	ID     string `json:"id"`
	Bucket string `json:"bucket"`
}

func (s *Server) handleUpload(bucket string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer file.Close()

		id, err := s.store.Save(bucket, header.Filename, file)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeJSON(w, http.StatusCreated, uploadResponse{ID: id, Bucket: bucket})
	}
}

func (s *Server) handleList(bucket string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ids, err := s.store.List(bucket)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "cannot list stored files")
			return
		}
		if ids == nil {
			ids = []string{}
		}
		s.writeJSON(w, http.StatusOK, map[string][]string{"ids": ids})
	}
}

type generateRequest struct {
	TemplateID   string `json:"template_id"`
	RecapID      string `json:"recap_id"`
	OutputFormat string `json:"output_format"`
}

type generateResponse struct {
	DocumentID        string               `json:"document_id"`
	ReportID          string               `json:"report_id"`
	Report            charter.ChangeReport `json:"report"`
	CompletenessScore float64              `json:"completeness_score"`
	ConfidenceScore   float64              `json:"confidence_score"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.TemplateID == "" || req.RecapID == "" {
		s.writeError(w, http.StatusBadRequest, "template_id and recap_id are required")
		return
	}

	templatePath, err := s.store.Resolve(store.BucketTemplates, req.TemplateID)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	recapPath, err := s.store.Resolve(store.BucketRecaps, req.RecapID)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	result, err := s.generator.Generate(generate.Request{
		TemplatePath: templatePath,
		RecapPath:    recapPath,
		OutputFormat: req.OutputFormat,
	})
	if err != nil {
		s.log.Error().Err(err).Str("template", req.TemplateID).Str("recap", req.RecapID).
			Msg("generation failed")
		status := http.StatusInternalServerError
		var unsupported *extract.UnsupportedFormatError
		if errors.As(err, &unsupported) {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, "charter party generation failed")
		return
	}

	documentID, err := s.store.SaveDocument(generate.Extension(result.Format), result.Content)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "cannot store generated document")
		return
	}
	reportID, err := s.store.SaveReport(documentID, result.Report)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "cannot store change report")
		return
	}

	s.writeJSON(w, http.StatusOK, generateResponse{
		DocumentID:        documentID,
		ReportID:          reportID,
		Report:            result.Report,
		CompletenessScore: result.Validation.CompletenessScore,
		ConfidenceScore:   result.Validation.ConfidenceScore,
	})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	path, err := s.store.Resolve(store.BucketDocuments, r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	http.ServeFile(w, r, path)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.LoadReport(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Err(err).Msg("cannot encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
	if status >= http.StatusInternalServerError {
		s.log.Error().Int("status", status).Msg(fmt.Sprintf("request failed: %s", message))
	}
}
