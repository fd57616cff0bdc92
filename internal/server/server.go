package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"booktures/internal/app"
	"booktures/internal/util"
	"booktures/pkg/domain"
)

// Version is the service version reported by the liveness probe.
const Version = "1.0.0"

// Config wires required dependencies for the HTTP server.
type Config struct {
	App            *app.App
	MaxUploadBytes int64
}

// Server exposes the HTTP endpoints for PDF ingestion and retrieval.
type Server struct {
	app            *app.App
	mux            *http.ServeMux
	maxUploadBytes int64
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	if cfg.App == nil {
		return nil, errors.New("app is required")
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, errors.New("max upload bytes must be > 0")
	}
	s := &Server{
		app:            cfg.App,
		mux:            http.NewServeMux(),
		maxUploadBytes: cfg.MaxUploadBytes,
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler wrapped in the middleware chain.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog(util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/health/db", s.handleDBHealth)
	s.mux.HandleFunc("/upload-pdf", s.handleUploadPDF)
	s.mux.HandleFunc("/pdf/", s.handlePDFByID)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		notFound(w, "not found")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "Booktures backend running",
		"version": Version,
	})
}

func (s *Server) handleDBHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if err := s.app.Ping(); err != nil {
		util.LoggerFromContext(r.Context()).Error("database health check failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": "connected",
	})
}

func (s *Server) handleUploadPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required (field: file)")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	bookID, ok := optionalUintParam(r, "book_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "book_id must be a positive integer")
		return
	}
	title := formValue(r, "title")
	author := formValue(r, "author")

	result, err := s.app.Ingest(data, header.Filename, bookID, title, author)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{
		Status:          "success",
		Filename:        result.Filename,
		BookID:          result.BookID,
		PDFPath:         result.PDFPath,
		TotalPages:      result.TotalPages,
		PagesWithErrors: result.PagesWithErrors,
		Metadata:        result.Info,
		Message:         result.Message,
	})
}

// /pdf/{id}
func (s *Server) handlePDFByID(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/pdf/")
	if raw == "" || strings.Contains(raw, "/") {
		notFound(w, "not found")
		return
	}
	id64, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id64 == 0 {
		writeError(w, http.StatusBadRequest, "invalid PDF id")
		return
	}
	id := uint(id64)

	switch r.Method {
	case http.MethodGet:
		s.handleGetPDF(w, r, id)
	case http.MethodDelete:
		s.handleDeletePDF(w, r, id)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleGetPDF(w http.ResponseWriter, r *http.Request, id uint) {
	_, pages, err := s.app.GetBook(id)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	items := make([]pageResponse, 0, len(pages))
	for _, p := range pages {
		items = append(items, pageResponse{
			PageID:     p.ID,
			PageNumber: p.PageNumber,
			Text:       p.Text,
		})
	}
	writeJSON(w, http.StatusOK, getResponse{
		Status:     "success",
		BookID:     id,
		TotalPages: len(items),
		Pages:      items,
	})
}

func (s *Server) handleDeletePDF(w http.ResponseWriter, r *http.Request, id uint) {
	removed, err := s.app.DeleteBook(id)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": formatDeleteMessage(id, removed),
	})
}

// writeAppError maps the error taxonomy onto HTTP statuses. Client errors
// carry the specific reason; server errors return a generic message so
// internals never leak.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	logger := util.LoggerFromContext(r.Context())
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, errorReason(err))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, errorReason(err))
	case errors.Is(err, domain.ErrExtraction):
		logger.Error("extraction failed", "err", err)
		writeError(w, http.StatusUnprocessableEntity, "Failed to extract text from PDF")
	case errors.Is(err, domain.ErrStorage):
		logger.Error("storage failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to save PDF file")
	case errors.Is(err, domain.ErrPersistence):
		logger.Error("persistence failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to save pages to database")
	default:
		logger.Error("unexpected error", "err", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
