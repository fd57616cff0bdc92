package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"booktures/pkg/domain"
)

type uploadResponse struct {
	Status          string           `json:"status"`
	Filename        string           `json:"filename"`
	BookID          uint             `json:"book_id"`
	PDFPath         string           `json:"pdf_path"`
	TotalPages      int              `json:"total_pages"`
	PagesWithErrors int              `json:"pages_with_errors"`
	Metadata        *domain.FileInfo `json:"metadata"`
	Message         string           `json:"message"`
}

type getResponse struct {
	Status     string         `json:"status"`
	BookID     uint           `json:"book_id"`
	TotalPages int            `json:"total_pages"`
	Pages      []pageResponse `json:"pages"`
}

type pageResponse struct {
	PageID     uint   `json:"page_id"`
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		Code:      errorCode(status),
		RequestID: strings.TrimSpace(w.Header().Get("X-Request-Id")),
	})
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "PDF_INVALID_REQUEST"
	case http.StatusNotFound:
		return "PDF_NOT_FOUND"
	case http.StatusUnprocessableEntity:
		return "PDF_UNPROCESSABLE"
	case http.StatusMethodNotAllowed:
		return "SYSTEM_METHOD_NOT_ALLOWED"
	default:
		if status >= http.StatusInternalServerError {
			return "SYSTEM_INTERNAL_ERROR"
		}
		return "REQUEST_ERROR"
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func notFound(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusNotFound, msg)
}

// errorReason strips the sentinel prefix so clients see just the reason.
func errorReason(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{domain.ErrValidation, domain.ErrNotFound} {
		prefix := sentinel.Error() + ": "
		if strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}

func formatDeleteMessage(id uint, pages int) string {
	return fmt.Sprintf("PDF %d and %d pages deleted", id, pages)
}

// optionalUintParam reads a query or form parameter as *uint. The bool is
// false when a value is present but not a positive integer.
func optionalUintParam(r *http.Request, name string) (*uint, bool) {
	raw := formValue(r, name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return nil, false
	}
	id := uint(v)
	return &id, true
}

// formValue checks query parameters first, then multipart form fields;
// both are accepted.
func formValue(r *http.Request, name string) string {
	if v := strings.TrimSpace(r.URL.Query().Get(name)); v != "" {
		return v
	}
	if r.MultipartForm != nil {
		if vs := r.MultipartForm.Value[name]; len(vs) > 0 {
			return strings.TrimSpace(vs[0])
		}
	}
	return ""
}
