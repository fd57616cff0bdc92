package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"booktures/internal/app"
	"booktures/internal/pdftest"
	"booktures/pkg/extract"
	"booktures/pkg/storage"
	"booktures/pkg/store"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	files, err := storage.NewFileStore(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	appCore, err := app.New(app.Config{
		Store:     store.NewMemoryStore(),
		Files:     files,
		Extractor: extract.New(500),
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	s, err := New(Config{App: appCore, MaxUploadBytes: 1 << 20})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return s.Router()
}

func multipartUpload(t *testing.T, url, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestUploadPDFSuccess(t *testing.T) {
	handler := newTestServer(t)
	doc := pdftest.TextPages("Call me Ishmael.", "Some years ago.", "Never mind how long.")

	req := multipartUpload(t, "/upload-pdf?title=Moby+Dick&author=Melville", "moby.pdf", doc)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	var resp uploadResponse
	decodeJSON(t, rec, &resp)
	if resp.Status != "success" {
		t.Fatalf("status field = %q, want success", resp.Status)
	}
	if resp.TotalPages != 3 || resp.PagesWithErrors != 0 {
		t.Fatalf("unexpected page counts: %+v", resp)
	}
	if resp.BookID == 0 {
		t.Fatal("expected created book id")
	}
	if resp.Filename != "moby.pdf" {
		t.Fatalf("filename = %q, want moby.pdf", resp.Filename)
	}
	if resp.Metadata == nil || resp.Metadata.PageCount != 3 {
		t.Fatalf("unexpected metadata: %+v", resp.Metadata)
	}
}

func TestUploadPDFRejectsWrongExtension(t *testing.T) {
	handler := newTestServer(t)

	req := multipartUpload(t, "/upload-pdf", "notes.txt", []byte("plain text"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	decodeJSON(t, rec, &resp)
	if resp.Code != "PDF_INVALID_REQUEST" {
		t.Fatalf("error code = %q, want PDF_INVALID_REQUEST", resp.Code)
	}
}

func TestUploadPDFUnknownBook(t *testing.T) {
	handler := newTestServer(t)

	req := multipartUpload(t, "/upload-pdf?book_id=999", "book.pdf", pdftest.TextPages("page"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUploadPDFUnprocessableContainer(t *testing.T) {
	handler := newTestServer(t)

	req := multipartUpload(t, "/upload-pdf", "broken.pdf", []byte("%PDF-1.4 not a real pdf"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var resp errorResponse
	decodeJSON(t, rec, &resp)
	if resp.Code != "PDF_UNPROCESSABLE" {
		t.Fatalf("error code = %q, want PDF_UNPROCESSABLE", resp.Code)
	}
}

func TestGetPDFReturnsOrderedPages(t *testing.T) {
	handler := newTestServer(t)
	texts := []string{"first page", "second page"}

	req := multipartUpload(t, "/upload-pdf", "book.pdf", pdftest.TextPages(texts...))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d, want 200", rec.Code)
	}
	var uploaded uploadResponse
	decodeJSON(t, rec, &uploaded)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pdf/1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var resp getResponse
	decodeJSON(t, rec, &resp)
	if resp.BookID != uploaded.BookID {
		t.Fatalf("book id = %d, want %d", resp.BookID, uploaded.BookID)
	}
	if resp.TotalPages != len(texts) {
		t.Fatalf("total pages = %d, want %d", resp.TotalPages, len(texts))
	}
	for i, p := range resp.Pages {
		if p.PageNumber != i+1 {
			t.Fatalf("pages[%d].PageNumber = %d, want %d", i, p.PageNumber, i+1)
		}
		if p.Text != texts[i] {
			t.Fatalf("pages[%d].Text = %q, want %q", i, p.Text, texts[i])
		}
	}
}

func TestGetPDFNotFound(t *testing.T) {
	handler := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pdf/7", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeletePDFThenGetReturns404(t *testing.T) {
	handler := newTestServer(t)

	req := multipartUpload(t, "/upload-pdf", "book.pdf", pdftest.TextPages("a", "b", "c", "d", "e"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/pdf/1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}
	var resp map[string]string
	decodeJSON(t, rec, &resp)
	if resp["message"] != "PDF 1 and 5 pages deleted" {
		t.Fatalf("message = %q", resp["message"])
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/pdf/1", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pdf/1", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestHealthProbes(t *testing.T) {
	handler := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("root status = %d, want 200", rec.Code)
	}
	var root map[string]string
	decodeJSON(t, rec, &root)
	if root["version"] != Version {
		t.Fatalf("version = %q, want %q", root["version"], Version)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/db", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("db health status = %d, want 200", rec.Code)
	}
	var db map[string]string
	decodeJSON(t, rec, &db)
	if db["database"] != "connected" {
		t.Fatalf("database = %q, want connected", db["database"])
	}
}

func TestUploadPDFRejectsBadBookIDParam(t *testing.T) {
	handler := newTestServer(t)

	req := multipartUpload(t, "/upload-pdf?book_id=abc", "book.pdf", pdftest.TextPages("page"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
