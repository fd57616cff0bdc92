package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWithRequestIDKeepsClientSuppliedID(t *testing.T) {
	const supplied = "client-id-42"
	var seen string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromRequest(r)
	}))

	req := httptest.NewRequest(http.MethodPost, "/upload-pdf", nil)
	req.Header.Set("X-Request-Id", supplied)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != supplied {
		t.Fatalf("context request id = %q, want %q", seen, supplied)
	}
	if got := rec.Header().Get("X-Request-Id"); got != supplied {
		t.Fatalf("response request id = %q, want %q", got, supplied)
	}
}

func TestWithRequestIDGeneratesID(t *testing.T) {
	var seen string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromRequest(r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/db", nil))

	if seen == "" {
		t.Fatal("expected generated request id in context")
	}
	if got := rec.Header().Get("X-Request-Id"); got != seen {
		t.Fatalf("response request id = %q, want %q from context", got, seen)
	}
}

func TestRequestIDFromContextEmptyWhenUnset(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := RequestIDFromRequest(req); got != "" {
		t.Fatalf("request id = %q, want empty without middleware", got)
	}
}
