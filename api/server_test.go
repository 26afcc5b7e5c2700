package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matrixsmaster/NanoRVI/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(0, config.DefaultConfig())
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestCreateSessionAndGetStatus(t *testing.T) {
	s := newTestServer(t)

	createReq := httptest.NewRequest(http.MethodPost, "/api/v1/session", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, createReq)

	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", w.Code)
	}

	var created SessionCreateResponse
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.SessionID == "" {
		t.Fatal("expected non-empty session ID")
	}

	statusReq := httptest.NewRequest(http.MethodGet, "/api/v1/session/"+created.SessionID, nil)
	w2 := httptest.NewRecorder()
	s.Handler().ServeHTTP(w2, statusReq)

	if w2.Code != http.StatusOK {
		t.Fatalf("status lookup = %d, want 200", w2.Code)
	}
}

func TestUnknownSessionReturns404(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/session/does-not-exist", nil)
	w := httptest.NewRecorder()

	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestCorsAllowsLocalhostOrigin(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()

	s.Handler().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q, want http://localhost:3000", got)
	}
}
