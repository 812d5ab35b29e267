package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arkadas/facerec/internal/config"
	"github.com/arkadas/facerec/internal/embedder"
	"github.com/arkadas/facerec/internal/encodings"
	"github.com/arkadas/facerec/internal/enrollment"
	"github.com/arkadas/facerec/internal/facematch"
)

type noopDetector struct{}

func (noopDetector) DetectFaces(context.Context, []byte) (*embedder.FaceResponse, error) {
	return &embedder.FaceResponse{}, nil
}

func newTestServer(t *testing.T, apiKey string) *Server {
	t.Helper()
	store, err := encodings.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{}
	cfg.Server.APIKey = apiKey
	svc := enrollment.NewService(store, noopDetector{}, facematch.New(0.7))
	return NewServer(cfg, svc, store, 0, "127.0.0.1")
}

func TestProbeEndpoints(t *testing.T) {
	server := newTestServer(t, "")

	for _, path := range []string{"/", "/api/health", "/api/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		server.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Errorf("GET %s returned invalid JSON: %v", path, err)
		}
	}
}

func TestMutatingRoutesRequireAPIKey(t *testing.T) {
	server := newTestServer(t, "secret")

	protected := []struct{ method, path string }{
		{http.MethodPost, "/api/face/encode"},
		{http.MethodPost, "/api/face/encode-file"},
		{http.MethodPost, "/api/face/train"},
		{http.MethodDelete, "/api/face/user/alice"},
	}
	for _, route := range protected {
		req := httptest.NewRequest(route.method, route.path, strings.NewReader("{}"))
		rec := httptest.NewRecorder()
		server.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without key = %d, want 401", route.method, route.path, rec.Code)
		}
	}

	// Read paths stay open.
	req := httptest.NewRequest(http.MethodGet, "/api/face/users", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /api/face/users without key = %d, want 200", rec.Code)
	}
}

func TestDeleteWithAPIKey(t *testing.T) {
	server := newTestServer(t, "secret")

	req := httptest.NewRequest(http.MethodDelete, "/api/face/user/alice", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("authorized delete = %d, want 200 (idempotent)", rec.Code)
	}
}
