package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/arkadas/facerec/internal/embedder"
	"github.com/arkadas/facerec/internal/encodings"
	"github.com/arkadas/facerec/internal/enrollment"
	"github.com/arkadas/facerec/internal/facematch"
)

// fakeDetector returns a scripted response for every call. When respErr is
// set the call fails instead.
type fakeDetector struct {
	resp    *embedder.FaceResponse
	respErr error
}

func (f *fakeDetector) DetectFaces(_ context.Context, _ []byte) (*embedder.FaceResponse, error) {
	if f.respErr != nil {
		return nil, f.respErr
	}
	return f.resp, nil
}

// fakeNoFaces is a valid server answer with zero detections.
var fakeNoFaces = embedder.FaceResponse{Model: "dlib"}

func singleFace(embedding []float32) *embedder.FaceResponse {
	return &embedder.FaceResponse{
		FacesCount: 1,
		Faces:      []embedder.FaceDetection{{Dim: len(embedding), Embedding: embedding, DetScore: 0.9}},
		Model:      "dlib",
	}
}

// newTestRouter wires a FaceHandler onto the API routes with a fake embedding
// server behind it.
func newTestRouter(t *testing.T, detector enrollment.FaceDetector) (*chi.Mux, *encodings.Store) {
	t.Helper()

	store, err := encodings.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}
	svc := enrollment.NewService(store, detector, facematch.New(0.7))
	h := NewFaceHandler(svc, store)

	r := chi.NewRouter()
	r.Route("/api/face", func(r chi.Router) {
		r.Post("/encode", h.Encode)
		r.Post("/encode-file", h.EncodeFile)
		r.Post("/match", h.Match)
		r.Post("/match-file", h.MatchFile)
		r.Post("/train", h.Train)
		r.Get("/users", h.ListUsers)
		r.Delete("/user/{userID}", h.DeleteUser)
	})
	return r, store
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func postFile(t *testing.T, router http.Handler, path string, image []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "face.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(image); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, want, rec.Body.String())
	}
}

func parseJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("parsing response %q: %v", rec.Body.String(), err)
	}
	return out
}
