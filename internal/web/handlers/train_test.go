package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/arkadas/facerec/internal/embedder"
)

// flakyDetector fails on scripted call indexes.
type flakyDetector struct {
	failOn map[int]bool
	calls  int
}

func (f *flakyDetector) DetectFaces(_ context.Context, _ []byte) (*embedder.FaceResponse, error) {
	i := f.calls
	f.calls++
	if f.failOn[i] {
		return &fakeNoFaces, nil
	}
	return singleFace([]float32{1, 0}), nil
}

func TestTrain(t *testing.T) {
	router, store := newTestRouter(t, &fakeDetector{resp: singleFace([]float32{1, 0})})

	rec := postJSON(t, router, "/api/face/train", TrainRequest{
		UserID:       "alice",
		DisplayName:  "Alice",
		ImagesBase64: []string{imageB64, imageB64, imageB64},
	})
	assertStatus(t, rec, http.StatusOK)

	resp := parseJSON[TrainResponse](t, rec)
	if !resp.Success || resp.ImagesProcessed != 3 || resp.ImagesTotal != 3 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Message != "Processed 3/3 images" {
		t.Errorf("message = %q", resp.Message)
	}
	if rec := store.Get("alice"); len(rec.Embeddings) != 3 {
		t.Errorf("stored %d embeddings, want 3", len(rec.Embeddings))
	}
}

func TestTrainPartialFailure(t *testing.T) {
	router, store := newTestRouter(t, &flakyDetector{failOn: map[int]bool{1: true}})

	rec := postJSON(t, router, "/api/face/train", TrainRequest{
		UserID:       "alice",
		ImagesBase64: []string{imageB64, imageB64, imageB64},
	})
	assertStatus(t, rec, http.StatusOK)

	resp := parseJSON[TrainResponse](t, rec)
	if !resp.Success {
		t.Error("expected success with partial failures")
	}
	if resp.ImagesProcessed != 2 || resp.ImagesTotal != 3 {
		t.Errorf("processed %d/%d, want 2/3", resp.ImagesProcessed, resp.ImagesTotal)
	}
	if rec := store.Get("alice"); len(rec.Embeddings) != 2 {
		t.Errorf("stored %d embeddings, want 2", len(rec.Embeddings))
	}
}

func TestTrainUndecodableImageCounted(t *testing.T) {
	router, _ := newTestRouter(t, &fakeDetector{resp: singleFace([]float32{1, 0})})

	rec := postJSON(t, router, "/api/face/train", TrainRequest{
		UserID:       "alice",
		ImagesBase64: []string{imageB64, "!!! not base64 !!!"},
	})
	assertStatus(t, rec, http.StatusOK)

	resp := parseJSON[TrainResponse](t, rec)
	if resp.ImagesTotal != 2 {
		t.Errorf("total = %d, want 2 (bad image still counts)", resp.ImagesTotal)
	}
}

func TestTrainValidation(t *testing.T) {
	router, _ := newTestRouter(t, &fakeDetector{resp: singleFace([]float32{1, 0})})

	rec := postJSON(t, router, "/api/face/train", TrainRequest{ImagesBase64: []string{imageB64}})
	assertStatus(t, rec, http.StatusBadRequest)

	rec = postJSON(t, router, "/api/face/train", TrainRequest{UserID: "alice"})
	assertStatus(t, rec, http.StatusBadRequest)
}
