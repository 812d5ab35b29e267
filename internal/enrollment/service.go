// Package enrollment orchestrates the face workflows: run an image through
// the embedding server, store the result, and answer identification queries.
package enrollment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/arkadas/facerec/internal/embedder"
	"github.com/arkadas/facerec/internal/encodings"
	"github.com/arkadas/facerec/internal/facematch"
)

var (
	// ErrNoFaceDetected indicates the image contained no detectable face.
	ErrNoFaceDetected = errors.New("no face detected in image")
	// ErrEmbeddingFailure indicates a face was detected but no usable
	// embedding came back.
	ErrEmbeddingFailure = errors.New("could not compute face embedding")
)

// FaceDetector is the slice of the embedding server client the service
// needs. It exists so tests can substitute a fake.
type FaceDetector interface {
	DetectFaces(ctx context.Context, imageData []byte) (*embedder.FaceResponse, error)
}

// Service wires the embedding server, the encoding store, and the matcher.
type Service struct {
	store    *encodings.Store
	detector FaceDetector
	matcher  *facematch.Matcher
}

// NewService creates an enrollment service.
func NewService(store *encodings.Store, detector FaceDetector, matcher *facematch.Matcher) *Service {
	return &Service{
		store:    store,
		detector: detector,
		matcher:  matcher,
	}
}

// Outcome reports a single successful enrollment.
type Outcome struct {
	UserID         string `json:"user_id"`
	EncodingID     string `json:"encoding_id"`
	FaceCount      int    `json:"face_count"`
	EmbeddingCount int    `json:"embedding_count"`
}

// Enroll runs one image through the embedding server and appends the result
// to the user's record. When the image contains several faces only the first
// detection is enrolled; FaceCount reports how many were seen so callers can
// warn about multi-face images.
func (s *Service) Enroll(ctx context.Context, image []byte, userID, displayName string) (*Outcome, error) {
	resp, err := s.detector.DetectFaces(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("detecting faces: %w", err)
	}
	if len(resp.Faces) == 0 {
		return nil, ErrNoFaceDetected
	}

	first := resp.Faces[0]
	if len(first.Embedding) == 0 {
		return nil, ErrEmbeddingFailure
	}

	rec, err := s.store.AppendEmbedding(userID, first.Embedding, displayName)
	if err != nil {
		return nil, err
	}
	return &Outcome{
		UserID:         rec.Identity,
		EncodingID:     uuid.NewString(),
		FaceCount:      resp.FacesCount,
		EmbeddingCount: rec.Meta.EmbeddingCount,
	}, nil
}

// TrainResult reports a batch enrollment run.
type TrainResult struct {
	UserID    string `json:"user_id"`
	Processed int    `json:"images_processed"`
	Total     int    `json:"images_total"`
	Success   bool   `json:"success"`
}

// Train enrolls a list of images for one user, in order. Individual
// failures (no face, bad image, embedding server error) are counted and
// skipped; the run always processes every image. Success means at least one
// image was enrolled.
func (s *Service) Train(ctx context.Context, userID, displayName string, images [][]byte) *TrainResult {
	result := &TrainResult{UserID: userID, Total: len(images)}
	for _, img := range images {
		if _, err := s.Enroll(ctx, img, userID, displayName); err != nil {
			continue
		}
		result.Processed++
	}
	result.Success = result.Processed > 0
	return result
}

// IdentifyResult reports a match query. Model names the embedding model the
// server used, when it reports one.
type IdentifyResult struct {
	Matches   []facematch.Candidate `json:"matches"`
	BestMatch *facematch.Candidate  `json:"best_match"`
	FaceCount int                   `json:"face_count"`
	Model     string                `json:"model,omitempty"`
}

// Identify detects faces in the image and matches the first one against the
// enrolled population. An empty population yields an empty match list, not
// an error.
func (s *Service) Identify(ctx context.Context, image []byte) (*IdentifyResult, error) {
	resp, err := s.detector.DetectFaces(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("detecting faces: %w", err)
	}
	if len(resp.Faces) == 0 {
		return nil, ErrNoFaceDetected
	}

	first := resp.Faces[0]
	if len(first.Embedding) == 0 {
		return nil, ErrEmbeddingFailure
	}

	matches := s.matcher.Match(first.Embedding, s.store.Snapshot())
	result := &IdentifyResult{
		Matches:   matches,
		FaceCount: resp.FacesCount,
		Model:     resp.Model,
	}
	if len(matches) > 0 {
		result.BestMatch = &matches[0]
	}
	return result, nil
}
