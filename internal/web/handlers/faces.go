package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/arkadas/facerec/internal/encodings"
	"github.com/arkadas/facerec/internal/enrollment"
	"github.com/arkadas/facerec/internal/facematch"
)

// FaceHandler handles face enrollment and matching endpoints.
type FaceHandler struct {
	svc   *enrollment.Service
	store *encodings.Store
}

// NewFaceHandler creates a new face handler.
func NewFaceHandler(svc *enrollment.Service, store *encodings.Store) *FaceHandler {
	return &FaceHandler{
		svc:   svc,
		store: store,
	}
}

// EncodeRequest is a request to enroll a face from a base64 image.
type EncodeRequest struct {
	ImageBase64 string `json:"image_base64"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
}

// EncodeResponse reports a single enrollment.
type EncodeResponse struct {
	Success        bool   `json:"success"`
	UserID         string `json:"user_id"`
	EncodingID     string `json:"encoding_id,omitempty"`
	FaceCount      int    `json:"face_count"`
	EmbeddingCount int    `json:"embedding_count"`
	Message        string `json:"message"`
}

// Encode enrolls a face from a base64-encoded image.
func (h *FaceHandler) Encode(w http.ResponseWriter, r *http.Request) {
	var req EncodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	image, err := decodeImagePayload(req.ImageBase64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid base64 image")
		return
	}

	h.enroll(w, r, image, req.UserID, req.DisplayName)
}

// EncodeFile enrolls a face from an uploaded image file.
func (h *FaceHandler) EncodeFile(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	image, ok := readUploadedImage(w, r)
	if !ok {
		return
	}
	h.enroll(w, r, image, userID, r.URL.Query().Get("display_name"))
}

// enroll runs the enrollment pipeline and writes the outcome.
func (h *FaceHandler) enroll(w http.ResponseWriter, r *http.Request, image []byte, userID, displayName string) {
	outcome, err := h.svc.Enroll(r.Context(), image, userID, displayName)
	if err != nil {
		if errors.Is(err, enrollment.ErrNoFaceDetected) {
			respondJSON(w, http.StatusUnprocessableEntity, EncodeResponse{
				UserID:  userID,
				Message: "No faces detected in image",
			})
			return
		}
		log.Printf("encode failed for user %q: %v", sanitizeForLog(userID), err)
		respondCoreError(w, err)
		return
	}

	if outcome.FaceCount > 1 {
		log.Printf("image for user %q contained %d faces; enrolled the first", sanitizeForLog(userID), outcome.FaceCount)
	}
	respondJSON(w, http.StatusOK, EncodeResponse{
		Success:        true,
		UserID:         outcome.UserID,
		EncodingID:     outcome.EncodingID,
		FaceCount:      outcome.FaceCount,
		EmbeddingCount: outcome.EmbeddingCount,
		Message:        "Face encoded",
	})
}

// MatchRequest is a request to match a face against the enrolled population.
type MatchRequest struct {
	ImageBase64 string `json:"image_base64"`
}

// MatchResponse reports the ranked match candidates.
type MatchResponse struct {
	Success   bool                  `json:"success"`
	Matches   []facematch.Candidate `json:"matches"`
	BestMatch *facematch.Candidate  `json:"best_match"`
	FaceCount int                   `json:"face_count"`
	Message   string                `json:"message"`
}

// Match matches a base64-encoded image against all enrolled users.
func (h *FaceHandler) Match(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	image, err := decodeImagePayload(req.ImageBase64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid base64 image")
		return
	}

	h.identify(w, r, image)
}

// MatchFile matches an uploaded image file against all enrolled users.
func (h *FaceHandler) MatchFile(w http.ResponseWriter, r *http.Request) {
	image, ok := readUploadedImage(w, r)
	if !ok {
		return
	}
	h.identify(w, r, image)
}

func (h *FaceHandler) identify(w http.ResponseWriter, r *http.Request, image []byte) {
	result, err := h.svc.Identify(r.Context(), image)
	if err != nil {
		if errors.Is(err, enrollment.ErrNoFaceDetected) {
			respondJSON(w, http.StatusUnprocessableEntity, MatchResponse{
				Matches: []facematch.Candidate{},
				Message: "No faces detected in image",
			})
			return
		}
		respondCoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, MatchResponse{
		Success:   true,
		Matches:   result.Matches,
		BestMatch: result.BestMatch,
		FaceCount: result.FaceCount,
		Message:   matchMessage(len(result.Matches)),
	})
}

func matchMessage(n int) string {
	if n == 0 {
		return "No matches found"
	}
	return fmt.Sprintf("Found %d matches", n)
}

// readUploadedImage extracts the image bytes from a multipart upload.
// On failure it writes the error response and returns ok=false.
func readUploadedImage(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return nil, false
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, MaxUploadSize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read file")
		return nil, false
	}
	return image, true
}
