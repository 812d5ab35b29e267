// Package handlers contains the HTTP handlers for the face recognition API.
package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/arkadas/facerec/internal/encodings"
	"github.com/arkadas/facerec/internal/enrollment"
	"github.com/arkadas/facerec/internal/identity"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// MaxUploadSize limits multipart uploads to 10 MiB.
const MaxUploadSize = 10 << 20

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondCoreError translates a core error into an HTTP status and a safe
// message. Internal details (paths, wrapped causes) never reach the wire for
// server-side failures.
func respondCoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrInvalidIdentity), errors.Is(err, identity.ErrPathTraversal):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, enrollment.ErrNoFaceDetected), errors.Is(err, enrollment.ErrEmbeddingFailure):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, encodings.ErrPersistence):
		respondError(w, http.StatusInternalServerError, "failed to save encodings")
	default:
		respondError(w, http.StatusBadGateway, "embedding service unavailable")
	}
}

// decodeImagePayload decodes a base64 image, tolerating an optional data-URL
// prefix ("data:image/jpeg;base64,...").
func decodeImagePayload(s string) ([]byte, error) {
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[i+1:]
	}
	return base64.StdEncoding.DecodeString(s)
}

// ServiceInfo handles the root endpoint.
func ServiceInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"service": "face-recognition",
		"version": "1.0.0",
	})
}

// Health handles the health check endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "face-recognition",
	})
}

// Ready handles the readiness probe.
func Ready(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
