package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// TrainRequest is a request to enroll multiple images for one user.
type TrainRequest struct {
	UserID       string   `json:"user_id"`
	DisplayName  string   `json:"display_name,omitempty"`
	ImagesBase64 []string `json:"images_base64"`
}

// TrainResponse reports a batch enrollment run.
type TrainResponse struct {
	Success         bool   `json:"success"`
	UserID          string `json:"user_id"`
	ImagesProcessed int    `json:"images_processed"`
	ImagesTotal     int    `json:"images_total"`
	Message         string `json:"message"`
}

// Train enrolls a list of base64 images for one user. Individual image
// failures are tolerated; the response reports how many images made it.
func (h *FaceHandler) Train(w http.ResponseWriter, r *http.Request) {
	var req TrainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if len(req.ImagesBase64) == 0 {
		respondError(w, http.StatusBadRequest, "images_base64 is required")
		return
	}

	// Images that fail to decode still count toward the total; they are
	// failures of this batch, not of the request.
	images := make([][]byte, 0, len(req.ImagesBase64))
	for _, payload := range req.ImagesBase64 {
		img, err := decodeImagePayload(payload)
		if err != nil {
			img = nil
		}
		images = append(images, img)
	}

	result := h.svc.Train(r.Context(), req.UserID, req.DisplayName, images)
	respondJSON(w, http.StatusOK, TrainResponse{
		Success:         result.Success,
		UserID:          result.UserID,
		ImagesProcessed: result.Processed,
		ImagesTotal:     result.Total,
		Message:         fmt.Sprintf("Processed %d/%d images", result.Processed, result.Total),
	})
}
