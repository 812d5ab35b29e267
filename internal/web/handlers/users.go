package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/arkadas/facerec/internal/encodings"
	"github.com/arkadas/facerec/internal/facematch"
)

// UsersResponse lists every enrolled user.
type UsersResponse struct {
	Users []encodings.Summary `json:"users"`
	Count int                 `json:"count"`
}

// ListUsers returns every enrolled user with their metadata. An optional
// ?q= parameter filters by user id or display name, diacritics-insensitive.
func (h *FaceHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users := h.store.ListAll()

	if q := r.URL.Query().Get("q"); q != "" {
		needle := facematch.NormalizeDisplayName(q)
		filtered := users[:0]
		for _, u := range users {
			if strings.Contains(facematch.NormalizeDisplayName(u.UserID), needle) ||
				strings.Contains(facematch.NormalizeDisplayName(u.DisplayName), needle) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	respondJSON(w, http.StatusOK, UsersResponse{
		Users: users,
		Count: len(users),
	})
}

// DeleteUser removes all encodings for a user. Deleting a user that was
// never enrolled succeeds; the operation is idempotent.
func (h *FaceHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if err := h.store.Delete(userID); err != nil {
		log.Printf("delete failed for user %q: %v", sanitizeForLog(userID), err)
		respondCoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Encodings deleted for user %s", userID),
	})
}
