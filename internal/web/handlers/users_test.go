package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func enrollUser(t *testing.T, router http.Handler, userID, displayName string) {
	t.Helper()
	rec := postJSON(t, router, "/api/face/encode", EncodeRequest{
		ImageBase64: imageB64,
		UserID:      userID,
		DisplayName: displayName,
	})
	assertStatus(t, rec, http.StatusOK)
}

func listUsers(t *testing.T, router http.Handler, query string) UsersResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/face/users"+query, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assertStatus(t, rec, http.StatusOK)
	return parseJSON[UsersResponse](t, rec)
}

func TestListUsers(t *testing.T) {
	router, _ := newTestRouter(t, &fakeDetector{resp: singleFace([]float32{1, 0})})

	enrollUser(t, router, "alice", "Alice")
	enrollUser(t, router, "bob", "Bob")

	resp := listUsers(t, router, "")
	if resp.Count != 2 || len(resp.Users) != 2 {
		t.Fatalf("count = %d, len = %d, want 2/2", resp.Count, len(resp.Users))
	}
	if resp.Users[0].UserID != "alice" || resp.Users[1].UserID != "bob" {
		t.Errorf("order = %s, %s; want enrollment order", resp.Users[0].UserID, resp.Users[1].UserID)
	}
	if resp.Users[0].EmbeddingCount != 1 {
		t.Errorf("embedding count = %d, want 1", resp.Users[0].EmbeddingCount)
	}
}

func TestListUsersEmpty(t *testing.T) {
	router, _ := newTestRouter(t, &fakeDetector{resp: singleFace([]float32{1, 0})})

	resp := listUsers(t, router, "")
	if resp.Count != 0 {
		t.Errorf("count = %d, want 0", resp.Count)
	}
}

func TestListUsersFilter(t *testing.T) {
	router, _ := newTestRouter(t, &fakeDetector{resp: singleFace([]float32{1, 0})})

	enrollUser(t, router, "muge", "Müge")
	enrollUser(t, router, "bob", "Bob")

	// Diacritics-insensitive: plain "muge" finds "Müge".
	resp := listUsers(t, router, "?q=muge")
	if resp.Count != 1 || resp.Users[0].UserID != "muge" {
		t.Errorf("filter result = %+v, want only muge", resp.Users)
	}

	resp = listUsers(t, router, "?q=nobody")
	if resp.Count != 0 {
		t.Errorf("filter for absent name returned %d users", resp.Count)
	}
}

func TestDeleteUser(t *testing.T) {
	router, store := newTestRouter(t, &fakeDetector{resp: singleFace([]float32{1, 0})})

	enrollUser(t, router, "alice", "")

	req := httptest.NewRequest(http.MethodDelete, "/api/face/user/alice", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assertStatus(t, rec, http.StatusOK)

	if store.Get("alice") != nil {
		t.Error("user still present after delete")
	}

	// Deleting again still succeeds.
	req = httptest.NewRequest(http.MethodDelete, "/api/face/user/alice", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assertStatus(t, rec, http.StatusOK)
}

func TestDeleteUserInvalidID(t *testing.T) {
	router, _ := newTestRouter(t, &fakeDetector{resp: singleFace([]float32{1, 0})})

	req := httptest.NewRequest(http.MethodDelete, "/api/face/user/bad%21id", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assertStatus(t, rec, http.StatusBadRequest)
}
