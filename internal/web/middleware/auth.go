package middleware

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyHeader is the header carrying the service API key.
const APIKeyHeader = "X-API-Key"

// RequireAPIKey is middleware that checks the X-API-Key header against the
// configured key. When no key is configured, authentication is disabled and
// every request passes (dev mode; the serve command warns about this at
// startup).
func RequireAPIKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(APIKeyHeader)
			if provided == "" {
				w.Header().Set("WWW-Authenticate", "ApiKey")
				http.Error(w, `{"error": "unauthorized", "message": "API key is required. Provide X-API-Key header."}`, http.StatusUnauthorized)
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				w.Header().Set("WWW-Authenticate", "ApiKey")
				http.Error(w, `{"error": "unauthorized", "message": "Invalid API key."}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
