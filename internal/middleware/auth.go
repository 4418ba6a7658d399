package middleware

import (
	"encoding/json"
	"net/http"

	"halalan/internal/auth"
	"halalan/internal/store"
)

const (
	sessionTokenHeader = "X-Session-Token"
	adminTokenHeader   = "X-Admin-Token"
)

// VoterAuth resolves the X-Session-Token header to a voter and puts it on
// the request context. Requests without a valid token get 401.
func VoterAuth(voters *store.VoterStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(sessionTokenHeader)
			if token == "" {
				unauthorized(w, "voter session required")
				return
			}
			voter, err := voters.GetBySessionToken(token)
			if err != nil {
				serverError(w)
				return
			}
			if voter == nil {
				unauthorized(w, "invalid or expired session")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithVoter(r.Context(), voter)))
		})
	}
}

// AdminAuth verifies the X-Admin-Token header and puts the admin on the
// request context. The admin row must still exist and be active.
func AdminAuth(admins *store.AdminStore, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(adminTokenHeader)
			if token == "" {
				unauthorized(w, "admin token required")
				return
			}
			adminID, err := auth.VerifyAdminToken(token, []byte(secret))
			if err != nil {
				unauthorized(w, "invalid or expired admin token")
				return
			}
			admin, err := admins.GetByID(adminID)
			if err != nil {
				serverError(w)
				return
			}
			if admin == nil {
				unauthorized(w, "invalid or expired admin token")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithAdmin(r.Context(), admin)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": "unauthenticated"})
}

func serverError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error", "code": "internal_error"})
}
