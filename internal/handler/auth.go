package handler

import (
	"log/slog"
	"net/http"
	"time"

	"halalan/internal/auth"
	"halalan/internal/store"
)

type AuthHandler struct {
	voters      *store.VoterStore
	admins      *store.AdminStore
	tokenSecret string
	logger      *slog.Logger
}

func NewAuthHandler(vs *store.VoterStore, as *store.AdminStore, tokenSecret string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		voters:      vs,
		admins:      as,
		tokenSecret: tokenSecret,
		logger:      logger.With("component", "auth"),
	}
}

type voterLoginRequest struct {
	VoterID string `json:"voter_id"`
	PIN     string `json:"pin"`
}

// VoterLogin handles POST /api/auth/login
func (h *AuthHandler) VoterLogin(w http.ResponseWriter, r *http.Request) {
	var req voterLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.VoterID == "" || req.PIN == "" {
		badRequest(w, "voter_id and pin are required")
		return
	}

	voter, token, err := h.voters.Authenticate(req.VoterID, req.PIN)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.logger.Info("voter login", "voter", voter.VoterID)
	writeJSON(w, http.StatusOK, map[string]any{
		"session_token": token,
		"voter":         voter,
	})
}

// VoterLogout handles POST /api/auth/logout
func (h *AuthHandler) VoterLogout(w http.ResponseWriter, r *http.Request) {
	voter := auth.VoterFrom(r.Context())
	if err := h.voters.EndSession(voter.ID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// VoterMe handles GET /api/auth/me
func (h *AuthHandler) VoterMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, auth.VoterFrom(r.Context()))
}

type consentRequest struct {
	PrivacyConsent bool `json:"privacy_consent"`
}

// VoterConsent handles POST /api/auth/consent
func (h *AuthHandler) VoterConsent(w http.ResponseWriter, r *http.Request) {
	voter := auth.VoterFrom(r.Context())
	var req consentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.voters.SetConsent(voter.ID, req.PrivacyConsent); err != nil {
		respondError(w, h.logger, err)
		return
	}
	voter.PrivacyConsent = req.PrivacyConsent
	writeJSON(w, http.StatusOK, voter)
}

// VoterFinish handles POST /api/auth/finish. The voter deactivates their
// own account once they are done; the session dies with it.
func (h *AuthHandler) VoterFinish(w http.ResponseWriter, r *http.Request) {
	voter := auth.VoterFrom(r.Context())
	if err := h.voters.Finish(voter.ID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	h.logger.Info("voter finished", "voter", voter.VoterID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "finished"})
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminLogin handles POST /api/admin/login
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		badRequest(w, "username and password are required")
		return
	}

	admin, err := h.admins.Authenticate(req.Username, req.Password)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	token, err := auth.MintAdminToken(admin.ID, []byte(h.tokenSecret), time.Now())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.logger.Info("admin login", "username", admin.Username)
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"admin":      admin,
		"expires_in": int(auth.AdminTokenTTL.Seconds()),
	})
}

// AdminMe handles GET /api/admin/me
func (h *AuthHandler) AdminMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, auth.AdminFrom(r.Context()))
}
