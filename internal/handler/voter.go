package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"halalan/internal/model"
	"halalan/internal/store"
)

type VoterAdminHandler struct {
	voters *store.VoterStore
	logger *slog.Logger
}

func NewVoterAdminHandler(vs *store.VoterStore, logger *slog.Logger) *VoterAdminHandler {
	return &VoterAdminHandler{voters: vs, logger: logger.With("component", "voter_admin")}
}

// List handles GET /api/admin/voters
func (h *VoterAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	voters, err := h.voters.List()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if voters == nil {
		voters = []model.Voter{}
	}
	writeJSON(w, http.StatusOK, voters)
}

type createVoterRequest struct {
	Name           string `json:"name"`
	BatchYear      string `json:"batch_year"`
	CampusChapter  string `json:"campus_chapter"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	PrivacyConsent bool   `json:"privacy_consent"`
	PIN            string `json:"pin"`
}

// Create handles POST /api/admin/voters. The response carries the PIN in
// plaintext; it is never retrievable again.
func (h *VoterAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createVoterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		badRequest(w, "name is required")
		return
	}
	if req.PIN != "" && !isDigits(req.PIN) {
		badRequest(w, "pin must be numeric")
		return
	}

	voter, pin, err := h.voters.Create(req.Name, req.BatchYear, req.CampusChapter,
		req.Email, req.Phone, req.PrivacyConsent, req.PIN)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.logger.Info("voter registered", "voter", voter.VoterID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"voter": voter,
		"pin":   pin,
	})
}

type resetVotersRequest struct {
	ReshufflePins bool `json:"reshuffle_pins"`
}

// Reset handles POST /api/admin/reset-voters. With reshuffle_pins the new
// PINs come back in plaintext, once.
func (h *VoterAdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req resetVotersRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pins, err := h.voters.ResetAll(req.ReshufflePins)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.logger.Info("voters reset", "reshuffled", req.ReshufflePins)
	resp := map[string]any{"status": "reset"}
	if req.ReshufflePins {
		if pins == nil {
			pins = []store.VoterPIN{}
		}
		resp["pins"] = pins
	}
	writeJSON(w, http.StatusOK, resp)
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
