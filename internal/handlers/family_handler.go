package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"babytrack/internal/models"
	"babytrack/internal/service"
)

// FamilyHandler handles family, membership and invitation endpoints
type FamilyHandler struct {
	familyService *service.FamilyService
	logger        zerolog.Logger
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(familyService *service.FamilyService, logger zerolog.Logger) *FamilyHandler {
	return &FamilyHandler{familyService: familyService, logger: logger}
}

type familyResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"invite_code"`
	CreatedAt  time.Time `json:"created_at"`
}

type memberResponse struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type familyDetailResponse struct {
	familyResponse
	Members []memberResponse `json:"members"`
}

func toFamilyResponse(f *models.Family) familyResponse {
	return familyResponse{
		ID:         f.ID,
		Name:       f.Name,
		InviteCode: f.InviteCode,
		CreatedAt:  f.CreatedAt,
	}
}

// CreateFamily creates a family with the caller as admin
func (h *FamilyHandler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	family, err := h.familyService.CreateFamily(req.Name, user.ID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFamilyResponse(family))
}

// ListFamilies lists the caller's families
func (h *FamilyHandler) ListFamilies(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	families, err := h.familyService.GetUserFamilies(user.ID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	resp := make([]familyResponse, 0, len(families))
	for i := range families {
		resp = append(resp, toFamilyResponse(&families[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetFamily returns family detail including members
func (h *FamilyHandler) GetFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	familyID, ok := pathID(w, r, "familyID")
	if !ok {
		return
	}

	detail, err := h.familyService.GetFamilyDetail(user.ID, familyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	resp := familyDetailResponse{familyResponse: toFamilyResponse(&detail.Family)}
	for i := range detail.Members {
		resp.Members = append(resp.Members, memberResponse{
			UserID:   detail.Members[i].UserID,
			Username: detail.Users[i].Username,
			Role:     detail.Members[i].Role,
			JoinedAt: detail.Members[i].JoinedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// JoinFamily adds the caller to the family matching an invite code
func (h *FamilyHandler) JoinFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		InviteCode string `json:"invite_code"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	family, err := h.familyService.JoinFamily(req.InviteCode, user.ID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info().Int64("family_id", family.ID).Int64("user_id", user.ID).Msg("user joined family")
	writeJSON(w, http.StatusOK, toFamilyResponse(family))
}

// DeleteFamily removes a family and everything under it
func (h *FamilyHandler) DeleteFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	familyID, ok := pathID(w, r, "familyID")
	if !ok {
		return
	}

	if err := h.familyService.DeleteFamily(user.ID, familyID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegenerateInviteCode replaces the family invite code
func (h *FamilyHandler) RegenerateInviteCode(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	familyID, ok := pathID(w, r, "familyID")
	if !ok {
		return
	}

	code, err := h.familyService.RegenerateInviteCode(user.ID, familyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"invite_code": code})
}

// InviteMember emails a single-use invitation
func (h *FamilyHandler) InviteMember(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	familyID, ok := pathID(w, r, "familyID")
	if !ok {
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	invitation, err := h.familyService.InviteByEmail(r.Context(), user.ID, familyID, req.Email)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"code":       invitation.Code,
		"email":      invitation.Email,
		"expires_at": invitation.ExpiresAt,
	})
}

// RedeemInvitation joins the caller to the family behind an emailed
// invitation code
func (h *FamilyHandler) RedeemInvitation(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	code := r.PathValue("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "invalid invitation code")
		return
	}

	family, err := h.familyService.RedeemInvitation(code, user.ID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toFamilyResponse(family))
}
