package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"babytrack/internal/models"
	"babytrack/internal/security"
	"babytrack/internal/service"
)

// BabyHandler handles baby management and the visible-babies listing
type BabyHandler struct {
	familyService *service.FamilyService
	permService   *service.PermissionService
	logger        zerolog.Logger
}

// NewBabyHandler creates a new baby handler
func NewBabyHandler(familyService *service.FamilyService, permService *service.PermissionService, logger zerolog.Logger) *BabyHandler {
	return &BabyHandler{
		familyService: familyService,
		permService:   permService,
		logger:        logger,
	}
}

type babyRequest struct {
	Name     string     `json:"name"`
	Birthday *time.Time `json:"birthday"`
	DueDate  *time.Time `json:"due_date"`
}

type babyResponse struct {
	ID       int64      `json:"id"`
	FamilyID int64      `json:"family_id"`
	Name     string     `json:"name"`
	Birthday *time.Time `json:"birthday"`
	DueDate  *time.Time `json:"due_date"`
	IsBorn   bool       `json:"is_born"`
}

func toBabyResponse(b *models.Baby) babyResponse {
	return babyResponse{
		ID:       b.ID,
		FamilyID: b.FamilyID,
		Name:     b.Name,
		Birthday: b.Birthday,
		DueDate:  b.DueDate,
		IsBorn:   b.IsBorn(),
	}
}

// CreateBaby adds a baby to a family
func (h *BabyHandler) CreateBaby(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	familyID, ok := pathID(w, r, "familyID")
	if !ok {
		return
	}

	var req babyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	baby, err := h.familyService.CreateBaby(user.ID, familyID, req.Name, req.Birthday, req.DueDate)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBabyResponse(baby))
}

// ListBabies lists the family's babies the caller may see. Visibility comes
// from the batched basic-info permission lookup, so members without an
// explicit grant see nothing.
func (h *BabyHandler) ListBabies(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	familyID, ok := pathID(w, r, "familyID")
	if !ok {
		return
	}

	babies, err := h.familyService.GetFamilyBabies(user.ID, familyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	babyIDs := make([]int64, 0, len(babies))
	for i := range babies {
		babyIDs = append(babyIDs, babies[i].ID)
	}
	visible, err := h.permService.GetUserPermissionsBatch(user.ID, babyIDs, familyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	resp := make([]babyResponse, 0, len(babies))
	for i := range babies {
		if visible[babies[i].ID] {
			resp = append(resp, toBabyResponse(&babies[i]))
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetBaby returns one baby's basic info
func (h *BabyHandler) GetBaby(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}

	baby, err := h.permService.RequireViewAccess(user.ID, babyID, models.RecordBasicInfo)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toBabyResponse(baby))
}

// UpdateBaby edits a baby's name and dates
func (h *BabyHandler) UpdateBaby(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}

	var req babyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	baby, err := h.familyService.UpdateBaby(user.ID, babyID, req.Name, req.Birthday, req.DueDate)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toBabyResponse(baby))
}

// DeleteBaby removes a baby and its records
func (h *BabyHandler) DeleteBaby(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}

	if err := h.familyService.DeleteBaby(user.ID, babyID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectBaby remembers the caller's last-viewed baby in a convenience
// cookie. Non-sensitive; the real access check happens on every read.
func (h *BabyHandler) SelectBaby(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}

	baby, err := h.permService.RequireViewAccess(user.ID, babyID, models.RecordBasicInfo)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	cookie := security.CreateSessionCookie(r, security.SelectedBabyCookieName, r.PathValue("babyID"), time.Now().Add(365*24*time.Hour))
	cookie.HttpOnly = false
	http.SetCookie(w, cookie)
	writeJSON(w, http.StatusOK, toBabyResponse(baby))
}
