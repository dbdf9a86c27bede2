package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"babytrack/internal/models"
	"babytrack/internal/service"
)

// DiaperHandler handles diaper change endpoints
type DiaperHandler struct {
	diaperService *service.DiaperService
	logger        zerolog.Logger
}

// NewDiaperHandler creates a new diaper handler
func NewDiaperHandler(diaperService *service.DiaperService, logger zerolog.Logger) *DiaperHandler {
	return &DiaperHandler{diaperService: diaperService, logger: logger}
}

type diaperRequest struct {
	ChangeTime *time.Time `json:"change_time"`
	DiaperType *string    `json:"diaper_type"`
	Notes      *string    `json:"notes"`
}

type diaperResponse struct {
	ID         int64     `json:"id"`
	BabyID     int64     `json:"baby_id"`
	UserID     int64     `json:"user_id"`
	ChangeTime time.Time `json:"change_time"`
	DiaperType string    `json:"diaper_type"`
	Notes      *string   `json:"notes"`
}

func toDiaperResponse(d *models.Diaper) diaperResponse {
	return diaperResponse{
		ID:         d.ID,
		BabyID:     d.BabyID,
		UserID:     d.UserID,
		ChangeTime: d.ChangeTime,
		DiaperType: string(d.DiaperType),
		Notes:      d.Notes,
	}
}

// CreateDiaper records a diaper change
func (h *DiaperHandler) CreateDiaper(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}

	var req diaperRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.DiaperType == nil {
		writeError(w, http.StatusBadRequest, "diaper_type is required")
		return
	}
	changeTime := time.Now()
	if req.ChangeTime != nil {
		changeTime = *req.ChangeTime
	}

	diaper, err := h.diaperService.CreateDiaper(user.ID, babyID, changeTime, models.DiaperType(*req.DiaperType), req.Notes)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDiaperResponse(diaper))
}

// ListDiapers returns the baby's recent diaper changes
func (h *DiaperHandler) ListDiapers(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}

	diapers, err := h.diaperService.ListDiapers(user.ID, babyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	resp := make([]diaperResponse, 0, len(diapers))
	for i := range diapers {
		resp = append(resp, toDiaperResponse(&diapers[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateDiaper applies a partial edit
func (h *DiaperHandler) UpdateDiaper(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}
	diaperID, ok := pathID(w, r, "recordID")
	if !ok {
		return
	}

	var req diaperRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	update := service.DiaperUpdate{
		ChangeTime: req.ChangeTime,
		Notes:      req.Notes,
	}
	if req.DiaperType != nil {
		dt := models.DiaperType(*req.DiaperType)
		update.DiaperType = &dt
	}

	diaper, err := h.diaperService.UpdateDiaper(user.ID, babyID, diaperID, update)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toDiaperResponse(diaper))
}

// DeleteDiaper removes a diaper change record
func (h *DiaperHandler) DeleteDiaper(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}
	diaperID, ok := pathID(w, r, "recordID")
	if !ok {
		return
	}

	if err := h.diaperService.DeleteDiaper(user.ID, babyID, diaperID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
