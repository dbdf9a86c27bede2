package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"babytrack/internal/models"
	"babytrack/internal/service"
)

// ContractionHandler handles labor contraction endpoints
type ContractionHandler struct {
	contractionService *service.ContractionService
	logger             zerolog.Logger
}

// NewContractionHandler creates a new contraction handler
func NewContractionHandler(contractionService *service.ContractionService, logger zerolog.Logger) *ContractionHandler {
	return &ContractionHandler{contractionService: contractionService, logger: logger}
}

type contractionResponse struct {
	ID              int64      `json:"id"`
	BabyID          int64      `json:"baby_id"`
	UserID          int64      `json:"user_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationSeconds *int       `json:"duration_seconds"`
	IntervalSeconds *int       `json:"interval_seconds"`
	DurationDisplay string     `json:"duration_display"`
	IntervalDisplay string     `json:"interval_display"`
	Ongoing         bool       `json:"ongoing"`
	Notes           *string    `json:"notes"`
}

func toContractionResponse(c *models.Contraction) contractionResponse {
	return contractionResponse{
		ID:              c.ID,
		BabyID:          c.BabyID,
		UserID:          c.UserID,
		StartTime:       c.StartTime,
		EndTime:         c.EndTime,
		DurationSeconds: c.DurationSeconds,
		IntervalSeconds: c.IntervalSeconds,
		DurationDisplay: c.DurationDisplay(),
		IntervalDisplay: c.IntervalDisplay(),
		Ongoing:         c.IsOngoing(),
		Notes:           c.Notes,
	}
}

// StartContraction begins a contraction
func (h *ContractionHandler) StartContraction(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}

	var req struct {
		StartTime *time.Time `json:"start_time"`
		Notes     *string    `json:"notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	startTime := time.Now()
	if req.StartTime != nil {
		startTime = *req.StartTime
	}

	contraction, err := h.contractionService.StartContraction(user.ID, babyID, startTime, req.Notes)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toContractionResponse(contraction))
}

// EndContraction completes a contraction
func (h *ContractionHandler) EndContraction(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}
	contractionID, ok := pathID(w, r, "recordID")
	if !ok {
		return
	}

	var req struct {
		EndTime *time.Time `json:"end_time"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	endTime := time.Now()
	if req.EndTime != nil {
		endTime = *req.EndTime
	}

	contraction, err := h.contractionService.EndContraction(user.ID, babyID, contractionID, endTime)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toContractionResponse(contraction))
}

// GetOngoingContraction returns the in-progress contraction, or null
func (h *ContractionHandler) GetOngoingContraction(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}

	contraction, err := h.contractionService.GetOngoingContraction(user.ID, babyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if contraction == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, toContractionResponse(contraction))
}

// ListContractions returns the baby's recent contractions
func (h *ContractionHandler) ListContractions(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}

	contractions, err := h.contractionService.ListContractions(user.ID, babyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	resp := make([]contractionResponse, 0, len(contractions))
	for i := range contractions {
		resp = append(resp, toContractionResponse(&contractions[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteContraction removes a contraction record
func (h *ContractionHandler) DeleteContraction(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}
	contractionID, ok := pathID(w, r, "recordID")
	if !ok {
		return
	}

	if err := h.contractionService.DeleteContraction(user.ID, babyID, contractionID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
