package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"babytrack/internal/models"
	"babytrack/internal/service"
)

// SleepHandler handles sleep session endpoints
type SleepHandler struct {
	sleepService *service.SleepService
	logger       zerolog.Logger
}

// NewSleepHandler creates a new sleep handler
func NewSleepHandler(sleepService *service.SleepService, logger zerolog.Logger) *SleepHandler {
	return &SleepHandler{sleepService: sleepService, logger: logger}
}

type sleepResponse struct {
	ID              int64      `json:"id"`
	BabyID          int64      `json:"baby_id"`
	UserID          int64      `json:"user_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationMinutes int        `json:"duration_minutes"`
	Ongoing         bool       `json:"ongoing"`
	Notes           *string    `json:"notes"`
}

func toSleepResponse(s *models.Sleep) sleepResponse {
	return sleepResponse{
		ID:              s.ID,
		BabyID:          s.BabyID,
		UserID:          s.UserID,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		DurationMinutes: s.DurationMinutes(),
		Ongoing:         s.IsOngoing(),
		Notes:           s.Notes,
	}
}

// StartSleep begins a sleep session
func (h *SleepHandler) StartSleep(w http.ResponseWriter, r *http.Request) {
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

	sleep, err := h.sleepService.StartSleep(user.ID, babyID, startTime, req.Notes)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSleepResponse(sleep))
}

// EndSleep completes a sleep session
func (h *SleepHandler) EndSleep(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}
	sleepID, ok := pathID(w, r, "recordID")
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

	sleep, err := h.sleepService.EndSleep(user.ID, babyID, sleepID, endTime)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toSleepResponse(sleep))
}

// GetOngoingSleep returns the in-progress session, or null
func (h *SleepHandler) GetOngoingSleep(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}

	sleep, err := h.sleepService.GetOngoingSleep(user.ID, babyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if sleep == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, toSleepResponse(sleep))
}

// ListSleeps returns the baby's recent sleep sessions
func (h *SleepHandler) ListSleeps(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}

	sleeps, err := h.sleepService.ListSleeps(user.ID, babyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	resp := make([]sleepResponse, 0, len(sleeps))
	for i := range sleeps {
		resp = append(resp, toSleepResponse(&sleeps[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateSleep applies a partial edit
func (h *SleepHandler) UpdateSleep(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}
	sleepID, ok := pathID(w, r, "recordID")
	if !ok {
		return
	}

	var req struct {
		StartTime *time.Time `json:"start_time"`
		EndTime   *time.Time `json:"end_time"`
		Notes     *string    `json:"notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	sleep, err := h.sleepService.UpdateSleep(user.ID, babyID, sleepID, service.SleepUpdate{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toSleepResponse(sleep))
}

// DeleteSleep removes a sleep session
func (h *SleepHandler) DeleteSleep(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}
	sleepID, ok := pathID(w, r, "recordID")
	if !ok {
		return
	}

	if err := h.sleepService.DeleteSleep(user.ID, babyID, sleepID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
