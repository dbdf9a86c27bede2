package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"babytrack/internal/models"
	"babytrack/internal/service"
)

// ScheduleHandler handles schedule entry endpoints
type ScheduleHandler struct {
	scheduleService *service.ScheduleService
	logger          zerolog.Logger
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(scheduleService *service.ScheduleService, logger zerolog.Logger) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService, logger: logger}
}

type scheduleRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	ScheduledTime *time.Time `json:"scheduled_time"`
	IsCompleted   *bool      `json:"is_completed"`
}

type scheduleResponse struct {
	ID            int64     `json:"id"`
	BabyID        int64     `json:"baby_id"`
	UserID        int64     `json:"user_id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	ScheduledTime time.Time `json:"scheduled_time"`
	IsCompleted   bool      `json:"is_completed"`
}

func toScheduleResponse(s *models.Schedule) scheduleResponse {
	return scheduleResponse{
		ID:            s.ID,
		BabyID:        s.BabyID,
		UserID:        s.UserID,
		Title:         s.Title,
		Description:   s.Description,
		ScheduledTime: s.ScheduledTime,
		IsCompleted:   s.IsCompleted,
	}
}

// CreateSchedule records a planned event
func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}

	var req scheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == nil || req.ScheduledTime == nil {
		writeError(w, http.StatusBadRequest, "title and scheduled_time are required")
		return
	}

	schedule, err := h.scheduleService.CreateSchedule(user.ID, babyID, *req.Title, req.Description, *req.ScheduledTime)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toScheduleResponse(schedule))
}

// ListSchedules returns the baby's schedule entries
func (h *ScheduleHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}

	schedules, err := h.scheduleService.ListSchedules(user.ID, babyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	resp := make([]scheduleResponse, 0, len(schedules))
	for i := range schedules {
		resp = append(resp, toScheduleResponse(&schedules[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateSchedule applies a partial edit
func (h *ScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}
	scheduleID, ok := pathID(w, r, "recordID")
	if !ok {
		return
	}

	var req scheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	schedule, err := h.scheduleService.UpdateSchedule(user.ID, babyID, scheduleID, service.ScheduleUpdate{
		Title:         req.Title,
		Description:   req.Description,
		ScheduledTime: req.ScheduledTime,
		IsCompleted:   req.IsCompleted,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleResponse(schedule))
}

// ToggleSchedule flips the completed flag on a schedule entry
func (h *ScheduleHandler) ToggleSchedule(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}
	scheduleID, ok := pathID(w, r, "recordID")
	if !ok {
		return
	}

	schedule, err := h.scheduleService.ToggleSchedule(user.ID, babyID, scheduleID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleResponse(schedule))
}

// DeleteSchedule removes a schedule entry
func (h *ScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}
	scheduleID, ok := pathID(w, r, "recordID")
	if !ok {
		return
	}

	if err := h.scheduleService.DeleteSchedule(user.ID, babyID, scheduleID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
