package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"babytrack/internal/models"
	"babytrack/internal/service"
)

// FeedingHandler handles feeding record endpoints
type FeedingHandler struct {
	feedingService *service.FeedingService
	logger         zerolog.Logger
}

// NewFeedingHandler creates a new feeding handler
func NewFeedingHandler(feedingService *service.FeedingService, logger zerolog.Logger) *FeedingHandler {
	return &FeedingHandler{feedingService: feedingService, logger: logger}
}

type feedingRequest struct {
	FeedingTime     *time.Time `json:"feeding_time"`
	FeedingType     *string    `json:"feeding_type"`
	AmountML        *float64   `json:"amount_ml"`
	DurationMinutes *int       `json:"duration_minutes"`
	Notes           *string    `json:"notes"`
}

type feedingResponse struct {
	ID              int64     `json:"id"`
	BabyID          int64     `json:"baby_id"`
	UserID          int64     `json:"user_id"`
	FeedingTime     time.Time `json:"feeding_time"`
	FeedingType     string    `json:"feeding_type"`
	AmountML        *float64  `json:"amount_ml"`
	DurationMinutes *int      `json:"duration_minutes"`
	Notes           *string   `json:"notes"`
}

func toFeedingResponse(f *models.Feeding) feedingResponse {
	return feedingResponse{
		ID:              f.ID,
		BabyID:          f.BabyID,
		UserID:          f.UserID,
		FeedingTime:     f.FeedingTime,
		FeedingType:     string(f.FeedingType),
		AmountML:        f.AmountML,
		DurationMinutes: f.DurationMinutes,
		Notes:           f.Notes,
	}
}

// CreateFeeding records a feeding
func (h *FeedingHandler) CreateFeeding(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}

	var req feedingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.FeedingType == nil {
		writeError(w, http.StatusBadRequest, "feeding_type is required")
		return
	}
	feedingTime := time.Now()
	if req.FeedingTime != nil {
		feedingTime = *req.FeedingTime
	}

	feeding, err := h.feedingService.CreateFeeding(user.ID, babyID, feedingTime, models.FeedingType(*req.FeedingType), req.AmountML, req.DurationMinutes, req.Notes)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFeedingResponse(feeding))
}

// ListFeedings returns the baby's recent feedings
func (h *FeedingHandler) ListFeedings(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}

	feedings, err := h.feedingService.ListFeedings(user.ID, babyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	resp := make([]feedingResponse, 0, len(feedings))
	for i := range feedings {
		resp = append(resp, toFeedingResponse(&feedings[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateFeeding applies a partial edit
func (h *FeedingHandler) UpdateFeeding(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}
	feedingID, ok := pathID(w, r, "recordID")
	if !ok {
		return
	}

	var req feedingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	update := service.FeedingUpdate{
		FeedingTime:     req.FeedingTime,
		AmountML:        req.AmountML,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	}
	if req.FeedingType != nil {
		ft := models.FeedingType(*req.FeedingType)
		update.FeedingType = &ft
	}

	feeding, err := h.feedingService.UpdateFeeding(user.ID, babyID, feedingID, update)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeedingResponse(feeding))
}

// DeleteFeeding removes a feeding record
func (h *FeedingHandler) DeleteFeeding(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}
	feedingID, ok := pathID(w, r, "recordID")
	if !ok {
		return
	}

	if err := h.feedingService.DeleteFeeding(user.ID, babyID, feedingID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
