package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"babytrack/internal/models"
	"babytrack/internal/service"
)

// GrowthHandler handles growth measurement endpoints
type GrowthHandler struct {
	growthService *service.GrowthService
	logger        zerolog.Logger
}

// NewGrowthHandler creates a new growth handler
func NewGrowthHandler(growthService *service.GrowthService, logger zerolog.Logger) *GrowthHandler {
	return &GrowthHandler{growthService: growthService, logger: logger}
}

type growthRequest struct {
	MeasurementDate     *time.Time `json:"measurement_date"`
	WeightKG            *float64   `json:"weight_kg"`
	HeightCM            *float64   `json:"height_cm"`
	HeadCircumferenceCM *float64   `json:"head_circumference_cm"`
	Notes               *string    `json:"notes"`
}

type growthResponse struct {
	ID                  int64     `json:"id"`
	BabyID              int64     `json:"baby_id"`
	UserID              int64     `json:"user_id"`
	MeasurementDate     time.Time `json:"measurement_date"`
	WeightKG            *float64  `json:"weight_kg"`
	HeightCM            *float64  `json:"height_cm"`
	HeadCircumferenceCM *float64  `json:"head_circumference_cm"`
	Notes               *string   `json:"notes"`
}

func toGrowthResponse(g *models.Growth) growthResponse {
	return growthResponse{
		ID:                  g.ID,
		BabyID:              g.BabyID,
		UserID:              g.UserID,
		MeasurementDate:     g.MeasurementDate,
		WeightKG:            g.WeightKG,
		HeightCM:            g.HeightCM,
		HeadCircumferenceCM: g.HeadCircumferenceCM,
		Notes:               g.Notes,
	}
}

// CreateGrowth records a growth measurement
func (h *GrowthHandler) CreateGrowth(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}

	var req growthRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	measurementDate := time.Now()
	if req.MeasurementDate != nil {
		measurementDate = *req.MeasurementDate
	}

	growth, err := h.growthService.CreateGrowth(user.ID, babyID, measurementDate, req.WeightKG, req.HeightCM, req.HeadCircumferenceCM, req.Notes)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGrowthResponse(growth))
}

// ListGrowths returns the baby's recent growth measurements
func (h *GrowthHandler) ListGrowths(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}

	growths, err := h.growthService.ListGrowths(user.ID, babyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	resp := make([]growthResponse, 0, len(growths))
	for i := range growths {
		resp = append(resp, toGrowthResponse(&growths[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateGrowth applies a partial edit
func (h *GrowthHandler) UpdateGrowth(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}
	growthID, ok := pathID(w, r, "recordID")
	if !ok {
		return
	}

	var req growthRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	growth, err := h.growthService.UpdateGrowth(user.ID, babyID, growthID, service.GrowthUpdate{
		MeasurementDate:     req.MeasurementDate,
		WeightKG:            req.WeightKG,
		HeightCM:            req.HeightCM,
		HeadCircumferenceCM: req.HeadCircumferenceCM,
		Notes:               req.Notes,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toGrowthResponse(growth))
}

// DeleteGrowth removes a growth measurement
func (h *GrowthHandler) DeleteGrowth(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}
	growthID, ok := pathID(w, r, "recordID")
	if !ok {
		return
	}

	if err := h.growthService.DeleteGrowth(user.ID, babyID, growthID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
