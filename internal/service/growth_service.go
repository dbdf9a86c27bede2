package service

import (
	"time"

	"babytrack/internal/models"
	"babytrack/internal/repository"
	"babytrack/internal/validation"
)

// GrowthService handles growth measurement business logic
type GrowthService struct {
	growthRepo  *repository.GrowthRepository
	permService *PermissionService
}

// NewGrowthService creates a new growth service
func NewGrowthService(growthRepo *repository.GrowthRepository, permService *PermissionService) *GrowthService {
	return &GrowthService{growthRepo: growthRepo, permService: permService}
}

// GrowthUpdate carries a partial edit; nil fields are left unchanged.
type GrowthUpdate struct {
	MeasurementDate     *time.Time
	WeightKG            *float64
	HeightCM            *float64
	HeadCircumferenceCM *float64
	Notes               *string
}

// CreateGrowth records a growth measurement for a baby. At least one
// measurement value must be present.
func (s *GrowthService) CreateGrowth(userID, babyID int64, measurementDate time.Time, weightKG, heightCM, headCircumferenceCM *float64, notes *string) (*models.Growth, error) {
	if _, err := s.permService.RequireMemberAccess(userID, babyID); err != nil {
		return nil, err
	}
	if weightKG == nil && heightCM == nil && headCircumferenceCM == nil {
		return nil, validation.ValidationError{Field: "measurements", Message: "at least one measurement is required"}
	}

	growth := &models.Growth{
		BabyID:              babyID,
		UserID:              userID,
		MeasurementDate:     measurementDate,
		WeightKG:            weightKG,
		HeightCM:            heightCM,
		HeadCircumferenceCM: headCircumferenceCM,
		Notes:               notes,
	}
	if err := s.growthRepo.CreateGrowth(growth); err != nil {
		return nil, err
	}
	return growth, nil
}

// ListGrowths returns the baby's most recent growth measurements
func (s *GrowthService) ListGrowths(userID, babyID int64) ([]models.Growth, error) {
	if _, err := s.permService.RequireViewAccess(userID, babyID, models.RecordGrowth); err != nil {
		return nil, err
	}
	return s.growthRepo.GetBabyGrowths(babyID, DefaultListLimit)
}

// UpdateGrowth applies a partial edit to a growth measurement
func (s *GrowthService) UpdateGrowth(userID, babyID, growthID int64, update GrowthUpdate) (*models.Growth, error) {
	if _, err := s.permService.RequireMemberAccess(userID, babyID); err != nil {
		return nil, err
	}

	growth, err := s.growthRepo.GetGrowthByID(growthID)
	if err != nil {
		return nil, err
	}
	if growth == nil || growth.BabyID != babyID {
		return nil, ErrNotFound
	}

	if update.MeasurementDate != nil {
		growth.MeasurementDate = *update.MeasurementDate
	}
	if update.WeightKG != nil {
		growth.WeightKG = update.WeightKG
	}
	if update.HeightCM != nil {
		growth.HeightCM = update.HeightCM
	}
	if update.HeadCircumferenceCM != nil {
		growth.HeadCircumferenceCM = update.HeadCircumferenceCM
	}
	if update.Notes != nil {
		growth.Notes = update.Notes
	}

	if err := s.growthRepo.UpdateGrowth(growth); err != nil {
		return nil, err
	}
	return growth, nil
}

// DeleteGrowth removes a growth measurement
func (s *GrowthService) DeleteGrowth(userID, babyID, growthID int64) error {
	if _, err := s.permService.RequireMemberAccess(userID, babyID); err != nil {
		return err
	}

	growth, err := s.growthRepo.GetGrowthByID(growthID)
	if err != nil {
		return err
	}
	if growth == nil || growth.BabyID != babyID {
		return ErrNotFound
	}
	return s.growthRepo.DeleteGrowth(growthID)
}
