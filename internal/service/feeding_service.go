package service

import (
	"fmt"
	"time"

	"babytrack/internal/models"
	"babytrack/internal/repository"
	"babytrack/internal/validation"
)

// DefaultListLimit bounds record list pages across all record types.
const DefaultListLimit = 50

// FeedingService handles feeding record business logic
type FeedingService struct {
	feedingRepo *repository.FeedingRepository
	permService *PermissionService
}

// NewFeedingService creates a new feeding service
func NewFeedingService(feedingRepo *repository.FeedingRepository, permService *PermissionService) *FeedingService {
	return &FeedingService{feedingRepo: feedingRepo, permService: permService}
}

// FeedingUpdate carries a partial edit; nil fields are left unchanged.
type FeedingUpdate struct {
	FeedingTime     *time.Time
	FeedingType     *models.FeedingType
	AmountML        *float64
	DurationMinutes *int
	Notes           *string
}

// CreateFeeding records a feeding for a baby
func (s *FeedingService) CreateFeeding(userID, babyID int64, feedingTime time.Time, feedingType models.FeedingType, amountML *float64, durationMinutes *int, notes *string) (*models.Feeding, error) {
	if _, err := s.permService.RequireMemberAccess(userID, babyID); err != nil {
		return nil, err
	}
	if !feedingType.Valid() {
		return nil, validation.ValidationError{Field: "feeding_type", Message: "unknown feeding type"}
	}

	feeding := &models.Feeding{
		BabyID:          babyID,
		UserID:          userID,
		FeedingTime:     feedingTime,
		FeedingType:     feedingType,
		AmountML:        amountML,
		DurationMinutes: durationMinutes,
		Notes:           notes,
	}
	if err := s.feedingRepo.CreateFeeding(feeding); err != nil {
		return nil, err
	}
	return feeding, nil
}

// ListFeedings returns the baby's most recent feedings
func (s *FeedingService) ListFeedings(userID, babyID int64) ([]models.Feeding, error) {
	if _, err := s.permService.RequireViewAccess(userID, babyID, models.RecordFeeding); err != nil {
		return nil, err
	}
	return s.feedingRepo.GetBabyFeedings(babyID, DefaultListLimit)
}

// UpdateFeeding applies a partial edit to a feeding record
func (s *FeedingService) UpdateFeeding(userID, babyID, feedingID int64, update FeedingUpdate) (*models.Feeding, error) {
	if _, err := s.permService.RequireMemberAccess(userID, babyID); err != nil {
		return nil, err
	}

	feeding, err := s.feedingRepo.GetFeedingByID(feedingID)
	if err != nil {
		return nil, err
	}
	if feeding == nil || feeding.BabyID != babyID {
		return nil, ErrNotFound
	}

	if update.FeedingTime != nil {
		feeding.FeedingTime = *update.FeedingTime
	}
	if update.FeedingType != nil {
		if !update.FeedingType.Valid() {
			return nil, validation.ValidationError{Field: "feeding_type", Message: "unknown feeding type"}
		}
		feeding.FeedingType = *update.FeedingType
	}
	if update.AmountML != nil {
		feeding.AmountML = update.AmountML
	}
	if update.DurationMinutes != nil {
		feeding.DurationMinutes = update.DurationMinutes
	}
	if update.Notes != nil {
		feeding.Notes = update.Notes
	}

	if err := s.feedingRepo.UpdateFeeding(feeding); err != nil {
		return nil, err
	}
	return feeding, nil
}

// DeleteFeeding removes a feeding record
func (s *FeedingService) DeleteFeeding(userID, babyID, feedingID int64) error {
	if _, err := s.permService.RequireMemberAccess(userID, babyID); err != nil {
		return err
	}

	feeding, err := s.feedingRepo.GetFeedingByID(feedingID)
	if err != nil {
		return err
	}
	if feeding == nil || feeding.BabyID != babyID {
		return ErrNotFound
	}

	if err := s.feedingRepo.DeleteFeeding(feedingID); err != nil {
		return fmt.Errorf("failed to delete feeding: %w", err)
	}
	return nil
}
