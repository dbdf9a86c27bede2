package service

import (
	"time"

	"babytrack/internal/models"
	"babytrack/internal/repository"
	"babytrack/internal/validation"
)

// contractionLookback bounds how far back the previous contraction may lie
// for the new one's interval to be meaningful.
const contractionLookback = time.Hour

// contractionListLimit keeps list pages shorter than other record types;
// active labor produces rows far faster than feedings or diapers do.
const contractionListLimit = 20

// ContractionService handles labor contraction business logic, including the
// ongoing-record state machine and interval derivation
type ContractionService struct {
	contractionRepo *repository.ContractionRepository
	permService     *PermissionService
}

// NewContractionService creates a new contraction service
func NewContractionService(contractionRepo *repository.ContractionRepository, permService *PermissionService) *ContractionService {
	return &ContractionService{contractionRepo: contractionRepo, permService: permService}
}

// StartContraction begins a contraction. Fails if one is already in
// progress. The interval from the previous completed contraction's end is
// fixed here, at creation time.
func (s *ContractionService) StartContraction(userID, babyID int64, startTime time.Time, notes *string) (*models.Contraction, error) {
	if _, err := s.permService.RequireMemberAccess(userID, babyID); err != nil {
		return nil, err
	}

	ongoing, err := s.contractionRepo.GetOngoingContraction(babyID)
	if err != nil {
		return nil, err
	}
	if ongoing != nil {
		return nil, validation.ValidationError{Field: "contraction", Message: "a contraction is already in progress"}
	}

	var interval *int
	previous, err := s.contractionRepo.GetLastCompletedContraction(babyID, startTime.Add(-contractionLookback))
	if err != nil {
		return nil, err
	}
	if previous != nil && previous.EndTime.Before(startTime) {
		gap := int(startTime.Sub(*previous.EndTime).Seconds())
		interval = &gap
	}

	contraction := &models.Contraction{
		BabyID:          babyID,
		UserID:          userID,
		StartTime:       startTime,
		IntervalSeconds: interval,
		Notes:           notes,
	}
	if err := s.contractionRepo.CreateContraction(contraction); err != nil {
		return nil, err
	}
	return contraction, nil
}

// EndContraction completes a contraction and stores its duration
func (s *ContractionService) EndContraction(userID, babyID, contractionID int64, endTime time.Time) (*models.Contraction, error) {
	if _, err := s.permService.RequireMemberAccess(userID, babyID); err != nil {
		return nil, err
	}

	contraction, err := s.contractionRepo.GetContractionByID(contractionID)
	if err != nil {
		return nil, err
	}
	if contraction == nil || contraction.BabyID != babyID {
		return nil, ErrNotFound
	}
	if !contraction.IsOngoing() {
		return nil, validation.ValidationError{Field: "contraction", Message: "contraction has already ended"}
	}
	if !endTime.After(contraction.StartTime) {
		return nil, validation.ValidationError{Field: "end_time", Message: "end time must be after start time"}
	}

	duration := int(endTime.Sub(contraction.StartTime).Seconds())
	contraction.EndTime = &endTime
	contraction.DurationSeconds = &duration
	if err := s.contractionRepo.UpdateContraction(contraction); err != nil {
		return nil, err
	}
	return contraction, nil
}

// GetOngoingContraction returns the baby's in-progress contraction, or nil
func (s *ContractionService) GetOngoingContraction(userID, babyID int64) (*models.Contraction, error) {
	if _, err := s.permService.RequireViewAccess(userID, babyID, models.RecordContraction); err != nil {
		return nil, err
	}
	return s.contractionRepo.GetOngoingContraction(babyID)
}

// ListContractions returns the baby's most recent contractions
func (s *ContractionService) ListContractions(userID, babyID int64) ([]models.Contraction, error) {
	if _, err := s.permService.RequireViewAccess(userID, babyID, models.RecordContraction); err != nil {
		return nil, err
	}
	return s.contractionRepo.GetBabyContractions(babyID, contractionListLimit)
}

// DeleteContraction removes a contraction record
func (s *ContractionService) DeleteContraction(userID, babyID, contractionID int64) error {
	if _, err := s.permService.RequireMemberAccess(userID, babyID); err != nil {
		return err
	}

	contraction, err := s.contractionRepo.GetContractionByID(contractionID)
	if err != nil {
		return err
	}
	if contraction == nil || contraction.BabyID != babyID {
		return ErrNotFound
	}
	return s.contractionRepo.DeleteContraction(contractionID)
}
