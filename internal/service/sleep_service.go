package service

import (
	"time"

	"babytrack/internal/models"
	"babytrack/internal/repository"
	"babytrack/internal/validation"
)

// SleepService handles sleep session business logic, including the
// ongoing-session state machine
type SleepService struct {
	sleepRepo   *repository.SleepRepository
	permService *PermissionService
}

// NewSleepService creates a new sleep service
func NewSleepService(sleepRepo *repository.SleepRepository, permService *PermissionService) *SleepService {
	return &SleepService{sleepRepo: sleepRepo, permService: permService}
}

// SleepUpdate carries a partial edit; nil fields are left unchanged.
type SleepUpdate struct {
	StartTime *time.Time
	EndTime   *time.Time
	Notes     *string
}

// StartSleep begins a sleep session. Fails if the baby already has an
// ongoing one; the check is best-effort, not a storage constraint.
func (s *SleepService) StartSleep(userID, babyID int64, startTime time.Time, notes *string) (*models.Sleep, error) {
	if _, err := s.permService.RequireMemberAccess(userID, babyID); err != nil {
		return nil, err
	}

	ongoing, err := s.sleepRepo.GetOngoingSleep(babyID)
	if err != nil {
		return nil, err
	}
	if ongoing != nil {
		return nil, validation.ValidationError{Field: "sleep", Message: "a sleep session is already in progress"}
	}

	sleep := &models.Sleep{
		BabyID:    babyID,
		UserID:    userID,
		StartTime: startTime,
		Notes:     notes,
	}
	if err := s.sleepRepo.CreateSleep(sleep); err != nil {
		return nil, err
	}
	return sleep, nil
}

// EndSleep completes a sleep session. Fails if the session already ended.
func (s *SleepService) EndSleep(userID, babyID, sleepID int64, endTime time.Time) (*models.Sleep, error) {
	if _, err := s.permService.RequireMemberAccess(userID, babyID); err != nil {
		return nil, err
	}

	sleep, err := s.sleepRepo.GetSleepByID(sleepID)
	if err != nil {
		return nil, err
	}
	if sleep == nil || sleep.BabyID != babyID {
		return nil, ErrNotFound
	}
	if !sleep.IsOngoing() {
		return nil, validation.ValidationError{Field: "sleep", Message: "sleep session has already ended"}
	}
	if !endTime.After(sleep.StartTime) {
		return nil, validation.ValidationError{Field: "end_time", Message: "end time must be after start time"}
	}

	sleep.EndTime = &endTime
	if err := s.sleepRepo.UpdateSleep(sleep); err != nil {
		return nil, err
	}
	return sleep, nil
}

// GetOngoingSleep returns the baby's in-progress sleep session, or nil
func (s *SleepService) GetOngoingSleep(userID, babyID int64) (*models.Sleep, error) {
	if _, err := s.permService.RequireViewAccess(userID, babyID, models.RecordSleep); err != nil {
		return nil, err
	}
	return s.sleepRepo.GetOngoingSleep(babyID)
}

// ListSleeps returns the baby's most recent sleep sessions
func (s *SleepService) ListSleeps(userID, babyID int64) ([]models.Sleep, error) {
	if _, err := s.permService.RequireViewAccess(userID, babyID, models.RecordSleep); err != nil {
		return nil, err
	}
	return s.sleepRepo.GetBabySleeps(babyID, DefaultListLimit)
}

// UpdateSleep applies a partial edit to a sleep session
func (s *SleepService) UpdateSleep(userID, babyID, sleepID int64, update SleepUpdate) (*models.Sleep, error) {
	if _, err := s.permService.RequireMemberAccess(userID, babyID); err != nil {
		return nil, err
	}

	sleep, err := s.sleepRepo.GetSleepByID(sleepID)
	if err != nil {
		return nil, err
	}
	if sleep == nil || sleep.BabyID != babyID {
		return nil, ErrNotFound
	}

	if update.StartTime != nil {
		sleep.StartTime = *update.StartTime
	}
	if update.EndTime != nil {
		sleep.EndTime = update.EndTime
	}
	if update.Notes != nil {
		sleep.Notes = update.Notes
	}
	if sleep.EndTime != nil && !sleep.EndTime.After(sleep.StartTime) {
		return nil, validation.ValidationError{Field: "end_time", Message: "end time must be after start time"}
	}

	if err := s.sleepRepo.UpdateSleep(sleep); err != nil {
		return nil, err
	}
	return sleep, nil
}

// DeleteSleep removes a sleep session
func (s *SleepService) DeleteSleep(userID, babyID, sleepID int64) error {
	if _, err := s.permService.RequireMemberAccess(userID, babyID); err != nil {
		return err
	}

	sleep, err := s.sleepRepo.GetSleepByID(sleepID)
	if err != nil {
		return err
	}
	if sleep == nil || sleep.BabyID != babyID {
		return ErrNotFound
	}
	return s.sleepRepo.DeleteSleep(sleepID)
}
