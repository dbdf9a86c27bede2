package service

import (
	"strings"
	"time"

	"babytrack/internal/models"
	"babytrack/internal/repository"
	"babytrack/internal/validation"
)

// ScheduleService handles schedule entry business logic
type ScheduleService struct {
	scheduleRepo *repository.ScheduleRepository
	permService  *PermissionService
}

// NewScheduleService creates a new schedule service
func NewScheduleService(scheduleRepo *repository.ScheduleRepository, permService *PermissionService) *ScheduleService {
	return &ScheduleService{scheduleRepo: scheduleRepo, permService: permService}
}

// ScheduleUpdate carries a partial edit; nil fields are left unchanged.
type ScheduleUpdate struct {
	Title         *string
	Description   *string
	ScheduledTime *time.Time
	IsCompleted   *bool
}

// CreateSchedule records a planned event for a baby
func (s *ScheduleService) CreateSchedule(userID, babyID int64, title string, description *string, scheduledTime time.Time) (*models.Schedule, error) {
	if _, err := s.permService.RequireMemberAccess(userID, babyID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, validation.ValidationError{Field: "title", Message: "title is required"}
	}

	schedule := &models.Schedule{
		BabyID:        babyID,
		UserID:        userID,
		Title:         title,
		Description:   description,
		ScheduledTime: scheduledTime,
	}
	if err := s.scheduleRepo.CreateSchedule(schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// ListSchedules returns the baby's schedule entries
func (s *ScheduleService) ListSchedules(userID, babyID int64) ([]models.Schedule, error) {
	if _, err := s.permService.RequireViewAccess(userID, babyID, models.RecordSchedule); err != nil {
		return nil, err
	}
	return s.scheduleRepo.GetBabySchedules(babyID, DefaultListLimit)
}

// UpdateSchedule applies a partial edit to a schedule entry
func (s *ScheduleService) UpdateSchedule(userID, babyID, scheduleID int64, update ScheduleUpdate) (*models.Schedule, error) {
	if _, err := s.permService.RequireMemberAccess(userID, babyID); err != nil {
		return nil, err
	}

	schedule, err := s.scheduleRepo.GetScheduleByID(scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil || schedule.BabyID != babyID {
		return nil, ErrNotFound
	}

	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return nil, validation.ValidationError{Field: "title", Message: "title is required"}
		}
		schedule.Title = *update.Title
	}
	if update.Description != nil {
		schedule.Description = update.Description
	}
	if update.ScheduledTime != nil {
		schedule.ScheduledTime = *update.ScheduledTime
	}
	if update.IsCompleted != nil {
		schedule.IsCompleted = *update.IsCompleted
	}

	if err := s.scheduleRepo.UpdateSchedule(schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// DeleteSchedule removes a schedule entry
func (s *ScheduleService) DeleteSchedule(userID, babyID, scheduleID int64) error {
	if _, err := s.permService.RequireMemberAccess(userID, babyID); err != nil {
		return err
	}

	schedule, err := s.scheduleRepo.GetScheduleByID(scheduleID)
	if err != nil {
		return err
	}
	if schedule == nil || schedule.BabyID != babyID {
		return ErrNotFound
	}
	return s.scheduleRepo.DeleteSchedule(scheduleID)
}

// ToggleSchedule flips the completed flag on a schedule entry
func (s *ScheduleService) ToggleSchedule(userID, babyID, scheduleID int64) (*models.Schedule, error) {
	if _, err := s.permService.RequireMemberAccess(userID, babyID); err != nil {
		return nil, err
	}

	schedule, err := s.scheduleRepo.GetScheduleByID(scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil || schedule.BabyID != babyID {
		return nil, ErrNotFound
	}

	schedule.IsCompleted = !schedule.IsCompleted
	if err := s.scheduleRepo.UpdateSchedule(schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}
