package service

import (
	"time"

	"babytrack/internal/models"
	"babytrack/internal/repository"
	"babytrack/internal/validation"
)

// DiaperService handles diaper change business logic
type DiaperService struct {
	diaperRepo  *repository.DiaperRepository
	permService *PermissionService
}

// NewDiaperService creates a new diaper service
func NewDiaperService(diaperRepo *repository.DiaperRepository, permService *PermissionService) *DiaperService {
	return &DiaperService{diaperRepo: diaperRepo, permService: permService}
}

// DiaperUpdate carries a partial edit; nil fields are left unchanged.
type DiaperUpdate struct {
	ChangeTime *time.Time
	DiaperType *models.DiaperType
	Notes      *string
}

// CreateDiaper records a diaper change for a baby
func (s *DiaperService) CreateDiaper(userID, babyID int64, changeTime time.Time, diaperType models.DiaperType, notes *string) (*models.Diaper, error) {
	if _, err := s.permService.RequireMemberAccess(userID, babyID); err != nil {
		return nil, err
	}
	if !diaperType.Valid() {
		return nil, validation.ValidationError{Field: "diaper_type", Message: "unknown diaper type"}
	}

	diaper := &models.Diaper{
		BabyID:     babyID,
		UserID:     userID,
		ChangeTime: changeTime,
		DiaperType: diaperType,
		Notes:      notes,
	}
	if err := s.diaperRepo.CreateDiaper(diaper); err != nil {
		return nil, err
	}
	return diaper, nil
}

// ListDiapers returns the baby's most recent diaper changes
func (s *DiaperService) ListDiapers(userID, babyID int64) ([]models.Diaper, error) {
	if _, err := s.permService.RequireViewAccess(userID, babyID, models.RecordDiaper); err != nil {
		return nil, err
	}
	return s.diaperRepo.GetBabyDiapers(babyID, DefaultListLimit)
}

// UpdateDiaper applies a partial edit to a diaper change record
func (s *DiaperService) UpdateDiaper(userID, babyID, diaperID int64, update DiaperUpdate) (*models.Diaper, error) {
	if _, err := s.permService.RequireMemberAccess(userID, babyID); err != nil {
		return nil, err
	}

	diaper, err := s.diaperRepo.GetDiaperByID(diaperID)
	if err != nil {
		return nil, err
	}
	if diaper == nil || diaper.BabyID != babyID {
		return nil, ErrNotFound
	}

	if update.ChangeTime != nil {
		diaper.ChangeTime = *update.ChangeTime
	}
	if update.DiaperType != nil {
		if !update.DiaperType.Valid() {
			return nil, validation.ValidationError{Field: "diaper_type", Message: "unknown diaper type"}
		}
		diaper.DiaperType = *update.DiaperType
	}
	if update.Notes != nil {
		diaper.Notes = update.Notes
	}

	if err := s.diaperRepo.UpdateDiaper(diaper); err != nil {
		return nil, err
	}
	return diaper, nil
}

// DeleteDiaper removes a diaper change record
func (s *DiaperService) DeleteDiaper(userID, babyID, diaperID int64) error {
	if _, err := s.permService.RequireMemberAccess(userID, babyID); err != nil {
		return err
	}

	diaper, err := s.diaperRepo.GetDiaperByID(diaperID)
	if err != nil {
		return err
	}
	if diaper == nil || diaper.BabyID != babyID {
		return ErrNotFound
	}
	return s.diaperRepo.DeleteDiaper(diaperID)
}
