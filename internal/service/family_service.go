package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"babytrack/internal/models"
	"babytrack/internal/repository"
	"babytrack/internal/validation"
)

var (
	ErrInvalidInviteCode = errors.New("invalid invite code")
	ErrAlreadyMember     = errors.New("already a member of this family")
	ErrInvitationInvalid = errors.New("invitation is invalid, used or expired")
)

const invitationTTL = 72 * time.Hour

// FamilyService handles families, memberships, invitations and babies
type FamilyService struct {
	familyRepo     *repository.FamilyRepository
	babyRepo       *repository.BabyRepository
	invitationRepo *repository.InvitationRepository
	emailService   *EmailService
}

// NewFamilyService creates a new family service
func NewFamilyService(familyRepo *repository.FamilyRepository, babyRepo *repository.BabyRepository, invitationRepo *repository.InvitationRepository, emailService *EmailService) *FamilyService {
	return &FamilyService{
		familyRepo:     familyRepo,
		babyRepo:       babyRepo,
		invitationRepo: invitationRepo,
		emailService:   emailService,
	}
}

// CreateFamily creates a family with the given user as its first admin
func (s *FamilyService) CreateFamily(name string, creatorUserID int64) (*models.Family, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	family, err := s.familyRepo.CreateFamily(name, creatorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}
	return family, nil
}

// JoinFamily adds the user to the family matching the invite code, as a
// regular member
func (s *FamilyService) JoinFamily(inviteCode string, userID int64) (*models.Family, error) {
	family, err := s.familyRepo.GetFamilyByInviteCode(inviteCode)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}
	if family == nil {
		return nil, ErrInvalidInviteCode
	}

	existing, err := s.familyRepo.GetMembership(userID, family.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	if err := s.familyRepo.AddFamilyMember(family.ID, userID, models.RoleMember); err != nil {
		return nil, fmt.Errorf("failed to join family: %w", err)
	}
	return family, nil
}

// GetUserFamilies lists the families the user belongs to
func (s *FamilyService) GetUserFamilies(userID int64) ([]models.Family, error) {
	return s.familyRepo.GetUserFamilies(userID)
}

// GetFamilyDetail returns the family with its member list. The caller must
// be a member.
func (s *FamilyService) GetFamilyDetail(userID, familyID int64) (*models.FamilyWithMembers, error) {
	member, err := s.familyRepo.GetMembership(userID, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if member == nil {
		return nil, ErrNotFamilyMember
	}

	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return nil, ErrNotFound
	}

	members, users, err := s.familyRepo.GetFamilyMembers(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family members: %w", err)
	}

	return &models.FamilyWithMembers{
		Family:  *family,
		Members: members,
		Users:   users,
	}, nil
}

// RequireAdmin verifies the user is an admin of the family
func (s *FamilyService) RequireAdmin(userID, familyID int64) (*models.FamilyMember, error) {
	member, err := s.familyRepo.GetMembership(userID, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if member == nil {
		return nil, ErrNotFamilyMember
	}
	if !member.IsAdmin() {
		return nil, ErrNotFamilyAdmin
	}
	return member, nil
}

// RegenerateInviteCode replaces the family's invite code. Admin only.
func (s *FamilyService) RegenerateInviteCode(userID, familyID int64) (string, error) {
	if _, err := s.RequireAdmin(userID, familyID); err != nil {
		return "", err
	}
	code, err := s.familyRepo.RegenerateInviteCode(familyID)
	if err != nil {
		return "", fmt.Errorf("failed to regenerate invite code: %w", err)
	}
	return code, nil
}

// DeleteFamily removes a family and everything scoped under it. Admin
// only; babies, memberships, and record rows cascade at the schema level.
func (s *FamilyService) DeleteFamily(userID, familyID int64) error {
	if _, err := s.RequireAdmin(userID, familyID); err != nil {
		return err
	}
	return s.familyRepo.DeleteFamily(familyID)
}

// InviteByEmail creates a single-use invitation and emails it to the
// recipient. Admin only.
func (s *FamilyService) InviteByEmail(ctx context.Context, userID, familyID int64, email string) (*models.Invitation, error) {
	if _, err := s.RequireAdmin(userID, familyID); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}

	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return nil, ErrNotFound
	}

	invitation, err := s.invitationRepo.CreateInvitation(familyID, email, userID, time.Now().Add(invitationTTL))
	if err != nil {
		return nil, err
	}

	if s.emailService != nil && s.emailService.IsEnabled() {
		if err := s.emailService.SendInvitationEmail(ctx, email, family.Name, invitation.Code); err != nil {
			return nil, fmt.Errorf("failed to send invitation email: %w", err)
		}
	}
	return invitation, nil
}

// RedeemInvitation joins the user to the inviting family and marks the
// invitation used
func (s *FamilyService) RedeemInvitation(code string, userID int64) (*models.Family, error) {
	invitation, err := s.invitationRepo.GetInvitationByCode(code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invitation: %w", err)
	}
	if invitation == nil || invitation.IsUsed() || invitation.IsExpired() {
		return nil, ErrInvitationInvalid
	}

	family, err := s.familyRepo.GetFamilyByID(invitation.FamilyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return nil, ErrInvitationInvalid
	}

	existing, err := s.familyRepo.GetMembership(userID, family.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	if err := s.familyRepo.AddFamilyMember(family.ID, userID, models.RoleMember); err != nil {
		return nil, fmt.Errorf("failed to join family: %w", err)
	}
	if err := s.invitationRepo.MarkInvitationUsed(invitation.ID, userID); err != nil {
		return nil, fmt.Errorf("failed to mark invitation used: %w", err)
	}
	return family, nil
}

// CreateBaby adds a baby to the family. Admin only.
func (s *FamilyService) CreateBaby(userID, familyID int64, name string, birthday, dueDate *time.Time) (*models.Baby, error) {
	if _, err := s.RequireAdmin(userID, familyID); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	baby, err := s.babyRepo.CreateBaby(familyID, name, birthday, dueDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create baby: %w", err)
	}
	return baby, nil
}

// UpdateBaby edits a baby's name and dates. Admin only.
func (s *FamilyService) UpdateBaby(userID, babyID int64, name string, birthday, dueDate *time.Time) (*models.Baby, error) {
	baby, err := s.babyRepo.GetBabyByID(babyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get baby: %w", err)
	}
	if baby == nil {
		return nil, ErrNotFound
	}
	if _, err := s.RequireAdmin(userID, baby.FamilyID); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	baby.Name = name
	baby.Birthday = birthday
	baby.DueDate = dueDate
	if err := s.babyRepo.UpdateBaby(baby); err != nil {
		return nil, fmt.Errorf("failed to update baby: %w", err)
	}
	return baby, nil
}

// DeleteBaby removes a baby and, via cascade, its records and permission
// grants. Admin only.
func (s *FamilyService) DeleteBaby(userID, babyID int64) error {
	baby, err := s.babyRepo.GetBabyByID(babyID)
	if err != nil {
		return fmt.Errorf("failed to get baby: %w", err)
	}
	if baby == nil {
		return ErrNotFound
	}
	if _, err := s.RequireAdmin(userID, baby.FamilyID); err != nil {
		return err
	}
	return s.babyRepo.DeleteBaby(babyID)
}

// GetFamilyBabies lists the family's babies. The caller must be a member.
func (s *FamilyService) GetFamilyBabies(userID, familyID int64) ([]models.Baby, error) {
	member, err := s.familyRepo.GetMembership(userID, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if member == nil {
		return nil, ErrNotFamilyMember
	}
	return s.babyRepo.GetFamilyBabies(familyID)
}
