package service

import (
	"fmt"

	"babytrack/internal/models"
	"babytrack/internal/repository"
)

// PermissionService decides which baby records a family member may view.
//
// Access is evaluated in three tiers:
//  1. family admins see everything, stored grants are ignored
//  2. an explicit grant row is authoritative, whether true or false
//  3. with no grant row, the default depends on the call site: single
//     lookups default to allow, the batch basic-info lookup used to filter
//     the baby list defaults to deny
//
// The split in tier 3 is deliberate; both defaults are pinned by tests and
// callers rely on them.
type PermissionService struct {
	babyRepo   *repository.BabyRepository
	familyRepo *repository.FamilyRepository
	permRepo   *repository.PermissionRepository
}

// NewPermissionService creates a new permission service
func NewPermissionService(babyRepo *repository.BabyRepository, familyRepo *repository.FamilyRepository, permRepo *repository.PermissionRepository) *PermissionService {
	return &PermissionService{
		babyRepo:   babyRepo,
		familyRepo: familyRepo,
		permRepo:   permRepo,
	}
}

// CanViewBabyRecord reports whether the user may view one record type of one
// baby. No grant row means allow.
func (s *PermissionService) CanViewBabyRecord(userID, babyID, familyID int64, recordType models.RecordType) (bool, error) {
	member, err := s.familyRepo.GetMembership(userID, familyID)
	if err != nil {
		return false, fmt.Errorf("failed to get membership: %w", err)
	}
	if member == nil {
		return false, nil
	}
	if member.IsAdmin() {
		return true, nil
	}

	grant, err := s.permRepo.GetGrant(userID, babyID, recordType)
	if err != nil {
		return false, fmt.Errorf("failed to get permission grant: %w", err)
	}
	if grant != nil {
		return grant.CanView, nil
	}
	return true, nil
}

// GetUserPermissions returns the user's view permission for every record
// type of one baby. Admins get all-true; otherwise explicit grants are
// merged over a default-true baseline.
func (s *PermissionService) GetUserPermissions(userID, babyID, familyID int64) (map[models.RecordType]bool, error) {
	perms := make(map[models.RecordType]bool, len(models.AllRecordTypes))
	for _, rt := range models.AllRecordTypes {
		perms[rt] = true
	}

	member, err := s.familyRepo.GetMembership(userID, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if member == nil {
		for rt := range perms {
			perms[rt] = false
		}
		return perms, nil
	}
	if member.IsAdmin() {
		return perms, nil
	}

	grants, err := s.permRepo.GetGrantsForBaby(userID, babyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get permission grants: %w", err)
	}
	for _, g := range grants {
		perms[g.RecordType] = g.CanView
	}
	return perms, nil
}

// GetUserPermissionsBatch returns, for each baby ID, whether the user may
// view that baby's basic info. Admins get all-true; otherwise explicit
// grants are merged over a default-false baseline, so a baby is only listed
// when a grant says so. Runs a single grant query regardless of how many
// babies are asked about.
func (s *PermissionService) GetUserPermissionsBatch(userID int64, babyIDs []int64, familyID int64) (map[int64]bool, error) {
	visible := make(map[int64]bool, len(babyIDs))
	if len(babyIDs) == 0 {
		return visible, nil
	}

	member, err := s.familyRepo.GetMembership(userID, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if member != nil && member.IsAdmin() {
		for _, id := range babyIDs {
			visible[id] = true
		}
		return visible, nil
	}

	for _, id := range babyIDs {
		visible[id] = false
	}
	if member == nil {
		return visible, nil
	}

	grants, err := s.permRepo.GetGrantsForBabies(userID, babyIDs, models.RecordBasicInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to get permission grants: %w", err)
	}
	for _, g := range grants {
		visible[g.BabyID] = g.CanView
	}
	return visible, nil
}

// UpdatePermissions upserts grant rows for the target user and baby, one per
// record type in the input map. Only a family admin may call it. Grants
// stored for a user who is themselves an admin are inert, the admin bypass
// wins at evaluation time.
func (s *PermissionService) UpdatePermissions(actorID, targetUserID, babyID, familyID int64, grants map[models.RecordType]bool) error {
	if err := s.RequireAdmin(actorID, familyID); err != nil {
		return err
	}

	target, err := s.familyRepo.GetMembership(targetUserID, familyID)
	if err != nil {
		return fmt.Errorf("failed to get membership: %w", err)
	}
	if target == nil {
		return ErrNotFamilyMember
	}

	baby, err := s.babyRepo.GetBabyByID(babyID)
	if err != nil {
		return fmt.Errorf("failed to get baby: %w", err)
	}
	if baby == nil || baby.FamilyID != familyID {
		return ErrNotFound
	}

	for rt := range grants {
		if !rt.Valid() {
			return fmt.Errorf("unknown record type %q", rt)
		}
	}

	if err := s.permRepo.UpsertGrants(targetUserID, babyID, grants); err != nil {
		return fmt.Errorf("failed to update permission grants: %w", err)
	}
	return nil
}

// RequireAdmin verifies the user holds the admin role in the family
func (s *PermissionService) RequireAdmin(userID, familyID int64) error {
	member, err := s.familyRepo.GetMembership(userID, familyID)
	if err != nil {
		return fmt.Errorf("failed to get membership: %w", err)
	}
	if member == nil {
		return ErrNotFamilyMember
	}
	if !member.IsAdmin() {
		return ErrNotFamilyAdmin
	}
	return nil
}

// RequireViewAccess loads the baby and verifies the user may view the given
// record type. Returns ErrNotFound for unknown babies and
// ErrPermissionDenied when the single-lookup evaluation denies access.
func (s *PermissionService) RequireViewAccess(userID, babyID int64, recordType models.RecordType) (*models.Baby, error) {
	baby, err := s.babyRepo.GetBabyByID(babyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get baby: %w", err)
	}
	if baby == nil {
		return nil, ErrNotFound
	}

	allowed, err := s.CanViewBabyRecord(userID, babyID, baby.FamilyID, recordType)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}
	return baby, nil
}

// RequireMemberAccess loads the baby and verifies the user belongs to the
// baby's family. This is the write gate: any member may record data for any
// baby of their family.
func (s *PermissionService) RequireMemberAccess(userID, babyID int64) (*models.Baby, error) {
	baby, err := s.babyRepo.GetBabyByID(babyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get baby: %w", err)
	}
	if baby == nil {
		return nil, ErrNotFound
	}

	member, err := s.familyRepo.GetMembership(userID, baby.FamilyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if member == nil {
		return nil, ErrNotFamilyMember
	}
	return baby, nil
}
