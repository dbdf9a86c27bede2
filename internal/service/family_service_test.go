package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"babytrack/internal/database"
	"babytrack/internal/repository"
)

func newTestFamilyService(t *testing.T, db database.DBTX) *FamilyService {
	t.Helper()
	emailService, err := NewEmailService("us-east-1", "", "", "http://localhost:8080", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEmailService() error = %v", err)
	}
	return NewFamilyService(
		repository.NewFamilyRepository(db),
		repository.NewBabyRepository(db),
		repository.NewInvitationRepository(db),
		emailService,
	)
}

func TestCreateFamilyMakesCreatorAdmin(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "carol")
	svc := newTestFamilyService(t, db)

	family, err := svc.CreateFamily("Smith Family", user.ID)
	if err != nil {
		t.Fatalf("CreateFamily() error = %v", err)
	}
	if family.InviteCode == "" {
		t.Error("new family should have an invite code")
	}

	if _, err := svc.RequireAdmin(user.ID, family.ID); err != nil {
		t.Errorf("creator should be admin, got %v", err)
	}
}

func TestJoinFamily(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	joiner := createTestUser(t, db, "joiner")
	svc := newTestFamilyService(t, db)

	family, err := svc.CreateFamily("Smith Family", admin.ID)
	if err != nil {
		t.Fatalf("CreateFamily() error = %v", err)
	}

	joined, err := svc.JoinFamily(family.InviteCode, joiner.ID)
	if err != nil {
		t.Fatalf("JoinFamily() error = %v", err)
	}
	if joined.ID != family.ID {
		t.Errorf("JoinFamily() family ID = %d, want %d", joined.ID, family.ID)
	}

	// Joiner is a regular member, not an admin
	if _, err := svc.RequireAdmin(joiner.ID, family.ID); !errors.Is(err, ErrNotFamilyAdmin) {
		t.Errorf("joiner RequireAdmin(): got %v, want ErrNotFamilyAdmin", err)
	}

	if _, err := svc.JoinFamily(family.InviteCode, joiner.ID); !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("second join: got %v, want ErrAlreadyMember", err)
	}
	if _, err := svc.JoinFamily("nonexistent-code", joiner.ID); !errors.Is(err, ErrInvalidInviteCode) {
		t.Errorf("bad code: got %v, want ErrInvalidInviteCode", err)
	}
}

func TestRegenerateInviteCode(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	member := createTestUser(t, db, "member")
	svc := newTestFamilyService(t, db)

	family, err := svc.CreateFamily("Smith Family", admin.ID)
	if err != nil {
		t.Fatalf("CreateFamily() error = %v", err)
	}
	addTestMember(t, db, family.ID, member.ID)

	newCode, err := svc.RegenerateInviteCode(admin.ID, family.ID)
	if err != nil {
		t.Fatalf("RegenerateInviteCode() error = %v", err)
	}
	if newCode == family.InviteCode {
		t.Error("invite code should change")
	}

	// The old code stops working
	stranger := createTestUser(t, db, "stranger")
	if _, err := svc.JoinFamily(family.InviteCode, stranger.ID); !errors.Is(err, ErrInvalidInviteCode) {
		t.Errorf("old code after regenerate: got %v, want ErrInvalidInviteCode", err)
	}
	if _, err := svc.JoinFamily(newCode, stranger.ID); err != nil {
		t.Errorf("new code should work, got %v", err)
	}

	if _, err := svc.RegenerateInviteCode(member.ID, family.ID); !errors.Is(err, ErrNotFamilyAdmin) {
		t.Errorf("member RegenerateInviteCode(): got %v, want ErrNotFamilyAdmin", err)
	}
}

func TestInviteAndRedeem(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	invitee := createTestUser(t, db, "invitee")
	svc := newTestFamilyService(t, db)

	family, err := svc.CreateFamily("Smith Family", admin.ID)
	if err != nil {
		t.Fatalf("CreateFamily() error = %v", err)
	}

	invitation, err := svc.InviteByEmail(context.Background(), admin.ID, family.ID, "invitee@example.com")
	if err != nil {
		t.Fatalf("InviteByEmail() error = %v", err)
	}
	if invitation.Code == "" {
		t.Fatal("invitation should carry a code")
	}

	joined, err := svc.RedeemInvitation(invitation.Code, invitee.ID)
	if err != nil {
		t.Fatalf("RedeemInvitation() error = %v", err)
	}
	if joined.ID != family.ID {
		t.Errorf("RedeemInvitation() family ID = %d, want %d", joined.ID, family.ID)
	}

	// Single use
	other := createTestUser(t, db, "other")
	if _, err := svc.RedeemInvitation(invitation.Code, other.ID); !errors.Is(err, ErrInvitationInvalid) {
		t.Errorf("second redeem: got %v, want ErrInvitationInvalid", err)
	}
	if _, err := svc.RedeemInvitation("bogus-code", other.ID); !errors.Is(err, ErrInvitationInvalid) {
		t.Errorf("bogus code: got %v, want ErrInvitationInvalid", err)
	}
}

func TestInviteByEmailAuthorization(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	member := createTestUser(t, db, "member")
	svc := newTestFamilyService(t, db)

	family, err := svc.CreateFamily("Smith Family", admin.ID)
	if err != nil {
		t.Fatalf("CreateFamily() error = %v", err)
	}
	addTestMember(t, db, family.ID, member.ID)

	if _, err := svc.InviteByEmail(context.Background(), member.ID, family.ID, "x@example.com"); !errors.Is(err, ErrNotFamilyAdmin) {
		t.Errorf("member invite: got %v, want ErrNotFamilyAdmin", err)
	}
	if _, err := svc.InviteByEmail(context.Background(), admin.ID, family.ID, "not-an-email"); err == nil {
		t.Error("expected validation error for bad email")
	}
}

func TestDeleteFamily(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	member := createTestUser(t, db, "member")
	svc := newTestFamilyService(t, db)

	family, err := svc.CreateFamily("Smith Family", admin.ID)
	if err != nil {
		t.Fatalf("CreateFamily() error = %v", err)
	}
	addTestMember(t, db, family.ID, member.ID)

	if err := svc.DeleteFamily(member.ID, family.ID); !errors.Is(err, ErrNotFamilyAdmin) {
		t.Errorf("member delete: got %v, want ErrNotFamilyAdmin", err)
	}

	if err := svc.DeleteFamily(admin.ID, family.ID); err != nil {
		t.Fatalf("DeleteFamily() error = %v", err)
	}

	gone, err := repository.NewFamilyRepository(db).GetFamilyByID(family.ID)
	if err != nil {
		t.Fatalf("GetFamilyByID() error = %v", err)
	}
	if gone != nil {
		t.Error("deleted family should not be found")
	}
	if err := svc.DeleteFamily(admin.ID, family.ID); !errors.Is(err, ErrNotFamilyMember) {
		t.Errorf("double delete: got %v, want ErrNotFamilyMember", err)
	}
}

func TestBabyManagement(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	member := createTestUser(t, db, "member")
	outsider := createTestUser(t, db, "outsider")
	svc := newTestFamilyService(t, db)

	family, err := svc.CreateFamily("Smith Family", admin.ID)
	if err != nil {
		t.Fatalf("CreateFamily() error = %v", err)
	}
	addTestMember(t, db, family.ID, member.ID)

	// Only admins manage babies
	if _, err := svc.CreateBaby(member.ID, family.ID, "Alice", nil, nil); !errors.Is(err, ErrNotFamilyAdmin) {
		t.Errorf("member CreateBaby(): got %v, want ErrNotFamilyAdmin", err)
	}

	dueDate := time.Now().AddDate(0, 3, 0)
	baby, err := svc.CreateBaby(admin.ID, family.ID, "Alice", nil, &dueDate)
	if err != nil {
		t.Fatalf("CreateBaby() error = %v", err)
	}
	if !baby.IsPrenatal() {
		t.Error("baby with only a due date should be prenatal")
	}

	birthday := time.Now()
	updated, err := svc.UpdateBaby(admin.ID, baby.ID, "Alice", &birthday, nil)
	if err != nil {
		t.Fatalf("UpdateBaby() error = %v", err)
	}
	if !updated.IsBorn() {
		t.Error("baby with a birthday should be born")
	}

	// Members can list, outsiders cannot
	babies, err := svc.GetFamilyBabies(member.ID, family.ID)
	if err != nil {
		t.Fatalf("GetFamilyBabies() error = %v", err)
	}
	if len(babies) != 1 {
		t.Errorf("GetFamilyBabies() returned %d babies, want 1", len(babies))
	}
	if _, err := svc.GetFamilyBabies(outsider.ID, family.ID); !errors.Is(err, ErrNotFamilyMember) {
		t.Errorf("outsider GetFamilyBabies(): got %v, want ErrNotFamilyMember", err)
	}

	if err := svc.DeleteBaby(member.ID, baby.ID); !errors.Is(err, ErrNotFamilyAdmin) {
		t.Errorf("member DeleteBaby(): got %v, want ErrNotFamilyAdmin", err)
	}
	if err := svc.DeleteBaby(admin.ID, baby.ID); err != nil {
		t.Fatalf("DeleteBaby() error = %v", err)
	}
	if err := svc.DeleteBaby(admin.ID, baby.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting twice: got %v, want ErrNotFound", err)
	}
}
