package service

import (
	"path/filepath"
	"testing"
	"time"

	"babytrack/internal/database"
	"babytrack/internal/models"
	"babytrack/internal/repository"
)

// newTestDB opens a throwaway SQLite database with the full schema applied.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db database.DBTX, username string) *models.User {
	t.Helper()
	user, err := repository.NewUserRepository(db).CreateUser(username, "not-a-real-hash")
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

// createTestFamily creates a family with the given user as admin.
func createTestFamily(t *testing.T, db database.DBTX, adminID int64) *models.Family {
	t.Helper()
	family, err := repository.NewFamilyRepository(db).CreateFamily("Test Family", adminID)
	if err != nil {
		t.Fatalf("Failed to create family: %v", err)
	}
	return family
}

func addTestMember(t *testing.T, db database.DBTX, familyID, userID int64) {
	t.Helper()
	if err := repository.NewFamilyRepository(db).AddFamilyMember(familyID, userID, models.RoleMember); err != nil {
		t.Fatalf("Failed to add family member: %v", err)
	}
}

func createTestBaby(t *testing.T, db database.DBTX, familyID int64, name string) *models.Baby {
	t.Helper()
	birthday := time.Now().AddDate(0, -6, 0)
	baby, err := repository.NewBabyRepository(db).CreateBaby(familyID, name, &birthday, nil)
	if err != nil {
		t.Fatalf("Failed to create baby %s: %v", name, err)
	}
	return baby
}

func newTestPermissionService(db database.DBTX) *PermissionService {
	return NewPermissionService(
		repository.NewBabyRepository(db),
		repository.NewFamilyRepository(db),
		repository.NewPermissionRepository(db),
	)
}
