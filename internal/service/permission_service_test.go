package service

import (
	"database/sql"
	"errors"
	"testing"

	"babytrack/internal/database"
	"babytrack/internal/models"
	"babytrack/internal/repository"
)

func TestCanViewBabyRecordDefaults(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	member := createTestUser(t, db, "member")
	outsider := createTestUser(t, db, "outsider")
	family := createTestFamily(t, db, admin.ID)
	addTestMember(t, db, family.ID, member.ID)
	baby := createTestBaby(t, db, family.ID, "Alice")

	svc := newTestPermissionService(db)

	tests := []struct {
		name     string
		userID   int64
		expected bool
	}{
		{"admin can view", admin.ID, true},
		{"member without grants can view", member.ID, true},
		{"non-member cannot view", outsider.ID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.CanViewBabyRecord(tt.userID, baby.ID, family.ID, models.RecordFeeding)
			if err != nil {
				t.Fatalf("CanViewBabyRecord() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("CanViewBabyRecord() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCanViewBabyRecordExplicitGrants(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	member := createTestUser(t, db, "member")
	family := createTestFamily(t, db, admin.ID)
	addTestMember(t, db, family.ID, member.ID)
	baby := createTestBaby(t, db, family.ID, "Alice")

	permRepo := repository.NewPermissionRepository(db)
	err := permRepo.UpsertGrants(member.ID, baby.ID, map[models.RecordType]bool{
		models.RecordFeeding: false,
		models.RecordSleep:   true,
	})
	if err != nil {
		t.Fatalf("UpsertGrants() error = %v", err)
	}

	svc := newTestPermissionService(db)

	denied, err := svc.CanViewBabyRecord(member.ID, baby.ID, family.ID, models.RecordFeeding)
	if err != nil {
		t.Fatalf("CanViewBabyRecord() error = %v", err)
	}
	if denied {
		t.Error("explicit deny grant should override the default")
	}

	allowed, err := svc.CanViewBabyRecord(member.ID, baby.ID, family.ID, models.RecordSleep)
	if err != nil {
		t.Fatalf("CanViewBabyRecord() error = %v", err)
	}
	if !allowed {
		t.Error("explicit allow grant should permit viewing")
	}

	// Ungranted type still falls back to the member default
	diaper, err := svc.CanViewBabyRecord(member.ID, baby.ID, family.ID, models.RecordDiaper)
	if err != nil {
		t.Fatalf("CanViewBabyRecord() error = %v", err)
	}
	if !diaper {
		t.Error("record type without a grant should default to viewable")
	}
}

func TestCanViewBabyRecordAdminIgnoresGrants(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	family := createTestFamily(t, db, admin.ID)
	baby := createTestBaby(t, db, family.ID, "Alice")

	// Even a stored deny row must not restrict an admin
	permRepo := repository.NewPermissionRepository(db)
	err := permRepo.UpsertGrants(admin.ID, baby.ID, map[models.RecordType]bool{
		models.RecordFeeding: false,
	})
	if err != nil {
		t.Fatalf("UpsertGrants() error = %v", err)
	}

	svc := newTestPermissionService(db)
	got, err := svc.CanViewBabyRecord(admin.ID, baby.ID, family.ID, models.RecordFeeding)
	if err != nil {
		t.Fatalf("CanViewBabyRecord() error = %v", err)
	}
	if !got {
		t.Error("admin should see every record type regardless of grants")
	}
}

func TestGetUserPermissions(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	member := createTestUser(t, db, "member")
	outsider := createTestUser(t, db, "outsider")
	family := createTestFamily(t, db, admin.ID)
	addTestMember(t, db, family.ID, member.ID)
	baby := createTestBaby(t, db, family.ID, "Alice")

	permRepo := repository.NewPermissionRepository(db)
	err := permRepo.UpsertGrants(member.ID, baby.ID, map[models.RecordType]bool{
		models.RecordContraction: false,
	})
	if err != nil {
		t.Fatalf("UpsertGrants() error = %v", err)
	}

	svc := newTestPermissionService(db)

	perms, err := svc.GetUserPermissions(member.ID, baby.ID, family.ID)
	if err != nil {
		t.Fatalf("GetUserPermissions() error = %v", err)
	}
	if len(perms) != len(models.AllRecordTypes) {
		t.Errorf("expected %d record types, got %d", len(models.AllRecordTypes), len(perms))
	}
	if perms[models.RecordContraction] {
		t.Error("denied record type should be false")
	}
	if !perms[models.RecordFeeding] {
		t.Error("ungranted record type should default to true for members")
	}

	outsiderPerms, err := svc.GetUserPermissions(outsider.ID, baby.ID, family.ID)
	if err != nil {
		t.Fatalf("GetUserPermissions() error = %v", err)
	}
	for recordType, canView := range outsiderPerms {
		if canView {
			t.Errorf("non-member should not view %s", recordType)
		}
	}
}

func TestGetUserPermissionsBatchDefaultsToHidden(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	member := createTestUser(t, db, "member")
	family := createTestFamily(t, db, admin.ID)
	addTestMember(t, db, family.ID, member.ID)
	visible := createTestBaby(t, db, family.ID, "Alice")
	hidden := createTestBaby(t, db, family.ID, "Bob")

	permRepo := repository.NewPermissionRepository(db)
	err := permRepo.UpsertGrants(member.ID, visible.ID, map[models.RecordType]bool{
		models.RecordBasicInfo: true,
	})
	if err != nil {
		t.Fatalf("UpsertGrants() error = %v", err)
	}

	svc := newTestPermissionService(db)

	got, err := svc.GetUserPermissionsBatch(member.ID, []int64{visible.ID, hidden.ID}, family.ID)
	if err != nil {
		t.Fatalf("GetUserPermissionsBatch() error = %v", err)
	}
	if !got[visible.ID] {
		t.Error("baby with an explicit allow grant should be visible")
	}
	// The single-baby default is allow; the batch default is the opposite.
	// A baby with no grant row disappears from list views.
	if got[hidden.ID] {
		t.Error("baby without a grant should be hidden in batch lookups")
	}

	single, err := svc.CanViewBabyRecord(member.ID, hidden.ID, family.ID, models.RecordBasicInfo)
	if err != nil {
		t.Fatalf("CanViewBabyRecord() error = %v", err)
	}
	if !single {
		t.Error("the same ungranted baby should still be viewable via single lookup")
	}
}

func TestGetUserPermissionsBatchAdmin(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	family := createTestFamily(t, db, admin.ID)
	a := createTestBaby(t, db, family.ID, "Alice")
	b := createTestBaby(t, db, family.ID, "Bob")

	svc := newTestPermissionService(db)
	got, err := svc.GetUserPermissionsBatch(admin.ID, []int64{a.ID, b.ID}, family.ID)
	if err != nil {
		t.Fatalf("GetUserPermissionsBatch() error = %v", err)
	}
	if !got[a.ID] || !got[b.ID] {
		t.Error("admin should see every baby in batch lookups")
	}
}

func TestGetUserPermissionsBatchEmptyInput(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	family := createTestFamily(t, db, admin.ID)

	svc := newTestPermissionService(db)
	got, err := svc.GetUserPermissionsBatch(admin.ID, nil, family.ID)
	if err != nil {
		t.Fatalf("GetUserPermissionsBatch() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty map for empty input, got %v", got)
	}
}

// countingDB wraps a DBTX and counts read queries, so tests can assert the
// batch lookup does not scale with the number of babies.
type countingDB struct {
	database.DBTX
	queries int
}

func (c *countingDB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	c.queries++
	return c.DBTX.Query(query, args...)
}

func (c *countingDB) QueryRow(query string, args ...interface{}) *sql.Row {
	c.queries++
	return c.DBTX.QueryRow(query, args...)
}

func TestGetUserPermissionsBatchSingleQuery(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	member := createTestUser(t, db, "member")
	family := createTestFamily(t, db, admin.ID)
	addTestMember(t, db, family.ID, member.ID)

	var babyIDs []int64
	names := []string{"Alice", "Bob", "Carol", "Dave", "Eve"}
	for _, name := range names {
		babyIDs = append(babyIDs, createTestBaby(t, db, family.ID, name).ID)
	}

	counter := &countingDB{DBTX: db}
	svc := NewPermissionService(
		repository.NewBabyRepository(db),
		repository.NewFamilyRepository(db),
		repository.NewPermissionRepository(counter),
	)

	if _, err := svc.GetUserPermissionsBatch(member.ID, babyIDs, family.ID); err != nil {
		t.Fatalf("GetUserPermissionsBatch() error = %v", err)
	}
	if counter.queries != 1 {
		t.Errorf("batch lookup issued %d grant queries, want 1", counter.queries)
	}
}

func TestUpdatePermissions(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	member := createTestUser(t, db, "member")
	family := createTestFamily(t, db, admin.ID)
	addTestMember(t, db, family.ID, member.ID)
	baby := createTestBaby(t, db, family.ID, "Alice")

	svc := newTestPermissionService(db)

	grants := map[models.RecordType]bool{
		models.RecordFeeding: false,
		models.RecordSleep:   true,
	}
	if err := svc.UpdatePermissions(admin.ID, member.ID, baby.ID, family.ID, grants); err != nil {
		t.Fatalf("UpdatePermissions() error = %v", err)
	}

	perms, err := svc.GetUserPermissions(member.ID, baby.ID, family.ID)
	if err != nil {
		t.Fatalf("GetUserPermissions() error = %v", err)
	}
	if perms[models.RecordFeeding] {
		t.Error("feeding should be denied after update")
	}

	// Flip the deny back to allow and confirm the row round-trips
	if err := svc.UpdatePermissions(admin.ID, member.ID, baby.ID, family.ID, map[models.RecordType]bool{
		models.RecordFeeding: true,
	}); err != nil {
		t.Fatalf("UpdatePermissions() error = %v", err)
	}
	perms, err = svc.GetUserPermissions(member.ID, baby.ID, family.ID)
	if err != nil {
		t.Fatalf("GetUserPermissions() error = %v", err)
	}
	if !perms[models.RecordFeeding] {
		t.Error("feeding should be allowed after second update")
	}
}

func TestUpdatePermissionsAuthorization(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	member := createTestUser(t, db, "member")
	outsider := createTestUser(t, db, "outsider")
	family := createTestFamily(t, db, admin.ID)
	addTestMember(t, db, family.ID, member.ID)
	baby := createTestBaby(t, db, family.ID, "Alice")

	svc := newTestPermissionService(db)
	grants := map[models.RecordType]bool{models.RecordFeeding: false}

	err := svc.UpdatePermissions(member.ID, member.ID, baby.ID, family.ID, grants)
	if !errors.Is(err, ErrNotFamilyAdmin) {
		t.Errorf("member updating permissions: got %v, want ErrNotFamilyAdmin", err)
	}

	err = svc.UpdatePermissions(admin.ID, outsider.ID, baby.ID, family.ID, grants)
	if !errors.Is(err, ErrNotFamilyMember) {
		t.Errorf("granting to non-member: got %v, want ErrNotFamilyMember", err)
	}

	err = svc.UpdatePermissions(admin.ID, member.ID, baby.ID+999, family.ID, grants)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown baby: got %v, want ErrNotFound", err)
	}
}

func TestUpdatePermissionsRejectsUnknownRecordType(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	member := createTestUser(t, db, "member")
	family := createTestFamily(t, db, admin.ID)
	addTestMember(t, db, family.ID, member.ID)
	baby := createTestBaby(t, db, family.ID, "Alice")

	svc := newTestPermissionService(db)
	err := svc.UpdatePermissions(admin.ID, member.ID, baby.ID, family.ID, map[models.RecordType]bool{
		models.RecordType("bogus"): true,
	})
	if err == nil {
		t.Error("expected error for unknown record type")
	}
}
