package models

import (
	"testing"
	"time"
)

func TestSessionIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		expected  bool
	}{
		{"future expiry", time.Now().Add(time.Hour), false},
		{"past expiry", time.Now().Add(-time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{Token: "tok", ExpiresAt: tt.expiresAt}
			if got := s.IsExpired(); got != tt.expected {
				t.Errorf("IsExpired() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRecordTypeValid(t *testing.T) {
	for _, rt := range AllRecordTypes {
		if !rt.Valid() {
			t.Errorf("%s should be valid", rt)
		}
	}
	if RecordType("bogus").Valid() {
		t.Error("unknown record type should be invalid")
	}
	if len(AllRecordTypes) != 7 {
		t.Errorf("expected 7 record types, got %d", len(AllRecordTypes))
	}
}

func TestSleepDuration(t *testing.T) {
	start := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	tests := []struct {
		name        string
		sleep       Sleep
		ongoing     bool
		durationMin int
	}{
		{"ongoing", Sleep{StartTime: start}, true, 0},
		{"completed", Sleep{StartTime: start, EndTime: &end}, false, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sleep.IsOngoing(); got != tt.ongoing {
				t.Errorf("IsOngoing() = %v, want %v", got, tt.ongoing)
			}
			if got := tt.sleep.DurationMinutes(); got != tt.durationMin {
				t.Errorf("DurationMinutes() = %d, want %d", got, tt.durationMin)
			}
		})
	}
}

func TestContractionDisplays(t *testing.T) {
	seconds := func(n int) *int { return &n }

	tests := []struct {
		name     string
		value    *int
		expected string
	}{
		{"unknown", nil, "-"},
		{"under a minute", seconds(45), "0:45"},
		{"exact minute", seconds(60), "1:00"},
		{"minutes and seconds", seconds(312), "5:12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Contraction{DurationSeconds: tt.value, IntervalSeconds: tt.value}
			if got := c.DurationDisplay(); got != tt.expected {
				t.Errorf("DurationDisplay() = %q, want %q", got, tt.expected)
			}
			if got := c.IntervalDisplay(); got != tt.expected {
				t.Errorf("IntervalDisplay() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBabyLifeStage(t *testing.T) {
	birthday := time.Now().AddDate(0, -3, 0)
	dueDate := time.Now().AddDate(0, 2, 0)

	tests := []struct {
		name     string
		baby     Baby
		born     bool
		prenatal bool
	}{
		{"born", Baby{Birthday: &birthday}, true, false},
		{"prenatal", Baby{DueDate: &dueDate}, false, true},
		{"no dates", Baby{}, false, false},
		{"born with due date", Baby{Birthday: &birthday, DueDate: &dueDate}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.baby.IsBorn(); got != tt.born {
				t.Errorf("IsBorn() = %v, want %v", got, tt.born)
			}
			if got := tt.baby.IsPrenatal(); got != tt.prenatal {
				t.Errorf("IsPrenatal() = %v, want %v", got, tt.prenatal)
			}
		})
	}
}

func TestFamilyMemberIsAdmin(t *testing.T) {
	admin := FamilyMember{Role: RoleAdmin}
	member := FamilyMember{Role: RoleMember}
	if !admin.IsAdmin() {
		t.Error("admin role should report IsAdmin")
	}
	if member.IsAdmin() {
		t.Error("member role should not report IsAdmin")
	}
}

func TestInvitationState(t *testing.T) {
	now := time.Now()
	used := now.Add(-time.Minute)

	fresh := Invitation{ExpiresAt: now.Add(time.Hour)}
	if fresh.IsExpired() || fresh.IsUsed() {
		t.Error("fresh invitation should be redeemable")
	}

	expired := Invitation{ExpiresAt: now.Add(-time.Hour)}
	if !expired.IsExpired() {
		t.Error("past expiry should report expired")
	}

	redeemed := Invitation{ExpiresAt: now.Add(time.Hour), UsedAt: &used}
	if !redeemed.IsUsed() {
		t.Error("invitation with UsedAt should report used")
	}
}

func TestFeedingTypeValid(t *testing.T) {
	for _, ft := range []FeedingType{FeedingBreast, FeedingBottle, FeedingMixed} {
		if !ft.Valid() {
			t.Errorf("%s should be valid", ft)
		}
	}
	if FeedingType("solid").Valid() {
		t.Error("unknown feeding type should be invalid")
	}
}

func TestDiaperTypeValid(t *testing.T) {
	for _, dt := range []DiaperType{DiaperWet, DiaperDirty, DiaperBoth} {
		if !dt.Valid() {
			t.Errorf("%s should be valid", dt)
		}
	}
	if DiaperType("clean").Valid() {
		t.Error("unknown diaper type should be invalid")
	}
}
