package service

import (
	"errors"
	"testing"
	"time"

	"babytrack/internal/repository"
)

func TestScheduleToggle(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	family := createTestFamily(t, db, admin.ID)
	baby := createTestBaby(t, db, family.ID, "Alice")

	svc := NewScheduleService(repository.NewScheduleRepository(db), newTestPermissionService(db))

	schedule, err := svc.CreateSchedule(admin.ID, baby.ID, "Vaccination", nil, time.Now().Add(24*time.Hour))
	if err != nil {
		t.Fatalf("CreateSchedule() error = %v", err)
	}
	if schedule.IsCompleted {
		t.Fatal("new schedule should start incomplete")
	}

	toggled, err := svc.ToggleSchedule(admin.ID, baby.ID, schedule.ID)
	if err != nil {
		t.Fatalf("ToggleSchedule() error = %v", err)
	}
	if !toggled.IsCompleted {
		t.Error("first toggle should mark the schedule completed")
	}

	toggled, err = svc.ToggleSchedule(admin.ID, baby.ID, schedule.ID)
	if err != nil {
		t.Fatalf("second ToggleSchedule() error = %v", err)
	}
	if toggled.IsCompleted {
		t.Error("second toggle should mark the schedule incomplete again")
	}

	if _, err := svc.ToggleSchedule(admin.ID, baby.ID, schedule.ID+999); !errors.Is(err, ErrNotFound) {
		t.Errorf("toggling missing schedule error = %v, want ErrNotFound", err)
	}

	outsider := createTestUser(t, db, "outsider")
	if _, err := svc.ToggleSchedule(outsider.ID, baby.ID, schedule.ID); !errors.Is(err, ErrNotFamilyMember) {
		t.Errorf("outsider toggle error = %v, want ErrNotFamilyMember", err)
	}
}
