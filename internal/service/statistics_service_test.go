package service

import (
	"testing"
	"time"

	"babytrack/internal/models"
	"babytrack/internal/repository"
)

func TestGetBabyStatistics(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	family := createTestFamily(t, db, admin.ID)
	baby := createTestBaby(t, db, family.ID, "Alice")

	feedingRepo := repository.NewFeedingRepository(db)
	sleepRepo := repository.NewSleepRepository(db)
	diaperRepo := repository.NewDiaperRepository(db)
	growthRepo := repository.NewGrowthRepository(db)
	contractionRepo := repository.NewContractionRepository(db)

	now := time.Now()
	amount := 120.0
	// Two feedings inside the week, one outside
	for _, offset := range []time.Duration{-2 * time.Hour, -48 * time.Hour, -8 * 24 * time.Hour} {
		f := &models.Feeding{
			BabyID:      baby.ID,
			UserID:      admin.ID,
			FeedingTime: now.Add(offset),
			FeedingType: models.FeedingBottle,
			AmountML:    &amount,
		}
		if err := feedingRepo.CreateFeeding(f); err != nil {
			t.Fatalf("CreateFeeding() error = %v", err)
		}
	}

	// One completed two-hour sleep inside the week
	sleepEnd := now.Add(-time.Hour)
	sleepStart := sleepEnd.Add(-2 * time.Hour)
	if err := sleepRepo.CreateSleep(&models.Sleep{
		BabyID:    baby.ID,
		UserID:    admin.ID,
		StartTime: sleepStart,
		EndTime:   &sleepEnd,
	}); err != nil {
		t.Fatalf("CreateSleep() error = %v", err)
	}

	if err := diaperRepo.CreateDiaper(&models.Diaper{
		BabyID:     baby.ID,
		UserID:     admin.ID,
		ChangeTime: now.Add(-30 * time.Minute),
		DiaperType: models.DiaperWet,
	}); err != nil {
		t.Fatalf("CreateDiaper() error = %v", err)
	}

	weight := 7.2
	if err := growthRepo.CreateGrowth(&models.Growth{
		BabyID:          baby.ID,
		UserID:          admin.ID,
		MeasurementDate: now.Add(-24 * time.Hour),
		WeightKG:        &weight,
	}); err != nil {
		t.Fatalf("CreateGrowth() error = %v", err)
	}

	svc := NewStatisticsService(feedingRepo, sleepRepo, diaperRepo, growthRepo, contractionRepo, newTestPermissionService(db))

	stats, err := svc.GetBabyStatistics(admin.ID, baby.ID)
	if err != nil {
		t.Fatalf("GetBabyStatistics() error = %v", err)
	}

	if stats.Feeding == nil || stats.Feeding.Count != 2 {
		t.Errorf("Feeding = %+v, want count 2", stats.Feeding)
	}
	if stats.Feeding != nil && stats.Feeding.AvgAmountML != 120 {
		t.Errorf("AvgAmountML = %v, want 120", stats.Feeding.AvgAmountML)
	}
	if stats.Sleep == nil || stats.Sleep.Count != 1 || stats.Sleep.TotalMinutes != 120 {
		t.Errorf("Sleep = %+v, want count 1 total 120", stats.Sleep)
	}
	if stats.Sleep != nil && stats.Sleep.Ongoing {
		t.Error("Sleep.Ongoing should be false")
	}
	if stats.Diaper == nil || stats.Diaper.Count != 1 {
		t.Errorf("Diaper = %+v, want count 1", stats.Diaper)
	}
	if stats.LatestGrowth == nil || stats.LatestGrowth.WeightKG == nil || *stats.LatestGrowth.WeightKG != 7.2 {
		t.Errorf("LatestGrowth = %+v, want weight 7.2", stats.LatestGrowth)
	}
	if stats.Contraction == nil || stats.Contraction.Count != 0 {
		t.Errorf("Contraction = %+v, want empty stats", stats.Contraction)
	}
}

func TestStatisticsOngoingSleepCounted(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	family := createTestFamily(t, db, admin.ID)
	baby := createTestBaby(t, db, family.ID, "Alice")

	sleepRepo := repository.NewSleepRepository(db)
	if err := sleepRepo.CreateSleep(&models.Sleep{
		BabyID:    baby.ID,
		UserID:    admin.ID,
		StartTime: time.Now().Add(-30 * time.Minute),
	}); err != nil {
		t.Fatalf("CreateSleep() error = %v", err)
	}

	svc := NewStatisticsService(
		repository.NewFeedingRepository(db),
		sleepRepo,
		repository.NewDiaperRepository(db),
		repository.NewGrowthRepository(db),
		repository.NewContractionRepository(db),
		newTestPermissionService(db),
	)

	stats, err := svc.GetBabyStatistics(admin.ID, baby.ID)
	if err != nil {
		t.Fatalf("GetBabyStatistics() error = %v", err)
	}
	if stats.Sleep == nil {
		t.Fatal("Sleep stats missing")
	}
	if !stats.Sleep.Ongoing {
		t.Error("Sleep.Ongoing should be true")
	}
	// The ongoing session contributes the elapsed ~30 minutes
	if stats.Sleep.TotalMinutes < 29 || stats.Sleep.TotalMinutes > 31 {
		t.Errorf("TotalMinutes = %d, want about 30", stats.Sleep.TotalMinutes)
	}
}

func TestStatisticsContractionWindow(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	family := createTestFamily(t, db, admin.ID)
	baby := createTestBaby(t, db, family.ID, "Alice")

	contractionRepo := repository.NewContractionRepository(db)
	now := time.Now()

	// Two completed contractions inside the hour, one outside
	for i, startOffset := range []time.Duration{-10 * time.Minute, -20 * time.Minute, -2 * time.Hour} {
		start := now.Add(startOffset)
		end := start.Add(60 * time.Second)
		duration := 60
		c := &models.Contraction{
			BabyID:          baby.ID,
			UserID:          admin.ID,
			StartTime:       start,
			EndTime:         &end,
			DurationSeconds: &duration,
		}
		if i == 0 {
			interval := 300
			c.IntervalSeconds = &interval
		}
		if err := contractionRepo.CreateContraction(c); err != nil {
			t.Fatalf("CreateContraction() error = %v", err)
		}
	}

	svc := NewStatisticsService(
		repository.NewFeedingRepository(db),
		repository.NewSleepRepository(db),
		repository.NewDiaperRepository(db),
		repository.NewGrowthRepository(db),
		contractionRepo,
		newTestPermissionService(db),
	)

	stats, err := svc.GetBabyStatistics(admin.ID, baby.ID)
	if err != nil {
		t.Fatalf("GetBabyStatistics() error = %v", err)
	}
	if stats.Contraction == nil {
		t.Fatal("Contraction stats missing")
	}
	if stats.Contraction.Count != 2 {
		t.Errorf("Count = %d, want 2", stats.Contraction.Count)
	}
	if stats.Contraction.AvgDurationSeconds != 60 {
		t.Errorf("AvgDurationSeconds = %v, want 60", stats.Contraction.AvgDurationSeconds)
	}
	// Only one contraction carries an interval; the average ignores the rest
	if stats.Contraction.AvgIntervalSeconds != 300 {
		t.Errorf("AvgIntervalSeconds = %v, want 300", stats.Contraction.AvgIntervalSeconds)
	}
	if stats.Contraction.LastIntervalSeconds == nil || *stats.Contraction.LastIntervalSeconds != 300 {
		t.Errorf("LastIntervalSeconds = %v, want 300", stats.Contraction.LastIntervalSeconds)
	}
}

func TestStatisticsOmitsDeniedSections(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	member := createTestUser(t, db, "member")
	family := createTestFamily(t, db, admin.ID)
	addTestMember(t, db, family.ID, member.ID)
	baby := createTestBaby(t, db, family.ID, "Alice")

	permRepo := repository.NewPermissionRepository(db)
	err := permRepo.UpsertGrants(member.ID, baby.ID, map[models.RecordType]bool{
		models.RecordFeeding: false,
	})
	if err != nil {
		t.Fatalf("UpsertGrants() error = %v", err)
	}

	svc := NewStatisticsService(
		repository.NewFeedingRepository(db),
		repository.NewSleepRepository(db),
		repository.NewDiaperRepository(db),
		repository.NewGrowthRepository(db),
		repository.NewContractionRepository(db),
		newTestPermissionService(db),
	)

	stats, err := svc.GetBabyStatistics(member.ID, baby.ID)
	if err != nil {
		t.Fatalf("GetBabyStatistics() error = %v", err)
	}
	if stats.Feeding != nil {
		t.Error("denied feeding section should be nil")
	}
	if stats.Sleep == nil || stats.Diaper == nil {
		t.Error("permitted sections should be populated")
	}
}
