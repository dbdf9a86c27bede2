package service

import (
	"time"

	"babytrack/internal/models"
	"babytrack/internal/repository"
)

// Trailing windows for dashboard rollups.
const (
	statsWindow       = 7 * 24 * time.Hour
	contractionWindow = time.Hour
)

// FeedingStats summarizes feedings over the trailing week
type FeedingStats struct {
	Count       int
	AvgAmountML float64
}

// SleepStats summarizes sleep over the trailing week. An ongoing session
// contributes the minutes elapsed so far to the total.
type SleepStats struct {
	Count        int
	TotalMinutes int
	AvgMinutes   float64
	Ongoing      bool
}

// DiaperStats summarizes diaper changes over the trailing week
type DiaperStats struct {
	Count int
}

// ContractionStats summarizes contractions over the trailing hour. Ongoing
// contractions are counted but contribute zero duration.
type ContractionStats struct {
	Count               int
	AvgDurationSeconds  float64
	AvgIntervalSeconds  float64
	LastIntervalSeconds *int
	Ongoing             bool
}

// BabyStatistics bundles the dashboard rollups for one baby. A nil section
// means the user may not view that record type.
type BabyStatistics struct {
	Feeding      *FeedingStats
	Sleep        *SleepStats
	Diaper       *DiaperStats
	LatestGrowth *models.Growth
	Contraction  *ContractionStats
}

// StatisticsService computes read-only dashboard rollups. Nothing is
// cached; every call recomputes from the record tables.
type StatisticsService struct {
	feedingRepo     *repository.FeedingRepository
	sleepRepo       *repository.SleepRepository
	diaperRepo      *repository.DiaperRepository
	growthRepo      *repository.GrowthRepository
	contractionRepo *repository.ContractionRepository
	permService     *PermissionService
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(
	feedingRepo *repository.FeedingRepository,
	sleepRepo *repository.SleepRepository,
	diaperRepo *repository.DiaperRepository,
	growthRepo *repository.GrowthRepository,
	contractionRepo *repository.ContractionRepository,
	permService *PermissionService,
) *StatisticsService {
	return &StatisticsService{
		feedingRepo:     feedingRepo,
		sleepRepo:       sleepRepo,
		diaperRepo:      diaperRepo,
		growthRepo:      growthRepo,
		contractionRepo: contractionRepo,
		permService:     permService,
	}
}

// GetBabyStatistics computes the dashboard rollups the user is permitted to
// see for one baby. Sections whose record type the user may not view come
// back nil.
func (s *StatisticsService) GetBabyStatistics(userID, babyID int64) (*BabyStatistics, error) {
	baby, err := s.permService.RequireViewAccess(userID, babyID, models.RecordBasicInfo)
	if err != nil {
		return nil, err
	}

	perms, err := s.permService.GetUserPermissions(userID, babyID, baby.FamilyID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stats := &BabyStatistics{}

	if perms[models.RecordFeeding] {
		if stats.Feeding, err = s.feedingStats(babyID, now); err != nil {
			return nil, err
		}
	}
	if perms[models.RecordSleep] {
		if stats.Sleep, err = s.sleepStats(babyID, now); err != nil {
			return nil, err
		}
	}
	if perms[models.RecordDiaper] {
		count, err := s.diaperRepo.CountSince(babyID, now.Add(-statsWindow))
		if err != nil {
			return nil, err
		}
		stats.Diaper = &DiaperStats{Count: count}
	}
	if perms[models.RecordGrowth] {
		if stats.LatestGrowth, err = s.growthRepo.GetLatestGrowth(babyID); err != nil {
			return nil, err
		}
	}
	if perms[models.RecordContraction] {
		if stats.Contraction, err = s.contractionStats(babyID, now); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

func (s *StatisticsService) feedingStats(babyID int64, now time.Time) (*FeedingStats, error) {
	since := now.Add(-statsWindow)
	count, err := s.feedingRepo.CountSince(babyID, since)
	if err != nil {
		return nil, err
	}
	avg, err := s.feedingRepo.AvgAmountSince(babyID, since)
	if err != nil {
		return nil, err
	}
	return &FeedingStats{Count: count, AvgAmountML: avg}, nil
}

func (s *StatisticsService) sleepStats(babyID int64, now time.Time) (*SleepStats, error) {
	sleeps, err := s.sleepRepo.GetSleepsSince(babyID, now.Add(-statsWindow))
	if err != nil {
		return nil, err
	}

	stats := &SleepStats{Count: len(sleeps)}
	for i := range sleeps {
		sl := &sleeps[i]
		if sl.IsOngoing() {
			stats.Ongoing = true
			stats.TotalMinutes += int(now.Sub(sl.StartTime).Minutes())
		} else {
			stats.TotalMinutes += sl.DurationMinutes()
		}
	}
	if stats.Count > 0 {
		stats.AvgMinutes = float64(stats.TotalMinutes) / float64(stats.Count)
	}
	return stats, nil
}

func (s *StatisticsService) contractionStats(babyID int64, now time.Time) (*ContractionStats, error) {
	contractions, err := s.contractionRepo.GetContractionsSince(babyID, now.Add(-contractionWindow))
	if err != nil {
		return nil, err
	}

	stats := &ContractionStats{Count: len(contractions)}
	var durationSum, intervalSum, intervalCount int
	for i := range contractions {
		c := &contractions[i]
		if c.IsOngoing() {
			stats.Ongoing = true
		} else if c.DurationSeconds != nil {
			durationSum += *c.DurationSeconds
		}
		if c.IntervalSeconds != nil {
			intervalSum += *c.IntervalSeconds
			intervalCount++
			stats.LastIntervalSeconds = c.IntervalSeconds
		}
	}
	if stats.Count > 0 {
		stats.AvgDurationSeconds = float64(durationSum) / float64(stats.Count)
	}
	if intervalCount > 0 {
		stats.AvgIntervalSeconds = float64(intervalSum) / float64(intervalCount)
	}
	return stats, nil
}
