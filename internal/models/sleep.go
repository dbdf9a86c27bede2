package models

import "time"

// Sleep represents one sleep session. EndTime == nil means the session is
// still ongoing.
type Sleep struct {
	ID        int64
	BabyID    int64
	UserID    int64
	StartTime time.Time
	EndTime   *time.Time
	Notes     *string
}

// IsOngoing reports whether the sleep session has not ended yet
func (s *Sleep) IsOngoing() bool {
	return s.EndTime == nil
}

// DurationMinutes returns the completed sleep duration in minutes, or 0
// while the session is ongoing.
func (s *Sleep) DurationMinutes() int {
	if s.EndTime == nil {
		return 0
	}
	return int(s.EndTime.Sub(s.StartTime).Minutes())
}
