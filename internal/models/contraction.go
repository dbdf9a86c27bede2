package models

import (
	"fmt"
	"time"
)

// Contraction represents one labor contraction. EndTime == nil means the
// contraction is still in progress. IntervalSeconds is the gap from the
// previous completed contraction's end, fixed at creation time.
type Contraction struct {
	ID              int64
	BabyID          int64
	UserID          int64
	StartTime       time.Time
	EndTime         *time.Time
	DurationSeconds *int
	IntervalSeconds *int
	Notes           *string
}

// IsOngoing reports whether the contraction has not ended yet
func (c *Contraction) IsOngoing() bool {
	return c.EndTime == nil
}

// DurationDisplay formats the duration as m:ss, or "-" when unknown
func (c *Contraction) DurationDisplay() string {
	return formatSeconds(c.DurationSeconds)
}

// IntervalDisplay formats the interval as m:ss, or "-" when unknown
func (c *Contraction) IntervalDisplay() string {
	return formatSeconds(c.IntervalSeconds)
}

func formatSeconds(seconds *int) string {
	if seconds == nil {
		return "-"
	}
	return fmt.Sprintf("%d:%02d", *seconds/60, *seconds%60)
}
