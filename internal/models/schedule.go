package models

import "time"

// Schedule represents a planned event for a baby (checkup, vaccination, ...)
type Schedule struct {
	ID            int64
	BabyID        int64
	UserID        int64
	Title         string
	Description   *string
	ScheduledTime time.Time
	IsCompleted   bool
	CreatedAt     time.Time
}
