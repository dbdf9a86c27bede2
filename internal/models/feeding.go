package models

import "time"

// FeedingType categorizes how the baby was fed
type FeedingType string

const (
	FeedingBreast FeedingType = "breast"
	FeedingBottle FeedingType = "bottle"
	FeedingMixed  FeedingType = "mixed"
)

// Valid reports whether t is a known feeding type
func (t FeedingType) Valid() bool {
	switch t {
	case FeedingBreast, FeedingBottle, FeedingMixed:
		return true
	}
	return false
}

// Feeding represents one feeding record
type Feeding struct {
	ID              int64
	BabyID          int64
	UserID          int64
	FeedingTime     time.Time
	FeedingType     FeedingType
	AmountML        *float64 // nil for breast feedings
	DurationMinutes *int
	Notes           *string
}
