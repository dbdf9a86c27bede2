package models

import "time"

// DiaperType categorizes a diaper change
type DiaperType string

const (
	DiaperWet   DiaperType = "wet"
	DiaperDirty DiaperType = "dirty"
	DiaperBoth  DiaperType = "both"
)

// Valid reports whether t is a known diaper type
func (t DiaperType) Valid() bool {
	switch t {
	case DiaperWet, DiaperDirty, DiaperBoth:
		return true
	}
	return false
}

// Diaper represents one diaper change record
type Diaper struct {
	ID         int64
	BabyID     int64
	UserID     int64
	ChangeTime time.Time
	DiaperType DiaperType
	Notes      *string
}
