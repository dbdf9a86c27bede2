package models

import "time"

// Growth represents one growth measurement. All measurements are optional;
// a record usually carries at least one of them.
type Growth struct {
	ID                  int64
	BabyID              int64
	UserID              int64
	MeasurementDate     time.Time
	WeightKG            *float64
	HeightCM            *float64
	HeadCircumferenceCM *float64
	Notes               *string
}
