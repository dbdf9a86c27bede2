package models

import "time"

// Baby represents a child (or pregnancy) tracked by a family
type Baby struct {
	ID        int64
	FamilyID  int64
	Name      string
	Birthday  *time.Time
	DueDate   *time.Time
	CreatedAt time.Time
}

// IsBorn reports whether a birth date has been recorded
func (b *Baby) IsBorn() bool {
	return b.Birthday != nil
}

// IsPrenatal reports whether the baby is tracked as a pregnancy: no birth
// date yet, but an expected due date
func (b *Baby) IsPrenatal() bool {
	return b.Birthday == nil && b.DueDate != nil
}
