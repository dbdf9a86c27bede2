package models

import "time"

// Invitation is an emailed invite to join a family, redeemable once until it
// expires. Distinct from the family's standing invite code.
type Invitation struct {
	ID        int64
	FamilyID  int64
	Code      string
	Email     string
	InvitedBy int64
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
	UsedBy    *int64
}

// IsExpired checks if the invitation has expired
func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// IsUsed checks if the invitation has already been redeemed
func (i *Invitation) IsUsed() bool {
	return i.UsedAt != nil
}
