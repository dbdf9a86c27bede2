package models

import "time"

// Family roles. An admin has unconditional access to every record type of
// every baby in the family; members are subject to permission grants.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Family represents a group of caregivers sharing babies and records
type Family struct {
	ID         int64
	Name       string
	InviteCode string
	CreatedAt  time.Time
}

// FamilyMember represents the relationship between a user and a family
type FamilyMember struct {
	FamilyID int64
	UserID   int64
	Role     string // RoleAdmin or RoleMember
	JoinedAt time.Time
}

// IsAdmin reports whether this membership carries the admin role
func (m *FamilyMember) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// FamilyWithMembers combines a family with its member information
type FamilyWithMembers struct {
	Family  Family
	Members []FamilyMember
	Users   []User
}
