package service

import "errors"

// Shared error values used across services. Handlers map these onto HTTP
// status codes.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFamilyMember  = errors.New("not a member of this family")
	ErrNotFamilyAdmin   = errors.New("admin role required")
)
