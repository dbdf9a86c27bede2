package repository

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"babytrack/internal/database"
	"babytrack/internal/models"
)

// InvitationRepository handles database operations for emailed family invites
type InvitationRepository struct {
	db database.DBTX
}

// NewInvitationRepository creates a new invitation repository
func NewInvitationRepository(db database.DBTX) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func generateInvitationCode() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CreateInvitation creates a new invitation for a family
func (r *InvitationRepository) CreateInvitation(familyID int64, email string, invitedBy int64, expiresAt time.Time) (*models.Invitation, error) {
	code, err := generateInvitationCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation code: %w", err)
	}

	query := "INSERT INTO invitations (family_id, code, email, invited_by, expires_at) VALUES (?, ?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, familyID, code, email, invitedBy, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	return &models.Invitation{
		ID:        id,
		FamilyID:  familyID,
		Code:      code,
		Email:     email,
		InvitedBy: invitedBy,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}, nil
}

// GetInvitationByCode retrieves an invitation by code
func (r *InvitationRepository) GetInvitationByCode(code string) (*models.Invitation, error) {
	query := `
		SELECT id, family_id, code, email, invited_by, created_at, expires_at, used_at, used_by
		FROM invitations WHERE code = ?
	`
	inv := &models.Invitation{}
	err := r.db.QueryRow(query, code).Scan(
		&inv.ID, &inv.FamilyID, &inv.Code, &inv.Email, &inv.InvitedBy,
		&inv.CreatedAt, &inv.ExpiresAt, &inv.UsedAt, &inv.UsedBy,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// MarkInvitationUsed records who redeemed the invitation and when
func (r *InvitationRepository) MarkInvitationUsed(id, usedBy int64) error {
	query := "UPDATE invitations SET used_at = ?, used_by = ? WHERE id = ?"
	if _, err := r.db.Exec(query, time.Now(), usedBy, id); err != nil {
		return fmt.Errorf("failed to mark invitation used: %w", err)
	}
	return nil
}

// DeleteExpiredInvitations purges unused invitations past their expiry
func (r *InvitationRepository) DeleteExpiredInvitations() error {
	query := "DELETE FROM invitations WHERE expires_at < ? AND used_at IS NULL"
	if _, err := r.db.Exec(query, time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired invitations: %w", err)
	}
	return nil
}
