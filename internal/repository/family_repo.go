package repository

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"babytrack/internal/database"
	"babytrack/internal/models"
)

// FamilyRepository handles database operations for families and memberships
type FamilyRepository struct {
	db database.DBTX
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db database.DBTX) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// GenerateInviteCode produces the 8-character uppercase hex invite code
func GenerateInviteCode() (string, error) {
	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(bytes)), nil
}

// CreateFamily creates a new family and adds the creator as its admin
func (r *FamilyRepository) CreateFamily(name string, creatorUserID int64) (*models.Family, error) {
	code, err := GenerateInviteCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "INSERT INTO families (name, invite_code) VALUES (?, ?)"
	familyID, err := tx.ExecReturningID(query, name, code)
	if err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	query = "INSERT INTO family_members (family_id, user_id, role) VALUES (?, ?, ?)"
	if _, err := tx.Exec(query, familyID, creatorUserID, models.RoleAdmin); err != nil {
		return nil, fmt.Errorf("failed to add family member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.Family{
		ID:         familyID,
		Name:       name,
		InviteCode: code,
		CreatedAt:  time.Now(),
	}, nil
}

// GetFamilyByID retrieves a family by ID
func (r *FamilyRepository) GetFamilyByID(familyID int64) (*models.Family, error) {
	query := "SELECT id, name, invite_code, created_at FROM families WHERE id = ?"
	return r.scanFamily(r.db.QueryRow(query, familyID))
}

// GetFamilyByInviteCode retrieves a family by its invite code
func (r *FamilyRepository) GetFamilyByInviteCode(code string) (*models.Family, error) {
	query := "SELECT id, name, invite_code, created_at FROM families WHERE invite_code = ?"
	return r.scanFamily(r.db.QueryRow(query, code))
}

func (r *FamilyRepository) scanFamily(row *sql.Row) (*models.Family, error) {
	family := &models.Family{}
	err := row.Scan(&family.ID, &family.Name, &family.InviteCode, &family.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	return family, nil
}

// RegenerateInviteCode replaces the family's invite code with a fresh one
func (r *FamilyRepository) RegenerateInviteCode(familyID int64) (string, error) {
	code, err := GenerateInviteCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	query := "UPDATE families SET invite_code = ? WHERE id = ?"
	if _, err := r.db.Exec(query, code, familyID); err != nil {
		return "", fmt.Errorf("failed to update invite code: %w", err)
	}
	return code, nil
}

// GetUserFamilies retrieves all families a user belongs to
func (r *FamilyRepository) GetUserFamilies(userID int64) ([]models.Family, error) {
	query := `
		SELECT f.id, f.name, f.invite_code, f.created_at
		FROM families f
		INNER JOIN family_members fm ON f.id = fm.family_id
		WHERE fm.user_id = ?
		ORDER BY f.created_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query families: %w", err)
	}
	defer rows.Close()

	var families []models.Family
	for rows.Next() {
		var family models.Family
		if err := rows.Scan(&family.ID, &family.Name, &family.InviteCode, &family.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, family)
	}

	return families, rows.Err()
}

// AddFamilyMember adds a user to a family with the given role
func (r *FamilyRepository) AddFamilyMember(familyID, userID int64, role string) error {
	query := "INSERT INTO family_members (family_id, user_id, role) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(query, familyID, userID, role); err != nil {
		return fmt.Errorf("failed to add family member: %w", err)
	}
	return nil
}

// GetMembership retrieves a user's membership in a family, or nil if the
// user does not belong to it
func (r *FamilyRepository) GetMembership(userID, familyID int64) (*models.FamilyMember, error) {
	query := `
		SELECT family_id, user_id, role, joined_at
		FROM family_members
		WHERE user_id = ? AND family_id = ?
	`
	member := &models.FamilyMember{}
	err := r.db.QueryRow(query, userID, familyID).Scan(
		&member.FamilyID,
		&member.UserID,
		&member.Role,
		&member.JoinedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return member, nil
}

// GetFamilyMembers retrieves all members of a family with their user details
func (r *FamilyRepository) GetFamilyMembers(familyID int64) ([]models.FamilyMember, []models.User, error) {
	query := `
		SELECT fm.family_id, fm.user_id, fm.role, fm.joined_at,
		       u.id, u.username, u.created_at
		FROM family_members fm
		INNER JOIN users u ON fm.user_id = u.id
		WHERE fm.family_id = ?
		ORDER BY fm.joined_at ASC
	`
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	var members []models.FamilyMember
	var users []models.User
	for rows.Next() {
		var member models.FamilyMember
		var user models.User
		if err := rows.Scan(
			&member.FamilyID, &member.UserID, &member.Role, &member.JoinedAt,
			&user.ID, &user.Username, &user.CreatedAt,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		members = append(members, member)
		users = append(users, user)
	}

	return members, users, rows.Err()
}

// DeleteFamily deletes a family; memberships, babies and permission rows
// referencing its babies go with it via ON DELETE CASCADE
func (r *FamilyRepository) DeleteFamily(familyID int64) error {
	query := "DELETE FROM families WHERE id = ?"
	if _, err := r.db.Exec(query, familyID); err != nil {
		return fmt.Errorf("failed to delete family: %w", err)
	}
	return nil
}
