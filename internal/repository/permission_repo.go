package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"babytrack/internal/database"
	"babytrack/internal/models"
)

// PermissionRepository handles database operations for permission grants.
// It deliberately distinguishes "no row" (nil) from an explicit
// can_view=false row; the evaluator's defaults depend on that distinction.
type PermissionRepository struct {
	db database.DBTX
}

// NewPermissionRepository creates a new permission repository
func NewPermissionRepository(db database.DBTX) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// GetGrant returns the explicit grant for (user, baby, record type), or nil
// if none is stored
func (r *PermissionRepository) GetGrant(userID, babyID int64, recordType models.RecordType) (*models.PermissionGrant, error) {
	query := `
		SELECT id, baby_id, user_id, record_type, can_view
		FROM baby_permissions
		WHERE user_id = ? AND baby_id = ? AND record_type = ?
	`
	grant := &models.PermissionGrant{}
	err := r.db.QueryRow(query, userID, babyID, string(recordType)).Scan(
		&grant.ID,
		&grant.BabyID,
		&grant.UserID,
		&grant.RecordType,
		&grant.CanView,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get permission grant: %w", err)
	}
	return grant, nil
}

// GetGrantsForBaby returns all explicit grants stored for (user, baby)
func (r *PermissionRepository) GetGrantsForBaby(userID, babyID int64) ([]models.PermissionGrant, error) {
	query := `
		SELECT id, baby_id, user_id, record_type, can_view
		FROM baby_permissions
		WHERE user_id = ? AND baby_id = ?
	`
	rows, err := r.db.Query(query, userID, babyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query permission grants: %w", err)
	}
	defer rows.Close()

	return scanGrants(rows)
}

// GetGrantsForBabies returns the explicit grants for one record type across
// a set of babies in a single query, regardless of how many babies are
// asked for.
func (r *PermissionRepository) GetGrantsForBabies(userID int64, babyIDs []int64, recordType models.RecordType) ([]models.PermissionGrant, error) {
	if len(babyIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(babyIDs))
	args := make([]interface{}, 0, len(babyIDs)+2)
	args = append(args, userID, string(recordType))
	for i, id := range babyIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT id, baby_id, user_id, record_type, can_view
		FROM baby_permissions
		WHERE user_id = ? AND record_type = ? AND baby_id IN (%s)
	`, strings.Join(placeholders, ", "))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query permission grants: %w", err)
	}
	defer rows.Close()

	return scanGrants(rows)
}

func scanGrants(rows *sql.Rows) ([]models.PermissionGrant, error) {
	var grants []models.PermissionGrant
	for rows.Next() {
		var grant models.PermissionGrant
		if err := rows.Scan(
			&grant.ID, &grant.BabyID, &grant.UserID,
			&grant.RecordType, &grant.CanView,
		); err != nil {
			return nil, fmt.Errorf("failed to scan permission grant: %w", err)
		}
		grants = append(grants, grant)
	}
	return grants, rows.Err()
}

// UpsertGrants writes one grant row per record type for (user, baby) in a
// single transaction, creating rows that did not previously exist
func (r *PermissionRepository) UpsertGrants(userID, babyID int64, grants map[models.RecordType]bool) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for recordType, canView := range grants {
		var existingID int64
		query := "SELECT id FROM baby_permissions WHERE user_id = ? AND baby_id = ? AND record_type = ?"
		err := tx.QueryRow(query, userID, babyID, string(recordType)).Scan(&existingID)
		switch {
		case err == sql.ErrNoRows:
			query = "INSERT INTO baby_permissions (user_id, baby_id, record_type, can_view) VALUES (?, ?, ?, ?)"
			if _, err := tx.Exec(query, userID, babyID, string(recordType), canView); err != nil {
				return fmt.Errorf("failed to insert permission grant: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to look up permission grant: %w", err)
		default:
			query = "UPDATE baby_permissions SET can_view = ? WHERE id = ?"
			if _, err := tx.Exec(query, canView, existingID); err != nil {
				return fmt.Errorf("failed to update permission grant: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
