package repository

import (
	"database/sql"
	"fmt"
	"time"

	"babytrack/internal/database"
	"babytrack/internal/models"
)

// BabyRepository handles database operations for babies
type BabyRepository struct {
	db database.DBTX
}

// NewBabyRepository creates a new baby repository
func NewBabyRepository(db database.DBTX) *BabyRepository {
	return &BabyRepository{db: db}
}

// CreateBaby registers a baby in a family
func (r *BabyRepository) CreateBaby(familyID int64, name string, birthday, dueDate *time.Time) (*models.Baby, error) {
	query := "INSERT INTO babies (family_id, name, birthday, due_date) VALUES (?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, familyID, name, birthday, dueDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create baby: %w", err)
	}

	return &models.Baby{
		ID:        id,
		FamilyID:  familyID,
		Name:      name,
		Birthday:  birthday,
		DueDate:   dueDate,
		CreatedAt: time.Now(),
	}, nil
}

// GetBabyByID retrieves a baby by ID
func (r *BabyRepository) GetBabyByID(babyID int64) (*models.Baby, error) {
	query := "SELECT id, family_id, name, birthday, due_date, created_at FROM babies WHERE id = ?"
	baby := &models.Baby{}
	err := r.db.QueryRow(query, babyID).Scan(
		&baby.ID,
		&baby.FamilyID,
		&baby.Name,
		&baby.Birthday,
		&baby.DueDate,
		&baby.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get baby: %w", err)
	}
	return baby, nil
}

// GetFamilyBabies retrieves all babies belonging to a family
func (r *BabyRepository) GetFamilyBabies(familyID int64) ([]models.Baby, error) {
	query := `
		SELECT id, family_id, name, birthday, due_date, created_at
		FROM babies WHERE family_id = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query babies: %w", err)
	}
	defer rows.Close()

	var babies []models.Baby
	for rows.Next() {
		var baby models.Baby
		if err := rows.Scan(
			&baby.ID, &baby.FamilyID, &baby.Name,
			&baby.Birthday, &baby.DueDate, &baby.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan baby: %w", err)
		}
		babies = append(babies, baby)
	}

	return babies, rows.Err()
}

// UpdateBaby saves the baby's mutable fields
func (r *BabyRepository) UpdateBaby(baby *models.Baby) error {
	query := "UPDATE babies SET name = ?, birthday = ?, due_date = ? WHERE id = ?"
	if _, err := r.db.Exec(query, baby.Name, baby.Birthday, baby.DueDate, baby.ID); err != nil {
		return fmt.Errorf("failed to update baby: %w", err)
	}
	return nil
}

// DeleteBaby removes a baby; its records and permission rows cascade
func (r *BabyRepository) DeleteBaby(babyID int64) error {
	query := "DELETE FROM babies WHERE id = ?"
	if _, err := r.db.Exec(query, babyID); err != nil {
		return fmt.Errorf("failed to delete baby: %w", err)
	}
	return nil
}
