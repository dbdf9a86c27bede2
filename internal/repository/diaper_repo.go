package repository

import (
	"database/sql"
	"fmt"
	"time"

	"babytrack/internal/database"
	"babytrack/internal/models"
)

// DiaperRepository handles database operations for diaper change records
type DiaperRepository struct {
	db database.DBTX
}

// NewDiaperRepository creates a new diaper repository
func NewDiaperRepository(db database.DBTX) *DiaperRepository {
	return &DiaperRepository{db: db}
}

// CreateDiaper inserts a diaper change record
func (r *DiaperRepository) CreateDiaper(d *models.Diaper) error {
	query := "INSERT INTO diapers (baby_id, user_id, change_time, diaper_type, notes) VALUES (?, ?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, d.BabyID, d.UserID, d.ChangeTime, string(d.DiaperType), d.Notes)
	if err != nil {
		return fmt.Errorf("failed to create diaper change: %w", err)
	}
	d.ID = id
	return nil
}

// GetDiaperByID retrieves a diaper change record by ID
func (r *DiaperRepository) GetDiaperByID(id int64) (*models.Diaper, error) {
	query := "SELECT id, baby_id, user_id, change_time, diaper_type, notes FROM diapers WHERE id = ?"
	d := &models.Diaper{}
	err := r.db.QueryRow(query, id).Scan(&d.ID, &d.BabyID, &d.UserID, &d.ChangeTime, &d.DiaperType, &d.Notes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get diaper change: %w", err)
	}
	return d, nil
}

// GetBabyDiapers lists a baby's diaper changes, newest first
func (r *DiaperRepository) GetBabyDiapers(babyID int64, limit int) ([]models.Diaper, error) {
	query := `
		SELECT id, baby_id, user_id, change_time, diaper_type, notes
		FROM diapers WHERE baby_id = ?
		ORDER BY change_time DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, babyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query diaper changes: %w", err)
	}
	defer rows.Close()

	var diapers []models.Diaper
	for rows.Next() {
		var d models.Diaper
		if err := rows.Scan(&d.ID, &d.BabyID, &d.UserID, &d.ChangeTime, &d.DiaperType, &d.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan diaper change: %w", err)
		}
		diapers = append(diapers, d)
	}
	return diapers, rows.Err()
}

// UpdateDiaper saves a diaper change record's mutable fields
func (r *DiaperRepository) UpdateDiaper(d *models.Diaper) error {
	query := "UPDATE diapers SET change_time = ?, diaper_type = ?, notes = ? WHERE id = ?"
	if _, err := r.db.Exec(query, d.ChangeTime, string(d.DiaperType), d.Notes, d.ID); err != nil {
		return fmt.Errorf("failed to update diaper change: %w", err)
	}
	return nil
}

// DeleteDiaper removes a diaper change record
func (r *DiaperRepository) DeleteDiaper(id int64) error {
	query := "DELETE FROM diapers WHERE id = ?"
	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete diaper change: %w", err)
	}
	return nil
}

// CountSince counts a baby's diaper changes on or after the given time
func (r *DiaperRepository) CountSince(babyID int64, since time.Time) (int, error) {
	query := "SELECT COUNT(*) FROM diapers WHERE baby_id = ? AND change_time >= ?"
	var count int
	if err := r.db.QueryRow(query, babyID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count diaper changes: %w", err)
	}
	return count, nil
}
