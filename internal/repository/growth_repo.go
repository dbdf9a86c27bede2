package repository

import (
	"database/sql"
	"fmt"

	"babytrack/internal/database"
	"babytrack/internal/models"
)

// GrowthRepository handles database operations for growth measurements
type GrowthRepository struct {
	db database.DBTX
}

// NewGrowthRepository creates a new growth repository
func NewGrowthRepository(db database.DBTX) *GrowthRepository {
	return &GrowthRepository{db: db}
}

// CreateGrowth inserts a growth measurement
func (r *GrowthRepository) CreateGrowth(g *models.Growth) error {
	query := `
		INSERT INTO growths (baby_id, user_id, measurement_date, weight_kg, height_cm, head_circumference_cm, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		g.BabyID, g.UserID, g.MeasurementDate,
		g.WeightKG, g.HeightCM, g.HeadCircumferenceCM, g.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create growth record: %w", err)
	}
	g.ID = id
	return nil
}

// GetGrowthByID retrieves a growth measurement by ID
func (r *GrowthRepository) GetGrowthByID(id int64) (*models.Growth, error) {
	query := `
		SELECT id, baby_id, user_id, measurement_date, weight_kg, height_cm, head_circumference_cm, notes
		FROM growths WHERE id = ?
	`
	return r.scanGrowth(r.db.QueryRow(query, id))
}

// GetLatestGrowth returns the baby's most recent measurement, or nil
func (r *GrowthRepository) GetLatestGrowth(babyID int64) (*models.Growth, error) {
	query := `
		SELECT id, baby_id, user_id, measurement_date, weight_kg, height_cm, head_circumference_cm, notes
		FROM growths WHERE baby_id = ?
		ORDER BY measurement_date DESC
		LIMIT 1
	`
	return r.scanGrowth(r.db.QueryRow(query, babyID))
}

func (r *GrowthRepository) scanGrowth(row *sql.Row) (*models.Growth, error) {
	g := &models.Growth{}
	err := row.Scan(
		&g.ID, &g.BabyID, &g.UserID, &g.MeasurementDate,
		&g.WeightKG, &g.HeightCM, &g.HeadCircumferenceCM, &g.Notes,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get growth record: %w", err)
	}
	return g, nil
}

// GetBabyGrowths lists a baby's measurements, newest first
func (r *GrowthRepository) GetBabyGrowths(babyID int64, limit int) ([]models.Growth, error) {
	query := `
		SELECT id, baby_id, user_id, measurement_date, weight_kg, height_cm, head_circumference_cm, notes
		FROM growths WHERE baby_id = ?
		ORDER BY measurement_date DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, babyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query growth records: %w", err)
	}
	defer rows.Close()

	var growths []models.Growth
	for rows.Next() {
		var g models.Growth
		if err := rows.Scan(
			&g.ID, &g.BabyID, &g.UserID, &g.MeasurementDate,
			&g.WeightKG, &g.HeightCM, &g.HeadCircumferenceCM, &g.Notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan growth record: %w", err)
		}
		growths = append(growths, g)
	}
	return growths, rows.Err()
}

// UpdateGrowth saves a growth measurement's mutable fields
func (r *GrowthRepository) UpdateGrowth(g *models.Growth) error {
	query := `
		UPDATE growths
		SET measurement_date = ?, weight_kg = ?, height_cm = ?, head_circumference_cm = ?, notes = ?
		WHERE id = ?
	`
	if _, err := r.db.Exec(query,
		g.MeasurementDate, g.WeightKG, g.HeightCM, g.HeadCircumferenceCM, g.Notes, g.ID,
	); err != nil {
		return fmt.Errorf("failed to update growth record: %w", err)
	}
	return nil
}

// DeleteGrowth removes a growth measurement
func (r *GrowthRepository) DeleteGrowth(id int64) error {
	query := "DELETE FROM growths WHERE id = ?"
	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete growth record: %w", err)
	}
	return nil
}
