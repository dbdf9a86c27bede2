package repository

import (
	"database/sql"
	"fmt"
	"time"

	"babytrack/internal/database"
	"babytrack/internal/models"
)

// ContractionRepository handles database operations for contraction records
type ContractionRepository struct {
	db database.DBTX
}

// NewContractionRepository creates a new contraction repository
func NewContractionRepository(db database.DBTX) *ContractionRepository {
	return &ContractionRepository{db: db}
}

// CreateContraction inserts a contraction record
func (r *ContractionRepository) CreateContraction(c *models.Contraction) error {
	query := `
		INSERT INTO contractions (baby_id, user_id, start_time, end_time, duration_seconds, interval_seconds, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		c.BabyID, c.UserID, c.StartTime, c.EndTime,
		c.DurationSeconds, c.IntervalSeconds, c.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create contraction: %w", err)
	}
	c.ID = id
	return nil
}

// GetContractionByID retrieves a contraction record by ID
func (r *ContractionRepository) GetContractionByID(id int64) (*models.Contraction, error) {
	query := `
		SELECT id, baby_id, user_id, start_time, end_time, duration_seconds, interval_seconds, notes
		FROM contractions WHERE id = ?
	`
	return r.scanContraction(r.db.QueryRow(query, id))
}

// GetOngoingContraction returns the baby's in-progress contraction, or nil
func (r *ContractionRepository) GetOngoingContraction(babyID int64) (*models.Contraction, error) {
	query := `
		SELECT id, baby_id, user_id, start_time, end_time, duration_seconds, interval_seconds, notes
		FROM contractions WHERE baby_id = ? AND end_time IS NULL
	`
	return r.scanContraction(r.db.QueryRow(query, babyID))
}

// GetLastCompletedContraction returns the most recent contraction with an
// end time on or after the given cutoff, or nil
func (r *ContractionRepository) GetLastCompletedContraction(babyID int64, cutoff time.Time) (*models.Contraction, error) {
	query := `
		SELECT id, baby_id, user_id, start_time, end_time, duration_seconds, interval_seconds, notes
		FROM contractions
		WHERE baby_id = ? AND end_time IS NOT NULL AND end_time >= ?
		ORDER BY start_time DESC
		LIMIT 1
	`
	return r.scanContraction(r.db.QueryRow(query, babyID, cutoff))
}

func (r *ContractionRepository) scanContraction(row *sql.Row) (*models.Contraction, error) {
	c := &models.Contraction{}
	err := row.Scan(
		&c.ID, &c.BabyID, &c.UserID, &c.StartTime, &c.EndTime,
		&c.DurationSeconds, &c.IntervalSeconds, &c.Notes,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contraction: %w", err)
	}
	return c, nil
}

// GetBabyContractions lists a baby's contractions, newest first
func (r *ContractionRepository) GetBabyContractions(babyID int64, limit int) ([]models.Contraction, error) {
	query := `
		SELECT id, baby_id, user_id, start_time, end_time, duration_seconds, interval_seconds, notes
		FROM contractions WHERE baby_id = ?
		ORDER BY start_time DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, babyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query contractions: %w", err)
	}
	defer rows.Close()

	return scanContractions(rows)
}

// GetContractionsSince lists contractions that started on or after the
// given time, oldest first
func (r *ContractionRepository) GetContractionsSince(babyID int64, since time.Time) ([]models.Contraction, error) {
	query := `
		SELECT id, baby_id, user_id, start_time, end_time, duration_seconds, interval_seconds, notes
		FROM contractions WHERE baby_id = ? AND start_time >= ?
		ORDER BY start_time ASC
	`
	rows, err := r.db.Query(query, babyID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query contractions: %w", err)
	}
	defer rows.Close()

	return scanContractions(rows)
}

func scanContractions(rows *sql.Rows) ([]models.Contraction, error) {
	var contractions []models.Contraction
	for rows.Next() {
		var c models.Contraction
		if err := rows.Scan(
			&c.ID, &c.BabyID, &c.UserID, &c.StartTime, &c.EndTime,
			&c.DurationSeconds, &c.IntervalSeconds, &c.Notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contraction: %w", err)
		}
		contractions = append(contractions, c)
	}
	return contractions, rows.Err()
}

// UpdateContraction saves a contraction record's mutable fields
func (r *ContractionRepository) UpdateContraction(c *models.Contraction) error {
	query := `
		UPDATE contractions
		SET start_time = ?, end_time = ?, duration_seconds = ?, interval_seconds = ?, notes = ?
		WHERE id = ?
	`
	if _, err := r.db.Exec(query,
		c.StartTime, c.EndTime, c.DurationSeconds, c.IntervalSeconds, c.Notes, c.ID,
	); err != nil {
		return fmt.Errorf("failed to update contraction: %w", err)
	}
	return nil
}

// DeleteContraction removes a contraction record
func (r *ContractionRepository) DeleteContraction(id int64) error {
	query := "DELETE FROM contractions WHERE id = ?"
	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete contraction: %w", err)
	}
	return nil
}
