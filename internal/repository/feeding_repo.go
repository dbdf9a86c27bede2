package repository

import (
	"database/sql"
	"fmt"
	"time"

	"babytrack/internal/database"
	"babytrack/internal/models"
)

// FeedingRepository handles database operations for feeding records
type FeedingRepository struct {
	db database.DBTX
}

// NewFeedingRepository creates a new feeding repository
func NewFeedingRepository(db database.DBTX) *FeedingRepository {
	return &FeedingRepository{db: db}
}

// CreateFeeding inserts a feeding record
func (r *FeedingRepository) CreateFeeding(f *models.Feeding) error {
	query := `
		INSERT INTO feedings (baby_id, user_id, feeding_time, feeding_type, amount_ml, duration_minutes, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		f.BabyID, f.UserID, f.FeedingTime, string(f.FeedingType),
		f.AmountML, f.DurationMinutes, f.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create feeding: %w", err)
	}
	f.ID = id
	return nil
}

// GetFeedingByID retrieves a feeding record by ID
func (r *FeedingRepository) GetFeedingByID(id int64) (*models.Feeding, error) {
	query := `
		SELECT id, baby_id, user_id, feeding_time, feeding_type, amount_ml, duration_minutes, notes
		FROM feedings WHERE id = ?
	`
	f := &models.Feeding{}
	err := r.db.QueryRow(query, id).Scan(
		&f.ID, &f.BabyID, &f.UserID, &f.FeedingTime, &f.FeedingType,
		&f.AmountML, &f.DurationMinutes, &f.Notes,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feeding: %w", err)
	}
	return f, nil
}

// GetBabyFeedings lists a baby's feedings, newest first
func (r *FeedingRepository) GetBabyFeedings(babyID int64, limit int) ([]models.Feeding, error) {
	query := `
		SELECT id, baby_id, user_id, feeding_time, feeding_type, amount_ml, duration_minutes, notes
		FROM feedings WHERE baby_id = ?
		ORDER BY feeding_time DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, babyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedings: %w", err)
	}
	defer rows.Close()

	var feedings []models.Feeding
	for rows.Next() {
		var f models.Feeding
		if err := rows.Scan(
			&f.ID, &f.BabyID, &f.UserID, &f.FeedingTime, &f.FeedingType,
			&f.AmountML, &f.DurationMinutes, &f.Notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feeding: %w", err)
		}
		feedings = append(feedings, f)
	}
	return feedings, rows.Err()
}

// UpdateFeeding saves a feeding record's mutable fields
func (r *FeedingRepository) UpdateFeeding(f *models.Feeding) error {
	query := `
		UPDATE feedings
		SET feeding_time = ?, feeding_type = ?, amount_ml = ?, duration_minutes = ?, notes = ?
		WHERE id = ?
	`
	if _, err := r.db.Exec(query,
		f.FeedingTime, string(f.FeedingType), f.AmountML, f.DurationMinutes, f.Notes, f.ID,
	); err != nil {
		return fmt.Errorf("failed to update feeding: %w", err)
	}
	return nil
}

// DeleteFeeding removes a feeding record
func (r *FeedingRepository) DeleteFeeding(id int64) error {
	query := "DELETE FROM feedings WHERE id = ?"
	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete feeding: %w", err)
	}
	return nil
}

// CountSince counts a baby's feedings on or after the given time
func (r *FeedingRepository) CountSince(babyID int64, since time.Time) (int, error) {
	query := "SELECT COUNT(*) FROM feedings WHERE baby_id = ? AND feeding_time >= ?"
	var count int
	if err := r.db.QueryRow(query, babyID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count feedings: %w", err)
	}
	return count, nil
}

// AvgAmountSince averages amount_ml over feedings that recorded an amount,
// on or after the given time. Returns 0 when no amounts exist.
func (r *FeedingRepository) AvgAmountSince(babyID int64, since time.Time) (float64, error) {
	query := `
		SELECT COALESCE(AVG(amount_ml), 0)
		FROM feedings
		WHERE baby_id = ? AND feeding_time >= ? AND amount_ml IS NOT NULL
	`
	var avg float64
	if err := r.db.QueryRow(query, babyID, since).Scan(&avg); err != nil {
		return 0, fmt.Errorf("failed to average feeding amount: %w", err)
	}
	return avg, nil
}
