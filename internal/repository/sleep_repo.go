package repository

import (
	"database/sql"
	"fmt"
	"time"

	"babytrack/internal/database"
	"babytrack/internal/models"
)

// SleepRepository handles database operations for sleep records
type SleepRepository struct {
	db database.DBTX
}

// NewSleepRepository creates a new sleep repository
func NewSleepRepository(db database.DBTX) *SleepRepository {
	return &SleepRepository{db: db}
}

// CreateSleep inserts a sleep record
func (r *SleepRepository) CreateSleep(s *models.Sleep) error {
	query := "INSERT INTO sleeps (baby_id, user_id, start_time, end_time, notes) VALUES (?, ?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, s.BabyID, s.UserID, s.StartTime, s.EndTime, s.Notes)
	if err != nil {
		return fmt.Errorf("failed to create sleep: %w", err)
	}
	s.ID = id
	return nil
}

// GetSleepByID retrieves a sleep record by ID
func (r *SleepRepository) GetSleepByID(id int64) (*models.Sleep, error) {
	query := "SELECT id, baby_id, user_id, start_time, end_time, notes FROM sleeps WHERE id = ?"
	return r.scanSleep(r.db.QueryRow(query, id))
}

// GetOngoingSleep returns the baby's ongoing sleep session, or nil
func (r *SleepRepository) GetOngoingSleep(babyID int64) (*models.Sleep, error) {
	query := "SELECT id, baby_id, user_id, start_time, end_time, notes FROM sleeps WHERE baby_id = ? AND end_time IS NULL"
	return r.scanSleep(r.db.QueryRow(query, babyID))
}

func (r *SleepRepository) scanSleep(row *sql.Row) (*models.Sleep, error) {
	s := &models.Sleep{}
	err := row.Scan(&s.ID, &s.BabyID, &s.UserID, &s.StartTime, &s.EndTime, &s.Notes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sleep: %w", err)
	}
	return s, nil
}

// GetBabySleeps lists a baby's sleep records, newest first
func (r *SleepRepository) GetBabySleeps(babyID int64, limit int) ([]models.Sleep, error) {
	query := `
		SELECT id, baby_id, user_id, start_time, end_time, notes
		FROM sleeps WHERE baby_id = ?
		ORDER BY start_time DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, babyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sleeps: %w", err)
	}
	defer rows.Close()

	return scanSleeps(rows)
}

// GetSleepsSince lists sleep records that started on or after the given time
func (r *SleepRepository) GetSleepsSince(babyID int64, since time.Time) ([]models.Sleep, error) {
	query := `
		SELECT id, baby_id, user_id, start_time, end_time, notes
		FROM sleeps WHERE baby_id = ? AND start_time >= ?
		ORDER BY start_time ASC
	`
	rows, err := r.db.Query(query, babyID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query sleeps: %w", err)
	}
	defer rows.Close()

	return scanSleeps(rows)
}

func scanSleeps(rows *sql.Rows) ([]models.Sleep, error) {
	var sleeps []models.Sleep
	for rows.Next() {
		var s models.Sleep
		if err := rows.Scan(&s.ID, &s.BabyID, &s.UserID, &s.StartTime, &s.EndTime, &s.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan sleep: %w", err)
		}
		sleeps = append(sleeps, s)
	}
	return sleeps, rows.Err()
}

// UpdateSleep saves a sleep record's mutable fields
func (r *SleepRepository) UpdateSleep(s *models.Sleep) error {
	query := "UPDATE sleeps SET start_time = ?, end_time = ?, notes = ? WHERE id = ?"
	if _, err := r.db.Exec(query, s.StartTime, s.EndTime, s.Notes, s.ID); err != nil {
		return fmt.Errorf("failed to update sleep: %w", err)
	}
	return nil
}

// DeleteSleep removes a sleep record
func (r *SleepRepository) DeleteSleep(id int64) error {
	query := "DELETE FROM sleeps WHERE id = ?"
	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete sleep: %w", err)
	}
	return nil
}
