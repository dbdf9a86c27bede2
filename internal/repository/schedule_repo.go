package repository

import (
	"database/sql"
	"fmt"
	"time"

	"babytrack/internal/database"
	"babytrack/internal/models"
)

// ScheduleRepository handles database operations for schedule entries
type ScheduleRepository struct {
	db database.DBTX
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db database.DBTX) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// CreateSchedule inserts a schedule entry
func (r *ScheduleRepository) CreateSchedule(s *models.Schedule) error {
	query := `
		INSERT INTO schedules (baby_id, user_id, title, description, scheduled_time, is_completed)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		s.BabyID, s.UserID, s.Title, s.Description, s.ScheduledTime, s.IsCompleted,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	s.ID = id
	s.CreatedAt = time.Now()
	return nil
}

// GetScheduleByID retrieves a schedule entry by ID
func (r *ScheduleRepository) GetScheduleByID(id int64) (*models.Schedule, error) {
	query := `
		SELECT id, baby_id, user_id, title, description, scheduled_time, is_completed, created_at
		FROM schedules WHERE id = ?
	`
	s := &models.Schedule{}
	err := r.db.QueryRow(query, id).Scan(
		&s.ID, &s.BabyID, &s.UserID, &s.Title, &s.Description,
		&s.ScheduledTime, &s.IsCompleted, &s.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return s, nil
}

// GetBabySchedules lists a baby's schedule entries, newest first
func (r *ScheduleRepository) GetBabySchedules(babyID int64, limit int) ([]models.Schedule, error) {
	query := `
		SELECT id, baby_id, user_id, title, description, scheduled_time, is_completed, created_at
		FROM schedules WHERE baby_id = ?
		ORDER BY scheduled_time DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, babyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.Schedule
	for rows.Next() {
		var s models.Schedule
		if err := rows.Scan(
			&s.ID, &s.BabyID, &s.UserID, &s.Title, &s.Description,
			&s.ScheduledTime, &s.IsCompleted, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// UpdateSchedule saves a schedule entry's mutable fields
func (r *ScheduleRepository) UpdateSchedule(s *models.Schedule) error {
	query := `
		UPDATE schedules
		SET title = ?, description = ?, scheduled_time = ?, is_completed = ?
		WHERE id = ?
	`
	if _, err := r.db.Exec(query,
		s.Title, s.Description, s.ScheduledTime, s.IsCompleted, s.ID,
	); err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	return nil
}

// DeleteSchedule removes a schedule entry
func (r *ScheduleRepository) DeleteSchedule(id int64) error {
	query := "DELETE FROM schedules WHERE id = ?"
	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}
