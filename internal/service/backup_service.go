package service

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"babytrack/internal/database"
)

// BackupData is the complete portable export of the database. Session and
// invitation rows are transient and deliberately excluded.
type BackupData struct {
	Version     string              `json:"version"`
	ExportedAt  time.Time           `json:"exported_at"`
	Users       []UserBackup        `json:"users"`
	Families    []FamilyBackup      `json:"families"`
	Babies      []BabyBackup        `json:"babies"`
	Permissions []PermissionBackup  `json:"permissions"`
	Feedings    []FeedingBackup     `json:"feedings"`
	Sleeps      []SleepBackup       `json:"sleeps"`
	Diapers     []DiaperBackup      `json:"diapers"`
	Growths     []GrowthBackup      `json:"growths"`
	Schedules   []ScheduleBackup    `json:"schedules"`
	Contractions []ContractionBackup `json:"contractions"`
}

// UserBackup represents a user record for backup
type UserBackup struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"password_hash"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	CreatedAt     time.Time `json:"created_at"`
}

// FamilyBackup represents a family with its memberships
type FamilyBackup struct {
	ID         int64                `json:"id"`
	Name       string               `json:"name"`
	InviteCode string               `json:"invite_code"`
	CreatedAt  time.Time            `json:"created_at"`
	Members    []FamilyMemberBackup `json:"members"`
}

// FamilyMemberBackup represents one membership row
type FamilyMemberBackup struct {
	UserID   int64     `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// BabyBackup represents a baby record for backup
type BabyBackup struct {
	ID        int64      `json:"id"`
	FamilyID  int64      `json:"family_id"`
	Name      string     `json:"name"`
	Birthday  *time.Time `json:"birthday"`
	DueDate   *time.Time `json:"due_date"`
	CreatedAt time.Time  `json:"created_at"`
}

// PermissionBackup represents one permission grant row
type PermissionBackup struct {
	BabyID     int64  `json:"baby_id"`
	UserID     int64  `json:"user_id"`
	RecordType string `json:"record_type"`
	CanView    bool   `json:"can_view"`
}

// FeedingBackup represents a feeding record for backup
type FeedingBackup struct {
	ID              int64     `json:"id"`
	BabyID          int64     `json:"baby_id"`
	UserID          int64     `json:"user_id"`
	FeedingTime     time.Time `json:"feeding_time"`
	FeedingType     string    `json:"feeding_type"`
	AmountML        *float64  `json:"amount_ml"`
	DurationMinutes *int      `json:"duration_minutes"`
	Notes           *string   `json:"notes"`
}

// SleepBackup represents a sleep record for backup
type SleepBackup struct {
	ID        int64      `json:"id"`
	BabyID    int64      `json:"baby_id"`
	UserID    int64      `json:"user_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Notes     *string    `json:"notes"`
}

// DiaperBackup represents a diaper change record for backup
type DiaperBackup struct {
	ID         int64     `json:"id"`
	BabyID     int64     `json:"baby_id"`
	UserID     int64     `json:"user_id"`
	ChangeTime time.Time `json:"change_time"`
	DiaperType string    `json:"diaper_type"`
	Notes      *string   `json:"notes"`
}

// GrowthBackup represents a growth measurement for backup
type GrowthBackup struct {
	ID                  int64     `json:"id"`
	BabyID              int64     `json:"baby_id"`
	UserID              int64     `json:"user_id"`
	MeasurementDate     time.Time `json:"measurement_date"`
	WeightKG            *float64  `json:"weight_kg"`
	HeightCM            *float64  `json:"height_cm"`
	HeadCircumferenceCM *float64  `json:"head_circumference_cm"`
	Notes               *string   `json:"notes"`
}

// ScheduleBackup represents a schedule entry for backup
type ScheduleBackup struct {
	ID            int64     `json:"id"`
	BabyID        int64     `json:"baby_id"`
	UserID        int64     `json:"user_id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	ScheduledTime time.Time `json:"scheduled_time"`
	IsCompleted   bool      `json:"is_completed"`
	CreatedAt     time.Time `json:"created_at"`
}

// ContractionBackup represents a contraction record for backup
type ContractionBackup struct {
	ID              int64      `json:"id"`
	BabyID          int64      `json:"baby_id"`
	UserID          int64      `json:"user_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationSeconds *int       `json:"duration_seconds"`
	IntervalSeconds *int       `json:"interval_seconds"`
	Notes           *string    `json:"notes"`
}

// BackupService handles database export and restore
type BackupService struct {
	db     *database.DB
	logger zerolog.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB, logger zerolog.Logger) *BackupService {
	return &BackupService{db: db, logger: logger}
}

// Export writes a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	s.logger.Info().Str("path", outputPath).Msg("database exported")
	return nil
}

// ExportToWriter exports the database as indented JSON
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	steps := []struct {
		name string
		fn   func(*BackupData) error
	}{
		{"users", s.exportUsers},
		{"families", s.exportFamilies},
		{"babies", s.exportBabies},
		{"permissions", s.exportPermissions},
		{"feedings", s.exportFeedings},
		{"sleeps", s.exportSleeps},
		{"diapers", s.exportDiapers},
		{"growths", s.exportGrowths},
		{"schedules", s.exportSchedules},
		{"contractions", s.exportContractions},
	}
	for _, step := range steps {
		if err := step.fn(backup); err != nil {
			return fmt.Errorf("failed to export %s: %w", step.name, err)
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup stream. Rows are
// inserted with their original IDs, in dependency order, into an empty
// database.
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	s.logger.Info().
		Str("version", backup.Version).
		Time("exported_at", backup.ExportedAt).
		Msg("starting database import")

	steps := []struct {
		name string
		fn   func(*BackupData) error
	}{
		{"users", s.importUsers},
		{"families", s.importFamilies},
		{"babies", s.importBabies},
		{"permissions", s.importPermissions},
		{"feedings", s.importFeedings},
		{"sleeps", s.importSleeps},
		{"diapers", s.importDiapers},
		{"growths", s.importGrowths},
		{"schedules", s.importSchedules},
		{"contractions", s.importContractions},
	}
	for _, step := range steps {
		if err := step.fn(&backup); err != nil {
			return fmt.Errorf("failed to import %s: %w", step.name, err)
		}
	}

	s.logger.Info().Msg("database import completed")
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, username, password_hash, oauth_provider, oauth_subject, created_at FROM users ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.OAuthProvider, &u.OAuthSubject, &u.CreatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportFamilies(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, name, invite_code, created_at FROM families ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var f FamilyBackup
		if err := rows.Scan(&f.ID, &f.Name, &f.InviteCode, &f.CreatedAt); err != nil {
			return err
		}
		backup.Families = append(backup.Families, f)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range backup.Families {
		f := &backup.Families[i]
		memberRows, err := s.db.Query("SELECT user_id, role, joined_at FROM family_members WHERE family_id = ? ORDER BY user_id", f.ID)
		if err != nil {
			return err
		}
		for memberRows.Next() {
			var m FamilyMemberBackup
			if err := memberRows.Scan(&m.UserID, &m.Role, &m.JoinedAt); err != nil {
				memberRows.Close()
				return err
			}
			f.Members = append(f.Members, m)
		}
		if err := memberRows.Err(); err != nil {
			memberRows.Close()
			return err
		}
		memberRows.Close()
	}
	return nil
}

func (s *BackupService) exportBabies(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, family_id, name, birthday, due_date, created_at FROM babies ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var b BabyBackup
		if err := rows.Scan(&b.ID, &b.FamilyID, &b.Name, &b.Birthday, &b.DueDate, &b.CreatedAt); err != nil {
			return err
		}
		backup.Babies = append(backup.Babies, b)
	}
	return rows.Err()
}

func (s *BackupService) exportPermissions(backup *BackupData) error {
	rows, err := s.db.Query("SELECT baby_id, user_id, record_type, can_view FROM baby_permissions ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p PermissionBackup
		if err := rows.Scan(&p.BabyID, &p.UserID, &p.RecordType, &p.CanView); err != nil {
			return err
		}
		backup.Permissions = append(backup.Permissions, p)
	}
	return rows.Err()
}

func (s *BackupService) exportFeedings(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, baby_id, user_id, feeding_time, feeding_type, amount_ml, duration_minutes, notes FROM feedings ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var f FeedingBackup
		if err := rows.Scan(&f.ID, &f.BabyID, &f.UserID, &f.FeedingTime, &f.FeedingType, &f.AmountML, &f.DurationMinutes, &f.Notes); err != nil {
			return err
		}
		backup.Feedings = append(backup.Feedings, f)
	}
	return rows.Err()
}

func (s *BackupService) exportSleeps(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, baby_id, user_id, start_time, end_time, notes FROM sleeps ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sl SleepBackup
		if err := rows.Scan(&sl.ID, &sl.BabyID, &sl.UserID, &sl.StartTime, &sl.EndTime, &sl.Notes); err != nil {
			return err
		}
		backup.Sleeps = append(backup.Sleeps, sl)
	}
	return rows.Err()
}

func (s *BackupService) exportDiapers(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, baby_id, user_id, change_time, diaper_type, notes FROM diapers ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var d DiaperBackup
		if err := rows.Scan(&d.ID, &d.BabyID, &d.UserID, &d.ChangeTime, &d.DiaperType, &d.Notes); err != nil {
			return err
		}
		backup.Diapers = append(backup.Diapers, d)
	}
	return rows.Err()
}

func (s *BackupService) exportGrowths(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, baby_id, user_id, measurement_date, weight_kg, height_cm, head_circumference_cm, notes FROM growths ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g GrowthBackup
		if err := rows.Scan(&g.ID, &g.BabyID, &g.UserID, &g.MeasurementDate, &g.WeightKG, &g.HeightCM, &g.HeadCircumferenceCM, &g.Notes); err != nil {
			return err
		}
		backup.Growths = append(backup.Growths, g)
	}
	return rows.Err()
}

func (s *BackupService) exportSchedules(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, baby_id, user_id, title, description, scheduled_time, is_completed, created_at FROM schedules ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sc ScheduleBackup
		if err := rows.Scan(&sc.ID, &sc.BabyID, &sc.UserID, &sc.Title, &sc.Description, &sc.ScheduledTime, &sc.IsCompleted, &sc.CreatedAt); err != nil {
			return err
		}
		backup.Schedules = append(backup.Schedules, sc)
	}
	return rows.Err()
}

func (s *BackupService) exportContractions(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, baby_id, user_id, start_time, end_time, duration_seconds, interval_seconds, notes FROM contractions ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c ContractionBackup
		if err := rows.Scan(&c.ID, &c.BabyID, &c.UserID, &c.StartTime, &c.EndTime, &c.DurationSeconds, &c.IntervalSeconds, &c.Notes); err != nil {
			return err
		}
		backup.Contractions = append(backup.Contractions, c)
	}
	return rows.Err()
}

func (s *BackupService) importUsers(backup *BackupData) error {
	s.logger.Info().Int("count", len(backup.Users)).Msg("importing users")
	for _, u := range backup.Users {
		_, err := s.db.Exec(
			"INSERT INTO users (id, username, password_hash, oauth_provider, oauth_subject, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			u.ID, u.Username, u.PasswordHash, u.OAuthProvider, u.OAuthSubject, u.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("user %d: %w", u.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importFamilies(backup *BackupData) error {
	s.logger.Info().Int("count", len(backup.Families)).Msg("importing families")
	for _, f := range backup.Families {
		_, err := s.db.Exec(
			"INSERT INTO families (id, name, invite_code, created_at) VALUES (?, ?, ?, ?)",
			f.ID, f.Name, f.InviteCode, f.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("family %d: %w", f.ID, err)
		}
		for _, m := range f.Members {
			_, err := s.db.Exec(
				"INSERT INTO family_members (family_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
				f.ID, m.UserID, m.Role, m.JoinedAt,
			)
			if err != nil {
				return fmt.Errorf("family %d member %d: %w", f.ID, m.UserID, err)
			}
		}
	}
	return nil
}

func (s *BackupService) importBabies(backup *BackupData) error {
	s.logger.Info().Int("count", len(backup.Babies)).Msg("importing babies")
	for _, b := range backup.Babies {
		_, err := s.db.Exec(
			"INSERT INTO babies (id, family_id, name, birthday, due_date, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			b.ID, b.FamilyID, b.Name, b.Birthday, b.DueDate, b.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("baby %d: %w", b.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importPermissions(backup *BackupData) error {
	s.logger.Info().Int("count", len(backup.Permissions)).Msg("importing permissions")
	for _, p := range backup.Permissions {
		_, err := s.db.Exec(
			"INSERT INTO baby_permissions (baby_id, user_id, record_type, can_view) VALUES (?, ?, ?, ?)",
			p.BabyID, p.UserID, p.RecordType, p.CanView,
		)
		if err != nil {
			return fmt.Errorf("permission for baby %d user %d: %w", p.BabyID, p.UserID, err)
		}
	}
	return nil
}

func (s *BackupService) importFeedings(backup *BackupData) error {
	s.logger.Info().Int("count", len(backup.Feedings)).Msg("importing feedings")
	for _, f := range backup.Feedings {
		_, err := s.db.Exec(
			"INSERT INTO feedings (id, baby_id, user_id, feeding_time, feeding_type, amount_ml, duration_minutes, notes) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			f.ID, f.BabyID, f.UserID, f.FeedingTime, f.FeedingType, f.AmountML, f.DurationMinutes, f.Notes,
		)
		if err != nil {
			return fmt.Errorf("feeding %d: %w", f.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importSleeps(backup *BackupData) error {
	s.logger.Info().Int("count", len(backup.Sleeps)).Msg("importing sleeps")
	for _, sl := range backup.Sleeps {
		_, err := s.db.Exec(
			"INSERT INTO sleeps (id, baby_id, user_id, start_time, end_time, notes) VALUES (?, ?, ?, ?, ?, ?)",
			sl.ID, sl.BabyID, sl.UserID, sl.StartTime, sl.EndTime, sl.Notes,
		)
		if err != nil {
			return fmt.Errorf("sleep %d: %w", sl.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importDiapers(backup *BackupData) error {
	s.logger.Info().Int("count", len(backup.Diapers)).Msg("importing diapers")
	for _, d := range backup.Diapers {
		_, err := s.db.Exec(
			"INSERT INTO diapers (id, baby_id, user_id, change_time, diaper_type, notes) VALUES (?, ?, ?, ?, ?, ?)",
			d.ID, d.BabyID, d.UserID, d.ChangeTime, d.DiaperType, d.Notes,
		)
		if err != nil {
			return fmt.Errorf("diaper %d: %w", d.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importGrowths(backup *BackupData) error {
	s.logger.Info().Int("count", len(backup.Growths)).Msg("importing growths")
	for _, g := range backup.Growths {
		_, err := s.db.Exec(
			"INSERT INTO growths (id, baby_id, user_id, measurement_date, weight_kg, height_cm, head_circumference_cm, notes) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			g.ID, g.BabyID, g.UserID, g.MeasurementDate, g.WeightKG, g.HeightCM, g.HeadCircumferenceCM, g.Notes,
		)
		if err != nil {
			return fmt.Errorf("growth %d: %w", g.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importSchedules(backup *BackupData) error {
	s.logger.Info().Int("count", len(backup.Schedules)).Msg("importing schedules")
	for _, sc := range backup.Schedules {
		_, err := s.db.Exec(
			"INSERT INTO schedules (id, baby_id, user_id, title, description, scheduled_time, is_completed, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			sc.ID, sc.BabyID, sc.UserID, sc.Title, sc.Description, sc.ScheduledTime, sc.IsCompleted, sc.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("schedule %d: %w", sc.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importContractions(backup *BackupData) error {
	s.logger.Info().Int("count", len(backup.Contractions)).Msg("importing contractions")
	for _, c := range backup.Contractions {
		_, err := s.db.Exec(
			"INSERT INTO contractions (id, baby_id, user_id, start_time, end_time, duration_seconds, interval_seconds, notes) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			c.ID, c.BabyID, c.UserID, c.StartTime, c.EndTime, c.DurationSeconds, c.IntervalSeconds, c.Notes,
		)
		if err != nil {
			return fmt.Errorf("contraction %d: %w", c.ID, err)
		}
	}
	return nil
}
