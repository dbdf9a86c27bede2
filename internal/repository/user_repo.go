package repository

import (
	"database/sql"
	"fmt"
	"time"

	"babytrack/internal/database"
	"babytrack/internal/models"
)

// UserRepository handles database operations for users and their sessions
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser creates a new user account
func (r *UserRepository) CreateUser(username, passwordHash string) (*models.User, error) {
	query := "INSERT INTO users (username, password_hash) VALUES (?, ?)"
	id, err := r.db.ExecReturningID(query, username, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(userID int64) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, oauth_provider, oauth_subject, created_at
		FROM users WHERE id = ?
	`
	return r.scanUser(r.db.QueryRow(query, userID))
}

// GetUserByUsername retrieves a user by their unique handle
func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, oauth_provider, oauth_subject, created_at
		FROM users WHERE username = ?
	`
	return r.scanUser(r.db.QueryRow(query, username))
}

// GetUserByOAuth retrieves a user by OAuth provider identity
func (r *UserRepository) GetUserByOAuth(provider, subject string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, oauth_provider, oauth_subject, created_at
		FROM users WHERE oauth_provider = ? AND oauth_subject = ?
	`
	return r.scanUser(r.db.QueryRow(query, provider, subject))
}

// LinkOAuthProvider attaches an OAuth identity to an existing user
func (r *UserRepository) LinkOAuthProvider(userID int64, provider, subject string) error {
	query := "UPDATE users SET oauth_provider = ?, oauth_subject = ? WHERE id = ?"
	if _, err := r.db.Exec(query, provider, subject, userID); err != nil {
		return fmt.Errorf("failed to link oauth provider: %w", err)
	}
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.OAuthProvider,
		&user.OAuthSubject,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// CreateSession persists a new session token
func (r *UserRepository) CreateSession(token string, userID int64, expiresAt time.Time) (*models.Session, error) {
	query := "INSERT INTO user_sessions (token, user_id, expires_at) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(query, token, userID, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &models.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}, nil
}

// GetSession retrieves a session by token
func (r *UserRepository) GetSession(token string) (*models.Session, error) {
	query := "SELECT token, user_id, created_at, expires_at FROM user_sessions WHERE token = ?"
	session := &models.Session{}
	err := r.db.QueryRow(query, token).Scan(
		&session.Token,
		&session.UserID,
		&session.CreatedAt,
		&session.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// DeleteSession removes a session by token
func (r *UserRepository) DeleteSession(token string) error {
	query := "DELETE FROM user_sessions WHERE token = ?"
	if _, err := r.db.Exec(query, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions purges all sessions past their expiry
func (r *UserRepository) DeleteExpiredSessions() error {
	query := "DELETE FROM user_sessions WHERE expires_at < ?"
	if _, err := r.db.Exec(query, time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}
