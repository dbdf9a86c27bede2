package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"babytrack/internal/models"
	"babytrack/internal/repository"
	"babytrack/internal/security"
	"babytrack/internal/validation"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// AuthService handles registration, login and session validation
type AuthService struct {
	userRepo        *repository.UserRepository
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		sessionDuration: sessionDuration,
	}
}

// Register creates a new user account
func (s *AuthService) Register(username, password string) (*models.User, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.CreateUser(username, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login authenticates a user and creates a database-backed session
func (s *AuthService) Login(username, password string) (*models.Session, *models.User, error) {
	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.createSession(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// ValidateSession checks a session token and returns the associated user.
// Expired sessions are deleted as a side effect.
func (s *AuthService) ValidateSession(token string) (*models.User, error) {
	session, err := s.userRepo.GetSession(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = s.userRepo.DeleteSession(token)
		return nil, ErrSessionExpired
	}

	user, err := s.userRepo.GetUserByID(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrSessionNotFound
	}
	return user, nil
}

// Logout invalidates a session
func (s *AuthService) Logout(token string) error {
	if err := s.userRepo.DeleteSession(token); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions from the database
func (s *AuthService) CleanupExpiredSessions() error {
	if err := s.userRepo.DeleteExpiredSessions(); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return nil
}

// OAuthLogin authenticates or creates a user from a verified OAuth identity
// and starts a session. The email is only used to derive a username for new
// accounts.
func (s *AuthService) OAuthLogin(provider, subject, email string) (*models.Session, *models.User, error) {
	if provider == "" || subject == "" {
		return nil, nil, errors.New("missing oauth provider information")
	}

	user, err := s.userRepo.GetUserByOAuth(provider, subject)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lookup oauth user: %w", err)
	}

	if user == nil {
		username, err := s.availableUsername(strings.Split(email, "@")[0])
		if err != nil {
			return nil, nil, err
		}

		// OAuth accounts get an unguessable local password so the
		// password login path stays closed for them.
		randomHash, err := security.HashPassword(security.GenerateSessionToken())
		if err != nil {
			return nil, nil, err
		}

		user, err = s.userRepo.CreateUser(username, randomHash)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create oauth user: %w", err)
		}
		if err := s.userRepo.LinkOAuthProvider(user.ID, provider, subject); err != nil {
			return nil, nil, fmt.Errorf("failed to link oauth provider: %w", err)
		}
		user.OAuthProvider = provider
		user.OAuthSubject = subject
	}

	session, err := s.createSession(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

func (s *AuthService) createSession(userID int64) (*models.Session, error) {
	token := security.GenerateSessionToken()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.userRepo.CreateSession(token, userID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

func (s *AuthService) availableUsername(base string) (string, error) {
	base = strings.ToLower(strings.TrimSpace(base))
	if validation.ValidateUsername(base) != nil {
		base = "user"
	}

	candidate := base
	for i := 1; i < 100; i++ {
		existing, err := s.userRepo.GetUserByUsername(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	return "", errors.New("could not derive an available username")
}
