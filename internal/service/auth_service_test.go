package service

import (
	"errors"
	"testing"
	"time"

	"babytrack/internal/repository"
	"babytrack/internal/validation"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), 7*24*time.Hour)

	user, err := svc.Register("carol", "supersecret")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Username != "carol" {
		t.Errorf("Username = %q, want %q", user.Username, "carol")
	}
	if user.PasswordHash == "supersecret" {
		t.Error("password must not be stored in plaintext")
	}

	session, loggedIn, err := svc.Login("carol", "supersecret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("Login() user ID = %d, want %d", loggedIn.ID, user.ID)
	}
	if session.Token == "" {
		t.Error("session token should not be empty")
	}

	validated, err := svc.ValidateSession(session.Token)
	if err != nil {
		t.Fatalf("ValidateSession() error = %v", err)
	}
	if validated.ID != user.ID {
		t.Errorf("ValidateSession() user ID = %d, want %d", validated.ID, user.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), 7*24*time.Hour)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"short username", "ab", "supersecret"},
		{"short password", "carol", "short"},
		{"bad characters", "carol smith", "supersecret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.username, tt.password)
			var vErr validation.ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("Register(%q, %q) error = %v, want ValidationError", tt.username, tt.password, err)
			}
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), 7*24*time.Hour)

	if _, err := svc.Register("carol", "supersecret"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	_, err := svc.Register("carol", "anothersecret")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("Register() duplicate error = %v, want ErrUsernameTaken", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), 7*24*time.Hour)

	if _, err := svc.Register("carol", "supersecret"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, _, err := svc.Login("carol", "wrongpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login("nobody", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() unknown user: got %v, want ErrInvalidCredentials", err)
	}
}

func TestValidateSessionExpired(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	svc := NewAuthService(userRepo, 7*24*time.Hour)

	user := createTestUser(t, db, "carol")
	if _, err := userRepo.CreateSession("stale-token", user.ID, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	if _, err := svc.ValidateSession("stale-token"); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("ValidateSession() expired: got %v, want ErrSessionExpired", err)
	}

	// Expired sessions are deleted on touch
	if _, err := svc.ValidateSession("stale-token"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("ValidateSession() after purge: got %v, want ErrSessionNotFound", err)
	}
}

func TestLogout(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), 7*24*time.Hour)

	if _, err := svc.Register("carol", "supersecret"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	session, _, err := svc.Login("carol", "supersecret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := svc.Logout(session.Token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := svc.ValidateSession(session.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("ValidateSession() after logout: got %v, want ErrSessionNotFound", err)
	}
}

func TestCleanupExpiredSessions(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	svc := NewAuthService(userRepo, 7*24*time.Hour)

	user := createTestUser(t, db, "carol")
	if _, err := userRepo.CreateSession("stale-token", user.ID, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if _, err := userRepo.CreateSession("live-token", user.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	if err := svc.CleanupExpiredSessions(); err != nil {
		t.Fatalf("CleanupExpiredSessions() error = %v", err)
	}

	if _, err := svc.ValidateSession("stale-token"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("stale session should be gone, got %v", err)
	}
	if _, err := svc.ValidateSession("live-token"); err != nil {
		t.Errorf("live session should survive cleanup, got %v", err)
	}
}

func TestOAuthLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), 7*24*time.Hour)

	session, user, err := svc.OAuthLogin("google", "subject-123", "carol@example.com")
	if err != nil {
		t.Fatalf("OAuthLogin() error = %v", err)
	}
	if user.Username == "" || session.Token == "" {
		t.Fatalf("OAuthLogin() returned user %+v session %+v", user, session)
	}

	// Second login with the same identity reuses the account
	_, again, err := svc.OAuthLogin("google", "subject-123", "carol@example.com")
	if err != nil {
		t.Fatalf("OAuthLogin() second error = %v", err)
	}
	if again.ID != user.ID {
		t.Errorf("second OAuthLogin() user ID = %d, want %d", again.ID, user.ID)
	}
}
