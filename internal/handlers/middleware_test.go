package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"babytrack/internal/security"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestCSRFProtect(t *testing.T) {
	csrf := security.NewCSRFGenerator("test-secret")
	mw := NewMiddleware(nil, csrf, nil, zerolog.Nop())

	sessionToken := "session-abc"
	csrfToken, err := csrf.GenerateToken(sessionToken)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name       string
		method     string
		withCookie bool
		header     string
		status     int
	}{
		{"GET passes without token", http.MethodGet, false, "", http.StatusOK},
		{"POST with valid token", http.MethodPost, true, csrfToken, http.StatusOK},
		{"POST without token", http.MethodPost, true, "", http.StatusForbidden},
		{"POST with wrong token", http.MethodPost, true, "wrong", http.StatusForbidden},
		{"POST without session cookie", http.MethodPost, false, csrfToken, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, "/", nil)
			if tt.withCookie {
				r.AddCookie(&http.Cookie{Name: security.SessionCookieName, Value: sessionToken})
			}
			if tt.header != "" {
				r.Header.Set("X-CSRF-Token", tt.header)
			}
			w := httptest.NewRecorder()

			mw.CSRFProtect(okHandler)(w, r)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestRequireAuthWithoutCookie(t *testing.T) {
	mw := NewMiddleware(nil, nil, nil, zerolog.Nop())

	r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	w := httptest.NewRecorder()
	mw.RequireAuth(okHandler)(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := security.NewRateLimiter(2, time.Minute)
	mw := NewMiddleware(nil, nil, limiter, zerolog.Nop())

	handler := mw.RateLimit(okHandler)
	for i := 0; i < 2; i++ {
		r := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}

	r := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	handler(w, r)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
}
