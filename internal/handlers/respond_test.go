package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"babytrack/internal/service"
	"babytrack/internal/validation"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"session not found", service.ErrSessionNotFound, http.StatusUnauthorized},
		{"session expired", service.ErrSessionExpired, http.StatusUnauthorized},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"permission denied", service.ErrPermissionDenied, http.StatusForbidden},
		{"not a member", service.ErrNotFamilyMember, http.StatusForbidden},
		{"not an admin", service.ErrNotFamilyAdmin, http.StatusForbidden},
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"validation failure", validation.ValidationError{Field: "name", Message: "name is required"}, http.StatusBadRequest},
		{"username taken", service.ErrUsernameTaken, http.StatusBadRequest},
		{"bad invite code", service.ErrInvalidInviteCode, http.StatusBadRequest},
		{"already member", service.ErrAlreadyMember, http.StatusBadRequest},
		{"bad invitation", service.ErrInvitationInvalid, http.StatusBadRequest},
		{"unexpected error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeServiceError(w, zerolog.Nop(), tt.err)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			var body errorResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if body.Error == "" {
				t.Error("error message should not be empty")
			}
		})
	}
}

func TestWriteServiceErrorWrapped(t *testing.T) {
	// Wrapped sentinels still map through errors.Is
	w := httptest.NewRecorder()
	wrapped := errors.Join(errors.New("context"), service.ErrNotFound)
	writeServiceError(w, zerolog.Nop(), wrapped)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int64
		ok    bool
	}{
		{"valid id", "42", 42, true},
		{"zero", "0", 0, false},
		{"negative", "-3", 0, false},
		{"not a number", "abc", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/babies/x", nil)
			r.SetPathValue("babyID", tt.value)
			w := httptest.NewRecorder()

			got, ok := pathID(w, r, "babyID")
			if ok != tt.ok || got != tt.want {
				t.Errorf("pathID() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.ok)
			}
			if !tt.ok && w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Alice"}`))
	w := httptest.NewRecorder()
	var p payload
	if !decodeJSON(w, r, &p) || p.Name != "Alice" {
		t.Errorf("decodeJSON() failed on valid input, got %+v", p)
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))
	w = httptest.NewRecorder()
	if decodeJSON(w, r, &p) {
		t.Error("decodeJSON() should fail on truncated input")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
