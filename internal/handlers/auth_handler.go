package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"babytrack/internal/models"
	"babytrack/internal/security"
	"babytrack/internal/service"
)

// AuthHandler handles registration, login and session endpoints
type AuthHandler struct {
	authService    *service.AuthService
	csrf           *security.CSRFGenerator
	oauthProviders map[string]OAuthProvider
	oauthBaseURL   string
	logger         zerolog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, csrf *security.CSRFGenerator, oauthProviders map[string]OAuthProvider, oauthBaseURL string, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		csrf:           csrf,
		oauthProviders: oauthProviders,
		oauthBaseURL:   oauthBaseURL,
		logger:         logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type sessionResponse struct {
	User      userResponse `json:"user"`
	CSRFToken string       `json:"csrf_token"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username}
}

// Register creates a new account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Register(req.Username, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info().Str("username", user.Username).Msg("user registered")
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// Login authenticates and sets the session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, user, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, security.SessionCookieName, session.Token, session.ExpiresAt))
	h.writeSession(w, session.Token, user)
}

// Logout invalidates the session and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		if err := h.authService.Logout(cookie.Value); err != nil {
			h.logger.Warn().Err(err).Msg("failed to delete session")
		}
	}
	http.SetCookie(w, security.CreateDeleteCookie(r, security.SessionCookieName))
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user together with its CSRF token
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	cookie, err := r.Cookie(security.SessionCookieName)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	h.writeSession(w, cookie.Value, user)
}

func (h *AuthHandler) writeSession(w http.ResponseWriter, sessionToken string, user *models.User) {
	csrfToken, err := h.csrf.GenerateToken(sessionToken)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		User:      toUserResponse(user),
		CSRFToken: csrfToken,
	})
}
