package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/hospital/internal/middleware"
	"github.com/hospital/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
	ttl  time.Duration
}

func NewAuthHandler(auth *service.AuthService, ttl time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, ttl: ttl}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Success bool `json:"success"`
	User    any  `json:"user"`
}

func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// Login — POST /api/auth/login. Неверный email и неверный пароль дают один и
// тот же ответ 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	case errors.Is(err, service.ErrRateLimitExceeded):
		writeError(w, http.StatusTooManyRequests, "Too many login attempts, try again later")
		return
	case errors.Is(err, service.ErrUserDisabled):
		writeError(w, http.StatusForbidden, "Account is disabled")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.setAuthCookie(w, token, int(h.ttl.Seconds()))
	writeJSON(w, http.StatusOK, authResponse{Success: true, User: user})
}

// Signup — POST /api/auth/signup. Регистрирует и сразу логинит.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, user, err := h.auth.Signup(r.Context(), req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "Name and a valid email are required")
		return
	case errors.Is(err, service.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.setAuthCookie(w, token, int(h.ttl.Seconds()))
	writeJSON(w, http.StatusCreated, authResponse{Success: true, User: user})
}

// Logout — POST /api/auth/logout. Стирает cookie; сам токен остаётся валидным
// до истечения (состояние на сервере не хранится).
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setAuthCookie(w, "", -1)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}
