package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hospital/internal/middleware"
	"github.com/hospital/internal/model"
	"github.com/hospital/internal/repository"
	"github.com/hospital/internal/service"
)

type stubUserStore struct {
	user *model.User
}

func (s *stubUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if s.user != nil && s.user.Email == email {
		cp := *s.user
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return s.user != nil && s.user.Email == email, nil
}

func (s *stubUserStore) Create(_ context.Context, name, email, passwordHash, role string, _ *int) (int, error) {
	s.user = &model.User{ID: 1, Name: name, Email: email, PasswordHash: passwordHash, Role: role, Status: model.StatusActive}
	return 1, nil
}

func (s *stubUserStore) TouchLastActive(_ context.Context, _ int) error { return nil }

type stubLimitStore struct{}

func (stubLimitStore) CheckLoginLimit(_ context.Context, _ string) (bool, error) { return true, nil }
func (stubLimitStore) ResetLoginLimit(_ context.Context, _ string) error         { return nil }

func newAuthHandler(t *testing.T, users *stubUserStore) *AuthHandler {
	t.Helper()
	svc := service.NewAuthService(users, stubLimitStore{}, []byte("handler-test-secret"), 24*time.Hour)
	return NewAuthHandler(svc, 24*time.Hour)
}

func activeUser(t *testing.T, email, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.User{ID: 5, Name: "Dr. John Smith", Email: email, PasswordHash: string(hash), Role: model.RoleDoctor, Status: model.StatusActive}
}

func authCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.AuthCookie {
			return c
		}
	}
	return nil
}

func TestLoginHandlerSuccessSetsCookie(t *testing.T) {
	t.Parallel()

	h := newAuthHandler(t, &stubUserStore{user: activeUser(t, "doctor1@hospital.com", "doctor123")})
	body := `{"email":"doctor1@hospital.com","password":"doctor123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := authCookie(rec)
	require.NotNil(t, cookie, "cookie должна быть установлена")
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, 86400, cookie.MaxAge)

	var resp struct {
		Success bool `json:"success"`
		User    struct {
			ID    int    `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 5, resp.User.ID)
	assert.Equal(t, "doctor1@hospital.com", resp.User.Email)
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	t.Parallel()

	h := newAuthHandler(t, &stubUserStore{user: activeUser(t, "doctor1@hospital.com", "doctor123")})
	body := `{"email":"doctor1@hospital.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, authCookie(rec), "cookie не должна устанавливаться при отказе")

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid email or password", resp.Error)
}

func TestLoginHandlerEmptyCredentialsUnauthorized(t *testing.T) {
	t.Parallel()

	h := newAuthHandler(t, &stubUserStore{user: activeUser(t, "doctor1@hospital.com", "doctor123")})
	for _, body := range []string{`{}`, `{"email":"doctor1@hospital.com"}`, `{"password":"doctor123"}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp errorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "Invalid email or password", resp.Error)
	}
}

func TestSignupHandlerCreatesAndLogsIn(t *testing.T) {
	t.Parallel()

	users := &stubUserStore{}
	h := newAuthHandler(t, users)
	body := `{"name":"New User","email":"new@hospital.com","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, users.user)
	assert.Equal(t, model.RoleUser, users.user.Role)

	cookie := authCookie(rec)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
}

func TestSignupHandlerDuplicateEmail(t *testing.T) {
	t.Parallel()

	h := newAuthHandler(t, &stubUserStore{user: activeUser(t, "taken@hospital.com", "doctor123")})
	body := `{"name":"New User","email":"taken@hospital.com","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutHandlerClearsCookie(t *testing.T) {
	t.Parallel()

	h := newAuthHandler(t, &stubUserStore{})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := authCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Logged out successfully", resp.Message)
}
