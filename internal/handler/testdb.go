package handler

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/hospital/internal/model"
	"github.com/hospital/internal/repository"
)

// Учётные данные тестового администратора для первого входа на пустой базе.
const (
	testAdminName     = "Test Admin"
	testAdminEmail    = "admin@hospital.com"
	testAdminPassword = "admin123"
)

type TestDBHandler struct {
	repo *repository.UserRepository
}

func NewTestDBHandler(repo *repository.UserRepository) *TestDBHandler {
	return &TestDBHandler{repo: repo}
}

// CreateTestUser — GET /api/test-db/create-test-user. Идемпотентно создаёт
// тестового администратора и возвращает его учётные данные.
func (h *TestDBHandler) CreateTestUser(w http.ResponseWriter, r *http.Request) {
	creds := map[string]string{"email": testAdminEmail, "password": testAdminPassword}

	_, err := h.repo.GetByEmail(r.Context(), testAdminEmail)
	if err == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"message":     "Test user already exists",
			"credentials": creds,
		})
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "Failed to create test user")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create test user")
		return
	}
	if _, err := h.repo.Create(r.Context(), testAdminName, testAdminEmail, string(hash), model.RoleAdmin, nil); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create test user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     "Test user created successfully",
		"credentials": creds,
	})
}
