package handler

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/hospital/internal/model"
	"github.com/hospital/internal/repository"
)

type UserHandler struct {
	repo *repository.UserRepository
}

func NewUserHandler(repo *repository.UserRepository) *UserHandler {
	return &UserHandler{repo: repo}
}

// GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GET /api/doctors
func (h *UserHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.ListDoctors(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch doctors")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type userRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	DepartmentID *int   `json:"department_id"`
	Status       string `json:"status"`
}

// POST /api/users/add
func (h *UserHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		writeError(w, http.StatusBadRequest, "name, email, password and role are required")
		return
	}

	exists, err := h.repo.ExistsByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add user")
		return
	}
	if exists {
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add user")
		return
	}
	id, err := h.repo.Create(r.Context(), req.Name, req.Email, string(hash), req.Role, req.DepartmentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add user")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "id": id})
}

type userDetailsResponse struct {
	*model.User
	Department   *string                   `json:"department"`
	Appointments []model.DoctorAppointment `json:"appointments"`
	LabTests     []model.PatientLabTest    `json:"lab_tests"`
}

// GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	user, dept, appts, tests, err := h.repo.GetDetails(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	writeJSON(w, http.StatusOK, userDetailsResponse{
		User:         user,
		Department:   dept,
		Appointments: appts,
		LabTests:     tests,
	})
}

// PUT /api/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	var req userRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || req.Role == "" || req.Status == "" {
		writeError(w, http.StatusBadRequest, "name, email, role and status are required")
		return
	}

	updated, err := h.repo.Update(r.Context(), id, req.Name, req.Email, req.Role, req.DepartmentID, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type passwordResetRequest struct {
	Password string `json:"password"`
}

// PATCH /api/users/{id} — сброс пароля.
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	var req passwordResetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "Password is required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}
	pub, err := h.repo.UpdatePassword(r.Context(), id, string(hash))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": pub})
}
