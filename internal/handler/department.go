package handler

import (
	"net/http"

	"github.com/hospital/internal/repository"
)

type DepartmentHandler struct {
	repo *repository.DepartmentRepository
}

func NewDepartmentHandler(repo *repository.DepartmentRepository) *DepartmentHandler {
	return &DepartmentHandler{repo: repo}
}

// GET /api/departments
func (h *DepartmentHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch departments")
		return
	}
	writeJSON(w, http.StatusOK, items)
}
