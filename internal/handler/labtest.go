package handler

import (
	"errors"
	"net/http"

	"github.com/hospital/internal/repository"
)

type LabTestHandler struct {
	repo *repository.LabTestRepository
}

func NewLabTestHandler(repo *repository.LabTestRepository) *LabTestHandler {
	return &LabTestHandler{repo: repo}
}

// GET /api/lab-tests
func (h *LabTestHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch lab tests")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type labTestRequest struct {
	PatientID   int    `json:"patient_id"`
	TestName    string `json:"test_name"`
	RequestedBy int    `json:"requested_by"`
	RequestDate string `json:"request_date"`
	Priority    string `json:"priority"`
}

// POST /api/lab-tests/add
func (h *LabTestHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req labTestRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PatientID <= 0 || req.RequestedBy <= 0 || req.TestName == "" || req.RequestDate == "" {
		writeError(w, http.StatusBadRequest, "patient_id, requested_by, test_name and request_date are required")
		return
	}
	if req.Priority == "" {
		req.Priority = "Normal"
	}

	id, testID, err := h.repo.Create(r.Context(), req.PatientID, req.TestName, req.RequestedBy, req.RequestDate, req.Priority)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add lab test")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      id,
		"test_id": testID,
	})
}

// GET /api/lab-tests/{id}
func (h *LabTestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid lab test id")
		return
	}
	details, err := h.repo.GetDetails(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Lab test not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch lab test")
		return
	}
	writeJSON(w, http.StatusOK, details)
}

type labTestUpdateRequest struct {
	Status string  `json:"status"`
	Result *string `json:"result"`
	Notes  *string `json:"notes"`
}

// PUT /api/lab-tests/{id} — статус/результат; completed_at проставляется в SQL
// при первом переходе в Completed.
func (h *LabTestHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid lab test id")
		return
	}
	var req labTestUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "Status is required")
		return
	}

	updated, err := h.repo.Update(r.Context(), id, req.Status, req.Result, req.Notes)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Lab test not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update lab test")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
