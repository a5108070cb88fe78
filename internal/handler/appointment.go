package handler

import (
	"net/http"

	"github.com/hospital/internal/repository"
)

type AppointmentHandler struct {
	repo *repository.AppointmentRepository
}

func NewAppointmentHandler(repo *repository.AppointmentRepository) *AppointmentHandler {
	return &AppointmentHandler{repo: repo}
}

// GET /api/appointments
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch appointments")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type appointmentRequest struct {
	PatientID    int     `json:"patient_id"`
	DoctorID     int     `json:"doctor_id"`
	DepartmentID int     `json:"department_id"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	Type         string  `json:"type"`
	Notes        *string `json:"notes"`
}

// POST /api/appointments/add
func (h *AppointmentHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PatientID <= 0 || req.DoctorID <= 0 || req.DepartmentID <= 0 {
		writeError(w, http.StatusBadRequest, "patient_id, doctor_id and department_id must be positive integers")
		return
	}
	if req.Date == "" || req.Time == "" || req.Type == "" {
		writeError(w, http.StatusBadRequest, "date, time and type are required")
		return
	}

	id, appointmentID, err := h.repo.Create(r.Context(), req.PatientID, req.DoctorID, req.DepartmentID, req.Date, req.Time, req.Type, req.Notes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add appointment")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":        true,
		"id":             id,
		"appointment_id": appointmentID,
	})
}
