package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hospital/internal/model"
	"github.com/hospital/internal/repository"
)

type patientStore interface {
	List(ctx context.Context) ([]model.PatientListItem, error)
	Create(ctx context.Context, p *model.Patient) (int, string, error)
	GetDetails(ctx context.Context, id int) (*model.PatientDetails, error)
	Update(ctx context.Context, id int, p *model.Patient) (*model.Patient, error)
}

type PatientHandler struct {
	repo patientStore
}

func NewPatientHandler(repo patientStore) *PatientHandler {
	return &PatientHandler{repo: repo}
}

// GET /api/patients
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch patients")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type patientRequest struct {
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	DateOfBirth      string  `json:"date_of_birth"`
	Gender           string  `json:"gender"`
	Address          *string `json:"address"`
	Contact          string  `json:"contact"`
	Email            *string `json:"email"`
	EmergencyContact *string `json:"emergency_contact"`
	BloodGroup       *string `json:"blood_group"`
	Allergies        *string `json:"allergies"`
	MedicalHistory   *string `json:"medical_history"`
	Status           string  `json:"status"`
}

func (req *patientRequest) toModel() (*model.Patient, error) {
	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	return &model.Patient{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		DateOfBirth:      dob,
		Gender:           req.Gender,
		Address:          req.Address,
		Contact:          req.Contact,
		Email:            req.Email,
		EmergencyContact: req.EmergencyContact,
		BloodGroup:       req.BloodGroup,
		Allergies:        req.Allergies,
		MedicalHistory:   req.MedicalHistory,
		Status:           req.Status,
	}, nil
}

// POST /api/patients/add
func (h *PatientHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req patientRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FirstName == "" || req.LastName == "" || req.Gender == "" || req.Contact == "" {
		writeError(w, http.StatusBadRequest, "Missing required patient fields")
		return
	}
	p, err := req.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date_of_birth, expected YYYY-MM-DD")
		return
	}

	id, patientID, err := h.repo.Create(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add patient")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"id":         id,
		"patient_id": patientID,
	})
}

// GET /api/patients/{id}
func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid patient id")
		return
	}
	details, err := h.repo.GetDetails(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Patient not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch patient")
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// PUT /api/patients/{id}
func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid patient id")
		return
	}
	var req patientRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := req.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date_of_birth, expected YYYY-MM-DD")
		return
	}

	updated, err := h.repo.Update(r.Context(), id, p)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Patient not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update patient")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
