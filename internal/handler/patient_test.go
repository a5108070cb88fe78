package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospital/internal/model"
	"github.com/hospital/internal/repository"
)

type stubPatientStore struct {
	created *model.Patient
	details *model.PatientDetails
}

func (s *stubPatientStore) List(_ context.Context) ([]model.PatientListItem, error) {
	return []model.PatientListItem{
		{ID: 1, PatientID: "P-001", Name: "Ivan Petrov", Gender: "Male", Contact: "+1-555-0100", Status: model.PatientAdmitted, Age: 41},
	}, nil
}

func (s *stubPatientStore) Create(_ context.Context, p *model.Patient) (int, string, error) {
	s.created = p
	return 7, "P-123456789", nil
}

func (s *stubPatientStore) GetDetails(_ context.Context, id int) (*model.PatientDetails, error) {
	if s.details == nil || s.details.ID != id {
		return nil, repository.ErrNotFound
	}
	return s.details, nil
}

func (s *stubPatientStore) Update(_ context.Context, id int, p *model.Patient) (*model.Patient, error) {
	if s.details == nil || s.details.ID != id {
		return nil, repository.ErrNotFound
	}
	cp := *p
	cp.ID = id
	return &cp, nil
}

func patientRouter(store *stubPatientStore) http.Handler {
	h := NewPatientHandler(store)
	r := chi.NewRouter()
	r.Get("/api/patients", h.List)
	r.Post("/api/patients/add", h.Add)
	r.Get("/api/patients/{id}", h.Get)
	r.Put("/api/patients/{id}", h.Update)
	return r
}

func TestPatientListContract(t *testing.T) {
	t.Parallel()

	r := patientRouter(&stubPatientStore{})
	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var items []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, "P-001", items[0]["patient_id"])
	assert.Equal(t, "Ivan Petrov", items[0]["name"])
	assert.Equal(t, float64(41), items[0]["age"])
}

func TestPatientAddContract(t *testing.T) {
	t.Parallel()

	store := &stubPatientStore{}
	r := patientRouter(store)
	body := `{"first_name":"Anna","last_name":"Ivanova","date_of_birth":"1990-06-15","gender":"Female","contact":"+1-555-0101"}`
	req := httptest.NewRequest(http.MethodPost, "/api/patients/add", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success   bool   `json:"success"`
		ID        int    `json:"id"`
		PatientID string `json:"patient_id"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 7, resp.ID)
	assert.Equal(t, "P-123456789", resp.PatientID)

	require.NotNil(t, store.created)
	assert.Equal(t, "Anna", store.created.FirstName)
	assert.Equal(t, time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC), store.created.DateOfBirth)
}

func TestPatientAddValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"missing fields", `{"first_name":"Anna"}`, "Missing required patient fields"},
		{"bad date", `{"first_name":"Anna","last_name":"Ivanova","date_of_birth":"15/06/1990","gender":"Female","contact":"+1-555-0101"}`, "Invalid date_of_birth, expected YYYY-MM-DD"},
		{"malformed json", `{`, "Invalid request body"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := patientRouter(&stubPatientStore{})
			req := httptest.NewRequest(http.MethodPost, "/api/patients/add", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp errorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tc.wantErr, resp.Error)
		})
	}
}

func TestPatientGetContract(t *testing.T) {
	t.Parallel()

	store := &stubPatientStore{details: &model.PatientDetails{
		Patient:      model.Patient{ID: 3, PatientID: "P-003", FirstName: "Ivan", LastName: "Petrov", Gender: "Male", Contact: "+1-555-0100", Status: model.PatientAdmitted},
		Appointments: []model.PatientAppointment{},
		LabTests:     []model.PatientLabTest{},
		Invoices:     []model.PatientInvoice{},
	}}
	r := patientRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/patients/3", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "P-003", resp["patient_id"])
	assert.NotNil(t, resp["appointments"])

	req = httptest.NewRequest(http.MethodGet, "/api/patients/99", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/patients/abc", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
