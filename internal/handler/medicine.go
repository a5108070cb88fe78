package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/hospital/internal/repository"
)

type MedicineHandler struct {
	repo *repository.MedicineRepository
}

func NewMedicineHandler(repo *repository.MedicineRepository) *MedicineHandler {
	return &MedicineHandler{repo: repo}
}

// GET /api/medicines?type=stock|purchases|sales
func (h *MedicineHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		data any
		err  error
	)
	switch r.URL.Query().Get("type") {
	case "purchases":
		data, err = h.repo.ListPurchases(r.Context())
	case "sales":
		data, err = h.repo.ListSales(r.Context())
	default:
		data, err = h.repo.ListStock(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch medicines")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

type medicineRequest struct {
	Name       string  `json:"name"`
	Category   *string `json:"category"`
	Supplier   *string `json:"supplier"`
	Quantity   int     `json:"quantity"`
	Unit       string  `json:"unit"`
	ExpiryDate *string `json:"expiry_date"`
}

// POST /api/medicines/add
func (h *MedicineHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req medicineRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Unit == "" || req.Quantity < 0 {
		writeError(w, http.StatusBadRequest, "name, unit and a non-negative quantity are required")
		return
	}
	var expiry *time.Time
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		t, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid expiry_date, expected YYYY-MM-DD")
			return
		}
		expiry = &t
	}

	id, medicineID, err := h.repo.Create(r.Context(), req.Name, req.Category, req.Supplier, req.Quantity, req.Unit, expiry)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add medicine")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":     true,
		"id":          id,
		"medicine_id": medicineID,
	})
}

// GET /api/medicines/{id}
func (h *MedicineHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid medicine id")
		return
	}
	details, err := h.repo.GetDetails(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Medicine not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch medicine")
		return
	}
	writeJSON(w, http.StatusOK, details)
}

type medicineStockRequest struct {
	Quantity int    `json:"quantity"`
	Status   string `json:"status"`
}

// PUT /api/medicines/{id} — корректировка остатка.
func (h *MedicineHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid medicine id")
		return
	}
	var req medicineStockRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Quantity < 0 || req.Status == "" {
		writeError(w, http.StatusBadRequest, "A non-negative quantity and status are required")
		return
	}

	updated, err := h.repo.UpdateStock(r.Context(), id, req.Quantity, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Medicine not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update medicine")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
