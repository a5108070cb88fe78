package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hospital/internal/model"
	"github.com/hospital/internal/repository"
)

type InvoiceHandler struct {
	repo *repository.InvoiceRepository
}

func NewInvoiceHandler(repo *repository.InvoiceRepository) *InvoiceHandler {
	return &InvoiceHandler{repo: repo}
}

// GET /api/invoices
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch invoices")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type invoiceItemRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type invoiceRequest struct {
	PatientID   int                  `json:"patient_id"`
	Date        string               `json:"date"`
	DueDate     string               `json:"due_date"`
	TotalAmount float64              `json:"total_amount"`
	Items       []invoiceItemRequest `json:"items"`
}

// POST /api/invoices/add — счёт и его позиции пишутся в одной транзакции.
func (h *InvoiceHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PatientID <= 0 || req.Date == "" || req.DueDate == "" || len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "patient_id, date, due_date and at least one item are required")
		return
	}

	items := make([]model.InvoiceItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Description == "" {
			writeError(w, http.StatusBadRequest, "Each item needs a description")
			return
		}
		items = append(items, model.InvoiceItem{
			Description: it.Description,
			Amount:      it.Amount,
		})
	}

	id, invoiceID, err := h.repo.Create(r.Context(), req.PatientID, req.Date, req.DueDate, req.TotalAmount, items)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add invoice")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"id":         id,
		"invoice_id": invoiceID,
	})
}

// GET /api/invoices/{invoiceID} — поиск по бизнес-номеру (INV-...), не по
// первичному ключу.
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "invoiceID")
	if invoiceID == "" {
		writeError(w, http.StatusBadRequest, "Invalid invoice id")
		return
	}
	details, err := h.repo.GetByInvoiceID(r.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Invoice not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch invoice")
		return
	}
	writeJSON(w, http.StatusOK, details)
}

type invoiceUpdateRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

// PUT /api/invoices/{id}
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid invoice id")
		return
	}
	var req invoiceUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "Status is required")
		return
	}

	updated, err := h.repo.Update(r.Context(), id, req.Status, req.Notes)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Invoice not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update invoice")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
