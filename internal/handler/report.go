package handler

import (
	"net/http"
	"time"

	"github.com/hospital/internal/repository"
)

type ReportHandler struct {
	repo *repository.ReportRepository
}

func NewReportHandler(repo *repository.ReportRepository) *ReportHandler {
	return &ReportHandler{repo: repo}
}

// GET /api/dashboard/stats
func (h *ReportHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.DashboardStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch dashboard stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GET /api/dashboard/overview
func (h *ReportHandler) Overview(w http.ResponseWriter, r *http.Request) {
	points, err := h.repo.Overview(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch overview")
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// GET /api/dashboard/recent-patients
func (h *ReportHandler) RecentPatients(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.RecentPatients(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch recent patients")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GET /api/reports?from&to&department
// Обе границы либо заданы вместе, либо фильтра по датам нет.
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f repository.ReportFilter

	fromStr, toStr := q.Get("from"), q.Get("to")
	if fromStr != "" && toStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		// Верхняя граница включает весь день.
		to = to.Add(24*time.Hour - time.Second)
		f.From, f.To = &from, &to
	}
	if dep := q.Get("department"); dep != "" {
		f.Department = &dep
	}

	report, err := h.repo.Report(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}
