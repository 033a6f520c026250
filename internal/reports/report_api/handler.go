package report_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"scratch-tracker/internal/logger"
	"scratch-tracker/internal/models"
	"scratch-tracker/internal/reconcile"
	"scratch-tracker/internal/reports"
	"scratch-tracker/internal/reports/db"
)

type Handler struct {
	ReportService *reports.Service
	Logger        *logger.Logger
}

func NewHandler(reportService *reports.Service, log *logger.Logger) *Handler {
	return &Handler{ReportService: reportService, Logger: log}
}

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req models.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.ReportService.CreateReport(req)
	if err != nil {
		h.writeReportError(w, "CreateReport", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Report created successfully",
		"report":  report,
	})
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportId")

	report, err := h.ReportService.GetReport(reportID)
	if err != nil {
		h.writeReportError(w, "GetReport", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"report": report})
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	reportList, err := h.ReportService.ListReports(startDate, endDate, limit)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListReports: %v", err))
		http.Error(w, "Failed to fetch reports", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"reports": reportList})
}

func (h *Handler) UpdateReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportId")

	var req models.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.ReportService.UpdateReport(reportID, req)
	if err != nil {
		h.writeReportError(w, "UpdateReport", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Report updated successfully",
		"report":  report,
	})
}

func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportId")

	if err := h.ReportService.DeleteReport(reportID); err != nil {
		h.writeReportError(w, "DeleteReport", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Report deleted successfully"})
}

// writeReportError maps service errors onto HTTP statuses; date conflicts
// are user-facing and not retryable.
func (h *Handler) writeReportError(w http.ResponseWriter, op string, err error) {
	h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))

	var unknownTicket *reconcile.UnknownTicketError
	var outOfRange *reconcile.OutOfRangeReadingError
	switch {
	case errors.Is(err, db.ErrDateConflict):
		http.Error(w, "Report already exists for this date", http.StatusConflict)
	case errors.Is(err, db.ErrNotFound):
		http.Error(w, "Report not found", http.StatusNotFound)
	case errors.Is(err, reports.ErrReportLocked):
		http.Error(w, "Report for this date is currently being saved", http.StatusConflict)
	case errors.As(err, &unknownTicket):
		http.Error(w, unknownTicket.Error(), http.StatusBadRequest)
	case errors.As(err, &outOfRange):
		http.Error(w, outOfRange.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Failed to process report: "+err.Error(), http.StatusInternalServerError)
	}
}
