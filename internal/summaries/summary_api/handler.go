package summary_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"scratch-tracker/internal/logger"
	"scratch-tracker/internal/reports"
	reportdb "scratch-tracker/internal/reports/db"
	"scratch-tracker/internal/summaries"
)

type Handler struct {
	SummaryService *summaries.Service
	ReportService  *reports.Service
	Logger         *logger.Logger
}

func NewHandler(summaryService *summaries.Service, reportService *reports.Service, log *logger.Logger) *Handler {
	return &Handler{SummaryService: summaryService, ReportService: reportService, Logger: log}
}

func (h *Handler) DailySummary(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "date is required", http.StatusBadRequest)
		return
	}

	summary, err := h.ReportService.DailySummary(date)
	if err != nil {
		if errors.Is(err, reportdb.ErrNotFound) {
			http.Error(w, "No report found for this date", http.StatusNotFound)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("DailySummary: %v", err))
		http.Error(w, "Failed to fetch daily summary", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"summary": summary})
}

func (h *Handler) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	h.rangeSummary(w, r)
}

func (h *Handler) CustomSummary(w http.ResponseWriter, r *http.Request) {
	h.rangeSummary(w, r)
}

func (h *Handler) rangeSummary(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")
	if startDate == "" || endDate == "" {
		http.Error(w, "startDate and endDate are required", http.StatusBadRequest)
		return
	}

	summary, err := h.SummaryService.RangeSummary(startDate, endDate)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("RangeSummary: %v", err))
		http.Error(w, "Failed to fetch summary", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"period":  map[string]string{"startDate": startDate, "endDate": endDate},
		"summary": summary,
	})
}

func (h *Handler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	year, errYear := strconv.Atoi(r.URL.Query().Get("year"))
	month, errMonth := strconv.Atoi(r.URL.Query().Get("month"))
	if errYear != nil || errMonth != nil {
		http.Error(w, "year and month are required", http.StatusBadRequest)
		return
	}

	summary, err := h.SummaryService.MonthlySummary(year, month)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("MonthlySummary: %v", err))
		http.Error(w, "Failed to fetch monthly summary", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"period":  map[string]int{"year": year, "month": month},
		"summary": summary,
	})
}
