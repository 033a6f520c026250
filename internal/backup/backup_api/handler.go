package backup_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"scratch-tracker/internal/backup"
	"scratch-tracker/internal/backup/db"
	"scratch-tracker/internal/logger"
	"scratch-tracker/internal/models"
)

type Handler struct {
	BackupService *backup.Service
	Logger        *logger.Logger
}

func NewHandler(backupService *backup.Service, log *logger.Logger) *Handler {
	return &Handler{BackupService: backupService, Logger: log}
}

func (h *Handler) ListBackups(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	backups, err := h.BackupService.List(limit)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListBackups: %v", err))
		http.Error(w, "Failed to fetch backups", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"backups": backups})
}

func (h *Handler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	created, err := h.BackupService.Create(models.BackupTypeManual)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateBackup: %v", err))
		http.Error(w, "Failed to create backup", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Backup created successfully",
		"backup": map[string]interface{}{
			"id":         created.ID,
			"backupType": created.BackupType,
			"createdAt":  created.CreatedAt,
		},
	})
}

func (h *Handler) DownloadBackup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "backupId")

	data, err := h.BackupService.Download(id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Backup not found", http.StatusNotFound)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("DownloadBackup: %v", err))
		http.Error(w, "Failed to download backup", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "backup_"+id+".json"))
	w.Write(data)
}
