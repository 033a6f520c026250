package employee_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"scratch-tracker/internal/employees"
	"scratch-tracker/internal/employees/db"
	"scratch-tracker/internal/logger"
	"scratch-tracker/internal/utils"
)

type Handler struct {
	EmployeeService *employees.Service
	Logger          *logger.Logger
}

func NewHandler(employeeService *employees.Service, log *logger.Logger) *Handler {
	return &Handler{EmployeeService: employeeService, Logger: log}
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employeeList, err := h.EmployeeService.ListEmployees()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListEmployees: %v", err))
		writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch employees", err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, utils.SuccessResponse("Employees fetched", map[string]interface{}{"employees": employeeList}))
}

func (h *Handler) AddEmployee(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	employee, err := h.EmployeeService.AddEmployee(body.Name)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			writeJSON(w, http.StatusConflict, utils.ErrorResponse("Employee already exists", err.Error()))
			return
		}
		h.Logger.Error("API", fmt.Sprintf("AddEmployee: %v", err))
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("Failed to add employee", err.Error()))
		return
	}

	writeJSON(w, http.StatusCreated, utils.SuccessResponse("Employee added successfully", map[string]interface{}{"employee": employee}))
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "employeeId")

	if err := h.EmployeeService.DeleteEmployee(id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, utils.ErrorResponse("Employee not found", err.Error()))
			return
		}
		h.Logger.Error("API", fmt.Sprintf("DeleteEmployee: %v", err))
		writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to delete employee", err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, utils.SuccessResponse("Employee deleted successfully", nil))
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
