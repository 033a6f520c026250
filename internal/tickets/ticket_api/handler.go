package ticket_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"scratch-tracker/internal/logger"
	"scratch-tracker/internal/models"
	"scratch-tracker/internal/tickets"
)

type Handler struct {
	TicketService *tickets.Service
	Logger        *logger.Logger
}

func NewHandler(ticketService *tickets.Service, log *logger.Logger) *Handler {
	return &Handler{TicketService: ticketService, Logger: log}
}

func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	ticketList, err := h.TicketService.ListTickets()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListTickets: %v", err))
		http.Error(w, "Failed to fetch tickets", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"tickets": ticketList})
}

func (h *Handler) ReplaceTickets(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Tickets []models.TicketUpdateRequest `json:"tickets"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if body.Tickets == nil {
		http.Error(w, "tickets must be an array", http.StatusBadRequest)
		return
	}

	updated, err := h.TicketService.ReplaceTickets(body.Tickets)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ReplaceTickets: %v", err))
		http.Error(w, "Failed to update tickets: "+err.Error(), http.StatusBadRequest)
		return
	}
	h.Logger.Info("API", fmt.Sprintf("ReplaceTickets: ticket list replaced with %d tickets", len(updated)))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Tickets updated successfully",
		"tickets": updated,
	})
}

func (h *Handler) GetStates(w http.ResponseWriter, r *http.Request) {
	states, err := h.TicketService.GetStates()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetStates: %v", err))
		http.Error(w, "Failed to fetch ticket states", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"states": states})
}

func (h *Handler) UpdateStates(w http.ResponseWriter, r *http.Request) {
	var body struct {
		States []models.StateUpsertRequest `json:"states"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if body.States == nil {
		http.Error(w, "states must be an array", http.StatusBadRequest)
		return
	}

	states, err := h.TicketService.UpdateStates(body.States)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateStates: %v", err))
		http.Error(w, "Failed to update ticket states: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Ticket states updated successfully",
		"states":  states,
	})
}
