package tickets

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"scratch-tracker/internal/config"
	"scratch-tracker/internal/models"
)

type DBLayer interface {
	ListTickets() ([]models.Ticket, error)
	CountTickets() (int, error)
	GetTicketByID(id string) (*models.Ticket, error)
	InsertTickets(tickets []models.Ticket, states []models.TicketState) error
	ReplaceTickets(tickets []models.Ticket, states []models.TicketState) error
	GetStates() ([]models.TicketState, error)
	UpsertStates(states []models.TicketState) error
}

type Service struct {
	DB       DBLayer
	Defaults []config.TicketSeed
}

func NewService(db DBLayer, defaults []config.TicketSeed) *Service {
	return &Service{DB: db, Defaults: defaults}
}

// EnsureDefaults seeds the default ticket list on an empty shop. It is an
// explicit startup step, not a side effect of listing.
func (s *Service) EnsureDefaults() error {
	count, err := s.DB.CountTickets()
	if err != nil {
		return fmt.Errorf("failed to count tickets: %w", err)
	}
	if count > 0 {
		return nil
	}

	tickets := make([]models.Ticket, 0, len(s.Defaults))
	states := make([]models.TicketState, 0, len(s.Defaults))
	now := time.Now()
	for i, seed := range s.Defaults {
		id := uuid.New().String()
		tickets = append(tickets, models.Ticket{
			ID:         id,
			Name:       seed.Name,
			Price:      decimal.NewFromFloat(seed.Price),
			BookSize:   seed.BookSize,
			OrderIndex: i,
			CreatedAt:  now,
		})
		// A fresh book starts at its highest ticket number
		states = append(states, models.TicketState{
			TicketID:   id,
			LastNumber: seed.BookSize - 1,
		})
	}

	if err := s.DB.InsertTickets(tickets, states); err != nil {
		return fmt.Errorf("failed to seed default tickets: %w", err)
	}
	return nil
}

func (s *Service) ListTickets() ([]models.Ticket, error) {
	return s.DB.ListTickets()
}

// ReplaceTickets swaps the entire ticket configuration for the submitted
// list, resetting running states (optionally to a caller-given counter).
func (s *Service) ReplaceTickets(rows []models.TicketUpdateRequest) ([]models.Ticket, error) {
	tickets := make([]models.Ticket, 0, len(rows))
	states := make([]models.TicketState, 0, len(rows))
	now := time.Now()

	for i, row := range rows {
		if row.Name == "" {
			return nil, errors.New("ticket name is required")
		}
		if !row.BookSize.Valid || row.BookSize.Int <= 0 {
			return nil, fmt.Errorf("ticket %q needs a positive book size", row.Name)
		}

		id := uuid.New().String()
		tickets = append(tickets, models.Ticket{
			ID:         id,
			Name:       row.Name,
			Price:      row.Price.Amount,
			BookSize:   row.BookSize.Int,
			OrderIndex: i,
			CreatedAt:  now,
		})

		initial := row.BookSize.Int - 1
		if row.Initial.Valid {
			initial = row.Initial.Int
		}
		states = append(states, models.TicketState{
			TicketID:   id,
			LastNumber: initial,
		})
	}

	if err := s.DB.ReplaceTickets(tickets, states); err != nil {
		return nil, fmt.Errorf("failed to replace tickets: %w", err)
	}
	return s.DB.ListTickets()
}

func (s *Service) GetStates() ([]models.TicketState, error) {
	return s.DB.GetStates()
}

// UpdateStates applies manual counter corrections.
func (s *Service) UpdateStates(upserts []models.StateUpsertRequest) ([]models.TicketState, error) {
	states := make([]models.TicketState, 0, len(upserts))
	for _, u := range upserts {
		if u.TicketID == "" {
			return nil, errors.New("ticketId is required")
		}
		if !u.LastNumber.Valid {
			return nil, fmt.Errorf("lastNumber is required for ticket %s", u.TicketID)
		}
		states = append(states, models.TicketState{
			TicketID:   u.TicketID,
			LastNumber: u.LastNumber.Int,
		})
	}

	if err := s.DB.UpsertStates(states); err != nil {
		return nil, fmt.Errorf("failed to update ticket states: %w", err)
	}
	return s.DB.GetStates()
}

// CommitStates persists counter updates produced by a closing shift.
func (s *Service) CommitStates(states []models.TicketState) error {
	if len(states) == 0 {
		return nil
	}
	return s.DB.UpsertStates(states)
}

// ConfigSnapshot returns the current ticket configuration keyed by id plus
// the stored running counters, the shape the reconciler consumes.
func (s *Service) ConfigSnapshot() (map[string]models.Ticket, map[string]int, error) {
	tickets, err := s.DB.ListTickets()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load ticket configuration: %w", err)
	}

	configs := make(map[string]models.Ticket, len(tickets))
	lastNumbers := make(map[string]int, len(tickets))
	for _, t := range tickets {
		configs[t.ID] = t
		if t.State != nil {
			lastNumbers[t.ID] = t.State.LastNumber
		} else {
			lastNumbers[t.ID] = t.BookSize - 1
		}
	}
	return configs, lastNumbers, nil
}
