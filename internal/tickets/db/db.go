package db

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"

	"scratch-tracker/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) ListTickets() ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := d.Bun.NewSelect().
		Model(&tickets).
		Relation("State").
		Order("order_index ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (d *DB) CountTickets() (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Ticket)(nil)).
		Count(context.Background())
}

func (d *DB) GetTicketByID(id string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.NewSelect().
		Model(&ticket).
		Relation("State").
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// InsertTickets creates tickets together with their initial states.
func (d *DB) InsertTickets(tickets []models.Ticket, states []models.TicketState) error {
	ctx := context.Background()
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&tickets).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewInsert().Model(&states).Exec(ctx)
		return err
	})
}

// ReplaceTickets swaps the whole ticket list and all running states in one
// transaction. Settings edits always submit the full list.
func (d *DB) ReplaceTickets(tickets []models.Ticket, states []models.TicketState) error {
	ctx := context.Background()
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.TicketState)(nil)).Where("1=1").Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*models.Ticket)(nil)).Where("1=1").Exec(ctx); err != nil {
			return err
		}
		if len(tickets) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&tickets).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewInsert().Model(&states).Exec(ctx)
		return err
	})
}

func (d *DB) GetStates() ([]models.TicketState, error) {
	var states []models.TicketState
	err := d.Bun.NewSelect().
		Model(&states).
		Relation("Ticket").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return states, nil
}

func (d *DB) UpsertStates(states []models.TicketState) error {
	if len(states) == 0 {
		return nil
	}
	_, err := d.Bun.NewInsert().
		Model(&states).
		On("CONFLICT (ticket_id) DO UPDATE").
		Set("last_number = EXCLUDED.last_number").
		Exec(context.Background())
	return err
}
