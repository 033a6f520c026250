package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"scratch-tracker/internal/models"
)

// Run creates every table the application needs. CREATE TABLE IF NOT EXISTS
// keeps startup idempotent on both sqlite and postgres.
func Run(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Ticket)(nil),
		(*models.TicketState)(nil),
		(*models.Employee)(nil),
		(*models.DailyReport)(nil),
		(*models.ShiftData)(nil),
		(*models.TicketDetail)(nil),
		(*models.Backup)(nil),
	}

	for _, table := range tables {
		if _, err := db.NewCreateTable().
			Model(table).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", table, err)
		}
	}

	return nil
}
