package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/uptrace/bun"

	"scratch-tracker/internal/models"
)

// ErrDateConflict signals that a report already exists for the requested
// calendar day. The caller must not retry; the existing report has to be
// edited instead.
var ErrDateConflict = errors.New("report already exists for this date")

var ErrNotFound = errors.New("report not found")

type DB struct {
	Bun *bun.DB
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func (d *DB) ReportExistsForDate(date string) (bool, error) {
	return d.Bun.NewSelect().
		Model((*models.DailyReport)(nil)).
		Where("date = ?", date).
		Exists(context.Background())
}

// CreateReport inserts the report with both shift records and their detail
// rows in one transaction. A second report on the same date fails with
// ErrDateConflict, backed by the unique index on the date column.
func (d *DB) CreateReport(report *models.DailyReport) error {
	ctx := context.Background()

	exists, err := d.ReportExistsForDate(report.Date)
	if err != nil {
		return err
	}
	if exists {
		return ErrDateConflict
	}

	err = d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(report).Exec(ctx); err != nil {
			return err
		}
		return insertShifts(ctx, tx, report.ShiftData)
	})
	if isUniqueViolation(err) {
		return ErrDateConflict
	}
	return err
}

// ReplaceReport atomically swaps a report's shift records and details for
// the given replacements. Moving the report onto a date that already has one
// fails with ErrDateConflict.
func (d *DB) ReplaceReport(report *models.DailyReport) error {
	ctx := context.Background()
	err := d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := deleteShifts(ctx, tx, report.ID); err != nil {
			return err
		}
		if _, err := tx.NewUpdate().
			Model(report).
			Column("date", "updated_at").
			Where("id = ?", report.ID).
			Exec(ctx); err != nil {
			return err
		}
		return insertShifts(ctx, tx, report.ShiftData)
	})
	if isUniqueViolation(err) {
		return ErrDateConflict
	}
	return err
}

func insertShifts(ctx context.Context, tx bun.Tx, shifts []*models.ShiftData) error {
	for _, shift := range shifts {
		if _, err := tx.NewInsert().Model(shift).Exec(ctx); err != nil {
			return err
		}
		if len(shift.TicketDetails) == 0 {
			continue
		}
		if _, err := tx.NewInsert().Model(&shift.TicketDetails).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func deleteShifts(ctx context.Context, tx bun.Tx, reportID string) error {
	var shiftIDs []string
	err := tx.NewSelect().
		Model((*models.ShiftData)(nil)).
		Column("id").
		Where("report_id = ?", reportID).
		Scan(ctx, &shiftIDs)
	if err != nil {
		return err
	}
	if len(shiftIDs) > 0 {
		if _, err := tx.NewDelete().
			Model((*models.TicketDetail)(nil)).
			Where("shift_data_id IN (?)", bun.In(shiftIDs)).
			Exec(ctx); err != nil {
			return err
		}
	}
	_, err = tx.NewDelete().
		Model((*models.ShiftData)(nil)).
		Where("report_id = ?", reportID).
		Exec(ctx)
	return err
}

func (d *DB) GetReportByID(id string) (*models.DailyReport, error) {
	var report models.DailyReport
	err := d.Bun.NewSelect().
		Model(&report).
		Relation("ShiftData", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("shift_type ASC")
		}).
		Relation("ShiftData.TicketDetails").
		Relation("ShiftData.TicketDetails.Ticket").
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (d *DB) GetReportByDate(date string) (*models.DailyReport, error) {
	var report models.DailyReport
	err := d.Bun.NewSelect().
		Model(&report).
		Relation("ShiftData", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("shift_type ASC")
		}).
		Relation("ShiftData.TicketDetails").
		Relation("ShiftData.TicketDetails.Ticket").
		Where("date = ?", date).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ListReports returns reports newest first, optionally bounded by an
// inclusive date range.
func (d *DB) ListReports(startDate, endDate string, limit int) ([]models.DailyReport, error) {
	var reports []models.DailyReport
	query := d.Bun.NewSelect().
		Model(&reports).
		Relation("ShiftData", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("shift_type ASC")
		}).
		Relation("ShiftData.TicketDetails").
		Relation("ShiftData.TicketDetails.Ticket").
		Order("date DESC")

	if startDate != "" {
		query = query.Where("date >= ?", startDate)
	}
	if endDate != "" {
		query = query.Where("date <= ?", endDate)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Scan(context.Background()); err != nil {
		return nil, err
	}
	return reports, nil
}

func (d *DB) DeleteReport(id string) error {
	ctx := context.Background()
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := deleteShifts(ctx, tx, id); err != nil {
			return err
		}
		result, err := tx.NewDelete().
			Model((*models.DailyReport)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
