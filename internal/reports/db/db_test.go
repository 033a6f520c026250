package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"

	"scratch-tracker/internal/models"
	"scratch-tracker/internal/reports/db"
)

func setupTestDB(t *testing.T) (*db.DB, *bun.DB) {
	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	for _, model := range []interface{}{
		(*models.Ticket)(nil),
		(*models.DailyReport)(nil),
		(*models.ShiftData)(nil),
		(*models.TicketDetail)(nil),
	} {
		if _, err := bunDB.NewCreateTable().Model(model).Exec(ctx); err != nil {
			t.Fatalf("Failed to create table for %T: %v", model, err)
		}
	}

	return &db.DB{Bun: bunDB}, bunDB
}

func insertTestTicket(t *testing.T, bunDB *bun.DB, id, name string) {
	ticket := models.Ticket{
		ID:        id,
		Name:      name,
		Price:     decimal.RequireFromString("2"),
		BookSize:  150,
		CreatedAt: time.Now(),
	}
	_, err := bunDB.NewInsert().Model(&ticket).Exec(context.Background())
	require.NoError(t, err)
}

func buildTestReport(date string, ticketID string) *models.DailyReport {
	reportID := uuid.New().String()
	shiftAID := uuid.New().String()
	shiftBID := uuid.New().String()
	now := time.Now()

	return &models.DailyReport{
		ID:        reportID,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
		ShiftData: []*models.ShiftData{
			{
				ID:                shiftAID,
				ReportID:          reportID,
				ShiftType:         models.ShiftA,
				PersonName:        "Alice",
				OnlineSales:       decimal.RequireFromString("100"),
				ActualCash:        decimal.RequireFromString("118"),
				TotalScratchSales: decimal.RequireFromString("18"),
				TotalExpectedCash: decimal.RequireFromString("118"),
				DataEntered:       true,
				TicketDetails: []*models.TicketDetail{
					{
						ID:          uuid.New().String(),
						ShiftDataID: shiftAID,
						TicketID:    ticketID,
						PrevNum:     149,
						CurrentNum:  140,
						SoldCount:   9,
						TotalAmount: decimal.RequireFromString("18"),
					},
				},
			},
			{
				ID:        shiftBID,
				ReportID:  reportID,
				ShiftType: models.ShiftB,
				TicketDetails: []*models.TicketDetail{
					{
						ID:          uuid.New().String(),
						ShiftDataID: shiftBID,
						TicketID:    ticketID,
						PrevNum:     140,
						CurrentNum:  130,
						SoldCount:   10,
						TotalAmount: decimal.RequireFromString("20"),
					},
				},
			},
		},
	}
}

func TestCreateAndGetReport(t *testing.T) {
	reportDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	insertTestTicket(t, bunDB, "t1", "Lucky 7s")

	report := buildTestReport("2024-03-01", "t1")
	require.NoError(t, reportDB.CreateReport(report))

	loaded, err := reportDB.GetReportByID(report.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", loaded.Date)
	require.Len(t, loaded.ShiftData, 2)

	// Shifts come back ordered A then B
	assert.Equal(t, models.ShiftA, loaded.ShiftData[0].ShiftType)
	assert.Equal(t, models.ShiftB, loaded.ShiftData[1].ShiftType)

	require.Len(t, loaded.ShiftData[0].TicketDetails, 1)
	detail := loaded.ShiftData[0].TicketDetails[0]
	assert.Equal(t, 9, detail.SoldCount)
	assert.True(t, detail.TotalAmount.Equal(decimal.RequireFromString("18")))
	require.NotNil(t, detail.Ticket)
	assert.Equal(t, "Lucky 7s", detail.Ticket.Name)
}

func TestCreateReportDateConflict(t *testing.T) {
	reportDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	insertTestTicket(t, bunDB, "t1", "Lucky 7s")

	first := buildTestReport("2024-03-01", "t1")
	require.NoError(t, reportDB.CreateReport(first))

	second := buildTestReport("2024-03-01", "t1")
	err := reportDB.CreateReport(second)
	assert.ErrorIs(t, err, db.ErrDateConflict)

	// Different date still works
	third := buildTestReport("2024-03-02", "t1")
	assert.NoError(t, reportDB.CreateReport(third))
}

func TestGetReportByDate(t *testing.T) {
	reportDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	insertTestTicket(t, bunDB, "t1", "Lucky 7s")
	report := buildTestReport("2024-03-01", "t1")
	require.NoError(t, reportDB.CreateReport(report))

	loaded, err := reportDB.GetReportByDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, report.ID, loaded.ID)

	_, err = reportDB.GetReportByDate("2024-03-09")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestReplaceReportSwapsShifts(t *testing.T) {
	reportDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	insertTestTicket(t, bunDB, "t1", "Lucky 7s")
	report := buildTestReport("2024-03-01", "t1")
	require.NoError(t, reportDB.CreateReport(report))

	replacement := buildTestReport("2024-03-01", "t1")
	replacement.ID = report.ID
	replacement.ShiftData[0].ReportID = report.ID
	replacement.ShiftData[1].ReportID = report.ID
	replacement.ShiftData[0].PersonName = "Bob"
	require.NoError(t, reportDB.ReplaceReport(replacement))

	loaded, err := reportDB.GetReportByID(report.ID)
	require.NoError(t, err)
	require.Len(t, loaded.ShiftData, 2)
	assert.Equal(t, "Bob", loaded.ShiftData[0].PersonName)

	// Old detail rows are gone
	count, err := bunDB.NewSelect().Model((*models.TicketDetail)(nil)).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestReplaceReportDateConflict(t *testing.T) {
	reportDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	insertTestTicket(t, bunDB, "t1", "Lucky 7s")
	first := buildTestReport("2024-03-01", "t1")
	require.NoError(t, reportDB.CreateReport(first))
	second := buildTestReport("2024-03-02", "t1")
	require.NoError(t, reportDB.CreateReport(second))

	// Moving the second report onto an occupied date trips the unique
	// index and must surface as ErrDateConflict, not a raw driver error
	moved := buildTestReport("2024-03-01", "t1")
	moved.ID = second.ID
	moved.ShiftData[0].ReportID = second.ID
	moved.ShiftData[1].ReportID = second.ID
	err := reportDB.ReplaceReport(moved)
	assert.ErrorIs(t, err, db.ErrDateConflict)

	// The original report keeps its date
	loaded, err := reportDB.GetReportByID(second.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", loaded.Date)
}

func TestListReportsRangeAndOrder(t *testing.T) {
	reportDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	insertTestTicket(t, bunDB, "t1", "Lucky 7s")
	for _, date := range []string{"2024-03-01", "2024-03-02", "2024-03-03"} {
		require.NoError(t, reportDB.CreateReport(buildTestReport(date, "t1")))
	}

	all, err := reportDB.ListReports("", "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-03-03", all[0].Date)
	assert.Equal(t, "2024-03-01", all[2].Date)

	ranged, err := reportDB.ListReports("2024-03-02", "2024-03-03", 0)
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	limited, err := reportDB.ListReports("", "", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "2024-03-03", limited[0].Date)
}

func TestDeleteReport(t *testing.T) {
	reportDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	insertTestTicket(t, bunDB, "t1", "Lucky 7s")
	report := buildTestReport("2024-03-01", "t1")
	require.NoError(t, reportDB.CreateReport(report))

	require.NoError(t, reportDB.DeleteReport(report.ID))

	_, err := reportDB.GetReportByID(report.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)

	// No orphaned shift or detail rows remain
	shiftCount, err := bunDB.NewSelect().Model((*models.ShiftData)(nil)).Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, shiftCount)

	assert.ErrorIs(t, reportDB.DeleteReport("missing"), db.ErrNotFound)
}
