package backup

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scratch-tracker/internal/logger"
	"scratch-tracker/internal/models"
)

type MockBackupDB struct {
	mock.Mock
}

func (m *MockBackupDB) ListBackups(limit int) ([]models.Backup, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Backup), args.Error(1)
}

func (m *MockBackupDB) GetBackupByID(id string) (*models.Backup, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Backup), args.Error(1)
}

func (m *MockBackupDB) InsertBackup(backup *models.Backup) error {
	args := m.Called(backup)
	return args.Error(0)
}

func (m *MockBackupDB) DeleteBackupsBefore(cutoff time.Time) (int, error) {
	args := m.Called(cutoff)
	return args.Int(0), args.Error(1)
}

type stubSources struct {
	tickets   []models.Ticket
	states    []models.TicketState
	employees []models.Employee
	reports   []models.DailyReport
}

func (s *stubSources) ListTickets() ([]models.Ticket, error)       { return s.tickets, nil }
func (s *stubSources) GetStates() ([]models.TicketState, error)    { return s.states, nil }
func (s *stubSources) ListEmployees() ([]models.Employee, error)   { return s.employees, nil }
func (s *stubSources) ListReports(start, end string, limit int) ([]models.DailyReport, error) {
	return s.reports, nil
}

func newTestService(db *MockBackupDB, sources *stubSources) *Service {
	return NewService(db, sources, sources, sources, nil, "", logger.NewLogger())
}

func fixtureSources() *stubSources {
	price := decimal.RequireFromString("5.50")
	return &stubSources{
		tickets: []models.Ticket{
			{ID: "t1", Name: "Lucky 7s", Price: price, BookSize: 60, OrderIndex: 0},
		},
		states: []models.TicketState{
			{TicketID: "t1", LastNumber: 42},
		},
		employees: []models.Employee{
			{ID: "e1", Name: "Alice"},
		},
		reports: []models.DailyReport{
			{
				ID:   "r1",
				Date: "2024-03-01",
				ShiftData: []*models.ShiftData{
					{
						ID:                "s1",
						ReportID:          "r1",
						ShiftType:         models.ShiftA,
						OnlineSales:       decimal.RequireFromString("100.25"),
						ActualCash:        decimal.RequireFromString("95.00"),
						TotalScratchSales: decimal.RequireFromString("33.00"),
						Difference:        decimal.RequireFromString("-5.25"),
						TicketDetails: []*models.TicketDetail{
							{ID: "d1", ShiftDataID: "s1", TicketID: "t1", PrevNum: 40, CurrentNum: 34, SoldCount: 6, TotalAmount: decimal.RequireFromString("33.00")},
						},
					},
				},
			},
		},
	}
}

func TestCreateBackupStoresSnapshot(t *testing.T) {
	mockDB := new(MockBackupDB)
	service := newTestService(mockDB, fixtureSources())

	var stored *models.Backup
	mockDB.On("InsertBackup", mock.AnythingOfType("*models.Backup")).Run(func(args mock.Arguments) {
		stored = args.Get(0).(*models.Backup)
	}).Return(nil)

	created, err := service.Create(models.BackupTypeManual)

	require.NoError(t, err)
	assert.Equal(t, models.BackupTypeManual, created.BackupType)
	assert.NotEmpty(t, created.ID)
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.BackupData)
	mockDB.AssertExpectations(t)
}

func TestCreateBackupNormalizesUnknownType(t *testing.T) {
	mockDB := new(MockBackupDB)
	service := newTestService(mockDB, fixtureSources())
	mockDB.On("InsertBackup", mock.Anything).Return(nil)

	created, err := service.Create("weird")

	require.NoError(t, err)
	assert.Equal(t, models.BackupTypeManual, created.BackupType)
}

func TestSnapshotRoundTrip(t *testing.T) {
	service := newTestService(new(MockBackupDB), fixtureSources())

	snapshot, err := service.Snapshot()
	require.NoError(t, err)

	payload, err := json.Marshal(snapshot)
	require.NoError(t, err)

	var restored models.BackupSnapshot
	require.NoError(t, json.Unmarshal(payload, &restored))

	require.Len(t, restored.Tickets, 1)
	assert.Equal(t, "Lucky 7s", restored.Tickets[0].Name)
	assert.True(t, restored.Tickets[0].Price.Equal(decimal.RequireFromString("5.50")))

	require.Len(t, restored.TicketStates, 1)
	assert.Equal(t, 42, restored.TicketStates[0].LastNumber)

	require.Len(t, restored.Reports, 1)
	require.Len(t, restored.Reports[0].ShiftData, 1)
	shift := restored.Reports[0].ShiftData[0]
	assert.True(t, shift.OnlineSales.Equal(decimal.RequireFromString("100.25")))
	assert.True(t, shift.Difference.Equal(decimal.RequireFromString("-5.25")))

	require.Len(t, shift.TicketDetails, 1)
	detail := shift.TicketDetails[0]
	assert.Equal(t, 6, detail.SoldCount)
	assert.True(t, detail.TotalAmount.Equal(decimal.RequireFromString("33.00")))
}

func TestDownloadReturnsRawDocument(t *testing.T) {
	mockDB := new(MockBackupDB)
	service := newTestService(mockDB, fixtureSources())

	raw := json.RawMessage(`{"tickets":[]}`)
	mockDB.On("GetBackupByID", "b1").Return(&models.Backup{ID: "b1", BackupData: raw}, nil)

	data, err := service.Download("b1")

	require.NoError(t, err)
	assert.JSONEq(t, `{"tickets":[]}`, string(data))
}

func TestCleanupOldSkipsNonPositiveRetention(t *testing.T) {
	mockDB := new(MockBackupDB)
	service := newTestService(mockDB, fixtureSources())

	deleted, err := service.CleanupOld(0)

	require.NoError(t, err)
	assert.Zero(t, deleted)
	mockDB.AssertNotCalled(t, "DeleteBackupsBefore", mock.Anything)
}

func TestCleanupOldDeletesBeforeCutoff(t *testing.T) {
	mockDB := new(MockBackupDB)
	service := newTestService(mockDB, fixtureSources())

	mockDB.On("DeleteBackupsBefore", mock.MatchedBy(func(cutoff time.Time) bool {
		return cutoff.Before(time.Now())
	})).Return(3, nil)

	deleted, err := service.CleanupOld(30)

	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	mockDB.AssertExpectations(t)
}
