package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"scratch-tracker/internal/config"
	"scratch-tracker/internal/logger"
	"scratch-tracker/internal/models"
	"scratch-tracker/internal/reconcile"
)

// ErrReportLocked means another writer is currently saving the same day.
var ErrReportLocked = errors.New("report for this date is being saved by another writer")

type DBLayer interface {
	CreateReport(report *models.DailyReport) error
	ReplaceReport(report *models.DailyReport) error
	GetReportByID(id string) (*models.DailyReport, error)
	GetReportByDate(date string) (*models.DailyReport, error)
	ListReports(startDate, endDate string, limit int) ([]models.DailyReport, error)
	DeleteReport(id string) error
}

// TicketProvider supplies the configuration snapshot the reconciler consumes
// and persists closing-shift counter commits.
type TicketProvider interface {
	ConfigSnapshot() (map[string]models.Ticket, map[string]int, error)
	CommitStates(states []models.TicketState) error
}

type DayLock interface {
	LockDate(date, holderID string) (bool, error)
	UnlockDate(date, holderID string) error
}

type KafkaPublisher interface {
	Publish(topic, key string, value []byte) error
}

type Service struct {
	DB      DBLayer
	Tickets TicketProvider
	Lock    DayLock
	Kafka   KafkaPublisher
	Topics  config.TopicConfig
	Logger  *logger.Logger
}

func NewService(db DBLayer, tickets TicketProvider, lock DayLock, kafka KafkaPublisher, topics config.TopicConfig, log *logger.Logger) *Service {
	return &Service{DB: db, Tickets: tickets, Lock: lock, Kafka: kafka, Topics: topics, Logger: log}
}

func normalizeDate(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("date is required")
	}
	if t, err := time.Parse(models.ReportDateLayout, raw); err == nil {
		return t.Format(models.ReportDateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format(models.ReportDateLayout), nil
	}
	return "", fmt.Errorf("invalid date %q", raw)
}

// buildShift reconciles one shift's raw request into a persistable shift
// record plus its TicketState update candidates.
func (s *Service) buildShift(shiftType string, req models.ShiftRequest, configs map[string]models.Ticket, lastNumbers map[string]int) (*models.ShiftData, []models.TicketState, error) {
	readings := make([]reconcile.Reading, 0, len(req.TicketDetails))
	for _, td := range req.TicketDetails {
		prev := td.PrevNum
		stored, hasStored := lastNumbers[td.TicketID]

		if !prev.Valid && hasStored {
			// Seed the previous reading from the running counter
			prev = models.Int(stored)
		} else if prev.Valid && hasStored && shiftType == models.ShiftA && prev.Int != stored {
			s.Logger.Warn("REPORT", fmt.Sprintf(
				"continuity mismatch for ticket %s: submitted prevNum=%d, stored lastNumber=%d",
				td.TicketID, prev.Int, stored))
		}

		readings = append(readings, reconcile.Reading{
			TicketID: td.TicketID,
			Prev:     prev,
			Current:  td.CurrentNum,
		})
	}

	inputs := reconcile.ShiftInputs{
		OnlineSales:   req.OnlineSales.Amount,
		OnlineCashes:  req.OnlineCashes.Amount,
		InstantCashes: req.InstantCashes.Amount,
		ActualCash:    req.ActualCash.Amount,
	}

	result, err := reconcile.ReconcileShift(readings, configs, inputs)
	if err != nil {
		return nil, nil, err
	}

	shift := &models.ShiftData{
		ID:                  uuid.New().String(),
		ShiftType:           shiftType,
		PersonName:          req.PersonName,
		OnlineSales:         inputs.OnlineSales,
		OnlineCashes:        inputs.OnlineCashes,
		InstantCashes:       inputs.InstantCashes,
		ActualCash:          inputs.ActualCash,
		TotalScratchSales:   result.TotalScratchSales,
		ExpectedScratchCash: result.ExpectedScratchCash,
		TotalExpectedCash:   result.TotalExpectedCash,
		Difference:          result.Difference,
		DataEntered:         req.OnlineSales.Valid && req.ActualCash.Valid,
	}

	for _, line := range result.Lines {
		shift.TicketDetails = append(shift.TicketDetails, &models.TicketDetail{
			ID:          uuid.New().String(),
			ShiftDataID: shift.ID,
			TicketID:    line.TicketID,
			PrevNum:     line.PrevNum,
			CurrentNum:  line.CurrentNum,
			SoldCount:   line.SoldCount,
			TotalAmount: line.TotalAmount,
		})
	}

	states := make([]models.TicketState, 0, len(result.StateUpdates))
	for _, update := range result.StateUpdates {
		states = append(states, models.TicketState{
			TicketID:   update.TicketID,
			LastNumber: update.LastNumber,
		})
	}

	return shift, states, nil
}

// carryForward layers the opening shift's counted readings over the stored
// counters. A closing-shift reading with no prevNum must pick up where the
// opening shift left the book, not where yesterday did, or the opening
// shift's sales get counted twice.
func carryForward(lastNumbers map[string]int, states []models.TicketState) map[string]int {
	carried := make(map[string]int, len(lastNumbers))
	for id, n := range lastNumbers {
		carried[id] = n
	}
	for _, st := range states {
		carried[st.TicketID] = st.LastNumber
	}
	return carried
}

// commitClosingShiftStates is the Shift-B-only state policy: the closing
// shift's ending counters become tomorrow's starting counters. Shift A's
// readings are provisional and never touch the running state.
func (s *Service) commitClosingShiftStates(states []models.TicketState) error {
	if len(states) == 0 {
		return nil
	}
	return s.Tickets.CommitStates(states)
}

func (s *Service) CreateReport(req models.ReportRequest) (*models.DailyReport, error) {
	date, err := normalizeDate(req.Date)
	if err != nil {
		return nil, err
	}

	holder := uuid.New().String()
	locked, err := s.Lock.LockDate(date, holder)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrReportLocked
	}
	defer func() {
		if err := s.Lock.UnlockDate(date, holder); err != nil {
			s.Logger.Error("REPORT", fmt.Sprintf("failed to release day lock for %s: %v", date, err))
		}
	}()

	configs, lastNumbers, err := s.Tickets.ConfigSnapshot()
	if err != nil {
		return nil, err
	}

	shiftA, openingStates, err := s.buildShift(models.ShiftA, req.ShiftA, configs, lastNumbers)
	if err != nil {
		return nil, err
	}
	shiftB, closingStates, err := s.buildShift(models.ShiftB, req.ShiftB, configs, carryForward(lastNumbers, openingStates))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	report := &models.DailyReport{
		ID:        uuid.New().String(),
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
		ShiftData: []*models.ShiftData{shiftA, shiftB},
	}
	shiftA.ReportID = report.ID
	shiftB.ReportID = report.ID

	if err := s.DB.CreateReport(report); err != nil {
		return nil, err
	}

	if err := s.commitClosingShiftStates(closingStates); err != nil {
		return nil, fmt.Errorf("report saved but ticket state commit failed: %w", err)
	}

	s.Logger.LogReport("CREATE", report.ID, fmt.Sprintf("report saved for %s", date))
	s.publishReportEvent(s.Topics.ReportCreated, report)

	return s.DB.GetReportByID(report.ID)
}

func (s *Service) UpdateReport(id string, req models.ReportRequest) (*models.DailyReport, error) {
	existing, err := s.DB.GetReportByID(id)
	if err != nil {
		return nil, err
	}

	date := existing.Date
	if req.Date != "" {
		date, err = normalizeDate(req.Date)
		if err != nil {
			return nil, err
		}
	}

	holder := uuid.New().String()
	locked, err := s.Lock.LockDate(date, holder)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrReportLocked
	}
	defer func() {
		if err := s.Lock.UnlockDate(date, holder); err != nil {
			s.Logger.Error("REPORT", fmt.Sprintf("failed to release day lock for %s: %v", date, err))
		}
	}()

	configs, lastNumbers, err := s.Tickets.ConfigSnapshot()
	if err != nil {
		return nil, err
	}

	shiftA, openingStates, err := s.buildShift(models.ShiftA, req.ShiftA, configs, lastNumbers)
	if err != nil {
		return nil, err
	}
	shiftB, closingStates, err := s.buildShift(models.ShiftB, req.ShiftB, configs, carryForward(lastNumbers, openingStates))
	if err != nil {
		return nil, err
	}

	report := &models.DailyReport{
		ID:        id,
		Date:      date,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now(),
		ShiftData: []*models.ShiftData{shiftA, shiftB},
	}
	shiftA.ReportID = id
	shiftB.ReportID = id

	if err := s.DB.ReplaceReport(report); err != nil {
		return nil, err
	}

	if err := s.commitClosingShiftStates(closingStates); err != nil {
		return nil, fmt.Errorf("report saved but ticket state commit failed: %w", err)
	}

	s.Logger.LogReport("UPDATE", id, fmt.Sprintf("report replaced for %s", date))
	s.publishReportEvent(s.Topics.ReportUpdated, report)

	return s.DB.GetReportByID(id)
}

func (s *Service) GetReport(id string) (*models.DailyReport, error) {
	return s.DB.GetReportByID(id)
}

func (s *Service) ListReports(startDate, endDate string, limit int) ([]models.DailyReport, error) {
	return s.DB.ListReports(startDate, endDate, limit)
}

func (s *Service) DeleteReport(id string) error {
	report, err := s.DB.GetReportByID(id)
	if err != nil {
		return err
	}
	if err := s.DB.DeleteReport(id); err != nil {
		return err
	}
	s.Logger.LogReport("DELETE", id, fmt.Sprintf("report deleted for %s", report.Date))
	s.publishReportEvent(s.Topics.ReportDeleted, report)
	return nil
}

// DailySummary is one day's report rolled up for the dashboard.
type DailySummary struct {
	Date                string               `json:"date"`
	ShiftA              *models.ShiftData    `json:"shiftA"`
	ShiftB              *models.ShiftData    `json:"shiftB"`
	Totals              reconcile.DayTotals  `json:"totals"`
	DifferenceFormatted string               `json:"differenceFormatted"`
}

func (s *Service) DailySummary(date string) (*DailySummary, error) {
	normalized, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}

	report, err := s.DB.GetReportByDate(normalized)
	if err != nil {
		return nil, err
	}

	var shiftA, shiftB *models.ShiftData
	for _, shift := range report.ShiftData {
		switch shift.ShiftType {
		case models.ShiftA:
			shiftA = shift
		case models.ShiftB:
			shiftB = shift
		}
	}

	totals := reconcile.DailyTotals(shiftA, shiftB)
	return &DailySummary{
		Date:                report.Date,
		ShiftA:              shiftA,
		ShiftB:              shiftB,
		Totals:              totals,
		DifferenceFormatted: reconcile.FormatCurrencySigned(totals.TotalDifference),
	}, nil
}

func (s *Service) publishReportEvent(topic string, report *models.DailyReport) {
	if s.Kafka == nil || topic == "" {
		return
	}
	payload, err := json.Marshal(map[string]string{
		"reportId": report.ID,
		"date":     report.Date,
	})
	if err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("failed to marshal report event: %v", err))
		return
	}
	if err := s.Kafka.Publish(topic, report.ID, payload); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("failed to publish %s: %v", topic, err))
	}
}
