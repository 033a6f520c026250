package summaries

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"scratch-tracker/internal/logger"
	"scratch-tracker/internal/models"
)

// ReportSource loads stored reports for a date range. The reports service
// satisfies this directly.
type ReportSource interface {
	ListReports(startDate, endDate string, limit int) ([]models.DailyReport, error)
}

type Service struct {
	Reports ReportSource
	Logger  *logger.Logger
}

func NewService(reports ReportSource, log *logger.Logger) *Service {
	return &Service{Reports: reports, Logger: log}
}

// PeriodTotals are period-wide cash figures summed across every shift.
type PeriodTotals struct {
	TotalSales        decimal.Decimal `json:"totalSales"`
	TotalExpectedCash decimal.Decimal `json:"totalExpectedCash"`
	TotalActualCash   decimal.Decimal `json:"totalActualCash"`
	TotalDifference   decimal.Decimal `json:"totalDifference"`
}

// TicketPerformance accumulates one ticket's movement across a period.
type TicketPerformance struct {
	TotalSold   int             `json:"totalSold"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// EmployeePerformance accumulates one clerk's shifts across a period.
type EmployeePerformance struct {
	Shifts          int             `json:"shifts"`
	TotalSales      decimal.Decimal `json:"totalSales"`
	TotalDifference decimal.Decimal `json:"totalDifference"`
}

type PeriodSummary struct {
	TotalReports        int                            `json:"totalReports"`
	Totals              PeriodTotals                   `json:"totals"`
	TicketPerformance   map[string]TicketPerformance   `json:"ticketPerformance"`
	EmployeePerformance map[string]EmployeePerformance `json:"employeePerformance"`
}

// BuildPeriodSummary aggregates loaded reports into period totals plus
// per-ticket and per-employee breakdowns. Pure over its input.
func BuildPeriodSummary(reports []models.DailyReport) PeriodSummary {
	summary := PeriodSummary{
		TotalReports:        len(reports),
		TicketPerformance:   make(map[string]TicketPerformance),
		EmployeePerformance: make(map[string]EmployeePerformance),
	}

	for _, report := range reports {
		for _, shift := range report.ShiftData {
			summary.Totals.TotalSales = summary.Totals.TotalSales.Add(shift.TotalScratchSales)
			summary.Totals.TotalExpectedCash = summary.Totals.TotalExpectedCash.Add(shift.TotalExpectedCash)
			summary.Totals.TotalActualCash = summary.Totals.TotalActualCash.Add(shift.ActualCash)
			summary.Totals.TotalDifference = summary.Totals.TotalDifference.Add(shift.Difference)

			if shift.PersonName != "" {
				perf := summary.EmployeePerformance[shift.PersonName]
				perf.Shifts++
				perf.TotalSales = perf.TotalSales.Add(shift.TotalScratchSales)
				perf.TotalDifference = perf.TotalDifference.Add(shift.Difference)
				summary.EmployeePerformance[shift.PersonName] = perf
			}

			for _, detail := range shift.TicketDetails {
				name := detail.TicketID
				if detail.Ticket != nil {
					name = detail.Ticket.Name
				}
				perf := summary.TicketPerformance[name]
				perf.TotalSold += detail.SoldCount
				perf.TotalAmount = perf.TotalAmount.Add(detail.TotalAmount)
				summary.TicketPerformance[name] = perf
			}
		}
	}

	return summary
}

func (s *Service) RangeSummary(startDate, endDate string) (*PeriodSummary, error) {
	if startDate == "" || endDate == "" {
		return nil, fmt.Errorf("start date and end date are required")
	}
	reports, err := s.Reports.ListReports(startDate, endDate, 0)
	if err != nil {
		return nil, err
	}
	summary := BuildPeriodSummary(reports)
	return &summary, nil
}

// MonthlySummary covers the whole calendar month of the given year/month.
func (s *Service) MonthlySummary(year, month int) (*PeriodSummary, error) {
	if year <= 0 || month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid year/month %d/%d", year, month)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return s.RangeSummary(start.Format(models.ReportDateLayout), end.Format(models.ReportDateLayout))
}
